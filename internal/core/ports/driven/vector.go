package driven

import (
	"context"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

// VectorStore is the persisted semantic index. Entries survive across
// sessions until explicitly removed or the whole store is purged. The
// nearest-neighbour algorithm is the store's concern; callers treat search
// as a black box returning similarity-ranked entries.
//
// A store instance is bound to one storage key (one board's index) at
// construction time.
type VectorStore interface {
	// Add inserts an entry into the index.
	Add(ctx context.Context, entry domain.IndexEntry) error

	// Remove deletes an entry by its unique ID.
	Remove(ctx context.Context, id string) error

	// RemoveByShape deletes every entry whose ShapeID matches, returning
	// the number removed. Used by reconciliation to clear stale entries
	// before re-indexing a cluster.
	RemoveByShape(ctx context.Context, shapeID string) (int, error)

	// Search returns the topK entries most similar to the query vector,
	// ranked by descending similarity.
	Search(ctx context.Context, query []float32, topK int) ([]VectorHit, error)

	// All returns every live entry.
	All(ctx context.Context) ([]domain.IndexEntry, error)

	// Save flushes pending writes to durable storage. Called once per
	// synchronisation pass.
	Save(ctx context.Context) error

	// Purge deletes the entire store for this storage key.
	Purge(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Entry is the matched index entry.
	Entry domain.IndexEntry

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
