// Package memory provides an in-memory vector store. It backs ephemeral
// sessions and tests where index persistence is not wanted.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory implementation of driven.VectorStore.
type Store struct {
	mu      sync.RWMutex
	entries map[string]domain.IndexEntry
}

// NewStore creates a new in-memory vector store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]domain.IndexEntry),
	}
}

// Add inserts an entry into the index.
func (s *Store) Add(_ context.Context, entry domain.IndexEntry) error {
	if entry.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	return nil
}

// Remove deletes an entry by its unique ID.
func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// RemoveByShape deletes every entry whose shape ID matches and returns the
// number removed.
func (s *Store) RemoveByShape(_ context.Context, shapeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if entry.ShapeID == shapeID {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Search returns the topK entries most similar to the query vector, ranked
// by descending cosine similarity. Ties break on entry ID for determinism.
func (s *Store) Search(_ context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(s.entries))
	for _, entry := range s.entries {
		hits = append(hits, driven.VectorHit{
			Entry:      entry,
			Similarity: cosineSimilarity(query, entry.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Entry.ID < hits[j].Entry.ID
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// All returns every live entry.
func (s *Store) All(_ context.Context) ([]domain.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.IndexEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

// Save is a no-op for the in-memory store.
func (s *Store) Save(_ context.Context) error {
	return nil
}

// Purge deletes every entry.
func (s *Store) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]domain.IndexEntry)
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// cosineSimilarity computes the cosine similarity of two vectors. Mismatched
// lengths and zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
