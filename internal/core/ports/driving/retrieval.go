package driving

import (
	"context"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

// RetrievalService answers free-text queries against the semantic index.
type RetrievalService interface {
	// Retrieve embeds the query, ranks indexed entries by similarity and
	// maps them back to live canvas shapes. Entries whose originating
	// shape has been deleted are silently dropped. Positions are read
	// live, never from index time.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.Match, error)

	// JumpTo retrieves the top match for the query, selects its shape and
	// centres the viewport on it. Returns domain.ErrNotFound when nothing
	// matches.
	JumpTo(ctx context.Context, query string) (*domain.Match, error)

	// FocalPoint returns the per-axis median position of the given
	// matches, used to aim the viewport and screenshot at the result set.
	FocalPoint(matches []domain.Match) domain.Point2D
}
