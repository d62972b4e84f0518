package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/core/ports/driving"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// Ensure Retrieval implements the interface.
var _ driving.RetrievalService = (*Retrieval)(nil)

// Retrieval answers free-text queries: it embeds the query, ranks index
// entries by similarity, and maps hits back to live canvas shapes.
type Retrieval struct {
	store   driven.VectorStore
	gateway *EmbeddingGateway
	canvas  driven.Canvas
}

// NewRetrieval creates a retrieval service.
func NewRetrieval(store driven.VectorStore, gateway *EmbeddingGateway, canvas driven.Canvas) *Retrieval {
	return &Retrieval{
		store:   store,
		gateway: gateway,
		canvas:  canvas,
	}
}

// Retrieve embeds the query and returns the topK most similar entries that
// still resolve to live shapes. Entries whose shape has been deleted since
// indexing are dropped silently - an expected condition, not an error.
// Positions are read live from the canvas, never cached from index time.
func (r *Retrieval) Retrieve(ctx context.Context, query string, topK int) ([]domain.Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Match{}, nil
	}
	if topK <= 0 {
		topK = 1
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, topK: %d", query, topK)

	embedding, err := r.gateway.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.store.Search(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Index returned %d hits", len(hits))

	matches := make([]domain.Match, 0, len(hits))
	for _, hit := range hits {
		bounds, err := r.canvas.ShapeBounds(ctx, hit.Entry.ShapeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Shape %s no longer on canvas, dropping hit", hit.Entry.ShapeID)
				continue
			}
			return nil, fmt.Errorf("resolve shape %s: %w", hit.Entry.ShapeID, err)
		}
		matches = append(matches, domain.Match{
			Entry:      hit.Entry,
			Similarity: hit.Similarity,
			Center:     bounds.Center(),
		})
	}

	logger.Info("Retrieved %d live matches", len(matches))
	return matches, nil
}

// JumpTo retrieves the top match, selects its shape and centres the
// viewport on its current position.
func (r *Retrieval) JumpTo(ctx context.Context, query string) (*domain.Match, error) {
	matches, err := r.Retrieve(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrNotFound
	}

	match := matches[0]
	if err := r.canvas.Select(ctx, match.Entry.ShapeID); err != nil {
		return nil, fmt.Errorf("select shape: %w", err)
	}
	if err := r.canvas.CenterOn(ctx, match.Center); err != nil {
		return nil, fmt.Errorf("center viewport: %w", err)
	}

	return &match, nil
}

// FocalPoint returns the per-axis median of the matches' live positions.
func (r *Retrieval) FocalPoint(matches []domain.Match) domain.Point2D {
	points := make([]domain.Point2D, len(matches))
	for i, m := range matches {
		points[i] = m.Center
	}
	return domain.MedianPoint(points)
}
