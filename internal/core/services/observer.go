package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/core/ports/driving"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// Observer watches canvas mutations and emits a snapshot to the indexer
// only when the board's text content has materially changed: a note's text
// differs, a center moved, or the tracked note count changed. Canvas
// notifications fire on every keystroke and drag tick, and re-embedding is
// expensive and rate-limited, so this suppression is load-bearing.
type Observer struct {
	canvas  driven.Canvas
	indexer driving.Indexer

	mu   sync.Mutex
	prev domain.Snapshot
}

// NewObserver creates an observer over the given canvas, forwarding
// changed snapshots to the indexer.
func NewObserver(canvas driven.Canvas, indexer driving.Indexer) *Observer {
	return &Observer{
		canvas:  canvas,
		indexer: indexer,
	}
}

// Observe reads the current canvas state and reports whether it differs
// from the previously observed snapshot. On change, the new snapshot is
// returned and retained as the comparison baseline; otherwise the second
// return is false and the first is nil.
func (o *Observer) Observe(ctx context.Context) (domain.Snapshot, bool, error) {
	if o.canvas == nil {
		return nil, false, domain.ErrCanvasUnavailable
	}

	notes, err := o.canvas.TextNotes(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("read canvas notes: %w", err)
	}

	snapshot := domain.SnapshotFromNotes(notes)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.prev != nil && snapshot.Equal(o.prev) {
		return nil, false, nil
	}

	logger.Debug("Canvas changed: %d tracked notes (was %d)", len(snapshot), len(o.prev))
	o.prev = snapshot
	return snapshot, true, nil
}

// Watch subscribes to canvas change notifications and enqueues a snapshot
// on every material change. It observes once up front so a pre-existing
// board is indexed at startup, then blocks until the context is cancelled.
func (o *Observer) Watch(ctx context.Context) error {
	if o.canvas == nil {
		return domain.ErrCanvasUnavailable
	}
	if o.indexer == nil {
		return fmt.Errorf("watch: indexer not configured")
	}

	changes := make(chan struct{}, 1)
	unsubscribe := o.canvas.Subscribe(changes)
	defer unsubscribe()

	o.observeAndEnqueue(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			o.observeAndEnqueue(ctx)
		}
	}
}

func (o *Observer) observeAndEnqueue(ctx context.Context) {
	snapshot, changed, err := o.Observe(ctx)
	if err != nil {
		logger.Warn("Observation failed: %v", err)
		return
	}
	if changed {
		o.indexer.Enqueue(snapshot)
	}
}
