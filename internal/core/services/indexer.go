package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/core/ports/driving"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.Indexer = (*Indexer)(nil)

// DefaultEmbedConcurrency is how many cluster embeddings may run at once
// within one synchronisation pass.
const DefaultEmbedConcurrency = 5

// Indexer reconciles spatial clusters against the persisted vector store.
//
// Passes are serialised: snapshots queue in FIFO order and the drain loop
// finishes one pass - cluster, embed, reconcile, persist - before starting
// the next. Embedding calls within a pass run concurrently (they are
// independent); the persist step is the pass boundary. Two concurrent
// passes could otherwise race on removing and inserting entries for the
// same shape and leave duplicates or holes.
type Indexer struct {
	store     driven.VectorStore
	gateway   *EmbeddingGateway
	threshold float64
	parallel  int

	// passMu serialises passes and purges. Purge waits on it, so a purge
	// never interleaves with an in-flight pass.
	passMu sync.Mutex

	queueMu sync.Mutex
	pending []domain.Snapshot
	wake    chan struct{}

	statusMu sync.Mutex
	status   driving.IndexerStatus
}

// IndexerConfig holds tunables for the indexer.
type IndexerConfig struct {
	// ClusterThreshold is the spatial clustering distance threshold
	// (default domain.DefaultClusterThreshold).
	ClusterThreshold float64

	// EmbedConcurrency bounds concurrent embedding calls within one pass
	// (default DefaultEmbedConcurrency).
	EmbedConcurrency int
}

// NewIndexer creates an indexer over the given store and gateway.
func NewIndexer(store driven.VectorStore, gateway *EmbeddingGateway, cfg IndexerConfig) *Indexer {
	if cfg.ClusterThreshold <= 0 {
		cfg.ClusterThreshold = domain.DefaultClusterThreshold
	}
	if cfg.EmbedConcurrency <= 0 {
		cfg.EmbedConcurrency = DefaultEmbedConcurrency
	}
	return &Indexer{
		store:     store,
		gateway:   gateway,
		threshold: cfg.ClusterThreshold,
		parallel:  cfg.EmbedConcurrency,
		wake:      make(chan struct{}, 1),
	}
}

// Enqueue appends a snapshot to the processing queue without blocking on
// in-flight work.
func (ix *Indexer) Enqueue(snapshot domain.Snapshot) {
	ix.queueMu.Lock()
	ix.pending = append(ix.pending, snapshot)
	depth := len(ix.pending)
	ix.queueMu.Unlock()

	logger.Debug("Snapshot enqueued (queue depth %d)", depth)

	// Coalesced wakeup; the drain loop empties the whole queue.
	select {
	case ix.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until the context is cancelled.
func (ix *Indexer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ix.wake:
			for {
				snapshot, ok := ix.dequeue()
				if !ok {
					break
				}
				if err := ix.syncPass(ctx, snapshot); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					logger.Warn("Indexing pass failed: %v", err)
				}
			}
		}
	}
}

// SyncOnce processes a single snapshot synchronously, bypassing the queue.
func (ix *Indexer) SyncOnce(ctx context.Context, snapshot domain.Snapshot) error {
	if !ix.passMu.TryLock() {
		return domain.ErrSyncInProgress
	}
	defer ix.passMu.Unlock()
	return ix.runPass(ctx, snapshot)
}

// Purge deletes the whole index. It acquires the pass lock first, so any
// in-flight pass completes (including its persist step) before the store
// is cleared.
func (ix *Indexer) Purge(ctx context.Context) error {
	ix.passMu.Lock()
	defer ix.passMu.Unlock()

	if err := ix.store.Purge(ctx); err != nil {
		return fmt.Errorf("purge index: %w", err)
	}
	logger.Info("Index purged")
	return nil
}

// Status reports queue depth and pass counters.
func (ix *Indexer) Status() driving.IndexerStatus {
	ix.queueMu.Lock()
	depth := len(ix.pending)
	ix.queueMu.Unlock()

	ix.statusMu.Lock()
	defer ix.statusMu.Unlock()
	status := ix.status
	status.QueueDepth = depth
	return status
}

func (ix *Indexer) dequeue() (domain.Snapshot, bool) {
	ix.queueMu.Lock()
	defer ix.queueMu.Unlock()
	if len(ix.pending) == 0 {
		return nil, false
	}
	snapshot := ix.pending[0]
	ix.pending = ix.pending[1:]
	return snapshot, true
}

func (ix *Indexer) syncPass(ctx context.Context, snapshot domain.Snapshot) error {
	ix.passMu.Lock()
	defer ix.passMu.Unlock()
	return ix.runPass(ctx, snapshot)
}

// runPass performs one full synchronisation pass. Caller must hold passMu.
func (ix *Indexer) runPass(ctx context.Context, snapshot domain.Snapshot) error {
	if ix.gateway == nil {
		return domain.ErrEmbeddingUnavailable
	}

	logger.Section("Indexing Pass")

	clusters := BuildClusters(snapshot, ix.threshold)

	// Clusters whose combined text is empty produce no index activity:
	// no removals, no embedding calls, no writes.
	live := make([]*domain.Cluster, 0, len(clusters))
	for _, c := range clusters {
		if c.CombinedText() != "" {
			live = append(live, c)
		}
	}

	var indexed, failed int
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.parallel)
	for _, c := range live {
		g.Go(func() error {
			if err := ix.syncCluster(gctx, c); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// One bad cluster must not block indexing the rest of
				// the board.
				logger.Warn("Cluster %s skipped: %v", c.Representative(), err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			indexed++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// One persist per pass. A storage failure is logged, not fatal: the
	// index is simply not durable for this cycle.
	if err := ix.store.Save(ctx); err != nil {
		logger.Warn("Persisting index failed: %v", err)
	}

	ix.statusMu.Lock()
	ix.status.Passes++
	ix.status.ClustersIndexed += indexed
	ix.status.ClustersFailed += failed
	ix.statusMu.Unlock()

	logger.Info("Pass complete: %d clusters indexed, %d failed", indexed, failed)
	return nil
}

// syncCluster reconciles one cluster: stale entries for every member shape
// are removed before the new entry is written, so a shape that moved or
// was edited never leaves duplicate semantic content behind.
func (ix *Indexer) syncCluster(ctx context.Context, c *domain.Cluster) error {
	for _, shapeID := range c.ShapeIDs() {
		removed, err := ix.store.RemoveByShape(ctx, shapeID)
		if err != nil {
			return fmt.Errorf("remove stale entries for %s: %w", shapeID, err)
		}
		if removed > 0 {
			logger.Debug("Removed %d stale entries for shape %s", removed, shapeID)
		}
	}

	text := c.CombinedText()
	embedding, err := ix.gateway.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed cluster: %w", err)
	}

	entry := domain.IndexEntry{
		ID:        uuid.NewString(),
		Name:      text,
		Embedding: embedding,
		ShapeID:   c.Representative(),
	}
	if err := ix.store.Add(ctx, entry); err != nil {
		return fmt.Errorf("add entry: %w", err)
	}

	logger.Debug("Indexed cluster %s (%d members, %d chars)", entry.ShapeID, len(c.Members), len(text))
	return nil
}
