package driving

import (
	"context"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

// Indexer keeps the persisted embedding index in sync with the canvas.
// Snapshots are queued and processed one at a time: a pass's persist step
// completes before the next snapshot begins, so two passes can never race
// on entries for the same shape.
type Indexer interface {
	// Enqueue appends a snapshot to the processing queue. It never blocks
	// on in-flight embedding work.
	Enqueue(snapshot domain.Snapshot)

	// Run drains the queue until the context is cancelled. It blocks and
	// is intended to be started once, in its own goroutine.
	Run(ctx context.Context) error

	// SyncOnce processes a single snapshot synchronously, bypassing the
	// queue. Used by one-shot CLI reindexing. Returns
	// domain.ErrSyncInProgress if a queued pass is mid-flight.
	SyncOnce(ctx context.Context, snapshot domain.Snapshot) error

	// Purge deletes the whole index. It waits for any in-flight pass to
	// finish first, so a purge never races a pass's remove/insert work.
	Purge(ctx context.Context) error

	// Status reports queue depth and pass counters.
	Status() IndexerStatus
}

// IndexerStatus is a point-in-time view of the indexer.
type IndexerStatus struct {
	// QueueDepth is the number of snapshots waiting to be processed.
	QueueDepth int

	// Passes is the number of completed synchronisation passes.
	Passes int

	// ClustersIndexed is the total number of cluster entries written.
	ClustersIndexed int

	// ClustersFailed is the total number of clusters skipped after
	// embedding failures.
	ClustersFailed int
}
