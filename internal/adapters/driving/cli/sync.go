package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the index with the board",
	Long: `Reads the current board state, clusters its text notes spatially and
reconciles the embedding index in one pass. Unchanged notes keep their
existing entries; moved, edited and deleted notes are re-indexed.`,
	RunE: runSync,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the entire index for this board",
	RunE:  runPurge,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show indexer status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(statusCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if indexerService == nil || boardCanvas == nil {
		return errors.New("indexer not configured")
	}

	ctx := context.Background()

	notes, err := boardCanvas.TextNotes(ctx)
	if err != nil {
		return fmt.Errorf("reading board: %w", err)
	}

	snapshot := domain.SnapshotFromNotes(notes)
	if err := indexerService.SyncOnce(ctx, snapshot); err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			return errors.New("a synchronisation pass is already running")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	status := indexerService.Status()
	cmd.Printf("Synchronised %d notes (%d clusters indexed, %d failed)\n",
		len(snapshot), status.ClustersIndexed, status.ClustersFailed)
	return nil
}

func runPurge(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if indexerService == nil {
		return errors.New("indexer not configured")
	}

	if err := indexerService.Purge(context.Background()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	cmd.Println("Index purged.")
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if indexerService == nil {
		return errors.New("indexer not configured")
	}

	status := indexerService.Status()
	cmd.Println("Indexer status:")
	cmd.Printf("  Queue depth:      %d\n", status.QueueDepth)
	cmd.Printf("  Passes completed: %d\n", status.Passes)
	cmd.Printf("  Clusters indexed: %d\n", status.ClustersIndexed)
	cmd.Printf("  Clusters failed:  %d\n", status.ClustersFailed)
	return nil
}
