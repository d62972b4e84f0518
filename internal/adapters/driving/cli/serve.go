package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/boardsense/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/boardsense/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board watcher and HTTP API",
	Long: `Watches the board document for changes, keeps the embedding index in
sync and serves the chat relay API. Runs until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if observerService == nil || indexerService == nil {
		return errors.New("indexing pipeline not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := httpapi.New(serveAddr, chatService)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return indexerService.Run(gctx)
	})

	g.Go(func() error {
		return observerService.Watch(gctx)
	})

	g.Go(func() error {
		return server.Listen()
	})

	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown()
	})

	cmd.Printf("Serving on %s (ctrl-c to stop)\n", serveAddr)

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("shut down cleanly")
	return nil
}
