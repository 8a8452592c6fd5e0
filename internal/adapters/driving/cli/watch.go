package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/passim-search/passim/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory and ingest new files",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if cfg == nil {
		return errors.New("configuration not loaded")
	}
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.NewWatcher(ingestionService, cfg.InboxDir, 0)
	err := watcher.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
