package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/passim-search/passim/internal/adapters/driving/rest"
	"github.com/passim-search/passim/internal/adapters/driving/watch"
)

var (
	serveHost  string
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serves the REST API: upload, ingest, query, answer, documents and
index maintenance. With --watch the inbox directory is monitored and
dropped files are ingested automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (defaults to the configured host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (defaults to the configured port)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "also watch the inbox directory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfg == nil {
		return errors.New("configuration not loaded")
	}

	restCfg := rest.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		InboxDir: cfg.InboxDir,
	}
	if serveHost != "" {
		restCfg.Host = serveHost
	}
	if servePort != 0 {
		restCfg.Port = servePort
	}

	server, err := rest.NewServer(restCfg, &rest.Ports{
		Ingestion: ingestionService,
		Retrieval: retrievalService,
		Answer:    answerService,
		Admin:     adminService,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		watcher := watch.NewWatcher(ingestionService, cfg.InboxDir, 0)
		go watcher.Run(ctx) //nolint:errcheck
	}

	return server.Run(ctx)
}
