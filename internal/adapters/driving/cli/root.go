// Package cli implements the passim command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/passim-search/passim/internal/config"
	"github.com/passim-search/passim/internal/core/ports/driving"
	"github.com/passim-search/passim/internal/logger"
)

var (
	version = "dev"
	verbose bool

	cfg              *config.Config
	ingestionService driving.IngestionService
	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
	adminService     driving.AdminService
)

var rootCmd = &cobra.Command{
	Use:   "passim",
	Short: "Hybrid document search and question answering",
	Long: `Passim ingests documents into a hybrid index that combines keyword
(BM25) and semantic (vector) search, and answers questions over the
indexed passages with citations.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services aggregates the driving ports the CLI commands run against.
type Services struct {
	Config    *config.Config
	Ingestion driving.IngestionService
	Retrieval driving.RetrievalService
	Answer    driving.AnswerService
	Admin     driving.AdminService
}

// Execute runs the root command with the given version and services.
func Execute(v string, s Services) error {
	version = v
	cfg = s.Config
	ingestionService = s.Ingestion
	retrievalService = s.Retrieval
	answerService = s.Answer
	adminService = s.Admin
	return rootCmd.Execute()
}
