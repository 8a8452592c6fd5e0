package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/passim-search/passim/internal/core/domain"
)

var (
	queryLimit int
	queryMode  string
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Retrieve passages for a question",
	Long: `Runs the hybrid retrieval pipeline: dense and keyword (BM25) search,
reciprocal rank fusion and optional reranking, and prints the top
passages.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of passages (0 = default)")
	queryCmd.Flags().StringVar(&queryMode, "mode", "hybrid", "content filter: hybrid, text or table")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	opts := domain.RetrieveOptions{
		FinalK: queryLimit,
		Mode:   domain.RetrievalMode(strings.ToLower(queryMode)),
	}

	passages, err := retrievalService.Retrieve(context.Background(), question, opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputJSON(cmd, passages)
	}
	return outputPassages(cmd, passages)
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputPassages(cmd *cobra.Command, passages []domain.Passage) error {
	if len(passages) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Passages:")
	cmd.Println()
	for i, p := range passages {
		header := p.DocTitle
		if p.SectionTitle != "" {
			header += " / " + p.SectionTitle
		}
		cmd.Printf("[%d] %s%s\n", i+1, header, formatPages(p.Pages))
		cmd.Printf("    %s\n\n", snippet(p.Text, 200))
	}
	return nil
}

func formatPages(pages []int) string {
	if len(pages) == 0 {
		return ""
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprint(p)
	}
	return " (p. " + strings.Join(parts, ", ") + ")"
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
