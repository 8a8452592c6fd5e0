package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List indexed documents",
	RunE:  runDocuments,
}

func init() {
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output the listing as JSON")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	docs, err := retrievalService.Documents(context.Background())
	if err != nil {
		return fmt.Errorf("listing documents failed: %w", err)
	}

	if documentsJSON {
		return outputJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}
	for _, d := range docs {
		cmd.Printf("%s  %s (%d chunks)\n", d.DocID, d.Title, d.ChunkCount)
	}
	return nil
}
