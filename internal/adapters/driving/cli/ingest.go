package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestTitle string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a file or directory into the index",
	Long: `Parses, chunks and embeds the given file and writes it into the
vector and keyword indexes. For a directory every regular file is
ingested; unchanged files are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (single file only, defaults to the file name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	ctx := context.Background()
	if !info.IsDir() {
		result, err := ingestionService.IngestFile(ctx, path, ingestTitle)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		cmd.Printf("%s: %s (%d chunks)\n", path, result.Outcome, result.ChunkCount)
		return nil
	}

	reports, err := ingestionService.IngestDirectory(ctx, path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	for _, r := range reports {
		switch {
		case r.Skipped:
			cmd.Printf("%s: skipped (unchanged)\n", r.File)
		case r.Error != "":
			cmd.Printf("%s: FAILED: %s\n", r.File, r.Error)
		default:
			cmd.Printf("%s: %s (%d chunks)\n", r.File, r.Result.Outcome, r.Result.ChunkCount)
		}
	}
	return nil
}
