package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/passim-search/passim/internal/core/domain"
)

var (
	answerLimit int
	answerMode  string
	answerJSON  bool
)

var answerCmd = &cobra.Command{
	Use:   "answer [question]",
	Short: "Answer a question from the indexed documents",
	Long: `Retrieves the most relevant passages and generates a grounded answer
with citations. Falls back through the configured providers until one
succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnswer,
}

func init() {
	answerCmd.Flags().IntVarP(&answerLimit, "limit", "n", 0, "maximum number of passages (0 = default)")
	answerCmd.Flags().StringVar(&answerMode, "mode", "hybrid", "content filter: hybrid, text or table")
	answerCmd.Flags().BoolVar(&answerJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(answerCmd)
}

func runAnswer(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerService == nil {
		return errors.New("answer service not configured")
	}

	opts := domain.RetrieveOptions{
		FinalK: answerLimit,
		Mode:   domain.RetrievalMode(strings.ToLower(answerMode)),
	}

	answer, _, err := answerService.Answer(context.Background(), question, opts)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if answerJSON {
		return outputJSON(cmd, answer)
	}

	cmd.Println(answer.Answer)
	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, c := range answer.Citations {
			cmd.Printf("  [%d] %s%s\n", i+1, c.DocTitle, formatPages(c.Pages))
		}
	}
	cmd.Printf("\n(provider: %s)\n", answer.Provider)
	return nil
}
