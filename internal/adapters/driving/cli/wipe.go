package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	wipeStore bool
	wipeYes   bool
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Drop the vector collection",
	Long: `Drops the vector collection. With --store the chunk store, the
keyword index and the ingestion log are cleared too.`,
	RunE: runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeStore, "store", false, "also wipe the chunk store and ingestion log")
	wipeCmd.Flags().BoolVarP(&wipeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(wipeCmd)
}

func runWipe(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	if !wipeYes {
		cmd.Print("This removes all indexed data. Continue? [y/N] ")
		var reply string
		fmt.Fscanln(cmd.InOrStdin(), &reply) //nolint:errcheck
		if reply != "y" && reply != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := adminService.Wipe(context.Background(), wipeStore); err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}
	if wipeStore {
		cmd.Println("Vector collection, chunk store and ingestion log wiped.")
	} else {
		cmd.Println("Vector collection dropped.")
	}
	return nil
}
