package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write the saved results to the result worksheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := record.LoadResults(appFs, cfg.ResultsPath())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no results at %s; run generate first", cfg.ResultsPath())
			}
			return err
		}
		pub, err := buildPublisher(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		n, err := pub.Sync(cmd.Context(), records)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📤 %s 탭에 %d행 기록\n", cfg.Sink.Worksheet, n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
