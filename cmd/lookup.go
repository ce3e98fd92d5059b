package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/publisher"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup NAME",
	Short: "Print one student's integrated record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := record.LoadResults(appFs, cfg.ResultsPath())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		_, rec, err := record.Find(records, args[0])
		if errors.Is(err, record.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "🔍 검색 실패: '%s' 학생을 찾을 수 없습니다.\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), publisher.StudentMarkdown(rec, cfg.Terms()))
		logger.Debug("lookup",
			zap.String("name", rec.Name),
			zap.String("status", generator.RecordStatus(rec, cfg.Terms())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
