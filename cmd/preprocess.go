package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/pipeline"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Group the observation log CSV into structured per-student JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := &pipeline.Runner{
			Fs: appFs,
			Paths: pipeline.Paths{
				Source:     cfg.SourcePath,
				Structured: cfg.StructuredPath,
			},
			Logger: logger,
		}
		n, err := r.Preprocess()
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠️ 관찰 기록 없음: %s\n", cfg.SourcePath)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ 전처리 완료: 학생 %d명 → %s\n", n, cfg.StructuredPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(preprocessCmd)
}
