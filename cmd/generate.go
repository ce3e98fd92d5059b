package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/pipeline"
)

var (
	noSync       bool
	withReport   bool
	skipFailures bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run preprocessing, generation, integration and sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if skipFailures {
			cfg.Generation.SkipFailures = true
		}
		engine, err := buildEngine(ctx, cfg)
		if err != nil {
			return err
		}
		sheets, err := buildSheets(ctx, cfg)
		if err != nil {
			return err
		}

		r := &pipeline.Runner{
			Fs: appFs,
			Paths: pipeline.Paths{
				Source:     cfg.SourcePath,
				Structured: cfg.StructuredPath,
				Results:    cfg.ResultsPath(),
			},
			Engine: engine,
			Tabs:   cfg.Tabs,
			Logger: logger,
		}
		if sheets != nil {
			r.Homeroom = sheets
		} else {
			logger.Warn("no spreadsheet configured; homeroom areas skipped")
		}
		if withReport {
			r.Paths.ReportDir = cfg.OutputDir
		}
		if !noSync {
			pub, err := buildPublisher(ctx, cfg, sheets)
			if err != nil {
				return err
			}
			r.Publisher = pub
		}

		progress := newProgressPrinter(cmd.ErrOrStderr())
		r.Progress = progress.update
		summary, err := r.Run(ctx)
		progress.finish()
		if err != nil {
			return err
		}
		printSummary(cmd, summary)
		return nil
	},
}

func printSummary(cmd *cobra.Command, s pipeline.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ 학생 %d명 통합 (교과 %d, 담임 %d) → %s\n", s.Students, s.CourseDone, s.HomeroomDone, cfg.ResultsPath())
	if len(s.Failed) > 0 {
		fmt.Fprintf(out, "⚠️ 생성 실패: %s\n", strings.Join(s.Failed, ", "))
	}
	if len(s.MissingTabs) > 0 {
		fmt.Fprintf(out, "⚠️ 없는 탭: %s\n", strings.Join(s.MissingTabs, ", "))
	}
	if s.ReportMarkdown != "" {
		fmt.Fprintf(out, "📄 리포트: %s, %s\n", s.ReportMarkdown, s.ReportHTML)
	}
	if s.Synced > 0 {
		fmt.Fprintf(out, "📤 %s 탭에 %d행 기록\n", cfg.Sink.Worksheet, s.Synced)
	}
	logger.Info("generate finished",
		zap.Int("students", s.Students),
		zap.Int("failed", len(s.Failed)),
		zap.Int("synced", s.Synced))
}

func init() {
	generateCmd.Flags().BoolVar(&noSync, "no-sync", false, "skip writing to the result worksheet")
	generateCmd.Flags().BoolVar(&withReport, "report", false, "also write report.md and report.html to output_dir")
	generateCmd.Flags().BoolVar(&skipFailures, "skip-failures", false, "record failed students and keep going")
	rootCmd.AddCommand(generateCmd)
}
