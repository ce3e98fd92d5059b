package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/config"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/logging"
)

var (
	// cfgFile is the path given with --config.
	cfgFile   string
	verbose   bool
	logFormat string

	appFs  afero.Fs = afero.NewOsFs()
	cfg    *config.Config
	logger = zap.NewNop()
	runID  string
)

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

var rootCmd = &cobra.Command{
	Use:   "seteuk",
	Short: "Draft school record narratives from observation logs",
	Long: `seteuk turns teacher observation logs and the class spreadsheet into
draft school record narratives (course, career, autonomous, behavior).

Every generated text is sanitized and checked against the prohibited-term
list before it is written back to the result worksheet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] == "true" {
			return nil
		}
		envFile := config.LoadDotEnv(".")
		c, err := config.Load(config.Options{Path: cfgFile, Fs: appFs})
		if err != nil {
			return err
		}
		if logFormat != "" {
			c.Log.Format = logFormat
		}
		l, err := logging.New(c.Log.Level, c.Log.Format, verbose)
		if err != nil {
			return fmt.Errorf("%w: %v", config.ErrConfiguration, err)
		}
		runID = uuid.NewString()
		cfg = c
		logger = l.With(zap.String("run_id", runID))
		if envFile != "" {
			logger.Debug("loaded env file", zap.String("path", envFile))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./seteuk.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log encoding: console or json")
}

// Execute runs the CLI and returns the process exit code: 2 for
// configuration errors, 1 for any other failure.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		if errors.Is(err, config.ErrConfiguration) {
			return 2
		}
		return 1
	}
	return 0
}
