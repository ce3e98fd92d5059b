package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
)

var (
	validateName  string
	validateEmbed bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [text]",
	Short: "Sanitize a text and check it for prohibited terms",
	Long: `Sanitize a text the way generated drafts are sanitized and scan it for
prohibited terms. The text is read from the arguments or, when none are
given, from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(b)
		}
		mode := generator.ModeReport
		if validateEmbed {
			mode = generator.ModeEmbed
		}
		res := generator.Validate(text, validateName, cfg.Terms(), mode)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Text)
		fmt.Fprintln(out, "---")
		fmt.Fprintf(out, "상태: %s\n", res.Status())
		fmt.Fprintf(out, "바이트: %d\n", generator.ByteCount(res.Text))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateName, "name", "", "student name to strip from the text")
	validateCmd.Flags().BoolVar(&validateEmbed, "embed", true, "prefix the text with the warning tag when flagged")
	rootCmd.AddCommand(validateCmd)
}
