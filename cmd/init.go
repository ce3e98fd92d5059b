package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/config"
)

var initCmd = &cobra.Command{
	Use:         "init [path]",
	Short:       "Write a config template with every default",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "seteuk.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteTemplate(appFs, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ 설정 템플릿 생성: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
