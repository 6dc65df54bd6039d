// Package cli implements the quackview command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if getOutputFormat(rootCmd) == "json" {
			_ = printJSON(os.Stdout, map[string]string{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quackview",
		Short:         "Spreadsheet analysis engine",
		Long:          "QuackView turns uploaded spreadsheets into queryable tables and compiles structured analysis requests into SQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			bindEnvOverride(cmd.Flags(), "output", "QUACKVIEW_OUTPUT")
		},
	}

	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table, json)")

	rootCmd.AddCommand(
		newServeCmd(),
		newDescribeCmd(),
		newAnalyzeCmd(),
		newQueryCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// bindEnvOverride applies an environment variable to a flag that was not
// set explicitly. Precedence: flag > env > default.
func bindEnvOverride(fs *pflag.FlagSet, name, env string) {
	if fs.Changed(name) {
		return
	}
	if v := os.Getenv(env); v != "" {
		_ = fs.Set(name, v)
	}
}

func getOutputFormat(cmd *cobra.Command) string {
	output, err := cmd.Flags().GetString("output")
	if err != nil || output == "" {
		return "table"
	}
	return output
}
