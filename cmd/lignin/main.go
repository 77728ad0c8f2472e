package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagFormat string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "lignin",
	Short:         "Cognitive complexity and line metrics for JavaScript and TypeScript",
	Long:          "Lignin parses source files with tree-sitter and reports per-function cognitive complexity, line counts, and batch summaries for archives and directories.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
}
