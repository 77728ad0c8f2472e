package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jward/lignin"
)

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q (expected one of: json, text)", format)
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputFileMetrics prints a single file's metrics in the selected format.
func outputFileMetrics(fileName string, m *lignin.FileMetrics) error {
	if flagFormat == "json" {
		return outputJSON(m)
	}

	w := io.Writer(os.Stdout)
	fmt.Fprintf(w, "File: %s\n", fileName)
	fmt.Fprintf(w, "Lines: %d total, %d non-blank\n", m.TotalLines, m.NonBlankLines)
	fmt.Fprintf(w, "Functions: %d\n", m.FunctionCount)
	if len(m.Functions) > 0 {
		fmt.Fprintln(w)
		formatFunctionsText(w, m.Functions)
	}
	return nil
}

// outputSummary prints a batch summary in the selected format.
func outputSummary(summary *lignin.ArchiveSummary) error {
	if flagFormat == "json" {
		return outputJSON(summary)
	}

	w := io.Writer(os.Stdout)
	if summary.RootFolder != nil {
		fmt.Fprintf(w, "Root folder: %s\n", *summary.RootFolder)
	}
	fmt.Fprintf(w, "Files analyzed: %d\n\n", summary.TotalFiles)

	for _, result := range summary.Results {
		if result.Error != "" {
			fmt.Fprintf(w, "%s: ERROR: %s\n\n", result.FileName, result.Error)
			continue
		}
		m := result.Metrics
		fmt.Fprintf(w, "%s: %d lines, %d non-blank, %d functions\n",
			result.FileName, m.TotalLines, m.NonBlankLines, m.FunctionCount)
		if len(m.Functions) > 0 {
			formatFunctionsText(w, m.Functions)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// formatFunctionsText prints function records as aligned columns.
func formatFunctionsText(w io.Writer, functions []lignin.FunctionRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tNLOC\tCOMPLEXITY\tLINES")
	for _, fn := range functions {
		lines := "-"
		if fn.StartLine != nil && fn.EndLine != nil {
			lines = fmt.Sprintf("%d-%d", *fn.StartLine, *fn.EndLine)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", fn.Name, fn.NLOCCount, fn.CognitiveComplexity, lines)
	}
	tw.Flush()
}
