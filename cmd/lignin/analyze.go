package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/lignin"
)

var (
	flagSerial  bool
	flagWorkers int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a source file, archive, or directory",
	Long:  "Computes per-function cognitive complexity and line metrics. A directory is walked recursively; a .zip, .tar.gz, .tgz, or .tar archive is extracted in memory; anything else is treated as a single source file.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagSerial, "serial", false, "analyze batch entries one at a time instead of in parallel")
	analyzeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker pool size for batch analysis (0 = NumCPU)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := args[0]

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	engine := lignin.New(
		lignin.WithParallel(!flagSerial),
		lignin.WithWorkers(flagWorkers),
	)
	ctx := context.Background()

	if info.IsDir() {
		summary, err := engine.AnalyzeDirectory(ctx, target)
		if err != nil {
			return err
		}
		return outputSummary(summary)
	}

	if isArchivePath(target) {
		blob, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("read %s: %w", target, err)
		}
		summary, err := engine.AnalyzeArchive(ctx, blob)
		if err != nil {
			return err
		}
		return outputSummary(summary)
	}

	source, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read %s: %w", target, err)
	}
	metrics, err := engine.AnalyzeSource(ctx, target, source)
	if err != nil {
		return err
	}
	return outputFileMetrics(filepath.Base(target), metrics)
}

// isArchivePath reports whether the path carries an archive extension.
func isArchivePath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".zip") ||
		strings.HasSuffix(lower, ".tar.gz") ||
		strings.HasSuffix(lower, ".tgz") ||
		strings.HasSuffix(lower, ".tar")
}
