package lignin

import (
	"github.com/jward/lignin/internal/archive"
	"github.com/jward/lignin/internal/metrics"
)

// Public type aliases for internal types used in the Engine API. These are
// Go type aliases (=) — identical to the internal types at compile time.

type Entry = archive.Entry
type FunctionRecord = metrics.FunctionRecord
type FileMetrics = metrics.FileMetrics

// FileResult is the per-file outcome of a batch analysis: a two-variant
// result with exactly one of Metrics or Error populated.
type FileResult struct {
	FileName string       `json:"fileName"`
	Metrics  *FileMetrics `json:"metrics,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// ArchiveSummary aggregates a batch of file analyses. RootFolder is the
// single top-level folder shared by every entry, or nil when none exists;
// when set, result file names are relative to it. Results preserve the order
// in which files were discovered.
type ArchiveSummary struct {
	RootFolder *string      `json:"rootFolder"`
	TotalFiles int          `json:"totalFiles"`
	Results    []FileResult `json:"results"`
}
