package lignin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/lignin/internal/archive"
	"github.com/jward/lignin/internal/lang"
	"github.com/jward/lignin/internal/metrics"
)

// ErrUnsupportedExtension is returned by AnalyzeSource for file names whose
// extension maps to no known grammar.
var ErrUnsupportedExtension = errors.New("lignin: unsupported file extension")

// Engine orchestrates the metrics pipeline: parsing, function collection,
// complexity scoring, and batch aggregation. An Engine holds no per-request
// state and may serve concurrent analyses.
type Engine struct {
	languages   map[lang.Language]bool // nil means all
	useParallel bool
	workers     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will analyze.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[lang.Language]bool, len(languages))
		for _, l := range languages {
			e.languages[lang.Language(l)] = true
		}
	}
}

// WithParallel controls batch scheduling. When true (default), AnalyzeEntries
// fans entries out to a worker pool; each analysis is a pure function of
// (path, source), so no coordination is needed and result ordering is
// preserved either way. Set to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithWorkers caps the worker pool size. Zero or negative means NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		useParallel: true, // default to the worker pool
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AnalyzeSource parses one file's source text and collects its metrics. The
// file name only selects the grammar; nothing is read from disk. A syntax
// error surfaces as a *lang.ParseError.
func (e *Engine) AnalyzeSource(ctx context.Context, fileName string, source []byte) (*FileMetrics, error) {
	language, ok := lang.ForFile(fileName)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedExtension, filepath.Ext(fileName))
	}
	if e.languages != nil && !e.languages[language] {
		return nil, fmt.Errorf("lignin: language %s is filtered out", language)
	}

	tree, err := lang.Parse(ctx, source, language)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return metrics.Collect(tree.RootNode(), source)
}

// AnalyzeEntries analyzes a batch of (path, source) entries and aggregates
// them into an ArchiveSummary. One entry's failure becomes that entry's
// error-variant FileResult and never aborts its siblings. Root detection
// runs over the entry paths themselves; callers holding a wider raw layout
// (an archive with non-source members) detect the root from that layout
// instead — see AnalyzeArchive.
func (e *Engine) AnalyzeEntries(ctx context.Context, entries []Entry) *ArchiveSummary {
	paths := make([]string, len(entries))
	for i := range entries {
		paths[i] = archive.NormalizePath(entries[i].Path)
	}

	var rootFolder *string
	if root, ok := archive.DetectRoot(paths); ok {
		rootFolder = &root
	}
	return e.summarize(ctx, entries, rootFolder)
}

// summarize runs the batch and assembles the ArchiveSummary. When rootFolder
// is set, reported file names are relative to it.
func (e *Engine) summarize(ctx context.Context, entries []Entry, rootFolder *string) *ArchiveSummary {
	names := make([]string, len(entries))
	for i := range entries {
		names[i] = archive.NormalizePath(entries[i].Path)
		if rootFolder != nil {
			names[i] = strings.TrimPrefix(names[i], *rootFolder+"/")
		}
	}

	var results []FileResult
	if e.useParallel && len(entries) > 1 {
		results = e.analyzeEntriesParallel(ctx, entries, names)
	} else {
		results = make([]FileResult, len(entries))
		for i, entry := range entries {
			results[i] = e.analyzeEntry(ctx, entry, names[i])
		}
	}

	return &ArchiveSummary{
		RootFolder: rootFolder,
		TotalFiles: len(results),
		Results:    results,
	}
}

// analyzeEntry converts one entry into its FileResult. A parse failure is
// caught here, at the per-file boundary, and becomes the error variant.
func (e *Engine) analyzeEntry(ctx context.Context, entry Entry, displayName string) FileResult {
	m, err := e.AnalyzeSource(ctx, entry.Path, entry.Source)
	if err != nil {
		return FileResult{FileName: displayName, Error: err.Error()}
	}
	return FileResult{FileName: displayName, Metrics: m}
}

// AnalyzeArchive extracts a zip, tar.gz, or tar blob and analyzes every
// recognized source file in it. Root detection runs over the archive's raw
// member list, not the filtered source entries: a top-level README defeats
// detection even though it is never analyzed.
func (e *Engine) AnalyzeArchive(ctx context.Context, blob []byte) (*ArchiveSummary, error) {
	entries, rawPaths, err := archive.Extract(blob)
	if err != nil {
		return nil, err
	}

	var rootFolder *string
	if root, ok := archive.DetectRoot(rawPaths); ok {
		rootFolder = &root
	}
	return e.summarize(ctx, entries, rootFolder), nil
}

// AnalyzeDirectory walks root depth-first, in natural enumeration order, and
// analyzes every file with a recognized source extension. Hidden directories
// and ignored directories (version-control metadata, dependency caches,
// build output) are pruned, never descended into. File names are reported
// relative to root as given; no root-folder rebasing applies to directory
// walks.
func (e *Engine) AnalyzeDirectory(ctx context.Context, root string) (*ArchiveSummary, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != root && (strings.HasPrefix(name, ".") || archive.IgnoredDir(name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := lang.ForFile(p); !ok {
			return nil
		}
		source, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		entries = append(entries, Entry{Path: filepath.ToSlash(rel), Source: source})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lignin: walk directory: %w", err)
	}
	return e.summarize(ctx, entries, nil), nil
}
