package lignin

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/lignin/internal/lang"
)

// =============================================================================
// AnalyzeSource
// =============================================================================

func TestAnalyzeSource_HappyPath(t *testing.T) {
	t.Parallel()
	engine := New()

	m, err := engine.AnalyzeSource(context.Background(), "app.js", []byte(`
function greet(name) {
  if (!name) return "hello";
  return "hello " + name;
}
`))
	require.NoError(t, err)

	assert.Equal(t, 1, m.FunctionCount)
	assert.Equal(t, "greet", m.Functions[0].Name)
	assert.Equal(t, 1, m.Functions[0].CognitiveComplexity)
}

func TestAnalyzeSource_UnsupportedExtension(t *testing.T) {
	t.Parallel()
	engine := New()

	_, err := engine.AnalyzeSource(context.Background(), "main.py", []byte("pass"))
	require.ErrorIs(t, err, ErrUnsupportedExtension)
	assert.Contains(t, err.Error(), ".py")
}

func TestAnalyzeSource_SyntaxError(t *testing.T) {
	t.Parallel()
	engine := New()

	_, err := engine.AnalyzeSource(context.Background(), "bad.js", []byte("function ( {"))
	var parseErr *lang.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestAnalyzeSource_LanguageFilter(t *testing.T) {
	t.Parallel()
	engine := New(WithLanguages("javascript"))

	_, err := engine.AnalyzeSource(context.Background(), "ok.js", []byte("const a = 1;"))
	require.NoError(t, err)

	_, err = engine.AnalyzeSource(context.Background(), "skip.ts", []byte("const a = 1;"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filtered out")
}

// =============================================================================
// AnalyzeEntries
// =============================================================================

func TestAnalyzeEntries_SharedRootIsStripped(t *testing.T) {
	t.Parallel()
	engine := New()

	summary := engine.AnalyzeEntries(context.Background(), []Entry{
		{Path: "pkg/a.js", Source: []byte("const a = 1;\n")},
		{Path: "pkg/sub/b.js", Source: []byte("const b = 2;\n")},
	})

	require.NotNil(t, summary.RootFolder)
	assert.Equal(t, "pkg", *summary.RootFolder)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, "a.js", summary.Results[0].FileName)
	assert.Equal(t, "sub/b.js", summary.Results[1].FileName)
}

func TestAnalyzeEntries_NoSharedRootKeepsFullPaths(t *testing.T) {
	t.Parallel()
	engine := New()

	summary := engine.AnalyzeEntries(context.Background(), []Entry{
		{Path: "a.js", Source: []byte("1;\n")},
		{Path: "pkg/b.js", Source: []byte("2;\n")},
	})

	assert.Nil(t, summary.RootFolder)
	assert.Equal(t, "a.js", summary.Results[0].FileName)
	assert.Equal(t, "pkg/b.js", summary.Results[1].FileName)
}

func TestAnalyzeEntries_ErrorsAreIsolated(t *testing.T) {
	t.Parallel()
	engine := New()

	summary := engine.AnalyzeEntries(context.Background(), []Entry{
		{Path: "good.js", Source: []byte("const a = 1;\n")},
		{Path: "broken.js", Source: []byte("function ( {")},
		{Path: "also-good.js", Source: []byte("const b = 2;\n")},
	})

	require.Len(t, summary.Results, 3)
	assert.NotNil(t, summary.Results[0].Metrics)
	assert.Empty(t, summary.Results[0].Error)

	assert.Nil(t, summary.Results[1].Metrics)
	assert.Contains(t, summary.Results[1].Error, "syntax error")

	assert.NotNil(t, summary.Results[2].Metrics)
}

func TestAnalyzeEntries_ParallelMatchesSerial(t *testing.T) {
	t.Parallel()

	entries := make([]Entry, 0, 20)
	for i := 0; i < 10; i++ {
		entries = append(entries,
			Entry{Path: "src/ok.js", Source: []byte("function f() { if (x) return 1; }\n")},
			Entry{Path: "src/bad.js", Source: []byte("function ( {")},
		)
	}

	serial := New(WithParallel(false)).AnalyzeEntries(context.Background(), entries)
	parallel := New(WithParallel(true), WithWorkers(4)).AnalyzeEntries(context.Background(), entries)

	assert.Equal(t, serial, parallel)
}

func TestAnalyzeEntries_Empty(t *testing.T) {
	t.Parallel()
	summary := New().AnalyzeEntries(context.Background(), nil)
	assert.Nil(t, summary.RootFolder)
	assert.Equal(t, 0, summary.TotalFiles)
	assert.Empty(t, summary.Results)
}

// =============================================================================
// AnalyzeArchive
// =============================================================================

func TestAnalyzeArchive_Zip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"app/index.js":            "function main() {}\n",
		"app/lib/util.js":         "const u = 1;\n",
		"app/node_modules/d/x.js": "ignored\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	summary, err := New().AnalyzeArchive(context.Background(), buf.Bytes())
	require.NoError(t, err)

	require.NotNil(t, summary.RootFolder)
	assert.Equal(t, "app", *summary.RootFolder)
	assert.Equal(t, 2, summary.TotalFiles)

	names := []string{summary.Results[0].FileName, summary.Results[1].FileName}
	assert.ElementsMatch(t, []string{"index.js", "lib/util.js"}, names)
}

func TestAnalyzeArchive_TopLevelNonSourceFileDefeatsRootDetection(t *testing.T) {
	t.Parallel()

	// README.md is filtered out of analysis, but it still sits at the top
	// level of the archive, so there is no single root folder and file
	// names keep their full paths.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"README.md":    "docs\n",
		"src/index.js": "function main() {}\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	summary, err := New().AnalyzeArchive(context.Background(), buf.Bytes())
	require.NoError(t, err)

	assert.Nil(t, summary.RootFolder)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "src/index.js", summary.Results[0].FileName)
}

func TestAnalyzeArchive_UnknownFormat(t *testing.T) {
	t.Parallel()
	_, err := New().AnalyzeArchive(context.Background(), []byte("plain text"))
	require.Error(t, err)
}

// =============================================================================
// AnalyzeDirectory
// =============================================================================

func TestAnalyzeDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "index.js", "function top() {}\n")
	writeFile(t, dir, "src/util.ts", "export function helper(): void {}\n")
	writeFile(t, dir, "src/notes.txt", "not source\n")
	writeFile(t, dir, "node_modules/dep/x.js", "ignored\n")
	writeFile(t, dir, ".cache/y.js", "ignored\n")

	summary, err := New().AnalyzeDirectory(context.Background(), dir)
	require.NoError(t, err)

	names := make([]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		names = append(names, r.FileName)
		assert.Empty(t, r.Error)
	}
	assert.ElementsMatch(t, []string{"index.js", "src/util.ts"}, names)
}

func TestAnalyzeDirectory_NeverRebasesPaths(t *testing.T) {
	t.Parallel()

	// Even when every file lives under one subfolder, directory results
	// stay relative to the walk root; rebasing applies to archives only.
	dir := t.TempDir()
	writeFile(t, dir, "pkg/a.js", "const a = 1;\n")
	writeFile(t, dir, "pkg/sub/b.js", "const b = 2;\n")

	summary, err := New().AnalyzeDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Nil(t, summary.RootFolder)
	names := make([]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		names = append(names, r.FileName)
	}
	assert.ElementsMatch(t, []string{"pkg/a.js", "pkg/sub/b.js"}, names)
}

func TestAnalyzeDirectory_Missing(t *testing.T) {
	t.Parallel()
	_, err := New().AnalyzeDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}
