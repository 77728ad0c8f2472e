package lignin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flattenSource(t *testing.T, filename, source string) *FlatReport {
	t.Helper()
	m, err := New().AnalyzeSource(context.Background(), filename, []byte(source))
	require.NoError(t, err)
	return Flatten(filename, m)
}

func TestFlatten_FileTotals(t *testing.T) {
	t.Parallel()
	report := flattenSource(t, "main.js", `function a() {
  if (x) return 1;
}

function b() {
  if (x && y) return 1;
  return 2;
}
`)

	assert.Equal(t, "main.js", report.Filename)
	assert.Equal(t, "javascript", report.Language)
	assert.Equal(t, 9, report.TotalLOC)
	assert.Equal(t, 7, report.TotalNLOC)
	assert.Equal(t, 2, report.FunctionCount)
	assert.Equal(t, 2, report.ComplexityMax)
	// (1 + 2) / 2
	assert.Equal(t, 1.5, report.ComplexityAvg)
}

func TestFlatten_AverageRoundsToTwoDecimals(t *testing.T) {
	t.Parallel()
	report := flattenSource(t, "avg.js", `
function a() { if (x) return 1; }
function b() { if (x) return 1; }
function c() { if (x) { if (y) return 1; } }
`)

	// (1 + 1 + 3) / 3 = 1.666... rounds to 1.67.
	assert.Equal(t, 1.67, report.ComplexityAvg)
	assert.Equal(t, 3, report.ComplexityMax)
}

func TestFlatten_PlaceholderFieldsStayZero(t *testing.T) {
	t.Parallel()
	report := flattenSource(t, "ph.js", `function busy(x) {
  if (x) return 1;
  return 0;
}
`)

	require.Len(t, report.Functions, 1)
	fn := report.Functions[0]

	assert.Equal(t, "busy", fn.Name)
	assert.Equal(t, "busy", fn.LongName)
	assert.Equal(t, 1, fn.CyclomaticComplexity)
	assert.Equal(t, 4, fn.NLOC)
	assert.Equal(t, 1, fn.StartLine)

	// These slots exist for report-shape compatibility and are never filled.
	assert.Zero(t, fn.EndLine)
	assert.Zero(t, fn.TokenCount)
	assert.Zero(t, fn.MaxNestingDepth)
}

func TestFlatten_NoFunctions(t *testing.T) {
	t.Parallel()
	report := flattenSource(t, "empty.js", "const a = 1;\n")

	assert.Equal(t, 0, report.FunctionCount)
	assert.Zero(t, report.ComplexityAvg)
	assert.Zero(t, report.ComplexityMax)
	assert.Empty(t, report.Functions)
}
