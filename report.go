package lignin

import (
	"math"

	"github.com/jward/lignin/internal/metrics"
)

// FlatFunction is the report-shaped view of one function. The field set
// mirrors a generic multi-metric report: only name, NLOC, start line, and the
// complexity slot are populated. The remaining slots are fixed placeholders
// so consumers always see a stable shape.
type FlatFunction struct {
	CyclomaticComplexity int    `json:"cyclomatic_complexity"`
	NLOC                 int    `json:"nloc"`
	Name                 string `json:"name"`
	LongName             string `json:"long_name"`
	StartLine            int    `json:"start_line"`
	EndLine              int    `json:"end_line"`
	TokenCount           int    `json:"token_count"`
	MaxNestingDepth      int    `json:"max_nesting_depth"`
}

// FlatReport is a single-file report with per-function rows and file totals.
type FlatReport struct {
	Filename      string         `json:"filename"`
	Language      string         `json:"language"`
	TotalLOC      int            `json:"total_loc"`
	TotalNLOC     int            `json:"total_nloc"`
	FunctionCount int            `json:"function_count"`
	ComplexityAvg float64        `json:"complexity_avg"`
	ComplexityMax int            `json:"complexity_max"`
	Functions     []FlatFunction `json:"functions"`
}

// Flatten converts FileMetrics into the flat report shape. The cognitive
// complexity score fills the cyclomatic_complexity slot; end_line,
// token_count, and max_nesting_depth stay zero. The average is rounded to
// two decimal places.
func Flatten(filename string, m *metrics.FileMetrics) *FlatReport {
	report := &FlatReport{
		Filename:      filename,
		Language:      "javascript",
		TotalLOC:      m.TotalLines,
		TotalNLOC:     m.NonBlankLines,
		FunctionCount: m.FunctionCount,
		Functions:     make([]FlatFunction, 0, len(m.Functions)),
	}

	total := 0
	for _, fn := range m.Functions {
		startLine := 0
		if fn.StartLine != nil {
			startLine = *fn.StartLine
		}
		report.Functions = append(report.Functions, FlatFunction{
			CyclomaticComplexity: fn.CognitiveComplexity,
			NLOC:                 fn.NLOCCount,
			Name:                 fn.Name,
			LongName:             fn.Name,
			StartLine:            startLine,
		})
		total += fn.CognitiveComplexity
		if fn.CognitiveComplexity > report.ComplexityMax {
			report.ComplexityMax = fn.CognitiveComplexity
		}
	}

	if len(m.Functions) > 0 {
		avg := float64(total) / float64(len(m.Functions))
		report.ComplexityAvg = math.Round(avg*100) / 100
	}

	return report
}
