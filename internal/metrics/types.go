// Package metrics is the core of lignin: it walks a parsed syntax tree,
// enumerates every function-like construct, resolves display names, and
// computes a nesting-aware cognitive-complexity score per function.
package metrics

// FunctionRecord describes one function-like construct found in a file.
// Records are immutable after creation. StartLine and EndLine are nil when
// the parser supplied no location information.
type FunctionRecord struct {
	Name                string `json:"name"`
	NLOCCount           int    `json:"nlocCount"`
	CognitiveComplexity int    `json:"cognitiveComplexity"`
	StartLine           *int   `json:"startLine"`
	EndLine             *int   `json:"endLine"`
}

// FileMetrics aggregates one file's line counts and function inventory.
// Functions appear in encounter order (pre-order traversal of the tree).
type FileMetrics struct {
	TotalLines    int              `json:"totalLines"`
	NonBlankLines int              `json:"nonBlankLines"`
	FunctionCount int              `json:"functionCount"`
	Functions     []FunctionRecord `json:"functions"`
}
