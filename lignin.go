// Package lignin computes static code-quality metrics for JavaScript and
// TypeScript sources built on tree-sitter: line counts, a per-function
// inventory, and a nesting-aware cognitive-complexity score per function.
//
// # Pipeline
//
// Analysis runs in three layers, leaves first:
//
//  1. Score: walk a single function's subtree and produce an integer
//     cognitive-complexity score, skipping nested functions.
//
//  2. Collect: walk a whole-file tree, find every function-like node,
//     resolve its display name, slice its source, seed its nesting depth
//     from its ancestors, and score it.
//
//  3. Aggregate: turn a batch of (path, source) entries into per-file
//     results and an archive-level summary with root-folder detection.
//
// # Usage
//
// Create an Engine and hand it source text, an archive blob, or a directory:
//
//	e := lignin.New()
//
//	ctx := context.Background()
//	m, err := e.AnalyzeSource(ctx, "app.js", source)
//	summary, err := e.AnalyzeArchive(ctx, blob)
//	summary, err = e.AnalyzeDirectory(ctx, "path/to/project")
//
// Every analysis is a pure function of (path, source): the Engine holds no
// per-request state, nothing persists across calls, and batch entries are
// scheduled across a worker pool by default (see [WithParallel]).
package lignin
