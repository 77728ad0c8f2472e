package metrics

import (
	"errors"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrNoTree is returned when there is no syntax tree to walk.
var ErrNoTree = errors.New("metrics: no syntax tree to walk")

// Collect walks a whole-file tree and produces the file's metrics: line
// counts plus one FunctionRecord per function-like node, in encounter order.
// Nested functions are not deduplicated; each gets its own record and is
// skipped during its enclosing function's scoring.
func Collect(root *sitter.Node, source []byte) (*FileMetrics, error) {
	if root == nil {
		return nil, ErrNoTree
	}

	fm := &FileMetrics{
		TotalLines:    strings.Count(string(source), "\n") + 1,
		NonBlankLines: countNonBlank(string(source)),
		Functions:     []FunctionRecord{},
	}
	collectInto(root, source, fm)
	fm.FunctionCount = len(fm.Functions)
	return fm, nil
}

func collectInto(node *sitter.Node, source []byte, fm *FileMetrics) {
	if kindOf(node.Type()) == KindFunction {
		fm.Functions = append(fm.Functions, newRecord(node, source))
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectInto(node.NamedChild(i), source, fm)
	}
}

func newRecord(fn *sitter.Node, source []byte) FunctionRecord {
	name := resolveName(fn, source)

	start, end := int(fn.StartByte()), int(fn.EndByte())
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		start = end
	}

	startLine := int(fn.StartPoint().Row) + 1
	endLine := int(fn.EndPoint().Row) + 1

	return FunctionRecord{
		Name:                name,
		NLOCCount:           countNonBlank(string(source[start:end])),
		CognitiveComplexity: Score(fn, source, baseNesting(fn), name),
		StartLine:           &startLine,
		EndLine:             &endLine,
	}
}

// resolveName resolves a function's display name: its own declared
// identifier, then the identifier of an enclosing variable binding, then the
// key of an enclosing object-literal property, and finally "anonymous".
// Method keys arrive through the node's own name field.
func resolveName(fn *sitter.Node, source []byte) string {
	if id := fn.ChildByFieldName("name"); id != nil {
		return id.Content(source)
	}
	if parent := fn.Parent(); parent != nil {
		switch parent.Type() {
		case "variable_declarator":
			if target := parent.ChildByFieldName("name"); target != nil && target.Type() == "identifier" {
				return target.Content(source)
			}
		case "pair":
			if key := parent.ChildByFieldName("key"); key != nil && key.Type() == "property_identifier" {
				return key.Content(source)
			}
		}
	}
	return "anonymous"
}

// baseNesting counts strict ancestors that open a nesting level, so a
// function declared inside an if inside another function starts scoring at
// the correct depth rather than at zero.
func baseNesting(fn *sitter.Node) int {
	depth := 0
	for n := fn.Parent(); n != nil; n = n.Parent() {
		switch kindOf(n.Type()) {
		case KindFunction, KindIf, KindForLoop, KindWhileLoop, KindDoWhileLoop, KindSwitch, KindCatch:
			depth++
		}
	}
	return depth
}

func countNonBlank(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
