package metrics

import sitter "github.com/smacker/go-tree-sitter"

// Score computes the cognitive complexity of a single function subtree.
// baseNesting seeds the nesting level for functions declared inside other
// control structures; name enables direct self-recursion detection (indirect
// and mutual recursion are not detected).
//
// All traversal state is threaded through arguments and return values, so the
// scorer is reentrant and safe to run concurrently across functions. Nesting
// unwinds symmetrically on exit because every recursion level holds its own
// copy of the counter.
func Score(fn *sitter.Node, source []byte, baseNesting int, name string) int {
	if fn == nil {
		return 0
	}
	s := scorer{source: source, name: name}
	total := 0
	for i := 0; i < int(fn.NamedChildCount()); i++ {
		total += s.walk(fn.NamedChild(i), baseNesting)
	}
	return total
}

type scorer struct {
	source []byte
	name   string
}

func (s *scorer) walk(node *sitter.Node, nesting int) int {
	childNesting := nesting
	increment := 0

	switch kindOf(node.Type()) {
	case KindFunction:
		// Nested functions are collected and scored independently.
		return 0
	case KindIf:
		if isElseIf(node) {
			// A chained else-if costs as if one level shallower and leaves
			// nesting unchanged across the chain, so long if/else-if ladders
			// score linearly instead of compounding depth.
			increment = 1 + (nesting - 1)
		} else {
			increment = 1 + nesting
			childNesting = nesting + 1
		}
		if hasBareElse(node) {
			increment++
		}
	case KindForLoop, KindWhileLoop, KindDoWhileLoop, KindCatch, KindTernary:
		increment = 1 + nesting
		childNesting = nesting + 1
	case KindSwitch:
		// The switch opens a nesting level for its cases but costs nothing
		// itself; each case label pays instead.
		childNesting = nesting + 1
	case KindSwitchCase:
		increment = 1
	case KindBinary:
		if op, ok := logicalOperator(node, s.source); ok && !insideOperatorRun(node, op, s.source) {
			increment = 1
		}
	case KindCall:
		if calleeIdentifier(node, s.source) == s.name {
			increment = 1
		}
	case KindBreak, KindContinue:
		if node.ChildByFieldName("label") != nil {
			increment = 1
		}
	}

	total := increment
	for i := 0; i < int(node.NamedChildCount()); i++ {
		total += s.walk(node.NamedChild(i), childNesting)
	}
	return total
}

// isElseIf reports whether an if statement is the alternate branch of an
// enclosing if (an "else if" link in a chain).
func isElseIf(ifNode *sitter.Node) bool {
	parent := ifNode.Parent()
	return parent != nil && parent.Type() == "else_clause"
}

// hasBareElse reports whether an if statement carries a trailing else branch
// that is not itself another if. A bare else costs a flat +1 in addition to
// the if's structural increment.
func hasBareElse(ifNode *sitter.Node) bool {
	alt := ifNode.ChildByFieldName("alternative")
	if alt == nil {
		return false
	}
	for i := 0; i < int(alt.NamedChildCount()); i++ {
		if alt.NamedChild(i).Type() == "if_statement" {
			return false
		}
	}
	return true
}

// insideOperatorRun reports whether the immediate parent is a logical
// expression with the identical operator, meaning this node belongs to a run
// (a && b && c) already counted at the run's outermost node.
func insideOperatorRun(node *sitter.Node, operator string, source []byte) bool {
	parent := node.Parent()
	if parent == nil || kindOf(parent.Type()) != KindBinary {
		return false
	}
	parentOp, ok := logicalOperator(parent, source)
	return ok && parentOp == operator
}

// calleeIdentifier returns the callee name of a call whose callee is a bare
// identifier, or "" for member calls and other callee shapes.
func calleeIdentifier(call *sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" {
		return ""
	}
	return fn.Content(source)
}
