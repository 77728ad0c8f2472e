package metrics

import sitter "github.com/smacker/go-tree-sitter"

// Kind classifies the tree-sitter node types the engine acts on. The set is
// closed: anything unlisted maps to KindOther and falls through a traversal
// with no effect.
type Kind int

const (
	KindOther Kind = iota
	KindFunction
	KindIf
	KindSwitch
	KindSwitchCase
	KindForLoop
	KindWhileLoop
	KindDoWhileLoop
	KindCatch
	KindBinary
	KindTernary
	KindCall
	KindBreak
	KindContinue
)

// kindOf is the single dispatch point shared by the collector and the scorer.
// Older grammar revisions emit "function" where newer ones emit
// "function_expression"; both are accepted.
func kindOf(nodeType string) Kind {
	switch nodeType {
	case "function_declaration", "function_expression", "function",
		"arrow_function", "method_definition",
		"generator_function", "generator_function_declaration":
		return KindFunction
	case "if_statement":
		return KindIf
	case "switch_statement":
		return KindSwitch
	case "switch_case", "switch_default":
		return KindSwitchCase
	case "for_statement", "for_in_statement":
		return KindForLoop
	case "while_statement":
		return KindWhileLoop
	case "do_statement":
		return KindDoWhileLoop
	case "catch_clause":
		return KindCatch
	case "binary_expression":
		return KindBinary
	case "ternary_expression":
		return KindTernary
	case "call_expression":
		return KindCall
	case "break_statement":
		return KindBreak
	case "continue_statement":
		return KindContinue
	default:
		return KindOther
	}
}

// logicalOperator returns the operator of a binary expression when it is one
// of the short-circuiting operators the scorer counts.
func logicalOperator(node *sitter.Node, source []byte) (string, bool) {
	op := node.ChildByFieldName("operator")
	if op == nil {
		return "", false
	}
	switch text := op.Content(source); text {
	case "&&", "||", "??":
		return text, true
	default:
		return "", false
	}
}
