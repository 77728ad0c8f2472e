// Package lang maps file paths to tree-sitter grammars and turns source text
// into syntax trees. It is the engine's only parsing collaborator.
package lang

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language is a canonical language name.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

// extToLanguage maps recognized source extensions to languages.
var extToLanguage = map[string]Language{
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
}

// grammars is lazily initialized on first use.
var (
	grammars     map[Language]*sitter.Language
	grammarsOnce sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		grammars = map[Language]*sitter.Language{
			JavaScript: javascript.GetLanguage(),
			TypeScript: ts.GetLanguage(),
			TSX:        tsx.GetLanguage(),
		}
	})
}

// ForFile returns the language for a file path based on its extension.
// Returns ("", false) if the extension is not recognized.
func ForFile(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	language, ok := extToLanguage[ext]
	return language, ok
}

// Grammar returns the tree-sitter grammar for a language.
func Grammar(language Language) (*sitter.Language, bool) {
	initGrammars()
	g, ok := grammars[language]
	return g, ok
}

// ParseError reports source text that could not be turned into a usable
// tree. Parsing is deterministic, so a ParseError is never retried.
type ParseError struct {
	Language Language
	Line     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: syntax error near line %d", e.Language, e.Line)
}

// Parse turns source text into a syntax tree. A tree containing error or
// missing nodes is rejected with a *ParseError naming the first offending
// line. The caller owns the returned tree and must Close it.
func Parse(ctx context.Context, source []byte, language Language) (*sitter.Tree, error) {
	grammar, ok := Grammar(language)
	if !ok {
		return nil, fmt.Errorf("lang: unsupported language %q", language)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("lang: parse: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("lang: parser produced no tree")
	}
	if root.HasError() {
		line := firstErrorLine(root)
		tree.Close()
		return nil, &ParseError{Language: language, Line: line}
	}
	return tree, nil
}

// firstErrorLine finds the first ERROR or missing node in document order.
func firstErrorLine(node *sitter.Node) int {
	if node.Type() == "ERROR" || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		return firstErrorLine(child)
	}
	return int(node.StartPoint().Row) + 1
}
