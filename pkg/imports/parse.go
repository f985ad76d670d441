package imports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var (
	// ErrSyntax is returned for source that does not parse as Python.
	ErrSyntax = errors.New("source contains syntax errors")

	// ErrNotUTF8 is returned for source that is not valid UTF-8.
	ErrNotUTF8 = errors.New("source is not valid UTF-8")
)

// Parser extracts root import names from Python source. A Parser reuses one
// tree-sitter parser and is not safe for concurrent use.
type Parser struct {
	ts *sitter.Parser
}

// NewParser creates a Parser for the Python grammar.
func NewParser() *Parser {
	ts := sitter.NewParser()
	ts.SetLanguage(python.GetLanguage())
	return &Parser{ts: ts}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p.ts != nil {
		p.ts.Close()
	}
}

// Parse returns the sorted, de-duplicated root names imported by content.
// "import a.b, c" yields "a" and "c"; "from a.b import x" yields "a".
// Relative imports are first-party and yield nothing. Imports nested in
// functions, classes and try blocks are included.
func (p *Parser) Parse(ctx context.Context, content []byte) ([]string, error) {
	if !utf8.Valid(content) {
		return nil, ErrNotUTF8
	}
	tree, err := p.ts.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, ErrSyntax
	}
	if root.HasError() {
		return nil, ErrSyntax
	}

	var names []string
	collect(root, content, &names)
	slices.Sort(names)
	return slices.Compact(names), nil
}

func collect(node *sitter.Node, content []byte, names *[]string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "import_statement":
			importStatement(child, content, names)
		case "import_from_statement":
			fromStatement(child, content, names)
		case "future_import_statement":
			// __future__ is never a dependency.
		default:
			collect(child, content, names)
		}
	}
}

// importStatement handles "import a.b" and "import a.b as c".
func importStatement(node *sitter.Node, content []byte, names *[]string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			addRoot(child.Content(content), names)
		case "aliased_import":
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc.Type() == "dotted_name" {
					addRoot(gc.Content(content), names)
					break
				}
			}
		}
	}
}

// fromStatement handles "from a.b import x". Only the module before the
// "import" keyword matters; relative modules are skipped.
func fromStatement(node *sitter.Node, content []byte, names *[]string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "relative_import", "import":
			return
		case "dotted_name":
			addRoot(child.Content(content), names)
			return
		}
	}
}

func addRoot(dotted string, names *[]string) {
	root, _, _ := strings.Cut(strings.TrimSpace(dotted), ".")
	if root = strings.TrimSpace(root); root != "" {
		*names = append(*names, root)
	}
}
