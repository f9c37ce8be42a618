package syntax

import (
	"context"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/dusk-indust/n0conflict/internal/lang"
)

// declarations maps, per grammar, the node kinds reported as symbols to the
// kind name shown in context headers.
var declarations = map[string]map[string]string{
	lang.GrammarGo: {
		"function_declaration": "func",
		"method_declaration":   "method",
		"type_spec":            "type",
		"func_literal":         "func literal",
	},
	lang.GrammarPython: {
		"function_definition": "def",
		"class_definition":    "class",
	},
	lang.GrammarRust: {
		"function_item": "fn",
		"struct_item":   "struct",
		"enum_item":     "enum",
		"trait_item":    "trait",
		"impl_item":     "impl",
		"mod_item":      "mod",
	},
	lang.GrammarTypeScript: tsDeclarations,
	lang.GrammarTSX:        tsDeclarations,
}

var tsDeclarations = map[string]string{
	"function_declaration":  "function",
	"class_declaration":     "class",
	"interface_declaration": "interface",
	"method_definition":     "method",
	"enum_declaration":      "enum",
	"arrow_function":        "arrow function",
}

var _ SymbolFinder = (*TreeSitterFinder)(nil)

// TreeSitterFinder implements SymbolFinder with tree-sitter grammars for
// Go, Python, Rust, TypeScript and TSX. A parser is created per call, so
// the finder is safe for concurrent use.
type TreeSitterFinder struct {
	languages map[string]*tree_sitter.Language
}

// NewTreeSitterFinder creates a finder with every bundled grammar loaded.
func NewTreeSitterFinder() *TreeSitterFinder {
	return &TreeSitterFinder{
		languages: map[string]*tree_sitter.Language{
			lang.GrammarGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			lang.GrammarPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			lang.GrammarRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
			lang.GrammarTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			lang.GrammarTSX:        tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		},
	}
}

// Supports reports whether grammar is bundled.
func (f *TreeSitterFinder) Supports(grammar string) bool {
	_, ok := f.languages[grammar]
	return ok
}

// Index implements SymbolFinder.
func (f *TreeSitterFinder) Index(ctx context.Context, grammar string, source []byte) (SymbolIndex, error) {
	tsLang, ok := f.languages[grammar]
	if !ok || len(source) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", grammar, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s source", grammar)
	}
	return &treeIndex{tree: tree, source: source, kinds: declarations[grammar]}, nil
}

// Enclosing parses source and answers a single query.
func (f *TreeSitterFinder) Enclosing(ctx context.Context, grammar string, source []byte, startLine, endLine int) ([]Symbol, error) {
	idx, err := f.Index(ctx, grammar, source)
	if err != nil || idx == nil {
		return nil, err
	}
	defer idx.Close()
	return idx.Enclosing(startLine, endLine), nil
}

// treeIndex is a parsed tree-sitter tree.
type treeIndex struct {
	tree   *tree_sitter.Tree
	source []byte
	kinds  map[string]string
}

func (x *treeIndex) Enclosing(startLine, endLine int) []Symbol {
	if endLine < startLine {
		endLine = startLine
	}
	var out []Symbol
	collect(x.tree.RootNode(), x.source, x.kinds, startLine, endLine, &out)
	return out
}

func (x *treeIndex) Close() { x.tree.Close() }

// collect descends only into nodes covering the range, appending matching
// declarations outermost first.
func collect(node *tree_sitter.Node, source []byte, kinds map[string]string, startLine, endLine int, out *[]Symbol) {
	first := int(node.StartPosition().Row) + 1
	last := int(node.EndPosition().Row) + 1
	if first > startLine || last < endLine {
		return
	}

	if kind, ok := kinds[node.Kind()]; ok {
		*out = append(*out, Symbol{
			Kind:      kind,
			Name:      symbolName(node, source),
			StartLine: first,
			EndLine:   last,
		})
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			collect(child, source, kinds, startLine, endLine, out)
		}
	}
}

func symbolName(node *tree_sitter.Node, source []byte) string {
	switch node.Kind() {
	case "impl_item":
		typ := node.ChildByFieldName("type")
		if typ == nil {
			return ""
		}
		if trait := node.ChildByFieldName("trait"); trait != nil {
			return trait.Utf8Text(source) + " for " + typ.Utf8Text(source)
		}
		return typ.Utf8Text(source)
	case "method_declaration":
		name := node.ChildByFieldName("name")
		if name == nil {
			return ""
		}
		if recv := node.ChildByFieldName("receiver"); recv != nil {
			return recv.Utf8Text(source) + " " + name.Utf8Text(source)
		}
		return name.Utf8Text(source)
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return name.Utf8Text(source)
	}
	return ""
}
