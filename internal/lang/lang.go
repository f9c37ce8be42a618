// Package lang maps file paths to a language name and, where one is
// bundled, the tree-sitter grammar used to parse it.
package lang

import (
	"path/filepath"
	"strings"
)

// Grammar names understood by the syntax package.
const (
	GrammarGo         = "go"
	GrammarPython     = "python"
	GrammarRust       = "rust"
	GrammarTypeScript = "typescript"
	GrammarTSX        = "tsx"
)

// Language describes the detected language of a file.
type Language struct {
	// Name is a human-readable language name, empty when unknown.
	Name string `json:"name,omitempty"`
	// Grammar names the bundled tree-sitter grammar, empty when none.
	Grammar string `json:"grammar,omitempty"`
}

// Known reports whether detection produced a language name.
func (l Language) Known() bool { return l.Name != "" }

var byExtension = map[string]Language{
	".go":    {"Go", GrammarGo},
	".py":    {"Python", GrammarPython},
	".pyi":   {"Python", GrammarPython},
	".rs":    {"Rust", GrammarRust},
	".ts":    {"TypeScript", GrammarTypeScript},
	".mts":   {"TypeScript", GrammarTypeScript},
	".cts":   {"TypeScript", GrammarTypeScript},
	".tsx":   {"TypeScript (TSX)", GrammarTSX},
	".js":    {"JavaScript", ""},
	".mjs":   {"JavaScript", ""},
	".cjs":   {"JavaScript", ""},
	".jsx":   {"JavaScript (JSX)", ""},
	".java":  {"Java", ""},
	".kt":    {"Kotlin", ""},
	".kts":   {"Kotlin", ""},
	".rb":    {"Ruby", ""},
	".php":   {"PHP", ""},
	".c":     {"C", ""},
	".h":     {"C/C++ Header", ""},
	".cpp":   {"C++", ""},
	".cc":    {"C++", ""},
	".cxx":   {"C++", ""},
	".hpp":   {"C++", ""},
	".cs":    {"C#", ""},
	".swift": {"Swift", ""},
	".scala": {"Scala", ""},
	".lua":   {"Lua", ""},
	".md":    {"Markdown", ""},
	".json":  {"JSON", ""},
	".yaml":  {"YAML", ""},
	".yml":   {"YAML", ""},
	".toml":  {"TOML", ""},
	".xml":   {"XML", ""},
	".html":  {"HTML", ""},
	".css":   {"CSS", ""},
	".scss":  {"SCSS", ""},
	".sql":   {"SQL", ""},
	".sh":    {"Shell", ""},
	".bash":  {"Shell", ""},
	".zsh":   {"Shell", ""},
	".proto": {"Protocol Buffers", ""},
	".nix":   {"Nix", ""},
	".tf":    {"Terraform", ""},
}

var byName = map[string]Language{
	"makefile":   {"Makefile", ""},
	"dockerfile": {"Dockerfile", ""},
	"go.mod":     {"Go Module", ""},
	"go.sum":     {"Go Checksums", ""},
	"gemfile":    {"Ruby", ""},
	"rakefile":   {"Ruby", ""},
}

// Detect returns the language for path based on its base name and
// extension. An unrecognized path yields the zero Language.
func Detect(path string) Language {
	base := strings.ToLower(filepath.Base(path))
	if l, ok := byName[base]; ok {
		return l
	}
	return byExtension[strings.ToLower(filepath.Ext(base))]
}
