// Package syntax extracts the context sent with a conflict block: nearby
// lines plus the declarations the block sits inside.
package syntax

import "context"

// Symbol is a declaration found in source.
type Symbol struct {
	Kind      string
	Name      string
	StartLine int
	EndLine   int
}

func (s Symbol) String() string {
	if s.Name == "" {
		return s.Kind
	}
	return s.Kind + " " + s.Name
}

// SymbolFinder parses source files for declarations.
type SymbolFinder interface {
	// Index parses source once for repeated queries. An unsupported
	// grammar yields a nil index and no error.
	Index(ctx context.Context, grammar string, source []byte) (SymbolIndex, error)
}

// SymbolIndex answers queries against one parsed source.
type SymbolIndex interface {
	// Enclosing returns the declarations whose range covers lines
	// startLine through endLine (1-based), outermost first.
	Enclosing(startLine, endLine int) []Symbol
	// Close releases the parse tree.
	Close()
}
