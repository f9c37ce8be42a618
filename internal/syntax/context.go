package syntax

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/dusk-indust/n0conflict/internal/conflict"
	"github.com/dusk-indust/n0conflict/internal/lang"
)

// DefaultLines is the number of lines kept on each side of a block.
const DefaultLines = 20

// BlockPlaceholder stands in for the conflict block within its context.
const BlockPlaceholder = "... conflict block ..."

// ContextBuilder builds surrounding context from the ours view of a
// document, so the text around each block is free of other blocks' markers.
type ContextBuilder struct {
	// Lines is the number of lines kept before and after each block.
	Lines int
	// Symbols, when set, contributes an Enclosing header line.
	Symbols SymbolFinder
	Log     *slog.Logger
}

// NewContextBuilder returns a builder using tree-sitter for symbols.
func NewContextBuilder(lines int) *ContextBuilder {
	if lines <= 0 {
		lines = DefaultLines
	}
	return &ContextBuilder{Lines: lines, Symbols: NewTreeSitterFinder()}
}

// Build returns the context for every block of doc, in block order.
func (b *ContextBuilder) Build(ctx context.Context, doc *conflict.Document, language lang.Language) []string {
	view, spans := doc.OursView()
	lines := conflict.SplitLines(view)
	out := make([]string, len(spans))

	var index SymbolIndex
	if b.Symbols != nil && language.Grammar != "" && len(spans) > 0 {
		var err error
		index, err = b.Symbols.Index(ctx, language.Grammar, []byte(view))
		if err != nil {
			b.logger().Debug("symbol lookup failed", "grammar", language.Grammar, "err", err)
		}
		if index != nil {
			defer index.Close()
		}
	}

	for i, span := range spans {
		var sb strings.Builder

		if index != nil {
			if symbols := index.Enclosing(span.Start, span.End); len(symbols) > 0 {
				names := make([]string, len(symbols))
				for j, s := range symbols {
					names[j] = s.String()
				}
				sb.WriteString("Enclosing: " + strings.Join(names, " > ") + "\n")
			}
		}

		// span.Start is 1-based; an empty span has End == Start-1.
		beforeEnd := clamp(span.Start-1, 0, len(lines))
		afterStart := clamp(span.End, beforeEnd, len(lines))
		before := lines[clamp(beforeEnd-b.Lines, 0, beforeEnd):beforeEnd]
		after := lines[afterStart:clamp(afterStart+b.Lines, afterStart, len(lines))]

		writeLines(&sb, before)
		sb.WriteString(BlockPlaceholder + "\n")
		writeLines(&sb, after)
		out[i] = sb.String()
	}
	return out
}

func (b *ContextBuilder) logger() *slog.Logger {
	if b.Log != nil {
		return b.Log
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeLines(sb *strings.Builder, lines []string) {
	for _, l := range lines {
		sb.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			sb.WriteByte('\n')
		}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
