package report

import (
	"strings"

	"github.com/dusk-indust/n0conflict/internal/conflict"
	"github.com/dusk-indust/n0conflict/internal/lang"
)

// PreviewLines is the number of lines kept in each side preview.
const PreviewLines = 6

// Listing describes the conflicts in a file without resolving them.
type Listing struct {
	Path     string         `json:"path"`
	Language string         `json:"language,omitempty"`
	Blocks   []BlockListing `json:"blocks"`
}

// BlockListing describes one conflict block.
type BlockListing struct {
	Index       int    `json:"index"`
	StartLine   int    `json:"startLine"`
	EndLine     int    `json:"endLine"`
	OursLabel   string `json:"oursLabel,omitempty"`
	BaseLabel   string `json:"baseLabel,omitempty"`
	TheirsLabel string `json:"theirsLabel,omitempty"`
	HasBase     bool   `json:"hasBase"`
	OursLines   int    `json:"oursLines"`
	BaseLines   int    `json:"baseLines,omitempty"`
	TheirsLines int    `json:"theirsLines"`
	Ours        string `json:"ours"`
	Base        string `json:"base,omitempty"`
	Theirs      string `json:"theirs"`
}

// Describe lists the blocks of doc.
func Describe(path string, doc *conflict.Document) Listing {
	l := Listing{
		Path:     path,
		Language: lang.Detect(path).Name,
		Blocks:   make([]BlockListing, 0, len(doc.Blocks)),
	}
	for _, b := range doc.Blocks {
		l.Blocks = append(l.Blocks, BlockListing{
			Index:       b.Index,
			StartLine:   b.StartLine,
			EndLine:     b.EndLine,
			OursLabel:   b.OursLabel,
			BaseLabel:   b.BaseLabel,
			TheirsLabel: b.TheirsLabel,
			HasBase:     b.HasBase,
			OursLines:   len(conflict.SplitLines(b.Ours)),
			BaseLines:   len(conflict.SplitLines(b.Base)),
			TheirsLines: len(conflict.SplitLines(b.Theirs)),
			Ours:        Preview(b.Ours, PreviewLines),
			Base:        Preview(b.Base, PreviewLines),
			Theirs:      Preview(b.Theirs, PreviewLines),
		})
	}
	return l
}

// Preview returns at most n lines of text, marking truncation with a final
// "..." line.
func Preview(text string, n int) string {
	lines := conflict.SplitLines(text)
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[:n], "") + "...\n"
}
