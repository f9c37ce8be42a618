package orchestrator

import (
	"github.com/dusk-indust/n0conflict/internal/conflict"
	"github.com/dusk-indust/n0conflict/internal/lang"
	"github.com/dusk-indust/n0conflict/internal/resolver"
)

// BlockResult pairs a block with the outcome of resolving it.
type BlockResult struct {
	Block   conflict.Block   `json:"block"`
	Outcome resolver.Outcome `json:"outcome"`
}

// FileResolution is the result of resolving one file.
type FileResolution struct {
	Path     string
	Language lang.Language
	// Blocks holds one result per conflict block, in source order.
	Blocks []BlockResult

	doc      *conflict.Document
	final    string
	complete bool
}

// finish computes the final text when every block is resolved.
func (fr *FileResolution) finish() {
	for _, br := range fr.Blocks {
		if !br.Outcome.IsResolved() {
			return
		}
	}
	fr.final = fr.doc.Render(fr.resolvedText)
	fr.complete = true
}

func (fr *FileResolution) resolvedText(b conflict.Block) (string, bool) {
	if b.Index >= len(fr.Blocks) {
		return "", false
	}
	return fr.Blocks[b.Index].Outcome.ResolvedText()
}

// AllResolved reports whether every block was resolved. A file with no
// blocks is trivially resolved.
func (fr *FileResolution) AllResolved() bool { return fr.complete }

// FinalText returns the fully resolved file content. It is absent whenever
// any block is unresolved; with no blocks it equals the input.
func (fr *FileResolution) FinalText() (string, bool) {
	return fr.final, fr.complete
}

// PartialText splices in the blocks that were resolved and leaves the rest
// as their original marker text. Callers must opt in to using it.
func (fr *FileResolution) PartialText() string {
	return fr.doc.Render(fr.resolvedText)
}

// Original returns the text the file was parsed from.
func (fr *FileResolution) Original() string {
	return fr.doc.Reassemble()
}

// Document returns the parsed document.
func (fr *FileResolution) Document() *conflict.Document { return fr.doc }

// Unresolved returns the results whose blocks were left unresolved.
func (fr *FileResolution) Unresolved() []BlockResult {
	var out []BlockResult
	for _, br := range fr.Blocks {
		if !br.Outcome.IsResolved() {
			out = append(out, br)
		}
	}
	return out
}
