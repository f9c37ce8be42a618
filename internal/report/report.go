// Package report summarizes file resolutions for display and export.
package report

import (
	"errors"

	"github.com/dusk-indust/n0conflict/internal/capability"
	"github.com/dusk-indust/n0conflict/internal/conflict"
	"github.com/dusk-indust/n0conflict/internal/orchestrator"
	"github.com/dusk-indust/n0conflict/internal/resolver"
)

// Report describes the result of processing one file.
type Report struct {
	Path        string        `json:"path"`
	Language    string        `json:"language,omitempty"`
	Total       int           `json:"total"`
	Resolved    int           `json:"resolved"`
	Unresolved  int           `json:"unresolved"`
	AllResolved bool          `json:"allResolved"`
	Written     bool          `json:"written"`
	Blocks      []BlockReport `json:"blocks,omitempty"`

	// Error is set when the file could not be processed at all, such as
	// malformed markers or an unreadable file.
	Error string `json:"error,omitempty"`
	// ErrorLine is the 1-based line of a marker error, 0 otherwise.
	ErrorLine int `json:"errorLine,omitempty"`
}

// BlockReport describes the outcome of one conflict block.
type BlockReport struct {
	Index        int              `json:"index"`
	StartLine    int              `json:"startLine"`
	EndLine      int              `json:"endLine"`
	OursLabel    string           `json:"oursLabel,omitempty"`
	TheirsLabel  string           `json:"theirsLabel,omitempty"`
	HasBase      bool             `json:"hasBase"`
	Status       string           `json:"status"`
	Explanation  string           `json:"explanation,omitempty"`
	Kind         resolver.Kind    `json:"kind,omitempty"`
	FailureClass capability.Class `json:"failureClass,omitempty"`
}

// Summarize builds a Report from a file resolution.
func Summarize(fr *orchestrator.FileResolution) Report {
	r := Report{
		Path:        fr.Path,
		Language:    fr.Language.Name,
		Total:       len(fr.Blocks),
		AllResolved: fr.AllResolved(),
	}
	for _, br := range fr.Blocks {
		b := BlockReport{
			Index:       br.Block.Index,
			StartLine:   br.Block.StartLine,
			EndLine:     br.Block.EndLine,
			OursLabel:   br.Block.OursLabel,
			TheirsLabel: br.Block.TheirsLabel,
			HasBase:     br.Block.HasBase,
			Status:      br.Outcome.Status().String(),
		}
		if explanation, ok := br.Outcome.Explanation(); ok {
			b.Explanation = explanation
			b.Kind = br.Outcome.Kind()
			b.FailureClass = br.Outcome.FailureClass()
			r.Unresolved++
		} else {
			r.Resolved++
		}
		r.Blocks = append(r.Blocks, b)
	}
	return r
}

// ForParseError builds a file-level failure report. Marker errors carry
// their line number.
func ForParseError(path string, err error) Report {
	r := Report{Path: path, Error: err.Error()}
	var perr *conflict.ParseError
	if errors.As(err, &perr) {
		r.ErrorLine = perr.Line
	}
	return r
}

// Failed reports whether the file could not be processed.
func (r Report) Failed() bool { return r.Error != "" }

// UnresolvedBlocks returns the blocks left unresolved.
func (r Report) UnresolvedBlocks() []BlockReport {
	var out []BlockReport
	for _, b := range r.Blocks {
		if b.Status != resolver.StatusResolved.String() {
			out = append(out, b)
		}
	}
	return out
}

// capabilityOnly reports whether every block failed because the
// capability could not be used.
func (r Report) capabilityOnly() bool {
	if len(r.Blocks) == 0 {
		return false
	}
	for _, b := range r.Blocks {
		if b.Kind != resolver.KindCapability {
			return false
		}
	}
	return true
}
