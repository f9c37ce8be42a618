// Package conflict parses Git merge-conflict markers out of arbitrary text.
//
// A Document keeps every byte of its input: literal runs between conflict
// blocks are stored verbatim, and each Block keeps its raw text (markers and
// line endings included), so reassembling a Document without replacements
// reproduces the input exactly.
package conflict

import "fmt"

// Marker tokens. Each marker line starts with exactly seven of these
// characters followed by whitespace, a line ending, or end of input.
const (
	MarkerOurs      = "<<<<<<<"
	MarkerBase      = "|||||||"
	MarkerSeparator = "======="
	MarkerTheirs    = ">>>>>>>"
)

// Block is one contiguous conflict region.
type Block struct {
	// Index is the block's position among all blocks in its document.
	Index int `json:"index"`

	// StartLine and EndLine are the 1-based line numbers of the opening
	// and closing marker lines.
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`

	OursLabel   string `json:"oursLabel"`
	BaseLabel   string `json:"baseLabel,omitempty"`
	TheirsLabel string `json:"theirsLabel"`

	Ours   string `json:"ours"`
	Base   string `json:"base,omitempty"`
	Theirs string `json:"theirs"`

	// HasBase is true for diff3-style blocks carrying a common-ancestor
	// section.
	HasBase bool `json:"hasBase"`

	// Raw is the exact text of the block from the opening marker through
	// the closing marker's line ending.
	Raw string `json:"-"`

	// LineEnding is the line ending of the closing marker line: "\n",
	// "\r\n", or "" when the block ends the input without one.
	LineEnding string `json:"-"`
}

// Lines returns the number of lines the block spans, markers included.
func (b Block) Lines() int {
	return b.EndLine - b.StartLine + 1
}

// Segment is a piece of a Document: either literal text or a reference to
// a Block by index.
type Segment struct {
	Text       string
	IsBlock    bool
	BlockIndex int
}

// Document is the parsed form of a file: its segments in source order and
// the blocks they reference.
type Document struct {
	Segments []Segment
	Blocks   []Block
}

// LineSpan is an inclusive, 1-based line range. An empty span has
// End == Start-1.
type LineSpan struct {
	Start int
	End   int
}

// Empty reports whether the span covers no lines.
func (s LineSpan) Empty() bool {
	return s.End < s.Start
}

// ParseError reports malformed conflict markers. Line is the 1-based line
// of the offending marker.
type ParseError struct {
	Line   int
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed conflict markers at line %d: %s", e.Line, e.Reason)
}
