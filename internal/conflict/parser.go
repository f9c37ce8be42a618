package conflict

import (
	"fmt"
	"regexp"
	"strings"
)

type markerKind int

const (
	markerNone markerKind = iota
	markerOurs
	markerBase
	markerSeparator
	markerTheirs
)

func (k markerKind) String() string {
	switch k {
	case markerOurs:
		return MarkerOurs
	case markerBase:
		return MarkerBase
	case markerSeparator:
		return MarkerSeparator
	case markerTheirs:
		return MarkerTheirs
	default:
		return "text"
	}
}

// section tracks which side of an open block is being collected.
type section int

const (
	sectionOurs section = iota
	sectionBase
	sectionTheirs
)

// openBlock accumulates a block while its markers are being read.
type openBlock struct {
	block   Block
	section section
	raw     strings.Builder
	ours    strings.Builder
	base    strings.Builder
	theirs  strings.Builder
}

var (
	openingMarker = regexp.MustCompile(`(?m)^<{7}(?:[ \t]|\r?$)`)
	anyMarker     = regexp.MustCompile(`(?m)^(?:<{7}|\|{7}|>{7})(?:[ \t]|\r?$)|^={7}[ \t]*\r?$`)
)

// HasMarkers reports whether text contains at least one opening conflict
// marker line.
func HasMarkers(text string) bool {
	return openingMarker.MatchString(text)
}

// ContainsMarkers reports whether text contains any conflict marker line,
// including separators and base markers.
func ContainsMarkers(text string) bool {
	return anyMarker.MatchString(text)
}

// Parse splits text into literal segments and conflict blocks. Malformed
// markers yield a *ParseError and no document.
func Parse(text string) (*Document, error) {
	doc := &Document{}
	var (
		plain  strings.Builder
		cur    *openBlock
		lineNo int
	)

	flushPlain := func() {
		if plain.Len() > 0 {
			doc.Segments = append(doc.Segments, Segment{Text: plain.String()})
			plain.Reset()
		}
	}

	for rest := text; rest != ""; {
		var line string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i+1], rest[i+1:]
		} else {
			line, rest = rest, ""
		}
		lineNo++

		kind, label := classify(line)

		if cur == nil {
			if kind == markerOurs {
				flushPlain()
				cur = &openBlock{block: Block{
					Index:     len(doc.Blocks),
					StartLine: lineNo,
					OursLabel: label,
				}}
				cur.raw.WriteString(line)
			} else {
				plain.WriteString(line)
			}
			continue
		}

		cur.raw.WriteString(line)

		switch kind {
		case markerOurs:
			return nil, &ParseError{
				Line:   lineNo,
				Reason: fmt.Sprintf("nested %s inside block opened at line %d", MarkerOurs, cur.block.StartLine),
			}

		case markerBase:
			if cur.section != sectionOurs {
				return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("unexpected %s after %s", MarkerBase, sectionMarker(cur.section))}
			}
			cur.section = sectionBase
			cur.block.HasBase = true
			cur.block.BaseLabel = label

		case markerSeparator:
			if cur.section == sectionTheirs {
				return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("duplicate %s in block opened at line %d", MarkerSeparator, cur.block.StartLine)}
			}
			cur.section = sectionTheirs

		case markerTheirs:
			if cur.section != sectionTheirs {
				return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("%s before %s", MarkerTheirs, MarkerSeparator)}
			}
			b := cur.block
			b.EndLine = lineNo
			b.TheirsLabel = label
			b.Ours = cur.ours.String()
			b.Base = cur.base.String()
			b.Theirs = cur.theirs.String()
			b.Raw = cur.raw.String()
			b.LineEnding = lineEnding(line)

			doc.Segments = append(doc.Segments, Segment{IsBlock: true, BlockIndex: b.Index})
			doc.Blocks = append(doc.Blocks, b)
			cur = nil

		default:
			switch cur.section {
			case sectionOurs:
				cur.ours.WriteString(line)
			case sectionBase:
				cur.base.WriteString(line)
			case sectionTheirs:
				cur.theirs.WriteString(line)
			}
		}
	}

	if cur != nil {
		return nil, &ParseError{
			Line:   cur.block.StartLine,
			Reason: fmt.Sprintf("unterminated conflict block: no matching %s", missingMarker(cur.section)),
		}
	}
	flushPlain()

	return doc, nil
}

// classify reports which marker, if any, starts line, and the label that
// follows it.
func classify(line string) (markerKind, string) {
	body := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	if len(body) < 7 {
		return markerNone, ""
	}

	var kind markerKind
	switch body[:7] {
	case MarkerOurs:
		kind = markerOurs
	case MarkerBase:
		kind = markerBase
	case MarkerSeparator:
		kind = markerSeparator
	case MarkerTheirs:
		kind = markerTheirs
	default:
		return markerNone, ""
	}

	rest := body[7:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return markerNone, ""
	}
	label := strings.TrimSpace(rest)
	if kind == markerSeparator && label != "" {
		return markerNone, ""
	}
	return kind, label
}

func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	default:
		return ""
	}
}

func sectionMarker(s section) string {
	switch s {
	case sectionBase:
		return MarkerBase
	case sectionTheirs:
		return MarkerSeparator
	default:
		return MarkerOurs
	}
}

func missingMarker(s section) string {
	if s == sectionTheirs {
		return MarkerTheirs
	}
	return MarkerSeparator + "/" + MarkerTheirs
}
