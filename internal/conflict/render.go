package conflict

import "strings"

// Render reassembles the document in source order. For each block, replace
// returns the text to splice in and true, or false to keep the block's raw
// text unchanged. A nil replace keeps every block.
func (d *Document) Render(replace func(Block) (string, bool)) string {
	var sb strings.Builder
	for _, seg := range d.Segments {
		if !seg.IsBlock {
			sb.WriteString(seg.Text)
			continue
		}
		b := d.Blocks[seg.BlockIndex]
		if replace != nil {
			if text, ok := replace(b); ok {
				sb.WriteString(text)
				continue
			}
		}
		sb.WriteString(b.Raw)
	}
	return sb.String()
}

// Reassemble returns the original text the document was parsed from.
func (d *Document) Reassemble() string {
	return d.Render(nil)
}

// OursView renders the document with every block replaced by its ours side
// and returns the line span each block occupies in the result. The view is
// marker-free, which makes it suitable for syntax-aware context extraction.
func (d *Document) OursView() (string, []LineSpan) {
	var sb strings.Builder
	spans := make([]LineSpan, len(d.Blocks))
	next := 1

	for _, seg := range d.Segments {
		if !seg.IsBlock {
			sb.WriteString(seg.Text)
			next += strings.Count(seg.Text, "\n")
			continue
		}
		b := d.Blocks[seg.BlockIndex]
		n := countLines(b.Ours)
		spans[seg.BlockIndex] = LineSpan{Start: next, End: next + n - 1}
		sb.WriteString(b.Ours)
		next += strings.Count(b.Ours, "\n")
	}
	return sb.String(), spans
}

// SplitLines splits text into lines, keeping each line's ending.
func SplitLines(text string) []string {
	var lines []string
	for rest := text; rest != ""; {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			lines = append(lines, rest)
			break
		}
		lines = append(lines, rest[:i+1])
		rest = rest[i+1:]
	}
	return lines
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
