package main

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// palette holds the styles used for terminal output. Without color every
// style renders text unchanged.
type palette struct {
	color bool

	bold    lipgloss.Style
	dim     lipgloss.Style
	accent  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	ours    lipgloss.Style
	theirs  lipgloss.Style
	base    lipgloss.Style
	panel   lipgloss.Style
}

func newPalette(color bool) palette {
	p := palette{
		color:   color,
		bold:    lipgloss.NewStyle(),
		dim:     lipgloss.NewStyle(),
		accent:  lipgloss.NewStyle(),
		success: lipgloss.NewStyle(),
		warning: lipgloss.NewStyle(),
		failure: lipgloss.NewStyle(),
		ours:    lipgloss.NewStyle(),
		theirs:  lipgloss.NewStyle(),
		base:    lipgloss.NewStyle(),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
	if !color {
		return p
	}
	p.bold = p.bold.Bold(true)
	p.dim = p.dim.Faint(true)
	p.accent = p.accent.Foreground(lipgloss.Color("6"))
	p.success = p.success.Foreground(lipgloss.Color("2"))
	p.warning = p.warning.Foreground(lipgloss.Color("3"))
	p.failure = p.failure.Foreground(lipgloss.Color("1")).Bold(true)
	p.ours = p.ours.Foreground(lipgloss.Color("2"))
	p.theirs = p.theirs.Foreground(lipgloss.Color("1"))
	p.base = p.base.Foreground(lipgloss.Color("4"))
	p.panel = p.panel.BorderForeground(lipgloss.Color("3"))
	return p
}

func (p palette) check() string { return p.success.Render("✓") }
func (p palette) cross() string { return p.failure.Render("✗") }

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// highlight applies syntax highlighting to code based on path, falling
// back to the plain text.
func highlight(code, path string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// Alignment specifies column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column defines a table column. A zero Width sizes the column to its
// widest cell.
type Column struct {
	Name  string
	Width int
	Align Alignment
	Style lipgloss.Style
}

// table renders rows under a styled header and separator.
type table struct {
	ui      palette
	columns []Column
	rows    [][]string
	indent  string
}

func newTable(ui palette, columns ...Column) *table {
	return &table{ui: ui, columns: columns, indent: "  "}
}

func (t *table) AddRow(values ...string) {
	for len(values) < len(t.columns) {
		values = append(values, "")
	}
	t.rows = append(t.rows, values)
}

func (t *table) Render() string {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = col.Width
		if widths[i] == 0 {
			widths[i] = ansi.StringWidth(col.Name)
			for _, row := range t.rows {
				widths[i] = max(widths[i], ansi.StringWidth(row[i]))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(t.indent)
	total := 0
	for i, col := range t.columns {
		sb.WriteString(pad(t.ui.bold.Render(col.Name), col.Name, widths[i], col.Align))
		total += widths[i]
		if i < len(t.columns)-1 {
			sb.WriteString(" ")
			total++
		}
	}
	sb.WriteString("\n" + t.indent + t.ui.dim.Render(strings.Repeat("─", total)) + "\n")

	for _, row := range t.rows {
		sb.WriteString(t.indent)
		for i, col := range t.columns {
			plain := ansi.Strip(row[i])
			val := row[i]
			if ansi.StringWidth(plain) > widths[i] && widths[i] > 3 {
				plain = ansi.Truncate(plain, widths[i], "...")
				val = plain
			}
			if t.ui.color {
				val = col.Style.Render(val)
			}
			sb.WriteString(pad(val, plain, widths[i], col.Align))
			if i < len(t.columns)-1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// pad pads styled to width, measuring the display width of plain.
func pad(styled, plain string, width int, align Alignment) string {
	n := ansi.StringWidth(plain)
	if n >= width {
		return styled
	}
	padding := strings.Repeat(" ", width-n)
	if align == AlignRight {
		return padding + styled
	}
	return styled + padding
}
