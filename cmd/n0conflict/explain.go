package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/n0conflict/internal/conflict"
	"github.com/dusk-indust/n0conflict/internal/report"
)

func (a *app) explainCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "explain FILE",
		Short: "Show the conflicting sections of a file without resolving them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExplain(args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}

func (a *app) runExplain(path string, asJSON bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return exitWith(report.StatusError, fmt.Errorf("read %s: %w", path, err))
	}
	doc, err := conflict.Parse(string(data))
	if err != nil {
		return exitWith(report.StatusError, fmt.Errorf("%s: %w", path, err))
	}
	listing := report.Describe(path, doc)

	if asJSON {
		if err := report.WriteJSON(a.stdout, listing); err != nil {
			return exitWith(report.StatusError, err)
		}
		return nil
	}

	ui := a.ui
	w := a.stdout
	if len(listing.Blocks) == 0 {
		fmt.Fprintf(w, "%s No conflicts found in %s\n", ui.check(), ui.bold.Render(path))
		return nil
	}

	first, last := listing.Blocks[0], listing.Blocks[len(listing.Blocks)-1]
	fmt.Fprintf(w, "\n%s in %s (lines %d-%d)\n\n",
		ui.bold.Render(fmt.Sprintf("%d conflict block(s)", len(listing.Blocks))),
		ui.accent.Render(path), first.StartLine, last.EndLine)

	for _, b := range listing.Blocks {
		var body strings.Builder
		section(&body, ui.ours.Bold(ui.color).Render("Ours"), ui.dim.Render(label(b.OursLabel)), ui.ours.Render(side(b.Ours)))
		if b.HasBase {
			body.WriteString("\n\n")
			section(&body, ui.base.Bold(ui.color).Render("Base"), ui.dim.Render(label(b.BaseLabel)), ui.base.Render(side(b.Base)))
		}
		body.WriteString("\n\n")
		section(&body, ui.theirs.Bold(ui.color).Render("Theirs"), ui.dim.Render(label(b.TheirsLabel)), ui.theirs.Render(side(b.Theirs)))

		title := fmt.Sprintf("%s  %s", ui.warning.Render(fmt.Sprintf("Conflict %d", b.Index+1)),
			ui.dim.Render(fmt.Sprintf("lines %d-%d", b.StartLine, b.EndLine)))
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, ui.panel.Render(body.String()))
	}
	return nil
}

func section(sb *strings.Builder, heading, lbl, text string) {
	fmt.Fprintf(sb, "%s %s\n%s", heading, lbl, text)
}

func label(l string) string {
	if l == "" {
		return ""
	}
	return "(" + l + ")"
}

func side(text string) string {
	if strings.TrimSpace(text) == "" {
		return "(empty)"
	}
	return strings.TrimRight(text, "\r\n")
}

// indent prefixes every line of text.
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
