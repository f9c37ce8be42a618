package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/n0conflict/internal/report"
	"github.com/dusk-indust/n0conflict/internal/scan"
)

// scanEntry is the JSON form of one scanned file.
type scanEntry struct {
	Path   string `json:"path"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error,omitempty"`
}

func (a *app) scanCmd() *cobra.Command {
	var asJSON, noGit bool
	cmd := &cobra.Command{
		Use:   "scan [PATH]",
		Short: "Find files with merge conflicts under PATH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return a.runScan(cmd, root, asJSON, noGit)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "scan file contents instead of asking git")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, root string, asJSON, noGit bool) error {
	projectRoot := a.flags.ProjectRoot
	if !cmd.Flags().Changed("project-root") {
		projectRoot = root
	}
	cfg, err := a.loadConfig(projectRoot)
	if err != nil {
		return exitWith(report.StatusError, err)
	}

	ctx, cancel := a.runContext(cmd)
	defer cancel()

	paths, err := scan.Conflicted(ctx, root, scan.Options{
		ExcludeDirs:  cfg.ExcludeDirs,
		MaxFileBytes: cfg.MaxFileBytes,
		NoGit:        noGit,
		Log:          a.log,
	})
	if err != nil {
		return exitWith(report.StatusError, err)
	}
	entries := scan.InspectAll(paths)

	if asJSON {
		out := make([]scanEntry, len(entries))
		for i, e := range entries {
			out[i] = scanEntry{Path: e.Path, Blocks: e.Blocks}
			if e.Err != nil {
				out[i].Error = e.Err.Error()
			}
		}
		if err := report.WriteJSON(a.stdout, out); err != nil {
			return exitWith(report.StatusError, err)
		}
		return nil
	}

	ui := a.ui
	if len(entries) == 0 {
		fmt.Fprintf(a.stdout, "%s No merge conflicts found.\n", ui.check())
		return nil
	}

	absRoot, _ := filepath.Abs(root)
	t := newTable(ui,
		Column{Name: "File", Style: ui.accent},
		Column{Name: "Conflicts", Align: AlignRight, Style: ui.warning},
		Column{Name: "Note", Style: ui.failure},
	)
	for _, e := range entries {
		name := e.Path
		if rel, err := filepath.Rel(absRoot, e.Path); err == nil {
			name = rel
		}
		if e.Err != nil {
			t.AddRow(name, "-", e.Err.Error())
			continue
		}
		t.AddRow(name, fmt.Sprint(e.Blocks))
	}
	fmt.Fprintf(a.stdout, "%s\n\n%s", ui.bold.Render("Conflicted Files"), t.Render())
	fmt.Fprintf(a.stdout, "\n  Run %s to resolve each file.\n", ui.accent.Render("n0conflict resolve <file>"))
	return nil
}
