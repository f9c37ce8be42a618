package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/n0conflict/internal/config"
	"github.com/dusk-indust/n0conflict/internal/orchestrator"
	"github.com/dusk-indust/n0conflict/internal/persist"
	"github.com/dusk-indust/n0conflict/internal/report"
)

type resolveFlags struct {
	Write         bool
	DryRun        bool
	Partial       bool
	AcceptMarkers bool
	JSON          bool
}

func (a *app) resolveCmd() *cobra.Command {
	var flags resolveFlags
	cmd := &cobra.Command{
		Use:   "resolve FILE...",
		Short: "Resolve the merge conflicts in one or more files",
		Long: `Resolve asks the AI model to reconcile every conflict block in each FILE.

By default the outcome is only summarized. Use --dry-run to print the
resolved file, or --write to save it. A file is written only when every
block in it was resolved, unless --partial --accept-markers is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runResolve(cmd, args, flags)
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&flags.Write, "write", "w", false, "write resolved output back to the file")
	f.BoolVar(&flags.DryRun, "dry-run", false, "print the resolved file without writing")
	f.BoolVar(&flags.Partial, "partial", false, "with --write, save resolved blocks even when others remain")
	f.BoolVar(&flags.AcceptMarkers, "accept-markers", false, "acknowledge that --partial leaves conflict markers in the file")
	f.BoolVar(&flags.JSON, "json", false, "print a JSON report")
	cmd.MarkFlagsMutuallyExclusive("write", "dry-run")
	return cmd
}

func (a *app) runResolve(cmd *cobra.Command, paths []string, flags resolveFlags) error {
	if flags.Partial && !flags.AcceptMarkers {
		return exitWith(report.StatusError, errors.New("--partial leaves conflict markers in files; add --accept-markers to confirm"))
	}
	if flags.Partial && !flags.Write {
		return exitWith(report.StatusError, errors.New("--partial only applies together with --write"))
	}

	cfg, err := a.loadConfig(a.flags.ProjectRoot)
	if err != nil {
		return exitWith(report.StatusError, err)
	}
	cred, err := config.ResolveCredential(a.lookupEnv)
	if err != nil {
		return exitWith(report.StatusError, err)
	}

	ctx, cancel := a.runContext(cmd)
	defer cancel()

	// Unreadable files are reported without being attempted.
	reports := make([]report.Report, len(paths))
	var inputs []orchestrator.Input
	var slots []int
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			reports[i] = report.ForParseError(p, fmt.Errorf("read %s: %w", p, err))
			continue
		}
		inputs = append(inputs, orchestrator.Input{Path: p, Text: string(data)})
		slots = append(slots, i)
	}

	var opts []orchestrator.Option
	var done sync.WaitGroup
	if !flags.JSON && (a.flags.Verbose || isTerminal(a.stderr)) {
		progress := orchestrator.NewProgressReporter()
		opts = append(opts, orchestrator.WithProgress(progress.Emit))
		done.Add(1)
		go func() {
			defer done.Done()
			for ev := range progress.Subscribe() {
				if ev.Status != orchestrator.EventPending {
					fmt.Fprintln(a.stderr, a.ui.dim.Render(orchestrator.FormatEvent(ev)))
				}
			}
		}()
		defer func() {
			progress.Close()
			done.Wait()
		}()
	}

	orch := a.newOrchestrator(cred, cfg, opts...)
	results := orch.ResolveFiles(ctx, inputs)

	if err := ctx.Err(); err != nil {
		return exitWith(report.StatusError, fmt.Errorf("run interrupted, no files were written: %w", err))
	}

	for j, res := range results {
		i := slots[j]
		if res.Err != nil {
			reports[i] = report.ForParseError(res.Input.Path, res.Err)
			continue
		}
		r := report.Summarize(res.Resolution)
		if flags.Write {
			written, err := a.persist(res, flags.Partial)
			if err != nil {
				r.Error = err.Error()
			}
			r.Written = written
		}
		reports[i] = r
	}

	if flags.JSON {
		if err := report.WriteJSON(a.stdout, report.NewRun(reports)); err != nil {
			return exitWith(report.StatusError, err)
		}
	} else {
		byPath := make(map[string]*orchestrator.FileResolution, len(results))
		for _, res := range results {
			byPath[res.Input.Path] = res.Resolution
		}
		for _, r := range reports {
			a.printResolution(r, byPath[r.Path], flags)
		}
	}

	if status := report.Exit(reports); status != report.StatusClean {
		return exitWith(status, nil)
	}
	return nil
}

// persist writes the final text of res, or its partial text when allowed.
func (a *app) persist(res orchestrator.FileResult, partial bool) (bool, error) {
	fr := res.Resolution
	if len(fr.Blocks) == 0 {
		return false, nil
	}
	text, ok := fr.FinalText()
	if !ok {
		if !partial || len(fr.Unresolved()) == len(fr.Blocks) {
			return false, nil
		}
		text = fr.PartialText()
	}
	if err := persist.WriteFile(fr.Path, res.Input.Text, text); err != nil {
		return false, err
	}
	a.log.Info("file written", "path", fr.Path, "complete", ok)
	return true, nil
}

func (a *app) printResolution(r report.Report, fr *orchestrator.FileResolution, flags resolveFlags) {
	ui := a.ui
	w := a.stdout

	if r.Failed() {
		fmt.Fprintf(w, "%s %s: %s\n", ui.cross(), ui.bold.Render(r.Path), r.Error)
		return
	}
	if r.Total == 0 {
		fmt.Fprintf(w, "%s No conflicts found in %s\n", ui.check(), ui.bold.Render(r.Path))
		return
	}

	fmt.Fprintf(w, "\n%s %s\n", ui.bold.Render("n0conflict"), ui.accent.Render(r.Path))
	fmt.Fprintf(w, "  Found %s conflict block(s)\n\n", ui.warning.Render(fmt.Sprint(r.Total)))
	for _, b := range r.Blocks {
		if b.Explanation == "" {
			fmt.Fprintf(w, "  %s Conflict %d (lines %d-%d): resolved\n", ui.check(), b.Index+1, b.StartLine, b.EndLine)
			continue
		}
		fmt.Fprintf(w, "  %s Conflict %d (lines %d-%d): cannot be resolved automatically\n", ui.cross(), b.Index+1, b.StartLine, b.EndLine)
		fmt.Fprintln(w, indent(ui.panel.Render(b.Explanation), "    "))
	}

	switch {
	case !r.AllResolved && r.Written:
		fmt.Fprintf(w, "\n%s Wrote %d of %d resolutions to %s; conflict markers remain.\n",
			ui.warning.Render("!"), r.Resolved, r.Total, ui.bold.Render(r.Path))
	case !r.AllResolved:
		fmt.Fprintln(w, "\n"+ui.warning.Render("Some conflicts require manual resolution."))
	case flags.DryRun && fr != nil:
		final, _ := fr.FinalText()
		if ui.color {
			final = highlight(final, r.Path)
		}
		fmt.Fprintf(w, "\n%s\n%s", ui.success.Render("Preview: "+r.Path), final)
	case r.Written:
		fmt.Fprintf(w, "\n%s Written to %s\n", ui.check(), ui.bold.Render(r.Path))
	case !flags.Write:
		fmt.Fprintln(w, "\n"+ui.dim.Render("Tip: use --write to save changes or --dry-run to preview the result."))
	}
}
