package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/n0conflict/internal/capability"
	"github.com/dusk-indust/n0conflict/internal/config"
	"github.com/dusk-indust/n0conflict/internal/orchestrator"
	"github.com/dusk-indust/n0conflict/internal/resolver"
	"github.com/dusk-indust/n0conflict/internal/report"
	"github.com/dusk-indust/n0conflict/internal/syntax"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	ProjectRoot string
	Verbose     bool
	Timeout     time.Duration
	Concurrency int
	NoColor     bool
	Model       string
	BaseURL     string
}

// app carries the process environment through command execution.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)

	flags globalFlags
	ui    palette
	log   *slog.Logger
}

// exitCodeError ends the run with a specific exit status. A nil err exits
// silently.
type exitCodeError struct {
	code report.ExitStatus
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error { return e.err }

func exitWith(code report.ExitStatus, err error) error {
	return &exitCodeError{code: code, err: err}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, lookupEnv func(string) (string, bool)) int {
	a := &app{
		stdout:    stdout,
		stderr:    stderr,
		lookupEnv: lookupEnv,
		ui:        newPalette(false),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return int(report.StatusClean)
	}

	var ec *exitCodeError
	if errors.As(err, &ec) {
		if ec.err != nil {
			fmt.Fprintf(stderr, "%s %v\n", a.ui.failure.Render("error:"), ec.err)
		}
		return int(ec.code)
	}
	fmt.Fprintf(stderr, "%s %v\n", a.ui.failure.Render("error:"), err)
	return int(report.StatusError)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "n0conflict",
		Short: "AI-powered Git merge conflict resolver",
		Long: `n0conflict finds Git merge conflict blocks, asks an AI model to reconcile
each one, and writes the result back only when every block was resolved.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.setup()
			return nil
		},
	}
	root.SetVersionTemplate("n0conflict {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ProjectRoot, "project-root", ".", "directory holding n0conflict.yml or n0conflict.toml")
	pf.BoolVarP(&a.flags.Verbose, "verbose", "v", false, "enable debug logging on stderr")
	pf.DurationVar(&a.flags.Timeout, "timeout", 0, "deadline for the whole run (0 disables)")
	pf.IntVar(&a.flags.Concurrency, "concurrency", 0, "blocks resolved in parallel per file (default from config, 4)")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "disable colored output")
	pf.StringVar(&a.flags.Model, "model", "", "model used for resolution")
	pf.StringVar(&a.flags.BaseURL, "base-url", "", "Anthropic API base URL")

	root.AddCommand(
		a.resolveCmd(),
		a.scanCmd(),
		a.explainCmd(),
		a.serveMCPCmd(),
		a.versionCmd(),
	)
	return root
}

// setup configures logging and styling from the parsed global flags.
func (a *app) setup() {
	level := slog.LevelWarn
	if a.flags.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.ui = newPalette(!a.flags.NoColor && isTerminal(a.stdout))
}

// loadConfig reads the project config and applies flag overrides.
func (a *app) loadConfig(dir string) (config.ProjectConfig, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return config.ProjectConfig{}, err
	}
	if a.flags.Model != "" {
		cfg.Model = a.flags.Model
	}
	if a.flags.BaseURL != "" {
		cfg.BaseURL = a.flags.BaseURL
	}
	if a.flags.Concurrency > 0 {
		cfg.Concurrency = a.flags.Concurrency
	}
	if cfg.Source != "" {
		a.log.Debug("loaded config", "path", cfg.Source)
	}
	return cfg.WithDefaults(), nil
}

// runContext applies the --timeout deadline to the command context.
func (a *app) runContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if a.flags.Timeout > 0 {
		return context.WithTimeout(ctx, a.flags.Timeout)
	}
	return context.WithCancel(ctx)
}

// newOrchestrator wires the capability client, resolution engine and
// context builder for cred and cfg.
func (a *app) newOrchestrator(cred config.Credential, cfg config.ProjectConfig, opts ...orchestrator.Option) *orchestrator.Orchestrator {
	client := capability.NewAnthropicClient(cred.Key,
		capability.WithBaseURL(cfg.BaseURL),
		capability.WithModel(cfg.Model),
		capability.WithMaxTokens(cfg.MaxTokens),
	)
	engine := resolver.New(client,
		resolver.WithTimeout(cfg.TimeoutDuration()),
		resolver.WithLogger(a.log),
	)
	builder := syntax.NewContextBuilder(cfg.ContextLines)
	builder.Log = a.log

	a.log.Debug("capability configured", "model", client.Model(), "credential", cred.String())
	opts = append([]orchestrator.Option{
		orchestrator.WithConcurrency(cfg.Concurrency),
		orchestrator.WithContextBuilder(builder),
		orchestrator.WithLogger(a.log),
	}, opts...)
	return orchestrator.New(engine, opts...)
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "n0conflict %s\n", a.ui.accent.Render(version))
		},
	}
}
