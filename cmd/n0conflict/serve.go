package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/n0conflict/internal/config"
	"github.com/dusk-indust/n0conflict/internal/mcptools"
	"github.com/dusk-indust/n0conflict/internal/report"
	"github.com/dusk-indust/n0conflict/internal/scan"
)

func (a *app) serveMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run as an MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(a.flags.ProjectRoot)
			if err != nil {
				return exitWith(report.StatusError, err)
			}
			root, err := filepath.Abs(a.flags.ProjectRoot)
			if err != nil {
				return exitWith(report.StatusError, err)
			}

			var fr mcptools.FileResolver
			if cred, err := config.ResolveCredential(a.lookupEnv); err != nil {
				a.log.Warn("resolve_conflicts disabled", "err", err)
			} else {
				fr = a.newOrchestrator(cred, cfg)
			}

			svc := mcptools.NewConflictService(fr,
				mcptools.WithRoot(root),
				mcptools.WithScanOptions(scan.Options{ExcludeDirs: cfg.ExcludeDirs, MaxFileBytes: cfg.MaxFileBytes, Log: a.log}),
				mcptools.WithLogger(a.log),
			)
			ctx, cancel := a.runContext(cmd)
			defer cancel()
			if err := mcptools.RunStdio(ctx, mcptools.NewServer(svc)); err != nil && ctx.Err() == nil {
				return exitWith(report.StatusError, err)
			}
			return nil
		},
	}
}
