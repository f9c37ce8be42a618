package mcptools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/n0conflict/internal/conflict"
	"github.com/dusk-indust/n0conflict/internal/orchestrator"
	"github.com/dusk-indust/n0conflict/internal/persist"
	"github.com/dusk-indust/n0conflict/internal/report"
	"github.com/dusk-indust/n0conflict/internal/scan"
)

// FileResolver resolves the conflicts in one file. *orchestrator.Orchestrator
// satisfies it.
type FileResolver interface {
	ResolveFile(ctx context.Context, in orchestrator.Input) (*orchestrator.FileResolution, error)
}

// ConflictService handles MCP tool calls. Relative paths are taken
// relative to Root.
type ConflictService struct {
	resolver FileResolver
	root     string
	scanOpts scan.Options
	log      *slog.Logger
}

// ServiceOption configures a ConflictService.
type ServiceOption func(*ConflictService)

// WithRoot sets the directory relative paths are resolved against.
func WithRoot(dir string) ServiceOption {
	return func(s *ConflictService) { s.root = dir }
}

// WithScanOptions sets the options used by scan_conflicts.
func WithScanOptions(opts scan.Options) ServiceOption {
	return func(s *ConflictService) { s.scanOpts = opts }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *ConflictService) {
		if l != nil {
			s.log = l
		}
	}
}

// NewConflictService creates a service backed by r. A nil r leaves
// resolve_conflicts reporting an error while the other tools keep working.
func NewConflictService(r FileResolver, opts ...ServiceOption) *ConflictService {
	s := &ConflictService{
		resolver: r,
		root:     ".",
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ConflictService) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

func readFile(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// ExplainConflicts lists the conflict blocks of a file without resolving them.
func (s *ConflictService) ExplainConflicts(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ExplainInput,
) (*mcp.CallToolResult, report.Listing, error) {
	path := s.abs(input.Path)
	text, err := readFile(path)
	if err != nil {
		return nil, report.Listing{}, err
	}
	doc, err := conflict.Parse(text)
	if err != nil {
		return nil, report.Listing{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return nil, report.Describe(path, doc), nil
}

// ResolveConflicts resolves a file and optionally writes it back. The file
// is written only when every block was resolved.
func (s *ConflictService) ResolveConflicts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResolveInput,
) (*mcp.CallToolResult, ResolveOutput, error) {
	if s.resolver == nil {
		return nil, ResolveOutput{}, errors.New("resolution is unavailable: no API key configured")
	}
	path := s.abs(input.Path)
	text, err := readFile(path)
	if err != nil {
		return nil, ResolveOutput{}, err
	}

	fr, err := s.resolver.ResolveFile(ctx, orchestrator.Input{Path: path, Text: text})
	if err != nil {
		var perr *conflict.ParseError
		if errors.As(err, &perr) {
			return nil, ResolveOutput{Report: report.ForParseError(path, err)}, nil
		}
		return nil, ResolveOutput{}, err
	}

	out := ResolveOutput{Report: report.Summarize(fr)}
	final, ok := fr.FinalText()
	if !ok {
		return nil, out, nil
	}
	out.Preview = final
	if input.Write && len(fr.Blocks) > 0 {
		if err := persist.WriteFile(path, text, final); err != nil {
			return nil, out, err
		}
		out.Report.Written = true
		s.log.Info("resolved file written", "path", path, "blocks", len(fr.Blocks))
	}
	return nil, out, nil
}

// ScanConflicts finds conflicted files under a directory and counts their
// blocks.
func (s *ConflictService) ScanConflicts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	root := s.root
	if input.Root != "" {
		root = s.abs(input.Root)
	}
	paths, err := scan.Conflicted(ctx, root, s.scanOpts)
	if err != nil {
		return nil, ScanOutput{}, err
	}

	out := ScanOutput{Root: root, Files: make([]ScanEntry, 0, len(paths))}
	for _, e := range scan.InspectAll(paths) {
		entry := ScanEntry{Path: e.Path, Blocks: e.Blocks}
		if e.Err != nil {
			entry.Error = e.Err.Error()
		}
		out.Files = append(out.Files, entry)
	}
	return nil, out, nil
}
