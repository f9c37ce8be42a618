// Package mcptools exposes conflict explanation, resolution and scanning as
// MCP tools.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with the conflict tools registered.
func NewServer(svc *ConflictService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "n0conflict",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "explain_conflicts",
		Description: "List the merge conflict blocks in a file: line ranges, branch labels and previews of each side. Does not resolve anything.",
	}, svc.ExplainConflicts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_conflicts",
		Description: "Resolve the merge conflicts in a file with AI. Returns a per-block report. With write=true the file is rewritten only when every block was resolved.",
	}, svc.ResolveConflicts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_conflicts",
		Description: "Find files with merge conflicts under a directory, using git's unmerged paths or a marker scan, and count their blocks.",
	}, svc.ScanConflicts)

	return server
}

// RunStdio serves on stdin/stdout until the client disconnects or ctx is
// canceled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
