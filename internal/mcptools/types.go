package mcptools

import "github.com/dusk-indust/n0conflict/internal/report"

// ExplainInput is the input for the explain_conflicts MCP tool.
type ExplainInput struct {
	Path string `json:"path" jsonschema:"path to a file containing merge conflict markers"`
}

// ResolveInput is the input for the resolve_conflicts MCP tool.
type ResolveInput struct {
	Path  string `json:"path" jsonschema:"path to a file containing merge conflict markers"`
	Write bool   `json:"write,omitempty" jsonschema:"write the resolved file back, only when every block was resolved"`
}

// ResolveOutput is the result of the resolve_conflicts MCP tool.
type ResolveOutput struct {
	Report report.Report `json:"report"`
	// Preview is the fully resolved content, present only when every block
	// was resolved.
	Preview string `json:"preview,omitempty"`
}

// ScanInput is the input for the scan_conflicts MCP tool.
type ScanInput struct {
	Root string `json:"root,omitempty" jsonschema:"directory to scan (default: server working directory)"`
}

// ScanOutput is the result of the scan_conflicts MCP tool.
type ScanOutput struct {
	Root  string      `json:"root"`
	Files []ScanEntry `json:"files"`
}

// ScanEntry is one conflicted file found by scan_conflicts.
type ScanEntry struct {
	Path   string `json:"path"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error,omitempty"`
}
