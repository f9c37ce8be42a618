package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Run is the JSON export of a whole invocation.
type Run struct {
	GeneratedAt string   `json:"generatedAt"`
	Status      string   `json:"status"`
	ExitCode    int      `json:"exitCode"`
	Files       []Report `json:"files"`
}

// NewRun wraps reports with their derived exit status.
func NewRun(reports []Report) Run {
	status := Exit(reports)
	if reports == nil {
		reports = []Report{}
	}
	return Run{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Status:      status.String(),
		ExitCode:    int(status),
		Files:       reports,
	}
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
