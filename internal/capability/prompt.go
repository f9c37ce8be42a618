package capability

import (
	_ "embed"
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to answer with exactly one of the
// RESOLVED: or CANNOT_RESOLVE: reply formats.
//
//go:embed prompts/system.txt
var SystemPrompt string

// Reply prefixes the model is instructed to use.
const (
	PrefixResolved      = "RESOLVED:"
	PrefixCannotResolve = "CANNOT_RESOLVE:"
)

// BuildMessage renders the user message for req.
func BuildMessage(req Request) string {
	var sb strings.Builder

	sb.WriteString("Resolve the following Git merge conflict")
	if req.FilePath != "" {
		fmt.Fprintf(&sb, " in %s", req.FilePath)
	}
	sb.WriteString(".")
	if req.DetectedLanguage != "" {
		fmt.Fprintf(&sb, " The file is written in %s.", req.DetectedLanguage)
	}
	sb.WriteString("\n\n")

	if req.SurroundingContext != "" {
		sb.WriteString("--- SURROUNDING CONTEXT ---\n")
		writeBody(&sb, req.SurroundingContext)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "--- OURS (%s) ---\n", labelOr(req.OursLabel, "current"))
	writeBody(&sb, req.OursText)

	if req.HasBase {
		sb.WriteString("--- BASE (common ancestor) ---\n")
		writeBody(&sb, req.BaseText)
	}

	fmt.Fprintf(&sb, "--- THEIRS (%s) ---\n", labelOr(req.TheirsLabel, "incoming"))
	writeBody(&sb, req.TheirsText)

	return sb.String()
}

func writeBody(sb *strings.Builder, body string) {
	if body == "" {
		sb.WriteString("(empty)\n")
		return
	}
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
