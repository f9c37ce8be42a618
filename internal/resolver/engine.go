// Package resolver turns one conflict block into a ResolutionOutcome by
// consulting the AI capability and validating what comes back.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dusk-indust/n0conflict/internal/capability"
	"github.com/dusk-indust/n0conflict/internal/conflict"
)

// DefaultTimeout bounds a single capability call.
const DefaultTimeout = 2 * time.Minute

// FileContext is the per-file information sent along with a block.
type FileContext struct {
	Path            string
	SurroundingText string
	Language        string
}

// Engine resolves blocks one at a time. It holds no per-block state and is
// safe for concurrent use.
type Engine struct {
	capability capability.Capability
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the deadline applied to each capability call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Engine backed by c.
func New(c capability.Capability, opts ...Option) *Engine {
	e := &Engine{
		capability: c,
		timeout:    DefaultTimeout,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve asks the capability to reconcile block. Every failure is folded
// into an Unresolved outcome; Resolve never returns an error.
func (e *Engine) Resolve(ctx context.Context, block conflict.Block, fc FileContext) Outcome {
	req := capability.Request{
		ID:                 uuid.NewString(),
		OursText:           block.Ours,
		TheirsText:         block.Theirs,
		BaseText:           block.Base,
		HasBase:            block.HasBase,
		OursLabel:          block.OursLabel,
		TheirsLabel:        block.TheirsLabel,
		FilePath:           fc.Path,
		SurroundingContext: fc.SurroundingText,
		DetectedLanguage:   fc.Language,
	}
	log := e.log.With("request", req.ID, "path", fc.Path, "block", block.Index, "line", block.StartLine)

	if err := ctx.Err(); err != nil {
		return Unresolved(KindCanceled, "not attempted: "+err.Error())
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.capability.Resolve(callCtx, req)
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			log.Debug("resolution canceled", "err", err)
			return Unresolved(KindCanceled, "resolution canceled: "+ctx.Err().Error())
		}
		class := capability.Classify(err)
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			class = capability.ClassTimeout
		}
		log.Warn("capability call failed", "class", class, "elapsed", elapsed, "err", err)
		return failed(class, fmt.Sprintf("%s: %v", class, err))
	}
	if resp == nil {
		log.Warn("capability returned no response", "elapsed", elapsed)
		return failed(capability.ClassMalformed, fmt.Sprintf("%s: empty response", capability.ClassMalformed))
	}

	if !resp.Resolvable {
		log.Debug("capability declined", "elapsed", elapsed)
		return Unresolved(KindDeclined, strings.TrimSpace(resp.Explanation))
	}

	text, verr := validate(block, resp.ResolvedText)
	if verr != "" {
		log.Warn("resolution rejected", "reason", verr, "elapsed", elapsed)
		return Unresolved(KindValidation, verr)
	}

	log.Debug("block resolved", "elapsed", elapsed, "bytes", len(text))
	return Resolved(normalize(block, text))
}

// validate applies structural checks to a proposed resolution and returns
// the text to use, or a non-empty reason for rejecting it.
func validate(block conflict.Block, text string) (string, string) {
	if conflict.ContainsMarkers(text) {
		return "", "proposed resolution still contains conflict markers"
	}
	if strings.TrimSpace(text) == "" {
		if !isBlank(block.Ours) && !isBlank(block.Theirs) {
			return "", "proposed resolution is empty although both sides have content"
		}
		return "", ""
	}
	return text, ""
}

// normalize makes text splice cleanly in place of block: it adopts the
// block's line-ending style and ends with a line ending whenever the
// closing marker line had one. A block at the end of input without a final
// line ending has no trailing newline in its replacement either.
func normalize(block conflict.Block, text string) string {
	if text == "" {
		return ""
	}
	if lineStyle(block) == "\r\n" {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	switch {
	case block.LineEnding == "":
		text = strings.TrimRight(text, "\r\n")
	case !strings.HasSuffix(text, "\n"):
		text += block.LineEnding
	}
	return text
}

// lineStyle returns the block's line ending, taken from the opening marker
// line when the closing marker ends the input without one.
func lineStyle(block conflict.Block) string {
	if block.LineEnding != "" {
		return block.LineEnding
	}
	if i := strings.IndexByte(block.Raw, '\n'); i > 0 && block.Raw[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
