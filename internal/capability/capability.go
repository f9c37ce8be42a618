// Package capability defines the contract with the external AI service that
// reconciles conflict blocks, and provides an HTTP client for the Anthropic
// Messages API that satisfies it.
package capability

import "context"

// Request describes one conflict block to reconcile.
type Request struct {
	// ID correlates the request across log lines. It is not sent upstream.
	ID string `json:"id,omitempty"`

	OursText    string `json:"oursText"`
	TheirsText  string `json:"theirsText"`
	BaseText    string `json:"baseText,omitempty"`
	HasBase     bool   `json:"hasBase"`
	OursLabel   string `json:"oursLabel"`
	TheirsLabel string `json:"theirsLabel"`

	FilePath           string `json:"filePath"`
	SurroundingContext string `json:"surroundingContext,omitempty"`
	DetectedLanguage   string `json:"detectedLanguage,omitempty"`
}

// Response is the capability's verdict for one block. ResolvedText is
// meaningful only when Resolvable is true, Explanation only when it is false.
type Response struct {
	Resolvable   bool   `json:"resolvable"`
	ResolvedText string `json:"resolvedText,omitempty"`
	Explanation  string `json:"explanation,omitempty"`
}

// Capability reconciles a single conflict block. Implementations must be
// safe for concurrent use and must honor ctx cancellation.
type Capability interface {
	Resolve(ctx context.Context, req Request) (*Response, error)
}

// Func adapts an ordinary function to the Capability interface.
type Func func(ctx context.Context, req Request) (*Response, error)

// Resolve calls f(ctx, req).
func (f Func) Resolve(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
