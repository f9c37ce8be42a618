package capability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Compile-time interface check.
var _ Capability = (*AnthropicClient)(nil)

// Defaults for AnthropicClient.
const (
	DefaultBaseURL    = "https://api.anthropic.com"
	DefaultModel      = "claude-opus-4-6"
	DefaultMaxTokens  = 4096
	DefaultMaxRetries = 2
	maxErrorBodyBytes = 4 << 10
)

// AnthropicClient implements Capability on top of the Anthropic Messages
// API through the official SDK.
type AnthropicClient struct {
	client     anthropic.Client
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	maxRetries int
	timeout    time.Duration
	httpClient *http.Client
}

// ClientOption configures an AnthropicClient.
type ClientOption func(*AnthropicClient)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) ClientOption {
	return func(c *AnthropicClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel sets the model name sent with every request.
func WithModel(model string) ClientOption {
	return func(c *AnthropicClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens caps the length of the model's reply.
func WithMaxTokens(n int) ClientOption {
	return func(c *AnthropicClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithMaxRetries sets how often the SDK retries transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(c *AnthropicClient) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *AnthropicClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client. A nil client keeps
// the default.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *AnthropicClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewAnthropicClient creates a client authenticated with apiKey.
func NewAnthropicClient(apiKey string, opts ...ClientOption) *AnthropicClient {
	c := &AnthropicClient{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		maxTokens:  DefaultMaxTokens,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(c.apiKey),
		option.WithBaseURL(c.baseURL + "/"),
		option.WithMaxRetries(c.maxRetries),
	}
	if c.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(c.httpClient))
	}
	if c.timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(c.timeout))
	}
	c.client = anthropic.NewClient(reqOpts...)
	return c
}

// Model returns the model name the client sends.
func (c *AnthropicClient) Model() string {
	return c.model
}

// errorResponse is the body of a Messages API error.
type errorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Resolve sends req to the Messages API and parses the reply.
func (c *AnthropicClient) Resolve(ctx context.Context, req Request) (*Response, error) {
	text, err := c.complete(ctx, BuildMessage(req))
	if err != nil {
		return nil, err
	}
	return ParseReply(text)
}

// complete performs one Messages API call and returns the concatenated text
// content of the reply.
func (c *AnthropicClient) complete(ctx context.Context, userMessage string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &Error{
				Class:      classForStatus(apiErr.StatusCode),
				StatusCode: apiErr.StatusCode,
				Message:    apiErrorMessage([]byte(apiErr.RawJSON())),
			}
		}
		return "", &Error{Class: Classify(err), Message: "send request", Err: err}
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &Error{Class: ClassMalformed, StatusCode: http.StatusOK, Message: "response contained no text"}
	}
	return sb.String(), nil
}

// apiErrorMessage extracts the message from an API error body, falling
// back to the (truncated) raw body.
func apiErrorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		if er.Error.Type != "" {
			return er.Error.Type + ": " + er.Error.Message
		}
		return er.Error.Message
	}
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return strings.TrimSpace(string(body))
}
