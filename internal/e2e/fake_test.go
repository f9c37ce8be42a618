//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// unionModel is a stand-in for the Messages API. It merges a block by
// keeping every ours line followed by the theirs lines ours lacks, and
// declines any block whose theirs side is labeled "vendor".
type unionModel struct {
	mu       sync.Mutex
	messages []string
}

func newUnionModel(t *testing.T) (*unionModel, *httptest.Server) {
	t.Helper()
	m := &unionModel{}
	ts := httptest.NewServer(m)
	t.Cleanup(ts.Close)
	return m, ts
}

func (m *unionModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/messages" || r.Header.Get("x-api-key") == "" {
		http.Error(w, `{"type":"error","error":{"type":"authentication_error","message":"bad request"}}`, http.StatusUnauthorized)
		return
	}
	var req struct {
		Messages []struct {
			Content []textBlock `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		http.Error(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad body"}}`, http.StatusBadRequest)
		return
	}
	msg := userText(req.Messages[0].Content)

	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":          "msg_e2e",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]string{{"type": "text", "text": answer(msg)}},
		"stop_reason": "end_turn",
	})
}

// Messages returns the user messages received so far.
func (m *unionModel) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

func answer(msg string) string {
	ours, theirs, theirsLabel := sides(msg)
	if theirsLabel == "vendor" {
		return "CANNOT_RESOLVE: vendored settings are owned upstream"
	}

	seen := make(map[string]bool)
	var out []string
	for _, l := range lines(ours) {
		seen[l] = true
		out = append(out, l)
	}
	for _, l := range lines(theirs) {
		if !seen[l] {
			out = append(out, l)
		}
	}
	return "RESOLVED:\n" + strings.Join(out, "\n") + "\n"
}

// sides extracts the ours and theirs bodies and the theirs label from a
// rendered conflict message.
func sides(msg string) (ours, theirs, theirsLabel string) {
	const oursHeader, theirsHeader = "--- OURS (", "--- THEIRS ("

	i := strings.Index(msg, oursHeader)
	j := strings.Index(msg, theirsHeader)
	if i < 0 || j < i {
		return "", "", ""
	}
	oursPart := msg[i:j]
	if k := strings.Index(oursPart, "--- BASE ("); k >= 0 {
		oursPart = oursPart[:k]
	}
	theirsPart := msg[j+len(theirsHeader):]
	theirsLabel, theirsPart, _ = strings.Cut(theirsPart, ") ---\n")
	_, oursPart, _ = strings.Cut(oursPart, ") ---\n")
	return body(oursPart), body(theirsPart), theirsLabel
}

func body(s string) string {
	if s == "(empty)\n" {
		return ""
	}
	return s
}

func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// textBlock is a content block of a Messages API request.
type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// userText joins the text blocks of a user message.
func userText(blocks []textBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b.Text)
	}
	return sb.String()
}
