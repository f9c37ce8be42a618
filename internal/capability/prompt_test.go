package capability

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_TwoWay(t *testing.T) {
	msg := BuildMessage(Request{
		OursText:    "a\n",
		TheirsText:  "b",
		OursLabel:   "HEAD",
		TheirsLabel: "topic",
		FilePath:    "main.go",
	})

	assert.True(t, strings.HasPrefix(msg, "Resolve the following Git merge conflict in main.go.\n\n"))
	assert.Contains(t, msg, "--- OURS (HEAD) ---\na\n--- THEIRS (topic) ---\nb\n")
	assert.NotContains(t, msg, "BASE")
	assert.NotContains(t, msg, "SURROUNDING")
}

func TestBuildMessage_Diff3WithContext(t *testing.T) {
	msg := BuildMessage(Request{
		OursText:           "",
		BaseText:           "old\n",
		HasBase:            true,
		TheirsText:         "new\n",
		SurroundingContext: "func f() {\n",
		DetectedLanguage:   "Go",
	})

	assert.Contains(t, msg, "The file is written in Go.")
	assert.Contains(t, msg, "--- SURROUNDING CONTEXT ---\nfunc f() {\n")
	assert.Contains(t, msg, "--- OURS (current) ---\n(empty)\n")
	assert.Contains(t, msg, "--- BASE (common ancestor) ---\nold\n")
	assert.Contains(t, msg, "--- THEIRS (incoming) ---\nnew\n")
}

func TestSystemPromptEmbedded(t *testing.T) {
	assert.Contains(t, SystemPrompt, PrefixResolved)
	assert.Contains(t, SystemPrompt, PrefixCannotResolve)
}

func TestFunc_Adapter(t *testing.T) {
	var c Capability = Func(func(_ context.Context, req Request) (*Response, error) {
		return &Response{Resolvable: true, ResolvedText: req.OursText + req.TheirsText}, nil
	})
	resp, err := c.Resolve(context.Background(), Request{OursText: "a", TheirsText: "b"})
	require.NoError(t, err)
	assert.Equal(t, "ab", resp.ResolvedText)
}
