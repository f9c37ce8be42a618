package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_SelectiveReplacement(t *testing.T) {
	doc, err := Parse(doubleConflict)
	require.NoError(t, err)

	got := doc.Render(func(b Block) (string, bool) {
		if b.Index == 0 {
			return "x = 3\n", true
		}
		return "", false
	})

	assert.Equal(t, "x = 3\n\n"+doc.Blocks[1].Raw, got)
}

func TestRender_DeletionReplacement(t *testing.T) {
	doc, err := Parse("keep\n<<<<<<< a\ngone\n=======\n>>>>>>> b\nalso\n")
	require.NoError(t, err)

	got := doc.Render(func(Block) (string, bool) { return "", true })
	assert.Equal(t, "keep\nalso\n", got)
}

func TestOursView_Spans(t *testing.T) {
	in := "line1\n<<<<<<< a\nours1\nours2\n=======\ntheirs\n>>>>>>> b\nline3\n<<<<<<< a\n=======\nt\n>>>>>>> b\nend\n"
	doc, err := Parse(in)
	require.NoError(t, err)

	view, spans := doc.OursView()
	assert.Equal(t, "line1\nours1\nours2\nline3\nend\n", view)
	require.Len(t, spans, 2)
	assert.Equal(t, LineSpan{Start: 2, End: 3}, spans[0])
	assert.True(t, spans[1].Empty())
	assert.Equal(t, 5, spans[1].Start)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a\n", "b\r\n", "c"}, SplitLines("a\nb\r\nc"))
	assert.Equal(t, []string{"a\n"}, SplitLines("a\n"))
}
