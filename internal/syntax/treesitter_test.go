package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/n0conflict/internal/lang"
)

func symbolStrings(symbols []Symbol) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = s.String()
	}
	return out
}

func TestEnclosing_Go(t *testing.T) {
	src := `package main

type Server struct{}

func (s *Server) Start() {
	a := 1
	b := 2
}

func main() {}
`
	f := NewTreeSitterFinder()
	symbols, err := f.Enclosing(context.Background(), lang.GrammarGo, []byte(src), 6, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"method (s *Server) Start"}, symbolStrings(symbols))
	assert.Equal(t, 5, symbols[0].StartLine)
	assert.Equal(t, 8, symbols[0].EndLine)

	symbols, err = f.Enclosing(context.Background(), lang.GrammarGo, []byte(src), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"func main"}, symbolStrings(symbols))

	symbols, err = f.Enclosing(context.Background(), lang.GrammarGo, []byte(src), 2, 2)
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestIndex_AnswersRepeatedQueries(t *testing.T) {
	src := `package main

func a() {
	x := 1
}

func b() {
	y := 2
}
`
	idx, err := NewTreeSitterFinder().Index(context.Background(), lang.GrammarGo, []byte(src))
	require.NoError(t, err)
	require.NotNil(t, idx)
	defer idx.Close()

	assert.Equal(t, []string{"func a"}, symbolStrings(idx.Enclosing(4, 4)))
	assert.Equal(t, []string{"func b"}, symbolStrings(idx.Enclosing(8, 8)))
	assert.Empty(t, idx.Enclosing(1, 1))
}

func TestIndex_UnsupportedGrammar(t *testing.T) {
	idx, err := NewTreeSitterFinder().Index(context.Background(), "cobol", []byte("x"))
	assert.NoError(t, err)
	assert.Nil(t, idx)
}

func TestEnclosing_Python(t *testing.T) {
	src := `class Greeter:
    def greet(self, name):
        msg = "hi"
        return msg + name
`
	symbols, err := NewTreeSitterFinder().Enclosing(context.Background(), lang.GrammarPython, []byte(src), 3, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"class Greeter", "def greet"}, symbolStrings(symbols))
}

func TestEnclosing_Rust(t *testing.T) {
	src := `struct Counter {
    n: u32,
}

impl Counter {
    fn bump(&mut self) {
        self.n += 1;
    }
}
`
	symbols, err := NewTreeSitterFinder().Enclosing(context.Background(), lang.GrammarRust, []byte(src), 7, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"impl Counter", "fn bump"}, symbolStrings(symbols))
}

func TestEnclosing_TypeScript(t *testing.T) {
	src := `export class Store {
  lookup(key: string): string {
    return this.data[key];
  }
}
`
	for _, grammar := range []string{lang.GrammarTypeScript, lang.GrammarTSX} {
		symbols, err := NewTreeSitterFinder().Enclosing(context.Background(), grammar, []byte(src), 3, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"class Store", "method lookup"}, symbolStrings(symbols), grammar)
	}
}

func TestEnclosing_UnsupportedGrammar(t *testing.T) {
	f := NewTreeSitterFinder()
	assert.False(t, f.Supports("cobol"))

	symbols, err := f.Enclosing(context.Background(), "cobol", []byte("IDENTIFICATION DIVISION."), 1, 1)
	require.NoError(t, err)
	assert.Nil(t, symbols)
}

func TestEnclosing_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTreeSitterFinder().Enclosing(ctx, lang.GrammarGo, []byte("package main\n"), 1, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
