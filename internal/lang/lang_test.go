package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"main.go", Language{"Go", GrammarGo}},
		{"pkg/app.PY", Language{"Python", GrammarPython}},
		{"src/lib.rs", Language{"Rust", GrammarRust}},
		{"web/index.ts", Language{"TypeScript", GrammarTypeScript}},
		{"web/App.tsx", Language{"TypeScript (TSX)", GrammarTSX}},
		{"web/app.js", Language{"JavaScript", ""}},
		{"Makefile", Language{"Makefile", ""}},
		{"build/Dockerfile", Language{"Dockerfile", ""}},
		{"config.yml", Language{"YAML", ""}},
		{"notes.txt", Language{}},
		{"LICENSE", Language{}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.path))
		})
	}
}

func TestLanguage_Known(t *testing.T) {
	assert.True(t, Detect("a.go").Known())
	assert.False(t, Detect("a.unknown").Known())
}
