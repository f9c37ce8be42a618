package scan

import (
	"fmt"
	"os"

	"github.com/dusk-indust/n0conflict/internal/conflict"
)

// Entry describes one conflicted file.
type Entry struct {
	Path   string
	Blocks int
	// Err is set when the file could not be read or its markers are
	// malformed.
	Err error
}

// Inspect reads path and counts its conflict blocks.
func Inspect(path string) Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}
	doc, err := conflict.Parse(string(data))
	if err != nil {
		return Entry{Path: path, Err: err}
	}
	return Entry{Path: path, Blocks: len(doc.Blocks)}
}

// InspectAll inspects every path, preserving order.
func InspectAll(paths []string) []Entry {
	entries := make([]Entry, len(paths))
	for i, p := range paths {
		entries[i] = Inspect(p)
	}
	return entries
}
