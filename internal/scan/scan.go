// Package scan finds files with unresolved merge conflicts.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-indust/n0conflict/internal/conflict"
)

// DefaultMaxFileBytes caps the size of files inspected by the tree walk.
const DefaultMaxFileBytes = 2 << 20

// sniffBytes is how much of a file is checked for NUL bytes.
const sniffBytes = 8 << 10

// skipDirs is the set of directory names skipped when walking a tree.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"target":       true,
}

// Options tunes Conflicted.
type Options struct {
	// ExcludeDirs are extra directory names to skip during the walk.
	ExcludeDirs []string
	// MaxFileBytes skips larger files during the walk. Zero means
	// DefaultMaxFileBytes.
	MaxFileBytes int64
	// NoGit disables asking git for unmerged paths.
	NoGit bool
	Log   *slog.Logger
}

// Conflicted returns the absolute paths of conflicted files under root,
// sorted. Git's unmerged paths are preferred; when git is unavailable or
// reports nothing, the tree is walked for files with conflict markers.
func Conflicted(ctx context.Context, root string, opts Options) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if !opts.NoGit {
		paths, err := Unmerged(ctx, abs)
		if err != nil {
			log.Debug("git unavailable, walking tree", "root", abs, "err", err)
		} else if len(paths) > 0 {
			return paths, nil
		}
	}
	return Walk(ctx, abs, opts)
}

// Unmerged asks git for unmerged paths in the repository containing dir
// and returns those under dir as absolute paths.
func Unmerged(ctx context.Context, dir string) ([]string, error) {
	top, err := git(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	top = strings.TrimSpace(top)

	out, err := git(ctx, dir, "diff", "--name-only", "--diff-filter=U", "-z")
	if err != nil {
		return nil, err
	}

	// Compare against the resolved dir so symlinked temp dirs still match.
	base := dir
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		base = resolved
	}
	if resolved, err := filepath.EvalSymlinks(top); err == nil {
		top = resolved
	}

	seen := make(map[string]bool)
	var paths []string
	for _, name := range strings.Split(out, "\x00") {
		if name == "" {
			continue
		}
		path := filepath.Join(top, filepath.FromSlash(name))
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		path = filepath.Join(dir, rel)
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return string(out), nil
}

// Walk returns files under root containing conflict markers, skipping
// hidden and well-known dependency directories, oversized files and
// binary files.
func Walk(ctx context.Context, root string, opts Options) ([]string, error) {
	limit := opts.MaxFileBytes
	if limit <= 0 {
		limit = DefaultMaxFileBytes
	}
	excluded := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		excluded[d] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (skipDirs[name] || excluded[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(name, ".") {
			return nil
		}

		ok, err := hasConflicts(path, limit)
		if err != nil {
			return nil
		}
		if ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// hasConflicts reports whether the file at path is a text file no larger
// than limit that contains an opening conflict marker.
func hasConflicts(path string, limit int64) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() > limit {
		return false, nil
	}

	r := bufio.NewReaderSize(f, sniffBytes)
	head, err := r.Peek(sniffBytes)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return false, err
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return false, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return false, err
	}
	return conflict.HasMarkers(string(data)), nil
}
