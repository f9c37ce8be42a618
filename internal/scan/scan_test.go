package scan

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/n0conflict/internal/conflict"
)

const conflictedText = "a\n<<<<<<< HEAD\nx\n=======\ny\n>>>>>>> topic\n"

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	want := []string{
		write(t, root, "a.go", conflictedText),
		write(t, root, "pkg/deep/b.py", conflictedText),
	}
	write(t, root, "clean.go", "package main\n")
	write(t, root, ".hidden/c.go", conflictedText)
	write(t, root, ".dotfile", conflictedText)
	write(t, root, "vendor/d.go", conflictedText)
	write(t, root, "node_modules/e.js", conflictedText)
	write(t, root, "generated/f.go", conflictedText)
	write(t, root, "bin/g.bin", "\x00\x01"+conflictedText)
	write(t, root, "big.txt", conflictedText+strings.Repeat("z", 4096))
	write(t, root, "stray.txt", "=======\n>>>>>>> x\n")

	got, err := Walk(context.Background(), root, Options{ExcludeDirs: []string{"generated"}, MaxFileBytes: 1024})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWalk_DefaultSizeCap(t *testing.T) {
	root := t.TempDir()
	path := write(t, root, "big.txt", conflictedText+strings.Repeat("z", 4096))

	got, err := Walk(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, got)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}

func TestWalk_Canceled(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.go", conflictedText)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, root, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConflicted_FallsBackToWalkOutsideGit(t *testing.T) {
	root := t.TempDir()
	path := write(t, root, "a.go", conflictedText)

	got, err := Conflicted(context.Background(), root, Options{NoGit: true})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, got)
}

// runGit runs git in dir with a fixed identity and no user config.
func runGit(t *testing.T, dir string, args ...string) error {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("git %s: %s", strings.Join(args, " "), out)
	}
	return err
}

// conflictedRepo creates a repository with an in-progress merge that left
// sub/file.txt unmerged.
func conflictedRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	require.NoError(t, runGit(t, dir, "init", "-q"))
	write(t, dir, "sub/file.txt", "base\n")
	write(t, dir, "other.txt", "clean\n")
	require.NoError(t, runGit(t, dir, "add", "."))
	require.NoError(t, runGit(t, dir, "commit", "-q", "-m", "base"))
	require.NoError(t, runGit(t, dir, "checkout", "-q", "-b", "topic"))
	write(t, dir, "sub/file.txt", "theirs\n")
	require.NoError(t, runGit(t, dir, "commit", "-q", "-am", "topic"))
	require.NoError(t, runGit(t, dir, "checkout", "-q", "-"))
	write(t, dir, "sub/file.txt", "ours\n")
	require.NoError(t, runGit(t, dir, "commit", "-q", "-am", "ours"))
	require.Error(t, runGit(t, dir, "merge", "-q", "topic"))
	return dir
}

func TestUnmerged(t *testing.T) {
	dir := conflictedRepo(t)

	got, err := Unmerged(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub", "file.txt")}, got)

	got, err = Unmerged(context.Background(), filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub", "file.txt")}, got)
}

func TestUnmerged_FiltersToSubdirectory(t *testing.T) {
	dir := conflictedRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "elsewhere"), 0o755))

	got, err := Unmerged(context.Background(), filepath.Join(dir, "elsewhere"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConflicted_PrefersGit(t *testing.T) {
	dir := conflictedRepo(t)
	// Markers in an untracked file are ignored while git reports paths.
	write(t, dir, "notes.txt", conflictedText)

	got, err := Conflicted(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub", "file.txt")}, got)
}

func TestUnmerged_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := Unmerged(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestInspectAll(t *testing.T) {
	root := t.TempDir()
	good := write(t, root, "a.txt", conflictedText+conflictedText)
	bad := write(t, root, "b.txt", "<<<<<<< HEAD\nx\n")
	missing := filepath.Join(root, "gone.txt")

	entries := InspectAll([]string{good, bad, missing})
	require.Len(t, entries, 3)

	assert.Equal(t, 2, entries[0].Blocks)
	assert.NoError(t, entries[0].Err)

	var perr *conflict.ParseError
	assert.ErrorAs(t, entries[1].Err, &perr)
	assert.ErrorIs(t, entries[2].Err, fs.ErrNotExist)
}
