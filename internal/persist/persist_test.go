package persist

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.go")
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	require.NoError(t, os.Chmod(path, mode))
	return path
}

func TestWriteFile_Replaces(t *testing.T) {
	path := setup(t, "old\n", 0o644)

	require.NoError(t, WriteFile(path, "old\n", "new\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFile_PreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	path := setup(t, "#!/bin/sh\n", 0o755)

	require.NoError(t, WriteFile(path, "#!/bin/sh\n", "#!/bin/sh\necho hi\n"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestWriteFile_RefusesWhenModified(t *testing.T) {
	path := setup(t, "edited elsewhere\n", 0o644)

	err := WriteFile(path, "what we read\n", "new\n")
	require.ErrorIs(t, err, ErrModified)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "edited elsewhere\n", string(data))
}

func TestWriteFile_Missing(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "gone.txt"), "", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriteFile_Directory(t *testing.T) {
	err := WriteFile(t.TempDir(), "", "x")
	assert.ErrorContains(t, err, "not a regular file")
}

func TestWriteFile_ConcurrentWritersOneWins(t *testing.T) {
	path := setup(t, "orig\n", 0o644)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = WriteFile(path, "orig\n", "writer\n")
		}()
	}
	wg.Wait()

	var ok, modified int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrModified):
			modified++
		}
	}
	assert.GreaterOrEqual(t, ok, 1)
	assert.Equal(t, len(errs), ok+modified)
}
