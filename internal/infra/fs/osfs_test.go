package fs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestGlobYieldsFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	writeFile(t, root, "dir/b.txt", "b")
	writeFile(t, root, "dir/sub/c.md", "c")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	var got []string
	err := OSFS{}.Glob(context.Background(), root, "**/*", func(path string) error {
		got = append(got, path)
		return nil
	})
	require.NoError(t, err)

	sort.Strings(got)
	assert.Equal(t, []string{"a.txt", "dir/b.txt", "dir/sub/c.md"}, got)
}

func TestGlobBadPattern(t *testing.T) {
	err := OSFS{}.Glob(context.Background(), t.TempDir(), "[", func(string) error { return nil })
	assert.Error(t, err)
}

func TestGlobMissingRoot(t *testing.T) {
	err := OSFS{}.Glob(context.Background(), filepath.Join(t.TempDir(), "missing"), "**/*", func(string) error { return nil })
	assert.Error(t, err)
}

func TestGlobStopsOnCanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := OSFS{}.Glob(ctx, root, "**/*", func(string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatReportsTimes(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "a.txt", "a")
	mtime := time.Date(2020, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, os.Chtimes(file, mtime, mtime))

	st, err := OSFS{}.Stat(file)
	require.NoError(t, err)
	assert.True(t, st.Regular)
	assert.True(t, st.Modified.Equal(mtime))

	dir, err := OSFS{}.Stat(root)
	require.NoError(t, err)
	assert.False(t, dir.Regular)
}

func TestStatMissingFile(t *testing.T) {
	_, err := OSFS{}.Stat(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestCopyFilePreservesContentAndMtime(t *testing.T) {
	root := t.TempDir()
	src := writeFile(t, root, "src/a.txt", "hello")
	mtime := time.Date(2019, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dst := filepath.Join(root, ".extract", "range", "src", "a.txt")
	require.NoError(t, OSFS{}.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "mtime %s", info.ModTime())

	_, err = os.Stat(src)
	assert.NoError(t, err, "source must stay in place")
}

func TestCopyFileIntoReadOnlyDirFails(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	src := writeFile(t, root, "a.txt", "a")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o555))

	err := OSFS{}.CopyFile(src, filepath.Join(locked, "sub", "a.txt"))
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestCopyFileReplacesReadOnlyCopy(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	src := writeFile(t, root, "ro.txt", "first")
	require.NoError(t, os.Chmod(src, 0o444))
	dst := filepath.Join(root, "out", "ro.txt")

	require.NoError(t, OSFS{}.CopyFile(src, dst))

	require.NoError(t, os.Chmod(src, 0o644))
	require.NoError(t, os.WriteFile(src, []byte("second"), 0o644))
	require.NoError(t, os.Chmod(src, 0o444))

	require.NoError(t, OSFS{}.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())
}
