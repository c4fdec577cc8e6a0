package app

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"fextract/internal/domain"
)

type mockFS struct {
	root    string
	entries []mockEntry
	globErr error

	mu     sync.Mutex
	copied map[string]string
}

type mockEntry struct {
	path    string
	stat    domain.FileStat
	statErr error
	copyErr error
}

func newMockFS(root string, entries ...mockEntry) *mockFS {
	return &mockFS{root: root, entries: entries, copied: map[string]string{}}
}

func regular(path string, modified time.Time) mockEntry {
	return mockEntry{path: path, stat: domain.FileStat{Regular: true, Modified: modified}}
}

func (m *mockFS) Glob(ctx context.Context, root, pattern string, fn GlobFunc) error {
	if m.globErr != nil {
		return m.globErr
	}
	for _, entry := range m.entries {
		ok, err := doublestar.Match(pattern, entry.path)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := fn(entry.path); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockFS) Stat(path string) (domain.FileStat, error) {
	for _, entry := range m.entries {
		if filepath.Join(m.root, filepath.FromSlash(entry.path)) == path {
			return entry.stat, entry.statErr
		}
	}
	return domain.FileStat{}, fs.ErrNotExist
}

func (m *mockFS) CopyFile(src, dst string) error {
	for _, entry := range m.entries {
		if filepath.Join(m.root, filepath.FromSlash(entry.path)) == src && entry.copyErr != nil {
			return entry.copyErr
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copied[src] = dst
	return nil
}

func (m *mockFS) copiedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.copied)
}

type mockExif struct {
	timestamps map[string]time.Time
}

func (m mockExif) DateTimeOriginal(ctx context.Context, path string) (time.Time, error) {
	if ts, ok := m.timestamps[path]; ok {
		return ts, nil
	}
	return time.Time{}, fs.ErrNotExist
}
