package app

import (
	"context"
	"time"

	"fextract/internal/domain"
)

// GlobFunc receives each matched file as a slash-separated path relative
// to the glob root.
type GlobFunc func(path string) error

type FileSystem interface {
	// Glob walks root and calls fn for every regular file matching pattern.
	Glob(ctx context.Context, root, pattern string, fn GlobFunc) error
	Stat(path string) (domain.FileStat, error)
	// CopyFile copies src to dst, creating parent directories and keeping
	// the source modification time.
	CopyFile(src, dst string) error
}

type ExifReader interface {
	DateTimeOriginal(ctx context.Context, path string) (time.Time, error)
}
