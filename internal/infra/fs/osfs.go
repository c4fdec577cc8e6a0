package fs

import (
	"context"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"fextract/internal/app"
	"fextract/internal/domain"
)

type OSFS struct{}

var _ app.FileSystem = OSFS{}

func (OSFS) Glob(ctx context.Context, root, pattern string, fn app.GlobFunc) error {
	if _, err := os.Stat(root); err != nil {
		return errors.Errorf("opening search root: %w", err)
	}
	return doublestar.GlobWalk(os.DirFS(root), pattern, func(path string, d iofs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(path)
	}, doublestar.WithFilesOnly())
}

func (OSFS) Stat(path string) (domain.FileStat, error) {
	return statTimes(path)
}

func (OSFS) CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	// A copy from an earlier run may be read-only; replace it rather than
	// truncating it in place.
	if err := os.Remove(dst); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return err
	}
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	atime := info.ModTime()
	if st, err := statTimes(src); err == nil && !st.Accessed.IsZero() {
		atime = st.Accessed
	}
	return os.Chtimes(dst, atime, info.ModTime())
}
