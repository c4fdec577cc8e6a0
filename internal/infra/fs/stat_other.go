//go:build !linux && !darwin

package fs

import (
	"os"

	"fextract/internal/domain"
)

// Only the modification time is portable; other kinds stay unreported.
func statTimes(path string) (domain.FileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileStat{}, err
	}
	return domain.FileStat{Regular: info.Mode().IsRegular(), Modified: info.ModTime()}, nil
}
