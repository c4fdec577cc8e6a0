package fs

import (
	"os"
	"syscall"
	"time"

	"fextract/internal/domain"
)

func statTimes(path string) (domain.FileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileStat{}, err
	}
	st := domain.FileStat{Regular: info.Mode().IsRegular(), Modified: info.ModTime()}
	if sys, ok := info.Sys().(*syscall.Stat_t); ok {
		st.Changed = time.Unix(sys.Ctimespec.Unix())
		st.Accessed = time.Unix(sys.Atimespec.Unix())
		st.Created = time.Unix(sys.Birthtimespec.Unix())
	}
	return st, nil
}
