package fs

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"fextract/internal/domain"
)

const statxMask = unix.STATX_TYPE | unix.STATX_MODE | unix.STATX_ATIME |
	unix.STATX_MTIME | unix.STATX_CTIME | unix.STATX_BTIME

func statTimes(path string) (domain.FileStat, error) {
	var sx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, statxMask, &sx)
	if err == unix.ENOSYS || err == unix.EPERM {
		return statFallback(path)
	}
	if err != nil {
		return domain.FileStat{}, &os.PathError{Op: "statx", Path: path, Err: err}
	}

	st := domain.FileStat{
		Regular:  sx.Mode&unix.S_IFMT == unix.S_IFREG,
		Modified: statxTime(sx.Mtime),
		Changed:  statxTime(sx.Ctime),
		Accessed: statxTime(sx.Atime),
	}
	if sx.Mask&unix.STATX_BTIME != 0 {
		st.Created = statxTime(sx.Btime)
	}
	return st, nil
}

func statxTime(ts unix.StatxTimestamp) time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}

// statFallback serves kernels or sandboxes without statx. Birth time is
// not available this way.
func statFallback(path string) (domain.FileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileStat{}, err
	}
	st := domain.FileStat{Regular: info.Mode().IsRegular(), Modified: info.ModTime()}
	if sys, ok := info.Sys().(*syscall.Stat_t); ok {
		st.Changed = time.Unix(sys.Ctim.Unix())
		st.Accessed = time.Unix(sys.Atim.Unix())
	}
	return st, nil
}
