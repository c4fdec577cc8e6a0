package app

import (
	"io/fs"
	"os"
	"syscall"

	"gitlab.com/tozd/go/errors"

	"fextract/internal/domain"
)

// ClassifyCopyError extracts the failing operation and errno name from a
// copy error. Missing parts fall back to "extract" and "failed".
func ClassifyCopyError(file string, err error) domain.CopyWarning {
	w := domain.CopyWarning{
		Syscall: domain.DefaultWarningSyscall,
		Code:    domain.DefaultWarningCode,
		File:    file,
	}

	var sysErr *os.SyscallError
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &sysErr) && sysErr.Syscall != "":
		w.Syscall = sysErr.Syscall
	case errors.As(err, &pathErr) && pathErr.Op != "":
		w.Syscall = pathErr.Op
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name := errnoName(errno); name != "" {
			w.Code = name
		}
	}
	return w
}
