//go:build !unix

package app

import "syscall"

func errnoName(errno syscall.Errno) string {
	return ""
}
