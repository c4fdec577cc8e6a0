package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type TimeKind string

const (
	Modified TimeKind = "modified"
	Changed  TimeKind = "changed"
	Accessed TimeKind = "accessed"
	Created  TimeKind = "created"
)

// AllTimeKinds lists every recognized timestamp kind in canonical order.
var AllTimeKinds = []TimeKind{Modified, Changed, Accessed, Created}

// ParseTimeKind accepts the canonical names and the stat field aliases
// (mtime, ctime, atime, birthtime).
func ParseTimeKind(name string) (TimeKind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "modified", "mtime":
		return Modified, true
	case "changed", "ctime":
		return Changed, true
	case "accessed", "atime":
		return Accessed, true
	case "created", "birthtime":
		return Created, true
	default:
		return "", false
	}
}

// FileStat is the subset of a status record the time filter needs.
// A zero timestamp means the platform did not report it.
type FileStat struct {
	Regular  bool
	Modified time.Time
	Changed  time.Time
	Accessed time.Time
	Created  time.Time
}

func (s FileStat) Time(kind TimeKind) (time.Time, bool) {
	var t time.Time
	switch kind {
	case Modified:
		t = s.Modified
	case Changed:
		t = s.Changed
	case Accessed:
		t = s.Accessed
	case Created:
		t = s.Created
	}
	return t, !t.IsZero()
}

// HasCaptureTime reports whether files with this extension usually embed
// an EXIF capture timestamp.
func HasCaptureTime(path string) bool {
	ext := filepath.Ext(path)
	if IsRawExtension(ext) || IsJpegExtension(ext) {
		return true
	}
	switch strings.ToLower(ext) {
	case ".tif", ".tiff", ".heic", ".heif":
		return true
	default:
		return false
	}
}

func IsRawExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".arw", ".cr2", ".cr3", ".nef", ".raf", ".rw2", ".orf", ".dng":
		return true
	default:
		return false
	}
}

func IsJpegExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
