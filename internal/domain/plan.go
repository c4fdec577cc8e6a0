package domain

// MatchedFile is a candidate that passed the time filter. Path is relative
// to the request root and slash separated; Source and Destination are
// absolute host paths.
type MatchedFile struct {
	Path        string
	Source      string
	Destination string
}

// CopyWarning describes a single failed copy. Syscall and Code are best
// effort and default to "extract" and "failed".
type CopyWarning struct {
	Syscall string `json:"syscall"`
	Code    string `json:"code"`
	File    string `json:"file"`
}

const (
	DefaultWarningSyscall = "extract"
	DefaultWarningCode    = "failed"
)
