package domain

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"
)

const (
	DefaultPattern    = "**/*"
	DefaultOutputDir  = ".extract/"
	DefaultConfigFile = "fextract.yml"
)

// ExtractionRequest is the frozen input of one pipeline run.
type ExtractionRequest struct {
	Root            string     `json:"root"`
	Patterns        []string   `json:"patterns"`
	OutputDir       string     `json:"output_dir"`
	RangeStart      time.Time  `json:"range_start"`
	RangeEnd        time.Time  `json:"range_end"`
	TimeKinds       []TimeKind `json:"time_kinds"`
	IncludeHidden   bool       `json:"include_hidden"`
	ExcludePatterns []string   `json:"exclude_patterns"`
	ConfigFile      string     `json:"config_file"`
	Jobs            int        `json:"jobs"`
}

// OutputPattern is the glob covering everything under the output directory.
// The directory name is matched literally.
func (r ExtractionRequest) OutputPattern() string {
	dir := strings.Trim(r.OutputDir, "/")
	if dir == "" || dir == "." {
		return ""
	}
	return path.Join(EscapeGlob(dir), "**")
}

// EscapeGlob quotes glob metacharacters so name matches only itself.
func EscapeGlob(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(`\*?[]{}`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SelfExcluded returns a copy whose exclude list also covers the output
// directory and the config file. Calling it twice adds nothing.
func (r ExtractionRequest) SelfExcluded() ExtractionRequest {
	out := r
	out.ExcludePatterns = slices.Clone(r.ExcludePatterns)
	for _, p := range []string{EscapeGlob(r.ConfigFile), r.OutputPattern()} {
		if p == "" || slices.Contains(out.ExcludePatterns, p) {
			continue
		}
		out.ExcludePatterns = append(out.ExcludePatterns, p)
	}
	return out
}

func (r ExtractionRequest) Validate() error {
	if len(r.Patterns) == 0 {
		return errors.New("at least one file pattern is required")
	}
	if r.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if r.RangeStart.IsZero() {
		return errors.New("start date is required")
	}
	if r.RangeStart.After(r.RangeEnd) {
		return fmt.Errorf("start date %s is after end date %s",
			r.RangeStart.Format(time.RFC3339), r.RangeEnd.Format(time.RFC3339))
	}
	if len(r.TimeKinds) == 0 || len(r.TimeKinds) > len(AllTimeKinds) {
		return fmt.Errorf("between 1 and %d time types are required", len(AllTimeKinds))
	}
	for _, kind := range r.TimeKinds {
		if !slices.Contains(AllTimeKinds, kind) {
			return fmt.Errorf("unknown time type %q", kind)
		}
	}
	if r.Jobs < 0 {
		return errors.New("jobs must not be negative")
	}
	return nil
}
