package config

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"

	"fextract/internal/domain"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseDate accepts epoch milliseconds (an optionally signed run of
// digits) or one of dateLayouts interpreted in local time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("cannot parse %q as a date", value)
}

// ParseFiles defaults to matching everything recursively.
func ParseFiles(values []string) []string {
	files := cleanList(values)
	if len(files) == 0 {
		return []string{domain.DefaultPattern}
	}
	return files
}

// ParseOutput defaults to .extract/, normalizes separators to "/" and
// always ends with one. The directory must stay inside the working tree.
func ParseOutput(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.DefaultOutputDir, nil
	}
	if filepath.IsAbs(value) || path.IsAbs(strings.ReplaceAll(value, `\`, "/")) {
		return "", errors.Errorf("output %q must be a relative path", value)
	}
	cleaned := path.Clean(strings.ReplaceAll(value, `\`, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Errorf("output %q must be a directory below the working directory", value)
	}
	return cleaned + "/", nil
}

// ParseStart is required.
func ParseStart(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, errors.New("start date is required")
	}
	t, err := ParseDate(value)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid start date: %w", err)
	}
	return t, nil
}

// ParseEnd defaults to now.
func ParseEnd(value string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return now, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid end date: %w", err)
	}
	return t, nil
}

// ParseTypes accepts names or comma separated lists and defaults to every
// kind. Duplicates collapse; unknown names are rejected.
func ParseTypes(values []string) ([]domain.TimeKind, error) {
	var kinds []domain.TimeKind
	seen := map[domain.TimeKind]bool{}
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			kind, ok := domain.ParseTimeKind(name)
			if !ok {
				return nil, errors.Errorf("unknown type %q, use modified, changed, accessed or created", strings.TrimSpace(name))
			}
			if !seen[kind] {
				seen[kind] = true
				kinds = append(kinds, kind)
			}
		}
	}
	if len(kinds) == 0 {
		return append([]domain.TimeKind(nil), domain.AllTimeKinds...), nil
	}
	return kinds, nil
}

func ParseDot(value string) bool {
	return truthy(value)
}

// ParseJobs defaults to sequential copying.
func ParseJobs(value int) (int, error) {
	if value < 0 {
		return 0, errors.Errorf("jobs must be at least 1, got %d", value)
	}
	if value == 0 {
		return 1, nil
	}
	return value, nil
}
