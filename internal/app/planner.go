package app

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"fextract/internal/domain"
	"fextract/internal/logging"
	"fextract/internal/status"
)

// Planner enumerates candidate files and narrows them down with the time
// filter.
type Planner struct {
	FS     FileSystem
	Exif   ExifReader
	Logger logging.Logger
}

// Search expands every pattern under req.Root, honoring hidden-file and
// exclude rules, and emits a Searching event per new match. Without
// IncludeHidden a dot file is found only by a pattern that spells out its
// dot segments, such as ".github/*.yml" or "**/.env". Matches come
// in walk order; a path matched by several patterns is reported once.
func (p *Planner) Search(ctx context.Context, req domain.ExtractionRequest, sink status.Sink) ([]string, error) {
	if p.FS == nil {
		return nil, errors.New("planner requires FS")
	}
	stop := p.Logger.Measure("Searching files")
	defer stop()

	patterns, err := normalizePatterns(req.Patterns)
	if err != nil {
		return nil, err
	}
	excludes, err := normalizePatterns(req.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		err := p.FS.Glob(ctx, req.Root, pattern, func(file string) error {
			if seen[file] {
				return nil
			}
			if !req.IncludeHidden && isHidden(file) && !namesDotSegments(pattern, file) {
				return nil
			}
			seen[file] = true
			if excluded(file, excludes) {
				p.Logger.Verbosef("Excluded %s", file)
				return nil
			}
			files = append(files, file)
			sink.Send(status.Searching{Path: file})
			return nil
		})
		if err != nil {
			return nil, errors.Errorf("searching %q: %w", pattern, err)
		}
	}
	p.Logger.Verbosef("Found %d candidate files in %s", len(files), req.Root)
	return files, nil
}

// Filter emits a Filtering event per candidate and returns the ones whose
// timestamps satisfy the request. Files that cannot be inspected are
// dropped. Filtering stops early once ctx is cancelled.
func (p *Planner) Filter(ctx context.Context, req domain.ExtractionRequest, candidates []string, sink status.Sink) []string {
	stop := p.Logger.Measure("Filtering files")
	defer stop()

	filter := NewTimeFilter(req)
	var matched []string
	for _, file := range candidates {
		if ctx.Err() != nil {
			break
		}
		sink.Send(status.Filtering{Path: file})
		if p.matches(ctx, filter, file, resolveSource(req.Root, file)) {
			matched = append(matched, file)
		}
	}
	p.Logger.Verbosef("Matched %d of %d candidate files", len(matched), len(candidates))
	return matched
}

func (p *Planner) matches(ctx context.Context, filter TimeFilter, file, fullPath string) bool {
	stat, err := p.FS.Stat(fullPath)
	if err != nil {
		p.Logger.Verbosef("Skipping %s: %v", file, err)
		return false
	}
	if !stat.Regular {
		return false
	}
	if stat.Created.IsZero() && filter.Wants(domain.Created) && p.Exif != nil && domain.HasCaptureTime(file) {
		if takenAt, err := p.Exif.DateTimeOriginal(ctx, fullPath); err == nil {
			stat.Created = takenAt
		} else {
			p.Logger.Verbosef("No birth time or EXIF capture time for %s", file)
		}
	}
	return filter.Match(stat)
}

func normalizePatterns(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, raw := range patterns {
		pattern := filepath.ToSlash(strings.TrimSpace(raw))
		if pattern == "" {
			continue
		}
		if path.IsAbs(pattern) || filepath.IsAbs(raw) {
			return nil, errors.Errorf("pattern %q must be relative to the working directory", raw)
		}
		for strings.HasPrefix(pattern, "./") {
			pattern = strings.TrimPrefix(pattern, "./")
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("pattern %q: %w", raw, doublestar.ErrBadPattern)
		}
		out = append(out, pattern)
	}
	return out, nil
}

func isHidden(file string) bool {
	for _, segment := range strings.Split(file, "/") {
		if len(segment) > 1 && strings.HasPrefix(segment, ".") && segment != ".." {
			return true
		}
	}
	return false
}

// namesDotSegments reports whether pattern reaches every dot segment of file
// through a pattern segment that itself starts with a dot. Wildcards and
// "**" never cross a dot segment.
func namesDotSegments(pattern, file string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(file, "/"))
}

func matchSegments(pattern, file []string) bool {
	if len(pattern) == 0 {
		return len(file) == 0
	}
	if pattern[0] == "**" {
		if matchSegments(pattern[1:], file) {
			return true
		}
		return len(file) > 0 && !strings.HasPrefix(file[0], ".") && matchSegments(pattern, file[1:])
	}
	if len(file) == 0 {
		return false
	}
	if strings.HasPrefix(file[0], ".") && !strings.HasPrefix(pattern[0], ".") {
		return false
	}
	if ok, _ := doublestar.Match(pattern[0], file[0]); !ok {
		return false
	}
	return matchSegments(pattern[1:], file[1:])
}

func excluded(file string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, file); ok {
			return true
		}
	}
	return false
}

func resolveSource(root, file string) string {
	return filepath.Join(root, filepath.FromSlash(file))
}
