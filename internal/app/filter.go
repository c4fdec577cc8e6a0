package app

import (
	"time"

	"fextract/internal/domain"
)

// TimeFilter matches a status record against a range and a set of
// timestamp kinds. A file passes when any selected kind falls inside the
// inclusive range.
type TimeFilter struct {
	Start time.Time
	End   time.Time
	Kinds []domain.TimeKind
}

func NewTimeFilter(req domain.ExtractionRequest) TimeFilter {
	return TimeFilter{Start: req.RangeStart, End: req.RangeEnd, Kinds: req.TimeKinds}
}

func (f TimeFilter) InRange(t time.Time) bool {
	return !t.Before(f.Start) && !t.After(f.End)
}

func (f TimeFilter) Match(stat domain.FileStat) bool {
	if !stat.Regular {
		return false
	}
	for _, kind := range f.Kinds {
		if t, ok := stat.Time(kind); ok && f.InRange(t) {
			return true
		}
	}
	return false
}

// Wants reports whether kind is one of the selected kinds.
func (f TimeFilter) Wants(kind domain.TimeKind) bool {
	for _, k := range f.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
