// Package status defines the events a pipeline run emits and the
// transports that carry them to a presenter.
package status

import (
	"fmt"

	"fextract/internal/domain"
)

// Kind identifies an event. The numeric order is part of the wire history
// and must not be rearranged.
type Kind int

const (
	KindFailed Kind = iota
	KindWarning
	KindBootstrap
	KindSearching
	KindSearched
	KindFiltering
	KindFiltered
	KindExtracting
	KindExtracted
)

var kindNames = [...]string{
	KindFailed:     "failed",
	KindWarning:    "warning",
	KindBootstrap:  "bootstrap",
	KindSearching:  "searching",
	KindSearched:   "searched",
	KindFiltering:  "filtering",
	KindFiltered:   "filtered",
	KindExtracting: "extracting",
	KindExtracted:  "extracted",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown status kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Terminal reports whether no event may follow this kind.
func (k Kind) Terminal() bool {
	return k == KindExtracted || k == KindFailed
}

// Event is one of the concrete event types below. The set is closed.
type Event interface {
	Kind() Kind
	sealed()
}

type Bootstrap struct {
	RunID   string                   `json:"run_id"`
	Request domain.ExtractionRequest `json:"request"`
}

type Searching struct{ Path string }

type Searched struct{ Paths []string }

type Filtering struct{ Path string }

type Filtered struct{ Paths []string }

type Extracting struct{ Path string }

type Warning struct{ domain.CopyWarning }

type Extracted struct{ Message string }

type Failed struct{ Message string }

func (Bootstrap) Kind() Kind  { return KindBootstrap }
func (Searching) Kind() Kind  { return KindSearching }
func (Searched) Kind() Kind   { return KindSearched }
func (Filtering) Kind() Kind  { return KindFiltering }
func (Filtered) Kind() Kind   { return KindFiltered }
func (Extracting) Kind() Kind { return KindExtracting }
func (Warning) Kind() Kind    { return KindWarning }
func (Extracted) Kind() Kind  { return KindExtracted }
func (Failed) Kind() Kind     { return KindFailed }

func (Bootstrap) sealed()  {}
func (Searching) sealed()  {}
func (Searched) sealed()   {}
func (Filtering) sealed()  {}
func (Filtered) sealed()   {}
func (Extracting) sealed() {}
func (Warning) sealed()    {}
func (Extracted) sealed()  {}
func (Failed) sealed()     {}

// Handler has one method per event kind. Presenters implement it so that a
// new kind breaks the build until every presenter handles it.
type Handler interface {
	Bootstrap(Bootstrap)
	Searching(Searching)
	Searched(Searched)
	Filtering(Filtering)
	Filtered(Filtered)
	Extracting(Extracting)
	Warning(Warning)
	Extracted(Extracted)
	Failed(Failed)
}

func Dispatch(e Event, h Handler) {
	switch ev := e.(type) {
	case Bootstrap:
		h.Bootstrap(ev)
	case Searching:
		h.Searching(ev)
	case Searched:
		h.Searched(ev)
	case Filtering:
		h.Filtering(ev)
	case Filtered:
		h.Filtered(ev)
	case Extracting:
		h.Extracting(ev)
	case Warning:
		h.Warning(ev)
	case Extracted:
		h.Extracted(ev)
	case Failed:
		h.Failed(ev)
	default:
		panic(fmt.Sprintf("status: unhandled event %T", e))
	}
}

// Sink is the producer side of a status stream.
type Sink interface {
	Send(Event)
}

// Source is the consumer side. Recv blocks until the next event and returns
// false once the stream is exhausted.
type Source interface {
	Recv() (Event, bool)
}
