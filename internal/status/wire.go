package status

import (
	"encoding/json"
	"io"
	"sync"

	"gitlab.com/tozd/go/errors"

	"fextract/internal/domain"
)

// envelope is the stable wire shape: {"status": <kind>, "data": <payload>}.
type envelope struct {
	Status Kind            `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func payload(e Event) any {
	switch ev := e.(type) {
	case Bootstrap:
		return ev
	case Searching:
		return ev.Path
	case Searched:
		return nonNil(ev.Paths)
	case Filtering:
		return ev.Path
	case Filtered:
		return nonNil(ev.Paths)
	case Extracting:
		return ev.Path
	case Warning:
		return ev.CopyWarning
	case Extracted:
		return ev.Message
	case Failed:
		return ev.Message
	default:
		return nil
	}
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}

func Marshal(e Event) ([]byte, error) {
	data, err := json.Marshal(payload(e))
	if err != nil {
		return nil, errors.Errorf("encoding %s payload: %w", e.Kind(), err)
	}
	return json.Marshal(envelope{Status: e.Kind(), Data: data})
}

func Unmarshal(b []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, errors.Errorf("decoding envelope: %w", err)
	}

	var (
		e   Event
		err error
	)
	switch env.Status {
	case KindBootstrap:
		var ev Bootstrap
		err = json.Unmarshal(env.Data, &ev)
		e = ev
	case KindSearching:
		var ev Searching
		err = json.Unmarshal(env.Data, &ev.Path)
		e = ev
	case KindSearched:
		var ev Searched
		err = json.Unmarshal(env.Data, &ev.Paths)
		e = ev
	case KindFiltering:
		var ev Filtering
		err = json.Unmarshal(env.Data, &ev.Path)
		e = ev
	case KindFiltered:
		var ev Filtered
		err = json.Unmarshal(env.Data, &ev.Paths)
		e = ev
	case KindExtracting:
		var ev Extracting
		err = json.Unmarshal(env.Data, &ev.Path)
		e = ev
	case KindWarning:
		var w domain.CopyWarning
		err = json.Unmarshal(env.Data, &w)
		e = Warning{CopyWarning: w}
	case KindExtracted:
		var ev Extracted
		err = json.Unmarshal(env.Data, &ev.Message)
		e = ev
	case KindFailed:
		var ev Failed
		err = json.Unmarshal(env.Data, &ev.Message)
		e = ev
	default:
		return nil, errors.Errorf("unknown status %d", int(env.Status))
	}
	if err != nil {
		return nil, errors.Errorf("decoding %s payload: %w", env.Status, err)
	}
	return e, nil
}

// Encoder writes one envelope per line. It is a Sink; the first write error
// is kept and later events are dropped.
type Encoder struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (enc *Encoder) Send(e Event) {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	if enc.err != nil {
		return
	}
	b, err := Marshal(e)
	if err != nil {
		enc.err = err
		return
	}
	if _, err := enc.w.Write(append(b, '\n')); err != nil {
		enc.err = errors.Errorf("writing %s event: %w", e.Kind(), err)
	}
}

func (enc *Encoder) Err() error {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	return enc.err
}

// Decoder reads envelopes written by an Encoder. Envelopes are decoded as a
// JSON stream, so a single event has no size limit.
type Decoder struct {
	dec *json.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// Decode returns io.EOF when the stream ends cleanly.
func (d *Decoder) Decode() (Event, error) {
	var raw json.RawMessage
	if err := d.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, errors.Errorf("reading events: %w", err)
	}
	return Unmarshal(raw)
}
