package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fextract/internal/app"
	"fextract/internal/domain"
	fsinfra "fextract/internal/infra/fs"
	"fextract/internal/status"
)

type scriptedRunner struct {
	events []status.Event
	panics bool
}

func (r scriptedRunner) Run(ctx context.Context, req domain.ExtractionRequest, sink status.Sink) status.Event {
	var last status.Event
	for _, e := range r.events {
		sink.Send(e)
		last = e
	}
	if r.panics {
		panic("disk on fire")
	}
	return last
}

func drain(src status.Source) []status.Event {
	var out []status.Event
	for {
		e, ok := src.Recv()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

func TestStartDeliversEventsInOrder(t *testing.T) {
	runner := scriptedRunner{events: []status.Event{
		status.Bootstrap{RunID: "r"},
		status.Searching{Path: "a"},
		status.Searched{Paths: []string{"a"}},
		status.Extracted{Message: "ok"},
	}}

	events := drain(Start(context.Background(), runner, domain.ExtractionRequest{}))
	require.Len(t, events, 4)
	assert.Equal(t, status.Extracted{Message: "ok"}, events[3])
}

func TestStartTurnsPanicIntoFailed(t *testing.T) {
	runner := scriptedRunner{events: []status.Event{status.Bootstrap{}}, panics: true}

	events := drain(Start(context.Background(), runner, domain.ExtractionRequest{}))
	require.Len(t, events, 2)
	failed, ok := events[1].(status.Failed)
	require.True(t, ok)
	assert.Contains(t, failed.Message, "disk on fire")
}

func TestStartReportsMissingTerminal(t *testing.T) {
	runner := scriptedRunner{events: []status.Event{status.Bootstrap{}, status.Searching{Path: "a"}}}

	events := drain(Start(context.Background(), runner, domain.ExtractionRequest{}))
	require.Len(t, events, 3)
	assert.Equal(t, status.KindFailed, events[2].Kind())
}

func TestStreamSynthesizesFailedOnCrash(t *testing.T) {
	var buf bytes.Buffer
	enc := status.NewEncoder(&buf)
	enc.Send(status.Bootstrap{})
	enc.Send(status.Searching{Path: "a"})

	src := newStream(&buf, func() error { return errors.New("signal: killed") })
	events := drain(src)

	require.Len(t, events, 3)
	failed, ok := events[2].(status.Failed)
	require.True(t, ok)
	assert.Contains(t, failed.Message, "signal: killed")
}

func TestStreamStopsAfterTerminal(t *testing.T) {
	var buf bytes.Buffer
	enc := status.NewEncoder(&buf)
	enc.Send(status.Extracted{Message: "done"})
	enc.Send(status.Searching{Path: "ghost"})

	waited := false
	src := newStream(&buf, func() error { waited = true; return nil })
	events := drain(src)

	assert.Equal(t, []status.Event{status.Extracted{Message: "done"}}, events)
	assert.True(t, waited)
}

func TestStreamRejectsGarbage(t *testing.T) {
	src := newStream(bytes.NewBufferString("not json\n"), func() error { return nil })
	events := drain(src)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].(status.Failed).Message, "worker stream broken")
}

func TestServeRequiresBootstrap(t *testing.T) {
	var in bytes.Buffer
	status.NewEncoder(&in).Send(status.Searching{Path: "a"})

	err := Serve(context.Background(), scriptedRunner{}, &in, io.Discard)
	assert.ErrorContains(t, err, "expected bootstrap")
}

func TestServeAndStreamRunRealPipeline(t *testing.T) {
	root := t.TempDir()
	inRange := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)
	for _, rel := range []string{"a.txt", "dir/b.txt"} {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(rel), 0o644))
		require.NoError(t, os.Chtimes(full, inRange, inRange))
	}

	req := domain.ExtractionRequest{
		Root:       root,
		Patterns:   []string{"**/*"},
		OutputDir:  ".extract/",
		RangeStart: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC),
		TimeKinds:  []domain.TimeKind{domain.Modified},
		ConfigFile: domain.DefaultConfigFile,
		Jobs:       1,
	}

	var in bytes.Buffer
	status.NewEncoder(&in).Send(status.Bootstrap{Request: req})

	pr, pw := io.Pipe()
	serveErr := make(chan error, 1)
	go func() {
		err := Serve(context.Background(), &app.Pipeline{FS: fsinfra.OSFS{}}, &in, pw)
		pw.Close()
		serveErr <- err
	}()

	events := drain(newStream(pr, func() error { return <-serveErr }))

	last := events[len(events)-1]
	require.Equal(t, status.KindExtracted, last.Kind(), "last event %#v", last)
	assert.Contains(t, last.(status.Extracted).Message, "2 files processed")

	folder := app.RangeFolder(req.RangeStart, req.RangeEnd)
	data, err := os.ReadFile(filepath.Join(root, ".extract", folder, "dir", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "dir/b.txt", string(data))
}
