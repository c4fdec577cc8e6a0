package app

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"

	"fextract/internal/domain"
	appErrors "fextract/internal/errors"
	"fextract/internal/logging"
	"fextract/internal/status"
)

// Pipeline runs one extraction: enumerate, filter, copy, summarize.
type Pipeline struct {
	FS       FileSystem
	Exif     ExifReader
	Logger   logging.Logger
	NewRunID func() string
}

// Run emits the full event sequence for req on sink and returns the
// terminal event it sent. Exactly one Extracted or Failed is sent per run.
// Enumeration errors and invalid requests are the only fatal outcomes;
// per-file stat and copy failures never stop the run.
func (p *Pipeline) Run(ctx context.Context, req domain.ExtractionRequest, sink status.Sink) status.Event {
	runID := p.runID()
	logger := p.Logger.With("run_id", runID)
	stop := logger.Measure("Extraction run")
	defer stop()

	req = req.SelfExcluded()
	sink.Send(status.Bootstrap{RunID: runID, Request: req})

	if err := req.Validate(); err != nil {
		return fail(sink, logger, appErrors.Wrap(appErrors.InvalidConfig, "validate", "", err))
	}
	resolver, err := NewDestinationResolver(req)
	if err != nil {
		return fail(sink, logger, appErrors.Wrap(appErrors.Internal, "resolve output", req.OutputDir, err))
	}

	planner := Planner{FS: p.FS, Exif: p.Exif, Logger: logger}
	candidates, err := planner.Search(ctx, req, sink)
	if err != nil {
		return fail(sink, logger, appErrors.Wrap(appErrors.Enumeration, "search", req.Root, err))
	}
	sink.Send(status.Searched{Paths: candidates})

	matched := planner.Filter(ctx, req, candidates, sink)
	sink.Send(status.Filtered{Paths: matched})

	files := make([]domain.MatchedFile, 0, len(matched))
	for _, file := range matched {
		files = append(files, domain.MatchedFile{
			Path:        file,
			Source:      resolveSource(req.Root, file),
			Destination: resolver.Resolve(file),
		})
	}

	executor := Executor{FS: p.FS, Jobs: req.Jobs, Logger: logger}
	result := executor.Extract(ctx, files, sink)
	if err := ctx.Err(); err != nil {
		return fail(sink, logger, appErrors.Wrap(appErrors.Worker, "extract", "",
			errors.Errorf("interrupted after %d of %d files: %w", result.Processed, len(files), err)))
	}

	done := status.Extracted{Message: Summary(result, path.Join(req.OutputDir, resolver.Folder()))}
	logger.Infof("%s", done.Message)
	sink.Send(done)
	return done
}

// Summary renders the terminal message. Copy failures do not turn a run
// into a failure; they are only counted.
func Summary(result ExtractResult, target string) string {
	if result.Processed == 0 {
		return "No files matched the conditions."
	}
	noun := "files"
	if result.Processed == 1 {
		noun = "file"
	}
	msg := fmt.Sprintf("%d %s processed into %s", result.Processed, noun, target)
	if result.Failed > 0 {
		msg += fmt.Sprintf(" (%d with warnings)", result.Failed)
	}
	return msg
}

func (p *Pipeline) runID() string {
	if p.NewRunID != nil {
		return p.NewRunID()
	}
	return uuid.NewString()
}

// fail reports err as the terminal event, phrased for the user.
func fail(sink status.Sink, logger logging.Logger, err error) status.Event {
	logger.Warnf("Extraction failed: %v", err)
	ev := status.Failed{Message: appErrors.UserMessage(err)}
	sink.Send(ev)
	return ev
}
