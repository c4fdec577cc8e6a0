package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"fextract/internal/domain"
	"fextract/internal/logging"
	"fextract/internal/status"
)

// ExtractResult counts copy attempts. Failed files are included in
// Processed.
type ExtractResult struct {
	Processed int
	Failed    int
}

// Executor copies matched files. With Jobs <= 1 files are copied strictly
// in order; otherwise up to Jobs copies run at once and finish in any
// order. Each file's Extracting and Warning events are always emitted
// back to back. Cancelling ctx stops new copies from starting.
type Executor struct {
	FS     FileSystem
	Jobs   int
	Logger logging.Logger
}

func (e *Executor) Extract(ctx context.Context, files []domain.MatchedFile, sink status.Sink) ExtractResult {
	stop := e.Logger.Measure("Extracting files")
	defer stop()

	var (
		mu     sync.Mutex
		result ExtractResult
	)
	copyOne := func(file domain.MatchedFile) {
		err := e.FS.CopyFile(file.Source, file.Destination)

		mu.Lock()
		defer mu.Unlock()
		result.Processed++
		sink.Send(status.Extracting{Path: file.Path})
		if err != nil {
			result.Failed++
			e.Logger.Warnf("Copy of %s failed: %v", file.Path, err)
			sink.Send(status.Warning{CopyWarning: ClassifyCopyError(file.Path, err)})
		}
	}

	if e.Jobs <= 1 {
		for _, file := range files {
			if ctx.Err() != nil {
				break
			}
			copyOne(file)
		}
		return result
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Jobs)
	for _, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			copyOne(file)
			return nil
		})
	}
	_ = g.Wait()
	return result
}
