// Package worker runs a pipeline away from the presenter, either in a
// goroutine or in a child process, and exposes its events as a
// status.Source.
package worker

import (
	"context"
	"fmt"

	"fextract/internal/domain"
	"fextract/internal/status"
)

// Runner is satisfied by *app.Pipeline.
type Runner interface {
	Run(ctx context.Context, req domain.ExtractionRequest, sink status.Sink) status.Event
}

// Start runs r in its own goroutine. The returned source always ends with
// exactly one terminal event, even if r panics.
func Start(ctx context.Context, r Runner, req domain.ExtractionRequest) status.Source {
	ch := status.NewChannel()
	go func() {
		defer ch.Close()
		defer func() {
			if v := recover(); v != nil {
				ch.Send(status.Failed{Message: fmt.Sprintf("worker crashed: %v", v)})
			}
		}()
		if terminal := r.Run(ctx, req, ch); terminal == nil || !terminal.Kind().Terminal() {
			ch.Send(status.Failed{Message: "worker finished without a result"})
		}
	}()
	return ch
}
