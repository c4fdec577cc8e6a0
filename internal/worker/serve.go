package worker

import (
	"context"
	"io"

	"gitlab.com/tozd/go/errors"

	"fextract/internal/status"
)

// Serve is the child side of Spawn: it reads one Bootstrap envelope from
// in, runs the request and streams every event to out.
func Serve(ctx context.Context, r Runner, in io.Reader, out io.Writer) error {
	e, err := status.NewDecoder(in).Decode()
	if err != nil {
		return errors.Errorf("reading bootstrap: %w", err)
	}
	boot, ok := e.(status.Bootstrap)
	if !ok {
		return errors.Errorf("expected bootstrap, got %s", e.Kind())
	}

	enc := status.NewEncoder(out)
	r.Run(ctx, boot.Request, enc)
	return enc.Err()
}
