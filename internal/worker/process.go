package worker

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"gitlab.com/tozd/go/errors"

	"fextract/internal/domain"
	"fextract/internal/status"
)

// Process is a worker running as a child process. The request travels as a
// Bootstrap envelope on stdin; events come back one envelope per line on
// stdout.
type Process struct {
	*stream
	cmd *exec.Cmd
}

// Spawn starts exe with args and hands it req. Child stderr goes to stderr.
func Spawn(ctx context.Context, exe string, args []string, req domain.ExtractionRequest, stderr io.Writer) (*Process, error) {
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Errorf("opening worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Errorf("opening worker stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Errorf("starting worker: %w", err)
	}

	enc := status.NewEncoder(stdin)
	enc.Send(status.Bootstrap{Request: req})
	closeErr := stdin.Close()
	if err := enc.Err(); err != nil || closeErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		if err == nil {
			err = closeErr
		}
		return nil, errors.Errorf("sending request to worker: %w", err)
	}

	return &Process{stream: newStream(stdout, cmd.Wait), cmd: cmd}, nil
}

// stream decodes events from r. When r ends before a terminal event it
// reports a Failed event built from the exit status returned by wait.
type stream struct {
	r    io.Reader
	dec  *status.Decoder
	wait func() error
	done bool
}

func newStream(r io.Reader, wait func() error) *stream {
	return &stream{r: r, dec: status.NewDecoder(r), wait: wait}
}

func (s *stream) Recv() (status.Event, bool) {
	if s.done {
		return nil, false
	}

	e, err := s.dec.Decode()
	if err == nil {
		if e.Kind().Terminal() {
			s.done = true
			_, _ = io.Copy(io.Discard, s.r)
			_ = s.wait()
		}
		return e, true
	}

	s.done = true
	_, _ = io.Copy(io.Discard, s.r)
	waitErr := s.wait()
	switch {
	case !errors.Is(err, io.EOF):
		return status.Failed{Message: fmt.Sprintf("worker stream broken: %v", err)}, true
	case waitErr != nil:
		return status.Failed{Message: fmt.Sprintf("worker exited unexpectedly: %v", waitErr)}, true
	default:
		return status.Failed{Message: "worker exited without a result"}, true
	}
}
