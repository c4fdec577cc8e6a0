package main

import (
	"github.com/spf13/cobra"

	"fextract/internal/app"
	"fextract/internal/config"
	appErrors "fextract/internal/errors"
	"fextract/internal/infra/exif"
	"fextract/internal/infra/fs"
	"fextract/internal/logging"
	"fextract/internal/worker"
)

const workerCommand = "worker"

// newWorkerCmd is the child side of --isolate. It reads a bootstrap envelope
// on stdin and writes the event stream to stdout.
func newWorkerCmd(e env) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:    workerCommand,
		Short:  "Run one extraction from a bootstrap envelope on stdin",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.Logger{}
			if verbose || config.VerboseFromEnv() {
				logger = logging.NewJSON(e.stderr, true)
			}
			pipeline := &app.Pipeline{FS: fs.OSFS{}, Exif: exif.Reader{}, Logger: logger}
			if err := worker.Serve(cmd.Context(), pipeline, e.stdin, e.stdout); err != nil {
				return appErrors.Wrap(appErrors.Worker, "serve", "", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr as JSON")
	return cmd
}
