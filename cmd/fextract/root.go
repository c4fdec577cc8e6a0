package main

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"

	"fextract/internal/app"
	"fextract/internal/config"
	"fextract/internal/domain"
	appErrors "fextract/internal/errors"
	"fextract/internal/infra/exif"
	"fextract/internal/infra/fs"
	"fextract/internal/logging"
	"fextract/internal/presentation"
	"fextract/internal/status"
	"fextract/internal/tui"
	"fextract/internal/worker"
)

const exitInterrupted = 130

// exitCodeError ends the command with a specific code after the presenter
// has already told the user what happened.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type cliOptions struct {
	files      []string
	output     string
	start      string
	end        string
	types      []string
	dot        bool
	ignore     []string
	configFile string
	jobs       int
	isolate    bool
	plain      bool
	verbose    bool
}

// env carries the process surroundings so tests can substitute them.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getwd  func() (string, error)
	now    func() time.Time
	exe    func() (string, error)
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(env{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		getwd:  os.Getwd,
		now:    time.Now,
		exe:    os.Executable,
	})
	cmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return exitCode(cmd.ExecuteContext(ctx), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exit *exitCodeError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintln(stderr, appErrors.UserMessage(err))
	return appErrors.ExitCode(err)
}

func newRootCmd(e env) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "fextract",
		Short: "Extract files by timestamp range",
		Long: `Searches the working directory for files matching glob patterns, keeps
those whose modified, changed, accessed or created time falls inside a date
range, and copies them into "<output>/<start> & <end>/".`,
		Example: `  fextract -s 2024-10-01 -e 2024-10-31 -f "**/*.jpg" -t created
  fextract -s 1727740800000 -t modified,changed --jobs 4 --plain`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, e, opts)
		},
	}
	cmd.SetIn(e.stdin)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return appErrors.Wrap(appErrors.InvalidConfig, "flags", "", err)
	})

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.files, "files", "f", nil, "glob pattern to search (repeatable)")
	flags.StringVarP(&opts.output, "output", "o", "", "output directory relative to the working directory (default \".extract/\")")
	flags.StringVarP(&opts.start, "start", "s", "", "start of the range: date or epoch milliseconds")
	flags.StringVarP(&opts.end, "end", "e", "", "end of the range (default now)")
	flags.StringSliceVarP(&opts.types, "types", "t", nil, "timestamps to check: modified, changed, accessed, created")
	flags.BoolVar(&opts.dot, "dot", false, "include hidden files and directories")
	flags.StringArrayVarP(&opts.ignore, "ignore", "i", nil, "glob pattern to exclude (repeatable)")
	flags.StringVarP(&opts.configFile, "config", "c", domain.DefaultConfigFile, "config file")
	flags.IntVarP(&opts.jobs, "jobs", "j", 1, "number of concurrent copies")
	flags.BoolVar(&opts.isolate, "isolate", false, "run the extraction in a child process")
	flags.BoolVar(&opts.plain, "plain", false, "print plain lines instead of the interactive view")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newWorkerCmd(e))
	return cmd
}

// flagOptions keeps only the flags the user actually set, so that env and
// file values can fill the rest.
func flagOptions(cmd *cobra.Command, opts *cliOptions) config.Options {
	changed := cmd.Flags().Changed
	var out config.Options
	if changed("files") {
		out.Files = opts.files
	}
	if changed("output") {
		out.Output = opts.output
	}
	if changed("start") {
		out.Start = opts.start
	}
	if changed("end") {
		out.End = opts.end
	}
	if changed("types") {
		out.Types = opts.types
	}
	if changed("dot") {
		out.Dot = strconv.FormatBool(opts.dot)
	}
	if changed("ignore") {
		out.Ignore = opts.ignore
	}
	if changed("jobs") {
		out.Jobs = opts.jobs
	}
	return out
}

func buildRequest(cmd *cobra.Command, e env, opts *cliOptions) (domain.ExtractionRequest, error) {
	root, err := e.getwd()
	if err != nil {
		return domain.ExtractionRequest{}, appErrors.Wrap(appErrors.Internal, "getwd", "", err)
	}

	configPath := opts.configFile
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(root, configPath)
	}
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(configPath); errors.Is(err, iofs.ErrNotExist) {
			return domain.ExtractionRequest{}, appErrors.Wrap(appErrors.NotFound, "config file", configPath, err)
		}
	}
	fileOpts, err := config.LoadFile(configPath)
	var pathErr *iofs.PathError
	switch {
	case errors.As(err, &pathErr):
		return domain.ExtractionRequest{}, appErrors.Wrap(appErrors.IOFailure, "config file", configPath, err)
	case err != nil:
		return domain.ExtractionRequest{}, appErrors.Wrap(appErrors.InvalidConfig, "config file", configPath, err)
	}

	merged := flagOptions(cmd, opts).Merge(config.FromEnv()).Merge(fileOpts)
	req, err := config.Build(merged, root, configPattern(root, configPath), e.now())
	if err != nil {
		return domain.ExtractionRequest{}, appErrors.Wrap(appErrors.InvalidConfig, "options", "", err)
	}
	return req, nil
}

// configPattern is the config file as a slash path relative to root, or
// empty when it lives outside the searched tree.
func configPattern(root, configPath string) string {
	rel, err := filepath.Rel(root, configPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

func runExtract(cmd *cobra.Command, e env, opts *cliOptions) error {
	verbose := opts.verbose || config.VerboseFromEnv()

	req, err := buildRequest(cmd, e, opts)
	if err != nil {
		return err
	}

	logger := logging.Logger{}
	if verbose {
		logger = logging.New(e.stderr, true)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	src, err := startWorker(ctx, e, req, opts.isolate, verbose, logger)
	if err != nil {
		return err
	}

	terminal, err := present(src, e, opts.plain || verbose, verbose)
	if errors.Is(err, tui.ErrInterrupted) || cmd.Context().Err() != nil {
		return &exitCodeError{code: exitInterrupted}
	}
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "present", "", err)
	}

	if _, ok := terminal.(status.Extracted); ok {
		return nil
	}
	return &exitCodeError{code: 1}
}

func startWorker(ctx context.Context, e env, req domain.ExtractionRequest, isolate, verbose bool, logger logging.Logger) (status.Source, error) {
	if !isolate {
		pipeline := &app.Pipeline{FS: fs.OSFS{}, Exif: exif.Reader{}, Logger: logger}
		return worker.Start(ctx, pipeline, req), nil
	}

	exe, err := e.exe()
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Worker, "locate executable", "", err)
	}
	args := []string{workerCommand}
	if verbose {
		args = append(args, "--verbose")
	}
	proc, err := worker.Spawn(ctx, exe, args, req, e.stderr)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Worker, "spawn worker", exe, err)
	}
	return proc, nil
}

// present renders src until it ends. The interactive view is used only when
// stdout is a terminal.
func present(src status.Source, e env, plain, verbose bool) (status.Event, error) {
	if !plain && isTerminal(e.stdout) {
		return tui.Run(src, e.stdin, e.stdout)
	}
	printer := &presentation.Printer{Writer: e.stdout, Verbose: verbose}
	return printer.Consume(src), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
