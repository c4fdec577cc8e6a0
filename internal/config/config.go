package config

import (
	"os"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"

	"fextract/internal/domain"
)

// Options holds raw option values as they arrive from flags, environment
// and the config file. Empty means "not set".
type Options struct {
	Files  []string
	Output string
	Start  string
	End    string
	Types  []string
	Dot    string
	Ignore []string
	Jobs   int
}

// Merge fills every unset field of o from fallback.
func (o Options) Merge(fallback Options) Options {
	if len(o.Files) == 0 {
		o.Files = fallback.Files
	}
	if o.Output == "" {
		o.Output = fallback.Output
	}
	if o.Start == "" {
		o.Start = fallback.Start
	}
	if o.End == "" {
		o.End = fallback.End
	}
	if len(o.Types) == 0 {
		o.Types = fallback.Types
	}
	if o.Dot == "" {
		o.Dot = fallback.Dot
	}
	if len(o.Ignore) == 0 {
		o.Ignore = fallback.Ignore
	}
	if o.Jobs == 0 {
		o.Jobs = fallback.Jobs
	}
	return o
}

// FromEnv reads the FEXTRACT_* variables.
func FromEnv() Options {
	return Options{
		Files:  splitList(envOrEmpty("FEXTRACT_FILES")),
		Output: envOrEmpty("FEXTRACT_OUTPUT"),
		Start:  envOrEmpty("FEXTRACT_START"),
		End:    envOrEmpty("FEXTRACT_END"),
		Types:  splitList(envOrEmpty("FEXTRACT_TYPES")),
		Dot:    envOrEmpty("FEXTRACT_DOT"),
		Ignore: splitList(envOrEmpty("FEXTRACT_IGNORE")),
	}
}

// VerboseFromEnv reports whether FEXTRACT_VERBOSE is truthy.
func VerboseFromEnv() bool {
	return truthy(envOrEmpty("FEXTRACT_VERBOSE"))
}

// Build turns merged options into a frozen request rooted at root. The
// default end of range is now, captured here once.
func Build(opts Options, root, configFile string, now time.Time) (domain.ExtractionRequest, error) {
	start, err := ParseStart(opts.Start)
	if err != nil {
		return domain.ExtractionRequest{}, err
	}
	end, err := ParseEnd(opts.End, now)
	if err != nil {
		return domain.ExtractionRequest{}, err
	}
	output, err := ParseOutput(opts.Output)
	if err != nil {
		return domain.ExtractionRequest{}, err
	}
	kinds, err := ParseTypes(opts.Types)
	if err != nil {
		return domain.ExtractionRequest{}, err
	}
	jobs, err := ParseJobs(opts.Jobs)
	if err != nil {
		return domain.ExtractionRequest{}, err
	}

	req := domain.ExtractionRequest{
		Root:            root,
		Patterns:        ParseFiles(opts.Files),
		OutputDir:       output,
		RangeStart:      start,
		RangeEnd:        end,
		TimeKinds:       kinds,
		IncludeHidden:   ParseDot(opts.Dot),
		ExcludePatterns: cleanList(opts.Ignore),
		ConfigFile:      configFile,
		Jobs:            jobs,
	}
	if err := req.Validate(); err != nil {
		return domain.ExtractionRequest{}, errors.WithStack(err)
	}
	return req, nil
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func truthy(val string) bool {
	val = strings.TrimSpace(strings.ToLower(val))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return cleanList(strings.Split(value, ","))
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
