package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides optional verbose logging and lightweight timing helpers
// on top of zerolog. The zero value discards everything.
type Logger struct {
	zlog    zerolog.Logger
	Verbose bool
	enabled bool
}

// New writes human-readable lines to writer. Verbose enables debug output.
func New(writer io.Writer, verbose bool) Logger {
	if writer == nil {
		return Logger{}
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly, NoColor: true}
	return Logger{
		zlog:    zerolog.New(console).Level(level).With().Timestamp().Logger(),
		Verbose: verbose,
		enabled: true,
	}
}

// NewJSON writes structured JSON lines, used by the worker process.
func NewJSON(writer io.Writer, verbose bool) Logger {
	if writer == nil {
		return Logger{}
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return Logger{
		zlog:    zerolog.New(writer).Level(level).With().Timestamp().Logger(),
		Verbose: verbose,
		enabled: true,
	}
}

// With returns a child logger that adds key to every line.
func (l Logger) With(key, value string) Logger {
	if !l.enabled {
		return l
	}
	l.zlog = l.zlog.With().Str(key, value).Logger()
	return l
}

func (l Logger) Infof(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.zlog.Info().Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Warnf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.zlog.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.enabled || !l.Verbose {
		return
	}
	l.zlog.Debug().Msg(fmt.Sprintf(format, args...))
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.enabled || !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.zlog.Debug().Str("phase", label).Dur("elapsed", elapsed).Msgf("%s took %s", label, elapsed)
	}
}
