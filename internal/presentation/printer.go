package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"fextract/internal/status"
)

var (
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

// Printer renders a status stream as plain lines. It is used when stdout is
// not a terminal, with --plain, and in verbose mode.
type Printer struct {
	Writer  io.Writer
	Verbose bool

	total     int
	extracted int
}

var _ status.Handler = (*Printer)(nil)

// Consume renders every event from src and returns the terminal one, or nil
// if the source ended without one.
func (p *Printer) Consume(src status.Source) status.Event {
	var terminal status.Event
	for {
		e, ok := src.Recv()
		if !ok {
			return terminal
		}
		status.Dispatch(e, p)
		if e.Kind().Terminal() {
			terminal = e
		}
	}
}

func (p *Printer) Bootstrap(e status.Bootstrap) {
	if !p.Verbose {
		return
	}
	req := e.Request
	dimColor.Fprintf(p.Writer, "Run %s in %s\n", e.RunID, req.Root)
	dimColor.Fprintf(p.Writer, "  files:   %s\n", strings.Join(req.Patterns, ", "))
	dimColor.Fprintf(p.Writer, "  ignore:  %s\n", strings.Join(req.ExcludePatterns, ", "))
	dimColor.Fprintf(p.Writer, "  range:   %s .. %s (%s)\n",
		req.RangeStart.Format("2006-01-02 15:04:05"),
		req.RangeEnd.Format("2006-01-02 15:04:05"),
		joinKinds(e),
	)
}

func (p *Printer) Searching(e status.Searching) {
	if p.Verbose {
		fmt.Fprintf(p.Writer, "Searching: %s\n", e.Path)
	}
}

func (p *Printer) Searched(e status.Searched) {
	fmt.Fprintf(p.Writer, "Found %d %s\n", len(e.Paths), plural(len(e.Paths), "candidate"))
}

func (p *Printer) Filtering(e status.Filtering) {
	if p.Verbose {
		fmt.Fprintf(p.Writer, "Filtering: %s\n", e.Path)
	}
}

func (p *Printer) Filtered(e status.Filtered) {
	p.total = len(e.Paths)
	p.extracted = 0
	fmt.Fprintf(p.Writer, "Matched %d %s\n", p.total, plural(p.total, "file"))
}

func (p *Printer) Extracting(e status.Extracting) {
	p.extracted++
	fmt.Fprintf(p.Writer, "Extracting: (%d/%d) %s\n", p.extracted, p.total, e.Path)
}

func (p *Printer) Warning(e status.Warning) {
	warnColor.Fprintf(p.Writer, "Warning: %s %s %s\n", e.Syscall, e.Code, e.File)
}

func (p *Printer) Extracted(e status.Extracted) {
	successColor.Fprintf(p.Writer, "✓ %s\n", e.Message)
}

func (p *Printer) Failed(e status.Failed) {
	failColor.Fprintf(p.Writer, "✗ %s\n", e.Message)
}

func joinKinds(e status.Bootstrap) string {
	names := make([]string, 0, len(e.Request.TimeKinds))
	for _, kind := range e.Request.TimeKinds {
		names = append(names, string(kind))
	}
	return strings.Join(names, "|")
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
