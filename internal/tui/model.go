package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gitlab.com/tozd/go/errors"

	"fextract/internal/status"
)

// ErrInterrupted is returned by Run when the user quits before the worker
// reports a result.
var ErrInterrupted = errors.Base("interrupted")

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseSearching
	PhaseFiltering
	PhaseExtracting
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	eventMsg struct {
		event status.Event
	}
	streamEndMsg struct{}
)

// Model is the bubbletea presenter. It pulls events from a status.Source one
// at a time and renders them with a spinner and a progress bar.
type Model struct {
	source   status.Source
	spinner  spinner.Model
	progress progress.Model

	Phase       Phase
	root        string
	rangeLabel  string
	current     string
	candidates  int
	filtered    int
	total       int
	extracted   int
	warnings    int
	message     string
	Terminal    status.Event
	Interrupted bool

	pending []tea.Cmd
}

var _ status.Handler = (*Model)(nil)

// NewModel creates a new TUI model reading from src.
func NewModel(src status.Source) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		source:   src,
		spinner:  s,
		progress: p,
		Phase:    PhaseStarting,
	}
}

// Run drives a bubbletea program until src delivers its terminal event.
func Run(src status.Source, in io.Reader, out io.Writer) (status.Event, error) {
	program := tea.NewProgram(NewModel(src), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return nil, errors.Errorf("running terminal ui: %w", err)
	}
	m := final.(Model)
	if m.Interrupted {
		return nil, errors.WithStack(ErrInterrupted)
	}
	return m.Terminal, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

func (m Model) waitForEvent() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		e, ok := src.Recv()
		if !ok {
			return streamEndMsg{}
		}
		return eventMsg{event: e}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(10, min(msg.Width-20, 60))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		status.Dispatch(msg.event, &m)
		cmds := m.pending
		m.pending = nil
		if m.Terminal != nil {
			return m, tea.Sequence(append(cmds, tea.Quit)...)
		}
		cmds = append(cmds, m.waitForEvent())
		return m, tea.Batch(cmds...)

	case streamEndMsg:
		if m.Terminal == nil {
			m.Failed(status.Failed{Message: "worker stopped without a result"})
		}
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Phase == PhaseDone || m.Phase == PhaseError {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) Bootstrap(e status.Bootstrap) {
	m.root = e.Request.Root
	m.rangeLabel = fmt.Sprintf("%s %s %s",
		e.Request.RangeStart.Format("2006-01-02 15:04"),
		iconArrow,
		e.Request.RangeEnd.Format("2006-01-02 15:04"),
	)
	m.Phase = PhaseSearching
}

func (m *Model) Searching(e status.Searching) {
	m.Phase = PhaseSearching
	m.current = e.Path
	m.candidates++
}

func (m *Model) Searched(e status.Searched) {
	m.candidates = len(e.Paths)
	m.current = ""
	m.Phase = PhaseFiltering
}

func (m *Model) Filtering(e status.Filtering) {
	m.Phase = PhaseFiltering
	m.current = e.Path
	m.filtered++
}

func (m *Model) Filtered(e status.Filtered) {
	m.total = len(e.Paths)
	m.extracted = 0
	m.current = ""
	m.Phase = PhaseExtracting
}

func (m *Model) Extracting(e status.Extracting) {
	m.Phase = PhaseExtracting
	m.current = e.Path
	m.extracted++
}

func (m *Model) Warning(e status.Warning) {
	m.warnings++
	m.pending = append(m.pending, tea.Println(warningStyle.Render(
		fmt.Sprintf("%s %s %s %s", iconWarning, e.Syscall, e.Code, e.File),
	)))
}

func (m *Model) Extracted(e status.Extracted) {
	m.Phase = PhaseDone
	m.message = e.Message
	m.current = ""
	m.Terminal = e
}

func (m *Model) Failed(e status.Failed) {
	m.Phase = PhaseError
	m.message = e.Message
	m.current = ""
	m.Terminal = e
}

func (m Model) View() string {
	if m.Interrupted {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseStarting:
		b.WriteString(fmt.Sprintf("%s Starting...", m.spinner.View()))
	case PhaseSearching:
		b.WriteString(m.renderActivity("Searching", fmt.Sprintf("%d found", m.candidates)))
	case PhaseFiltering:
		b.WriteString(m.renderActivity("Filtering", fmt.Sprintf("%d/%d checked", m.filtered, m.candidates)))
	case PhaseExtracting:
		b.WriteString(m.renderExtraction())
	case PhaseDone:
		b.WriteString(successStyle.Render(fmt.Sprintf("%s %s", iconSuccess, m.message)))
	case PhaseError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s %s", iconError, m.message)))
	}
	b.WriteString("\n")

	if m.Phase != PhaseDone && m.Phase != PhaseError {
		b.WriteString(helpStyle.Render("Press ctrl+c to quit"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderHeader() string {
	lines := []string{titleStyle.Render("fextract")}
	if m.root != "" {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s %s", iconFolder, shortenPath(m.root))))
	}
	if m.rangeLabel != "" {
		lines = append(lines, dateStyle.Render(m.rangeLabel))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderActivity(label, count string) string {
	line := fmt.Sprintf("%s %s: %s", m.spinner.View(), label, fileNameStyle.Render(m.current))
	return line + "\n  " + countStyle.Render(count)
}

func (m Model) renderExtraction() string {
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.extracted) / float64(m.total)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Extracting: %s %s",
		m.spinner.View(),
		countStyle.Render(fmt.Sprintf("(%d/%d)", m.extracted, m.total)),
		dimStyle.Render(fmt.Sprintf("%.0f%%", percent*100)),
	))
	if m.current != "" {
		b.WriteString(fmt.Sprintf(" - %s", fileNameStyle.Render(m.current)))
	}
	b.WriteString("\n\n  ")
	b.WriteString(m.progress.ViewAs(percent))
	if m.warnings > 0 {
		b.WriteString("\n  ")
		b.WriteString(warningStyle.Render(fmt.Sprintf("%s %d warnings", iconWarning, m.warnings)))
	}
	return b.String()
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
