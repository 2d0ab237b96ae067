package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dsfetch/internal/domain"
	"dsfetch/internal/presentation"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseDone
	PhaseError
)

const recentLimit = 6

// Messages for the TUI
type (
	EventMsg struct {
		Event domain.Event
	}
	DoneMsg struct {
		Result domain.RunResult
		Err    error
	}
	tickMsg time.Time
)

// Config for the TUI
type Config struct {
	ManifestPath string
	BaseDir      string
	// Cancel is called when the user quits while records are still running.
	Cancel func()
}

// Model is the main TUI model
type Model struct {
	config      Config
	Phase       Phase
	Result      domain.RunResult
	Err         error
	Quitting    bool
	spinner     spinner.Model
	progress    progress.Model
	done        int
	total       int
	currentFile string
	fetching    bool
	failed      bool
	recent      []recentLine
	width       int
}

type recentLine struct {
	ok   bool
	text string
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseRunning,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Phase == PhaseRunning && m.config.Cancel != nil {
				m.config.Cancel()
			}
			m.Quitting = true
			return m, tea.Quit
		case "enter":
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case EventMsg:
		m = m.applyEvent(msg.Event)
		return m, nil

	case DoneMsg:
		m.Result = msg.Result
		m.currentFile = ""
		if msg.Err != nil {
			m.Phase = PhaseError
			m.Err = msg.Err
		} else {
			m.Phase = PhaseDone
		}
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseRunning {
			var cmds []tea.Cmd
			if m.total > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.done)/float64(m.total)))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func (m Model) applyEvent(ev domain.Event) Model {
	switch ev.Kind {
	case domain.EventRecordStarted:
		m.total = ev.Total
		m.currentFile = ev.Record.Filename
		m.fetching = false
		m.failed = false
	case domain.EventDownloading:
		m.fetching = true
	case domain.EventSkipDownload:
		m = m.pushRecent(true, fmt.Sprintf("%s already verified", ev.Record.Filename))
	case domain.EventTransferFailed:
		m.failed = true
		m = m.pushRecent(false, fmt.Sprintf("%s: %v", ev.Record.Filename, ev.Err))
	case domain.EventNotVerified:
		m.failed = true
		m = m.pushRecent(false, fmt.Sprintf("%s did not successfully download", ev.Record.Filename))
	case domain.EventRecordDone:
		m.done = ev.Index
		m.total = ev.Total
		if m.fetching && !m.failed {
			m = m.pushRecent(true, fmt.Sprintf("%s downloaded and verified", ev.Record.Filename))
		}
		m.fetching = false
	}
	return m
}

func (m Model) pushRecent(ok bool, text string) Model {
	recent := append(append([]recentLine{}, m.recent...), recentLine{ok: ok, text: text})
	if len(recent) > recentLimit {
		recent = recent[len(recent)-recentLimit:]
	}
	m.recent = recent
	return m
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseRunning:
		b.WriteString(m.renderRunning())
	case PhaseDone:
		b.WriteString(m.renderRecent())
		b.WriteString("\n")
		b.WriteString(m.renderCompletion())
	case PhaseError:
		b.WriteString(m.renderRecent())
		b.WriteString("\n")
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("dsfetch")
	subtitle := subtitleStyle.Render("Manifest-driven dataset download")

	dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Manifest: %s", iconFile, shortenPath(m.config.ManifestPath))),
		dimStyle.Render(fmt.Sprintf("%s Base dir: %s", iconFolder, shortenPath(m.config.BaseDir))),
	)
}

func (m Model) renderRunning() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Verifying Files"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}

	action := "Verifying"
	if m.fetching {
		action = "Downloading"
	}
	b.WriteString(fmt.Sprintf("  %s %s...\n\n", m.spinner.View(), action))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))

	countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	percentStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.done, m.total)),
		percentStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n",
			iconArrow,
			fileNameStyle.Render(m.currentFile),
		))
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderRecent())
	}

	return b.String()
}

func (m Model) renderRecent() string {
	var b strings.Builder
	for _, line := range m.recent {
		if line.ok {
			b.WriteString(fmt.Sprintf("  %s %s\n", successStyle.Render(iconSuccess), fileNameStyle.Render(line.text)))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s\n", errorStyle.Render(iconError), warningStyle.Render(line.text)))
		}
	}
	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Run Complete"))
	b.WriteString("\n\n")

	if m.Result.Fail == 0 {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", successStyle.Render(iconSuccess), successStyle.Render("All files verified")))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", errorStyle.Render(iconError), errorStyle.Render(fmt.Sprintf("%d files failed verification", m.Result.Fail))))
	}

	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Verified:"), statValueStyle.Render(fmt.Sprintf("%d", m.Result.Success))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Failed:"), statValueStyle.Render(fmt.Sprintf("%d", m.Result.Fail))))
	b.WriteString("\n  ")
	b.WriteString(dimTextStyle.Render(presentation.SummaryLine(m.Result)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.Copy().
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseRunning:
		help = "Press q to abort"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
