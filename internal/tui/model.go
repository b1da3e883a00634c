package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"appicon/internal/processor"
)

type Model struct {
	title       string
	updates     <-chan processor.ProgressUpdate
	started     time.Time
	width       int
	total       int
	processed   int
	errors      int
	icons       int
	bytes       int64
	percent     float64
	step        string
	quitting    bool
	interrupted bool
}

type doneMsg struct{}

type updateMsg processor.ProgressUpdate

func NewModel(title string, updates <-chan processor.ProgressUpdate) Model {
	return Model{title: title, updates: updates, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.processed += msg.ProcessedDelta
		m.errors += msg.ErrorDelta
		m.icons += msg.IconDelta
		m.bytes += msg.BytesDelta
		if msg.Percent > m.percent {
			m.percent = msg.Percent
		}
		if msg.Step != "" {
			m.step = msg.Step
		}
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) Interrupted() bool {
	return m.interrupted
}

// Ratio prefers the reported percentage and falls back to processed/total.
func (m Model) Ratio() float64 {
	ratio := m.percent / 100
	if ratio == 0 && m.total > 0 {
		ratio = float64(m.processed) / float64(m.total)
	}
	return math.Max(0, math.Min(1, ratio))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	bar := renderBar(barWidth, m.Ratio())
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render(m.title),
		labelStyle.Render(fmt.Sprintf("Logos: %d/%d", m.processed, m.total)) + dimStyle.Render(fmt.Sprintf("  errors:%d", m.errors)),
		labelStyle.Render(fmt.Sprintf("Icons written: %d (%d bytes)", m.icons, m.bytes)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar) + labelStyle.Render(fmt.Sprintf(" %3.0f%%", m.Ratio()*100)),
	}
	if m.step != "" {
		lines = append(lines, dimStyle.Render(m.step))
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan processor.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	barStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
