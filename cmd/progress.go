package cmd

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"appicon/internal/logging"
	"appicon/internal/processor"
	"appicon/internal/tui"
)

// showProgress renders updates until the channel closes. If the user quits
// with ctrl+c, interrupt is called and the remaining updates are drained so
// producers never block.
func showProgress(title string, updates <-chan processor.ProgressUpdate, interrupt func()) {
	program := tea.NewProgram(tui.NewModel(title, updates))
	final, err := program.Run()
	if err == nil {
		if m, ok := final.(tui.Model); ok && m.Interrupted() {
			interrupt()
		}
	}
	for range updates {
	}
}

// deferredLogger is the configured logger with its records held back until
// flush is called, so nothing draws over the progress view.
func deferredLogger(out io.Writer) (l *slog.Logger, flush func()) {
	d := logging.NewDeferred(out)
	cfg := appConfig.Log
	cfg.Output = d
	l, err := logging.New(cfg)
	if err != nil {
		return logger, func() {}
	}
	return l, func() { _ = d.Flush() }
}
