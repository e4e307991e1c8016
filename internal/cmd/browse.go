package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/casts/internal/command"
	"github.com/runger/casts/internal/logging"
	"github.com/runger/casts/internal/ui"
)

// runBrowser starts the two-pane browser on the configured library.
func runBrowser(cmd *cobra.Command, args []string) error {
	if err := checkTerminal(); err != nil {
		return err
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	model := ui.NewModel(env.store, ui.Options{
		List:           env.cfg.ListOptions(),
		FetchTimeout:   env.cfg.FetchTimeout(),
		FeedsPaneWidth: env.cfg.UI.FeedsPaneWidth,
		Placeholder:    env.cfg.UI.Placeholder,
		RCFile:         env.paths.RCFile(),
		Keys:           command.DefaultKeyMap(),
		Logger:         env.logger,
	})

	// Detect the color profile once so the package-level styles in
	// internal/ui pick it up.
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).ColorProfile())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.LogShutdown(env.logger, "error")
		return fmt.Errorf("TUI error: %w", err)
	}

	logging.LogShutdown(env.logger, "quit")
	return nil
}
