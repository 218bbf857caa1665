package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
	"github.com/marimeireles/spotify-to-youtube/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist resolution.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file before building the engine so nothing
	// writes to the terminal while the TUI owns it.
	fileLogger, err := shared.NewFileLogger("./tmp/sp2yt-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if err := r.ensureRepo(); err != nil {
		r.logger.Warn("resolution cache unavailable", "error", err)
	}
	if err := r.ensureEngine(); err != nil {
		return err
	}

	model := ui.NewModel(ctx, r.spotify, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// tuiCommand returns the top-level TUI command for interactive resolution.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist resolution",
		Action:  r.TUI,
	}
}
