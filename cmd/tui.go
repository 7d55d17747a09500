package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cine/internal/catalog"
	"github.com/desertthunder/cine/internal/shared"
	"github.com/desertthunder/cine/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and playback.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.videos == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/cine-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	r.restore(ctx)

	searcher := catalog.NewSearcher(r.videos, catalog.DefaultQuietPeriod, fileLogger)
	defer searcher.Stop()

	model := ui.NewModel(ctx, ui.ModelOpts{
		Aggregator: r.aggregator,
		Searcher:   searcher,
		Store:      r.store,
		Catalog:    r.videos,
		Recorder:   r.account,
	})
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
