package tui

import (
	"context"
	"errors"

	"calcnerd/internal/config"
	"calcnerd/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Run starts the program and, when watcher is non-nil, the config watcher.
// Reloaded configs are forwarded to the program as ConfigReloadedMsg. Run
// returns when the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model, watcher *config.Watcher, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append(opts, tea.WithContext(ctx))
	p := tea.NewProgram(m, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
		g.Go(func() error {
			for cfg := range watcher.Updates() {
				p.Send(ConfigReloadedMsg{Config: cfg})
			}
			return nil
		})
	}

	err := g.Wait()
	logging.UI("Calculator stopped")
	return err
}
