package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"dompet/internal/app"
	applog "dompet/internal/log"
)

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, a *app.App, bridge *Bridge, chart *Chart, logger *applog.Logger) error {
	m := NewModel(ctx, a, chart, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)
	a.OnChange(bridge.Changed)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
