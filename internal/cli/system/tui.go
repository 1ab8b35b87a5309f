package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ritual/internal/cli"
	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/logger"
	"github.com/julianstephens/ritual/internal/tui"
)

type TuiCmd struct {
	NoWatch bool `help:"Do not reload when the store is changed by another process."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	m := tui.NewModel(ctx.Controller, ctx.Config.MetricsOptions())
	if !c.NoWatch && ctx.Config.ResolveBackend() != constants.BackendPostgres {
		w, err := tui.NewStoreWatcher(ctx.Store.GetConfigPath())
		if err != nil {
			logger.Warn("Live reload disabled", "error", err)
		} else {
			defer w.Close()
			m = m.WithWatcher(w, ctx.Load)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
