package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/curiocollect/curio/internal/service"
	"github.com/curiocollect/curio/internal/settings"
)

// Run starts the interactive browser and blocks until the user quits or the
// context is canceled.
func Run(ctx context.Context, storage service.Storage, prefs *settings.Store) error {
	if storage == nil {
		return fmt.Errorf("storage is required")
	}

	p := tea.NewProgram(NewModel(storage, prefs), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}
