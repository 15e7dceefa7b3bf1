package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/vendor-dash/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the transaction list of storeID until the user quits.
func Run(ctx context.Context, backend service.Backend, storeID string, opts ...Option) error {
	if backend == nil {
		return errors.New("tui: backend not configured")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Backend = backend
	cfg.StoreID = storeID

	// Fetches get their own context so quitting can abandon an in-flight
	// request without killing the program mid-shutdown.
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(fetchCtx, cancel, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
