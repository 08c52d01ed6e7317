// Package watch provides the live dashboard runner. It is the long-lived
// process that hosts the ticking engine, so midnight splits and idle or
// pomodoro alerts fire while it is on screen.
package watch

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/store"
)

// Watch runs the dashboard until the user quits.
type Watch struct {
	Pomodoro    bool
	Minutes     int
	UserID      string
	Persistence store.Store
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not watch, no persistence")
	}
	if n.UserID == "" {
		return errors.New("can not watch, no user configured")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e := engine.New(n.Persistence, clock.System(), clock.Terminal())
	defer e.Close()
	if err := e.Init(ctx, n.UserID); err != nil {
		return err
	}
	if n.Pomodoro {
		e.TogglePomodoro(n.Minutes)
	}

	events, err := n.Persistence.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch store: %w", err)
	}

	m := newModel(ctx, e, n.Persistence, n.UserID, events)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	// Join any writes still in flight before tearing the store down.
	e.Wait()
	return nil
}
