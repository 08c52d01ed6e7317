// Package stop provides the runner that stops the running timer.
package stop

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/printers"
	"tableflip.dev/ticktock/pkg/store"
)

// Stop halts the running timer, waiting for the close to persist.
type Stop struct {
	UserID      string
	Persistence store.Store
}

func (n *Stop) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not stop, no persistence")
	}

	e := engine.New(n.Persistence, clock.System(), clock.Terminal())
	defer e.Close()
	if err := e.Init(ctx, n.UserID); err != nil {
		return err
	}

	s := e.Snapshot()
	if !s.Running {
		fmt.Println("no timer running")
		return nil
	}

	if err := e.StopTimer(ctx); err != nil {
		return err
	}
	e.Wait()

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Status(e.Snapshot())
	return nil
}
