// Package comment provides the runner that annotates the open interval.
package comment

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/printers"
	"tableflip.dev/ticktock/pkg/store"
)

// Comment writes a note on the currently open interval.
type Comment struct {
	Text        string
	UserID      string
	Persistence store.Store
}

func (n *Comment) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not comment, no persistence")
	}

	e := engine.New(n.Persistence, clock.System(), clock.Terminal())
	defer e.Close()
	if err := e.Init(ctx, n.UserID); err != nil {
		return err
	}

	if !e.Snapshot().Running {
		fmt.Println("no timer running, nothing to comment on")
		return nil
	}

	if err := e.SaveComment(ctx, n.Text); err != nil {
		return err
	}
	e.Wait()

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Status(e.Snapshot())
	return nil
}
