// Package start provides the runner that begins timing a task.
package start

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/printers"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
)

// Start begins timing the named task, or resumes the active task when Resume
// is set.
type Start struct {
	Task        string
	Resume      bool
	UserID      string
	Persistence store.Store
}

func (n *Start) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not start, no persistence")
	}
	if n.UserID == "" {
		return errors.New("can not start, no user configured")
	}

	e := engine.New(n.Persistence, clock.System(), clock.Terminal())
	defer e.Close()
	if err := e.Init(ctx, n.UserID); err != nil {
		return err
	}

	if n.Resume {
		if err := e.ResumeTask(ctx); err != nil {
			return err
		}
	} else {
		t, err := task.Find(ctx, n.Persistence, n.UserID, n.Task)
		if err != nil {
			return err
		}
		if err := e.StartTask(ctx, t.ID, t); err != nil {
			return err
		}
	}

	// Writes are detached from the start call; a short-lived process joins
	// them before exiting.
	e.Wait()

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Status(e.Snapshot())
	return nil
}
