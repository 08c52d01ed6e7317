// Package taskstate provides the runner that moves tasks between lifecycle
// states.
package taskstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
)

// Transition names a lifecycle move.
type Transition string

const (
	Complete   Transition = "complete"
	Uncomplete Transition = "uncomplete"
	Archive    Transition = "archive"
)

// TaskState applies a lifecycle transition to a task, stopping its timer
// first when it is running.
type TaskState struct {
	Task        string
	Transition  Transition
	UserID      string
	Persistence store.Store
}

func (n *TaskState) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not change task state, no persistence")
	}

	t, err := task.Find(ctx, n.Persistence, n.UserID, n.Task)
	if err != nil {
		return err
	}

	e := engine.New(n.Persistence, clock.System(), clock.Terminal())
	defer e.Close()
	if err := e.Init(ctx, n.UserID); err != nil {
		return err
	}

	switch n.Transition {
	case Complete:
		err = e.CompleteTask(ctx, t.ID)
	case Uncomplete:
		err = e.UncompleteTask(ctx, t.ID)
	case Archive:
		err = e.ArchiveTask(ctx, t.ID)
	default:
		err = fmt.Errorf("unknown transition %q", n.Transition)
	}
	if err != nil {
		return err
	}
	e.Wait()

	ok := color.New(color.FgHiGreen)
	_, _ = ok.Printf("%sd %s\n", n.Transition, t.Name)
	return nil
}
