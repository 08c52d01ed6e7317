// Package reorder provides the runner that rewrites task or project ordering.
package reorder

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
)

// Reorder rewrites the order field of tasks (or projects) to match the given
// id sequence.
type Reorder struct {
	IDs         []string
	Projects    bool
	UserID      string
	Persistence store.Store
}

func (n *Reorder) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not reorder, no persistence")
	}
	if len(n.IDs) == 0 {
		return errors.New("can not reorder, no ids given")
	}

	e := engine.New(n.Persistence, clock.System(), clock.Terminal())
	defer e.Close()
	if err := e.Init(ctx, n.UserID); err != nil {
		return err
	}

	ids := n.IDs
	if !n.Projects {
		// Names are accepted in place of ids on the command line.
		resolved := make([]string, 0, len(ids))
		for _, id := range ids {
			t, err := task.Find(ctx, n.Persistence, n.UserID, id)
			if err != nil {
				return err
			}
			resolved = append(resolved, t.ID)
		}
		ids = resolved
	}

	var err error
	if n.Projects {
		err = e.ReorderProjects(ctx, ids)
	} else {
		err = e.ReorderTasks(ctx, ids)
	}
	if err != nil {
		return err
	}

	ok := color.New(color.FgHiGreen)
	_, _ = ok.Printf("reordered %d items\n", len(ids))
	return nil
}
