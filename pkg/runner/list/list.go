// Package list provides the runner that prints the task list.
package list

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
)

// List prints tasks in order, optionally including completed and archived
// ones.
type List struct {
	All         bool
	ShowID      bool
	UserID      string
	Persistence store.Store
}

func (n *List) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not list, no persistence")
	}

	tasks, err := task.List(ctx, n.Persistence, n.UserID)
	if err != nil {
		return err
	}

	table := uitable.New()
	table.MaxColWidth = 50
	if n.ShowID {
		table.AddRow("ID", "TASK", "STATUS")
	} else {
		table.AddRow("TASK", "STATUS")
	}

	shown := 0
	for _, t := range tasks {
		if !n.All && t.Status != task.StatusActive {
			continue
		}
		shown++
		if n.ShowID {
			table.AddRow(t.ID, t.Name, string(t.Status))
		} else {
			table.AddRow(t.Name, string(t.Status))
		}
	}

	if shown == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Println(" no tasks yet, add one with `ticktock add`")
		return nil
	}

	fmt.Println(table)
	return nil
}
