// Package add provides the runner that creates tasks and projects.
package add

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
)

// Add creates a new task, or a new project when Project is set.
type Add struct {
	Name        string
	ProjectID   string
	Tags        []string
	Project     bool
	UserID      string
	Persistence store.Store
}

func (n *Add) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not add, no persistence")
	}
	if n.Name == "" {
		return errors.New("can not add, no name given")
	}

	now := time.Now()
	id := fmt.Sprintf("%x", uuid.New())

	if n.Project {
		col := fmt.Sprintf("users/%s/projects", n.UserID)
		order, err := nextOrder(ctx, n.Persistence, col)
		if err != nil {
			return err
		}
		p := &task.Project{Name: n.Name, Tags: n.Tags, Order: order}
		p.Created.Time = now
		p.Updated.Time = now
		if err := n.Persistence.CreateWithID(ctx, col, id, p.Fields()); err != nil {
			return err
		}
		ok := color.New(color.FgHiGreen)
		_, _ = ok.Printf("added project %s (%s)\n", n.Name, id)
		return nil
	}

	col := fmt.Sprintf("users/%s/tasks", n.UserID)
	order, err := nextOrder(ctx, n.Persistence, col)
	if err != nil {
		return err
	}
	t := task.New(n.Name, n.ProjectID, n.Tags, order, now)
	if err := n.Persistence.CreateWithID(ctx, col, id, t.Fields()); err != nil {
		return err
	}
	ok := color.New(color.FgHiGreen)
	_, _ = ok.Printf("added task %s (%s)\n", n.Name, id)
	return nil
}

// nextOrder places a new document after everything already in the collection.
func nextOrder(ctx context.Context, st store.Store, col string) (int, error) {
	docs, err := st.Query(ctx, col, store.Query{
		OrderBy: []store.Order{{Field: "order", Desc: true}},
		Limit:   1,
	})
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if f, ok := docs[0].Fields["order"].(float64); ok {
		return int(f) + 1, nil
	}
	return len(docs), nil
}
