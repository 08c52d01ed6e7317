package task

import (
	"context"
	"fmt"

	"tableflip.dev/ticktock/pkg/store"
)

// Find resolves a task by document id or, failing that, by exact name.
func Find(ctx context.Context, st store.Store, uid, idOrName string) (*Task, error) {
	col := fmt.Sprintf("users/%s/tasks", uid)

	if fields, ok, err := st.GetOne(ctx, col+"/"+idOrName); err != nil {
		return nil, err
	} else if ok {
		return FromFields(idOrName, fields)
	}

	docs, err := st.Query(ctx, col, store.Query{
		Filters: []store.Filter{{Field: "name", Op: "==", Value: idOrName}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no task named %q", idOrName)
	}
	return FromFields(docs[0].ID, docs[0].Fields)
}

// List returns all tasks for a user sorted by order.
func List(ctx context.Context, st store.Store, uid string) ([]*Task, error) {
	col := fmt.Sprintf("users/%s/tasks", uid)
	docs, err := st.Query(ctx, col, store.Query{
		OrderBy: []store.Order{{Field: "order"}},
	})
	if err != nil {
		return nil, err
	}
	tasks := make([]*Task, 0, len(docs))
	for _, d := range docs {
		t, err := FromFields(d.ID, d.Fields)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
