// Package status provides the runner that prints the current timer state.
package status

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/interval"
	"tableflip.dev/ticktock/pkg/printers"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/timeutil"
)

// Status prints the running timer and today's intervals.
type Status struct {
	ShowID      bool
	UserID      string
	Persistence store.Store
}

func (n *Status) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not get status, no persistence")
	}

	e := engine.New(n.Persistence, clock.System(), clock.Terminal())
	defer e.Close()
	if err := e.Init(ctx, n.UserID); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")
	pp.Status(e.Snapshot())
	pp.NewLine()

	today := timeutil.DayString(clock.System().Now())
	docs, err := n.Persistence.Query(ctx, fmt.Sprintf("users/%s/timeEntries", n.UserID), store.Query{
		Filters: []store.Filter{{Field: "date", Op: "==", Value: today}},
		OrderBy: []store.Order{{Field: "startTime"}},
	})
	if err != nil {
		return err
	}

	list := make([]*interval.Interval, 0, len(docs))
	for _, d := range docs {
		iv, err := interval.FromFields(d.ID, d.Fields)
		if err != nil {
			return err
		}
		list = append(list, iv)
	}

	pp.Title(today)
	pp.Intervals(list...)
	return nil
}
