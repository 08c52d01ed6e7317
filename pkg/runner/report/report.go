// Package report provides the runner that aggregates tracked time over a
// window of days.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tableflip.dev/ticktock/pkg/interval"
	"tableflip.dev/ticktock/pkg/printers"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
	"tableflip.dev/ticktock/pkg/timeutil"
)

// Report sums closed intervals per task per day inside the window.
type Report struct {
	Window      string
	UserID      string
	Persistence store.Store
}

func (n *Report) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not report, no persistence")
	}

	window, canonical, err := timeutil.ParseWindow(n.Window)
	if err != nil {
		return err
	}
	to := time.Now()
	from := to.Add(-window)

	col := fmt.Sprintf("users/%s/timeEntries", n.UserID)
	docs, err := n.Persistence.Query(ctx, col, store.Query{
		Filters: []store.Filter{{Field: "endTime", Op: "!=", Value: nil}},
		OrderBy: []store.Order{{Field: "startTime"}},
	})
	if err != nil {
		return err
	}

	ivs := make([]*interval.Interval, 0, len(docs))
	for _, d := range docs {
		iv, err := interval.FromFields(d.ID, d.Fields)
		if err != nil {
			return err
		}
		ivs = append(ivs, iv)
	}

	names, err := taskNames(ctx, n.Persistence, n.UserID)
	if err != nil {
		return err
	}

	rows := Aggregate(ivs, names, from, to)

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Title(fmt.Sprintf("report, last %s", canonical))
	pp.Report(rows)
	return nil
}

// Aggregate folds intervals into one row per task per day, keeping only
// intervals whose start falls inside [from, to). The latest non-empty comment
// per row wins.
func Aggregate(ivs []*interval.Interval, names map[string]string, from, to time.Time) []printers.ReportRow {
	type key struct{ date, taskID string }
	totals := make(map[key]*printers.ReportRow)
	var order []key

	for _, iv := range ivs {
		if iv.Start.Before(from) || !iv.Start.Before(to) {
			continue
		}
		k := key{date: iv.Date, taskID: iv.TaskID}
		row, ok := totals[k]
		if !ok {
			name := names[iv.TaskID]
			if name == "" {
				name = iv.TaskID
			}
			row = &printers.ReportRow{Date: iv.Date, TaskName: name}
			totals[k] = row
			order = append(order, k)
		}
		row.Seconds += iv.Duration
		if iv.Comment != "" {
			row.Comment = iv.Comment
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].date != order[j].date {
			return order[i].date < order[j].date
		}
		return totals[order[i]].TaskName < totals[order[j]].TaskName
	})

	rows := make([]printers.ReportRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, *totals[k])
	}
	return rows
}

func taskNames(ctx context.Context, st store.Store, uid string) (map[string]string, error) {
	tasks, err := task.List(ctx, st, uid)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	return names, nil
}
