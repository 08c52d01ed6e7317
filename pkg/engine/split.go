package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"tableflip.dev/ticktock/pkg/interval"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/timeutil"
)

// SplitPlan describes how to cut an open interval at a day boundary: close
// the old interval at Boundary with FirstDuration seconds, then continue in a
// new interval starting at Boundary. The two durations sum to exactly what a
// single uninterrupted interval would have recorded.
type SplitPlan struct {
	Boundary      time.Time
	FirstDuration int
}

// PlanSplit returns the split required when start and now fall on different
// local calendar days, and reports whether one is needed.
func PlanSplit(start, now time.Time) (SplitPlan, bool) {
	if timeutil.SameDay(start, now) {
		return SplitPlan{}, false
	}
	boundary := timeutil.StartOfDay(now)
	return SplitPlan{
		Boundary:      boundary,
		FirstDuration: interval.RoundSeconds(boundary.Sub(start)),
	}, true
}

// splitAtMidnight closes the open interval at the boundary (awaited; on
// failure the split aborts and the interval stays open for a later retry),
// then repoints the running state at a fresh interval starting on the
// boundary and persists it in the background.
func (e *Engine) splitAtMidnight(ctx context.Context, plan SplitPlan) error {
	e.mu.Lock()
	oldID := e.openIntervalID
	taskID := e.runningTaskID
	comment := e.comment
	uid := e.uid
	col := e.intervalsColLocked()
	snap := e.activeTask
	e.mu.Unlock()

	if oldID == "" || taskID == "" {
		return nil
	}

	err := e.store.Update(ctx, col+"/"+oldID, store.Fields{
		"endTime":   interval.FormatTime(plan.Boundary),
		"duration":  plan.FirstDuration,
		"updatedAt": store.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("close interval %s at boundary: %w", oldID, err)
	}

	newID := newIntervalID()
	e.mu.Lock()
	if e.openIntervalID != oldID || e.runningTaskID != taskID {
		// The timer stopped or switched while the close was in flight; the
		// closed record stands and there is nothing to repoint.
		e.mu.Unlock()
		return nil
	}
	e.openIntervalID = newID
	e.startedAt = plan.Boundary
	e.elapsed = int(e.clock.Now().Sub(plan.Boundary) / time.Second)
	e.mu.Unlock()

	projectID := ""
	var tags []string
	if snap != nil {
		projectID = snap.ProjectID
		tags = snap.Tags
	}
	iv := interval.New(uid, taskID, projectID, tags, plan.Boundary)
	iv.Comment = comment

	e.detached.Add(1)
	go func() {
		defer e.detached.Done()
		if err := e.store.CreateWithID(context.Background(), col, newID, iv.Fields()); err != nil {
			fmt.Fprintf(os.Stderr, "engine: create interval %s after split: %v\n", newID, err)
		}
	}()

	return nil
}
