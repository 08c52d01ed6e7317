package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"tableflip.dev/ticktock/pkg/interval"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
	"tableflip.dev/ticktock/pkg/timeutil"
)

// stopSnapshot captures what persistStop needs before local state is cleared.
// Once captured, later state changes cannot affect the pending write.
type stopSnapshot struct {
	intervalPath string
	intervalID   string
	elapsed      int
}

// StartTask begins timing taskID. Local state flips immediately; the store
// catches up through detached writes. Starting the running task stops it
// (toggle). A call arriving while another switch is in flight is dropped.
func (e *Engine) StartTask(ctx context.Context, taskID string, snap *task.Task) error {
	e.mu.Lock()
	bound := e.uid != ""
	e.mu.Unlock()
	if !bound || taskID == "" {
		return nil
	}

	select {
	case <-e.switchPermit:
	default:
		return nil
	}
	defer func() { e.switchPermit <- struct{}{} }()

	e.mu.Lock()
	if e.runningTaskID == taskID {
		// Toggle: clicking the running task stops it.
		s, ok := e.stopOptimisticLocked()
		e.mu.Unlock()
		if !ok {
			return nil
		}
		return e.persistStop(ctx, s)
	}

	if e.runningTaskID != "" {
		// Switch: finalize the old interval locally now, persist it in the
		// background so the new task never waits on the old task's write.
		if s, ok := e.stopOptimisticLocked(); ok {
			e.persistStopDetached(s)
		}
	}

	e.cancelIdleLocked()

	now := e.clock.Now()
	id := newIntervalID()
	e.runningTaskID = taskID
	e.activeTaskID = taskID
	if snap != nil {
		e.activeTaskName = snap.Name
	} else {
		e.activeTaskName = ""
	}
	e.activeTask = snap
	e.openIntervalID = id
	e.startedAt = now
	e.elapsed = 0
	e.comment = ""
	e.pomodoroFired = false
	e.startTickLocked()

	uid := e.uid
	col := e.intervalsColLocked()
	e.mu.Unlock()

	projectID := ""
	var tags []string
	if snap != nil {
		projectID = snap.ProjectID
		tags = snap.Tags
	}
	iv := interval.New(uid, taskID, projectID, tags, now)

	e.detached.Add(1)
	go func() {
		defer e.detached.Done()
		if err := e.store.CreateWithID(context.Background(), col, id, iv.Fields()); err != nil {
			fmt.Fprintf(os.Stderr, "engine: create interval %s: %v\n", id, err)
		}
	}()

	day := timeutil.DayString(now)
	e.detached.Add(1)
	go func() {
		defer e.detached.Done()
		e.carryOverComment(context.Background(), col, taskID, id, day)
	}()

	return nil
}

// StopTimer stops the running timer and waits for the close to persist. Used
// when the caller needs confirmation, e.g. before completing a task.
func (e *Engine) StopTimer(ctx context.Context) error {
	e.mu.Lock()
	s, ok := e.stopOptimisticLocked()
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return e.persistStop(ctx, s)
}

// ResumeTask restarts the active task after a stop. A no-op while a timer
// runs or before any task has been started.
func (e *Engine) ResumeTask(ctx context.Context) error {
	e.mu.Lock()
	id := e.activeTaskID
	snap := e.activeTask
	running := e.runningTaskID != ""
	e.mu.Unlock()
	if id == "" || running {
		return nil
	}
	return e.StartTask(ctx, id, snap)
}

// stopOptimisticLocked is the synchronous half of a stop: it captures the
// open interval and its final elapsed seconds, clears all running fields, and
// arms the idle alarm. The active-task snapshot and comment survive for
// display until another task starts.
func (e *Engine) stopOptimisticLocked() (stopSnapshot, bool) {
	if e.openIntervalID == "" {
		return stopSnapshot{}, false
	}

	final := e.elapsed
	if !e.startedAt.IsZero() {
		final = interval.RoundSeconds(e.clock.Now().Sub(e.startedAt))
	}
	s := stopSnapshot{
		intervalPath: e.intervalsColLocked() + "/" + e.openIntervalID,
		intervalID:   e.openIntervalID,
		elapsed:      final,
	}

	e.cancelTickLocked()
	e.runningTaskID = ""
	e.openIntervalID = ""
	e.startedAt = time.Time{}
	e.elapsed = 0
	e.pomodoroActive = false
	e.pomodoroFired = false
	e.armIdleLocked()

	return s, true
}

// persistStop writes the captured stop to the store. The close always lands
// first; only then may a too-short interval be deleted. A crash between the
// two leaves a closed short interval, never an open one, so recovery can
// never resurrect a record this function has touched.
func (e *Engine) persistStop(ctx context.Context, s stopSnapshot) error {
	err := e.store.Update(ctx, s.intervalPath, store.Fields{
		"endTime":   store.ServerTimestamp,
		"duration":  s.elapsed,
		"updatedAt": store.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("engine: close interval %s: %w", s.intervalID, err)
	}

	if s.elapsed < MinDurationSeconds {
		if err := e.store.Delete(ctx, s.intervalPath); err != nil {
			return fmt.Errorf("engine: discard short interval %s: %w", s.intervalID, err)
		}
	}
	return nil
}

func (e *Engine) persistStopDetached(s stopSnapshot) {
	e.detached.Add(1)
	go func() {
		defer e.detached.Done()
		if err := e.persistStop(context.Background(), s); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}()
}

// carryOverComment copies the comment from the most recent closed interval
// for the same task on the same day onto the new interval. Applied only if
// the engine still runs that interval; failures silently degrade.
func (e *Engine) carryOverComment(ctx context.Context, col, taskID, intervalID, day string) {
	docs, err := e.store.Query(ctx, col, store.Query{
		Filters: []store.Filter{
			{Field: "taskId", Op: "==", Value: taskID},
			{Field: "date", Op: "==", Value: day},
			{Field: "endTime", Op: "!=", Value: nil},
		},
		OrderBy: []store.Order{{Field: "endTime", Desc: true}},
		Limit:   1,
	})
	if err != nil || len(docs) == 0 {
		return
	}
	text, _ := docs[0].Fields["comment"].(string)
	if text == "" {
		return
	}

	e.mu.Lock()
	if e.runningTaskID != taskID || e.openIntervalID != intervalID {
		// The user already moved on; a stale carry-over must not apply.
		e.mu.Unlock()
		return
	}
	e.comment = text
	e.mu.Unlock()

	err = e.store.Update(ctx, col+"/"+intervalID, store.Fields{
		"comment":   text,
		"updatedAt": store.ServerTimestamp,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: carry over comment: %v\n", err)
	}
}
