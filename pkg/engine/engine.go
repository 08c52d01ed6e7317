// Package engine owns all mutable timing state for a single user. It is the
// sole writer of interval documents: user commands mutate local state
// synchronously, then the engine reconciles the store with detached writes so
// the caller never waits on I/O to see the timer move.
package engine

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/interval"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
)

const (
	// MinDurationSeconds is the shortest interval worth keeping; anything
	// shorter is treated as an accidental start and discarded on stop.
	MinDurationSeconds = 10

	// PomodoroDefaultSeconds is the default pomodoro target.
	PomodoroDefaultSeconds = 25 * 60

	// IdleThreshold is how long the engine waits after a stop before nudging
	// the user that nothing is being timed.
	IdleThreshold = 15 * time.Minute

	tickEvery = time.Second
)

// Engine is the timer state machine. All fields behind mu; at most one
// interval is open for the bound user at any instant.
type Engine struct {
	store  store.Store
	clock  clock.Clock
	notify clock.Notifier

	// switchPermit serializes task switches end-to-end. A switch arriving
	// while the permit is taken is dropped, not queued.
	switchPermit chan struct{}

	// detached tracks fire-and-forget writes so short-lived callers and tests
	// can join them.
	detached sync.WaitGroup

	mu             sync.Mutex
	uid            string
	runningTaskID  string
	openIntervalID string
	startedAt      time.Time
	elapsed        int
	activeTaskID   string
	activeTaskName string
	activeTask     *task.Task
	comment        string
	pomodoroActive bool
	pomodoroTarget int
	pomodoroFired  bool
	tick           clock.Handle
	idle           clock.Handle
}

// New constructs an engine around a store, clock, and notifier. Call Init to
// bind a user and recover any in-flight timer.
func New(st store.Store, c clock.Clock, n clock.Notifier) *Engine {
	e := &Engine{
		store:          st,
		clock:          c,
		notify:         n,
		switchPermit:   make(chan struct{}, 1),
		pomodoroTarget: PomodoroDefaultSeconds,
	}
	e.switchPermit <- struct{}{}
	return e
}

// Init binds the user and recovers a running timer from the store, making an
// open interval durable across restarts without an explicit resume. With no
// open interval it arms the idle alarm instead.
func (e *Engine) Init(ctx context.Context, uid string) error {
	if uid == "" {
		return nil
	}
	e.mu.Lock()
	e.uid = uid
	col := e.intervalsColLocked()
	e.mu.Unlock()

	docs, err := e.store.Query(ctx, col, store.Query{
		Filters: []store.Filter{{Field: "endTime", Op: "==", Value: nil}},
		Limit:   1,
	})
	if err != nil {
		return fmt.Errorf("engine: recover open interval: %w", err)
	}

	if len(docs) == 0 {
		e.mu.Lock()
		e.armIdleLocked()
		e.mu.Unlock()
		return nil
	}

	iv, err := interval.FromFields(docs[0].ID, map[string]any(docs[0].Fields))
	if err != nil {
		return fmt.Errorf("engine: decode open interval: %w", err)
	}

	now := e.clock.Now()
	e.mu.Lock()
	e.runningTaskID = iv.TaskID
	e.activeTaskID = iv.TaskID
	e.openIntervalID = iv.ID
	e.comment = iv.Comment
	// Never trust a cached elapsed across restarts; recompute from the
	// persisted start.
	e.startedAt = iv.Start.Time
	e.elapsed = int(now.Sub(iv.Start.Time) / time.Second)
	e.cancelIdleLocked()
	e.startTickLocked()
	taskPath := e.taskPathLocked(iv.TaskID)
	e.mu.Unlock()

	// Recover the display name; the timer is correct without it.
	if fields, ok, err := e.store.GetOne(ctx, taskPath); err == nil && ok {
		if t, err := task.FromFields(iv.TaskID, map[string]any(fields)); err == nil {
			e.mu.Lock()
			if e.runningTaskID == iv.TaskID {
				e.activeTaskName = t.Name
				e.activeTask = t
			}
			e.mu.Unlock()
		}
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "engine: recover task %s: %v\n", iv.TaskID, err)
	}

	return nil
}

// Close tears the engine down, cancelling the tick and the idle alarm. It
// does not stop a running timer; the open interval stays recoverable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTickLocked()
	e.cancelIdleLocked()
}

// Wait joins all detached writes issued so far. Short-lived callers use it to
// make fire-and-forget persistence land before process exit.
func (e *Engine) Wait() {
	e.detached.Wait()
}

// Snapshot is a read-only copy of the engine state for presentation.
type Snapshot struct {
	UserID            string
	RunningTaskID     string
	ActiveTaskID      string
	ActiveTaskName    string
	OpenIntervalID    string
	Running           bool
	StartedAt         time.Time
	Elapsed           int
	Comment           string
	PomodoroActive    bool
	PomodoroTarget    int
	PomodoroRemaining int
}

// Snapshot returns the current state. Elapsed is recomputed from the start
// instant so it is correct even between ticks.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	elapsed := e.elapsed
	if !e.startedAt.IsZero() {
		elapsed = int(e.clock.Now().Sub(e.startedAt) / time.Second)
	}
	return Snapshot{
		UserID:            e.uid,
		RunningTaskID:     e.runningTaskID,
		ActiveTaskID:      e.activeTaskID,
		ActiveTaskName:    e.activeTaskName,
		OpenIntervalID:    e.openIntervalID,
		Running:           e.runningTaskID != "",
		StartedAt:         e.startedAt,
		Elapsed:           elapsed,
		Comment:           e.comment,
		PomodoroActive:    e.pomodoroActive,
		PomodoroTarget:    e.pomodoroTarget,
		PomodoroRemaining: e.pomodoroTarget - elapsed,
	}
}

func (e *Engine) startTickLocked() {
	e.cancelTickLocked()
	e.tick = e.clock.ScheduleRepeating(tickEvery, e.onTick)
}

func (e *Engine) cancelTickLocked() {
	if e.tick != nil {
		e.tick.Cancel()
		e.tick = nil
	}
}

func (e *Engine) armIdleLocked() {
	e.cancelIdleLocked()
	n := e.notify
	e.idle = e.clock.ScheduleOnce(IdleThreshold, func() {
		n.Alert("ticktock", "You haven't been timing for 15 minutes.")
	})
}

func (e *Engine) cancelIdleLocked() {
	if e.idle != nil {
		e.idle.Cancel()
		e.idle = nil
	}
}

// onTick recomputes elapsed from the start instant rather than incrementing,
// so a suspended process catches up on resume. Once a minute it checks for a
// crossed day boundary.
func (e *Engine) onTick() {
	e.mu.Lock()
	if e.startedAt.IsZero() {
		e.mu.Unlock()
		return
	}
	now := e.clock.Now()
	e.elapsed = int(now.Sub(e.startedAt) / time.Second)

	firePomodoro := e.pomodoroActive && !e.pomodoroFired && e.elapsed >= e.pomodoroTarget
	if firePomodoro {
		e.pomodoroFired = true
	}

	var plan SplitPlan
	split := false
	if e.openIntervalID != "" && e.elapsed > 0 && e.elapsed%60 == 0 {
		plan, split = PlanSplit(e.startedAt, now)
	}
	e.mu.Unlock()

	if firePomodoro {
		e.notify.Alert("ticktock", "Pomodoro complete!")
	}
	if split {
		if err := e.splitAtMidnight(context.Background(), plan); err != nil {
			// Leave the interval open; a later tick retries the split.
			fmt.Fprintf(os.Stderr, "engine: midnight split: %v\n", err)
		}
	}
}

func (e *Engine) intervalsColLocked() string {
	return fmt.Sprintf("users/%s/timeEntries", e.uid)
}

func (e *Engine) tasksColLocked() string {
	return fmt.Sprintf("users/%s/tasks", e.uid)
}

func (e *Engine) projectsColLocked() string {
	return fmt.Sprintf("users/%s/projects", e.uid)
}

func (e *Engine) taskPathLocked(id string) string {
	return fmt.Sprintf("users/%s/tasks/%s", e.uid, id)
}

func newIntervalID() string {
	// Keys in the store are dash-separated, so interval ids are plain hex.
	return fmt.Sprintf("%x", uuid.New())
}
