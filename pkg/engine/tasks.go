package engine

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
)

// CompleteTask marks a task completed. A running timer for the task is
// stopped and its close confirmed first, so no interval stays open for a
// completed task.
func (e *Engine) CompleteTask(ctx context.Context, taskID string) error {
	e.mu.Lock()
	bound := e.uid != ""
	running := e.runningTaskID == taskID
	path := e.taskPathLocked(taskID)
	e.mu.Unlock()
	if !bound {
		return nil
	}
	if running {
		if err := e.StopTimer(ctx); err != nil {
			return err
		}
	}
	return e.store.Update(ctx, path, store.Fields{
		"status":      string(task.StatusCompleted),
		"completedAt": store.ServerTimestamp,
		"updatedAt":   store.ServerTimestamp,
	})
}

// UncompleteTask returns a completed task to the active state.
func (e *Engine) UncompleteTask(ctx context.Context, taskID string) error {
	e.mu.Lock()
	bound := e.uid != ""
	path := e.taskPathLocked(taskID)
	e.mu.Unlock()
	if !bound {
		return nil
	}
	return e.store.Update(ctx, path, store.Fields{
		"status":      string(task.StatusActive),
		"completedAt": nil,
		"updatedAt":   store.ServerTimestamp,
	})
}

// ArchiveTask archives a task, stopping its timer first if it is running.
func (e *Engine) ArchiveTask(ctx context.Context, taskID string) error {
	e.mu.Lock()
	bound := e.uid != ""
	running := e.runningTaskID == taskID
	path := e.taskPathLocked(taskID)
	e.mu.Unlock()
	if !bound {
		return nil
	}
	if running {
		if err := e.StopTimer(ctx); err != nil {
			return err
		}
	}
	return e.store.Update(ctx, path, store.Fields{
		"status":    string(task.StatusArchived),
		"updatedAt": store.ServerTimestamp,
	})
}

// ReorderTasks rewrites the order field of each task to its position in ids.
func (e *Engine) ReorderTasks(ctx context.Context, ids []string) error {
	e.mu.Lock()
	bound := e.uid != ""
	col := e.tasksColLocked()
	e.mu.Unlock()
	if !bound {
		return nil
	}
	return e.reorder(ctx, col, ids)
}

// ReorderProjects rewrites the order field of each project to its position in
// ids.
func (e *Engine) ReorderProjects(ctx context.Context, ids []string) error {
	e.mu.Lock()
	bound := e.uid != ""
	col := e.projectsColLocked()
	e.mu.Unlock()
	if !bound {
		return nil
	}
	return e.reorder(ctx, col, ids)
}

func (e *Engine) reorder(ctx context.Context, col string, ids []string) error {
	var errs []error
	for i, id := range ids {
		err := e.store.Update(ctx, col+"/"+id, store.Fields{
			"order":     i,
			"updatedAt": store.ServerTimestamp,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("reorder %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// SaveComment sets the comment on the open interval. Only meaningful while a
// timer runs; otherwise a no-op.
func (e *Engine) SaveComment(ctx context.Context, text string) error {
	e.mu.Lock()
	if e.openIntervalID == "" {
		e.mu.Unlock()
		return nil
	}
	e.comment = text
	path := e.intervalsColLocked() + "/" + e.openIntervalID
	e.mu.Unlock()

	return e.store.Update(ctx, path, store.Fields{
		"comment":   text,
		"updatedAt": store.ServerTimestamp,
	})
}

// TogglePomodoro flips the pomodoro flag and sets a fresh target. Minutes at
// or below zero selects the default.
func (e *Engine) TogglePomodoro(minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pomodoroActive = !e.pomodoroActive
	if minutes > 0 {
		e.pomodoroTarget = minutes * 60
	} else {
		e.pomodoroTarget = PomodoroDefaultSeconds
	}
	e.pomodoroFired = false
}
