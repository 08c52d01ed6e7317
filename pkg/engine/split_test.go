package engine

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/ticktock/pkg/timeutil"
)

func TestPlanSplitSameDay(t *testing.T) {
	start := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	if _, ok := PlanSplit(start, start.Add(8*time.Hour)); ok {
		t.Fatalf("no split expected within one day")
	}
}

func TestPlanSplitAcrossMidnight(t *testing.T) {
	start := time.Date(2024, 3, 5, 23, 58, 0, 0, time.Local)
	now := time.Date(2024, 3, 6, 0, 2, 0, 0, time.Local)

	plan, ok := PlanSplit(start, now)
	if !ok {
		t.Fatalf("expected a split across midnight")
	}
	if !plan.Boundary.Equal(timeutil.StartOfDay(now)) {
		t.Fatalf("boundary should be local midnight, got %v", plan.Boundary)
	}
	if plan.FirstDuration != 120 {
		t.Fatalf("expected 120s before the boundary, got %d", plan.FirstDuration)
	}
}

func TestMidnightSplitProducesTwoExactIntervals(t *testing.T) {
	start := time.Date(2024, 3, 5, 23, 58, 0, 0, time.Local)
	e, m, c, _ := newTestEngine(t, start)
	defer e.Close()

	ctx := context.Background()
	if err := e.StartTask(ctx, "t1", taskSnap("t1", "Deep Work")); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.Wait()
	first := e.Snapshot().OpenIntervalID

	c.SetNow(time.Date(2024, 3, 6, 0, 2, 0, 0, time.Local))
	c.FireTick()
	e.Wait()

	s := e.Snapshot()
	if !s.Running || s.RunningTaskID != "t1" {
		t.Fatalf("split must keep the task running, got %+v", s)
	}
	if s.OpenIntervalID == first {
		t.Fatalf("split should repoint to a fresh interval")
	}
	if s.Elapsed != 120 {
		t.Fatalf("expected 120s since the boundary, got %d", s.Elapsed)
	}

	// The old interval is closed at the boundary on day one.
	fields, ok, _ := m.GetOne(ctx, intervalsCol+"/"+first)
	if !ok || fields["endTime"] == nil {
		t.Fatalf("first interval must be closed, got %v", fields)
	}
	if got := fields["duration"]; got != 120 {
		t.Fatalf("expected first duration 120, got %v", got)
	}
	if got := fields["date"]; got != "2024-03-05" {
		t.Fatalf("expected first interval dated 2024-03-05, got %v", got)
	}

	// The new interval opens on day two at the boundary.
	open := m.openIntervals(intervalsCol)
	if len(open) != 1 || open[0] != s.OpenIntervalID {
		t.Fatalf("expected one open interval after split, got %v", open)
	}
	fields, _, _ = m.GetOne(ctx, intervalsCol+"/"+open[0])
	if got := fields["date"]; got != "2024-03-06" {
		t.Fatalf("expected new interval dated 2024-03-06, got %v", got)
	}
	if got := fields["comment"]; got != "" {
		t.Fatalf("expected empty comment on the new interval, got %v", got)
	}

	// Stopping now yields two closed intervals summing to the full span.
	if err := e.StopTimer(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	second, _, _ := m.GetOne(ctx, intervalsCol+"/"+s.OpenIntervalID)
	firstDur, _ := fieldsInt(m, ctx, intervalsCol+"/"+first, "duration")
	if got := second["duration"]; got != 120 {
		t.Fatalf("expected second duration 120, got %v", got)
	}
	if firstDur+120 != 240 {
		t.Fatalf("durations must sum to the uninterrupted span, got %d + 120", firstDur)
	}
}

func TestMidnightSplitAbortsWhenCloseFails(t *testing.T) {
	start := time.Date(2024, 3, 5, 23, 58, 0, 0, time.Local)
	e, m, c, _ := newTestEngine(t, start)
	defer e.Close()

	ctx := context.Background()
	if err := e.StartTask(ctx, "t1", taskSnap("t1", "Deep Work")); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.Wait()
	first := e.Snapshot().OpenIntervalID

	m.setFailUpdate(true)
	c.SetNow(time.Date(2024, 3, 6, 0, 2, 0, 0, time.Local))
	c.FireTick()
	e.Wait()

	// The interval stays open and local state is untouched for a later retry.
	s := e.Snapshot()
	if s.OpenIntervalID != first {
		t.Fatalf("aborted split must not repoint the interval")
	}
	if open := m.openIntervals(intervalsCol); len(open) != 1 || open[0] != first {
		t.Fatalf("expected original interval still open, got %v", open)
	}

	// A later tick retries and succeeds.
	m.setFailUpdate(false)
	c.SetNow(time.Date(2024, 3, 6, 0, 3, 0, 0, time.Local))
	c.FireTick()
	e.Wait()

	s = e.Snapshot()
	if s.OpenIntervalID == first {
		t.Fatalf("retry should have split the interval")
	}
	fields, _, _ := m.GetOne(ctx, intervalsCol+"/"+first)
	if fields["endTime"] == nil {
		t.Fatalf("first interval should be closed after retry")
	}
	if got := fields["duration"]; got != 120 {
		t.Fatalf("boundary duration must not drift on retry, got %v", got)
	}
}

func fieldsInt(m *memStore, ctx context.Context, path, field string) (int, bool) {
	fields, ok, _ := m.GetOne(ctx, path)
	if !ok {
		return 0, false
	}
	switch v := fields[field].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
