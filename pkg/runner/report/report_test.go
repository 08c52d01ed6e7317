package report

import (
	"testing"
	"time"

	"tableflip.dev/ticktock/pkg/interval"
)

func closed(taskID string, start time.Time, seconds int, comment string) *interval.Interval {
	iv := interval.New("u1", taskID, "", nil, start)
	iv.CloseAt(start.Add(time.Duration(seconds) * time.Second))
	iv.Comment = comment
	return iv
}

func TestAggregateSumsPerTaskPerDay(t *testing.T) {
	day1 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 6, 9, 0, 0, 0, time.Local)

	ivs := []*interval.Interval{
		closed("t1", day1, 600, ""),
		closed("t1", day1.Add(2*time.Hour), 300, "wrote the intro"),
		closed("t2", day1.Add(3*time.Hour), 120, ""),
		closed("t1", day2, 900, ""),
	}
	names := map[string]string{"t1": "writing", "t2": "email"}

	from := day1.Add(-time.Hour)
	to := day2.Add(24 * time.Hour)
	rows := Aggregate(ivs, names, from, to)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].TaskName != "email" || rows[0].Seconds != 120 {
		t.Errorf("row 0 = %+v, expected email 120s", rows[0])
	}
	if rows[1].TaskName != "writing" || rows[1].Seconds != 900 {
		t.Errorf("row 1 = %+v, expected writing 900s", rows[1])
	}
	if rows[1].Comment != "wrote the intro" {
		t.Errorf("row 1 comment = %q, expected the carried comment", rows[1].Comment)
	}
	if rows[2].Date == rows[1].Date {
		t.Errorf("expected day 2 in its own row, got %+v", rows[2])
	}
	if rows[2].Seconds != 900 {
		t.Errorf("row 2 seconds = %d, expected 900", rows[2].Seconds)
	}
}

func TestAggregateFiltersByWindow(t *testing.T) {
	day := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	ivs := []*interval.Interval{
		closed("t1", day, 600, ""),
		closed("t1", day.Add(-48*time.Hour), 600, ""),
	}
	names := map[string]string{"t1": "writing"}

	rows := Aggregate(ivs, names, day.Add(-time.Hour), day.Add(time.Hour))
	if len(rows) != 1 {
		t.Fatalf("expected 1 row inside the window, got %d", len(rows))
	}
	if rows[0].Seconds != 600 {
		t.Errorf("seconds = %d, expected 600", rows[0].Seconds)
	}
}

func TestAggregateFallsBackToTaskID(t *testing.T) {
	day := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	ivs := []*interval.Interval{closed("mystery", day, 60, "")}

	rows := Aggregate(ivs, map[string]string{}, day.Add(-time.Hour), day.Add(time.Hour))
	if len(rows) != 1 || rows[0].TaskName != "mystery" {
		t.Fatalf("expected the task id as the display name, got %+v", rows)
	}
}
