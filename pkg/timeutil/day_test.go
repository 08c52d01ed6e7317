package timeutil

import (
	"testing"
	"time"
)

func TestDayString(t *testing.T) {
	at := time.Date(2024, time.March, 5, 23, 58, 0, 0, time.Local)
	if got := DayString(at); got != "2024-03-05" {
		t.Fatalf("expected 2024-03-05, got %s", got)
	}
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2024, time.March, 6, 0, 2, 0, 0, time.Local)
	mid := StartOfDay(at)
	if mid.Hour() != 0 || mid.Minute() != 0 || mid.Second() != 0 {
		t.Fatalf("expected midnight, got %v", mid)
	}
	if !SameDay(mid, at) {
		t.Fatalf("midnight should share the day with %v", at)
	}
	if got := at.Sub(mid); got != 2*time.Minute {
		t.Fatalf("expected 2m past midnight, got %v", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		0:    "0:00:00",
		59:   "0:00:59",
		61:   "0:01:01",
		3725: "1:02:05",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d): expected %s, got %s", in, want, got)
		}
	}
}

func TestFormatShort(t *testing.T) {
	if got := FormatShort(29); got != "0m" {
		t.Fatalf("expected 0m, got %s", got)
	}
	if got := FormatShort(90); got != "2m" {
		t.Fatalf("expected 2m, got %s", got)
	}
	if got := FormatShort(3690); got != "1h 2m" {
		t.Fatalf("expected 1h 2m, got %s", got)
	}
}
