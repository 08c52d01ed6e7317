package timeutil

import (
	"fmt"
	"time"
)

const layoutISO = "2006-01-02"

// DayString returns the local calendar day of t as YYYY-MM-DD.
func DayString(t time.Time) string {
	return t.Local().Format(layoutISO)
}

// SameDay reports whether both instants fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return DayString(a) == DayString(b)
}

// StartOfDay returns local midnight of the day t falls on.
func StartOfDay(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, l.Location())
}

// FormatClock renders whole seconds as H:MM:SS.
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatShort renders whole seconds as "1h 23m" or "23m", rounded to the
// nearest minute.
func FormatShort(totalSeconds int) string {
	rounded := totalSeconds + 30
	h := rounded / 3600
	m := (rounded % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
