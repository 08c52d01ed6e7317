// Package clock abstracts wall-clock time, scheduled callbacks, and the
// platform alert primitive so the timer engine can be driven by a fake in
// tests.
package clock

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback. Cancel is idempotent and safe to call
// after the callback has fired.
type Handle interface {
	Cancel()
}

// Clock is the time source and scheduler consumed by the engine.
type Clock interface {
	Now() time.Time
	ScheduleRepeating(every time.Duration, fn func()) Handle
	ScheduleOnce(after time.Duration, fn func()) Handle
}

// Notifier delivers fire-and-forget user alerts.
type Notifier interface {
	Alert(title, body string)
}

// System returns a Clock backed by the real time package.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) ScheduleRepeating(every time.Duration, fn func()) Handle {
	t := time.NewTicker(every)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.C:
				fn()
			}
		}
	}()
	return &tickerHandle{ticker: t, done: done}
}

func (systemClock) ScheduleOnce(after time.Duration, fn func()) Handle {
	return &timerHandle{timer: time.AfterFunc(after, fn)}
}

type tickerHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}

type timerHandle struct {
	timer *time.Timer
	once  sync.Once
}

func (h *timerHandle) Cancel() {
	h.once.Do(func() {
		h.timer.Stop()
	})
}
