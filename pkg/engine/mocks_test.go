package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tableflip.dev/ticktock/pkg/clock"
	"tableflip.dev/ticktock/pkg/interval"
	"tableflip.dev/ticktock/pkg/store"
)

// memStore is an in-memory store.Store with an operation log and failure
// injection, so engine tests can assert write ordering without disk.
type memStore struct {
	mu   sync.Mutex
	docs map[string]store.Fields // full document path -> fields
	ops  []string

	failUpdate  bool
	updateGate  chan struct{} // when set, Update blocks until the gate closes
	updateEnter chan struct{} // signaled when Update is entered
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]store.Fields)}
}

func (m *memStore) resolve(fields store.Fields) store.Fields {
	out := make(store.Fields, len(fields))
	for k, v := range fields {
		if v == store.ServerTimestamp {
			out[k] = interval.FormatTime(time.Now())
			continue
		}
		out[k] = v
	}
	return out
}

func (m *memStore) CreateWithID(ctx context.Context, collection, id string, fields store.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := collection + "/" + id
	m.ops = append(m.ops, "create "+path)
	m.docs[path] = m.resolve(fields)
	return nil
}

func (m *memStore) CreateAutoID(ctx context.Context, collection string, fields store.Fields) (string, error) {
	id := fmt.Sprintf("auto%d", len(m.docs))
	return id, m.CreateWithID(ctx, collection, id, fields)
}

func (m *memStore) Update(ctx context.Context, path string, fields store.Fields) error {
	m.mu.Lock()
	enter, gate := m.updateEnter, m.updateGate
	m.mu.Unlock()
	if enter != nil {
		enter <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "update "+path)
	if m.failUpdate {
		return errors.New("store unavailable")
	}
	doc, ok := m.docs[path]
	if !ok {
		return fmt.Errorf("missing document %s", path)
	}
	for k, v := range m.resolve(fields) {
		doc[k] = v
	}
	return nil
}

func (m *memStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "delete "+path)
	delete(m.docs, path)
	return nil
}

func (m *memStore) GetOne(ctx context.Context, path string) (store.Fields, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[path]
	return doc, ok, nil
}

func (m *memStore) Query(ctx context.Context, collection string, q store.Query) ([]store.Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]store.Doc, 0)
	for path, fields := range m.docs {
		if !strings.HasPrefix(path, collection+"/") {
			continue
		}
		id := strings.TrimPrefix(path, collection+"/")
		if strings.Contains(id, "/") {
			continue
		}
		if !memMatches(fields, q.Filters) {
			continue
		}
		docs = append(docs, store.Doc{ID: id, Fields: fields})
	}
	if len(q.OrderBy) > 0 {
		o := q.OrderBy[0]
		sort.SliceStable(docs, func(i, j int) bool {
			a := fmt.Sprint(docs[i].Fields[o.Field])
			b := fmt.Sprint(docs[j].Fields[o.Field])
			if o.Desc {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func memMatches(fields store.Fields, filters []store.Filter) bool {
	for _, f := range filters {
		v := fields[f.Field]
		var equal bool
		if v == nil || f.Value == nil {
			equal = v == nil && f.Value == nil
		} else {
			equal = fmt.Sprint(v) == fmt.Sprint(f.Value)
		}
		switch f.Op {
		case "==":
			if !equal {
				return false
			}
		case "!=":
			if equal {
				return false
			}
		}
	}
	return true
}

func (m *memStore) Watch(ctx context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (m *memStore) setFailUpdate(fail bool) {
	m.mu.Lock()
	m.failUpdate = fail
	m.mu.Unlock()
}

// opsSnapshot returns a copy of the operation log.
func (m *memStore) opsSnapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

// openIntervals returns ids of open interval documents in a collection.
func (m *memStore) openIntervals(collection string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	open := make([]string, 0)
	for path, fields := range m.docs {
		if strings.HasPrefix(path, collection+"/") && fields["endTime"] == nil {
			open = append(open, strings.TrimPrefix(path, collection+"/"))
		}
	}
	return open
}

// fakeClock is a manual clock: tests move time with Advance and deliver
// scheduled callbacks with FireTick / FireIdle.
type fakeClock struct {
	mu       sync.Mutex
	now      time.Time
	tick     *fakeHandle
	oneShots []*fakeHandle
}

type fakeHandle struct {
	mu        sync.Mutex
	fn        func()
	delay     time.Duration
	cancelled bool
}

func (h *fakeHandle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
}

func (h *fakeHandle) fire() {
	h.mu.Lock()
	fn := h.fn
	cancelled := h.cancelled
	h.mu.Unlock()
	if !cancelled && fn != nil {
		fn()
	}
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) SetNow(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *fakeClock) ScheduleRepeating(every time.Duration, fn func()) clock.Handle {
	h := &fakeHandle{fn: fn, delay: every}
	c.mu.Lock()
	c.tick = h
	c.mu.Unlock()
	return h
}

func (c *fakeClock) ScheduleOnce(after time.Duration, fn func()) clock.Handle {
	h := &fakeHandle{fn: fn, delay: after}
	c.mu.Lock()
	c.oneShots = append(c.oneShots, h)
	c.mu.Unlock()
	return h
}

// FireTick delivers one tick to the engine's repeating callback.
func (c *fakeClock) FireTick() {
	c.mu.Lock()
	h := c.tick
	c.mu.Unlock()
	if h != nil {
		h.fire()
	}
}

// FireIdle delivers the most recent one-shot callback.
func (c *fakeClock) FireIdle() {
	c.mu.Lock()
	var h *fakeHandle
	if len(c.oneShots) > 0 {
		h = c.oneShots[len(c.oneShots)-1]
	}
	c.mu.Unlock()
	if h != nil {
		h.fire()
	}
}

func (c *fakeClock) pendingOneShots() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, h := range c.oneShots {
		h.mu.Lock()
		if !h.cancelled {
			n++
		}
		h.mu.Unlock()
	}
	return n
}

// fakeNotifier records alerts.
type fakeNotifier struct {
	mu     sync.Mutex
	alerts []string
}

func (n *fakeNotifier) Alert(title, body string) {
	n.mu.Lock()
	n.alerts = append(n.alerts, body)
	n.mu.Unlock()
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}
