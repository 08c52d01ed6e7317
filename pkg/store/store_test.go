package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/ticktock/pkg/interval"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string { return t.path }
func (t testConfig) UserID() string   { return "u1" }

func load(t *testing.T) Store {
	t.Helper()
	s, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return s
}

func TestCreateGetUpdateDelete(t *testing.T) {
	s := load(t)
	ctx := context.Background()
	col := "users/u1/timeEntries"

	if err := s.CreateWithID(ctx, col, "abc123", Fields{"taskId": "t1", "duration": 0, "endTime": nil}); err != nil {
		t.Fatalf("create: %v", err)
	}

	fields, ok, err := s.GetOne(ctx, col+"/abc123")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if fields["taskId"] != "t1" {
		t.Fatalf("expected taskId t1, got %v", fields["taskId"])
	}
	if fields["endTime"] != nil {
		t.Fatalf("expected null endTime, got %v", fields["endTime"])
	}

	// Partial update merges with existing fields.
	if err := s.Update(ctx, col+"/abc123", Fields{"duration": 42}); err != nil {
		t.Fatalf("update: %v", err)
	}
	fields, _, _ = s.GetOne(ctx, col+"/abc123")
	if fields["taskId"] != "t1" {
		t.Fatalf("update clobbered unrelated field: %v", fields)
	}
	if got, _ := fields["duration"].(float64); got != 42 {
		t.Fatalf("expected duration 42, got %v", fields["duration"])
	}

	if err := s.Delete(ctx, col+"/abc123"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.GetOne(ctx, col+"/abc123"); ok {
		t.Fatalf("document should be gone")
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, col+"/abc123"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestUpdateMissingDocumentFails(t *testing.T) {
	s := load(t)
	if err := s.Update(context.Background(), "users/u1/tasks/nope", Fields{"status": "completed"}); err == nil {
		t.Fatalf("expected error updating a missing document")
	}
}

func TestCreateRejectsDashedID(t *testing.T) {
	s := load(t)
	err := s.CreateWithID(context.Background(), "users/u1/tasks", "has-dash", Fields{})
	if err == nil {
		t.Fatalf("expected error for dashed id")
	}
}

func TestServerTimestampResolved(t *testing.T) {
	s := load(t)
	ctx := context.Background()
	col := "users/u1/timeEntries"

	before := time.Now().Add(-time.Second)
	if err := s.CreateWithID(ctx, col, "abc", Fields{"createdAt": ServerTimestamp}); err != nil {
		t.Fatalf("create: %v", err)
	}
	fields, _, _ := s.GetOne(ctx, col+"/abc")
	raw, ok := fields["createdAt"].(string)
	if !ok {
		t.Fatalf("expected string timestamp, got %T", fields["createdAt"])
	}
	at, err := interval.ParseTime(raw)
	if err != nil {
		t.Fatalf("parse resolved timestamp: %v", err)
	}
	if at.Before(before) || at.After(time.Now().Add(time.Second)) {
		t.Fatalf("resolved timestamp out of range: %v", at)
	}
}

func TestQueryFiltersOrderLimit(t *testing.T) {
	s := load(t)
	ctx := context.Background()
	col := "users/u1/timeEntries"
	base := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

	seed := []struct {
		id   string
		task string
		end  any
	}{
		{"a1", "t1", interval.FormatTime(base.Add(1 * time.Hour))},
		{"a2", "t1", interval.FormatTime(base.Add(3 * time.Hour))},
		{"a3", "t1", nil},
		{"a4", "t2", interval.FormatTime(base.Add(2 * time.Hour))},
	}
	for _, d := range seed {
		err := s.CreateWithID(ctx, col, d.id, Fields{"taskId": d.task, "endTime": d.end, "date": "2024-03-05"})
		if err != nil {
			t.Fatalf("seed %s: %v", d.id, err)
		}
	}

	// Open intervals only.
	docs, err := s.Query(ctx, col, Query{Filters: []Filter{{Field: "endTime", Op: "==", Value: nil}}})
	if err != nil {
		t.Fatalf("query open: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "a3" {
		t.Fatalf("expected only a3 open, got %+v", docs)
	}

	// Latest closed interval for t1.
	docs, err = s.Query(ctx, col, Query{
		Filters: []Filter{
			{Field: "taskId", Op: "==", Value: "t1"},
			{Field: "endTime", Op: "!=", Value: nil},
		},
		OrderBy: []Order{{Field: "endTime", Desc: true}},
		Limit:   1,
	})
	if err != nil {
		t.Fatalf("query latest: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "a2" {
		t.Fatalf("expected a2 first, got %+v", docs)
	}

	// Other collections are not visible.
	docs, err = s.Query(ctx, "users/u2/timeEntries", Query{})
	if err != nil {
		t.Fatalf("query other user: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty result for other user, got %+v", docs)
	}
}

func TestCreateAutoID(t *testing.T) {
	s := load(t)
	ctx := context.Background()
	id, err := s.CreateAutoID(ctx, "users/u1/tasks", Fields{"name": "write docs"})
	if err != nil {
		t.Fatalf("auto id create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}
	fields, ok, err := s.GetOne(ctx, "users/u1/tasks/"+id)
	if err != nil || !ok {
		t.Fatalf("get created doc: ok=%v err=%v", ok, err)
	}
	if fields["name"] != "write docs" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestWatchEmitsCollectionChanges(t *testing.T) {
	base := t.TempDir()
	s, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	err = s.CreateWithID(ctx, "users/u1/timeEntries", "abc", Fields{"taskId": "t1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventStoreInvalidated {
				return
			}
			if evt.Type == EventCollectionChanged {
				if evt.Collection != "users/u1/timeEntries" {
					t.Fatalf("expected users/u1/timeEntries, got %q", evt.Collection)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for collection change event")
		}
	}
}
