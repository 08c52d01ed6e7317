// Package task defines the task and project documents the timer runs
// against.
package task

import (
	"encoding/json"
	"time"

	"tableflip.dev/ticktock/pkg/interval"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Task is a unit of work time can be tracked against.
type Task struct {
	ID        string              `json:"-"`
	Name      string              `json:"name"`
	ProjectID string              `json:"projectId"`
	Tags      []string            `json:"tags"`
	Status    Status              `json:"status"`
	Order     int                 `json:"order"`
	Created   interval.Timestamp  `json:"createdAt"`
	Updated   interval.Timestamp  `json:"updatedAt"`
	Completed *interval.Timestamp `json:"completedAt"`
}

// Project groups tasks for reporting.
type Project struct {
	ID      string             `json:"-"`
	Name    string             `json:"name"`
	Color   string             `json:"color"`
	Tags    []string           `json:"tags"`
	Order   int                `json:"order"`
	Created interval.Timestamp `json:"createdAt"`
	Updated interval.Timestamp `json:"updatedAt"`
}

// New returns an active task created at the given instant.
func New(name, projectID string, tags []string, order int, now time.Time) *Task {
	if tags == nil {
		tags = []string{}
	}
	return &Task{
		Name:      name,
		ProjectID: projectID,
		Tags:      tags,
		Status:    StatusActive,
		Order:     order,
		Created:   interval.Timestamp{Time: now},
		Updated:   interval.Timestamp{Time: now},
	}
}

// Fields flattens the task into a document field map.
func (t *Task) Fields() map[string]any {
	data, err := json.Marshal(t)
	if err != nil {
		return map[string]any{}
	}
	m := make(map[string]any)
	_ = json.Unmarshal(data, &m)
	return m
}

// FromFields rebuilds a task from a document field map.
func FromFields(id string, fields map[string]any) (*Task, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	t := &Task{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, err
	}
	t.ID = id
	if t.Status == "" {
		t.Status = StatusActive
	}
	return t, nil
}

// ProjectFields flattens the project into a document field map.
func (p *Project) Fields() map[string]any {
	data, err := json.Marshal(p)
	if err != nil {
		return map[string]any{}
	}
	m := make(map[string]any)
	_ = json.Unmarshal(data, &m)
	return m
}
