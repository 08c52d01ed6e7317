// Package interval defines the persisted work-interval document.
package interval

import (
	"encoding/json"
	"math"
	"time"

	"tableflip.dev/ticktock/pkg/timeutil"
)

// Interval is one contiguous span of tracked time against a task. While the
// span is being timed End is nil and Duration is zero; closing the interval
// sets both.
type Interval struct {
	ID        string     `json:"-"`
	TaskID    string     `json:"taskId"`
	ProjectID string     `json:"projectId"`
	Start     Timestamp  `json:"startTime"`
	End       *Timestamp `json:"endTime"`
	Duration  int        `json:"duration"`
	Tags      []string   `json:"tags"`
	Comment   string     `json:"comment"`
	Date      string     `json:"date"`
	UserID    string     `json:"userId"`
	Created   Timestamp  `json:"createdAt"`
	Updated   Timestamp  `json:"updatedAt"`
}

// New returns an open interval starting at the given instant. Date is pinned
// to the calendar day the interval began on.
func New(userID, taskID, projectID string, tags []string, start time.Time) *Interval {
	if tags == nil {
		tags = []string{}
	}
	return &Interval{
		TaskID:    taskID,
		ProjectID: projectID,
		Start:     Timestamp{Time: start},
		Tags:      tags,
		UserID:    userID,
		Date:      timeutil.DayString(start),
		Created:   Timestamp{Time: start},
		Updated:   Timestamp{Time: start},
	}
}

// Open reports whether the interval has no end instant yet.
func (i *Interval) Open() bool {
	return i.End == nil
}

// CloseAt sets the end instant and the rounded whole-second duration.
func (i *Interval) CloseAt(end time.Time) {
	i.End = &Timestamp{Time: end}
	i.Duration = RoundSeconds(end.Sub(i.Start.Time))
	i.Updated = Timestamp{Time: end}
}

// RoundSeconds converts a duration to whole seconds, rounding half away from
// zero.
func RoundSeconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}

// Fields flattens the interval into a document field map.
func (i *Interval) Fields() map[string]any {
	data, err := json.Marshal(i)
	if err != nil {
		return map[string]any{}
	}
	m := make(map[string]any)
	_ = json.Unmarshal(data, &m)
	return m
}

// FromFields rebuilds an interval from a document field map.
func FromFields(id string, fields map[string]any) (*Interval, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	i := &Interval{}
	if err := json.Unmarshal(data, i); err != nil {
		return nil, err
	}
	i.ID = id
	return i, nil
}
