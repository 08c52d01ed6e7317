package interval

import (
	"encoding/json"
	"fmt"
	"time"
)

// ParseTime parses an RFC3339 instant as written by FormatTime.
func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatTime renders an instant the way interval documents store them.
func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}

// Timestamp is a time.Time that round-trips through interval documents as an
// RFC3339 string. A nil *Timestamp marshals as JSON null, which is how an
// open interval's end is stored.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", FormatTime(t.Time))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	var err error
	t.Time, err = ParseTime(raw)
	return err
}

func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339)
}
