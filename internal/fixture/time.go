package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// localLayout is the zone-less layout some fixtures use; it is read as UTC.
const localLayout = "2006-01-02T15:04:05"

// Time is a fixture timestamp. It accepts RFC 3339 and zone-less
// timestamps and always marshals as RFC 3339.
type Time struct {
	time.Time
}

func NewTime(t time.Time) Time { return Time{Time: t.UTC()} }

func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = ts.UTC()
		return nil
	}
	ts, err := time.Parse(localLayout, s)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	t.Time = ts
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// Add shifts t by d.
func (t Time) Add(d time.Duration) Time {
	return Time{Time: t.Time.Add(d)}
}

// Interval is a start/end pair, used for breaks and outages.
type Interval struct {
	StartDate   Time   `json:"startDate"`
	EndDate     Time   `json:"endDate"`
	Description string `json:"description,omitempty"`
}

func (iv Interval) shift(d time.Duration) Interval {
	iv.StartDate = iv.StartDate.Add(d)
	iv.EndDate = iv.EndDate.Add(d)
	return iv
}
