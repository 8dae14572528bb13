package events

import (
	"context"
	"time"
)

// Bucket types the digest pipeline depends on.
const (
	TypeAFK    = "afkstatus"
	TypeWindow = "currentwindow"
)

// DefaultLookback is how many events before a range start are inspected for
// overlap into the range.
const DefaultLookback = 5

// Event is a single ActivityWatch record.
type Event struct {
	ID        int64          `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Duration  float64        `json:"duration"` // seconds
	Data      map[string]any `json:"data"`
}

// End returns Timestamp + Duration.
func (e Event) End() time.Time {
	return e.Timestamp.Add(time.Duration(e.Duration * float64(time.Second)))
}

// Str returns a string field from the event payload, or "" if absent.
func (e Event) Str(key string) string {
	s, _ := e.Data[key].(string)
	return s
}

// Bucket is the metadata ActivityWatch keeps per bucket.
type Bucket struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Client   string `json:"client,omitempty"`
	Hostname string `json:"hostname,omitempty"`
}

// Source provides buckets and events. Events must return the events whose
// span intersects [start, end), including earlier events that run past start,
// sorted by timestamp.
type Source interface {
	Buckets(ctx context.Context) (map[string]Bucket, error)
	Events(ctx context.Context, bucketID string, start, end time.Time) ([]Event, error)
}
