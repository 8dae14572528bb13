package capture

import (
	"context"
	"sort"
	"time"

	"github.com/suykerbuyk/aw-digest/internal/events"
)

// Source replays a Capture with the same range and look-back rules as the
// live sources.
type Source struct {
	c        *Capture
	lookback int
}

// NewSource returns a Source over c. lookback <= 0 uses events.DefaultLookback.
func NewSource(c *Capture, lookback int) *Source {
	if lookback <= 0 {
		lookback = events.DefaultLookback
	}
	return &Source{c: c, lookback: lookback}
}

// Open reads the capture at path and returns a Source over it.
func Open(path string, lookback int) (*Source, error) {
	c, err := Read(path)
	if err != nil {
		return nil, &events.TransportError{Op: "read capture", Err: err}
	}
	return NewSource(c, lookback), nil
}

// Capture returns the underlying capture.
func (s *Source) Capture() *Capture {
	return s.c
}

// Buckets returns a copy of the recorded bucket list.
func (s *Source) Buckets(ctx context.Context) (map[string]events.Bucket, error) {
	out := make(map[string]events.Bucket, len(s.c.Buckets))
	for id, b := range s.c.Buckets {
		out[id] = b
	}
	return out, nil
}

// Events returns the recorded events of bucketID overlapping [start, end),
// plus look-back events that started earlier but run past start. An unknown
// bucket yields no events.
func (s *Source) Events(ctx context.Context, bucketID string, start, end time.Time) ([]events.Event, error) {
	all := s.c.Events[bucketID]
	inRange := events.Overlapping(all, start, end)
	previous := events.Previous(all, start, s.lookback)
	return events.WithLookback(inRange, previous, start), nil
}

func sortedKeys(m map[string][]events.Event) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
