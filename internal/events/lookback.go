package events

import (
	"slices"
	"time"
)

// WithLookback merges the events of a range query with the events of a
// bounded look-back query. Look-back events are kept only if they run past
// start. Events present in both sets are returned once. The result is sorted
// by timestamp; ties keep look-back events first.
func WithLookback(inRange, previous []Event, start time.Time) []Event {
	out := make([]Event, 0, len(inRange)+len(previous))
	seen := make(map[eventKey]bool, len(inRange)+len(previous))

	add := func(e Event) {
		k := keyOf(e)
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, e)
	}

	for _, e := range previous {
		if e.End().After(start) {
			add(e)
		}
	}
	for _, e := range inRange {
		add(e)
	}

	slices.SortStableFunc(out, func(a, b Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}

// Overlapping returns the events whose span intersects [start, end), in the
// order given. A zero-length event counts when its timestamp is inside the range.
func Overlapping(evs []Event, start, end time.Time) []Event {
	var out []Event
	for _, e := range evs {
		if !e.Timestamp.Before(end) {
			continue
		}
		if e.End().After(start) || !e.Timestamp.Before(start) {
			out = append(out, e)
		}
	}
	return out
}

// Previous returns up to limit events that started at or before start, most
// recent first. evs must be sorted by timestamp.
func Previous(evs []Event, start time.Time, limit int) []Event {
	var out []Event
	for i := len(evs) - 1; i >= 0 && len(out) < limit; i-- {
		if e := evs[i]; !e.Timestamp.After(start) {
			out = append(out, e)
		}
	}
	return out
}

type eventKey struct {
	id       int64
	ts       int64
	duration float64
}

func keyOf(e Event) eventKey {
	if e.ID != 0 {
		return eventKey{id: e.ID}
	}
	return eventKey{ts: e.Timestamp.UnixNano(), duration: e.Duration}
}
