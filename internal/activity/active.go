package activity

import (
	"slices"
	"time"

	"github.com/suykerbuyk/aw-digest/internal/events"
)

const statusActive = "not-afk"

// ActivePeriods returns the disjoint intervals during which the AFK watcher
// reported the user as present. Spans separated by at most grace are joined.
func ActivePeriods(evs []events.Event, grace time.Duration) []Interval {
	var spans []Interval
	for _, e := range evs {
		if e.Str("status") != statusActive {
			continue
		}
		spans = append(spans, Interval{Start: e.Timestamp, End: e.End()})
	}
	return MergeIntervals(spans, grace)
}

// MergeIntervals sorts spans by start and joins every span that starts no
// later than grace after the running interval ends.
func MergeIntervals(spans []Interval, grace time.Duration) []Interval {
	if len(spans) == 0 {
		return nil
	}

	sorted := slices.Clone(spans)
	slices.SortStableFunc(sorted, func(a, b Interval) int {
		return a.Start.Compare(b.Start)
	})

	merged := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if !next.Start.After(cur.End.Add(grace)) {
			cur = Interval{Start: cur.Start, End: later(cur.End, next.End)}
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}
