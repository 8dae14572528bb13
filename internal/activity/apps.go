package activity

import (
	"slices"
	"time"

	"github.com/suykerbuyk/aw-digest/internal/events"
)

// RefocusTolerance is the largest gap between two periods of the same
// application that still counts as one period.
const RefocusTolerance = 5 * time.Second

// AppPeriods maps window events to normalized application periods, sorted by
// start, with refocus flicker merged away.
func AppPeriods(evs []events.Event) []AppPeriod {
	periods := make([]AppPeriod, 0, len(evs))
	for _, e := range evs {
		periods = append(periods, AppPeriod{
			Title: Title(e.Data),
			Start: e.Timestamp,
			End:   e.End(),
		})
	}

	slices.SortStableFunc(periods, func(a, b AppPeriod) int {
		return a.Start.Compare(b.Start)
	})

	return mergeRefocus(periods)
}

// mergeRefocus joins consecutive periods with the same title when the second
// starts within RefocusTolerance of the first one's end.
func mergeRefocus(periods []AppPeriod) []AppPeriod {
	if len(periods) == 0 {
		return nil
	}

	merged := make([]AppPeriod, 0, len(periods))
	cur := periods[0]
	for _, next := range periods[1:] {
		if next.Title == cur.Title && next.Start.Sub(cur.End) <= RefocusTolerance {
			cur = AppPeriod{Title: cur.Title, Start: cur.Start, End: later(cur.End, next.End)}
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}
