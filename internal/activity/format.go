package activity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// EmptyDay is the text used when a day has no application usage at all.
const EmptyDay = "No ActivityWatch data :("

// Format renders summaries as a two-level markdown list: one bullet per
// bucket with its local start time, one nested bullet per kept entry.
func Format(summaries []BucketSummary, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "- **%s**\n", FormatClock(s.Start.In(loc)))
		for _, e := range s.Entries {
			fmt.Fprintf(&b, "    - *%s*: %s\n", FormatDuration(e.Seconds), e.Title)
		}
	}
	return b.String()
}

// FormatClock formats t as 24-hour "HH:MM" in t's location.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// FormatDuration formats seconds as "M:SS", rounded to the nearest second.
func FormatDuration(secs float64) string {
	total := int(math.Round(secs))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
