package activity

import (
	"slices"
	"time"
)

// SummaryOptions controls how many entries each bucket keeps.
type SummaryOptions struct {
	// CoveragePercent is the share of the bucket length (0-100) the kept
	// entries must add up to.
	CoveragePercent float64
	// MinEntries is the least number of entries kept when available.
	MinEntries int
}

// BucketSummary is the ranked, truncated usage of one bucket.
type BucketSummary struct {
	Start   time.Time
	End     time.Time
	Entries []Entry
}

// Summarize ranks every bucket and keeps the top entries until both
// MinEntries and CoveragePercent are satisfied.
func Summarize(buckets []UsageBucket, opts SummaryOptions) []BucketSummary {
	out := make([]BucketSummary, 0, len(buckets))
	for _, b := range buckets {
		target := opts.CoveragePercent / 100 * b.End.Sub(b.Start).Seconds()
		out = append(out, BucketSummary{
			Start:   b.Start,
			End:     b.End,
			Entries: truncate(Rank(b.Usage), opts.MinEntries, target),
		})
	}
	return out
}

// Rank returns the entries ordered by seconds, longest first. Equal durations
// keep first-insertion order.
func Rank(u *Usage) []Entry {
	ranked := u.Entries()
	slices.SortStableFunc(ranked, func(a, b Entry) int {
		switch {
		case a.Seconds > b.Seconds:
			return -1
		case a.Seconds < b.Seconds:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// truncate keeps entries until, after adding one, at least minCount entries are
// kept and their total reaches target seconds.
func truncate(ranked []Entry, minCount int, target float64) []Entry {
	var total float64
	for i, e := range ranked {
		total += e.Seconds
		if i+1 >= minCount && total >= target {
			return ranked[:i+1]
		}
	}
	return ranked
}
