// Package activity turns ActivityWatch events into per-bucket usage summaries.
package activity

import "time"

// Interval is a span of continuous user presence.
type Interval struct {
	Start time.Time
	End   time.Time
}

// AppPeriod is contiguous use of one normalized application identity.
type AppPeriod struct {
	Title string
	Start time.Time
	End   time.Time
}

// Seconds returns the period length in seconds.
func (p AppPeriod) Seconds() float64 {
	return p.End.Sub(p.Start).Seconds()
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
