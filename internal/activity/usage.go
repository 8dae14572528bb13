package activity

import "time"

// Entry is one application and the seconds it was used.
type Entry struct {
	Title   string
	Seconds float64
}

// Usage accumulates seconds per title and remembers the order in which titles
// were first added. Ranking ties are broken by that order.
type Usage struct {
	order   []string
	seconds map[string]float64
}

// NewUsage returns an empty Usage.
func NewUsage() *Usage {
	return &Usage{seconds: make(map[string]float64)}
}

// Add adds secs to title.
func (u *Usage) Add(title string, secs float64) {
	if _, ok := u.seconds[title]; !ok {
		u.order = append(u.order, title)
	}
	u.seconds[title] += secs
}

// Seconds returns the accumulated seconds for title.
func (u *Usage) Seconds(title string) float64 {
	return u.seconds[title]
}

// Len returns the number of distinct titles.
func (u *Usage) Len() int {
	return len(u.order)
}

// Entries returns all titles with their seconds in first-insertion order.
func (u *Usage) Entries() []Entry {
	out := make([]Entry, len(u.order))
	for i, title := range u.order {
		out[i] = Entry{Title: title, Seconds: u.seconds[title]}
	}
	return out
}

// Total returns the sum of all seconds.
func (u *Usage) Total() float64 {
	var sum float64
	for _, title := range u.order {
		sum += u.seconds[title]
	}
	return sum
}

// UsageBucket is the per-title usage within one chunk window.
type UsageBucket struct {
	Start time.Time
	End   time.Time
	Usage *Usage
}

// Aggregate sums period lengths per title for each chunk. Periods inside a
// chunk are assumed not to overlap.
func Aggregate(chunks []Chunk) []UsageBucket {
	out := make([]UsageBucket, 0, len(chunks))
	for _, c := range chunks {
		u := NewUsage()
		for _, p := range c.Periods {
			u.Add(p.Title, p.Seconds())
		}
		out = append(out, UsageBucket{Start: c.Start, End: c.End, Usage: u})
	}
	return out
}
