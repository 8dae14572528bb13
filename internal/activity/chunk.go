package activity

import "time"

// Chunk is one fixed-length bucket window and the periods that started in it.
type Chunk struct {
	Start   time.Time
	End     time.Time
	Periods []AppPeriod
}

// ChunkPeriods groups chronologically ordered periods into windows of the
// given length. The first window starts at the first period's start. A period
// belongs wholly to the window containing its start, even if it runs past the
// window end. Windows that receive no period are skipped.
//
// Windows only move forward: a period that starts before the current window
// (possible when look-back events precede an earlier interval's tail) stays in
// the current window.
func ChunkPeriods(periods []AppPeriod, length time.Duration) []Chunk {
	if len(periods) == 0 || length <= 0 {
		return nil
	}

	var chunks []Chunk
	cur := Chunk{Start: periods[0].Start, End: periods[0].Start.Add(length)}

	for _, p := range periods {
		if !p.Start.Before(cur.End) {
			if len(cur.Periods) > 0 {
				chunks = append(chunks, cur)
			}
			// Jump straight to the window holding p instead of stepping
			// through every empty one.
			steps := p.Start.Sub(cur.Start) / length
			start := cur.Start.Add(steps * length)
			cur = Chunk{Start: start, End: start.Add(length)}
		}
		cur.Periods = append(cur.Periods, p)
	}

	return append(chunks, cur)
}
