// Package capture records one day of ActivityWatch data into a compressed
// JSONL file and replays it as an event source.
package capture

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/suykerbuyk/aw-digest/internal/events"
)

const ext = ".jsonl.zst"

// Capture is the raw data needed to rebuild one day's summary.
type Capture struct {
	Day     string // YYYY-MM-DD
	Start   time.Time
	End     time.Time
	Buckets map[string]events.Bucket
	Events  map[string][]events.Event // by bucket id, sorted by timestamp
}

// record is one line of a capture file.
type record struct {
	Kind    string                   `json:"kind"`
	Day     string                   `json:"day,omitempty"`
	Start   *time.Time               `json:"start,omitempty"`
	End     *time.Time               `json:"end,omitempty"`
	Buckets map[string]events.Bucket `json:"buckets,omitempty"`
	Bucket  string                   `json:"bucket,omitempty"`
	Event   *events.Event            `json:"event,omitempty"`
}

const (
	kindHeader = "buckets"
	kindEvent  = "event"
)

// Record fetches the afk and window events of [start, end) from src.
func Record(ctx context.Context, src events.Source, day string, start, end time.Time) (*Capture, error) {
	buckets, err := src.Buckets(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := events.Resolve(buckets)
	if err != nil {
		return nil, err
	}

	c := &Capture{
		Day:     day,
		Start:   start,
		End:     end,
		Buckets: buckets,
		Events:  make(map[string][]events.Event),
	}
	for _, id := range []string{resolved.AFK, resolved.Window} {
		evs, err := src.Events(ctx, id, start, end)
		if err != nil {
			return nil, err
		}
		c.Events[id] = evs
	}
	return c, nil
}

// Path returns the deterministic capture path for a day.
func Path(dir, day string) string {
	return filepath.Join(dir, day+ext)
}

// Write compresses c into path, creating parent directories.
func Write(path string, c *Capture) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create capture dir: %w", err)
	}

	dest, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create capture: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	if err := encode(encoder, c); err != nil {
		encoder.Close()
		return fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return dest.Close()
}

func encode(w io.Writer, c *Capture) error {
	enc := json.NewEncoder(w)
	start, end := c.Start, c.End
	if err := enc.Encode(record{Kind: kindHeader, Day: c.Day, Start: &start, End: &end, Buckets: c.Buckets}); err != nil {
		return err
	}
	for _, id := range sortedKeys(c.Events) {
		for i := range c.Events[id] {
			if err := enc.Encode(record{Kind: kindEvent, Bucket: id, Event: &c.Events[id][i]}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read decompresses and parses the capture at path.
func Read(path string) (*Capture, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	c := &Capture{Events: make(map[string][]events.Event)}
	sawHeader := false

	scanner := bufio.NewScanner(decoder)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var r record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		switch r.Kind {
		case kindHeader:
			sawHeader = true
			c.Day = r.Day
			c.Buckets = r.Buckets
			if r.Start != nil {
				c.Start = *r.Start
			}
			if r.End != nil {
				c.End = *r.End
			}
		case kindEvent:
			if r.Event == nil {
				return nil, fmt.Errorf("%s line %d: event record without event", path, line)
			}
			c.Events[r.Bucket] = append(c.Events[r.Bucket], *r.Event)
		default:
			return nil, fmt.Errorf("%s line %d: unknown record kind %q", path, line, r.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	if !sawHeader {
		return nil, fmt.Errorf("%s: missing bucket header", path)
	}
	return c, nil
}
