package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func ev(id int64, offset time.Duration, secs float64) Event {
	return Event{ID: id, Timestamp: t0.Add(offset), Duration: secs}
}

func ids(evs []Event) []int64 {
	out := make([]int64, len(evs))
	for i, e := range evs {
		out[i] = e.ID
	}
	return out
}

func TestEventEnd(t *testing.T) {
	e := ev(1, 0, 1.5)
	assert.Equal(t, t0.Add(1500*time.Millisecond), e.End())
}

func TestEventStr(t *testing.T) {
	e := Event{Data: map[string]any{"app": "firefox", "n": 3.0}}
	assert.Equal(t, "firefox", e.Str("app"))
	assert.Equal(t, "", e.Str("n"))
	assert.Equal(t, "", e.Str("missing"))
}

func TestResolve(t *testing.T) {
	buckets := map[string]Bucket{
		"aw-watcher-afk_host":    {Type: TypeAFK},
		"aw-watcher-window_host": {Type: TypeWindow},
		"aw-watcher-web-firefox": {Type: "web.tab.current"},
	}
	r, err := Resolve(buckets)
	require.NoError(t, err)
	assert.Equal(t, "aw-watcher-afk_host", r.AFK)
	assert.Equal(t, "aw-watcher-window_host", r.Window)
	assert.Equal(t, []string{"aw-watcher-web-firefox"}, r.Other)
}

func TestResolveMissing(t *testing.T) {
	_, err := Resolve(map[string]Bucket{"w": {Type: TypeWindow}})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, TypeAFK, cfgErr.Type)
	assert.Equal(t, 0, cfgErr.Count)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolveDuplicate(t *testing.T) {
	_, err := Resolve(map[string]Bucket{
		"a":  {Type: TypeAFK},
		"w1": {Type: TypeWindow},
		"w2": {Type: TypeWindow},
	})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, TypeWindow, cfgErr.Type)
	assert.Equal(t, 2, cfgErr.Count)
}

func TestWithLookback(t *testing.T) {
	start := t0
	inRange := []Event{ev(10, time.Minute, 30), ev(11, 2*time.Minute, 30)}
	previous := []Event{
		ev(9, -10*time.Second, 60),  // runs past start
		ev(8, -5*time.Minute, 60),   // ends before start
		ev(7, -time.Minute, 60),     // ends exactly at start
	}

	got := WithLookback(inRange, previous, start)
	assert.Equal(t, []int64{9, 10, 11}, ids(got))
}

func TestWithLookbackDropsDuplicates(t *testing.T) {
	overlap := ev(9, -10*time.Second, 60)
	got := WithLookback([]Event{overlap, ev(10, time.Minute, 1)}, []Event{overlap}, t0)
	assert.Equal(t, []int64{9, 10}, ids(got))
}

func TestWithLookbackEmpty(t *testing.T) {
	assert.Empty(t, WithLookback(nil, nil, t0))
}

func TestOverlapping(t *testing.T) {
	evs := []Event{
		ev(1, -2*time.Minute, 60),  // before
		ev(2, -30*time.Second, 60), // straddles start
		ev(3, 0, 0),                // zero length at start
		ev(4, 5*time.Minute, 10),   // inside
		ev(5, 10*time.Minute, 10),  // at end, excluded
	}
	got := Overlapping(evs, t0, t0.Add(10*time.Minute))
	assert.Equal(t, []int64{2, 3, 4}, ids(got))
}

func TestPrevious(t *testing.T) {
	var evs []Event
	for i := 0; i < 8; i++ {
		evs = append(evs, ev(int64(i+1), time.Duration(i-6)*time.Minute, 30))
	}
	got := Previous(evs, t0, 5)
	assert.Equal(t, []int64{7, 6, 5, 4, 3}, ids(got))
}

func TestTransportErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		err  *TransportError
		want string
	}{
		{&TransportError{Op: "list buckets", Status: 500, Body: "boom"}, "list buckets failed with status 500: boom"},
		{&TransportError{Op: "list buckets", Status: 404}, "list buckets failed with status 404"},
		{&TransportError{Op: "list buckets", Err: cause}, "list buckets: connection refused"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
	assert.ErrorIs(t, &TransportError{Op: "x", Err: cause}, cause)
}
