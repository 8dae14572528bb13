package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/suykerbuyk/aw-digest/internal/activity"
	"github.com/suykerbuyk/aw-digest/internal/capture"
	"github.com/suykerbuyk/aw-digest/internal/events"
	"github.com/suykerbuyk/aw-digest/internal/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	afkID    = "aw-watcher-afk_host"
	windowID = "aw-watcher-window_host"
)

var (
	dayStart = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	dayEnd   = dayStart.AddDate(0, 0, 1)
)

func at(h, m, s int) time.Time {
	return time.Date(2025, 3, 14, h, m, s, 0, time.UTC)
}

func afk(id int64, ts time.Time, secs float64, status string) events.Event {
	return events.Event{ID: id, Timestamp: ts, Duration: secs, Data: map[string]any{"status": status}}
}

func win(id int64, ts time.Time, secs float64, app, title string) events.Event {
	return events.Event{ID: id, Timestamp: ts, Duration: secs, Data: map[string]any{"app": app, "title": title}}
}

func sampleDay() *capture.Capture {
	return &capture.Capture{
		Day:   "2025-03-14",
		Start: dayStart,
		End:   dayEnd,
		Buckets: map[string]events.Bucket{
			afkID:    {ID: afkID, Type: events.TypeAFK},
			windowID: {ID: windowID, Type: events.TypeWindow},
			"aw-watcher-web-firefox": {ID: "aw-watcher-web-firefox", Type: "web.tab.current"},
		},
		Events: map[string][]events.Event{
			afkID: {
				afk(1, at(9, 0, 0), 1200, "not-afk"),
				afk(2, at(9, 20, 0), 1200, "afk"),
				afk(3, at(9, 40, 0), 1200, "not-afk"),
			},
			windowID: {
				win(11, at(9, 0, 0), 300, "firefox", "Docs — Mozilla Firefox"),
				win(12, at(9, 5, 0), 600, "VSCodium", "main.go - VSCodium"),
				win(13, at(9, 15, 2), 120, "firefox", "Docs — Mozilla Firefox"),
				win(14, at(9, 41, 0), 240, "kitty", "zsh"),
				win(15, at(9, 45, 3), 60, "kitty", "zsh"),
			},
		},
	}
}

func defaultOptions() Options {
	return Options{
		BucketLength:    15 * time.Minute,
		CoveragePercent: 70,
		Location:        time.UTC,
	}
}

const sampleText = `- **09:00**
    - *10:00*: VSCodium: main.go
    - *5:00*: Firefox: Docs
- **09:15**
    - *2:00*: Firefox: Docs
- **09:30**
    - *5:03*: kitty: zsh
`

func TestRunSampleDay(t *testing.T) {
	r := &Runner{Source: capture.NewSource(sampleDay(), 0)}

	res, err := r.Run(context.Background(), dayStart, dayEnd, defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, sampleText, res.Text)
	assert.Equal(t, []activity.Interval{
		{Start: at(9, 0, 0), End: at(9, 20, 0)},
		{Start: at(9, 40, 0), End: at(10, 0, 0)},
	}, res.Intervals)
	require.Len(t, res.Periods, 4)
	assert.Equal(t, activity.AppPeriod{Title: "kitty: zsh", Start: at(9, 41, 0), End: at(9, 46, 3)}, res.Periods[3])
	assert.False(t, res.Empty())
}

func TestRunCoverageAndMinEntries(t *testing.T) {
	src := capture.NewSource(sampleDay(), 0)

	opts := defaultOptions()
	opts.CoveragePercent = 50
	text, err := Summary(context.Background(), src, dayStart, dayEnd, opts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "- **09:00**\n    - *10:00*: VSCodium: main.go\n- **09:15**\n"), text)

	opts.MinEntries = 2
	text, err = Summary(context.Background(), src, dayStart, dayEnd, opts)
	require.NoError(t, err)
	assert.Equal(t, sampleText, text)
}

func TestRunConcurrentFetchKeepsOrder(t *testing.T) {
	c := sampleDay()
	// Many short intervals so the fetches interleave.
	var afkEvents, winEvents []events.Event
	for i := 0; i < 40; i++ {
		ts := at(8, 0, 0).Add(time.Duration(i) * 2 * time.Minute)
		afkEvents = append(afkEvents, afk(int64(100+i), ts, 60, "not-afk"))
		winEvents = append(winEvents, win(int64(200+i), ts, 30, "kitty", "job"))
	}
	c.Events[afkID] = afkEvents
	c.Events[windowID] = winEvents
	src := capture.NewSource(c, 0)

	opts := defaultOptions()
	serial, err := (&Runner{Source: src}).Run(context.Background(), dayStart, dayEnd, opts)
	require.NoError(t, err)

	opts.Concurrency = 8
	parallel, err := (&Runner{Source: src}).Run(context.Background(), dayStart, dayEnd, opts)
	require.NoError(t, err)

	assert.Len(t, parallel.Intervals, 40)
	assert.Equal(t, serial.Periods, parallel.Periods)
	assert.Equal(t, serial.Text, parallel.Text)
}

func TestRunEmptyDay(t *testing.T) {
	c := sampleDay()
	c.Events[afkID] = []events.Event{afk(1, at(9, 0, 0), 3600, "afk")}

	res, err := (&Runner{Source: capture.NewSource(c, 0)}).Run(context.Background(), dayStart, dayEnd, defaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, activity.EmptyDay, res.Text)
	assert.Empty(t, res.Summaries)
}

func TestRunNoWindowEventsInActiveTime(t *testing.T) {
	c := sampleDay()
	c.Events[windowID] = nil

	text, err := Summary(context.Background(), capture.NewSource(c, 0), dayStart, dayEnd, defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, activity.EmptyDay, text)
}

func TestRunMissingWindowBucket(t *testing.T) {
	c := sampleDay()
	delete(c.Buckets, windowID)

	_, err := Summary(context.Background(), capture.NewSource(c, 0), dayStart, dayEnd, defaultOptions())
	var cfgErr *events.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, events.TypeWindow, cfgErr.Type)
}

func TestRunRejectsBadBucketLength(t *testing.T) {
	opts := defaultOptions()
	opts.BucketLength = 0
	_, err := Summary(context.Background(), capture.NewSource(sampleDay(), 0), dayStart, dayEnd, opts)
	assert.Error(t, err)
}

// failingSource fails every focus fetch.
type failingSource struct {
	*capture.Source
}

func (f failingSource) Events(ctx context.Context, bucketID string, start, end time.Time) ([]events.Event, error) {
	if bucketID == windowID {
		return nil, &events.TransportError{Op: "get bucket '" + bucketID + "' contents", Status: 500, Body: "boom"}
	}
	return f.Source.Events(ctx, bucketID, start, end)
}

func TestRunPropagatesTransportError(t *testing.T) {
	src := failingSource{capture.NewSource(sampleDay(), 0)}
	opts := defaultOptions()
	opts.Concurrency = 4

	res, err := (&Runner{Source: src}).Run(context.Background(), dayStart, dayEnd, opts)
	assert.Nil(t, res)
	var te *events.TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, 500, te.Status)
}

func TestRunRecordsMetrics(t *testing.T) {
	rec := metrics.New()
	r := &Runner{
		Source:  rec.Wrap("capture", capture.NewSource(sampleDay(), 0)),
		Metrics: rec,
	}

	_, err := r.Run(context.Background(), dayStart, dayEnd, defaultOptions())
	require.NoError(t, err)

	expected := `
# HELP awd_app_periods Application periods resolved for the summarized day
# TYPE awd_app_periods gauge
awd_app_periods 4
# HELP awd_summary_buckets Time buckets emitted in the summary
# TYPE awd_summary_buckets gauge
awd_summary_buckets 3
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected),
		"awd_app_periods", "awd_summary_buckets"))

	// One bucket listing, one afk fetch and one window fetch per interval.
	requests := `
# HELP awd_source_requests_total Event source calls by source kind, operation and outcome
# TYPE awd_source_requests_total counter
awd_source_requests_total{op="buckets",outcome="ok",source="capture"} 1
awd_source_requests_total{op="events",outcome="ok",source="capture"} 3
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(requests),
		"awd_source_requests_total"))
}
