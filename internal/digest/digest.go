// Package digest runs the full pipeline for one day: presence events become
// active intervals, each interval's focus events become application periods,
// and the periods are bucketed, aggregated, ranked and rendered.
package digest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suykerbuyk/aw-digest/internal/activity"
	"github.com/suykerbuyk/aw-digest/internal/events"
	"github.com/suykerbuyk/aw-digest/internal/metrics"
)

// Options tunes a run.
type Options struct {
	BucketLength    time.Duration
	CoveragePercent float64
	MinEntries      int
	Grace           time.Duration
	// Concurrency bounds parallel focus fetches; values below 1 mean 1.
	Concurrency int
	// Location renders bucket headers; nil means time.Local.
	Location *time.Location
}

// Result carries the rendered text and the intermediate stage outputs.
type Result struct {
	Text      string
	Intervals []activity.Interval
	Periods   []activity.AppPeriod
	Summaries []activity.BucketSummary
}

// Empty reports whether the day had no application usage.
func (r *Result) Empty() bool {
	return len(r.Periods) == 0
}

// Runner wires a source to the pipeline. Log and Metrics may be nil.
type Runner struct {
	Source  events.Source
	Log     *zap.Logger
	Metrics *metrics.Recorder
}

// Run summarizes [start, end). Nothing is rendered on error.
func (r *Runner) Run(ctx context.Context, start, end time.Time, opts Options) (*Result, error) {
	if opts.BucketLength <= 0 {
		return nil, fmt.Errorf("bucket length must be positive, got %v", opts.BucketLength)
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	buckets, err := r.Source.Buckets(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := events.Resolve(buckets)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved buckets",
		zap.String("afk", resolved.AFK),
		zap.String("window", resolved.Window),
		zap.Strings("ignored", resolved.Other))

	afk, err := r.Source.Events(ctx, resolved.AFK, start, end)
	if err != nil {
		return nil, err
	}
	intervals := activity.ActivePeriods(afk, opts.Grace)
	log.Debug("active intervals",
		zap.Int("events", len(afk)),
		zap.Int("intervals", len(intervals)),
		zap.Duration("grace", opts.Grace))

	perInterval, err := r.fetchPeriods(ctx, resolved.Window, intervals, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	var periods []activity.AppPeriod
	for _, ps := range perInterval {
		periods = append(periods, ps...)
	}

	res := &Result{Intervals: intervals, Periods: periods}
	if res.Empty() {
		log.Debug("no application periods", zap.Time("start", start), zap.Time("end", end))
		res.Text = activity.EmptyDay
		r.observe(len(intervals), 0, 0)
		return res, nil
	}

	chunks := activity.ChunkPeriods(periods, opts.BucketLength)
	res.Summaries = activity.Summarize(activity.Aggregate(chunks), activity.SummaryOptions{
		CoveragePercent: opts.CoveragePercent,
		MinEntries:      opts.MinEntries,
	})
	res.Text = activity.Format(res.Summaries, opts.Location)

	log.Debug("summarized",
		zap.Int("periods", len(periods)),
		zap.Int("buckets", len(res.Summaries)),
		zap.Duration("bucket_length", opts.BucketLength))
	r.observe(len(intervals), len(periods), len(res.Summaries))
	return res, nil
}

// fetchPeriods resolves application periods for every interval. Results are
// indexed by interval so the concatenation stays chronological regardless of
// completion order.
func (r *Runner) fetchPeriods(ctx context.Context, window string, intervals []activity.Interval, limit int) ([][]activity.AppPeriod, error) {
	if limit < 1 {
		limit = 1
	}

	out := make([][]activity.AppPeriod, len(intervals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, iv := range intervals {
		i, iv := i, iv
		g.Go(func() error {
			evs, err := r.Source.Events(gctx, window, iv.Start, iv.End)
			if err != nil {
				return err
			}
			out[i] = activity.AppPeriods(evs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Runner) observe(intervals, periods, buckets int) {
	if r.Metrics != nil {
		r.Metrics.ObservePipeline(intervals, periods, buckets)
	}
}

// Summary is the convenience form of Runner.Run returning only the text.
func Summary(ctx context.Context, src events.Source, start, end time.Time, opts Options) (string, error) {
	res, err := (&Runner{Source: src}).Run(ctx, start, end, opts)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
