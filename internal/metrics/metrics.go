// Package metrics counts what one digest run did and can export it in the
// Prometheus text format for the node_exporter textfile collector.
package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/suykerbuyk/aw-digest/internal/events"
)

const namespace = "awd"

// Recorder owns a private registry; nothing is registered globally.
type Recorder struct {
	reg *prometheus.Registry

	requests      *prometheus.CounterVec
	eventsFetched *prometheus.CounterVec
	intervals     prometheus.Gauge
	periods       prometheus.Gauge
	buckets       prometheus.Gauge
	runDuration   prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// New returns a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{reg: prometheus.NewRegistry()}

	r.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_requests_total",
		Help:      "Event source calls by source kind, operation and outcome",
	}, []string{"source", "op", "outcome"})
	r.eventsFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_fetched_total",
		Help:      "Events returned by the event source per bucket type",
	}, []string{"type"})
	r.intervals = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_intervals",
		Help:      "Active intervals resolved for the summarized day",
	})
	r.periods = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_periods",
		Help:      "Application periods resolved for the summarized day",
	})
	r.buckets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "summary_buckets",
		Help:      "Time buckets emitted in the summary",
	})
	r.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last digest run",
	})
	r.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful digest run",
	})

	r.reg.MustRegister(r.requests, r.eventsFetched, r.intervals, r.periods, r.buckets, r.runDuration, r.lastSuccess)
	return r
}

// Registry exposes the registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// ObservePipeline records the sizes of the pipeline stages.
func (r *Recorder) ObservePipeline(intervals, periods, buckets int) {
	r.intervals.Set(float64(intervals))
	r.periods.Set(float64(periods))
	r.buckets.Set(float64(buckets))
}

// ObserveRun records a finished run.
func (r *Recorder) ObserveRun(d time.Duration, ok bool) {
	r.runDuration.Set(d.Seconds())
	if ok {
		r.lastSuccess.SetToCurrentTime()
	}
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// Wrap returns src with every call counted under the given source kind.
// Fetched events are labelled with the bucket type learned from Buckets;
// ids never listed count as "unknown".
func (r *Recorder) Wrap(kind string, src events.Source) events.Source {
	return &instrumented{kind: kind, src: src, r: r, types: make(map[string]string)}
}

type instrumented struct {
	kind string
	src  events.Source
	r    *Recorder

	mu    sync.RWMutex
	types map[string]string
}

func (s *instrumented) Buckets(ctx context.Context) (map[string]events.Bucket, error) {
	b, err := s.src.Buckets(ctx)
	s.r.requests.WithLabelValues(s.kind, "buckets", outcome(err)).Inc()
	if err == nil {
		s.mu.Lock()
		for id, bucket := range b {
			s.types[id] = bucket.Type
		}
		s.mu.Unlock()
	}
	return b, err
}

func (s *instrumented) Events(ctx context.Context, bucketID string, start, end time.Time) ([]events.Event, error) {
	evs, err := s.src.Events(ctx, bucketID, start, end)
	s.r.requests.WithLabelValues(s.kind, "events", outcome(err)).Inc()
	if err == nil {
		s.r.eventsFetched.WithLabelValues(s.bucketType(bucketID)).Add(float64(len(evs)))
	}
	return evs, err
}

func (s *instrumented) bucketType(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.types[id]; ok && t != "" {
		return t
	}
	return "unknown"
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
