package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suykerbuyk/aw-digest/internal/config"
	"github.com/suykerbuyk/aw-digest/internal/events"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "awd check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		maxName = max(maxName, len(res.Name))
	}

	var b strings.Builder
	b.WriteString("awd check\n\n")

	var counts [3]int
	for _, res := range r.Results {
		if res.Status >= Pass && res.Status <= Fail {
			counts[res.Status]++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", counts[Pass], counts[Warn], counts[Fail])
	return b.String()
}

// Opener opens the configured event source.
type Opener func() (events.Source, error)

// CheckConfig reports which config file is in effect.
func CheckConfig(path string) Result {
	if _, err := os.Stat(path); err == nil {
		return Result{Name: "config", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "config", Status: Warn, Detail: config.CompressHome(path) + " not found, using defaults"}
}

// CheckSettings reports the first invalid setting, if any.
func CheckSettings(cfg config.Config) Result {
	if err := cfg.Validate(); err != nil {
		return Result{Name: "settings", Status: Fail, Detail: err.Error()}
	}
	return Result{
		Name:   "settings",
		Status: Pass,
		Detail: fmt.Sprintf("%dm buckets, %g%% coverage", cfg.Summary.BucketMinutes, cfg.Summary.CoveragePercent),
	}
}

// CheckSourceFiles checks that the files the configured source reads from
// exist. The http source has nothing on disk.
func CheckSourceFiles(cfg config.Config) Result {
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		return Result{Name: "source", Status: Pass, Detail: "http " + cfg.Server.URL}
	case config.SourceSQLite:
		return fileResult("source", "sqlite ", cfg.Source.DatabasePath)
	case config.SourceCapture:
		if cfg.Source.CapturePath != "" {
			return fileResult("source", "capture ", cfg.Source.CapturePath)
		}
		if info, err := os.Stat(cfg.Capture.Dir); err == nil && info.IsDir() {
			return Result{Name: "source", Status: Pass, Detail: "capture dir " + config.CompressHome(cfg.Capture.Dir)}
		}
		return Result{Name: "source", Status: Fail, Detail: "capture dir " + cfg.Capture.Dir + " not found"}
	default:
		return Result{Name: "source", Status: Fail, Detail: fmt.Sprintf("unknown source kind %q", cfg.Source.Kind)}
	}
}

func fileResult(name, prefix, path string) Result {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return Result{Name: name, Status: Pass, Detail: prefix + config.CompressHome(path)}
	}
	return Result{Name: name, Status: Fail, Detail: prefix + path + " not found"}
}

// CheckBuckets lists the buckets and checks that exactly one bucket of each
// required type exists.
func CheckBuckets(ctx context.Context, src events.Source) []Result {
	buckets, err := src.Buckets(ctx)
	if err != nil {
		return []Result{{Name: "buckets", Status: Fail, Detail: err.Error()}}
	}

	results := []Result{{Name: "buckets", Status: Pass, Detail: fmt.Sprintf("%d buckets", len(buckets))}}
	for _, typ := range []string{events.TypeAFK, events.TypeWindow} {
		results = append(results, bucketTypeResult(buckets, typ))
	}
	return results
}

func bucketTypeResult(buckets map[string]events.Bucket, typ string) Result {
	var ids []string
	for id, b := range buckets {
		if b.Type == typ {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	name := "bucket:" + typ
	switch len(ids) {
	case 1:
		return Result{Name: name, Status: Pass, Detail: ids[0]}
	case 0:
		return Result{Name: name, Status: Fail, Detail: (&events.ConfigurationError{Type: typ}).Error()}
	default:
		return Result{Name: name, Status: Fail, Detail: fmt.Sprintf("%d buckets: %s", len(ids), strings.Join(ids, ", "))}
	}
}

// CheckMetrics checks that the metrics textfile can be written.
func CheckMetrics(path string) Result {
	if path == "" {
		return Result{Name: "metrics", Status: Pass, Detail: "disabled"}
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return Result{Name: "metrics", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "metrics", Status: Warn, Detail: dir + " not found (created on first run)"}
}

// Run executes all checks and returns a report. Bucket checks are skipped
// when the source files are missing or the source cannot be opened.
func Run(ctx context.Context, cfg config.Config, cfgPath string, open Opener) Report {
	var results []Result

	results = append(results, CheckConfig(cfgPath))
	results = append(results, CheckSettings(cfg))

	files := CheckSourceFiles(cfg)
	results = append(results, files)

	if files.Status != Fail {
		src, err := open()
		switch {
		case err != nil:
			results = append(results, Result{Name: "buckets", Status: Fail, Detail: err.Error()})
		default:
			results = append(results, CheckBuckets(ctx, src)...)
			if c, ok := src.(io.Closer); ok {
				if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
					results = append(results, Result{Name: "source", Status: Warn, Detail: "close: " + err.Error()})
				}
			}
		}
	}

	results = append(results, CheckMetrics(cfg.Metrics.Textfile))
	return Report{Results: results}
}
