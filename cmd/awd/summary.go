package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/aw-digest/internal/config"
	"github.com/suykerbuyk/aw-digest/internal/day"
	"github.com/suykerbuyk/aw-digest/internal/digest"
	"github.com/suykerbuyk/aw-digest/internal/eventsource"
	"github.com/suykerbuyk/aw-digest/internal/help"
	"github.com/suykerbuyk/aw-digest/internal/metrics"
	"github.com/suykerbuyk/aw-digest/internal/note"
)

type summaryFlags struct {
	bucketMinutes int
	coverage      float64
	minEntries    int
	grace         float64
	source        string
	insert        string
}

func (a *app) summaryCmd() *cobra.Command {
	var f summaryFlags
	cmd := command(help.CmdSummary)
	cmd.Args = cobra.MaximumNArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runSummary(cmd, args, f)
	}

	fl := cmd.Flags()
	fl.IntVar(&f.bucketMinutes, "bucket-minutes", 0, "bucket length in minutes")
	fl.Float64Var(&f.coverage, "coverage", 0, "coverage percent")
	fl.IntVar(&f.minEntries, "min-entries", 0, "minimum entries per bucket")
	fl.Float64Var(&f.grace, "grace", 0, "active period grace in minutes")
	fl.StringVar(&f.source, "source", "", "event source kind")
	fl.StringVar(&f.insert, "insert", "", "markdown note to insert into")
	return cmd
}

// applySummaryFlags overrides config values with the flags given on the
// command line.
func applySummaryFlags(cmd *cobra.Command, f summaryFlags, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("bucket-minutes") {
		cfg.Summary.BucketMinutes = f.bucketMinutes
	}
	if fl.Changed("coverage") {
		cfg.Summary.CoveragePercent = f.coverage
	}
	if fl.Changed("min-entries") {
		cfg.Summary.MinEntries = f.minEntries
	}
	if fl.Changed("grace") {
		cfg.Summary.GraceMinutes = f.grace
	}
	if fl.Changed("source") {
		cfg.Source.Kind = f.source
	}
}

func (a *app) runSummary(cmd *cobra.Command, args []string, f summaryFlags) error {
	if err := a.load(); err != nil {
		return err
	}
	applySummaryFlags(cmd, f, &a.cfg)
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	now := a.now()
	d, err := day.Parse(firstArg(args), now)
	if err != nil {
		return err
	}
	start, end := day.Range(d)
	label := day.Label(d)

	src, err := eventsource.Open(a.cfg, label)
	if err != nil {
		return err
	}
	defer src.Close()

	a.log.Debug("summarizing",
		zap.String("day", label),
		zap.String("source", src.Kind),
		zap.String("from", src.Where),
		zap.Time("start", start),
		zap.Time("end", end))

	rec := metrics.New()
	runner := &digest.Runner{
		Source:  rec.Wrap(src.Kind, src),
		Log:     a.log,
		Metrics: rec,
	}

	began := time.Now()
	res, err := runner.Run(cmd.Context(), start, end, digest.Options{
		BucketLength:    a.cfg.BucketLength(),
		CoveragePercent: a.cfg.Summary.CoveragePercent,
		MinEntries:      a.cfg.Summary.MinEntries,
		Grace:           a.cfg.Grace(),
		Concurrency:     a.cfg.Source.Concurrency,
		Location:        now.Location(),
	})
	rec.ObserveRun(time.Since(began), err == nil)
	a.writeMetrics(rec)
	if err != nil {
		return err
	}

	if f.insert != "" {
		action, err := note.Insert(f.insert, note.Heading(label), res.Text)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s %s\n", action, config.CompressHome(f.insert))
		return nil
	}

	text := res.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = fmt.Fprint(a.stdout, text)
	return err
}

// writeMetrics exports rec when a textfile is configured. Failures only warn.
func (a *app) writeMetrics(rec *metrics.Recorder) {
	path := a.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := rec.WriteTextfile(path); err != nil {
		a.log.Warn("metrics not written", zap.String("path", path), zap.Error(err))
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
