package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/aw-digest/internal/capture"
	"github.com/suykerbuyk/aw-digest/internal/check"
	"github.com/suykerbuyk/aw-digest/internal/config"
	"github.com/suykerbuyk/aw-digest/internal/day"
	"github.com/suykerbuyk/aw-digest/internal/events"
	"github.com/suykerbuyk/aw-digest/internal/eventsource"
	"github.com/suykerbuyk/aw-digest/internal/help"
)

func (a *app) captureCmd() *cobra.Command {
	var out string
	cmd := command(help.CmdCapture)
	cmd.Args = cobra.MaximumNArgs(1)
	cmd.Flags().StringVar(&out, "out", "", "capture file path")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := a.load(); err != nil {
			return err
		}
		d, err := day.Parse(firstArg(args), a.now())
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

		c, err := capture.Record(cmd.Context(), src, label, start, end)
		if err != nil {
			return err
		}

		path := out
		if path == "" {
			path = a.cfg.CapturePath(label)
		}
		if err := capture.Write(path, c); err != nil {
			return err
		}

		n := 0
		for _, evs := range c.Events {
			n += len(evs)
		}
		a.log.Debug("capture written", zap.String("path", path), zap.Int("events", n))
		fmt.Fprintf(a.stdout, "CREATE %s (%d events)\n", config.CompressHome(path), n)
		return nil
	}
	return cmd
}

func (a *app) bucketsCmd() *cobra.Command {
	cmd := command(help.CmdBuckets)
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := a.load(); err != nil {
			return err
		}
		src, err := eventsource.Open(a.cfg, day.Label(a.now()))
		if err != nil {
			return err
		}
		defer src.Close()

		buckets, err := src.Buckets(cmd.Context())
		if err != nil {
			return err
		}
		resolved, resolveErr := events.Resolve(buckets)

		ids := make([]string, 0, len(buckets))
		for id := range buckets {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
		for _, id := range ids {
			mark := " "
			if resolveErr == nil && (id == resolved.AFK || id == resolved.Window) {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s %s\t%s\t%s\n", mark, id, buckets[id].Type, buckets[id].Hostname)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		return resolveErr
	}
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	cmd := command(help.CmdCheck)
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := a.load(); err != nil {
			return err
		}
		label := day.Label(a.now())
		report := check.Run(cmd.Context(), a.cfg, a.cfgPath, func() (events.Source, error) {
			h, err := eventsource.Open(a.cfg, label)
			if err != nil {
				return nil, err
			}
			return h, nil
		})

		fmt.Fprint(a.stdout, report.Format())
		if report.HasFailures() {
			return errReported
		}
		return nil
	}
	return cmd
}

func (a *app) initCmd() *cobra.Command {
	var serverURL string
	cmd := command(help.CmdInit)
	cmd.Args = cobra.NoArgs
	cmd.Flags().StringVar(&serverURL, "url", "", "aw-server URL")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path, created, err := config.WriteDefault(serverURL)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(a.stdout, "CREATE %s\n", config.CompressHome(path))
		} else {
			fmt.Fprintf(a.stdout, "SKIP   %s (exists)\n", config.CompressHome(path))
		}
		return nil
	}
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	cmd := command(help.CmdVersion)
	cmd.Args = cobra.NoArgs
	cmd.Run = func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(a.stdout, "awd v%s (aw-digest)\n", help.Version)
	}
	return cmd
}
