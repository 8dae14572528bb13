package main

import (
	"context"
	"errors"
	"io"
	"regexp"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/aw-digest/internal/config"
	"github.com/suykerbuyk/aw-digest/internal/help"
	"github.com/suykerbuyk/aw-digest/internal/logging"
)

// errReported marks a failure that was already printed to the user.
var errReported = errors.New("reported")

// app holds what every subcommand shares.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	configFlag string
	logLevel   string

	cfg     config.Config
	cfgPath string
	log     *zap.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, now: time.Now}
}

// execute runs the command line and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(moveOffsets(args))

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			a.logger().Error("awd failed", zap.Error(err))
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "awd",
		Short:         help.TopLevel.Synopsis,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.configFlag, "config", "", "config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level")

	root.AddCommand(
		a.summaryCmd(),
		a.captureCmd(),
		a.bucketsCmd(),
		a.checkCmd(),
		a.initCmd(),
		a.versionCmd(),
	)
	root.CompletionOptions.DisableDefaultCmd = true

	root.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if sub, ok := help.Lookup(c.Name()); ok && c != root {
			io.WriteString(c.OutOrStdout(), help.FormatTerminal(sub))
			return
		}
		io.WriteString(c.OutOrStdout(), help.FormatUsage(help.TopLevel, help.Subcommands))
	})
	return root
}

// command builds a cobra command from its help entry.
func command(h help.Command) *cobra.Command {
	return &cobra.Command{
		Use:   h.Name,
		Short: h.Brief,
	}
}

// load reads the config (from --config when given) and builds the logger.
func (a *app) load() error {
	var err error
	if a.configFlag != "" {
		a.cfgPath = a.configFlag
		a.cfg, err = config.LoadFile(a.configFlag)
	} else {
		a.cfgPath, _ = config.Locate()
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level := a.logLevel
	if level == "" {
		level = a.cfg.Log.Level
	}
	log, err := logging.New(level, a.stderr)
	if err != nil {
		return err
	}
	a.log = log
	a.log.Debug("config loaded", zap.String("path", config.CompressHome(a.cfgPath)))
	return nil
}

// logger returns the configured logger, or a warn-level one when the config
// never loaded.
func (a *app) logger() *zap.Logger {
	if a.log != nil {
		return a.log
	}
	log, err := logging.New(a.logLevel, a.stderr)
	if err != nil {
		log, _ = logging.New("", a.stderr)
	}
	a.log = log
	return log
}

var offsetArg = regexp.MustCompile(`^-\d+$`)

// moveOffsets moves negative day offsets such as "-1" behind "--" so the
// flag parser takes them as positional arguments.
func moveOffsets(args []string) []string {
	var rest, offsets []string
	for i, arg := range args {
		if arg == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		if offsetArg.MatchString(arg) {
			offsets = append(offsets, arg)
			continue
		}
		rest = append(rest, arg)
	}
	if len(offsets) == 0 {
		return args
	}

	out := rest
	for i, arg := range out {
		if arg == "--" {
			// Positional arguments already follow; offsets go first.
			merged := append([]string{}, out[:i+1]...)
			merged = append(merged, offsets...)
			return append(merged, out[i+1:]...)
		}
	}
	out = append(out, "--")
	return append(out, offsets...)
}
