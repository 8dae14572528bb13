package help

import "strings"

// Version is the awd release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--coverage <percent>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// Command describes an awd subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string // "summary", "capture", etc; "" for top-level
	Synopsis    string // one-line description (lowercase, for --help header)
	Brief       string // short description for usage table (capitalized)
	Usage       string // full usage line
	TableUsage  string // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	Related     []string // subcommand names listed under SEE ALSO
}

func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "awd" for top-level, "awd-<name>" for subs.
func (c Command) ManName() string {
	if c.Name == "" {
		return "awd"
	}
	return "awd-" + strings.ReplaceAll(c.Name, " ", "-")
}

// GlobalFlags apply to every subcommand.
var GlobalFlags = []Flag{
	{Name: "--config <path>", Desc: "Read this config file instead of the default location"},
	{Name: "--log-level <level>", Desc: "debug, info, warn or error (default: from config, else warn)"},
}

var dayArg = Arg{
	Name:     "day",
	Desc:     "-N or +N days from today, YYYY-MM-DD or MM-DD (default: today)",
	Optional: true,
}

// TopLevel is the top-level awd command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "ActivityWatch daily digest",
}

var CmdSummary = Command{
	Name:       "summary",
	Synopsis:   "summarize a day of ActivityWatch data",
	Brief:      "Print the markdown digest for a day",
	Usage:      "awd summary [day] [--bucket-minutes <n>] [--coverage <percent>] [--min-entries <n>] [--grace <minutes>] [--source <kind>] [--insert <note.md>]",
	TableUsage: "awd summary [day]",
	Args:       []Arg{dayArg},
	Flags: []Flag{
		{Name: "--bucket-minutes <n>", Desc: "Bucket length in minutes (default: 15)"},
		{Name: "--coverage <percent>", Desc: "Share of each bucket the listed entries must cover (default: 70)"},
		{Name: "--min-entries <n>", Desc: "Least number of entries listed per bucket (default: 0)"},
		{Name: "--grace <minutes>", Desc: "Join active periods separated by at most this gap (default: 0)"},
		{Name: "--source <kind>", Desc: "Event source: http, sqlite or capture"},
		{Name: "--insert <note.md>", Desc: "Write the digest into a markdown note instead of stdout"},
	},
	Description: `Reads the day's afkstatus events, keeps the periods the user was
present, and reads the focused window events inside each of them.
Window titles are normalized per application, brief refocus flicker
is merged, and the result is cut into fixed-length buckets starting
at the first recorded activity. Each bucket lists its applications,
longest first, until the coverage target is met.

The day's range runs from local midnight to the next local midnight.
Events that started before a range boundary but run into it are
included.

A day without any application usage prints:
  No ActivityWatch data :(

With --insert the digest is placed under "## Activity YYYY-MM-DD" in
the note. An existing section for the same day is replaced.`,
	Examples: []string{
		"awd summary                          Today, 15 minute buckets",
		"awd summary -1                       Yesterday",
		"awd summary -3 --bucket-minutes 60   Three days ago, hourly",
		"awd summary 03-14 --coverage 90      March 14 of this year",
		"awd summary --insert ~/notes/today.md",
	},
	Related: []string{"capture", "check"},
}

var CmdCapture = Command{
	Name:       "capture",
	Synopsis:   "save a day of events for offline replay",
	Brief:      "Save a day of events as a zstd capture",
	Usage:      "awd capture [day] [--out <path>]",
	TableUsage: "awd capture [day]",
	Args:       []Arg{dayArg},
	Flags: []Flag{
		{Name: "--out <path>", Desc: "Write here instead of {capture.dir}/YYYY-MM-DD.jsonl.zst"},
	},
	Description: `Fetches the bucket list and every afkstatus and currentwindow event of
the day from the configured source and writes them as zstd-compressed
JSON lines.

A capture is a source of its own: set source.kind = "capture" (or pass
--source capture) and awd summary replays it, producing the same digest
as the live source did.`,
	Examples: []string{
		"awd capture -1",
		"awd summary -1 --source capture",
	},
	Related: []string{"summary"},
}

var CmdBuckets = Command{
	Name:     "buckets",
	Synopsis: "list buckets of the configured source",
	Brief:    "List buckets and the ones the digest reads",
	Usage:    "awd buckets",
	Description: `Prints every bucket id with its type. The afkstatus and currentwindow
buckets the digest reads from are marked with an asterisk.

Fails when either bucket type is missing or appears more than once.`,
	Related: []string{"check"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config and event source",
	Brief:    "Validate config and event source",
	Usage:    "awd check",
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location
  - Summary settings
  - Source files (sqlite database, capture file or directory)
  - Source reachable and bucket count
  - Exactly one afkstatus and one currentwindow bucket
  - Metrics textfile directory

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
	Related: []string{"init"},
}

var CmdInit = Command{
	Name:       "init",
	Synopsis:   "write a default config file",
	Brief:      "Write a default config file",
	Usage:      "awd init [--url <url>]",
	TableUsage: "awd init",
	Flags: []Flag{
		{Name: "--url <url>", Desc: "aw-server URL (default: http://localhost:5600)"},
	},
	Description: `Writes ~/.config/aw-digest/config.toml (or under $XDG_CONFIG_HOME)
with every setting at its default. An existing file is left alone.`,
	Related: []string{"check"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "awd version",
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdSummary,
	CmdCapture,
	CmdBuckets,
	CmdCheck,
	CmdInit,
	CmdVersion,
}

// Lookup returns the subcommand named name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
