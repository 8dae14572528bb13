package help

import (
	"fmt"
	"strings"
	"time"
)

const manual = "aw-digest Manual"

// page accumulates one man page.
type page struct {
	b strings.Builder
}

func (p *page) header(name, date string) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	fmt.Fprintf(&p.b, ".TH %s 1 %q %q %q\n", strings.ToUpper(name), date, "awd "+Version, manual)
}

func (p *page) section(title string) {
	p.b.WriteString(".SH " + title + "\n")
}

func (p *page) line(s string) {
	p.b.WriteString(s + "\n")
}

// item writes a tagged paragraph.
func (p *page) item(term, desc string) {
	fmt.Fprintf(&p.b, ".TP\n.B %s\n%s\n", term, escapeRoff(desc))
}

// paragraphs writes text with blank lines turned into single .PP breaks.
func (p *page) paragraphs(text string) {
	blank := false
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			if !blank {
				p.line(".PP")
			}
			blank = true
			continue
		}
		blank = false
		p.line(escapeRoff(l))
	}
}

// seeAlso lists section 1 pages by name.
func (p *page) seeAlso(names []string) {
	p.section("SEE ALSO")
	refs := make([]string, len(names))
	for i, n := range names {
		refs[i] = fmt.Sprintf(".BR %s (1)", escapeRoff(n))
	}
	p.line(strings.Join(refs, ",\n"))
}

// FormatRoff renders a subcommand man page. An empty date means today.
func FormatRoff(c Command, date string) string {
	var p page
	p.header(c.ManName(), date)

	p.section("NAME")
	p.line(c.ManName() + ` \- ` + escapeRoff(c.Synopsis))
	p.section("SYNOPSIS")
	p.line(".B " + escapeRoff(c.Usage))

	if c.Description != "" {
		p.section("DESCRIPTION")
		p.paragraphs(c.Description)
	}

	if len(c.Args) > 0 || len(c.Flags) > 0 {
		p.section("OPTIONS")
		for _, a := range c.Args {
			p.item(escapeRoff(a.Name), a.Desc)
		}
		for _, f := range c.Flags {
			p.item(escapeRoff(f.Name), f.Desc)
		}
	}

	if len(c.Examples) > 0 {
		p.section("EXAMPLES")
		p.line(".nf")
		for _, e := range c.Examples {
			p.line(escapeRoff(e))
		}
		p.line(".fi")
	}

	p.section("EXIT STATUS")
	p.line("0 on success, 1 on any error or failed check.")

	refs := []string{"awd"}
	for _, r := range c.Related {
		if rc, ok := Lookup(r); ok {
			refs = append(refs, rc.ManName())
		}
	}
	p.seeAlso(refs)
	return p.b.String()
}

// FormatRoffTopLevel renders awd.1, listing every subcommand.
func FormatRoffTopLevel(top Command, subs []Command, date string) string {
	var p page
	p.header(top.ManName(), date)

	p.section("NAME")
	p.line(`awd \- ` + escapeRoff(top.Synopsis))
	p.section("SYNOPSIS")
	p.line(".B awd\n.I command\n.RI [ options ]")

	p.section("DESCRIPTION")
	p.line(".B awd")
	p.line(escapeRoff("(aw-digest) turns one day of ActivityWatch presence and window"))
	p.line("events into a markdown digest of the applications used, grouped")
	p.line(escapeRoff("into fixed-length time buckets."))

	p.section("GLOBAL OPTIONS")
	for _, f := range GlobalFlags {
		p.item(escapeRoff(f.Name), f.Desc)
	}

	p.section("COMMANDS")
	names := make([]string, len(subs))
	for i, s := range subs {
		p.item(`"`+escapeRoff(s.tableUsage())+`"`, s.Brief)
		names[i] = s.ManName()
	}

	p.section("FILES")
	p.item(escapeRoff("~/.config/aw-digest/config.toml"), "Configuration; $XDG_CONFIG_HOME takes precedence.")
	p.item(escapeRoff("{capture.dir}/YYYY-MM-DD.jsonl.zst"), "Day captures written by awd capture.")

	p.seeAlso(names)
	return p.b.String()
}

// escapeRoff escapes backslashes, leading dots and hyphens.
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = `\&` + s
	}
	return strings.ReplaceAll(s, "-", `\-`)
}
