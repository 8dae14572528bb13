package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for terminal --help output.
func FormatTerminal(c Command) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("awd %s — %s", c.Name, c.Synopsis))
	sections = append(sections, "Usage: "+c.Usage)

	// Args and flags share one description column.
	names := make([]string, 0, len(c.Args)+len(c.Flags))
	for _, a := range c.Args {
		names = append(names, a.Name)
	}
	for _, f := range c.Flags {
		names = append(names, f.Name)
	}
	col := columnWidth(names)

	if len(c.Args) > 0 {
		var b strings.Builder
		b.WriteString("Arguments:")
		for _, a := range c.Args {
			writeRow(&b, a.Name, a.Desc, col)
		}
		sections = append(sections, b.String())
	}

	if len(c.Flags) > 0 {
		var b strings.Builder
		b.WriteString("Flags:")
		for _, f := range c.Flags {
			writeRow(&b, f.Name, f.Desc, col)
		}
		sections = append(sections, b.String())
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		sections = append(sections, "Examples:\n  "+strings.Join(c.Examples, "\n  "))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text (for awd --help / awd help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "awd v%s — %s\n", Version, top.Synopsis)

	b.WriteString("\nUsage:\n")

	type entry struct {
		usage string
		brief string
	}
	entries := make([]entry, 0, len(subs)+1)
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{"awd help [command]", "Show this help"})

	maxWidth := 0
	for _, e := range entries {
		maxWidth = max(maxWidth, len(e.usage))
	}
	for _, e := range entries {
		gap := maxWidth - len(e.usage) + 3
		fmt.Fprintf(&b, "  %s%s%s\n", e.usage, strings.Repeat(" ", gap), e.brief)
	}

	b.WriteString("\nGlobal flags:")
	names := make([]string, len(GlobalFlags))
	for i, f := range GlobalFlags {
		names[i] = f.Name
	}
	col := columnWidth(names)
	for _, f := range GlobalFlags {
		writeRow(&b, f.Name, f.Desc, col)
	}
	b.WriteString("\n")

	b.WriteString(`
Data source: aw-server at http://localhost:5600 unless configured.
Configuration: ~/.config/aw-digest/config.toml
`)
	return b.String()
}

// columnWidth returns the description column for the given names: two spaces
// of indent, the widest name and three spaces of gap.
func columnWidth(names []string) int {
	widest := 0
	for _, n := range names {
		widest = max(widest, len(n))
	}
	return 2 + widest + 3
}

func writeRow(b *strings.Builder, name, desc string, col int) {
	fmt.Fprintf(b, "\n  %s%s%s", name, strings.Repeat(" ", col-2-len(name)), desc)
}
