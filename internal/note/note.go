// Package note writes a digest into a markdown note under its own heading.
package note

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Actions reported by Insert.
const (
	ActionCreate  = "CREATE"
	ActionAppend  = "UPDATE"
	ActionReplace = "REPLACE"
)

// Heading returns the section heading used for a day label.
func Heading(day string) string {
	return "## Activity " + day
}

// Insert places body under heading in the markdown file at path.
//
// A missing file is created. When the heading already exists, its section
// (up to the next heading of the same or higher level) is replaced, so
// running twice for the same day leaves one section. Otherwise the section
// is appended.
func Insert(path, heading, body string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("read note: %w", err)
	}

	section := heading + "\n\n" + strings.TrimRight(body, "\n") + "\n"

	var out, action string
	switch {
	case err != nil:
		action = ActionCreate
		out = section
	default:
		lines := strings.Split(string(data), "\n")
		if start, end, ok := findSection(lines, heading); ok {
			action = ActionReplace
			out = strings.Join(lines[:start], "\n")
			if start > 0 {
				out += "\n"
			}
			out += section
			if end < len(lines) {
				out += "\n" + strings.Join(lines[end:], "\n")
			}
		} else {
			action = ActionAppend
			out = string(data)
			if len(out) > 0 && !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			if len(out) > 0 {
				out += "\n"
			}
			out += section
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create note dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	return action, nil
}

// findSection returns the line span [start, end) of the section opened by
// heading. end is the next heading of the same or higher level, or len(lines).
func findSection(lines []string, heading string) (int, int, bool) {
	level := headingLevel(heading)
	inFence := false

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if start < 0 {
			if strings.TrimRight(line, " \t") == heading {
				start = i
			}
			continue
		}
		if l := headingLevel(line); l > 0 && l <= level {
			return start, i, true
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	return start, len(lines), true
}

func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n == len(line) || line[n] != ' ' {
		return 0
	}
	return n
}
