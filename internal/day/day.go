// Package day parses the day selector accepted on the command line.
package day

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	offsetRe   = regexp.MustCompile(`^[+-]?\d+$`)
	fullDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthDayRe = regexp.MustCompile(`^\d{2}-\d{2}$`)
)

// InputFormatError reports a day selector that is neither an integer offset
// nor a YYYY-MM-DD / MM-DD date.
type InputFormatError struct {
	Input string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid day %q: want an offset like -1 or a date like 2006-01-02 or 01-02", e.Input)
}

// Parse resolves sel relative to now and returns local midnight of the
// selected day in now's location. An empty selector means today.
func Parse(sel string, now time.Time) (time.Time, error) {
	sel = strings.TrimSpace(sel)
	loc := now.Location()
	today := Midnight(now)

	switch {
	case sel == "":
		return today, nil

	case offsetRe.MatchString(sel):
		n, err := strconv.Atoi(sel)
		if err != nil {
			return time.Time{}, &InputFormatError{Input: sel}
		}
		return today.AddDate(0, 0, n), nil

	case fullDateRe.MatchString(sel):
		t, err := time.ParseInLocation("2006-01-02", sel, loc)
		if err != nil {
			return time.Time{}, &InputFormatError{Input: sel}
		}
		return t, nil

	case monthDayRe.MatchString(sel):
		t, err := time.ParseInLocation("2006-01-02", fmt.Sprintf("%04d-%s", now.Year(), sel), loc)
		if err != nil {
			return time.Time{}, &InputFormatError{Input: sel}
		}
		return t, nil
	}

	return time.Time{}, &InputFormatError{Input: sel}
}

// Midnight returns the start of t's day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Range returns [midnight, next midnight) for the day containing d. The end is
// computed on the calendar so days with a DST change are not 24h long.
func Range(d time.Time) (start, end time.Time) {
	start = Midnight(d)
	return start, start.AddDate(0, 0, 1)
}

// Label formats d as YYYY-MM-DD.
func Label(d time.Time) string {
	return d.Format("2006-01-02")
}
