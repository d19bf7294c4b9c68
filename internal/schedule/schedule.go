// Package schedule holds the interval and wall-clock arithmetic shared by
// availability queries and the booking ledger.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Overlaps reports whether a stored window [s,e) conflicts with the query window [S,E).
// The three clauses mirror OverlapSQL exactly; keep them in sync.
func Overlaps(s, e, S, E time.Time) bool {
	return (!s.After(S) && e.After(S)) ||
		(s.Before(E) && !e.Before(E)) ||
		(!s.Before(S) && !e.After(E))
}

// OverlapSQL renders the Overlaps test as a PostgreSQL predicate over the given
// columns and placeholders.
func OverlapSQL(startCol, endCol, startArg, endArg string) string {
	return fmt.Sprintf(
		"((%[1]s <= %[3]s AND %[2]s > %[3]s) OR (%[1]s < %[4]s AND %[2]s >= %[4]s) OR (%[1]s >= %[3]s AND %[2]s <= %[4]s))",
		startCol, endCol, startArg, endArg,
	)
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// At places the clock on the calendar day of day, in loc.
func (c Clock) At(day time.Time, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// Duration is a bookable session length offered for a slot.
type Duration struct {
	Minutes int    `json:"duration"`
	Label   string `json:"label"`
}

var standardDurations = []int{30, 60, 90, 120}

// StandardDurations lists the standard session lengths that end no later than close.
func StandardDurations(start, close time.Time) []Duration {
	maxMinutes := int(close.Sub(start) / time.Minute)

	out := make([]Duration, 0, len(standardDurations))
	for _, d := range standardDurations {
		if d <= maxMinutes {
			out = append(out, Duration{Minutes: d, Label: ShortLabel(d)})
		}
	}
	return out
}

// ShortLabel renders minutes as "1h 30min".
func ShortLabel(minutes int) string {
	var parts []string
	if minutes >= 60 {
		parts = append(parts, fmt.Sprintf("%dh", minutes/60))
	}
	if minutes%60 > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", minutes%60))
	}
	return strings.Join(parts, " ")
}

// LongLabel renders minutes as "1 hour and 30 minutes".
func LongLabel(minutes int) string {
	hours, mins := minutes/60, minutes%60

	var b strings.Builder
	if hours > 0 {
		b.WriteString(fmt.Sprintf("%d hour%s", hours, plural(hours)))
	}
	if hours > 0 && mins > 0 {
		b.WriteString(" and ")
	}
	if mins > 0 {
		b.WriteString(fmt.Sprintf("%d minute%s", mins, plural(mins)))
	}
	return b.String()
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
