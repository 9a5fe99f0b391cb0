package core

import (
	"strings"
	"time"
)

// Instant is a wall-clock time tagged with whether its zone offset was part
// of the input. Transactions always persist UTC; the tag decides how a value
// gets there: a known offset converts to the UTC instant, an unknown offset
// means the wall clock is taken as already being UTC (a bare date becomes
// midnight UTC of that date).
type Instant struct {
	Time      time.Time
	ZoneKnown bool
}

// KnownInstant wraps a time whose offset is authoritative.
func KnownInstant(t time.Time) Instant {
	return Instant{Time: t, ZoneKnown: true}
}

// FloatingInstant wraps a wall-clock time with no offset information.
func FloatingInstant(t time.Time) Instant {
	return Instant{Time: t, ZoneKnown: false}
}

// UTC normalizes the instant following the rule above.
func (i Instant) UTC() time.Time {
	if i.ZoneKnown {
		return i.Time.UTC()
	}
	t := i.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

var instantLayouts = []struct {
	layout    string
	zoneKnown bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02", false},
}

// ParseInstant parses a timestamp in RFC 3339 form (offset known), a bare
// date-time (offset unknown), or a bare date.
func ParseInstant(s string) (Instant, error) {
	s = strings.TrimSpace(s)
	for _, l := range instantLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return Instant{Time: t, ZoneKnown: l.zoneKnown}, nil
		}
	}
	return Instant{}, Invalidf("invalid timestamp %q", s)
}

// MonthWindow returns the half-open UTC interval [start of month, start of
// next month) used by every month-scoped aggregation.
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// YearWindow returns the half-open UTC interval covering a calendar year.
func YearWindow(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
