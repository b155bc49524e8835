package org

import (
	"fmt"
	"regexp"
	"time"
)

// Timestamp layouts. Day-of-week labels in document text are ignored for
// computation and regenerated from the date on rendering.
const (
	TimeFormat = "2006-01-02 Mon 15:04"
	DateFormat = "2006-01-02 Mon"
)

const stampBody = `(\d{4}-\d{2}-\d{2})(?: ([A-Za-z]{2,3}))?` +
	`(?: (\d{1,2}:\d{2})(?:-(\d{1,2}:\d{2}))?)?` +
	`(?: ([.+]?\+\d+[hdwmy]))?(?: (-\d+[hdwmy]))?`

var (
	activeStampRe   = regexp.MustCompile(`^<` + stampBody + `>$`)
	inactiveStampRe = regexp.MustCompile(`^\[` + stampBody + `\]$`)

	// stampScanRe finds timestamp literals of either form inside body text.
	stampScanRe = regexp.MustCompile(`<` + stampBody + `>|\[` + stampBody + `\]`)

	repeaterRe     = regexp.MustCompile(`^[.+]?\+\d+[hdwmy]$`)
	deadlineWarnRe = regexp.MustCompile(`^-\d+[hdwmy]$`)
)

// TimeStamp is one active (<...>) or inactive ([...]) date or date-range
// token. Start and end share a calendar date; the end is a bare clock time
// on the same day. Repeater and deadline-warning suffixes ride along as
// validated strings.
type TimeStamp struct {
	active       bool
	start        time.Time
	end          time.Time
	hasEnd       bool
	hasClock     bool // time-of-day present; rendering omits it otherwise
	repeater     string
	deadlineWarn string
}

// ParseTimeStamp parses a single timestamp literal. Exactly one of the two
// bracket forms matches any given literal.
func ParseTimeStamp(literal string) (*TimeStamp, error) {
	active := true
	m := activeStampRe.FindStringSubmatch(literal)
	if m == nil {
		active = false
		m = inactiveStampRe.FindStringSubmatch(literal)
	}
	if m == nil {
		return nil, fmt.Errorf("org: %q is not a timestamp: %w", literal, ErrInvalidValue)
	}
	date, clock, endClock, repeater, warn := m[1], m[3], m[4], m[5], m[6]

	ts := &TimeStamp{active: active, repeater: repeater, deadlineWarn: warn}
	start, err := combine(date, clock)
	if err != nil {
		return nil, err
	}
	ts.start = start
	ts.hasClock = clock != ""
	if endClock != "" {
		end, err := combine(date, endClock)
		if err != nil {
			return nil, err
		}
		if end.Before(ts.start) {
			return nil, fmt.Errorf("org: timestamp end %s before start %s: %w", endClock, clock, ErrInvalidValue)
		}
		ts.end = end
		ts.hasEnd = true
	}
	return ts, nil
}

// combine builds a full time from a calendar date and an optional HH:MM.
func combine(date, clock string) (time.Time, error) {
	if clock == "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, fmt.Errorf("org: bad timestamp date %q: %w", date, ErrInvalidValue)
		}
		return t, nil
	}
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("org: bad timestamp %q %q: %w", date, clock, ErrInvalidValue)
	}
	return t, nil
}

// Active reports whether the stamp uses angle brackets.
func (t *TimeStamp) Active() bool { return t.active }

// SetActive switches between the angle and square bracket forms.
func (t *TimeStamp) SetActive(active bool) { t.active = active }

// Start returns the combined start time.
func (t *TimeStamp) Start() time.Time { return t.start }

// HasClock reports whether the stamp carries a time of day.
func (t *TimeStamp) HasClock() bool { return t.hasClock }

// SetStart assigns a full start time. It must fall on the same calendar
// date as the end (when one is set) and must not come after it.
func (t *TimeStamp) SetStart(v time.Time) error {
	if t.hasEnd {
		if !sameDate(v, t.end) {
			return fmt.Errorf("org: timestamp start must share the end date: %w", ErrInvalidValue)
		}
		if v.After(t.end) {
			return fmt.Errorf("org: timestamp start after end: %w", ErrInvalidValue)
		}
	}
	t.start = v
	t.hasClock = true
	return nil
}

// SetStartClock assigns the start from a bare HH:MM, reusing the current date.
func (t *TimeStamp) SetStartClock(clock string) error {
	v, err := combine(t.start.Format("2006-01-02"), clock)
	if err != nil {
		return err
	}
	return t.SetStart(v)
}

// End returns the end time and whether one is set.
func (t *TimeStamp) End() (time.Time, bool) { return t.end, t.hasEnd }

// SetEnd assigns a full end time on the same calendar date as the start,
// not before it.
func (t *TimeStamp) SetEnd(v time.Time) error {
	if !sameDate(v, t.start) {
		return fmt.Errorf("org: timestamp end must share the start date: %w", ErrInvalidValue)
	}
	if v.Before(t.start) {
		return fmt.Errorf("org: timestamp end before start: %w", ErrInvalidValue)
	}
	t.end = v
	t.hasEnd = true
	t.hasClock = true
	return nil
}

// SetEndClock assigns the end from a bare HH:MM, reusing the current date.
func (t *TimeStamp) SetEndClock(clock string) error {
	v, err := combine(t.start.Format("2006-01-02"), clock)
	if err != nil {
		return err
	}
	return t.SetEnd(v)
}

// ClearEnd drops the end time, leaving a point timestamp.
func (t *TimeStamp) ClearEnd() {
	t.end = time.Time{}
	t.hasEnd = false
}

// Repeater returns the repeater suffix, empty when unset.
func (t *TimeStamp) Repeater() string { return t.repeater }

// SetRepeater validates and assigns a repeater (.+, ++ or + followed by an
// integer and one of h/d/w/m/y). Empty clears it.
func (t *TimeStamp) SetRepeater(v string) error {
	if v != "" && !repeaterRe.MatchString(v) {
		return fmt.Errorf("org: malformed repeater %q: %w", v, ErrInvalidValue)
	}
	t.repeater = v
	return nil
}

// DeadlineWarn returns the deadline-warning suffix, empty when unset.
func (t *TimeStamp) DeadlineWarn() string { return t.deadlineWarn }

// SetDeadlineWarn validates and assigns a deadline warning (- followed by
// an integer and one of h/d/w/m/y). Empty clears it.
func (t *TimeStamp) SetDeadlineWarn(v string) error {
	if v != "" && !deadlineWarnRe.MatchString(v) {
		return fmt.Errorf("org: malformed deadline warning %q: %w", v, ErrInvalidValue)
	}
	t.deadlineWarn = v
	return nil
}

// String renders the stamp in its original bracket style.
func (t *TimeStamp) String() string {
	layout := DateFormat
	if t.hasClock {
		layout = TimeFormat
	}
	s := t.start.Format(layout)
	if t.hasEnd {
		s += "-" + t.end.Format("15:04")
	}
	if t.repeater != "" {
		s += " " + t.repeater
	}
	if t.deadlineWarn != "" {
		s += " " + t.deadlineWarn
	}
	if t.active {
		return "<" + s + ">"
	}
	return "[" + s + "]"
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
