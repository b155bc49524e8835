package org

import (
	"fmt"
	"time"
)

// Clocking is one time-tracking interval from a LOGBOOK drawer: a start
// and an optional end in the document time format. The duration is always
// derived, never stored.
type Clocking struct {
	start  time.Time
	end    time.Time
	hasEnd bool
	now    func() time.Time // test seam for open intervals
}

// ParseClocking builds an interval from start and end literals in the
// "2006-01-02 Mon 15:04" format. An empty end leaves the clock open.
func ParseClocking(start, end string) (*Clocking, error) {
	c := &Clocking{now: time.Now}
	if err := c.SetStart(start); err != nil {
		return nil, err
	}
	if err := c.SetEnd(end); err != nil {
		return nil, err
	}
	return c, nil
}

// Start returns the interval start.
func (c *Clocking) Start() time.Time { return c.start }

// SetStart reassigns the start from a document-format literal.
func (c *Clocking) SetStart(v string) error {
	t, err := parseClockTime(v)
	if err != nil {
		return err
	}
	if c.hasEnd && c.end.Before(t) {
		return fmt.Errorf("org: clock start %s after end: %w", v, ErrInvalidValue)
	}
	c.start = t
	return nil
}

// End returns the interval end and whether the clock is closed.
func (c *Clocking) End() (time.Time, bool) { return c.end, c.hasEnd }

// SetEnd reassigns the end from a document-format literal; empty reopens
// the clock. The end must not precede the start.
func (c *Clocking) SetEnd(v string) error {
	if v == "" {
		c.end = time.Time{}
		c.hasEnd = false
		return nil
	}
	t, err := parseClockTime(v)
	if err != nil {
		return err
	}
	if t.Before(c.start) {
		return fmt.Errorf("org: clock end %s before start: %w", v, ErrInvalidValue)
	}
	c.end = t
	c.hasEnd = true
	return nil
}

// Open reports whether the interval has no end yet.
func (c *Clocking) Open() bool { return !c.hasEnd }

// Minutes returns the elapsed whole minutes, measured to the end for a
// closed clock and to now for an open one. Leftover seconds of 30 or more
// round the minute up.
func (c *Clocking) Minutes() int {
	end := c.end
	if !c.hasEnd {
		now := c.now
		if now == nil {
			now = time.Now
		}
		end = now()
	}
	secs := int(end.Sub(c.start).Seconds())
	m := secs / 60
	if secs%60 >= 30 {
		m++
	}
	return m
}

// Duration renders the elapsed time as H:MM, prefixed with the day count
// ("Nd H:MM") once it spans days.
func (c *Clocking) Duration() string {
	m := c.Minutes()
	h, m := m/60, m%60
	d, h := h/24, h%24
	if d == 0 {
		return fmt.Sprintf("%d:%02d", h, m)
	}
	return fmt.Sprintf("%dd %d:%02d", d, h, m)
}

// String renders "[start]" for an open clock and
// "[start]--[end] =>  duration" for a closed one.
func (c *Clocking) String() string {
	if !c.hasEnd {
		return "[" + c.start.Format(TimeFormat) + "]"
	}
	return fmt.Sprintf("[%s]--[%s] =>  %s",
		c.start.Format(TimeFormat), c.end.Format(TimeFormat), c.Duration())
}

func parseClockTime(v string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("org: %q does not match clock format %q: %w", v, TimeFormat, ErrInvalidValue)
	}
	return t, nil
}
