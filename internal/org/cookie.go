package org

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	percentCookieRe  = regexp.MustCompile(`\[(\d*)%\]`)
	progressCookieRe = regexp.MustCompile(`\[(\d*)/(\d*)\]`)
)

// CookieKind distinguishes the two progress-cookie notations.
type CookieKind string

const (
	CookiePercent  CookieKind = "percent"  // [40%]
	CookieProgress CookieKind = "progress" // [2/5]
)

// Cookie is an inline progress marker on a headline: m out of n done, or a
// bare percentage. Invariant: 0 <= m <= n.
type Cookie struct {
	kind CookieKind
	m, n int
}

// ParseCookie extracts a cookie from a text fragment. A bare [%] means 0%.
func ParseCookie(text string) (*Cookie, error) {
	if m := percentCookieRe.FindStringSubmatch(text); m != nil {
		return newCookie(CookiePercent, atoiOrZero(m[1]), 100)
	}
	if m := progressCookieRe.FindStringSubmatch(text); m != nil {
		return newCookie(CookieProgress, atoiOrZero(m[1]), atoiOrZero(m[2]))
	}
	return nil, fmt.Errorf("org: %q is not a progress cookie: %w", text, ErrInvalidValue)
}

func newCookie(kind CookieKind, m, n int) (*Cookie, error) {
	if m > n {
		return nil, fmt.Errorf("org: meaningless cookie value %d/%d: %w", m, n, ErrInvalidValue)
	}
	return &Cookie{kind: kind, m: m, n: n}, nil
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Kind returns the cookie notation.
func (c *Cookie) Kind() CookieKind { return c.kind }

// SetKind switches notation. Going to percent rescales m to an integer
// percentage of n and fixes n at 100; going to progress keeps the current
// numbers. Any other kind is rejected.
func (c *Cookie) SetKind(kind CookieKind) error {
	if kind == c.kind {
		return nil
	}
	switch kind {
	case CookiePercent:
		if c.n == 0 {
			c.m = 0
		} else {
			c.m = c.m * 100 / c.n
		}
		c.n = 100
	case CookieProgress:
		// Type tag changes only.
	default:
		return fmt.Errorf("org: unknown cookie kind %q: %w", kind, ErrInvalidValue)
	}
	c.kind = kind
	return nil
}

// M returns the progress numerator.
func (c *Cookie) M() int { return c.m }

// SetM updates the numerator, rejecting values above n.
func (c *Cookie) SetM(m int) error {
	if m > c.n {
		return fmt.Errorf("org: cookie progress %d exceeds total %d: %w", m, c.n, ErrInvalidValue)
	}
	if m < 0 {
		return fmt.Errorf("org: cookie progress %d is negative: %w", m, ErrInvalidValue)
	}
	c.m = m
	return nil
}

// N returns the progress denominator.
func (c *Cookie) N() int { return c.n }

// SetN updates the denominator, rejecting values below m.
func (c *Cookie) SetN(n int) error {
	if n < c.m {
		return fmt.Errorf("org: cookie total %d below progress %d: %w", n, c.m, ErrInvalidValue)
	}
	c.n = n
	return nil
}

// String renders the cookie in its literal form.
func (c *Cookie) String() string {
	if c.kind == CookieProgress {
		return fmt.Sprintf("[%d/%d]", c.m, c.n)
	}
	return fmt.Sprintf("[%d%%]", c.m)
}
