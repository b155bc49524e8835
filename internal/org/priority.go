package org

import (
	"fmt"
	"regexp"
	"strings"
)

var bracketPriorityRe = regexp.MustCompile(`^\[#(.)\]`)

// Priority is a single-letter headline priority drawn from a configured
// ordered set (A/B/C by default). Raising and lowering cycle through the
// set, wrapping at either end.
type Priority struct {
	value   string
	allowed []string
}

// ParsePriority accepts either a bare letter or the bracketed [#X] form.
// A nil or empty allowed set means the default A/B/C.
func ParsePriority(text string, allowed []string) (*Priority, error) {
	v := text
	if m := bracketPriorityRe.FindStringSubmatch(text); m != nil {
		v = m[1]
	}
	if len(allowed) == 0 {
		allowed = []string{"A", "B", "C"}
	}
	p := &Priority{allowed: allowed}
	if err := p.Set(v); err != nil {
		return nil, err
	}
	return p, nil
}

// Value returns the bare priority letter.
func (p *Priority) Value() string { return p.value }

// Set assigns a new letter, which must belong to the allowed set.
func (p *Priority) Set(v string) error {
	for _, a := range p.allowed {
		if a == v {
			p.value = v
			return nil
		}
	}
	return fmt.Errorf("org: priority must be one of %s, got %q: %w",
		strings.Join(p.allowed, "/"), v, ErrInvalidValue)
}

// Raise moves to the next letter in the allowed set, wrapping past the end.
func (p *Priority) Raise() {
	i := p.index()
	p.value = p.allowed[(i+1)%len(p.allowed)]
}

// Lower moves to the previous letter in the allowed set, wrapping past the
// start.
func (p *Priority) Lower() {
	i := p.index()
	p.value = p.allowed[(i-1+len(p.allowed))%len(p.allowed)]
}

func (p *Priority) index() int {
	for i, a := range p.allowed {
		if a == p.value {
			return i
		}
	}
	return 0
}

// String renders the bracketed form.
func (p *Priority) String() string {
	return "[#" + p.value + "]"
}
