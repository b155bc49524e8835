package org

import (
	"fmt"
	"strings"
)

// Scheduling keywords in canonical render order.
const (
	KeywordClosed    = "closed"
	KeywordScheduled = "scheduled"
	KeywordDeadline  = "deadline"
)

var schedulingKeywords = []string{KeywordClosed, KeywordScheduled, KeywordDeadline}

// Scheduling bundles at most one timestamp per scheduling keyword.
type Scheduling struct {
	stamps map[string]*TimeStamp
}

// NewScheduling returns an empty bundle.
func NewScheduling() *Scheduling {
	return &Scheduling{stamps: make(map[string]*TimeStamp, len(schedulingKeywords))}
}

// Get returns the timestamp for a keyword, nil when unset.
func (s *Scheduling) Get(keyword string) *TimeStamp {
	return s.stamps[canonicalKeyword(keyword)]
}

// Closed returns the CLOSED stamp, nil when unset.
func (s *Scheduling) Closed() *TimeStamp { return s.stamps[KeywordClosed] }

// Scheduled returns the SCHEDULED stamp, nil when unset.
func (s *Scheduling) Scheduled() *TimeStamp { return s.stamps[KeywordScheduled] }

// Deadline returns the DEADLINE stamp, nil when unset.
func (s *Scheduling) Deadline() *TimeStamp { return s.stamps[KeywordDeadline] }

// Set assigns a timestamp to a keyword (a trailing colon and case are
// normalised away), applying the keyword's constraints:
//
//   - closed stamps become inactive point markers: end, repeater, and
//     deadline warning are stripped;
//   - scheduled and deadline stamps become active;
//   - only deadlines carry a deadline warning.
//
// A nil timestamp clears the keyword.
func (s *Scheduling) Set(keyword string, ts *TimeStamp) error {
	kw := canonicalKeyword(keyword)
	if !validSchedulingKeyword(kw) {
		return fmt.Errorf("org: scheduling keyword must be one of %s, got %q: %w",
			strings.Join(schedulingKeywords, "/"), keyword, ErrInvalidValue)
	}
	if ts == nil {
		delete(s.stamps, kw)
		return nil
	}
	switch kw {
	case KeywordClosed:
		ts.SetActive(false)
		ts.ClearEnd()
		ts.repeater = ""
		ts.deadlineWarn = ""
	case KeywordScheduled, KeywordDeadline:
		ts.SetActive(true)
	}
	if kw != KeywordDeadline {
		ts.deadlineWarn = ""
	}
	s.stamps[kw] = ts
	return nil
}

// Merge combines two bundles into a new one. It fails when both operands
// define the same keyword; otherwise each keyword takes whichever operand
// defines it.
func (s *Scheduling) Merge(other *Scheduling) (*Scheduling, error) {
	for _, kw := range schedulingKeywords {
		if s.stamps[kw] != nil && other.stamps[kw] != nil {
			return nil, fmt.Errorf("org: both operands define scheduling keyword %q: %w", kw, ErrInvalidValue)
		}
	}
	out := NewScheduling()
	for _, kw := range schedulingKeywords {
		if ts := s.stamps[kw]; ts != nil {
			out.stamps[kw] = ts
		} else if ts := other.stamps[kw]; ts != nil {
			out.stamps[kw] = ts
		}
	}
	return out, nil
}

// Empty reports whether no keyword is set.
func (s *Scheduling) Empty() bool { return len(s.stamps) == 0 }

// String renders the set keywords as space-joined "KEYWORD: timestamp"
// pairs in closed, scheduled, deadline order.
func (s *Scheduling) String() string {
	parts := make([]string, 0, len(s.stamps))
	for _, kw := range schedulingKeywords {
		if ts := s.stamps[kw]; ts != nil {
			parts = append(parts, strings.ToUpper(kw)+": "+ts.String())
		}
	}
	return strings.Join(parts, " ")
}

func canonicalKeyword(keyword string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(keyword), ":"))
}

func validSchedulingKeyword(kw string) bool {
	for _, v := range schedulingKeywords {
		if v == kw {
			return true
		}
	}
	return false
}
