package org

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	starsRe = regexp.MustCompile(`^(\*+) (.*)$`)
	// tagsRe captures the whitespace run before the tag block so tag
	// alignment survives a round trip.
	tagsRe   = regexp.MustCompile(`^(.*?)(\s+)(:(?:[[:word:]@#%]+:)+)$`)
	cookieRe = regexp.MustCompile(`^(.*) (\[\d*%\]|\[\d*/\d*\])$`)

	defaultTagIndent = strings.Repeat(" ", 4)
)

// Headline is the single summary line of a heading: nesting level, an
// optional todo keyword, comment flag, priority, title, progress cookie,
// and tag list. Field order in text is fixed: stars, todo, COMMENT,
// priority, title, cookie, tags.
type Headline struct {
	level     int
	comment   bool
	todo      string
	priority  *Priority
	title     string
	cookie    *Cookie
	tags      []string
	tagIndent string
	keywords  Keywords
}

// NewHeadline builds a bare headline at the given level.
func NewHeadline(level int, title string, kw Keywords) (*Headline, error) {
	if level < 1 {
		return nil, fmt.Errorf("org: headline level %d below 1: %w", level, ErrInvalidValue)
	}
	return &Headline{level: level, title: title, tagIndent: defaultTagIndent, keywords: kw}, nil
}

// ParseHeadline decomposes one headline line. Unrecognised fragments stay
// in the title verbatim so the line re-renders byte-for-byte.
func ParseHeadline(line string, kw Keywords) (*Headline, error) {
	m := starsRe.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("org: %q is not a headline: %w", line, ErrInvalidValue)
	}
	h := &Headline{level: len(m[1]), tagIndent: defaultTagIndent, keywords: kw}
	rest := m[2]

	if tm := tagsRe.FindStringSubmatch(rest); tm != nil {
		rest = tm[1]
		h.tagIndent = tm[2]
		h.tags = strings.Split(strings.Trim(tm[3], ":"), ":")
	}

	for _, keyword := range kw.All() {
		if strings.HasPrefix(rest, keyword+" ") {
			h.todo = keyword
			rest = rest[len(keyword)+1:]
			break
		}
	}

	if strings.HasPrefix(rest, "COMMENT ") {
		h.comment = true
		rest = strings.TrimPrefix(rest, "COMMENT ")
	}

	if pm := bracketPriorityRe.FindStringSubmatch(rest); pm != nil && strings.HasPrefix(rest[len(pm[0]):], " ") {
		p, err := ParsePriority(pm[0], kw.priorities())
		if err != nil {
			return nil, err
		}
		h.priority = p
		rest = rest[len(pm[0])+1:]
	}

	if cm := cookieRe.FindStringSubmatch(rest); cm != nil {
		c, err := ParseCookie(cm[2])
		if err != nil {
			return nil, err
		}
		h.cookie = c
		rest = cm[1]
	}

	h.title = rest
	return h, nil
}

// Level returns the nesting depth (number of stars).
func (h *Headline) Level() int { return h.level }

// SetLevel assigns the nesting depth, which must be at least 1.
func (h *Headline) SetLevel(level int) error {
	if level < 1 {
		return fmt.Errorf("org: headline level %d below 1: %w", level, ErrInvalidValue)
	}
	h.level = level
	return nil
}

// Promote moves the headline up n levels, floored at 1.
func (h *Headline) Promote(n int) {
	h.level -= n
	if h.level < 1 {
		h.level = 1
	}
}

// Demote moves the headline down n levels.
func (h *Headline) Demote(n int) { h.level += n }

// Comment reports whether the headline carries the COMMENT marker.
func (h *Headline) Comment() bool { return h.comment }

// SetComment sets or clears the COMMENT marker.
func (h *Headline) SetComment(v bool) { h.comment = v }

// ToggleComment flips the COMMENT marker.
func (h *Headline) ToggleComment() { h.comment = !h.comment }

// Todo returns the todo keyword, empty when unset.
func (h *Headline) Todo() string { return h.todo }

// SetTodo assigns a todo keyword, which must belong to the configured
// todo or done sets. Empty clears it. The derived done state is checked
// as part of the assignment.
func (h *Headline) SetTodo(keyword string) error {
	if keyword != "" && !h.keywords.IsTodo(keyword) && !h.keywords.IsDone(keyword) {
		return fmt.Errorf("org: todo keyword must be one of %s, got %q: %w",
			strings.Join(h.keywords.All(), ","), keyword, ErrInvalidValue)
	}
	h.todo = keyword
	_, err := h.Done()
	return err
}

// Done derives the completion state from the todo keyword: true for done
// states, false for todo states or no keyword. A keyword outside both
// sets is an invalid state.
func (h *Headline) Done() (bool, error) {
	switch {
	case h.todo == "":
		return false, nil
	case h.keywords.IsDone(h.todo):
		return true, nil
	case h.keywords.IsTodo(h.todo):
		return false, nil
	default:
		return false, fmt.Errorf("org: uncategorized todo state %q: %w", h.todo, ErrInvalidValue)
	}
}

// Priority returns the headline priority, nil when unset.
func (h *Headline) Priority() *Priority { return h.priority }

// SetPriority assigns a priority from a letter or [#X] form; empty clears.
func (h *Headline) SetPriority(text string) error {
	if text == "" {
		h.priority = nil
		return nil
	}
	p, err := ParsePriority(text, h.keywords.priorities())
	if err != nil {
		return err
	}
	h.priority = p
	return nil
}

// RaisePriority cycles the priority one step up; the headline must have one.
func (h *Headline) RaisePriority() error {
	if h.priority == nil {
		return fmt.Errorf("org: headline has no priority to raise: %w", ErrInvalidValue)
	}
	h.priority.Raise()
	return nil
}

// LowerPriority cycles the priority one step down; the headline must have one.
func (h *Headline) LowerPriority() error {
	if h.priority == nil {
		return fmt.Errorf("org: headline has no priority to lower: %w", ErrInvalidValue)
	}
	h.priority.Lower()
	return nil
}

// Title returns the headline title text.
func (h *Headline) Title() string { return h.title }

// SetTitle assigns the title text.
func (h *Headline) SetTitle(title string) { h.title = title }

// Cookie returns the progress cookie, nil when unset.
func (h *Headline) Cookie() *Cookie { return h.cookie }

// SetCookie assigns or clears the progress cookie.
func (h *Headline) SetCookie(c *Cookie) { h.cookie = c }

// Tags returns the tag list in document order.
func (h *Headline) Tags() []string { return h.tags }

// SetTags replaces the tag list.
func (h *Headline) SetTags(tags []string) { h.tags = tags }

// String renders the headline in its fixed field order.
func (h *Headline) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("*", h.level))
	b.WriteByte(' ')
	if h.todo != "" {
		b.WriteString(h.todo)
		b.WriteByte(' ')
	}
	if h.comment {
		b.WriteString("COMMENT ")
	}
	if h.priority != nil {
		b.WriteString(h.priority.String())
		b.WriteByte(' ')
	}
	b.WriteString(h.title)
	if h.cookie != nil {
		b.WriteByte(' ')
		b.WriteString(h.cookie.String())
	}
	if len(h.tags) > 0 {
		b.WriteString(h.tagIndent)
		b.WriteByte(':')
		b.WriteString(strings.Join(h.tags, ":"))
		b.WriteByte(':')
	}
	return b.String()
}
