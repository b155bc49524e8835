// Package org models plain-text outline documents: a tree of headings
// carrying scheduling metadata, properties, drawers, body text, and clock
// entries. Parsing and rendering are exact inverses for unmodified input.
package org

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headlineStartRe  = regexp.MustCompile(`^\*+ `)
	schedulingLineRe = regexp.MustCompile(`^(CLOSED|SCHEDULED|DEADLINE):\s`)
	schedulingPairRe = regexp.MustCompile(
		`(CLOSED|SCHEDULED|DEADLINE):\s+(<` + stampBody + `>|\[` + stampBody + `\])`)
	drawerStartRe = regexp.MustCompile(`^:([A-Za-z0-9_@-]+):$`)
)

// Parse tokenizes a whole document and assembles the heading tree.
func Parse(text string, kw Keywords) (*Document, error) {
	lines := splitLines(text)

	doc := &Document{root: newRoot(), keywords: kw}

	i := 0
	var preamble strings.Builder
	for i < len(lines) && !headlineStartRe.MatchString(lines[i]) {
		preamble.WriteString(lines[i])
		i++
	}
	doc.preamble = preamble.String()

	var headings []*Heading
	for i < len(lines) {
		h, next, err := parseHeadingUnit(lines, i, kw)
		if err != nil {
			return nil, err
		}
		headings = append(headings, h)
		i = next
	}

	assemble(doc.root, headings)
	return doc, nil
}

// parseHeadingUnit consumes one headline line plus its scheduling line,
// drawer blocks, and body, returning the heading and the index of the
// next headline.
func parseHeadingUnit(lines []string, i int, kw Keywords) (*Heading, int, error) {
	headline, err := ParseHeadline(strings.TrimSuffix(lines[i], "\n"), kw)
	if err != nil {
		return nil, 0, err
	}
	i++

	var scheduling *Scheduling
	if i < len(lines) && schedulingLineRe.MatchString(lines[i]) {
		scheduling, err = ParseScheduling(strings.TrimSuffix(lines[i], "\n"))
		if err != nil {
			return nil, 0, err
		}
		i++
	}

	var drawers []*Drawer
	for i < len(lines) {
		end, ok := drawerEnd(lines, i)
		if !ok {
			break
		}
		d, err := ParseDrawer(strings.Join(lines[i:end+1], ""))
		if err != nil {
			return nil, 0, err
		}
		drawers = append(drawers, d)
		i = end + 1
	}

	var body strings.Builder
	for i < len(lines) && !headlineStartRe.MatchString(lines[i]) {
		body.WriteString(lines[i])
		i++
	}

	h, err := NewHeading(headline, scheduling, drawers, body.String())
	if err != nil {
		return nil, 0, err
	}
	return h, i, nil
}

// drawerEnd reports whether a drawer block starts at line i and, if so,
// where its :END: line sits. An unterminated drawer is left to the body.
func drawerEnd(lines []string, i int) (int, bool) {
	name := drawerStartRe.FindStringSubmatch(strings.TrimSuffix(lines[i], "\n"))
	if name == nil || name[1] == "END" {
		return 0, false
	}
	for j := i + 1; j < len(lines); j++ {
		if headlineStartRe.MatchString(lines[j]) {
			return 0, false
		}
		if strings.TrimSuffix(lines[j], "\n") == ":END:" {
			return j, true
		}
	}
	return 0, false
}

// ParseScheduling reads a scheduling line of space-separated
// "KEYWORD: timestamp" pairs. Each pair is applied through the keyword's
// constraints and the pairs are merged, so a repeated keyword fails.
// Interior whitespace is not preserved: a line with extra spacing between
// keyword and timestamp re-renders with canonical single spaces, the one
// normalization the renderer applies to otherwise-unmodified input.
func ParseScheduling(line string) (*Scheduling, error) {
	matches := schedulingPairRe.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("org: %q is not a scheduling line: %w", line, ErrInvalidValue)
	}
	result := NewScheduling()
	for _, m := range matches {
		ts, err := ParseTimeStamp(m[2])
		if err != nil {
			return nil, err
		}
		single := NewScheduling()
		if err := single.Set(m[1], ts); err != nil {
			return nil, err
		}
		result, err = result.Merge(single)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// assemble links headings into the tree in document order: each heading
// attaches under the deepest preceding heading with a smaller level, and
// its sibling marker records the preceding sibling at that parent.
func assemble(root *Heading, headings []*Heading) {
	cur := root
	for _, h := range headings {
		for cur != root && cur.Level() >= h.Level() {
			cur = cur.parent
		}
		if n := len(cur.children); n > 0 {
			h.sibling = cur.children[n-1]
		}
		_ = cur.AddChild(h, true)
		cur = h
	}
}

// splitLines splits text into lines that keep their trailing newline, so
// concatenating them restores the input exactly.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
