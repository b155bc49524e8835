package org

import (
	"fmt"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var clockLineRe = regexp.MustCompile(
	`^\s*CLOCK:\s*\[(\d{4}-\d{2}-\d{2})(?: [A-Za-z]{2,3})? (\d{1,2}:\d{2})\]` +
		`(?:--\[(\d{4}-\d{2}-\d{2})(?: [A-Za-z]{2,3})? (\d{1,2}:\d{2})\])?`)

// Heading is one node of the outline tree: a headline plus its scheduling
// line, drawers, properties, body text, and the timestamps and clock
// entries found in them, together with the structural links. The parent
// and sibling references are non-owning; children are owned in document
// order. The sibling marker records the preceding sibling (or, transiently
// during a promotion, the former parent) and is what demotion nests under.
type Heading struct {
	headline   *Headline
	scheduling *Scheduling
	drawers    []*Drawer
	properties *orderedmap.OrderedMap[string, string]
	propsDirty bool
	body       string
	timestamps []*TimeStamp
	clocks     []*Clocking

	parent   *Heading
	sibling  *Heading
	children []*Heading
}

// NewHeading assembles a heading from its tokenized components: the
// headline, an optional scheduling bundle, the drawer blocks in document
// order, and the raw body text. The body is scanned for timestamps, the
// PROPERTIES drawer is decoded into the property mapping, and CLOCK lines
// are read out of the LOGBOOK drawer.
func NewHeading(headline *Headline, scheduling *Scheduling, drawers []*Drawer, body string) (*Heading, error) {
	if headline == nil {
		return nil, fmt.Errorf("org: heading requires a headline: %w", ErrInvalidValue)
	}
	h := &Heading{
		headline:   headline,
		scheduling: scheduling,
		drawers:    drawers,
		properties: orderedmap.New[string, string](),
		body:       body,
	}
	h.timestamps = scanTimestamps(body)
	for _, d := range drawers {
		switch d.Name {
		case PropertiesDrawerName:
			h.properties = decodeProperties(d.Contents)
		case LogbookDrawerName:
			clocks, err := parseClockLines(d.Contents)
			if err != nil {
				return nil, err
			}
			h.clocks = append(h.clocks, clocks...)
		}
	}
	return h, nil
}

// newRoot returns the synthetic level-0 heading owning a document's
// top-level headings. It renders as nothing but its children.
func newRoot() *Heading {
	return &Heading{properties: orderedmap.New[string, string]()}
}

func scanTimestamps(body string) []*TimeStamp {
	var out []*TimeStamp
	for _, lit := range stampScanRe.FindAllString(body, -1) {
		ts, err := ParseTimeStamp(lit)
		if err != nil {
			continue
		}
		out = append(out, ts)
	}
	return out
}

func parseClockLines(contents []string) ([]*Clocking, error) {
	var out []*Clocking
	for _, line := range contents {
		m := clockLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// The weekday label in the file is decorative; rebuild the
		// literal from the date so mislabeled lines still parse.
		start, err := combine(m[1], m[2])
		if err != nil {
			return nil, err
		}
		end := ""
		if m[3] != "" {
			e, err := combine(m[3], m[4])
			if err != nil {
				return nil, err
			}
			end = e.Format(TimeFormat)
		}
		c, err := ParseClocking(start.Format(TimeFormat), end)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Headline returns the heading's summary line.
func (h *Heading) Headline() *Headline { return h.headline }

// Level returns the headline's nesting level; the synthetic root is 0.
func (h *Heading) Level() int {
	if h.headline == nil {
		return 0
	}
	return h.headline.Level()
}

// IsRoot reports whether this is a document's synthetic root.
func (h *Heading) IsRoot() bool { return h.headline == nil }

// Scheduling returns the scheduling bundle, nil when the heading has none.
func (h *Heading) Scheduling() *Scheduling { return h.scheduling }

// SetScheduling assigns or clears the scheduling bundle.
func (h *Heading) SetScheduling(s *Scheduling) { h.scheduling = s }

// Body returns the raw body text.
func (h *Heading) Body() string { return h.body }

// SetBody replaces the body text and rescans it for timestamps.
func (h *Heading) SetBody(body string) {
	h.body = body
	h.timestamps = scanTimestamps(body)
}

// Timestamps returns the timestamps found in the body, in order.
func (h *Heading) Timestamps() []*TimeStamp { return h.timestamps }

// Property looks up one property value.
func (h *Heading) Property(key string) (string, bool) {
	return h.properties.Get(key)
}

// Properties returns the ordered property mapping. Mutating it directly
// bypasses the drawer regeneration; prefer SetProperty/DeleteProperty.
func (h *Heading) Properties() *orderedmap.OrderedMap[string, string] { return h.properties }

// SetProperty adds or updates a property; the PROPERTIES drawer is
// regenerated from the mapping on the next render.
func (h *Heading) SetProperty(key, value string) {
	h.properties.Set(key, value)
	h.propsDirty = true
}

// DeleteProperty removes a property.
func (h *Heading) DeleteProperty(key string) {
	h.properties.Delete(key)
	h.propsDirty = true
}

// Drawers returns the heading's drawers. When the property mapping has
// been modified, the PROPERTIES drawer is regenerated from the live map
// first; otherwise the original drawer text is returned verbatim so that
// untouched documents round-trip byte-for-byte.
func (h *Heading) Drawers() []*Drawer {
	if h.propsDirty {
		regenerated := &Drawer{Name: PropertiesDrawerName, Contents: encodeProperties(h.properties)}
		replaced := false
		for i, d := range h.drawers {
			if d.Name == PropertiesDrawerName {
				h.drawers[i] = regenerated
				replaced = true
				break
			}
		}
		if !replaced && h.properties.Len() > 0 {
			h.drawers = append([]*Drawer{regenerated}, h.drawers...)
		}
		h.propsDirty = false
	}
	return h.drawers
}

// SetDrawers replaces the drawer list and re-decodes PROPERTIES and
// LOGBOOK contents.
func (h *Heading) SetDrawers(drawers []*Drawer) error {
	h.drawers = drawers
	h.propsDirty = false
	h.properties = orderedmap.New[string, string]()
	h.clocks = nil
	for _, d := range drawers {
		switch d.Name {
		case PropertiesDrawerName:
			h.properties = decodeProperties(d.Contents)
		case LogbookDrawerName:
			clocks, err := parseClockLines(d.Contents)
			if err != nil {
				return err
			}
			h.clocks = append(h.clocks, clocks...)
		}
	}
	return nil
}

// Clocking returns the heading's clock entries, optionally concatenated
// with every descendant's entries in document order.
func (h *Heading) Clocking(includeChildren bool) []*Clocking {
	out := append([]*Clocking(nil), h.clocks...)
	if includeChildren {
		for _, c := range h.children {
			out = append(out, c.Clocking(true)...)
		}
	}
	return out
}

// Parent returns the owning heading, nil for the root.
func (h *Heading) Parent() *Heading { return h.parent }

// Children returns the owned child headings in document order.
func (h *Heading) Children() []*Heading { return h.children }

// Sibling returns the transient sibling marker.
func (h *Heading) Sibling() *Heading { return h.sibling }

// SetSibling assigns the sibling marker; the tree assembler uses this to
// record each heading's preceding sibling.
func (h *Heading) SetSibling(s *Heading) { h.sibling = s }

// AddChild attaches a heading. With new=true it is appended as the last
// child. With new=false it is inserted immediately after its recorded
// sibling marker, or at the front when the marker is unset; a marker that
// is not among the children is a bookkeeping failure.
func (h *Heading) AddChild(child *Heading, isNew bool) error {
	if isNew || len(h.children) == 0 {
		child.parent = h
		h.children = append(h.children, child)
		return nil
	}
	if child.sibling == nil {
		child.parent = h
		h.children = append([]*Heading{child}, h.children...)
		return nil
	}
	idx := headingIndex(h.children, child.sibling)
	if idx < 0 {
		return fmt.Errorf("org: re-insertion point %q is not a child of %q: %w",
			headingName(child.sibling), headingName(h), ErrBadTree)
	}
	child.parent = h
	h.children = append(h.children[:idx+1], append([]*Heading{child}, h.children[idx+1:]...)...)
	return nil
}

// RemoveChild detaches a child heading; unknown headings are ignored.
func (h *Heading) RemoveChild(child *Heading) {
	idx := headingIndex(h.children, child)
	if idx < 0 {
		return
	}
	h.children = append(h.children[:idx], h.children[idx+1:]...)
	child.parent = nil
}

// Promote moves the heading up one nesting level. The heading must be a
// leaf (use PromoteTree otherwise) and must have both a parent and a
// grandparent. Its former following siblings are pulled underneath it:
// they were nested one level below the slot the heading now occupies.
// All preconditions are checked before the first link is rewritten, so a
// failed call leaves the tree untouched.
func (h *Heading) Promote() error {
	if len(h.children) > 0 {
		return fmt.Errorf("org: promote %q: %w (use PromoteTree)", headingName(h), ErrOrphan)
	}
	return h.promoteNode()
}

// promoteNode is Promote without the leaf guard; PromoteTree relies on it
// after detaching the subtree.
func (h *Heading) promoteNode() error {
	parent := h.parent
	if parent == nil || parent.parent == nil {
		return fmt.Errorf("org: promote %q: %w", headingName(h), ErrNoGrandparent)
	}
	grand := parent.parent
	idx := headingIndex(parent.children, h)
	if idx < 0 {
		return fmt.Errorf("org: promote %q: heading missing from its parent's children: %w",
			headingName(h), ErrBadTree)
	}
	if headingIndex(grand.children, parent) < 0 {
		return fmt.Errorf("org: promote %q: grandparent is missing the original parent: %w",
			headingName(h), ErrBadTree)
	}

	h.headline.Promote(1)

	// The former parent becomes the sibling marker: it locates the
	// re-insertion point among the grandparent's children.
	h.sibling = parent

	following := append([]*Heading(nil), parent.children[idx+1:]...)
	parent.children = parent.children[:idx]
	if len(following) > 0 {
		following[0].sibling = nil
		for _, s := range following {
			s.parent = h
		}
	}
	h.children = following

	h.parent = grand
	return grand.AddChild(h, false)
}

// PromoteTree moves the heading and its whole subtree up one level: the
// heading promotes as in Promote (adopting its former following siblings),
// and its pre-promotion children keep their structure, re-attached ahead
// of the adopted siblings with their levels decremented recursively.
func (h *Heading) PromoteTree() error {
	pre := h.children
	h.children = nil
	if err := h.promoteNode(); err != nil {
		h.children = pre
		return err
	}
	adopted := h.children
	for _, c := range pre {
		c.parent = h
		c.promoteLevels()
	}
	if len(pre) > 0 && len(adopted) > 0 {
		adopted[0].sibling = pre[len(pre)-1]
	}
	h.children = append(pre, adopted...)
	return nil
}

// promoteLevels decrements the subtree's headline levels, floored at 1.
func (h *Heading) promoteLevels() {
	h.headline.Promote(1)
	for _, c := range h.children {
		c.promoteLevels()
	}
}

// Demote moves the heading down one nesting level, nesting it under its
// sibling marker as that heading's last child. The heading's own children
// do not stay attached: they become the adopter's children immediately
// after the demoted heading, keeping document order, with the first
// child's marker pointing at the demoted heading so a subsequent
// DemoteTree pass can collect them. A heading without a sibling marker
// has nothing to adopt it and the call fails with the tree untouched.
func (h *Heading) Demote() error {
	adopter := h.sibling
	if adopter == nil {
		return fmt.Errorf("org: demote %q: %w", headingName(h), ErrNoAdopter)
	}
	parent := h.parent
	if parent == nil {
		return fmt.Errorf("org: demote %q: heading has no parent: %w", headingName(h), ErrBadTree)
	}
	idx := headingIndex(parent.children, h)
	if idx < 0 {
		return fmt.Errorf("org: demote %q: heading missing from its parent's children: %w",
			headingName(h), ErrBadTree)
	}

	h.headline.Demote(1)

	// Preserve the sibling chain across the removal.
	if idx+1 < len(parent.children) {
		parent.children[idx+1].sibling = h.sibling
	}

	pre := h.children
	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)

	h.parent = adopter
	if n := len(adopter.children); n > 0 {
		h.sibling = adopter.children[n-1]
	} else {
		h.sibling = nil
	}
	adopter.children = append(adopter.children, h)

	if len(pre) > 0 {
		pre[0].sibling = h
		for _, c := range pre {
			c.parent = adopter
			adopter.children = append(adopter.children, c)
		}
	}
	h.children = nil
	return nil
}

// DemoteTree moves the heading and its whole subtree down one level:
// Demote leaves the children as the adopter's children right behind the
// demoted heading with their markers chained to it, and the recursion
// nests each of them (and their own subtrees) back underneath it.
func (h *Heading) DemoteTree() error {
	pre := append([]*Heading(nil), h.children...)
	if err := h.Demote(); err != nil {
		return err
	}
	for _, c := range pre {
		if err := c.DemoteTree(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the heading and its subtree: headline line, scheduling
// line, drawers, raw body, then each child in document order.
func (h *Heading) String() string {
	var b strings.Builder
	h.render(&b)
	return b.String()
}

func (h *Heading) render(b *strings.Builder) {
	if !h.IsRoot() {
		b.WriteString(h.headline.String())
		b.WriteByte('\n')
		if h.scheduling != nil && !h.scheduling.Empty() {
			b.WriteString(h.scheduling.String())
			b.WriteByte('\n')
		}
		for _, d := range h.Drawers() {
			b.WriteString(d.String())
		}
		b.WriteString(h.body)
	}
	for _, c := range h.children {
		c.render(b)
	}
}

func headingIndex(list []*Heading, h *Heading) int {
	for i, c := range list {
		if c == h {
			return i
		}
	}
	return -1
}

// headingName labels a heading for error messages.
func headingName(h *Heading) string {
	if h == nil || h.IsRoot() {
		return "<root>"
	}
	return h.headline.Title()
}
