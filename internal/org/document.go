package org

import "strings"

// Document is a whole outline file: any text before the first headline
// plus the heading tree under a synthetic root. Rendering an unmodified
// document reproduces the parsed text byte-for-byte.
type Document struct {
	preamble string
	root     *Heading
	keywords Keywords
}

// Root returns the synthetic level-0 heading owning the top-level headings.
func (d *Document) Root() *Heading { return d.root }

// Preamble returns the text before the first headline.
func (d *Document) Preamble() string { return d.preamble }

// SetPreamble replaces the text before the first headline.
func (d *Document) SetPreamble(text string) { d.preamble = text }

// Keywords returns the keyword configuration the document was parsed with.
func (d *Document) Keywords() Keywords { return d.keywords }

// Headings flattens the tree into document order.
func (d *Document) Headings() []*Heading {
	var out []*Heading
	var walk func(*Heading)
	walk = func(h *Heading) {
		if !h.IsRoot() {
			out = append(out, h)
		}
		for _, c := range h.children {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// HeadingAt returns the heading at a zero-based document-order position.
func (d *Document) HeadingAt(i int) (*Heading, bool) {
	hs := d.Headings()
	if i < 0 || i >= len(hs) {
		return nil, false
	}
	return hs[i], true
}

// Clocking returns every clock entry in the document, in document order.
func (d *Document) Clocking() []*Clocking {
	var out []*Clocking
	for _, h := range d.Headings() {
		out = append(out, h.Clocking(false)...)
	}
	return out
}

// String renders the whole document.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString(d.preamble)
	d.root.render(&b)
	return b.String()
}
