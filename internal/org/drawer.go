package org

import (
	"fmt"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var propertyLineRe = regexp.MustCompile(`^:([^:]+):\s+(.*)$`)

// PropertiesDrawerName is the drawer interpreted as the heading's
// key/value property mapping.
const PropertiesDrawerName = "PROPERTIES"

// LogbookDrawerName is the drawer holding CLOCK entries.
const LogbookDrawerName = "LOGBOOK"

// Drawer is a named block of raw lines between :NAME: and :END: markers.
// The contents are kept verbatim; only the PROPERTIES drawer gets decoded.
type Drawer struct {
	Name     string
	Contents []string
}

// ParseDrawer splits a drawer block (":NAME:\nlines...\n:END:") into its
// name and interior lines.
func ParseDrawer(block string) (*Drawer, error) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("org: empty drawer block: %w", ErrInvalidValue)
	}
	name := strings.Trim(strings.TrimSpace(lines[0]), ":")
	if name == "" {
		return nil, fmt.Errorf("org: drawer block %q has no name line: %w", lines[0], ErrInvalidValue)
	}
	contents := lines[1:]
	if n := len(contents); n > 0 && strings.TrimSpace(contents[n-1]) == ":END:" {
		contents = contents[:n-1]
	}
	return &Drawer{Name: name, Contents: contents}, nil
}

// String reconstructs the drawer block with its trailing :END: marker.
func (d *Drawer) String() string {
	if len(d.Contents) == 0 {
		return ":" + d.Name + ":\n:END:\n"
	}
	return ":" + d.Name + ":\n" + strings.Join(d.Contents, "\n") + "\n:END:\n"
}

// decodeProperties reads ":KEY: VALUE" lines into an ordered mapping.
// Lines that do not match the property shape are skipped.
func decodeProperties(contents []string) *orderedmap.OrderedMap[string, string] {
	props := orderedmap.New[string, string]()
	for _, line := range contents {
		if m := propertyLineRe.FindStringSubmatch(line); m != nil {
			props.Set(m[1], m[2])
		}
	}
	return props
}

// encodeProperties renders an ordered mapping back into drawer lines.
func encodeProperties(props *orderedmap.OrderedMap[string, string]) []string {
	out := make([]string, 0, props.Len())
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, ":"+pair.Key+":"+strings.Repeat(" ", 7)+pair.Value)
	}
	return out
}
