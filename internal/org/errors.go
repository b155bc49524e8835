package org

import "errors"

// Sentinel errors for the outline model. Validation failures wrap
// ErrInvalidValue; structural preconditions on promote/demote wrap one of
// the tree errors. A failed structural operation leaves the tree untouched.
var (
	ErrInvalidValue  = errors.New("invalid value")
	ErrOrphan        = errors.New("heading has children that would be orphaned")
	ErrNoAdopter     = errors.New("heading has no sibling to adopt it")
	ErrNoGrandparent = errors.New("heading has no grandparent to promote into")
	ErrBadTree       = errors.New("inconsistent outline tree")
)
