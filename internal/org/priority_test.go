package org

import (
	"errors"
	"testing"
)

func TestParsePriority_Bracketed(t *testing.T) {
	p, err := ParsePriority("[#B]", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value() != "B" {
		t.Errorf("value = %q, want %q", p.Value(), "B")
	}
	if got := p.String(); got != "[#B]" {
		t.Errorf("String() = %q, want %q", got, "[#B]")
	}
}

func TestParsePriority_BareLetter(t *testing.T) {
	p, err := ParsePriority("A", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value() != "A" {
		t.Errorf("value = %q, want %q", p.Value(), "A")
	}
}

func TestParsePriority_OutsideAllowedSet(t *testing.T) {
	if _, err := ParsePriority("[#Z]", nil); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
}

func TestParsePriority_CustomSet(t *testing.T) {
	p, err := ParsePriority("[#2]", []string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value() != "2" {
		t.Errorf("value = %q, want %q", p.Value(), "2")
	}
}

func TestPriority_RaiseAndLowerWrap(t *testing.T) {
	p, err := ParsePriority("B", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Raise()
	if p.Value() != "C" {
		t.Errorf("after raise: value = %q, want %q", p.Value(), "C")
	}
	p.Raise()
	if p.Value() != "A" {
		t.Errorf("raise wraps to %q, want %q", p.Value(), "A")
	}
	p.Lower()
	if p.Value() != "C" {
		t.Errorf("lower wraps to %q, want %q", p.Value(), "C")
	}
}

func TestPriority_SetValidatesMembership(t *testing.T) {
	p, err := ParsePriority("A", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Set("D"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Set(D) err = %v, want ErrInvalidValue", err)
	}
	if p.Value() != "A" {
		t.Errorf("failed Set changed the value to %q", p.Value())
	}
}
