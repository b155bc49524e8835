package org

import (
	"errors"
	"testing"
	"time"
)

func TestParseClocking_Closed(t *testing.T) {
	c, err := ParseClocking("2024-03-14 Thu 09:00", "2024-03-14 Thu 10:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Open() {
		t.Errorf("expected a closed clock")
	}
	if got := c.Minutes(); got != 90 {
		t.Errorf("Minutes() = %d, want 90", got)
	}
	if got := c.Duration(); got != "1:30" {
		t.Errorf("Duration() = %q, want %q", got, "1:30")
	}
	want := "[2024-03-14 Thu 09:00]--[2024-03-14 Thu 10:30] =>  1:30"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseClocking_Open(t *testing.T) {
	c, err := ParseClocking("2024-03-14 Thu 09:00", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Open() {
		t.Errorf("expected an open clock")
	}
	if got := c.String(); got != "[2024-03-14 Thu 09:00]" {
		t.Errorf("String() = %q, want %q", got, "[2024-03-14 Thu 09:00]")
	}
}

func TestClocking_OpenMinutesRounding(t *testing.T) {
	c, err := ParseClocking("2024-03-14 Thu 09:00", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base := c.Start()
	c.now = func() time.Time { return base.Add(10*time.Minute + 29*time.Second) }
	if got := c.Minutes(); got != 10 {
		t.Errorf("Minutes() = %d, want 10", got)
	}
	c.now = func() time.Time { return base.Add(10*time.Minute + 30*time.Second) }
	if got := c.Minutes(); got != 11 {
		t.Errorf("Minutes() = %d, want 11", got)
	}
}

func TestClocking_DurationSpansDays(t *testing.T) {
	c, err := ParseClocking("2024-03-14 Thu 09:00", "2024-03-16 Sat 10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Duration(); got != "2d 1:00" {
		t.Errorf("Duration() = %q, want %q", got, "2d 1:00")
	}
}

func TestClocking_EndBeforeStart(t *testing.T) {
	if _, err := ParseClocking("2024-03-14 Thu 10:00", "2024-03-14 Thu 09:00"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
}

func TestClocking_SetEndReopens(t *testing.T) {
	c, err := ParseClocking("2024-03-14 Thu 09:00", "2024-03-14 Thu 10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetEnd(""); err != nil {
		t.Fatalf("SetEnd: %v", err)
	}
	if !c.Open() {
		t.Errorf("expected the clock to reopen")
	}
}

func TestClocking_BadLiteral(t *testing.T) {
	if _, err := ParseClocking("2024-03-14T09:00", ""); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
}
