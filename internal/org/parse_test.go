package org

import (
	"errors"
	"testing"
)

func TestParse_RoundTripSimpleOutline(t *testing.T) {
	text := "* Calculation TODO\n** Input\n3+4+5+6\n** Evaluation\n"
	doc := parseDoc(t, text)
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
	hs := doc.Headings()
	if len(hs) != 3 {
		t.Fatalf("len(headings) = %d, want 3", len(hs))
	}
	if hs[0].Headline().Title() != "Calculation TODO" {
		t.Errorf("title = %q, want %q", hs[0].Headline().Title(), "Calculation TODO")
	}
	if hs[1].Parent() != hs[0] || hs[2].Parent() != hs[0] {
		t.Errorf("Input and Evaluation should be children of Calculation")
	}
	if hs[2].Sibling() != hs[1] {
		t.Errorf("Evaluation's sibling marker should be Input")
	}
	if hs[1].Body() != "3+4+5+6\n" {
		t.Errorf("body = %q, want %q", hs[1].Body(), "3+4+5+6\n")
	}
}

func TestParse_RoundTripFullFeatures(t *testing.T) {
	text := "#+TITLE: Test\nSome preamble.\n\n" +
		"* TODO [#A] Task title [1/2]    :work:urgent:\n" +
		"SCHEDULED: <2024-03-15 Fri> DEADLINE: <2024-03-20 Wed 10:00 -2d>\n" +
		":PROPERTIES:\n:ID:       abc-123\n:END:\n" +
		":LOGBOOK:\nCLOCK: [2024-03-14 Thu 09:00]--[2024-03-14 Thu 10:30] =>  1:30\n:END:\n" +
		"Body with a stamp <2024-03-15 Fri 09:00-10:00>.\n" +
		"** DONE Subtask\nDone.\n" +
		"* Second top\n"
	doc := parseDoc(t, text)
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
	if doc.Preamble() != "#+TITLE: Test\nSome preamble.\n\n" {
		t.Errorf("preamble = %q", doc.Preamble())
	}

	task := headingByTitle(t, doc, "Task title")
	if task.Scheduling() == nil || task.Scheduling().Scheduled() == nil || task.Scheduling().Deadline() == nil {
		t.Fatalf("scheduling = %v, want scheduled and deadline stamps", task.Scheduling())
	}
	if v, ok := task.Property("ID"); !ok || v != "abc-123" {
		t.Errorf("ID property = %q, %v", v, ok)
	}
	if got := len(task.Clocking(false)); got != 1 {
		t.Errorf("clocks = %d, want 1", got)
	}
	if got := len(task.Timestamps()); got != 1 {
		t.Errorf("body timestamps = %d, want 1", got)
	}
	if len(task.Children()) != 1 {
		t.Fatalf("children = %d, want 1", len(task.Children()))
	}
	done, err := task.Children()[0].Headline().Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if !done {
		t.Errorf("subtask should be done")
	}
}

func TestParse_PreambleOnly(t *testing.T) {
	text := "Just some text.\nNo headings at all.\n"
	doc := parseDoc(t, text)
	if len(doc.Headings()) != 0 {
		t.Errorf("headings = %d, want 0", len(doc.Headings()))
	}
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
}

func TestParse_Empty(t *testing.T) {
	doc := parseDoc(t, "")
	if got := doc.String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}

func TestParse_NoTrailingNewline(t *testing.T) {
	text := "* A\nbody without newline"
	doc := parseDoc(t, text)
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
}

func TestParse_LevelJumpAttachesToNearestAncestor(t *testing.T) {
	text := "* A\n*** B\n** C\n"
	doc := parseDoc(t, text)
	a := headingByTitle(t, doc, "A")
	b := headingByTitle(t, doc, "B")
	c := headingByTitle(t, doc, "C")
	if b.Parent() != a {
		t.Errorf("B's parent should be A despite the level jump")
	}
	if c.Parent() != a {
		t.Errorf("C's parent should be A")
	}
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
}

func TestParse_UnterminatedDrawerStaysInBody(t *testing.T) {
	text := "* A\n:STUFF:\nno end marker here\n* B\n"
	doc := parseDoc(t, text)
	a := headingByTitle(t, doc, "A")
	if len(a.Drawers()) != 0 {
		t.Errorf("drawers = %v, want none", a.Drawers())
	}
	if a.Body() != ":STUFF:\nno end marker here\n" {
		t.Errorf("body = %q", a.Body())
	}
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
}

func TestParse_SchedulingLineOnlyAtColumnZero(t *testing.T) {
	text := "* A\n  SCHEDULED: <2024-03-15 Fri>\n"
	doc := parseDoc(t, text)
	a := headingByTitle(t, doc, "A")
	if a.Scheduling() != nil {
		t.Errorf("indented scheduling line should stay in the body")
	}
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
}

func TestParse_DuplicateSchedulingKeyword(t *testing.T) {
	_, err := Parse("* A\nSCHEDULED: <2024-03-15 Fri> SCHEDULED: <2024-03-16 Sat>\n", DefaultKeywords())
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
}

func TestParse_CustomKeywords(t *testing.T) {
	kw := Keywords{
		Todo:       map[string]string{"next": "NEXT"},
		Done:       map[string]string{"done": "FINISHED"},
		Priorities: []string{"1", "2", "3"},
	}
	text := "* NEXT [#2] Errand\n* FINISHED Chore\n"
	doc, err := Parse(text, kw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	errand := headingByTitle(t, doc, "Errand")
	if errand.Headline().Todo() != "NEXT" {
		t.Errorf("todo = %q, want NEXT", errand.Headline().Todo())
	}
	if errand.Headline().Priority().Value() != "2" {
		t.Errorf("priority = %q, want 2", errand.Headline().Priority().Value())
	}
	done, err := headingByTitle(t, doc, "Chore").Headline().Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if !done {
		t.Errorf("FINISHED should count as done")
	}
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
}

func TestDocument_HeadingAt(t *testing.T) {
	doc := parseDoc(t, "* A\n** B\n* C\n")
	h, ok := doc.HeadingAt(1)
	if !ok || h.Headline().Title() != "B" {
		t.Errorf("HeadingAt(1) = %v, %v, want B", h, ok)
	}
	if _, ok := doc.HeadingAt(3); ok {
		t.Errorf("HeadingAt(3) should be out of range")
	}
	if _, ok := doc.HeadingAt(-1); ok {
		t.Errorf("HeadingAt(-1) should be out of range")
	}
}

func TestDocument_ClockingAcrossHeadings(t *testing.T) {
	text := "* A\n:LOGBOOK:\nCLOCK: [2024-03-14 Thu 09:00]--[2024-03-14 Thu 09:45] =>  0:45\n:END:\n" +
		"* B\n:LOGBOOK:\nCLOCK: [2024-03-14 Thu 10:00]\n:END:\n"
	doc := parseDoc(t, text)
	clocks := doc.Clocking()
	if len(clocks) != 2 {
		t.Fatalf("len(clocks) = %d, want 2", len(clocks))
	}
	if clocks[0].Open() || !clocks[1].Open() {
		t.Errorf("expected one closed and one open clock in order")
	}
	if got := doc.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
}
