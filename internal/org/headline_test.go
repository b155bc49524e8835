package org

import (
	"errors"
	"testing"
)

func TestParseHeadline_AllFields(t *testing.T) {
	line := "** TODO COMMENT [#B] Draft the report [1/2]    :work:urgent:"
	h, err := ParseHeadline(line, DefaultKeywords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Level() != 2 {
		t.Errorf("level = %d, want 2", h.Level())
	}
	if h.Todo() != "TODO" {
		t.Errorf("todo = %q, want %q", h.Todo(), "TODO")
	}
	if !h.Comment() {
		t.Errorf("expected the COMMENT marker")
	}
	if h.Priority() == nil || h.Priority().Value() != "B" {
		t.Errorf("priority = %v, want B", h.Priority())
	}
	if h.Title() != "Draft the report" {
		t.Errorf("title = %q, want %q", h.Title(), "Draft the report")
	}
	if h.Cookie() == nil || h.Cookie().String() != "[1/2]" {
		t.Errorf("cookie = %v, want [1/2]", h.Cookie())
	}
	if tags := h.Tags(); len(tags) != 2 || tags[0] != "work" || tags[1] != "urgent" {
		t.Errorf("tags = %v, want [work urgent]", tags)
	}
	if got := h.String(); got != line {
		t.Errorf("String() = %q, want %q", got, line)
	}
}

func TestParseHeadline_BareTitle(t *testing.T) {
	h, err := ParseHeadline("* Just a title", DefaultKeywords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Todo() != "" || h.Priority() != nil || h.Cookie() != nil || len(h.Tags()) != 0 {
		t.Errorf("unexpected fields parsed out of a bare title")
	}
	if got := h.String(); got != "* Just a title" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseHeadline_KeywordNotAtStartStaysInTitle(t *testing.T) {
	h, err := ParseHeadline("* Calculation TODO", DefaultKeywords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Todo() != "" {
		t.Errorf("todo = %q, want none", h.Todo())
	}
	if h.Title() != "Calculation TODO" {
		t.Errorf("title = %q, want %q", h.Title(), "Calculation TODO")
	}
}

func TestParseHeadline_LongestKeywordWins(t *testing.T) {
	kw := DefaultKeywords()
	kw.Done["archived"] = "DONE_ARCHIVED"
	h, err := ParseHeadline("* DONE_ARCHIVED Old task", kw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Todo() != "DONE_ARCHIVED" {
		t.Errorf("todo = %q, want %q", h.Todo(), "DONE_ARCHIVED")
	}
	if h.Title() != "Old task" {
		t.Errorf("title = %q, want %q", h.Title(), "Old task")
	}
}

func TestParseHeadline_NotAHeadline(t *testing.T) {
	for _, line := range []string{"no stars", "*nospace", "  * indented"} {
		if _, err := ParseHeadline(line, DefaultKeywords()); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ParseHeadline(%q) err = %v, want ErrInvalidValue", line, err)
		}
	}
}

func TestParseHeadline_TagIndentPreserved(t *testing.T) {
	line := "* Title\t:a:"
	h, err := ParseHeadline(line, DefaultKeywords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := h.String(); got != line {
		t.Errorf("String() = %q, want %q", got, line)
	}
}

func TestHeadline_Done(t *testing.T) {
	kw := DefaultKeywords()
	h, err := ParseHeadline("* DONE Finished", kw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done, err := h.Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if !done {
		t.Errorf("expected done = true")
	}
	if err := h.SetTodo("TODO"); err != nil {
		t.Fatalf("SetTodo: %v", err)
	}
	done, err = h.Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if done {
		t.Errorf("expected done = false")
	}
}

func TestHeadline_SetTodoRejectsUnknownKeyword(t *testing.T) {
	h, err := ParseHeadline("* Task", DefaultKeywords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.SetTodo("MAYBE"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetTodo(MAYBE) err = %v, want ErrInvalidValue", err)
	}
	if err := h.SetTodo(""); err != nil {
		t.Errorf("clearing the keyword: %v", err)
	}
}

func TestHeadline_PromoteFloorsAtLevelOne(t *testing.T) {
	h, err := ParseHeadline("** Task", DefaultKeywords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.Promote(5)
	if h.Level() != 1 {
		t.Errorf("level = %d, want 1", h.Level())
	}
	h.Demote(2)
	if h.Level() != 3 {
		t.Errorf("level = %d, want 3", h.Level())
	}
}

func TestHeadline_PriorityCycling(t *testing.T) {
	h, err := ParseHeadline("* [#C] Task", DefaultKeywords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.RaisePriority(); err != nil {
		t.Fatalf("RaisePriority: %v", err)
	}
	if h.Priority().Value() != "A" {
		t.Errorf("priority = %q, want A", h.Priority().Value())
	}

	bare, err := ParseHeadline("* Task", DefaultKeywords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bare.RaisePriority(); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("RaisePriority without a priority err = %v, want ErrInvalidValue", err)
	}
}
