// Package models defines the domain types for Ansuz.
package models

import "time"

// DocumentMetadata is a lightweight representation returned by list operations.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Heading is one outline node flattened for indexing and API responses.
// Position is the zero-based document-order index used to address the
// heading in edit operations.
type Heading struct {
	Path      string   `json:"path"`
	Position  int      `json:"position"`
	Level     int      `json:"level"`
	Title     string   `json:"title"`
	Todo      string   `json:"todo,omitempty"`
	Done      bool     `json:"done"`
	Priority  string   `json:"priority,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Scheduled string   `json:"scheduled,omitempty"`
	Deadline  string   `json:"deadline,omitempty"`
	Closed    string   `json:"closed,omitempty"`
}

// AgendaItem is one scheduled or deadline entry surfaced by agenda queries.
type AgendaItem struct {
	Path     string `json:"path"`
	Position int    `json:"position"`
	Title    string `json:"title"`
	Todo     string `json:"todo,omitempty"`
	Keyword  string `json:"keyword"` // "scheduled" or "deadline"
	Date     string `json:"date"`
}

// ClockEntry is one time-tracking interval attributed to a heading.
type ClockEntry struct {
	Path     string `json:"path"`
	Position int    `json:"position"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Minutes  int    `json:"minutes"`
	Open     bool   `json:"open"`
}

// ClockReport aggregates clock entries over a document or vault.
type ClockReport struct {
	TotalMinutes int          `json:"total_minutes"`
	Duration     string       `json:"duration"`
	Entries      []ClockEntry `json:"entries"`
}
