// Package outlineservice coordinates storage, parsing, and index operations
// for outline documents.
package outlineservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/org"
	"github.com/starford/ansuz/internal/storage"
)

// DocumentDetail is the full representation of a document.
type DocumentDetail struct {
	Path      string           `json:"path"`
	Preamble  string           `json:"preamble,omitempty"`
	Content   string           `json:"content"`
	Checksum  string           `json:"checksum"`
	Headings  []models.Heading `json:"headings"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    *index.DB
	kw    org.Keywords

	// editMu serializes read-modify-write outline edits per process.
	editMu sync.Mutex
}

// NewService creates a new outline service.
func NewService(store storage.Provider, db *index.DB, kw org.Keywords) *Service {
	return &Service{store: store, db: db, kw: kw}
}

// Keywords returns the keyword configuration the service parses with.
func (s *Service) Keywords() org.Keywords { return s.kw }

// GetDocument reads a document from storage and parses it.
func (s *Service) GetDocument(_ context.Context, path string) (*DocumentDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildDetail(path, data)
}

// CreateDocument writes a new document and indexes it. The content must
// parse before anything touches disk.
func (s *Service) CreateDocument(_ context.Context, path string, content []byte) (*DocumentDetail, error) {
	if _, err := org.Parse(string(content), s.kw); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalid, err)
	}
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexDocument(path, content); err != nil {
		return nil, err
	}
	return s.buildDetail(path, content)
}

// UpdateDocument writes updated content with optimistic concurrency.
func (s *Service) UpdateDocument(_ context.Context, path string, content []byte, ifMatch string) (*DocumentDetail, error) {
	if _, err := org.Parse(string(content), s.kw); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalid, err)
	}
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexDocument(path, content); err != nil {
		return nil, err
	}
	return s.buildDetail(path, content)
}

// DeleteDocument removes a document from storage and index.
func (s *Service) DeleteDocument(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteDocument(path)
}

// ListDocuments returns paginated documents.
func (s *Service) ListDocuments(_ context.Context, limit, offset int) ([]DocumentListItem, int, error) {
	rows, total, err := s.db.ListDocuments(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(rows))
	for i, r := range rows {
		items[i] = DocumentListItem{Path: r.Path, Checksum: r.Checksum, UpdatedAt: r.UpdatedAt}
	}
	return items, total, nil
}

// Headings returns the indexed heading rows of one document.
func (s *Service) Headings(_ context.Context, path string) ([]models.Heading, error) {
	hs, err := s.db.ListHeadings(path)
	if err != nil {
		return nil, err
	}
	if len(hs) == 0 {
		// Distinguish an empty outline from an unknown document.
		if cs, _ := s.db.GetChecksum(path); cs == "" {
			return nil, apperr.ErrNotFound
		}
	}
	return hs, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Agenda returns unfinished scheduled and deadline headings in the date
// window [from, to]. Empty bounds default to today through a week out.
func (s *Service) Agenda(_ context.Context, from, to string) ([]models.AgendaItem, error) {
	now := time.Now()
	if from == "" {
		from = now.Format("2006-01-02")
	}
	if to == "" {
		to = now.AddDate(0, 0, 7).Format("2006-01-02")
	}
	return s.db.Agenda(from, to)
}

// ClockReport aggregates clock entries for one document, or the whole
// vault when path is empty. A non-negative position restricts the report
// to that heading's subtree, including descendant entries.
func (s *Service) ClockReport(_ context.Context, path string, position int) (*models.ClockReport, error) {
	if position >= 0 {
		return s.subtreeClockReport(path, position)
	}
	entries, err := s.db.ClockEntries(path)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, e := range entries {
		total += e.Minutes
	}
	if entries == nil {
		entries = []models.ClockEntry{}
	}
	return &models.ClockReport{
		TotalMinutes: total,
		Duration:     formatMinutes(total),
		Entries:      entries,
	}, nil
}

// subtreeClockReport re-parses the document and walks one heading's
// subtree, so open clocks and child entries are attributed to the
// heading that owns them.
func (s *Service) subtreeClockReport(path string, position int) (*models.ClockReport, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: subtree clock report requires a document path", apperr.ErrInvalid)
	}
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	doc, err := org.Parse(string(data), s.kw)
	if err != nil {
		return nil, err
	}
	root, ok := doc.HeadingAt(position)
	if !ok {
		return nil, fmt.Errorf("%w: heading position %d out of range", apperr.ErrInvalid, position)
	}
	positions := make(map[*org.Heading]int)
	for i, h := range doc.Headings() {
		positions[h] = i
	}

	entries := []models.ClockEntry{}
	total := 0
	var walk func(h *org.Heading)
	walk = func(h *org.Heading) {
		hl := h.Headline()
		for _, c := range h.Clocking(false) {
			entry := models.ClockEntry{
				Path:     path,
				Position: positions[h],
				Title:    hl.Title(),
				Start:    c.Start().Format(org.TimeFormat),
				Minutes:  c.Minutes(),
				Open:     c.Open(),
			}
			if end, endOK := c.End(); endOK {
				entry.End = end.Format(org.TimeFormat)
			}
			entries = append(entries, entry)
			total += entry.Minutes
		}
		for _, child := range h.Children() {
			walk(child)
		}
	}
	walk(root)

	return &models.ClockReport{
		TotalMinutes: total,
		Duration:     formatMinutes(total),
		Entries:      entries,
	}, nil
}

// IndexDocument parses data and upserts it into the index.
// Exported so callers holding fresh content can reindex without a re-read.
func (s *Service) IndexDocument(path string, data []byte) error {
	doc, err := org.Parse(string(data), s.kw)
	if err != nil {
		return err
	}
	headings, clocks := index.Extract(path, doc)
	return s.db.UpsertDocument(index.DocumentRow{
		Path:      path,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now().UTC(),
	}, string(data), headings, clocks)
}

// buildDetail constructs a DocumentDetail from raw data without re-reading
// the file.
func (s *Service) buildDetail(path string, data []byte) (*DocumentDetail, error) {
	doc, err := org.Parse(string(data), s.kw)
	if err != nil {
		return nil, err
	}
	headings, _ := index.Extract(path, doc)
	if headings == nil {
		headings = []models.Heading{}
	}
	return &DocumentDetail{
		Path:      path,
		Preamble:  doc.Preamble(),
		Content:   string(data),
		Checksum:  checksum.Sum(data),
		Headings:  headings,
		UpdatedAt: time.Now(),
	}, nil
}

// formatMinutes renders whole minutes as H:MM, with a day prefix once the
// total spans days.
func formatMinutes(m int) string {
	h, m := m/60, m%60
	d, h := h/24, h%24
	if d == 0 {
		return fmt.Sprintf("%d:%02d", h, m)
	}
	return fmt.Sprintf("%dd %d:%02d", d, h, m)
}
