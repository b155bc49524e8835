package index

import (
	"time"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/org"
)

// Extract flattens a parsed document into the heading and clock rows the
// index stores. Scheduling stamps are rendered as sortable "2006-01-02"
// or "2006-01-02 15:04" strings so date-range queries can compare them
// lexicographically.
func Extract(path string, doc *org.Document) ([]models.Heading, []models.ClockEntry) {
	var headings []models.Heading
	var clocks []models.ClockEntry
	for pos, h := range doc.Headings() {
		hl := h.Headline()
		done, _ := hl.Done()
		row := models.Heading{
			Path:     path,
			Position: pos,
			Level:    h.Level(),
			Title:    hl.Title(),
			Todo:     hl.Todo(),
			Done:     done,
			Tags:     hl.Tags(),
		}
		if p := hl.Priority(); p != nil {
			row.Priority = p.Value()
		}
		if s := h.Scheduling(); s != nil {
			row.Scheduled = sortableStamp(s.Scheduled())
			row.Deadline = sortableStamp(s.Deadline())
			row.Closed = sortableStamp(s.Closed())
		}
		headings = append(headings, row)

		for _, c := range h.Clocking(false) {
			entry := models.ClockEntry{
				Path:     path,
				Position: pos,
				Title:    hl.Title(),
				Start:    c.Start().Format(org.TimeFormat),
				Minutes:  c.Minutes(),
				Open:     c.Open(),
			}
			if end, ok := c.End(); ok {
				entry.End = end.Format(org.TimeFormat)
			}
			clocks = append(clocks, entry)
		}
	}
	return headings, clocks
}

func sortableStamp(ts *org.TimeStamp) string {
	if ts == nil {
		return ""
	}
	layout := "2006-01-02"
	if ts.HasClock() {
		layout = "2006-01-02 15:04"
	}
	return ts.Start().Format(layout)
}

// indexDocument parses data and upserts it into the DB.
func indexDocument(db *DB, kw org.Keywords, path string, data []byte, checksum string) error {
	doc, err := org.Parse(string(data), kw)
	if err != nil {
		return err
	}
	headings, clocks := Extract(path, doc)
	row := DocumentRow{
		Path:      path,
		Checksum:  checksum,
		UpdatedAt: time.Now().UTC(),
	}
	return db.UpsertDocument(row, string(data), headings, clocks)
}
