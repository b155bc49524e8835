package index

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/models"
)

// DocumentRow represents a row in the documents table.
type DocumentRow struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Snippet string
}

// UpsertDocument replaces a document, its heading rows, its clock rows, and
// its FTS entry within a transaction.
func (db *DB) UpsertDocument(d DocumentRow, body string, headings []models.Heading, clocks []models.ClockEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	// Upsert documents table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO documents (path, checksum, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, d.Path, d.Checksum, body, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	// Replace heading rows: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM headings WHERE path = ?`, d.Path)
	if len(headings) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO headings (path, position, level, title, todo, done, priority, tags, scheduled, deadline, closed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("index: prepare heading insert: %w", err)
		}
		defer stmt.Close()
		for _, h := range headings {
			tagsJSON, _ := json.Marshal(h.Tags)
			if _, err := stmt.Exec(d.Path, h.Position, h.Level, h.Title, h.Todo, h.Done,
				h.Priority, string(tagsJSON), h.Scheduled, h.Deadline, h.Closed); err != nil {
				return fmt.Errorf("index: insert heading: %w", err)
			}
		}
	}

	// Replace clock rows.
	_, _ = tx.Exec(`DELETE FROM clocks WHERE path = ?`, d.Path)
	if len(clocks) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO clocks (path, position, start, end, minutes, open) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare clock insert: %w", err)
		}
		defer stmt.Close()
		for _, c := range clocks {
			if _, err := stmt.Exec(d.Path, c.Position, c.Start, c.End, c.Minutes, c.Open); err != nil {
				return fmt.Errorf("index: insert clock: %w", err)
			}
		}
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, d.Path, headingTitles(headings), body, headingTags(headings)); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteDocument removes a document, its heading and clock rows, and its
// FTS entry.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM headings WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM clocks WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM documents WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a document, or empty string if
// not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// ListDocuments returns paginated document rows, newest first, plus the
// total count.
func (db *DB) ListDocuments(limit, offset int) ([]DocumentRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count documents: %w", err)
	}
	rows, err := db.conn.Query(`
		SELECT path, checksum, updated_at
		FROM documents
		ORDER BY updated_at DESC, path
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var d DocumentRow
		if err := rows.Scan(&d.Path, &d.Checksum, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// ListHeadings returns the indexed heading rows of one document in
// document order.
func (db *DB) ListHeadings(path string) ([]models.Heading, error) {
	rows, err := db.conn.Query(`
		SELECT position, level, title, todo, done, priority, tags, scheduled, deadline, closed
		FROM headings
		WHERE path = ?
		ORDER BY position
	`, path)
	if err != nil {
		return nil, fmt.Errorf("index: list headings: %w", err)
	}
	defer rows.Close()

	var out []models.Heading
	for rows.Next() {
		h := models.Heading{Path: path}
		var tagsJSON string
		if err := rows.Scan(&h.Position, &h.Level, &h.Title, &h.Todo, &h.Done,
			&h.Priority, &tagsJSON, &h.Scheduled, &h.Deadline, &h.Closed); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &h.Tags)
		out = append(out, h)
	}
	return out, rows.Err()
}

// Agenda returns unfinished headings whose scheduled or deadline date falls
// within [from, to] (inclusive, "2006-01-02" strings), ordered by date.
func (db *DB) Agenda(from, to string) ([]models.AgendaItem, error) {
	rows, err := db.conn.Query(`
		SELECT path, position, title, todo, 'scheduled' AS keyword, scheduled AS date
		FROM headings
		WHERE done = 0 AND scheduled != '' AND substr(scheduled, 1, 10) BETWEEN ? AND ?
		UNION ALL
		SELECT path, position, title, todo, 'deadline', deadline
		FROM headings
		WHERE done = 0 AND deadline != '' AND substr(deadline, 1, 10) BETWEEN ? AND ?
		ORDER BY date, path, position
	`, from, to, from, to)
	if err != nil {
		return nil, fmt.Errorf("index: agenda: %w", err)
	}
	defer rows.Close()

	var out []models.AgendaItem
	for rows.Next() {
		var it models.AgendaItem
		if err := rows.Scan(&it.Path, &it.Position, &it.Title, &it.Todo, &it.Keyword, &it.Date); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ClockEntries returns the clock rows of one document (or every document
// when path is empty) joined with their heading titles.
func (db *DB) ClockEntries(path string) ([]models.ClockEntry, error) {
	q := `
		SELECT c.path, c.position, COALESCE(h.title, ''), c.start, c.end, c.minutes, c.open
		FROM clocks c
		LEFT JOIN headings h ON h.path = c.path AND h.position = c.position
	`
	args := []any{}
	if path != "" {
		q += ` WHERE c.path = ?`
		args = append(args, path)
	}
	q += ` ORDER BY c.path, c.position, c.start`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("index: clock entries: %w", err)
	}
	defer rows.Close()

	var out []models.ClockEntry
	for rows.Next() {
		var c models.ClockEntry
		if err := rows.Scan(&c.Path, &c.Position, &c.Title, &c.Start, &c.End, &c.Minutes, &c.Open); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllChecksums returns every indexed path mapped to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

func headingTitles(headings []models.Heading) string {
	parts := make([]string, 0, len(headings))
	for _, h := range headings {
		parts = append(parts, h.Title)
	}
	return strings.Join(parts, "\n")
}

func headingTags(headings []models.Heading) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, h := range headings {
		for _, tag := range h.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
