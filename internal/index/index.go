package index

import "github.com/starford/ansuz/internal/models"

// DocumentIndex defines the interface for outline indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type DocumentIndex interface {
	UpsertDocument(d DocumentRow, body string, headings []models.Heading, clocks []models.ClockEntry) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	ListDocuments(limit, offset int) ([]DocumentRow, int, error)
	ListHeadings(path string) ([]models.Heading, error)
	Search(query string, limit int) ([]SearchResult, error)
	Agenda(from, to string) ([]models.AgendaItem, error)
	ClockEntries(path string) ([]models.ClockEntry, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
