// Package content holds the externally-authored content collection: articles
// and projects, keyed by (subject type, slug). The serving side only reads;
// rows are written by out-of-band tooling.
package content

import (
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding the content collection.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy_timeout so writers wait
	// instead of returning SQLITE_BUSY, synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS items (
    subject TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    tags TEXT NOT NULL,
    date TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (subject, slug)
);
`)
	return err
}

// ListItems returns all published items of one subject type, undated items
// first, then by date descending. This is the input order the ranking engine
// relies on for tie-breaking.
func (s *Store) ListItems(subject SubjectType) ([]Item, error) {
	rows, err := s.db.Query(`SELECT slug, title, description, tags, date, body, published FROM items WHERE subject = ? AND published = 1 ORDER BY date = '' DESC, date DESC`, string(subject))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows, subject)
}

// ListAllItems returns every item of one subject type, drafts included.
func (s *Store) ListAllItems(subject SubjectType) ([]Item, error) {
	rows, err := s.db.Query(`SELECT slug, title, description, tags, date, body, published FROM items WHERE subject = ? ORDER BY date = '' DESC, date DESC`, string(subject))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows, subject)
}

func scanItems(rows *sql.Rows, subject SubjectType) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var slug, title, description, tags, date, body string
		var published int
		if err := rows.Scan(&slug, &title, &description, &tags, &date, &body, &published); err != nil {
			return nil, err
		}
		items = append(items, Item{
			Slug:        slug,
			Title:       title,
			Description: description,
			Tags:        ParseTags(tags),
			Date:        date,
			Body:        body,
			Link:        "/" + string(subject) + "/" + slug,
			Subject:     subject,
			Published:   published == 1,
		})
	}
	return items, rows.Err()
}

// GetItem returns a single published item by slug.
func (s *Store) GetItem(subject SubjectType, slug string) (Item, error) {
	var title, description, tags, date, body string
	var published int
	err := s.db.QueryRow(`SELECT title, description, tags, date, body, published FROM items WHERE subject = ? AND slug = ? AND published = 1`, string(subject), slug).
		Scan(&title, &description, &tags, &date, &body, &published)
	if err != nil {
		return Item{}, err
	}
	return Item{
		Slug:        slug,
		Title:       title,
		Description: description,
		Tags:        ParseTags(tags),
		Date:        date,
		Body:        body,
		Link:        "/" + string(subject) + "/" + slug,
		Subject:     subject,
		Published:   published == 1,
	}, nil
}

// ListTags returns a sorted, deduplicated slice of all tags from published
// items of one subject type.
func (s *Store) ListTags(subject SubjectType) ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM items WHERE subject = ? AND published = 1`, string(subject))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// SaveItem upserts an item. Used by seeding tooling and tests, never by the
// serving path. Tags are normalized to lowercase.
func (s *Store) SaveItem(it Item) error {
	normalized := make([]string, len(it.Tags))
	for i, t := range it.Tags {
		normalized[i] = strings.ToLower(strings.TrimSpace(t))
	}
	tagString := "," + strings.Join(normalized, ",") + ","
	published := 0
	if it.Published {
		published = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO items (subject, slug, title, description, tags, date, body, published) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(it.Subject), it.Slug, it.Title, it.Description, tagString, it.Date, it.Body, published)
	return err
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
