// Package engagement implements the view/like counting and content ranking
// subsystem: atomic per-slug counters in SQLite, the HTTP boundary that
// accepts increments, and the deterministic featured/pagination logic used
// by the list pages.
package engagement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pmedv/folio/content"
)

// Metric identifies one kind of engagement count.
type Metric string

const (
	MetricViews Metric = "views"
	MetricLikes Metric = "likes"
)

// label returns the persisted key prefix. Views were historically stored
// under "pageviews"; renaming it would orphan existing counters.
func (m Metric) label() string {
	if m == MetricViews {
		return "pageviews"
	}
	return string(m)
}

// ErrStoreUnavailable wraps any storage failure on the write path. A lost
// increment is a data-integrity defect, so callers must never swallow it.
var ErrStoreUnavailable = errors.New("counter store unavailable")

// counterKey builds the composite key for one counter,
// e.g. "likes:blog:intro" or "pageviews:projects:my-project".
func counterKey(metric Metric, subject content.SubjectType, slug string) string {
	return strings.Join([]string{metric.label(), string(subject), slug}, ":")
}

// CounterStore provides durable, concurrency-safe integer counters keyed by
// (metric, subject type, slug). Counters are created lazily at zero on first
// increment, only ever incremented by one, and never expire.
type CounterStore struct {
	db *sql.DB
}

// NewCounterStore opens (or creates) the counter database at path. It is kept
// in a separate file from the content database so engagement writes never
// contend with content reads.
func NewCounterStore(path string) (*CounterStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open counter db: %w", err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, fmt.Errorf("configure counter db: %w", err)
	}
	// SQLite allows a single writer; one pooled connection keeps every
	// increment strictly serialized so concurrent callers never lose updates.
	db.SetMaxOpenConns(1)
	s := &CounterStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure counter schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *CounterStore) Close() error {
	return s.db.Close()
}

func (s *CounterStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS counters (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		);
	`)
	return err
}

// Increment atomically adds one to the counter for the given triple, creating
// it first if absent, and returns the new value. The upsert is a single
// statement, so N concurrent increments on one key always land as exactly N.
func (s *CounterStore) Increment(ctx context.Context, metric Metric, subject content.SubjectType, slug string) (int64, error) {
	key := counterKey(metric, subject, slug)
	var value int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO counters (key, value) VALUES (?, 1)
		 ON CONFLICT(key) DO UPDATE SET value = value + 1
		 RETURNING value`, key).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("%w: increment %s: %v", ErrStoreUnavailable, key, err)
	}
	return value, nil
}

// BatchGet returns the counter values for slugs in one round trip, in the
// same order as the input. Slugs with no counter resolve to zero.
func (s *CounterStore) BatchGet(ctx context.Context, metric Metric, subject content.SubjectType, slugs []string) ([]int64, error) {
	values := make([]int64, len(slugs))
	if len(slugs) == 0 {
		return values, nil
	}
	args := make([]any, len(slugs))
	for i, slug := range slugs {
		args[i] = counterKey(metric, subject, slug)
	}
	query := `SELECT key, value FROM counters WHERE key IN (?` + strings.Repeat(",?", len(slugs)-1) + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: batch get: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	found := make(map[string]int64, len(slugs))
	for rows.Next() {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: batch get: %v", ErrStoreUnavailable, err)
		}
		found[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: batch get: %v", ErrStoreUnavailable, err)
	}
	for i, slug := range slugs {
		values[i] = found[counterKey(metric, subject, slug)]
	}
	return values, nil
}

// Snapshot returns a slug-to-count map over slugs for the given metric. It is
// not a transactional snapshot across keys: concurrent writers during the
// read may leave some keys reflecting before-write state and others after.
func (s *CounterStore) Snapshot(ctx context.Context, metric Metric, subject content.SubjectType, slugs []string) (map[string]int64, error) {
	values, err := s.BatchGet(ctx, metric, subject, slugs)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(slugs))
	for i, slug := range slugs {
		counts[slug] = values[i]
	}
	return counts, nil
}
