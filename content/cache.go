package content

import (
	"database/sql"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = sql.ErrNoRows

// Cache is an in-memory snapshot of published items and tags per subject
// type, revalidated on a TTL. The TTL is the site's revalidation window:
// list pages may serve counts and content up to one TTL stale.
type Cache struct {
	mu      sync.RWMutex
	items   map[SubjectType][]Item
	tags    map[SubjectType][]string
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewCache creates a Cache backed by the given Store.
func NewCache(s *Store, ttl time.Duration) *Cache {
	return &Cache{store: s, ttl: ttl}
}

func (c *Cache) valid() bool {
	return c.items != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *Cache) load() error {
	if c.valid() {
		return nil
	}
	items := make(map[SubjectType][]Item, 2)
	tags := make(map[SubjectType][]string, 2)
	for _, subject := range []SubjectType{SubjectBlog, SubjectProjects} {
		list, err := c.store.ListItems(subject)
		if err != nil {
			return err
		}
		ts, err := c.store.ListTags(subject)
		if err != nil {
			return err
		}
		items[subject] = list
		tags[subject] = ts
	}
	c.items = items
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached snapshot after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *Cache) ensureLoaded() (map[SubjectType][]Item, map[SubjectType][]string, error) {
	c.mu.RLock()
	if c.valid() {
		items, tags := c.items, c.tags
		c.mu.RUnlock()
		return items, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.items, c.tags, nil
}

// ListItems returns published items of one subject type, optionally filtered
// by tag.
func (c *Cache) ListItems(subject SubjectType, tag string) ([]Item, error) {
	items, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	list := items[subject]
	if tag == "" {
		return list, nil
	}
	normalized := normalizeTag(tag)
	var filtered []Item
	for _, it := range list {
		for _, t := range it.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, it)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published items of one subject type.
func (c *Cache) ListTags(subject SubjectType) ([]string, error) {
	_, tags, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return tags[subject], nil
}

// GetItem returns a single published item by slug from the cache.
func (c *Cache) GetItem(subject SubjectType, slug string) (Item, error) {
	items, _, err := c.ensureLoaded()
	if err != nil {
		return Item{}, err
	}
	for _, it := range items[subject] {
		if it.Slug == slug {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// Slugs returns the slugs of published items of one subject type, in snapshot
// order. This is the key set fed to counter multi-gets.
func (c *Cache) Slugs(subject SubjectType) ([]string, error) {
	items, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	list := items[subject]
	slugs := make([]string, len(list))
	for i, it := range list {
		slugs[i] = it.Slug
	}
	return slugs, nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
