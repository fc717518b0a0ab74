package content

import (
	"errors"
	"testing"
	"time"
)

func setupTestCache(t *testing.T) (*Cache, *Store) {
	t.Helper()
	s := setupTestStore(t)
	return NewCache(s, time.Minute), s
}

func TestCacheServesSnapshot(t *testing.T) {
	c, s := setupTestCache(t)
	seedItem(t, s, Item{Subject: SubjectBlog, Slug: "a", Title: "A", Published: true})

	items, err := c.ListItems(SubjectBlog, "")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	// Writes after the first load stay invisible until the TTL (or an
	// explicit invalidation).
	seedItem(t, s, Item{Subject: SubjectBlog, Slug: "b", Title: "B", Published: true})
	items, _ = c.ListItems(SubjectBlog, "")
	if len(items) != 1 {
		t.Errorf("stale snapshot returned %d items, want 1", len(items))
	}

	c.Invalidate()
	items, _ = c.ListItems(SubjectBlog, "")
	if len(items) != 2 {
		t.Errorf("after invalidation got %d items, want 2", len(items))
	}
}

func TestCacheTagFilter(t *testing.T) {
	c, s := setupTestCache(t)
	seedItem(t, s, Item{Subject: SubjectBlog, Slug: "a", Title: "A", Tags: []string{"go"}, Published: true})
	seedItem(t, s, Item{Subject: SubjectBlog, Slug: "b", Title: "B", Tags: []string{"web"}, Published: true})

	items, err := c.ListItems(SubjectBlog, "GO")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "a" {
		t.Errorf("tag filter returned %v, want only item a", items)
	}
}

func TestCacheGetItem(t *testing.T) {
	c, s := setupTestCache(t)
	seedItem(t, s, Item{Subject: SubjectProjects, Slug: "p", Title: "P", Published: true})

	it, err := c.GetItem(SubjectProjects, "p")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if it.Title != "P" {
		t.Errorf("title = %q, want %q", it.Title, "P")
	}

	_, err = c.GetItem(SubjectProjects, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing slug should return ErrNotFound, got %v", err)
	}
}

func TestCacheSlugsMatchItemOrder(t *testing.T) {
	c, s := setupTestCache(t)
	seedItem(t, s, Item{Subject: SubjectBlog, Slug: "old", Title: "Old", Date: "2023-01-01", Published: true})
	seedItem(t, s, Item{Subject: SubjectBlog, Slug: "new", Title: "New", Date: "2024-01-01", Published: true})

	items, err := c.ListItems(SubjectBlog, "")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	slugs, err := c.Slugs(SubjectBlog)
	if err != nil {
		t.Fatalf("Slugs failed: %v", err)
	}
	if len(slugs) != len(items) {
		t.Fatalf("got %d slugs for %d items", len(slugs), len(items))
	}
	for i := range items {
		if slugs[i] != items[i].Slug {
			t.Errorf("slugs[%d] = %q, want %q", i, slugs[i], items[i].Slug)
		}
	}
}

func TestCacheExpires(t *testing.T) {
	s := setupTestStore(t)
	c := NewCache(s, 10*time.Millisecond)
	seedItem(t, s, Item{Subject: SubjectBlog, Slug: "a", Title: "A", Published: true})

	if _, err := c.ListItems(SubjectBlog, ""); err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	seedItem(t, s, Item{Subject: SubjectBlog, Slug: "b", Title: "B", Published: true})

	time.Sleep(20 * time.Millisecond)
	items, err := c.ListItems(SubjectBlog, "")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("after TTL got %d items, want 2", len(items))
	}
}
