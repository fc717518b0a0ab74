package folio

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pmedv/folio/content"
	"github.com/pmedv/folio/engagement"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := SiteConfig{
		Name:          "Test Site",
		URL:           "https://example.com",
		DatabasePath:  filepath.Join(dir, "content.db"),
		CountersPath:  filepath.Join(dir, "counters.db"),
		AdminPassword: "secret",
		SessionSecret: "session-secret",
	}
	cfg.setDefaults()

	store, err := content.NewStore(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("failed to create content store: %v", err)
	}
	counters, err := engagement.NewCounterStore(cfg.CountersPath)
	if err != nil {
		t.Fatalf("failed to create counter store: %v", err)
	}

	a := &App{
		Config:       cfg,
		Echo:         echo.New(),
		Content:      store,
		Cache:        content.NewCache(store, time.Minute),
		Counters:     counters,
		Views:        DefaultViews(cfg),
		loginLimiter: NewLoginLimiter(5, loginWindow),
		staticDir:    "public",
	}
	a.Echo.HTTPErrorHandler = a.httpErrorHandler
	a.setupRoutes()
	t.Cleanup(func() { a.Close() })
	return a
}

func seedBlog(t *testing.T, a *App, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := a.Content.SaveItem(content.Item{
			Subject:   content.SubjectBlog,
			Slug:      fmt.Sprintf("post-%02d", i),
			Title:     fmt.Sprintf("Post %02d", i),
			Date:      fmt.Sprintf("2024-01-%02d", i+1),
			Body:      "# Hello",
			Published: true,
		})
		if err != nil {
			t.Fatalf("failed to seed item: %v", err)
		}
	}
	a.Cache.Invalidate()
}

func get(a *App, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"1", 1},
		{"3", 3},
		{"-2", -2},
	}
	for _, tt := range tests {
		if got := pageNumber(tt.raw); got != tt.want {
			t.Errorf("pageNumber(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestBlogListingRenders(t *testing.T) {
	a := setupTestApp(t)
	seedBlog(t, a, 10)

	rec := get(a, "/blog/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	// Zero counts tie every item, so the newest post takes the featured slot.
	if !strings.Contains(rec.Body.String(), "Post 09") {
		t.Error("listing body missing the featured post title")
	}
}

func TestBlogListingNeedsThreePublished(t *testing.T) {
	a := setupTestApp(t)
	seedBlog(t, a, 2)

	rec := get(a, "/blog/")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestProjectsListingToleratesFew(t *testing.T) {
	a := setupTestApp(t)
	err := a.Content.SaveItem(content.Item{
		Subject:   content.SubjectProjects,
		Slug:      "solo",
		Title:     "Solo Project",
		Published: true,
	})
	if err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	a.Cache.Invalidate()

	rec := get(a, "/projects/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Solo Project") {
		t.Error("listing body missing the single project")
	}
}

func TestListingFailsOpenOnCounterOutage(t *testing.T) {
	a := setupTestApp(t)
	seedBlog(t, a, 5)
	a.Counters.Close()

	rec := get(a, "/blog/")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (reads degrade to zero counts)", rec.Code, http.StatusOK)
	}
}

func TestListingOutOfRangePage(t *testing.T) {
	a := setupTestApp(t)
	seedBlog(t, a, 16) // 3 top slots + 13 remainder = 3 pages

	rec := get(a, "/blog/?page=4")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	// The indicator shows the requested number even past the last page.
	if !strings.Contains(rec.Body.String(), "Page 4 of 3") {
		t.Error("out-of-range page should keep the requested number in the indicator")
	}
}

func TestDetailPage(t *testing.T) {
	a := setupTestApp(t)
	seedBlog(t, a, 3)

	rec := get(a, "/blog/post-01/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Post 01") {
		t.Error("detail body missing the item title")
	}
	if !strings.Contains(body, "/public/engage.js") {
		t.Error("detail body missing the beacon script")
	}
}

func TestDetailNotFound(t *testing.T) {
	a := setupTestApp(t)
	seedBlog(t, a, 3)

	rec := get(a, "/blog/missing/")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
