package engagement

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pmedv/folio/content"
)

func setupCounterStore(t *testing.T) *CounterStore {
	t.Helper()
	s, err := NewCounterStore(filepath.Join(t.TempDir(), "counters.db"))
	if err != nil {
		t.Fatalf("failed to create counter store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIncrementCreatesAtZero(t *testing.T) {
	s := setupCounterStore(t)

	v, err := s.Increment(context.Background(), MetricViews, content.SubjectBlog, "intro")
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if v != 1 {
		t.Errorf("first increment = %d, want 1", v)
	}
}

func TestIncrementReturnsNewValue(t *testing.T) {
	s := setupCounterStore(t)

	var last int64
	for i := 0; i < 5; i++ {
		v, err := s.Increment(context.Background(), MetricLikes, content.SubjectBlog, "intro")
		if err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		last = v
	}
	if last != 5 {
		t.Errorf("after 5 increments value = %d, want 5", last)
	}
}

func TestIncrementKeysAreIndependent(t *testing.T) {
	s := setupCounterStore(t)
	ctx := context.Background()

	// Same slug under different metrics and subject types must not collide.
	s.Increment(ctx, MetricViews, content.SubjectBlog, "intro")
	s.Increment(ctx, MetricLikes, content.SubjectBlog, "intro")
	s.Increment(ctx, MetricViews, content.SubjectProjects, "intro")

	views, err := s.BatchGet(ctx, MetricViews, content.SubjectBlog, []string{"intro"})
	if err != nil {
		t.Fatalf("BatchGet failed: %v", err)
	}
	if views[0] != 1 {
		t.Errorf("views:blog:intro = %d, want 1", views[0])
	}
}

func TestConcurrentIncrementsLoseNothing(t *testing.T) {
	s := setupCounterStore(t)
	ctx := context.Background()

	const workers = 20
	const perWorker = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := s.Increment(ctx, MetricViews, content.SubjectBlog, "hot"); err != nil {
					t.Errorf("Increment failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	values, err := s.BatchGet(ctx, MetricViews, content.SubjectBlog, []string{"hot"})
	if err != nil {
		t.Fatalf("BatchGet failed: %v", err)
	}
	if want := int64(workers * perWorker); values[0] != want {
		t.Errorf("final value = %d, want %d (lost updates)", values[0], want)
	}
}

func TestBatchGetPreservesOrderAndZeros(t *testing.T) {
	s := setupCounterStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.Increment(ctx, MetricViews, content.SubjectBlog, "b")
	}
	s.Increment(ctx, MetricViews, content.SubjectBlog, "d")

	values, err := s.BatchGet(ctx, MetricViews, content.SubjectBlog, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("BatchGet failed: %v", err)
	}
	want := []int64{0, 3, 0, 1}
	if len(values) != len(want) {
		t.Fatalf("BatchGet returned %d values, want %d", len(values), len(want))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %d, want %d", i, values[i], want[i])
		}
	}
}

func TestBatchGetEmptyInput(t *testing.T) {
	s := setupCounterStore(t)

	values, err := s.BatchGet(context.Background(), MetricViews, content.SubjectBlog, nil)
	if err != nil {
		t.Fatalf("BatchGet failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("BatchGet(nil) returned %d values, want 0", len(values))
	}
}

func TestSnapshotMapsBySlug(t *testing.T) {
	s := setupCounterStore(t)
	ctx := context.Background()

	s.Increment(ctx, MetricLikes, content.SubjectProjects, "x")
	s.Increment(ctx, MetricLikes, content.SubjectProjects, "x")

	counts, err := s.Snapshot(ctx, MetricLikes, content.SubjectProjects, []string{"x", "y"})
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if counts["x"] != 2 || counts["y"] != 0 {
		t.Errorf("Snapshot = %v, want x:2 y:0", counts)
	}
}

func TestIncrementUnavailableStore(t *testing.T) {
	s := setupCounterStore(t)
	s.Close()

	_, err := s.Increment(context.Background(), MetricViews, content.SubjectBlog, "intro")
	if err == nil {
		t.Fatal("Increment on closed store should fail")
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("error should wrap ErrStoreUnavailable, got %v", err)
	}
}

func TestBatchGetUnavailableStore(t *testing.T) {
	s := setupCounterStore(t)
	s.Close()

	_, err := s.BatchGet(context.Background(), MetricViews, content.SubjectBlog, []string{"intro"})
	if err == nil {
		t.Fatal("BatchGet on closed store should fail")
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("error should wrap ErrStoreUnavailable, got %v", err)
	}
}

func TestCounterKeyLayout(t *testing.T) {
	tests := []struct {
		metric  Metric
		subject content.SubjectType
		slug    string
		want    string
	}{
		{MetricLikes, content.SubjectBlog, "intro", "likes:blog:intro"},
		{MetricViews, content.SubjectProjects, "my-project", "pageviews:projects:my-project"},
	}
	for _, tt := range tests {
		if got := counterKey(tt.metric, tt.subject, tt.slug); got != tt.want {
			t.Errorf("counterKey(%s, %s, %s) = %q, want %q", tt.metric, tt.subject, tt.slug, got, tt.want)
		}
	}
}
