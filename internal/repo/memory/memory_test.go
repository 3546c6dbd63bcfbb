package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hamed0406/webmon/internal/domain"
)

func ms(v int64) *int64 { return &v }

func TestMemoryStore_AppendFillsTimestampAndID(t *testing.T) {
	ctx := context.Background()
	s := New()

	e := &domain.LogEntry{
		URL:      "https://example.com",
		Duration: ms(42),
		Status:   domain.StatusConnOK,
	}
	if err := s.Append(ctx, e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if e.ID == 0 {
		t.Fatalf("expected ID to be assigned")
	}
	if e.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be assigned")
	}
}

func TestMemoryStore_DistinctURLs_Lexicographic(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, u := range []string{"https://b.test", "https://a.test", "https://b.test"} {
		if err := s.Append(ctx, &domain.LogEntry{URL: u, Duration: ms(1), Status: domain.StatusConnOK}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	urls, err := s.DistinctURLs(ctx)
	if err != nil {
		t.Fatalf("DistinctURLs: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://a.test" || urls[1] != "https://b.test" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestMemoryStore_LatestQueries(t *testing.T) {
	ctx := context.Background()
	s := New()
	url := "https://example.com"

	t1 := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Second)
	t3 := t2.Add(time.Second)

	entries := []*domain.LogEntry{
		{URL: url, Timestamp: t1, Duration: ms(50), Status: domain.StatusConnOK},
		{URL: url, Timestamp: t2, Status: domain.StatusContentNOK, Details: "hello not found in response content"},
		{URL: url, Timestamp: t3, Duration: ms(70), Status: domain.StatusConnNOK, Details: "timeout"},
	}
	for _, e := range entries {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	conn, err := s.LatestConnectivity(ctx, url)
	if err != nil {
		t.Fatalf("LatestConnectivity: %v", err)
	}
	if conn == nil || !conn.Timestamp.Equal(t3) || conn.Status != domain.StatusConnNOK {
		t.Fatalf("unexpected connectivity entry: %+v", conn)
	}

	// Content entry at t2 is older than t3, so nothing is newer.
	content, err := s.LatestContent(ctx, url, t3)
	if err != nil {
		t.Fatalf("LatestContent: %v", err)
	}
	if content != nil {
		t.Fatalf("expected no content entry after t3, got %+v", content)
	}

	// Strictly-greater: an entry exactly at `after` must not match.
	content, err = s.LatestContent(ctx, url, t2)
	if err != nil {
		t.Fatalf("LatestContent: %v", err)
	}
	if content != nil {
		t.Fatalf("expected strict comparison to exclude t2, got %+v", content)
	}

	content, err = s.LatestContent(ctx, url, t1)
	if err != nil {
		t.Fatalf("LatestContent: %v", err)
	}
	if content == nil || content.Status != domain.StatusContentNOK {
		t.Fatalf("unexpected content entry: %+v", content)
	}
}

func TestMemoryStore_AbsentURL(t *testing.T) {
	ctx := context.Background()
	s := New()

	conn, err := s.LatestConnectivity(ctx, "https://nowhere.test")
	if err != nil {
		t.Fatalf("LatestConnectivity: %v", err)
	}
	if conn != nil {
		t.Fatalf("expected nil for unknown url, got %+v", conn)
	}
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := New()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Append(ctx, &domain.LogEntry{
				URL:      "https://example.com",
				Duration: ms(1),
				Status:   domain.StatusConnOK,
			})
		}()
	}
	wg.Wait()

	s.mu.RLock()
	got := len(s.entries)
	s.mu.RUnlock()
	if got != n {
		t.Fatalf("expected %d entries, got %d", n, got)
	}
}
