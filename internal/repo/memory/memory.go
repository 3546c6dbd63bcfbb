package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hamed0406/webmon/internal/domain"
)

// Store is a mutex-guarded in-memory log, used by tests and as a fallback
// when no database is configured.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	entries []*domain.LogEntry
}

func New() *Store {
	return &Store{
		nextID:  1,
		entries: make([]*domain.LogEntry, 0, 128),
	}
}

func (m *Store) Init(ctx context.Context) error { return nil }

func (m *Store) Append(ctx context.Context, e *domain.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	e.ID = m.nextID
	m.nextID++
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *Store) DistinctURLs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{}, len(m.entries))
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if _, ok := seen[e.URL]; ok {
			continue
		}
		seen[e.URL] = struct{}{}
		out = append(out, e.URL)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Store) LatestConnectivity(ctx context.Context, url string) (*domain.LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.LogEntry
	for _, e := range m.entries {
		if e.URL != url || !e.IsConnectivity() {
			continue
		}
		if latest == nil || !e.Timestamp.Before(latest.Timestamp) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *Store) LatestContent(ctx context.Context, url string, after time.Time) (*domain.LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.LogEntry
	for _, e := range m.entries {
		if e.URL != url || e.IsConnectivity() || !e.Timestamp.After(after) {
			continue
		}
		if latest == nil || !e.Timestamp.Before(latest.Timestamp) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}
