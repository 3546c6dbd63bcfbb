package repo

import (
	"context"
	"time"

	"github.com/hamed0406/webmon/internal/domain"
)

// LogStore is the port for the append-only probe log. Adapters must be safe
// for concurrent use: the monitor appends from one goroutine per target
// while the dashboard reads. Entries are never updated or deleted.
type LogStore interface {
	// Init idempotently ensures the log table exists. Safe to call on
	// every process start regardless of prior state.
	Init(ctx context.Context) error

	// Append inserts one entry. When e.Timestamp is zero it is set to the
	// current UTC time before the insert. The adapter fills e.ID when the
	// backend reports it.
	Append(ctx context.Context, e *domain.LogEntry) error

	// DistinctURLs returns every URL with at least one entry, in
	// lexicographic order.
	DistinctURLs(ctx context.Context) ([]string, error)

	// LatestConnectivity returns the newest entry with a non-null duration
	// for the URL, or nil when the URL has no connectivity entries.
	LatestConnectivity(ctx context.Context, url string) (*domain.LogEntry, error)

	// LatestContent returns the newest entry with a null duration for the
	// URL whose timestamp is strictly greater than after, or nil.
	LatestContent(ctx context.Context, url string, after time.Time) (*domain.LogEntry, error)
}
