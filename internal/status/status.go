// Package status reconstructs the latest composite view of each monitored
// URL from the append-only probe log.
package status

import (
	"context"

	"github.com/hamed0406/webmon/internal/domain"
	"github.com/hamed0406/webmon/internal/repo"
)

type Reconstructor struct {
	Store repo.LogStore
}

func New(store repo.LogStore) *Reconstructor {
	return &Reconstructor{Store: store}
}

// CompositeStatus returns the most recent combined state of a URL, or nil
// when the URL has no connectivity entries yet. A content entry strictly
// newer than the latest connectivity entry overrides status and details;
// timestamp and duration always come from the connectivity entry, since
// content entries carry no duration by construction.
func (r *Reconstructor) CompositeStatus(ctx context.Context, url string) (*domain.CompositeStatus, error) {
	conn, err := r.Store.LatestConnectivity(ctx, url)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, nil
	}

	cs := &domain.CompositeStatus{
		Timestamp: conn.Timestamp,
		Status:    conn.Status,
		Details:   conn.Details,
	}
	if conn.Duration != nil {
		cs.Duration = *conn.Duration
	}

	content, err := r.Store.LatestContent(ctx, url, conn.Timestamp)
	if err != nil {
		return nil, err
	}
	if content != nil {
		cs.Status = content.Status
		cs.Details = content.Details
	}
	return cs, nil
}

// AllStatuses reconstructs each URL independently. A URL without entries
// maps to nil rather than being dropped, so callers can render "no data".
func (r *Reconstructor) AllStatuses(ctx context.Context, urls []string) (map[string]*domain.CompositeStatus, error) {
	out := make(map[string]*domain.CompositeStatus, len(urls))
	for _, u := range urls {
		cs, err := r.CompositeStatus(ctx, u)
		if err != nil {
			return nil, err
		}
		out[u] = cs
	}
	return out, nil
}
