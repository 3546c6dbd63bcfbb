package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/webmon/internal/domain"
	"github.com/hamed0406/webmon/internal/repo"
)

// Executor runs one HTTP check per target and appends the outcome to the
// log store. A probe writes one connectivity entry always and, when the
// request succeeded and the target lists content requirements, exactly one
// content entry. Nothing propagates out of Probe: transport failures become
// CONN_NOK entries and store write failures are logged and swallowed, so a
// failing target never aborts the cycle for others.
type Executor struct {
	Client *http.Client
	Store  repo.LogStore
	Logger *zap.Logger
}

// NewExecutor builds an Executor whose requests are bounded by timeout.
// The monitor passes the cycle interval here, capping worst-case probe
// latency to one cycle.
func NewExecutor(store repo.LogStore, logger *zap.Logger, timeout time.Duration) *Executor {
	return &Executor{
		Client: &http.Client{Timeout: timeout},
		Store:  store,
		Logger: logger,
	}
}

// Probe checks one target and records the outcome.
func (x *Executor) Probe(ctx context.Context, t domain.Target) {
	start := time.Now()
	resp, err := x.get(ctx, t.URL)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		x.append(ctx, &domain.LogEntry{
			URL:      t.URL,
			Duration: &elapsed,
			Status:   domain.StatusConnNOK,
			Details:  err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	x.append(ctx, &domain.LogEntry{
		URL:      t.URL,
		Duration: &elapsed,
		Status:   domain.StatusConnOK,
	})

	if len(t.ContentRequirements) == 0 {
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// Connectivity already succeeded; an aborted body read just
		// means no content verdict this cycle.
		x.Logger.Warn("probe_body_read_error",
			zap.String("url", t.URL),
			zap.Error(err),
		)
		return
	}
	x.validateContent(ctx, t, string(body))
}

func (x *Executor) validateContent(ctx context.Context, t domain.Target, body string) {
	for _, want := range t.ContentRequirements {
		if !strings.Contains(body, want) {
			x.append(ctx, &domain.LogEntry{
				URL:     t.URL,
				Status:  domain.StatusContentNOK,
				Details: fmt.Sprintf("%s not found in response content", want),
			})
			return
		}
	}
	x.append(ctx, &domain.LogEntry{
		URL:    t.URL,
		Status: domain.StatusContentOK,
	})
}

// get issues the request and classifies the response. Any transport error
// or a status outside 2xx/3xx counts as a connectivity failure.
func (x *Executor) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := x.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return resp, nil
}

func (x *Executor) append(ctx context.Context, e *domain.LogEntry) {
	if err := x.Store.Append(ctx, e); err != nil {
		x.Logger.Warn("probe_append_error",
			zap.String("url", e.URL),
			zap.String("status", string(e.Status)),
			zap.Error(err),
		)
		return
	}
	x.Logger.Info("probe_logged",
		zap.String("url", e.URL),
		zap.String("status", string(e.Status)),
		zap.String("details", e.Details),
	)
}
