package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/webmon/internal/domain"
	"github.com/hamed0406/webmon/internal/probe"
	"github.com/hamed0406/webmon/internal/repo/sqlite"
	"github.com/hamed0406/webmon/internal/status"
)

// Full path through monitor, probe, sqlite log and status reconstruction.
func TestEndToEnd_ContentOKAndContentNOK(t *testing.T) {
	ctx := context.Background()

	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer okSrv.Close()
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("goodbye"))
	}))
	defer badSrv.Close()

	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "logs.db"))
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	defer store.Close()

	targets := []domain.Target{
		{URL: okSrv.URL, ContentRequirements: []string{"hello"}},
		{URL: badSrv.URL, ContentRequirements: []string{"hello"}},
	}
	x := probe.NewExecutor(store, zap.NewNop(), 5*time.Second)
	m := NewMonitor(zap.NewNop(), store, x, targets, 5*time.Second)

	// One cycle is enough; drive it directly instead of running the loop.
	m.runCycle(ctx)

	urls, err := store.DistinctURLs(ctx)
	if err != nil {
		t.Fatalf("DistinctURLs: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected both urls recorded, got %v", urls)
	}

	rec := status.New(store)
	statuses, err := rec.AllStatuses(ctx, urls)
	if err != nil {
		t.Fatalf("AllStatuses: %v", err)
	}

	okStatus := statuses[okSrv.URL]
	if okStatus == nil || okStatus.Status != domain.StatusContentOK {
		t.Fatalf("want CONTENT_OK for %s, got %+v", okSrv.URL, okStatus)
	}
	if okStatus.Duration < 0 {
		t.Fatalf("composite duration must come from the connectivity entry")
	}

	badStatus := statuses[badSrv.URL]
	if badStatus == nil || badStatus.Status != domain.StatusContentNOK {
		t.Fatalf("want CONTENT_NOK for %s, got %+v", badSrv.URL, badStatus)
	}
	if badStatus.Details != "hello not found in response content" {
		t.Fatalf("unexpected details: %q", badStatus.Details)
	}
}
