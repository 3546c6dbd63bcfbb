package httpapi

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/webmon/internal/domain"
	"github.com/hamed0406/webmon/internal/repo"
	"github.com/hamed0406/webmon/internal/status"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Server renders the monitoring dashboard. Every read goes to the store;
// nothing is cached, so the page always reflects the latest committed
// probe outcomes.
type Server struct {
	Logger   *zap.Logger
	Store    repo.LogStore
	Status   *status.Reconstructor
	Interval time.Duration
}

func NewServer(l *zap.Logger, store repo.LogStore, rec *status.Reconstructor, interval time.Duration) *Server {
	return &Server{Logger: l, Store: store, Status: rec, Interval: interval}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/", s.handleDashboard)
	r.Get("/api/status", s.handleStatusJSON)

	return r
}

type dashboardRow struct {
	URL    string
	Status *domain.CompositeStatus
}

type dashboardData struct {
	Rows []dashboardRow
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	urls, err := s.Store.DistinctURLs(ctx)
	if err != nil {
		s.Logger.Warn("dashboard_read_error", zap.Error(err))
		http.Error(w, "store read failed", http.StatusInternalServerError)
		return
	}

	// Right after a cold start the first cycle may not have committed
	// anything yet. Wait one interval and look again; best effort only.
	if len(urls) == 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Interval):
		}
		urls, err = s.Store.DistinctURLs(ctx)
		if err != nil {
			s.Logger.Warn("dashboard_read_error", zap.Error(err))
			http.Error(w, "store read failed", http.StatusInternalServerError)
			return
		}
	}

	statuses, err := s.Status.AllStatuses(ctx, urls)
	if err != nil {
		s.Logger.Warn("dashboard_status_error", zap.Error(err))
		http.Error(w, "store read failed", http.StatusInternalServerError)
		return
	}

	data := dashboardData{Rows: make([]dashboardRow, 0, len(urls))}
	for _, u := range urls {
		data.Rows = append(data.Rows, dashboardRow{URL: u, Status: statuses[u]})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.Logger.Warn("dashboard_render_error", zap.Error(err))
	}
}

func (s *Server) handleStatusJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	urls, err := s.Store.DistinctURLs(ctx)
	if err != nil {
		http.Error(w, "store read failed", http.StatusInternalServerError)
		return
	}
	statuses, err := s.Status.AllStatuses(ctx, urls)
	if err != nil {
		http.Error(w, "store read failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statuses)
}
