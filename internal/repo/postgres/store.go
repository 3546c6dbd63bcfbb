package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/webmon/internal/domain"
	"github.com/hamed0406/webmon/internal/repo"
)

var _ repo.LogStore = (*Store)(nil)

// Store implements repo.LogStore on PostgreSQL, for deployments where the
// probe log should outlive the host running the monitor.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	s := &Store{pool: pool, log: log}
	if err := s.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS monitoring_logs (
	id        BIGSERIAL PRIMARY KEY,
	timestamp TIMESTAMPTZ NOT NULL,
	url       TEXT NOT NULL,
	duration  BIGINT,
	status    TEXT NOT NULL,
	details   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_monitoring_logs_url_ts ON monitoring_logs (url, timestamp DESC)`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, e *domain.LogEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO monitoring_logs (timestamp, url, duration, status, details)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		e.Timestamp, e.URL, e.Duration, string(e.Status), e.Details,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (s *Store) DistinctURLs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT url FROM monitoring_logs ORDER BY url`)
	if err != nil {
		return nil, fmt.Errorf("distinct urls: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) LatestConnectivity(ctx context.Context, url string) (*domain.LogEntry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, timestamp, url, duration, status, details
		   FROM monitoring_logs
		  WHERE url = $1 AND duration IS NOT NULL
		  ORDER BY timestamp DESC, id DESC
		  LIMIT 1`, url)
	return scanEntry(row)
}

func (s *Store) LatestContent(ctx context.Context, url string, after time.Time) (*domain.LogEntry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, timestamp, url, duration, status, details
		   FROM monitoring_logs
		  WHERE url = $1 AND duration IS NULL AND timestamp > $2
		  ORDER BY timestamp DESC, id DESC
		  LIMIT 1`, url, after)
	return scanEntry(row)
}

func scanEntry(row pgx.Row) (*domain.LogEntry, error) {
	var (
		e      domain.LogEntry
		status string
	)
	err := row.Scan(&e.ID, &e.Timestamp, &e.URL, &e.Duration, &status, &e.Details)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan log entry: %w", err)
	}
	e.Status = domain.LogStatus(status)
	return &e, nil
}
