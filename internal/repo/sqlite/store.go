package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hamed0406/webmon/internal/domain"
	"github.com/hamed0406/webmon/internal/repo"
)

var _ repo.LogStore = (*Store)(nil)

const tableName = "monitoring_logs"

// timeLayout is fixed-width UTC so that lexicographic order of the stored
// text equals chronological order, which the latest-entry queries rely on.
const timeLayout = "2006-01-02 15:04:05.000000000"

// Store implements repo.LogStore on a local SQLite file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and ensures the schema exists.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Serialize access through one connection; concurrent probe writers
	// would otherwise race for the sqlite write lock and see SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	s := &Store{db: db}
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Init(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS ` + tableName + ` (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	url       TEXT NOT NULL,
	duration  INTEGER,
	status    TEXT NOT NULL,
	details   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_` + tableName + `_url_ts ON ` + tableName + ` (url, timestamp DESC);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, e *domain.LogEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	var dur sql.NullInt64
	if e.Duration != nil {
		dur = sql.NullInt64{Int64: *e.Duration, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+tableName+` (timestamp, url, duration, status, details)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(timeLayout), e.URL, dur, string(e.Status), e.Details,
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

func (s *Store) DistinctURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT url FROM `+tableName+` ORDER BY url`)
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
	row := s.db.QueryRowContext(ctx,
		`SELECT id, timestamp, url, duration, status, details
		   FROM `+tableName+`
		  WHERE url = ? AND duration IS NOT NULL
		  ORDER BY timestamp DESC, id DESC
		  LIMIT 1`, url)
	return scanEntry(row)
}

func (s *Store) LatestContent(ctx context.Context, url string, after time.Time) (*domain.LogEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, timestamp, url, duration, status, details
		   FROM `+tableName+`
		  WHERE url = ? AND duration IS NULL AND timestamp > ?
		  ORDER BY timestamp DESC, id DESC
		  LIMIT 1`, url, after.UTC().Format(timeLayout))
	return scanEntry(row)
}

func scanEntry(row *sql.Row) (*domain.LogEntry, error) {
	var (
		e      domain.LogEntry
		ts     string
		status string
		dur    sql.NullInt64
	)
	err := row.Scan(&e.ID, &ts, &e.URL, &dur, &status, &e.Details)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan log entry: %w", err)
	}
	e.Timestamp, err = time.Parse(timeLayout, ts)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	if dur.Valid {
		v := dur.Int64
		e.Duration = &v
	}
	e.Status = domain.LogStatus(status)
	return &e, nil
}
