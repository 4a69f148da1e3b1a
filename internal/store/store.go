// Package store persists the site's privacy-conscious bookkeeping in
// SQLite: hashed visitor records, intro outcomes, activity panel loads and
// the contributions cache.
package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/Zachkp/resume-site/internal/clock"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// RetentionMonths is how long visitor and event records are kept.
const RetentionMonths = 12

// timeLayout matches SQLite's CURRENT_TIMESTAMP so stored values compare
// lexically.
const timeLayout = "2006-01-02 15:04:05"

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	country TEXT
);

CREATE TABLE IF NOT EXISTS intro_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session TEXT NOT NULL,
	device TEXT NOT NULL,
	outcome TEXT NOT NULL,
	lines INTEGER NOT NULL DEFAULT 0,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS activity_loads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	origin TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS contributions_cache (
	username TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	fetched_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors(timestamp);
`

// Store wraps the database handle.
type Store struct {
	db     *sql.DB
	salt   string
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSalt fixes the IP hashing salt. Without it a random salt is drawn per
// process, so hashes are only comparable within one run.
func WithSalt(salt string) Option {
	return func(s *Store) { s.salt = salt }
}

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// SQLite has a single writer; one connection also keeps in-memory
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, clock: clock.Real()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.salt == "" {
		s.salt, err = RandomToken()
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate upgrades visitor tables created before IPs were hashed.
func (s *Store) migrate(ctx context.Context) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('visitors') WHERE name = 'hashed_ip'`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("store: inspect visitors: %w", err)
	}
	if exists == 0 {
		if _, err := s.db.ExecContext(ctx, `ALTER TABLE visitors ADD COLUMN hashed_ip TEXT`); err != nil {
			return fmt.Errorf("store: add hashed_ip: %w", err)
		}
	}

	// Rows without a hash get a stable placeholder derived from their id.
	res, err := s.db.ExecContext(ctx,
		`UPDATE visitors SET hashed_ip = printf('%016x', id * 12345) WHERE hashed_ip IS NULL OR hashed_ip = ''`)
	if err != nil {
		return fmt.Errorf("store: backfill hashed_ip: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Info("migrated visitor records to hashed IPs", "rows", n)
	}
	return nil
}

// HashIP returns a truncated salted SHA-256 of ip. Raw addresses are never
// stored or logged.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RandomToken returns 32 random bytes hex-encoded.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *Store) now() string {
	return formatTime(s.clock.Now())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// dbTime scans a DATETIME column whether the driver hands back a
// time.Time or the stored text.
type dbTime struct {
	time.Time
}

func (t *dbTime) Scan(v any) error {
	switch v := v.(type) {
	case time.Time:
		t.Time = v.UTC()
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
	default:
		return fmt.Errorf("store: cannot scan %T into time", v)
	}
	return nil
}

func (t *dbTime) parse(s string) error {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("store: unrecognised time %q", s)
}
