package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Zachkp/resume-site/internal/contrib"
)

var _ contrib.Cache = (*Store)(nil)

// GetCalendar returns the cached calendar for user and when it was fetched.
func (s *Store) GetCalendar(ctx context.Context, user string) (contrib.Calendar, time.Time, error) {
	var payload string
	var fetchedAt dbTime
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM contributions_cache WHERE username = ?`, user).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return contrib.Calendar{}, time.Time{}, ErrNotFound
	}
	if err != nil {
		return contrib.Calendar{}, time.Time{}, fmt.Errorf("read cached calendar: %w", err)
	}

	var cal contrib.Calendar
	if err := json.Unmarshal([]byte(payload), &cal); err != nil {
		return contrib.Calendar{}, time.Time{}, fmt.Errorf("decode cached calendar: %w", err)
	}
	return cal, fetchedAt.Time, nil
}

// PutCalendar replaces the cached calendar for user.
func (s *Store) PutCalendar(ctx context.Context, user string, cal contrib.Calendar, fetchedAt time.Time) error {
	payload, err := json.Marshal(cal)
	if err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contributions_cache (username, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, user, string(payload), formatTime(fetchedAt))
	if err != nil {
		return fmt.Errorf("write cached calendar: %w", err)
	}
	return nil
}
