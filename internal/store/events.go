package store

import (
	"context"
	"fmt"
	"time"
)

// VisitorMetric is one tracked page view.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Intro outcomes.
const (
	IntroCompleted = "completed"
	IntroSkipped   = "skipped"
)

// IntroEvent records how a visitor's intro playback ended.
type IntroEvent struct {
	Session string
	Device  string
	Outcome string
	Lines   int
}

// RecordVisit stores a page view under the hashed form of ip.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, s.HashIP(ip), userAgent, path, s.now())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

func (s *Store) RecordIntro(ctx context.Context, ev IntroEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO intro_events (session, device, outcome, lines, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, ev.Session, ev.Device, ev.Outcome, ev.Lines, s.now())
	if err != nil {
		return fmt.Errorf("record intro: %w", err)
	}
	return nil
}

// RecordActivityLoad notes which path served an activity panel.
func (s *Store) RecordActivityLoad(ctx context.Context, username, origin string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_loads (username, origin, timestamp)
		VALUES (?, ?, ?)
	`, username, origin, s.now())
	if err != nil {
		return fmt.Errorf("record activity load: %w", err)
	}
	return nil
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visitors: %w", err)
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts dbTime
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = ts.Time
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// Cleanup deletes visitor, intro and activity records older than
// RetentionMonths and returns how many rows went.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	cutoff := formatTime(s.clock.Now().AddDate(0, -RetentionMonths, 0))

	var total int64
	for _, table := range []string{"visitors", "intro_events", "activity_loads"} {
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE timestamp < ?`, cutoff)
		if err != nil {
			return total, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if total > 0 {
		s.logger.Info("privacy cleanup removed old records", "rows", total, "older_than_months", RetentionMonths)
	}
	return total, nil
}
