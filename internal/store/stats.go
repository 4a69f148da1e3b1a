package store

import (
	"context"
	"fmt"
	"time"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64            `json:"total_visitors"`
	UniqueVisitors   int64            `json:"unique_visitors"`
	VisitorsToday    int64            `json:"visitors_today"`
	VisitorsThisWeek int64            `json:"visitors_this_week"`
	IntrosCompleted  int64            `json:"intros_completed"`
	IntrosSkipped    int64            `json:"intros_skipped"`
	ActivityLoads    map[string]int64 `json:"activity_loads"`
	TopPaths         []PathCount      `json:"top_paths"`
	RecentVisitors   []VisitorMetric  `json:"recent_visitors"`
}

type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// Stats gathers the dashboard counters.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.clock.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	stats := &Stats{ActivityLoads: map[string]int64{}}
	counters := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(midnight)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(weekAgo)}},
		{&stats.IntrosCompleted, `SELECT COUNT(*) FROM intro_events WHERE outcome = ?`, []any{IntroCompleted}},
		{&stats.IntrosSkipped, `SELECT COUNT(*) FROM intro_events WHERE outcome = ?`, []any{IntroSkipped}},
	}
	for _, c := range counters {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT origin, COUNT(*) FROM activity_loads GROUP BY origin`)
	if err != nil {
		return nil, fmt.Errorf("stats: activity loads: %w", err)
	}
	for rows.Next() {
		var origin string
		var n int64
		if err := rows.Scan(&origin, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("stats: scan activity load: %w", err)
		}
		stats.ActivityLoads[origin] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats: activity loads: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT COALESCE(path, ''), COUNT(*) AS hits
		FROM visitors
		GROUP BY path
		ORDER BY hits DESC, path
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("stats: top paths: %w", err)
	}
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("stats: scan path: %w", err)
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats: top paths: %w", err)
	}

	stats.RecentVisitors, err = s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
