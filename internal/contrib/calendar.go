// Package contrib loads the GitHub activity calendar shown on the résumé.
// Live data comes from a public contributions API; when that is
// unreachable a plausible calendar is synthesized so the page never shows
// an empty panel.
package contrib

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// DateOf truncates t to its calendar date, read in t's location and
// stored as UTC midnight.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MaxLevel is the highest intensity bucket.
const MaxLevel = 4

// Day is one cell of the activity calendar.
type Day struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
	Level int  `json:"level"`
}

// Calendar is a year of activity in the shape served by the contributions
// API: reported totals keyed by year plus a flat, oldest-first list of days.
type Calendar struct {
	Total         map[string]int `json:"total"`
	Contributions []Day          `json:"contributions"`
}

// TotalCount sums the per-year totals.
func (c Calendar) TotalCount() int {
	n := 0
	for _, v := range c.Total {
		n += v
	}
	return n
}

// Weeks groups the days into columns of seven for the calendar grid.
func (c Calendar) Weeks() [][]Day {
	return Weeks(c.Contributions, 7)
}

// Weeks splits days into consecutive windows of size; the last window
// holds whatever remains.
func Weeks(days []Day, size int) [][]Day {
	if size <= 0 || len(days) == 0 {
		return nil
	}
	weeks := make([][]Day, 0, (len(days)+size-1)/size)
	for i := 0; i < len(days); i += size {
		end := min(i+size, len(days))
		weeks = append(weeks, days[i:end])
	}
	return weeks
}

// LevelFor buckets a contribution count into an intensity level. The
// mapping is monotonic and saturates at MaxLevel.
func LevelFor(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 1
	case count <= 9:
		return 2
	case count <= 19:
		return 3
	default:
		return MaxLevel
	}
}

// clampLevels bounds levels reported by the live API to 0..MaxLevel.
func clampLevels(days []Day) {
	for i := range days {
		days[i].Level = max(0, min(days[i].Level, MaxLevel))
		if days[i].Count < 0 {
			days[i].Count = 0
		}
	}
}

// Origin says where a Calendar came from.
type Origin string

const (
	OriginLive        Origin = "live"
	OriginCache       Origin = "cache"
	OriginSynthesized Origin = "synthesized"
)
