package contrib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Zachkp/resume-site/internal/clock"
)

// DefaultBaseURL is the public contributions API.
const DefaultBaseURL = "https://github-contributions-api.jogruber.de/v4"

// Cache stores live calendars between requests.
type Cache interface {
	GetCalendar(ctx context.Context, user string) (Calendar, time.Time, error)
	PutCalendar(ctx context.Context, user string, cal Calendar, fetchedAt time.Time) error
}

// Fetcher loads a user's calendar from the live API, falling back to
// Synthesize on any failure.
type Fetcher struct {
	baseURL string
	client  *http.Client
	cache   Cache
	ttl     time.Duration
	clock   clock.Clock
	rand    Rand
	logger  *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

func WithBaseURL(u string) FetcherOption {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithCache enables caching of live results for ttl.
func WithCache(c Cache, ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.cache = c
		f.ttl = ttl
	}
}

func WithClock(c clock.Clock) FetcherOption {
	return func(f *Fetcher) { f.clock = c }
}

// WithRand sets the randomness used for synthesized calendars.
func WithRand(r Rand) FetcherOption {
	return func(f *Fetcher) { f.rand = r }
}

func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher returns a Fetcher using the public API with a 10s timeout.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		clock:   clock.Real(),
		rand:    DefaultRand(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f
}

// Load returns the calendar for user. A fresh cached copy wins; otherwise
// the live API is queried and, if that fails for any reason, a
// synthesized calendar of the same shape is returned instead. Load never
// fails.
func (f *Fetcher) Load(ctx context.Context, user string) (Calendar, Origin) {
	if f.cache != nil && user != "" {
		cal, fetchedAt, err := f.cache.GetCalendar(ctx, user)
		if err == nil && f.clock.Now().Sub(fetchedAt) < f.ttl {
			return cal, OriginCache
		}
	}

	cal, err := f.FetchLive(ctx, user)
	if err != nil {
		f.logger.Warn("contributions unavailable, synthesizing", "user", user, "error", err)
		return Synthesize(f.clock.Now(), f.rand), OriginSynthesized
	}

	if f.cache != nil {
		if err := f.cache.PutCalendar(ctx, user, cal, f.clock.Now()); err != nil {
			f.logger.Warn("caching contributions", "user", user, "error", err)
		}
	}
	return cal, OriginLive
}

// FetchLive queries the API for the trailing year of user's activity.
func (f *Fetcher) FetchLive(ctx context.Context, user string) (Calendar, error) {
	if user == "" {
		return Calendar{}, errors.New("no GitHub user configured")
	}

	endpoint := fmt.Sprintf("%s/%s?y=last", f.baseURL, url.PathEscape(user))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Calendar{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Calendar{}, fmt.Errorf("fetch contributions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Calendar{}, fmt.Errorf("fetch contributions: unexpected status %s", resp.Status)
	}

	var cal Calendar
	if err := json.NewDecoder(resp.Body).Decode(&cal); err != nil {
		return Calendar{}, fmt.Errorf("decode contributions: %w", err)
	}
	if cal.Total == nil {
		cal.Total = map[string]int{}
	}
	clampLevels(cal.Contributions)
	return cal, nil
}
