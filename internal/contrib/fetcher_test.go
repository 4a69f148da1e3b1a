package contrib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Zachkp/resume-site/internal/clock"
)

const liveBody = `{
  "total": {"2025": 120, "2026": 300},
  "contributions": [
    {"date": "2026-10-15", "count": 0, "level": 0},
    {"date": "2026-10-16", "count": 12, "level": 3},
    {"date": "2026-10-17", "count": 55, "level": 7}
  ]
}`

// memCache is an in-memory Cache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	puts    int
}

type memEntry struct {
	cal Calendar
	at  time.Time
}

func newMemCache() *memCache { return &memCache{entries: map[string]memEntry{}} }

func (m *memCache) GetCalendar(_ context.Context, user string) (Calendar, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[user]
	if !ok {
		return Calendar{}, time.Time{}, errors.New("miss")
	}
	return e.cal, e.at, nil
}

func (m *memCache) PutCalendar(_ context.Context, user string, cal Calendar, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[user] = memEntry{cal: cal, at: at}
	m.puts++
	return nil
}

func newAPI(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	hits := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/octocat" || r.URL.Query().Get("y") != "last" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestFetcherLive(t *testing.T) {
	srv, _ := newAPI(t, http.StatusOK, liveBody)
	f := NewFetcher(WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))

	cal, origin := f.Load(context.Background(), "octocat")
	if origin != OriginLive {
		t.Fatalf("origin = %q, want %q", origin, OriginLive)
	}
	if got := cal.TotalCount(); got != 420 {
		t.Errorf("TotalCount() = %d, want 420", got)
	}

	want := []Day{
		{Date: mustDate(t, "2026-10-15"), Count: 0, Level: 0},
		{Date: mustDate(t, "2026-10-16"), Count: 12, Level: 3},
		{Date: mustDate(t, "2026-10-17"), Count: 55, Level: 4},
	}
	if diff := cmp.Diff(want, cal.Contributions); diff != "" {
		t.Errorf("Contributions mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcherFallsBackToSynthesized(t *testing.T) {
	fake := clock.NewFake(today)

	tests := []struct {
		name   string
		status int
		body   string
		user   string
	}{
		{"server error", http.StatusInternalServerError, `{}`, "octocat"},
		{"not found", http.StatusOK, liveBody, "someone-else"},
		{"malformed json", http.StatusOK, `{"total": [`, "octocat"},
		{"bad date", http.StatusOK, `{"total":{},"contributions":[{"date":"yesterday"}]}`, "octocat"},
		{"no user", http.StatusOK, liveBody, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newAPI(t, tt.status, tt.body)
			f := NewFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithClock(fake), WithRand(seeded(7)))

			cal, origin := f.Load(context.Background(), tt.user)
			if origin != OriginSynthesized {
				t.Fatalf("origin = %q, want %q", origin, OriginSynthesized)
			}
			if diff := cmp.Diff(Synthesize(today, seeded(7)), cal); diff != "" {
				t.Errorf("fallback differs from Synthesize (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetcherUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	f := NewFetcher(WithBaseURL(addr), WithHTTPClient(&http.Client{Timeout: time.Second}))
	cal, origin := f.Load(context.Background(), "octocat")
	if origin != OriginSynthesized {
		t.Fatalf("origin = %q, want %q", origin, OriginSynthesized)
	}
	if len(cal.Contributions) != SynthesizedDays {
		t.Fatalf("len(Contributions) = %d, want %d", len(cal.Contributions), SynthesizedDays)
	}
}

func TestFetcherCache(t *testing.T) {
	srv, hits := newAPI(t, http.StatusOK, liveBody)
	fake := clock.NewFake(today)
	cache := newMemCache()
	f := NewFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithClock(fake), WithCache(cache, time.Hour))

	if _, origin := f.Load(context.Background(), "octocat"); origin != OriginLive {
		t.Fatalf("first load origin = %q, want live", origin)
	}
	if _, origin := f.Load(context.Background(), "octocat"); origin != OriginCache {
		t.Fatalf("second load origin = %q, want cache", origin)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("API hit %d times, want 1", n)
	}

	fake.Advance(2 * time.Hour)
	if _, origin := f.Load(context.Background(), "octocat"); origin != OriginLive {
		t.Fatalf("load after expiry origin = %q, want live", origin)
	}
	if n := hits.Load(); n != 2 || cache.puts != 2 {
		t.Fatalf("hits=%d puts=%d, want 2/2", n, cache.puts)
	}
}

func TestFetcherDoesNotCacheSynthesized(t *testing.T) {
	srv, _ := newAPI(t, http.StatusBadGateway, "")
	cache := newMemCache()
	f := NewFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithCache(cache, time.Hour))

	f.Load(context.Background(), "octocat")
	if cache.puts != 0 {
		t.Fatalf("synthesized calendar was cached (%d puts)", cache.puts)
	}
}

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
