package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Zachkp/resume-site/internal/config"
	"github.com/Zachkp/resume-site/internal/contrib"
	"github.com/Zachkp/resume-site/internal/resume"
	"github.com/Zachkp/resume-site/internal/store"
)

func loadResume(cfg config.Config) (*resume.Resume, error) {
	r, err := resume.Load(cfg.ResumeFile)
	if err != nil {
		return nil, fmt.Errorf("load résumé: %w", err)
	}
	return r, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*store.Store, error) {
	opts := []store.Option{store.WithLogger(logger)}
	if cfg.HashSalt != "" {
		opts = append(opts, store.WithSalt(cfg.HashSalt))
	}
	st, err := store.Open(ctx, cfg.DatabasePath, opts...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newFetcher builds the contributions fetcher. A nil cache disables caching.
func newFetcher(cfg config.Config, cache contrib.Cache, logger *slog.Logger) *contrib.Fetcher {
	opts := []contrib.FetcherOption{
		contrib.WithBaseURL(cfg.ContributionsURL),
		contrib.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		contrib.WithLogger(logger),
	}
	if cache != nil && cfg.ContributionsTTL > 0 {
		opts = append(opts, contrib.WithCache(cache, cfg.ContributionsTTL))
	}
	return contrib.NewFetcher(opts...)
}
