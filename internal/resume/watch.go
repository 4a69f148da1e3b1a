package resume

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// Watch reloads file whenever it changes and hands each valid result to
// onChange. Invalid edits are logged and skipped, so the last good résumé
// stays live. The parent directory is watched because editors often save
// by renaming over the original. Watch blocks until ctx is done.
func Watch(ctx context.Context, file string, logger *slog.Logger, onChange func(*Resume)) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", file, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()
	var changedAt time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				changedAt = time.Now()
			}

		case <-ticker.C:
			if changedAt.IsZero() || time.Since(changedAt) < watchDebounce {
				continue
			}
			changedAt = time.Time{}
			r, err := LoadFile(abs)
			if err != nil {
				logger.Warn("résumé reload failed, keeping previous version", "file", abs, "error", err)
				continue
			}
			logger.Info("résumé reloaded", "file", abs)
			onChange(r)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("résumé watcher error", "error", err)
		}
	}
}
