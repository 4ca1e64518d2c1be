// Package watch reloads open page sessions when fixture files change on
// disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader re-reads one fixture in the sessions that use it.
type Reloader interface {
	ReloadFixture(ctx context.Context, fixtureName string) (int, error)
}

// Watcher coalesces bursts of writes to <dir>/<name>.json into one reload
// per fixture name once the file has been quiet for the debounce interval.
type Watcher struct {
	dir      string
	debounce time.Duration
	reloader Reloader
	logger   *slog.Logger
	fs       *fsnotify.Watcher
}

// New starts watching dir. A nil logger discards output and a non-positive
// debounce falls back to 10ms. Call Run to process events.
func New(dir string, debounce time.Duration, reloader Reloader, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = 10 * time.Millisecond
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fixture watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{dir: dir, debounce: debounce, reloader: reloader, logger: logger.With("dir", dir), fs: fw}, nil
}

// FixtureName maps a watched path to its fixture name, or "" for files that
// are not fixtures.
func FixtureName(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") || strings.HasPrefix(base, ".") {
		return ""
	}
	return strings.TrimSuffix(base, ".json")
}

// Run blocks until ctx is cancelled or the underlying watcher fails, then
// releases it.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	tick := w.debounce / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if name := FixtureName(ev.Name); name != "" {
				pending[name] = time.Now()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorContext(ctx, "fixture watcher error", "error", err)

		case now := <-ticker.C:
			for name, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, name)
				w.reload(ctx, name)
			}
		}
	}
}

func (w *Watcher) reload(ctx context.Context, name string) {
	n, err := w.reloader.ReloadFixture(ctx, name)
	if err != nil {
		w.logger.WarnContext(ctx, "fixture reload failed", "fixture", name, "error", err)
		return
	}
	w.logger.InfoContext(ctx, "fixture reloaded", "fixture", name, "sessions", n)
}
