package address

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// Watch reloads store from the file at path whenever it is written or
// replaced, until ctx is done. Each reload is a full Load; a failed reload
// keeps the previous dataset. notify, if non-nil, receives every reload
// result. Watch blocks and should run in its own goroutine.
func Watch(ctx context.Context, store *Store, path string, logger *slog.Logger, notify func(error)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create dataset watcher: %w", err)
	}
	defer watcher.Close()

	// Editors and deploy tools usually replace the file, which drops a
	// watch on the file itself, so watch the directory instead.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			err := store.Load(ctx, FileSource(path))
			if err != nil {
				logger.Error("address dataset reload failed", "path", path, "error", err)
			}
			if notify != nil {
				notify(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("address dataset watcher error", "error", err)
		}
	}
}
