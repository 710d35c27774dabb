package profile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a store whenever its keymap file changes on disk.
type Watcher struct {
	path     string
	store    *Store
	logger   *slog.Logger
	onReload func()
}

// NewWatcher creates a watcher for path that reloads into store.
// onReload, if non-nil, is called after every successful reload.
func NewWatcher(path string, store *Store, logger *slog.Logger, onReload func()) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		logger:   logger,
		onReload: onReload,
	}
}

// Run watches the keymap's directory until ctx is cancelled. A file that
// fails to parse is logged and the current mapping is kept.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("keymap watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("keymap reload failed", "path", w.path, "error", err)
		return
	}

	profiles, err := Unmarshal(data)
	if err != nil {
		w.logger.Warn("keymap reload failed, keeping current mapping", "path", w.path, "error", err)
		return
	}

	w.store.Replace(profiles)
	w.logger.Info("keymap reloaded", "path", w.path, "profiles", len(profiles))

	if w.onReload != nil {
		w.onReload()
	}
}
