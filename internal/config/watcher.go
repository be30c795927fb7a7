package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"calcnerd/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the config file must stay quiet before it is
// reloaded.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads a config file when it changes on disk and delivers the
// new Config on Updates. The parent directory is watched so editors that
// replace the file by rename are picked up too.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan *Config

	mu      sync.Mutex
	pending time.Time
	reloads int
}

// NewWatcher creates a watcher for path. A non-positive debounce means
// DefaultDebounce.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Get(logging.CategoryConfig).Warn("Watcher: failed to create config dir %s: %v (continuing anyway)", dir, err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	logging.Config("Watcher: watching %s", path)

	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		watcher:  fw,
		updates:  make(chan *Config, 1),
	}, nil
}

// Updates delivers each successfully reloaded config. Only the latest
// unread config is kept. The channel is closed when Run returns.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Reloads returns how many reloads have been delivered.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Run processes events until ctx is cancelled, then releases the
// underlying watcher. It always returns nil so it can run in an errgroup
// without cancelling its siblings on shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer func() {
		if err := w.watcher.Close(); err != nil {
			logging.Get(logging.CategoryConfig).Error("Watcher: error closing: %v", err)
		}
		logging.Config("Watcher: stopped")
	}()

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Get(logging.CategoryConfig).Error("Watcher error: %v", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	logging.ConfigDebug("Watcher: %s on %s", event.Op, event.Name)

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		logging.Get(logging.CategoryConfig).Warn("Watcher: reload failed, keeping current config: %v", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		logging.Get(logging.CategoryConfig).Warn("Watcher: reloaded config rejected: %v", err)
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	// Drop a stale unread update so the consumer sees the newest one.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	logging.Config("Watcher: reloaded %s", w.path)
}
