// Package watcher invalidates snapshot entries when artifacts change on
// disk, so the next load picks the changed artifacts up without waiting
// for a timestamp comparison cycle.
package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"sift/internal/logging"
)

// Invalidator drops prior knowledge of a path. Satisfied by
// snapshot.Store.
type Invalidator interface {
	Forget(path string) error
}

// Config contains watcher configuration
type Config struct {
	DebounceMs int `json:"debounceMs" mapstructure:"debounceMs"`
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{DebounceMs: 500}
}

// Watcher watches artifact roots and forgets changed paths after a quiet
// period. Roots are watched non-recursively: artifacts are flat files in
// each root.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	inv      Invalidator
	logger   *logging.Logger
	onFlush  func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer

	done chan struct{}
}

// New creates a watcher. onFlush, if non-nil, is called with the batch of
// invalidated paths after each debounced flush.
func New(cfg Config, inv Invalidator, logger *logging.Logger, onFlush func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = DefaultConfig().DebounceMs
	}

	return &Watcher{
		fsw:      fsw,
		debounce: time.Duration(cfg.DebounceMs) * time.Millisecond,
		inv:      inv,
		logger:   logger,
		onFlush:  onFlush,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Watch begins watching the given roots
func (w *Watcher) Watch(roots []string) error {
	for _, root := range roots {
		if err := w.fsw.Add(root); err != nil {
			return err
		}
		w.logger.Debug("watching root", map[string]interface{}{"root": root})
	}

	go w.run()
	return nil
}

// Close stops the watcher
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.mark(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", map[string]interface{}{"error": err.Error()})
		}
	}
}

// mark records a changed path and (re)arms the debounce timer
func (w *Watcher) mark(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush forgets every pending path in one batch
func (w *Watcher) flush() {
	w.mu.Lock()
	batch := make([]string, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	for _, path := range batch {
		if err := w.inv.Forget(path); err != nil {
			w.logger.Warn("invalidation failed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}

	w.logger.Info("invalidated changed artifacts", map[string]interface{}{
		"count": len(batch),
	})

	if w.onFlush != nil {
		w.onFlush(batch)
	}
}
