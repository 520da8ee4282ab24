package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
)

// debounceWindow coalesces the write bursts editors produce on save.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the configuration when its file changes on disk and
// hands the fresh copy to a callback. Only validated configs are
// delivered; a broken edit keeps the previous one in effect.
type Watcher struct {
	path   string
	logger *logging.Logger
	onLoad func(*Config)
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(path string, logger *logging.Logger, onLoad func(*Config)) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		path:   path,
		logger: logger.WithComponent("config.watcher"),
		onLoad: onLoad,
	}
}

// Run watches until the context is canceled. The watch is on the parent
// directory: editors replace files on save, which drops inode-level
// watches.
func (w *Watcher) Run(ctx context.Context) error {
	if w.path == "" {
		<-ctx.Done()
		return ctx.Err()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watch error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := NewLoader().WithConfigFile(w.path).Load()
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous", "error", err)
		return
	}
	if err := Validate(cfg); err != nil {
		w.logger.Warn("config reload invalid, keeping previous", "error", err)
		return
	}
	w.logger.Info("configuration reloaded", "path", w.path)
	if w.onLoad != nil {
		w.onLoad(cfg)
	}
}
