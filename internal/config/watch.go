package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the scoring config when the file changes on disk.
// Invalid updates are logged and skipped so a half-written file never
// replaces a good configuration. Running games keep their immutable copy;
// only new games observe the reloaded values.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	onLoad  func(*ScoringConfig)
	done    chan struct{}
}

// NewWatcher starts watching the scoring config path. onLoad is invoked
// with each successfully validated reload.
func NewWatcher(path string, onLoad func(*ScoringConfig)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	// Watch the directory rather than the file so editors that replace
	// the file (write to temp, rename) keep being observed.
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			log.Printf("[Config] Failed to close watcher: %v", closeErr)
		}
		return nil, fmt.Errorf("watch config directory %s: %w", dir, err)
	}

	w := &Watcher{
		path:    path,
		watcher: fsw,
		onLoad:  onLoad,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadScoring(w.path)
			if err != nil {
				log.Printf("[Config] Ignoring invalid scoring config update: %v", err)
				continue
			}
			log.Printf("[Config] Reloaded scoring config version %s", cfg.Version)
			w.onLoad(cfg)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Config] Watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
