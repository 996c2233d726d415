package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"docbrowse/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it changes on disk and delivers
// the successfully validated result on Updates.
type Watcher struct {
	path      string
	updates   chan *Config
	stopChan  chan struct{}
	fsWatcher *fsnotify.Watcher

	mutex   sync.Mutex
	running bool
}

// NewWatcher watches path. The parent directory is watched rather than the
// file so that editors that replace the file by rename are picked up.
func NewWatcher(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:      filepath.Clean(path),
		updates:   make(chan *Config, 1),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
	}, nil
}

// Updates delivers reloaded configurations. Only the newest pending one is kept.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mutex.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}

				cfg, err := LoadConfigFile(w.path)
				if err != nil {
					log.LogWithFields(log.F("file", w.path), log.F("error", err)).Warn("Ignoring invalid config change")
					continue
				}
				w.publish(cfg)

			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

			case <-w.stopChan:
				return
			}
		}
	}()

	log.LogWithFields(log.F("file", w.path)).Debug("Watching config file")
	return nil
}

func (w *Watcher) publish(cfg *Config) {
	// Drop a stale pending update so the newest always wins
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- cfg:
	default:
	}
}

// Stop halts the watcher
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		w.fsWatcher.Close()
		return
	}

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
}
