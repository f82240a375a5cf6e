// Package watcher turns filesystem notifications for one configuration file
// into debounced reload requests.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chess10kp/buttonlauncher/internal/logging"
)

var ErrWatcherAlreadyRunning = errors.New("watcher is already running")

// Watcher observes the directory holding the configuration file and requests
// a reload when the file itself is written, created or renamed into place.
type Watcher struct {
	path      string
	dir       string
	base      string
	debouncer *Debouncer
	logger    *logging.Logger

	mu   sync.Mutex
	fsw  *fsnotify.Watcher
	done chan struct{}
}

func New(path string, delay time.Duration, logger *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{
		path:      filepath.Clean(abs),
		dir:       filepath.Dir(abs),
		base:      filepath.Base(abs),
		debouncer: NewDebouncer(delay),
		logger:    logger,
	}, nil
}

// Reloads delivers one value per debounced burst of changes.
func (w *Watcher) Reloads() <-chan struct{} {
	return w.debouncer.C()
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fsw != nil
}

// Start subscribes to change notifications for the file's directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw != nil {
		return ErrWatcherAlreadyRunning
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	go w.loop(fsw, w.done)

	w.logger.Info("[WATCHER] watching %s", w.path)
	return nil
}

// Stop releases the subscription. It returns after the event goroutine has
// exited, and discards any reload request that was still queued.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsw, done := w.fsw, w.done
	w.fsw, w.done = nil, nil
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}

	err := fsw.Close()
	<-done
	w.debouncer.Stop()

	w.logger.Info("[WATCHER] stopped watching %s", w.path)
	return err
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ShouldReload(w.path, w.base, event) {
				w.debouncer.Trigger()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("[WATCHER] file watcher error", err)
		}
	}
}

// ShouldReload reports whether an event concerns the configuration file and
// is a content write, a create or a rename.
func ShouldReload(configPath, configBase string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == configPath {
		return true
	}
	// Relative event names from some backends only carry the base name.
	return filepath.Base(name) == configBase
}
