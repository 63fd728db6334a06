// Package daemon provides file watching for stagesync watch mode.
//
// Watch mode observes a local dataset file and triggers a re-sync when
// it changes. Editors commonly replace files via rename, so the watch is
// placed on the parent directory and events are filtered by filename.
package daemon

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses bursts of write events (editors often emit
// several per save) into a single change notification.
const debounceWindow = 500 * time.Millisecond

// DatasetWatcher watches one dataset file for changes.
type DatasetWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan struct{}
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewDatasetWatcher creates a watcher for the dataset file at path.
// The watcher must be started with Start() before it emits changes.
func NewDatasetWatcher(path string) (*DatasetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dataset path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &DatasetWatcher{
		watcher: watcher,
		path:    abs,
		changes: make(chan struct{}, 1),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the dataset file's directory for changes.
func (w *DatasetWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop stops watching and cleans up resources. It blocks until the
// event processing goroutine has exited.
func (w *DatasetWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.wg.Wait()

	close(w.changes)
	close(w.errors)

	return nil
}

// Changes returns the channel that emits one notification per debounced
// dataset change. The channel is closed when the watcher is stopped.
func (w *DatasetWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors returns the channel that emits watcher errors.
func (w *DatasetWatcher) Errors() <-chan error {
	return w.errors
}

// IsRunning returns true if the watcher is currently running.
func (w *DatasetWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// processEvents filters fsnotify events down to debounced changes of
// the watched dataset file.
func (w *DatasetWatcher) processEvents() {
	defer w.wg.Done()

	var debounce *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.done:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case <-fire:
			select {
			case w.changes <- struct{}{}:
			case <-w.done:
				return
			default:
				// A change is already pending; the consumer will pick
				// up the latest file contents anyway.
			}

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// matches reports whether an fsnotify event concerns the dataset file.
// Renames count as changes because editors save via rename-over.
func (w *DatasetWatcher) matches(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil || abs != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
