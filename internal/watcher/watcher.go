// Package watcher triggers snapshot reloads when the document or category files
// change on disk.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
)

// DefaultDebounce is the quiet period after the last event before a change fires.
const DefaultDebounce = 50 * time.Millisecond

// ErrNoFiles is returned when Watch is called without any file paths.
var ErrNoFiles = errors.New("watcher: no files to watch")

// Watcher watches a fixed set of files. It watches their parent directories so
// editors that save through a rename are still observed.
type Watcher struct {
	fw       *fsnotify.Watcher
	logger   infralogger.Logger
	debounce time.Duration

	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// New creates a file watcher. A non-positive debounce uses DefaultDebounce.
func New(debounce time.Duration, log infralogger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Watcher{
		fw:       fw,
		logger:   log,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring files. onChange receives the sorted absolute paths
// that changed during one debounce window.
func (w *Watcher) Watch(files []string, onChange func(paths []string)) error {
	watched := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{}, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	if len(watched) == 0 {
		return ErrNoFiles
	}

	for dir := range dirs {
		if err := w.fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop(watched, onChange)
	return nil
}

func (w *Watcher) loop(watched map[string]struct{}, onChange func([]string)) {
	defer w.wg.Done()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[path]; !ok {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			w.logger.Debug("Watched files changed", infralogger.Strings("paths", paths))
			onChange(paths)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", infralogger.Error(err))

		case <-w.done:
			return
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}
