package jobs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rzstudio/abstractgen/internal/logging"
)

// Watcher watches a directory for dropped *.toml job files and delivers
// their paths on C. Writes are debounced per file so a job is only picked
// up once its producer has finished writing it.
type Watcher struct {
	dir      string
	debounce time.Duration

	paths   chan string
	watcher *fsnotify.Watcher
	logger  logging.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the per-file debounce duration. Default is 1500ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a job directory watcher.
func NewWatcher(dir string, opts ...WatcherOption) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      dir,
		debounce: 1500 * time.Millisecond,
		paths:    make(chan string, 128),
		timers:   make(map[string]*time.Timer),
		logger:   logging.GetLogger("jobs"),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// C delivers job file paths ready to be processed.
func (w *Watcher) C() <-chan string {
	return w.paths
}

// Start begins watching. Job files already present in the directory are
// queued immediately so a restart never strands pending work.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if addErr := watcher.Add(w.dir); addErr != nil {
		watcher.Close()
		return addErr
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		watcher.Close()
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() && isJobFile(entry.Name()) {
			w.enqueue(filepath.Join(w.dir, entry.Name()))
		}
	}

	w.logger.Info("Job watcher started", "dir", w.dir, "debounce", w.debounce)
	go w.watch()
	return nil
}

// Stop stops watching and cleans up resources.
func (w *Watcher) Stop() error {
	w.cancel()
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Job watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isJobFile(event.Name) {
				continue
			}
			w.logger.Debug("Job file change detected", "path", event.Name, "op", event.Op.String())
			w.resetTimer(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Job watcher error", "error", err)
		}
	}
}

// resetTimer restarts the debounce timer for one file; the path is queued
// only after the file has been quiet for the full debounce window.
func (w *Watcher) resetTimer(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if w.ctx.Err() != nil {
			return
		}
		w.enqueue(path)
	})
}

func (w *Watcher) enqueue(path string) {
	select {
	case w.paths <- path:
	default:
		w.logger.Warn("Job queue full, dropping job file", "path", path)
	}
}

func isJobFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".toml")
}
