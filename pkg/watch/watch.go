// Package watch reports changed source files under a set of directories,
// batching bursts of filesystem events.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/sqlxfmt/internal/logging"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 150 * time.Millisecond

// Handler receives the sorted, deduplicated files changed in one batch.
type Handler func(ctx context.Context, paths []string)

// Watcher watches directory trees recursively.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *log.Logger
	match    func(path string) bool
	skipDir  func(name string) bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a batch is delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithFilter selects which files are reported. By default every file is.
func WithFilter(match func(path string) bool) Option {
	return func(w *Watcher) {
		w.match = match
	}
}

// WithSkipDirs names directories that are never watched.
// Hidden directories are always skipped.
func WithSkipDirs(names ...string) Option {
	return func(w *Watcher) {
		w.skipDir = func(name string) bool {
			return slices.Contains(names, name)
		}
	}
}

// New creates a Watcher. Call Add for each root, then Run.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		debounce: DefaultDebounce,
		logger:   logging.Default(),
		match:    func(string) bool { return true },
		skipDir:  func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches root and every directory below it.
func (w *Watcher) Add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		root = filepath.Dir(root)
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && w.ignoredDir(entry.Name()) {
			return filepath.SkipDir
		}

		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", logging.FieldPath, path, logging.FieldError, err)
			return nil
		}
		w.logger.Debug("watching directory", logging.FieldPath, path)
		return nil
	})
}

func (w *Watcher) ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || w.skipDir(name)
}

// Run delivers batches of changed files to handle until ctx is done.
// handle runs on the watcher goroutine, so events arriving meanwhile are
// batched for the next call.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.record(event, pending) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", logging.FieldError, err)

		case <-timer.C:
			if paths := flush(pending); len(paths) > 0 {
				handle(ctx, paths)
			}
		}
	}
}

// record adds a relevant event to pending and reports whether it did.
func (w *Watcher) record(event fsnotify.Event, pending map[string]struct{}) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) && !w.ignoredDir(info.Name()) {
			if err := w.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch directory", logging.FieldPath, event.Name, logging.FieldError, err)
			}
		}
		return false
	}

	if strings.HasPrefix(filepath.Base(event.Name), ".") || !w.match(event.Name) {
		return false
	}

	pending[event.Name] = struct{}{}
	return true
}

func flush(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
		delete(pending, path)
	}
	slices.Sort(paths)
	return paths
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
