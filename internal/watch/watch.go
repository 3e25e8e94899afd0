// Package watch notifies about changes in a directory tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a change
// is reported.
const DefaultDebounce = 250 * time.Millisecond

// ExcludeFunc reports whether path should not be watched.
type ExcludeFunc func(path string, isDir bool) bool

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Exclude  ExcludeFunc
}

// Option modifies Options.
type Option func(*Options)

// WithDebounce sets the debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.Debounce = d
		}
	}
}

// WithExclude sets the function deciding which paths are ignored.
func WithExclude(fn ExcludeFunc) Option {
	return func(o *Options) {
		o.Exclude = fn
	}
}

// Watcher watches a directory tree recursively. Directories created while
// watching are added automatically.
type Watcher struct {
	root    string
	opts    Options
	watcher *fsnotify.Watcher
}

// New creates a Watcher and registers root and all of its not excluded
// subdirectories.
func New(root string, opts ...Option) (*Watcher, error) {
	options := Options{Debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&options)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}
	w := &Watcher{root: root, opts: options, watcher: fw}
	if err := w.addTree(root); err != nil {
		return nil, errors.Join(err, fw.Close())
	}
	return w, nil
}

func (w *Watcher) excluded(path string, isDir bool) bool {
	return path != w.root && w.opts.Exclude != nil && w.opts.Exclude(path, isDir)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.excluded(path, true) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("could not watch %q: %w", path, err)
		}
		return nil
	})
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange after every burst of changes until ctx is done. Errors
// returned by onChange are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.DebugContext(ctx, "file system event", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "file watcher error", slog.String("error", err.Error()))
		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				slog.ErrorContext(ctx, "change handler failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		// removed or renamed, a directory only if it was watched
		return !w.excluded(event.Name, slices.Contains(w.watcher.WatchList(), event.Name))
	}
	if !info.IsDir() {
		return !w.excluded(event.Name, false)
	}
	if w.excluded(event.Name, true) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err != nil {
			slog.Warn("could not watch new directory", slog.String("path", event.Name), slog.String("error", err.Error()))
		}
	}
	return true
}
