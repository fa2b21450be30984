// Package watcher reports debounced batches of changed project files.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"typelint/internal/engine/enumerate"
	"typelint/internal/shared/observability"
	"typelint/internal/shared/util"
)

// DefaultIgnore matches editor scratch files by base name.
var DefaultIgnore = []string{".#*", "*~", "*.swp", "*.swx", "4913"}

type Options struct {
	Debounce time.Duration
	// Triggers are base names that cause a re-run even though they are not
	// source files, such as the project and tool configuration files.
	Triggers []string
	// Ignore holds base-name globs for files whose events are dropped.
	Ignore []string
}

type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	filter    *enumerate.Filter
	debounce  time.Duration
	triggers  map[string]bool
	ignore    []glob.Glob
	onChange  func([]string)

	callbackMu sync.Mutex

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
}

func NewWatcher(root string, filter *enumerate.Filter, opts Options, onChange func([]string)) (*Watcher, error) {
	if onChange == nil || filter == nil {
		return nil, os.ErrInvalid
	}

	ignore := opts.Ignore
	if ignore == nil {
		ignore = DefaultIgnore
	}
	compiled := make([]glob.Glob, 0, len(ignore))
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}

	triggers := make(map[string]bool, len(opts.Triggers))
	for _, name := range opts.Triggers {
		triggers[name] = true
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		root:      absRoot,
		filter:    filter,
		debounce:  opts.Debounce,
		triggers:  triggers,
		ignore:    compiled,
		onChange:  onChange,
		pending:   make(map[string]time.Time),
	}, nil
}

// Watch registers the root and every non-excluded directory below it and
// starts dispatching events.
func (w *Watcher) Watch() error {
	if err := w.watchRecursive(w.root); err != nil {
		return err
	}
	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Debug("skipping unreadable directory", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.shouldExcludeDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatchEventsTotal.Inc()

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.shouldExcludeDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						} else {
							w.enqueueExistingFiles(event.Name)
						}
					}
					continue
				}
			}

			if w.shouldExcludeFile(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.flushChanges()
	})
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := util.SortedStringKeys(w.pending)
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	rel := util.RelSlash(w.root, path)
	if rel == "" {
		return false
	}
	return w.filter.ExcludedDir(rel)
}

func (w *Watcher) shouldExcludeFile(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.ignore {
		if g.Match(base) {
			return true
		}
	}
	if w.triggers[base] {
		return false
	}
	rel := util.RelSlash(w.root, path)
	if rel == "" {
		return true
	}
	return !w.filter.Included(rel)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) enqueueExistingFiles(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d == nil {
			return nil
		}
		if d.IsDir() {
			if path != root && w.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.shouldExcludeFile(path) {
			return nil
		}
		w.scheduleChange(path)
		return nil
	})
}
