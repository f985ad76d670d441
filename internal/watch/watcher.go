// Package watch runs a callback when files under a project directory change.
//
// Events are debounced: a burst of saves triggers one callback once the
// tree has been quiet for the debounce period. The event loop and the
// callback share one goroutine, so callbacks never overlap.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Root is the directory watched recursively (default ".").
	Root string

	// Debounce is the quiet period before OnChange fires (default 500ms).
	Debounce time.Duration

	// Match selects the files whose changes count, by path relative to
	// Root. Nil matches everything.
	Match func(rel string) bool

	// SkipDir reports directories that are not watched.
	SkipDir func(path string) bool

	// OnChange receives the sorted relative paths changed since the last
	// call. An error is passed to OnError and watching continues.
	OnChange func(ctx context.Context, changed []string) error

	// OnError receives callback and non-fatal watcher errors.
	OnError func(error)
}

// Watcher monitors a directory tree.
type Watcher struct {
	cfg Config
	fsw *fsnotify.Watcher
}

// New creates a Watcher and registers every directory under Root.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}
	cfg.Root = root
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.OnError == nil {
		cfg.OnError = func(error) {}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w := &Watcher{cfg: cfg, fsw: fsw}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying watcher. Run closes it on return.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Watched returns the directories currently registered.
func (w *Watcher) Watched() []string {
	dirs := w.fsw.WatchList()
	slices.Sort(dirs)
	return dirs
}

// Run processes events until ctx is cancelled, which returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := w.addTree(evt.Name); err != nil {
						w.cfg.OnError(err)
					}
				}
			}
			rel, err := filepath.Rel(w.cfg.Root, evt.Name)
			if err != nil {
				rel = evt.Name
			}
			if w.cfg.Match != nil && !w.cfg.Match(rel) {
				continue
			}
			pending[rel] = struct{}{}
			timer.Reset(w.cfg.Debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(pending)
			if w.cfg.OnChange == nil {
				continue
			}
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.cfg.OnError(err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.cfg.OnError(fmt.Errorf("watch: %w", err))
				continue
			}
			w.cfg.OnError(err)
		}
	}
}

// addTree registers dir and every directory below it that is not skipped.
// Unreadable directories are reported and left out.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch: %w", err)
			}
			w.cfg.OnError(err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.cfg.Root && w.cfg.SkipDir != nil && w.cfg.SkipDir(path) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}
