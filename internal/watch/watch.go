// Package watch reports changes to settings files so the resolved argument
// vector can be previewed while editing.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/neboloop/devtools-mcp/internal/logging"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls OnChange after any settings file in Dirs is written, created,
// renamed or removed. A directory in Dirs that does not exist yet is picked up
// when it is created, as long as its parent exists.
type Watcher struct {
	Dirs      []string
	FileNames []string
	Debounce  time.Duration
	OnChange  func()

	// dirs are the settings directories currently watched; pending are the
	// missing ones whose parent is watched instead.
	dirs    map[string]bool
	pending map[string]bool
}

// Run blocks until ctx is cancelled. At least one directory in Dirs, or the
// parent of one, must exist.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	w.dirs = map[string]bool{}
	w.pending = map[string]bool{}
	for _, dir := range w.Dirs {
		dir = filepath.Clean(dir)
		if isDir(dir) {
			if err := w.add(watcher, dir); err != nil {
				return err
			}
			continue
		}
		parent := filepath.Dir(dir)
		if !isDir(parent) {
			logging.Debugf("watch: skipping %s", dir)
			continue
		}
		if err := watcher.Add(parent); err != nil {
			return fmt.Errorf("watch: add %s: %w", parent, err)
		}
		logging.Debugf("watch: waiting for %s", dir)
		w.pending[dir] = true
	}
	if len(w.dirs) == 0 && len(w.pending) == 0 {
		return fmt.Errorf("watch: none of %v exists", w.Dirs)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.pending[event.Name] && event.Has(fsnotify.Create) && isDir(event.Name) {
				delete(w.pending, event.Name)
				if err := w.add(watcher, event.Name); err != nil {
					logging.Warnf("%v", err)
					continue
				}
				// Files may already exist by the time the directory is watched.
				timer.Reset(debounce)
				continue
			}
			if w.relevant(event) {
				logging.Debugf("watch: %s", event)
				timer.Reset(debounce)
			}

		case <-timer.C:
			if w.OnChange != nil {
				w.OnChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("watch: %v", err)
		}
	}
}

func (w *Watcher) add(watcher *fsnotify.Watcher, dir string) error {
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}
	logging.Infof("watching %s for settings changes", dir)
	w.dirs[dir] = true
	return nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !w.dirs[filepath.Dir(event.Name)] {
		return false
	}
	if len(w.FileNames) == 0 {
		return true
	}
	return slices.Contains(w.FileNames, filepath.Base(event.Name))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
