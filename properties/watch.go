package properties

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// WatchSource serves properties from a file and reloads its snapshot
// when the file changes on disk. The parent directory is watched rather
// than the file itself so atomic save-and-rename editors and config
// management tools are picked up. A failed reload keeps the previous
// snapshot.
//
// A registry built from a WatchSource does not change retroactively;
// the embedding application rebuilds its registry to pick up new values.
type WatchSource struct {
	path     string
	load     fileLoader
	watcher  *fsnotify.Watcher
	snapshot atomic.Pointer[map[string]any]

	closeOnce sync.Once
	done      chan struct{}
	closed    atomic.Bool
}

// NewWatchSource loads the file and begins watching it for changes.
// Callers must Close the source to release the watcher.
func NewWatchSource(path string) (*WatchSource, error) {
	loader, err := loaderFor(path)
	if err != nil {
		return nil, err
	}
	values, err := loader(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	w := &WatchSource{
		path:    path,
		load:    loader,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	w.snapshot.Store(&values)
	go w.run()
	return w, nil
}

// Lookup implements Source against the current snapshot.
func (w *WatchSource) Lookup(key string) (any, bool, error) {
	if w.closed.Load() {
		return nil, false, ErrWatcherClosed
	}
	values := *w.snapshot.Load()
	v, ok := values[key]
	return v, ok, nil
}

// Close stops the watcher. Safe to call multiple times.
func (w *WatchSource) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *WatchSource) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if values, err := w.load(w.path); err == nil {
				w.snapshot.Store(&values)
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
