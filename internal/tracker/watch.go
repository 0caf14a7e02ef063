package tracker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/bashhack/dirtrack/internal/logger"
)

// changeWatcher signals when anything below root is written, created,
// removed or renamed. Excluded directories are never watched.
type changeWatcher struct {
	root     string
	excluded map[string]struct{}
	ignored  map[string]struct{}
	logger   logger.Logger

	watcher *fsnotify.Watcher
	events  chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup

	mu    sync.Mutex
	paths map[string]struct{}
}

// newChangeWatcher starts watching every non-excluded directory below root.
// Events on the files in ignore (the state and log files) are dropped.
func newChangeWatcher(root string, excludes []string, ignore []string, log logger.Logger) (*changeWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &changeWatcher{
		root:     root,
		excluded: make(map[string]struct{}, len(excludes)),
		ignored:  make(map[string]struct{}, len(ignore)),
		logger:   log,
		watcher:  watcher,
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		paths:    make(map[string]struct{}),
	}
	for _, name := range excludes {
		w.excluded[name] = struct{}{}
	}
	for _, path := range ignore {
		if abs, err := filepath.Abs(path); err == nil {
			w.ignored[abs] = struct{}{}
		}
	}

	if err := w.addTree(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Events delivers at most one pending notification at a time.
func (w *changeWatcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher and waits for the event pump to exit.
func (w *changeWatcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *changeWatcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.skip(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Debug("File watcher error: %v", err)
		}
	}
}

func (w *changeWatcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

// skip reports whether path is an ignored file or lies in an excluded directory.
func (w *changeWatcher) skip(path string) bool {
	if _, ok := w.ignored[path]; ok {
		return true
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		if _, ok := w.excluded[segment]; ok {
			return true
		}
	}
	return false
}

func (w *changeWatcher) maybeWatchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	// mkdir -p may have created nested directories before the watch was added.
	if err := w.addTree(path); err != nil {
		w.logger.Debug("File watcher could not follow %s: %v", path, err)
	}
}

func (w *changeWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root {
			if _, ok := w.excluded[d.Name()]; ok {
				return fs.SkipDir
			}
		}
		return w.addDir(path)
	})
}

func (w *changeWatcher) addDir(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return nil
	}
	if err := w.watcher.Add(path); err != nil {
		if path == w.root {
			return err
		}
		w.logger.Debug("File watcher add failed for %s: %v", path, err)
		return nil
	}
	w.paths[path] = struct{}{}
	return nil
}
