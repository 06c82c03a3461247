package engine

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher turns filesystem events under the repository root into sync
// kicks. It exists to shorten the latency between an edit and its upload;
// correctness never depends on it, because the interval loop and the lock
// carry the actual guarantees. Event bursts are coalesced: one kick per
// quiet period, dropped entirely if a kick is already pending.
type Watcher struct {
	watcher  *fsnotify.Watcher
	kicks    chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	root     string
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a Watcher for the repository rooted at root.
// Start() must be called before it emits kicks.
func NewWatcher(root string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		watcher:  fsw,
		kicks:    make(chan struct{}, 1),
		done:     make(chan struct{}),
		root:     root,
		debounce: debounce,
		log:      logger,
	}, nil
}

// Start begins watching the repository tree (the VCS metadata directory
// excluded) and emitting kicks.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := w.addTree(w.root); err != nil {
		return err
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// Kicks returns the channel that fires when coalesced changes warrant an
// early sync cycle.
func (w *Watcher) Kicks() <-chan struct{} {
	return w.kicks
}

// addTree registers root and every non-ignored subdirectory with the
// underlying watcher. fsnotify watches are not recursive.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish mid-walk; skip rather than fail.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// ignored reports whether path is VCS metadata the watcher must not react
// to. Engine-originated writes (commits, stash bookkeeping, the lock
// marker) all land there, and reacting to them would kick cycles forever.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	return rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator))
}

// processEvents coalesces raw events into kicks.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.ignored(event.Name) {
				continue
			}

			// New directories need their own watch.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.log.Warn("watching new directory", "path", event.Name, "error", err)
					}
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			select {
			case w.kicks <- struct{}{}:
			default:
				// A kick is already pending; the cycle it triggers
				// will see these changes too.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("filesystem watcher error", "error", err)
		}
	}
}
