// Package watcher monitors a tree document on disk so long-running views
// can reload when the file changes. It uses fsnotify where available and
// falls back to stat polling.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults for the debounce window and the polling fallback interval.
const (
	DefaultDebounce     = 250 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window. Bursts of events closer together
// than this collapse into one change notification.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval for polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnChange sets the callback invoked after the file changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll forces polling mode even when fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors a single file for changes.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	onChange     func()
	onError      func(error)
	forcePoll    bool

	fsWatcher *fsnotify.Watcher
	polling   bool
	lastMtime time.Time
	lastSize  int64

	debounceMu    sync.Mutex
	debounceTimer *time.Timer

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for the given path. The file does not have to
// exist yet.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:         absPath,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		onChange:     func() {},
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.polling = w.forcePoll

	if info, err := os.Stat(w.path); err == nil {
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	} else {
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}

	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.polling = true
		} else {
			// Watch the containing directory so atomic replace-writes
			// (write temp, rename over) are seen as events on the target.
			if err := fsw.Add(filepath.Dir(w.path)); err != nil {
				fsw.Close()
				w.polling = true
			} else {
				w.fsWatcher = fsw
				go w.watchFsnotify()
			}
		}
	}
	if w.polling {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching. The change channel stays open; a stopped watcher
// simply stops sending.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()

	w.started = false
}

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives after the file changes, as an
// alternative to the OnChange callback.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) watchFsnotify() {
	targetFile := filepath.Base(w.path)

	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errCh := w.fsWatcher.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != targetFile {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.trigger()
			}

		case err, ok := <-errCh:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if os.IsNotExist(err) {
					// Report the removal once; the cleared state also
					// makes a later re-creation look like a change.
					w.mu.Lock()
					hadFile := !w.lastMtime.IsZero()
					w.lastMtime = time.Time{}
					w.lastSize = 0
					w.mu.Unlock()
					if hadFile {
						w.onError(ErrFileRemoved)
					}
				} else {
					w.onError(err)
				}
				continue
			}

			w.mu.Lock()
			changed := info.ModTime().After(w.lastMtime) || info.Size() != w.lastSize
			if changed {
				w.lastMtime = info.ModTime()
				w.lastSize = info.Size()
			}
			w.mu.Unlock()

			if changed {
				w.trigger()
			}
		}
	}
}

// trigger schedules a debounced change notification, restarting the window
// if one is already pending.
func (w *Watcher) trigger() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.notifyChange)
}

func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
