// Package watcher monitors the cpulse config file so a token or backend
// change takes effect without restarting the TUI. It uses fsnotify when
// the filesystem supports it and falls back to mtime polling otherwise.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/commitpulse/commitpulse/pkg/debug"
)

// DefaultPollInterval is the polling cadence for fallback mode.
const DefaultPollInterval = 2 * time.Second

// DefaultDebounce coalesces bursts of write events into one change.
const DefaultDebounce = 200 * time.Millisecond

// ErrAlreadyStarted is returned by Start on a running watcher.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithDebounce sets the event coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors a single file for changes.
type Watcher struct {
	path         string
	pollInterval time.Duration
	debounce     time.Duration
	forcePoll    bool

	mu        sync.Mutex
	started   bool
	polling   bool
	fsWatcher *fsnotify.Watcher
	lastMtime time.Time
	lastSize  int64
	ctx       context.Context
	cancel    context.CancelFunc
	changeCh  chan struct{}
}

// New creates a watcher for the given path. The file may not exist yet;
// its creation counts as a change.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         absPath,
		pollInterval: DefaultPollInterval,
		debounce:     DefaultDebounce,
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Changes returns the channel change notifications arrive on. The
// channel has capacity one; coalesced bursts deliver a single value.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changeCh
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	if info, err := os.Stat(w.path); err == nil {
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	}

	w.polling = true
	if !w.forcePoll {
		if fsw, err := fsnotify.NewWatcher(); err == nil {
			// Watch the parent directory; editors replace files
			// atomically and per-file watches go stale.
			if err := fsw.Add(filepath.Dir(w.path)); err == nil {
				w.fsWatcher = fsw
				w.polling = false
				go w.watchFsnotify()
			} else {
				fsw.Close()
			}
		}
	}
	if w.polling {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching. The change channel stays open: closing it would
// race with in-flight notifications, and Stop runs only at teardown.
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
	w.started = false
}

// IsPolling reports whether the watcher runs in fallback polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

func (w *Watcher) notify() {
	select {
	case w.changeCh <- struct{}{}:
	default: // a change is already pending
	}
}

func (w *Watcher) watchFsnotify() {
	var timer *time.Timer
	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.notify)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			debug.LogErr("watcher", err)
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
				continue
			}
			if !info.ModTime().Equal(w.lastMtime) || info.Size() != w.lastSize {
				w.lastMtime = info.ModTime()
				w.lastSize = info.Size()
				w.notify()
			}
		}
	}
}
