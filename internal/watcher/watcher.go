// Package watcher reloads the article collection when articles.jsonl changes
// on disk.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultPollInterval is the polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// DefaultMinInterval is the shortest gap between two reloads.
const DefaultMinInterval = time.Second

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithMinInterval caps reloads to one per d. Zero disables the cap.
func WithMinInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.minInterval = d
	}
}

// WithOnChange sets the callback invoked when the file changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher monitors one file using fsnotify with a polling fallback.
type Watcher struct {
	path             string
	debounceDuration time.Duration
	pollInterval     time.Duration
	minInterval      time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool
	logger           *zap.Logger

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	limiter     *rate.Limiter
	useFallback bool
	lastMtime   time.Time
	lastSize    int64

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for path. Nothing happens until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		minInterval:      DefaultMinInterval,
		onChange:         func() {},
		onError:          func(error) {},
		logger:           zap.NewNop(),
		changeCh:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounceDuration)
	limit := rate.Inf
	if w.minInterval > 0 {
		limit = rate.Every(w.minInterval)
	}
	w.limiter = rate.NewLimiter(limit, 1)
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
	w.useFallback = w.forcePoll

	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	case os.IsPermission(err):
		w.cancel()
		return ErrPermission
	default:
		// Not created yet.
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}

	if !w.useFallback {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.logger.Warn("fsnotify unavailable, polling instead", zap.Error(err))
			w.useFallback = true
		} else if err := fsw.Add(filepath.Dir(w.path)); err != nil {
			// Watching the directory catches atomic rename-over writes.
			fsw.Close()
			w.logger.Warn("cannot watch directory, polling instead", zap.String("dir", filepath.Dir(w.path)), zap.Error(err))
			w.useFallback = true
		} else {
			w.fsWatcher = fsw
			go w.watchFsnotify(fsw.Events, fsw.Errors)
		}
	}
	if w.useFallback {
		go w.watchPolling()
	}

	w.started = true
	w.logger.Debug("watching articles file",
		zap.String("path", w.path),
		zap.Bool("polling", w.useFallback),
		zap.Duration("debounce", w.debouncer.Duration()))
	return nil
}

// Stop stops watching. A pending change is dropped. The Changed channel
// stays open.
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
	w.debouncer.Cancel()
	w.started = false
	w.logger.Debug("stopped watching articles file", zap.String("path", w.path))
}

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives after each reported change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) watchFsnotify(events <-chan fsnotify.Event, errs <-chan error) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.reportError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.reportError(err)
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
				switch {
				case os.IsNotExist(err):
					w.mu.RLock()
					hadFile := !w.lastMtime.IsZero()
					w.mu.RUnlock()
					if hadFile {
						w.reportError(ErrFileRemoved)
					}
				case os.IsPermission(err):
					w.reportError(ErrPermission)
				default:
					w.reportError(err)
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
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

func (w *Watcher) reportError(err error) {
	w.logger.Warn("watcher error", zap.String("path", w.path), zap.Error(err))
	w.onError(err)
}

// notifyChange waits for the rate limiter, then runs the callback and
// signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started, ctx := w.started, w.ctx
	w.mu.RUnlock()
	if !started {
		return
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	w.logger.Debug("articles file changed", zap.String("path", w.path))
	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
