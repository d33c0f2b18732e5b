// Package watcher monitors the atlas file backing a session so the UI
// can reload it live. It prefers fsnotify events and falls back to
// stat polling when events are unavailable or unreliable (remote
// filesystems, or when forced via LX_FORCE_POLL).
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the stat interval used in polling mode.
const DefaultPollInterval = 2 * time.Second

// Sentinel errors reported through the OnError callback or Start.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets how long bursts of events are coalesced
// before a change is reported.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithPollInterval sets the stat interval for polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked when the file changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even when fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// Watcher monitors a single file using fsnotify with polling fallback.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	onChange     func()
	onError      func(error)
	forcePoll    bool

	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	polling   bool
	fsType    FilesystemType
	lastMtime time.Time
	lastSize  int64

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for the given path. The path does not have to
// exist yet; its later creation counts as a change.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:         absPath,
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		onChange:     func() {},
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounce)

	return w, nil
}

// Start begins watching the file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.fsType = DetectFilesystemType(w.path)
	poll := w.forcePoll ||
		envBool("LX_FORCE_POLL") || envBool("LX_FORCE_POLLING") ||
		isRemoteFilesystem(w.fsType)

	if err := w.recordFileState(); err != nil {
		return err
	}

	if !poll {
		poll = !w.startFsnotify()
	}
	w.polling = poll
	if poll {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// recordFileState stats the file so polling has a baseline. A missing
// file is not an error.
func (w *Watcher) recordFileState() error {
	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsPermission(err) {
			return ErrPermission
		}
		w.lastMtime = time.Time{}
		w.lastSize = 0
		return nil
	}
	w.lastMtime = info.ModTime()
	w.lastSize = info.Size()
	return nil
}

// startFsnotify wires an fsnotify watcher on the directory containing
// the file. Watching the directory survives atomic rename-over saves.
// Returns false when fsnotify cannot be used.
func (w *Watcher) startFsnotify() bool {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return false
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return false
	}
	w.fsWatcher = fsw
	go w.watchFsnotify()
	return true
}

// Stop stops watching the file. The change channel is left open:
// closing it would race with notifyChange, and the UI command blocked
// on Changed() exits with the program anyway.
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
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives when the file changes.
// This is an alternative to the OnChange callback.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// FilesystemType returns the best-effort filesystem classification for
// the watched path.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the stat interval used when polling.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// watchFsnotify monitors using fsnotify events.
func (w *Watcher) watchFsnotify() {
	targetFile := filepath.Base(w.path)

	// Capture channel references to avoid a race with Stop setting
	// fsWatcher to nil.
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			// The directory watch sees sibling files too.
			if filepath.Base(event.Name) != targetFile {
				continue
			}

			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)

			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// watchPolling monitors using periodic stat checks.
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
					// Only report removal if the file existed before.
					w.mu.RLock()
					hadFile := !w.lastMtime.IsZero()
					w.mu.RUnlock()
					if hadFile {
						w.onError(ErrFileRemoved)
					}
				} else if os.IsPermission(err) {
					w.onError(ErrPermission)
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
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

// notifyChange invokes the onChange callback and signals the change
// channel.
func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()

	// Best-effort guard against firing after Stop. There is a small
	// race window, but callbacks are idempotent.
	if !started {
		return
	}

	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
