// File: lixenwraith/chain/watch.go
package chain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultMaxSubscribers = 100

// WatchOptions configures fragment file watching
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to coalesce rapid edits into one rebuild
	Debounce time.Duration

	// MaxSubscribers limits concurrent subscriber channels
	MaxSubscribers int

	// ReloadTimeout bounds a single rebuild
	ReloadTimeout time.Duration

	// VerifyPermissions skips rebuilds when group or world permissions change
	VerifyPermissions bool

	// Logger receives watch events; slog.Default() when nil
	Logger *slog.Logger
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      DefaultPollInterval,
		Debounce:          DefaultDebounce,
		MaxSubscribers:    DefaultMaxSubscribers,
		ReloadTimeout:     DefaultReloadTimeout,
		VerifyPermissions: true,
	}
}

// Reload is delivered to subscribers after a watched file changes.
// Config is a freshly built tree; the previous one is never mutated.
type Reload struct {
	Path   string
	Config *Config
	Err    error
}

type fileState struct {
	modTime time.Time
	size    int64
	mode    os.FileMode
	missing bool
}

// Watcher polls fragment files and rebuilds the configuration when one changes
type Watcher struct {
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	opts             WatchOptions
	build            func() (*Config, error)
	files            map[string]fileState
	order            []string
	watching         atomic.Bool
	reloadInProgress atomic.Bool
	reloadAgain      atomic.Bool
	subscribers      map[int64]chan Reload
	subscriberID     atomic.Int64
	debounceTimer    *time.Timer
	pending          string
}

// Watch starts watching the builder's fragment files. Each change triggers a
// full Build and the result is delivered to subscribers.
func (b *Builder) Watch(ctx context.Context, opts WatchOptions) *Watcher {
	return NewWatcher(ctx, b.Files(), b.Build, opts)
}

// NewWatcher starts watching paths, calling build after each debounced change.
// The watcher stops when ctx is done or Stop is called.
func NewWatcher(ctx context.Context, paths []string, build func() (*Config, error), opts WatchOptions) *Watcher {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.MaxSubscribers <= 0 {
		opts.MaxSubscribers = DefaultMaxSubscribers
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		ctx:         ctx,
		cancel:      cancel,
		opts:        opts,
		build:       build,
		files:       make(map[string]fileState, len(paths)),
		subscribers: make(map[int64]chan Reload),
	}
	for _, path := range paths {
		if _, seen := w.files[path]; seen {
			continue
		}
		w.order = append(w.order, path)
		w.files[path] = statFile(path)
	}

	w.watching.Store(true)
	go w.watchLoop()
	return w
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{missing: true}
	}
	return fileState{modTime: info.ModTime(), size: info.Size(), mode: info.Mode()}
}

// Subscribe returns a channel receiving every reload. The channel is closed
// when the watcher stops.
func (w *Watcher) Subscribe() <-chan Reload {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.subscribers) >= w.opts.MaxSubscribers || w.ctx.Err() != nil {
		ch := make(chan Reload)
		close(ch)
		return ch
	}

	ch := make(chan Reload, 10)
	id := w.subscriberID.Add(1)
	w.subscribers[id] = ch

	go func() {
		<-w.ctx.Done()
		w.mu.Lock()
		delete(w.subscribers, id)
		close(ch)
		w.mu.Unlock()
	}()

	return ch
}

// IsWatching reports whether the poll loop is running
func (w *Watcher) IsWatching() bool {
	return w.watching.Load()
}

// SubscriberCount returns the number of active subscriber channels
func (w *Watcher) SubscriberCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subscribers)
}

// Stop terminates the watcher and closes every subscriber channel
func (w *Watcher) Stop() {
	w.cancel()

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.mu.Unlock()

	for i := 0; i < shutdownPollCycles && w.watching.Load(); i++ {
		time.Sleep(SpinWaitInterval)
	}
}

func (w *Watcher) watchLoop() {
	defer w.watching.Store(false)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			for _, path := range w.order {
				w.check(path)
			}
		}
	}
}

// check compares the file at path with its last known state
func (w *Watcher) check(path string) {
	last := w.files[path]
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) && !last.missing {
			w.files[path] = fileState{missing: true}
			w.opts.Logger.Warn("Watched file removed", "path", path)
			w.notify(Reload{Path: path, Err: fmt.Errorf("%w: %s", ErrConfigNotFound, path)})
		}
		return
	}

	current := fileState{modTime: info.ModTime(), size: info.Size(), mode: info.Mode()}
	changed := last.missing || !current.modTime.Equal(last.modTime) || current.size != last.size

	if w.opts.VerifyPermissions && !last.missing && last.mode != 0 &&
		current.mode&0077 != last.mode&0077 {
		w.files[path] = current
		w.opts.Logger.Warn("Watched file permissions changed", "path", path, "from", last.mode, "to", current.mode)
		w.notify(Reload{Path: path, Err: fmt.Errorf("%w: %s", ErrPermissionChanged, path)})
		return
	}
	if !changed {
		return
	}
	w.files[path] = current

	w.mu.Lock()
	w.pending = path
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, w.rebuild)
	w.mu.Unlock()
}

// rebuild runs the build function once the debounce period settles. A change
// settling while a rebuild runs schedules one more rebuild after it.
func (w *Watcher) rebuild() {
	if !w.reloadInProgress.CompareAndSwap(false, true) {
		w.reloadAgain.Store(true)
		return
	}
	defer w.finishRebuild()

	w.mu.RLock()
	path := w.pending
	w.mu.RUnlock()

	ctx, cancel := context.WithTimeout(w.ctx, w.opts.ReloadTimeout)
	defer cancel()

	type result struct {
		cfg *Config
		err error
	}
	done := make(chan result, 1)
	go func() {
		cfg, err := w.build()
		done <- result{cfg, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			w.opts.Logger.Error("Rebuild failed", "path", path, "error", r.err)
		} else {
			w.opts.Logger.Info("Configuration rebuilt", "path", path)
		}
		w.notify(Reload{Path: path, Config: r.cfg, Err: r.err})
	case <-ctx.Done():
		if w.ctx.Err() != nil {
			return
		}
		w.opts.Logger.Error("Rebuild timed out", "path", path, "timeout", w.opts.ReloadTimeout)
		w.notify(Reload{Path: path, Err: fmt.Errorf("%w after %s", ErrReloadTimeout, w.opts.ReloadTimeout)})
	}
}

// finishRebuild releases the rebuild guard and re-arms the debounce timer when
// a change arrived during the rebuild
func (w *Watcher) finishRebuild() {
	w.reloadInProgress.Store(false)
	if !w.reloadAgain.Swap(false) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, w.rebuild)
}

// notify sends r to all subscribers without blocking
func (w *Watcher) notify(r Reload) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.ctx.Err() != nil {
		return
	}
	for _, ch := range w.subscribers {
		select {
		case ch <- r:
		default:
		}
	}
}
