// FILE: lixenwraith/chain/watch_test.go
package chain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func fastWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      100 * time.Millisecond,
		Debounce:          50 * time.Millisecond,
		MaxSubscribers:    10,
		VerifyPermissions: true,
		Logger:            quietLogger(),
	}
}

func waitReload(t *testing.T, ch <-chan Reload, timeout time.Duration) Reload {
	t.Helper()
	select {
	case r, ok := <-ch:
		if !ok {
			t.Fatal("Subscriber channel closed before a reload arrived")
		}
		return r
	case <-time.After(timeout):
		t.Fatal("Timed out waiting for reload")
	}
	return Reload{}
}

func TestWatchRebuild(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "webpack.json")
	if err := os.WriteFile(path, []byte(`{"mode": "development"}`), 0644); err != nil {
		t.Fatal("Failed to write initial fragment:", err)
	}

	b := NewBuilder().
		WithLogger(quietLogger()).
		WithSetup(func(c *Config) { c.Target("web") }).
		WithFile(path)

	initial, err := b.Build()
	if err != nil {
		t.Fatal("Failed to build config:", err)
	}
	if mode := initial.Get("mode"); mode != "development" {
		t.Fatalf("Expected initial mode development, got %v", mode)
	}

	w := b.Watch(context.Background(), fastWatchOptions())
	defer w.Stop()
	if !w.IsWatching() {
		t.Fatal("Expected watcher to be running")
	}
	changes := w.Subscribe()

	updated := `{"mode": "production", "output": {"path": "dist"}}`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal("Failed to update fragment:", err)
	}

	r := waitReload(t, changes, 2*time.Second)
	if r.Err != nil {
		t.Fatalf("Unexpected reload error: %v", r.Err)
	}
	if r.Path != path {
		t.Errorf("Expected reload path %s, got %s", path, r.Path)
	}
	if r.Config == initial {
		t.Error("Expected a freshly built config")
	}
	if mode := r.Config.Get("mode"); mode != "production" {
		t.Errorf("Expected mode production after update, got %v", mode)
	}
	if target := r.Config.Get("target"); target != "web" {
		t.Errorf("Expected setup value to survive rebuild, got %v", target)
	}
	if mode := initial.Get("mode"); mode != "development" {
		t.Errorf("Previous config must not change, got mode %v", mode)
	}
}

func TestWatchFileDeleted(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "webpack.toml")
	if err := os.WriteFile(path, []byte(`mode = "production"`), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewBuilder().WithFile(path).Watch(context.Background(), fastWatchOptions())
	defer w.Stop()
	changes := w.Subscribe()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	r := waitReload(t, changes, 2*time.Second)
	if !errors.Is(r.Err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", r.Err)
	}
	if r.Config != nil {
		t.Error("Removal must not deliver a config")
	}
}

func TestWatchPermissionChange(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Permission bits are not reliable on Windows")
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "webpack.yaml")
	if err := os.WriteFile(path, []byte("mode: production\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var builds atomic.Int32
	build := func() (*Config, error) {
		builds.Add(1)
		return New(), nil
	}
	w := NewWatcher(context.Background(), []string{path}, build, fastWatchOptions())
	defer w.Stop()
	changes := w.Subscribe()

	if err := os.Chmod(path, 0666); err != nil {
		t.Fatal(err)
	}

	r := waitReload(t, changes, 2*time.Second)
	if !errors.Is(r.Err, ErrPermissionChanged) {
		t.Errorf("Expected ErrPermissionChanged, got %v", r.Err)
	}
	time.Sleep(fastWatchOptions().Debounce * debounceSettleMultiplier)
	if n := builds.Load(); n != 0 {
		t.Errorf("Permission change must not rebuild, got %d builds", n)
	}
}

func TestWatchSubscribers(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "webpack.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	opts := fastWatchOptions()
	opts.MaxSubscribers = 2
	w := NewBuilder().WithFile(path).Watch(context.Background(), opts)

	first := w.Subscribe()
	second := w.Subscribe()
	over := w.Subscribe()

	if _, ok := <-over; ok {
		t.Error("Expected channel over the subscriber limit to be closed")
	}
	if n := w.SubscriberCount(); n != 2 {
		t.Errorf("Expected 2 subscribers, got %d", n)
	}

	w.Stop()
	if w.IsWatching() {
		t.Error("Expected watcher to stop")
	}
	for i, ch := range []<-chan Reload{first, second} {
		select {
		case _, ok := <-ch:
			if ok {
				t.Errorf("Subscriber %d received a reload after stop", i)
			}
		case <-time.After(time.Second):
			t.Errorf("Subscriber %d was not closed on stop", i)
		}
	}

	if _, ok := <-w.Subscribe(); ok {
		t.Error("Expected Subscribe after Stop to return a closed channel")
	}
}

func TestWatchContextCancel(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "webpack.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := NewBuilder().WithFile(path).Watch(ctx, fastWatchOptions())
	changes := w.Subscribe()
	cancel()

	select {
	case _, ok := <-changes:
		if ok {
			t.Error("Expected channel to close on context cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("Channel not closed after context cancel")
	}

	deadline := time.Now().Add(time.Second)
	for w.IsWatching() && time.Now().Before(deadline) {
		time.Sleep(SpinWaitInterval)
	}
	if w.IsWatching() {
		t.Error("Expected poll loop to exit after context cancel")
	}
}

func TestDebounce(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "webpack.json")
	if err := os.WriteFile(path, []byte(`{"n": 0}`), 0644); err != nil {
		t.Fatal(err)
	}

	var builds atomic.Int32
	build := func() (*Config, error) {
		builds.Add(1)
		return New(), nil
	}

	opts := fastWatchOptions()
	opts.Debounce = 300 * time.Millisecond
	w := NewWatcher(context.Background(), []string{path}, build, opts)
	defer w.Stop()
	changes := w.Subscribe()

	// Each write grows the file so the size change is always detected
	content := `{"n": 0`
	for i := 0; i < 5; i++ {
		content += " "
		if err := os.WriteFile(path, []byte(content+"}"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(40 * time.Millisecond)
	}

	waitReload(t, changes, 2*time.Second)
	time.Sleep(opts.Debounce * debounceSettleMultiplier)

	if n := builds.Load(); n != 1 {
		t.Errorf("Expected rapid edits to coalesce into 1 rebuild, got %d", n)
	}
}

func TestWatchReloadTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "webpack.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	release := make(chan struct{})
	defer close(release)
	build := func() (*Config, error) {
		<-release
		return New(), nil
	}

	opts := fastWatchOptions()
	opts.ReloadTimeout = 100 * time.Millisecond
	w := NewWatcher(context.Background(), []string{path}, build, opts)
	defer w.Stop()
	changes := w.Subscribe()

	if err := os.WriteFile(path, []byte(`{"mode": "none"}`), 0644); err != nil {
		t.Fatal(err)
	}

	r := waitReload(t, changes, 2*time.Second)
	if !errors.Is(r.Err, ErrReloadTimeout) {
		t.Errorf("Expected ErrReloadTimeout, got %v", r.Err)
	}
}

func TestWatchChangeDuringRebuild(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "webpack.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	var builds atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	build := func() (*Config, error) {
		if builds.Add(1) == 1 {
			started <- struct{}{}
			<-release
		}
		return New(), nil
	}

	opts := fastWatchOptions()
	opts.ReloadTimeout = 5 * time.Second
	w := NewWatcher(context.Background(), []string{path}, build, opts)
	defer w.Stop()
	changes := w.Subscribe()

	if err := os.WriteFile(path, []byte(`{"mode": "none"}`), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("First rebuild never started")
	}

	// Settles while the first rebuild is still blocked
	if err := os.WriteFile(path, []byte(`{"mode": "production"}`), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(opts.PollInterval*2 + opts.Debounce*debounceSettleMultiplier)
	close(release)

	waitReload(t, changes, 2*time.Second)
	r := waitReload(t, changes, 2*time.Second)
	if r.Err != nil {
		t.Errorf("Unexpected reload error: %v", r.Err)
	}
	if n := builds.Load(); n != 2 {
		t.Errorf("Expected the change made during a rebuild to trigger one more rebuild, got %d builds", n)
	}
}
