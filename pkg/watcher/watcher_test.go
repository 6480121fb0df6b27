package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.tsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(50 * time.Millisecond)

	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(50 * time.Millisecond)

	d.Trigger(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("callback ran %d times after cancel, want 0", got)
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30 * time.Millisecond)

	d.Trigger(func() { calls.Add(1) })
	time.Sleep(100 * time.Millisecond)
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("callback ran %d times, want 2", got)
	}
}

func TestWatcherStartStop(t *testing.T) {
	path := writeTemp(t, "regulator\ttarget\tconfidence\n")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !w.IsStarted() {
		t.Error("IsStarted = false after Start")
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("IsStarted = true after Stop")
	}
	w.Stop() // idempotent
}

func TestWatcherForcePoll(t *testing.T) {
	path := writeTemp(t, "x\n")

	w, err := New(path, WithForcePoll(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected polling mode with WithForcePoll")
	}
}

func TestWatcherForcePollEnv(t *testing.T) {
	t.Setenv("GRN_FORCE_POLL", "1")
	path := writeTemp(t, "x\n")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected polling mode with GRN_FORCE_POLL=1")
	}
}

func TestWatcherPollingDetectsChange(t *testing.T) {
	path := writeTemp(t, "before\n")

	var changes atomic.Int32
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Size change guarantees detection even with coarse mtime resolution.
	if err := os.WriteFile(path, []byte("after, definitely longer\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if changes.Load() > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("change not detected within deadline")
}

func TestWatcherChangedChannel(t *testing.T) {
	path := writeTemp(t, "before\n")

	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("after, definitely longer\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Error("no signal on Changed channel")
	}
}

func TestWatcherReportsRemoval(t *testing.T) {
	path := writeTemp(t, "data\n")

	errCh := make(chan error, 4)
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithOnError(func(e error) {
			select {
			case errCh <- e:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-errCh:
		if e != ErrFileRemoved {
			t.Errorf("error = %v, want ErrFileRemoved", e)
		}
	case <-time.After(2 * time.Second):
		t.Error("removal not reported")
	}
}
