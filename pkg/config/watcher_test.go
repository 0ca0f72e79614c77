package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_ReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("providers: []\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	done := make(chan error, 1)
	go func() {
		w := NewWatcher(path)
		w.debounce = 20 * time.Millisecond
		done <- w.Watch(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()

	// Give the watcher time to install before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("providers: []\n# changed\n"), 0o600); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no reload observed after a config write")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch() returned error: %v", err)
	}
}

func TestWatcher_ReloadErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		w := NewWatcher(path)
		w.debounce = 20 * time.Millisecond
		done <- w.Watch(ctx, func() error {
			calls.Add(1)
			return errors.New("broken config")
		})
	}()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 2; i++ {
		if err := os.WriteFile(path, []byte("b\n"), 0o600); err != nil {
			t.Fatalf("rewriting config: %v", err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	if calls.Load() < 2 {
		t.Errorf("reload calls = %d, want at least 2; a failing reload must not stop the watcher", calls.Load())
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch() returned error: %v", err)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	go func() {
		w := NewWatcher(path)
		w.debounce = 20 * time.Millisecond
		_ = w.Watch(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	other := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(other, []byte("noise\n"), 0o600); err != nil {
		t.Fatalf("writing unrelated file: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if got := reloads.Load(); got != 0 {
		t.Errorf("reloads = %d after an unrelated write, want 0", got)
	}
}
