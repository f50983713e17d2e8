package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	clearCredentialEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "aihub.yaml", "gateway:\n  models: [a]\n")

	w, err := NewWatcher(path, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(cfg *Config) { reloaded <- cfg })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("gateway:\n  models: [b, c]\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if len(cfg.Gateway.Models) != 2 || cfg.Gateway.Models[0] != "b" {
			t.Errorf("unexpected reloaded models %v", cfg.Gateway.Models)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected watch error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_InvalidFileKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "aihub.yaml", "gateway:\n  models: [a]\n")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go func() { _ = w.Watch(ctx, func(*Config) { calls.Add(1) }) }()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("gateway:\n  models: [a, a]\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	if calls.Load() != 0 {
		t.Errorf("invalid config must not be delivered, got %d reloads", calls.Load())
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { count.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 callback, got %d", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var count atomic.Int32
	d.Trigger(func() { count.Add(1) })
	d.Stop()
	d.Trigger(func() { count.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Errorf("expected no callbacks after stop, got %d", got)
	}
}

func TestNewWatcher_RequiresPath(t *testing.T) {
	if _, err := NewWatcher("", 0, nil); err == nil {
		t.Error("expected error for empty path")
	}
}
