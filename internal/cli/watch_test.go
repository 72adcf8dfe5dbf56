package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchLoop_CallsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "family.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := newFileWatcher(path)
	if err != nil {
		t.Fatalf("newFileWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	called := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, w, path, func() { called <- struct{}{} })
	}()

	// Writes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"nodes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("watchLoop did not report the write")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("watchLoop() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchLoop did not stop on cancel")
	}
}

func TestNewFileWatcher_MissingDir(t *testing.T) {
	if _, err := newFileWatcher(filepath.Join(t.TempDir(), "nope", "family.json")); err == nil {
		t.Error("newFileWatcher should fail for a missing directory")
	}
}
