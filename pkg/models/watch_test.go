package models

import (
	"context"
	"os"
	"testing"
	"time"
)

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func TestWatcherReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "body.obj", triangleOBJ)
	writeFile(t, dir, "other.obj", triangleOBJ)

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Unwatched siblings are ignored.
	writeFile(t, dir, "other.obj", tetrahedronOBJ)
	if err := os.WriteFile(path, []byte(tetrahedronOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-w.Reloads():
			if r.Err != nil {
				// A partially written file; wait for the next event.
				continue
			}
			if r.Mesh.Name != "body.obj" {
				t.Fatalf("reloaded %q, want body.obj", r.Mesh.Name)
			}
			if r.Mesh.TriangleCount() == 4 {
				return
			}
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	if _, err := NewWatcher("/nonexistent/dir/body.obj"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	path := writeFile(t, t.TempDir(), "body.obj", triangleOBJ)
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
