package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"0,0,50", render.RGB(0, 0, 50), false},
		{"255,128,1", render.RGB(255, 128, 1), false},
		{"256,0,0", render.Color{}, true},
		{"-1,0,0", render.Color{}, true},
		{"red", render.Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseColor(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("parseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestBindings(t *testing.T) {
	seen := make(map[string]bool)
	for _, b := range bindings {
		for _, k := range b.keys {
			if seen[k] {
				t.Errorf("key %q bound twice", k)
			}
			seen[k] = true
		}
	}

	tests := []struct {
		key  string
		want scene.CommandKind
	}{
		{"left", scene.CommandOrbit},
		{"k", scene.CommandZoom},
		{"b", scene.CommandToggleBirdView},
		{"tab", scene.CommandCycleFocus},
		{"x", scene.CommandToggleWireframe},
		{"w", scene.CommandTranslateSubject},
		{"q", scene.CommandRotateSubject},
		{"escape", scene.CommandQuit},
		{"ctrl+c", scene.CommandQuit},
	}
	for _, tc := range tests {
		cmd, ok := commandFor(tc.key)
		if !ok || cmd.Kind != tc.want {
			t.Errorf("commandFor(%q) = %v, %v; want %v", tc.key, cmd, ok, tc.want)
		}
	}
	if _, ok := commandFor("z"); ok {
		t.Error("unbound key returned a command")
	}
}

func TestFrameWriter(t *testing.T) {
	for _, f := range []string{"bmp", "png"} {
		if _, ext, err := frameWriter(f); err != nil || ext != f {
			t.Errorf("frameWriter(%q) = %q, %v", f, ext, err)
		}
	}
	if _, _, err := frameWriter("gif"); err == nil {
		t.Error("frameWriter(gif) accepted")
	}
}

func testLoop(t *testing.T) *loop {
	t.Helper()
	cfg := scene.DefaultConfig()
	cfg.Width, cfg.Height = 64, 48
	s, err := scene.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sphere, err := models.Sphere(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	s.Arena.Add(scene.MeshBody, sphere)
	if err := s.Populate(scene.SolarSystem); err != nil {
		t.Fatal(err)
	}
	return &loop{s: s}
}

// setFlag points a flag at v for the duration of the test.
func setFlag[T any](t *testing.T, p *T, v T) {
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	setFlag(t, frames, 3)
	setFlag(t, outDir, dir)
	setFlag(t, format, "bmp")

	l := testLoop(t)
	if err := runHeadless(context.Background(), l); err != nil {
		t.Fatal(err)
	}
	if l.frames != 3 {
		t.Errorf("rendered %d frames, want 3", l.frames)
	}

	for _, name := range []string{"frame0000.bmp", "frame0002.bmp"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		img, err := bmp.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
			t.Errorf("%s is %dx%d, want 64x48", name, b.Dx(), b.Dy())
		}
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	setFlag(t, outDir, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runHeadless(ctx, testLoop(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("runHeadless = %v, want context.Canceled", err)
	}
}

func TestLoopAppliesReloads(t *testing.T) {
	l := testLoop(t)
	reloads := make(chan models.Reload, 3)
	l.reloads = reloads
	l.keys = map[string]string{"/meshes/body.obj": scene.MeshBody}

	replacement, err := models.Sphere(2, 8)
	if err != nil {
		t.Fatal(err)
	}
	reloads <- models.Reload{Path: "/meshes/other.obj", Mesh: replacement}
	reloads <- models.Reload{Path: "/meshes/body.obj", Err: errors.New("parse error")}
	reloads <- models.Reload{Path: "/meshes/body.obj", Mesh: replacement}

	if err := l.step(nil); err != nil {
		t.Fatal(err)
	}
	id, _ := l.s.Arena.Lookup(scene.MeshBody)
	got := l.s.Arena.Get(id)
	if got != replacement {
		t.Fatal("body mesh not replaced")
	}
	if r := got.Bounds.Max.X; r > 1.0001 {
		t.Errorf("reloaded mesh not fitted, max x %v", r)
	}
	if len(reloads) != 0 {
		t.Errorf("%d reloads left unread", len(reloads))
	}
}
