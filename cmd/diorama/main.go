// diorama - a small solar system rendered in software.
// Runs in the terminal, in a window, or headless writing frames to disk.
//
// Controls:
//
//	Arrows      - Orbit the camera
//	Mouse drag  - Orbit the camera (terminal)
//	Mouse wheel - Zoom (terminal)
//	J/K, +/-    - Zoom out/in
//	B           - Toggle bird's-eye view
//	F, Tab      - Follow the next body
//	X           - Toggle wireframe
//	W/A/S/D     - Move the ship
//	Q/E         - Turn the ship
//	?           - Toggle HUD (terminal)
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

var (
	width     = flag.Int("width", 320, "Framebuffer width (window and headless modes)")
	height    = flag.Int("height", 200, "Framebuffer height (window and headless modes)")
	targetFPS = flag.Int("fps", 60, "Target FPS")
	mode      = flag.String("mode", "terminal", "Output: terminal, window or headless")
	frames    = flag.Int("frames", 120, "Frames to render in headless mode")
	outDir    = flag.String("out", "frames", "Output directory for headless frames")
	format    = flag.String("format", "bmp", "Headless frame format: bmp or png")
	bodyPath  = flag.String("body", "", "Mesh used for every body (OBJ/GLB); procedural sphere if empty")
	shipPath  = flag.String("ship", "", "Mesh used for the ship (OBJ/GLB); procedural ship if empty")
	seed      = flag.Int64("seed", 1, "Seed for stars and surface noise")
	bgColor   = flag.String("bg", "0,0,50", "Background color (R,G,B)")
	near      = flag.Float64("near", 0.1, "Near clip distance")
	far       = flag.Float64("far", 1000, "Far clip distance")
	wireframe = flag.Bool("wireframe", false, "Start in wireframe mode")
	watch     = flag.Bool("watch", false, "Reload -body and -ship when they change")
	logPath   = flag.String("log", "", "Log file (terminal mode logs nowhere without it)")
	verbose   = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "diorama - Software rendered solar system\n\n")
		fmt.Fprintf(os.Stderr, "Usage: diorama [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Orbit the camera\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit the camera (terminal)\n")
		fmt.Fprintf(os.Stderr, "  Mouse wheel - Zoom (terminal)\n")
		fmt.Fprintf(os.Stderr, "  J/K, +/-    - Zoom out/in\n")
		fmt.Fprintf(os.Stderr, "  B           - Toggle bird's-eye view\n")
		fmt.Fprintf(os.Stderr, "  F, Tab      - Follow the next body\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Move the ship\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Turn the ship\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD (terminal)\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	closeLog, err := setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := scene.New(cfg)
	if err != nil {
		return err
	}
	if err := loadMeshes(s); err != nil {
		return err
	}
	if err := s.Populate(scene.SolarSystem); err != nil {
		return err
	}

	l := &loop{s: s}
	if *watch {
		w, err := startWatcher(ctx)
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Close()
			l.reloads = w.Reloads()
			l.keys = watchedKeys()
		}
	}

	switch *mode {
	case "terminal":
		err = runTerminal(ctx, l)
	case "window":
		err = runWindow(ctx, l)
	case "headless":
		err = runHeadless(ctx, l)
	default:
		return fmt.Errorf("unknown mode %q (use terminal, window or headless)", *mode)
	}
	if errors.Is(err, scene.ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// setupLogger routes library logs. In terminal mode stdout and stderr are
// the screen, so logs go to -log or nowhere.
func setupLogger() (func(), error) {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case *logPath != "":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	case *mode == "terminal":
		w = io.Discard
	}

	render.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}

func buildConfig() (scene.Config, error) {
	bg, err := parseColor(*bgColor)
	if err != nil {
		return scene.Config{}, err
	}
	cfg := scene.DefaultConfig()
	cfg.Width, cfg.Height = *width, *height
	cfg.FPS = *targetFPS
	cfg.Near, cfg.Far = *near, *far
	cfg.Seed = *seed
	cfg.Background = bg
	cfg.Wireframe = *wireframe
	return cfg, cfg.Validate()
}

// parseColor reads an "R,G,B" triple.
func parseColor(s string) (render.Color, error) {
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return render.Color{}, fmt.Errorf("parse color %q: component %d out of range", s, c)
		}
	}
	return render.RGB(uint8(r), uint8(g), uint8(b)), nil
}

// loadMeshes fills the arena: body and ship from files when given,
// procedural shapes otherwise. Loaded meshes are fitted to a unit sphere.
func loadMeshes(s *scene.Scene) error {
	body, err := meshFromFile(*bodyPath)
	if err != nil {
		return err
	}
	if body == nil {
		if body, err = models.Sphere(1, models.DefaultCells); err != nil {
			return err
		}
	}
	s.Arena.Add(scene.MeshBody, body)

	ring, err := models.Ring(1.4, 2.3, 0.08, 2*models.DefaultCells)
	if err != nil {
		return err
	}
	s.Arena.Add(scene.MeshRing, ring)

	ship, err := meshFromFile(*shipPath)
	if err != nil {
		return err
	}
	if ship == nil {
		if ship, err = models.Ship(2, models.DefaultCells); err != nil {
			return err
		}
	}
	s.Arena.Add(scene.MeshShip, ship)

	render.Logger().Info("meshes ready",
		"body", body.TriangleCount(), "ring", ring.TriangleCount(), "ship", ship.TriangleCount())
	return nil
}

// meshFromFile loads and fits path, or returns nil for an empty path.
func meshFromFile(path string) (*models.Mesh, error) {
	if path == "" {
		return nil, nil
	}
	m, err := models.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	m.Fit(1)
	return m, nil
}

// watchedKeys maps watched files to their arena keys.
func watchedKeys() map[string]string {
	keys := make(map[string]string)
	if *bodyPath != "" {
		keys[absPath(*bodyPath)] = scene.MeshBody
	}
	if *shipPath != "" {
		keys[absPath(*shipPath)] = scene.MeshShip
	}
	return keys
}

// startWatcher watches the mesh files given on the command line. It returns
// nil when there is nothing to watch.
func startWatcher(ctx context.Context) (*models.Watcher, error) {
	keys := watchedKeys()
	if len(keys) == 0 {
		render.Logger().Warn("-watch without -body or -ship has nothing to watch")
		return nil, nil
	}
	paths := make([]string, 0, len(keys))
	for p := range keys {
		paths = append(paths, p)
	}
	w, err := models.NewWatcher(paths...)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			render.Logger().Warn("mesh watcher stopped", "err", err)
		}
	}()
	return w, nil
}

// loop is the state shared by every frontend: the scene and the mesh
// reloads waiting to be swapped in.
type loop struct {
	s       *scene.Scene
	reloads <-chan models.Reload
	keys    map[string]string
	frames  int
}

// step swaps in reloaded meshes, then runs one smoothed frame.
func (l *loop) step(cmds []scene.Command) error {
	l.applyReloads()
	if err := l.s.Frame(cmds, true); err != nil {
		return err
	}
	l.frames++
	return nil
}

// applyReloads swaps in every reloaded mesh that is waiting, without
// blocking. Failed reloads keep the previous mesh.
func (l *loop) applyReloads() {
	for {
		select {
		case r := <-l.reloads:
			if r.Err != nil {
				render.Logger().Warn("reload failed", "path", r.Path, "err", r.Err)
				continue
			}
			key, ok := l.keys[r.Path]
			if !ok {
				continue
			}
			r.Mesh.Fit(1)
			if err := l.s.ReplaceMesh(key, r.Mesh); err != nil {
				render.Logger().Warn("reload failed", "path", r.Path, "err", err)
			}
		default:
			return
		}
	}
}

// absPath matches the absolute paths reported by the watcher.
func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
