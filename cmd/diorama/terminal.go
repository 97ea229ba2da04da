package main

import (
	"context"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

// HUD renders an overlay with frame rate, focus and draw statistics.
type HUD struct {
	show      bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD directly to the terminal on the first and last rows.
func (h *HUD) Render(width, height int, s *scene.Scene) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows so toggling off works.
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !h.show {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	focus := "free"
	if o := s.Focused(); o != nil {
		focus = o.Name
	}
	title := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, focus, reset)
	fmt.Print(moveTo(1, max((width-len(focus)-2)/2, 1)) + title)

	st := s.Stats()
	stats := fmt.Sprintf("%s%s %d tris %d culled %s", bgBlack, fgCyan, st.Triangles, st.Culled, reset)
	fmt.Print(moveTo(height, 1) + stats)
}

// runTerminal draws the scene with half-block cells until quit, ctx is
// cancelled or the terminal fails.
func runTerminal(ctx context.Context, l *loop) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	fmt.Fprint(os.Stdout, enableMouse)

	cleanup := func() {
		fmt.Fprint(os.Stdout, disableMouse)
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	resize := func(w, h int) error {
		width, height = w, h
		term.Erase()
		if err := term.Resize(w, h); err != nil {
			return fmt.Errorf("resize terminal: %w", err)
		}
		return l.s.Resize(render.FramebufferSizeForTerminal(w, h))
	}
	if err := resize(width, height); err != nil {
		return err
	}

	// Events arrive on their own goroutine; the frame loop owns the scene.
	cmds := make(chan scene.Command, 64)
	sizes := make(chan uv.WindowSizeEvent, 1)
	toggleHUD := make(chan struct{}, 1)
	go func() {
		var mouse mouseDrag
		send := func(c scene.Command) bool {
			select {
			case cmds <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for ev := range term.Events() {
			if c, ok := mouse.command(ev); ok {
				if !send(c) {
					return
				}
				continue
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case <-sizes:
				default:
				}
				sizes <- ev
			case uv.KeyPressEvent:
				if ev.MatchString("?", "shift+/") {
					select {
					case toggleHUD <- struct{}{}:
					default:
					}
					continue
				}
				for _, b := range bindings {
					if ev.MatchString(b.keys...) {
						if !send(b.cmd) {
							return
						}
						break
					}
				}
			}
		}
	}()

	hud := NewHUD()
	targetDuration := time.Second / time.Duration(*targetFPS)
	var pending []scene.Command
	for {
		now := time.Now()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-sizes:
			if err := resize(ev.Width, ev.Height); err != nil {
				return err
			}
		case <-toggleHUD:
			hud.show = !hud.show
		default:
		}

		pending = pending[:0]
	drain:
		for {
			select {
			case c := <-cmds:
				pending = append(pending, c)
			default:
				break drain
			}
		}

		if err := l.step(pending); err != nil {
			return err
		}

		term.Draw(l.s.Framebuffer())
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		hud.UpdateFPS()
		hud.Render(width, height, l.s)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
