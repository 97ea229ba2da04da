//go:build cgo

package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/diorama/pkg/scene"
)

// repeatTicks is the key repeat interval for held keys, like a terminal's
// auto-repeat.
const repeatTicks = 3

// heldKeys repeat while down; the rest fire once per press.
var heldKeys = map[ebiten.Key]string{
	ebiten.KeyArrowLeft:  "left",
	ebiten.KeyArrowRight: "right",
	ebiten.KeyArrowUp:    "up",
	ebiten.KeyArrowDown:  "down",
	ebiten.KeyK:          "k",
	ebiten.KeyJ:          "j",
	ebiten.KeyW:          "w",
	ebiten.KeyA:          "a",
	ebiten.KeyS:          "s",
	ebiten.KeyD:          "d",
	ebiten.KeyQ:          "q",
	ebiten.KeyE:          "e",
}

var pressedKeys = map[ebiten.Key]string{
	ebiten.KeyEqual:  "=",
	ebiten.KeyMinus:  "-",
	ebiten.KeyB:      "b",
	ebiten.KeyF:      "f",
	ebiten.KeyTab:    "tab",
	ebiten.KeyX:      "x",
	ebiten.KeyEscape: "escape",
}

// runWindow opens a desktop window showing the framebuffer scaled up. It
// blocks until the window closes.
func runWindow(ctx context.Context, l *loop) error {
	fb := l.s.Framebuffer()
	ebiten.SetWindowTitle("diorama")
	ebiten.SetWindowSize(fb.Width*2, fb.Height*2)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(*targetFPS)

	err := ebiten.RunGame(&windowGame{ctx: ctx, l: l})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type windowGame struct {
	ctx   context.Context
	l     *loop
	fbImg *ebiten.Image
	cmds  []scene.Command
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	g.cmds = g.cmds[:0]
	for key, name := range heldKeys {
		if d := inpututil.KeyPressDuration(key); d == 1 || (d > 0 && d%repeatTicks == 0) {
			g.cmds = appendCommand(g.cmds, name)
		}
	}
	for key, name := range pressedKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.cmds = appendCommand(g.cmds, name)
		}
	}

	err := g.l.step(g.cmds)
	if errors.Is(err, scene.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	fb := g.l.s.Framebuffer()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != fb.Width || g.fbImg.Bounds().Dy() != fb.Height {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.Width, fb.Height)
	}
	g.fbImg.WritePixels(fb.ToImage().Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	fb := g.l.s.Framebuffer()
	return fb.Width, fb.Height
}

func appendCommand(cmds []scene.Command, key string) []scene.Command {
	if cmd, ok := commandFor(key); ok {
		cmds = append(cmds, cmd)
	}
	return cmds
}
