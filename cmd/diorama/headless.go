package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

// headlessYaw slowly circles the camera so the frames show motion.
const headlessYaw = 0.01

// runHeadless renders -frames frames and writes each one to -out.
func runHeadless(ctx context.Context, l *loop) error {
	save, ext, err := frameWriter(*format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	cmds := []scene.Command{scene.OrbitBy(headlessYaw, 0)}
	for i := range *frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.step(cmds); err != nil {
			return err
		}
		path := filepath.Join(*outDir, fmt.Sprintf("frame%04d.%s", i, ext))
		if err := save(l.s.Framebuffer(), path); err != nil {
			return err
		}
	}
	render.Logger().Info("frames written", "count", *frames, "dir", *outDir)
	return nil
}

// frameWriter returns the save function and file extension for a format.
func frameWriter(format string) (func(*render.Framebuffer, string) error, string, error) {
	switch format {
	case "bmp":
		return (*render.Framebuffer).SaveBMP, "bmp", nil
	case "png":
		return (*render.Framebuffer).SavePNG, "png", nil
	}
	return nil, "", fmt.Errorf("unknown frame format %q (use bmp or png)", format)
}
