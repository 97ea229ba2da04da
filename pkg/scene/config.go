package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// ErrInvalidConfig is returned by Validate for settings that are neither a
// projection nor a radius problem.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds everything needed to build a Scene.
type Config struct {
	Width  int // Framebuffer width in pixels
	Height int // Framebuffer height in pixels
	FPS    int

	Near float64
	Far  float64

	Eye       math3d.Vec3
	Center    math3d.Vec3
	MinRadius float64
	MaxRadius float64

	Background   render.Color
	StarColor    render.Color
	OrbitColor   render.Color
	Stars        int
	StarDistance float64
	Seed         int64

	Wireframe     bool
	Culling       bool
	OrbitSegments int
}

// DefaultConfig returns the settings of the stock solar system view.
func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		FPS:           60,
		Near:          0.1,
		Far:           1000,
		Eye:           math3d.V3(0, 30, 110),
		Center:        math3d.Zero3(),
		MinRadius:     3,
		MaxRadius:     300,
		Background:    render.ColorSpace,
		StarColor:     render.ColorWhite,
		OrbitColor:    render.RGB(70, 70, 110),
		Stars:         200,
		StarDistance:  400,
		Seed:          1,
		Culling:       true,
		OrbitSegments: 96,
	}
}

// Validate reports every problem with c. Projection problems wrap
// render.ErrInvalidProjection and radius problems render.ErrInvalidRadius.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d: %w", c.Width, c.Height, render.ErrInvalidProjection))
	}
	if !(c.Near > 0) {
		errs = append(errs, fmt.Errorf("near %v must be positive: %w", c.Near, render.ErrInvalidProjection))
	}
	if !(c.Near < c.Far) {
		errs = append(errs, fmt.Errorf("near %v must be below far %v: %w", c.Near, c.Far, render.ErrInvalidProjection))
	}
	if !(c.MinRadius > 0) || !(c.MinRadius <= c.MaxRadius) {
		errs = append(errs, fmt.Errorf("radius bounds [%v, %v]: %w", c.MinRadius, c.MaxRadius, render.ErrInvalidRadius))
	}
	if c.Eye == c.Center {
		errs = append(errs, fmt.Errorf("eye equals center: %w", render.ErrDegenerateCamera))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d: %w", c.FPS, ErrInvalidConfig))
	}
	if c.Stars < 0 || (c.Stars > 0 && !(c.StarDistance > 0)) {
		errs = append(errs, fmt.Errorf("%d stars at distance %v: %w", c.Stars, c.StarDistance, ErrInvalidConfig))
	}
	if c.OrbitSegments < 3 {
		errs = append(errs, fmt.Errorf("orbit segments %d: %w", c.OrbitSegments, ErrInvalidConfig))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validate config: %w", errors.Join(errs...))
	}
	return nil
}
