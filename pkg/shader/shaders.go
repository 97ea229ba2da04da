package shader

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// ErrUnknownKind is returned by ParseKind for an unrecognized shader name.
var ErrUnknownKind = errors.New("unknown shader kind")

// Kind names a fragment shader.
type Kind int

const (
	Simple Kind = iota
	Sun
	Rocky
	Gaseous
	Frozen
	Earth
	Oceanic
	Ship
	Gargantua
	Wormhole
)

var kindNames = [...]string{
	Simple:    "simple",
	Sun:       "sun",
	Rocky:     "rocky",
	Gaseous:   "gaseous",
	Frozen:    "frozen",
	Earth:     "earth",
	Oceanic:   "oceanic",
	Ship:      "ship",
	Gargantua: "gargantua",
	Wormhole:  "wormhole",
}

// Kinds lists every shader kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, len(kindNames))
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// String returns the shader name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind looks up a shader by name, ignoring case.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Simple, fmt.Errorf("parse shader %q: %w", s, ErrUnknownKind)
}

// Intensity floors keep unlit sides of bodies visible. Self-lit bodies use
// a high floor so they only darken slightly away from the light.
const (
	bodyFloor     = 0.15
	shipFloor     = 0.25
	emissiveFloor = 0.85
)

// Flat is the Simple shader: the fragment color scaled by its light
// intensity.
func Flat(f render.Fragment, _ *render.Uniforms) render.Color {
	return f.Color.Scale(f.Intensity)
}

// Shader returns the fragment shader for k. Procedural kinds sample the
// context's noise fields; unknown kinds fall back to Flat.
func (c *Context) Shader(k Kind) render.FragmentShader {
	switch k {
	case Sun:
		return c.sun()
	case Rocky:
		return c.rocky()
	case Gaseous:
		return c.gaseous()
	case Frozen:
		return c.frozen()
	case Earth:
		return c.earth()
	case Oceanic:
		return c.oceanic()
	case Ship:
		return c.ship()
	case Gargantua:
		return c.gargantua()
	case Wormhole:
		return c.wormhole()
	default:
		return Flat
	}
}

func (c *Context) sun() render.FragmentShader {
	surface := c.Field(NoiseFBM, 2.5, 1)
	flare := c.Field(NoiseSimplex, 6, 2)
	pal := []render.Color{
		render.RGB(120, 20, 0),
		render.RGB(230, 90, 10),
		render.RGB(255, 190, 40),
		render.RGB(255, 250, 200),
	}
	return func(f render.Fragment, u *render.Uniforms) render.Color {
		p := drift(f.ModelPosition, u.Time, 0.004)
		t := 0.7*surface.Sample01(p) + 0.3*flare.Sample01(p.Scale(-1))
		return lit(palette(pal, t), f.Intensity, emissiveFloor)
	}
}

func (c *Context) rocky() render.FragmentShader {
	ridges := c.Field(NoiseRidged, 3, 3)
	grit := c.Field(NoisePerlin, 12, 4)
	pal := []render.Color{
		render.RGB(60, 45, 35),
		render.RGB(120, 95, 70),
		render.RGB(170, 150, 130),
	}
	return func(f render.Fragment, _ *render.Uniforms) render.Color {
		t := 0.8*ridges.Sample01(f.ModelPosition) + 0.2*grit.Sample01(f.ModelPosition)
		return lit(palette(pal, t), f.Intensity, bodyFloor)
	}
}

func (c *Context) gaseous() render.FragmentShader {
	turbulence := c.Field(NoisePerlin, 2, 5)
	pal := []render.Color{
		render.RGB(150, 90, 50),
		render.RGB(220, 180, 130),
		render.RGB(240, 225, 200),
		render.RGB(190, 120, 70),
	}
	return func(f render.Fragment, u *render.Uniforms) render.Color {
		p := drift(f.ModelPosition, u.Time, 0.01)
		// Latitude bands bent by turbulence.
		y := f.ModelPosition.Y*6 + 1.5*turbulence.Sample(p)
		t := 0.5 + 0.5*math.Sin(y)
		return lit(palette(pal, t), f.Intensity, bodyFloor)
	}
}

func (c *Context) frozen() render.FragmentShader {
	ice := c.Field(NoiseSimplex, 4, 6)
	cracks := c.Field(NoiseRidged, 8, 7)
	pal := []render.Color{
		render.RGB(90, 140, 190),
		render.RGB(180, 220, 240),
		render.RGB(250, 250, 255),
	}
	return func(f render.Fragment, _ *render.Uniforms) render.Color {
		base := palette(pal, ice.Sample01(f.ModelPosition))
		if cracks.Sample(f.ModelPosition) > 0.85 {
			base = base.Lerp(render.RGB(60, 90, 140), 0.6)
		}
		return lit(base, f.Intensity, bodyFloor)
	}
}

func (c *Context) earth() render.FragmentShader {
	land := c.Field(NoiseFBM, 1.8, 8)
	clouds := c.Field(NoiseSimplex, 3, 9)
	ocean := []render.Color{render.RGB(10, 30, 90), render.RGB(30, 90, 170)}
	ground := []render.Color{
		render.RGB(40, 120, 40),
		render.RGB(110, 140, 60),
		render.RGB(140, 110, 80),
		render.RGB(240, 240, 240),
	}
	return func(f render.Fragment, u *render.Uniforms) render.Color {
		h := land.Sample(f.ModelPosition)
		var base render.Color
		if h < 0.05 {
			base = palette(ocean, (h+1)/1.05)
		} else {
			base = palette(ground, (h-0.05)/0.95)
		}
		// Polar caps.
		if math.Abs(f.ModelPosition.Y) > 0.85 {
			base = render.ColorWhite
		}
		cover := clouds.Sample01(drift(f.ModelPosition, u.Time, 0.006))
		if cover > 0.65 {
			base = base.Lerp(render.ColorWhite, (cover-0.65)/0.35)
		}
		return lit(base, f.Intensity, bodyFloor)
	}
}

func (c *Context) oceanic() render.FragmentShader {
	waves := c.Field(NoiseSimplex, 5, 10)
	depth := c.Field(NoiseFBM, 1.2, 11)
	pal := []render.Color{
		render.RGB(0, 20, 60),
		render.RGB(0, 70, 140),
		render.RGB(40, 150, 200),
	}
	return func(f render.Fragment, u *render.Uniforms) render.Color {
		base := palette(pal, depth.Sample01(f.ModelPosition))
		if waves.Sample(drift(f.ModelPosition, u.Time, 0.02)) > 0.7 {
			base = base.Add(render.RGB(40, 40, 40))
		}
		return lit(base, f.Intensity, bodyFloor)
	}
}

func (c *Context) ship() render.FragmentShader {
	panels := c.Field(NoisePerlin, 7, 12)
	return func(f render.Fragment, _ *render.Uniforms) render.Color {
		metal := render.RGB(150, 155, 165)
		if f.Color != render.ColorWhite {
			metal = f.Color
		}
		base := metal.Scale(0.85 + 0.3*panels.Sample01(f.ModelPosition))
		return lit(base, f.Intensity, shipFloor)
	}
}

func (c *Context) gargantua() render.FragmentShader {
	swirl := c.Field(NoiseFBM, 3, 13)
	disk := []render.Color{
		render.RGB(40, 10, 0),
		render.RGB(200, 90, 20),
		render.RGB(255, 210, 140),
	}
	return func(f render.Fragment, u *render.Uniforms) render.Color {
		p := f.ModelPosition
		r := math.Hypot(p.X, p.Z)
		// Event horizon: pure black core.
		if r < 0.45 && math.Abs(p.Y) < 0.45 {
			return lit(render.RGB(2, 2, 4), f.Intensity, emissiveFloor)
		}
		angle := math.Atan2(p.Z, p.X) + u.Time*0.02
		q := math3d.V3(r*math.Cos(angle), p.Y*4, r*math.Sin(angle))
		t := 0.6*(1-math.Min(1, math.Abs(p.Y)*2)) + 0.4*swirl.Sample01(q)
		return lit(palette(disk, t), f.Intensity, emissiveFloor)
	}
}

func (c *Context) wormhole() render.FragmentShader {
	swirl := c.Field(NoiseSimplex, 2.5, 14)
	pal := []render.Color{
		render.RGB(20, 0, 40),
		render.RGB(110, 30, 170),
		render.RGB(60, 200, 230),
		render.RGB(230, 240, 255),
	}
	return func(f render.Fragment, u *render.Uniforms) render.Color {
		p := f.ModelPosition
		r := p.Len()
		angle := math.Atan2(p.Y, p.X) + 3*r - u.Time*0.03
		q := math3d.V3(math.Cos(angle)*r, math.Sin(angle)*r, p.Z)
		t := 0.5*swirl.Sample01(q) + 0.5*(1-math.Min(1, r))
		return lit(palette(pal, t), f.Intensity, 0.6)
	}
}

// drift displaces p slowly with time so surfaces animate without swimming
// under camera motion.
func drift(p math3d.Vec3, time, speed float64) math3d.Vec3 {
	d := time * speed
	return p.Add(math3d.V3(d, 0, 0.5*d))
}

// palette maps t in [0, 1] onto evenly spaced color stops.
func palette(stops []render.Color, t float64) render.Color {
	if len(stops) == 0 {
		return render.ColorBlack
	}
	if len(stops) == 1 || math.IsNaN(t) || t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	x := t * float64(len(stops)-1)
	i := int(x)
	return stops[i].Lerp(stops[i+1], x-float64(i))
}

func lit(c render.Color, intensity, floor float64) render.Color {
	return c.Scale(math.Max(intensity, floor))
}
