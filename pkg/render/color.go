package render

import (
	"fmt"
	"math"
)

// Color is an 8-bit-per-channel RGB color. Every arithmetic and blend
// operation saturates to [0, 255].
type Color struct {
	R, G, B uint8
}

// BlendMode selects how a new color is composed with the one already stored.
type BlendMode int

const (
	BlendReplace  BlendMode = iota // Overwrite the destination
	BlendNormal                    // Overwrite unless the source is black
	BlendMultiply                  // dst * src / 255
	BlendAdd                       // dst + src, saturating
	BlendSubtract                  // dst - src, saturating; black source is a no-op
)

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendReplace:
		return "replace"
	case BlendNormal:
		return "normal"
	case BlendMultiply:
		return "multiply"
	case BlendAdd:
		return "add"
	case BlendSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// Colors for convenience
var (
	ColorBlack   = Color{0, 0, 0}
	ColorWhite   = Color{255, 255, 255}
	ColorRed     = Color{255, 0, 0}
	ColorGreen   = Color{0, 255, 0}
	ColorBlue    = Color{0, 0, 255}
	ColorYellow  = Color{255, 255, 0}
	ColorCyan    = Color{0, 255, 255}
	ColorMagenta = Color{255, 0, 255}
	ColorGray    = Color{128, 128, 128}
	ColorSpace   = Color{0, 0, 50}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// ColorFromHex unpacks a 0xRRGGBB value. The most significant byte is ignored.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
	}
}

// Hex packs the color as 0x00RRGGBB.
func (c Color) Hex() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// IsBlack reports whether all channels are zero.
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Add returns the channel-wise saturating sum.
func (c Color) Add(o Color) Color {
	return Color{
		R: uint8(min(int(c.R)+int(o.R), 255)),
		G: uint8(min(int(c.G)+int(o.G), 255)),
		B: uint8(min(int(c.B)+int(o.B), 255)),
	}
}

// Scale multiplies every channel by factor, clamping to [0, 255].
// A NaN factor yields black.
func (c Color) Scale(factor float64) Color {
	return Color{
		R: clampChannel(float64(c.R) * factor),
		G: clampChannel(float64(c.G) * factor),
		B: clampChannel(float64(c.B) * factor),
	}
}

// Lerp linearly interpolates from c towards o. t is not clamped, the result is.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: lerpChannel(c.R, o.R, t),
		G: lerpChannel(c.G, o.G, t),
		B: lerpChannel(c.B, o.B, t),
	}
}

// BlendNormal returns blend, or c when blend is black.
func (c Color) BlendNormal(blend Color) Color {
	if blend.IsBlack() {
		return c
	}
	return blend
}

// BlendMultiply returns c * blend / 255 per channel.
func (c Color) BlendMultiply(blend Color) Color {
	return Color{
		R: uint8(uint16(c.R) * uint16(blend.R) / 255),
		G: uint8(uint16(c.G) * uint16(blend.G) / 255),
		B: uint8(uint16(c.B) * uint16(blend.B) / 255),
	}
}

// BlendAdd is the saturating sum of c and blend.
func (c Color) BlendAdd(blend Color) Color {
	return c.Add(blend)
}

// BlendSubtract returns c - blend per channel, floored at zero.
// A black blend leaves c untouched.
func (c Color) BlendSubtract(blend Color) Color {
	if blend.IsBlack() {
		return c
	}
	return Color{
		R: uint8(max(int(c.R)-int(blend.R), 0)),
		G: uint8(max(int(c.G)-int(blend.G), 0)),
		B: uint8(max(int(c.B)-int(blend.B), 0)),
	}
}

// Blend composes src onto c with the given mode.
func (c Color) Blend(mode BlendMode, src Color) Color {
	switch mode {
	case BlendNormal:
		return c.BlendNormal(src)
	case BlendMultiply:
		return c.BlendMultiply(src)
	case BlendAdd:
		return c.BlendAdd(src)
	case BlendSubtract:
		return c.BlendSubtract(src)
	default:
		return src
	}
}

// RGBA implements image/color.Color. The color is always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// String returns a human-readable form of the color.
func (c Color) String() string {
	return fmt.Sprintf("Color(r: %d, g: %d, b: %d)", c.R, c.G, c.B)
}

func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func lerpChannel(a, b uint8, t float64) uint8 {
	if a == b {
		return a
	}
	return clampChannel(float64(a) + (float64(b)-float64(a))*t)
}
