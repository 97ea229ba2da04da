// Package render implements the diorama software rasterization pipeline:
// orbit camera, transform stage, primitive assembly, rasterizer and a
// depth-tested framebuffer that can be shown in a terminal or exported.
package render

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
)

// Framebuffer holds packed 0xRRGGBB pixels and a parallel depth buffer.
// Lower depth is nearer; +Inf marks a pixel nothing has been drawn to.
type Framebuffer struct {
	Width  int
	Height int

	pixels []uint32
	depth  []float64

	background Color
	current    Color
	blend      BlendMode
}

// NewFramebuffer creates a framebuffer cleared to background. The current
// drawing color starts as white and the blend mode as BlendReplace.
func NewFramebuffer(width, height int, background Color) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		Width:      width,
		Height:     height,
		pixels:     make([]uint32, width*height),
		depth:      make([]float64, width*height),
		background: background,
		current:    ColorWhite,
	}
	fb.Clear()
	return fb
}

// Clear fills every pixel with the background color and resets depth.
func (fb *Framebuffer) Clear() {
	n := len(fb.pixels)
	if n == 0 {
		return
	}
	// Copy-doubling fill.
	fb.pixels[0] = fb.background.Hex()
	fb.depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(fb.pixels[i:], fb.pixels[:i])
		copy(fb.depth[i:], fb.depth[:i])
	}
}

// SetBackgroundColor changes the background and clears the buffer.
func (fb *Framebuffer) SetBackgroundColor(c Color) {
	fb.background = c
	fb.Clear()
}

// SetBackgroundColorHex is SetBackgroundColor for a 0xRRGGBB value.
func (fb *Framebuffer) SetBackgroundColorHex(hex uint32) {
	fb.SetBackgroundColor(ColorFromHex(hex))
}

// BackgroundColor returns the color used by Clear.
func (fb *Framebuffer) BackgroundColor() Color {
	return fb.background
}

// SetCurrentColor sets the color used by subsequent DrawPoint calls.
func (fb *Framebuffer) SetCurrentColor(c Color) {
	fb.current = c
}

// SetCurrentColorHex is SetCurrentColor for a 0xRRGGBB value.
func (fb *Framebuffer) SetCurrentColorHex(hex uint32) {
	fb.current = ColorFromHex(hex)
}

// SetBlendMode selects how DrawPoint composes the current color with the
// stored pixel.
func (fb *Framebuffer) SetBlendMode(m BlendMode) {
	fb.blend = m
}

// BlendMode returns the active blend mode.
func (fb *Framebuffer) BlendMode() BlendMode {
	return fb.blend
}

// DrawPoint writes the current color at (x, y) if the pixel is on screen and
// depth is strictly nearer than what is stored. NaN depths never pass. In
// BlendNormal and BlendSubtract a black current color is a no-op that leaves
// both color and depth untouched. It reports whether anything was written.
func (fb *Framebuffer) DrawPoint(x, y int, depth float64) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if !(depth < fb.depth[i]) {
		return false
	}
	if fb.current.IsBlack() && (fb.blend == BlendNormal || fb.blend == BlendSubtract) {
		return false
	}
	dst := ColorFromHex(fb.pixels[i])
	fb.pixels[i] = dst.Blend(fb.blend, fb.current).Hex()
	fb.depth[i] = depth
	return true
}

// PointColor returns the color at (x, y), or black when out of bounds.
func (fb *Framebuffer) PointColor(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return ColorBlack
	}
	return ColorFromHex(fb.pixels[y*fb.Width+x])
}

// DepthAt returns the stored depth at (x, y), or +Inf when out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.depth[y*fb.Width+x]
}

// Buffer returns the packed pixels, row-major from the top row. The slice
// aliases the framebuffer and is overwritten by later draws.
func (fb *Framebuffer) Buffer() []uint32 {
	return fb.pixels
}

// WriteBMP writes the frame as an uncompressed 32-bit BMP: bottom row first,
// each pixel stored as B, G, R, 0xFF.
func (fb *Framebuffer) WriteBMP(w io.Writer) error {
	imageSize := uint32(fb.Width * fb.Height * 4)
	header := struct {
		Magic      [2]byte
		FileSize   uint32
		Reserved   uint32
		DataOffset uint32

		InfoSize        uint32
		Width           int32
		Height          int32
		Planes          uint16
		BitsPerPixel    uint16
		Compression     uint32
		ImageSize       uint32
		XPixelsPerMeter int32
		YPixelsPerMeter int32
		ColorsUsed      uint32
		ColorsImportant uint32
	}{
		Magic:        [2]byte{'B', 'M'},
		FileSize:     bmpFileHeaderSize + bmpInfoHeaderSize + imageSize,
		DataOffset:   bmpFileHeaderSize + bmpInfoHeaderSize,
		InfoSize:     bmpInfoHeaderSize,
		Width:        int32(fb.Width),
		Height:       int32(fb.Height),
		Planes:       1,
		BitsPerPixel: 32,
		ImageSize:    imageSize,
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("write bmp header: %w", err)
	}

	row := make([]byte, fb.Width*4)
	for y := fb.Height - 1; y >= 0; y-- {
		for x, p := range fb.pixels[y*fb.Width : (y+1)*fb.Width] {
			row[4*x] = byte(p)
			row[4*x+1] = byte(p >> 8)
			row[4*x+2] = byte(p >> 16)
			row[4*x+3] = 0xFF
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("write bmp pixels: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write bmp pixels: %w", err)
	}
	return nil
}

// SaveBMP writes the frame to path as a BMP file.
func (fb *Framebuffer) SaveBMP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save bmp: %w", err)
	}
	if err := fb.WriteBMP(f); err != nil {
		f.Close()
		return fmt.Errorf("save bmp %s: %w", path, err)
	}
	return f.Close()
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.pixels {
		img.Pix[4*i] = byte(p >> 16)
		img.Pix[4*i+1] = byte(p >> 8)
		img.Pix[4*i+2] = byte(p)
		img.Pix[4*i+3] = 0xFF
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
