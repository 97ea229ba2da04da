package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// upperHalfBlock paints two framebuffer rows per terminal cell: the
// foreground is the top pixel and the background the bottom one.
const upperHalfBlock = "▀"

// FramebufferSizeForTerminal returns the framebuffer dimensions that fill a
// terminal of cols x rows cells.
func FramebufferSizeForTerminal(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw converts the framebuffer to half-block cells and draws them on scr.
// The framebuffer height should be twice the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			top := fb.PointColor(col, topY)
			bot := fb.background
			if botY < fb.Height {
				bot = fb.PointColor(col, botY)
			}

			scr.SetCell(col, row, &uv.Cell{
				Content: upperHalfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bot,
				},
			})
		}
	}
}
