package render

import (
	"image/color"

	"github.com/valerio/go-neosprite/neosprite/video"
)

// Shared rendering utilities for both terminal and text rendering.
// One text cell covers two pixel rows.

const (
	halfBlockUpper = '▀'
	halfBlockLower = '▄'
)

// shadeChars goes from the darkest shade to the brightest.
var shadeChars = []rune{'░', '▒', '▓', '█'}

// PixelToShade converts a pixel to a shade level (0-3), 3 being the
// brightest, or -1 for transparent pixels.
func PixelToShade(c color.RGBA) int {
	if c.A == 0 {
		return -1
	}
	luma := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	return luma / 64
}

// GetHalfBlockChar returns the text character for a cell whose top and
// bottom pixels have the given shades. Matching shades fill the cell with
// the shade character, otherwise the half block of the brighter pixel is
// drawn.
func GetHalfBlockChar(topShade, bottomShade int) rune {
	switch {
	case topShade < 0 && bottomShade < 0:
		return ' '
	case topShade == bottomShade:
		return shadeChars[topShade]
	case topShade > bottomShade:
		return halfBlockUpper
	default:
		return halfBlockLower
	}
}

// TextHeight returns the number of text rows needed for height pixel rows.
func TextHeight(height int) int {
	return (height + 1) / 2
}

// FrameText converts a frame buffer to shaded half-block text, one string
// per text row.
func FrameText(frame *video.FrameBuffer) []string {
	width, height := frame.Width(), frame.Height()
	lines := make([]string, TextHeight(height))

	// Process two pixel rows at a time
	for textRow := range lines {
		line := make([]rune, width)
		for x := 0; x < width; x++ {
			top, bottom := cellPixels(frame, x, textRow)
			line[x] = GetHalfBlockChar(PixelToShade(top), PixelToShade(bottom))
		}
		lines[textRow] = string(line)
	}

	return lines
}

// cellPixels returns the two pixels of a text cell. A missing bottom row
// (odd heights) reads as transparent.
func cellPixels(frame *video.FrameBuffer, x, textRow int) (top, bottom color.RGBA) {
	top = frame.GetPixel(x, textRow*2)
	if textRow*2+1 < frame.Height() {
		bottom = frame.GetPixel(x, textRow*2+1)
	}
	return top, bottom
}
