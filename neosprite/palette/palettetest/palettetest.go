// Package palettetest builds packed palette words for tests.
package palettetest

import "image/color"

// Pack converts an RGBA color into the closest packed Neo Geo color word,
// ignoring alpha and never setting the dark bit.
func Pack(c color.RGBA) uint16 {
	r, g, b := uint16(c.R>>3), uint16(c.G>>3), uint16(c.B>>3)

	return (r&1)<<14 | (g&1)<<13 | (b&1)<<12 |
		(r>>1)<<8 | (g>>1)<<4 | (b >> 1)
}
