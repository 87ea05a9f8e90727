// Package palette resolves Neo Geo palette RAM entries into RGBA colors.
//
// Palette RAM holds 256 palettes of 16 colors. Each color is a 16 bit word
// stored little-endian:
//
//	Bit:   15   14 13 12   11-8   7-4   3-0
//	       D    R0 G0 B0   R4-1   G4-1  B4-1
//
// giving 5 bits per channel plus a shared "dark" bit that dims the color by
// roughly one step.
package palette

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/valerio/go-neosprite/neosprite/bit"
	"github.com/valerio/go-neosprite/neosprite/memory"
)

const (
	// Colors is the number of entries in one palette
	Colors = 16
	// Count is the number of palettes addressable in one palette RAM bank
	Count = 256
	// EntryBytes is the size of one packed color word
	EntryBytes = 2
	// Bytes is the size of one packed palette
	Bytes = Colors * EntryBytes

	darkStep = 4
)

// ErrInvalidPaletteIndex is returned for palette indices outside [0, Count).
var ErrInvalidPaletteIndex = errors.New("palette: invalid palette index")

// Palette is a resolved 16 entry color table. Entry 0 is the pen the
// hardware treats as transparent, it is kept opaque here so that composed
// frames are fully defined.
type Palette [Colors]color.RGBA

// Resolve reads the palette at index from palette memory and converts it
// to RGBA. It has no side effects, calling it twice against unchanged
// memory returns the same palette.
func Resolve(r memory.Reader, index int) (Palette, error) {
	var pal Palette

	if index < 0 || index >= Count {
		return pal, fmt.Errorf("%w: %d (valid range 0-%d)", ErrInvalidPaletteIndex, index, Count-1)
	}

	addr, err := memory.Offset(r, index, Bytes)
	if err != nil {
		return pal, err
	}
	if err := memory.Check(r, addr, Bytes); err != nil {
		return pal, fmt.Errorf("palette %d: %w", index, err)
	}

	for i := range pal {
		pal[i] = ConvertColor(memory.ReadWord(r, addr+uint32(i*EntryBytes)))
	}

	return pal, nil
}

// ConvertColor converts a packed Neo Geo color word into 8 bit per channel RGBA.
func ConvertColor(word uint16) color.RGBA {
	dark := bit.IsSet16(15, word)

	channel := func(high, low uint8) uint8 {
		c := uint8(bit.ExtractBits16(word, high, high-3))<<1 | uint8(bit.ExtractBits16(word, low, low))
		v := c<<3 | c>>2
		if dark {
			if v < darkStep {
				return 0
			}
			return v - darkStep
		}
		return v
	}

	return color.RGBA{
		R: channel(11, 14),
		G: channel(7, 13),
		B: channel(3, 12),
		A: 0xFF,
	}
}
