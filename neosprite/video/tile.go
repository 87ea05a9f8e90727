package video

import (
	"fmt"

	"github.com/valerio/go-neosprite/neosprite/bit"
	"github.com/valerio/go-neosprite/neosprite/memory"
	"github.com/valerio/go-neosprite/neosprite/palette"
)

const (
	TileWidth    = 16
	TileHeight   = 16
	TileRowBytes = TileWidth / 2
	TileBytes    = TileHeight * TileRowBytes
)

// columnOrder maps a logical byte column (pixel pair x covers pixels 2x and
// 2x+1) to where that byte is stored within its 8 byte row. Each row is two
// 32 bit words whose bytes come out of the converted sprite ROM reversed:
//
//	Column: 0 1 2 3 4 5 6 7
//	Byte:   3 2 1 0 7 6 5 4
var columnOrder = [TileRowBytes]int{3, 2, 1, 0, 7, 6, 5, 4}

// Tile is one packed 16x16 sprite tile: 16 rows of 8 bytes, two 4 bit
// palette indices per byte. Within a byte the high nibble is the left pixel
// and the low nibble the right one.
type Tile struct {
	Index int
	Data  [TileBytes]byte
}

// ColorIndex returns the palette index (0-15) of the pixel at (x, y).
// x and y should be 0-15, where (0,0) is the top-left pixel.
func (t *Tile) ColorIndex(x, y int) uint8 {
	if y < 0 || y >= TileHeight || x < 0 || x >= TileWidth {
		return 0
	}

	pair := t.Data[y*TileRowBytes+columnOrder[x/2]]
	if x%2 == 0 {
		return bit.HighNibble(pair)
	}
	return bit.LowNibble(pair)
}

// Render paints the tile with the given palette into a new 16x16 frame buffer.
func (t *Tile) Render(pal palette.Palette) *FrameBuffer {
	fb := NewFrameBuffer(TileWidth, TileHeight)

	for y := 0; y < TileHeight; y++ {
		for x := 0; x < TileWidth; x++ {
			fb.SetPixel(x, y, pal[t.ColorIndex(x, y)])
		}
	}

	return fb
}

// FetchTile reads the packed tile at tileIndex from sprite graphics memory.
// Tiles are stored back to back, so the tile lives at Base + index*128.
func FetchTile(r memory.Reader, tileIndex int) (Tile, error) {
	tile := Tile{Index: tileIndex}

	addr, err := memory.Offset(r, tileIndex, TileBytes)
	if err != nil {
		return tile, fmt.Errorf("tile %d: %w", tileIndex, err)
	}
	if err := memory.ReadFull(r, addr, tile.Data[:]); err != nil {
		return tile, fmt.Errorf("tile %d: %w", tileIndex, err)
	}

	return tile, nil
}

// DecodeTile fetches a tile and renders it with the given palette. The
// result is freshly allocated on every call: memory may have changed since
// the previous one.
func DecodeTile(r memory.Reader, tileIndex int, pal palette.Palette) (*FrameBuffer, error) {
	tile, err := FetchTile(r, tileIndex)
	if err != nil {
		return nil, err
	}
	return tile.Render(pal), nil
}
