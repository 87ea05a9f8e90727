package video

import (
	"image"

	"github.com/disintegration/gift"
	"github.com/valerio/go-neosprite/neosprite/bit"
	"github.com/valerio/go-neosprite/neosprite/memory"
	"github.com/valerio/go-neosprite/neosprite/palette"
)

// AutoAnimation is the hardware auto-animation mode of a tile: the number of
// low tile index bits that cycle with the global animation counter.
type AutoAnimation int

const (
	AutoAnimationNone AutoAnimation = 0
	AutoAnimation2Bit AutoAnimation = 2
	AutoAnimation3Bit AutoAnimation = 3
)

// AnimatedTileIndex returns the tile actually shown for tileIndex at the
// given animation counter. Only the low 2 or 3 bits move, the rest of the
// index stays put; tiles without auto-animation are returned unchanged.
func AnimatedTileIndex(tileIndex int, mode AutoAnimation, counter int) int {
	switch mode {
	case AutoAnimation3Bit, AutoAnimation2Bit:
		return bit.RotateLow(tileIndex, int(mode), counter)
	default:
		return tileIndex
	}
}

// Mirror returns a flipped copy of the frame buffer. The receiver is left
// untouched; with neither flag set the copy is identical.
func (fb *FrameBuffer) Mirror(horizontal, vertical bool) *FrameBuffer {
	var filters []gift.Filter
	if horizontal {
		filters = append(filters, gift.FlipHorizontal())
	}
	if vertical {
		filters = append(filters, gift.FlipVertical())
	}
	if len(filters) == 0 {
		return fb.Clone()
	}

	g := gift.New(filters...)
	g.SetParallelization(false)

	dst := image.NewRGBA(g.Bounds(fb.img.Rect))
	g.Draw(dst, fb.img)

	return &FrameBuffer{img: dst}
}

// TileRender describes one tile draw: which tile, how it animates and flips.
type TileRender struct {
	TileIndex      int
	AutoAnimation  AutoAnimation
	HorizontalFlip bool
	VerticalFlip   bool
}

// Render produces the 16x16 bitmap of the tile for the given animation
// counter. The index substitution happens before decoding since it decides
// which tile is read, mirroring happens after.
func (tr TileRender) Render(r memory.Reader, pal palette.Palette, counter int) (*FrameBuffer, error) {
	index := AnimatedTileIndex(tr.TileIndex, tr.AutoAnimation, counter)

	fb, err := DecodeTile(r, index, pal)
	if err != nil {
		return nil, err
	}

	if tr.HorizontalFlip || tr.VerticalFlip {
		fb = fb.Mirror(tr.HorizontalFlip, tr.VerticalFlip)
	}
	return fb, nil
}
