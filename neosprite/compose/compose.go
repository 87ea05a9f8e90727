// Package compose lays a set of extracted sprites out onto a single bitmap.
package compose

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/valerio/go-neosprite/neosprite/memory"
	"github.com/valerio/go-neosprite/neosprite/palette"
	"github.com/valerio/go-neosprite/neosprite/sprite"
	"github.com/valerio/go-neosprite/neosprite/video"
)

var (
	// ErrEmptyComposition is returned when there is nothing to compose.
	ErrEmptyComposition = errors.New("compose: no sprites to compose")
	// ErrNegativeOffset is returned for sprites placed left of or above the origin.
	ErrNegativeOffset = errors.New("compose: negative sprite offset")
)

// Compositor draws sprite groups using the tile and palette memory of a
// running (or dumped) machine.
type Compositor struct {
	mem memory.Accessor
}

func New(mem memory.Accessor) *Compositor {
	return &Compositor{
		mem: mem,
	}
}

// Dimensions returns the size of the frame needed to hold every sprite:
// one tile past the right-most sprite and past the lowest tile.
//
// Only maximum offsets are considered. Sprites that don't start at the
// origin leave unused space on the top and left; negative offsets are
// rejected.
func Dimensions(sprites []sprite.Sprite) (width, height int, err error) {
	if len(sprites) == 0 {
		return 0, 0, ErrEmptyComposition
	}

	maxX := sprites[0].ComposedX
	maxY, tiles := 0, 0
	for _, s := range sprites {
		if s.ComposedX < 0 {
			return 0, 0, fmt.Errorf("%w: sprite %d at x=%d", ErrNegativeOffset, s.SpriteMemoryIndex, s.ComposedX)
		}
		maxX = max(maxX, s.ComposedX)
		for _, t := range s.Tiles {
			if t.ComposedY < 0 {
				return 0, 0, fmt.Errorf("%w: sprite %d tile at y=%d", ErrNegativeOffset, s.SpriteMemoryIndex, t.ComposedY)
			}
			if tiles == 0 || t.ComposedY > maxY {
				maxY = t.ComposedY
			}
			tiles++
		}
	}

	if tiles == 0 {
		return 0, 0, fmt.Errorf("%w: %d sprites without tiles", ErrEmptyComposition, len(sprites))
	}

	return maxX + video.TileWidth, maxY + video.TileHeight, nil
}

// Compose renders all sprites of all groups for one animation step.
//
// Sprites are drawn by ascending memory slot, so higher slots end up on top;
// sprites sharing a slot keep their input order. Tiles are drawn in their
// original order and fully replace whatever is below them.
func (c *Compositor) Compose(groups []sprite.Group, counter int) (*video.FrameBuffer, error) {
	sprites := sprite.Flatten(groups)

	width, height, err := Dimensions(sprites)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(sprites)
	slices.SortStableFunc(sorted, func(a, b sprite.Sprite) int {
		return cmp.Compare(a.SpriteMemoryIndex, b.SpriteMemoryIndex)
	})

	frame := video.NewFrameBuffer(width, height)
	palettes := make(map[int]palette.Palette)

	for _, s := range sorted {
		for _, t := range s.Tiles {
			pal, ok := palettes[t.PaletteIndex]
			if !ok {
				pal, err = palette.Resolve(c.mem.Palettes(), t.PaletteIndex)
				if err != nil {
					return nil, fmt.Errorf("sprite %d: %w", s.SpriteMemoryIndex, err)
				}
				palettes[t.PaletteIndex] = pal
			}

			tile, err := t.Render().Render(c.mem.Tiles(), pal, counter)
			if err != nil {
				return nil, fmt.Errorf("sprite %d: %w", s.SpriteMemoryIndex, err)
			}

			frame.Blit(tile, s.ComposedX, t.ComposedY)
		}
	}

	slog.Debug("Composed frame", "sprites", len(sorted), "width", width, "height", height, "counter", counter)

	return frame, nil
}
