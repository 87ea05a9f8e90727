// Package sprite holds the extracted sprite model the compositor consumes,
// and reads it out of Neo Geo video RAM.
package sprite

import (
	"github.com/valerio/go-neosprite/neosprite/video"
)

// Tile is one 16x16 tile of a sprite, with everything needed to draw it.
type Tile struct {
	TileIndex      int                 // tile number before auto-animation
	PaletteIndex   int                 // palette RAM entry (0-255)
	ComposedY      int                 // vertical offset inside the composed frame
	HorizontalFlip bool                // mirror left to right
	VerticalFlip   bool                // mirror top to bottom
	AutoAnimation  video.AutoAnimation // 0, 2 or 3 low bits cycling
}

// Render returns the draw description of the tile.
func (t Tile) Render() video.TileRender {
	return video.TileRender{
		TileIndex:      t.TileIndex,
		AutoAnimation:  t.AutoAnimation,
		HorizontalFlip: t.HorizontalFlip,
		VerticalFlip:   t.VerticalFlip,
	}
}

// Sprite is a vertical strip of tiles sharing one horizontal offset.
// SpriteMemoryIndex is the hardware slot the sprite was read from, which is
// also its draw order: higher slots are drawn on top.
type Sprite struct {
	SpriteMemoryIndex int
	ComposedX         int
	Tiles             []Tile
}

// Group is a set of sprites composed together, e.g. one visible layer.
type Group struct {
	Name    string
	Sprites []Sprite
}

// Flatten collects the sprites of all groups, in group order.
func Flatten(groups []Group) []Sprite {
	var sprites []Sprite
	for _, g := range groups {
		sprites = append(sprites, g.Sprites...)
	}
	return sprites
}
