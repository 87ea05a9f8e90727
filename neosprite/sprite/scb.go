package sprite

import (
	"errors"
	"fmt"

	"github.com/valerio/go-neosprite/neosprite/bit"
	"github.com/valerio/go-neosprite/neosprite/memory"
	"github.com/valerio/go-neosprite/neosprite/video"
)

// VRAM word addresses of the sprite control blocks.
const (
	SCB1Addr = 0x0000 // tile numbers and attributes, 64 words per sprite
	SCB3Addr = 0x8200 // Y position, sticky bit, height
	SCB4Addr = 0x8400 // X position

	SCB1WordsPerSprite = 64
	MaxTilesPerSprite  = 32
	SpriteCount        = 382

	// VRAMWords is the number of words a dump must hold to cover SCB1-SCB4
	VRAMWords = SCB4Addr + 0x200

	yWrap   = 512
	yOrigin = 496
)

// SCB1 odd word attribute bit positions
const (
	AttrHorizontalFlip = 0
	AttrVerticalFlip   = 1
	AttrAutoAnim2Bit   = 2
	AttrAutoAnim3Bit   = 3
)

// SCB3 bit positions
const (
	scb3Sticky = 6
)

var (
	// ErrInvalidSpriteIndex is returned for sprite slots outside [0, SpriteCount).
	ErrInvalidSpriteIndex = errors.New("sprite: invalid sprite index")
	ErrShortVRAM          = errors.New("sprite: vram dump too small")
)

// Info is the position and size of a hardware sprite, as shown in a
// sprite list. X and Y are screen coordinates.
type Info struct {
	Index  int
	X      int
	Y      int
	Height int // in tiles
	Sticky bool
}

func (i Info) String() string {
	chain := ""
	if i.Sticky {
		chain = " [STICKY]"
	}
	return fmt.Sprintf("Sprite %3d: X=%3d Y=%3d Height=%2d%s", i.Index, i.X, i.Y, i.Height, chain)
}

func readWord(vram memory.Reader, wordAddr int) (uint16, error) {
	addr := vram.Base() + uint32(wordAddr*2)
	if err := memory.Check(vram, addr, 2); err != nil {
		return 0, err
	}
	return memory.ReadWord(vram, addr), nil
}

func checkIndex(index int) error {
	if index < 0 || index >= SpriteCount {
		return fmt.Errorf("%w: %d (valid range 0-%d)", ErrInvalidSpriteIndex, index, SpriteCount-1)
	}
	return nil
}

// CheckVRAM verifies that a VRAM region covers every sprite control block.
func CheckVRAM(vram memory.Reader) error {
	if need := uint32(VRAMWords * 2); vram.Size() < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrShortVRAM, vram.Size(), need)
	}
	return nil
}

// ReadInfo reads the control words of one sprite slot.
func ReadInfo(vram memory.Reader, index int) (Info, error) {
	if err := checkIndex(index); err != nil {
		return Info{}, err
	}

	scb3, err := readWord(vram, SCB3Addr+index)
	if err != nil {
		return Info{}, fmt.Errorf("sprite %d SCB3: %w", index, err)
	}
	scb4, err := readWord(vram, SCB4Addr+index)
	if err != nil {
		return Info{}, fmt.Errorf("sprite %d SCB4: %w", index, err)
	}

	height := int(bit.ExtractBits16(scb3, 5, 0))
	if height > MaxTilesPerSprite {
		height = MaxTilesPerSprite
	}

	return Info{
		Index:  index,
		X:      int(bit.ExtractBits16(scb4, 15, 7)),
		Y:      (yOrigin - int(bit.ExtractBits16(scb3, 15, 7)) + yWrap) % yWrap,
		Height: height,
		Sticky: bit.IsSet16(scb3Sticky, scb3),
	}, nil
}

// DecodeTileAttributes builds a tile from its two SCB1 words. The tile
// number is 20 bits: the even word plus 4 more bits in the attributes.
func DecodeTileAttributes(number, attr uint16) Tile {
	mode := video.AutoAnimationNone
	switch {
	case bit.IsSet16(AttrAutoAnim3Bit, attr):
		mode = video.AutoAnimation3Bit
	case bit.IsSet16(AttrAutoAnim2Bit, attr):
		mode = video.AutoAnimation2Bit
	}

	return Tile{
		TileIndex:      int(bit.ExtractBits16(attr, 7, 4))<<16 | int(number),
		PaletteIndex:   int(bit.ExtractBits16(attr, 15, 8)),
		HorizontalFlip: bit.IsSet16(AttrHorizontalFlip, attr),
		VerticalFlip:   bit.IsSet16(AttrVerticalFlip, attr),
		AutoAnimation:  mode,
	}
}

// Extract reads a sprite slot out of VRAM. Its tiles are stacked from the
// top, 16 pixels apart; ComposedX is left at 0 for the caller to place.
func Extract(vram memory.Reader, index int) (Sprite, error) {
	info, err := ReadInfo(vram, index)
	if err != nil {
		return Sprite{}, err
	}

	s := Sprite{
		SpriteMemoryIndex: index,
		Tiles:             make([]Tile, 0, info.Height),
	}

	base := SCB1Addr + index*SCB1WordsPerSprite
	for i := 0; i < info.Height; i++ {
		number, err := readWord(vram, base+i*2)
		if err != nil {
			return Sprite{}, fmt.Errorf("sprite %d tile %d: %w", index, i, err)
		}
		attr, err := readWord(vram, base+i*2+1)
		if err != nil {
			return Sprite{}, fmt.Errorf("sprite %d tile %d: %w", index, i, err)
		}

		tile := DecodeTileAttributes(number, attr)
		tile.ComposedY = i * video.TileHeight
		s.Tiles = append(s.Tiles, tile)
	}

	return s, nil
}

// ExtractAll lists every sprite slot that has at least one tile.
func ExtractAll(vram memory.Reader) ([]Info, error) {
	var sprites []Info
	for i := 0; i < SpriteCount; i++ {
		info, err := ReadInfo(vram, i)
		if err != nil {
			return nil, err
		}
		if info.Height > 0 {
			sprites = append(sprites, info)
		}
	}
	return sprites, nil
}
