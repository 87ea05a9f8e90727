// Package scene loads the YAML description of what to compose: where the
// memory dumps live and which sprites make up each group.
package scene

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-neosprite/neosprite/memory"
	"github.com/valerio/go-neosprite/neosprite/sprite"
	"github.com/valerio/go-neosprite/neosprite/video"
)

// DefaultFrameCounterSpeed is used when a scene leaves the speed unset.
const DefaultFrameCounterSpeed = 8

var (
	ErrMissingMemory = errors.New("scene: tile and palette dumps are required")
	ErrNoVRAM        = errors.New("scene: sprite slot needs a vram dump")
)

// Memory lists the dump files, relative to the scene file.
type Memory struct {
	Tiles    string `yaml:"tiles"`
	Palettes string `yaml:"palettes"`
	VRAM     string `yaml:"vram,omitempty"`
}

type Crop struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect returns the crop region, empty when no crop is set.
func (c Crop) Rect() image.Rectangle {
	if c.Width <= 0 || c.Height <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
}

// Tile is an explicitly listed tile, for sprites not read from VRAM.
type Tile struct {
	Index    int  `yaml:"index"`
	Palette  int  `yaml:"palette"`
	Y        int  `yaml:"y"`
	HFlip    bool `yaml:"hflip"`
	VFlip    bool `yaml:"vflip"`
	AutoAnim int  `yaml:"autoAnim"`
}

// Sprite places a sprite slot at X. Without Tiles the slot is extracted
// from VRAM.
type Sprite struct {
	Slot  int    `yaml:"slot"`
	X     int    `yaml:"x"`
	Tiles []Tile `yaml:"tiles,omitempty"`
}

type Group struct {
	Name    string   `yaml:"name"`
	Hidden  bool     `yaml:"hidden"`
	Sprites []Sprite `yaml:"sprites"`
}

type Scene struct {
	Memory            Memory  `yaml:"memory"`
	FrameCounterSpeed int     `yaml:"frameCounterSpeed"`
	Crop              Crop    `yaml:"crop"`
	Groups            []Group `yaml:"groups"`

	dir string
}

// Load reads a scene file. Dump paths are resolved against its directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)

	slog.Debug("Loaded scene", "path", path, "groups", len(s.Groups))

	return s, nil
}

// Parse decodes a scene from YAML. Relative dump paths are kept as they
// are, i.e. relative to the working directory.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	if s.Memory.Tiles == "" || s.Memory.Palettes == "" {
		return nil, ErrMissingMemory
	}
	if s.FrameCounterSpeed <= 0 {
		s.FrameCounterSpeed = DefaultFrameCounterSpeed
	}

	return &s, nil
}

func (s *Scene) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.dir, path)
}

// OpenMemory loads the dumps named by the scene. VRAM stays nil when the
// scene has none.
func (s *Scene) OpenMemory() (*memory.Snapshot, error) {
	tiles, err := memory.LoadBank(s.resolve(s.Memory.Tiles), 0)
	if err != nil {
		return nil, err
	}

	palettes, err := memory.LoadBank(s.resolve(s.Memory.Palettes), 0)
	if err != nil {
		return nil, err
	}

	snap := &memory.Snapshot{TileBank: tiles, PaletteBank: palettes}

	if s.Memory.VRAM != "" {
		vram, err := memory.LoadBank(s.resolve(s.Memory.VRAM), 0)
		if err != nil {
			return nil, err
		}
		if err := sprite.CheckVRAM(vram); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Memory.VRAM, err)
		}
		snap.VRAM = vram
	}

	return snap, nil
}

// Visible returns the groups that are not hidden.
func (s *Scene) Visible() []Group {
	visible := make([]Group, 0, len(s.Groups))
	for _, g := range s.Groups {
		if g.Hidden {
			slog.Debug("Skipping hidden group", "name", g.Name)
			continue
		}
		visible = append(visible, g)
	}
	return visible
}

// SpriteGroups builds the compositor input from the visible groups. vram
// may be nil if every sprite lists its tiles.
func (s *Scene) SpriteGroups(vram memory.Reader) ([]sprite.Group, error) {
	var groups []sprite.Group

	for _, g := range s.Visible() {
		out := sprite.Group{Name: g.Name, Sprites: make([]sprite.Sprite, 0, len(g.Sprites))}

		for _, sp := range g.Sprites {
			built, err := sp.build(vram)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", g.Name, err)
			}
			out.Sprites = append(out.Sprites, built)
		}

		groups = append(groups, out)
	}

	return groups, nil
}

func (sp Sprite) build(vram memory.Reader) (sprite.Sprite, error) {
	if len(sp.Tiles) == 0 {
		if vram == nil {
			return sprite.Sprite{}, fmt.Errorf("slot %d: %w", sp.Slot, ErrNoVRAM)
		}
		extracted, err := sprite.Extract(vram, sp.Slot)
		if err != nil {
			return sprite.Sprite{}, err
		}
		extracted.ComposedX = sp.X
		return extracted, nil
	}

	out := sprite.Sprite{
		SpriteMemoryIndex: sp.Slot,
		ComposedX:         sp.X,
		Tiles:             make([]sprite.Tile, 0, len(sp.Tiles)),
	}

	for _, t := range sp.Tiles {
		mode := video.AutoAnimation(t.AutoAnim)
		switch mode {
		case video.AutoAnimationNone, video.AutoAnimation2Bit, video.AutoAnimation3Bit:
		default:
			return sprite.Sprite{}, fmt.Errorf("slot %d tile %d: unsupported auto animation %d", sp.Slot, t.Index, t.AutoAnim)
		}

		out.Tiles = append(out.Tiles, sprite.Tile{
			TileIndex:      t.Index,
			PaletteIndex:   t.Palette,
			ComposedY:      t.Y,
			HorizontalFlip: t.HFlip,
			VerticalFlip:   t.VFlip,
			AutoAnimation:  mode,
		})
	}

	return out, nil
}
