package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-neosprite/neosprite/anim"
	"github.com/valerio/go-neosprite/neosprite/compose"
	"github.com/valerio/go-neosprite/neosprite/debug"
	"github.com/valerio/go-neosprite/neosprite/export"
	"github.com/valerio/go-neosprite/neosprite/memory"
	"github.com/valerio/go-neosprite/neosprite/palette"
	"github.com/valerio/go-neosprite/neosprite/render"
	"github.com/valerio/go-neosprite/neosprite/scene"
	"github.com/valerio/go-neosprite/neosprite/sprite"
	"github.com/valerio/go-neosprite/neosprite/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "neosprite"
	app.Description = "Compose and export Neo Geo sprites from emulator memory dumps"
	app.Usage = "neosprite <command> [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "verbose",
			Usage:  "Enable debug logging",
			EnvVar: "NEOSPRITE_VERBOSE",
		},
	}
	app.Before = setupLogging
	app.Commands = []cli.Command{
		{
			Name:      "export",
			Usage:     "Export a scene as an animated GIF",
			ArgsUsage: "<scene file>",
			Action:    runExport,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out",
					Usage: "Output file (default: <scene name>.gif)",
				},
				cli.BoolFlag{
					Name:  "data-uri",
					Usage: "Print the GIF as a data URI instead of writing a file",
				},
				cli.IntFlag{
					Name:  "frames",
					Usage: "Number of frames to export",
					Value: anim.TotalFrames,
				},
				cli.IntFlag{
					Name:   "scale",
					Usage:  "Integer scale factor",
					Value:  1,
					EnvVar: "NEOSPRITE_SCALE",
				},
				cli.IntFlag{
					Name:   "quality",
					Usage:  "Color quantization quality, 1 is best (dithered)",
					Value:  export.BestQuality,
					EnvVar: "NEOSPRITE_QUALITY",
				},
				cli.IntFlag{
					Name:  "speed",
					Usage: "Override the scene auto-animation speed (frames per step)",
				},
			},
		},
		{
			Name:      "frames",
			Usage:     "Save every animation frame of a scene",
			ArgsUsage: "<scene file>",
			Action:    runFrames,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Usage: "Directory to save frame snapshots (default: temp directory)",
				},
				cli.IntFlag{
					Name:  "frames",
					Usage: "Number of frames to save",
					Value: anim.TotalFrames,
				},
				cli.BoolFlag{
					Name:  "text",
					Usage: "Print frames as half-block text instead of saving PNGs",
				},
			},
		},
		{
			Name:      "preview",
			Usage:     "Play a scene in the terminal",
			ArgsUsage: "<scene file>",
			Action:    runPreview,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "speed",
					Usage: "Override the scene auto-animation speed (frames per step)",
				},
			},
		},
		{
			Name:   "tile",
			Usage:  "Decode a single tile",
			Action: runTile,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "tiles",
					Usage:  "Path to the tile memory dump",
					EnvVar: "NEOSPRITE_TILES",
				},
				cli.StringFlag{
					Name:   "palettes",
					Usage:  "Path to the palette memory dump",
					EnvVar: "NEOSPRITE_PALETTES",
				},
				cli.IntFlag{
					Name:  "index",
					Usage: "Tile index",
				},
				cli.IntFlag{
					Name:  "palette",
					Usage: "Palette index (0-255)",
				},
				cli.StringFlag{
					Name:  "dir",
					Usage: "Directory to save the tile PNG (default: current directory)",
				},
			},
		},
		{
			Name:   "sprites",
			Usage:  "List the sprites found in a VRAM dump",
			Action: runSprites,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "vram",
					Usage:  "Path to the VRAM dump",
					EnvVar: "NEOSPRITE_VRAM",
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running neosprite", "error", err)
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	level := slog.LevelInfo
	if c.GlobalBool("verbose") {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// workspace is everything a scene command needs.
type workspace struct {
	path   string
	scene  *scene.Scene
	mem    *memory.Snapshot
	groups []sprite.Group
}

func loadScene(c *cli.Context) (*workspace, error) {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return nil, errors.New("no scene file provided")
	}
	path := c.Args().First()

	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}

	mem, err := s.OpenMemory()
	if err != nil {
		return nil, err
	}

	var vram memory.Reader
	if mem.VRAM != nil {
		vram = mem.VRAM
	}

	groups, err := s.SpriteGroups(vram)
	if err != nil {
		return nil, err
	}

	return &workspace{path: path, scene: s, mem: mem, groups: groups}, nil
}

func (w *workspace) speed(c *cli.Context) int {
	if speed := c.Int("speed"); speed > 0 {
		return speed
	}
	return w.scene.FrameCounterSpeed
}

func (w *workspace) name() string {
	base := filepath.Base(w.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runExport(c *cli.Context) error {
	w, err := loadScene(c)
	if err != nil {
		return err
	}

	artifact, err := export.Export(compose.New(w.mem), w.groups, export.Options{
		FrameCount: c.Int("frames"),
		Delay:      export.FrameDelay(w.speed(c)),
		Quality:    c.Int("quality"),
		Crop:       w.scene.Crop.Rect(),
		Scale:      c.Int("scale"),
		OnFrame: func(f anim.Frame) {
			slog.Info("Frame progress", "completed", f.Index+1, "total", f.Total)
		},
	})
	if err != nil {
		return err
	}

	if c.Bool("data-uri") {
		fmt.Println(artifact.DataURI())
		return nil
	}

	out := c.String("out")
	if out == "" {
		out = w.name() + ".gif"
	}

	if err := writeArtifact(artifact, out); err != nil {
		return err
	}

	slog.Info("GIF saved", "path", out, "frames", artifact.Frames, "bytes", len(artifact.Data))
	return nil
}

// writeArtifact writes the encoded animation to path. A failed close is
// reported, since it can mean the data never reached the disk.
func writeArtifact(artifact *export.Artifact, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	if _, err := artifact.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func runFrames(c *cli.Context) error {
	w, err := loadScene(c)
	if err != nil {
		return err
	}

	seq := anim.NewSequencer(compose.New(w.mem), w.groups, c.Int("frames"), export.FrameDelay(w.speed(c)))

	if c.Bool("text") {
		for frame, err := range seq.Frames() {
			if err != nil {
				return err
			}
			fmt.Printf("frame %d/%d\n", frame.Index+1, frame.Total)
			for _, line := range render.FrameText(frame.Image) {
				fmt.Println(line)
			}
		}
		return nil
	}

	config, err := debug.CreateSnapshotConfig(c.String("dir"), w.path)
	if err != nil {
		return err
	}

	dumper := debug.NewFrameDumper(config)
	if err := dumper.Dump(seq); err != nil {
		return err
	}

	for _, path := range dumper.Saved() {
		fmt.Println(path)
	}
	return nil
}

func runPreview(c *cli.Context) error {
	w, err := loadScene(c)
	if err != nil {
		return err
	}

	renderer, err := render.NewTerminalRenderer(compose.New(w.mem), w.groups, export.FrameDelay(w.speed(c)))
	if err != nil {
		return err
	}
	return renderer.Run()
}

func runTile(c *cli.Context) error {
	if c.String("tiles") == "" || c.String("palettes") == "" {
		return errors.New("tile requires --tiles and --palettes")
	}

	tiles, err := memory.LoadBank(c.String("tiles"), 0)
	if err != nil {
		return err
	}
	palettes, err := memory.LoadBank(c.String("palettes"), 0)
	if err != nil {
		return err
	}

	pal, err := palette.Resolve(palettes, c.Int("palette"))
	if err != nil {
		return err
	}

	index := c.Int("index")
	fb, err := video.DecodeTile(tiles, index, pal)
	if err != nil {
		return err
	}

	for _, line := range render.FrameText(fb) {
		fmt.Println(line)
	}

	_, err = debug.SaveFramePNG(fb, fmt.Sprintf("tile_%05X", index), c.String("dir"))
	return err
}

func runSprites(c *cli.Context) error {
	path := c.String("vram")
	if path == "" {
		return errors.New("sprites requires --vram")
	}

	vram, err := memory.LoadBank(path, 0)
	if err != nil {
		return err
	}
	if err := sprite.CheckVRAM(vram); err != nil {
		return err
	}

	sprites, err := sprite.ExtractAll(vram)
	if err != nil {
		return err
	}

	for _, info := range sprites {
		fmt.Println(info)
	}
	slog.Info("Sprites listed", "count", len(sprites))
	return nil
}
