// Package debug dumps composed frames to disk for inspection.
package debug

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-neosprite/neosprite/anim"
)

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Directory string // Directory to save snapshots
	SceneName string // Scene name for snapshot filenames
}

// CreateSnapshotConfig creates a snapshot configuration from CLI
// parameters. Without a directory a temporary one is created.
func CreateSnapshotConfig(directory, scenePath string) (SnapshotConfig, error) {
	var config SnapshotConfig

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "neosprite-frames-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.SceneName = filepath.Base(scenePath)
	config.SceneName = strings.TrimSuffix(config.SceneName, filepath.Ext(config.SceneName))

	return config, nil
}

// FrameDumper saves every frame of a sequence as a PNG.
type FrameDumper struct {
	config SnapshotConfig
	saved  []string
}

func NewFrameDumper(config SnapshotConfig) *FrameDumper {
	return &FrameDumper{config: config}
}

// Update saves one frame.
func (d *FrameDumper) Update(frame anim.Frame) error {
	baseName := fmt.Sprintf("%s_frame_%d", d.config.SceneName, frame.Index)

	path, err := SaveFramePNG(frame.Image, baseName, d.config.Directory)
	if err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", frame.Index, "error", err)
		return err
	}
	d.saved = append(d.saved, path)

	if frame.Index+1 == frame.Total {
		slog.Info("Frame dump completed", "frames", frame.Total, "png_snapshots_saved_to", d.config.Directory)
	}
	return nil
}

// Saved returns the paths written so far, in frame order.
func (d *FrameDumper) Saved() []string {
	return d.saved
}

// Dump drains a sequencer into PNG files.
func (d *FrameDumper) Dump(seq *anim.Sequencer) error {
	for frame, err := range seq.Frames() {
		if err != nil {
			return err
		}
		if err := d.Update(frame); err != nil {
			return err
		}
	}
	return nil
}
