package debug

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-neosprite/neosprite/video"
)

// SaveFramePNG saves a framebuffer as PNG with timestamp to a specific
// directory, or the current one when directory is empty. It returns the
// path written.
func SaveFramePNG(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	if frame == nil {
		return "", fmt.Errorf("no frame data available for snapshot")
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	// Determine output directory
	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, frame.Image()); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", frame.Width(), frame.Height()), "format", "PNG")
	return filePath, nil
}
