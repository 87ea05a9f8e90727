package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-neosprite/neosprite/anim"
	"github.com/valerio/go-neosprite/neosprite/sprite"
	"github.com/valerio/go-neosprite/neosprite/video"
)

type stripeCompositor struct{}

func (stripeCompositor) Compose(_ []sprite.Group, counter int) (*video.FrameBuffer, error) {
	fb := video.NewFrameBuffer(4, 2)
	fb.SetPixel(counter%4, 0, color.RGBA{0xFF, 0, 0, 0xFF})
	return fb, nil
}

func TestSaveFramePNG(t *testing.T) {
	dir := t.TempDir()

	fb := video.NewFrameBuffer(3, 2)
	fb.SetPixel(2, 1, color.RGBA{0x10, 0x20, 0x30, 0xFF})

	path, err := SaveFramePNG(fb, "test_snapshot", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "test_snapshot_"))
	assert.Equal(t, ".png", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, fb.Bounds(), img.Bounds())

	r, g, b, a := img.At(2, 1).RGBA()
	assert.Equal(t, []uint32{0x1010, 0x2020, 0x3030, 0xFFFF}, []uint32{r, g, b, a})
}

func TestSaveFramePNGErrors(t *testing.T) {
	_, err := SaveFramePNG(nil, "x", t.TempDir())
	assert.Error(t, err)

	_, err = SaveFramePNG(video.NewFrameBuffer(1, 1), "x", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreateSnapshotConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "frames")

	config, err := CreateSnapshotConfig(dir, "/scenes/ryu_idle.yaml")
	require.NoError(t, err)
	assert.Equal(t, dir, config.Directory)
	assert.Equal(t, "ryu_idle", config.SceneName)
	assert.DirExists(t, dir)

	config, err = CreateSnapshotConfig("", "scene.yml")
	require.NoError(t, err)
	defer os.RemoveAll(config.Directory)
	assert.DirExists(t, config.Directory)
	assert.Equal(t, "scene", config.SceneName)
}

func TestFrameDumper(t *testing.T) {
	dir := t.TempDir()
	d := NewFrameDumper(SnapshotConfig{Directory: dir, SceneName: "stripes"})

	seq := anim.NewSequencer(stripeCompositor{}, nil, 3, 0)
	require.NoError(t, d.Dump(seq))

	saved := d.Saved()
	require.Len(t, saved, 3)
	for i, path := range saved {
		assert.True(t, strings.HasPrefix(filepath.Base(path), "stripes_frame_"+string(rune('0'+i))+"_"), path)
		assert.FileExists(t, path)
	}
}
