package render

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-neosprite/neosprite/sprite"
	"github.com/valerio/go-neosprite/neosprite/video"
)

var (
	red   = color.RGBA{0xFF, 0, 0, 0xFF}
	blue  = color.RGBA{0, 0, 0xFF, 0xFF}
	white = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	black = color.RGBA{0, 0, 0, 0xFF}
)

type countingCompositor struct {
	counters []int
	err      error
}

func (c *countingCompositor) Compose(_ []sprite.Group, counter int) (*video.FrameBuffer, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.counters = append(c.counters, counter)
	fb := video.NewFrameBuffer(2, 2)
	fb.SetPixel(0, 0, red)
	return fb, nil
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(40, 20)
	return s
}

// twoByThree has rows: [red, -], [blue, white], [black, -]
func twoByThree() *video.FrameBuffer {
	fb := video.NewFrameBuffer(2, 3)
	fb.SetPixel(0, 0, red)
	fb.SetPixel(0, 1, blue)
	fb.SetPixel(1, 1, white)
	fb.SetPixel(0, 2, black)
	return fb
}

func TestPixelToShade(t *testing.T) {
	assert.Equal(t, -1, PixelToShade(color.RGBA{0xFF, 0xFF, 0xFF, 0}))
	assert.Equal(t, 0, PixelToShade(black))
	assert.Equal(t, 3, PixelToShade(white))
	assert.Equal(t, 1, PixelToShade(red))
	assert.Equal(t, 0, PixelToShade(blue))
}

func TestGetHalfBlockChar(t *testing.T) {
	tests := []struct {
		top, bottom int
		expected    rune
	}{
		{-1, -1, ' '},
		{2, -1, '▀'},
		{-1, 0, '▄'},
		{0, 0, '░'},
		{1, 1, '▒'},
		{2, 2, '▓'},
		{3, 3, '█'},
		{0, 3, '▄'},
		{3, 1, '▀'},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetHalfBlockChar(tt.top, tt.bottom), "shades %d/%d", tt.top, tt.bottom)
	}
}

func TestFrameText(t *testing.T) {
	lines := FrameText(twoByThree())
	assert.Equal(t, []string{"▀▄", "▀ "}, lines)
}

func TestFrameTextShades(t *testing.T) {
	grey := color.RGBA{0x80, 0x80, 0x80, 0xFF}
	dim := color.RGBA{0x50, 0x50, 0x50, 0xFF}

	// one column per cell: top pixel, bottom pixel
	columns := [][2]color.RGBA{
		{black, black},
		{white, white},
		{black, white},
		{white, black},
		{grey, grey},
		{dim, dim},
	}

	fb := video.NewFrameBuffer(len(columns), 2)
	for x, c := range columns {
		fb.SetPixel(x, 0, c[0])
		fb.SetPixel(x, 1, c[1])
	}

	assert.Equal(t, []string{"░█▄▀▓▒"}, FrameText(fb))
}

func TestDrawFrame(t *testing.T) {
	s := newScreen(t)
	defer s.Fini()

	DrawFrame(s, twoByThree())

	tests := []struct {
		x, y   int
		ch     rune
		fg, bg tcell.Color
	}{
		{0, 0, '▀', tcell.NewRGBColor(0xFF, 0, 0), tcell.NewRGBColor(0, 0, 0xFF)},
		{1, 0, '▄', tcell.NewRGBColor(0xFF, 0xFF, 0xFF), tcell.ColorDefault},
		{0, 1, '▀', tcell.NewRGBColor(0, 0, 0), tcell.ColorDefault},
		{1, 1, ' ', tcell.ColorDefault, tcell.ColorDefault},
	}

	for _, tt := range tests {
		ch, _, style, _ := s.GetContent(tt.x, tt.y)
		fg, bg, _ := style.Decompose()
		assert.Equal(t, tt.ch, ch, "cell %d,%d", tt.x, tt.y)
		assert.Equal(t, tt.fg, fg, "foreground of cell %d,%d", tt.x, tt.y)
		assert.Equal(t, tt.bg, bg, "background of cell %d,%d", tt.x, tt.y)
	}
}

func TestStepAdvancesCounter(t *testing.T) {
	s := newScreen(t)
	defer s.Fini()

	c := &countingCompositor{}
	r := NewScreenRenderer(s, c, nil, 0)
	assert.Equal(t, defaultFrameTime, r.frameTime)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Step())
	}
	assert.Equal(t, []int{0, 1, 2}, c.counters)
	assert.Equal(t, 3, r.counter)

	ch, _, _, _ := s.GetContent(0, 0)
	assert.Equal(t, '▀', ch)
}

func TestStepError(t *testing.T) {
	s := newScreen(t)
	defer s.Fini()

	boom := errors.New("boom")
	r := NewScreenRenderer(s, &countingCompositor{err: boom}, nil, time.Millisecond)
	assert.ErrorIs(t, r.Step(), boom)
	assert.Equal(t, 0, r.counter)
}

func TestRunQuitsOnKey(t *testing.T) {
	keys := []struct {
		name string
		key  tcell.Key
		ch   rune
	}{
		{"q", tcell.KeyRune, 'q'},
		{"escape", tcell.KeyEscape, 0},
		{"ctrl-c", tcell.KeyCtrlC, 0},
	}

	for _, k := range keys {
		t.Run(k.name, func(t *testing.T) {
			s := newScreen(t)
			c := &countingCompositor{}
			r := NewScreenRenderer(s, c, nil, time.Hour)

			s.InjectKey(k.key, k.ch, tcell.ModNone)

			done := make(chan error, 1)
			go func() { done <- r.Run() }()

			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("preview did not quit")
			}
			assert.Equal(t, []int{0}, c.counters)
		})
	}
}
