package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
)

const (
	// Forever makes the animation loop endlessly
	Forever = 0
	// BestQuality asks the sink for the most faithful output
	BestQuality = 1

	maxGIFColors = 256
	gifTimeUnit  = 10 * time.Millisecond
)

var (
	ErrSinkNotStarted = errors.New("export: sink not started")
	ErrSinkFinished   = errors.New("export: sink already finished")
	ErrSinkNotReady   = errors.New("export: sink has not been finished")
	ErrNoFrames       = errors.New("export: no frames added")
)

// SinkConfig is applied to a sink before the first frame.
type SinkConfig struct {
	Repeat  int           // loop count, Forever (0) loops endlessly, -1 plays once
	Delay   time.Duration // time each frame stays on screen
	Quality int           // 1 is best, higher values trade fidelity for size
}

// Sink encodes a stream of frames into an animated image. It goes through
// Start, any number of AddFrame calls, Finish, and only then Bytes.
// A sink that returned an error must be thrown away.
type Sink interface {
	Start(cfg SinkConfig) error
	AddFrame(img image.Image) error
	Finish() error
	Bytes() ([]byte, error)
	MediaType() string
}

// GIFSink encodes frames as an animated GIF.
type GIFSink struct {
	cfg      SinkConfig
	anim     *gif.GIF
	out      bytes.Buffer
	finished bool
}

var _ Sink = (*GIFSink)(nil)

func NewGIFSink() *GIFSink {
	return &GIFSink{}
}

func (s *GIFSink) MediaType() string {
	return "image/gif"
}

func (s *GIFSink) Start(cfg SinkConfig) error {
	if s.finished {
		return ErrSinkFinished
	}
	s.cfg = cfg
	s.anim = &gif.GIF{LoopCount: cfg.Repeat}
	return nil
}

// AddFrame reduces the frame to a 256 color palette and queues it.
func (s *GIFSink) AddFrame(img image.Image) error {
	switch {
	case s.finished:
		return ErrSinkFinished
	case s.anim == nil:
		return ErrSinkNotStarted
	}

	s.anim.Image = append(s.anim.Image, toPaletted(img, s.cfg.Quality))
	s.anim.Delay = append(s.anim.Delay, DelayCentiseconds(s.cfg.Delay))
	return nil
}

// Finish writes the whole animation. It can only be called once.
func (s *GIFSink) Finish() error {
	switch {
	case s.finished:
		return ErrSinkFinished
	case s.anim == nil:
		return ErrSinkNotStarted
	case len(s.anim.Image) == 0:
		return ErrNoFrames
	}

	if err := gif.EncodeAll(&s.out, s.anim); err != nil {
		return err
	}
	s.finished = true
	return nil
}

func (s *GIFSink) Bytes() ([]byte, error) {
	if !s.finished {
		return nil, ErrSinkNotReady
	}
	return s.out.Bytes(), nil
}

// DelayCentiseconds converts a frame delay into GIF time units, rounding to
// the nearest hundredth of a second.
func DelayCentiseconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + gifTimeUnit/2) / gifTimeUnit)
}

// exactPalette returns every distinct color of img in first-seen order, or
// nil if there are more than a GIF can hold.
func exactPalette(img image.Image) color.Palette {
	b := img.Bounds()
	seen := make(map[color.Color]struct{})
	var p color.Palette

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == maxGIFColors {
				return nil
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}
	return p
}

func toPaletted(img image.Image, quality int) *image.Paletted {
	b := img.Bounds()

	if p := exactPalette(img); p != nil {
		pm := image.NewPaletted(b, p)
		draw.Draw(pm, b, img, b.Min, draw.Src)
		return pm
	}

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxGIFColors), img))
	if quality <= BestQuality {
		draw.FloydSteinberg.Draw(pm, b, img, b.Min)
	} else {
		draw.Draw(pm, b, img, b.Min, draw.Src)
	}
	return pm
}
