// Package export turns a sequence of composed frames into an encoded
// animated image.
package export

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/valerio/go-neosprite/neosprite/anim"
	"github.com/valerio/go-neosprite/neosprite/sprite"
)

// frameCounterUnit is how long one step of the hardware auto-animation
// frame counter setting lasts.
const frameCounterUnit = 16 * time.Millisecond

// ErrEmptyCrop is returned when the crop rectangle misses the composed frame.
var ErrEmptyCrop = errors.New("export: crop rectangle does not overlap the frame")

// Options configures an export. The zero value exports 8 frames with no
// delay, no crop, no scaling, as a GIF.
type Options struct {
	FrameCount int
	Delay      time.Duration
	Quality    int
	Crop       image.Rectangle // empty means the whole frame
	Scale      int

	// OnFrame is called with every frame right before it is encoded
	OnFrame func(anim.Frame)

	// NewSink creates the encoder, defaults to a GIF sink
	NewSink func() Sink
}

func (o Options) withDefaults() Options {
	if o.FrameCount <= 0 {
		o.FrameCount = anim.TotalFrames
	}
	if o.Quality <= 0 {
		o.Quality = BestQuality
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.NewSink == nil {
		o.NewSink = func() Sink { return NewGIFSink() }
	}
	return o
}

// FrameDelay converts the emulator's auto-animation speed setting (frames
// between animation steps) into the delay between exported frames.
func FrameDelay(frameCounterSpeed int) time.Duration {
	return time.Duration(frameCounterSpeed) * frameCounterUnit
}

// Artifact is a finished encoded animation.
type Artifact struct {
	MediaType string
	Data      []byte
	Frames    int
}

// DataURI returns the artifact as a base64 data URI.
func (a *Artifact) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", a.MediaType, base64.StdEncoding.EncodeToString(a.Data))
}

func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Data)
	return int64(n), err
}

// Export composes every frame of the animation and feeds it to a new sink.
// On any error the partly fed sink is dropped and no artifact is returned.
func Export(c anim.Compositor, groups []sprite.Group, opts Options) (*Artifact, error) {
	opts = opts.withDefaults()

	sink := opts.NewSink()
	if err := sink.Start(SinkConfig{Repeat: Forever, Delay: opts.Delay, Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("failed to start encoder: %w", err)
	}

	seq := anim.NewSequencer(c, groups, opts.FrameCount, opts.Delay)
	frames := 0

	for f, err := range seq.Frames() {
		if err != nil {
			return nil, fmt.Errorf("export aborted at frame %d of %d: %w", frames, seq.Total(), err)
		}

		if !opts.Crop.Empty() {
			if !opts.Crop.Overlaps(f.Image.Bounds()) {
				return nil, fmt.Errorf("%w: %v not in %v", ErrEmptyCrop, opts.Crop, f.Image.Bounds())
			}
			f.Image = f.Image.Crop(opts.Crop)
		}
		if opts.Scale > 1 {
			f.Image = f.Image.Scale(opts.Scale)
		}

		if opts.OnFrame != nil {
			opts.OnFrame(f)
		}

		if err := sink.AddFrame(f.Image.Image()); err != nil {
			return nil, fmt.Errorf("failed to encode frame %d: %w", f.Index, err)
		}
		frames++

		slog.Debug("Encoded frame", "index", f.Index, "remaining", seq.Remaining())
	}

	if err := sink.Finish(); err != nil {
		return nil, fmt.Errorf("failed to finish encoder: %w", err)
	}

	data, err := sink.Bytes()
	if err != nil {
		return nil, err
	}

	slog.Info("Export completed", "frames", frames, "bytes", len(data), "media_type", sink.MediaType())

	return &Artifact{
		MediaType: sink.MediaType(),
		Data:      data,
		Frames:    frames,
	}, nil
}
