// Package anim drives a compositor across a fixed number of animation steps.
package anim

import (
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/valerio/go-neosprite/neosprite/sprite"
	"github.com/valerio/go-neosprite/neosprite/video"
)

// TotalFrames is the number of frames of an export: enough for a full
// cycle of 3 bit auto-animation.
const TotalFrames = 8

// Compositor renders sprite groups for one animation counter value.
type Compositor interface {
	Compose(groups []sprite.Group, counter int) (*video.FrameBuffer, error)
}

// Frame is one step of a sequence. Index and Total double as progress.
type Frame struct {
	Image *video.FrameBuffer
	Index int
	Total int
	Delay time.Duration
}

// Sequencer yields Total frames, frame i composed with animation counter i.
//
// Every frame re-reads live memory, so a sequence can't be rewound: once a
// frame has been handed out it is gone. After an error the sequencer is
// exhausted. Callers abort simply by not asking for more frames.
type Sequencer struct {
	compositor Compositor
	groups     []sprite.Group
	total      int
	delay      time.Duration
	next       int
}

func NewSequencer(c Compositor, groups []sprite.Group, frameCount int, delay time.Duration) *Sequencer {
	return &Sequencer{
		compositor: c,
		groups:     groups,
		total:      max(frameCount, 0),
		delay:      delay,
	}
}

// Total returns the number of frames the sequence was created with.
func (s *Sequencer) Total() int {
	return s.total
}

// Remaining returns how many frames are still to come.
func (s *Sequencer) Remaining() int {
	return s.total - s.next
}

// Next composes the next frame. It returns io.EOF once all frames have been
// produced.
func (s *Sequencer) Next() (Frame, error) {
	if s.next >= s.total {
		return Frame{}, io.EOF
	}

	index := s.next
	s.next++

	img, err := s.compositor.Compose(s.groups, index)
	if err != nil {
		s.next = s.total
		return Frame{}, err
	}

	slog.Debug("Frame progress", "completed", index+1, "total", s.total)

	return Frame{
		Image: img,
		Index: index,
		Total: s.total,
		Delay: s.delay,
	}, nil
}

// Frames drains the sequence as an iterator. It shares the cursor with
// Next; ranging over it a second time yields nothing. Iteration stops after
// the first error, which is yielded along with a zero Frame.
func (s *Sequencer) Frames() iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		for {
			f, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(f, err) || err != nil {
				return
			}
		}
	}
}
