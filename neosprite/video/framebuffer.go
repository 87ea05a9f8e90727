package video

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// FrameBuffer is an owned RGBA bitmap. Every operation that produces a new
// picture returns a new FrameBuffer, sources are never aliased into results.
type FrameBuffer struct {
	img *image.RGBA
}

// NewFrameBuffer creates a transparent frame buffer with the specified size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (fb *FrameBuffer) Width() int {
	return fb.img.Rect.Dx()
}

func (fb *FrameBuffer) Height() int {
	return fb.img.Rect.Dy()
}

func (fb *FrameBuffer) Bounds() image.Rectangle {
	return fb.img.Rect
}

func (fb *FrameBuffer) GetPixel(x, y int) color.RGBA {
	return fb.img.RGBAAt(x, y)
}

func (fb *FrameBuffer) SetPixel(x, y int, c color.RGBA) {
	fb.img.SetRGBA(x, y, c)
}

// Blit copies src onto the frame buffer with its top-left corner at (x, y).
// Pixels are replaced, not blended. Anything falling outside is clipped.
func (fb *FrameBuffer) Blit(src *FrameBuffer, x, y int) {
	r := src.img.Rect.Sub(src.img.Rect.Min).Add(image.Pt(x, y))
	xdraw.Draw(fb.img, r, src.img, src.img.Rect.Min, xdraw.Src)
}

// Crop returns a copy of the region r, rebased at (0, 0). The region is
// clipped to the frame buffer first; an empty rectangle copies everything.
func (fb *FrameBuffer) Crop(r image.Rectangle) *FrameBuffer {
	if r.Empty() {
		return fb.Clone()
	}
	r = r.Intersect(fb.img.Rect)
	out := NewFrameBuffer(r.Dx(), r.Dy())
	xdraw.Draw(out.img, out.img.Rect, fb.img, r.Min, xdraw.Src)
	return out
}

// Scale returns a copy enlarged by an integer factor using nearest neighbour
// sampling, so every source pixel becomes a factor x factor block.
func (fb *FrameBuffer) Scale(factor int) *FrameBuffer {
	if factor <= 1 {
		return fb.Clone()
	}
	out := NewFrameBuffer(fb.Width()*factor, fb.Height()*factor)
	xdraw.NearestNeighbor.Scale(out.img, out.img.Rect, fb.img, fb.img.Rect, xdraw.Src, nil)
	return out
}

func (fb *FrameBuffer) Clone() *FrameBuffer {
	out := &FrameBuffer{
		img: image.NewRGBA(fb.img.Rect),
	}
	copy(out.img.Pix, fb.img.Pix)
	return out
}

// Image exposes the underlying bitmap, for encoders.
func (fb *FrameBuffer) Image() *image.RGBA {
	return fb.img
}
