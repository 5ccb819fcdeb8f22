package timeline

import "math"

// Zoom limits in pixels per frame.
const (
	MinZoom     = 0.05
	MaxZoom     = 20.0
	DefaultZoom = 2.0
)

// Viewport maps frames onto the horizontal pixel axis of the timeline.
// Every mutating method re-establishes the zoom and scroll bounds.
type Viewport struct {
	// Pixels per frame
	Zoom float64

	// Horizontal scroll of the timeline area in pixels
	ScrollX float64

	// Width of the track header column; frame 0 starts here when unscrolled
	HeaderWidth float64

	// Width of the timeline area to the right of the header
	VisibleWidth float64

	// Length of the timeline in frames
	TotalFrames int
}

// NewViewport returns a viewport with default zoom and no scroll.
func NewViewport(totalFrames int, headerWidth, visibleWidth float64) Viewport {
	v := Viewport{
		Zoom:         DefaultZoom,
		HeaderWidth:  headerWidth,
		VisibleWidth: visibleWidth,
		TotalFrames:  totalFrames,
	}
	v.ClampScroll()
	return v
}

// FrameToPosition returns the screen x of frame.
func (v *Viewport) FrameToPosition(frame int) float64 {
	return v.FrameXf(float64(frame))
}

// FrameXf is FrameToPosition for fractional frames.
func (v *Viewport) FrameXf(frame float64) float64 {
	return v.HeaderWidth + frame*v.Zoom - v.ScrollX
}

// PositionToFrame returns the nearest frame at screen x. The result is not
// clamped to the timeline.
func (v *Viewport) PositionToFrame(x float64) int {
	return int(math.Round(v.frameAt(x)))
}

func (v *Viewport) frameAt(x float64) float64 {
	return (x - v.HeaderWidth + v.ScrollX) / v.Zoom
}

// ZoomAt scales the zoom by factor while keeping the frame under screen x
// at the same position.
// factor > 1 zooms in, factor < 1 zooms out
func (v *Viewport) ZoomAt(x, factor float64) {
	// Frame under the cursor before zoom
	frame := v.frameAt(x)

	v.Zoom = clampZoom(v.Zoom * factor)

	// Solve HeaderWidth + frame*Zoom - ScrollX = x for the new scroll
	v.ScrollX = v.HeaderWidth + frame*v.Zoom - x
	v.ClampScroll()
}

// SetZoom sets the zoom directly, anchored at the left edge of the timeline.
func (v *Viewport) SetZoom(zoom float64) {
	v.Zoom = clampZoom(zoom)
	v.ClampScroll()
}

// ScrollBy pans the timeline by dx pixels.
func (v *Viewport) ScrollBy(dx float64) {
	v.ScrollX += dx
	v.ClampScroll()
}

// SetScroll sets the scroll offset in pixels.
func (v *Viewport) SetScroll(x float64) {
	v.ScrollX = x
	v.ClampScroll()
}

// SetVisibleWidth updates the timeline area width when the window is resized.
func (v *Viewport) SetVisibleWidth(w float64) {
	if w < 0 {
		w = 0
	}
	v.VisibleWidth = w
	v.ClampScroll()
}

// MaxScroll is the largest scroll that keeps the view inside the timeline.
func (v *Viewport) MaxScroll() float64 {
	return math.Max(0, float64(v.TotalFrames)*v.Zoom-v.VisibleWidth)
}

// ClampScroll enforces 0 <= ScrollX <= MaxScroll and the zoom bounds.
func (v *Viewport) ClampScroll() {
	v.Zoom = clampZoom(v.Zoom)
	if v.ScrollX > v.MaxScroll() {
		v.ScrollX = v.MaxScroll()
	}
	if v.ScrollX < 0 || math.IsNaN(v.ScrollX) {
		v.ScrollX = 0
	}
}

// VisibleFrameRange returns the first and last frame that intersect the
// timeline area, clamped to the timeline.
func (v *Viewport) VisibleFrameRange() (first, last int) {
	first = int(math.Floor(v.ScrollX / v.Zoom))
	last = int(math.Ceil((v.ScrollX + v.VisibleWidth) / v.Zoom))
	if first < 0 {
		first = 0
	}
	if last > v.TotalFrames-1 {
		last = v.TotalFrames - 1
	}
	return first, last
}

// EnsureVisible scrolls so frame sits at least margin pixels inside the
// timeline area. It reports whether the scroll changed.
func (v *Viewport) EnsureVisible(frame int, margin float64) bool {
	if margin*2 > v.VisibleWidth {
		margin = v.VisibleWidth / 2
	}
	before := v.ScrollX
	x := float64(frame)*v.Zoom - v.ScrollX
	switch {
	case x > v.VisibleWidth-margin:
		v.ScrollX = float64(frame)*v.Zoom - (v.VisibleWidth - margin)
	case x < margin:
		v.ScrollX = float64(frame)*v.Zoom - margin
	}
	v.ClampScroll()
	return v.ScrollX != before
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
