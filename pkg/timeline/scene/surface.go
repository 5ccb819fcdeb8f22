package scene

import "image/color"

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// Item is a drawing primitive on a Surface.
type Item interface {
	item()
}

// Rect is an axis aligned rectangle. A zero Fill or Stroke alpha skips it.
type Rect struct {
	X, Y, W, H  float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
}

// Contains reports whether (x, y) is inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Line is a straight stroke.
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          color.NRGBA
}

// Polyline is an open stroked path.
type Polyline struct {
	Points []Point
	Width  float64
	Color  color.NRGBA
}

// Circle is a filled disc with an optional outline.
type Circle struct {
	X, Y, R     float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
}

// Align is horizontal text alignment relative to X.
type Align int

const (
	AlignStart Align = iota
	AlignMiddle
	AlignEnd
)

// Text is a single line label. Y is the vertical center of the line.
type Text struct {
	X, Y  float64
	Size  float64
	Text  string
	Color color.NRGBA
	Align Align
}

// PushClip restricts following items to a rectangle until the matching
// PopClip.
type PushClip struct {
	X, Y, W, H float64
}

// PopClip ends the innermost PushClip.
type PopClip struct{}

func (Rect) item()     {}
func (Line) item()     {}
func (Polyline) item() {}
func (Circle) item()   {}
func (Text) item()     {}
func (PushClip) item() {}
func (PopClip) item()  {}

// Surface is a retained display list in painter's order.
type Surface struct {
	Width, Height float64
	Background    color.NRGBA
	Items         []Item
}

// Add appends items.
func (s *Surface) Add(items ...Item) {
	s.Items = append(s.Items, items...)
}

// Clip wraps fn's items in a clip rectangle.
func (s *Surface) Clip(x, y, w, h float64, fn func()) {
	s.Add(PushClip{X: x, Y: y, W: w, H: h})
	fn()
	s.Add(PopClip{})
}

// Count returns how many items of the same dynamic type as sample exist.
func (s *Surface) Count(sample Item) int {
	n := 0
	for _, it := range s.Items {
		if sameKind(it, sample) {
			n++
		}
	}
	return n
}

func sameKind(a, b Item) bool {
	switch a.(type) {
	case Rect:
		_, ok := b.(Rect)
		return ok
	case Line:
		_, ok := b.(Line)
		return ok
	case Polyline:
		_, ok := b.(Polyline)
		return ok
	case Circle:
		_, ok := b.(Circle)
		return ok
	case Text:
		_, ok := b.(Text)
		return ok
	case PushClip:
		_, ok := b.(PushClip)
		return ok
	case PopClip:
		_, ok := b.(PopClip)
		return ok
	}
	return false
}
