package automation

import (
	"math"
)

// Shape names a closed-form waveform for InsertShape.
type Shape string

const (
	ShapeRampUp   Shape = "ramp_up"
	ShapeRampDown Shape = "ramp_down"
	ShapeSine     Shape = "sine"
	ShapeTriangle Shape = "triangle"
	ShapeSaw      Shape = "saw"
	ShapeSquare   Shape = "square"
	ShapeSCurve   Shape = "s_curve"
)

// Shapes lists every waveform in menu order.
var Shapes = []Shape{
	ShapeRampUp,
	ShapeRampDown,
	ShapeSine,
	ShapeTriangle,
	ShapeSaw,
	ShapeSquare,
	ShapeSCurve,
}

// Valid reports whether s is a known waveform.
func (s Shape) Valid() bool {
	for _, known := range Shapes {
		if s == known {
			return true
		}
	}
	return false
}

// Eval returns the waveform value at normalized time t. Unknown shapes
// evaluate to a ramp.
func (s Shape) Eval(t float64) float64 {
	switch s {
	case ShapeRampDown:
		return 1 - t
	case ShapeSine:
		return (math.Sin(2*math.Pi*t) + 1) / 2
	case ShapeTriangle:
		return 1 - math.Abs(2*t-1)
	case ShapeSaw:
		// Two teeth; the final sample lands on the top of the second.
		if t >= 1 {
			return 1
		}
		x := 2 * t
		return x - math.Floor(x)
	case ShapeSquare:
		// High for the first half, including the midpoint.
		if t <= 0.5 {
			return 1
		}
		return 0
	case ShapeSCurve:
		return t * t * (3 - 2*t)
	default:
		return t
	}
}

// InsertShape replaces the keyframes within [start, end] with resolution+1
// evenly spaced linear keyframes sampling shape, then returns the merged,
// sorted lane. resolution below 1 is treated as 1 and a reversed range is
// swapped. Samples that round onto the same frame keep the later value.
func InsertShape(keys []Keyframe, shape Shape, start, end, resolution int) []Keyframe {
	if resolution < 1 {
		resolution = 1
	}
	if start > end {
		start, end = end, start
	}

	out := make([]Keyframe, 0, len(keys)+resolution+1)
	for _, k := range keys {
		if k.Frame < start || k.Frame > end {
			out = append(out, k)
		}
	}

	generated := make([]Keyframe, 0, resolution+1)
	for i := 0; i <= resolution; i++ {
		t := float64(i) / float64(resolution)
		frame := int(math.Round(float64(start) + t*float64(end-start)))
		k := Keyframe{Frame: frame, Value: Clamp01(shape.Eval(t)), Curve: CurveLinear}
		if n := len(generated); n > 0 && generated[n-1].Frame == frame {
			generated[n-1] = k
			continue
		}
		generated = append(generated, k)
	}

	out = append(out, generated...)
	SortKeyframes(out)
	return out
}
