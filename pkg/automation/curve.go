package automation

import "math"

// Curve names the interpolation used for the segment that starts at a keyframe.
type Curve string

const (
	CurveLinear    Curve = "linear"
	CurveEaseIn    Curve = "ease_in"
	CurveEaseOut   Curve = "ease_out"
	CurveEaseInOut Curve = "ease_in_out"
	CurveStep      Curve = "step"
	CurveSine      Curve = "sine"
	CurveBezier    Curve = "bezier"
)

// Curves lists every curve in menu order.
var Curves = []Curve{
	CurveLinear,
	CurveEaseIn,
	CurveEaseOut,
	CurveEaseInOut,
	CurveStep,
	CurveSine,
	CurveBezier,
}

// Valid reports whether c is a known curve name.
func (c Curve) Valid() bool {
	for _, known := range Curves {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCurve returns the curve named s, falling back to linear.
func ParseCurve(s string) Curve {
	c := Curve(s)
	if c.Valid() {
		return c
	}
	return CurveLinear
}

// Keyframe is a single automation control point.
type Keyframe struct {
	Frame int     `json:"frame"`
	Value float64 `json:"value"`
	Curve Curve   `json:"curve"`

	// Bézier control points in normalized segment space, used only when
	// Curve is CurveBezier. Nil means the default ease.
	CP1 *[2]float64 `json:"cp1,omitempty"`
	CP2 *[2]float64 `json:"cp2,omitempty"`
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Interpolate evaluates the segment from k (value a) to its successor
// (value b) at normalized position t in [0,1].
func Interpolate(k Keyframe, a, b, t float64) float64 {
	switch k.Curve {
	case CurveEaseIn:
		return a + (b-a)*t*t
	case CurveEaseOut:
		return a + (b-a)*(1-(1-t)*(1-t))
	case CurveEaseInOut:
		var e float64
		if t < 0.5 {
			e = 2 * t * t
		} else {
			e = 1 - math.Pow(-2*t+2, 2)/2
		}
		return a + (b-a)*e
	case CurveStep:
		if t >= 1 {
			return b
		}
		return a
	case CurveSine:
		return a + (b-a)*(1-math.Cos(t*math.Pi))/2
	case CurveBezier:
		p1, p2 := DefaultCP1, DefaultCP2
		if k.CP1 != nil {
			p1 = *k.CP1
		}
		if k.CP2 != nil {
			p2 = *k.CP2
		}
		return a + (b-a)*CubicBezierEase(p1, p2, t)
	default:
		return a + (b-a)*t
	}
}
