package automation

import "math"

// Default control points give the CSS "ease-in-out" shape.
var (
	DefaultCP1 = [2]float64{0.42, 0}
	DefaultCP2 = [2]float64{0.58, 1}
)

const (
	newtonIterations = 8
	newtonMinSlope   = 1e-10
)

// bezierCoord evaluates one coordinate of a cubic Bézier from (0,0) to (1,1)
// with inner control coordinates c1 and c2.
func bezierCoord(c1, c2, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*c1 + 3*inv*u*u*c2 + u*u*u
}

// bezierSlope is the derivative of bezierCoord with respect to u.
func bezierSlope(c1, c2, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*c1 + 6*inv*u*(c2-c1) + 3*u*u*(1-c2)
}

// CubicBezierEase maps time t in [0,1] through the easing curve defined by
// control points p1 and p2. The curve is parameterized by u, so u is solved
// from x(u) = t with Newton's method seeded at u = t before y(u) is returned.
func CubicBezierEase(p1, p2 [2]float64, t float64) float64 {
	u := t
	for i := 0; i < newtonIterations; i++ {
		slope := bezierSlope(p1[0], p2[0], u)
		if math.Abs(slope) < newtonMinSlope {
			break
		}
		u -= (bezierCoord(p1[0], p2[0], u) - t) / slope
	}
	u = Clamp01(u)
	return bezierCoord(p1[1], p2[1], u)
}
