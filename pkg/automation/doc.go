// Package automation implements the keyframe math behind automation lanes:
// per-segment interpolation kernels, cubic Bézier easing, lane sampling,
// Ramer–Douglas–Peucker simplification and closed-form waveform insertion.
//
// # Keyframes
//
// A lane is a slice of Keyframe values sorted ascending by Frame. Values are
// normalized to [0,1]; the caller maps them onto an effect parameter's real
// range. The Curve stored on keyframe i governs the segment between keyframe
// i and keyframe i+1, so the curve of the last keyframe is never evaluated.
//
// # Usage
//
//	keys := []automation.Keyframe{
//		{Frame: 0, Value: 0, Curve: automation.CurveLinear},
//		{Frame: 10, Value: 1, Curve: automation.CurveLinear},
//	}
//	v, ok := automation.Sample(keys, 5) // 0.5, true
//
//	keys = automation.InsertShape(keys, automation.ShapeSine, 20, 80, 16)
//	keys = automation.Simplify(keys, 0.01)
//
// Every function that returns a keyframe slice returns it sorted. Functions
// never mutate the slice they are given unless documented otherwise.
package automation
