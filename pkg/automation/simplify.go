package automation

import "math"

// Simplify reduces keys with Ramer–Douglas–Peucker. Deviation is measured
// vertically against the straight line between a span's endpoints because
// frames and values live on different scales. Input of two or fewer points,
// or a tolerance <= 0, comes back unchanged. The result is a new slice.
func Simplify(keys []Keyframe, tolerance float64) []Keyframe {
	out := make([]Keyframe, 0, len(keys))
	if len(keys) <= 2 || tolerance <= 0 {
		return append(out, keys...)
	}

	keep := make([]bool, len(keys))
	keep[0] = true
	keep[len(keys)-1] = true

	type span struct{ lo, hi int }
	stack := []span{{0, len(keys) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}

		worst, worstIdx := 0.0, -1
		for i := s.lo + 1; i < s.hi; i++ {
			d := verticalDeviation(keys[s.lo], keys[s.hi], keys[i])
			if d > worst {
				worst, worstIdx = d, i
			}
		}
		if worstIdx < 0 || worst <= tolerance {
			continue
		}
		keep[worstIdx] = true
		stack = append(stack, span{s.lo, worstIdx}, span{worstIdx, s.hi})
	}

	for i, k := range keys {
		if keep[i] {
			out = append(out, k)
		}
	}
	return out
}

func verticalDeviation(a, b, p Keyframe) float64 {
	span := b.Frame - a.Frame
	if span == 0 {
		return math.Abs(p.Value - a.Value)
	}
	t := float64(p.Frame-a.Frame) / float64(span)
	return math.Abs(p.Value - (a.Value + (b.Value-a.Value)*t))
}
