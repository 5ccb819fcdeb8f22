package automation

import "sort"

// Sample returns the lane value at frame. The second result is false when
// keys is empty. Frames before the first or after the last keyframe hold
// that keyframe's value. keys must be sorted.
func Sample(keys []Keyframe, frame int) (float64, bool) {
	n := len(keys)
	if n == 0 {
		return 0, false
	}
	if frame <= keys[0].Frame {
		return keys[0].Value, true
	}
	if frame >= keys[n-1].Frame {
		return keys[n-1].Value, true
	}

	// First keyframe strictly after frame; its predecessor starts the segment.
	next := sort.Search(n, func(i int) bool { return keys[i].Frame > frame })
	k0, k1 := keys[next-1], keys[next]

	span := k1.Frame - k0.Frame
	t := 0.0
	if span != 0 {
		t = float64(frame-k0.Frame) / float64(span)
	}
	return Interpolate(k0, k0.Value, k1.Value, t), true
}

// SampleRange samples every frame in [from, to] inclusive.
func SampleRange(keys []Keyframe, from, to int) []float64 {
	if to < from || len(keys) == 0 {
		return nil
	}
	out := make([]float64, 0, to-from+1)
	for f := from; f <= to; f++ {
		v, _ := Sample(keys, f)
		out = append(out, v)
	}
	return out
}
