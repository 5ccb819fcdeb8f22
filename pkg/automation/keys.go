package automation

import "sort"

// Sorted reports whether keys are in ascending frame order.
func Sorted(keys []Keyframe) bool {
	return sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i].Frame < keys[j].Frame })
}

// SortKeyframes sorts keys in place by frame. Keyframes sharing a frame keep
// their relative order.
func SortKeyframes(keys []Keyframe) {
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Frame < keys[j].Frame })
}

// insertionIndex returns the position after every keyframe at or before frame.
func insertionIndex(keys []Keyframe, frame int) int {
	return sort.Search(len(keys), func(i int) bool { return keys[i].Frame > frame })
}

// InsertKeyframe inserts k into sorted keys and returns the new slice and the
// index k landed at.
func InsertKeyframe(keys []Keyframe, k Keyframe) ([]Keyframe, int) {
	idx := insertionIndex(keys, k.Frame)
	keys = append(keys, Keyframe{})
	copy(keys[idx+1:], keys[idx:])
	keys[idx] = k
	return keys, idx
}

// MoveKeyframe sets the frame and value of keys[idx], restores frame order
// and returns the keyframe's new index. An out of range idx returns -1 and
// leaves keys untouched.
func MoveKeyframe(keys []Keyframe, idx, frame int, value float64) int {
	if idx < 0 || idx >= len(keys) {
		return -1
	}
	k := keys[idx]
	k.Frame = frame
	k.Value = value

	copy(keys[idx:], keys[idx+1:])
	rest := keys[:len(keys)-1]
	to := insertionIndex(rest, frame)
	copy(keys[to+1:], keys[to:len(keys)-1])
	keys[to] = k
	return to
}

// RemoveIndices deletes the keyframes at the given indices. Indices are
// removed in descending order; duplicates and out of range entries are
// ignored.
func RemoveIndices(keys []Keyframe, indices []int) []Keyframe {
	if len(indices) == 0 {
		return keys
	}
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	last := -1
	for _, idx := range sorted {
		if idx == last || idx < 0 || idx >= len(keys) {
			continue
		}
		keys = append(keys[:idx], keys[idx+1:]...)
		last = idx
	}
	return keys
}

// SetStep writes a step keyframe at frame, overwriting any keyframe already
// there. It returns the updated slice.
func SetStep(keys []Keyframe, frame int, value float64) []Keyframe {
	for i := range keys {
		if keys[i].Frame == frame {
			keys[i].Value = value
			keys[i].Curve = CurveStep
			keys[i].CP1, keys[i].CP2 = nil, nil
			return keys
		}
	}
	keys, _ = InsertKeyframe(keys, Keyframe{Frame: frame, Value: value, Curve: CurveStep})
	return keys
}
