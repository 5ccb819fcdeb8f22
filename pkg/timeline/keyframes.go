package timeline

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/registry"
)

// paramSpec resolves the registry entry behind a region's effect parameter.
func (e *Editor) paramSpec(r *Region, effectIndex int, param string) (registry.ParamSpec, bool) {
	if e.reg == nil || r == nil || effectIndex < 0 || effectIndex >= len(r.Effects) {
		return registry.ParamSpec{}, false
	}
	spec, ok := e.reg.Lookup(r.Effects[effectIndex].Name)
	if !ok {
		return registry.ParamSpec{}, false
	}
	return spec.Param(param)
}

// LaneParamSpec returns the registry entry for the parameter a lane drives.
func (e *Editor) LaneParamSpec(l *Lane) (registry.ParamSpec, bool) {
	if l == nil {
		return registry.ParamSpec{}, false
	}
	return e.paramSpec(e.Region(l.RegionID), l.EffectIndex, l.ParamName)
}

// remapSelection rewrites the selected breakpoints of one lane. fn returns
// the new index and whether the entry survives.
func (e *Editor) remapSelection(laneID int, fn func(old int) (int, bool)) {
	out := e.SelectedBreakpoints[:0]
	for _, ref := range e.SelectedBreakpoints {
		if ref.LaneID == laneID {
			idx, keep := fn(ref.Index)
			if !keep {
				continue
			}
			ref.Index = idx
		}
		out = append(out, ref)
	}
	e.SelectedBreakpoints = out
}

// dropSelection clears the selected breakpoints of one lane.
func (e *Editor) dropSelection(laneID int) {
	e.remapSelection(laneID, func(int) (int, bool) { return 0, false })
}

// InsertKeyframe adds a keyframe to a lane and returns its index, or -1 for
// an unknown lane. Frame and value are clamped.
func (e *Editor) InsertKeyframe(laneID int, k automation.Keyframe) int {
	l := e.Lane(laneID)
	if l == nil {
		return -1
	}
	k.Frame = e.ClampFrame(k.Frame)
	k.Value = automation.Clamp01(k.Value)
	if !k.Curve.Valid() {
		k.Curve = automation.CurveLinear
	}
	var idx int
	l.Keyframes, idx = automation.InsertKeyframe(l.Keyframes, k)
	e.remapSelection(laneID, func(old int) (int, bool) {
		if old >= idx {
			return old + 1, true
		}
		return old, true
	})
	return idx
}

// MoveKeyframe changes a keyframe's frame and value, re-sorts the lane and
// returns the keyframe's new index. Selection entries on the lane follow
// their keyframes. Stale indices return -1.
func (e *Editor) MoveKeyframe(laneID, index, frame int, value float64) int {
	l := e.Lane(laneID)
	if l == nil || index < 0 || index >= len(l.Keyframes) {
		return -1
	}
	from := index
	to := automation.MoveKeyframe(l.Keyframes, index, e.ClampFrame(frame), automation.Clamp01(value))
	if to != from {
		e.remapSelection(laneID, func(old int) (int, bool) {
			switch {
			case old == from:
				return to, true
			case from < to && old > from && old <= to:
				return old - 1, true
			case to < from && old >= to && old < from:
				return old + 1, true
			}
			return old, true
		})
	}
	return to
}

// SetKeyframeCurve changes the curve of the segment starting at index.
func (e *Editor) SetKeyframeCurve(laneID, index int, c automation.Curve) {
	l := e.Lane(laneID)
	if l == nil || index < 0 || index >= len(l.Keyframes) || !c.Valid() {
		return
	}
	l.Keyframes[index].Curve = c
	if c != automation.CurveBezier {
		l.Keyframes[index].CP1, l.Keyframes[index].CP2 = nil, nil
	}
}

// SetKeyframeBezier sets custom Bézier control points on a segment.
func (e *Editor) SetKeyframeBezier(laneID, index int, cp1, cp2 [2]float64) {
	l := e.Lane(laneID)
	if l == nil || index < 0 || index >= len(l.Keyframes) {
		return
	}
	k := &l.Keyframes[index]
	k.Curve = automation.CurveBezier
	k.CP1 = &[2]float64{automation.Clamp01(cp1[0]), cp1[1]}
	k.CP2 = &[2]float64{automation.Clamp01(cp2[0]), cp2[1]}
}

// DrawStep writes a step keyframe at frame, overwriting an existing one.
func (e *Editor) DrawStep(laneID, frame int, value float64) {
	l := e.Lane(laneID)
	if l == nil {
		return
	}
	frame = e.ClampFrame(frame)
	for _, k := range l.Keyframes {
		if k.Frame == frame {
			l.Keyframes = automation.SetStep(l.Keyframes, frame, automation.Clamp01(value))
			return
		}
	}
	e.InsertKeyframe(laneID, automation.Keyframe{Frame: frame, Value: value, Curve: automation.CurveStep})
}

// InsertShape replaces a lane's keyframes in [start, end] with a waveform.
func (e *Editor) InsertShape(laneID int, shape automation.Shape, start, end, resolution int) {
	l := e.Lane(laneID)
	if l == nil {
		return
	}
	l.Keyframes = automation.InsertShape(l.Keyframes, shape, e.ClampFrame(start), e.ClampFrame(end), resolution)
	e.dropSelection(laneID)
}

// SimplifyLane reduces a lane's keyframes within tolerance and returns how
// many were removed.
func (e *Editor) SimplifyLane(laneID int, tolerance float64) int {
	l := e.Lane(laneID)
	if l == nil {
		return 0
	}
	before := len(l.Keyframes)
	l.Keyframes = automation.Simplify(l.Keyframes, tolerance)
	if removed := before - len(l.Keyframes); removed > 0 {
		e.dropSelection(laneID)
		return removed
	}
	return 0
}

// IsBreakpointSelected reports whether ref is in the selection.
func (e *Editor) IsBreakpointSelected(ref BreakpointRef) bool {
	for _, s := range e.SelectedBreakpoints {
		if s == ref {
			return true
		}
	}
	return false
}

// SelectBreakpoint replaces the selection with ref, or with toggle adds or
// removes ref. It returns whether ref is selected afterwards.
func (e *Editor) SelectBreakpoint(ref BreakpointRef, toggle bool) bool {
	if !toggle {
		e.SelectedBreakpoints = []BreakpointRef{ref}
		return true
	}
	for i, s := range e.SelectedBreakpoints {
		if s == ref {
			e.SelectedBreakpoints = append(e.SelectedBreakpoints[:i], e.SelectedBreakpoints[i+1:]...)
			return false
		}
	}
	e.SelectedBreakpoints = append(e.SelectedBreakpoints, ref)
	return true
}

// SetBreakpointSelection replaces the selection.
func (e *Editor) SetBreakpointSelection(refs []BreakpointRef) {
	e.SelectedBreakpoints = append([]BreakpointRef(nil), refs...)
}

// ClearBreakpointSelection empties the selection.
func (e *Editor) ClearBreakpointSelection() {
	e.SelectedBreakpoints = nil
}

// ValidSelection returns the selected breakpoints that still resolve to a
// keyframe, grouped by lane with indices ascending.
func (e *Editor) ValidSelection() map[int][]int {
	out := make(map[int][]int)
	seen := make(map[BreakpointRef]bool)
	for _, ref := range e.SelectedBreakpoints {
		l := e.Lane(ref.LaneID)
		if l == nil || ref.Index < 0 || ref.Index >= len(l.Keyframes) || seen[ref] {
			continue
		}
		seen[ref] = true
		out[ref.LaneID] = append(out[ref.LaneID], ref.Index)
	}
	for _, idx := range out {
		sort.Ints(idx)
	}
	return out
}

// DeleteSelectedBreakpoints removes every selected keyframe and returns the
// number removed. Removal runs per lane in descending index order.
func (e *Editor) DeleteSelectedBreakpoints() int {
	removed := 0
	for laneID, indices := range e.ValidSelection() {
		l := e.Lane(laneID)
		before := len(l.Keyframes)
		l.Keyframes = automation.RemoveIndices(l.Keyframes, indices)
		removed += before - len(l.Keyframes)
	}
	e.SelectedBreakpoints = nil
	return removed
}
