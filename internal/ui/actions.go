package ui

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

const (
	// shapeResolution is the segment count of toolbar-inserted waveforms.
	shapeResolution = 16
	// simplifyTolerance is the value deviation the simplify button allows.
	simplifyTolerance = 0.01
)

// targetLane returns the lane toolbar actions apply to: the selected lane,
// else the lane of the first selected breakpoint.
func targetLane(ed *timeline.Editor) *timeline.Lane {
	if l := ed.Lane(ed.SelectedLaneID); l != nil {
		return l
	}
	if refs := ed.SelectedBreakpointsSorted(); len(refs) > 0 {
		return ed.Lane(refs[0].LaneID)
	}
	return nil
}

// shapeSpan is the frame range a waveform is inserted over: the in/out
// range when set, else the span of the lane's region.
func shapeSpan(ed *timeline.Editor, l *timeline.Lane) (start, end int, ok bool) {
	if ed.HasInOut() {
		return ed.InPoint, ed.OutPoint, true
	}
	return scene.LaneFrameSpan(ed, l)
}

// insertShape fills the target lane with shape and returns a status line.
func insertShape(ed *timeline.Editor, shape automation.Shape) string {
	l := targetLane(ed)
	if l == nil {
		return "Select a lane first"
	}
	start, end, ok := shapeSpan(ed, l)
	if !ok {
		return "Lane has no region"
	}
	ed.InsertShape(l.ID, shape, start, end, shapeResolution)
	return fmt.Sprintf("Inserted %s on %s (%d-%d)", shape, l.ParamName, start, end)
}

// applyCurve sets the curve of every selected breakpoint.
func applyCurve(ed *timeline.Editor, c automation.Curve) int {
	refs := ed.SelectedBreakpointsSorted()
	for _, ref := range refs {
		ed.SetKeyframeCurve(ref.LaneID, ref.Index, c)
	}
	return len(refs)
}

// simplifyTarget simplifies the target lane and returns a status line.
func simplifyTarget(ed *timeline.Editor) string {
	l := targetLane(ed)
	if l == nil {
		return "Select a lane first"
	}
	n := ed.SimplifyLane(l.ID, simplifyTolerance)
	return fmt.Sprintf("Simplified %s: %d keyframes removed", l.ParamName, n)
}

// addTrack appends a numbered effects track and selects it.
func addTrack(ed *timeline.Editor) *timeline.Track {
	t := ed.AddTrack(fmt.Sprintf("Track %d", len(ed.Tracks)+1), timeline.TrackEffects)
	ed.SelectTrack(t.ID)
	return t
}

// addEffect appends an effect to the selected region and opens a lane for
// its first automatable parameter.
func addEffect(ed *timeline.Editor, name string) string {
	r := ed.SelectedRegion()
	if r == nil {
		return "Select a region first"
	}
	idx := ed.AddEffect(r.ID, name)
	if reg := ed.Registry(); reg != nil {
		if spec, ok := reg.Lookup(name); ok {
			for _, p := range spec.Params {
				if p.Automatable() {
					ed.AddAutomationLane(r.ID, idx, p.Name)
					return fmt.Sprintf("Added %s with %s lane", name, p.Name)
				}
			}
		}
	}
	return "Added " + name
}
