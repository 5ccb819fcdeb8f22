package timeline

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
)

// AddTrack appends a new track. Unknown types become effect tracks.
func (e *Editor) AddTrack(name string, typ TrackType) *Track {
	if typ != TrackVideo {
		typ = TrackEffects
	}
	t := &Track{
		ID:     e.nextTrackID,
		Name:   name,
		Type:   typ,
		Height: DefaultTrackHeight,
	}
	e.nextTrackID++
	if t.Name == "" {
		t.Name = fmt.Sprintf("Track %d", t.ID+1)
	}
	e.Tracks = append(e.Tracks, t)
	return t
}

// RemoveTrack deletes a track and its regions. Lanes on those regions are
// left in place.
func (e *Editor) RemoveTrack(id int) bool {
	for i, t := range e.Tracks {
		if t.ID != id {
			continue
		}
		for _, r := range t.Regions {
			if e.SelectedRegionID == r.ID {
				e.DeselectRegion()
			}
		}
		e.Tracks = append(e.Tracks[:i], e.Tracks[i+1:]...)
		if e.SelectedTrackID == id {
			e.SelectedTrackID = None
		}
		return true
	}
	return false
}

// Track looks up a track by ID.
func (e *Editor) Track(id int) *Track {
	for _, t := range e.Tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// AddRegion places a region on a track. Frames are clamped and ordered and
// the region spans at least one frame. Unknown tracks return nil.
func (e *Editor) AddRegion(trackID, start, end int) *Region {
	t := e.Track(trackID)
	if t == nil {
		return nil
	}
	r := &Region{
		ID:         e.nextRegionID,
		TrackID:    trackID,
		StartFrame: start,
		EndFrame:   end,
	}
	e.nextRegionID++
	e.clampRegion(r)
	t.Regions = append(t.Regions, r)
	return r
}

// clampRegion restores 0 <= start < end <= last.
func (e *Editor) clampRegion(r *Region) {
	if r.StartFrame > r.EndFrame {
		r.StartFrame, r.EndFrame = r.EndFrame, r.StartFrame
	}
	r.StartFrame = e.ClampFrame(r.StartFrame)
	r.EndFrame = e.ClampFrame(r.EndFrame)
	if r.EndFrame <= r.StartFrame {
		if r.StartFrame >= e.LastFrame() {
			r.StartFrame = e.LastFrame() - 1
		}
		r.EndFrame = r.StartFrame + 1
	}
}

// RemoveRegion deletes a region from its track. Its lanes are kept.
func (e *Editor) RemoveRegion(id int) bool {
	for _, t := range e.Tracks {
		for i, r := range t.Regions {
			if r.ID != id {
				continue
			}
			t.Regions = append(t.Regions[:i], t.Regions[i+1:]...)
			if e.SelectedRegionID == id {
				e.DeselectRegion()
			}
			return true
		}
	}
	return false
}

// Region looks up a region by ID.
func (e *Editor) Region(id int) *Region {
	for _, t := range e.Tracks {
		for _, r := range t.Regions {
			if r.ID == id {
				return r
			}
		}
	}
	return nil
}

// MoveRegion shifts a region to start at frame, keeping its duration and
// staying inside the timeline.
func (e *Editor) MoveRegion(id, start int) {
	r := e.Region(id)
	if r == nil {
		return
	}
	d := r.Duration()
	if start < 0 {
		start = 0
	}
	if start+d > e.LastFrame() {
		start = e.LastFrame() - d
	}
	r.StartFrame, r.EndFrame = start, start+d
}

// ResizeRegionStart moves the left edge, keeping at least one frame.
func (e *Editor) ResizeRegionStart(id, frame int) {
	r := e.Region(id)
	if r == nil {
		return
	}
	frame = e.ClampFrame(frame)
	if frame > r.EndFrame-1 {
		frame = r.EndFrame - 1
	}
	r.StartFrame = frame
}

// ResizeRegionEnd moves the right edge, keeping at least one frame.
func (e *Editor) ResizeRegionEnd(id, frame int) {
	r := e.Region(id)
	if r == nil {
		return
	}
	frame = e.ClampFrame(frame)
	if frame < r.StartFrame+1 {
		frame = r.StartFrame + 1
	}
	r.EndFrame = frame
}

// SetRegionLabel sets the display label.
func (e *Editor) SetRegionLabel(id int, label string) {
	if r := e.Region(id); r != nil {
		r.Label = label
	}
}

// SetRegionColor overrides the display color with a hex string; "" resets.
func (e *Editor) SetRegionColor(id int, color string) {
	if r := e.Region(id); r != nil {
		r.Color = color
	}
}

// SetRegionMask sets the normalized mask rectangle; nil clears it.
func (e *Editor) SetRegionMask(id int, m *Mask) {
	r := e.Region(id)
	if r == nil {
		return
	}
	if m != nil {
		c := Mask{
			X: automation.Clamp01(m.X),
			Y: automation.Clamp01(m.Y),
			W: automation.Clamp01(m.W),
			H: automation.Clamp01(m.H),
		}
		m = &c
	}
	r.Mask = m
}

// CreateRegionFromInOut creates a region spanning the in/out markers on a
// track. It returns nil and posts a notice when the markers are not set.
func (e *Editor) CreateRegionFromInOut(trackID int) *Region {
	if !e.HasInOut() {
		e.obs.Notice("Set in/out point first")
		return nil
	}
	if e.Track(trackID) == nil {
		e.obs.Notice("Select a track first")
		return nil
	}
	r := e.AddRegion(trackID, e.InPoint, e.OutPoint)
	e.SelectRegion(r.ID)
	e.obs.Notice(fmt.Sprintf("Region created (%d-%d)", r.StartFrame, r.EndFrame))
	return r
}

// AddEffect appends an effect to a region, copying default parameters from
// the registry when the effect is known. It returns the effect index or -1.
func (e *Editor) AddEffect(regionID int, name string) int {
	r := e.Region(regionID)
	if r == nil {
		return -1
	}
	params := map[string]any{}
	if e.reg != nil {
		if spec, ok := e.reg.Lookup(name); ok {
			params = spec.Defaults()
		}
	}
	r.Effects = append(r.Effects, Effect{Name: name, Params: params})
	return len(r.Effects) - 1
}

// SetEffectBypassed toggles whether an effect is skipped at render time.
func (e *Editor) SetEffectBypassed(regionID, index int, bypassed bool) {
	r := e.Region(regionID)
	if r == nil || index < 0 || index >= len(r.Effects) {
		return
	}
	r.Effects[index].Bypassed = bypassed
}

// AddAutomationLane creates a lane for a region's effect parameter, seeded
// with keyframes at the region's start and end holding the parameter's
// default. Unknown regions return nil.
func (e *Editor) AddAutomationLane(regionID, effectIndex int, param string) *Lane {
	r := e.Region(regionID)
	if r == nil {
		return nil
	}
	value := 0.5
	if spec, ok := e.paramSpec(r, effectIndex, param); ok {
		value = spec.NormalizedDefault()
	}
	l := &Lane{
		ID:          e.nextLaneID,
		RegionID:    regionID,
		EffectIndex: effectIndex,
		ParamName:   param,
		Color:       LaneColor(e.nextLaneID),
		Visible:     true,
		Height:      DefaultLaneHeight,
		Keyframes: []automation.Keyframe{
			{Frame: r.StartFrame, Value: value, Curve: automation.CurveLinear},
			{Frame: r.EndFrame, Value: value, Curve: automation.CurveLinear},
		},
	}
	e.nextLaneID++
	e.Lanes = append(e.Lanes, l)
	return l
}

// RemoveAutomationLane deletes a lane and any selection pointing into it.
func (e *Editor) RemoveAutomationLane(id int) bool {
	for i, l := range e.Lanes {
		if l.ID != id {
			continue
		}
		e.Lanes = append(e.Lanes[:i], e.Lanes[i+1:]...)
		if e.SelectedLaneID == id {
			e.SelectedLaneID = None
		}
		e.remapSelection(id, func(int) (int, bool) { return 0, false })
		return true
	}
	return false
}

// Lane looks up a lane by ID.
func (e *Editor) Lane(id int) *Lane {
	for _, l := range e.Lanes {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// LanesForRegion returns a region's lanes in creation order.
func (e *Editor) LanesForRegion(regionID int) []*Lane {
	var out []*Lane
	for _, l := range e.Lanes {
		if l.RegionID == regionID {
			out = append(out, l)
		}
	}
	return out
}

// LanesForTrack returns the lanes stacked under a track: region order, then
// lane creation order.
func (e *Editor) LanesForTrack(trackID int) []*Lane {
	t := e.Track(trackID)
	if t == nil {
		return nil
	}
	var out []*Lane
	for _, r := range t.Regions {
		out = append(out, e.LanesForRegion(r.ID)...)
	}
	return out
}

// ToggleLaneVisible flips one lane's visibility.
func (e *Editor) ToggleLaneVisible(id int) {
	if l := e.Lane(id); l != nil {
		l.Visible = !l.Visible
	}
}

func (e *Editor) anySoloed() bool {
	for _, t := range e.Tracks {
		if t.Soloed {
			return true
		}
	}
	return false
}

// IsTrackMuted reports whether a track is silenced after solo resolution.
// When any track is soloed only soloed tracks play, muted or not. Unknown
// tracks count as muted.
func (e *Editor) IsTrackMuted(id int) bool {
	t := e.Track(id)
	if t == nil {
		return true
	}
	if e.anySoloed() {
		return !t.Soloed
	}
	return t.Muted
}

// ActiveRegions returns the regions of every track that plays, in track
// order.
func (e *Editor) ActiveRegions() []*Region {
	var out []*Region
	for _, t := range e.Tracks {
		if e.IsTrackMuted(t.ID) {
			continue
		}
		out = append(out, t.Regions...)
	}
	return out
}

// ToggleMute flips a track's mute flag.
func (e *Editor) ToggleMute(id int) {
	if t := e.Track(id); t != nil {
		t.Muted = !t.Muted
	}
}

// ToggleSolo flips a track's solo flag.
func (e *Editor) ToggleSolo(id int) {
	if t := e.Track(id); t != nil {
		t.Soloed = !t.Soloed
	}
}
