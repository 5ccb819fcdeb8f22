// Package timeline holds the editable model of an effects timeline: tracks,
// regions with effect chains, automation lanes, the playhead and in/out
// markers, selection and clipboard, and the viewport that maps frames to
// pixels.
//
// All mutation goes through Editor methods, which clamp their inputs rather
// than fail. Lookups of unknown IDs are no-ops.
package timeline

import (
	"github.com/OpenTraceLab/OpenTraceFX/pkg/registry"
)

// State is every piece of editor data that is saved, restored, or replaced
// as a unit.
type State struct {
	Tracks []*Track
	Lanes  []*Lane
	View   Viewport
	FPS    float64

	Playhead int
	InPoint  int
	OutPoint int

	SelectedRegionID    int
	SelectedTrackID     int
	SelectedLaneID      int
	SelectedBreakpoints []BreakpointRef
	Clipboard           []ClipboardItem

	// Global automation lane visibility
	LanesVisible bool

	nextTrackID  int
	nextRegionID int
	nextLaneID   int
}

func newState() State {
	return State{
		View:             NewViewport(DefaultTotalFrames, DefaultHeaderWidth, 0),
		FPS:              DefaultFPS,
		InPoint:          NoFrame,
		OutPoint:         NoFrame,
		SelectedRegionID: None,
		SelectedTrackID:  None,
		SelectedLaneID:   None,
		LanesVisible:     true,
	}
}

// Editor owns the timeline state. It is not safe for concurrent use.
type Editor struct {
	State

	obs Observer
	reg registry.Registry
}

// New creates an empty editor. reg supplies effect defaults and may be nil;
// obs may be nil.
func New(reg registry.Registry, obs Observer) *Editor {
	e := &Editor{State: newState(), reg: reg}
	e.SetObserver(obs)
	return e
}

// SetObserver replaces the notification target. nil disables notifications.
func (e *Editor) SetObserver(obs Observer) {
	if obs == nil {
		obs = NopObserver{}
	}
	e.obs = obs
}

// Registry returns the effect registry, which may be nil.
func (e *Editor) Registry() registry.Registry {
	return e.reg
}

// Notice forwards an advisory message to the observer.
func (e *Editor) Notice(msg string) {
	e.obs.Notice(msg)
}

// NextTrackID returns the ID the next track will receive.
func (e *Editor) NextTrackID() int { return e.nextTrackID }

// NextRegionID returns the ID the next region will receive.
func (e *Editor) NextRegionID() int { return e.nextRegionID }

// NextLaneID returns the ID the next lane will receive.
func (e *Editor) NextLaneID() int { return e.nextLaneID }

// TotalFrames is the timeline length.
func (e *Editor) TotalFrames() int {
	return e.View.TotalFrames
}

// LastFrame is the highest addressable frame.
func (e *Editor) LastFrame() int {
	return e.View.TotalFrames - 1
}

// SetTotalFrames resizes the timeline and re-clamps everything that
// depends on its length.
func (e *Editor) SetTotalFrames(n int) {
	if n < 2 {
		n = 2
	}
	e.View.TotalFrames = n
	e.View.ClampScroll()
	for _, t := range e.Tracks {
		for _, r := range t.Regions {
			e.clampRegion(r)
		}
	}
	if e.InPoint != NoFrame {
		e.InPoint = e.ClampFrame(e.InPoint)
	}
	if e.OutPoint != NoFrame {
		e.OutPoint = e.ClampFrame(e.OutPoint)
	}
	e.SetPlayhead(e.Playhead)
}

// SetFPS sets the playback rate. Rates outside (0, MaxFPS] are ignored.
func (e *Editor) SetFPS(fps float64) {
	if ValidFPS(fps) {
		e.FPS = fps
	}
}

// ClampFrame limits frame to [0, TotalFrames-1].
func (e *Editor) ClampFrame(frame int) int {
	if frame < 0 {
		return 0
	}
	if last := e.LastFrame(); frame > last {
		return last
	}
	return frame
}

// SetPlayhead moves the playhead, clamped, and notifies on change.
func (e *Editor) SetPlayhead(frame int) {
	frame = e.ClampFrame(frame)
	if frame == e.Playhead {
		return
	}
	e.Playhead = frame
	e.obs.PlayheadChanged(frame)
}

// SetInPoint marks the in point. An in point at or after the out point
// clears the out point.
func (e *Editor) SetInPoint(frame int) {
	e.InPoint = e.ClampFrame(frame)
	if e.OutPoint != NoFrame && e.InPoint >= e.OutPoint {
		e.OutPoint = NoFrame
	}
}

// SetOutPoint marks the out point. An out point at or before the in point
// clears the in point.
func (e *Editor) SetOutPoint(frame int) {
	e.OutPoint = e.ClampFrame(frame)
	if e.InPoint != NoFrame && e.OutPoint <= e.InPoint {
		e.InPoint = NoFrame
	}
}

// ClearInOut removes both markers.
func (e *Editor) ClearInOut() {
	e.InPoint, e.OutPoint = NoFrame, NoFrame
}

// HasInOut reports whether both markers are set.
func (e *Editor) HasInOut() bool {
	return e.InPoint != NoFrame && e.OutPoint != NoFrame
}

// SelectRegion selects a region and its track. Unknown IDs deselect.
func (e *Editor) SelectRegion(id int) {
	r := e.Region(id)
	if r == nil {
		e.DeselectRegion()
		return
	}
	e.SelectedRegionID = id
	e.SelectedTrackID = r.TrackID
	e.obs.RegionSelected(id)
}

// DeselectRegion clears the region selection, notifying only if something
// was selected.
func (e *Editor) DeselectRegion() {
	if e.SelectedRegionID == None {
		return
	}
	e.SelectedRegionID = None
	e.obs.RegionDeselected()
}

// SelectedRegion returns the selected region or nil.
func (e *Editor) SelectedRegion() *Region {
	return e.Region(e.SelectedRegionID)
}

// SelectTrack selects a track. Unknown IDs clear the track selection.
func (e *Editor) SelectTrack(id int) {
	if e.Track(id) == nil {
		id = None
	}
	e.SelectedTrackID = id
}

// SelectLane selects a lane as the paste target. Unknown IDs clear it.
func (e *Editor) SelectLane(id int) {
	if e.Lane(id) == nil {
		id = None
	}
	e.SelectedLaneID = id
}

// ToggleLanesVisible flips global lane visibility.
func (e *Editor) ToggleLanesVisible() {
	e.LanesVisible = !e.LanesVisible
}
