// Package interact turns pointer, wheel and keyboard input into editor
// mutations. A Controller holds at most one active drag mode, chosen by the
// hit-test result under the pointer when the button goes down, and applies
// each move incrementally so releasing the pointer always keeps the last
// computed state.
package interact

import (
	"math"
	"time"

	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

// Mode is the active drag gesture.
type Mode int

const (
	ModeIdle Mode = iota
	ModePlayhead
	ModeRegionMove
	ModeRegionResizeLeft
	ModeRegionResizeRight
	ModeBreakpointMove
	ModeDrawStroke
	ModeMarquee
)

var modeNames = map[Mode]string{
	ModeIdle:              "idle",
	ModePlayhead:          "playhead",
	ModeRegionMove:        "region-move",
	ModeRegionResizeLeft:  "region-resize-left",
	ModeRegionResizeRight: "region-resize-right",
	ModeBreakpointMove:    "breakpoint-move",
	ModeDrawStroke:        "draw-stroke",
	ModeMarquee:           "marquee",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// Modifiers is the set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	// ModShortcut is Ctrl, or Cmd on macOS.
	ModShortcut
	ModAlt
)

// Contain reports whether all of m2 are held.
func (m Modifiers) Contain(m2 Modifiers) bool {
	return m&m2 == m2
}

const (
	// SnapDistance is how close in pixels a dragged breakpoint must come to
	// the playhead to snap onto its frame.
	SnapDistance = 6.0

	// FineFactor scales value changes while Shift is held.
	FineFactor = 0.1

	// DrawGridPixels is the target spacing of draw-mode keyframes.
	DrawGridPixels = 8.0

	// WheelZoomBase is the zoom factor per wheel unit.
	WheelZoomBase = 1.1

	// KeyZoomFactor is the zoom step of the +/- keys.
	KeyZoomFactor = 1.25
)

// drag is the scratch state of the active gesture.
type drag struct {
	regionID int
	// pointer frame minus region start at press time
	grabOffset int

	laneID int
	index  int
	value  float64
	lastY  float64

	lastFrame int
	lastValue float64

	startX, startY float64
	x, y           float64
}

// Controller dispatches input to an Editor.
type Controller struct {
	ed *timeline.Editor

	// ScrollY is the vertical scroll of the track area in pixels.
	ScrollY float64
	// Height is the full surface height, ruler included.
	Height float64

	// DrawMode makes lane body drags paint step keyframes.
	DrawMode bool
	// TextFocus suppresses keyboard shortcuts while a text field is active.
	TextFocus bool

	Transport *Transport

	// Now is the clock used for keyboard-started playback.
	Now func() time.Time

	mode Mode
	d    drag
}

// New returns an idle controller for ed.
func New(ed *timeline.Editor) *Controller {
	return &Controller{
		ed:        ed,
		Transport: NewTransport(ed),
		Now:       time.Now,
	}
}

// Editor returns the controlled editor.
func (c *Controller) Editor() *timeline.Editor {
	return c.ed
}

// Mode returns the active drag mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Dragging reports whether a drag mode is active.
func (c *Controller) Dragging() bool {
	return c.mode != ModeIdle
}

// Geometry lays out the editor at the current vertical scroll.
func (c *Controller) Geometry() *scene.Geometry {
	return scene.NewGeometry(c.ed, c.ScrollY)
}

// SetSize updates the surface size in pixels.
func (c *Controller) SetSize(width, height float64) {
	c.ed.View.SetVisibleWidth(width - c.ed.View.HeaderWidth)
	c.Height = height
	c.clampScrollY()
}

// Marquee returns the marquee rectangle while a marquee drag is active.
func (c *Controller) Marquee() (scene.Rect, bool) {
	if c.mode != ModeMarquee {
		return scene.Rect{}, false
	}
	return scene.Rect{
		X: math.Min(c.d.startX, c.d.x),
		Y: math.Min(c.d.startY, c.d.y),
		W: math.Abs(c.d.x - c.d.startX),
		H: math.Abs(c.d.y - c.d.startY),
	}, true
}

// RenderOptions returns the scene options that reflect the controller.
func (c *Controller) RenderOptions(width, height float64, theme scene.ColorTheme) scene.Options {
	opts := scene.Options{
		Width:    width,
		Height:   height,
		ScrollY:  c.ScrollY,
		Theme:    theme,
		DrawMode: c.DrawMode,
	}
	if m, ok := c.Marquee(); ok {
		opts.Marquee = &m
	}
	return opts
}

func (c *Controller) enter(m Mode) {
	c.mode = m
	logging.Debug("interact: enter %s", m)
}

// PointerDown starts a gesture at (x, y). It is ignored while a gesture is
// active.
func (c *Controller) PointerDown(x, y float64, mods Modifiers) {
	if c.Dragging() {
		return
	}
	c.d = drag{startX: x, startY: y, x: x, y: y}
	g := c.Geometry()
	ed := c.ed

	switch h := scene.HitTest(ed, g, x, y).(type) {
	case scene.RulerHit:
		ed.SetPlayhead(h.Frame)
		c.enter(ModePlayhead)

	case scene.SoloButtonHit:
		ed.ToggleSolo(h.TrackID)

	case scene.MuteButtonHit:
		ed.ToggleMute(h.TrackID)

	case scene.TrackHeaderHit:
		ed.SelectTrack(h.TrackID)

	case scene.LaneHeaderHit:
		ed.SelectLane(h.LaneID)

	case scene.RegionHit:
		r := ed.Region(h.RegionID)
		ed.SelectRegion(h.RegionID)
		c.d.regionID = h.RegionID
		c.d.grabOffset = h.Frame - r.StartFrame
		switch h.Edge {
		case scene.EdgeLeft:
			c.enter(ModeRegionResizeLeft)
		case scene.EdgeRight:
			c.enter(ModeRegionResizeRight)
		default:
			c.enter(ModeRegionMove)
		}

	case scene.BreakpointHit:
		ed.SelectLane(h.LaneID)
		ref := timeline.BreakpointRef{LaneID: h.LaneID, Index: h.Index}
		if mods.Contain(ModShortcut) {
			if !ed.SelectBreakpoint(ref, true) {
				return
			}
		} else {
			ed.SelectBreakpoint(ref, false)
		}
		c.startBreakpointMove(h.LaneID, h.Index, y)

	case scene.LaneLineHit:
		ed.SelectLane(h.LaneID)
		curve := automation.CurveLinear
		if l := ed.Lane(h.LaneID); l != nil {
			if i := segmentStart(l.Keyframes, h.Frame); i >= 0 {
				curve = l.Keyframes[i].Curve
			}
		}
		idx := ed.InsertKeyframe(h.LaneID, automation.Keyframe{Frame: h.Frame, Value: h.Value, Curve: curve})
		if idx < 0 {
			return
		}
		ed.SelectBreakpoint(timeline.BreakpointRef{LaneID: h.LaneID, Index: idx}, mods.Contain(ModShortcut))
		c.startBreakpointMove(h.LaneID, idx, y)

	case scene.LaneBodyHit:
		ed.SelectLane(h.LaneID)
		if c.DrawMode {
			c.d.laneID = h.LaneID
			c.d.lastFrame = c.snapToGrid(h.Frame)
			c.d.lastValue = h.Value
			ed.DrawStep(h.LaneID, c.d.lastFrame, h.Value)
			c.enter(ModeDrawStroke)
			return
		}
		c.enter(ModeMarquee)

	case scene.TrackBodyHit:
		ed.SelectTrack(h.TrackID)
		ed.SetPlayhead(h.Frame)
		c.enter(ModePlayhead)

	case scene.EmptyHit:
		ed.DeselectRegion()
		ed.SelectLane(timeline.None)
	}
}

func (c *Controller) startBreakpointMove(laneID, index int, y float64) {
	l := c.ed.Lane(laneID)
	if l == nil || index < 0 || index >= len(l.Keyframes) {
		return
	}
	c.d.laneID = laneID
	c.d.index = index
	c.d.value = l.Keyframes[index].Value
	c.d.lastY = y
	c.enter(ModeBreakpointMove)
}

// segmentStart returns the index of the last keyframe at or before frame.
func segmentStart(keys []automation.Keyframe, frame int) int {
	idx := -1
	for i, k := range keys {
		if k.Frame > frame {
			break
		}
		idx = i
	}
	return idx
}

// PointerMove continues the active gesture. It does nothing when idle.
func (c *Controller) PointerMove(x, y float64, mods Modifiers) {
	c.d.x, c.d.y = x, y
	ed := c.ed
	frame := ed.View.PositionToFrame(x)

	switch c.mode {
	case ModePlayhead:
		ed.SetPlayhead(frame)

	case ModeRegionMove:
		ed.MoveRegion(c.d.regionID, frame-c.d.grabOffset)

	case ModeRegionResizeLeft:
		ed.ResizeRegionStart(c.d.regionID, frame)

	case ModeRegionResizeRight:
		ed.ResizeRegionEnd(c.d.regionID, frame)

	case ModeBreakpointMove:
		c.moveBreakpoint(x, y, mods)

	case ModeDrawStroke:
		c.drawTo(x, y)
	}
}

func (c *Controller) moveBreakpoint(x, y float64, mods Modifiers) {
	ed := c.ed
	row, ok := c.Geometry().LaneRow(c.d.laneID)
	if !ok {
		return
	}

	frame := ed.View.PositionToFrame(x)
	if math.Abs(x-ed.View.FrameToPosition(ed.Playhead)) <= SnapDistance {
		frame = ed.Playhead
	}

	value := row.YToValue(y)
	if mods.Contain(ModShift) {
		span := row.H - 2*scene.LanePad
		if span > 0 {
			value = automation.Clamp01(c.d.value + (c.d.lastY-y)/span*FineFactor)
		} else {
			value = c.d.value
		}
	}
	c.d.value, c.d.lastY = value, y

	idx := ed.MoveKeyframe(c.d.laneID, c.d.index, frame, value)
	if idx < 0 {
		// The lane changed under the drag.
		c.reset()
		return
	}
	c.d.index = idx
}

// DrawGridStep is the draw-mode grid in frames at zoom.
func DrawGridStep(zoom float64) int {
	step := int(math.Round(DrawGridPixels / zoom))
	if step < 1 {
		step = 1
	}
	return step
}

func (c *Controller) snapToGrid(frame int) int {
	step := DrawGridStep(c.ed.View.Zoom)
	return c.ed.ClampFrame(int(math.Round(float64(frame)/float64(step))) * step)
}

// drawTo writes a step keyframe at every grid frame between the previous
// stroke point and (x, y), interpolating the value along the way.
func (c *Controller) drawTo(x, y float64) {
	ed := c.ed
	row, ok := c.Geometry().LaneRow(c.d.laneID)
	if !ok {
		return
	}
	cur := c.snapToGrid(ed.View.PositionToFrame(x))
	value := row.YToValue(y)
	last, lastValue := c.d.lastFrame, c.d.lastValue

	if cur == last {
		ed.DrawStep(c.d.laneID, cur, value)
	} else {
		step := DrawGridStep(ed.View.Zoom)
		dir := 1
		if cur < last {
			dir = -1
		}
		span := float64(cur - last)
		f := last
		for f != cur {
			f += dir * step
			if (dir > 0 && f > cur) || (dir < 0 && f < cur) {
				f = cur
			}
			t := float64(f-last) / span
			ed.DrawStep(c.d.laneID, f, lastValue+(value-lastValue)*t)
		}
	}
	c.d.lastFrame, c.d.lastValue = cur, value
}

// PointerUp ends the active gesture without further edits. A marquee
// replaces the breakpoint selection with everything inside it.
func (c *Controller) PointerUp(x, y float64, mods Modifiers) {
	if !c.Dragging() {
		return
	}
	if c.mode == ModeMarquee {
		c.d.x, c.d.y = x, y
		rect, _ := c.Marquee()
		refs := scene.BreakpointsInRect(c.ed, c.Geometry(), rect)
		c.ed.SetBreakpointSelection(refs)
		logging.Debug("interact: marquee selected %d breakpoints", len(refs))
	}
	c.reset()
}

func (c *Controller) reset() {
	if c.mode != ModeIdle {
		logging.Debug("interact: leave %s", c.mode)
	}
	c.mode = ModeIdle
	c.d = drag{}
}

// Wheel handles a scroll event at (x, y). With the shortcut modifier it
// zooms around x, with Alt it scrolls the tracks vertically, otherwise it
// pans horizontally by whichever delta is non-zero.
func (c *Controller) Wheel(x, y, dx, dy float64, mods Modifiers) {
	switch {
	case mods.Contain(ModShortcut):
		c.ed.View.ZoomAt(x, math.Pow(WheelZoomBase, -dy))
	case mods.Contain(ModAlt):
		c.ScrollY += dy
		c.clampScrollY()
	default:
		d := dx
		if d == 0 {
			d = dy
		}
		c.ed.View.ScrollBy(d)
	}
}

func (c *Controller) clampScrollY() {
	max := c.Geometry().ContentHeight() - (c.Height - scene.RulerHeight)
	if c.ScrollY > max {
		c.ScrollY = max
	}
	if c.ScrollY < 0 {
		c.ScrollY = 0
	}
}

// Cursor is the pointer shape a host should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorResizeColumn
	CursorGrab
	CursorCrosshair
)

// HoverCursor returns the cursor for (x, y) while idle, or for the active
// gesture.
func (c *Controller) HoverCursor(x, y float64) Cursor {
	switch c.mode {
	case ModeRegionResizeLeft, ModeRegionResizeRight:
		return CursorResizeColumn
	case ModeRegionMove, ModeBreakpointMove:
		return CursorGrab
	case ModeDrawStroke, ModeMarquee:
		return CursorCrosshair
	case ModePlayhead:
		return CursorDefault
	}
	switch h := scene.HitTest(c.ed, c.Geometry(), x, y).(type) {
	case scene.RegionHit:
		if h.Edge != scene.EdgeNone {
			return CursorResizeColumn
		}
		return CursorGrab
	case scene.BreakpointHit, scene.LaneLineHit, scene.SoloButtonHit, scene.MuteButtonHit:
		return CursorPointer
	case scene.LaneBodyHit:
		if c.DrawMode {
			return CursorCrosshair
		}
	}
	return CursorDefault
}
