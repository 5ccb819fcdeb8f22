// Package scene turns editor state into a retained list of 2D drawing
// primitives and maps screen points back to the element under them. The
// renderer and the hit-tester share the geometry in this file so what is
// drawn is exactly what is clickable.
package scene

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

// Pixel geometry shared by rendering and hit-testing.
const (
	RulerHeight = 24.0

	// Solo and mute buttons sit in a strip at the top of each track header,
	// measured from the header's right edge.
	ButtonStrip   = 24.0
	ButtonSize    = 18.0
	ButtonWidth   = 22.0
	SoloButtonOff = 52.0
	MuteButtonOff = 26.0

	BreakpointRadius = 6.0
	LineBand         = 4.0
	EdgeMargin       = 6.0

	// Vertical padding inside a lane row so extreme values stay visible
	LanePad = 4.0

	// Minimum pixel spacing between labelled ruler ticks
	MinTickSpacing = 64.0
)

// RowKind distinguishes track rows from lane rows.
type RowKind int

const (
	RowTrack RowKind = iota
	RowLane
)

// Row is one horizontal band of the timeline below the ruler.
type Row struct {
	Kind  RowKind
	Y     float64
	H     float64
	Track *timeline.Track
	Lane  *timeline.Lane
}

// Contains reports whether y falls inside the row.
func (r Row) Contains(y float64) bool {
	return y >= r.Y && y < r.Y+r.H
}

// Geometry is the row layout of an editor for one frame.
type Geometry struct {
	Rows    []Row
	ScrollY float64
	View    timeline.Viewport
}

// NewGeometry stacks tracks below the ruler, each followed by its visible
// lanes when lanes are globally shown. scrollY shifts rows upward.
func NewGeometry(ed *timeline.Editor, scrollY float64) *Geometry {
	g := &Geometry{ScrollY: scrollY, View: ed.View}
	y := RulerHeight - scrollY
	for _, t := range ed.Tracks {
		g.Rows = append(g.Rows, Row{Kind: RowTrack, Y: y, H: t.Height, Track: t})
		y += t.Height
		if !ed.LanesVisible {
			continue
		}
		for _, l := range ed.LanesForTrack(t.ID) {
			if !l.Visible {
				continue
			}
			g.Rows = append(g.Rows, Row{Kind: RowLane, Y: y, H: l.Height, Track: t, Lane: l})
			y += l.Height
		}
	}
	return g
}

// ContentHeight is the total height of all rows, excluding the ruler.
func (g *Geometry) ContentHeight() float64 {
	h := 0.0
	for _, r := range g.Rows {
		h += r.H
	}
	return h
}

// RowAt returns the row under y.
func (g *Geometry) RowAt(y float64) (Row, bool) {
	for _, r := range g.Rows {
		if r.Contains(y) {
			return r, true
		}
	}
	return Row{}, false
}

// LaneRow returns the row of a visible lane.
func (g *Geometry) LaneRow(laneID int) (Row, bool) {
	for _, r := range g.Rows {
		if r.Kind == RowLane && r.Lane.ID == laneID {
			return r, true
		}
	}
	return Row{}, false
}

// ValueToY maps a normalized value onto a lane row.
func (r Row) ValueToY(v float64) float64 {
	return r.Y + LanePad + (1-v)*(r.H-2*LanePad)
}

// YToValue maps a y coordinate inside a lane row onto [0,1].
func (r Row) YToValue(y float64) float64 {
	span := r.H - 2*LanePad
	if span <= 0 {
		return 0.5
	}
	return automation.Clamp01(1 - (y-r.Y-LanePad)/span)
}

// SoloButton returns the solo button rectangle of a track row.
func (r Row) SoloButton(headerWidth float64) Rect {
	return r.button(headerWidth, SoloButtonOff)
}

// MuteButton returns the mute button rectangle of a track row.
func (r Row) MuteButton(headerWidth float64) Rect {
	return r.button(headerWidth, MuteButtonOff)
}

func (r Row) button(headerWidth, off float64) Rect {
	pad := (ButtonStrip - ButtonSize) / 2
	return Rect{X: headerWidth - off, Y: r.Y + pad, W: ButtonWidth, H: ButtonSize}
}

// RegionSpan returns the screen x extent of a region.
func (g *Geometry) RegionSpan(reg *timeline.Region) (x0, x1 float64) {
	return g.View.FrameToPosition(reg.StartFrame), g.View.FrameToPosition(reg.EndFrame)
}

// LaneFrameSpan returns the frames a lane's curve is drawn over: its
// region when the region exists, otherwise its keyframes.
func LaneFrameSpan(ed *timeline.Editor, l *timeline.Lane) (start, end int, ok bool) {
	if r := ed.Region(l.RegionID); r != nil {
		return r.StartFrame, r.EndFrame, true
	}
	if len(l.Keyframes) == 0 {
		return 0, 0, false
	}
	return l.Keyframes[0].Frame, l.Keyframes[len(l.Keyframes)-1].Frame, true
}

// BreakpointPos returns the screen position of a lane keyframe.
func (g *Geometry) BreakpointPos(row Row, k automation.Keyframe) (x, y float64) {
	return g.View.FrameToPosition(k.Frame), row.ValueToY(k.Value)
}

// TickStep picks the ruler tick spacing in frames for the current zoom,
// preferring steps that divide evenly into seconds at fps.
func TickStep(zoom, fps float64) int {
	sec := int(math.Max(1, math.Round(fps)))
	candidates := []int{1, 2, 5, 10}
	for _, m := range []int{1, 2, 5, 10, 30, 60, 300, 600} {
		candidates = append(candidates, sec*m)
	}
	for _, c := range candidates {
		if float64(c)*zoom >= MinTickSpacing {
			return c
		}
	}
	return candidates[len(candidates)-1]
}
