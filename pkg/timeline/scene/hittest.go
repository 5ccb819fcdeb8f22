package scene

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

// Hit is the element under a screen point. Exactly one of the types below.
type Hit interface {
	hit()
}

// RulerHit is the time ruler across the top.
type RulerHit struct {
	Frame int
}

// SoloButtonHit is a track's solo toggle.
type SoloButtonHit struct {
	TrackID int
}

// MuteButtonHit is a track's mute toggle.
type MuteButtonHit struct {
	TrackID int
}

// TrackHeaderHit is the rest of a track header.
type TrackHeaderHit struct {
	TrackID int
}

// LaneHeaderHit is an automation lane header.
type LaneHeaderHit struct {
	LaneID int
}

// RegionEdge says which part of a region was hit.
type RegionEdge int

const (
	EdgeNone RegionEdge = iota
	EdgeLeft
	EdgeRight
)

// RegionHit is a region body or one of its edges.
type RegionHit struct {
	RegionID int
	TrackID  int
	Edge     RegionEdge
	Frame    int
}

// BreakpointHit is a keyframe marker.
type BreakpointHit struct {
	LaneID int
	Index  int
}

// LaneLineHit is the interpolated curve between keyframes.
type LaneLineHit struct {
	LaneID int
	Frame  int
	Value  float64
}

// LaneBodyHit is empty lane space.
type LaneBodyHit struct {
	LaneID int
	Frame  int
	Value  float64
}

// TrackBodyHit is track space outside any region.
type TrackBodyHit struct {
	TrackID int
	Frame   int
}

// EmptyHit is anything else.
type EmptyHit struct{}

func (RulerHit) hit()       {}
func (SoloButtonHit) hit()  {}
func (MuteButtonHit) hit()  {}
func (TrackHeaderHit) hit() {}
func (LaneHeaderHit) hit()  {}
func (RegionHit) hit()      {}
func (BreakpointHit) hit()  {}
func (LaneLineHit) hit()    {}
func (LaneBodyHit) hit()    {}
func (TrackBodyHit) hit()   {}
func (EmptyHit) hit()       {}

// HitTest classifies (x, y). Precedence: ruler, then the header column
// (solo, mute, track header, lane headers), then the timeline area where
// lanes come before regions and within a lane a breakpoint beats the curve,
// which beats the empty body.
func HitTest(ed *timeline.Editor, g *Geometry, x, y float64) Hit {
	frame := ed.ClampFrame(g.View.PositionToFrame(x))

	if y < RulerHeight {
		return RulerHit{Frame: frame}
	}

	row, ok := g.RowAt(y)
	if x < g.View.HeaderWidth {
		if !ok {
			return EmptyHit{}
		}
		if row.Kind == RowLane {
			return LaneHeaderHit{LaneID: row.Lane.ID}
		}
		id := row.Track.ID
		if row.SoloButton(g.View.HeaderWidth).Contains(x, y) {
			return SoloButtonHit{TrackID: id}
		}
		if row.MuteButton(g.View.HeaderWidth).Contains(x, y) {
			return MuteButtonHit{TrackID: id}
		}
		return TrackHeaderHit{TrackID: id}
	}

	if !ok {
		return EmptyHit{}
	}
	if row.Kind == RowLane {
		return hitLane(ed, g, row, x, y)
	}
	return hitTrack(ed, g, row, x, frame)
}

func hitLane(ed *timeline.Editor, g *Geometry, row Row, x, y float64) Hit {
	l := row.Lane

	best, bestDist := -1, math.Inf(1)
	for i, k := range l.Keyframes {
		kx, ky := g.BreakpointPos(row, k)
		d := math.Hypot(kx-x, ky-y)
		if d <= BreakpointRadius && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return BreakpointHit{LaneID: l.ID, Index: best}
	}

	frame := ed.ClampFrame(g.View.PositionToFrame(x))
	value := row.YToValue(y)
	if start, end, ok := LaneFrameSpan(ed, l); ok && frame >= start && frame <= end {
		if v, ok := l.Sample(frame); ok && math.Abs(row.ValueToY(v)-y) <= LineBand {
			return LaneLineHit{LaneID: l.ID, Frame: frame, Value: v}
		}
	}
	return LaneBodyHit{LaneID: l.ID, Frame: frame, Value: value}
}

func hitTrack(ed *timeline.Editor, g *Geometry, row Row, x float64, frame int) Hit {
	t := row.Track
	// Later regions paint on top, so test them first.
	for i := len(t.Regions) - 1; i >= 0; i-- {
		reg := t.Regions[i]
		x0, x1 := g.RegionSpan(reg)
		if x < x0 || x > x1 {
			continue
		}
		margin := math.Min(EdgeMargin, (x1-x0)/3)
		edge := EdgeNone
		switch {
		case x-x0 <= margin:
			edge = EdgeLeft
		case x1-x <= margin:
			edge = EdgeRight
		}
		return RegionHit{RegionID: reg.ID, TrackID: t.ID, Edge: edge, Frame: frame}
	}
	return TrackBodyHit{TrackID: t.ID, Frame: frame}
}

// BreakpointsInRect returns every visible keyframe whose marker center lies
// inside rect.
func BreakpointsInRect(ed *timeline.Editor, g *Geometry, rect Rect) []timeline.BreakpointRef {
	x0, x1 := math.Min(rect.X, rect.X+rect.W), math.Max(rect.X, rect.X+rect.W)
	y0, y1 := math.Min(rect.Y, rect.Y+rect.H), math.Max(rect.Y, rect.Y+rect.H)
	var out []timeline.BreakpointRef
	for _, row := range g.Rows {
		if row.Kind != RowLane || row.Y > y1 || row.Y+row.H < y0 {
			continue
		}
		for i, k := range row.Lane.Keyframes {
			kx, ky := g.BreakpointPos(row, k)
			if kx >= x0 && kx <= x1 && ky >= y0 && ky <= y1 {
				out = append(out, timeline.BreakpointRef{LaneID: row.Lane.ID, Index: i})
			}
		}
	}
	return out
}
