package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

// fixture: one effects track at y [24,88) with region 0 over frames 10..60
// (x 180..280 at zoom 2) and one lane at y [88,136) holding 0.5 at both ends.
func fixture(t *testing.T) *timeline.Editor {
	t.Helper()
	ed := timeline.New(nil, nil)
	ed.View.SetVisibleWidth(800)
	tr := ed.AddTrack("fx", timeline.TrackEffects)
	r := ed.AddRegion(tr.ID, 10, 60)
	require.NotNil(t, r)
	ed.AddEffect(r.ID, "blur")
	require.NotNil(t, ed.AddAutomationLane(r.ID, 0, "radius"))
	return ed
}

func TestGeometryRows(t *testing.T) {
	ed := fixture(t)
	g := NewGeometry(ed, 0)
	require.Len(t, g.Rows, 2)
	assert.Equal(t, RowTrack, g.Rows[0].Kind)
	assert.Equal(t, 24.0, g.Rows[0].Y)
	assert.Equal(t, RowLane, g.Rows[1].Kind)
	assert.Equal(t, 88.0, g.Rows[1].Y)
	assert.Equal(t, 112.0, g.Rows[1].ValueToY(0.5))
	assert.InDelta(t, 0.5, g.Rows[1].YToValue(112), 1e-12)

	ed.ToggleLanesVisible()
	assert.Len(t, NewGeometry(ed, 0).Rows, 1)
}

func TestGeometrySkipsOrphanLanes(t *testing.T) {
	ed := fixture(t)
	ed.RemoveRegion(0)
	g := NewGeometry(ed, 0)
	assert.Len(t, g.Rows, 1)
	assert.Len(t, ed.Lanes, 1)
}

func TestHitTestPrecedence(t *testing.T) {
	ed := fixture(t)
	g := NewGeometry(ed, 0)

	tests := []struct {
		name string
		x, y float64
		want Hit
	}{
		{"ruler", 200, 10, RulerHit{Frame: 20}},
		{"solo", 110, 32, SoloButtonHit{TrackID: 0}},
		{"mute", 136, 32, MuteButtonHit{TrackID: 0}},
		{"track header", 20, 60, TrackHeaderHit{TrackID: 0}},
		{"lane header", 20, 100, LaneHeaderHit{LaneID: 0}},
		{"breakpoint exact", 180, 112, BreakpointHit{LaneID: 0, Index: 0}},
		{"breakpoint near", 184, 114, BreakpointHit{LaneID: 0, Index: 0}},
		{"breakpoint end", 279, 110, BreakpointHit{LaneID: 0, Index: 1}},
		{"line", 220, 114, LaneLineHit{LaneID: 0, Frame: 30, Value: 0.5}},
		{"region left edge", 182, 50, RegionHit{RegionID: 0, TrackID: 0, Edge: EdgeLeft, Frame: 11}},
		{"region body", 230, 50, RegionHit{RegionID: 0, TrackID: 0, Edge: EdgeNone, Frame: 35}},
		{"region right edge", 277, 50, RegionHit{RegionID: 0, TrackID: 0, Edge: EdgeRight, Frame: 59}},
		{"track body", 400, 50, TrackBodyHit{TrackID: 0, Frame: 120}},
		{"below rows", 400, 500, EmptyHit{}},
		{"header below rows", 20, 500, EmptyHit{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitTest(ed, g, tt.x, tt.y))
		})
	}
}

func TestHitTestLaneBody(t *testing.T) {
	ed := fixture(t)
	g := NewGeometry(ed, 0)
	hit, ok := HitTest(ed, g, 220, 130).(LaneBodyHit)
	require.True(t, ok)
	assert.Equal(t, 0, hit.LaneID)
	assert.Equal(t, 30, hit.Frame)
	assert.InDelta(t, 0.05, hit.Value, 1e-9)

	// Outside the region span the curve is not hittable.
	_, ok = HitTest(ed, g, 400, 112).(LaneBodyHit)
	assert.True(t, ok)
}

func TestHitTestTinyRegionKeepsBody(t *testing.T) {
	ed := timeline.New(nil, nil)
	ed.View.SetVisibleWidth(800)
	tr := ed.AddTrack("", timeline.TrackVideo)
	ed.AddRegion(tr.ID, 100, 103) // 6 px wide
	g := NewGeometry(ed, 0)
	x0 := ed.View.FrameToPosition(100)

	hit := HitTest(ed, g, x0+3, 50).(RegionHit)
	assert.Equal(t, EdgeNone, hit.Edge)
	hit = HitTest(ed, g, x0+1, 50).(RegionHit)
	assert.Equal(t, EdgeLeft, hit.Edge)
}

func TestHitTestScrolled(t *testing.T) {
	ed := fixture(t)
	g := NewGeometry(ed, 30)
	// The lane row now starts at y 58.
	assert.Equal(t, LaneHeaderHit{LaneID: 0}, HitTest(ed, g, 20, 70))
}

func TestBreakpointsInRect(t *testing.T) {
	ed := fixture(t)
	g := NewGeometry(ed, 0)

	refs := BreakpointsInRect(ed, g, Rect{X: 170, Y: 100, W: 20, H: 20})
	assert.Equal(t, []timeline.BreakpointRef{{LaneID: 0, Index: 0}}, refs)

	// Negative extents are normalized.
	refs = BreakpointsInRect(ed, g, Rect{X: 300, Y: 130, W: -140, H: -40})
	assert.Len(t, refs, 2)

	assert.Empty(t, BreakpointsInRect(ed, g, Rect{X: 190, Y: 90, W: 50, H: 40}))
}

func TestRenderIsDeterministic(t *testing.T) {
	ed := fixture(t)
	opts := Options{Width: 960, Height: 400}
	a := Render(ed, opts)
	b := Render(ed, opts)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.Count(Circle{}))
	assert.Equal(t, 1, a.Count(Polyline{}))
	assert.Equal(t, a.Count(PushClip{}), a.Count(PopClip{}))
}

func TestRenderSelectedBreakpoint(t *testing.T) {
	ed := fixture(t)
	ed.SelectBreakpoint(timeline.BreakpointRef{LaneID: 0, Index: 1}, false)
	pal := PaletteFor(ThemeDark)

	var dots []Circle
	for _, it := range Render(ed, Options{Width: 960, Height: 400}).Items {
		if c, ok := it.(Circle); ok {
			dots = append(dots, c)
		}
	}
	require.Len(t, dots, 2)
	assert.NotEqual(t, pal.BreakpointSelected, dots[0].Fill)
	assert.Equal(t, pal.BreakpointSelected, dots[1].Fill)
	assert.Greater(t, dots[1].R, dots[0].R)
}

func TestRenderMutedRegionIsDimmed(t *testing.T) {
	ed := fixture(t)
	ed.LanesVisible = false
	regionFill := func() []Rect {
		var out []Rect
		for _, it := range Render(ed, Options{Width: 960, Height: 400}).Items {
			if r, ok := it.(Rect); ok && r.X == 180 && r.W == 100 {
				out = append(out, r)
			}
		}
		return out
	}
	before := regionFill()
	require.Len(t, before, 1)
	ed.ToggleMute(0)
	after := regionFill()
	require.Len(t, after, 1)
	assert.NotEqual(t, before[0].Fill, after[0].Fill)
}

func TestTickStep(t *testing.T) {
	assert.Equal(t, 60, TickStep(2, 30))
	assert.Equal(t, 5, TickStep(20, 30))
	assert.Equal(t, 18000, TickStep(0.001, 30))
}

func TestTimecode(t *testing.T) {
	assert.Equal(t, "00:03:05", Timecode(95, 30))
	assert.Equal(t, "01:00:00", Timecode(1800, 30))
}

func TestParseHexFallback(t *testing.T) {
	fb := PaletteFor(ThemeDark).RegionVideo
	assert.Equal(t, fb, ParseHex("", fb))
	assert.Equal(t, fb, ParseHex("nope", fb))
	got := ParseHex("#ff0000", fb)
	assert.Equal(t, uint8(255), got.R)
	assert.Equal(t, uint8(0), got.G)
}
