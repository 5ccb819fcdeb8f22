package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/interact"
)

func TestModifiers(t *testing.T) {
	assert.Equal(t, interact.Modifiers(0), modifiers(0))
	assert.True(t, modifiers(key.ModShift).Contain(interact.ModShift))
	assert.True(t, modifiers(key.ModShortcut).Contain(interact.ModShortcut))
	m := modifiers(key.ModAlt | key.ModShift)
	assert.True(t, m.Contain(interact.ModAlt))
	assert.True(t, m.Contain(interact.ModShift))
	assert.False(t, m.Contain(interact.ModShortcut))
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		name key.Name
		want interact.Key
	}{
		{"A", interact.KeyA},
		{"N", interact.KeyN},
		{key.NameSpace, interact.KeySpace},
		{key.NameDeleteForward, interact.KeyDelete},
		{key.NameDeleteBackward, interact.KeyBackspace},
		{"+", interact.KeyPlus},
		{"=", interact.KeyPlus},
		{"-", interact.KeyMinus},
		{key.NameEscape, interact.KeyEscape},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			got, ok := keyName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := keyName("Q")
	assert.False(t, ok)
}

func TestBoundKeysAllMap(t *testing.T) {
	for _, name := range boundKeys {
		_, ok := keyName(name)
		assert.True(t, ok, "key %q has no binding", name)
	}
}

func TestWheelDeltas(t *testing.T) {
	dx, dy := wheelDeltas(f32.Pt(12, 80), 0)
	assert.Equal(t, 12.0, dx)
	assert.Equal(t, 80.0, dy)

	_, dy = wheelDeltas(f32.Pt(0, 80), interact.ModShortcut)
	assert.Equal(t, 2.0, dy)
}

func TestCursor(t *testing.T) {
	assert.Equal(t, pointer.CursorDefault, cursor(interact.CursorDefault))
	assert.Equal(t, pointer.CursorPointer, cursor(interact.CursorPointer))
	assert.Equal(t, pointer.CursorColResize, cursor(interact.CursorResizeColumn))
	assert.Equal(t, pointer.CursorGrab, cursor(interact.CursorGrab))
	assert.Equal(t, pointer.CursorCrosshair, cursor(interact.CursorCrosshair))
}

func TestLogBufferBounded(t *testing.T) {
	b := newLogBuffer()
	b.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	for i := 0; i < maxLogLines+20; i++ {
		b.Add("line %d", i)
	}
	assert.Equal(t, maxLogLines, b.Len())

	lines := strings.Split(b.Text(), "\n")
	require.Len(t, lines, maxLogLines)
	assert.Equal(t, "[Mar  1 12:00:00] line 20", lines[0])
	assert.Equal(t, fmt.Sprintf("[Mar  1 12:00:00] line %d", maxLogLines+19), lines[len(lines)-1])
}

func TestProjectName(t *testing.T) {
	assert.Equal(t, "untitled", projectName(""))
	assert.Equal(t, "intro", projectName("/tmp/shows/intro.json"))
	assert.Equal(t, "noext", projectName("noext"))
}

func newActionEditor(t *testing.T) (*timeline.Editor, *timeline.Region, *timeline.Lane) {
	t.Helper()
	ed := timeline.New(registry.Builtin(), nil)
	tr := ed.AddTrack("FX", timeline.TrackEffects)
	r := ed.AddRegion(tr.ID, 16, 80)
	require.NotNil(t, r)
	idx := ed.AddEffect(r.ID, "blur")
	l := ed.AddAutomationLane(r.ID, idx, "radius")
	require.NotNil(t, l)
	return ed, r, l
}

func TestActionsNeedTarget(t *testing.T) {
	ed := timeline.New(registry.Builtin(), nil)
	assert.Equal(t, "Select a lane first", insertShape(ed, automation.ShapeSine))
	assert.Equal(t, "Select a lane first", simplifyTarget(ed))
	assert.Equal(t, "Select a region first", addEffect(ed, "blur"))
	assert.Equal(t, 0, applyCurve(ed, automation.CurveStep))
}

func TestInsertShapeAndSimplify(t *testing.T) {
	ed, _, l := newActionEditor(t)
	ed.SelectLane(l.ID)

	msg := insertShape(ed, automation.ShapeRampUp)
	assert.Equal(t, "Inserted ramp_up on radius (16-80)", msg)
	require.Len(t, l.Keyframes, shapeResolution+1)
	assert.Equal(t, 16, l.Keyframes[0].Frame)
	assert.Equal(t, 80, l.Keyframes[len(l.Keyframes)-1].Frame)

	msg = simplifyTarget(ed)
	assert.Equal(t, fmt.Sprintf("Simplified radius: %d keyframes removed", shapeResolution-1), msg)
	assert.Len(t, l.Keyframes, 2)
}

func TestInsertShapeUsesInOut(t *testing.T) {
	ed, _, l := newActionEditor(t)
	ed.SelectLane(l.ID)
	ed.SetInPoint(20)
	ed.SetOutPoint(40)

	assert.Equal(t, "Inserted square on radius (20-40)", insertShape(ed, automation.ShapeSquare))
	assert.Equal(t, 16, l.Keyframes[0].Frame)
	assert.Equal(t, 80, l.Keyframes[len(l.Keyframes)-1].Frame)
}

func TestApplyCurveToSelection(t *testing.T) {
	ed, _, l := newActionEditor(t)
	ed.SetBreakpointSelection([]timeline.BreakpointRef{{LaneID: l.ID, Index: 1}})

	assert.Equal(t, l.ID, targetLane(ed).ID)
	assert.Equal(t, 1, applyCurve(ed, automation.CurveEaseIn))
	assert.Equal(t, automation.CurveLinear, l.Keyframes[0].Curve)
	assert.Equal(t, automation.CurveEaseIn, l.Keyframes[1].Curve)
}

func TestAddTrackAndEffect(t *testing.T) {
	ed, r, _ := newActionEditor(t)

	tr := addTrack(ed)
	assert.Equal(t, "Track 2", tr.Name)
	assert.Equal(t, tr.ID, ed.SelectedTrackID)

	ed.SelectRegion(r.ID)
	lanes := len(ed.Lanes)
	assert.Equal(t, "Added invert with enabled lane", addEffect(ed, "invert"))
	require.Len(t, ed.Lanes, lanes+1)
	assert.Equal(t, "enabled", ed.Lanes[lanes].ParamName)
	assert.Len(t, r.Effects, 2)
}
