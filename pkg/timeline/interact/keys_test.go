package interact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

func TestKeyToggles(t *testing.T) {
	h := newHarness(t)

	assert.True(t, h.c.Key(KeyA, 0))
	assert.False(t, h.ed.LanesVisible)

	assert.True(t, h.c.Key(KeyD, 0))
	assert.True(t, h.c.DrawMode)
	assert.True(t, h.c.Key(KeyD, 0))
	assert.False(t, h.c.DrawMode)
	assert.Equal(t, []string{"Draw mode on", "Draw mode off"}, h.notices)

	assert.False(t, h.c.Key("Q", 0))
	assert.False(t, h.c.Key(KeyA, ModShortcut))
	assert.False(t, h.ed.LanesVisible)
}

func TestKeysIgnoredWithTextFocus(t *testing.T) {
	h := newHarness(t)
	h.c.TextFocus = true
	assert.False(t, h.c.Key(KeyA, 0))
	assert.True(t, h.ed.LanesVisible)
}

func TestKeyDelete(t *testing.T) {
	h := newHarness(t)
	h.ed.SetBreakpointSelection([]timeline.BreakpointRef{{LaneID: 0, Index: 0}, {LaneID: 0, Index: 1}})
	assert.True(t, h.c.Key(KeyBackspace, 0))
	assert.Empty(t, h.ed.Lane(0).Keyframes)
	assert.Empty(t, h.ed.SelectedBreakpoints)
	assert.Contains(t, h.notices, "2 breakpoints deleted")

	assert.True(t, h.c.Key(KeyDelete, 0))
}

func TestKeyCopyPaste(t *testing.T) {
	h := newHarness(t)
	h.ed.SelectBreakpoint(timeline.BreakpointRef{LaneID: 0, Index: 0}, false)
	require.True(t, h.c.Key(KeyC, ModShortcut))
	assert.Len(t, h.ed.Clipboard, 1)

	h.ed.SetPlayhead(100)
	require.True(t, h.c.Key(KeyV, ModShortcut))
	assert.Equal(t, []int{10, 60, 100}, h.frames())
	assert.Equal(t, []timeline.BreakpointRef{{LaneID: 0, Index: 2}}, h.ed.SelectedBreakpoints)
}

func TestKeyInOutAndNewRegion(t *testing.T) {
	h := newHarness(t)
	h.ed.SetPlayhead(100)
	h.c.Key(KeyI, 0)
	h.ed.SetPlayhead(200)
	h.c.Key(KeyO, 0)
	assert.True(t, h.ed.HasInOut())

	h.ed.SelectTrack(0)
	h.c.Key(KeyN, 0)
	r := h.ed.Region(1)
	require.NotNil(t, r)
	assert.Equal(t, 100, r.StartFrame)
	assert.Equal(t, 200, r.EndFrame)
	assert.Equal(t, 1, h.ed.SelectedRegionID)

	h.ed.ClearInOut()
	h.c.Key(KeyN, 0)
	assert.Contains(t, h.notices, "Set in/out point first")
}

func TestKeyNavigationAndZoom(t *testing.T) {
	h := newHarness(t)
	h.c.Key(KeyEnd, 0)
	assert.Equal(t, h.ed.LastFrame(), h.ed.Playhead)
	assert.Equal(t, h.ed.View.MaxScroll(), h.ed.View.ScrollX)

	h.c.Key(KeyHome, 0)
	assert.Equal(t, 0, h.ed.Playhead)
	assert.Equal(t, 0.0, h.ed.View.ScrollX)

	h.c.Key(KeyPlus, 0)
	assert.InDelta(t, 2.5, h.ed.View.Zoom, 1e-9)
	h.c.Key(KeyMinus, 0)
	assert.InDelta(t, 2.0, h.ed.View.Zoom, 1e-9)

	h.ed.SelectBreakpoint(timeline.BreakpointRef{LaneID: 0, Index: 0}, false)
	h.c.Key(KeyEscape, 0)
	assert.Empty(t, h.ed.SelectedBreakpoints)
}

func TestTransportAdvance(t *testing.T) {
	h := newHarness(t)
	t0 := time.Unix(1000, 0)
	tr := h.c.Transport

	tr.Start(t0)
	require.True(t, tr.Playing())
	assert.Equal(t, 3, tr.Advance(t0.Add(100*time.Millisecond)))
	assert.Equal(t, 3, h.ed.Playhead)
	// The remainder carries over.
	assert.Equal(t, 0, tr.Advance(t0.Add(110*time.Millisecond)))
	assert.Equal(t, 1, tr.Advance(t0.Add(134*time.Millisecond)))

	tr.Stop()
	assert.Equal(t, 0, tr.Advance(t0.Add(time.Second)))
}

func TestTransportHugeFPS(t *testing.T) {
	h := newHarness(t)
	t0 := time.Unix(1000, 0)
	require.NoError(t, h.ed.Deserialize([]byte(`{"fps": 1e10}`)))
	tr := h.c.Transport
	tr.Start(t0)
	assert.Equal(t, 30, tr.Advance(t0.Add(time.Second)))

	// A rate poked in directly falls back to the default interval.
	tr.Stop()
	h.ed.FPS = 1e10
	h.ed.SetPlayhead(0)
	tr.Start(t0)
	assert.Equal(t, time.Second/30, tr.FrameInterval())
	assert.Equal(t, 30, tr.Advance(t0.Add(time.Second)))
}

func TestTransportStopsAtEnd(t *testing.T) {
	h := newHarness(t)
	t0 := time.Unix(1000, 0)
	h.ed.SetPlayhead(h.ed.LastFrame() - 2)
	tr := h.c.Transport
	tr.Start(t0)
	assert.Equal(t, 2, tr.Advance(t0.Add(time.Second)))
	assert.Equal(t, h.ed.LastFrame(), h.ed.Playhead)
	assert.False(t, tr.Playing())

	// Starting again from the end rewinds.
	tr.Start(t0)
	assert.Equal(t, 0, h.ed.Playhead)
}

func TestTransportAutoScroll(t *testing.T) {
	h := newHarness(t)
	t0 := time.Unix(1000, 0)
	h.ed.SetPlayhead(375)
	tr := h.c.Transport
	tr.Start(t0)
	tr.Advance(t0.Add(time.Second))
	assert.Equal(t, 405, h.ed.Playhead)
	// 405 frames at zoom 2 sits 40 px inside the 800 px visible area.
	assert.Equal(t, 50.0, h.ed.View.ScrollX)
}

func TestPlaybackRefusedWhileDragging(t *testing.T) {
	h := newHarness(t)
	t0 := time.Unix(1000, 0)
	h.c.Now = func() time.Time { return t0 }

	h.c.PointerDown(200, 10, 0)
	assert.False(t, h.c.TogglePlayback())
	assert.False(t, h.c.Transport.Playing())
	assert.Contains(t, h.notices, "Finish the current drag before playing")

	h.c.PointerUp(200, 10, 0)
	assert.True(t, h.c.Key(KeySpace, 0))
	assert.True(t, h.c.Transport.Playing())

	h.c.Now = func() time.Time { return t0.Add(time.Second) }
	assert.True(t, h.c.Tick())
	assert.Equal(t, 50, h.ed.Playhead)

	assert.True(t, h.c.Key(KeySpace, 0))
	assert.False(t, h.c.Transport.Playing())
}
