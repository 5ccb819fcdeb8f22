package interact

import (
	"time"

	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

// AutoScrollMargin keeps the playhead this many pixels inside the visible
// timeline during playback.
const AutoScrollMargin = 40.0

// Transport advances the playhead in real time. The host calls Advance from
// its frame loop; nothing here starts a goroutine.
type Transport struct {
	ed      *timeline.Editor
	playing bool
	// time of the last whole frame that was consumed
	last time.Time
}

// NewTransport returns a stopped transport.
func NewTransport(ed *timeline.Editor) *Transport {
	return &Transport{ed: ed}
}

// Playing reports whether playback is running.
func (t *Transport) Playing() bool {
	return t.playing
}

// Start begins playback at now. Starting on the last frame rewinds to 0.
func (t *Transport) Start(now time.Time) {
	if t.playing {
		return
	}
	if t.ed.Playhead >= t.ed.LastFrame() {
		t.ed.SetPlayhead(0)
	}
	t.playing = true
	t.last = now
	logging.Debug("transport: play from %d at %.2f fps", t.ed.Playhead, t.ed.FPS)
}

// Stop halts playback.
func (t *Transport) Stop() {
	if !t.playing {
		return
	}
	t.playing = false
	logging.Debug("transport: stop at %d", t.ed.Playhead)
}

// FrameInterval is the duration of one frame.
func (t *Transport) FrameInterval() time.Duration {
	fps := t.ed.FPS
	if !timeline.ValidFPS(fps) {
		fps = timeline.DefaultFPS
	}
	return time.Duration(float64(time.Second) / fps)
}

// Advance moves the playhead by the whole frames elapsed since the last
// call, keeping the remainder for next time, and returns the number of
// frames advanced. Reaching the last frame stops playback.
func (t *Transport) Advance(now time.Time) int {
	if !t.playing {
		return 0
	}
	interval := t.FrameInterval()
	if interval <= 0 {
		return 0
	}
	n := int(now.Sub(t.last) / interval)
	if n <= 0 {
		return 0
	}
	t.last = t.last.Add(time.Duration(n) * interval)

	ed := t.ed
	before := ed.Playhead
	target := before + n
	if target >= ed.LastFrame() {
		target = ed.LastFrame()
		t.Stop()
	}
	ed.SetPlayhead(target)
	ed.View.EnsureVisible(ed.Playhead, AutoScrollMargin)
	return ed.Playhead - before
}

// NextTick is when the next frame is due, for scheduling a redraw.
func (t *Transport) NextTick() time.Time {
	return t.last.Add(t.FrameInterval())
}
