package interact

import "fmt"

// Key names a keyboard key independently of the windowing toolkit.
type Key string

const (
	KeyA         Key = "A"
	KeyC         Key = "C"
	KeyV         Key = "V"
	KeyD         Key = "D"
	KeyI         Key = "I"
	KeyO         Key = "O"
	KeyN         Key = "N"
	KeySpace     Key = "Space"
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "Backspace"
	KeyHome      Key = "Home"
	KeyEnd       Key = "End"
	KeyPlus      Key = "+"
	KeyMinus     Key = "-"
	KeyEscape    Key = "Escape"
)

// Key handles a key press and reports whether it was consumed. Shortcuts
// are ignored while a text field has focus.
func (c *Controller) Key(k Key, mods Modifiers) bool {
	if c.TextFocus {
		return false
	}
	ed := c.ed
	shortcut := mods.Contain(ModShortcut)

	switch {
	case k == KeyC && shortcut:
		ed.Copy()
	case k == KeyV && shortcut:
		ed.Paste()
	case shortcut:
		return false

	case k == KeyA:
		ed.ToggleLanesVisible()
		c.clampScrollY()
	case k == KeyD:
		c.DrawMode = !c.DrawMode
		if c.DrawMode {
			ed.Notice("Draw mode on")
		} else {
			ed.Notice("Draw mode off")
		}
	case k == KeyDelete || k == KeyBackspace:
		if n := ed.DeleteSelectedBreakpoints(); n > 0 {
			ed.Notice(fmt.Sprintf("%d breakpoints deleted", n))
		}
	case k == KeySpace:
		c.TogglePlayback()
	case k == KeyI:
		ed.SetInPoint(ed.Playhead)
	case k == KeyO:
		ed.SetOutPoint(ed.Playhead)
	case k == KeyN:
		ed.CreateRegionFromInOut(ed.SelectedTrackID)
	case k == KeyHome:
		ed.SetPlayhead(0)
		ed.View.EnsureVisible(ed.Playhead, AutoScrollMargin)
	case k == KeyEnd:
		ed.SetPlayhead(ed.LastFrame())
		ed.View.EnsureVisible(ed.Playhead, AutoScrollMargin)
	case k == KeyPlus:
		ed.View.ZoomAt(ed.View.FrameToPosition(ed.Playhead), KeyZoomFactor)
	case k == KeyMinus:
		ed.View.ZoomAt(ed.View.FrameToPosition(ed.Playhead), 1/KeyZoomFactor)
	case k == KeyEscape:
		ed.ClearBreakpointSelection()
	default:
		return false
	}
	return true
}

// TogglePlayback starts or stops the transport. Playback cannot start
// while a drag is in progress.
func (c *Controller) TogglePlayback() bool {
	if c.Transport.Playing() {
		c.Transport.Stop()
		return true
	}
	if c.Dragging() {
		c.ed.Notice("Finish the current drag before playing")
		return false
	}
	c.Transport.Start(c.Now())
	return true
}

// Tick advances playback and reports whether the playhead moved.
func (c *Controller) Tick() bool {
	return c.Transport.Advance(c.Now()) > 0
}
