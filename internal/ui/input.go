package ui

import (
	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/interact"
)

// zoomScrollStep is the scroll distance in pixels that counts as one wheel
// notch when zooming.
const zoomScrollStep = 40

// allModifiers lets a key filter accept events with any modifier held.
const allModifiers = key.ModShift | key.ModCtrl | key.ModAlt | key.ModCommand | key.ModSuper

// modifiers converts Gio modifier flags.
func modifiers(m key.Modifiers) interact.Modifiers {
	var out interact.Modifiers
	if m.Contain(key.ModShift) {
		out |= interact.ModShift
	}
	if m.Contain(key.ModShortcut) {
		out |= interact.ModShortcut
	}
	if m.Contain(key.ModAlt) {
		out |= interact.ModAlt
	}
	return out
}

// keyName maps a Gio key name onto an editor key. It reports false for
// keys the editor has no binding for.
func keyName(name key.Name) (interact.Key, bool) {
	switch name {
	case "A":
		return interact.KeyA, true
	case "C":
		return interact.KeyC, true
	case "V":
		return interact.KeyV, true
	case "D":
		return interact.KeyD, true
	case "I":
		return interact.KeyI, true
	case "O":
		return interact.KeyO, true
	case "N":
		return interact.KeyN, true
	case key.NameSpace:
		return interact.KeySpace, true
	case key.NameDeleteForward:
		return interact.KeyDelete, true
	case key.NameDeleteBackward:
		return interact.KeyBackspace, true
	case key.NameHome:
		return interact.KeyHome, true
	case key.NameEnd:
		return interact.KeyEnd, true
	case "+", "=":
		return interact.KeyPlus, true
	case "-":
		return interact.KeyMinus, true
	case key.NameEscape:
		return interact.KeyEscape, true
	}
	return "", false
}

// wheelDeltas converts a scroll amount to the units the controller expects:
// pixels for panning, notches for zooming.
func wheelDeltas(scroll f32.Point, mods interact.Modifiers) (dx, dy float64) {
	dx, dy = float64(scroll.X), float64(scroll.Y)
	if mods.Contain(interact.ModShortcut) {
		dy /= zoomScrollStep
	}
	return dx, dy
}

// cursor maps the controller's cursor onto a Gio cursor.
func cursor(c interact.Cursor) pointer.Cursor {
	switch c {
	case interact.CursorPointer:
		return pointer.CursorPointer
	case interact.CursorResizeColumn:
		return pointer.CursorColResize
	case interact.CursorGrab:
		return pointer.CursorGrab
	case interact.CursorCrosshair:
		return pointer.CursorCrosshair
	}
	return pointer.CursorDefault
}
