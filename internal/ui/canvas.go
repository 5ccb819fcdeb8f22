package ui

import (
	"image"
	"time"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/text"

	"github.com/OpenTraceLab/OpenTraceFX/internal/metrics"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/interact"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

// boundKeys are the key names the canvas listens for.
var boundKeys = []key.Name{
	"A", "C", "V", "D", "I", "O", "N", "+", "=", "-",
	key.NameSpace, key.NameDeleteForward, key.NameDeleteBackward,
	key.NameHome, key.NameEnd, key.NameEscape,
}

// Canvas is the timeline widget: it forwards input to a controller and
// paints the rendered scene.
type Canvas struct {
	ctl    *interact.Controller
	shaper *text.Shaper
	Theme  scene.ColorTheme

	// Changed runs after input or playback modified the editor.
	Changed func()

	hover   image.Point
	buttons pointer.Buttons
}

// NewCanvas wraps a controller.
func NewCanvas(ctl *interact.Controller, shaper *text.Shaper) *Canvas {
	return &Canvas{ctl: ctl, shaper: shaper}
}

// Controller returns the wrapped controller.
func (c *Canvas) Controller() *interact.Controller {
	return c.ctl
}

func (c *Canvas) changed() {
	if c.Changed != nil {
		c.Changed()
	}
}

// Layout handles pending input and paints the timeline into the full
// constraints.
func (c *Canvas) Layout(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	c.ctl.SetSize(float64(size.X), float64(size.Y))

	c.handleKeys(gtx)
	c.handlePointer(gtx)

	if c.ctl.Transport.Playing() {
		if c.ctl.Tick() {
			c.changed()
		}
		if c.ctl.Transport.Playing() {
			gtx.Execute(op.InvalidateCmd{At: c.ctl.Transport.NextTick()})
		}
	}

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, c)
	cursor(c.ctl.HoverCursor(float64(c.hover.X), float64(c.hover.Y))).Add(gtx.Ops)

	start := time.Now()
	s := scene.Render(c.ctl.Editor(), c.ctl.RenderOptions(float64(size.X), float64(size.Y), c.Theme))
	metrics.ObserveRender("scene", start)
	paintSurface(gtx, c.shaper, s)
	area.Pop()

	return layout.Dimensions{Size: size}
}

func (c *Canvas) handleKeys(gtx layout.Context) {
	filters := make([]event.Filter, 0, len(boundKeys))
	for _, name := range boundKeys {
		filters = append(filters, key.Filter{Name: name, Optional: allModifiers})
	}
	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		k, ok := keyName(e.Name)
		if !ok {
			continue
		}
		if c.ctl.Key(k, modifiers(e.Modifiers)) {
			c.changed()
			gtx.Execute(op.InvalidateCmd{})
		}
	}
}

func (c *Canvas) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  c,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Move | pointer.Scroll | pointer.Cancel,
			ScrollX: pointer.ScrollRange{Min: -1 << 30, Max: 1 << 30},
			ScrollY: pointer.ScrollRange{Min: -1 << 30, Max: 1 << 30},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		mods := modifiers(pe.Modifiers)
		if pe.Kind != pointer.Cancel {
			c.hover = image.Pt(int(pe.Position.X), int(pe.Position.Y))
		}
		// Cancel carries no position; finish at the last known one.
		x, y := float64(c.hover.X), float64(c.hover.Y)
		if pe.Kind != pointer.Cancel {
			x, y = float64(pe.Position.X), float64(pe.Position.Y)
		}

		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons != pointer.ButtonPrimary {
				continue
			}
			c.buttons = pe.Buttons
			c.ctl.PointerDown(x, y, mods)
		case pointer.Drag:
			if c.buttons == 0 {
				continue
			}
			c.ctl.PointerMove(x, y, mods)
		case pointer.Release:
			if c.buttons == 0 {
				continue
			}
			c.buttons = 0
			c.ctl.PointerUp(x, y, mods)
		case pointer.Cancel:
			if c.buttons != 0 {
				c.buttons = 0
				c.ctl.PointerUp(x, y, mods)
			}
		case pointer.Scroll:
			dx, dy := wheelDeltas(pe.Scroll, mods)
			c.ctl.Wheel(x, y, dx, dy, mods)
		case pointer.Move:
			gtx.Execute(op.InvalidateCmd{})
			continue
		}
		c.changed()
		gtx.Execute(op.InvalidateCmd{})
	}
}
