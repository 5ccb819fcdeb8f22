package scene

import (
	"fmt"
	"image/color"
	"math"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

// Options controls one render pass.
type Options struct {
	Width   float64
	Height  float64
	ScrollY float64
	Theme   ColorTheme

	// Marquee rectangle in screen space while a marquee drag is active
	Marquee *Rect

	// DrawMode tints lane rows while draw mode is on
	DrawMode bool
}

// Render draws the editor into a new Surface. It only reads the editor.
func Render(ed *timeline.Editor, opts Options) *Surface {
	pal := PaletteFor(opts.Theme)
	g := NewGeometry(ed, opts.ScrollY)
	s := &Surface{Width: opts.Width, Height: opts.Height, Background: pal.Background}
	r := &renderer{ed: ed, g: g, pal: pal, s: s, opts: opts, header: ed.View.HeaderWidth}

	s.Add(Rect{X: 0, Y: 0, W: opts.Width, H: opts.Height, Fill: pal.Background})

	s.Clip(0, RulerHeight, opts.Width, opts.Height-RulerHeight, func() {
		for _, row := range g.Rows {
			if row.Y+row.H < RulerHeight || row.Y > opts.Height {
				continue
			}
			switch row.Kind {
			case RowTrack:
				r.trackRow(row)
			case RowLane:
				r.laneRow(row)
			}
		}
		s.Clip(r.header, RulerHeight, opts.Width-r.header, opts.Height-RulerHeight, func() {
			r.inOutShade()
			if opts.Marquee != nil {
				m := *opts.Marquee
				m.Fill = pal.Marquee
				m.Stroke = WithAlpha(pal.Marquee, 200)
				m.StrokeWidth = 1
				s.Add(m)
			}
		})
	})

	r.ruler()
	r.playhead()
	return s
}

type renderer struct {
	ed     *timeline.Editor
	g      *Geometry
	pal    Palette
	s      *Surface
	opts   Options
	header float64
}

func (r *renderer) ruler() {
	pal, s := r.pal, r.s
	s.Add(Rect{X: 0, Y: 0, W: r.opts.Width, H: RulerHeight, Fill: pal.Ruler})
	s.Add(Text{X: 8, Y: RulerHeight / 2, Size: 11, Text: Timecode(r.ed.Playhead, r.ed.FPS), Color: pal.RulerText})

	s.Clip(r.header, 0, r.opts.Width-r.header, RulerHeight, func() {
		step := TickStep(r.g.View.Zoom, r.ed.FPS)
		minor := step / 5
		if minor < 1 {
			minor = 1
		}
		first, last := r.g.View.VisibleFrameRange()
		for f := first - first%minor; f <= last; f += minor {
			x := r.g.View.FrameToPosition(f)
			if f%step == 0 {
				s.Add(Line{X1: x, Y1: RulerHeight * 0.4, X2: x, Y2: RulerHeight, Width: 1, Color: pal.RulerTick})
				s.Add(Text{X: x + 3, Y: RulerHeight * 0.35, Size: 10, Text: fmt.Sprint(f), Color: pal.RulerText})
				continue
			}
			s.Add(Line{X1: x, Y1: RulerHeight * 0.75, X2: x, Y2: RulerHeight, Width: 1, Color: pal.RulerTick})
		}

		if r.ed.InPoint != timeline.NoFrame {
			x := r.g.View.FrameToPosition(r.ed.InPoint)
			s.Add(Rect{X: x, Y: 0, W: 3, H: RulerHeight, Fill: pal.InOutMarker})
			s.Add(Text{X: x + 5, Y: RulerHeight * 0.75, Size: 9, Text: "IN", Color: pal.InOutMarker})
		}
		if r.ed.OutPoint != timeline.NoFrame {
			x := r.g.View.FrameToPosition(r.ed.OutPoint)
			s.Add(Rect{X: x - 3, Y: 0, W: 3, H: RulerHeight, Fill: pal.InOutMarker})
			s.Add(Text{X: x - 5, Y: RulerHeight * 0.75, Size: 9, Text: "OUT", Color: pal.InOutMarker, Align: AlignEnd})
		}
	})
	s.Add(Line{X1: 0, Y1: RulerHeight, X2: r.opts.Width, Y2: RulerHeight, Width: 1, Color: pal.Separator})
}

func (r *renderer) inOutShade() {
	in, out := r.ed.InPoint, r.ed.OutPoint
	if in == timeline.NoFrame && out == timeline.NoFrame {
		return
	}
	if in == timeline.NoFrame {
		in = 0
	}
	if out == timeline.NoFrame {
		out = r.ed.LastFrame()
	}
	x0 := r.g.View.FrameToPosition(in)
	x1 := r.g.View.FrameToPosition(out)
	r.s.Add(Rect{X: x0, Y: RulerHeight, W: x1 - x0, H: r.opts.Height - RulerHeight, Fill: r.pal.InOutShade})
}

func (r *renderer) trackRow(row Row) {
	pal, s, t := r.pal, r.s, row.Track
	bg := pal.Track
	if t.ID%2 == 1 {
		bg = pal.TrackAlt
	}
	s.Add(Rect{X: r.header, Y: row.Y, W: r.opts.Width - r.header, H: row.H, Fill: bg})
	r.grid(row)

	muted := r.ed.IsTrackMuted(t.ID)
	s.Clip(r.header, row.Y, r.opts.Width-r.header, row.H, func() {
		for _, reg := range t.Regions {
			r.region(row, reg, muted)
		}
	})

	head := pal.Header
	if t.ID == r.ed.SelectedTrackID {
		head = pal.HeaderSelected
	}
	s.Add(Rect{X: 0, Y: row.Y, W: r.header, H: row.H, Fill: head})
	s.Clip(0, row.Y, r.header-SoloButtonOff-2, row.H, func() {
		s.Add(Text{X: 8, Y: row.Y + ButtonStrip/2, Size: 12, Text: t.Name, Color: pal.HeaderText})
		s.Add(Text{X: 8, Y: row.Y + ButtonStrip + 10, Size: 10, Text: string(t.Type), Color: WithAlpha(pal.HeaderText, 140)})
	})

	r.button(row.SoloButton(r.header), "S", t.Soloed, pal.SoloOn)
	r.button(row.MuteButton(r.header), "M", t.Muted, pal.MuteOn)
	s.Add(Line{X1: 0, Y1: row.Y + row.H, X2: r.opts.Width, Y2: row.Y + row.H, Width: 1, Color: pal.Separator})
}

func (r *renderer) button(b Rect, label string, on bool, onColor color.NRGBA) {
	b.Fill = r.pal.Button
	text := r.pal.ButtonText
	if on {
		b.Fill = onColor
		text = r.pal.Background
	}
	r.s.Add(b)
	r.s.Add(Text{X: b.X + b.W/2, Y: b.Y + b.H/2, Size: 11, Text: label, Color: text, Align: AlignMiddle})
}

func (r *renderer) grid(row Row) {
	step := TickStep(r.g.View.Zoom, r.ed.FPS)
	first, last := r.g.View.VisibleFrameRange()
	for f := first - first%step; f <= last; f += step {
		x := r.g.View.FrameToPosition(f)
		if x < r.header {
			continue
		}
		r.s.Add(Line{X1: x, Y1: row.Y, X2: x, Y2: row.Y + row.H, Width: 1, Color: r.pal.Grid})
	}
}

func (r *renderer) region(row Row, reg *timeline.Region, muted bool) {
	x0, x1 := r.g.RegionSpan(reg)
	if x1 < r.header || x0 > r.opts.Width {
		return
	}
	fill := r.pal.RegionEffects
	if row.Track.Type == timeline.TrackVideo {
		fill = r.pal.RegionVideo
	}
	fill = ParseHex(reg.Color, fill)
	if muted {
		fill = Blend(fill, r.pal.Background, 0.6)
	}

	box := Rect{X: x0, Y: row.Y + 2, W: x1 - x0, H: row.H - 4, Fill: fill}
	if reg.ID == r.ed.SelectedRegionID {
		box.Stroke = r.pal.RegionSelected
		box.StrokeWidth = 2
	}
	r.s.Add(box)

	label := reg.Label
	if label == "" && len(reg.Effects) > 0 {
		label = reg.Effects[0].Name
		if n := len(reg.Effects); n > 1 {
			label = fmt.Sprintf("%s +%d", label, n-1)
		}
	}
	if label != "" {
		r.s.Clip(x0, row.Y, x1-x0, row.H, func() {
			r.s.Add(Text{X: math.Max(x0, r.header) + 6, Y: row.Y + 14, Size: 11, Text: label, Color: r.pal.RegionText})
		})
	}
}

func (r *renderer) laneRow(row Row) {
	pal, s, l := r.pal, r.s, row.Lane
	laneColor := ParseHex(l.Color, pal.RegionEffects)

	bg := pal.Lane
	if r.opts.DrawMode {
		bg = Blend(bg, laneColor, 0.08)
	}
	s.Add(Rect{X: r.header, Y: row.Y, W: r.opts.Width - r.header, H: row.H, Fill: bg})
	r.grid(row)

	s.Clip(r.header, row.Y, r.opts.Width-r.header, row.H, func() {
		r.laneCurve(row, laneColor)
	})

	head := Blend(pal.Header, pal.Background, 0.3)
	if l.ID == r.ed.SelectedLaneID {
		head = pal.HeaderSelected
	}
	s.Add(Rect{X: 0, Y: row.Y, W: r.header, H: row.H, Fill: head})
	s.Add(Rect{X: 8, Y: row.Y + row.H/2 - 5, W: 10, H: 10, Fill: laneColor})
	s.Clip(0, row.Y, r.header, row.H, func() {
		s.Add(Text{X: 24, Y: row.Y + row.H/2, Size: 11, Text: r.laneTitle(l), Color: pal.HeaderText})
	})
	s.Add(Line{X1: 0, Y1: row.Y + row.H, X2: r.opts.Width, Y2: row.Y + row.H, Width: 1, Color: pal.Separator})
}

func (r *renderer) laneTitle(l *timeline.Lane) string {
	if reg := r.ed.Region(l.RegionID); reg != nil && l.EffectIndex >= 0 && l.EffectIndex < len(reg.Effects) {
		return reg.Effects[l.EffectIndex].Name + "." + l.ParamName
	}
	return l.ParamName
}

// laneCurve samples the lane once per visible pixel column over its span
// and marks every keyframe.
func (r *renderer) laneCurve(row Row, c color.NRGBA) {
	l := r.ed.Lane(row.Lane.ID)
	start, end, ok := LaneFrameSpan(r.ed, l)
	if !ok || len(l.Keyframes) == 0 {
		return
	}
	first, last := r.g.View.VisibleFrameRange()
	if start < first {
		start = first
	}
	if end > last {
		end = last
	}

	if start <= end {
		stride := 1
		if r.g.View.Zoom < 1 {
			stride = int(math.Ceil(1 / r.g.View.Zoom))
		}
		var pts []Point
		for f := start; ; f += stride {
			if f > end {
				f = end
			}
			v, _ := l.Sample(f)
			pts = append(pts, Point{X: r.g.View.FrameToPosition(f), Y: row.ValueToY(v)})
			if f == end {
				break
			}
		}
		r.s.Add(Polyline{Points: pts, Width: 1.5, Color: c})
	}

	for i, k := range l.Keyframes {
		x, y := r.g.BreakpointPos(row, k)
		if x < r.header-BreakpointRadius || x > r.opts.Width+BreakpointRadius {
			continue
		}
		dot := Circle{X: x, Y: y, R: BreakpointRadius - 2, Fill: c, Stroke: r.pal.Background, StrokeWidth: 1}
		if r.ed.IsBreakpointSelected(timeline.BreakpointRef{LaneID: l.ID, Index: i}) {
			dot.R = BreakpointRadius - 1
			dot.Fill = r.pal.BreakpointSelected
			dot.Stroke = c
			dot.StrokeWidth = 2
		}
		r.s.Add(dot)
	}
}

func (r *renderer) playhead() {
	x := r.g.View.FrameToPosition(r.ed.Playhead)
	if x < r.header || x > r.opts.Width {
		return
	}
	r.s.Add(Line{X1: x, Y1: 0, X2: x, Y2: r.opts.Height, Width: 1.5, Color: r.pal.Playhead})
	r.s.Add(Rect{X: x - 5, Y: 0, W: 10, H: 8, Fill: r.pal.Playhead})
}

// Timecode formats a frame as mm:ss:ff.
func Timecode(frame int, fps float64) string {
	rate := int(math.Max(1, math.Round(fps)))
	ff := frame % rate
	secs := frame / rate
	return fmt.Sprintf("%02d:%02d:%02d", secs/60, secs%60, ff)
}
