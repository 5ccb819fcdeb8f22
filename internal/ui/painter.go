package ui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

// defaultTextSize is used for labels without an explicit size.
const defaultTextSize = 11

// paintSurface replays a scene display list as Gio operations.
func paintSurface(gtx layout.Context, shaper *text.Shaper, s *scene.Surface) {
	bounds := image.Pt(int(math.Ceil(s.Width)), int(math.Ceil(s.Height)))
	paint.FillShape(gtx.Ops, s.Background, clip.Rect{Max: bounds}.Op())

	var clips []clip.Stack
	for _, it := range s.Items {
		switch it := it.(type) {
		case scene.Rect:
			renderRect(gtx, it)
		case scene.Line:
			renderPolyline(gtx, []scene.Point{{X: it.X1, Y: it.Y1}, {X: it.X2, Y: it.Y2}}, it.Width, it.Color)
		case scene.Polyline:
			renderPolyline(gtx, it.Points, it.Width, it.Color)
		case scene.Circle:
			renderCircle(gtx, it)
		case scene.Text:
			renderText(gtx, shaper, it)
		case scene.PushClip:
			r := image.Rect(
				int(math.Floor(it.X)), int(math.Floor(it.Y)),
				int(math.Ceil(it.X+it.W)), int(math.Ceil(it.Y+it.H)),
			)
			clips = append(clips, clip.Rect(r).Push(gtx.Ops))
		case scene.PopClip:
			if n := len(clips); n > 0 {
				clips[n-1].Pop()
				clips = clips[:n-1]
			}
		}
	}
	// Unbalanced clips would leak into the rest of the frame.
	for i := len(clips) - 1; i >= 0; i-- {
		clips[i].Pop()
	}
}

func pt(x, y float64) f32.Point {
	return f32.Pt(float32(x), float32(y))
}

func rectPath(ops *op.Ops, x, y, w, h float64) clip.PathSpec {
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(pt(x, y))
	path.LineTo(pt(x+w, y))
	path.LineTo(pt(x+w, y+h))
	path.LineTo(pt(x, y+h))
	path.Close()
	return path.End()
}

func renderRect(gtx layout.Context, r scene.Rect) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	if r.Fill.A != 0 {
		paint.FillShape(gtx.Ops, r.Fill, clip.Outline{Path: rectPath(gtx.Ops, r.X, r.Y, r.W, r.H)}.Op())
	}
	if r.Stroke.A != 0 && r.StrokeWidth > 0 {
		// Inset by half the width so the outline stays inside the rectangle.
		hw := r.StrokeWidth / 2
		stroke := clip.Stroke{
			Path:  rectPath(gtx.Ops, r.X+hw, r.Y+hw, r.W-r.StrokeWidth, r.H-r.StrokeWidth),
			Width: float32(r.StrokeWidth),
		}.Op()
		paint.FillShape(gtx.Ops, r.Stroke, stroke)
	}
}

func renderPolyline(gtx layout.Context, pts []scene.Point, width float64, c color.NRGBA) {
	if len(pts) < 2 || c.A == 0 {
		return
	}
	if width <= 0 {
		width = 1
	}
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(pt(pts[0].X, pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(pt(p.X, p.Y))
	}
	stroke := clip.Stroke{
		Path:  path.End(),
		Width: float32(width),
	}.Op()
	paint.FillShape(gtx.Ops, c, stroke)
}

func renderCircle(gtx layout.Context, c scene.Circle) {
	if c.R <= 0 {
		return
	}
	stack := op.Affine(f32.Affine2D{}.Offset(pt(c.X, c.Y))).Push(gtx.Ops)
	defer stack.Pop()

	r := int(math.Round(c.R))
	if r < 1 {
		r = 1
	}
	ellipse := clip.Ellipse(image.Rect(-r, -r, r, r))
	if c.Fill.A != 0 {
		paint.FillShape(gtx.Ops, c.Fill, ellipse.Op(gtx.Ops))
	}
	if c.Stroke.A != 0 && c.StrokeWidth > 0 {
		stroke := clip.Stroke{
			Path:  ellipse.Path(gtx.Ops),
			Width: float32(c.StrokeWidth),
		}.Op()
		paint.FillShape(gtx.Ops, c.Stroke, stroke)
	}
}

func renderText(gtx layout.Context, shaper *text.Shaper, t scene.Text) {
	if t.Text == "" || t.Color.A == 0 || shaper == nil {
		return
	}
	size := t.Size
	if size <= 0 {
		size = defaultTextSize
	}

	mat := op.Record(gtx.Ops)
	paint.ColorOp{Color: t.Color}.Add(gtx.Ops)
	material := mat.Stop()

	lgtx := gtx
	lgtx.Constraints = layout.Constraints{Max: image.Pt(1<<16, 1<<16)}
	macro := op.Record(gtx.Ops)
	label := widget.Label{Alignment: text.Start, MaxLines: 1}
	dims := label.Layout(lgtx, shaper, font.Font{}, unit.Sp(size), t.Text, material)
	call := macro.Stop()

	x := t.X
	switch t.Align {
	case scene.AlignMiddle:
		x -= float64(dims.Size.X) / 2
	case scene.AlignEnd:
		x -= float64(dims.Size.X)
	}
	y := t.Y - float64(dims.Size.Y)/2

	stack := op.Offset(image.Pt(int(math.Round(x)), int(math.Round(y)))).Push(gtx.Ops)
	call.Add(gtx.Ops)
	stack.Pop()
}
