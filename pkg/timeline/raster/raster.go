// Package raster paints a scene.Surface into an in-memory image without a
// GPU or window, for snapshots, thumbnails and the HTTP preview.
package raster

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

// circleSegments is the polygon resolution used for circles.
const circleSegments = 32

// painter replays a display list onto an RGBA image. Every primitive is
// rasterized into a mask the size of the current clip rectangle, so
// clipping is exact and no pixel outside the clip is touched.
type painter struct {
	dst   *image.RGBA
	clips []image.Rectangle
	z     vector.Rasterizer
	face  font.Face
}

// Rasterize paints s onto a new image of the surface size.
func Rasterize(s *scene.Surface) *image.RGBA {
	w := int(math.Ceil(s.Width))
	h := int(math.Ceil(s.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	p := &painter{
		dst:  image.NewRGBA(image.Rect(0, 0, w, h)),
		face: basicfont.Face7x13,
	}
	p.clips = []image.Rectangle{p.dst.Bounds()}
	p.fillRect(0, 0, float64(w), float64(h), s.Background)

	for _, it := range s.Items {
		switch it := it.(type) {
		case scene.Rect:
			p.rect(it)
		case scene.Line:
			p.line(it.X1, it.Y1, it.X2, it.Y2, it.Width, it.Color)
		case scene.Polyline:
			for i := 1; i < len(it.Points); i++ {
				a, b := it.Points[i-1], it.Points[i]
				p.line(a.X, a.Y, b.X, b.Y, it.Width, it.Color)
			}
		case scene.Circle:
			p.circle(it)
		case scene.Text:
			p.text(it)
		case scene.PushClip:
			r := image.Rect(
				int(math.Floor(it.X)), int(math.Floor(it.Y)),
				int(math.Ceil(it.X+it.W)), int(math.Ceil(it.Y+it.H)),
			)
			p.clips = append(p.clips, r.Intersect(p.clip()))
		case scene.PopClip:
			if len(p.clips) > 1 {
				p.clips = p.clips[:len(p.clips)-1]
			}
		}
	}
	return p.dst
}

func (p *painter) clip() image.Rectangle {
	return p.clips[len(p.clips)-1]
}

// begin resets the rasterizer to the clip rectangle. It reports false when
// the clip is empty.
func (p *painter) begin() (image.Rectangle, bool) {
	r := p.clip()
	if r.Empty() {
		return r, false
	}
	p.z.Reset(r.Dx(), r.Dy())
	return r, true
}

// poly adds a closed polygon in surface coordinates.
func (p *painter) poly(r image.Rectangle, pts ...[2]float64) {
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	p.z.MoveTo(float32(pts[0][0]-ox), float32(pts[0][1]-oy))
	for _, pt := range pts[1:] {
		p.z.LineTo(float32(pt[0]-ox), float32(pt[1]-oy))
	}
	p.z.ClosePath()
}

func (p *painter) paint(r image.Rectangle, c color.NRGBA) {
	p.z.Draw(p.dst, r, image.NewUniform(c), image.Point{})
}

func (p *painter) fillRect(x, y, w, h float64, c color.NRGBA) {
	if c.A == 0 || w <= 0 || h <= 0 {
		return
	}
	r, ok := p.begin()
	if !ok {
		return
	}
	p.poly(r, [2]float64{x, y}, [2]float64{x + w, y}, [2]float64{x + w, y + h}, [2]float64{x, y + h})
	p.paint(r, c)
}

func (p *painter) rect(it scene.Rect) {
	p.fillRect(it.X, it.Y, it.W, it.H, it.Fill)
	if it.Stroke.A == 0 || it.StrokeWidth <= 0 {
		return
	}
	sw := math.Min(it.StrokeWidth, math.Min(it.W, it.H)/2)
	p.fillRect(it.X, it.Y, it.W, sw, it.Stroke)
	p.fillRect(it.X, it.Y+it.H-sw, it.W, sw, it.Stroke)
	p.fillRect(it.X, it.Y+sw, sw, it.H-2*sw, it.Stroke)
	p.fillRect(it.X+it.W-sw, it.Y+sw, sw, it.H-2*sw, it.Stroke)
}

// line strokes a segment as a quad of the given width.
func (p *painter) line(x1, y1, x2, y2, width float64, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	dx, dy := x2-x1, y2-y1
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	if width <= 0 {
		width = 1
	}
	// unit normal scaled to half the width
	nx, ny := -dy/n*width/2, dx/n*width/2
	r, ok := p.begin()
	if !ok {
		return
	}
	p.poly(r,
		[2]float64{x1 + nx, y1 + ny}, [2]float64{x2 + nx, y2 + ny},
		[2]float64{x2 - nx, y2 - ny}, [2]float64{x1 - nx, y1 - ny},
	)
	p.paint(r, c)
}

func ring(cx, cy, radius float64, reverse bool) [][2]float64 {
	pts := make([][2]float64, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		if reverse {
			a = -a
		}
		pts[i] = [2]float64{cx + radius*math.Cos(a), cy + radius*math.Sin(a)}
	}
	return pts
}

func (p *painter) circle(it scene.Circle) {
	if it.R <= 0 {
		return
	}
	if it.Fill.A != 0 {
		if r, ok := p.begin(); ok {
			p.poly(r, ring(it.X, it.Y, it.R, false)...)
			p.paint(r, it.Fill)
		}
	}
	if it.Stroke.A != 0 && it.StrokeWidth > 0 {
		if r, ok := p.begin(); ok {
			// Opposite windings cancel inside the inner ring.
			p.poly(r, ring(it.X, it.Y, it.R+it.StrokeWidth/2, false)...)
			if inner := it.R - it.StrokeWidth/2; inner > 0 {
				p.poly(r, ring(it.X, it.Y, inner, true)...)
			}
			p.paint(r, it.Stroke)
		}
	}
}

// text draws a label with the fixed bitmap face. Size is ignored.
func (p *painter) text(it scene.Text) {
	if it.Text == "" || it.Color.A == 0 {
		return
	}
	r := p.clip()
	if r.Empty() {
		return
	}
	width := font.MeasureString(p.face, it.Text).Round()
	x := int(math.Round(it.X))
	switch it.Align {
	case scene.AlignMiddle:
		x -= width / 2
	case scene.AlignEnd:
		x -= width
	}
	m := p.face.Metrics()
	baseline := int(math.Round(it.Y)) + (m.Ascent.Round()-m.Descent.Round())/2

	d := &font.Drawer{
		Dst:  p.dst.SubImage(r).(*image.RGBA),
		Src:  image.NewUniform(it.Color),
		Face: p.face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(it.Text)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// Save writes img to path; the format follows the extension.
func Save(img image.Image, path string) error {
	return imaging.Save(img, path)
}

// Thumbnail scales img to width pixels, keeping the aspect ratio.
func Thumbnail(img image.Image, width int) *image.NRGBA {
	if width <= 0 {
		width = 1
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}
