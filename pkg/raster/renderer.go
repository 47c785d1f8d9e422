// Package raster rasterizes scenes on the CPU with fogleman/gg. It is
// the reference sink binding: a GPU binding would implement the same
// interface against a command encoder instead of an RGBA buffer.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"

	"vireo/pkg/scene"
)

// Renderer implements scene.Sink over an in-memory RGBA surface.
type Renderer struct {
	width, height int
	dc            *gg.Context
	layers        []layer
}

// layer is one open compositing group. Clip-only groups reuse the parent
// surface with a gg state push; alpha groups render offscreen and are
// composited on pop.
type layer struct {
	alpha     float64
	offscreen *gg.Context
	parent    *gg.Context
}

var _ scene.Sink = (*Renderer)(nil)

// NewRenderer creates a renderer with a white backing surface of the
// given pixel size.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{width: width, height: height}
	r.Reset()
	return r
}

// Image returns the rendered surface.
func (r *Renderer) Image() image.Image { return r.dc.Image() }

// SavePNG writes the surface to disk.
func (r *Renderer) SavePNG(path string) error { return r.dc.SavePNG(path) }

// Reset implements scene.Sink.
func (r *Renderer) Reset() {
	r.dc = gg.NewContext(r.width, r.height)
	r.dc.SetRGB(1, 1, 1)
	r.dc.Clear()
	r.layers = r.layers[:0]
}

// PushLayer implements scene.Sink.
func (r *Renderer) PushLayer(blend scene.BlendMode, alpha float64, transform scene.Affine, clip scene.Shape) {
	l := layer{alpha: alpha}
	if alpha < 1 {
		l.parent = r.dc
		l.offscreen = gg.NewContext(r.width, r.height)
		r.dc = l.offscreen
	} else {
		r.dc.Push()
	}
	if clip != nil {
		tracePath(r.dc, transform, clip)
		r.dc.Clip()
	}
	r.layers = append(r.layers, l)
}

// PopLayer implements scene.Sink.
func (r *Renderer) PopLayer() {
	if len(r.layers) == 0 {
		return
	}
	l := r.layers[len(r.layers)-1]
	r.layers = r.layers[:len(r.layers)-1]
	if l.offscreen == nil {
		r.dc.ResetClip()
		r.dc.Pop()
		return
	}
	// composite the offscreen group with uniform alpha
	r.dc = l.parent
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(clamp01(l.alpha) * 255))})
	dst, ok := r.dc.Image().(draw.Image)
	if !ok {
		return
	}
	draw.DrawMask(dst, dst.Bounds(), l.offscreen.Image(), image.Point{}, mask, image.Point{}, draw.Over)
}

// Stroke implements scene.Sink.
func (r *Renderer) Stroke(style scene.StrokeStyle, transform scene.Affine, brush scene.Brush, brushTransform *scene.Affine, shape scene.Shape) {
	tracePath(r.dc, transform, shape)
	r.setBrush(brush, brushTransform, 1)
	width := style.Width * scaleOf(transform)
	if width <= 0 {
		width = 1
	}
	r.dc.SetLineWidth(width)
	if len(style.DashArray) > 0 {
		r.dc.SetDash(style.DashArray...)
	} else {
		r.dc.SetDash()
	}
	r.dc.Stroke()
}

// Fill implements scene.Sink.
func (r *Renderer) Fill(rule scene.FillRule, transform scene.Affine, brush scene.Brush, brushTransform *scene.Affine, shape scene.Shape) {
	tracePath(r.dc, transform, shape)
	r.setBrush(brush, brushTransform, 1)
	if rule == scene.FillEvenOdd {
		r.dc.SetFillRuleEvenOdd()
	} else {
		r.dc.SetFillRuleWinding()
	}
	r.dc.Fill()
}

func (r *Renderer) setBrush(brush scene.Brush, brushTransform *scene.Affine, alpha float64) {
	switch b := brush.(type) {
	case scene.SolidBrush:
		c := b.Color
		r.dc.SetRGBA(c.R, c.G, c.B, c.A*alpha)
	case scene.GradientBrush:
		r.dc.SetFillStyle(newGradientPattern(b.Gradient, brushTransform))
		r.dc.SetStrokeStyle(newGradientPattern(b.Gradient, brushTransform))
	case scene.ImageBrush:
		r.dc.SetFillStyle(newImagePattern(b, brushTransform))
	case scene.CustomPaint:
		// opaque handle with no registered painter; leave a flat gray
		r.dc.SetRGBA(0.5, 0.5, 0.5, alpha)
	default:
		r.dc.SetRGBA(0, 0, 0, alpha)
	}
}

// tracePath builds the current gg path from a shape, mapping every point
// through the transform.
func tracePath(dc *gg.Context, tf scene.Affine, shape scene.Shape) {
	dc.NewSubPath()
	dc.ClearPath()
	switch s := shape.(type) {
	case scene.Rect:
		moveLine(dc, tf, [][2]float64{
			{s.X0, s.Y0}, {s.X1, s.Y0}, {s.X1, s.Y1}, {s.X0, s.Y1},
		})
		dc.ClosePath()
	case scene.RoundedRect:
		traceRoundedRect(dc, tf, s)
	case scene.Ellipse:
		traceEllipse(dc, tf, s.Rect)
	case scene.Line:
		x0, y0 := tf.Apply(s.X0, s.Y0)
		x1, y1 := tf.Apply(s.X1, s.Y1)
		dc.MoveTo(x0, y0)
		dc.LineTo(x1, y1)
	}
}

func moveLine(dc *gg.Context, tf scene.Affine, pts [][2]float64) {
	for i, p := range pts {
		x, y := tf.Apply(p[0], p[1])
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
}

// kappa approximates a quarter circle with one cubic Bezier.
const kappa = 0.5522847498

func traceRoundedRect(dc *gg.Context, tf scene.Affine, rr scene.RoundedRect) {
	x0, y0, x1, y1 := rr.Rect.X0, rr.Rect.Y0, rr.Rect.X1, rr.Rect.Y1
	w, h := x1-x0, y1-y0
	tl := clampRadius(rr.Radii.TopLeft, w, h)
	tr := clampRadius(rr.Radii.TopRight, w, h)
	br := clampRadius(rr.Radii.BottomRight, w, h)
	bl := clampRadius(rr.Radii.BottomLeft, w, h)

	move := func(x, y float64) { px, py := tf.Apply(x, y); dc.MoveTo(px, py) }
	line := func(x, y float64) { px, py := tf.Apply(x, y); dc.LineTo(px, py) }
	cube := func(cx1, cy1, cx2, cy2, x, y float64) {
		ax, ay := tf.Apply(cx1, cy1)
		bx, by := tf.Apply(cx2, cy2)
		px, py := tf.Apply(x, y)
		dc.CubicTo(ax, ay, bx, by, px, py)
	}

	move(x0+tl, y0)
	line(x1-tr, y0)
	if tr > 0 {
		cube(x1-tr+tr*kappa, y0, x1, y0+tr-tr*kappa, x1, y0+tr)
	}
	line(x1, y1-br)
	if br > 0 {
		cube(x1, y1-br+br*kappa, x1-br+br*kappa, y1, x1-br, y1)
	}
	line(x0+bl, y1)
	if bl > 0 {
		cube(x0+bl-bl*kappa, y1, x0, y1-bl+bl*kappa, x0, y1-bl)
	}
	line(x0, y0+tl)
	if tl > 0 {
		cube(x0, y0+tl-tl*kappa, x0+tl-tl*kappa, y0, x0+tl, y0)
	}
	dc.ClosePath()
}

func traceEllipse(dc *gg.Context, tf scene.Affine, r scene.Rect) {
	cx, cy := (r.X0+r.X1)/2, (r.Y0+r.Y1)/2
	rx, ry := (r.X1-r.X0)/2, (r.Y1-r.Y0)/2
	move := func(x, y float64) { px, py := tf.Apply(x, y); dc.MoveTo(px, py) }
	cube := func(cx1, cy1, cx2, cy2, x, y float64) {
		ax, ay := tf.Apply(cx1, cy1)
		bx, by := tf.Apply(cx2, cy2)
		px, py := tf.Apply(x, y)
		dc.CubicTo(ax, ay, bx, by, px, py)
	}
	kx, ky := rx*kappa, ry*kappa
	move(cx+rx, cy)
	cube(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	cube(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	cube(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	cube(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	dc.ClosePath()
}

func clampRadius(r, w, h float64) float64 {
	m := math.Min(w, h) / 2
	if r > m {
		return m
	}
	if r < 0 {
		return 0
	}
	return r
}

// scaleOf extracts the average scale factor of a transform, used to map
// stroke widths.
func scaleOf(tf scene.Affine) float64 {
	sx := math.Hypot(tf.A, tf.B)
	sy := math.Hypot(tf.C, tf.D)
	if sx == 0 && sy == 0 {
		return 1
	}
	if sy == 0 {
		return sx
	}
	if sx == 0 {
		return sy
	}
	return (sx + sy) / 2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
