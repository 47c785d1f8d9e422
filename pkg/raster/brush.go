package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"vireo/pkg/scene"
)

// gradientPattern samples a scene gradient per pixel. gg calls ColorAt
// in device coordinates; the brush transform maps them back into the
// gradient's own space.
type gradientPattern struct {
	g   scene.Gradient
	inv scene.Affine
}

var _ gg.Pattern = gradientPattern{}

func newGradientPattern(g scene.Gradient, brushTransform *scene.Affine) gradientPattern {
	inv := scene.Identity()
	if brushTransform != nil {
		inv = invert(*brushTransform)
	}
	return gradientPattern{g: g, inv: inv}
}

func (p gradientPattern) ColorAt(x, y int) color.Color {
	fx, fy := p.inv.Apply(float64(x)+0.5, float64(y)+0.5)
	var t float64
	switch p.g.Kind {
	case scene.GradientLinear:
		dx, dy := p.g.EndX-p.g.StartX, p.g.EndY-p.g.StartY
		den := dx*dx + dy*dy
		if den == 0 {
			t = 0
		} else {
			t = ((fx-p.g.StartX)*dx + (fy-p.g.StartY)*dy) / den
		}
	case scene.GradientRadial:
		if p.g.Radius > 0 {
			t = math.Hypot(fx-p.g.CenterX, fy-p.g.CenterY) / p.g.Radius
		}
	case scene.GradientConic:
		angle := math.Atan2(fx-p.g.CenterX, -(fy - p.g.CenterY))
		t = angle - p.g.Angle
		for t < 0 {
			t += 2 * math.Pi
		}
		t /= 2 * math.Pi
	}
	return toNRGBA(p.g.ColorAt(t))
}

// imagePattern samples decoded image pixels through the inverse brush
// transform, honoring the per-axis extend modes.
type imagePattern struct {
	img     image.Image
	inv     scene.Affine
	extendX scene.ExtendMode
	extendY scene.ExtendMode
}

var _ gg.Pattern = imagePattern{}

func newImagePattern(b scene.ImageBrush, brushTransform *scene.Affine) imagePattern {
	inv := scene.Identity()
	if brushTransform != nil {
		inv = invert(*brushTransform)
	}
	return imagePattern{img: b.Image, inv: inv, extendX: b.ExtendX, extendY: b.ExtendY}
}

func (p imagePattern) ColorAt(x, y int) color.Color {
	if p.img == nil {
		return color.Transparent
	}
	fx, fy := p.inv.Apply(float64(x)+0.5, float64(y)+0.5)
	b := p.img.Bounds()
	px, ok := extendCoord(int(math.Floor(fx)), b.Dx(), p.extendX)
	if !ok {
		return color.Transparent
	}
	py, ok := extendCoord(int(math.Floor(fy)), b.Dy(), p.extendY)
	if !ok {
		return color.Transparent
	}
	return p.img.At(b.Min.X+px, b.Min.Y+py)
}

func extendCoord(v, n int, mode scene.ExtendMode) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	switch mode {
	case scene.ExtendRepeat:
		v %= n
		if v < 0 {
			v += n
		}
		return v, true
	case scene.ExtendReflect:
		period := 2 * n
		v %= period
		if v < 0 {
			v += period
		}
		if v >= n {
			v = period - v - 1
		}
		return v, true
	default:
		if v < 0 {
			v = 0
		}
		if v >= n {
			v = n - 1
		}
		return v, true
	}
}

func toNRGBA(c scene.Color) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(clamp01(c.R) * 255)),
		G: uint8(math.Round(clamp01(c.G) * 255)),
		B: uint8(math.Round(clamp01(c.B) * 255)),
		A: uint8(math.Round(clamp01(c.A) * 255)),
	}
}

// invert returns the inverse of an affine transform; singular transforms
// invert to identity.
func invert(t scene.Affine) scene.Affine {
	det := t.A*t.D - t.B*t.C
	if det == 0 {
		return scene.Identity()
	}
	inv := scene.Affine{
		A: t.D / det,
		B: -t.B / det,
		C: -t.C / det,
		D: t.A / det,
	}
	inv.E = -(inv.A*t.E + inv.C*t.F)
	inv.F = -(inv.B*t.E + inv.D*t.F)
	return inv
}
