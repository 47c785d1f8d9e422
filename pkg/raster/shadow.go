package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"

	"vireo/pkg/scene"
)

// DrawBoxShadow implements scene.Sink. The shadow silhouette is drawn
// into an alpha mask and blurred with three box passes, which is within
// a few percent of a true Gaussian.
func (r *Renderer) DrawBoxShadow(transform scene.Affine, rect scene.Rect, col scene.Color, radii scene.CornerRadii, blurStdDev float64) {
	if blurStdDev <= 0 {
		var shape scene.Shape = rect
		if !radii.IsZero() {
			shape = scene.RoundedRect{Rect: rect, Radii: radii}
		}
		r.Fill(scene.FillNonZero, transform, scene.Solid(col), nil, shape)
		return
	}

	radius := int(math.Ceil(blurStdDev * scaleOf(transform)))
	pad := radius * 3

	// device-space bounds of the silhouette, padded for the blur support
	x0, y0 := transform.Apply(rect.X0, rect.Y0)
	x1, y1 := transform.Apply(rect.X1, rect.Y1)
	minX := int(math.Floor(math.Min(x0, x1))) - pad
	minY := int(math.Floor(math.Min(y0, y1))) - pad
	maxX := int(math.Ceil(math.Max(x0, x1))) + pad
	maxY := int(math.Ceil(math.Max(y0, y1))) + pad
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return
	}

	mdc := gg.NewContext(w, h)
	local := scene.Translate(float64(-minX), float64(-minY)).Mul(transform)
	var shape scene.Shape = rect
	if !radii.IsZero() {
		shape = scene.RoundedRect{Rect: rect, Radii: radii}
	}
	tracePath(mdc, local, shape)
	mdc.SetRGB(1, 1, 1)
	mdc.Fill()

	mask := alphaOf(mdc.Image())
	for i := 0; i < 3; i++ {
		boxBlurAlpha(mask, radius)
	}

	tint := image.NewUniform(toNRGBA(col))
	dst, ok := r.dc.Image().(draw.Image)
	if !ok {
		return
	}
	draw.DrawMask(dst, image.Rect(minX, minY, maxX, maxY), tint, image.Point{}, mask, image.Point{}, draw.Over)
}

func alphaOf(img image.Image) *image.Alpha {
	b := img.Bounds()
	out := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			out.SetAlpha(x, y, color.Alpha{A: uint8(a >> 8)})
		}
	}
	return out
}

// boxBlurAlpha runs one horizontal and one vertical box pass of the
// given radius over the mask, in place.
func boxBlurAlpha(m *image.Alpha, radius int) {
	if radius <= 0 {
		return
	}
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	window := 2*radius + 1
	tmp := make([]uint8, w*h)

	// horizontal
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		sum := 0
		for x := -radius; x <= radius; x++ {
			sum += int(rowAt(row, x, w))
		}
		for x := 0; x < w; x++ {
			tmp[y*w+x] = uint8(sum / window)
			sum += int(rowAt(row, x+radius+1, w)) - int(rowAt(row, x-radius, w))
		}
	}
	// vertical
	for x := 0; x < w; x++ {
		sum := 0
		for y := -radius; y <= radius; y++ {
			sum += int(colAt(tmp, x, y, w, h))
		}
		for y := 0; y < h; y++ {
			m.Pix[y*m.Stride+x] = uint8(sum / window)
			sum += int(colAt(tmp, x, y+radius+1, w, h)) - int(colAt(tmp, x, y-radius, w, h))
		}
	}
}

func rowAt(row []uint8, x, w int) uint8 {
	if x < 0 || x >= w {
		return 0
	}
	return row[x]
}

func colAt(pix []uint8, x, y, w, h int) uint8 {
	if y < 0 || y >= h {
		return 0
	}
	return pix[y*w+x]
}
