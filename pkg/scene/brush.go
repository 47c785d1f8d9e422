package scene

import "image"

// Brush represents what to paint with. It is a sealed interface: only
// types in this package implement it, so sinks can switch exhaustively
// over the four brush kinds.
type Brush interface {
	brushMarker()
}

// SolidBrush paints a single color.
type SolidBrush struct {
	Color Color
}

func (SolidBrush) brushMarker() {}

// Solid returns a solid-color brush.
func Solid(c Color) SolidBrush {
	return SolidBrush{Color: c}
}

// GradientBrush paints with a gradient ramp.
type GradientBrush struct {
	Gradient Gradient
}

func (GradientBrush) brushMarker() {}

// ImageSampling selects how an image brush is sampled.
type ImageSampling uint8

const (
	SamplingBilinear ImageSampling = iota
	SamplingNearest
)

// ImageBrush paints with decoded pixels. Extend modes control tiling on
// each axis; background-repeat maps onto them.
type ImageBrush struct {
	Image    image.Image
	Sampling ImageSampling
	ExtendX  ExtendMode
	ExtendY  ExtendMode
}

func (ImageBrush) brushMarker() {}

// CustomPaint is an opaque paint-source handle, used for canvas-like
// replaced content whose pixels the embedder owns. The sink interprets
// the handle; the painter just forwards it.
type CustomPaint struct {
	Handle uint64
}

func (CustomPaint) brushMarker() {}
