// Package scene defines the abstract drawing vocabulary the painter
// targets. Bindings to concrete rasterizers live outside the core; the
// painter depends only on the Sink interface.
package scene

// BlendMode specifies how a layer composites with the content below it.
// Only the modes the painter emits are enumerated; sinks may support more.
type BlendMode uint8

const (
	BlendSrcOver BlendMode = iota
	BlendMultiply
	BlendScreen
)

// FillRule selects the path fill rule.
type FillRule uint8

const (
	FillNonZero FillRule = iota
	FillEvenOdd
)

// StrokeStyle describes stroke geometry.
type StrokeStyle struct {
	Width      float64
	DashArray  []float64
	DashOffset float64
}

// GlyphStyle selects how glyphs are rendered.
type GlyphStyle uint8

const (
	GlyphFill GlyphStyle = iota
	GlyphStroke
)

// FontHandle gives a sink access to the raw font data a glyph run was
// shaped against. Implementations live in the text package.
type FontHandle interface {
	// FontData returns the raw font file bytes (TTF/OTF).
	FontData() []byte
	// FontIndex returns the face index within a collection, usually 0.
	FontIndex() int
}

// Glyph is one positioned glyph within a run. X and Y are in run-local
// coordinates with Y on the baseline.
type Glyph struct {
	ID   uint32
	X, Y float64
}

// GlyphRun carries everything a sink needs to draw shaped text.
type GlyphRun struct {
	Font      FontHandle
	Size      float64
	Hint      bool
	Style     GlyphStyle
	Brush     Brush
	Alpha     float64
	Transform Affine
	// GlyphTransform, when non-nil, applies per glyph (synthetic oblique).
	GlyphTransform *Affine
	Glyphs         []Glyph
}

// Sink is the vocabulary contract consumed by the painter and satisfied by
// a rasterizer outside the core.
type Sink interface {
	// Reset discards all accumulated content.
	Reset()

	// PushLayer begins a compositing layer. A nil clip means the layer
	// only groups for blend/alpha. Layers nest; every PushLayer must be
	// matched by PopLayer.
	PushLayer(blend BlendMode, alpha float64, transform Affine, clip Shape)

	// PopLayer ends the most recently pushed layer.
	PopLayer()

	// Stroke strokes the outline of a shape.
	Stroke(style StrokeStyle, transform Affine, brush Brush, brushTransform *Affine, shape Shape)

	// Fill fills the interior of a shape.
	Fill(rule FillRule, transform Affine, brush Brush, brushTransform *Affine, shape Shape)

	// DrawGlyphs draws a shaped glyph run.
	DrawGlyphs(run GlyphRun)

	// DrawBoxShadow draws a blurred rounded rectangle matching the outer
	// contour of the given rect. blurStdDev is the Gaussian standard
	// deviation derived from the CSS blur radius.
	DrawBoxShadow(transform Affine, rect Rect, color Color, radii CornerRadii, blurStdDev float64)
}
