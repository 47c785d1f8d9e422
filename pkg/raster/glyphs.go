package raster

import (
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"vireo/pkg/scene"
)

// fontCache re-parses font data handed over the sink boundary. Keyed by
// the handle, so repeated runs against the same source parse once.
var fontCache sync.Map // scene.FontHandle -> *sfnt.Font

func fontFor(h scene.FontHandle) *sfnt.Font {
	if f, ok := fontCache.Load(h); ok {
		return f.(*sfnt.Font)
	}
	parsed, err := sfnt.Parse(h.FontData())
	if err != nil {
		return nil
	}
	fontCache.Store(h, parsed)
	return parsed
}

// DrawGlyphs implements scene.Sink: glyph outlines are loaded from the
// font and filled as paths.
func (r *Renderer) DrawGlyphs(run scene.GlyphRun) {
	if run.Font == nil || len(run.Glyphs) == 0 {
		return
	}
	f := fontFor(run.Font)
	if f == nil {
		return
	}
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(run.Size * 64)

	r.dc.ClearPath()
	for _, g := range run.Glyphs {
		segs, err := f.LoadGlyph(&buf, sfnt.GlyphIndex(g.ID), ppem, nil)
		if err != nil {
			continue
		}
		r.traceGlyph(run.Transform, segs, g.X, g.Y)
	}
	r.setBrush(run.Brush, nil, run.Alpha)
	if run.Style == scene.GlyphStroke {
		r.dc.Stroke()
	} else {
		r.dc.Fill()
	}
}

// traceGlyph appends one glyph outline to the current path. Segment
// coordinates are 26.6 fixed point, baseline-relative.
func (r *Renderer) traceGlyph(tf scene.Affine, segs sfnt.Segments, penX, penY float64) {
	dc := r.dc
	pt := func(p fixed.Point26_6) (float64, float64) {
		return tf.Apply(penX+float64(p.X)/64, penY+float64(p.Y)/64)
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := pt(seg.Args[0])
			dc.NewSubPath()
			dc.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			dc.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			dc.QuadraticTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	dc.ClosePath()
}
