package text

// Glyph is one positioned glyph in a shaped run. X and Y are pen-relative
// offsets within the run; Cluster is the rune index in the run's text
// that produced the glyph.
type Glyph struct {
	ID       uint32
	Cluster  int
	X, Y     float64
	XAdvance float64
}

// ShapedRun is the output of shaping one text run at one size.
type ShapedRun struct {
	Glyphs  []Glyph
	Advance float64
}

// Shaper turns text into positioned glyphs. The builtin implementation
// is advance-only; a HarfBuzz-backed implementation adds kerning,
// ligatures and complex-script support.
type Shaper interface {
	Shape(text string, src *Source, size float64, rtl bool) ShapedRun
}

// BuiltinShaper is the default shaper: one glyph per rune positioned by
// its advance width. No kerning, no ligatures. This keeps the engine
// dependency-light while producing usable metrics for Latin text.
type BuiltinShaper struct{}

// Shape implements Shaper.
func (BuiltinShaper) Shape(text string, src *Source, size float64, rtl bool) ShapedRun {
	if text == "" || src == nil {
		return ShapedRun{}
	}
	var run ShapedRun
	x := 0.0
	cluster := 0
	for _, r := range text {
		gid := src.GlyphIndex(r)
		adv := src.GlyphAdvance(gid, size)
		run.Glyphs = append(run.Glyphs, Glyph{
			ID:       gid,
			Cluster:  cluster,
			X:        x,
			XAdvance: adv,
		})
		x += adv
		cluster++
	}
	run.Advance = x
	if rtl {
		// Reverse visual order; pen positions restart from zero.
		n := len(run.Glyphs)
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			run.Glyphs[i], run.Glyphs[j] = run.Glyphs[j], run.Glyphs[i]
		}
		x = 0.0
		for i := range run.Glyphs {
			run.Glyphs[i].X = x
			x += run.Glyphs[i].XAdvance
		}
	}
	return run
}
