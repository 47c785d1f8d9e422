package paint

import (
	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/layout"
	"vireo/pkg/scene"
	"vireo/pkg/text"
)

// paintInlineContent draws the cached line boxes of an inline root:
// glyph runs for text fragments plus their decorations. Atomic inline
// boxes are regular children and paint through the normal walk.
func (w *walker) paintInlineContent(node *dom.Node, style *css.Style, dx, dy float64) {
	ic := layout.ContentFor(node)
	if ic == nil {
		return
	}
	originX := node.Layout.ContentX() + dx
	originY := node.Layout.ContentY() + dy
	for _, run := range ic.Runs {
		for _, line := range run.Layout.Lines {
			baseY := originY + run.Y + line.Y + line.Baseline
			for _, frag := range line.Fragments {
				if frag.Kind != layout.FragmentText {
					continue
				}
				w.paintTextFragment(frag, originX+frag.X, baseY)
			}
		}
	}
}

func (w *walker) paintTextFragment(frag layout.Fragment, penX, penY float64) {
	brush := scene.Solid(sceneColor(frag.Style.Color))
	if frag.Style.Source != nil && len(frag.Run.Glyphs) > 0 {
		glyphs := make([]scene.Glyph, len(frag.Run.Glyphs))
		for i, g := range frag.Run.Glyphs {
			glyphs[i] = scene.Glyph{ID: g.ID, X: penX + g.X, Y: penY + g.Y}
		}
		w.sink.DrawGlyphs(scene.GlyphRun{
			Font:      frag.Style.Source,
			Size:      frag.Style.Size,
			Style:     scene.GlyphFill,
			Brush:     brush,
			Alpha:     1,
			Transform: w.tf,
			Glyphs:    glyphs,
		})
		w.stats.GlyphRuns++
	}

	adv := frag.Run.Advance
	if frag.Style.Underline {
		y := penY + frag.Style.Size*0.1
		w.fill(scene.NewRect(penX, y, adv, decorationThickness(frag.Style.Size)), brush)
	}
	if frag.Style.Strike {
		y := penY - frag.Style.Size*0.3
		w.fill(scene.NewRect(penX, y, adv, decorationThickness(frag.Style.Size)), brush)
	}
}

func decorationThickness(size float64) float64 {
	t := size / 14
	if t < 1 {
		t = 1
	}
	return t
}

// paintReplaced draws replaced content inside the content box: images
// with object-fit, canvas paint handles, checkbox marks and text-input
// editors.
func (w *walker) paintReplaced(node *dom.Node, rc *dom.ReplacedContent, style *css.Style, box scene.Rect) {
	l := node.Layout
	content := scene.Rect{
		X0: box.X0 + l.Border.Left + l.Padding.Left,
		Y0: box.Y0 + l.Border.Top + l.Padding.Top,
		X1: box.X1 - l.Border.Right - l.Padding.Right,
		Y1: box.Y1 - l.Border.Bottom - l.Padding.Bottom,
	}
	switch rc.Kind {
	case dom.ReplacedImage:
		w.paintImage(rc, style, content)
	case dom.ReplacedCanvas:
		w.fill(content, scene.CustomPaint{Handle: rc.PaintHandle})
	case dom.ReplacedCheckbox:
		w.paintCheckbox(rc, style, content)
	case dom.ReplacedTextInput:
		w.paintTextInput(node, rc, style, content)
	}
}

func (w *walker) paintImage(rc *dom.ReplacedContent, style *css.Style, content scene.Rect) {
	if rc.Image == nil {
		return
	}
	ox, oy, ow, oh := layout.ObjectFitRect(style.GetObjectFit(),
		content.Width(), content.Height(), rc.IntrinsicWidth, rc.IntrinsicHeight)
	dest := scene.NewRect(content.X0+ox, content.Y0+oy, ow, oh)

	// map image pixels onto the destination rect
	var bt *scene.Affine
	if rc.IntrinsicWidth > 0 && rc.IntrinsicHeight > 0 {
		m := scene.Translate(dest.X0, dest.Y0).Mul(
			scene.Scale(ow/rc.IntrinsicWidth, oh/rc.IntrinsicHeight))
		bt = &m
	}

	shape := scene.Shape(dest)
	clipped := false
	overflowing := dest.X0 < content.X0 || dest.Y0 < content.Y0 ||
		dest.X1 > content.X1 || dest.Y1 > content.Y1
	if overflowing {
		clipped = w.pushClip(content)
	}
	w.sink.Fill(scene.FillNonZero, w.tf, scene.ImageBrush{Image: rc.Image}, bt, shape)
	if clipped {
		w.popClip()
	}
}

func (w *walker) paintCheckbox(rc *dom.ReplacedContent, style *css.Style, content scene.Rect) {
	accent := sceneColor(style.TextColor())
	w.sink.Stroke(scene.StrokeStyle{Width: 1}, w.tf, scene.Solid(accent), nil, content)
	if !rc.Checked {
		return
	}
	cw, ch := content.Width(), content.Height()
	stroke := scene.StrokeStyle{Width: maxFloat(cw/8, 1)}
	w.sink.Stroke(stroke, w.tf, scene.Solid(accent), nil, scene.Line{
		X0: content.X0 + cw*0.2, Y0: content.Y0 + ch*0.55,
		X1: content.X0 + cw*0.45, Y1: content.Y0 + ch*0.8,
	})
	w.sink.Stroke(stroke, w.tf, scene.Solid(accent), nil, scene.Line{
		X0: content.X0 + cw*0.45, Y0: content.Y0 + ch*0.8,
		X1: content.X0 + cw*0.8, Y1: content.Y0 + ch*0.25,
	})
}

// paintTextInput draws the committed value with any preedit spliced in
// at the caret, underlining the preedit, plus a caret when focused.
func (w *walker) paintTextInput(node *dom.Node, rc *dom.ReplacedContent, style *css.Style, content scene.Rect) {
	ed := rc.Editor
	if ed == nil {
		return
	}
	rem := w.painter.Device.RootFont
	size := style.FontSize(rem)
	color := sceneColor(style.TextColor())
	src := w.resolveFace(style)

	before := ed.Value[:clampIdx(ed.SelStart, len(ed.Value))]
	after := ed.Value[clampIdx(ed.SelEnd, len(ed.Value)):]

	baseline := content.Y0 + (content.Height()+size*0.6)/2
	x := content.X0

	x = w.drawEditorRun(before, src, size, color, x, baseline, false)
	x = w.drawEditorRun(ed.Compose, src, size, color, x, baseline, true)
	caretX := x
	w.drawEditorRun(after, src, size, color, x, baseline, false)

	if node.HasFlag(dom.FlagFocus) {
		w.fill(scene.NewRect(caretX, baseline-size*0.8, 1, size), scene.Solid(color))
	}
}

// drawEditorRun shapes and draws one editor segment, returning the new
// pen position. Underline marks IME preedit text.
func (w *walker) drawEditorRun(s string, src *text.Source, size float64, color scene.Color, x, baseline float64, underline bool) float64 {
	if s == "" {
		return x
	}
	var run text.ShapedRun
	if src != nil {
		run = w.shaper().Shape(s, src, size, false)
	} else {
		n := 0
		for range s {
			n++
		}
		run = text.ShapedRun{Advance: float64(n) * size * 0.5}
	}
	if src != nil && len(run.Glyphs) > 0 {
		glyphs := make([]scene.Glyph, len(run.Glyphs))
		for i, g := range run.Glyphs {
			glyphs[i] = scene.Glyph{ID: g.ID, X: x + g.X, Y: baseline + g.Y}
		}
		w.sink.DrawGlyphs(scene.GlyphRun{
			Font:      src,
			Size:      size,
			Style:     scene.GlyphFill,
			Brush:     scene.Solid(color),
			Alpha:     1,
			Transform: w.tf,
			Glyphs:    glyphs,
		})
		w.stats.GlyphRuns++
	}
	if underline {
		w.fill(scene.NewRect(x, baseline+size*0.1, run.Advance, 1), scene.Solid(color))
	}
	return x + run.Advance
}

func (w *walker) resolveFace(style *css.Style) *text.Source {
	if w.painter.Fonts == nil || !w.painter.Fonts.HasFonts() {
		return nil
	}
	return w.painter.Fonts.Resolve(style.FontFamilies(), style.FontWeight(), style.IsItalic())
}

func (w *walker) shaper() text.Shaper {
	if w.painter.Fonts != nil {
		return w.painter.Fonts.Shaper()
	}
	return text.BuiltinShaper{}
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
