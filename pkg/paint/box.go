package paint

import (
	"math"
	"strings"

	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/scene"
)

// paintBoxDecoration emits the box's own visuals in CSS order: outer
// shadows, background color, background gradient, replaced content,
// then borders.
func (w *walker) paintBoxDecoration(node *dom.Node, style *css.Style, box scene.Rect, radii scene.CornerRadii) {
	w.paintOuterShadows(style, box, radii)

	if v, ok := style.Get("background-color"); ok {
		if c, ok := css.ParseColor(v); ok && c.A > 0 {
			w.fill(clipShape(box, radii), scene.Solid(sceneColor(c)))
		}
	}
	if v, ok := style.Get("background-image"); ok {
		if g, ok := css.ParseGradient(v); ok {
			w.fillGradient(g, box, radii)
		}
	}

	if el := node.Element(); el != nil && el.Replaced != nil {
		w.paintReplaced(node, el.Replaced, style, box)
	}

	w.paintBorders(node, style, box)
}

func (w *walker) fill(shape scene.Shape, brush scene.Brush) {
	w.sink.Fill(scene.FillNonZero, w.tf, brush, nil, shape)
}

// fillGradient maps a parsed CSS gradient onto the box geometry and
// fills with a first-class gradient brush.
func (w *walker) fillGradient(g *css.Gradient, box scene.Rect, radii scene.CornerRadii) {
	sg := scene.Gradient{Extend: scene.ExtendPad}
	if g.Repeating {
		sg.Extend = scene.ExtendRepeat
	}

	wd, ht := box.Width(), box.Height()
	cx, cy := box.X0+wd/2, box.Y0+ht/2
	var lineLength float64
	switch g.Kind {
	case css.GradientLinear:
		sg.Kind = scene.GradientLinear
		// CSS angle: 0 points up, clockwise positive
		sin, cos := math.Sin(g.Angle), math.Cos(g.Angle)
		lineLength = math.Abs(wd*sin) + math.Abs(ht*cos)
		half := lineLength / 2
		sg.StartX, sg.StartY = cx-sin*half, cy+cos*half
		sg.EndX, sg.EndY = cx+sin*half, cy-cos*half
	case css.GradientRadial:
		sg.Kind = scene.GradientRadial
		sg.CenterX, sg.CenterY = cx, cy
		sg.Radius = math.Hypot(wd/2, ht/2)
		lineLength = sg.Radius
	case css.GradientConic:
		sg.Kind = scene.GradientConic
		sg.CenterX, sg.CenterY = cx, cy
		sg.Angle = g.Angle
		lineLength = 2 * math.Pi
	}

	for _, stop := range g.ResolveStops(lineLength) {
		sg.Stops = append(sg.Stops, scene.ColorStop{
			Offset: stop.Offset,
			Color:  sceneColor(stop.Color),
		})
	}
	sg.SortStops()
	w.fill(clipShape(box, radii), scene.GradientBrush{Gradient: sg})
}

// paintBorders fills one rect per side with a visible width, honoring
// per-side colors. currentColor falls back to the text color.
func (w *walker) paintBorders(node *dom.Node, style *css.Style, box scene.Rect) {
	bw := node.Layout.Border
	if bw.Top <= 0 && bw.Right <= 0 && bw.Bottom <= 0 && bw.Left <= 0 {
		return
	}
	sides := []struct {
		name  string
		width float64
		rect  scene.Rect
	}{
		{"top", bw.Top, scene.Rect{X0: box.X0, Y0: box.Y0, X1: box.X1, Y1: box.Y0 + bw.Top}},
		{"right", bw.Right, scene.Rect{X0: box.X1 - bw.Right, Y0: box.Y0, X1: box.X1, Y1: box.Y1}},
		{"bottom", bw.Bottom, scene.Rect{X0: box.X0, Y0: box.Y1 - bw.Bottom, X1: box.X1, Y1: box.Y1}},
		{"left", bw.Left, scene.Rect{X0: box.X0, Y0: box.Y0, X1: box.X0 + bw.Left, Y1: box.Y1}},
	}
	for _, s := range sides {
		if s.width <= 0 {
			continue
		}
		c := w.borderColor(style, s.name)
		if c.A <= 0 {
			continue
		}
		w.fill(s.rect, scene.Solid(c))
	}
}

func (w *walker) borderColor(style *css.Style, side string) scene.Color {
	if v, ok := style.Get("border-" + side + "-color"); ok {
		if strings.TrimSpace(v) != "currentcolor" {
			if c, ok := css.ParseColor(v); ok {
				return sceneColor(c)
			}
		}
	}
	return sceneColor(style.TextColor())
}

func (w *walker) paintOuterShadows(style *css.Style, box scene.Rect, radii scene.CornerRadii) {
	v, ok := style.Get("box-shadow")
	if !ok {
		return
	}
	shadows, ok := css.ParseBoxShadow(v)
	if !ok {
		return
	}
	// first shadow paints on top: emit in reverse
	for i := len(shadows) - 1; i >= 0; i-- {
		s := shadows[i]
		if s.Inset || s.Color.A <= 0 {
			continue
		}
		rect := scene.Rect{
			X0: box.X0 + s.OffsetX - s.Spread,
			Y0: box.Y0 + s.OffsetY - s.Spread,
			X1: box.X1 + s.OffsetX + s.Spread,
			Y1: box.Y1 + s.OffsetY + s.Spread,
		}
		w.sink.DrawBoxShadow(w.tf, rect, sceneColor(s.Color), radii, blurStdDev(s.Blur))
	}
}

func (w *walker) paintInsetShadows(style *css.Style, box scene.Rect, radii scene.CornerRadii) {
	v, ok := style.Get("box-shadow")
	if !ok {
		return
	}
	shadows, ok := css.ParseBoxShadow(v)
	if !ok {
		return
	}
	for i := len(shadows) - 1; i >= 0; i-- {
		s := shadows[i]
		if !s.Inset || s.Color.A <= 0 {
			continue
		}
		rect := scene.Rect{
			X0: box.X0 + s.OffsetX + s.Spread,
			Y0: box.Y0 + s.OffsetY + s.Spread,
			X1: box.X1 + s.OffsetX - s.Spread,
			Y1: box.Y1 + s.OffsetY - s.Spread,
		}
		w.sink.DrawBoxShadow(w.tf, rect, sceneColor(s.Color), radii, blurStdDev(s.Blur))
	}
}

// blurStdDev converts a CSS blur radius to a Gaussian standard
// deviation, matching the CSS spec's factor of one half.
func blurStdDev(blur float64) float64 { return blur / 2 }
