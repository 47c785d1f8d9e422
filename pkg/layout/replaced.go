package layout

import (
	"vireo/pkg/css"
	"vireo/pkg/dom"
)

// ReplacedSize resolves the used size of a replaced box (images, canvas).
// Precedence by source tier: known dimensions forced by the caller, then
// style width/height, then HTML width/height attributes, then intrinsic
// dimensions. When only one axis is decided within a tier the aspect
// ratio (intrinsic, else from the attributes) fills in the other; both
// axes clamp against min-/max-.
func ReplacedSize(style *css.Style, node *dom.Node, containingWidth, rem float64, knownW, knownH *float64) (w, h float64) {
	var intrinsicW, intrinsicH float64
	if el := node.Element(); el != nil && el.Replaced != nil {
		intrinsicW = el.Replaced.IntrinsicWidth
		intrinsicH = el.Replaced.IntrinsicHeight
	}

	attrDim := func(name string) (float64, bool) {
		v, ok := node.Attr(name)
		if !ok {
			return 0, false
		}
		l, ok := css.ParseLengthValue(v)
		if !ok || l.Unit == css.UnitAuto {
			return 0, false
		}
		return l.Resolve(containingWidth, rem, rem, 0), true
	}

	wSet, hSet := false, false
	if knownW != nil {
		w, wSet = *knownW, true
	}
	if knownH != nil {
		h, hSet = *knownH, true
	}
	if !wSet {
		if l, ok := style.GetLength("width"); ok && l.Unit != css.UnitAuto {
			w = l.Resolve(containingWidth, style.FontSize(rem), rem, 0)
			wSet = true
		}
	}
	if !hSet {
		if l, ok := style.GetLength("height"); ok && l.Unit != css.UnitAuto {
			h = l.Resolve(0, style.FontSize(rem), rem, 0)
			hSet = true
		}
	}
	// The width/height attributes are a weaker tier than style: once a
	// style (or caller) dimension decides one axis, the other axis comes
	// from the aspect ratio, never from an attribute.
	if !wSet && !hSet {
		if aw, ok := attrDim("width"); ok {
			w = aw
			wSet = true
		}
		if ah, ok := attrDim("height"); ok {
			h = ah
			hSet = true
		}
	}

	// Aspect ratio: intrinsic first, then the width/height attributes.
	ratioW, ratioH := intrinsicW, intrinsicH
	if ratioW <= 0 || ratioH <= 0 {
		aw, okW := attrDim("width")
		ah, okH := attrDim("height")
		if okW && okH && aw > 0 && ah > 0 {
			ratioW, ratioH = aw, ah
		}
	}

	hasRatio := ratioW > 0 && ratioH > 0
	switch {
	case wSet && !hSet:
		w = clampAxis(style, "width", w, containingWidth, rem)
		if hasRatio {
			h = w * ratioH / ratioW
		} else {
			h = intrinsicH
		}
		h = clampAxis(style, "height", h, 0, rem)
	case hSet && !wSet:
		h = clampAxis(style, "height", h, 0, rem)
		if hasRatio {
			w = h * ratioW / ratioH
		} else {
			w = intrinsicW
		}
		w = clampAxis(style, "width", w, containingWidth, rem)
	case wSet && hSet:
		w = clampAxis(style, "width", w, containingWidth, rem)
		h = clampAxis(style, "height", h, 0, rem)
	default:
		w, h = intrinsicW, intrinsicH
		cw := clampAxis(style, "width", w, containingWidth, rem)
		if cw != w && hasRatio {
			h = cw * ratioH / ratioW
		}
		w = cw
		ch := clampAxis(style, "height", h, 0, rem)
		if ch != h && hasRatio {
			w = ch * ratioW / ratioH
		}
		h = ch
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

func clampAxis(style *css.Style, axis string, v, percentBase, rem float64) float64 {
	em := style.FontSize(rem)
	if l, ok := style.GetLength("max-" + axis); ok && l.Unit != css.UnitAuto {
		if maxV := l.Resolve(percentBase, em, rem, v); v > maxV {
			v = maxV
		}
	}
	if l, ok := style.GetLength("min-" + axis); ok && l.Unit != css.UnitAuto {
		if minV := l.Resolve(percentBase, em, rem, 0); v < minV {
			v = minV
		}
	}
	return v
}

// ObjectFitRect computes the paint rectangle of replaced content within
// its content box for an object-fit policy. The returned rect is in
// box-local coordinates.
func ObjectFitRect(fit css.ObjectFit, boxW, boxH, intrinsicW, intrinsicH float64) (x, y, w, h float64) {
	if intrinsicW <= 0 || intrinsicH <= 0 {
		return 0, 0, boxW, boxH
	}
	scaleContain := minf(boxW/intrinsicW, boxH/intrinsicH)
	scaleCover := maxf(boxW/intrinsicW, boxH/intrinsicH)
	switch fit {
	case css.ObjectFitContain:
		w, h = intrinsicW*scaleContain, intrinsicH*scaleContain
	case css.ObjectFitCover:
		w, h = intrinsicW*scaleCover, intrinsicH*scaleCover
	case css.ObjectFitNone:
		w, h = intrinsicW, intrinsicH
	case css.ObjectFitScaleDown:
		if scaleContain < 1 {
			w, h = intrinsicW*scaleContain, intrinsicH*scaleContain
		} else {
			w, h = intrinsicW, intrinsicH
		}
	default: // fill
		return 0, 0, boxW, boxH
	}
	return (boxW - w) / 2, (boxH - h) / 2, w, h
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
