package css

import (
	"strconv"
	"strings"
)

// Style is a computed set of CSS properties for one element. Properties
// are stored fully expanded (no shorthands) under their canonical names.
type Style struct {
	Properties map[string]string
}

// NewStyle returns an empty style.
func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

// Get returns the raw value of a property.
func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

// Set stores a property value.
func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// Clone returns an independent copy of the style.
func (s *Style) Clone() *Style {
	out := NewStyle()
	for k, v := range s.Properties {
		out.Properties[k] = v
	}
	return out
}

// Equal reports whether two styles hold the same properties. A nil
// style equals only another nil style.
func (s *Style) Equal(o *Style) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.Properties) != len(o.Properties) {
		return false
	}
	for k, v := range s.Properties {
		if ov, ok := o.Properties[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Unit is the unit of a parsed length.
type Unit uint8

const (
	UnitPx Unit = iota
	UnitPercent
	UnitEm
	UnitRem
	UnitAuto
)

// Length is a parsed CSS length value.
type Length struct {
	Value float64
	Unit  Unit
}

// ParseLengthValue parses a length like "100px", "50%", "1.5em" or "auto".
func ParseLengthValue(val string) (Length, bool) {
	val = strings.TrimSpace(val)
	switch {
	case val == "auto":
		return Length{Unit: UnitAuto}, true
	case strings.HasSuffix(val, "px"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(val, "px"), 64); err == nil {
			return Length{Value: n, Unit: UnitPx}, true
		}
	case strings.HasSuffix(val, "%"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(val, "%"), 64); err == nil {
			return Length{Value: n, Unit: UnitPercent}, true
		}
	case strings.HasSuffix(val, "rem"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(val, "rem"), 64); err == nil {
			return Length{Value: n, Unit: UnitRem}, true
		}
	case strings.HasSuffix(val, "em"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(val, "em"), 64); err == nil {
			return Length{Value: n, Unit: UnitEm}, true
		}
	default:
		// Bare numbers are treated as px, matching quirks handling of
		// width="100" style attribute values.
		if n, err := strconv.ParseFloat(val, 64); err == nil {
			return Length{Value: n, Unit: UnitPx}, true
		}
	}
	return Length{}, false
}

// Resolve converts the length to px against a percentage base, an em size
// and a root em size. Auto resolves to the provided auto value.
func (l Length) Resolve(percentBase, em, rem, auto float64) float64 {
	switch l.Unit {
	case UnitPercent:
		return percentBase * l.Value / 100.0
	case UnitEm:
		return em * l.Value
	case UnitRem:
		return rem * l.Value
	case UnitAuto:
		return auto
	default:
		return l.Value
	}
}

// GetLength parses a property as a length.
func (s *Style) GetLength(property string) (Length, bool) {
	val, ok := s.Get(property)
	if !ok {
		return Length{}, false
	}
	return ParseLengthValue(val)
}

// GetPx resolves a property to px, or returns def when absent or auto.
// Percentages resolve against percentBase; em against the style's font size.
func (s *Style) GetPx(property string, percentBase, rem, def float64) float64 {
	l, ok := s.GetLength(property)
	if !ok || l.Unit == UnitAuto {
		return def
	}
	return l.Resolve(percentBase, s.FontSize(rem), rem, def)
}

// BoxEdge holds per-side values for margin, padding or border width.
type BoxEdge struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns Left + Right.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

func (s *Style) edge(prefix, suffix string, percentBase, rem float64) BoxEdge {
	return BoxEdge{
		Top:    s.GetPx(prefix+"-top"+suffix, percentBase, rem, 0),
		Right:  s.GetPx(prefix+"-right"+suffix, percentBase, rem, 0),
		Bottom: s.GetPx(prefix+"-bottom"+suffix, percentBase, rem, 0),
		Left:   s.GetPx(prefix+"-left"+suffix, percentBase, rem, 0),
	}
}

// Margin returns the resolved margin edges. Per CSS, percentage margins
// resolve against the containing block width on every side.
func (s *Style) Margin(containingWidth, rem float64) BoxEdge {
	return s.edge("margin", "", containingWidth, rem)
}

// Padding returns the resolved padding edges.
func (s *Style) Padding(containingWidth, rem float64) BoxEdge {
	return s.edge("padding", "", containingWidth, rem)
}

// BorderWidth returns the resolved border widths. A side with
// border-style none or hidden contributes zero.
func (s *Style) BorderWidth(rem float64) BoxEdge {
	e := s.edge("border", "-width", 0, rem)
	for _, side := range []struct {
		name  string
		width *float64
	}{
		{"top", &e.Top}, {"right", &e.Right}, {"bottom", &e.Bottom}, {"left", &e.Left},
	} {
		if st, ok := s.Get("border-" + side.name + "-style"); ok && (st == "none" || st == "hidden") {
			*side.width = 0
		}
	}
	return e
}

// DisplayType is the computed display value.
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
	DisplayContents    DisplayType = "contents"
)

// Display returns the display value (default block).
func (s *Style) Display() DisplayType {
	if display, ok := s.Get("display"); ok {
		switch display {
		case "inline":
			return DisplayInline
		case "inline-block":
			return DisplayInlineBlock
		case "none":
			return DisplayNone
		case "contents":
			return DisplayContents
		}
	}
	return DisplayBlock
}

// PositionType is the computed position value.
type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

// Position returns the position value (default static).
func (s *Style) Position() PositionType {
	if pos, ok := s.Get("position"); ok {
		switch pos {
		case "relative":
			return PositionRelative
		case "absolute":
			return PositionAbsolute
		case "fixed":
			return PositionFixed
		}
	}
	return PositionStatic
}

// Overflow is the computed overflow value.
type Overflow string

const (
	OverflowVisible Overflow = "visible"
	OverflowHidden  Overflow = "hidden"
	OverflowScroll  Overflow = "scroll"
	OverflowAuto    Overflow = "auto"
)

// GetOverflow returns the overflow value (default visible).
func (s *Style) GetOverflow() Overflow {
	if v, ok := s.Get("overflow"); ok {
		switch v {
		case "hidden":
			return OverflowHidden
		case "scroll":
			return OverflowScroll
		case "auto":
			return OverflowAuto
		}
	}
	return OverflowVisible
}

// ClipsOverflow reports whether descendants must be clipped to the box.
func (s *Style) ClipsOverflow() bool {
	switch s.GetOverflow() {
	case OverflowHidden, OverflowScroll, OverflowAuto:
		return true
	}
	return false
}

// WhiteSpace is the computed white-space value.
type WhiteSpace string

const (
	WhiteSpaceNormal  WhiteSpace = "normal"
	WhiteSpaceNowrap  WhiteSpace = "nowrap"
	WhiteSpacePre     WhiteSpace = "pre"
	WhiteSpacePreWrap WhiteSpace = "pre-wrap"
	WhiteSpacePreLine WhiteSpace = "pre-line"
)

// GetWhiteSpace returns the white-space value (default normal).
func (s *Style) GetWhiteSpace() WhiteSpace {
	if v, ok := s.Get("white-space"); ok {
		switch v {
		case "nowrap":
			return WhiteSpaceNowrap
		case "pre":
			return WhiteSpacePre
		case "pre-wrap":
			return WhiteSpacePreWrap
		case "pre-line":
			return WhiteSpacePreLine
		}
	}
	return WhiteSpaceNormal
}

// ObjectFit is the computed object-fit value.
type ObjectFit string

const (
	ObjectFitFill      ObjectFit = "fill"
	ObjectFitContain   ObjectFit = "contain"
	ObjectFitCover     ObjectFit = "cover"
	ObjectFitNone      ObjectFit = "none"
	ObjectFitScaleDown ObjectFit = "scale-down"
)

// GetObjectFit returns the object-fit value (default fill).
func (s *Style) GetObjectFit() ObjectFit {
	if v, ok := s.Get("object-fit"); ok {
		switch v {
		case "contain":
			return ObjectFitContain
		case "cover":
			return ObjectFitCover
		case "none":
			return ObjectFitNone
		case "scale-down":
			return ObjectFitScaleDown
		}
	}
	return ObjectFitFill
}

// PointerEvents reports whether the element can be a hit-test target.
func (s *Style) PointerEvents() bool {
	v, ok := s.Get("pointer-events")
	return !ok || v != "none"
}

// FontSize returns the font-size in px (default 16, scaled by rem for
// rem units).
func (s *Style) FontSize(rem float64) float64 {
	if l, ok := s.GetLength("font-size"); ok {
		switch l.Unit {
		case UnitPx:
			return l.Value
		case UnitRem, UnitEm:
			// em on font-size itself refers to the inherited size, which
			// the cascade has already folded into px by this point.
			return rem * l.Value
		case UnitPercent:
			return rem * l.Value / 100.0
		}
	}
	return 16.0
}

// LineHeight returns the used line-height in px. Unitless numbers
// multiply the font size; the default is 1.2.
func (s *Style) LineHeight(rem float64) float64 {
	fs := s.FontSize(rem)
	if v, ok := s.Get("line-height"); ok {
		v = strings.TrimSpace(v)
		if v != "normal" {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				return fs * n
			}
			if l, ok := ParseLengthValue(v); ok {
				return l.Resolve(fs, fs, rem, fs*1.2)
			}
		}
	}
	return fs * 1.2
}

// FontWeight returns the numeric font weight (default 400).
func (s *Style) FontWeight() int {
	if w, ok := s.Get("font-weight"); ok {
		switch w {
		case "normal":
			return 400
		case "bold":
			return 700
		default:
			if n, err := strconv.Atoi(w); err == nil && n >= 1 && n <= 1000 {
				return n
			}
		}
	}
	return 400
}

// IsItalic reports whether font-style is italic or oblique.
func (s *Style) IsItalic() bool {
	v, ok := s.Get("font-style")
	return ok && (v == "italic" || v == "oblique")
}

// FontFamilies returns the font-family list in order of preference.
func (s *Style) FontFamilies() []string {
	v, ok := s.Get("font-family")
	if !ok {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TextColor returns the computed color (default black).
func (s *Style) TextColor() Color {
	if v, ok := s.Get("color"); ok {
		if c, ok := ParseColor(v); ok {
			return c
		}
	}
	return Color{A: 1}
}

// Opacity returns the computed opacity clamped to [0, 1].
func (s *Style) Opacity() float64 {
	if v, ok := s.Get("opacity"); ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			if n < 0 {
				return 0
			}
			if n > 1 {
				return 1
			}
			return n
		}
	}
	return 1
}

// ZIndex returns the z-index (default 0) and whether it was set.
func (s *Style) ZIndex() (int, bool) {
	if v, ok := s.Get("z-index"); ok && v != "auto" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// BorderRadii returns the resolved per-corner radii.
func (s *Style) BorderRadii(rem float64) (tl, tr, br, bl float64) {
	get := func(name string) float64 {
		return s.GetPx("border-"+name+"-radius", 0, rem, 0)
	}
	return get("top-left"), get("top-right"), get("bottom-right"), get("bottom-left")
}

// Cursor returns the cursor keyword (default auto).
func (s *Style) Cursor() string {
	if v, ok := s.Get("cursor"); ok {
		return v
	}
	return "auto"
}

// TextAlign is the computed text-align value.
type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

// GetTextAlign returns the text-align value (default left).
func (s *Style) GetTextAlign() TextAlign {
	if v, ok := s.Get("text-align"); ok {
		switch v {
		case "center":
			return TextAlignCenter
		case "right":
			return TextAlignRight
		}
	}
	return TextAlignLeft
}
