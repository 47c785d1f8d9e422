package css

import "strings"

// ColorScheme is the preferred color scheme media input.
type ColorScheme uint8

const (
	SchemeLight ColorScheme = iota
	SchemeDark
)

// Device carries the media-query inputs the style bridge derives from the
// viewport: CSS-pixel size, effective scale (hidpi x zoom), root em and
// color scheme.
type Device struct {
	Width       float64
	Height      float64
	Scale       float64
	RootFont    float64
	ColorScheme ColorScheme
}

// EvaluateMediaQuery evaluates the subset of media queries the engine
// supports: screen/all media types, min-/max-width, min-/max-height and
// prefers-color-scheme, combined with "and". An empty query matches.
// Unknown features make the query not match, never error.
func EvaluateMediaQuery(query string, dev Device) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	for _, clause := range strings.Split(query, ",") {
		if evaluateClause(clause, dev) {
			return true
		}
	}
	return false
}

func evaluateClause(clause string, dev Device) bool {
	for _, term := range strings.Split(clause, " and ") {
		term = strings.TrimSpace(term)
		term = strings.TrimPrefix(term, "(")
		term = strings.TrimSuffix(term, ")")
		if term == "" {
			continue
		}
		switch term {
		case "screen", "all":
			continue
		case "print":
			return false
		}
		colon := strings.IndexByte(term, ':')
		if colon < 0 {
			return false
		}
		feature := strings.TrimSpace(term[:colon])
		value := strings.TrimSpace(term[colon+1:])
		if !evaluateFeature(feature, value, dev) {
			return false
		}
	}
	return true
}

func evaluateFeature(feature, value string, dev Device) bool {
	switch feature {
	case "min-width", "max-width", "min-height", "max-height":
		l, ok := ParseLengthValue(value)
		if !ok {
			return false
		}
		px := l.Resolve(dev.Width, dev.RootFont, dev.RootFont, 0)
		switch feature {
		case "min-width":
			return dev.Width >= px
		case "max-width":
			return dev.Width <= px
		case "min-height":
			return dev.Height >= px
		default:
			return dev.Height <= px
		}
	case "prefers-color-scheme":
		switch value {
		case "dark":
			return dev.ColorScheme == SchemeDark
		case "light":
			return dev.ColorScheme == SchemeLight
		}
		return false
	default:
		return false
	}
}
