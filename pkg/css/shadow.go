package css

import "strings"

// Shadow is one parsed box-shadow layer.
type Shadow struct {
	OffsetX, OffsetY float64
	Blur             float64
	Spread           float64
	Color            Color
	Inset            bool
}

// ParseBoxShadow parses a box-shadow value, which may hold several
// comma-separated shadow layers. Layers are returned in source order,
// which is front-to-back per CSS.
func ParseBoxShadow(value string) ([]Shadow, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return nil, false
	}
	var shadows []Shadow
	for _, layer := range splitTopLevel(value, ',') {
		sh, ok := parseShadowLayer(strings.TrimSpace(layer))
		if !ok {
			return nil, false
		}
		shadows = append(shadows, sh)
	}
	return shadows, len(shadows) > 0
}

func parseShadowLayer(layer string) (Shadow, bool) {
	sh := Shadow{Color: Color{A: 1}}
	var lengths []float64
	for _, tok := range splitTopLevel(layer, ' ') {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if tok == "inset" {
			sh.Inset = true
			continue
		}
		if l, ok := ParseLengthValue(tok); ok && l.Unit == UnitPx {
			lengths = append(lengths, l.Value)
			continue
		}
		if c, ok := ParseColor(tok); ok {
			sh.Color = c
			continue
		}
		return Shadow{}, false
	}
	if len(lengths) < 2 || len(lengths) > 4 {
		return Shadow{}, false
	}
	sh.OffsetX = lengths[0]
	sh.OffsetY = lengths[1]
	if len(lengths) > 2 {
		sh.Blur = lengths[2]
	}
	if len(lengths) > 3 {
		sh.Spread = lengths[3]
	}
	return sh, true
}
