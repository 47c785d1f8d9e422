package css

import (
	"strconv"
	"strings"
)

// Color is an sRGB color with 8-bit channels and a [0, 1] alpha.
type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"transparent": {0, 0, 0, 0},
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"yellow":      {255, 255, 0, 1},
	"cyan":        {0, 255, 255, 1},
	"magenta":     {255, 0, 255, 1},
	"white":       {255, 255, 255, 1},
	"black":       {0, 0, 0, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"orange":      {255, 165, 0, 1},
	"purple":      {128, 0, 128, 1},
	"pink":        {255, 192, 203, 1},
	"brown":       {165, 42, 42, 1},
	"lime":        {0, 255, 0, 1},
	"navy":        {0, 0, 128, 1},
	"teal":        {0, 128, 128, 1},
	"silver":      {192, 192, 192, 1},
	"maroon":      {128, 0, 0, 1},
	"olive":       {128, 128, 0, 1},
	"aqua":        {0, 255, 255, 1},
	"fuchsia":     {255, 0, 255, 1},
}

// ParseColor parses a CSS color value: named colors, #rgb, #rrggbb,
// #rrggbbaa, rgb() and rgba().
func ParseColor(val string) (Color, bool) {
	val = strings.ToLower(strings.TrimSpace(val))
	if c, ok := namedColors[val]; ok {
		return c, true
	}
	if strings.HasPrefix(val, "#") {
		return parseHexColor(val[1:])
	}
	if strings.HasPrefix(val, "rgb(") || strings.HasPrefix(val, "rgba(") {
		return parseRGBFunc(val)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		r, ok1 := hexNibble(hex[0])
		g, ok2 := hexNibble(hex[1])
		b, ok3 := hexNibble(hex[2])
		if ok1 && ok2 && ok3 {
			return Color{r * 17, g * 17, b * 17, 1}, true
		}
	case 6, 8:
		n, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return Color{}, false
		}
		if len(hex) == 6 {
			return Color{uint8(n >> 16), uint8(n >> 8), uint8(n), 1}, true
		}
		return Color{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), float64(uint8(n)) / 255.0}, true
	}
	return Color{}, false
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

func parseRGBFunc(val string) (Color, bool) {
	open := strings.IndexByte(val, '(')
	end := strings.LastIndexByte(val, ')')
	if open < 0 || end < open {
		return Color{}, false
	}
	parts := strings.Split(val[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		p := strings.TrimSpace(parts[i])
		if strings.HasSuffix(p, "%") {
			pct, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			if err != nil {
				return Color{}, false
			}
			ch[i] = clampChannel(pct * 255.0 / 100.0)
		} else {
			n, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return Color{}, false
			}
			ch[i] = clampChannel(n)
		}
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Color{}, false
		}
		if a < 0 {
			a = 0
		} else if a > 1 {
			a = 1
		}
		alpha = a
	}
	return Color{ch[0], ch[1], ch[2], alpha}, true
}

func clampChannel(n float64) uint8 {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
