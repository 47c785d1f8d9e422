package css

import (
	"math"
	"strconv"
	"strings"
)

// GradientKind is the gradient geometry kind.
type GradientKind uint8

const (
	GradientLinear GradientKind = iota
	GradientRadial
	GradientConic
)

// GradientStop is one color stop. Offset is in [0, 1]; HasOffset is false
// when the stop position was omitted and must be interpolated. PxOffset
// carries absolute px positions, resolved against the box at paint time.
type GradientStop struct {
	Color     Color
	Offset    float64
	HasOffset bool
	PxOffset  float64
	HasPx     bool
}

// Gradient is a parsed CSS gradient image value.
type Gradient struct {
	Kind      GradientKind
	Repeating bool
	// Angle is the linear gradient direction in radians, 0 pointing up,
	// clockwise positive, per CSS convention. For conic gradients it is
	// the start angle.
	Angle float64
	Stops []GradientStop
}

// ParseGradient parses linear-gradient(), radial-gradient(),
// conic-gradient() and their repeating-* forms.
func ParseGradient(value string) (*Gradient, bool) {
	value = strings.TrimSpace(value)
	repeating := false
	if strings.HasPrefix(value, "repeating-") {
		repeating = true
		value = strings.TrimPrefix(value, "repeating-")
	}
	var kind GradientKind
	switch {
	case strings.HasPrefix(value, "linear-gradient("):
		kind = GradientLinear
	case strings.HasPrefix(value, "radial-gradient("):
		kind = GradientRadial
	case strings.HasPrefix(value, "conic-gradient("):
		kind = GradientConic
	default:
		return nil, false
	}
	if !strings.HasSuffix(value, ")") {
		return nil, false
	}
	content := value[strings.IndexByte(value, '(')+1 : len(value)-1]
	parts := splitTopLevel(content, ',')
	if len(parts) == 0 {
		return nil, false
	}

	g := &Gradient{Kind: kind, Repeating: repeating}
	start := 0
	first := strings.TrimSpace(parts[0])
	switch kind {
	case GradientLinear:
		if angle, ok := parseLinearDirection(first); ok {
			g.Angle = angle
			start = 1
		} else {
			g.Angle = math.Pi // default "to bottom"
		}
	case GradientConic:
		if strings.HasPrefix(first, "from ") {
			if angle, ok := parseAngle(strings.TrimPrefix(first, "from ")); ok {
				g.Angle = angle
				start = 1
			}
		}
	case GradientRadial:
		// Shape/size/position preludes are accepted and ignored; the
		// painter always fills from the box center.
		if !startsWithColor(first) {
			start = 1
		}
	}

	for i := start; i < len(parts); i++ {
		stop, ok := parseGradientStop(strings.TrimSpace(parts[i]))
		if !ok {
			return nil, false
		}
		g.Stops = append(g.Stops, stop)
	}
	if len(g.Stops) < 2 {
		return nil, false
	}
	return g, true
}

func parseLinearDirection(s string) (float64, bool) {
	if strings.HasPrefix(s, "to ") {
		switch strings.Join(strings.Fields(s[3:]), " ") {
		case "top":
			return 0, true
		case "right":
			return math.Pi / 2, true
		case "bottom":
			return math.Pi, true
		case "left":
			return 3 * math.Pi / 2, true
		case "top right", "right top":
			return math.Pi / 4, true
		case "bottom right", "right bottom":
			return 3 * math.Pi / 4, true
		case "bottom left", "left bottom":
			return 5 * math.Pi / 4, true
		case "top left", "left top":
			return 7 * math.Pi / 4, true
		}
		return 0, false
	}
	return parseAngle(s)
}

func parseAngle(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "deg"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(s, "deg"), 64); err == nil {
			return n * math.Pi / 180.0, true
		}
	case strings.HasSuffix(s, "rad"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(s, "rad"), 64); err == nil {
			return n, true
		}
	case strings.HasSuffix(s, "turn"):
		if n, err := strconv.ParseFloat(strings.TrimSuffix(s, "turn"), 64); err == nil {
			return n * 2 * math.Pi, true
		}
	}
	return 0, false
}

func startsWithColor(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	_, ok := ParseColor(fields[0])
	return ok
}

// parseGradientStop parses "blue", "blue 40%", "blue 120px" or
// "rgb(0,0,255) 40%".
func parseGradientStop(s string) (GradientStop, bool) {
	// The color may itself contain spaces inside parentheses.
	colorEnd := len(s)
	if i := strings.IndexByte(s, ')'); i >= 0 && i+1 < len(s) {
		colorEnd = i + 1
	} else if i := strings.IndexByte(s, ' '); i >= 0 {
		colorEnd = i
	}
	color, ok := ParseColor(s[:colorEnd])
	if !ok {
		return GradientStop{}, false
	}
	stop := GradientStop{Color: color}
	rest := strings.TrimSpace(s[colorEnd:])
	if rest != "" {
		switch {
		case strings.HasSuffix(rest, "%"):
			n, err := strconv.ParseFloat(strings.TrimSuffix(rest, "%"), 64)
			if err != nil {
				return GradientStop{}, false
			}
			stop.Offset = n / 100.0
			stop.HasOffset = true
		case strings.HasSuffix(rest, "px"):
			n, err := strconv.ParseFloat(strings.TrimSuffix(rest, "px"), 64)
			if err != nil {
				return GradientStop{}, false
			}
			stop.PxOffset = n
			stop.HasPx = true
		default:
			return GradientStop{}, false
		}
	}
	return stop, true
}

// ResolveStops returns stop offsets in [0, 1] for a gradient line of the
// given px length, interpolating omitted positions between their
// neighbors the way CSS does.
func (g *Gradient) ResolveStops(lineLength float64) []GradientStop {
	out := make([]GradientStop, len(g.Stops))
	copy(out, g.Stops)
	for i := range out {
		if out[i].HasPx && lineLength > 0 {
			out[i].Offset = out[i].PxOffset / lineLength
			out[i].HasOffset = true
		}
	}
	if len(out) > 0 {
		if !out[0].HasOffset {
			out[0].Offset = 0
			out[0].HasOffset = true
		}
		last := len(out) - 1
		if !out[last].HasOffset {
			out[last].Offset = 1
			out[last].HasOffset = true
		}
	}
	// Monotonic clamp, then spread runs of unspecified offsets evenly.
	for i := 1; i < len(out); i++ {
		if out[i].HasOffset && out[i].Offset < out[i-1].Offset {
			out[i].Offset = out[i-1].Offset
		}
	}
	i := 0
	for i < len(out) {
		if out[i].HasOffset {
			i++
			continue
		}
		runStart := i
		for i < len(out) && !out[i].HasOffset {
			i++
		}
		lo := out[runStart-1].Offset
		hi := out[i].Offset
		n := i - runStart + 1
		for j := runStart; j < i; j++ {
			out[j].Offset = lo + (hi-lo)*float64(j-runStart+1)/float64(n)
			out[j].HasOffset = true
		}
	}
	return out
}
