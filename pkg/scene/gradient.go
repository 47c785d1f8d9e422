package scene

import "sort"

// GradientKind selects the gradient geometry.
type GradientKind uint8

const (
	GradientLinear GradientKind = iota
	GradientRadial
	GradientConic
)

// String returns a human-readable name for the gradient kind.
func (k GradientKind) String() string {
	switch k {
	case GradientLinear:
		return "linear"
	case GradientRadial:
		return "radial"
	case GradientConic:
		return "conic"
	default:
		return "unknown"
	}
}

// ExtendMode defines how a gradient extends beyond its defined bounds.
type ExtendMode uint8

const (
	// ExtendPad extends edge colors beyond the bounds.
	ExtendPad ExtendMode = iota
	// ExtendRepeat repeats the gradient pattern; repeating-* CSS gradients
	// map to this mode.
	ExtendRepeat
	// ExtendReflect mirrors the gradient pattern.
	ExtendReflect
)

// ColorStop is a color at a position along the gradient, 0.0 to 1.0.
type ColorStop struct {
	Offset float64
	Color  Color
}

// Gradient is a first-class brush geometry handed to the sink. The fields
// used depend on Kind: linear uses Start/End, radial uses Center/Radius
// (and StartRadius for two-circle radials), conic uses Center/Angle.
type Gradient struct {
	Kind   GradientKind
	Extend ExtendMode
	Stops  []ColorStop

	StartX, StartY float64
	EndX, EndY     float64

	CenterX, CenterY float64
	StartRadius      float64
	Radius           float64

	// Angle is the conic start angle in radians.
	Angle float64
}

// SortStops orders the stops by offset, keeping the relative order of
// equal offsets.
func (g *Gradient) SortStops() {
	sort.SliceStable(g.Stops, func(i, j int) bool {
		return g.Stops[i].Offset < g.Stops[j].Offset
	})
}

// ColorAt evaluates the gradient ramp at t, honoring the extend mode.
// Sinks without native gradient support can sample through this.
func (g *Gradient) ColorAt(t float64) Color {
	if len(g.Stops) == 0 {
		return Transparent
	}
	t = applyExtend(t, g.Extend)
	stops := g.Stops
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return lerpColor(a.Color, b.Color, (t-a.Offset)/span)
		}
	}
	return last.Color
}

func applyExtend(t float64, mode ExtendMode) float64 {
	switch mode {
	case ExtendRepeat:
		t -= float64(int(t))
		if t < 0 {
			t++
		}
	case ExtendReflect:
		if t < 0 {
			t = -t
		}
		period := int(t)
		t -= float64(period)
		if period%2 == 1 {
			t = 1 - t
		}
	default:
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return t
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
