package scene

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque color from components in [0, 1].
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA8 returns a color from 8-bit components and a [0, 1] alpha.
func RGBA8(r, g, b uint8, a float64) Color {
	return Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
		A: a,
	}
}

// WithAlpha returns the color with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// IsVisible reports whether drawing with this color has any effect.
func (c Color) IsVisible() bool {
	return c.A > 0
}

// Transparent is fully transparent black.
var Transparent = Color{}

// Common colors.
var (
	Black = RGB(0, 0, 0)
	White = RGB(1, 1, 1)
)
