package scene

// Affine is a 2D affine transform in row-major order:
//
//	| A C E |
//	| B D F |
//
// Point mapping: x' = A*x + C*y + E, y' = B*x + D*y + F.
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translate returns a translation transform.
func Translate(dx, dy float64) Affine {
	return Affine{A: 1, D: 1, E: dx, F: dy}
}

// Scale returns a scaling transform about the origin.
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// IsIdentity reports whether t is the identity transform.
func (t Affine) IsIdentity() bool {
	return t == Identity()
}

// Mul returns the transform equivalent to applying u first, then t.
func (t Affine) Mul(u Affine) Affine {
	return Affine{
		A: t.A*u.A + t.C*u.B,
		B: t.B*u.A + t.D*u.B,
		C: t.A*u.C + t.C*u.D,
		D: t.B*u.C + t.D*u.D,
		E: t.A*u.E + t.C*u.F + t.E,
		F: t.B*u.E + t.D*u.F + t.F,
	}
}

// Then returns the transform equivalent to applying t first, then u.
func (t Affine) Then(u Affine) Affine {
	return u.Mul(t)
}

// Apply maps the point (x, y) through the transform.
func (t Affine) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.C*y + t.E, t.B*x + t.D*y + t.F
}
