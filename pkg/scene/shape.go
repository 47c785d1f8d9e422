package scene

// Shape is the geometry vocabulary the painter emits. It is a sealed
// interface: only types in this package implement it, so sinks can switch
// exhaustively.
type Shape interface {
	shapeMarker()

	// Bounds returns the axis-aligned bounding rectangle of the shape.
	Bounds() Rect
}

// Rect is an axis-aligned rectangle. X1 >= X0 and Y1 >= Y0 for non-empty
// rectangles.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect builds a Rect from an origin and a size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X0: x, Y0: y, X1: x + w, Y1: y + h}
}

func (r Rect) shapeMarker() {}

// Bounds implements Shape.
func (r Rect) Bounds() Rect { return r }

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Intersect returns the overlap of two rectangles. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		X0: max(r.X0, o.X0),
		Y0: max(r.Y0, o.Y0),
		X1: min(r.X1, o.X1),
		Y1: min(r.Y1, o.Y1),
	}
	if out.X1 < out.X0 {
		out.X1 = out.X0
	}
	if out.Y1 < out.Y0 {
		out.Y1 = out.Y0
	}
	return out
}

// CornerRadii holds one radius per box corner, clockwise from top-left.
// A zero value means a square corner.
type CornerRadii struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

// IsZero reports whether all four corners are square.
func (c CornerRadii) IsZero() bool {
	return c == CornerRadii{}
}

// Uniform returns equal radii for all four corners.
func Uniform(r float64) CornerRadii {
	return CornerRadii{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
}

// RoundedRect is a rectangle with per-corner radii.
type RoundedRect struct {
	Rect  Rect
	Radii CornerRadii
}

func (r RoundedRect) shapeMarker() {}

// Bounds implements Shape.
func (r RoundedRect) Bounds() Rect { return r.Rect }

// Ellipse is an axis-aligned ellipse inscribed in Rect.
type Ellipse struct {
	Rect Rect
}

func (e Ellipse) shapeMarker() {}

// Bounds implements Shape.
func (e Ellipse) Bounds() Rect { return e.Rect }

// Line is a single segment, used for text decorations and outlines.
type Line struct {
	X0, Y0, X1, Y1 float64
}

func (l Line) shapeMarker() {}

// Bounds implements Shape.
func (l Line) Bounds() Rect {
	return Rect{
		X0: min(l.X0, l.X1),
		Y0: min(l.Y0, l.Y1),
		X1: max(l.X0, l.X1),
		Y1: max(l.Y0, l.Y1),
	}
}
