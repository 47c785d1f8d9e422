package scene

// CommandKind tags a recorded drawing command.
type CommandKind uint8

const (
	CmdReset CommandKind = iota
	CmdPushLayer
	CmdPopLayer
	CmdStroke
	CmdFill
	CmdGlyphs
	CmdBoxShadow
)

// String returns a human-readable name for the command kind.
func (k CommandKind) String() string {
	switch k {
	case CmdReset:
		return "reset"
	case CmdPushLayer:
		return "push_layer"
	case CmdPopLayer:
		return "pop_layer"
	case CmdStroke:
		return "stroke"
	case CmdFill:
		return "fill"
	case CmdGlyphs:
		return "glyphs"
	case CmdBoxShadow:
		return "box_shadow"
	default:
		return "unknown"
	}
}

// Command is one recorded sink operation.
type Command struct {
	Kind      CommandKind
	Blend     BlendMode
	Alpha     float64
	Rule      FillRule
	Stroke    StrokeStyle
	Transform Affine
	Brush     Brush
	Shape     Shape
	Run       GlyphRun
	Color     Color
	Radii     CornerRadii
	BlurStd   float64
}

// Recorder is a Sink that records every operation for later inspection.
// It is used by paint-order tests and as a debugging tap between the
// painter and a real rasterizer.
type Recorder struct {
	Commands []Command

	depth    int
	maxDepth int
}

var _ Sink = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset implements Sink.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
	r.depth = 0
	r.maxDepth = 0
}

// PushLayer implements Sink.
func (r *Recorder) PushLayer(blend BlendMode, alpha float64, transform Affine, clip Shape) {
	r.depth++
	if r.depth > r.maxDepth {
		r.maxDepth = r.depth
	}
	r.Commands = append(r.Commands, Command{
		Kind:      CmdPushLayer,
		Blend:     blend,
		Alpha:     alpha,
		Transform: transform,
		Shape:     clip,
	})
}

// PopLayer implements Sink.
func (r *Recorder) PopLayer() {
	r.depth--
	r.Commands = append(r.Commands, Command{Kind: CmdPopLayer})
}

// Stroke implements Sink.
func (r *Recorder) Stroke(style StrokeStyle, transform Affine, brush Brush, brushTransform *Affine, shape Shape) {
	r.Commands = append(r.Commands, Command{
		Kind:      CmdStroke,
		Stroke:    style,
		Transform: transform,
		Brush:     brush,
		Shape:     shape,
	})
}

// Fill implements Sink.
func (r *Recorder) Fill(rule FillRule, transform Affine, brush Brush, brushTransform *Affine, shape Shape) {
	r.Commands = append(r.Commands, Command{
		Kind:      CmdFill,
		Rule:      rule,
		Transform: transform,
		Brush:     brush,
		Shape:     shape,
	})
}

// DrawGlyphs implements Sink.
func (r *Recorder) DrawGlyphs(run GlyphRun) {
	r.Commands = append(r.Commands, Command{Kind: CmdGlyphs, Run: run})
}

// DrawBoxShadow implements Sink.
func (r *Recorder) DrawBoxShadow(transform Affine, rect Rect, color Color, radii CornerRadii, blurStdDev float64) {
	r.Commands = append(r.Commands, Command{
		Kind:      CmdBoxShadow,
		Transform: transform,
		Shape:     rect,
		Color:     color,
		Radii:     radii,
		BlurStd:   blurStdDev,
	})
}

// OpenLayers returns the number of currently unmatched PushLayer calls.
func (r *Recorder) OpenLayers() int { return r.depth }

// MaxLayerDepth returns the deepest layer nesting seen since the last Reset.
func (r *Recorder) MaxLayerDepth() int { return r.maxDepth }

// CountKind returns how many commands of the given kind were recorded.
func (r *Recorder) CountKind(kind CommandKind) int {
	n := 0
	for _, c := range r.Commands {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
