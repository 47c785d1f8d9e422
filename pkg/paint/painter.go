// Package paint walks a laid-out tree and emits drawing commands to a
// scene sink: backgrounds, borders, shadows, replaced content, glyph
// runs and overflow clips, in CSS paint order.
package paint

import (
	"sort"

	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/scene"
	"vireo/pkg/text"
)

// DefaultMaxClipDepth bounds nested overflow clips. Deeper clips are
// skipped rather than aborting the paint.
const DefaultMaxClipDepth = 1024

// Stats counts what one paint emitted. Useful for tests and for
// embedders watching paint cost.
type Stats struct {
	Boxes        int
	GlyphRuns    int
	ClipPushes   int
	ClipsSkipped int
	Layers       int
}

// Painter paints documents into a scene sink. The zero MaxClipDepth
// means DefaultMaxClipDepth.
type Painter struct {
	MaxClipDepth int
	Fonts        *text.Context
	Device       css.Device
}

// New returns a painter for the given font context and device.
func New(fonts *text.Context, dev css.Device) *Painter {
	return &Painter{MaxClipDepth: DefaultMaxClipDepth, Fonts: fonts, Device: dev}
}

// Paint resets the sink and emits the whole document. The device scale
// is applied as a global transform so sinks draw in physical pixels.
func (p *Painter) Paint(tree *dom.Tree, sink scene.Sink) Stats {
	maxDepth := p.MaxClipDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxClipDepth
	}
	w := &walker{
		painter:  p,
		tree:     tree,
		sink:     sink,
		tf:       scene.Scale(p.Device.Scale, p.Device.Scale),
		maxDepth: maxDepth,
	}
	if p.Device.Scale == 0 {
		w.tf = scene.Identity()
	}
	sink.Reset()
	root := tree.Get(tree.Root())
	w.paintChildrenOf(root, -root.ScrollX, -root.ScrollY)
	return w.stats
}

type walker struct {
	painter   *Painter
	tree      *dom.Tree
	sink      scene.Sink
	tf        scene.Affine
	stats     Stats
	clipDepth int
	maxDepth  int
}

func (w *walker) pushClip(shape scene.Shape) bool {
	if w.clipDepth >= w.maxDepth {
		w.stats.ClipsSkipped++
		return false
	}
	w.sink.PushLayer(scene.BlendSrcOver, 1, w.tf, shape)
	w.clipDepth++
	w.stats.ClipPushes++
	return true
}

func (w *walker) popClip() {
	w.sink.PopLayer()
	w.clipDepth--
}

// paintChildrenOf paints a node's element children in stacking order:
// z-index ascending, document order breaking ties (negative z paints
// first, positive last).
func (w *walker) paintChildrenOf(node *dom.Node, dx, dy float64) {
	type childEntry struct {
		id dom.NodeID
		z  int
	}
	entries := make([]childEntry, 0, len(node.Children))
	for _, c := range node.Children {
		child := w.tree.Get(c)
		if !child.IsElement() || !child.LayoutValid {
			continue
		}
		z := 0
		if child.Style != nil {
			if zi, ok := child.Style.ZIndex(); ok {
				z = zi
			}
		}
		entries = append(entries, childEntry{id: c, z: z})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].z < entries[j].z })
	for _, e := range entries {
		w.paintNode(e.id, dx, dy)
	}
}

func (w *walker) paintNode(id dom.NodeID, dx, dy float64) {
	node := w.tree.Get(id)
	style := styleOf(node)
	alpha := style.Opacity()
	if alpha <= 0 {
		return
	}

	grouped := alpha < 1
	if grouped {
		w.sink.PushLayer(scene.BlendSrcOver, alpha, w.tf, nil)
		w.stats.Layers++
	}

	l := node.Layout
	box := scene.NewRect(l.X+dx, l.Y+dy, l.Width, l.Height)
	radii := cornerRadii(style, w.painter.Device.RootFont)

	w.paintBoxDecoration(node, style, box, radii)
	w.stats.Boxes++

	clipped := false
	if style.ClipsOverflow() {
		clipped = w.pushClip(clipShape(box, radii))
	}

	cdx, cdy := dx-node.ScrollX, dy-node.ScrollY
	w.paintInlineContent(node, style, cdx, cdy)
	w.paintChildrenOf(node, cdx, cdy)

	if clipped {
		w.popClip()
	}
	w.paintInsetShadows(style, box, radii)
	if grouped {
		w.sink.PopLayer()
	}
}

func clipShape(box scene.Rect, radii scene.CornerRadii) scene.Shape {
	if radii.IsZero() {
		return box
	}
	return scene.RoundedRect{Rect: box, Radii: radii}
}

func cornerRadii(style *css.Style, rem float64) scene.CornerRadii {
	tl, tr, br, bl := style.BorderRadii(rem)
	return scene.CornerRadii{TopLeft: tl, TopRight: tr, BottomRight: br, BottomLeft: bl}
}

var emptyStyle = css.NewStyle()

func styleOf(n *dom.Node) *css.Style {
	if n.Style != nil {
		return n.Style
	}
	return emptyStyle
}

func sceneColor(c css.Color) scene.Color {
	return scene.RGBA8(c.R, c.G, c.B, c.A)
}
