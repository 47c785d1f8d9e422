// Package layout computes final boxes for a document tree. It consumes
// computed styles and writes border-box geometry, scroll extents and
// inline line boxes back onto the nodes; it never touches styles or
// tree structure itself.
package layout

import (
	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/text"
)

// maxContentAvail stands in for an unconstrained available width during
// shrink-to-fit measurement passes.
const maxContentAvail = 1 << 20

// InlineContent is what the builder caches on an inline-root element:
// one run for a pure inline root, several for a block whose children mix
// blocks with anonymous inline runs. Run offsets are relative to the
// element's content box.
type InlineContent struct {
	Runs []InlineRun
}

// InlineRun is one inline formatting context within a block.
type InlineRun struct {
	Y      float64
	Layout *InlineLayout
}

// ContentFor returns the cached inline content of an element, or nil.
func ContentFor(node *dom.Node) *InlineContent {
	el := node.Element()
	if el == nil {
		return nil
	}
	ic, _ := el.InlineCache.(*InlineContent)
	return ic
}

// Engine runs block and inline layout over a tree. Fonts may be nil;
// text then measures with synthetic metrics, which keeps layout
// deterministic in tests and headless setups without font files.
type Engine struct {
	Fonts  *text.Context
	Device css.Device

	emptyStyle *css.Style
}

// New returns a layout engine for the given font context and device.
func New(fonts *text.Context, dev css.Device) *Engine {
	return &Engine{Fonts: fonts, Device: dev, emptyStyle: css.NewStyle()}
}

func (e *Engine) styleOf(n *dom.Node) *css.Style {
	if n.Style != nil {
		return n.Style
	}
	return e.emptyStyle
}

func (e *Engine) resolveFace(style *css.Style) *text.Source {
	if e.Fonts == nil || !e.Fonts.HasFonts() {
		return nil
	}
	return e.Fonts.Resolve(style.FontFamilies(), style.FontWeight(), style.IsItalic())
}

func (e *Engine) shaper() text.Shaper {
	if e.Fonts != nil {
		return e.Fonts.Shaper()
	}
	return text.BuiltinShaper{}
}

// Layout computes final boxes for the whole tree against the engine's
// device viewport. The document node receives the viewport box with
// scroll extents covering the laid-out content.
func (e *Engine) Layout(tree *dom.Tree) {
	root := tree.Get(tree.Root())
	vw, vh := e.Device.Width, e.Device.Height

	y := 0.0
	maxRight := 0.0
	for _, c := range root.Children {
		child := tree.Get(c)
		if !child.IsElement() {
			child.LayoutValid = false
			continue
		}
		y = e.layoutBlock(tree, c, 0, vw, vh, y)
		if child.LayoutValid {
			if r := child.Layout.X + child.Layout.Width; r > maxRight {
				maxRight = r
			}
		}
	}

	root.Layout = dom.FinalLayout{
		Width:        vw,
		Height:       vh,
		ScrollWidth:  maxf(vw, maxRight),
		ScrollHeight: maxf(vh, y),
	}
	root.LayoutValid = true
	root.ClearFlag(dom.FlagLayoutDirty)
}

// layoutBlock lays out one block-level node below y within a containing
// block at cbX with width cbWidth, returning the flow position after the
// node's bottom margin. cbHeight resolves percentage heights; pass 0
// when the containing height is not definite.
func (e *Engine) layoutBlock(tree *dom.Tree, id dom.NodeID, cbX, cbWidth, cbHeight, y float64) float64 {
	node := tree.Get(id)
	if node.IsText() {
		// bare text between blocks gets an anonymous single-run context
		return e.layoutAnonymousRun(tree, node.Parent, []dom.NodeID{id}, cbX, cbWidth, y)
	}
	if !node.IsElement() {
		node.LayoutValid = false
		return y
	}

	style := e.styleOf(node)
	switch style.Display() {
	case css.DisplayNone:
		e.invalidateSubtree(tree, id)
		return y
	case css.DisplayContents:
		node.LayoutValid = false
		node.ClearFlag(dom.FlagLayoutDirty)
		for _, c := range node.Children {
			y = e.layoutBlock(tree, c, cbX, cbWidth, cbHeight, y)
		}
		return y
	}

	rem := e.Device.RootFont
	em := style.FontSize(rem)
	margin := style.Margin(cbWidth, rem)
	border := style.BorderWidth(rem)
	padding := style.Padding(cbWidth, rem)
	el := node.Element()

	var contentW, contentH float64
	heightSet := false
	if el != nil && el.Replaced != nil {
		contentW, contentH = ReplacedSize(style, node, cbWidth, rem, nil, nil)
		heightSet = true
	} else {
		if l, ok := style.GetLength("width"); ok && l.Unit != css.UnitAuto {
			contentW = l.Resolve(cbWidth, em, rem, 0)
		} else {
			contentW = cbWidth - margin.Horizontal() - border.Horizontal() - padding.Horizontal()
		}
		if contentW < 0 {
			contentW = 0
		}
		contentW = clampAxis(style, "width", contentW, cbWidth, rem)
		if l, ok := style.GetLength("height"); ok && l.Unit != css.UnitAuto {
			if l.Unit == css.UnitPercent && cbHeight <= 0 {
				heightSet = false
			} else {
				contentH = l.Resolve(cbHeight, em, rem, 0)
				heightSet = true
			}
		}
	}

	x := cbX + margin.Left
	top := y + margin.Top
	contentX := x + border.Left + padding.Left
	contentY := top + border.Top + padding.Top

	flowH, scrollW, scrollH, baseline := e.layoutChildren(tree, node, contentX, contentY, contentW, contentH, heightSet)
	if !heightSet {
		contentH = flowH
	}
	contentH = clampAxis(style, "height", contentH, cbHeight, rem)

	node.Layout = dom.FinalLayout{
		X:            x,
		Y:            top,
		Width:        contentW + border.Horizontal() + padding.Horizontal(),
		Height:       contentH + border.Vertical() + padding.Vertical(),
		Border:       border,
		Padding:      padding,
		ScrollWidth:  maxf(contentW, scrollW) + padding.Horizontal(),
		ScrollHeight: maxf(contentH, scrollH) + padding.Vertical(),
		Baseline:     border.Top + padding.Top + baseline,
	}
	node.LayoutValid = true
	node.ClearFlag(dom.FlagLayoutDirty)

	if style.Position() == css.PositionRelative {
		dx := style.GetPx("left", cbWidth, rem, 0) - style.GetPx("right", cbWidth, rem, 0)
		dy := style.GetPx("top", cbHeight, rem, 0) - style.GetPx("bottom", cbHeight, rem, 0)
		if dx != 0 || dy != 0 {
			offsetSubtree(tree, id, dx, dy)
		}
	}

	return top + node.Layout.Height + margin.Bottom
}

// layoutChildren lays out the in-flow content of a block and returns the
// resulting content height, scrollable extents and first baseline.
func (e *Engine) layoutChildren(tree *dom.Tree, node *dom.Node, contentX, contentY, contentW, contentH float64, heightSet bool) (flowH, scrollW, scrollH, baseline float64) {
	el := node.Element()
	if el != nil && el.Replaced != nil {
		if heightSet {
			return contentH, contentW, contentH, contentH
		}
		return 0, contentW, 0, 0
	}

	inFlow, absolute := e.partitionChildren(tree, node)

	if len(inFlow) > 0 && e.allInline(tree, inFlow) {
		ic := e.inlineContentFor(tree, node, inFlow, contentW)
		il := ic.Runs[0].Layout
		e.placeInlineBoxes(tree, il, contentX, contentY)
		flowH = il.Height
		scrollW = il.Width
		scrollH = il.Height
		baseline = il.FirstBaseline()
	} else {
		flowH, scrollW, scrollH, baseline = e.layoutMixed(tree, node, inFlow, contentX, contentY, contentW)
	}

	for _, c := range absolute {
		e.layoutPositioned(tree, c, contentX, contentY, contentW, contentH)
	}
	return flowH, scrollW, scrollH, baseline
}

// partitionChildren splits children into in-flow nodes and out-of-flow
// positioned nodes, dropping display:none subtrees and non-rendered
// node kinds.
func (e *Engine) partitionChildren(tree *dom.Tree, node *dom.Node) (inFlow, absolute []dom.NodeID) {
	for _, c := range node.Children {
		child := tree.Get(c)
		if child.IsText() {
			inFlow = append(inFlow, c)
			continue
		}
		if !child.IsElement() {
			child.LayoutValid = false
			continue
		}
		style := e.styleOf(child)
		if style.Display() == css.DisplayNone {
			e.invalidateSubtree(tree, c)
			continue
		}
		switch style.Position() {
		case css.PositionAbsolute, css.PositionFixed:
			absolute = append(absolute, c)
		default:
			inFlow = append(inFlow, c)
		}
	}
	return inFlow, absolute
}

func (e *Engine) allInline(tree *dom.Tree, ids []dom.NodeID) bool {
	for _, id := range ids {
		if !e.isInlineLevel(tree, id) {
			return false
		}
	}
	return true
}

// inlineContentFor returns the cached inline layout for a pure inline
// root, rebuilding it when the cache is empty or was built for a
// different available width.
func (e *Engine) inlineContentFor(tree *dom.Tree, node *dom.Node, children []dom.NodeID, availWidth float64) *InlineContent {
	el := node.Element()
	if el != nil {
		if ic, ok := el.InlineCache.(*InlineContent); ok && len(ic.Runs) == 1 &&
			ic.Runs[0].Layout.AvailWidth == availWidth && !node.HasFlag(dom.FlagLayoutDirty) {
			return ic
		}
	}
	il := e.buildInline(tree, node.ID, children, availWidth)
	ic := &InlineContent{Runs: []InlineRun{{Layout: il}}}
	if el != nil {
		node.SetFlag(dom.FlagInlineRoot)
		el.InlineCache = ic
	}
	return ic
}

// layoutMixed handles a block whose children mix blocks with inline
// content. Contiguous inline-level children form anonymous inline runs.
func (e *Engine) layoutMixed(tree *dom.Tree, node *dom.Node, inFlow []dom.NodeID, contentX, contentY, contentW float64) (flowH, scrollW, scrollH, baseline float64) {
	cy := contentY
	haveBaseline := false
	var runs []InlineRun

	var group []dom.NodeID
	flushGroup := func() {
		if len(group) == 0 {
			return
		}
		il := e.buildInline(tree, node.ID, group, contentW)
		e.placeInlineBoxes(tree, il, contentX, cy)
		runs = append(runs, InlineRun{Y: cy - contentY, Layout: il})
		if !haveBaseline && len(il.Lines) > 0 {
			baseline = cy - contentY + il.FirstBaseline()
			haveBaseline = true
		}
		if il.Width > scrollW {
			scrollW = il.Width
		}
		cy += il.Height
		group = group[:0]
	}

	for _, c := range inFlow {
		child := tree.Get(c)
		if child.IsText() && isWhitespaceOnly(child.Text().Text) {
			continue
		}
		if e.isInlineLevel(tree, c) {
			group = append(group, c)
			continue
		}
		flushGroup()
		cy = e.layoutBlock(tree, c, contentX, contentW, 0, cy)
		if child.LayoutValid {
			if !haveBaseline {
				baseline = child.Layout.Y - contentY + child.Layout.Baseline
				haveBaseline = true
			}
			if r := child.Layout.X + child.Layout.Width - contentX; r > scrollW {
				scrollW = r
			}
		}
	}
	flushGroup()

	flowH = cy - contentY
	scrollH = flowH
	if !haveBaseline {
		baseline = flowH
	}
	if el := node.Element(); el != nil && len(runs) > 0 {
		node.SetFlag(dom.FlagInlineRoot)
		el.InlineCache = &InlineContent{Runs: runs}
	}
	return flowH, scrollW, scrollH, baseline
}

// layoutAnonymousRun lays out stray inline content that appears directly
// in block flow without an element wrapper.
func (e *Engine) layoutAnonymousRun(tree *dom.Tree, parent dom.NodeID, ids []dom.NodeID, cbX, cbWidth, y float64) float64 {
	if parent == dom.NoNode {
		return y
	}
	il := e.buildInline(tree, parent, ids, cbWidth)
	e.placeInlineBoxes(tree, il, cbX, y)
	return y + il.Height
}

// layoutAtomicInline sizes and lays out an inline-level box (replaced
// element or inline-block) at origin zero; the line builder moves it to
// its final position afterwards. Returns the border-box size including
// borders and padding.
func (e *Engine) layoutAtomicInline(tree *dom.Tree, id dom.NodeID, availWidth float64) (w, h float64) {
	node := tree.Get(id)
	style := e.styleOf(node)
	rem := e.Device.RootFont

	if _, ok := style.GetLength("width"); !ok {
		if el := node.Element(); el == nil || el.Replaced == nil {
			// shrink-to-fit: measure at an unconstrained width, then
			// relayout at the preferred width clamped to the line
			e.layoutBlock(tree, id, 0, maxContentAvail, 0, 0)
			pref := e.naturalWidth(tree, id)
			avail := availWidth - style.Margin(0, rem).Horizontal()
			forced := minf(pref, maxf(avail, 0))
			inner := forced - node.Layout.Border.Horizontal() - node.Layout.Padding.Horizontal()
			style = style.Clone()
			style.Set("width", css.FormatPx(maxf(inner, 0)))
			saved := node.Style
			node.Style = style
			e.layoutBlock(tree, id, 0, maxContentAvail, 0, 0)
			node.Style = saved
			return node.Layout.Width, node.Layout.Height
		}
	}
	e.layoutBlock(tree, id, 0, availWidth, 0, 0)
	if !node.LayoutValid {
		return 0, 0
	}
	return node.Layout.Width, node.Layout.Height
}

// naturalWidth reports the max-content border-box width of a node laid
// out against an unconstrained containing block.
func (e *Engine) naturalWidth(tree *dom.Tree, id dom.NodeID) float64 {
	node := tree.Get(id)
	if !node.LayoutValid {
		return 0
	}
	style := e.styleOf(node)
	edges := node.Layout.Border.Horizontal() + node.Layout.Padding.Horizontal()
	if _, ok := style.GetLength("width"); ok {
		return node.Layout.Width
	}
	if el := node.Element(); el != nil && el.Replaced != nil {
		return node.Layout.Width
	}
	if ic := ContentFor(node); ic != nil {
		w := 0.0
		for _, run := range ic.Runs {
			if run.Layout.Width > w {
				w = run.Layout.Width
			}
		}
		return w + edges
	}
	w := 0.0
	for _, c := range node.Children {
		child := tree.Get(c)
		if !child.IsElement() || !child.LayoutValid {
			continue
		}
		if cw := e.naturalWidth(tree, c); cw > w {
			w = cw
		}
	}
	return w + edges
}

// layoutPositioned lays out an absolute or fixed child against its
// containing block (the parent content box, or the viewport for fixed).
func (e *Engine) layoutPositioned(tree *dom.Tree, id dom.NodeID, contentX, contentY, contentW, contentH float64) {
	node := tree.Get(id)
	style := e.styleOf(node)
	rem := e.Device.RootFont

	cbX, cbY, cbW, cbH := contentX, contentY, contentW, contentH
	if style.Position() == css.PositionFixed {
		cbX, cbY, cbW, cbH = 0, 0, e.Device.Width, e.Device.Height
	}

	e.layoutBlock(tree, id, cbX, cbW, cbH, cbY)
	if !node.LayoutValid {
		return
	}

	x, y := node.Layout.X, node.Layout.Y
	if v, ok := style.GetLength("left"); ok && v.Unit != css.UnitAuto {
		x = cbX + v.Resolve(cbW, style.FontSize(rem), rem, 0)
	} else if v, ok := style.GetLength("right"); ok && v.Unit != css.UnitAuto {
		x = cbX + cbW - v.Resolve(cbW, style.FontSize(rem), rem, 0) - node.Layout.Width
	}
	if v, ok := style.GetLength("top"); ok && v.Unit != css.UnitAuto {
		y = cbY + v.Resolve(cbH, style.FontSize(rem), rem, 0)
	} else if v, ok := style.GetLength("bottom"); ok && v.Unit != css.UnitAuto {
		y = cbY + cbH - v.Resolve(cbH, style.FontSize(rem), rem, 0) - node.Layout.Height
	}
	offsetSubtree(tree, id, x-node.Layout.X, y-node.Layout.Y)
}

// placeInlineBoxes moves atomic inline boxes from builder-relative
// coordinates to absolute positions under the content-box origin.
func (e *Engine) placeInlineBoxes(tree *dom.Tree, il *InlineLayout, contentX, contentY float64) {
	for li := range il.Lines {
		line := &il.Lines[li]
		for fi := range line.Fragments {
			frag := &line.Fragments[fi]
			if frag.Kind != FragmentBox {
				continue
			}
			node := tree.Get(frag.Node)
			if !node.LayoutValid {
				continue
			}
			targetX := contentX + frag.X
			targetY := contentY + line.Y + frag.Y
			offsetSubtree(tree, frag.Node, targetX-node.Layout.X, targetY-node.Layout.Y)
		}
	}
}

// invalidateSubtree marks a non-rendered subtree as having no boxes.
func (e *Engine) invalidateSubtree(tree *dom.Tree, id dom.NodeID) {
	tree.VisitDepthFirst(id, func(n *dom.Node) bool {
		n.LayoutValid = false
		n.ClearFlag(dom.FlagLayoutDirty)
		return true
	})
}

// offsetSubtree shifts a node and every laid-out descendant by (dx, dy).
func offsetSubtree(tree *dom.Tree, id dom.NodeID, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	tree.VisitDepthFirst(id, func(n *dom.Node) bool {
		if n.LayoutValid {
			n.Layout.X += dx
			n.Layout.Y += dy
		}
		return true
	})
}
