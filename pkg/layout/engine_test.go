package layout

import (
	"math"
	"testing"

	"vireo/pkg/css"
	"vireo/pkg/dom"
)

func testDevice() css.Device {
	return css.Device{Width: 800, Height: 600, Scale: 1, RootFont: 16}
}

func styleWith(props map[string]string) *css.Style {
	s := css.NewStyle()
	for k, v := range props {
		css.ExpandShorthand(s, k, v)
	}
	return s
}

func addElement(tree *dom.Tree, parent dom.NodeID, tag string, props map[string]string) dom.NodeID {
	m := tree.Mutate()
	id := m.CreateElement(tag)
	m.AppendChild(parent, id)
	tree.Get(id).Style = styleWith(props)
	return id
}

func addText(tree *dom.Tree, parent dom.NodeID, text string) dom.NodeID {
	m := tree.Mutate()
	id := m.CreateTextNode(text)
	m.AppendChild(parent, id)
	return id
}

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestBlockWidths(t *testing.T) {
	tests := []struct {
		name      string
		props     map[string]string
		wantWidth float64
	}{
		{"auto fills containing block", map[string]string{}, 800},
		{"percent of viewport", map[string]string{"width": "50%"}, 400},
		{"fixed px", map[string]string{"width": "120px"}, 120},
		{"margins shrink auto width", map[string]string{"margin": "10px"}, 780},
		{"padding grows border box", map[string]string{"width": "100px", "padding": "5px"}, 110},
		{"max-width clamps", map[string]string{"width": "500px", "max-width": "300px"}, 300},
		{"min-width clamps", map[string]string{"width": "10px", "min-width": "60px"}, 60},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := dom.NewTree()
			body := addElement(tree, tree.Root(), "body", nil)
			div := addElement(tree, body, "div", tc.props)
			addElement(tree, div, "p", map[string]string{"height": "10px"})

			New(nil, testDevice()).Layout(tree)

			got := tree.Get(div).Layout.Width
			if !approx(got, tc.wantWidth) {
				t.Errorf("width = %v, want %v", got, tc.wantWidth)
			}
		})
	}
}

func TestBlockFlowStacksChildren(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	a := addElement(tree, body, "div", map[string]string{"height": "30px"})
	b := addElement(tree, body, "div", map[string]string{"height": "50px", "margin-top": "10px"})

	New(nil, testDevice()).Layout(tree)

	la, lb := tree.Get(a).Layout, tree.Get(b).Layout
	if la.Y != 0 || la.Height != 30 {
		t.Errorf("first child at y=%v h=%v, want 0/30", la.Y, la.Height)
	}
	if lb.Y != 40 {
		t.Errorf("second child y = %v, want 40", lb.Y)
	}
	if got := tree.Get(body).Layout.Height; got != 90 {
		t.Errorf("parent auto height = %v, want 90", got)
	}
}

func TestDisplayNoneProducesNoBox(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	hidden := addElement(tree, body, "div", map[string]string{"display": "none", "height": "100px"})
	inner := addElement(tree, hidden, "p", map[string]string{"height": "40px"})
	after := addElement(tree, body, "div", map[string]string{"height": "20px"})

	New(nil, testDevice()).Layout(tree)

	if tree.Get(hidden).LayoutValid || tree.Get(inner).LayoutValid {
		t.Error("display:none subtree should have no valid boxes")
	}
	if got := tree.Get(after).Layout.Y; got != 0 {
		t.Errorf("sibling after display:none at y = %v, want 0", got)
	}
}

func TestDisplayContentsPromotesChildren(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	wrapper := addElement(tree, body, "div", map[string]string{"display": "contents"})
	inner := addElement(tree, wrapper, "div", map[string]string{"height": "25px"})

	New(nil, testDevice()).Layout(tree)

	if tree.Get(wrapper).LayoutValid {
		t.Error("display:contents element should have no box")
	}
	l := tree.Get(inner).Layout
	if l.Y != 0 || !approx(l.Width, 800) {
		t.Errorf("promoted child box = (%v, %v), want y=0 width=800", l.Y, l.Width)
	}
}

func TestReplacedSizing(t *testing.T) {
	tests := []struct {
		name       string
		intW, intH float64
		attrs      map[string]string
		props      map[string]string
		wantW      float64
		wantH      float64
	}{
		{"intrinsic only", 320, 240, nil, nil, 320, 240},
		{"attr dimensions win over intrinsic", 320, 240, map[string]string{"width": "100", "height": "50"}, nil, 100, 50},
		{"attr dimensions without intrinsic", 0, 0, map[string]string{"width": "100", "height": "50"}, nil, 100, 50},
		{"style beats attrs, ratio from attrs", 0, 0, map[string]string{"width": "100", "height": "50"}, map[string]string{"width": "200px"}, 200, 100},
		{"style width ignores attr height", 320, 240, map[string]string{"height": "50"}, map[string]string{"width": "160px"}, 160, 120},
		{"style width keeps intrinsic ratio", 320, 240, nil, map[string]string{"width": "160px"}, 160, 120},
		{"style height keeps intrinsic ratio", 320, 240, nil, map[string]string{"height": "60px"}, 80, 60},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := dom.NewTree()
			body := addElement(tree, tree.Root(), "body", nil)
			img := addElement(tree, body, "img", tc.props)
			m := tree.Mutate()
			for k, v := range tc.attrs {
				m.SetAttribute(img, k, v)
			}
			m.SetReplacedContent(img, &dom.ReplacedContent{
				Kind:            dom.ReplacedImage,
				IntrinsicWidth:  tc.intW,
				IntrinsicHeight: tc.intH,
			})

			New(nil, testDevice()).Layout(tree)

			l := tree.Get(img).Layout
			if !approx(l.Width, tc.wantW) || !approx(l.Height, tc.wantH) {
				t.Errorf("size = %vx%v, want %vx%v", l.Width, l.Height, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestReplacedMaxWidthKeepsRatio(t *testing.T) {
	// max-width clips the intrinsic size; height follows the ratio
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	img := addElement(tree, body, "img", map[string]string{"max-width": "320px"})
	tree.Mutate().SetReplacedContent(img, &dom.ReplacedContent{
		Kind:            dom.ReplacedImage,
		IntrinsicWidth:  640,
		IntrinsicHeight: 480,
	})

	New(nil, testDevice()).Layout(tree)

	l := tree.Get(img).Layout
	if !approx(l.Width, 320) || !approx(l.Height, 240) {
		t.Errorf("size = %vx%v, want 320x240", l.Width, l.Height)
	}
}

func TestObjectFitRect(t *testing.T) {
	// 100x50 box, 40x40 intrinsic content
	tests := []struct {
		fit        css.ObjectFit
		x, y, w, h float64
	}{
		{css.ObjectFitFill, 0, 0, 100, 50},
		{css.ObjectFitContain, 25, 0, 50, 50},
		{css.ObjectFitCover, 0, -25, 100, 100},
		{css.ObjectFitNone, 30, 5, 40, 40},
		{css.ObjectFitScaleDown, 30, 5, 40, 40},
	}
	for _, tc := range tests {
		t.Run(string(tc.fit), func(t *testing.T) {
			x, y, w, h := ObjectFitRect(tc.fit, 100, 50, 40, 40)
			if !approx(x, tc.x) || !approx(y, tc.y) || !approx(w, tc.w) || !approx(h, tc.h) {
				t.Errorf("rect = (%v,%v %vx%v), want (%v,%v %vx%v)", x, y, w, h, tc.x, tc.y, tc.w, tc.h)
			}
		})
	}
	t.Run("scale-down shrinks oversized content", func(t *testing.T) {
		_, _, w, h := ObjectFitRect(css.ObjectFitScaleDown, 100, 50, 200, 200)
		if !approx(w, 50) || !approx(h, 50) {
			t.Errorf("size = %vx%v, want 50x50", w, h)
		}
	})
}

// Inline layout tests use px-exact synthetic metrics: with no fonts
// registered every character advances half the font size, ascent is 0.8
// and descent 0.2 of it.

func inlineProps(extra map[string]string) map[string]string {
	props := map[string]string{"font-size": "10px", "line-height": "10px"}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func TestInlineWrapping(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	p := addElement(tree, body, "p", inlineProps(map[string]string{"width": "50px"}))
	addText(tree, p, "hello world")

	New(nil, testDevice()).Layout(tree)

	node := tree.Get(p)
	if !node.HasFlag(dom.FlagInlineRoot) {
		t.Fatal("paragraph with only text should be an inline root")
	}
	ic := ContentFor(node)
	if ic == nil || len(ic.Runs) != 1 {
		t.Fatal("expected one cached inline run")
	}
	il := ic.Runs[0].Layout
	// "hello" is 25px, the space 5px, "world" 25px: 55 > 50 so it wraps
	if len(il.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(il.Lines))
	}
	if !approx(il.Lines[0].Width, 25) || !approx(il.Lines[1].Width, 25) {
		t.Errorf("line widths = %v, %v, want 25 each", il.Lines[0].Width, il.Lines[1].Width)
	}
	if !approx(il.Height, 20) {
		t.Errorf("inline height = %v, want 20", il.Height)
	}
	if !approx(node.Layout.Height, 20) {
		t.Errorf("auto block height = %v, want 20", node.Layout.Height)
	}
}

func TestInlineNowrapAndBreaks(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	p := addElement(tree, body, "p", inlineProps(map[string]string{"width": "30px", "white-space": "nowrap"}))
	addText(tree, p, "one two")
	addElement(tree, p, "br", nil)
	addText(tree, p, "three")

	New(nil, testDevice()).Layout(tree)

	ic := ContentFor(tree.Get(p))
	if ic == nil {
		t.Fatal("no inline content")
	}
	il := ic.Runs[0].Layout
	if len(il.Lines) != 2 {
		t.Fatalf("lines = %d, want 2 (nowrap plus forced break)", len(il.Lines))
	}
	// "one two" does not wrap despite exceeding 30px
	if !approx(il.Lines[0].Width, 35) {
		t.Errorf("first line width = %v, want 35", il.Lines[0].Width)
	}
}

func TestInlineWhitespaceCollapsing(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	p := addElement(tree, body, "p", inlineProps(nil))
	addText(tree, p, "  a \n\t b  ")

	New(nil, testDevice()).Layout(tree)

	il := ContentFor(tree.Get(p)).Runs[0].Layout
	if len(il.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(il.Lines))
	}
	// collapses to "a b": 15px
	if !approx(il.Lines[0].Width, 15) {
		t.Errorf("line width = %v, want 15", il.Lines[0].Width)
	}
}

func TestInlinePreservedNewlines(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	p := addElement(tree, body, "p", inlineProps(map[string]string{"white-space": "pre"}))
	addText(tree, p, "a\nbb\nccc")

	New(nil, testDevice()).Layout(tree)

	il := ContentFor(tree.Get(p)).Runs[0].Layout
	if len(il.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(il.Lines))
	}
	if !approx(il.Lines[2].Width, 15) {
		t.Errorf("last line width = %v, want 15", il.Lines[2].Width)
	}
}

func TestInlineTextAlign(t *testing.T) {
	for _, tc := range []struct {
		align string
		wantX float64
	}{
		{"left", 0},
		{"center", 37.5},
		{"right", 75},
	} {
		t.Run(tc.align, func(t *testing.T) {
			tree := dom.NewTree()
			body := addElement(tree, tree.Root(), "body", nil)
			p := addElement(tree, body, "p", inlineProps(map[string]string{"width": "100px", "text-align": tc.align}))
			addText(tree, p, "hello")

			New(nil, testDevice()).Layout(tree)

			il := ContentFor(tree.Get(p)).Runs[0].Layout
			if len(il.Lines) != 1 || len(il.Lines[0].Fragments) != 1 {
				t.Fatal("expected a single fragment")
			}
			if got := il.Lines[0].Fragments[0].X; !approx(got, tc.wantX) {
				t.Errorf("fragment x = %v, want %v", got, tc.wantX)
			}
		})
	}
}

func TestAtomicInlineBoxOnLine(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	p := addElement(tree, body, "p", inlineProps(nil))
	addText(tree, p, "ab ")
	img := addElement(tree, p, "img", nil)
	tree.Mutate().SetReplacedContent(img, &dom.ReplacedContent{
		Kind:            dom.ReplacedImage,
		IntrinsicWidth:  20,
		IntrinsicHeight: 20,
	})

	New(nil, testDevice()).Layout(tree)

	node := tree.Get(img)
	if !node.LayoutValid {
		t.Fatal("atomic inline box should have a layout")
	}
	// text "ab " is 15px wide, so the image starts at x=15
	if !approx(node.Layout.X, 15) || !approx(node.Layout.Width, 20) {
		t.Errorf("image box = x=%v w=%v, want x=15 w=20", node.Layout.X, node.Layout.Width)
	}
	// the 20px box raises the line above the 10px text
	il := ContentFor(tree.Get(p)).Runs[0].Layout
	if il.Lines[0].Height < 20 {
		t.Errorf("line height = %v, want >= 20", il.Lines[0].Height)
	}
	if node.Layout.Y != 0 {
		t.Errorf("image top = %v, want 0 (bottom on baseline)", node.Layout.Y)
	}
}

func TestMixedBlockAndInlineChildren(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", inlineProps(nil))
	addText(tree, body, "intro")
	box := addElement(tree, body, "div", map[string]string{"height": "40px"})
	addText(tree, body, "outro")

	New(nil, testDevice()).Layout(tree)

	ic := ContentFor(tree.Get(body))
	if ic == nil || len(ic.Runs) != 2 {
		t.Fatalf("anonymous runs = %v, want 2", ic)
	}
	if !approx(ic.Runs[0].Y, 0) {
		t.Errorf("first run y = %v, want 0", ic.Runs[0].Y)
	}
	if got := tree.Get(box).Layout.Y; !approx(got, 10) {
		t.Errorf("block child y = %v, want 10 (below first text run)", got)
	}
	if !approx(ic.Runs[1].Y, 50) {
		t.Errorf("second run y = %v, want 50", ic.Runs[1].Y)
	}
	if got := tree.Get(body).Layout.Height; !approx(got, 60) {
		t.Errorf("container height = %v, want 60", got)
	}
}

func TestInlineCacheReuseAndInvalidation(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	p := addElement(tree, body, "p", inlineProps(nil))
	txt := addText(tree, p, "hello")

	eng := New(nil, testDevice())
	eng.Layout(tree)
	tree.ClearDirty()

	first := ContentFor(tree.Get(p))
	eng.Layout(tree)
	if ContentFor(tree.Get(p)) != first {
		t.Error("clean relayout should reuse the inline cache")
	}

	tree.Mutate().SetText(txt, "changed")
	if ContentFor(tree.Get(p)) != nil {
		t.Fatal("text mutation should clear the inline cache")
	}
	eng.Layout(tree)
	second := ContentFor(tree.Get(p))
	if second == nil || second == first {
		t.Error("relayout after mutation should rebuild the cache")
	}
}

func TestRelativeOffsetMovesSubtree(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	div := addElement(tree, body, "div", map[string]string{
		"position": "relative", "left": "10px", "top": "5px", "height": "30px",
	})
	inner := addElement(tree, div, "p", map[string]string{"height": "10px"})

	New(nil, testDevice()).Layout(tree)

	if l := tree.Get(div).Layout; !approx(l.X, 10) || !approx(l.Y, 5) {
		t.Errorf("relative box at (%v, %v), want (10, 5)", l.X, l.Y)
	}
	if l := tree.Get(inner).Layout; !approx(l.X, 10) || !approx(l.Y, 5) {
		t.Errorf("descendant at (%v, %v), want (10, 5)", l.X, l.Y)
	}
}

func TestAbsolutePositioning(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	rel := addElement(tree, body, "div", map[string]string{"position": "relative", "height": "200px"})
	abs := addElement(tree, rel, "div", map[string]string{
		"position": "absolute", "left": "20px", "top": "30px",
		"width": "50px", "height": "40px",
	})
	flow := addElement(tree, rel, "div", map[string]string{"height": "60px"})

	New(nil, testDevice()).Layout(tree)

	if l := tree.Get(abs).Layout; !approx(l.X, 20) || !approx(l.Y, 30) {
		t.Errorf("absolute box at (%v, %v), want (20, 30)", l.X, l.Y)
	}
	// out-of-flow box does not push the in-flow sibling down
	if got := tree.Get(flow).Layout.Y; !approx(got, 0) {
		t.Errorf("in-flow sibling y = %v, want 0", got)
	}
}

func TestScrollExtents(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	clip := addElement(tree, body, "div", map[string]string{
		"width": "100px", "height": "50px", "overflow": "hidden",
	})
	addElement(tree, clip, "div", map[string]string{"width": "300px", "height": "120px"})

	New(nil, testDevice()).Layout(tree)

	l := tree.Get(clip).Layout
	if l.Width != 100 || l.Height != 50 {
		t.Errorf("clip box = %vx%v, want 100x50", l.Width, l.Height)
	}
	if l.ScrollWidth < 300 || l.ScrollHeight < 120 {
		t.Errorf("scroll extents = %vx%v, want at least 300x120", l.ScrollWidth, l.ScrollHeight)
	}
}

func TestDocumentScrollExtents(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	addElement(tree, body, "div", map[string]string{"height": "2000px"})

	New(nil, testDevice()).Layout(tree)

	root := tree.Get(tree.Root())
	if root.Layout.Height != 600 {
		t.Errorf("viewport height = %v, want 600", root.Layout.Height)
	}
	if root.Layout.ScrollHeight < 2000 {
		t.Errorf("document scroll height = %v, want >= 2000", root.Layout.ScrollHeight)
	}
}
