package events

import (
	"sort"

	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/layout"
)

// HitTest finds the topmost element under the viewport point (x, y).
// Siblings are tried against paint order, topmost first, so the element
// a z-index lifts above its siblings is the one a click lands on.
// Overflow clips exclude content outside the clip box;
// pointer-events:none subtrees are transparent. Text is attributed to
// its nearest element ancestor. Returns NoNode when nothing is hit.
func HitTest(tree *dom.Tree, x, y float64) dom.NodeID {
	root := tree.Get(tree.Root())
	stacked := stackedChildren(tree, root)
	for i := len(stacked) - 1; i >= 0; i-- {
		if hit := hitNode(tree, stacked[i], x+root.ScrollX, y+root.ScrollY); hit != dom.NoNode {
			return hit
		}
	}
	return dom.NoNode
}

// stackedChildren returns a node's element children in stacking order,
// z-index ascending with document order breaking ties. The same order
// the painter walks; hit testing iterates it backwards.
func stackedChildren(tree *dom.Tree, node *dom.Node) []dom.NodeID {
	type entry struct {
		id dom.NodeID
		z  int
	}
	entries := make([]entry, 0, len(node.Children))
	for _, c := range node.Children {
		child := tree.Get(c)
		if !child.IsElement() {
			continue
		}
		z := 0
		if child.Style != nil {
			if zi, ok := child.Style.ZIndex(); ok {
				z = zi
			}
		}
		entries = append(entries, entry{id: c, z: z})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].z < entries[j].z })
	ids := make([]dom.NodeID, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

func hitNode(tree *dom.Tree, id dom.NodeID, x, y float64) dom.NodeID {
	node := tree.Get(id)
	if !node.IsElement() || !node.LayoutValid {
		return dom.NoNode
	}
	style := styleOrEmpty(node)
	if !style.PointerEvents() {
		return dom.NoNode
	}
	inside := node.Layout.Contains(x, y)
	if !inside && style.ClipsOverflow() {
		return dom.NoNode
	}

	// descendants see coordinates shifted by this box's scroll offset
	cx, cy := x+node.ScrollX, y+node.ScrollY
	stacked := stackedChildren(tree, node)
	for i := len(stacked) - 1; i >= 0; i-- {
		if hit := hitNode(tree, stacked[i], cx, cy); hit != dom.NoNode {
			return hit
		}
	}
	if !inside {
		return dom.NoNode
	}
	if hit := hitInlineFragment(tree, node, cx, cy); hit != dom.NoNode {
		return hit
	}
	return id
}

// hitInlineFragment resolves a point inside an inline root to the
// element owning the text fragment under it, so spans inside a block
// are hit even though they carry no box of their own.
func hitInlineFragment(tree *dom.Tree, node *dom.Node, x, y float64) dom.NodeID {
	ic := layout.ContentFor(node)
	if ic == nil {
		return dom.NoNode
	}
	lx := x - node.Layout.ContentX()
	ly := y - node.Layout.ContentY()
	for _, run := range ic.Runs {
		for _, line := range run.Layout.Lines {
			top := run.Y + line.Y
			if ly < top || ly >= top+line.Height {
				continue
			}
			for _, frag := range line.Fragments {
				if frag.Kind != layout.FragmentText {
					continue
				}
				if lx < frag.X || lx >= frag.X+frag.Run.Advance {
					continue
				}
				owner := elementAncestor(tree, frag.Node)
				if owner != node.ID && owner != dom.NoNode {
					return owner
				}
			}
		}
	}
	return dom.NoNode
}

func elementAncestor(tree *dom.Tree, id dom.NodeID) dom.NodeID {
	for cur := id; cur != dom.NoNode; {
		n := tree.Get(cur)
		if n.IsElement() {
			return cur
		}
		cur = n.Parent
	}
	return dom.NoNode
}

var emptyHitStyle = css.NewStyle()

func styleOrEmpty(n *dom.Node) *css.Style {
	if n.Style != nil {
		return n.Style
	}
	return emptyHitStyle
}
