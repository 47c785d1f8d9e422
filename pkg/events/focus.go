package events

import (
	"sort"
	"strconv"

	"vireo/pkg/dom"
)

// Focusable reports whether a node can receive focus: form controls,
// links with an href, and anything carrying a non-negative tabindex.
func Focusable(tree *dom.Tree, id dom.NodeID) bool {
	node := tree.Lookup(id)
	if node == nil || !node.IsElement() {
		return false
	}
	if v, ok := node.Attr("tabindex"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n >= 0
		}
	}
	if _, ok := node.Attr("disabled"); ok {
		return false
	}
	switch node.TagName() {
	case "input", "textarea", "select", "button":
		return true
	case "a":
		_, ok := node.Attr("href")
		return ok
	}
	return false
}

// FocusTarget walks up from id to the nearest focusable ancestor, or
// NoNode when the chain has none.
func FocusTarget(tree *dom.Tree, id dom.NodeID) dom.NodeID {
	for _, cur := range tree.NodeChain(id) {
		if Focusable(tree, cur) {
			return cur
		}
	}
	return dom.NoNode
}

// moveFocus transfers focus and fires the derived sequence on the old
// and new holders: blur, focusout, focus, focusin. Blur and focus do
// not bubble; focusout and focusin do.
func (p *Pipeline) moveFocus(id dom.NodeID) {
	prev := p.tree.Focus()
	if prev == id {
		return
	}
	p.tree.SetFocus(id)
	if prev != dom.NoNode && p.tree.Alive(prev) {
		p.dispatch(&Event{Kind: Blur, Target: prev}, false)
		p.dispatch(&Event{Kind: FocusOut, Target: prev}, true)
	}
	if id != dom.NoNode {
		p.dispatch(&Event{Kind: Focus, Target: id}, false)
		p.dispatch(&Event{Kind: FocusIn, Target: id}, true)
	}
	p.endComposition()
}

// tabOrder lists focusable nodes in tab order: positive tabindex values
// ascending (document order breaking ties), then tabindex zero and
// naturally focusable nodes in document order.
func tabOrder(tree *dom.Tree) []dom.NodeID {
	type entry struct {
		id    dom.NodeID
		index int
		order int
	}
	var positive, natural []entry
	seq := 0
	tree.VisitDepthFirst(tree.Root(), func(n *dom.Node) bool {
		seq++
		if !Focusable(tree, n.ID) {
			return true
		}
		ti := 0
		if v, ok := n.Attr("tabindex"); ok {
			if parsed, err := strconv.Atoi(v); err == nil {
				ti = parsed
			}
		}
		e := entry{id: n.ID, index: ti, order: seq}
		if ti > 0 {
			positive = append(positive, e)
		} else {
			natural = append(natural, e)
		}
		return true
	})
	sort.SliceStable(positive, func(i, j int) bool {
		if positive[i].index != positive[j].index {
			return positive[i].index < positive[j].index
		}
		return positive[i].order < positive[j].order
	})
	out := make([]dom.NodeID, 0, len(positive)+len(natural))
	for _, e := range positive {
		out = append(out, e.id)
	}
	for _, e := range natural {
		out = append(out, e.id)
	}
	return out
}

// advanceFocus moves focus to the next (or previous) node in tab order,
// wrapping around; with nothing focused it starts at the first entry.
func (p *Pipeline) advanceFocus(backward bool) {
	order := tabOrder(p.tree)
	if len(order) == 0 {
		p.moveFocus(dom.NoNode)
		return
	}
	cur := p.tree.Focus()
	pos := -1
	for i, id := range order {
		if id == cur {
			pos = i
			break
		}
	}
	var next dom.NodeID
	switch {
	case pos == -1 && backward:
		next = order[len(order)-1]
	case pos == -1:
		next = order[0]
	case backward:
		next = order[(pos-1+len(order))%len(order)]
	default:
		next = order[(pos+1)%len(order)]
	}
	p.moveFocus(next)
}
