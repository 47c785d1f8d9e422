package dom

import "vireo/pkg/css"

// facet adapts a tree node to the selector engine's opaque Element
// interface. The matcher never sees ids or arena internals.
type facet struct {
	tree *Tree
	id   NodeID
}

// ElementFacet returns the selector-matching facet for an element node.
// Non-element ids return nil.
func (t *Tree) ElementFacet(id NodeID) css.Element {
	n := t.arena.Lookup(id)
	if n == nil || !n.IsElement() {
		return nil
	}
	return facet{tree: t, id: id}
}

func (f facet) node() *Node { return f.tree.arena.Get(f.id) }

// TagName implements css.Element.
func (f facet) TagName() string { return f.node().TagName() }

// Attr implements css.Element.
func (f facet) Attr(name string) (string, bool) { return f.node().Attr(name) }

// ParentElement implements css.Element. The document root is not an
// element, so the html element reports a nil parent.
func (f facet) ParentElement() css.Element {
	parent := f.node().Parent
	for parent != NoNode {
		n := f.tree.arena.Get(parent)
		if n.IsElement() {
			return facet{tree: f.tree, id: parent}
		}
		parent = n.Parent
	}
	return nil
}

// PrevSiblingElement implements css.Element.
func (f facet) PrevSiblingElement() css.Element {
	n := f.node()
	if n.Parent == NoNode {
		return nil
	}
	siblings := f.tree.arena.Get(n.Parent).Children
	var prev NodeID = NoNode
	for _, sib := range siblings {
		if sib == f.id {
			break
		}
		if f.tree.arena.Get(sib).IsElement() {
			prev = sib
		}
	}
	if prev == NoNode {
		return nil
	}
	return facet{tree: f.tree, id: prev}
}

// IsFirstChild implements css.Element.
func (f facet) IsFirstChild() bool {
	n := f.node()
	if n.Parent == NoNode {
		return true
	}
	for _, sib := range f.tree.arena.Get(n.Parent).Children {
		if f.tree.arena.Get(sib).IsElement() {
			return sib == f.id
		}
	}
	return false
}

// IsLastChild implements css.Element.
func (f facet) IsLastChild() bool {
	n := f.node()
	if n.Parent == NoNode {
		return true
	}
	siblings := f.tree.arena.Get(n.Parent).Children
	for i := len(siblings) - 1; i >= 0; i-- {
		if f.tree.arena.Get(siblings[i]).IsElement() {
			return siblings[i] == f.id
		}
	}
	return false
}

// Hovered implements css.Element.
func (f facet) Hovered() bool { return f.node().HasFlag(FlagHover) }

// Focused implements css.Element.
func (f facet) Focused() bool { return f.node().HasFlag(FlagFocus) }

// Active implements css.Element.
func (f facet) Active() bool { return f.node().HasFlag(FlagActive) }
