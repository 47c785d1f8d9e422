package engine

import (
	"vireo/pkg/css"
	"vireo/pkg/dom"
)

// resolveStyles recomputes cached styles for every node flagged dirty,
// pruning clean subtrees via the descendants-dirty bit. A node whose
// recomputed style differs from its cache invalidates its layout and
// forces its children through the cascade again, since inherited values
// may have changed.
func (d *Document) resolveStyles() {
	if !d.tree.NeedsRestyle() {
		return
	}
	force := d.tree.NeedsFullRestyle()
	root := d.tree.Get(d.tree.Root())
	for _, c := range root.Children {
		d.styleNode(c, nil, force)
	}
	root.ClearFlag(dom.FlagDescendantsDirty)
}

func (d *Document) styleNode(id dom.NodeID, parent *css.Style, force bool) {
	node := d.tree.Get(id)
	if !node.IsElement() {
		node.ClearFlag(dom.FlagStyleDirty | dom.FlagDescendantsDirty)
		return
	}

	childForce := force
	if force || node.HasFlag(dom.FlagStyleDirty) {
		facet := d.tree.ElementFacet(id)
		style := css.ComputeStyle(facet, d.sheets, d.device, parent)
		if !style.Equal(node.Style) {
			node.Style = style
			node.PseudoStyles = d.pseudoStyles(facet, style)
			d.tree.InvalidateInlineCache(id)
			d.tree.MarkLayoutDirty(id)
			childForce = true
		}
		node.ClearFlag(dom.FlagStyleDirty)
	}

	if childForce || node.HasFlag(dom.FlagDescendantsDirty) {
		for _, c := range node.Children {
			d.styleNode(c, node.Style, childForce)
		}
	}
	node.ClearFlag(dom.FlagDescendantsDirty)
}

func (d *Document) pseudoStyles(facet css.Element, base *css.Style) map[string]*css.Style {
	var out map[string]*css.Style
	for _, pseudo := range []string{"before", "after"} {
		ps := css.ComputePseudoStyle(facet, pseudo, d.sheets, d.device, base)
		if ps == nil {
			continue
		}
		if out == nil {
			out = make(map[string]*css.Style, 2)
		}
		out[pseudo] = ps
	}
	return out
}
