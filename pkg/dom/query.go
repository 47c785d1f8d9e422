package dom

import "vireo/pkg/css"

// QuerySelector returns the first element in document order matching the
// selector text, or NoNode. Invalid selectors return an error rather
// than panicking.
func (t *Tree) QuerySelector(selector string) (NodeID, error) {
	sels, err := css.ParseSelectorList(selector)
	if err != nil {
		return NoNode, err
	}
	found := NoNode
	t.arena.VisitDepthFirst(t.Root(), func(n *Node) bool {
		if found != NoNode {
			return false
		}
		if n.IsElement() && css.MatchesAny(facet{tree: t, id: n.ID}, sels) {
			found = n.ID
			return false
		}
		return true
	})
	return found, nil
}

// QuerySelectorAll returns every matching element in document order.
func (t *Tree) QuerySelectorAll(selector string) ([]NodeID, error) {
	sels, err := css.ParseSelectorList(selector)
	if err != nil {
		return nil, err
	}
	var out []NodeID
	t.arena.VisitDepthFirst(t.Root(), func(n *Node) bool {
		if n.IsElement() && css.MatchesAny(facet{tree: t, id: n.ID}, sels) {
			out = append(out, n.ID)
		}
		return true
	})
	return out, nil
}
