package dom

// RestyleHint describes what kind of style recomputation a node needs.
// Hints combine as a bitset.
type RestyleHint uint8

const (
	// RestyleSelf recomputes the node's own style.
	RestyleSelf RestyleHint = 1 << iota
	// RestyleDescendants recomputes the node's whole subtree.
	RestyleDescendants
	// RestyleReplaceRules signals that the applicable rule set changed
	// (stylesheet added or removed); the tree falls back to a full
	// restyle.
	RestyleReplaceRules
)

// Tree is one document's node tree: the arena, the id index and the
// document-level pseudo-state slots. A Tree is single-owner; one
// goroutine drives it at a time.
type Tree struct {
	arena   *NodeArena
	idIndex map[string]NodeID

	focus  NodeID
	hover  NodeID
	active NodeID

	styleDirty  bool
	layoutDirty bool
	fullRestyle bool
}

// NewTree returns a tree holding only the document root.
func NewTree() *Tree {
	return &Tree{
		arena:   newArena(),
		idIndex: make(map[string]NodeID),
		focus:   NoNode,
		hover:   NoNode,
		active:  NoNode,
	}
}

// Root returns the document root id.
func (t *Tree) Root() NodeID { return 0 }

// Get returns a live node; dead ids panic (programmer error).
func (t *Tree) Get(id NodeID) *Node { return t.arena.Get(id) }

// Lookup returns a node or nil for dead/absent ids.
func (t *Tree) Lookup(id NodeID) *Node { return t.arena.Lookup(id) }

// Alive reports whether id addresses a live node.
func (t *Tree) Alive(id NodeID) bool { return t.arena.Alive(id) }

// NodeChain returns id's ancestors including itself, target-first.
func (t *Tree) NodeChain(id NodeID) []NodeID { return t.arena.NodeChain(id) }

// VisitDepthFirst walks the subtree under id in document order.
func (t *Tree) VisitDepthFirst(id NodeID, visit func(*Node) bool) {
	t.arena.VisitDepthFirst(id, visit)
}

// InTree reports whether the node is connected to the document root.
func (t *Tree) InTree(id NodeID) bool {
	if !t.Alive(id) {
		return false
	}
	chain := t.NodeChain(id)
	return chain[len(chain)-1] == t.Root()
}

// GetElementByID returns the element whose id attribute equals value.
func (t *Tree) GetElementByID(value string) (NodeID, bool) {
	id, ok := t.idIndex[value]
	return id, ok
}

// MarkRestyle records a restyle hint at the node and propagates
// dirty-descendant bookkeeping to its ancestors.
func (t *Tree) MarkRestyle(id NodeID, hint RestyleHint) {
	node := t.arena.Get(id)
	if hint&RestyleReplaceRules != 0 {
		t.fullRestyle = true
	}
	if hint&RestyleSelf != 0 {
		node.SetFlag(FlagStyleDirty)
	}
	if hint&RestyleDescendants != 0 {
		t.arena.VisitDepthFirst(id, func(n *Node) bool {
			n.SetFlag(FlagStyleDirty)
			return true
		})
	}
	t.markAncestorsDirty(id)
	t.styleDirty = true
	t.layoutDirty = true
}

// MarkLayoutDirty invalidates the node's final layout (and, by the
// layout invariant, its descendants') without forcing a restyle.
func (t *Tree) MarkLayoutDirty(id NodeID) {
	node := t.arena.Get(id)
	node.SetFlag(FlagLayoutDirty)
	node.LayoutValid = false
	t.markAncestorsDirty(id)
	t.layoutDirty = true
}

func (t *Tree) markAncestorsDirty(id NodeID) {
	for cur := t.arena.Get(id).Parent; cur != NoNode; {
		n := t.arena.Get(cur)
		if n.HasFlag(FlagDescendantsDirty) {
			break
		}
		n.SetFlag(FlagDescendantsDirty)
		cur = n.Parent
	}
}

// NeedsRestyle reports whether any node awaits style resolution.
func (t *Tree) NeedsRestyle() bool { return t.styleDirty || t.fullRestyle }

// NeedsFullRestyle reports whether the applicable rules changed.
func (t *Tree) NeedsFullRestyle() bool { return t.fullRestyle }

// NeedsLayout reports whether any node awaits layout.
func (t *Tree) NeedsLayout() bool { return t.layoutDirty }

// IsDirty reports whether a resolve pass would do work.
func (t *Tree) IsDirty() bool { return t.styleDirty || t.layoutDirty || t.fullRestyle }

// ClearDirty resets the resolve bookkeeping after a completed pass.
func (t *Tree) ClearDirty() {
	t.styleDirty = false
	t.layoutDirty = false
	t.fullRestyle = false
}

// stateSlot updates one of the focus/hover/active slots, mirroring the
// change onto node flags. Passing NoNode clears the slot.
func (t *Tree) stateSlot(slot *NodeID, id NodeID, flag NodeFlags) (prev NodeID) {
	prev = *slot
	if prev == id {
		return prev
	}
	if prev != NoNode {
		if n := t.arena.Lookup(prev); n != nil {
			n.ClearFlag(flag)
			n.SetFlag(FlagStyleDirty)
			t.markAncestorsDirty(prev)
		}
	}
	*slot = id
	if id != NoNode {
		n := t.arena.Get(id)
		n.SetFlag(flag)
		n.SetFlag(FlagStyleDirty)
		t.markAncestorsDirty(id)
	}
	t.styleDirty = true
	t.layoutDirty = true
	return prev
}

// Focus returns the focussed node, or NoNode.
func (t *Tree) Focus() NodeID { return t.focus }

// SetFocus moves the focus slot and returns the previous holder. Derived
// focus events are the event pipeline's job; this only updates state.
func (t *Tree) SetFocus(id NodeID) NodeID {
	return t.stateSlot(&t.focus, id, FlagFocus)
}

// Hover returns the hovered node, or NoNode.
func (t *Tree) Hover() NodeID { return t.hover }

// SetHover moves the hover slot and returns the previous holder.
func (t *Tree) SetHover(id NodeID) NodeID {
	return t.stateSlot(&t.hover, id, FlagHover)
}

// Active returns the active (pressed) node, or NoNode.
func (t *Tree) Active() NodeID { return t.active }

// SetActive moves the active slot and returns the previous holder.
func (t *Tree) SetActive(id NodeID) NodeID {
	return t.stateSlot(&t.active, id, FlagActive)
}

// NoteListener records that an event name was registered somewhere on the
// element, so dispatch can skip subtrees that never listen.
func (t *Tree) NoteListener(id NodeID, event string) {
	el := t.arena.Get(id).Element()
	if el == nil {
		return
	}
	if el.Listeners == nil {
		el.Listeners = make(map[string]bool)
	}
	el.Listeners[event] = true
}

// InlineRootFor returns the nearest self-or-ancestor inline root, or
// NoNode when the node is not inside inline content.
func (t *Tree) InlineRootFor(id NodeID) NodeID {
	for cur := id; cur != NoNode; {
		n := t.arena.Get(cur)
		if n.HasFlag(FlagInlineRoot) {
			return cur
		}
		cur = n.Parent
	}
	return NoNode
}

// InvalidateInlineCache clears the inline-layout cache on the nearest
// ancestor inline root of id, marking it for relayout.
func (t *Tree) InvalidateInlineCache(id NodeID) {
	root := t.InlineRootFor(id)
	if root == NoNode {
		return
	}
	n := t.arena.Get(root)
	if el := n.Element(); el != nil {
		el.InlineCache = nil
	}
	t.MarkLayoutDirty(root)
}
