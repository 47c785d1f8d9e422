package dom

import "fmt"

// Mutator is the single entry point for tree edits. It borrows the tree
// exclusively; every operation updates the arena, the id index, restyle
// hints and layout caches together so the tree invariants hold after
// each call.
type Mutator struct {
	tree *Tree
}

// Mutate returns the tree's mutator.
func (t *Tree) Mutate() *Mutator {
	return &Mutator{tree: t}
}

// Tree returns the underlying tree, for read access during a batch.
func (m *Mutator) Tree() *Tree { return m.tree }

// CreateElement allocates an orphaned element node.
func (m *Mutator) CreateElement(tag string) NodeID {
	return m.tree.arena.Create(&ElementData{TagName: tag})
}

// CreateElementNS allocates an orphaned element with a namespace.
func (m *Mutator) CreateElementNS(namespace, tag string) NodeID {
	return m.tree.arena.Create(&ElementData{Namespace: namespace, TagName: tag})
}

// CreateTextNode allocates an orphaned text node.
func (m *Mutator) CreateTextNode(text string) NodeID {
	return m.tree.arena.Create(&TextData{Text: text})
}

// CreateComment allocates an orphaned comment node.
func (m *Mutator) CreateComment(text string) NodeID {
	return m.tree.arena.Create(CommentData{Text: text})
}

// CreateDoctype allocates an orphaned doctype node.
func (m *Mutator) CreateDoctype(name string) NodeID {
	return m.tree.arena.Create(DoctypeData{Name: name})
}

// AppendChild attaches child as the last child of parent. The child must
// be detached; re-parenting requires RemoveChild first.
func (m *Mutator) AppendChild(parent, child NodeID) {
	m.InsertBefore(parent, child, NoNode)
}

// InsertBefore inserts child into parent's child list before ref, or at
// the end when ref is NoNode.
func (m *Mutator) InsertBefore(parent, child NodeID, ref NodeID) {
	t := m.tree
	p := t.arena.Get(parent)
	c := t.arena.Get(child)
	if c.Parent != NoNode {
		panic(fmt.Sprintf("dom: node %d already has a parent", child))
	}
	if child == t.Root() {
		panic("dom: cannot insert the document root")
	}
	idx := len(p.Children)
	if ref != NoNode {
		for i, existing := range p.Children {
			if existing == ref {
				idx = i
				break
			}
		}
	}
	p.Children = append(p.Children, 0)
	copy(p.Children[idx+1:], p.Children[idx:])
	p.Children[idx] = child
	c.Parent = parent

	// The whole inserted subtree needs style and layout.
	m.indexSubtree(child, true)
	t.MarkRestyle(child, RestyleSelf|RestyleDescendants)
	t.MarkLayoutDirty(parent)
	t.InvalidateInlineCache(parent)
}

// RemoveChild detaches child from parent and returns it orphaned. The
// subtree stays alive and can be re-inserted or released.
func (m *Mutator) RemoveChild(parent, child NodeID) NodeID {
	t := m.tree
	p := t.arena.Get(parent)
	c := t.arena.Get(child)
	if c.Parent != parent {
		panic(fmt.Sprintf("dom: node %d is not a child of %d", child, parent))
	}
	for i, existing := range p.Children {
		if existing == child {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	c.Parent = NoNode
	m.indexSubtree(child, false)
	m.clearStateSlots(child)
	t.MarkLayoutDirty(parent)
	t.MarkRestyle(parent, RestyleSelf)
	t.InvalidateInlineCache(parent)
	return child
}

// Release frees a detached subtree. Ids of released nodes become dead.
func (m *Mutator) Release(id NodeID) {
	t := m.tree
	n := t.arena.Get(id)
	if n.Parent != NoNode {
		panic(fmt.Sprintf("dom: release of attached node %d", id))
	}
	var ids []NodeID
	t.arena.VisitDepthFirst(id, func(n *Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	for _, nid := range ids {
		t.arena.release(nid)
	}
}

// SetAttribute sets an attribute, keeping the id index current. The
// element is flagged for restyle; id/class/style changes invalidate
// author-rule matching, other attributes conservatively restyle too.
func (m *Mutator) SetAttribute(id NodeID, name, value string) {
	t := m.tree
	el := mustElement(t, id)
	if name == "id" {
		if old, ok := el.Attr("id"); ok && old != "" {
			if t.idIndex[old] == id {
				delete(t.idIndex, old)
			}
		}
		if value != "" && t.InTree(id) {
			t.idIndex[value] = id
		}
	}
	set := false
	for i := range el.Attributes {
		if el.Attributes[i].Name == name {
			el.Attributes[i].Value = value
			set = true
			break
		}
	}
	if !set {
		el.Attributes = append(el.Attributes, Attribute{Name: name, Value: value})
	}
	m.attributeChanged(id, name)
}

// RemoveAttribute removes an attribute and returns its prior value.
func (m *Mutator) RemoveAttribute(id NodeID, name string) (string, bool) {
	t := m.tree
	el := mustElement(t, id)
	for i := range el.Attributes {
		if el.Attributes[i].Name == name {
			prior := el.Attributes[i].Value
			el.Attributes = append(el.Attributes[:i], el.Attributes[i+1:]...)
			if name == "id" && prior != "" && t.idIndex[prior] == id {
				delete(t.idIndex, prior)
			}
			m.attributeChanged(id, name)
			return prior, true
		}
	}
	return "", false
}

func (m *Mutator) attributeChanged(id NodeID, name string) {
	t := m.tree
	switch name {
	case "class", "id":
		// Sibling and descendant combinators can reach past the element.
		t.MarkRestyle(id, RestyleSelf|RestyleDescendants)
	case "style":
		t.MarkRestyle(id, RestyleSelf)
	case "checked", "disabled":
		// Control state: restyle for :checked/:disabled, but the box
		// geometry is unchanged, so the layout stays valid until a
		// style delta invalidates it.
		t.MarkRestyle(id, RestyleSelf|RestyleDescendants)
		return
	default:
		// Attribute selectors may match anywhere below; conservative.
		t.MarkRestyle(id, RestyleSelf|RestyleDescendants)
	}
	t.MarkLayoutDirty(id)
	t.InvalidateInlineCache(id)
}

// SetText replaces a text node's contents.
func (m *Mutator) SetText(id NodeID, text string) {
	t := m.tree
	n := t.arena.Get(id)
	txt := n.Text()
	if txt == nil {
		panic(fmt.Sprintf("dom: SetText on non-text node %d", id))
	}
	if txt.Text == text {
		return
	}
	txt.Text = text
	if n.Parent != NoNode {
		t.MarkLayoutDirty(n.Parent)
	}
	t.InvalidateInlineCache(id)
}

// SetReplacedContent installs or replaces the replaced-content payload
// of an element (decoded image, canvas handle, editor state).
func (m *Mutator) SetReplacedContent(id NodeID, rc *ReplacedContent) {
	t := m.tree
	el := mustElement(t, id)
	el.Replaced = rc
	t.MarkLayoutDirty(id)
	t.InvalidateInlineCache(id)
}

// ClearChildren removes and releases every child of id.
func (m *Mutator) ClearChildren(id NodeID) {
	n := m.tree.arena.Get(id)
	children := append([]NodeID(nil), n.Children...)
	for _, child := range children {
		m.RemoveChild(id, child)
		m.Release(child)
	}
}

// indexSubtree adds or removes the subtree's id attributes from the id
// index on attach/detach.
func (m *Mutator) indexSubtree(id NodeID, attach bool) {
	t := m.tree
	if attach && !t.InTree(id) {
		return
	}
	t.arena.VisitDepthFirst(id, func(n *Node) bool {
		if el := n.Element(); el != nil {
			if idAttr, ok := el.Attr("id"); ok && idAttr != "" {
				if attach {
					if _, exists := t.idIndex[idAttr]; !exists {
						t.idIndex[idAttr] = n.ID
					}
				} else if t.idIndex[idAttr] == n.ID {
					delete(t.idIndex, idAttr)
				}
			}
		}
		return true
	})
}

// clearStateSlots drops focus/hover/active held by a detached subtree.
func (m *Mutator) clearStateSlots(id NodeID) {
	t := m.tree
	t.arena.VisitDepthFirst(id, func(n *Node) bool {
		if t.focus == n.ID {
			t.SetFocus(NoNode)
		}
		if t.hover == n.ID {
			t.SetHover(NoNode)
		}
		if t.active == n.ID {
			t.SetActive(NoNode)
		}
		return true
	})
}

func mustElement(t *Tree, id NodeID) *ElementData {
	el := t.arena.Get(id).Element()
	if el == nil {
		panic(fmt.Sprintf("dom: node %d is not an element", id))
	}
	return el
}
