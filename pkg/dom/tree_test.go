package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBasic(t *testing.T) (*Tree, NodeID, NodeID, NodeID) {
	t.Helper()
	tree := NewTree()
	m := tree.Mutate()
	body := m.CreateElement("body")
	m.AppendChild(tree.Root(), body)
	div := m.CreateElement("div")
	m.AppendChild(body, div)
	txt := m.CreateTextNode("hello")
	m.AppendChild(div, txt)
	return tree, body, div, txt
}

func TestArenaStableIDs(t *testing.T) {
	tree, body, div, txt := buildBasic(t)

	// releasing one node never shifts the others
	tree.Mutate().RemoveChild(div, txt)
	tree.Mutate().Release(txt)

	assert.False(t, tree.Alive(txt))
	assert.True(t, tree.Alive(body))
	assert.Equal(t, "div", tree.Get(div).TagName())

	// ids are not reused
	fresh := tree.Mutate().CreateElement("span")
	assert.NotEqual(t, txt, fresh)
}

func TestLookupDeadIDReturnsNil(t *testing.T) {
	tree, _, div, txt := buildBasic(t)
	tree.Mutate().RemoveChild(div, txt)
	tree.Mutate().Release(txt)

	assert.Nil(t, tree.Lookup(txt))
	assert.Nil(t, tree.Lookup(NoNode))
	assert.NotNil(t, tree.Lookup(div))
}

func TestReleaseFreesWholeSubtree(t *testing.T) {
	tree, body, div, txt := buildBasic(t)
	tree.Mutate().RemoveChild(body, div)
	tree.Mutate().Release(div)

	assert.False(t, tree.Alive(div))
	assert.False(t, tree.Alive(txt))
	assert.True(t, tree.Alive(body))
}

func TestInsertBeforeOrdersChildren(t *testing.T) {
	tree := NewTree()
	m := tree.Mutate()
	parent := m.CreateElement("ul")
	m.AppendChild(tree.Root(), parent)
	a := m.CreateElement("li")
	c := m.CreateElement("li")
	m.AppendChild(parent, a)
	m.AppendChild(parent, c)
	b := m.CreateElement("li")
	m.InsertBefore(parent, b, c)

	assert.Equal(t, []NodeID{a, b, c}, tree.Get(parent).Children)
}

func TestIDIndexFollowsMutations(t *testing.T) {
	tree, body, div, _ := buildBasic(t)
	m := tree.Mutate()
	m.SetAttribute(div, "id", "target")

	got, ok := tree.GetElementByID("target")
	require.True(t, ok)
	assert.Equal(t, div, got)

	// renaming moves the index entry
	m.SetAttribute(div, "id", "renamed")
	_, ok = tree.GetElementByID("target")
	assert.False(t, ok)
	got, ok = tree.GetElementByID("renamed")
	require.True(t, ok)
	assert.Equal(t, div, got)

	// detaching removes the entry; reattaching restores it
	m.RemoveChild(body, div)
	_, ok = tree.GetElementByID("renamed")
	assert.False(t, ok)
	m.AppendChild(body, div)
	_, ok = tree.GetElementByID("renamed")
	assert.True(t, ok)
}

func TestInTree(t *testing.T) {
	tree, body, div, _ := buildBasic(t)
	assert.True(t, tree.InTree(div))

	tree.Mutate().RemoveChild(body, div)
	assert.False(t, tree.InTree(div), "detached subtree is not in the tree")
	assert.True(t, tree.Alive(div), "detached subtree stays alive")
}

func TestMutationsMarkDirty(t *testing.T) {
	tree, _, div, txt := buildBasic(t)
	tree.ClearDirty()
	require.False(t, tree.IsDirty())

	tree.Mutate().SetAttribute(div, "class", "x")
	assert.True(t, tree.NeedsRestyle())
	assert.True(t, tree.NeedsLayout())
	assert.True(t, tree.Get(div).HasFlag(FlagStyleDirty))

	tree.ClearDirty()
	tree.Mutate().SetText(txt, "changed")
	assert.True(t, tree.NeedsLayout())
}

func TestSetTextSameValueStaysClean(t *testing.T) {
	tree, _, _, txt := buildBasic(t)
	tree.ClearDirty()

	tree.Mutate().SetText(txt, "hello")
	assert.False(t, tree.IsDirty())
}

func TestDescendantsDirtyPropagatesToAncestors(t *testing.T) {
	tree, body, div, _ := buildBasic(t)
	tree.ClearDirty()
	tree.Get(body).ClearFlag(FlagDescendantsDirty)

	tree.Mutate().SetAttribute(div, "class", "x")
	assert.True(t, tree.Get(body).HasFlag(FlagDescendantsDirty))
}

func TestStateSlotsMoveFlags(t *testing.T) {
	tree, _, div, _ := buildBasic(t)
	m := tree.Mutate()
	other := m.CreateElement("span")
	m.AppendChild(div, other)

	prev := tree.SetFocus(div)
	assert.Equal(t, NoNode, prev)
	assert.True(t, tree.Get(div).HasFlag(FlagFocus))

	prev = tree.SetFocus(other)
	assert.Equal(t, div, prev)
	assert.False(t, tree.Get(div).HasFlag(FlagFocus))
	assert.True(t, tree.Get(other).HasFlag(FlagFocus))
	assert.Equal(t, other, tree.Focus())
}

func TestDetachClearsStateSlots(t *testing.T) {
	tree, body, div, _ := buildBasic(t)
	tree.SetFocus(div)
	tree.SetHover(div)

	tree.Mutate().RemoveChild(body, div)
	assert.Equal(t, NoNode, tree.Focus())
	assert.Equal(t, NoNode, tree.Hover())
}

func TestListenerSummary(t *testing.T) {
	tree, _, div, _ := buildBasic(t)
	tree.NoteListener(div, "click")

	el := tree.Get(div).Element()
	assert.True(t, el.Listeners["click"])
	assert.False(t, el.Listeners["keydown"])
}

func TestNodeChainTargetFirst(t *testing.T) {
	tree, body, div, txt := buildBasic(t)
	chain := tree.NodeChain(txt)
	assert.Equal(t, []NodeID{txt, div, body, tree.Root()}, chain)
}

func TestVisitDepthFirstPrunes(t *testing.T) {
	tree, body, div, txt := buildBasic(t)
	var seen []NodeID
	tree.VisitDepthFirst(tree.Root(), func(n *Node) bool {
		seen = append(seen, n.ID)
		return n.ID != div
	})
	assert.Contains(t, seen, body)
	assert.Contains(t, seen, div)
	assert.NotContains(t, seen, txt)
}

func TestInlineCacheInvalidation(t *testing.T) {
	tree, _, div, txt := buildBasic(t)
	el := tree.Get(div).Element()
	tree.Get(div).SetFlag(FlagInlineRoot)
	el.InlineCache = "cached"

	tree.Mutate().SetText(txt, "other")
	assert.Nil(t, el.InlineCache)
	assert.True(t, tree.Get(div).HasFlag(FlagLayoutDirty))
}

func TestStateAttributeKeepsLayoutValid(t *testing.T) {
	tree, _, div, _ := buildBasic(t)
	node := tree.Get(div)
	node.LayoutValid = true
	tree.ClearDirty()

	tree.Mutate().SetAttribute(div, "checked", "")
	assert.True(t, node.LayoutValid, "control state must not invalidate the box")
	assert.False(t, node.HasFlag(FlagLayoutDirty))
	assert.True(t, node.HasFlag(FlagStyleDirty))
	assert.True(t, tree.NeedsRestyle())

	// Other attributes stay conservative.
	tree.Mutate().SetAttribute(div, "data-x", "1")
	assert.False(t, node.LayoutValid)
}

func TestAttributeOrderPreserved(t *testing.T) {
	tree := NewTree()
	m := tree.Mutate()
	el := m.CreateElement("div")
	m.AppendChild(tree.Root(), el)
	m.SetAttribute(el, "b", "1")
	m.SetAttribute(el, "a", "2")
	m.SetAttribute(el, "b", "3")

	attrs := tree.Get(el).Element().Attributes
	require.Len(t, attrs, 2)
	assert.Equal(t, "b", attrs[0].Name)
	assert.Equal(t, "3", attrs[0].Value)
	assert.Equal(t, "a", attrs[1].Name)
}

func TestQuerySelector(t *testing.T) {
	tree := NewTree()
	m := tree.Mutate()
	body := m.CreateElement("body")
	m.AppendChild(tree.Root(), body)
	outer := m.CreateElement("div")
	m.AppendChild(body, outer)
	m.SetAttribute(outer, "class", "wrap")
	inner := m.CreateElement("span")
	m.AppendChild(outer, inner)

	got, err := tree.QuerySelector(".wrap > span")
	require.NoError(t, err)
	assert.Equal(t, inner, got)

	all, err := tree.QuerySelectorAll("div, span")
	require.NoError(t, err)
	assert.Equal(t, []NodeID{outer, inner}, all)

	miss, err := tree.QuerySelector("#missing")
	require.NoError(t, err)
	assert.Equal(t, NoNode, miss)

	_, err = tree.QuerySelector("div >")
	assert.Error(t, err, "malformed selector reports instead of panicking")
}
