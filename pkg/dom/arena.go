package dom

import "fmt"

// NodeArena is the single-owner store of nodes, addressed by dense ids.
// Lookup is constant time; releasing a node never shifts other ids, and
// ids are never reused within a tree's life.
type NodeArena struct {
	nodes []*Node
}

// newArena returns an arena holding only the document root at id 0.
func newArena() *NodeArena {
	root := &Node{ID: 0, Parent: NoNode, Data: DocumentData{}}
	return &NodeArena{nodes: []*Node{root}}
}

// Create allocates a node with the next id. The node starts orphaned.
func (a *NodeArena) Create(data NodeData) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, &Node{ID: id, Parent: NoNode, Data: data})
	return id
}

// Get returns the node for an id. Dead or out-of-range ids are programmer
// errors and panic.
func (a *NodeArena) Get(id NodeID) *Node {
	if int(id) >= len(a.nodes) || a.nodes[id] == nil {
		panic(fmt.Sprintf("dom: dead node id %d", id))
	}
	return a.nodes[id]
}

// Lookup returns the node for an id, or nil when the id is dead. Use for
// optional slots where absence is expected.
func (a *NodeArena) Lookup(id NodeID) *Node {
	if id == NoNode || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// Alive reports whether the id addresses a live node.
func (a *NodeArena) Alive(id NodeID) bool {
	return a.Lookup(id) != nil
}

// release frees a node slot. The caller must have detached it first.
func (a *NodeArena) release(id NodeID) {
	if id == 0 {
		panic("dom: cannot release document root")
	}
	if int(id) < len(a.nodes) {
		a.nodes[id] = nil
	}
}

// VisitDepthFirst walks the subtree rooted at id in document order,
// children in insertion order. The visitor returning false prunes the
// subtree below the node.
func (a *NodeArena) VisitDepthFirst(id NodeID, visit func(*Node) bool) {
	node := a.Get(id)
	if !visit(node) {
		return
	}
	for _, child := range node.Children {
		a.VisitDepthFirst(child, visit)
	}
}

// NodeChain returns the ancestors of id including itself, target-first,
// ending at the root.
func (a *NodeArena) NodeChain(id NodeID) []NodeID {
	var chain []NodeID
	for cur := id; ; {
		node := a.Get(cur)
		chain = append(chain, cur)
		if node.Parent == NoNode {
			break
		}
		cur = node.Parent
	}
	return chain
}
