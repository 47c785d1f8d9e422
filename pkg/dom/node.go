// Package dom holds the document tree: an arena of nodes addressed by
// stable integer ids, the attribute and id indexes, pseudo-class state
// slots, and the transactional mutation API that keeps style and layout
// caches consistent.
package dom

import "vireo/pkg/css"

// NodeID addresses a node within one tree. Id 0 is the document root;
// other ids are assigned monotonically at creation and never reused.
type NodeID uint32

// NoNode is the absent-node sentinel used for optional slots (parent of
// the root, focus/hover/active when cleared).
const NoNode NodeID = 1<<32 - 1

// NodeFlags is per-node bookkeeping.
type NodeFlags uint16

const (
	// FlagInlineRoot marks a block-level element that establishes an
	// inline formatting context; only such nodes carry inline caches.
	FlagInlineRoot NodeFlags = 1 << iota
	// FlagStyleDirty marks the node for restyle at the next resolve.
	FlagStyleDirty
	// FlagDescendantsDirty marks that some descendant needs restyle.
	FlagDescendantsDirty
	// FlagLayoutDirty invalidates the node's cached final layout and,
	// per the layout invariant, every descendant's.
	FlagLayoutDirty
	// FlagHover / FlagFocus mirror the document state slots onto the
	// node for cheap pseudo-class checks.
	FlagHover
	FlagFocus
	FlagActive
)

// FinalLayout is the resolved box after layout: border-box position and
// size in CSS px relative to the viewport origin, plus edge insets and
// the scrollable overflow extent.
type FinalLayout struct {
	X, Y          float64
	Width, Height float64
	Border        css.BoxEdge
	Padding       css.BoxEdge

	// ScrollWidth / ScrollHeight are the content overflow extents used
	// to clamp wheel scrolling.
	ScrollWidth, ScrollHeight float64

	// Baseline is the distance from the border-box top to the first
	// baseline, for atomic inline placement. Zero when not applicable.
	Baseline float64
}

// ContentX returns the left edge of the content box.
func (l FinalLayout) ContentX() float64 { return l.X + l.Border.Left + l.Padding.Left }

// ContentY returns the top edge of the content box.
func (l FinalLayout) ContentY() float64 { return l.Y + l.Border.Top + l.Padding.Top }

// ContentWidth returns the width of the content box.
func (l FinalLayout) ContentWidth() float64 {
	return l.Width - l.Border.Horizontal() - l.Padding.Horizontal()
}

// ContentHeight returns the height of the content box.
func (l FinalLayout) ContentHeight() float64 {
	return l.Height - l.Border.Vertical() - l.Padding.Vertical()
}

// Contains reports whether a viewport point falls inside the border box.
func (l FinalLayout) Contains(x, y float64) bool {
	return x >= l.X && x < l.X+l.Width && y >= l.Y && y < l.Y+l.Height
}

// NodeKind tags the node data payload.
type NodeKind uint8

const (
	KindDocument NodeKind = iota
	KindDoctype
	KindComment
	KindText
	KindElement
)

// NodeData is the typed per-kind payload. It is a sealed interface over
// the five node kinds.
type NodeData interface {
	Kind() NodeKind
}

// DocumentData is the payload of the root document node.
type DocumentData struct{}

func (DocumentData) Kind() NodeKind { return KindDocument }

// DoctypeData records a doctype declaration.
type DoctypeData struct {
	Name string
}

func (DoctypeData) Kind() NodeKind { return KindDoctype }

// CommentData records a comment; comments never style, lay out or paint.
type CommentData struct {
	Text string
}

func (CommentData) Kind() NodeKind { return KindComment }

// TextData is a mutable UTF-8 text payload. Whitespace normalization is
// deferred to the inline layout builder.
type TextData struct {
	Text string
}

func (*TextData) Kind() NodeKind { return KindText }

// Attribute is one qualified attribute. Namespace is empty for HTML
// attributes.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// ElementData is the payload of element nodes.
type ElementData struct {
	Namespace string
	TagName   string

	// Attributes preserve insertion order; names are unique within the
	// list (first wins on duplicate set preserves position).
	Attributes []Attribute

	// InlineCache holds the inline layout builder's output for inline
	// roots. It is owned by the layout bridge; dom only clears it.
	InlineCache any

	// Replaced holds replaced-content state (image, canvas handle, form
	// control editor), populated by resource callbacks or the mutation
	// API.
	Replaced *ReplacedContent

	// Listeners summarizes which event names were ever registered on
	// this element, letting dispatch skip silent subtrees.
	Listeners map[string]bool
}

func (*ElementData) Kind() NodeKind { return KindElement }

// Attr returns the value of an attribute by (case-insensitive) name.
func (e *ElementData) Attr(name string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Node is one tree node. Nodes are owned by the arena; all references
// elsewhere are by id.
type Node struct {
	ID       NodeID
	Parent   NodeID // NoNode when root or orphaned
	Children []NodeID
	Data     NodeData

	Flags NodeFlags

	// Style is the cached primary computed style, set during resolve.
	Style *css.Style
	// PseudoStyles caches ::before / ::after styles when present.
	PseudoStyles map[string]*css.Style

	// Layout is the cached final layout; valid only when LayoutValid
	// and no ancestor is layout-dirty since the last resolve.
	Layout      FinalLayout
	LayoutValid bool

	// ScrollX / ScrollY are the current scroll offsets for boxes that
	// clip overflow.
	ScrollX, ScrollY float64
}

// Element returns the element payload, or nil for non-element nodes.
func (n *Node) Element() *ElementData {
	el, _ := n.Data.(*ElementData)
	return el
}

// Text returns the text payload, or nil for non-text nodes.
func (n *Node) Text() *TextData {
	t, _ := n.Data.(*TextData)
	return t
}

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool {
	return n.Data != nil && n.Data.Kind() == KindElement
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool {
	return n.Data != nil && n.Data.Kind() == KindText
}

// TagName returns the element tag name, or "" for non-elements.
func (n *Node) TagName() string {
	if el := n.Element(); el != nil {
		return el.TagName
	}
	return ""
}

// Attr returns an attribute value by name for element nodes.
func (n *Node) Attr(name string) (string, bool) {
	if el := n.Element(); el != nil {
		return el.Attr(name)
	}
	return "", false
}

// HasFlag reports whether all given flags are set.
func (n *Node) HasFlag(f NodeFlags) bool { return n.Flags&f == f }

// SetFlag sets the given flags.
func (n *Node) SetFlag(f NodeFlags) { n.Flags |= f }

// ClearFlag clears the given flags.
func (n *Node) ClearFlag(f NodeFlags) { n.Flags &^= f }
