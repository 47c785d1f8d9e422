// Package html builds and serializes document trees from markup. The
// parser wraps golang.org/x/net/html, so malformed input gets the same
// recovery a browser applies, and feeds the result through the tree's
// mutation API so indexes and dirty flags stay coherent.
package html

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"vireo/pkg/dom"
)

// Parse reads a complete document and builds it under the tree root.
// The root's existing children are cleared first.
func Parse(r io.Reader, tree *dom.Tree) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parsing html: %w", err)
	}
	m := tree.Mutate()
	m.ClearChildren(tree.Root())
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		convert(m, tree.Root(), c)
	}
	return nil
}

// ParseString is Parse over an in-memory document.
func ParseString(src string, tree *dom.Tree) error {
	return Parse(strings.NewReader(src), tree)
}

// SetInnerHTML replaces an element's children with a parsed fragment,
// using the element itself as parsing context.
func SetInnerHTML(tree *dom.Tree, id dom.NodeID, fragment string) error {
	node := tree.Get(id)
	if !node.IsElement() {
		return fmt.Errorf("node %d is not an element", id)
	}
	tag := node.TagName()
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return fmt.Errorf("parsing fragment: %w", err)
	}
	m := tree.Mutate()
	m.ClearChildren(id)
	for _, n := range nodes {
		convert(m, id, n)
	}
	return nil
}

// convert mirrors one parsed node (and its subtree) into the arena.
func convert(m *dom.Mutator, parent dom.NodeID, n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		var id dom.NodeID
		if n.Namespace != "" && n.Namespace != "html" {
			id = m.CreateElementNS(n.Namespace, n.Data)
		} else {
			id = m.CreateElement(n.Data)
		}
		m.AppendChild(parent, id)
		for _, a := range n.Attr {
			m.SetAttribute(id, a.Key, a.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convert(m, id, c)
		}
		installReplaced(m, id, n.Data)
	case html.TextNode:
		if n.Data == "" {
			return
		}
		id := m.CreateTextNode(n.Data)
		m.AppendChild(parent, id)
	case html.CommentNode:
		id := m.CreateComment(n.Data)
		m.AppendChild(parent, id)
	case html.DoctypeNode:
		id := m.CreateDoctype(n.Data)
		m.AppendChild(parent, id)
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convert(m, parent, c)
		}
	}
}

// installReplaced attaches the replaced-content payload form controls
// and embedded content start with. Image pixels arrive later through
// resource completions.
func installReplaced(m *dom.Mutator, id dom.NodeID, tag string) {
	node := m.Tree().Get(id)
	switch tag {
	case "img":
		m.SetReplacedContent(id, &dom.ReplacedContent{Kind: dom.ReplacedImage})
	case "canvas":
		m.SetReplacedContent(id, &dom.ReplacedContent{Kind: dom.ReplacedCanvas})
	case "input":
		typ, _ := node.Attr("type")
		switch typ {
		case "checkbox", "radio":
			_, checked := node.Attr("checked")
			m.SetReplacedContent(id, &dom.ReplacedContent{
				Kind:    dom.ReplacedCheckbox,
				Checked: checked,
			})
		case "hidden", "submit", "button", "reset":
			// no editor; submit buttons render their value as a label
		default:
			value, _ := node.Attr("value")
			m.SetReplacedContent(id, &dom.ReplacedContent{
				Kind:   dom.ReplacedTextInput,
				Editor: &dom.EditorState{Value: value, SelStart: len(value), SelEnd: len(value)},
			})
		}
	case "textarea":
		value := textContent(m.Tree(), id)
		m.SetReplacedContent(id, &dom.ReplacedContent{
			Kind:   dom.ReplacedTextInput,
			Editor: &dom.EditorState{Value: value, SelStart: len(value), SelEnd: len(value)},
		})
	}
}

func textContent(tree *dom.Tree, id dom.NodeID) string {
	var sb strings.Builder
	tree.VisitDepthFirst(id, func(n *dom.Node) bool {
		if t := n.Text(); t != nil {
			sb.WriteString(t.Text)
		}
		return true
	})
	return sb.String()
}
