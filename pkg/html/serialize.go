package html

import (
	"strings"

	"golang.org/x/net/html"

	"vireo/pkg/dom"
)

// voidElements never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements hold unescaped character data.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// Serialize renders a node and its subtree back to markup. Parsing the
// result reproduces an equivalent tree: same tags, attributes in the
// same order, same text.
func Serialize(tree *dom.Tree, id dom.NodeID) string {
	var sb strings.Builder
	serializeNode(&sb, tree, id)
	return sb.String()
}

// SerializeChildren renders only the subtree below a node, the innerHTML
// counterpart of Serialize.
func SerializeChildren(tree *dom.Tree, id dom.NodeID) string {
	var sb strings.Builder
	for _, c := range tree.Get(id).Children {
		serializeNode(&sb, tree, c)
	}
	return sb.String()
}

func serializeNode(sb *strings.Builder, tree *dom.Tree, id dom.NodeID) {
	node := tree.Get(id)
	switch data := node.Data.(type) {
	case *dom.ElementData:
		tag := data.TagName
		sb.WriteByte('<')
		sb.WriteString(tag)
		for _, a := range data.Attributes {
			sb.WriteByte(' ')
			sb.WriteString(a.Name)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(a.Value))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		if voidElements[tag] {
			return
		}
		raw := rawTextElements[tag]
		for _, c := range node.Children {
			if raw {
				if t := tree.Get(c).Text(); t != nil {
					sb.WriteString(t.Text)
					continue
				}
			}
			serializeNode(sb, tree, c)
		}
		sb.WriteString("</")
		sb.WriteString(tag)
		sb.WriteByte('>')
	case *dom.TextData:
		sb.WriteString(html.EscapeString(data.Text))
	case dom.CommentData:
		sb.WriteString("<!--")
		sb.WriteString(data.Text)
		sb.WriteString("-->")
	case dom.DoctypeData:
		sb.WriteString("<!DOCTYPE ")
		sb.WriteString(data.Name)
		sb.WriteByte('>')
	}
}
