package css

import "strings"

// Element is the opaque facet the selector engine matches against. The
// document tree hands nodes across this boundary; the matcher never sees
// node ids or arena internals.
type Element interface {
	TagName() string
	Attr(name string) (string, bool)

	// ParentElement returns nil at the root of the element tree.
	ParentElement() Element
	// PrevSiblingElement returns the previous element sibling, or nil.
	PrevSiblingElement() Element
	// IsFirstChild / IsLastChild report position among element siblings.
	IsFirstChild() bool
	IsLastChild() bool

	// Pseudo-class state, read from the document's state slots.
	Hovered() bool
	Focused() bool
	Active() bool
}

// Matches reports whether the element matches the complex selector.
func Matches(el Element, sel Selector) bool {
	if el == nil || len(sel.Parts) == 0 {
		return false
	}
	return matchesFrom(el, sel, len(sel.Parts)-1)
}

// MatchesAny reports whether the element matches any selector in the list.
func MatchesAny(el Element, sels []Selector) bool {
	for _, s := range sels {
		if Matches(el, s) {
			return true
		}
	}
	return false
}

// matchesFrom matches parts[partIdx] against el, then walks left through
// the combinators. Matching is right-to-left: the subject is the last part.
func matchesFrom(el Element, sel Selector, partIdx int) bool {
	if !matchesPart(el, sel.Parts[partIdx]) {
		return false
	}
	if partIdx == 0 {
		return true
	}
	switch sel.Combinators[partIdx-1] {
	case DescendantCombinator:
		for p := el.ParentElement(); p != nil; p = p.ParentElement() {
			if matchesFrom(p, sel, partIdx-1) {
				return true
			}
		}
		return false
	case ChildCombinator:
		p := el.ParentElement()
		return p != nil && matchesFrom(p, sel, partIdx-1)
	case AdjacentSiblingCombinator:
		s := el.PrevSiblingElement()
		return s != nil && matchesFrom(s, sel, partIdx-1)
	case GeneralSiblingCombinator:
		for s := el.PrevSiblingElement(); s != nil; s = s.PrevSiblingElement() {
			if matchesFrom(s, sel, partIdx-1) {
				return true
			}
		}
		return false
	}
	return false
}

func matchesPart(el Element, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && el.TagName() != part.Element {
		return false
	}
	if part.ID != "" {
		if id, ok := el.Attr("id"); !ok || id != part.ID {
			return false
		}
	}
	if len(part.Classes) > 0 {
		classAttr, ok := el.Attr("class")
		if !ok {
			return false
		}
		for _, want := range part.Classes {
			if !hasClassToken(classAttr, want) {
				return false
			}
		}
	}
	for _, attr := range part.Attributes {
		if !matchesAttribute(el, attr) {
			return false
		}
	}
	for _, pc := range part.PseudoClasses {
		if !matchesPseudoClass(el, pc) {
			return false
		}
	}
	return true
}

// hasClassToken checks a whitespace-separated class attribute for an
// exact token without allocating a token slice.
func hasClassToken(classAttr, want string) bool {
	for classAttr != "" {
		i := strings.IndexAny(classAttr, " \t\n\r")
		var tok string
		if i < 0 {
			tok, classAttr = classAttr, ""
		} else {
			tok, classAttr = classAttr[:i], classAttr[i+1:]
		}
		if tok == want {
			return true
		}
	}
	return false
}

func matchesAttribute(el Element, attr AttributeSelector) bool {
	value, ok := el.Attr(attr.Name)
	if !ok {
		return false
	}
	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return attr.Value != "" && strings.HasPrefix(value, attr.Value)
	case "$=":
		return attr.Value != "" && strings.HasSuffix(value, attr.Value)
	case "*=":
		return attr.Value != "" && strings.Contains(value, attr.Value)
	case "~=":
		return hasClassToken(value, attr.Value)
	case "|=":
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}
	return false
}

func matchesPseudoClass(el Element, pc string) bool {
	switch pc {
	case "hover":
		return el.Hovered()
	case "focus":
		return el.Focused()
	case "active":
		return el.Active()
	case "first-child":
		return el.IsFirstChild()
	case "last-child":
		return el.IsLastChild()
	case "root":
		return el.ParentElement() == nil
	case "link", "any-link":
		if el.TagName() != "a" {
			return false
		}
		_, ok := el.Attr("href")
		return ok
	case "disabled":
		_, ok := el.Attr("disabled")
		return ok
	case "enabled":
		_, ok := el.Attr("disabled")
		return !ok && isFormControl(el.TagName())
	case "checked":
		_, ok := el.Attr("checked")
		return ok
	default:
		// Unknown pseudo-class: never match.
		return false
	}
}

func isFormControl(tag string) bool {
	switch tag {
	case "input", "button", "select", "textarea", "option":
		return true
	}
	return false
}
