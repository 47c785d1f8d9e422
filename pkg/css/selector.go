package css

import (
	"fmt"
	"strings"
)

// ErrSelectorParse wraps selector syntax errors so query callers can
// branch on them.
type ErrSelectorParse struct {
	Input  string
	Reason string
}

func (e *ErrSelectorParse) Error() string {
	return fmt.Sprintf("css: invalid selector %q: %s", e.Input, e.Reason)
}

// Combinator relates two compound selectors.
type Combinator uint8

const (
	DescendantCombinator Combinator = iota
	ChildCombinator
	AdjacentSiblingCombinator
	GeneralSiblingCombinator
)

// AttributeSelector is one [name], [name=value] etc. component.
type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "^=", "$=", "*=", "~=", "|="
	Value    string
}

// SelectorPart is one compound selector: element, id, classes, attributes
// and pseudo-classes that must all match the same element.
type SelectorPart struct {
	Element       string // "" or "*" matches any element
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

// Selector is one complex selector: compound parts joined by combinators.
// Parts are in document order; Parts[len-1] is the subject. PseudoElement
// holds a trailing ::before / ::after, stripped from the subject part.
type Selector struct {
	Raw           string
	Parts         []SelectorPart
	Combinators   []Combinator // len(Parts)-1 entries
	PseudoElement string
	Specificity   Specificity
}

// Specificity is the (id, class, type) triple used by the cascade.
type Specificity struct {
	IDs, Classes, Types int
}

// Less orders specificities per the cascade.
func (s Specificity) Less(o Specificity) bool {
	if s.IDs != o.IDs {
		return s.IDs < o.IDs
	}
	if s.Classes != o.Classes {
		return s.Classes < o.Classes
	}
	return s.Types < o.Types
}

// ParseSelectorList parses a comma-separated selector list. Invalid
// selectors yield an *ErrSelectorParse; per CSS, one bad selector
// invalidates the whole list.
func ParseSelectorList(input string) ([]Selector, error) {
	var out []Selector
	for _, raw := range splitTopLevel(input, ',') {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, &ErrSelectorParse{Input: input, Reason: "empty selector"}
		}
		sel, err := parseComplexSelector(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	if len(out) == 0 {
		return nil, &ErrSelectorParse{Input: input, Reason: "empty selector list"}
	}
	return out, nil
}

// parseComplexSelector parses one complex selector like "div.a > p span".
func parseComplexSelector(raw string) (Selector, error) {
	sel := Selector{Raw: raw}
	tokens := tokenizeSelector(raw)
	expectPart := true
	for _, tok := range tokens {
		switch tok {
		case ">", "+", "~":
			if expectPart || len(sel.Parts) == 0 {
				return Selector{}, &ErrSelectorParse{Input: raw, Reason: "combinator without preceding selector"}
			}
			var c Combinator
			switch tok {
			case ">":
				c = ChildCombinator
			case "+":
				c = AdjacentSiblingCombinator
			case "~":
				c = GeneralSiblingCombinator
			}
			sel.Combinators = append(sel.Combinators, c)
			expectPart = true
		default:
			if !expectPart {
				// Two parts separated by whitespace only: descendant.
				sel.Combinators = append(sel.Combinators, DescendantCombinator)
			}
			part, pseudoElem, err := parseCompound(tok, raw)
			if err != nil {
				return Selector{}, err
			}
			if pseudoElem != "" {
				sel.PseudoElement = pseudoElem
			}
			sel.Parts = append(sel.Parts, part)
			expectPart = false
		}
	}
	if expectPart || len(sel.Parts) == 0 {
		return Selector{}, &ErrSelectorParse{Input: raw, Reason: "dangling combinator"}
	}
	sel.Specificity = computeSpecificity(sel)
	return sel, nil
}

// tokenizeSelector splits a complex selector into compound selectors and
// combinator tokens, treating whitespace as a separator.
func tokenizeSelector(raw string) []string {
	var tokens []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range raw {
		switch {
		case r == '[' || r == '(':
			depth++
			cur.WriteRune(r)
		case r == ']' || r == ')':
			depth--
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		case depth == 0 && (r == '>' || r == '+' || r == '~'):
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// parseCompound parses a compound selector like "div#main.note[lang|=en]:hover".
func parseCompound(tok, raw string) (SelectorPart, string, error) {
	var part SelectorPart
	var pseudoElem string
	i := 0
	readName := func() string {
		start := i
		for i < len(tok) && isNameChar(tok[i]) {
			i++
		}
		return tok[start:i]
	}
	for i < len(tok) {
		switch tok[i] {
		case '#':
			i++
			name := readName()
			if name == "" {
				return part, "", &ErrSelectorParse{Input: raw, Reason: "empty id selector"}
			}
			part.ID = name
		case '.':
			i++
			name := readName()
			if name == "" {
				return part, "", &ErrSelectorParse{Input: raw, Reason: "empty class selector"}
			}
			part.Classes = append(part.Classes, name)
		case '[':
			end := strings.IndexByte(tok[i:], ']')
			if end < 0 {
				return part, "", &ErrSelectorParse{Input: raw, Reason: "unterminated attribute selector"}
			}
			attr, err := parseAttributeSelector(tok[i+1:i+end], raw)
			if err != nil {
				return part, "", err
			}
			part.Attributes = append(part.Attributes, attr)
			i += end + 1
		case ':':
			i++
			double := false
			if i < len(tok) && tok[i] == ':' {
				double = true
				i++
			}
			name := readName()
			if name == "" {
				return part, "", &ErrSelectorParse{Input: raw, Reason: "empty pseudo selector"}
			}
			if double || name == "before" || name == "after" {
				pseudoElem = name
			} else {
				part.PseudoClasses = append(part.PseudoClasses, name)
			}
		case '*':
			part.Element = "*"
			i++
		default:
			if !isNameChar(tok[i]) {
				return part, "", &ErrSelectorParse{Input: raw, Reason: fmt.Sprintf("unexpected %q", tok[i])}
			}
			part.Element = strings.ToLower(readName())
		}
	}
	return part, pseudoElem, nil
}

func parseAttributeSelector(body, raw string) (AttributeSelector, error) {
	for _, op := range []string{"^=", "$=", "*=", "~=", "|=", "="} {
		if idx := strings.Index(body, op); idx >= 0 {
			name := strings.TrimSpace(body[:idx])
			value := strings.Trim(strings.TrimSpace(body[idx+len(op):]), `"'`)
			if name == "" {
				return AttributeSelector{}, &ErrSelectorParse{Input: raw, Reason: "attribute selector without name"}
			}
			return AttributeSelector{Name: strings.ToLower(name), Operator: op, Value: value}, nil
		}
	}
	name := strings.TrimSpace(body)
	if name == "" {
		return AttributeSelector{}, &ErrSelectorParse{Input: raw, Reason: "attribute selector without name"}
	}
	return AttributeSelector{Name: strings.ToLower(name)}, nil
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '-' || c == '_'
}

func computeSpecificity(sel Selector) Specificity {
	var sp Specificity
	for _, p := range sel.Parts {
		if p.ID != "" {
			sp.IDs++
		}
		sp.Classes += len(p.Classes) + len(p.Attributes) + len(p.PseudoClasses)
		if p.Element != "" && p.Element != "*" {
			sp.Types++
		}
	}
	if sel.PseudoElement != "" {
		sp.Types++
	}
	return sp
}

// splitTopLevel splits on sep outside of brackets and parentheses.
func splitTopLevel(s string, sep rune) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + len(string(sep))
			}
		}
	}
	out = append(out, s[start:])
	return out
}
