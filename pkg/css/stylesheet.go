package css

import "strings"

// Origin identifies where a stylesheet came from; it is the outermost
// cascade ordering key.
type Origin uint8

const (
	OriginUserAgent Origin = iota
	OriginAuthor
)

// Rule is one style rule: a single complex selector plus its expanded
// declarations. A source rule with a selector list becomes one Rule per
// selector.
type Rule struct {
	Selector     Selector
	Declarations map[string]string
	MediaQuery   string // empty when not inside @media
	Origin       Origin
	SourceOrder  int
}

// Stylesheet is a parsed stylesheet.
type Stylesheet struct {
	Rules  []Rule
	Origin Origin
}

// ParseStylesheet parses stylesheet text. Malformed rules are skipped,
// matching error-recovery behavior: a parse never fails as a whole.
func ParseStylesheet(text string, origin Origin) *Stylesheet {
	sheet := &Stylesheet{Origin: origin}
	parseRulesInto(sheet, stripComments(text), "")
	return sheet
}

func parseRulesInto(sheet *Stylesheet, text, mediaQuery string) {
	for _, raw := range splitBlocks(text) {
		brace := strings.IndexByte(raw, '{')
		if brace < 0 {
			continue
		}
		prelude := strings.TrimSpace(raw[:brace])
		body := raw[brace+1 : len(raw)-1] // splitBlocks guarantees a trailing }

		if strings.HasPrefix(prelude, "@media") {
			parseRulesInto(sheet, body, strings.TrimSpace(strings.TrimPrefix(prelude, "@media")))
			continue
		}
		if strings.HasPrefix(prelude, "@") {
			// Unsupported at-rule (@import, @font-face, ...): skip whole block.
			continue
		}

		selectors, err := ParseSelectorList(prelude)
		if err != nil {
			continue
		}
		decls := ParseDeclarations(body)
		if len(decls) == 0 {
			continue
		}
		for _, sel := range selectors {
			sheet.Rules = append(sheet.Rules, Rule{
				Selector:     sel,
				Declarations: decls,
				MediaQuery:   mediaQuery,
				Origin:       sheet.Origin,
				SourceOrder:  len(sheet.Rules),
			})
		}
	}
}

// splitBlocks splits stylesheet text into balanced-brace blocks, keeping
// nested blocks (for @media) intact.
func splitBlocks(text string) []string {
	var blocks []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				block := strings.TrimSpace(text[start : i+1])
				if block != "" {
					blocks = append(blocks, block)
				}
				start = i + 1
			}
			if depth < 0 {
				depth = 0
				start = i + 1
			}
		}
	}
	return blocks
}

// stripComments removes /* ... */ comments.
func stripComments(text string) string {
	var b strings.Builder
	for {
		open := strings.Index(text, "/*")
		if open < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:open])
		end := strings.Index(text[open+2:], "*/")
		if end < 0 {
			return b.String()
		}
		text = text[open+2+end+2:]
	}
}

// ParseDeclarations parses "prop: value; ..." into an expanded property
// map. Shorthands are expanded; !important markers are recorded with an
// internal suffix consumed by the cascade.
func ParseDeclarations(body string) map[string]string {
	decls := make(map[string]string)
	for _, part := range splitTopLevel(body, ';') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.IndexByte(part, ':')
		if colon < 0 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colon]))
		value := strings.TrimSpace(part[colon+1:])
		if property == "" || value == "" {
			continue
		}
		important := false
		if strings.HasSuffix(value, "!important") {
			important = true
			value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		}
		tmp := NewStyle()
		ExpandShorthand(tmp, property, value)
		for k, v := range tmp.Properties {
			decls[k] = v
			if important {
				decls[k+importantSuffix] = "1"
			}
		}
	}
	return decls
}

// importantSuffix marks a declaration as !important inside a declaration
// map. It contains a character invalid in property names so it can never
// collide with a real property.
const importantSuffix = " !"

// IsImportant reports whether a property in a declaration map carries
// !important.
func IsImportant(decls map[string]string, property string) bool {
	_, ok := decls[property+importantSuffix]
	return ok
}

// ParseInlineStyle parses a style="" attribute value into an expanded
// author declaration block.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range splitTopLevel(stripComments(styleAttr), ';') {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		colon := strings.IndexByte(decl, ':')
		if colon < 0 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(decl[:colon]))
		value := strings.TrimSpace(decl[colon+1:])
		if property != "" && value != "" {
			ExpandShorthand(style, property, value)
		}
	}
	return style
}
