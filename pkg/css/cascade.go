package css

import (
	"fmt"
	"sort"
)

// inheritedProperties are the longhand properties that pass from parent
// to child when not set by any rule.
var inheritedProperties = map[string]bool{
	"color":           true,
	"cursor":          true,
	"font-family":     true,
	"font-size":       true,
	"font-style":      true,
	"font-weight":     true,
	"letter-spacing":  true,
	"line-height":     true,
	"list-style-type": true,
	"text-align":      true,
	"text-indent":     true,
	"visibility":      true,
	"white-space":     true,
	"word-spacing":    true,
}

type matchedRule struct {
	rule   Rule
	origin Origin
}

// ComputeStyle runs the cascade for one element: user-agent rules, then
// author rules ordered by specificity and source order, then the inline
// style attribute, then inheritance and font-size absolutization.
//
// parent is the parent element's computed style, or nil at the root.
func ComputeStyle(el Element, sheets []*Stylesheet, dev Device, parent *Style) *Style {
	var matched []matchedRule
	for _, sheet := range sheets {
		for _, rule := range sheet.Rules {
			if !EvaluateMediaQuery(rule.MediaQuery, dev) {
				continue
			}
			if rule.Selector.PseudoElement != "" {
				continue
			}
			if Matches(el, rule.Selector) {
				matched = append(matched, matchedRule{rule: rule, origin: sheet.Origin})
			}
		}
	}
	style := applyCascade(matched)

	if styleAttr, ok := el.Attr("style"); ok && styleAttr != "" {
		inline := ParseInlineStyle(styleAttr)
		for k, v := range inline.Properties {
			style.Set(k, v)
		}
	}

	applyInheritance(style, parent, dev)
	return style
}

// ComputePseudoStyle computes the style for ::before / ::after on el.
// The returned style is nil when no rule targets the pseudo-element.
func ComputePseudoStyle(el Element, pseudo string, sheets []*Stylesheet, dev Device, base *Style) *Style {
	var matched []matchedRule
	for _, sheet := range sheets {
		for _, rule := range sheet.Rules {
			if rule.Selector.PseudoElement != pseudo {
				continue
			}
			if !EvaluateMediaQuery(rule.MediaQuery, dev) {
				continue
			}
			if Matches(el, rule.Selector) {
				matched = append(matched, matchedRule{rule: rule, origin: sheet.Origin})
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}
	style := applyCascade(matched)
	applyInheritance(style, base, dev)
	return style
}

// applyCascade merges matched declarations. Sort keys, weakest first:
// !important inverts origin order; within equal importance and origin,
// specificity then source order decide.
func applyCascade(matched []matchedRule) *Style {
	style := NewStyle()
	// Stable sort so equal keys keep stylesheet order.
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.origin != b.origin {
			return a.origin < b.origin
		}
		if a.rule.Selector.Specificity != b.rule.Selector.Specificity {
			return a.rule.Selector.Specificity.Less(b.rule.Selector.Specificity)
		}
		return a.rule.SourceOrder < b.rule.SourceOrder
	})
	// Normal declarations in cascade order.
	for _, m := range matched {
		for k, v := range m.rule.Declarations {
			if isImportantKey(k) {
				continue
			}
			if IsImportant(m.rule.Declarations, k) {
				continue
			}
			style.Set(k, v)
		}
	}
	// Important declarations override, in the same order. Author-important
	// beating UA-important is close enough for the origins we carry.
	for _, m := range matched {
		for k, v := range m.rule.Declarations {
			if isImportantKey(k) || !IsImportant(m.rule.Declarations, k) {
				continue
			}
			style.Set(k, v)
		}
	}
	return style
}

func isImportantKey(k string) bool {
	return len(k) > len(importantSuffix) && k[len(k)-len(importantSuffix):] == importantSuffix
}

// applyInheritance fills unset inherited properties from the parent style
// and absolutizes font-size so descendants can resolve em against px.
func applyInheritance(style *Style, parent *Style, dev Device) {
	parentFont := dev.RootFont
	if parent != nil {
		if v, ok := parent.Get("font-size"); ok {
			if l, ok := ParseLengthValue(v); ok && l.Unit == UnitPx {
				parentFont = l.Value
			}
		}
	}

	// font-size first: its computed value is the em base for this element.
	if v, ok := style.Get("font-size"); ok {
		if l, ok := ParseLengthValue(v); ok {
			px := parentFont
			switch l.Unit {
			case UnitPx:
				px = l.Value
			case UnitEm:
				px = parentFont * l.Value
			case UnitRem:
				px = dev.RootFont * l.Value
			case UnitPercent:
				px = parentFont * l.Value / 100.0
			}
			style.Set("font-size", formatPx(px))
		}
	}

	if parent == nil {
		if _, ok := style.Get("font-size"); !ok {
			style.Set("font-size", formatPx(dev.RootFont))
		}
		return
	}
	for prop := range inheritedProperties {
		if _, ok := style.Get(prop); ok {
			continue
		}
		if v, ok := parent.Get(prop); ok {
			style.Set(prop, v)
		}
	}
	if _, ok := style.Get("font-size"); !ok {
		style.Set("font-size", formatPx(parentFont))
	}
}

func formatPx(px float64) string {
	return fmt.Sprintf("%gpx", px)
}

// FormatPx renders a pixel count as a CSS length value.
func FormatPx(px float64) string { return formatPx(px) }
