package css

import "strings"

// ExpandShorthand writes property:value into style, expanding shorthand
// properties into their longhand components.
func ExpandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, value)
	case "border":
		expandBorderProperty(style, "top", value)
		expandBorderProperty(style, "right", value)
		expandBorderProperty(style, "bottom", value)
		expandBorderProperty(style, "left", value)
	case "border-top", "border-right", "border-bottom", "border-left":
		expandBorderProperty(style, strings.TrimPrefix(property, "border-"), value)
	case "border-width":
		expandBoxSides(style, "border", "-width", value)
	case "border-style":
		expandBoxSides(style, "border", "-style", value)
	case "border-color":
		expandBoxSides(style, "border", "-color", value)
	case "border-radius":
		expandRadius(style, value)
	case "background":
		expandBackground(style, value)
	case "overflow":
		style.Set("overflow", value)
		style.Set("overflow-x", value)
		style.Set("overflow-y", value)
	case "inset":
		parts := strings.Fields(value)
		if len(parts) > 0 {
			applySides(style, "", "", parts, func(side, v string) {
				style.Set(side, v)
			})
		}
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands margin/padding shorthand. One to four values
// follow the usual top/right/bottom/left rotation.
func expandBoxProperty(style *Style, prefix, value string) {
	expandBoxSides(style, prefix, "", value)
}

func expandBoxSides(style *Style, prefix, suffix, value string) {
	parts := strings.Fields(value)
	applySides(style, prefix, suffix, parts, nil)
}

func applySides(style *Style, prefix, suffix string, parts []string, set func(side, v string)) {
	if set == nil {
		set = func(side, v string) {
			if prefix != "" {
				side = prefix + "-" + side
			}
			style.Set(side+suffix, v)
		}
	}
	switch len(parts) {
	case 1:
		set("top", parts[0])
		set("right", parts[0])
		set("bottom", parts[0])
		set("left", parts[0])
	case 2:
		set("top", parts[0])
		set("bottom", parts[0])
		set("right", parts[1])
		set("left", parts[1])
	case 3:
		set("top", parts[0])
		set("right", parts[1])
		set("left", parts[1])
		set("bottom", parts[2])
	case 4:
		set("top", parts[0])
		set("right", parts[1])
		set("bottom", parts[2])
		set("left", parts[3])
	}
}

// expandBorderProperty expands "1px solid black" for one side.
func expandBorderProperty(style *Style, side, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case isBorderStyle(part):
			style.Set("border-"+side+"-style", part)
		case looksLikeLength(part):
			style.Set("border-"+side+"-width", part)
		default:
			if _, ok := ParseColor(part); ok {
				style.Set("border-"+side+"-color", part)
			}
		}
	}
}

func isBorderStyle(v string) bool {
	switch v {
	case "none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}

func looksLikeLength(v string) bool {
	_, ok := ParseLengthValue(v)
	return ok && v != "auto"
}

func expandRadius(style *Style, value string) {
	parts := strings.Fields(value)
	corners := [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}
	var vals [4]string
	switch len(parts) {
	case 1:
		vals = [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		vals = [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		vals = [4]string{parts[0], parts[1], parts[2], parts[1]}
	case 4:
		vals = [4]string{parts[0], parts[1], parts[2], parts[3]}
	default:
		return
	}
	for i, c := range corners {
		style.Set("border-"+c+"-radius", vals[i])
	}
}

// expandBackground handles the common background shorthand forms: a color,
// an image (url/gradient), or both.
func expandBackground(style *Style, value string) {
	for _, part := range splitTopLevel(value, ' ') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, "url("),
			strings.Contains(part, "gradient("):
			style.Set("background-image", part)
		default:
			if _, ok := ParseColor(part); ok {
				style.Set("background-color", part)
			}
		}
	}
}
