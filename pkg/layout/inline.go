package layout

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"

	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/text"
)

// InlineStyle is the resolved text styling shared by one run of
// characters. Source may be nil when no fonts are registered; measurement
// then falls back to synthetic metrics so layout stays deterministic.
type InlineStyle struct {
	Source    *text.Source
	Size      float64
	Color     css.Color
	Underline bool
	Strike    bool
}

// FragmentKind distinguishes placed text from atomic inline boxes.
type FragmentKind uint8

const (
	FragmentText FragmentKind = iota
	FragmentBox
)

// Fragment is one placed piece of a line box. Coordinates are relative
// to the inline root's content box so a cached layout survives the root
// moving. For text fragments Baseline is the pen Y; for box fragments
// X/Y is the top-left corner and Width/Height the border-box size.
type Fragment struct {
	Kind     FragmentKind
	Node     dom.NodeID
	X        float64
	Baseline float64
	Y        float64
	Width    float64
	Height   float64
	Text     string
	RTL      bool
	Run      text.ShapedRun
	Style    InlineStyle
}

// Line is one line box.
type Line struct {
	Y         float64
	Width     float64
	Height    float64
	Baseline  float64
	Fragments []Fragment
}

// InlineLayout is the inline builder's output, cached on the inline
// root element and rebuilt when content, style or available width change.
type InlineLayout struct {
	AvailWidth float64
	Lines      []Line
	Width      float64
	Height     float64
}

// FirstBaseline returns the baseline of the first line, or the content
// height when there are no lines.
func (il *InlineLayout) FirstBaseline() float64 {
	if len(il.Lines) > 0 {
		return il.Lines[0].Y + il.Lines[0].Baseline
	}
	return il.Height
}

// inline items collected before line breaking

type itemKind uint8

const (
	itemWord itemKind = iota
	itemSpace
	itemBox
	itemBreak
)

type inlineItem struct {
	kind       itemKind
	node       dom.NodeID
	txt        string
	rtl        bool
	style      InlineStyle
	lineHeight float64
	// box items
	boxW, boxH float64
	marginL    float64
	marginR    float64
}

type inlineBuilder struct {
	eng   *Engine
	tree  *dom.Tree
	items []inlineItem
	ws    css.WhiteSpace
	align css.TextAlign
	avail float64
}

// buildInline produces the line boxes for an inline formatting context
// rooted at root, considering only the given children (the full child
// list for a true inline root, or a contiguous slice for an anonymous
// run inside mixed content).
func (e *Engine) buildInline(tree *dom.Tree, root dom.NodeID, children []dom.NodeID, availWidth float64) *InlineLayout {
	rootNode := tree.Get(root)
	style := e.styleOf(rootNode)
	b := &inlineBuilder{
		eng:   e,
		tree:  tree,
		ws:    style.GetWhiteSpace(),
		align: style.GetTextAlign(),
		avail: availWidth,
	}
	for _, id := range children {
		b.collect(id, style)
	}
	b.trimCollapsed()
	return b.breakLines(availWidth)
}

func (b *inlineBuilder) collect(id dom.NodeID, parentStyle *css.Style) {
	node := b.tree.Get(id)
	switch {
	case node.IsText():
		b.collectText(id, node.Text().Text, parentStyle)
	case node.IsElement():
		style := b.eng.styleOf(node)
		if _, explicit := style.Get("display"); explicit {
			switch style.Display() {
			case css.DisplayNone:
				return
			case css.DisplayContents:
				for _, c := range node.Children {
					b.collect(c, style)
				}
				return
			}
		}
		if node.TagName() == "br" {
			b.items = append(b.items, inlineItem{kind: itemBreak, node: id})
			return
		}
		if b.eng.isAtomicInline(node, style) || !b.eng.isInlineLevel(b.tree, id) {
			b.collectBox(id, node, style)
			return
		}
		// plain inline span: recurse with this element's style
		for _, c := range node.Children {
			b.collect(c, style)
		}
	}
}

func (b *inlineBuilder) collectBox(id dom.NodeID, node *dom.Node, style *css.Style) {
	rem := b.eng.Device.RootFont
	margin := style.Margin(0, rem)
	w, h := b.eng.layoutAtomicInline(b.tree, id, b.avail)
	b.items = append(b.items, inlineItem{
		kind:    itemBox,
		node:    id,
		boxW:    w,
		boxH:    h,
		marginL: margin.Left,
		marginR: margin.Right,
	})
}

func (b *inlineBuilder) collectText(id dom.NodeID, raw string, style *css.Style) {
	if raw == "" {
		return
	}
	rem := b.eng.Device.RootFont
	size := style.FontSize(rem)
	is := InlineStyle{
		Source:    b.eng.resolveFace(style),
		Size:      size,
		Color:     style.TextColor(),
		Underline: hasDecoration(style, "underline"),
		Strike:    hasDecoration(style, "line-through"),
	}
	lh := style.LineHeight(rem)

	switch b.ws {
	case css.WhiteSpacePre, css.WhiteSpacePreWrap:
		b.collectPreserved(id, raw, is, lh)
	case css.WhiteSpacePreLine:
		for i, seg := range strings.Split(raw, "\n") {
			if i > 0 {
				b.items = append(b.items, inlineItem{kind: itemBreak, node: id})
			}
			b.collectCollapsed(id, seg, is, lh)
		}
	default:
		b.collectCollapsed(id, raw, is, lh)
	}
}

func (b *inlineBuilder) collectCollapsed(id dom.NodeID, raw string, is InlineStyle, lh float64) {
	i := 0
	for i < len(raw) {
		if isCollapsibleWS(raw[i]) {
			for i < len(raw) && isCollapsibleWS(raw[i]) {
				i++
			}
			b.items = append(b.items, inlineItem{kind: itemSpace, node: id, txt: " ", style: is, lineHeight: lh})
			continue
		}
		start := i
		for i < len(raw) && !isCollapsibleWS(raw[i]) {
			i++
		}
		b.appendWords(id, raw[start:i], is, lh)
	}
}

func (b *inlineBuilder) collectPreserved(id dom.NodeID, raw string, is InlineStyle, lh float64) {
	for i, seg := range strings.Split(raw, "\n") {
		if i > 0 {
			b.items = append(b.items, inlineItem{kind: itemBreak, node: id})
		}
		j := 0
		for j < len(seg) {
			if seg[j] == ' ' || seg[j] == '\t' {
				start := j
				for j < len(seg) && (seg[j] == ' ' || seg[j] == '\t') {
					j++
				}
				spaces := strings.ReplaceAll(seg[start:j], "\t", "    ")
				b.items = append(b.items, inlineItem{kind: itemSpace, node: id, txt: spaces, style: is, lineHeight: lh})
				continue
			}
			start := j
			for j < len(seg) && seg[j] != ' ' && seg[j] != '\t' {
				j++
			}
			b.appendWords(id, seg[start:j], is, lh)
		}
	}
}

// appendWords splits a whitespace-free chunk into directional runs and
// appends one word item per run.
func (b *inlineBuilder) appendWords(id dom.NodeID, word string, is InlineStyle, lh float64) {
	for _, seg := range splitBidi(word) {
		b.items = append(b.items, inlineItem{
			kind:       itemWord,
			node:       id,
			txt:        seg.text,
			rtl:        seg.rtl,
			style:      is,
			lineHeight: lh,
		})
	}
}

type bidiSeg struct {
	text string
	rtl  bool
}

func splitBidi(s string) []bidiSeg {
	if isASCII(s) {
		return []bidiSeg{{text: s}}
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s); err != nil {
		return []bidiSeg{{text: s}}
	}
	order, err := p.Order()
	if err != nil {
		return []bidiSeg{{text: s}}
	}
	segs := make([]bidiSeg, 0, order.NumRuns())
	for i := 0; i < order.NumRuns(); i++ {
		r := order.Run(i)
		segs = append(segs, bidiSeg{text: r.String(), rtl: r.Direction() == bidi.RightToLeft})
	}
	return segs
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isCollapsibleWS(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func hasDecoration(style *css.Style, kind string) bool {
	v, ok := style.Get("text-decoration")
	if !ok {
		v, ok = style.Get("text-decoration-line")
	}
	return ok && strings.Contains(v, kind)
}

// trimCollapsed drops leading and trailing collapsible spaces so empty
// whitespace runs do not produce line boxes.
func (b *inlineBuilder) trimCollapsed() {
	if b.ws == css.WhiteSpacePre || b.ws == css.WhiteSpacePreWrap {
		return
	}
	for len(b.items) > 0 && b.items[0].kind == itemSpace {
		b.items = b.items[1:]
	}
	for len(b.items) > 0 && b.items[len(b.items)-1].kind == itemSpace {
		b.items = b.items[:len(b.items)-1]
	}
}

func (b *inlineBuilder) breakLines(availWidth float64) *InlineLayout {
	layout := &InlineLayout{AvailWidth: availWidth}
	wrap := b.ws != css.WhiteSpaceNowrap && b.ws != css.WhiteSpacePre

	var cur []inlineItem
	x := 0.0
	y := 0.0

	flush := func() {
		line := b.placeLine(cur, y)
		if line != nil {
			layout.Lines = append(layout.Lines, *line)
			y += line.Height
			if line.Width > layout.Width {
				layout.Width = line.Width
			}
		}
		cur = cur[:0]
		x = 0
	}

	for _, it := range b.items {
		if it.kind == itemBreak {
			if len(cur) == 0 {
				// empty line from consecutive breaks still advances
				lh := b.eng.Device.RootFont * 1.2
				layout.Lines = append(layout.Lines, Line{Y: y, Height: lh, Baseline: lh * 0.8})
				y += lh
			} else {
				flush()
			}
			continue
		}
		w := b.itemWidth(it)
		if wrap && it.kind != itemSpace && len(cur) > 0 && x+w > availWidth {
			flush()
		}
		if it.kind == itemSpace && len(cur) == 0 && wrap {
			continue
		}
		cur = append(cur, it)
		x += w
	}
	if len(cur) > 0 {
		flush()
	}
	layout.Height = y
	return layout
}

func (b *inlineBuilder) itemWidth(it inlineItem) float64 {
	switch it.kind {
	case itemBox:
		return it.marginL + it.boxW + it.marginR
	default:
		return measureAdvance(it.style, it.txt)
	}
}

// placeLine positions one line's items, aligning baselines and applying
// half-leading from each run's line-height.
func (b *inlineBuilder) placeLine(items []inlineItem, y float64) *Line {
	if len(items) == 0 {
		return nil
	}
	// drop trailing spaces so alignment measures the visible extent
	for len(items) > 0 && items[len(items)-1].kind == itemSpace {
		items = items[:len(items)-1]
	}
	if len(items) == 0 {
		return nil
	}

	var above, below float64
	for _, it := range items {
		if it.kind == itemBox {
			if it.boxH > above {
				above = it.boxH
			}
			continue
		}
		asc, desc := faceMetrics(it.style)
		lh := it.lineHeight
		if lh <= 0 {
			lh = (asc + desc) * 1.0
		}
		half := (lh - asc - desc) / 2
		if asc+half > above {
			above = asc + half
		}
		if desc+half > below {
			below = desc + half
		}
	}
	if above == 0 && below == 0 {
		return nil
	}

	line := &Line{Y: y, Height: above + below, Baseline: above}
	x := 0.0
	for _, it := range items {
		switch it.kind {
		case itemBox:
			x += it.marginL
			line.Fragments = append(line.Fragments, Fragment{
				Kind:   FragmentBox,
				Node:   it.node,
				X:      x,
				Y:      above - it.boxH,
				Width:  it.boxW,
				Height: it.boxH,
			})
			x += it.boxW + it.marginR
		default:
			run := shapeItem(b.eng.shaper(), it)
			line.Fragments = append(line.Fragments, Fragment{
				Kind:     FragmentText,
				Node:     it.node,
				X:        x,
				Baseline: above,
				Text:     it.txt,
				RTL:      it.rtl,
				Run:      run,
				Style:    it.style,
			})
			x += run.Advance
		}
	}
	line.Width = x

	switch b.align {
	case css.TextAlignCenter:
		shiftLine(line, (b.lineAvail()-line.Width)/2)
	case css.TextAlignRight:
		shiftLine(line, b.lineAvail()-line.Width)
	}
	return line
}

func (b *inlineBuilder) lineAvail() float64 { return b.avail }

func shiftLine(line *Line, dx float64) {
	if dx <= 0 {
		return
	}
	for i := range line.Fragments {
		line.Fragments[i].X += dx
	}
}

// faceMetrics returns ascent and descent for a run, synthesizing them
// when no font source is available.
func faceMetrics(is InlineStyle) (ascent, descent float64) {
	if is.Source == nil {
		return is.Size * 0.8, is.Size * 0.2
	}
	m := is.Source.Metrics(is.Size)
	return m.Ascent, m.Descent
}

// measureAdvance measures text width without committing glyphs.
func measureAdvance(is InlineStyle, s string) float64 {
	if is.Source == nil {
		n := 0
		for range s {
			n++
		}
		return float64(n) * is.Size * 0.5
	}
	return is.Source.Advance(s, is.Size)
}

func shapeItem(shaper text.Shaper, it inlineItem) text.ShapedRun {
	if it.style.Source == nil {
		return text.ShapedRun{Advance: measureAdvance(it.style, it.txt)}
	}
	return shaper.Shape(it.txt, it.style.Source, it.style.Size, it.rtl)
}

// isInlineLevel reports whether a node participates in inline layout
// rather than opening its own block. Elements without an explicit
// display fall back to the default display of their tag.
func (e *Engine) isInlineLevel(tree *dom.Tree, id dom.NodeID) bool {
	node := tree.Get(id)
	if node.IsText() {
		return true
	}
	if !node.IsElement() {
		return false
	}
	style := e.styleOf(node)
	if _, explicit := style.Get("display"); explicit {
		switch style.Display() {
		case css.DisplayInline, css.DisplayInlineBlock:
			return true
		case css.DisplayContents:
			for _, c := range node.Children {
				if !e.isInlineLevel(tree, c) {
					return false
				}
			}
			return true
		}
		return false
	}
	if node.Element().Replaced != nil {
		return true
	}
	return defaultInlineTag(node.TagName())
}

// isAtomicInline reports whether an inline-level element is laid out as
// a single opaque box rather than contributing text runs.
func (e *Engine) isAtomicInline(node *dom.Node, style *css.Style) bool {
	if node.Element().Replaced != nil {
		return true
	}
	if _, explicit := style.Get("display"); explicit {
		d := style.Display()
		return d == css.DisplayInlineBlock || d == css.DisplayBlock
	}
	switch node.TagName() {
	case "button", "input", "select", "textarea", "img", "canvas", "video":
		return true
	}
	return false
}

func defaultInlineTag(tag string) bool {
	switch tag {
	case "a", "abbr", "b", "bdi", "bdo", "br", "button", "cite", "code",
		"em", "i", "img", "input", "kbd", "label", "mark", "q", "s",
		"samp", "select", "small", "span", "strong", "sub", "sup",
		"textarea", "time", "u", "var":
		return true
	}
	return false
}

func isWhitespaceOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
