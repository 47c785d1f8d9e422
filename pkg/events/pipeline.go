package events

import (
	"strings"

	"vireo/pkg/dom"
)

// FormField is one name/value pair collected from a submitted form.
type FormField struct {
	Name  string
	Value string
}

// Submission describes a form submit default action.
type Submission struct {
	Form   dom.NodeID
	Action string
	Method string
	Fields []FormField
}

// Pipeline owns input handling for one document tree. All handlers run
// synchronously: derived events and default actions complete before the
// entry point returns.
type Pipeline struct {
	tree     *dom.Tree
	listener Listener
	navigate func(url string)
	submit   func(Submission)
	damage   func()

	mouseDownNode dom.NodeID
	mouseDownBtn  Button
	composeNode   dom.NodeID
	composing     bool
}

// NewPipeline returns a pipeline over the tree.
func NewPipeline(tree *dom.Tree) *Pipeline {
	return &Pipeline{tree: tree, mouseDownNode: dom.NoNode, composeNode: dom.NoNode}
}

// SetListener installs the embedder callback invoked for every node in
// the bubble chain that registered the event's name.
func (p *Pipeline) SetListener(l Listener) { p.listener = l }

// SetNavigator installs the link-activation callback.
func (p *Pipeline) SetNavigator(fn func(url string)) { p.navigate = fn }

// SetSubmitter installs the form-submission callback.
func (p *Pipeline) SetSubmitter(fn func(Submission)) { p.submit = fn }

// SetDamageCallback installs a hook fired whenever handling changed
// visual state (hover, scroll, edits) and a repaint is warranted.
func (p *Pipeline) SetDamageCallback(fn func()) { p.damage = fn }

func (p *Pipeline) damaged() {
	if p.damage != nil {
		p.damage()
	}
}

// Dispatch delivers a synthesized event through the bubble chain. Events
// whose target is dead or detached from the document are dropped.
func (p *Pipeline) Dispatch(ev *Event, bubbles bool) {
	p.dispatch(ev, bubbles)
}

// dispatch walks the bubble chain from the target to the root, invoking
// the listener for each node that registered the event name. Dispatch
// against a node that is dead or detached from the document is a no-op.
func (p *Pipeline) dispatch(ev *Event, bubbles bool) {
	if ev.Target == dom.NoNode || !p.tree.Alive(ev.Target) || !p.tree.InTree(ev.Target) {
		return
	}
	chain := p.tree.NodeChain(ev.Target)

	// listener summary: skip the walk when nothing in the chain listens
	name := string(ev.Kind)
	any := false
	for _, id := range chain {
		if el := p.tree.Get(id).Element(); el != nil && el.Listeners[name] {
			any = true
			break
		}
	}
	if !any || p.listener == nil {
		return
	}
	for _, id := range chain {
		el := p.tree.Get(id).Element()
		if el != nil && el.Listeners[name] {
			ev.CurrentTarget = id
			p.listener(ev)
			if ev.propagationStopped {
				return
			}
		}
		if !bubbles {
			return
		}
	}
}

// HandleMouseMove performs hit testing, hover bookkeeping with derived
// mouseover/mouseout events, and dispatches mousemove.
func (p *Pipeline) HandleMouseMove(x, y float64, mods Modifiers) {
	hit := HitTest(p.tree, x, y)
	prev := p.tree.Hover()
	if prev != hit {
		if prev != dom.NoNode && p.tree.Alive(prev) {
			p.dispatch(&Event{Kind: MouseOut, Target: prev, X: x, Y: y, Mods: mods}, true)
		}
		p.tree.SetHover(hit)
		if hit != dom.NoNode {
			p.dispatch(&Event{Kind: MouseOver, Target: hit, X: x, Y: y, Mods: mods}, true)
		}
		p.damaged()
	}
	if hit != dom.NoNode {
		p.dispatch(&Event{Kind: MouseMove, Target: hit, X: x, Y: y, Mods: mods}, true)
	}
}

// HandleMouseDown dispatches mousedown, arms click derivation, updates
// the active state and moves focus to the nearest focusable ancestor of
// the hit node (clearing it on a background press).
func (p *Pipeline) HandleMouseDown(x, y float64, button Button, mods Modifiers) {
	hit := HitTest(p.tree, x, y)
	p.mouseDownNode = hit
	p.mouseDownBtn = button
	if hit == dom.NoNode {
		p.moveFocus(dom.NoNode)
		return
	}
	p.tree.SetActive(hit)
	p.damaged()
	ev := &Event{Kind: MouseDown, Target: hit, X: x, Y: y, Button: button, Mods: mods}
	p.dispatch(ev, true)
	if !ev.defaultPrevented {
		p.moveFocus(FocusTarget(p.tree, hit))
	}
}

// HandleMouseUp dispatches mouseup, then derives a click when the press
// and release landed on the same node with the same button. The click
// carries the release coordinates.
func (p *Pipeline) HandleMouseUp(x, y float64, button Button, mods Modifiers) {
	hit := HitTest(p.tree, x, y)
	downNode, downBtn := p.mouseDownNode, p.mouseDownBtn
	p.mouseDownNode = dom.NoNode
	p.tree.SetActive(dom.NoNode)
	p.damaged()

	if hit != dom.NoNode {
		p.dispatch(&Event{Kind: MouseUp, Target: hit, X: x, Y: y, Button: button, Mods: mods}, true)
	}
	if hit == dom.NoNode || hit != downNode || button != downBtn {
		return
	}
	click := &Event{Kind: Click, Target: hit, X: x, Y: y, Button: button, Mods: mods}
	p.dispatch(click, true)
	if !click.defaultPrevented && button == ButtonLeft {
		p.defaultClick(hit)
	}
}

// defaultClick runs click default actions: link navigation, checkbox
// toggling, and submit-button form submission, using the nearest
// applicable ancestor.
func (p *Pipeline) defaultClick(id dom.NodeID) {
	for _, cur := range p.tree.NodeChain(id) {
		node := p.tree.Get(cur)
		el := node.Element()
		if el == nil {
			continue
		}
		switch node.TagName() {
		case "a":
			if href, ok := el.Attr("href"); ok && p.navigate != nil {
				p.navigate(href)
				return
			}
		case "input":
			typ, _ := el.Attr("type")
			switch typ {
			case "checkbox", "radio":
				p.toggleChecked(cur)
				return
			case "submit":
				p.submitAncestorForm(cur)
				return
			}
		case "button":
			typ, _ := el.Attr("type")
			if typ == "" || typ == "submit" {
				p.submitAncestorForm(cur)
				return
			}
		}
	}
}

// toggleChecked flips a checkbox through the mutation API so the checked
// attribute, replaced-content state and :checked restyling stay in sync,
// then fires input and change.
func (p *Pipeline) toggleChecked(id dom.NodeID) {
	node := p.tree.Get(id)
	el := node.Element()
	m := p.tree.Mutate()
	if _, checked := el.Attr("checked"); checked {
		m.RemoveAttribute(id, "checked")
	} else {
		m.SetAttribute(id, "checked", "")
	}
	if el.Replaced != nil {
		_, el.Replaced.Checked = el.Attr("checked")
	}
	p.damaged()
	p.dispatch(&Event{Kind: Input, Target: id}, true)
	p.dispatch(&Event{Kind: Change, Target: id}, true)
}

// submitAncestorForm finds the control's form and submits it.
func (p *Pipeline) submitAncestorForm(id dom.NodeID) {
	for _, cur := range p.tree.NodeChain(id) {
		if p.tree.Get(cur).TagName() == "form" {
			p.submitForm(cur)
			return
		}
	}
}

// submitForm fires the submit event, then collects named control values
// and hands them to the submission callback.
func (p *Pipeline) submitForm(form dom.NodeID) {
	ev := &Event{Kind: Submit, Target: form}
	p.dispatch(ev, true)
	if ev.defaultPrevented || p.submit == nil {
		return
	}
	node := p.tree.Get(form)
	action, _ := node.Attr("action")
	method, _ := node.Attr("method")
	if method == "" {
		method = "get"
	}
	sub := Submission{Form: form, Action: action, Method: strings.ToLower(method)}
	p.tree.VisitDepthFirst(form, func(n *dom.Node) bool {
		el := n.Element()
		if el == nil {
			return true
		}
		name, ok := el.Attr("name")
		if !ok || name == "" {
			return true
		}
		switch n.TagName() {
		case "input":
			typ, _ := el.Attr("type")
			if typ == "checkbox" || typ == "radio" {
				if _, checked := el.Attr("checked"); !checked {
					return true
				}
			}
			sub.Fields = append(sub.Fields, FormField{Name: name, Value: controlValue(n)})
		case "textarea", "select":
			sub.Fields = append(sub.Fields, FormField{Name: name, Value: controlValue(n)})
		}
		return true
	})
	p.submit(sub)
}

// controlValue reads a form control's current value, preferring live
// editor state over the value attribute.
func controlValue(n *dom.Node) string {
	el := n.Element()
	if el.Replaced != nil && el.Replaced.Editor != nil {
		return el.Replaced.Editor.Value
	}
	v, _ := el.Attr("value")
	return v
}

// HandleWheel dispatches wheel at the hit node and, unless prevented,
// scrolls the nearest scrollable ancestor, clamping to the scroll range.
func (p *Pipeline) HandleWheel(x, y, dx, dy float64, mods Modifiers) {
	hit := HitTest(p.tree, x, y)
	ev := &Event{Kind: Wheel, Target: hit, X: x, Y: y, DeltaX: dx, DeltaY: dy, Mods: mods}
	if hit != dom.NoNode {
		p.dispatch(ev, true)
		if ev.defaultPrevented {
			return
		}
	}
	p.scrollFrom(hit, dx, dy)
}

// scrollFrom applies a scroll delta to the first ancestor that can take
// it, falling back to the document.
func (p *Pipeline) scrollFrom(id dom.NodeID, dx, dy float64) {
	chain := []dom.NodeID{p.tree.Root()}
	if id != dom.NoNode {
		chain = p.tree.NodeChain(id)
	}
	for _, cur := range chain {
		node := p.tree.Get(cur)
		if cur != p.tree.Root() {
			if !node.IsElement() || !node.LayoutValid {
				continue
			}
			if !scrollableStyle(node) {
				continue
			}
		}
		maxX := node.Layout.ScrollWidth - node.Layout.Width
		maxY := node.Layout.ScrollHeight - node.Layout.Height
		if maxX <= 0 && maxY <= 0 {
			continue
		}
		nx := clamp(node.ScrollX+dx, 0, maxf(maxX, 0))
		ny := clamp(node.ScrollY+dy, 0, maxf(maxY, 0))
		if nx != node.ScrollX || ny != node.ScrollY {
			node.ScrollX, node.ScrollY = nx, ny
			p.damaged()
			return
		}
		// already at the end in the scrolled direction; bubble upward
	}
}

func scrollableStyle(n *dom.Node) bool {
	if n.Style == nil {
		return false
	}
	v, ok := n.Style.Get("overflow")
	if !ok {
		vy, okY := n.Style.Get("overflow-y")
		v, ok = vy, okY
	}
	return ok && (strings.Contains(v, "auto") || strings.Contains(v, "scroll"))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
