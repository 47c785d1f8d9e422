package events

import (
	"testing"

	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/layout"
)

type recorded struct {
	kind   Kind
	target dom.NodeID
	x, y   float64
}

func testSetup() (*dom.Tree, *Pipeline, *[]recorded) {
	tree := dom.NewTree()
	p := NewPipeline(tree)
	var log []recorded
	p.SetListener(func(e *Event) {
		log = append(log, recorded{kind: e.Kind, target: e.CurrentTarget, x: e.X, y: e.Y})
	})
	return tree, p, &log
}

func styleWith(props map[string]string) *css.Style {
	s := css.NewStyle()
	for k, v := range props {
		css.ExpandShorthand(s, k, v)
	}
	return s
}

func addElement(tree *dom.Tree, parent dom.NodeID, tag string, props map[string]string) dom.NodeID {
	m := tree.Mutate()
	id := m.CreateElement(tag)
	m.AppendChild(parent, id)
	tree.Get(id).Style = styleWith(props)
	return id
}

func runLayout(tree *dom.Tree) {
	layout.New(nil, css.Device{Width: 800, Height: 600, Scale: 1, RootFont: 16}).Layout(tree)
}

func listen(tree *dom.Tree, id dom.NodeID, kinds ...Kind) {
	for _, k := range kinds {
		tree.NoteListener(id, string(k))
	}
}

func TestClickDerivation(t *testing.T) {
	tree, p, log := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	btn := addElement(tree, body, "button", map[string]string{"width": "50px", "height": "20px"})
	listen(tree, btn, Click)
	runLayout(tree)

	p.HandleMouseDown(10, 10, ButtonLeft, 0)
	p.HandleMouseUp(12, 11, ButtonLeft, 0)

	clicks := 0
	for _, r := range *log {
		if r.kind == Click {
			clicks++
			if r.x != 12 || r.y != 11 {
				t.Errorf("click at (%v, %v), want release coordinates (12, 11)", r.x, r.y)
			}
		}
	}
	if clicks != 1 {
		t.Errorf("derived %d clicks, want exactly 1", clicks)
	}
}

func TestClickRequiresSameNodeAndButton(t *testing.T) {
	tree, p, log := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	a := addElement(tree, body, "div", map[string]string{"height": "20px"})
	b := addElement(tree, body, "div", map[string]string{"height": "20px"})
	listen(tree, a, Click)
	listen(tree, b, Click)
	runLayout(tree)

	// press on the first block, release on the second
	p.HandleMouseDown(5, 10, ButtonLeft, 0)
	p.HandleMouseUp(5, 30, ButtonLeft, 0)
	// matching node but different button
	p.HandleMouseDown(5, 10, ButtonRight, 0)
	p.HandleMouseUp(5, 10, ButtonLeft, 0)

	for _, r := range *log {
		if r.kind == Click {
			t.Fatalf("unexpected click on node %d", r.target)
		}
	}
}

func TestBubblingAndStopPropagation(t *testing.T) {
	tree := dom.NewTree()
	body := addElement(tree, tree.Root(), "body", nil)
	outer := addElement(tree, body, "div", map[string]string{"height": "100px"})
	inner := addElement(tree, outer, "div", map[string]string{"height": "50px"})
	listen(tree, outer, MouseDown)
	listen(tree, inner, MouseDown)
	runLayout(tree)

	p := NewPipeline(tree)
	var order []dom.NodeID
	p.SetListener(func(e *Event) {
		order = append(order, e.CurrentTarget)
	})
	p.HandleMouseDown(5, 10, ButtonLeft, 0)

	if len(order) != 2 || order[0] != inner || order[1] != outer {
		t.Fatalf("bubble order = %v, want [inner outer]", order)
	}

	order = nil
	p.SetListener(func(e *Event) {
		order = append(order, e.CurrentTarget)
		e.StopPropagation()
	})
	p.HandleMouseDown(5, 10, ButtonLeft, 0)
	if len(order) != 1 || order[0] != inner {
		t.Fatalf("stopped bubble order = %v, want [inner]", order)
	}
}

func TestDetachedDispatchIsNoOp(t *testing.T) {
	tree, p, log := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	div := addElement(tree, body, "div", nil)
	listen(tree, div, Click)
	tree.Mutate().RemoveChild(body, div)

	p.Dispatch(&Event{Kind: Click, Target: div}, true)

	if len(*log) != 0 {
		t.Fatalf("dispatch to detached node invoked %d listeners, want 0", len(*log))
	}
}

func TestFocusEventSequence(t *testing.T) {
	tree, p, log := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	first := addElement(tree, body, "input", map[string]string{"width": "100px", "height": "20px"})
	second := addElement(tree, body, "input", map[string]string{"width": "100px", "height": "20px"})
	for _, id := range []dom.NodeID{first, second} {
		listen(tree, id, Focus, Blur, FocusIn, FocusOut)
	}
	runLayout(tree)

	p.moveFocus(first)
	*log = nil
	p.moveFocus(second)

	want := []struct {
		kind   Kind
		target dom.NodeID
	}{
		{Blur, first},
		{FocusOut, first},
		{Focus, second},
		{FocusIn, second},
	}
	if len(*log) != len(want) {
		t.Fatalf("got %d focus events, want %d: %v", len(*log), len(want), *log)
	}
	for i, w := range want {
		if (*log)[i].kind != w.kind || (*log)[i].target != w.target {
			t.Errorf("event %d = %v on %d, want %v on %d", i, (*log)[i].kind, (*log)[i].target, w.kind, w.target)
		}
	}
	if tree.Focus() != second {
		t.Errorf("focus = %d, want %d", tree.Focus(), second)
	}
}

func TestMouseDownMovesFocus(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	input := addElement(tree, body, "input", map[string]string{"width": "100px", "height": "20px"})
	runLayout(tree)

	p.HandleMouseDown(10, 10, ButtonLeft, 0)
	if tree.Focus() != input {
		t.Errorf("focus = %d, want the pressed input %d", tree.Focus(), input)
	}

	// pressing empty background clears focus
	p.HandleMouseDown(400, 500, ButtonLeft, 0)
	if tree.Focus() != dom.NoNode {
		t.Errorf("focus = %d after background press, want NoNode", tree.Focus())
	}
}

func TestHoverTransitions(t *testing.T) {
	tree, p, log := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	a := addElement(tree, body, "div", map[string]string{"height": "20px"})
	b := addElement(tree, body, "div", map[string]string{"height": "20px"})
	listen(tree, a, MouseOver, MouseOut)
	listen(tree, b, MouseOver, MouseOut)
	runLayout(tree)

	p.HandleMouseMove(5, 10, 0)
	if tree.Hover() != a {
		t.Fatalf("hover = %d, want %d", tree.Hover(), a)
	}
	*log = nil
	p.HandleMouseMove(5, 30, 0)
	if tree.Hover() != b {
		t.Fatalf("hover = %d, want %d", tree.Hover(), b)
	}
	if len(*log) != 2 || (*log)[0].kind != MouseOut || (*log)[0].target != a ||
		(*log)[1].kind != MouseOver || (*log)[1].target != b {
		t.Errorf("transition events = %v, want mouseout on a then mouseover on b", *log)
	}
}

func TestTabOrder(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	third := addElement(tree, body, "input", nil)
	first := addElement(tree, body, "input", nil)
	second := addElement(tree, body, "input", nil)
	m := tree.Mutate()
	m.SetAttribute(first, "tabindex", "1")
	m.SetAttribute(second, "tabindex", "2")
	runLayout(tree)

	p.HandleKeyDown("Tab", "", 0)
	if tree.Focus() != first {
		t.Fatalf("first tab focus = %d, want tabindex 1 node %d", tree.Focus(), first)
	}
	p.HandleKeyDown("Tab", "", 0)
	if tree.Focus() != second {
		t.Fatalf("second tab focus = %d, want tabindex 2 node %d", tree.Focus(), second)
	}
	p.HandleKeyDown("Tab", "", 0)
	if tree.Focus() != third {
		t.Fatalf("third tab focus = %d, want natural-order node %d", tree.Focus(), third)
	}
	p.HandleKeyDown("Tab", "", ModShift)
	if tree.Focus() != second {
		t.Fatalf("shift-tab focus = %d, want %d", tree.Focus(), second)
	}
}

func newTextInput(tree *dom.Tree, parent dom.NodeID) dom.NodeID {
	input := addElement(tree, parent, "input", map[string]string{"width": "100px", "height": "20px"})
	tree.Mutate().SetReplacedContent(input, &dom.ReplacedContent{
		Kind:   dom.ReplacedTextInput,
		Editor: &dom.EditorState{},
	})
	return input
}

func TestTextEditingKeys(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	input := newTextInput(tree, body)
	runLayout(tree)
	p.moveFocus(input)

	p.HandleKeyDown("h", "h", 0)
	p.HandleKeyDown("i", "i", 0)
	p.HandleKeyDown("Backspace", "", 0)
	p.HandleKeyDown("!", "!", 0)

	ed := tree.Get(input).Element().Replaced.Editor
	if ed.Value != "h!" {
		t.Errorf("value = %q, want %q", ed.Value, "h!")
	}
	if ed.SelStart != 2 || ed.SelEnd != 2 {
		t.Errorf("caret = (%d, %d), want (2, 2)", ed.SelStart, ed.SelEnd)
	}
}

func TestImeComposition(t *testing.T) {
	tree, p, log := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	input := newTextInput(tree, body)
	listen(tree, input, Input)
	runLayout(tree)
	p.moveFocus(input)

	p.HandleIme(ImeEvent{Kind: ImeEnabled})
	p.HandleIme(ImeEvent{Kind: ImePreedit, Text: "hi", Cursor: [2]int{0, 2}, HasCursor: true})

	ed := tree.Get(input).Element().Replaced.Editor
	if ed.Compose != "hi" || !ed.Composing() {
		t.Fatalf("compose = %q, want active preedit %q", ed.Compose, "hi")
	}
	// composition suppresses direct text insertion
	p.HandleKeyDown("h", "h", 0)
	if ed.Value != "" {
		t.Fatalf("value = %q during composition, want empty", ed.Value)
	}

	p.HandleIme(ImeEvent{Kind: ImeCommit, Text: "hi"})
	p.HandleIme(ImeEvent{Kind: ImePreedit, Text: ""})

	if ed.Value != "hi" {
		t.Errorf("value = %q, want %q", ed.Value, "hi")
	}
	if ed.Composing() {
		t.Error("compose state should be cleared after commit")
	}
	inputs := 0
	for _, r := range *log {
		if r.kind == Input {
			inputs++
		}
	}
	if inputs != 1 {
		t.Errorf("input events = %d, want 1 (commit only)", inputs)
	}
}

func TestImeDroppedWithoutFocus(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	input := newTextInput(tree, body)
	runLayout(tree)

	p.HandleIme(ImeEvent{Kind: ImePreedit, Text: "xx"})
	if ed := tree.Get(input).Element().Replaced.Editor; ed.Compose != "" {
		t.Errorf("unfocused input received preedit %q", ed.Compose)
	}
}

func TestCheckboxToggle(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	box := addElement(tree, body, "input", map[string]string{"width": "16px", "height": "16px"})
	m := tree.Mutate()
	m.SetAttribute(box, "type", "checkbox")
	m.SetReplacedContent(box, &dom.ReplacedContent{Kind: dom.ReplacedCheckbox})
	runLayout(tree)

	p.HandleMouseDown(5, 5, ButtonLeft, 0)
	p.HandleMouseUp(5, 5, ButtonLeft, 0)
	if _, ok := tree.Get(box).Attr("checked"); !ok {
		t.Fatal("checkbox should be checked after click")
	}
	if !tree.Get(box).Element().Replaced.Checked {
		t.Error("replaced state should mirror the checked attribute")
	}

	p.HandleMouseDown(5, 5, ButtonLeft, 0)
	p.HandleMouseUp(5, 5, ButtonLeft, 0)
	if _, ok := tree.Get(box).Attr("checked"); ok {
		t.Fatal("second click should uncheck")
	}
}

func TestLinkNavigation(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", styleProps16())
	link := addElement(tree, body, "a", nil)
	m := tree.Mutate()
	m.SetAttribute(link, "href", "https://example.com/next")
	txt := m.CreateTextNode("go")
	m.AppendChild(link, txt)
	runLayout(tree)

	var gone string
	p.SetNavigator(func(url string) { gone = url })

	p.HandleMouseDown(5, 5, ButtonLeft, 0)
	p.HandleMouseUp(5, 5, ButtonLeft, 0)
	if gone != "https://example.com/next" {
		t.Errorf("navigated to %q, want the href", gone)
	}
}

func styleProps16() map[string]string {
	return map[string]string{"font-size": "10px", "line-height": "10px"}
}

func TestFormSubmission(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	form := addElement(tree, body, "form", nil)
	m := tree.Mutate()
	m.SetAttribute(form, "action", "/search")
	input := newTextInput(tree, form)
	m.SetAttribute(input, "name", "q")
	tree.Get(input).Element().Replaced.Editor.Value = "cats"
	btn := addElement(tree, form, "button", map[string]string{"width": "40px", "height": "20px"})
	_ = btn
	runLayout(tree)

	var got Submission
	p.SetSubmitter(func(s Submission) { got = s })

	p.moveFocus(input)
	p.HandleKeyDown("Enter", "", 0)

	if got.Action != "/search" || got.Method != "get" {
		t.Fatalf("submission = %+v, want action /search method get", got)
	}
	if len(got.Fields) != 1 || got.Fields[0] != (FormField{Name: "q", Value: "cats"}) {
		t.Errorf("fields = %v, want q=cats", got.Fields)
	}
}

func TestWheelScrollClamps(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	clip := addElement(tree, body, "div", map[string]string{
		"width": "100px", "height": "50px", "overflow": "auto",
	})
	addElement(tree, clip, "div", map[string]string{"height": "200px"})
	runLayout(tree)

	p.HandleWheel(10, 10, 0, 30, 0)
	if got := tree.Get(clip).ScrollY; got != 30 {
		t.Fatalf("scroll = %v, want 30", got)
	}
	p.HandleWheel(10, 10, 0, 1000, 0)
	if got := tree.Get(clip).ScrollY; got != 150 {
		t.Fatalf("scroll = %v, want clamped to 150", got)
	}
	p.HandleWheel(10, 10, 0, -1000, 0)
	if got := tree.Get(clip).ScrollY; got != 0 {
		t.Fatalf("scroll = %v, want clamped to 0", got)
	}
}

func TestHitTestRespectsOverflowClipAndScroll(t *testing.T) {
	tree, p, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	clip := addElement(tree, body, "div", map[string]string{
		"width": "100px", "height": "50px", "overflow": "hidden",
	})
	tall := addElement(tree, clip, "div", map[string]string{"height": "200px"})
	after := addElement(tree, body, "div", map[string]string{"height": "100px"})
	runLayout(tree)

	// below the clip box the tall child is invisible; the sibling wins
	if hit := HitTest(tree, 10, 80); hit != after {
		t.Errorf("hit below clip = %d, want following sibling %d", hit, after)
	}
	// scrolling moves clipped content under the cursor
	tree.Get(clip).ScrollY = 160
	if hit := HitTest(tree, 10, 20); hit != tall {
		t.Errorf("hit inside scrolled clip = %d, want tall child %d", hit, tall)
	}
	_ = p
}

func TestPointerEventsNone(t *testing.T) {
	tree, _, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	under := addElement(tree, body, "div", map[string]string{"height": "50px"})
	over := addElement(tree, body, "div", map[string]string{
		"height": "50px", "position": "absolute", "top": "0px", "left": "0px",
		"width": "800px", "pointer-events": "none",
	})
	runLayout(tree)

	_ = over
	if hit := HitTest(tree, 10, 10); hit != under {
		t.Errorf("hit = %d, want element under the transparent overlay %d", hit, under)
	}
}

func TestHitTestHonorsStackingOrder(t *testing.T) {
	tree, _, _ := testSetup()
	body := addElement(tree, tree.Root(), "body", nil)
	raised := addElement(tree, body, "div", map[string]string{
		"position": "absolute", "top": "0px", "left": "0px",
		"width": "50px", "height": "50px", "z-index": "2",
	})
	later := addElement(tree, body, "div", map[string]string{
		"position": "absolute", "top": "0px", "left": "0px",
		"width": "50px", "height": "50px",
	})
	runLayout(tree)

	// the raised earlier sibling paints on top, so it wins the hit
	if hit := HitTest(tree, 10, 10); hit != raised {
		t.Errorf("hit = %d, want z-index raised sibling %d", hit, raised)
	}

	// with equal z the later sibling paints on top and wins
	tree.Get(raised).Style = styleWith(map[string]string{
		"position": "absolute", "top": "0px", "left": "0px",
		"width": "50px", "height": "50px",
	})
	if hit := HitTest(tree, 10, 10); hit != later {
		t.Errorf("hit = %d, want later sibling %d", hit, later)
	}
}
