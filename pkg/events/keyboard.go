package events

import "vireo/pkg/dom"

// HandleKeyDown dispatches keydown at the focused node, derives keypress
// for printable input, and runs keyboard default actions: tab traversal,
// text editing, control activation and form submission. An active IME
// composition suppresses keypress and text insertion.
func (p *Pipeline) HandleKeyDown(key, text string, mods Modifiers) {
	target := p.tree.Focus()
	ev := &Event{Kind: KeyDown, Target: target, Key: key, Text: text, Mods: mods}
	if target != dom.NoNode {
		p.dispatch(ev, true)
		if ev.defaultPrevented {
			return
		}
	}

	if key == "Tab" {
		p.advanceFocus(mods&ModShift != 0)
		return
	}

	if text != "" && !p.composing && target != dom.NoNode {
		press := &Event{Kind: KeyPress, Target: target, Key: key, Text: text, Mods: mods}
		p.dispatch(press, true)
		if press.defaultPrevented {
			return
		}
	}

	p.keyDefault(target, key, text, mods)
}

// HandleKeyUp dispatches keyup at the focused node. No default actions.
func (p *Pipeline) HandleKeyUp(key string, mods Modifiers) {
	target := p.tree.Focus()
	if target != dom.NoNode {
		p.dispatch(&Event{Kind: KeyUp, Target: target, Key: key, Mods: mods}, true)
	}
}

func (p *Pipeline) keyDefault(target dom.NodeID, key, text string, mods Modifiers) {
	if target == dom.NoNode {
		return
	}
	node := p.tree.Lookup(target)
	if node == nil {
		return
	}

	if ed := p.editorOf(target); ed != nil {
		p.editKey(target, ed, key, text, mods)
		return
	}

	// non-editing controls: Enter or Space activates
	if key == "Enter" || key == " " || text == " " {
		switch node.TagName() {
		case "button", "a":
			click := &Event{Kind: Click, Target: target, Button: ButtonLeft}
			p.dispatch(click, true)
			if !click.defaultPrevented {
				p.defaultClick(target)
			}
		case "input":
			if typ, _ := node.Attr("type"); typ == "checkbox" || typ == "radio" {
				p.toggleChecked(target)
			}
		}
	}
}

// editKey applies a key to a focused text editor.
func (p *Pipeline) editKey(id dom.NodeID, ed *dom.EditorState, key, text string, mods Modifiers) {
	if p.composing {
		return
	}
	changed := false
	switch key {
	case "Backspace":
		ed.Backspace()
		changed = true
	case "Delete":
		if ed.SelStart == ed.SelEnd && ed.SelEnd < len(ed.Value) {
			ed.SelEnd += runeLenAt(ed.Value, ed.SelEnd)
		}
		ed.ReplaceSelection("")
		changed = true
	case "ArrowLeft":
		if ed.SelStart > 0 {
			ed.SelStart -= runeLenBefore(ed.Value, ed.SelStart)
		}
		ed.SelEnd = ed.SelStart
	case "ArrowRight":
		if ed.SelEnd < len(ed.Value) {
			ed.SelEnd += runeLenAt(ed.Value, ed.SelEnd)
		}
		ed.SelStart = ed.SelEnd
	case "Home":
		ed.SelStart, ed.SelEnd = 0, 0
	case "End":
		ed.SelStart, ed.SelEnd = len(ed.Value), len(ed.Value)
	case "Enter":
		p.submitAncestorForm(id)
		return
	default:
		if text != "" && mods&(ModCtrl|ModMeta) == 0 {
			ed.ReplaceSelection(text)
			changed = true
		}
	}
	if changed {
		p.editorChanged(id)
	}
	p.damaged()
}

// editorChanged invalidates the control's rendering and fires input.
func (p *Pipeline) editorChanged(id dom.NodeID) {
	p.tree.MarkLayoutDirty(id)
	p.dispatch(&Event{Kind: Input, Target: id}, true)
}

func (p *Pipeline) editorOf(id dom.NodeID) *dom.EditorState {
	node := p.tree.Lookup(id)
	if node == nil {
		return nil
	}
	el := node.Element()
	if el == nil || el.Replaced == nil {
		return nil
	}
	return el.Replaced.Editor
}

func runeLenAt(s string, i int) int {
	n := 1
	for i+n < len(s) && s[i+n]&0xC0 == 0x80 {
		n++
	}
	return n
}

func runeLenBefore(s string, i int) int {
	n := 1
	for i-n > 0 && s[i-n]&0xC0 == 0x80 {
		n++
	}
	return n
}
