package events

import "vireo/pkg/dom"

// HandleIme advances the IME composition state machine for the focused
// text editor. Events arriving while no editor is focused are dropped.
// A commit replaces the selection with the committed text and fires
// input; preedit text lives only in the editor's compose buffer.
func (p *Pipeline) HandleIme(ev ImeEvent) {
	focus := p.tree.Focus()
	ed := p.editorOf(focus)
	if ed == nil {
		return
	}

	switch ev.Kind {
	case ImeEnabled:
		p.composeNode = focus
		p.composing = false
	case ImePreedit:
		p.composeNode = focus
		ed.Compose = ev.Text
		if ev.HasCursor {
			ed.ComposeCursor = ev.Cursor
		} else {
			ed.ComposeCursor = [2]int{len(ev.Text), len(ev.Text)}
		}
		p.composing = ev.Text != ""
		p.tree.MarkLayoutDirty(focus)
		p.damaged()
	case ImeCommit:
		ed.Compose = ""
		p.composing = false
		ed.ReplaceSelection(ev.Text)
		p.editorChanged(focus)
		p.damaged()
	case ImeDisabled:
		p.endComposition()
	}
}

// endComposition discards any uncommitted preedit, for example when
// focus moves away mid-composition.
func (p *Pipeline) endComposition() {
	if p.composeNode != dom.NoNode {
		if ed := p.editorOf(p.composeNode); ed != nil {
			ed.Compose = ""
		}
	}
	p.composeNode = dom.NoNode
	p.composing = false
}
