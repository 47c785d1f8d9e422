package dom

import "image"

// ReplacedKind tags the replaced-content payload of an element.
type ReplacedKind uint8

const (
	ReplacedImage ReplacedKind = iota
	ReplacedCanvas
	ReplacedTextInput
	ReplacedCheckbox
)

// ReplacedContent is the per-element replaced-content cache: decoded
// image pixels, a canvas paint-source handle, or form-control editor
// state. Image payloads are populated by resource-completion callbacks.
type ReplacedContent struct {
	Kind ReplacedKind

	// Image payload. Image may be nil while a fetch is outstanding or
	// after a decode failure; IntrinsicWidth/Height stay zero then.
	Image           image.Image
	IntrinsicWidth  float64
	IntrinsicHeight float64

	// Canvas payload: an opaque paint-source handle forwarded to the
	// scene sink as a custom brush.
	PaintHandle uint64

	// Form-control editor state.
	Editor *EditorState

	// Checked is the checkbox/radio state.
	Checked bool
}

// EditorState is the text-input editing state: committed value, selection
// and any active IME composition.
type EditorState struct {
	Value string

	// SelStart / SelEnd are byte offsets into Value; equal offsets are a
	// caret. SelStart <= SelEnd.
	SelStart, SelEnd int

	// Compose is the uncommitted preedit string; empty means the input
	// is not composing.
	Compose string
	// ComposeCursor is the cursor range within Compose, when provided.
	ComposeCursor [2]int
}

// Composing reports whether an IME preedit is active.
func (e *EditorState) Composing() bool { return e.Compose != "" }

// ReplaceSelection replaces the current selection with s and moves the
// caret after it.
func (e *EditorState) ReplaceSelection(s string) {
	if e.SelStart > len(e.Value) {
		e.SelStart = len(e.Value)
	}
	if e.SelEnd > len(e.Value) {
		e.SelEnd = len(e.Value)
	}
	e.Value = e.Value[:e.SelStart] + s + e.Value[e.SelEnd:]
	e.SelStart += len(s)
	e.SelEnd = e.SelStart
}

// Backspace deletes the selection, or one rune before the caret.
func (e *EditorState) Backspace() {
	if e.SelStart != e.SelEnd {
		e.ReplaceSelection("")
		return
	}
	if e.SelStart == 0 {
		return
	}
	// Step back one UTF-8 rune.
	i := e.SelStart - 1
	for i > 0 && e.Value[i]&0xC0 == 0x80 {
		i--
	}
	e.Value = e.Value[:i] + e.Value[e.SelStart:]
	e.SelStart = i
	e.SelEnd = i
}
