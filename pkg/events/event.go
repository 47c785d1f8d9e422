// Package events drives the input side of a document: hit testing,
// hover and focus tracking, bubbling dispatch to registered listeners,
// derived events (click, focusin/focusout, IME composition) and default
// actions for links, form controls and scrolling.
package events

import "vireo/pkg/dom"

// Kind names an event the pipeline can dispatch. The values match the
// DOM event names embedders register listeners under.
type Kind string

const (
	MouseMove Kind = "mousemove"
	MouseDown Kind = "mousedown"
	MouseUp   Kind = "mouseup"
	MouseOver Kind = "mouseover"
	MouseOut  Kind = "mouseout"
	Click     Kind = "click"
	Wheel     Kind = "wheel"
	KeyDown   Kind = "keydown"
	KeyUp     Kind = "keyup"
	KeyPress  Kind = "keypress"
	Input     Kind = "input"
	Change    Kind = "change"
	Focus     Kind = "focus"
	Blur      Kind = "blur"
	FocusIn   Kind = "focusin"
	FocusOut  Kind = "focusout"
	Submit    Kind = "submit"
)

// Button identifies a mouse button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Modifiers is the active keyboard modifier set.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Event is one dispatched event. Mouse coordinates are in viewport
// space. Handlers may stop propagation or cancel the default action;
// both only affect the remainder of the current dispatch.
type Event struct {
	Kind          Kind
	Target        dom.NodeID
	CurrentTarget dom.NodeID

	X, Y           float64
	Button         Button
	DeltaX, DeltaY float64

	Key  string
	Text string
	Mods Modifiers

	propagationStopped bool
	defaultPrevented   bool
}

// StopPropagation halts bubbling after the current listener.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// PreventDefault cancels the default action for this event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener cancelled the default
// action.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// ImeKind tags an IME composition transition.
type ImeKind uint8

const (
	ImeEnabled ImeKind = iota
	ImePreedit
	ImeCommit
	ImeDisabled
)

// ImeEvent is one step of an IME composition session delivered by the
// embedder's windowing layer.
type ImeEvent struct {
	Kind      ImeKind
	Text      string
	Cursor    [2]int
	HasCursor bool
}

// Listener receives dispatched events. CurrentTarget identifies the
// node whose registration fired.
type Listener func(*Event)
