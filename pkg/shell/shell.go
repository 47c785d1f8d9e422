// Package shell defines the boundary between the engine and whatever
// hosts it: a windowing integration, a test harness, or a one-shot
// renderer. The engine calls out through these interfaces; it never
// owns a window, a GPU surface or an event loop.
package shell

// CursorIcon is the standard cursor set. CSS cursor values map onto it;
// unknown values and auto collapse to CursorDefault.
type CursorIcon uint8

const (
	CursorDefault CursorIcon = iota
	CursorPointer
	CursorText
	CursorMove
	CursorGrab
	CursorGrabbing
	CursorCrosshair
	CursorWait
	CursorProgress
	CursorHelp
	CursorNotAllowed
	CursorColResize
	CursorRowResize
	CursorEWResize
	CursorNSResize
	CursorNESWResize
	CursorNWSEResize
	CursorZoomIn
	CursorZoomOut
)

// String returns the CSS name of the icon.
func (c CursorIcon) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	case CursorText:
		return "text"
	case CursorMove:
		return "move"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorCrosshair:
		return "crosshair"
	case CursorWait:
		return "wait"
	case CursorProgress:
		return "progress"
	case CursorHelp:
		return "help"
	case CursorNotAllowed:
		return "not-allowed"
	case CursorColResize:
		return "col-resize"
	case CursorRowResize:
		return "row-resize"
	case CursorEWResize:
		return "ew-resize"
	case CursorNSResize:
		return "ns-resize"
	case CursorNESWResize:
		return "nesw-resize"
	case CursorNWSEResize:
		return "nwse-resize"
	case CursorZoomIn:
		return "zoom-in"
	case CursorZoomOut:
		return "zoom-out"
	default:
		return "default"
	}
}

// CursorFromCSS maps a CSS cursor value onto the icon set.
func CursorFromCSS(value string) CursorIcon {
	switch value {
	case "pointer":
		return CursorPointer
	case "text":
		return CursorText
	case "move":
		return CursorMove
	case "grab":
		return CursorGrab
	case "grabbing":
		return CursorGrabbing
	case "crosshair":
		return CursorCrosshair
	case "wait":
		return CursorWait
	case "progress":
		return CursorProgress
	case "help":
		return CursorHelp
	case "not-allowed":
		return CursorNotAllowed
	case "col-resize":
		return CursorColResize
	case "row-resize":
		return CursorRowResize
	case "ew-resize":
		return CursorEWResize
	case "ns-resize":
		return CursorNSResize
	case "nesw-resize":
		return CursorNESWResize
	case "nwse-resize":
		return CursorNWSEResize
	case "zoom-in":
		return CursorZoomIn
	case "zoom-out":
		return CursorZoomOut
	default:
		return CursorDefault
	}
}

// Shell is the window-side callback surface. RequestRedraw must be safe
// to call from any goroutine; resource providers use it to wake the
// event loop when a completion is ready to poll.
type Shell interface {
	RequestRedraw()
	SetCursor(icon CursorIcon)
}

// Navigation describes a page change requested as a default action of a
// link click or form submit.
type Navigation struct {
	URL            string
	SourceDocument uint64
	ReferrerPolicy string
}

// Navigator receives navigation requests. The engine does not navigate
// by itself; the host decides what a page change means.
type Navigator interface {
	NavigateNewPage(nav Navigation)
}

// NopShell ignores every callback.
type NopShell struct{}

// RequestRedraw implements Shell.
func (NopShell) RequestRedraw() {}

// SetCursor implements Shell.
func (NopShell) SetCursor(CursorIcon) {}
