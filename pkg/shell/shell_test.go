package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorFromCSSRoundTrip(t *testing.T) {
	icons := []CursorIcon{
		CursorDefault, CursorPointer, CursorText, CursorMove,
		CursorGrab, CursorGrabbing, CursorCrosshair, CursorWait,
		CursorProgress, CursorHelp, CursorNotAllowed,
		CursorColResize, CursorRowResize,
		CursorEWResize, CursorNSResize, CursorNESWResize, CursorNWSEResize,
		CursorZoomIn, CursorZoomOut,
	}
	for _, icon := range icons {
		assert.Equal(t, icon, CursorFromCSS(icon.String()), "icon %s", icon)
	}
}

func TestCursorFromCSSFallback(t *testing.T) {
	assert.Equal(t, CursorDefault, CursorFromCSS("auto"))
	assert.Equal(t, CursorDefault, CursorFromCSS(""))
	assert.Equal(t, CursorDefault, CursorFromCSS("spinning-teapot"))
}
