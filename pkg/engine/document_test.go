package engine

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/net"
	"vireo/pkg/scene"
	"vireo/pkg/shell"
)

// fakeProvider records fetch requests and delivers whatever the test
// pushes into its channel.
type fakeProvider struct {
	reqs []fakeRequest
	ch   chan net.Resource
}

type fakeRequest struct {
	url   string
	kind  net.Kind
	token uint64
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{ch: make(chan net.Resource, 8)}
}

func (p *fakeProvider) Fetch(url string, kind net.Kind, token uint64) {
	p.reqs = append(p.reqs, fakeRequest{url: url, kind: kind, token: token})
}
func (p *fakeProvider) Completed() <-chan net.Resource { return p.ch }
func (p *fakeProvider) Close()                         { close(p.ch) }

type fakeShell struct {
	redraws int
	cursor  shell.CursorIcon
}

func (s *fakeShell) RequestRedraw()                  { s.redraws++ }
func (s *fakeShell) SetCursor(icon shell.CursorIcon) { s.cursor = icon }

type fakeNavigator struct {
	navs []shell.Navigation
}

func (n *fakeNavigator) NavigateNewPage(nav shell.Navigation) {
	n.navs = append(n.navs, nav)
}

func load(t *testing.T, d *Document, markup string) {
	t.Helper()
	require.NoError(t, d.LoadHTML(strings.NewReader(markup)))
}

func byID(t *testing.T, d *Document, id string) dom.NodeID {
	t.Helper()
	node, ok := d.Tree().GetElementByID(id)
	require.True(t, ok, "no element with id %q", id)
	return node
}

func TestLoadResolveLayout(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<html><head><style>
		body { margin: 0; }
		#box { width: 50%; height: 40px; }
	</style></head><body><div id="box"></div></body></html>`)

	d.Resolve()

	box := d.Tree().Get(byID(t, d, "box"))
	require.True(t, box.LayoutValid)
	assert.Equal(t, 400.0, box.Layout.Width)
	assert.Equal(t, 40.0, box.Layout.Height)
	assert.False(t, d.Tree().IsDirty())
}

func TestUserAgentSheetHidesHead(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<html><head><title>x</title></head><body><p id="p">hi</p></body></html>`)

	d.Resolve()

	head, err := d.Tree().QuerySelector("head")
	require.NoError(t, err)
	assert.False(t, d.Tree().Get(head).LayoutValid, "head should not generate a box")
	assert.True(t, d.Tree().Get(byID(t, d, "p")).LayoutValid)
}

func TestResolveIsIdempotent(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<body><div id="a">text</div></body>`)

	d.Resolve()
	require.False(t, d.Tree().IsDirty())

	a := d.Tree().Get(byID(t, d, "a"))
	before := a.Style
	d.Resolve()
	assert.Same(t, before, a.Style, "clean resolve must not recompute styles")
}

func TestAttributeMutationTriggersRestyle(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<html><head><style>
		.wide { width: 300px; height: 10px; }
	</style></head><body><div id="a"></div></body></html>`)
	d.Resolve()

	id := byID(t, d, "a")
	d.Mutate().SetAttribute(id, "class", "wide")
	require.True(t, d.Tree().IsDirty())
	d.Resolve()

	assert.Equal(t, 300.0, d.Tree().Get(id).Layout.Width)
}

func TestHoverRestyle(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<html><head><style>
		#a { height: 10px; }
		#a:hover { background-color: #ff0000; }
	</style></head><body><div id="a"></div></body></html>`)
	d.Resolve()

	id := byID(t, d, "a")
	_, hasBg := d.Tree().Get(id).Style.Get("background-color")
	require.False(t, hasBg)

	d.Tree().SetHover(id)
	d.Resolve()
	bg, _ := d.Tree().Get(id).Style.Get("background-color")
	assert.Equal(t, "#ff0000", bg)

	d.Tree().SetHover(dom.NoNode)
	d.Resolve()
	_, hasBg = d.Tree().Get(id).Style.Get("background-color")
	assert.False(t, hasBg)
}

func TestInheritedChangePropagates(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<body><div id="outer"><span id="inner">x</span></div></body>`)
	d.Resolve()

	outer := byID(t, d, "outer")
	d.Mutate().SetAttribute(outer, "style", "color: #00ff00")
	d.Resolve()

	inner := d.Tree().Get(byID(t, d, "inner"))
	c, ok := inner.Style.Get("color")
	require.True(t, ok)
	assert.Equal(t, "#00ff00", c)
}

func TestViewportChangeRelayouts(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<html><head><style>
		body { margin: 0; }
		#box { width: 50%; height: 10px; }
	</style></head><body><div id="box"></div></body></html>`)
	d.Resolve()
	require.Equal(t, 400.0, d.Tree().Get(byID(t, d, "box")).Layout.Width)

	d.SetViewport(css.Device{Width: 400, Height: 600, Scale: 1, RootFont: 16})
	d.Resolve()
	assert.Equal(t, 200.0, d.Tree().Get(byID(t, d, "box")).Layout.Width)
}

func TestMediaQueryRespondsToViewport(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<html><head><style>
		#box { height: 10px; }
		@media (max-width: 500px) { #box { height: 99px; } }
	</style></head><body><div id="box"></div></body></html>`)
	d.Resolve()
	require.Equal(t, 10.0, d.Tree().Get(byID(t, d, "box")).Layout.Height)

	d.SetViewport(css.Device{Width: 400, Height: 600, Scale: 1, RootFont: 16})
	d.Resolve()
	assert.Equal(t, 99.0, d.Tree().Get(byID(t, d, "box")).Layout.Height)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestPollAppliesImageCompletion(t *testing.T) {
	provider := newFakeProvider()
	d := New(Options{Provider: provider, BaseURL: "https://example.com/page/"})
	load(t, d, `<body><img id="pic" src="cat.png"></body>`)

	require.Len(t, provider.reqs, 1)
	req := provider.reqs[0]
	assert.Equal(t, "https://example.com/page/cat.png", req.url)
	assert.Equal(t, net.KindImage, req.kind)

	d.Resolve()
	require.False(t, d.Poll(context.Background()), "nothing completed yet")

	provider.ch <- net.Resource{
		URL:   req.url,
		Kind:  req.kind,
		Token: req.token,
		Data:  pngBytes(t, 3, 2),
	}
	require.True(t, d.Poll(context.Background()))
	d.Resolve()

	pic := d.Tree().Get(byID(t, d, "pic"))
	require.NotNil(t, pic.Element().Replaced)
	require.NotNil(t, pic.Element().Replaced.Image)
	assert.Equal(t, 3.0, pic.Element().Replaced.IntrinsicWidth)
	assert.Equal(t, 2.0, pic.Element().Replaced.IntrinsicHeight)
	assert.Equal(t, 3.0, pic.Layout.Width)
	assert.Equal(t, 2.0, pic.Layout.Height)
}

func TestPollAppliesStylesheetCompletion(t *testing.T) {
	provider := newFakeProvider()
	d := New(Options{Provider: provider})
	load(t, d, `<html><head><link rel="stylesheet" href="site.css"></head>
		<body><div id="a"></div></body></html>`)
	d.Resolve()

	require.Len(t, provider.reqs, 1)
	provider.ch <- net.Resource{
		URL:   provider.reqs[0].url,
		Kind:  net.KindStylesheet,
		Token: provider.reqs[0].token,
		Data:  []byte(`#a { height: 77px; }`),
	}
	require.True(t, d.Poll(context.Background()))
	d.Resolve()

	assert.Equal(t, 77.0, d.Tree().Get(byID(t, d, "a")).Layout.Height)
}

func TestFailedFetchLeavesTreeClean(t *testing.T) {
	provider := newFakeProvider()
	d := New(Options{Provider: provider})
	load(t, d, `<body><img src="gone.png"></body>`)
	d.Resolve()

	provider.ch <- net.Resource{
		Token: provider.reqs[0].token,
		Kind:  net.KindImage,
		Err:   context.DeadlineExceeded,
	}
	assert.False(t, d.Poll(context.Background()))
}

func TestLinkClickNavigates(t *testing.T) {
	nav := &fakeNavigator{}
	d := New(Options{BaseURL: "https://example.com/", Navigator: nav})
	defer d.Close()
	load(t, d, `<html><head><style>
		body { margin: 0; font-size: 10px; line-height: 10px; }
	</style></head><body><a id="l" href="/next">link</a></body></html>`)
	d.Resolve()

	d.Events().HandleMouseDown(5, 5, 0, 0)
	d.Events().HandleMouseUp(5, 5, 0, 0)

	require.Len(t, nav.navs, 1)
	assert.Equal(t, "https://example.com/next", nav.navs[0].URL)
}

func TestFormSubmitBuildsQuery(t *testing.T) {
	nav := &fakeNavigator{}
	d := New(Options{BaseURL: "https://example.com/", Navigator: nav})
	defer d.Close()
	load(t, d, `<html><head><style>
		body { margin: 0; }
		input { width: 100px; height: 20px; }
	</style></head><body>
		<form action="/search" method="get">
			<input id="q" type="text" name="q" value="cats">
		</form>
	</body></html>`)
	d.Resolve()

	q := byID(t, d, "q")
	d.Tree().SetFocus(q)
	d.Events().HandleKeyDown("Enter", "", 0)

	require.Len(t, nav.navs, 1)
	assert.Equal(t, "https://example.com/search?q=cats", nav.navs[0].URL)
}

func TestMouseMoveSetsCursor(t *testing.T) {
	sh := &fakeShell{}
	d := New(Options{Shell: sh})
	defer d.Close()
	load(t, d, `<html><head><style>
		body { margin: 0; }
		#grab { width: 100px; height: 100px; cursor: move; }
	</style></head><body><div id="grab"></div></body></html>`)
	d.Resolve()

	d.HandleMouseMove(50, 50, 0)
	assert.Equal(t, shell.CursorMove, sh.cursor)

	d.HandleMouseMove(50, 300, 0)
	assert.Equal(t, shell.CursorDefault, sh.cursor)
}

func TestDamageWakesShell(t *testing.T) {
	sh := &fakeShell{}
	d := New(Options{Shell: sh})
	defer d.Close()
	load(t, d, `<html><head><style>
		body { margin: 0; }
		#box { width: 100px; height: 100px; overflow: auto; }
		#tall { height: 500px; }
	</style></head><body><div id="box"><div id="tall"></div></div></body></html>`)
	d.Resolve()

	d.Events().HandleWheel(50, 50, 0, 30, 0)
	assert.Greater(t, sh.redraws, 0)
}

func TestPaintEmitsScene(t *testing.T) {
	d := New(Options{})
	defer d.Close()
	load(t, d, `<html><head><style>
		#box { width: 100px; height: 50px; background-color: #112233; }
	</style></head><body><div id="box"></div></body></html>`)

	rec := scene.NewRecorder()
	stats := d.Paint(rec)

	assert.Greater(t, stats.Boxes, 0)
	assert.Greater(t, rec.CountKind(scene.CmdFill), 0)
	assert.Zero(t, rec.OpenLayers())
}
