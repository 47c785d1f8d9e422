package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vireo/pkg/dom"
)

func parse(t *testing.T, markup string) *dom.Tree {
	t.Helper()
	tree := dom.NewTree()
	require.NoError(t, ParseString(markup, tree))
	return tree
}

func find(t *testing.T, tree *dom.Tree, selector string) *dom.Node {
	t.Helper()
	id, err := tree.QuerySelector(selector)
	require.NoError(t, err, "selector %q", selector)
	return tree.Get(id)
}

func TestParseBuildsDocumentStructure(t *testing.T) {
	tree := parse(t, `<!DOCTYPE html><html><head><title>t</title></head>
		<body><div class="a" id="main">hello</div></body></html>`)

	main := find(t, tree, "#main")
	cls, _ := main.Attr("class")
	assert.Equal(t, "a", cls)
	require.Len(t, main.Children, 1)
	text := tree.Get(main.Children[0]).Text()
	require.NotNil(t, text)
	assert.Equal(t, "hello", text.Text)

	// the id index is fed through the mutation API during parse
	id, ok := tree.GetElementByID("main")
	require.True(t, ok)
	assert.Equal(t, main.ID, id)
}

func TestParseRecoversFromMalformedMarkup(t *testing.T) {
	// unclosed tags and stray closers parse the way a browser parses them
	tree := parse(t, `<body><p>one<p>two</div></body>`)

	ps, err := tree.QuerySelectorAll("p")
	require.NoError(t, err)
	assert.Len(t, ps, 2)
}

func TestParseInstallsReplacedContent(t *testing.T) {
	tree := parse(t, `<body>
		<img src="x.png">
		<canvas></canvas>
		<input type="checkbox" checked>
		<input type="text" value="abc">
		<textarea>seed</textarea>
	</body>`)

	img := find(t, tree, "img").Element().Replaced
	require.NotNil(t, img)
	assert.Equal(t, dom.ReplacedImage, img.Kind)

	canvas := find(t, tree, "canvas").Element().Replaced
	require.NotNil(t, canvas)
	assert.Equal(t, dom.ReplacedCanvas, canvas.Kind)

	check := find(t, tree, `input[type="checkbox"]`).Element().Replaced
	require.NotNil(t, check)
	assert.Equal(t, dom.ReplacedCheckbox, check.Kind)
	assert.True(t, check.Checked)

	input := find(t, tree, `input[type="text"]`).Element().Replaced
	require.NotNil(t, input)
	require.NotNil(t, input.Editor)
	assert.Equal(t, "abc", input.Editor.Value)

	area := find(t, tree, "textarea").Element().Replaced
	require.NotNil(t, area)
	require.NotNil(t, area.Editor)
	assert.Equal(t, "seed", area.Editor.Value)
}

func TestSetInnerHTMLReplacesChildren(t *testing.T) {
	tree := parse(t, `<body><div id="host"><span>old</span></div></body>`)
	host, _ := tree.GetElementByID("host")

	require.NoError(t, SetInnerHTML(tree, host, `<b>new</b> text`))

	children := tree.Get(host).Children
	require.Len(t, children, 2)
	assert.Equal(t, "b", tree.Get(children[0]).TagName())
	text := tree.Get(children[1]).Text()
	require.NotNil(t, text)
	assert.Equal(t, " text", text.Text)
}

func TestSerializeRoundTrip(t *testing.T) {
	cases := []string{
		`<div id="a" class="x y"><span>hi</span> there</div>`,
		`<p>a &lt;b&gt; c &amp; d</p>`,
		`<ul><li>one</li><li>two</li></ul>`,
		`<div><img src="x.png"><br><input type="text"></div>`,
		`<div><!--note--><em>m</em></div>`,
	}
	for _, markup := range cases {
		tree := dom.NewTree()
		require.NoError(t, ParseString(markup, tree))
		body, err := tree.QuerySelector("body")
		require.NoError(t, err)

		first := SerializeChildren(tree, body)

		second := dom.NewTree()
		require.NoError(t, ParseString(first, second))
		body2, err := second.QuerySelector("body")
		require.NoError(t, err)

		assert.Equal(t, first, SerializeChildren(second, body2), "markup %q", markup)
	}
}

func TestSerializeEscapesAttributesAndText(t *testing.T) {
	tree := dom.NewTree()
	m := tree.Mutate()
	div := m.CreateElement("div")
	m.AppendChild(tree.Root(), div)
	m.SetAttribute(div, "title", `a "quoted" <value>`)
	txt := m.CreateTextNode(`x < y & z`)
	m.AppendChild(div, txt)

	out := Serialize(tree, div)
	assert.NotContains(t, out, `"quoted" <value>`)
	assert.Contains(t, out, "x &lt; y &amp; z")
}

func TestSerializeVoidAndRawElements(t *testing.T) {
	tree := parse(t, `<body><img src="a"><style>p > b { color: red; }</style></body>`)
	body, err := tree.QuerySelector("body")
	require.NoError(t, err)

	out := SerializeChildren(tree, body)
	assert.NotContains(t, out, "</img>")
	assert.Contains(t, out, "p > b { color: red; }")
}
