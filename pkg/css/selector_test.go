package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElement is a minimal Element for matcher tests. Parent and sibling
// links are wired by hand per test.
type fakeElement struct {
	tag     string
	attrs   map[string]string
	parent  *fakeElement
	prev    *fakeElement
	first   bool
	last    bool
	hovered bool
	focused bool
	active  bool
}

func newEl(tag string, attrs map[string]string) *fakeElement {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &fakeElement{tag: tag, attrs: attrs}
}

func (e *fakeElement) TagName() string { return e.tag }

func (e *fakeElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) ParentElement() Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *fakeElement) PrevSiblingElement() Element {
	if e.prev == nil {
		return nil
	}
	return e.prev
}

func (e *fakeElement) IsFirstChild() bool { return e.first }
func (e *fakeElement) IsLastChild() bool  { return e.last }
func (e *fakeElement) Hovered() bool      { return e.hovered }
func (e *fakeElement) Focused() bool      { return e.focused }
func (e *fakeElement) Active() bool       { return e.active }

func mustParseOne(t *testing.T, input string) Selector {
	t.Helper()
	sels, err := ParseSelectorList(input)
	require.NoError(t, err)
	require.Len(t, sels, 1)
	return sels[0]
}

func TestParseSelectorList(t *testing.T) {
	sels, err := ParseSelectorList("div.note > p, #main")
	require.NoError(t, err)
	require.Len(t, sels, 2)

	first := sels[0]
	require.Len(t, first.Parts, 2)
	assert.Equal(t, "div", first.Parts[0].Element)
	assert.Equal(t, []string{"note"}, first.Parts[0].Classes)
	assert.Equal(t, "p", first.Parts[1].Element)
	require.Len(t, first.Combinators, 1)
	assert.Equal(t, ChildCombinator, first.Combinators[0])

	assert.Equal(t, "main", sels[1].Parts[0].ID)
}

func TestParseSelectorErrors(t *testing.T) {
	for _, input := range []string{
		"div >",
		"> p",
		"div,,p",
		".",
		"#",
		"div[foo",
		"",
	} {
		_, err := ParseSelectorList(input)
		require.Error(t, err, "input %q", input)
		var perr *ErrSelectorParse
		assert.ErrorAs(t, err, &perr, "input %q", input)
	}
}

func TestSpecificity(t *testing.T) {
	cases := map[string]Specificity{
		"p":                   {Types: 1},
		"div span":            {Types: 2},
		".a":                  {Classes: 1},
		"div.a[href]:hover":   {Classes: 3, Types: 1},
		"#x":                  {IDs: 1},
		"#x .a b":             {IDs: 1, Classes: 1, Types: 1},
		"p::before":           {Types: 2},
		"*":                   {},
		"input[type=radio]":   {Classes: 1, Types: 1},
		"a:hover:first-child": {Classes: 2, Types: 1},
	}
	for input, want := range cases {
		sel := mustParseOne(t, input)
		assert.Equal(t, want, sel.Specificity, "input %q", input)
	}

	// One id outweighs any number of classes.
	assert.True(t, Specificity{Classes: 10}.Less(Specificity{IDs: 1}))
	assert.True(t, Specificity{Classes: 1}.Less(Specificity{Classes: 1, Types: 1}))
	assert.False(t, Specificity{IDs: 1}.Less(Specificity{Classes: 10, Types: 10}))
}

func TestParsePseudoElement(t *testing.T) {
	sel := mustParseOne(t, "p::before")
	assert.Equal(t, "before", sel.PseudoElement)
	assert.Empty(t, sel.Parts[0].PseudoClasses)

	// Single-colon legacy form.
	sel = mustParseOne(t, "p:after")
	assert.Equal(t, "after", sel.PseudoElement)
}

// buildTree wires html > body > div.wrap > (span, b) and returns the
// leaves. span is the first child, b the last.
func buildTree() (html, body, div, span, b *fakeElement) {
	html = newEl("html", nil)
	body = newEl("body", nil)
	body.parent = html
	body.first, body.last = true, true
	div = newEl("div", map[string]string{"class": "wrap"})
	div.parent = body
	div.first, div.last = true, true
	span = newEl("span", nil)
	span.parent = div
	span.first = true
	b = newEl("b", nil)
	b.parent = div
	b.prev = span
	b.last = true
	return
}

func TestMatchesCombinators(t *testing.T) {
	html, body, _, span, b := buildTree()

	cases := []struct {
		sel  string
		el   *fakeElement
		want bool
	}{
		{"span", span, true},
		{"div span", span, true},
		{"body span", span, true},
		{"div > span", span, true},
		{"body > span", span, false},
		{"span + b", b, true},
		{"span ~ b", b, true},
		{"b + span", span, false},
		{".wrap > b", b, true},
		{":root", html, true},
		{":root", body, false},
	}
	for _, tc := range cases {
		sel := mustParseOne(t, tc.sel)
		assert.Equal(t, tc.want, Matches(tc.el, sel), "selector %q", tc.sel)
	}
}

func TestMatchesCompound(t *testing.T) {
	el := newEl("div", map[string]string{
		"id":    "main",
		"class": "note warn",
	})
	cases := []struct {
		sel  string
		want bool
	}{
		{"div#main.note", true},
		{".warn.note", true},
		{".missing", false},
		{"*", true},
		{"p#main", false},
		{"#other", false},
	}
	for _, tc := range cases {
		sel := mustParseOne(t, tc.sel)
		assert.Equal(t, tc.want, Matches(el, sel), "selector %q", tc.sel)
	}
}

func TestMatchesAttributes(t *testing.T) {
	el := newEl("a", map[string]string{
		"lang":      "en-US",
		"data-kind": "alpha beta",
	})
	cases := []struct {
		sel  string
		want bool
	}{
		{"[lang]", true},
		{"[lang=en-US]", true},
		{`[lang="en-US"]`, true},
		{"[lang|=en]", true},
		{"[lang^=en]", true},
		{"[lang$=US]", true},
		{"[lang*=n-U]", true},
		{"[data-kind~=beta]", true},
		{"[data-kind~=bet]", false},
		{"[lang=fr]", false},
		{"[missing]", false},
	}
	for _, tc := range cases {
		sel := mustParseOne(t, tc.sel)
		assert.Equal(t, tc.want, Matches(el, sel), "selector %q", tc.sel)
	}
}

func TestMatchesPseudoClasses(t *testing.T) {
	_, _, _, span, b := buildTree()
	span.hovered = true
	assert.True(t, Matches(span, mustParseOne(t, ":hover")))
	assert.False(t, Matches(b, mustParseOne(t, ":hover")))

	b.focused = true
	b.active = true
	assert.True(t, Matches(b, mustParseOne(t, "b:focus:active")))

	assert.True(t, Matches(span, mustParseOne(t, ":first-child")))
	assert.False(t, Matches(span, mustParseOne(t, ":last-child")))
	assert.True(t, Matches(b, mustParseOne(t, ":last-child")))

	link := newEl("a", map[string]string{"href": "/x"})
	assert.True(t, Matches(link, mustParseOne(t, ":link")))
	assert.False(t, Matches(newEl("a", nil), mustParseOne(t, ":link")))

	box := newEl("input", map[string]string{"type": "checkbox", "checked": ""})
	assert.True(t, Matches(box, mustParseOne(t, ":checked")))
	assert.True(t, Matches(box, mustParseOne(t, ":enabled")))
	box.attrs["disabled"] = ""
	assert.True(t, Matches(box, mustParseOne(t, ":disabled")))
	assert.False(t, Matches(box, mustParseOne(t, ":enabled")))

	// Unknown pseudo-classes parse but never match.
	assert.False(t, Matches(span, mustParseOne(t, ":visited")))
}
