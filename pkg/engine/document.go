// Package engine ties the pieces into a document: one arena tree, its
// stylesheets, the style and layout bridges, the event pipeline and the
// resource channel. The embedder owns the window and the frame loop;
// the document owns everything between a mutation and a scene.
package engine

import (
	"context"
	"io"
	"net/url"

	"vireo/pkg/css"
	"vireo/pkg/dom"
	"vireo/pkg/events"
	"vireo/pkg/html"
	"vireo/pkg/layout"
	"vireo/pkg/net"
	"vireo/pkg/paint"
	"vireo/pkg/scene"
	"vireo/pkg/shell"
	"vireo/pkg/text"
)

// Options configures a new document. Zero-value fields get working
// defaults: an 800x600 device, a fresh font context, a provider that
// never fetches, and a shell that ignores callbacks.
type Options struct {
	Device    css.Device
	BaseURL   string
	Fonts     *text.Context
	Provider  net.Provider
	Shell     shell.Shell
	Navigator shell.Navigator
}

// Document is the facade over one live document.
type Document struct {
	tree     *dom.Tree
	device   css.Device
	baseURL  string
	fonts    *text.Context
	provider net.Provider
	shell    shell.Shell
	nav      shell.Navigator

	sheets   []*css.Stylesheet
	layout   *layout.Engine
	painter  *paint.Painter
	pipeline *events.Pipeline

	// pending maps fetch tokens to the node awaiting the payload.
	pending   map[uint64]dom.NodeID
	nextToken uint64

	id uint64
}

var nextDocID uint64

// New creates an empty document.
func New(opts Options) *Document {
	dev := opts.Device
	if dev.Width == 0 {
		dev = css.Device{Width: 800, Height: 600, Scale: 1, RootFont: 16}
	}
	fonts := opts.Fonts
	if fonts == nil {
		fonts = text.NewContext()
	}
	provider := opts.Provider
	if provider == nil {
		provider = net.NewNopProvider()
	}
	var sh shell.Shell = shell.NopShell{}
	if opts.Shell != nil {
		sh = opts.Shell
	}

	nextDocID++
	d := &Document{
		tree:     dom.NewTree(),
		device:   dev,
		baseURL:  opts.BaseURL,
		fonts:    fonts,
		provider: provider,
		shell:    sh,
		nav:      opts.Navigator,
		sheets:   []*css.Stylesheet{css.ParseStylesheet(uaStylesheet, css.OriginUserAgent)},
		pending:  make(map[uint64]dom.NodeID),
		id:       nextDocID,
	}
	d.layout = layout.New(fonts, dev)
	d.painter = paint.New(fonts, dev)

	d.pipeline = events.NewPipeline(d.tree)
	d.pipeline.SetDamageCallback(d.shell.RequestRedraw)
	d.pipeline.SetNavigator(d.navigate)
	d.pipeline.SetSubmitter(d.submitForm)
	return d
}

// Tree exposes the document tree for queries and event wiring.
func (d *Document) Tree() *dom.Tree { return d.tree }

// Mutate returns the mutation handle for the document tree.
func (d *Document) Mutate() *dom.Mutator { return d.tree.Mutate() }

// Events returns the input pipeline. The shell feeds HandleMouseDown,
// HandleKeyDown and friends directly.
func (d *Document) Events() *events.Pipeline { return d.pipeline }

// Fonts returns the shared font context.
func (d *Document) Fonts() *text.Context { return d.fonts }

// Device returns the current viewport and media parameters.
func (d *Document) Device() css.Device { return d.device }

// BaseURL returns the base used to resolve relative resource URLs.
func (d *Document) BaseURL() string { return d.baseURL }

// SetBaseURL changes the resolution base for subsequent fetches.
func (d *Document) SetBaseURL(base string) { d.baseURL = base }

// SetViewport resizes the device and forces a full restyle, since media
// queries and viewport-relative sizes may change.
func (d *Document) SetViewport(dev css.Device) {
	if dev == d.device {
		return
	}
	d.device = dev
	d.layout = layout.New(d.fonts, dev)
	d.painter = paint.New(d.fonts, dev)
	d.tree.MarkRestyle(d.tree.Root(), dom.RestyleReplaceRules|dom.RestyleDescendants)
	Logger().Debug("viewport changed", "width", dev.Width, "height", dev.Height, "scale", dev.Scale)
}

// LoadHTML parses markup into the tree, replacing previous content.
// Inline <style> elements become author stylesheets; <link> stylesheets
// and <img> sources are scheduled on the resource provider.
func (d *Document) LoadHTML(r io.Reader) error {
	if err := html.Parse(r, d.tree); err != nil {
		return err
	}
	d.resetAuthorSheets()
	d.collectResources()
	d.tree.MarkRestyle(d.tree.Root(), dom.RestyleReplaceRules|dom.RestyleDescendants)
	return nil
}

// AddStylesheet appends author CSS to the cascade.
func (d *Document) AddStylesheet(cssText string) {
	d.sheets = append(d.sheets, css.ParseStylesheet(cssText, css.OriginAuthor))
	d.tree.MarkRestyle(d.tree.Root(), dom.RestyleReplaceRules|dom.RestyleDescendants)
}

// resetAuthorSheets drops author sheets from a previous load, keeping
// the user-agent sheet.
func (d *Document) resetAuthorSheets() {
	d.sheets = d.sheets[:1]
}

// collectResources walks a freshly parsed tree for inline styles and
// external references.
func (d *Document) collectResources() {
	d.tree.VisitDepthFirst(d.tree.Root(), func(n *dom.Node) bool {
		switch n.TagName() {
		case "style":
			d.sheets = append(d.sheets, css.ParseStylesheet(nodeText(d.tree, n), css.OriginAuthor))
		case "link":
			rel, _ := n.Attr("rel")
			href, ok := n.Attr("href")
			if rel == "stylesheet" && ok && href != "" {
				d.fetch(n.ID, href, net.KindStylesheet)
			}
		case "img":
			if src, ok := n.Attr("src"); ok && src != "" {
				d.fetch(n.ID, src, net.KindImage)
			}
		}
		return true
	})
}

func nodeText(tree *dom.Tree, n *dom.Node) string {
	var out string
	for _, c := range n.Children {
		if t := tree.Get(c).Text(); t != nil {
			out += t.Text
		}
	}
	return out
}

// fetch schedules one resource retrieval, tagging it with a token so the
// completion finds its node again.
func (d *Document) fetch(id dom.NodeID, ref string, kind net.Kind) {
	d.nextToken++
	token := d.nextToken
	d.pending[token] = id
	resolved := ref
	if !net.IsNetworkURL(ref) && !net.IsDataURL(ref) {
		resolved = net.ResolveURL(d.baseURL, ref)
	}
	d.provider.Fetch(resolved, kind, token)
}

// Poll drains completed fetches into the tree and reports whether a
// resolve pass would do work. It never blocks; the provider wakes the
// shell when new completions arrive.
func (d *Document) Poll(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return d.tree.IsDirty()
		case res, ok := <-d.provider.Completed():
			if !ok {
				return d.tree.IsDirty()
			}
			d.applyResource(res)
		default:
			return d.tree.IsDirty()
		}
	}
}

func (d *Document) applyResource(res net.Resource) {
	id, ok := d.pending[res.Token]
	if !ok {
		return
	}
	delete(d.pending, res.Token)
	if res.Err != nil {
		Logger().Warn("resource fetch failed", "url", res.URL, "err", res.Err)
		return
	}
	switch res.Kind {
	case net.KindStylesheet:
		d.sheets = append(d.sheets, css.ParseStylesheet(string(res.Data), css.OriginAuthor))
		d.tree.MarkRestyle(d.tree.Root(), dom.RestyleReplaceRules|dom.RestyleDescendants)
		Logger().Debug("stylesheet loaded", "url", res.URL, "bytes", len(res.Data))
	case net.KindImage:
		if !d.tree.Alive(id) {
			return
		}
		img, err := net.DecodeImage(res.Data)
		if err != nil {
			Logger().Warn("image decode failed", "url", res.URL, "err", err)
			return
		}
		b := img.Bounds()
		d.tree.Mutate().SetReplacedContent(id, &dom.ReplacedContent{
			Kind:            dom.ReplacedImage,
			Image:           img,
			IntrinsicWidth:  float64(b.Dx()),
			IntrinsicHeight: float64(b.Dy()),
		})
		Logger().Debug("image loaded", "url", res.URL, "w", b.Dx(), "h", b.Dy())
	}
}

// PendingFetches reports how many scheduled fetches have not completed.
func (d *Document) PendingFetches() int { return len(d.pending) }

// Resolve brings styles and layout up to date. It is idempotent: a
// second call with no intervening mutation does nothing.
func (d *Document) Resolve() {
	for pass := 0; pass < 4 && d.tree.IsDirty(); pass++ {
		d.resolveStyles()
		if d.tree.NeedsLayout() {
			d.layout.Layout(d.tree)
		}
		d.tree.ClearDirty()
	}
}

// Paint resolves if needed and emits the document into the sink.
func (d *Document) Paint(sink scene.Sink) paint.Stats {
	d.Resolve()
	stats := d.painter.Paint(d.tree, sink)
	Logger().Debug("painted", "boxes", stats.Boxes, "glyph_runs", stats.GlyphRuns)
	return stats
}

// HandleMouseMove forwards pointer movement and keeps the shell cursor
// in sync with whatever is under it.
func (d *Document) HandleMouseMove(x, y float64, mods events.Modifiers) {
	d.pipeline.HandleMouseMove(x, y, mods)
	d.shell.SetCursor(d.cursorAt(d.tree.Hover()))
}

func (d *Document) cursorAt(id dom.NodeID) shell.CursorIcon {
	if id == dom.NoNode || !d.tree.Alive(id) {
		return shell.CursorDefault
	}
	for _, cur := range d.tree.NodeChain(id) {
		n := d.tree.Get(cur)
		if n.Style == nil {
			continue
		}
		if v, ok := n.Style.Get("cursor"); ok && v != "auto" {
			return shell.CursorFromCSS(v)
		}
	}
	return shell.CursorDefault
}

func (d *Document) navigate(target string) {
	if d.nav == nil {
		return
	}
	d.nav.NavigateNewPage(shell.Navigation{
		URL:            net.ResolveURL(d.baseURL, target),
		SourceDocument: d.id,
	})
}

func (d *Document) submitForm(sub events.Submission) {
	if d.nav == nil {
		return
	}
	action := net.ResolveURL(d.baseURL, sub.Action)
	if sub.Method == "get" || sub.Method == "" {
		q := url.Values{}
		for _, f := range sub.Fields {
			q.Add(f.Name, f.Value)
		}
		if enc := q.Encode(); enc != "" {
			action += "?" + enc
		}
	}
	d.nav.NavigateNewPage(shell.Navigation{URL: action, SourceDocument: d.id})
}

// Close releases the resource provider. The document must not be used
// afterwards.
func (d *Document) Close() {
	d.provider.Close()
}
