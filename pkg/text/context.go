package text

import (
	"fmt"
	"strings"
	"sync"
)

// faceKey distinguishes registered faces within a family.
type faceKey struct {
	bold   bool
	italic bool
}

// Context is the font registry shared by a document. Families are
// registered under lowercased names; resolution walks a font-family list
// and falls back to the default family.
//
// Context methods are safe to call from resource-completion goroutines;
// the document otherwise uses it single-threaded.
type Context struct {
	mu            sync.RWMutex
	families      map[string]map[faceKey]*Source
	defaultFamily string
	shaper        Shaper
}

// NewContext returns an empty font context using the builtin shaper.
func NewContext() *Context {
	return &Context{
		families: make(map[string]map[faceKey]*Source),
		shaper:   &BuiltinShaper{},
	}
}

// SetShaper replaces the shaper. Pass nil to restore the builtin one.
func (c *Context) SetShaper(s Shaper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s == nil {
		s = &BuiltinShaper{}
	}
	c.shaper = s
}

// Shaper returns the active shaper.
func (c *Context) Shaper() Shaper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shaper
}

// Register adds a font source for a family/weight/style slot. The first
// registered family becomes the default.
func (c *Context) Register(family string, weight int, italic bool, src *Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := strings.ToLower(strings.TrimSpace(family))
	if name == "" {
		name = strings.ToLower(src.FamilyName())
	}
	if name == "" {
		name = "default"
	}
	faces, ok := c.families[name]
	if !ok {
		faces = make(map[faceKey]*Source)
		c.families[name] = faces
	}
	faces[faceKey{bold: weight >= 600, italic: italic}] = src
	if c.defaultFamily == "" {
		c.defaultFamily = name
	}
}

// RegisterFile loads a font file into a family/weight/style slot.
func (c *Context) RegisterFile(family string, weight int, italic bool, path string) error {
	src, err := LoadSource(path)
	if err != nil {
		return fmt.Errorf("text: register %s: %w", family, err)
	}
	c.Register(family, weight, italic, src)
	return nil
}

// HasFonts reports whether any font was registered.
func (c *Context) HasFonts() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultFamily != ""
}

// Resolve picks the best source for a font-family preference list and a
// weight/style combination. Generic family keywords map onto the default
// family. Returns nil when the context holds no fonts at all.
func (c *Context) Resolve(families []string, weight int, italic bool) *Source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := faceKey{bold: weight >= 600, italic: italic}
	for _, fam := range families {
		name := strings.ToLower(strings.TrimSpace(fam))
		switch name {
		case "serif", "sans-serif", "monospace", "cursive", "fantasy", "system-ui":
			name = c.defaultFamily
		}
		if faces, ok := c.families[name]; ok {
			if src := pickFace(faces, key); src != nil {
				return src
			}
		}
	}
	if faces, ok := c.families[c.defaultFamily]; ok {
		return pickFace(faces, key)
	}
	return nil
}

// pickFace degrades gracefully: exact match, drop italic, drop bold,
// anything.
func pickFace(faces map[faceKey]*Source, key faceKey) *Source {
	for _, k := range []faceKey{
		key,
		{bold: key.bold},
		{italic: key.italic},
		{},
	} {
		if src, ok := faces[k]; ok {
			return src
		}
	}
	for _, src := range faces {
		return src
	}
	return nil
}
