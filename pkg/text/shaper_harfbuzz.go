package text

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// HarfbuzzShaper shapes text through go-text/typesetting's HarfBuzz port:
// kerning, ligatures, contextual alternates and complex scripts. Opt in
// with Context.SetShaper(NewHarfbuzzShaper()).
type HarfbuzzShaper struct {
	// pool holds shaping.HarfbuzzShaper instances; they carry mutable
	// buffers and are not safe for concurrent use.
	pool sync.Pool

	mu sync.RWMutex
	// fonts caches parsed go-text fonts per Source. font.Font is
	// read-only and safe to share; font.Face is created per call.
	fonts map[*Source]*font.Font
}

// NewHarfbuzzShaper returns a shaper backed by go-text/typesetting.
func NewHarfbuzzShaper() *HarfbuzzShaper {
	return &HarfbuzzShaper{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		fonts: make(map[*Source]*font.Font),
	}
}

// Shape implements Shaper.
func (s *HarfbuzzShaper) Shape(text string, src *Source, size float64, rtl bool) ShapedRun {
	if text == "" || src == nil {
		return ShapedRun{}
	}
	gtFont, err := s.fontFor(src)
	if err != nil {
		// Fall back so a bad font degrades to advance-only shaping.
		return BuiltinShaper{}.Shape(text, src, size, rtl)
	}

	runes := []rune(text)
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(gtFont),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	var run ShapedRun
	x := 0.0
	for _, g := range output.Glyphs {
		run.Glyphs = append(run.Glyphs, Glyph{
			ID:       uint32(g.GlyphID),
			Cluster:  g.TextIndex(),
			X:        x + fixedToFloat(g.XOffset),
			Y:        -fixedToFloat(g.YOffset),
			XAdvance: fixedToFloat(g.Advance),
		})
		x += fixedToFloat(g.Advance)
	}
	run.Advance = x
	return run
}

func (s *HarfbuzzShaper) fontFor(src *Source) (*font.Font, error) {
	s.mu.RLock()
	f, ok := s.fonts[src]
	s.mu.RUnlock()
	if ok {
		return f, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fonts[src]; ok {
		return f, nil
	}
	face, err := font.ParseTTF(bytes.NewReader(src.FontData()))
	if err != nil {
		return nil, err
	}
	s.fonts[src] = face.Font
	return face.Font, nil
}

// detectScript returns the script of the first non-space rune, defaulting
// to Latin. Mixed-script text should be split into runs upstream.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
