// Package text owns fonts for the document engine: loading and resolving
// font sources by family and style, measuring advances and metrics, and
// shaping text runs into positioned glyphs.
package text

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Source is one loaded font file. It keeps the raw bytes (handed to scene
// sinks for rasterization) and the parsed sfnt font for measurement.
//
// A Source is immutable after load; the internal sfnt buffer is guarded
// because sfnt.Font methods need a scratch buffer and the document may
// measure from tests and resolve passes alike.
type Source struct {
	data   []byte
	parsed *opentype.Font

	mu  sync.Mutex
	buf sfnt.Buffer
}

// NewSource parses TTF/OTF data into a Source.
func NewSource(data []byte) (*Source, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &Source{data: data, parsed: parsed}, nil
}

// LoadSource reads and parses a font file.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: read font %s: %w", path, err)
	}
	return NewSource(data)
}

// FontData implements the scene sink's font handle: raw font file bytes.
func (s *Source) FontData() []byte { return s.data }

// FontIndex implements the scene sink's font handle. Collections are not
// supported, so the index is always 0.
func (s *Source) FontIndex() int { return 0 }

// FamilyName returns the font family name recorded in the font, or "".
func (s *Source) FamilyName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, err := s.parsed.Name(&s.buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// Metrics holds font metrics at a specific size, in px. Descent is
// positive (absolute distance below the baseline).
type Metrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// LineHeight returns the natural line height: ascent + descent + gap.
func (m Metrics) LineHeight() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Metrics returns the font metrics at the given px size.
func (s *Source) Metrics(size float64) Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.parsed.Metrics(&s.buf, floatToFixed(size), font.HintingNone)
	if err != nil {
		return Metrics{Ascent: size * 0.8, Descent: size * 0.2}
	}
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	if descent < 0 {
		descent = -descent
	}
	gap := fixedToFloat(m.Height) - ascent - descent
	if gap < 0 {
		gap = 0
	}
	return Metrics{Ascent: ascent, Descent: descent, LineGap: gap}
}

// GlyphIndex returns the glyph id for a rune, 0 when missing.
func (s *Source) GlyphIndex(r rune) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.parsed.GlyphIndex(&s.buf, r)
	if err != nil {
		return 0
	}
	return uint32(idx)
}

// GlyphAdvance returns the advance width of a glyph at the given px size.
func (s *Source) GlyphAdvance(gid uint32, size float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	adv, err := s.parsed.GlyphAdvance(&s.buf, sfnt.GlyphIndex(gid), floatToFixed(size), font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(adv)
}

// Advance returns the total advance of the text at the given px size,
// without shaping (no kerning or ligatures).
func (s *Source) Advance(text string, size float64) float64 {
	total := 0.0
	for _, r := range text {
		total += s.GlyphAdvance(s.GlyphIndex(r), size)
	}
	return total
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
