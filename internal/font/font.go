// Package font supplies read-only bitmap glyph sources for text effects.
//
// A [Source] is loaded once at startup and never changes afterwards. Three
// loaders exist: the built-in [Tiny] 3x5 font, [LoadBDF] for X11 bitmap
// fonts, and [FromFace] which rasterizes any golang.org/x/image font face.
package font

import "errors"

var (
	ErrMalformedBDF = errors.New("font: malformed BDF")
	ErrUnknownFont  = errors.New("font: unknown font")
)

// Glyph is a row-major coverage mask. Rows run from the top of the ascent;
// 0 is transparent and 255 fully covered.
type Glyph struct {
	Width    int
	Height   int
	Advance  int
	Coverage []uint8
}

func (g Glyph) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Coverage[y*g.Width+x]
}

// Source looks up glyphs by rune. Ascent is the number of glyph rows that
// sit on or above the baseline row.
type Source interface {
	Glyph(r rune) (Glyph, bool)
	Height() int
	Ascent() int
}

// Measure returns the advance width of s in pixels. Runes with no glyph
// fall back to '?' and then to a zero-width skip.
func Measure(src Source, s string) int {
	w := 0
	for _, r := range s {
		if g, ok := Lookup(src, r); ok {
			w += g.Advance
		}
	}
	return w
}

// Lookup is Glyph with the '?' fallback applied.
func Lookup(src Source, r rune) (Glyph, bool) {
	if g, ok := src.Glyph(r); ok {
		return g, true
	}
	return src.Glyph('?')
}

// table is a Source backed by a fixed map.
type table struct {
	glyphs map[rune]Glyph
	height int
	ascent int
}

func (t *table) Glyph(r rune) (Glyph, bool) {
	g, ok := t.glyphs[r]
	return g, ok
}

func (t *table) Height() int { return t.height }
func (t *table) Ascent() int { return t.ascent }

// Runes reports how many glyphs src holds when it is one of this package's
// table sources, or -1 otherwise.
func Runes(src Source) int {
	if t, ok := src.(*table); ok {
		return len(t.glyphs)
	}
	return -1
}
