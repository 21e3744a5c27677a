package font

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/image/font/basicfont"
)

const sampleBDF = `STARTFONT 2.1
FONT -misc-sample
SIZE 5 75 75
FONTBOUNDINGBOX 4 6 0 -1
STARTPROPERTIES 2
FONT_ASCENT 5
FONT_DESCENT 1
ENDPROPERTIES
CHARS 2
STARTCHAR A
ENCODING 65
SWIDTH 500 0
DWIDTH 4 0
BBX 3 5 0 0
BITMAP
40
A0
E0
A0
A0
ENDCHAR
STARTCHAR unencoded
ENCODING -1
DWIDTH 4 0
BBX 1 1 0 0
BITMAP
80
ENDCHAR
ENDFONT
`

func TestTinyGlyph(t *testing.T) {
	src := Tiny()
	if src.Height() != 5 || src.Ascent() != 5 {
		t.Fatalf("expected 5 rows, got height %d ascent %d", src.Height(), src.Ascent())
	}

	g, ok := src.Glyph('T')
	if !ok {
		t.Fatal("missing glyph T")
	}
	want := []string{"###", ".#.", ".#.", ".#.", ".#."}
	for y, row := range want {
		for x, ch := range row {
			lit := g.At(x, y) == 255
			if lit != (ch == '#') {
				t.Errorf("T(%d,%d): lit=%v", x, y, lit)
			}
		}
	}

	lower, ok := src.Glyph('t')
	if !ok || lower.At(1, 4) != 255 {
		t.Error("lower case t should map to T")
	}
}

func TestMeasureFallsBack(t *testing.T) {
	src := Tiny()
	if got := Measure(src, "AB"); got != 8 {
		t.Errorf("expected width 8, got %d", got)
	}
	// '~' has no glyph and falls back to '?'
	if got := Measure(src, "~"); got != 4 {
		t.Errorf("expected fallback width 4, got %d", got)
	}
}

func TestLoadBDF(t *testing.T) {
	src, err := LoadBDF(strings.NewReader(sampleBDF))
	if err != nil {
		t.Fatalf("LoadBDF: %v", err)
	}
	if src.Height() != 6 || src.Ascent() != 5 {
		t.Errorf("expected height 6 ascent 5, got %d %d", src.Height(), src.Ascent())
	}
	if n := Runes(src); n != 1 {
		t.Errorf("expected 1 encoded glyph, got %d", n)
	}

	g, ok := src.Glyph('A')
	if !ok {
		t.Fatal("missing glyph A")
	}
	if g.Advance != 4 || g.Width != 4 {
		t.Errorf("expected advance/width 4, got %d/%d", g.Advance, g.Width)
	}
	want := []string{".#..", "#.#.", "###.", "#.#.", "#.#.", "...."}
	for y, row := range want {
		for x, ch := range row {
			if (g.At(x, y) == 255) != (ch == '#') {
				t.Errorf("A(%d,%d) mismatch", x, y)
			}
		}
	}
}

func TestLoadBDFWideGlyph(t *testing.T) {
	src := "FONT_ASCENT 1\nFONT_DESCENT 0\nSTARTCHAR wide\nENCODING 87\nDWIDTH 72 0\nBBX 72 1 0 0\nBITMAP\n800000000000000001\nENDCHAR\n"
	f, err := LoadBDF(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadBDF: %v", err)
	}
	g, ok := f.Glyph('W')
	if !ok {
		t.Fatal("missing glyph W")
	}
	if g.Width != 72 {
		t.Fatalf("expected width 72, got %d", g.Width)
	}
	for x := range 72 {
		want := x == 0 || x == 71
		if (g.At(x, 0) == 255) != want {
			t.Errorf("W(%d,0) lit=%v, want %v", x, g.At(x, 0) == 255, want)
		}
	}
}

func TestLoadBDFMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad bitmap", "FONT_ASCENT 5\nFONT_DESCENT 1\nSTARTCHAR a\nENCODING 97\nBBX 1 1 0 0\nBITMAP\nzz\nENDCHAR\n"},
		{"unterminated", "FONT_ASCENT 5\nFONT_DESCENT 1\nSTARTCHAR a\nENCODING 97\nBITMAP\n80\n"},
		{"no metrics", "STARTCHAR a\nENCODING 97\nBITMAP\n80\nENDCHAR\n"},
		{"short bbx", "STARTCHAR a\nBBX 1 1\n"},
		{"row narrower than bbx", "FONT_ASCENT 1\nFONT_DESCENT 0\nSTARTCHAR a\nENCODING 97\nBBX 72 1 0 0\nBITMAP\nFFFFFFFFFFFFFFFF\nENDCHAR\n"},
		{"odd row digits", "FONT_ASCENT 1\nFONT_DESCENT 0\nSTARTCHAR a\nENCODING 97\nBBX 4 1 0 0\nBITMAP\n8\nENDCHAR\n"},
		{"negative bbx", "FONT_ASCENT 1\nFONT_DESCENT 0\nSTARTCHAR a\nENCODING 97\nBBX -3 1 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBDF(strings.NewReader(tt.src))
			if !errors.Is(err, ErrMalformedBDF) {
				t.Errorf("expected ErrMalformedBDF, got %v", err)
			}
		})
	}
}

func TestFromFace(t *testing.T) {
	src := FromFace(basicfont.Face7x13)
	if src.Height() != 13 {
		t.Errorf("expected height 13, got %d", src.Height())
	}

	g, ok := src.Glyph('H')
	if !ok {
		t.Fatal("missing glyph H")
	}
	lit := 0
	for _, c := range g.Coverage {
		if c > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("glyph H has no coverage")
	}
	if _, ok := src.Glyph(' '); !ok {
		t.Error("missing space glyph")
	}
}

func TestNamed(t *testing.T) {
	for _, name := range []string{"", "tiny", "basic"} {
		if _, err := Named(name); err != nil {
			t.Errorf("Named(%q): %v", name, err)
		}
	}
	if _, err := Named("comic-sans"); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("expected ErrUnknownFont, got %v", err)
	}
}
