package font

import (
	"fmt"
	"image"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FromFace rasterizes the printable ASCII range of face into a table.
func FromFace(face xfont.Face) Source {
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()

	t := &table{glyphs: make(map[rune]Glyph), height: height, ascent: ascent}
	for r := rune(0x20); r < 0x7f; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		width := adv.Ceil()
		if width <= 0 {
			continue
		}

		dst := image.NewAlpha(image.Rect(0, 0, width, height))
		d := xfont.Drawer{
			Dst:  dst,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.P(0, ascent),
		}
		d.DrawString(string(r))

		g := Glyph{Width: width, Height: height, Advance: width, Coverage: make([]uint8, width*height)}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g.Coverage[y*width+x] = dst.AlphaAt(x, y).A
			}
		}
		t.glyphs[r] = g
	}
	return t
}

// Named resolves "tiny", "basic" (the 7x13 face from x/image) or a path
// to a .bdf file.
func Named(name string) (Source, error) {
	switch name {
	case "", "tiny":
		return Tiny(), nil
	case "basic":
		return FromFace(basicfont.Face7x13), nil
	}
	if strings.HasSuffix(name, ".bdf") {
		return LoadBDFFile(name)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFont, name)
}
