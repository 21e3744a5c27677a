package font

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type bdfChar struct {
	encoding int
	dwidth   int
	w, h     int
	xoff     int
	yoff     int
	rows     [][]byte
}

// LoadBDFFile opens path and parses it with LoadBDF.
func LoadBDFFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadBDF(f)
}

// LoadBDF parses an X11 Bitmap Distribution Format font. Only encoded
// characters are kept; coverage is 0 or 255.
func LoadBDF(r io.Reader) (Source, error) {
	sc := bufio.NewScanner(r)
	line := 0

	var (
		ascent, descent int
		bbox            [4]int
		haveBBox        bool
		chars           []bdfChar
		cur             *bdfChar
		inBitmap        bool
	)

	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: line %d: %s", ErrMalformedBDF, line, fmt.Sprintf(format, args...))
	}
	ints := func(fields []string, n int) ([]int, error) {
		if len(fields) < n+1 {
			return nil, fail("%s needs %d values", fields[0], n)
		}
		out := make([]int, n)
		for i := 0; i < n; i++ {
			v, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return nil, fail("%s: %v", fields[0], err)
			}
			out[i] = v
		}
		return out, nil
	}

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		if inBitmap {
			if fields[0] == "ENDCHAR" {
				inBitmap = false
				if cur.encoding >= 0 {
					chars = append(chars, *cur)
				}
				cur = nil
				continue
			}
			// rows are padded to whole bytes, leftmost bit first
			row, err := hex.DecodeString(fields[0])
			if err != nil {
				return nil, fail("bitmap row %q", fields[0])
			}
			if len(row)*8 < cur.w {
				return nil, fail("bitmap row %q shorter than BBX width %d", fields[0], cur.w)
			}
			cur.rows = append(cur.rows, row)
			continue
		}

		switch fields[0] {
		case "FONTBOUNDINGBOX":
			v, err := ints(fields, 4)
			if err != nil {
				return nil, err
			}
			copy(bbox[:], v)
			haveBBox = true
		case "FONT_ASCENT":
			v, err := ints(fields, 1)
			if err != nil {
				return nil, err
			}
			ascent = v[0]
		case "FONT_DESCENT":
			v, err := ints(fields, 1)
			if err != nil {
				return nil, err
			}
			descent = v[0]
		case "STARTCHAR":
			cur = &bdfChar{encoding: -1}
		case "ENCODING":
			if cur == nil {
				return nil, fail("ENCODING outside STARTCHAR")
			}
			v, err := ints(fields, 1)
			if err != nil {
				return nil, err
			}
			cur.encoding = v[0]
		case "DWIDTH":
			if cur == nil {
				return nil, fail("DWIDTH outside STARTCHAR")
			}
			v, err := ints(fields, 2)
			if err != nil {
				return nil, err
			}
			cur.dwidth = v[0]
		case "BBX":
			if cur == nil {
				return nil, fail("BBX outside STARTCHAR")
			}
			v, err := ints(fields, 4)
			if err != nil {
				return nil, err
			}
			if v[0] < 0 || v[1] < 0 {
				return nil, fail("BBX size %dx%d", v[0], v[1])
			}
			cur.w, cur.h, cur.xoff, cur.yoff = v[0], v[1], v[2], v[3]
		case "BITMAP":
			if cur == nil {
				return nil, fail("BITMAP outside STARTCHAR")
			}
			inBitmap = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if inBitmap {
		return nil, fail("unterminated BITMAP")
	}

	if ascent == 0 && descent == 0 {
		if !haveBBox {
			return nil, fail("no FONT_ASCENT/FONT_DESCENT or FONTBOUNDINGBOX")
		}
		ascent = bbox[1] + bbox[3]
		descent = -bbox[3]
	}
	height := ascent + descent
	if height <= 0 {
		return nil, fail("font height %d", height)
	}

	t := &table{glyphs: make(map[rune]Glyph, len(chars)), height: height, ascent: ascent}
	for _, c := range chars {
		width := max(c.dwidth, c.xoff+c.w, 1)
		g := Glyph{Width: width, Height: height, Advance: c.dwidth, Coverage: make([]uint8, width*height)}
		if g.Advance == 0 {
			g.Advance = width
		}
		top := ascent - (c.h + c.yoff)
		for row, bits := range c.rows {
			y := top + row
			if row >= c.h || y < 0 || y >= height {
				continue
			}
			for col := 0; col < c.w; col++ {
				if bits[col/8]&(0x80>>(col%8)) == 0 {
					continue
				}
				x := c.xoff + col
				if x >= 0 && x < width {
					g.Coverage[y*width+x] = 255
				}
			}
		}
		t.glyphs[rune(c.encoding)] = g
	}
	return t, nil
}
