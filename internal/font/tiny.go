package font

import (
	"sync"
	"unicode"
)

// 3x5 glyphs, '#' is lit. Lower case maps onto upper case.
var tinyRows = map[rune][5]string{
	'A': {".#.", "#.#", "###", "#.#", "#.#"},
	'B': {"##.", "#.#", "##.", "#.#", "##."},
	'C': {".##", "#..", "#..", "#..", ".##"},
	'D': {"##.", "#.#", "#.#", "#.#", "##."},
	'E': {"###", "#..", "##.", "#..", "###"},
	'F': {"###", "#..", "##.", "#..", "#.."},
	'G': {".##", "#..", "#.#", "#.#", ".##"},
	'H': {"#.#", "#.#", "###", "#.#", "#.#"},
	'I': {"###", ".#.", ".#.", ".#.", "###"},
	'J': {"..#", "..#", "..#", "#.#", ".#."},
	'K': {"#.#", "#.#", "##.", "#.#", "#.#"},
	'L': {"#..", "#..", "#..", "#..", "###"},
	'M': {"#.#", "###", "###", "#.#", "#.#"},
	'N': {"##.", "#.#", "#.#", "#.#", "#.#"},
	'O': {".#.", "#.#", "#.#", "#.#", ".#."},
	'P': {"##.", "#.#", "##.", "#..", "#.."},
	'Q': {".#.", "#.#", "#.#", "##.", ".##"},
	'R': {"##.", "#.#", "##.", "#.#", "#.#"},
	'S': {".##", "#..", ".#.", "..#", "##."},
	'T': {"###", ".#.", ".#.", ".#.", ".#."},
	'U': {"#.#", "#.#", "#.#", "#.#", "###"},
	'V': {"#.#", "#.#", "#.#", "#.#", ".#."},
	'W': {"#.#", "#.#", "###", "###", "#.#"},
	'X': {"#.#", "#.#", ".#.", "#.#", "#.#"},
	'Y': {"#.#", "#.#", ".#.", ".#.", ".#."},
	'Z': {"###", "..#", ".#.", "#..", "###"},
	'0': {"###", "#.#", "#.#", "#.#", "###"},
	'1': {".#.", "##.", ".#.", ".#.", "###"},
	'2': {"##.", "..#", ".#.", "#..", "###"},
	'3': {"##.", "..#", ".#.", "..#", "##."},
	'4': {"#.#", "#.#", "###", "..#", "..#"},
	'5': {"###", "#..", "##.", "..#", "##."},
	'6': {".##", "#..", "###", "#.#", "###"},
	'7': {"###", "..#", ".#.", ".#.", ".#."},
	'8': {"###", "#.#", "###", "#.#", "###"},
	'9': {"###", "#.#", "###", "..#", "##."},
	' ': {"...", "...", "...", "...", "..."},
	'.': {"...", "...", "...", "...", ".#."},
	',': {"...", "...", "...", ".#.", "#.."},
	':': {"...", ".#.", "...", ".#.", "..."},
	'!': {".#.", ".#.", ".#.", "...", ".#."},
	'?': {"##.", "..#", ".#.", "...", ".#."},
	'-': {"...", "...", "###", "...", "..."},
	'+': {"...", ".#.", "###", ".#.", "..."},
	'/': {"..#", "..#", ".#.", "#..", "#.."},
	'\'': {".#.", ".#.", "...", "...", "..."},
	'<': {"..#", ".#.", "#..", ".#.", "..#"},
	'>': {"#..", ".#.", "..#", ".#.", "#.."},
	'=': {"...", "###", "...", "###", "..."},
	'#': {"#.#", "###", "#.#", "###", "#.#"},
	'*': {"#.#", ".#.", "###", ".#.", "#.#"},
}

var (
	tinyOnce sync.Once
	tinyFont *table
)

// Tiny returns the built-in 3x5 font. Glyphs advance four columns.
func Tiny() Source {
	tinyOnce.Do(func() {
		t := &table{glyphs: make(map[rune]Glyph, len(tinyRows)*2), height: 5, ascent: 5}
		for r, rows := range tinyRows {
			g := Glyph{Width: 3, Height: 5, Advance: 4, Coverage: make([]uint8, 15)}
			for y, row := range rows {
				for x, ch := range row {
					if ch == '#' {
						g.Coverage[y*3+x] = 255
					}
				}
			}
			t.glyphs[r] = g
			if lower := unicode.ToLower(r); lower != r {
				t.glyphs[lower] = g
			}
		}
		tinyFont = t
	})
	return tinyFont
}
