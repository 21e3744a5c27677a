package pixel

import (
	"fmt"
	"iter"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color sample with no alpha channel.
type RGB struct {
	R, G, B uint8
}

var (
	Black   = RGB{0, 0, 0}
	White   = RGB{255, 255, 255}
	Red     = RGB{255, 0, 0}
	Green   = RGB{0, 255, 0}
	Blue    = RGB{0, 0, 255}
	Magenta = RGB{255, 0, 255}
)

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luma returns the integer Rec. 601 luma of c in [0, 255].
func (c RGB) Luma() uint8 {
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := col.RGB255()
	return RGB{r, g, b}, nil
}

type Point struct {
	X, Y int
}

type Pixel struct {
	Point
	Color RGB
}

// Seq adapts a pixel slice to the sequence form sinks consume.
func Seq(pixels []Pixel) iter.Seq2[Point, RGB] {
	return func(yield func(Point, RGB) bool) {
		for _, p := range pixels {
			if !yield(p.Point, p.Color) {
				return
			}
		}
	}
}

// Frame is an immutable snapshot of a buffer.
type Frame struct {
	Width  int
	Height int
	cells  []RGB
}

// NewFrame copies cells into a frame. len(cells) must be width*height.
func NewFrame(width, height int, cells []RGB) Frame {
	c := make([]RGB, width*height)
	copy(c, cells)
	return Frame{Width: width, Height: height, cells: c}
}

func (f Frame) At(x, y int) RGB {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return Black
	}
	return f.cells[y*f.Width+x]
}

// Pixels yields every cell in row-major order. The sequence can be
// iterated any number of times.
func (f Frame) Pixels() iter.Seq2[Point, RGB] {
	return func(yield func(Point, RGB) bool) {
		for i, c := range f.cells {
			if !yield(Point{i % f.Width, i / f.Width}, c) {
				return
			}
		}
	}
}

// Cells returns a copy of the row-major cell data.
func (f Frame) Cells() []RGB {
	c := make([]RGB, len(f.cells))
	copy(c, f.cells)
	return c
}

func (f Frame) Equal(other Frame) bool {
	if f.Width != other.Width || f.Height != other.Height {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
