package pixel

import (
	"fmt"
	"iter"
)

// MaxDimension bounds either side of a grid.
const MaxDimension = 4096

// Buffer is a W×H row-major grid with a committed front copy used for
// diffing. Writes outside the grid are ignored.
type Buffer struct {
	width  int
	height int
	cells  []RGB
	front  []RGB
	stale  bool
}

func NewBuffer(width, height int) (*Buffer, error) {
	if width < 1 || height < 1 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	size := width * height
	return &Buffer{
		width:  width,
		height: height,
		cells:  make([]RGB, size),
		front:  make([]RGB, size),
		stale:  true,
	}, nil
}

func (b *Buffer) Size() (int, int) { return b.width, b.height }
func (b *Buffer) Width() int       { return b.width }
func (b *Buffer) Height() int      { return b.height }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Clear sets every cell to c using exponential copy.
func (b *Buffer) Clear(c RGB) {
	b.cells[0] = c
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

func (b *Buffer) Set(x, y int, c RGB) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

func (b *Buffer) At(x, y int) (RGB, bool) {
	if !b.inBounds(x, y) {
		return RGB{}, false
	}
	return b.cells[y*b.width+x], true
}

// Blend interpolates the cell at (x, y) toward c by weight in [0, 1].
func (b *Buffer) Blend(x, y int, c RGB, weight float64) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	b.cells[idx] = Lerp(b.cells[idx], c, Weight(weight))
}

// FadeTo moves every cell toward bg by amount/256, leaving a decaying
// trail of the previous frame.
func (b *Buffer) FadeTo(bg RGB, amount uint8) {
	w := int(amount)
	for i := range b.cells {
		b.cells[i] = Lerp(b.cells[i], bg, w)
	}
}

// Pixels yields the live grid in row-major order. Use Snapshot when the
// consumer may outlive the current frame.
func (b *Buffer) Pixels() iter.Seq2[Point, RGB] {
	return func(yield func(Point, RGB) bool) {
		for i, c := range b.cells {
			if !yield(Point{i % b.width, i / b.width}, c) {
				return
			}
		}
	}
}

func (b *Buffer) Snapshot() Frame {
	return NewFrame(b.width, b.height, b.cells)
}

// Diff returns the cells that differ from the last committed frame, or
// every cell when nothing has been committed since Invalidate.
func (b *Buffer) Diff() []Pixel {
	var out []Pixel
	for i, c := range b.cells {
		if b.stale || c != b.front[i] {
			out = append(out, Pixel{Point: Point{i % b.width, i / b.width}, Color: c})
		}
	}
	return out
}

// Commit records the working grid as the frame the display now shows.
func (b *Buffer) Commit() {
	copy(b.front, b.cells)
	b.stale = false
}

// Invalidate forgets the committed frame so the next Diff is complete.
func (b *Buffer) Invalidate() {
	b.stale = true
}
