package effect

import (
	"fmt"

	"github.com/san-kum/ledsim/internal/pixel"
)

// Path maps a 1-D index onto grid cells.
type Path []pixel.Point

// Serpentine walks rows left to right, then right to left, the way LED
// matrices are commonly wired.
func Serpentine(w, h int) Path {
	p := make(Path, 0, w*h)
	for y := 0; y < h; y++ {
		for i := 0; i < w; i++ {
			x := i
			if y%2 == 1 {
				x = w - 1 - i
			}
			p = append(p, pixel.Point{X: x, Y: y})
		}
	}
	return p
}

// Perimeter walks the outer ring clockwise from the top left corner.
func Perimeter(w, h int) Path {
	if w == 1 || h == 1 {
		return Serpentine(w, h)
	}
	p := make(Path, 0, 2*(w+h)-4)
	for x := 0; x < w; x++ {
		p = append(p, pixel.Point{X: x, Y: 0})
	}
	for y := 1; y < h; y++ {
		p = append(p, pixel.Point{X: w - 1, Y: y})
	}
	for x := w - 2; x >= 0; x-- {
		p = append(p, pixel.Point{X: x, Y: h - 1})
	}
	for y := h - 2; y > 0; y-- {
		p = append(p, pixel.Point{X: 0, Y: y})
	}
	return p
}

// PathByName resolves "serpentine" or "perimeter".
func PathByName(name string, w, h int) (Path, error) {
	switch name {
	case "", "serpentine":
		return Serpentine(w, h), nil
	case "perimeter":
		return Perimeter(w, h), nil
	}
	return nil, fmt.Errorf("%w: chaser path %q", ErrInvalidParam, name)
}

// Chaser lights path[t mod len(path)] on its t-th tick, starting from zero,
// with Tail dimmer cells behind it. It never dies.
type Chaser struct {
	Path  Path
	Tail  int
	Color pixel.RGB
	tick  uint64
}

func NewChaser(path Path, tail int) (*Chaser, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty chaser path", ErrInvalidParam)
	}
	if tail < 0 {
		return nil, fmt.Errorf("%w: chaser tail %d", ErrInvalidParam, tail)
	}
	return &Chaser{Path: path, Tail: tail, Color: pixel.White}, nil
}

func (c *Chaser) Kind() Kind { return KindChaser }
func (c *Chaser) sealed()    {}

// Position is the path index the next Tick will light.
func (c *Chaser) Position() int { return int(c.tick % uint64(len(c.Path))) }

func (c *Chaser) Tick(t Target) bool {
	n := len(c.Path)
	pos := c.Position()

	for k := min(c.Tail, n-1); k >= 1; k-- {
		if uint64(k) > c.tick {
			continue
		}
		p := c.Path[(pos-k+n)%n]
		level := uint8(255 * (c.Tail + 1 - k) / (c.Tail + 1))
		t.Set(p.X, p.Y, pixel.Scale(c.Color, level))
	}
	head := c.Path[pos]
	t.Set(head.X, head.Y, c.Color)

	c.tick++
	return true
}
