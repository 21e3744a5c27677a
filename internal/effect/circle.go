package effect

import (
	"fmt"

	"github.com/san-kum/ledsim/internal/pixel"
)

// Circle is a single expanding ring pulse. Its radius is Growth * t for
// the t-th tick (starting at zero), so the ring never shrinks. Once the
// ring has passed every corner of the grid the pulse is over and Tick
// reports false; the next pulse is a new Circle.
type Circle struct {
	Center    pixel.Point
	Growth    Fixed
	Feather   Fixed
	AntiAlias bool
	Color     pixel.RGB
	tick      int
}

func NewCircle(center pixel.Point, growth, feather Fixed, antiAlias bool) (*Circle, error) {
	if growth <= 0 {
		return nil, fmt.Errorf("%w: circle growth %v", ErrInvalidParam, growth.Float())
	}
	if antiAlias && feather <= 0 {
		return nil, fmt.Errorf("%w: circle feather %v", ErrInvalidParam, feather.Float())
	}
	return &Circle{
		Center:    center,
		Growth:    growth,
		Feather:   feather,
		AntiAlias: antiAlias,
		Color:     pixel.White,
	}, nil
}

func (c *Circle) Kind() Kind { return KindCircle }
func (c *Circle) sealed()    {}

// Radius is the radius the next Tick will draw.
func (c *Circle) Radius() Fixed { return c.Growth.MulInt(c.tick) }

func (c *Circle) reach(w, h int) Fixed {
	var far Fixed
	for _, corner := range [4]pixel.Point{{X: 0, Y: 0}, {X: w - 1, Y: 0}, {X: 0, Y: h - 1}, {X: w - 1, Y: h - 1}} {
		far = max(far, distance(corner.X-c.Center.X, corner.Y-c.Center.Y))
	}
	return far
}

func (c *Circle) Tick(t Target) bool {
	w, h := t.Size()
	radius := c.Radius()

	edge := fixedHalf
	if c.AntiAlias {
		edge = c.Feather
	}
	if radius-edge > c.reach(w, h) {
		return false
	}

	ring := radius.Round()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := distance(x-c.Center.X, y-c.Center.Y)
			if !c.AntiAlias {
				if d.Round() == ring {
					t.Set(x, y, c.Color)
				}
				continue
			}
			off := absFixed(d - radius)
			if off >= c.Feather {
				continue
			}
			level := uint8(int64(c.Feather-off) * 255 / int64(c.Feather))
			if level > 0 {
				t.Set(x, y, pixel.Scale(c.Color, level))
			}
		}
	}
	c.tick++
	return true
}
