package effect

import (
	"math/rand/v2"

	"github.com/san-kum/ledsim/internal/pixel"
)

// Default PCG seed pairs for the two parameter streams.
var (
	DefaultMotionSeed    = [2]uint64{13, 19}
	DefaultPlacementSeed = [2]uint64{253, 17}
)

type SpawnConfig struct {
	Width  int
	Height int
	// RowHeight is the trail length of spawned rows; 0 means the grid height.
	RowHeight     int
	MotionSeed    [2]uint64
	PlacementSeed [2]uint64
	Palette       *pixel.Palette
	Growth        Fixed
	Feather       Fixed
	AntiAlias     bool
}

// Spawner seeds new effects from two independent PCG streams: motion
// (speed, color phase) and placement (column, start row, lifetime, center).
// Identical seeds yield identical effect sequences.
type Spawner struct {
	cfg       SpawnConfig
	motion    *rand.Rand
	placement *rand.Rand
}

func NewSpawner(cfg SpawnConfig) *Spawner {
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = cfg.Height
	}
	return &Spawner{
		cfg:       cfg,
		motion:    rand.New(rand.NewPCG(cfg.MotionSeed[0], cfg.MotionSeed[1])),
		placement: rand.New(rand.NewPCG(cfg.PlacementSeed[0], cfg.PlacementSeed[1])),
	}
}

func (s *Spawner) lifetimeCap() int {
	return s.cfg.Height + s.cfg.RowHeight
}

// Row seeds a falling trail with a random column, start row in the top
// half and a lifetime of at most H + height ticks, so a row never keeps
// ticking long after its trail has left the grid. Short lifetimes end the
// row mid-grid.
func (s *Spawner) Row() *Row {
	speed := uint8(60 - s.motion.Uint32()%28)
	x := int(s.placement.Uint32() % uint32(s.cfg.Width))
	y := int(s.placement.Uint32() % uint32(max(s.cfg.Height/2, 1)))
	life := min(10+int(s.placement.Uint32()%30), s.lifetimeCap())

	r := &Row{
		Speed:    speed,
		X:        x,
		Height:   s.cfg.RowHeight,
		Color:    pixel.White,
		Palette:  s.cfg.Palette,
		head:     y,
		life:     life,
		lifespan: life,
	}
	return r
}

// Circle seeds a pulse at a random center.
func (s *Spawner) Circle() *Circle {
	cx := int(s.placement.Uint32() % uint32(s.cfg.Width))
	cy := int(s.placement.Uint32() % uint32(s.cfg.Height))
	phase := uint8(s.motion.Uint32())

	c := &Circle{
		Center:    pixel.Point{X: cx, Y: cy},
		Growth:    s.cfg.Growth,
		Feather:   s.cfg.Feather,
		AntiAlias: s.cfg.AntiAlias,
		Color:     pixel.White,
	}
	if s.cfg.Palette != nil {
		c.Color = s.cfg.Palette.At(phase)
	}
	return c
}

// Respawn returns the replacement for an effect that reported false.
// A replacement row never reuses the dead row's column (on grids wider
// than one) or its lifetime. Chasers and text never die and are returned
// unchanged.
func (s *Spawner) Respawn(dead Effect) Effect {
	switch d := dead.(type) {
	case *Row:
		r := s.Row()
		if s.cfg.Width > 1 && r.X == d.X {
			r.X = (r.X + 1) % s.cfg.Width
		}
		if r.lifespan == d.lifespan {
			r.lifespan = r.lifespan%s.lifetimeCap() + 1
			r.life = r.lifespan
		}
		return r
	case *Circle:
		return s.Circle()
	}
	return dead
}
