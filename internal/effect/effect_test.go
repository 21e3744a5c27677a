package effect

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ledsim/internal/font"
	"github.com/san-kum/ledsim/internal/pixel"
)

func newGrid(t *testing.T, w, h int) *pixel.Buffer {
	t.Helper()
	b, err := pixel.NewBuffer(w, h)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	return b
}

func TestRowTrailAfterThreeTicks(t *testing.T) {
	grid := newGrid(t, 7, 7)
	row, err := NewRow(5, 3, 0, 4, 10)
	if err != nil {
		t.Fatalf("NewRow: %v", err)
	}

	for i := 0; i < 3; i++ {
		grid.Clear(pixel.Black)
		if !row.Tick(grid) {
			t.Fatalf("row died at tick %d", i+1)
		}
	}

	if head := row.Head(); head != (pixel.Point{X: 3, Y: 3}) {
		t.Fatalf("expected head at (3,3), got %v", head)
	}

	want := map[int]uint8{3: 255, 2: 191, 1: 127, 0: 63}
	for p, c := range grid.Pixels() {
		level, lit := want[p.Y]
		if p.X != 3 || !lit {
			if c != pixel.Black {
				t.Errorf("cell %v should be dark, got %v", p, c)
			}
			continue
		}
		if expected := pixel.Scale(pixel.White, level); c != expected {
			t.Errorf("cell %v = %v, want %v", p, c, expected)
		}
	}
}

func TestRowLifetimeGovernsDeath(t *testing.T) {
	grid := newGrid(t, 7, 7)
	row, _ := NewRow(5, 3, 0, 4, 10)

	prev := row.Head().Y
	prevLife := row.Remaining()
	for tick := 1; tick <= 10; tick++ {
		alive := row.Tick(grid)
		if row.Head().Y != prev+1 {
			t.Errorf("tick %d: head moved from %d to %d", tick, prev, row.Head().Y)
		}
		if row.Remaining() >= prevLife {
			t.Errorf("tick %d: lifetime did not decrease", tick)
		}
		prev, prevLife = row.Head().Y, row.Remaining()

		if tick < 10 && !alive {
			t.Fatalf("row died early at tick %d", tick)
		}
		if tick == 10 && alive {
			t.Fatal("row still alive at tick 10")
		}
	}

	if row.Tick(grid) {
		t.Error("dead row came back to life")
	}
}

func TestRowInvalidParams(t *testing.T) {
	if _, err := NewRow(1, 0, 0, 0, 5); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam for zero height, got %v", err)
	}
	if _, err := NewRow(1, 0, 0, 3, 0); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam for zero lifetime, got %v", err)
	}
}

func TestRowHeadsDeterministic(t *testing.T) {
	cfg := SpawnConfig{
		Width:         7,
		Height:        7,
		MotionSeed:    DefaultMotionSeed,
		PlacementSeed: DefaultPlacementSeed,
	}

	trace := func() []pixel.Point {
		s := NewSpawner(cfg)
		grid := newGrid(t, 7, 7)
		var heads []pixel.Point
		var e Effect = s.Row()
		for i := 0; i < 200; i++ {
			if !e.Tick(grid) {
				e = s.Respawn(e)
			}
			heads = append(heads, e.(*Row).Head())
		}
		return heads
	}

	a, b := trace(), trace()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs diverged at tick %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRowDiesByCountdownWithTrailOnGrid(t *testing.T) {
	grid := newGrid(t, 7, 7)
	row, _ := NewRow(5, 3, 0, 7, 10)

	for tick := 1; tick < 10; tick++ {
		if !row.Tick(grid) {
			t.Fatalf("row died early at tick %d", tick)
		}
	}
	// head at 9, trail covers rows 3..9
	if c, _ := grid.At(3, 3); c == pixel.Black {
		t.Error("expected trail cells on the grid before death")
	}
	if row.Tick(grid) {
		t.Error("row should die when its countdown reaches zero")
	}

	s := NewSpawner(SpawnConfig{
		Width:         7,
		Height:        7,
		MotionSeed:    DefaultMotionSeed,
		PlacementSeed: DefaultPlacementSeed,
	})
	for i := range 100 {
		if life := s.Row().Lifetime(); life > 14 {
			t.Errorf("spawned row %d lifetime %d above cap 14", i, life)
		}
	}
}

func TestRespawnedRowDiffers(t *testing.T) {
	s := NewSpawner(SpawnConfig{
		Width:         7,
		Height:        7,
		MotionSeed:    DefaultMotionSeed,
		PlacementSeed: DefaultPlacementSeed,
	})
	grid := newGrid(t, 7, 7)

	for i := 0; i < 50; i++ {
		dead := s.Row()
		for dead.Tick(grid) {
		}
		next := s.Respawn(dead).(*Row)
		if next.X == dead.X {
			t.Errorf("respawn %d reused column %d", i, dead.X)
		}
		if next.Lifetime() == dead.Lifetime() {
			t.Errorf("respawn %d reused lifetime %d", i, dead.Lifetime())
		}
		if next.Lifetime() < 1 || next.Lifetime() > 14 {
			t.Errorf("respawn %d lifetime %d out of range", i, next.Lifetime())
		}
	}
}

func TestCircleAntiAliasedRing(t *testing.T) {
	const (
		w, h    = 11, 11
		growth  = 0.5
		feather = 1.5
	)
	c, err := NewCircle(pixel.Point{X: 5, Y: 5}, FixedFromFloat(growth), FixedFromFloat(feather), true)
	if err != nil {
		t.Fatalf("NewCircle: %v", err)
	}
	grid := newGrid(t, w, h)

	for tick := 0; tick < 10; tick++ {
		grid.Clear(pixel.Black)
		if !c.Tick(grid) {
			t.Fatalf("circle died at tick %d", tick)
		}
		radius := growth * float64(tick)
		for p, col := range grid.Pixels() {
			d := math.Hypot(float64(p.X-5), float64(p.Y-5))
			if col != pixel.Black && math.Abs(d-radius) > feather {
				t.Errorf("tick %d: cell %v at distance %.3f lit outside [%.2f, %.2f]",
					tick, p, d, radius-feather, radius+feather)
			}
			if col == pixel.Black && math.Abs(d-radius) < feather-0.01 {
				t.Errorf("tick %d: cell %v at distance %.3f inside ring but dark", tick, p, d)
			}
		}
	}
}

func TestCircleHardRing(t *testing.T) {
	c, _ := NewCircle(pixel.Point{X: 4, Y: 4}, FixedOne, 0, false)
	grid := newGrid(t, 9, 9)

	for tick := 0; tick < 5; tick++ {
		grid.Clear(pixel.Black)
		c.Tick(grid)
		for p, col := range grid.Pixels() {
			d := math.Hypot(float64(p.X-4), float64(p.Y-4))
			onRing := int(math.Round(d)) == tick
			if onRing != (col == pixel.White) {
				t.Errorf("tick %d: cell %v (d=%.3f) lit=%v, want %v", tick, p, d, col == pixel.White, onRing)
			}
		}
	}
}

func TestCirclePulseEnds(t *testing.T) {
	c, _ := NewCircle(pixel.Point{X: 0, Y: 0}, FixedOne, FixedOne, true)
	grid := newGrid(t, 4, 4)

	ticks := 0
	for c.Tick(grid) {
		ticks++
		if ticks > 100 {
			t.Fatal("circle never ended")
		}
	}
	// farthest corner is sqrt(18) ~ 4.24 away, ring ends once r - 1 passes it
	if ticks != 6 {
		t.Errorf("expected 6 live ticks, got %d", ticks)
	}
}

func TestChaserWraps(t *testing.T) {
	path := Serpentine(4, 3)
	c, err := NewChaser(path, 0)
	if err != nil {
		t.Fatalf("NewChaser: %v", err)
	}
	grid := newGrid(t, 4, 3)

	for tick := 0; tick < 3*len(path)+2; tick++ {
		grid.Clear(pixel.Black)
		if !c.Tick(grid) {
			t.Fatal("chaser died")
		}
		want := path[tick%len(path)]
		lit := 0
		for p, col := range grid.Pixels() {
			if col != pixel.Black {
				lit++
				if p != want {
					t.Errorf("tick %d: lit %v, want %v", tick, p, want)
				}
			}
		}
		if lit != 1 {
			t.Errorf("tick %d: expected 1 lit cell, got %d", tick, lit)
		}
	}
}

func TestChaserTail(t *testing.T) {
	c, _ := NewChaser(Perimeter(3, 3), 2)
	grid := newGrid(t, 3, 3)

	for i := 0; i < 3; i++ {
		grid.Clear(pixel.Black)
		c.Tick(grid)
	}
	head, _ := grid.At(2, 0)
	mid, _ := grid.At(1, 0)
	tail, _ := grid.At(0, 0)
	if head != pixel.White || mid.R <= tail.R || tail == pixel.Black {
		t.Errorf("expected fading tail, got head %v mid %v tail %v", head, mid, tail)
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		path Path
		n    int
		last pixel.Point
	}{
		{"serpentine", Serpentine(3, 2), 6, pixel.Point{X: 0, Y: 1}},
		{"perimeter", Perimeter(4, 3), 10, pixel.Point{X: 0, Y: 1}},
		{"perimeter strip", Perimeter(5, 1), 5, pixel.Point{X: 4, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.path) != tt.n {
				t.Fatalf("expected %d points, got %d", tt.n, len(tt.path))
			}
			if got := tt.path[len(tt.path)-1]; got != tt.last {
				t.Errorf("expected last point %v, got %v", tt.last, got)
			}
		})
	}

	if _, err := PathByName("zigzag", 2, 2); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got %v", err)
	}
}

func TestTextScrollWraps(t *testing.T) {
	tx, err := NewText(font.Tiny(), "HI", 10, 6, 2, 35)
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	grid := newGrid(t, 7, 7)

	prev := -1
	for tick := 0; tick < 2*35*2+4; tick++ {
		off := tx.Offset()
		want := (tick / 2) % 35
		if off != want {
			t.Fatalf("tick %d: offset %d, want %d", tick, off, want)
		}
		if off < prev && off != 0 {
			t.Fatalf("tick %d: offset went backwards from %d to %d", tick, prev, off)
		}
		prev = off
		grid.Clear(pixel.Black)
		tx.Tick(grid)
	}
}

func TestTextRasterizesAndClips(t *testing.T) {
	tx, _ := NewText(font.Tiny(), "T", -1, 4, 1, 100)
	grid := newGrid(t, 3, 5)
	tx.Tick(grid)

	// glyph T drawn at x=-1: its left column is clipped
	want := []string{"##.", "#..", "#..", "#..", "#.."}
	for y, row := range want {
		for x, ch := range row {
			c, _ := grid.At(x, y)
			if (c == pixel.Magenta) != (ch == '#') {
				t.Errorf("cell (%d,%d) = %v", x, y, c)
			}
		}
	}
}

func TestFixedRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0}, {0.49, 0}, {0.5, 1}, {2.5, 3}, {3.2, 3},
	}
	for _, tt := range tests {
		if got := FixedFromFloat(tt.in).Round(); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if d := distance(3, 4); d != FixedFromInt(5) {
		t.Errorf("distance(3,4) = %v, want 5", d.Float())
	}
}
