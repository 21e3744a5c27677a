package compositor

import (
	"errors"
	"iter"
	"testing"

	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/effect"
	"github.com/san-kum/ledsim/internal/pixel"
)

func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.Frames = 0
	cfg.Chaser.Enabled = false
	cfg.Text.Enabled = false
	return cfg
}

func scenarioRow(t *testing.T) *effect.Row {
	t.Helper()
	row, err := effect.NewRow(5, 3, 0, 4, 10)
	if err != nil {
		t.Fatalf("NewRow: %v", err)
	}
	return row
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"negative height", func(c *Config) { c.Height = -1 }, "height"},
		{"oversized width", func(c *Config) { c.Width = pixel.MaxDimension + 1 }, "width"},
		{"negative effect count", func(c *Config) { c.EffectCount = -1 }, "effect_count"},
		{"negative frames", func(c *Config) { c.Frames = -5 }, "frames"},
		{"zero growth", func(c *Config) { c.Growth = 0 }, "growth"},
		{"aa without feather", func(c *Config) { c.AntiAlias = true; c.Feather = 0 }, "feather"},
		{"bad chaser path", func(c *Config) { c.Chaser.Path = "spiral" }, "chaser.path"},
		{"zero divisor", func(c *Config) { c.Text.Divisor = 0 }, "text.divisor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			_, err := New(cfg, display.Discard)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("ConfigError should match ErrInvalidConfig")
			}
		})
	}
}

func TestNewRequiresSink(t *testing.T) {
	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDefaultCollection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EffectCount = 3

	c, err := New(cfg, display.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []effect.Kind{
		effect.KindCircle, effect.KindRow, effect.KindRow, effect.KindRow,
		effect.KindChaser, effect.KindText,
	}
	got := c.Effects()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRowScenario(t *testing.T) {
	sink := display.NewMemory(7, 7, true)
	c, err := New(scenarioConfig(), sink, WithEffects(scenarioRow(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := c.OnFrame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	frames := sink.Frames()
	if len(frames) != 3 {
		t.Fatalf("expected 3 flushed frames, got %d", len(frames))
	}
	if !frames[0].Cleared || len(frames[0].Drawn) != 49 {
		t.Errorf("first frame should be a full repaint, got cleared=%v drawn=%d",
			frames[0].Cleared, len(frames[0].Drawn))
	}
	if frames[2].Cleared || len(frames[2].Drawn) != 4 {
		t.Errorf("third frame should send 4 changed cells, got cleared=%v drawn=%d",
			frames[2].Cleared, len(frames[2].Drawn))
	}

	want := map[int]uint8{3: 255, 2: 191, 1: 127, 0: 63}
	for p, col := range frames[2].Frame.Pixels() {
		expected := pixel.Black
		if level, ok := want[p.Y]; ok && p.X == 3 {
			expected = pixel.Scale(pixel.White, level)
		}
		if col != expected {
			t.Errorf("cell %v: expected %v, got %v", p, expected, col)
		}
	}
}

func TestRowScenarioRespawn(t *testing.T) {
	var stats []FrameStats
	row := scenarioRow(t)
	c, _ := New(scenarioConfig(), display.Discard,
		WithEffects(row),
		WithObserver(ObserverFunc(func(s FrameStats) { stats = append(stats, s) })))

	for i := 0; i < 10; i++ {
		if err := c.OnFrame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	for i, s := range stats[:9] {
		if s.Respawned != 0 {
			t.Errorf("frame %d: unexpected respawn", i)
		}
	}
	if stats[9].Respawned != 1 {
		t.Fatalf("expected the row to be replaced on its 10th tick, got %d respawns", stats[9].Respawned)
	}
	if c.Effects()[0] != effect.KindRow {
		t.Errorf("replacement should be a row, got %s", c.Effects()[0])
	}
}

func TestSinkFailureForcesRepaint(t *testing.T) {
	for _, op := range []display.Op{display.OpDraw, display.OpFlush} {
		t.Run(string(op), func(t *testing.T) {
			sink := display.NewMemory(7, 7, true)
			sink.FailOn(1, op)
			c, _ := New(scenarioConfig(), sink, WithEffects(scenarioRow(t)))

			if err := c.OnFrame(); err != nil {
				t.Fatalf("frame 0: %v", err)
			}

			err := c.OnFrame()
			var sinkErr *SinkError
			if !errors.As(err, &sinkErr) {
				t.Fatalf("expected *SinkError, got %v", err)
			}
			if sinkErr.Op != op || sinkErr.Frame != 1 {
				t.Errorf("unexpected error details: %+v", sinkErr)
			}
			if !errors.Is(err, display.ErrInjected) {
				t.Error("SinkError should unwrap to the sink error")
			}
			if c.Frame() != 2 {
				t.Errorf("animation should advance despite failure, frame=%d", c.Frame())
			}

			if err := c.OnFrame(); err != nil {
				t.Fatalf("frame 2: %v", err)
			}
			last, _ := sink.Last()
			if !last.Cleared || len(last.Drawn) != 49 {
				t.Errorf("frame after failure should repaint fully, cleared=%v drawn=%d",
					last.Cleared, len(last.Drawn))
			}
			if !last.Frame.Equal(c.Snapshot()) {
				t.Error("sink surface diverged from buffer after repaint")
			}
		})
	}
}

func TestStaticSceneSendsNothing(t *testing.T) {
	sink := display.NewMemory(4, 4, true)
	cfg := scenarioConfig()
	cfg.Width, cfg.Height = 4, 4
	c, _ := New(cfg, sink, WithEffects())

	for i := 0; i < 3; i++ {
		_ = c.OnFrame()
	}
	for i, f := range sink.Frames()[1:] {
		if f.Cleared || len(f.Drawn) != 0 {
			t.Errorf("frame %d: expected no traffic, got cleared=%v drawn=%d", i+1, f.Cleared, len(f.Drawn))
		}
	}
}

func TestFullRepaintMode(t *testing.T) {
	sink := display.NewMemory(4, 4, true)
	cfg := scenarioConfig()
	cfg.Width, cfg.Height = 4, 4
	cfg.FullRepaint = true
	c, _ := New(cfg, sink, WithEffects())

	for i := 0; i < 3; i++ {
		_ = c.OnFrame()
	}
	for i, f := range sink.Frames() {
		if !f.Cleared || len(f.Drawn) != 16 {
			t.Errorf("frame %d: expected full repaint", i)
		}
	}
}

func TestFadeLeavesTrail(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Fade = 128
	chaser, _ := effect.NewChaser(effect.Serpentine(7, 7), 0)
	c, _ := New(cfg, display.Discard, WithEffects(chaser))

	_ = c.OnFrame()
	_ = c.OnFrame()

	snap := c.Snapshot()
	if got := snap.At(1, 0); got != pixel.White {
		t.Errorf("head should be white, got %v", got)
	}
	if got := snap.At(0, 0); got != (pixel.RGB{R: 127, G: 127, B: 127}) {
		t.Errorf("previous head should be half faded, got %v", got)
	}
}

func TestFrameBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frames = 3
	c, _ := New(cfg, display.Discard)

	for i := 0; i < 3; i++ {
		if c.Terminated() {
			t.Fatalf("terminated early at frame %d", i)
		}
		if err := c.OnFrame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if c.State() != Terminated {
		t.Fatalf("expected terminated after budget, got %s", c.State())
	}
	if len(c.Effects()) != 0 {
		t.Error("terminated compositor should release its effects")
	}

	err := c.OnFrame()
	var lifeErr *LifecycleError
	if !errors.As(err, &lifeErr) || !errors.Is(err, ErrTerminated) {
		t.Fatalf("expected LifecycleError wrapping ErrTerminated, got %v", err)
	}
	if c.Frame() != 3 {
		t.Errorf("frame counter moved after termination: %d", c.Frame())
	}
}

func TestDeterministicRuns(t *testing.T) {
	run := func() []pixel.Frame {
		sink := display.NewMemory(7, 7, true)
		cfg := DefaultConfig()
		cfg.Frames = 300
		cfg.EffectCount = 4
		c, err := New(cfg, sink)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for !c.Terminated() {
			if err := c.OnFrame(); err != nil {
				t.Fatalf("OnFrame: %v", err)
			}
		}
		var out []pixel.Frame
		for _, f := range sink.Frames() {
			out = append(out, f.Frame)
		}
		return out
	}

	a, b := run(), run()
	if len(a) != 300 || len(b) != 300 {
		t.Fatalf("expected 300 frames, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("runs diverged at frame %d", i)
		}
	}
}

// keepSink holds on to every sequence it is handed.
type keepSink struct {
	draws []iter.Seq2[pixel.Point, pixel.RGB]
}

func (s *keepSink) Clear(pixel.RGB) error { return nil }
func (s *keepSink) Flush() error          { return nil }
func (s *keepSink) DrawPixels(px iter.Seq2[pixel.Point, pixel.RGB]) error {
	s.draws = append(s.draws, px)
	return nil
}

func TestRepaintHandsSinkASnapshot(t *testing.T) {
	for _, full := range []bool{true, false} {
		cfg := scenarioConfig()
		cfg.FullRepaint = full
		sink := &keepSink{}
		c, _ := New(cfg, sink, WithEffects(scenarioRow(t)))

		_ = c.OnFrame()
		first := c.Snapshot()
		for range 3 {
			_ = c.OnFrame()
		}

		if len(sink.draws) == 0 {
			t.Fatalf("full=%v: nothing drawn", full)
		}
		for p, col := range sink.draws[0] {
			if want := first.At(p.X, p.Y); col != want {
				t.Errorf("full=%v: kept cell %v = %v, frame 0 had %v", full, p, col, want)
			}
		}
	}
}

type countMetric struct {
	frames int
}

func (m *countMetric) Name() string       { return "frames" }
func (m *countMetric) Observe(FrameStats) { m.frames++ }
func (m *countMetric) Value() float64     { return float64(m.frames) }
func (m *countMetric) Reset()             { m.frames = 0 }

func TestMetrics(t *testing.T) {
	m := &countMetric{frames: 42}
	c, _ := New(scenarioConfig(), display.Discard, WithMetric(m))

	for i := 0; i < 5; i++ {
		_ = c.OnFrame()
	}
	if got := c.Metrics()["frames"]; got != 5 {
		t.Errorf("expected 5 observed frames, got %v", got)
	}
}
