package compositor

import (
	"log/slog"

	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/effect"
	"github.com/san-kum/ledsim/internal/font"
	"github.com/san-kum/ledsim/internal/pixel"
)

type Compositor struct {
	cfg     Config
	sink    display.Sink
	buf     *pixel.Buffer
	spawner *effect.Spawner
	effects []effect.Effect
	font    font.Source
	log     *slog.Logger

	metrics   []Metric
	observers []Observer

	state   State
	frame   int
	repaint bool
}

type Option func(*Compositor)

// WithEffects replaces the default effect collection. Entries draw in order.
func WithEffects(effects ...effect.Effect) Option {
	return func(c *Compositor) { c.effects = append([]effect.Effect{}, effects...) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Compositor) { c.log = l }
}

func WithObserver(o Observer) Option {
	return func(c *Compositor) { c.observers = append(c.observers, o) }
}

func WithMetric(m Metric) Option {
	return func(c *Compositor) { c.metrics = append(c.metrics, m) }
}

// WithFont sets the font of the default text effect. The built-in 3x5
// font is used otherwise.
func WithFont(src font.Source) Option {
	return func(c *Compositor) { c.font = src }
}

// New validates cfg and returns a running compositor whose first frame
// will be a full repaint.
func New(cfg Config, sink display.Sink, opts ...Option) (*Compositor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, &ConfigError{Field: "sink", Value: nil, Reason: "required"}
	}

	buf, err := pixel.NewBuffer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, &ConfigError{Field: "size", Value: [2]int{cfg.Width, cfg.Height}, Reason: err.Error()}
	}
	buf.Clear(cfg.Background)

	c := &Compositor{
		cfg:     cfg,
		sink:    sink,
		buf:     buf,
		spawner: effect.NewSpawner(cfg.spawnConfig()),
		font:    font.Tiny(),
		log:     slog.Default(),
		repaint: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.effects == nil {
		if c.effects, err = c.defaultEffects(); err != nil {
			return nil, err
		}
	}
	for _, m := range c.metrics {
		m.Reset()
	}

	c.log.Debug("compositor ready",
		"width", cfg.Width, "height", cfg.Height,
		"effects", len(c.effects), "frames", cfg.Frames)
	return c, nil
}

func (c *Compositor) defaultEffects() ([]effect.Effect, error) {
	effects := make([]effect.Effect, 0, c.cfg.EffectCount+3)
	effects = append(effects, c.spawner.Circle())
	for i := 0; i < c.cfg.EffectCount; i++ {
		effects = append(effects, c.spawner.Row())
	}

	if ch := c.cfg.Chaser; ch.Enabled {
		path, err := effect.PathByName(ch.Path, c.cfg.Width, c.cfg.Height)
		if err != nil {
			return nil, &ConfigError{Field: "chaser.path", Value: ch.Path, Reason: err.Error()}
		}
		chaser, err := effect.NewChaser(path, ch.Tail)
		if err != nil {
			return nil, &ConfigError{Field: "chaser", Value: ch.Tail, Reason: err.Error()}
		}
		if ch.Color != (pixel.RGB{}) {
			chaser.Color = ch.Color
		}
		effects = append(effects, chaser)
	}

	if tc := c.cfg.Text; tc.Enabled {
		text, err := effect.NewText(c.font, tc.Content, tc.StartX, tc.Baseline, tc.Divisor, tc.Period)
		if err != nil {
			return nil, &ConfigError{Field: "text", Value: tc.Content, Reason: err.Error()}
		}
		if tc.Color != (pixel.RGB{}) {
			text.Color = tc.Color
		}
		effects = append(effects, text)
	}
	return effects, nil
}

func (c *Compositor) AddMetric(m Metric)     { c.metrics = append(c.metrics, m) }
func (c *Compositor) AddObserver(o Observer) { c.observers = append(c.observers, o) }

func (c *Compositor) Metrics() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (c *Compositor) State() State     { return c.state }
func (c *Compositor) Terminated() bool { return c.state == Terminated }
func (c *Compositor) Config() Config   { return c.cfg }
func (c *Compositor) Size() (int, int) { return c.cfg.Width, c.cfg.Height }

// Frame is the number of frames rendered so far.
func (c *Compositor) Frame() int { return c.frame }

// Effects lists the kinds of the live collection in draw order.
func (c *Compositor) Effects() []effect.Kind {
	kinds := make([]effect.Kind, len(c.effects))
	for i, e := range c.effects {
		kinds[i] = e.Kind()
	}
	return kinds
}

// Snapshot returns the most recently rendered frame.
func (c *Compositor) Snapshot() pixel.Frame { return c.buf.Snapshot() }

// Stop terminates the compositor and releases its effects. Stopping a
// terminated compositor does nothing.
func (c *Compositor) Stop() {
	if c.state == Terminated {
		return
	}
	c.terminate("stopped")
}

func (c *Compositor) terminate(reason string) {
	c.state = Terminated
	c.effects = nil
	c.log.Debug("compositor terminated", "reason", reason, "frame", c.frame)
}

// OnFrame renders and flushes one frame. A *SinkError reports a display
// failure; the animation has still advanced and the next frame is
// repainted in full. Once terminated, OnFrame returns a *LifecycleError.
func (c *Compositor) OnFrame() error {
	if c.state == Terminated {
		return &LifecycleError{Op: "OnFrame", State: c.state, Err: ErrTerminated}
	}

	if c.cfg.Fade > 0 {
		c.buf.FadeTo(c.cfg.Background, c.cfg.Fade)
	} else {
		c.buf.Clear(c.cfg.Background)
	}

	respawned := 0
	for i, e := range c.effects {
		if e.Tick(c.buf) {
			continue
		}
		c.effects[i] = c.spawner.Respawn(e)
		respawned++
		c.log.Debug("effect respawned", "kind", e.Kind(), "frame", c.frame, "slot", i)
	}

	stats := c.flush()
	stats.Respawned = respawned

	var err error
	if stats.Err != nil {
		err = stats.Err
		c.log.Warn("sink failure", "frame", c.frame, "err", stats.Err)
	}

	c.frame++
	for _, m := range c.metrics {
		m.Observe(stats)
	}
	for _, o := range c.observers {
		o.OnFrame(stats)
	}

	if c.cfg.Frames > 0 && c.frame >= c.cfg.Frames {
		c.terminate("frame budget exhausted")
	}
	return err
}

func (c *Compositor) flush() FrameStats {
	stats := FrameStats{Frame: c.frame, Full: c.repaint || c.cfg.FullRepaint}
	diff := c.buf.Diff()
	stats.Changed = len(diff)

	fail := func(op display.Op, err error) FrameStats {
		stats.Err = &SinkError{Op: op, Frame: c.frame, Err: err}
		c.repaint = true
		c.buf.Invalidate()
		return stats
	}

	if stats.Full {
		if err := c.sink.Clear(c.cfg.Background); err != nil {
			return fail(display.OpClear, err)
		}
		if err := c.sink.DrawPixels(c.buf.Snapshot().Pixels()); err != nil {
			return fail(display.OpDraw, err)
		}
		stats.Sent = c.cfg.Width * c.cfg.Height
	} else if len(diff) > 0 {
		if err := c.sink.DrawPixels(pixel.Seq(diff)); err != nil {
			return fail(display.OpDraw, err)
		}
		stats.Sent = len(diff)
	}

	if err := c.sink.Flush(); err != nil {
		return fail(display.OpFlush, err)
	}
	c.buf.Commit()
	c.repaint = false
	return stats
}
