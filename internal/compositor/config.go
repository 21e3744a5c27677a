package compositor

import (
	"github.com/san-kum/ledsim/internal/effect"
	"github.com/san-kum/ledsim/internal/pixel"
)

type ChaserConfig struct {
	Enabled bool
	Path    string // "serpentine" or "perimeter"
	Tail    int
	Color   pixel.RGB
}

type TextConfig struct {
	Enabled  bool
	Content  string
	StartX   int
	Baseline int
	Divisor  int
	Period   int
	Color    pixel.RGB
}

type Config struct {
	Width       int
	Height      int
	EffectCount int // number of rows in the default collection
	AntiAlias   bool

	// Frames is the frame budget; 0 runs until Stop.
	Frames int
	// Fade > 0 fades the previous frame toward Background instead of
	// clearing it.
	Fade       uint8
	Background pixel.RGB
	// FullRepaint sends every cell on every frame.
	FullRepaint bool

	MotionSeed    [2]uint64
	PlacementSeed [2]uint64
	Palette       *pixel.Palette

	RowHeight int // 0 means the grid height
	Growth    effect.Fixed
	Feather   effect.Fixed

	Chaser ChaserConfig
	Text   TextConfig
}

// DefaultConfig is a 7×7 grid with two rows, a hard-edged pulse, a chaser
// and a scrolling banner.
func DefaultConfig() Config {
	return Config{
		Width:         7,
		Height:        7,
		EffectCount:   2,
		Frames:        6000,
		Background:    pixel.Black,
		MotionSeed:    effect.DefaultMotionSeed,
		PlacementSeed: effect.DefaultPlacementSeed,
		Growth:        effect.FixedFromFloat(0.5),
		Feather:       effect.FixedOne,
		Chaser: ChaserConfig{
			Enabled: true,
			Path:    "serpentine",
			Color:   pixel.White,
		},
		Text: TextConfig{
			Enabled:  true,
			Content:  "CHR ",
			StartX:   10,
			Baseline: 6,
			Divisor:  2,
			Period:   35,
			Color:    pixel.Magenta,
		},
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Width > pixel.MaxDimension:
		return &ConfigError{Field: "width", Value: c.Width, Reason: "must be in [1, 4096]"}
	case c.Height < 1 || c.Height > pixel.MaxDimension:
		return &ConfigError{Field: "height", Value: c.Height, Reason: "must be in [1, 4096]"}
	case c.EffectCount < 0:
		return &ConfigError{Field: "effect_count", Value: c.EffectCount, Reason: "must not be negative"}
	case c.Frames < 0:
		return &ConfigError{Field: "frames", Value: c.Frames, Reason: "must not be negative"}
	case c.RowHeight < 0:
		return &ConfigError{Field: "row_height", Value: c.RowHeight, Reason: "must not be negative"}
	case c.Growth <= 0:
		return &ConfigError{Field: "growth", Value: c.Growth.Float(), Reason: "must be positive"}
	case c.AntiAlias && c.Feather <= 0:
		return &ConfigError{Field: "feather", Value: c.Feather.Float(), Reason: "must be positive with anti-aliasing"}
	}
	if c.Chaser.Enabled {
		if c.Chaser.Tail < 0 {
			return &ConfigError{Field: "chaser.tail", Value: c.Chaser.Tail, Reason: "must not be negative"}
		}
		if _, err := effect.PathByName(c.Chaser.Path, 1, 1); err != nil {
			return &ConfigError{Field: "chaser.path", Value: c.Chaser.Path, Reason: "unknown path"}
		}
	}
	if c.Text.Enabled {
		if c.Text.Divisor < 1 {
			return &ConfigError{Field: "text.divisor", Value: c.Text.Divisor, Reason: "must be at least 1"}
		}
		if c.Text.Period < 1 {
			return &ConfigError{Field: "text.period", Value: c.Text.Period, Reason: "must be at least 1"}
		}
	}
	return nil
}

func (c Config) spawnConfig() effect.SpawnConfig {
	return effect.SpawnConfig{
		Width:         c.Width,
		Height:        c.Height,
		RowHeight:     c.RowHeight,
		MotionSeed:    c.MotionSeed,
		PlacementSeed: c.PlacementSeed,
		Palette:       c.Palette,
		Growth:        c.Growth,
		Feather:       c.Feather,
		AntiAlias:     c.AntiAlias,
	}
}
