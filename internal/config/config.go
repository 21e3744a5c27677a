package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ledsim/internal/compositor"
	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/display/opc"
	"github.com/san-kum/ledsim/internal/effect"
	"github.com/san-kum/ledsim/internal/font"
	"github.com/san-kum/ledsim/internal/pixel"
)

const (
	DefaultWidth       = 7
	DefaultHeight      = 7
	DefaultEffectCount = 2
	DefaultFrames      = 6000
	DefaultFPS         = 30.0
	DefaultGrowth      = 0.5
	DefaultFeather     = 1.0
	DefaultOPCAddr     = "127.0.0.1:7890"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	EffectCount int           `yaml:"effect_count"`
	AntiAlias   bool          `yaml:"anti_alias"`
	Frames      int           `yaml:"frames"`
	FPS         float64       `yaml:"fps"`
	Fade        uint8         `yaml:"fade"`
	Background  string        `yaml:"background"`
	Palette     string        `yaml:"palette"`
	FullRepaint bool          `yaml:"full_repaint"`
	Seeds       SeedConfig    `yaml:"seeds"`
	Row         RowConfig     `yaml:"row"`
	Circle      CircleConfig  `yaml:"circle"`
	Chaser      ChaserConfig  `yaml:"chaser"`
	Text        TextConfig    `yaml:"text"`
	Display     DisplayConfig `yaml:"display"`
}

type SeedConfig struct {
	Motion    [2]uint64 `yaml:"motion,flow"`
	Placement [2]uint64 `yaml:"placement,flow"`
}

type RowConfig struct {
	Height int `yaml:"height"`
}

type CircleConfig struct {
	Growth  float64 `yaml:"growth"`
	Feather float64 `yaml:"feather"`
}

type ChaserConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Tail    int    `yaml:"tail"`
	Color   string `yaml:"color"`
}

type TextConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Content  string `yaml:"content"`
	Font     string `yaml:"font"`
	StartX   int    `yaml:"start_x"`
	Baseline int    `yaml:"baseline"`
	Divisor  int    `yaml:"divisor"`
	Period   int    `yaml:"period"`
	Color    string `yaml:"color"`
}

type DisplayConfig struct {
	Scale      int    `yaml:"scale"`
	Spacing    int    `yaml:"spacing"`
	Theme      string `yaml:"theme"`
	OPCAddr    string `yaml:"opc_addr"`
	OPCChannel uint8  `yaml:"opc_channel"`
	OPCLayout  string `yaml:"opc_layout"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		EffectCount: DefaultEffectCount,
		Frames:      DefaultFrames,
		FPS:         DefaultFPS,
		Background:  "#000000",
		Seeds: SeedConfig{
			Motion:    effect.DefaultMotionSeed,
			Placement: effect.DefaultPlacementSeed,
		},
		Circle: CircleConfig{
			Growth:  DefaultGrowth,
			Feather: DefaultFeather,
		},
		Chaser: ChaserConfig{
			Enabled: true,
			Path:    "serpentine",
			Color:   "#ffffff",
		},
		Text: TextConfig{
			Enabled:  true,
			Content:  "CHR ",
			Font:     "tiny",
			StartX:   10,
			Baseline: 6,
			Divisor:  2,
			Period:   35,
			Color:    "#ff00ff",
		},
		Display: DisplayConfig{
			Scale:     display.DefaultGeometry.Scale,
			Spacing:   display.DefaultGeometry.Spacing,
			Theme:     "minimal",
			OPCAddr:   DefaultOPCAddr,
			OPCLayout: "serpentine",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first problem Build would hit.
func (c *Config) Validate() error {
	_, err := c.Build()
	return err
}

func parseColor(field, s string) (pixel.RGB, error) {
	col, err := pixel.ParseHex(s)
	if err != nil {
		return pixel.RGB{}, fmt.Errorf("%w: %s: %w", ErrInvalid, field, err)
	}
	return col, nil
}

// Build converts the file representation into a compositor configuration.
func (c *Config) Build() (compositor.Config, error) {
	out := compositor.Config{
		Width:         c.Width,
		Height:        c.Height,
		EffectCount:   c.EffectCount,
		AntiAlias:     c.AntiAlias,
		Frames:        c.Frames,
		Fade:          c.Fade,
		FullRepaint:   c.FullRepaint,
		MotionSeed:    c.Seeds.Motion,
		PlacementSeed: c.Seeds.Placement,
		RowHeight:     c.Row.Height,
		Growth:        effect.FixedFromFloat(c.Circle.Growth),
		Feather:       effect.FixedFromFloat(c.Circle.Feather),
		Chaser: compositor.ChaserConfig{
			Enabled: c.Chaser.Enabled,
			Path:    c.Chaser.Path,
			Tail:    c.Chaser.Tail,
		},
		Text: compositor.TextConfig{
			Enabled:  c.Text.Enabled,
			Content:  c.Text.Content,
			StartX:   c.Text.StartX,
			Baseline: c.Text.Baseline,
			Divisor:  c.Text.Divisor,
			Period:   c.Text.Period,
		},
	}

	var err error
	if out.Background, err = parseColor("background", c.Background); err != nil {
		return out, err
	}
	if c.Chaser.Color != "" {
		if out.Chaser.Color, err = parseColor("chaser.color", c.Chaser.Color); err != nil {
			return out, err
		}
	}
	if c.Text.Color != "" {
		if out.Text.Color, err = parseColor("text.color", c.Text.Color); err != nil {
			return out, err
		}
	}
	if c.Palette != "" {
		if out.Palette, err = pixel.NamedPalette(c.Palette); err != nil {
			return out, fmt.Errorf("%w: palette: %w", ErrInvalid, err)
		}
	}
	if c.FPS < 0 {
		return out, fmt.Errorf("%w: fps %v must not be negative", ErrInvalid, c.FPS)
	}
	if c.Display.Scale < 1 || c.Display.Spacing < 0 || c.Display.Spacing >= c.Display.Scale {
		return out, fmt.Errorf("%w: display scale %d spacing %d", ErrInvalid, c.Display.Scale, c.Display.Spacing)
	}
	if _, err := c.OPCLayout(); err != nil {
		return out, err
	}
	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

// Font resolves the text font: "tiny", "basic" or a path to a BDF file.
func (c *Config) Font() (font.Source, error) {
	name := c.Text.Font
	if name == "" {
		name = "tiny"
	}
	return font.Named(name)
}

func (c *Config) Geometry() display.Geometry {
	return display.Geometry{Scale: c.Display.Scale, Spacing: c.Display.Spacing}
}

func (c *Config) OPCLayout() (opc.Layout, error) {
	switch c.Display.OPCLayout {
	case "", "serpentine":
		return opc.Serpentine, nil
	case "progressive":
		return opc.Progressive, nil
	}
	return 0, fmt.Errorf("%w: opc_layout %q", ErrInvalid, c.Display.OPCLayout)
}
