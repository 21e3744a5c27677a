package config

import "sort"

// Presets tweak DefaultConfig into named scenes.
var Presets = map[string]func(c *Config){
	"original": func(c *Config) {},
	"rain": func(c *Config) {
		c.Width, c.Height = 16, 16
		c.EffectCount = 10
		c.Palette = "matrix"
		c.Fade = 64
		c.Row.Height = 6
		c.Chaser.Enabled = false
		c.Text.Enabled = false
	},
	"fire": func(c *Config) {
		c.Width, c.Height = 16, 16
		c.EffectCount = 12
		c.Palette = "fire"
		c.Fade = 96
		c.Row.Height = 4
		c.Chaser.Enabled = false
		c.Text.Enabled = false
	},
	"pulse": func(c *Config) {
		c.Width, c.Height = 16, 16
		c.EffectCount = 0
		c.AntiAlias = true
		c.Palette = "ocean"
		c.Fade = 32
		c.Circle.Growth = 0.5
		c.Circle.Feather = 1.5
		c.Chaser.Enabled = false
		c.Text.Enabled = false
	},
	"marquee": func(c *Config) {
		c.Width, c.Height = 32, 8
		c.EffectCount = 0
		c.Chaser.Path = "perimeter"
		c.Chaser.Tail = 6
		c.Chaser.Color = "#00c8ff"
		c.Text.Content = "LEDSIM 2026"
		c.Text.StartX = 32
		c.Text.Baseline = 5
		c.Text.Divisor = 3
		c.Text.Period = 80
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
