package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/ledsim/internal/compositor"
	"github.com/san-kum/ledsim/internal/display/opc"
	"github.com/san-kum/ledsim/internal/effect"
	"github.com/san-kum/ledsim/internal/pixel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 7 || cfg.Height != 7 {
		t.Errorf("expected 7x7 grid, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Frames != 6000 {
		t.Errorf("expected 6000 frames, got %d", cfg.Frames)
	}
	if cfg.Seeds.Motion != [2]uint64{13, 19} || cfg.Seeds.Placement != [2]uint64{253, 17} {
		t.Errorf("unexpected default seeds %+v", cfg.Seeds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestBuild(t *testing.T) {
	g := NewWithT(t)
	cfg := DefaultConfig()
	cfg.Palette = "fire"
	cfg.Background = "#102030"

	out, err := cfg.Build()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out.Background).To(Equal(pixel.RGB{R: 0x10, G: 0x20, B: 0x30}))
	g.Expect(out.Palette).NotTo(BeNil())
	g.Expect(out.Growth).To(Equal(effect.FixedFromFloat(0.5)))
	g.Expect(out.Text.Color).To(Equal(pixel.Magenta))
	g.Expect(out.Text.Period).To(Equal(35))
	g.Expect(out.Chaser.Color).To(Equal(pixel.White))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		target error
	}{
		{"bad background", func(c *Config) { c.Background = "black" }, ErrInvalid},
		{"bad text color", func(c *Config) { c.Text.Color = "#12" }, ErrInvalid},
		{"unknown palette", func(c *Config) { c.Palette = "plaid" }, pixel.ErrUnknownPalette},
		{"negative fps", func(c *Config) { c.FPS = -1 }, ErrInvalid},
		{"spacing too wide", func(c *Config) { c.Display.Spacing = 30 }, ErrInvalid},
		{"unknown layout", func(c *Config) { c.Display.OPCLayout = "diagonal" }, ErrInvalid},
		{"zero width", func(c *Config) { c.Width = 0 }, compositor.ErrInvalidConfig},
		{"aa without feather", func(c *Config) { c.AntiAlias = true; c.Circle.Feather = 0 }, compositor.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "ledsim.yaml")

	cfg := GetPreset("pulse")
	g.Expect(Save(path, cfg)).To(Succeed())

	loaded, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loaded).To(Equal(cfg))
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := writeFile(path, "width: 12\nanti_alias: true\nseeds:\n  motion: [1, 2]\n"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 12 || !cfg.AntiAlias {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Height != DefaultHeight || cfg.Text.Period != 35 {
		t.Errorf("defaults lost: height=%d period=%d", cfg.Height, cfg.Text.Period)
	}
	if cfg.Seeds.Motion != [2]uint64{1, 2} || cfg.Seeds.Placement != effect.DefaultPlacementSeed {
		t.Errorf("unexpected seeds %+v", cfg.Seeds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("rain")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Palette != "matrix" || cfg.Width != 16 {
		t.Errorf("unexpected rain preset %+v", cfg)
	}

	cfg.Width = 99
	if GetPreset("rain").Width != 16 {
		t.Error("presets must not share state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestFontAndLayout(t *testing.T) {
	cfg := DefaultConfig()
	src, err := cfg.Font()
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	if src.Height() != 5 {
		t.Errorf("expected the 3x5 font, got height %d", src.Height())
	}

	cfg.Text.Font = "basic"
	if src, _ = cfg.Font(); src.Height() != 13 {
		t.Errorf("expected basicfont height 13, got %d", src.Height())
	}

	layout, err := cfg.OPCLayout()
	if err != nil || layout != opc.Serpentine {
		t.Errorf("expected serpentine layout, got %v %v", layout, err)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
