package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		t.Errorf("expected positive screen dimensions, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Surface.Topology != TopologyFlat {
		t.Errorf("expected default topology flat, got %q", cfg.Surface.Topology)
	}
	if cfg.Shower.Density <= 0 {
		t.Errorf("expected positive shower density, got %f", cfg.Shower.Density)
	}
	if cfg.Shower.MaxDroplets <= 0 {
		t.Errorf("expected positive droplet cap, got %d", cfg.Shower.MaxDroplets)
	}
	if cfg.Deposit.SaturationCap <= 0 {
		t.Errorf("expected positive saturation cap, got %f", cfg.Deposit.SaturationCap)
	}
	if cfg.Diffusion.Drain.Strategy != DrainAuto {
		t.Errorf("expected default drain strategy auto, got %q", cfg.Diffusion.Drain.Strategy)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := []byte("surface:\n  topology: corner\nshower:\n  density: 5.0\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatalf("writing override file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) failed: %v", path, err)
	}

	if cfg.Surface.Topology != TopologyCorner {
		t.Errorf("expected topology corner from override, got %q", cfg.Surface.Topology)
	}
	if cfg.Shower.Density != 5.0 {
		t.Errorf("expected density 5.0 from override, got %f", cfg.Shower.Density)
	}
	// Keys absent from the override keep their defaults.
	if cfg.Shower.MaxDroplets <= 0 {
		t.Errorf("expected default droplet cap to survive merge, got %d", cfg.Shower.MaxDroplets)
	}
	if cfg.Evaporation.BaseRate <= 0 {
		t.Errorf("expected default evaporation rate to survive merge, got %f", cfg.Evaporation.BaseRate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestComputeDerivedNormalizes(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	cfg.Screen.Scale = 0
	cfg.Surface.Topology = "sphere"
	cfg.Surface.CornerLine = 1.4
	cfg.Shower.RadiusMin = 9
	cfg.Shower.RadiusMax = 2
	cfg.Shower.Wall.SpawnWeight = 1.7
	cfg.Deposit.SaturationCap = -1
	cfg.Diffusion.BaseFrac = 0.8
	cfg.Diffusion.VarFrac = 0.8
	cfg.computeDerived()

	if cfg.Screen.Scale != 1 {
		t.Errorf("expected scale clamped to 1, got %d", cfg.Screen.Scale)
	}
	if cfg.Surface.Topology != TopologyFlat {
		t.Errorf("expected unknown topology to fall back to flat, got %q", cfg.Surface.Topology)
	}
	if cfg.Surface.CornerLine > 0.95 {
		t.Errorf("expected corner line clamped, got %f", cfg.Surface.CornerLine)
	}
	if cfg.Shower.RadiusMin > cfg.Shower.RadiusMax {
		t.Errorf("expected radius range ordered, got [%f, %f]", cfg.Shower.RadiusMin, cfg.Shower.RadiusMax)
	}
	if cfg.Shower.Wall.SpawnWeight > 1 {
		t.Errorf("expected spawn weight clamped to 1, got %f", cfg.Shower.Wall.SpawnWeight)
	}
	if cfg.Deposit.SaturationCap <= 0 {
		t.Errorf("expected saturation cap forced positive, got %f", cfg.Deposit.SaturationCap)
	}
	if cfg.Diffusion.BaseFrac+cfg.Diffusion.VarFrac > 1 {
		t.Errorf("expected diffusion fractions to sum below 1, got %f + %f",
			cfg.Diffusion.BaseFrac, cfg.Diffusion.VarFrac)
	}
}

func TestDrainDirectionNormalized(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	cfg.Diffusion.Drain.Strategy = DrainDirection
	cfg.Diffusion.Drain.DirX = 3
	cfg.Diffusion.Drain.DirY = 4
	cfg.computeDerived()

	if cfg.Derived.DrainDirX < 0.59 || cfg.Derived.DrainDirX > 0.61 {
		t.Errorf("expected normalized dir x ~0.6, got %f", cfg.Derived.DrainDirX)
	}
	if cfg.Derived.DrainDirY < 0.79 || cfg.Derived.DrainDirY > 0.81 {
		t.Errorf("expected normalized dir y ~0.8, got %f", cfg.Derived.DrainDirY)
	}

	cfg.Diffusion.Drain.DirX = 0
	cfg.Diffusion.Drain.DirY = 0
	cfg.Diffusion.Drain.Strategy = DrainDirection
	cfg.computeDerived()
	if cfg.Diffusion.Drain.Strategy != DrainNone {
		t.Errorf("expected zero direction to disable the bias, got %q", cfg.Diffusion.Drain.Strategy)
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init(\"\") failed: %v", err)
	}
	if Cfg() == nil {
		t.Fatal("Cfg() returned nil after Init")
	}
}
