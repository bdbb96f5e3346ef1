package sim

import (
	"math"
	"math/rand"
	"testing"

	"seep/config"
)

func flatShower(t *testing.T, cfg *config.Config, w, h int) (*Shower, *Field) {
	t.Helper()
	f := NewField(w, h, float32(cfg.Deposit.SaturationCap))
	dep := NewDepositor(f, uniformAbsorption(w, h, 1), cfg)
	return NewShower(f, dep, cfg, rand.New(rand.NewSource(42))), f
}

func TestSpawnRateFidelity(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 10
	cfg.Shower.RampSeconds = 0 // full intensity at once
	cfg.Shower.MaxDroplets = 100000

	s, _ := flatShower(t, cfg, 64, 64)
	const dt = float32(1.0 / 60.0)
	const ticks = 600
	for i := 0; i < ticks; i++ {
		s.Step(dt)
	}

	want := float64(10) * float64(dt) * ticks
	got := float64(s.Spawned)
	if math.Abs(got-want) > 1 {
		t.Errorf("spawned %v droplets over %d ticks, want %v within one", got, ticks, want)
	}
}

func TestDropletCapHolds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 5000
	cfg.Shower.RampSeconds = 0
	cfg.Shower.MaxDroplets = 50

	s, _ := flatShower(t, cfg, 64, 64)
	for i := 0; i < 300; i++ {
		s.Step(1.0 / 60.0)
		if got := s.Live(); got > 50 {
			t.Fatalf("live droplets %d exceed the cap on tick %d", got, i)
		}
	}
}

func TestIntensityRampMonotonic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.RampSeconds = 2

	s, _ := flatShower(t, cfg, 32, 32)
	prev := s.Intensity
	for i := 0; i < 200; i++ {
		s.Step(1.0 / 60.0)
		if s.Intensity < prev {
			t.Fatalf("intensity dropped from %f to %f", prev, s.Intensity)
		}
		if s.Intensity > 1 {
			t.Fatalf("intensity exceeded 1: %f", s.Intensity)
		}
		prev = s.Intensity
	}
	if s.Intensity != 1 {
		t.Errorf("intensity should saturate at 1 after the ramp, got %f", s.Intensity)
	}
}

func TestRainOffRampsDown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.RampSeconds = 1
	cfg.Shower.Density = 0

	s, _ := flatShower(t, cfg, 32, 32)
	for i := 0; i < 120; i++ {
		s.Step(1.0 / 60.0)
	}
	if s.Intensity != 1 {
		t.Fatalf("intensity should reach 1 before the toggle, got %f", s.Intensity)
	}

	s.SetRaining(false)
	prev := s.Intensity
	for i := 0; i < 120; i++ {
		s.Step(1.0 / 60.0)
		if s.Intensity > prev {
			t.Fatalf("intensity rose from %f to %f with the rain off", prev, s.Intensity)
		}
		prev = s.Intensity
	}
	if s.Intensity != 0 {
		t.Errorf("intensity should ramp back to 0, got %f", s.Intensity)
	}
}

func TestFallingImpactDepositsAndFlashes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 0 // drive one droplet by hand

	s, f := flatShower(t, cfg, 64, 64)
	d := s.pool.acquire()
	d.State = StateFalling
	d.X = 32
	d.Y = 30
	d.VY = 100
	d.Radius = 3
	d.Strength = 0.8
	d.Life = 1 // impact on the first step

	s.Step(0.1)

	if s.Live() != 0 {
		t.Fatalf("droplet should retire on impact, %d still live", s.Live())
	}
	if f.Total() <= 0 {
		t.Error("impact should deposit moisture")
	}
	if s.Flashes.Count() != 1 {
		t.Errorf("impact should spawn one flash, got %d", s.Flashes.Count())
	}
}

func TestFallingDriftOutRetiresSilently(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 0
	cfg.Shower.SpawnMargin = 10

	s, f := flatShower(t, cfg, 64, 64)
	d := s.pool.acquire()
	d.State = StateFalling
	d.X = 32
	d.Y = 80 // beyond h + margin after one step
	d.VY = 50
	d.Radius = 3
	d.Strength = 0.8
	d.Life = 500

	s.Step(0.1)

	if s.Live() != 0 {
		t.Fatalf("droplet outside the margin should retire, %d still live", s.Live())
	}
	if f.Total() != 0 {
		t.Errorf("silent retirement must not deposit, field total %f", f.Total())
	}
	if s.Flashes.Count() != 0 {
		t.Errorf("silent retirement must not flash, got %d", s.Flashes.Count())
	}
}

func cornerShower(t *testing.T, cfg *config.Config) (*Shower, *Field) {
	t.Helper()
	cfg.Surface.Topology = config.TopologyCorner
	cfg.Surface.CornerLine = 0.5
	f := NewField(100, 100, float32(cfg.Deposit.SaturationCap))
	dep := NewDepositor(f, uniformAbsorption(100, 100, 1), cfg)
	return NewShower(f, dep, cfg, rand.New(rand.NewSource(42))), f
}

func TestWallHandOffExactlyOnce(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 0
	cfg.Deposit.StreakScale = 0 // isolate the terminal deposit
	cfg.Deposit.FlowScale = 0

	s, f := cornerShower(t, cfg)
	d := s.pool.acquire()
	d.State = StateWallSliding
	d.X = 50
	d.Y = 48
	d.VY = 40
	d.Radius = 2
	d.Strength = 0.8
	d.Life = 10

	s.Step(0.1) // crosses the hand-off line at y=50

	if d.State != StateFloorFlowing {
		t.Fatalf("droplet should convert to floor flow, state %d", d.State)
	}
	if !d.deposited {
		t.Fatal("hand-off should mark the terminal deposit as fired")
	}
	afterHandOff := f.Total()
	if afterHandOff <= 0 {
		t.Fatal("hand-off should fire a terminal deposit")
	}

	// Retirement must not fire a second terminal deposit.
	d.Life = 0.01
	s.Step(0.1)
	if s.Live() != 0 {
		t.Fatalf("droplet should retire after its life expires, %d live", s.Live())
	}
	if got := f.Total(); got != afterHandOff {
		t.Errorf("retirement refired the terminal deposit: %f -> %f", afterHandOff, got)
	}
}

func TestFloorSpawnTerminalOnRetire(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 0
	cfg.Deposit.StreakScale = 0
	cfg.Deposit.FlowScale = 0

	s, f := cornerShower(t, cfg)
	d := s.pool.acquire()
	d.State = StateFloorFlowing
	d.X = 50
	d.Y = 75
	d.VX = 10
	d.Radius = 2
	d.Strength = 0.8
	d.Life = 0.01 // expires on the first step

	s.Step(0.1)

	if s.Live() != 0 {
		t.Fatalf("droplet should retire, %d live", s.Live())
	}
	if f.Total() <= 0 {
		t.Error("floor retirement without a prior terminal deposit should fire one")
	}
}

func TestWallStreaksWetTheWall(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 0

	s, f := cornerShower(t, cfg)
	d := s.pool.acquire()
	d.State = StateWallSliding
	d.X = 50
	d.Y = 10
	d.VY = 0
	d.Radius = 2.5
	d.Strength = 0.8
	d.Life = 10

	for i := 0; i < 10; i++ {
		s.Step(1.0 / 60.0)
	}

	if f.Total() <= 0 {
		t.Error("a sliding droplet should streak moisture onto the wall")
	}
	if d.State != StateWallSliding {
		t.Errorf("droplet high on the wall should still slide, state %d", d.State)
	}
}

func TestCornerSpawnSplitsWallAndFloor(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 2000
	cfg.Shower.RampSeconds = 0
	cfg.Shower.MaxDroplets = 400
	cfg.Shower.Wall.SpawnWeight = 0.5

	s, _ := cornerShower(t, cfg)
	s.Step(1.0 / 60.0)

	var wall, floor int
	s.EachDroplet(func(d *Droplet) {
		switch d.State {
		case StateWallSliding:
			wall++
		case StateFloorFlowing:
			floor++
		case StateFalling:
			t.Fatal("corner topology must not spawn falling droplets")
		}
	})
	if wall == 0 || floor == 0 {
		t.Errorf("expected a mix of wall and floor spawns, got %d wall, %d floor", wall, floor)
	}
}

func TestSpawnAccumulatorShedsAtCap(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 1000
	cfg.Shower.RampSeconds = 0
	cfg.Shower.MaxDroplets = 10

	s, _ := flatShower(t, cfg, 64, 64)
	for i := 0; i < 60; i++ {
		s.Step(1.0 / 60.0)
	}
	if s.spawnAcc > 1 {
		t.Errorf("accumulator should shed surplus at the cap, holding %f", s.spawnAcc)
	}
}
