package sim

import (
	"errors"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"seep/config"
)

func testSurface(w, h int) Surface {
	base := make([]color.RGBA, w*h)
	for i := range base {
		base[i] = color.RGBA{R: 120, G: 110, B: 100, A: 255}
	}
	return Surface{
		Width:  w,
		Height: h,
		Maps:   UniformMaps(w, h, 1, 0.3, 0.05),
		Base:   base,
	}
}

func testEngine(t *testing.T, cfg *config.Config, w, h int) *Engine {
	t.Helper()
	e := NewEngine(cfg, rand.New(rand.NewSource(42)))
	t.Cleanup(e.Close)
	if err := e.Configure(testSurface(w, h)); err != nil {
		t.Fatalf("configure: %v", err)
	}
	return e
}

func TestEngineUnconfigured(t *testing.T) {
	cfg := testConfig(t)
	e := NewEngine(cfg, rand.New(rand.NewSource(1)))
	defer e.Close()

	if e.Ready() {
		t.Error("fresh engine should not be ready")
	}
	if err := e.Tick(time.Second / 60); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if buf := e.Render(); buf != nil {
		t.Error("render before configure should return nil")
	}
}

func TestConfigureRejectsBadSurfaces(t *testing.T) {
	cfg := testConfig(t)
	e := NewEngine(cfg, rand.New(rand.NewSource(1)))
	defer e.Close()

	s := testSurface(32, 32)
	s.Width = 0
	if err := e.Configure(s); err == nil {
		t.Error("expected error for zero width")
	}

	s = testSurface(32, 32)
	s.Maps.Absorption = s.Maps.Absorption[:100]
	if err := e.Configure(s); err == nil {
		t.Error("expected error for short absorption map")
	}

	s = testSurface(32, 32)
	s.Maps.EvapBias = nil
	if err := e.Configure(s); err == nil {
		t.Error("expected error for missing evaporation bias map")
	}

	s = testSurface(32, 32)
	s.Base = s.Base[:10]
	if err := e.Configure(s); err == nil {
		t.Error("expected error for undersized base image")
	}

	if e.Ready() {
		t.Error("engine must stay unready after rejected configs")
	}
	if err := e.Tick(time.Second / 60); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured after rejects, got %v", err)
	}
}

func TestEngineFieldStaysInRange(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 200
	cfg.Shower.RampSeconds = 0.5

	e := testEngine(t, cfg, 96, 96)
	for i := 0; i < 400; i++ {
		if err := e.Tick(time.Second / 60); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		f := e.Field()
		for j, w := range f.Wet {
			if w < 0 || w > f.Cap {
				t.Fatalf("tick %d cell %d out of range: %f not in [0, %f]", i, j, w, f.Cap)
			}
		}
	}
}

func TestEngineClampsHugeStep(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 22
	cfg.Shower.RampSeconds = 0
	cfg.Engine.MaxStepMillis = 100

	e := testEngine(t, cfg, 64, 64)
	if err := e.Tick(10 * time.Second); err != nil {
		t.Fatalf("tick: %v", err)
	}
	// A clamped 100ms step spawns ~2 droplets, a raw 10s step ~220.
	if got := e.Shower().Spawned; got > 4 {
		t.Errorf("huge step was not clamped, spawned %d droplets", got)
	}
}

func TestReconfigureDiscardsState(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.Density = 500
	cfg.Shower.RampSeconds = 0

	e := testEngine(t, cfg, 64, 64)
	for i := 0; i < 30; i++ {
		if err := e.Tick(time.Second / 60); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if e.Droplets() == 0 {
		t.Fatal("expected live droplets before reconfigure")
	}
	if e.Field().Total() == 0 {
		t.Fatal("expected a wet field before reconfigure")
	}

	if err := e.Configure(testSurface(48, 48)); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	if e.Droplets() != 0 {
		t.Errorf("reconfigure must discard droplets, %d live", e.Droplets())
	}
	if e.Field().Total() != 0 {
		t.Errorf("reconfigure must zero the field, total %f", e.Field().Total())
	}
	if e.Field().W != 48 || e.Field().H != 48 {
		t.Errorf("field not resized: %dx%d", e.Field().W, e.Field().H)
	}
}

func TestEngineDeterministicWithSeed(t *testing.T) {
	cfg1 := testConfig(t)
	cfg2 := testConfig(t)

	run := func(cfg *config.Config) []float32 {
		e := NewEngine(cfg, rand.New(rand.NewSource(99)))
		defer e.Close()
		if err := e.Configure(testSurface(64, 64)); err != nil {
			t.Fatalf("configure: %v", err)
		}
		for i := 0; i < 120; i++ {
			if err := e.Tick(time.Second / 60); err != nil {
				t.Fatalf("tick %d: %v", i, err)
			}
		}
		out := make([]float32, len(e.Field().Wet))
		copy(out, e.Field().Wet)
		return out
	}

	a := run(cfg1)
	b := run(cfg2)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded runs diverged at cell %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestEngineRenderBuffer(t *testing.T) {
	cfg := testConfig(t)
	e := testEngine(t, cfg, 40, 30)

	buf := e.Render()
	if len(buf) != 40*30 {
		t.Fatalf("render buffer has %d pixels, want %d", len(buf), 40*30)
	}
	for i, p := range buf {
		if p.A != 255 {
			t.Fatalf("alpha not passed through at pixel %d: %d", i, p.A)
		}
	}

	// The buffer is reused across frames.
	again := e.Render()
	if &buf[0] != &again[0] {
		t.Error("render should reuse its output buffer")
	}
}

func TestEngineSplash(t *testing.T) {
	cfg := testConfig(t)
	e := testEngine(t, cfg, 64, 64)

	e.Splash(32, 32, 6, 1)
	if e.Field().Total() <= 0 {
		t.Error("splash should wet the field")
	}
}

func TestPassTotalsLedger(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.RampSeconds = 0.5
	e := testEngine(t, cfg, 64, 64)

	for i := 0; i < 300; i++ {
		if err := e.Tick(time.Second / 60); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	tot := e.Totals()
	if tot.Spawned == 0 || tot.Deposits == 0 {
		t.Fatalf("expected spawn and deposit activity, got %+v", tot)
	}
	if tot.Retired > tot.Spawned {
		t.Errorf("retired %d exceeds spawned %d", tot.Retired, tot.Spawned)
	}
	if tot.EvaporatedMass <= 0 {
		t.Error("a wet field should have evaporated some mass")
	}

	// Deposits add, evaporation removes, diffusion only moves. The field
	// total must match the ledger of the two.
	want := tot.DepositMass - tot.EvaporatedMass
	got := e.Field().Total()
	if diff := got - want; diff > 0.05 || diff < -0.05 {
		t.Errorf("field total %f does not match deposit-evaporation ledger %f", got, want)
	}
}

func TestEngineRainOffDriesOut(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shower.RampSeconds = 0.25
	e := testEngine(t, cfg, 48, 48)

	for i := 0; i < 120; i++ {
		e.Tick(time.Second / 60)
	}
	if e.Field().Total() <= 0 {
		t.Fatal("two seconds of rain should wet the field")
	}

	e.SetRaining(false)
	if e.Raining() {
		t.Fatal("SetRaining(false) should report off")
	}
	for i := 0; i < 3600; i++ {
		e.Tick(time.Second / 60)
	}

	if got := e.Intensity(); got != 0 {
		t.Errorf("intensity should ramp back to zero, got %f", got)
	}
	if got := e.Field().Total(); got != 0 {
		t.Errorf("field should dry out completely with the rain off, total %f", got)
	}
}

func TestEngineRetune(t *testing.T) {
	cfg := testConfig(t)
	e := testEngine(t, cfg, 32, 32)

	cfg.Deposit.Scale = 0.99
	cfg.Deposit.SaturationCap = 2.5
	cfg.Diffusion.Samples = 7
	cfg.Evaporation.Gain = 1.5
	cfg.Shading.Darken = 0.11
	e.Retune()

	if got := e.dep.Scale; got != 0.99 {
		t.Errorf("deposit scale not retuned: %f", got)
	}
	if got := e.field.Cap; got != 2.5 {
		t.Errorf("saturation cap not retuned: %f", got)
	}
	if got := e.diff.Samples; got != 7 {
		t.Errorf("diffusion budget not retuned: %d", got)
	}
	if got := e.evap.Gain; got != 1.5 {
		t.Errorf("evaporation gain not retuned: %f", got)
	}
	if got := e.comp.Darken; got != 0.11 {
		t.Errorf("darken not retuned: %f", got)
	}
}

func TestEngineSetDrain(t *testing.T) {
	cfg := testConfig(t)
	cfg.Surface.Topology = config.TopologyCorner
	e := testEngine(t, cfg, 64, 32)

	// Auto strategy resolves to an unbiased walk on the corner.
	if e.diff.strategy != config.DrainNone {
		t.Fatalf("expected auto to resolve to none on corner, got %q", e.diff.strategy)
	}

	e.SetDrain(16, 24)
	if e.diff.strategy != config.DrainPoint {
		t.Errorf("expected drain placement to switch to point strategy, got %q", e.diff.strategy)
	}
	if e.diff.drainX != 16 || e.diff.drainY != 24 {
		t.Errorf("drain point not moved: (%f, %f)", e.diff.drainX, e.diff.drainY)
	}
	if cfg.Diffusion.Drain.Strategy != config.DrainPoint {
		t.Errorf("strategy not mirrored into config: %q", cfg.Diffusion.Drain.Strategy)
	}
	if cfg.Diffusion.Drain.PointX != 0.25 || cfg.Diffusion.Drain.PointY != 0.75 {
		t.Errorf("drain fraction not mirrored into config: (%f, %f)",
			cfg.Diffusion.Drain.PointX, cfg.Diffusion.Drain.PointY)
	}
}

func BenchmarkEngineTick(b *testing.B) {
	cfg := testConfig(b)
	cfg.Shower.RampSeconds = 0
	e := NewEngine(cfg, rand.New(rand.NewSource(42)))
	defer e.Close()
	if err := e.Configure(testSurface(640, 360)); err != nil {
		b.Fatalf("configure: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Tick(time.Second / 60)
	}
}

func BenchmarkEngineRender(b *testing.B) {
	cfg := testConfig(b)
	cfg.Shower.RampSeconds = 0
	e := NewEngine(cfg, rand.New(rand.NewSource(42)))
	defer e.Close()
	if err := e.Configure(testSurface(640, 360)); err != nil {
		b.Fatalf("configure: %v", err)
	}
	for i := 0; i < 120; i++ {
		e.Tick(time.Second / 60)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Render()
	}
}
