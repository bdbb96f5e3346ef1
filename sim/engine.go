package sim

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"seep/config"
)

// ErrNotConfigured is returned by Tick before a successful Configure call.
var ErrNotConfigured = errors.New("sim: engine not configured")

// Surface carries everything the engine needs for one configuration: grid
// dimensions, the three coefficient maps, and the base color image.
type Surface struct {
	Width, Height int
	Maps          SupportMaps
	Base          []color.RGBA
}

// TickTiming holds the wall-clock cost of each pass of the last tick.
type TickTiming struct {
	Shower      time.Duration
	Evaporation time.Duration
	Diffusion   time.Duration
}

// PassTotals holds the engine's cumulative pass counters. They only ever
// grow within one configuration; Configure rebuilds the passes and restarts
// them at zero. Telemetry windows are deltas between two reads.
type PassTotals struct {
	Spawned        uint64
	Retired        uint64
	Impacts        uint64
	Deposits       uint64
	DepositMass    float64
	DiffusionMoves uint64
	DiffusedMass   float64
	EvaporatedMass float64
}

// Engine owns the whole simulation for one surface: the wetness field, the
// droplet shower, and the evaporation, diffusion, and compositing passes.
// All state lives on the instance; two engines never share anything.
type Engine struct {
	cfg *config.Config
	rng *rand.Rand

	field  *Field
	maps   SupportMaps
	dep    *Depositor
	shower *Shower
	diff   *Diffuser
	evap   *Evaporator
	comp   *Compositor
	rows   *rowPool

	maxStep time.Duration
	ready   bool
	timing  TickTiming
}

// NewEngine builds an engine. It cannot tick until Configure succeeds.
// Every stochastic decision inside the engine draws from rng, so a seeded
// source reproduces a run exactly.
func NewEngine(cfg *config.Config, rng *rand.Rand) *Engine {
	return &Engine{
		cfg:     cfg,
		rng:     rng,
		rows:    newRowPool(cfg.Engine.Workers),
		maxStep: time.Duration(cfg.Engine.MaxStepMillis) * time.Millisecond,
	}
}

// Configure installs a new surface. It acts as a barrier: the field is
// reallocated, every droplet is discarded, and all passes are rebuilt
// against the new buffers. On any validation error the engine refuses to
// tick until a later Configure succeeds.
func (e *Engine) Configure(s Surface) error {
	e.ready = false
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("sim: invalid surface size %dx%d", s.Width, s.Height)
	}
	if err := s.Maps.Validate(s.Width, s.Height); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	if len(s.Base) != s.Width*s.Height {
		return fmt.Errorf("sim: base image has %d pixels, want %d", len(s.Base), s.Width*s.Height)
	}

	e.field = NewField(s.Width, s.Height, float32(e.cfg.Deposit.SaturationCap))
	e.maps = s.Maps
	e.dep = NewDepositor(e.field, s.Maps.Absorption, e.cfg)
	e.shower = NewShower(e.field, e.dep, e.cfg, e.rng)
	e.diff = NewDiffuser(e.field, e.cfg, e.rng)
	e.evap = NewEvaporator(e.field, s.Maps.EvapBias, e.rows, e.cfg)
	e.comp = NewCompositor(e.field, s.Maps.Highlight, s.Base, e.rows, e.cfg)
	e.ready = true
	return nil
}

// Ready reports whether the engine holds a valid surface.
func (e *Engine) Ready() bool { return e.ready }

// Tick advances the simulation by dt. The step is clamped so a stalled or
// backgrounded frame cannot inject a huge integration step on resume.
// Pass order: shower (ramp, spawn, integrate), evaporation, diffusion.
func (e *Engine) Tick(dt time.Duration) error {
	if !e.ready {
		return ErrNotConfigured
	}
	if dt < 0 {
		dt = 0
	}
	if dt > e.maxStep {
		dt = e.maxStep
	}
	step := float32(dt.Seconds())

	t0 := time.Now()
	e.shower.Step(step)
	t1 := time.Now()
	e.evap.Step(step)
	t2 := time.Now()
	e.diff.Step(e.shower.Intensity)
	t3 := time.Now()

	e.timing = TickTiming{
		Shower:      t1.Sub(t0),
		Evaporation: t2.Sub(t1),
		Diffusion:   t3.Sub(t2),
	}
	return nil
}

// Render composites the current field and draws the droplet overlay,
// returning the engine's reused RGBA buffer. Nil while unconfigured.
func (e *Engine) Render() []color.RGBA {
	if !e.ready {
		return nil
	}
	buf := e.comp.Render()
	e.comp.Overlay(e.shower)
	return buf
}

// Splash deposits moisture manually. Interactive use only; spawned
// droplets go through the shower.
func (e *Engine) Splash(x, y, radius, intensity float32) {
	if !e.ready {
		return
	}
	e.dep.Deposit(x, y, radius, intensity)
}

// Field exposes the wetness grid for telemetry and inspection.
func (e *Engine) Field() *Field { return e.field }

// Maps exposes the support maps of the current surface.
func (e *Engine) Maps() SupportMaps { return e.maps }

// Shower exposes the particle system for telemetry and the overlay.
func (e *Engine) Shower() *Shower { return e.shower }

// Intensity returns the rain ramp scalar.
func (e *Engine) Intensity() float32 {
	if !e.ready {
		return 0
	}
	return e.shower.Intensity
}

// Droplets returns the live droplet count.
func (e *Engine) Droplets() int {
	if !e.ready {
		return 0
	}
	return e.shower.Live()
}

// Pulse returns the current heat-pulse term.
func (e *Engine) Pulse() float32 {
	if !e.ready {
		return 0
	}
	return e.evap.Pulse()
}

// SetRaining switches the shower on or off. The intensity ramp follows the
// new target; an off shower lets the surface dry out completely.
func (e *Engine) SetRaining(on bool) {
	if !e.ready {
		return
	}
	e.shower.SetRaining(on)
}

// Raining reports the shower toggle. False while unconfigured.
func (e *Engine) Raining() bool {
	if !e.ready {
		return false
	}
	return e.shower.Raining()
}

// Retune pushes the tunable scalars from the config into the running
// passes. Shower parameters are read from the config every tick and need no
// push; structural settings (grid size, topology, droplet capacity,
// workers) still require Configure.
func (e *Engine) Retune() {
	if !e.ready {
		return
	}
	cfg := e.cfg
	e.field.Cap = float32(cfg.Deposit.SaturationCap)
	e.dep.Scale = float32(cfg.Deposit.Scale)
	if cfg.Surface.Topology == config.TopologyCorner {
		e.dep.BoostPeak = float32(cfg.Deposit.CornerBoost)
		e.dep.BoostRadius = float32(cfg.Deposit.CornerRadius)
	} else {
		e.dep.RingPower = float32(cfg.Deposit.RingPower)
	}

	e.diff.Samples = cfg.Diffusion.Samples
	e.diff.Threshold = float32(cfg.Diffusion.Threshold)
	e.diff.BaseFrac = float32(cfg.Diffusion.BaseFrac)
	e.diff.VarFrac = float32(cfg.Diffusion.VarFrac)
	e.diff.BaseWeight = float32(cfg.Diffusion.BaseWeight)
	e.diff.BiasGain = float32(cfg.Diffusion.BiasGain)

	e.evap.Gain = float32(cfg.Evaporation.Gain)
	e.evap.Amplitude = float32(cfg.Evaporation.HeatAmplitude)
	e.evap.Period = float32(cfg.Evaporation.HeatPeriod)

	e.comp.Darken = float32(cfg.Shading.Darken)
	e.comp.WR = float32(cfg.Shading.WeightR)
	e.comp.WG = float32(cfg.Shading.WeightG)
	e.comp.WB = float32(cfg.Shading.WeightB)
	e.comp.CoolShift = float32(cfg.Shading.CoolShift)
	e.comp.Specular = float32(cfg.Shading.Specular)
	e.comp.StreakStretch = float32(cfg.Overlay.StreakStretch)
	e.comp.StreakShade = float32(cfg.Overlay.StreakShade)
	e.comp.FlashGain = float32(cfg.Overlay.FlashGain)
}

// SetDrain moves the drain attractor, in grid coordinates, switching
// diffusion to the point strategy, and mirrors both into the config so a
// later Configure keeps them.
func (e *Engine) SetDrain(x, y float32) {
	if !e.ready {
		return
	}
	e.diff.SetDrainPoint(x, y)
	e.cfg.Diffusion.Drain.Strategy = config.DrainPoint
	e.cfg.Diffusion.Drain.PointX = float64(x) / float64(e.field.W)
	e.cfg.Diffusion.Drain.PointY = float64(y) / float64(e.field.H)
}

// Totals reads the cumulative pass counters for telemetry.
func (e *Engine) Totals() PassTotals {
	if !e.ready {
		return PassTotals{}
	}
	return PassTotals{
		Spawned:        e.shower.Spawned,
		Retired:        e.shower.Retired,
		Impacts:        e.shower.Impacts,
		Deposits:       e.dep.Deposits,
		DepositMass:    e.dep.Deposited,
		DiffusionMoves: e.diff.Moves,
		DiffusedMass:   e.diff.Moved,
		EvaporatedMass: e.evap.Evaporated,
	}
}

// Timing returns per-pass durations for the last tick.
func (e *Engine) Timing() TickTiming { return e.timing }

// Close stops the worker pool. The engine must not tick afterwards.
func (e *Engine) Close() {
	e.rows.stop()
}
