// Package scene ties the simulation engine to its surroundings: texture
// synthesis, presentation, input, telemetry, and audio. A Scene owns one
// engine and rebuilds its surface whenever the window or the topology
// changes.
package scene

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"seep/audio"
	"seep/config"
	"seep/renderer"
	"seep/sim"
	"seep/telemetry"
	"seep/texture"
	"seep/ui"
)

const panelWidth = 250

// Options configures scene creation.
type Options struct {
	Seed           int64   // RNG seed for the engine
	LogStats       bool    // mirror window stats to slog
	StatsWindowSec float64 // stats window length, 0 = config value
	OutputDir      string  // CSV output directory, empty = disabled
	Headless       bool    // skip all presentation and audio
	StepsPerUpdate int     // simulation ticks per update call
}

// Scene owns the engine and everything around it.
type Scene struct {
	cfg *config.Config
	eng *sim.Engine

	// Presentation; nil in headless mode
	surfaceRenderer *renderer.SurfaceRenderer
	hud             *renderer.HUD
	panel           *ui.TuningPanel
	probe           *ui.PixelProbe
	sound           *audio.Manager

	// Telemetry
	collector  *telemetry.Collector
	milestones *telemetry.MilestoneDetector
	perf       *telemetry.PerfCollector
	output     *telemetry.OutputManager

	// State
	tick           int64
	paused         bool
	stepsPerUpdate int
	logStats       bool
	headless       bool

	surfaceSeed      int64
	gridW, gridH     int
	screenW, screenH float32
	dt               time.Duration

	timingOpen  bool // a perf sample is open between Update and Draw
	lastImpacts uint64
	wetBuf      []float64
}

// New creates a scene from the global config. In windowed mode the raylib
// window must already exist.
func New(opts Options) (*Scene, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	surfaceSeed := cfg.Surface.Seed
	if surfaceSeed == 0 {
		surfaceSeed = seed
	}

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	s := &Scene{
		cfg:            cfg,
		eng:            sim.NewEngine(cfg, rand.New(rand.NewSource(seed))),
		stepsPerUpdate: steps,
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		surfaceSeed:    surfaceSeed,
		gridW:          cfg.Screen.Width / cfg.Screen.Scale,
		gridH:          cfg.Screen.Height / cfg.Screen.Scale,
		screenW:        float32(cfg.Screen.Width),
		screenH:        float32(cfg.Screen.Height),
		dt:             time.Second / time.Duration(fps),
	}

	if err := s.rebuildSurface(); err != nil {
		return nil, fmt.Errorf("building initial surface: %w", err)
	}

	wetLevel := cfg.Telemetry.CoverageLevel * cfg.Deposit.SaturationCap
	s.collector = telemetry.NewCollector(statsWindow, float32(s.dt.Seconds()), wetLevel)
	s.milestones = telemetry.NewMilestoneDetector(cfg.Deposit.SaturationCap)
	s.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	s.output = om
	if err := s.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !opts.Headless {
		s.surfaceRenderer = renderer.NewSurfaceRenderer(int32(s.screenW), int32(s.screenH))
		s.surfaceRenderer.Init(s.gridW, s.gridH)
		s.hud = renderer.NewHUD()
		s.panel = ui.NewTuningPanel(int32(s.screenW)-panelWidth-10, 10, panelWidth, cfg)
		s.probe = ui.NewPixelProbe()

		s.sound = audio.NewManager(cfg)
		if err := s.sound.Start(); err != nil {
			slog.Error("audio unavailable", "error", err)
			s.sound = nil
		}
	}

	return s, nil
}

// rebuildSurface synthesizes a surface for the current grid size and
// topology and reconfigures the engine with it. All droplets and wetness
// are discarded; the engine's pass counters restart at zero.
func (s *Scene) rebuildSurface() error {
	if s.gridW < 1 {
		s.gridW = 1
	}
	if s.gridH < 1 {
		s.gridH = 1
	}

	surf := texture.Build(s.gridW, s.gridH, s.surfaceSeed, s.cfg)
	if err := s.eng.Configure(surf); err != nil {
		return err
	}
	if s.surfaceRenderer != nil {
		s.surfaceRenderer.Resize(s.gridW, s.gridH, s.screenW, s.screenH)
	}
	s.lastImpacts = 0

	slog.Info("surface built",
		"grid_w", s.gridW,
		"grid_h", s.gridH,
		"topology", string(s.cfg.Surface.Topology),
		"seed", s.surfaceSeed,
	)
	return nil
}

// Update advances the simulation for one frame: input, then stepsPerUpdate
// ticks unless paused. The matching Draw call closes the perf sample.
func (s *Scene) Update() {
	s.handleInput()

	if s.paused {
		return
	}

	s.perf.StartTick()
	s.timingOpen = true

	for i := 0; i < s.stepsPerUpdate; i++ {
		s.stepOnce()
	}

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.updateAudio()
}

// UpdateHeadless advances the simulation without any presentation. Each
// tick is its own perf sample.
func (s *Scene) UpdateHeadless() {
	for i := 0; i < s.stepsPerUpdate; i++ {
		s.perf.StartTick()
		s.stepOnce()
		s.perf.StartPhase(telemetry.PhaseTelemetry)
		s.flushTelemetry()
		s.perf.EndTick()
	}
}

// stepOnce runs a single engine tick and folds the engine's internal pass
// timings into the perf collector.
func (s *Scene) stepOnce() {
	if err := s.eng.Tick(s.dt); err != nil {
		slog.Error("tick failed", "error", err)
		return
	}

	tm := s.eng.Timing()
	s.perf.RecordPhase(telemetry.PhaseShower, tm.Shower)
	s.perf.RecordPhase(telemetry.PhaseEvaporate, tm.Evaporation)
	s.perf.RecordPhase(telemetry.PhaseDiffuse, tm.Diffusion)

	s.tick++
}

// Tick returns the number of simulation ticks run so far.
func (s *Scene) Tick() int64 {
	return s.tick
}

// Engine exposes the simulation engine.
func (s *Scene) Engine() *sim.Engine {
	return s.eng
}

// Unload releases audio, GPU, and file resources.
func (s *Scene) Unload() {
	s.sound.Stop()
	if s.surfaceRenderer != nil {
		s.surfaceRenderer.Unload()
	}
	if err := s.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	s.eng.Close()
}
