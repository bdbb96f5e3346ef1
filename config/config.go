// Package config provides configuration loading and access for the wetness
// simulation and its demo front end.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Topology selects the surface geometry the engine simulates.
type Topology string

const (
	// TopologyFlat is a single front-facing plane (window pane style).
	TopologyFlat Topology = "flat"
	// TopologyCorner is a wall meeting a floor at a hand-off line.
	TopologyCorner Topology = "corner"
)

// DrainStrategy selects how diffusion biases its neighbor choice.
type DrainStrategy string

const (
	// DrainAuto resolves per topology when the engine configures a surface:
	// point on the flat pane, none on the corner.
	DrainAuto DrainStrategy = "auto"
	// DrainPoint biases flow toward a fixed drain point on the surface.
	DrainPoint DrainStrategy = "point"
	// DrainDirection biases flow along a fixed direction.
	DrainDirection DrainStrategy = "direction"
	// DrainNone disables the bias; neighbors are picked uniformly.
	DrainNone DrainStrategy = "none"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Surface     SurfaceConfig     `yaml:"surface"`
	Texture     TextureConfig     `yaml:"texture"`
	Shower      ShowerConfig      `yaml:"shower"`
	Deposit     DepositConfig     `yaml:"deposit"`
	Diffusion   DiffusionConfig   `yaml:"diffusion"`
	Evaporation EvaporationConfig `yaml:"evaporation"`
	Shading     ShadingConfig     `yaml:"shading"`
	Overlay     OverlayConfig     `yaml:"overlay"`
	Engine      EngineConfig      `yaml:"engine"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Audio       AudioConfig       `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	Scale     int `yaml:"scale"` // window pixels per simulation cell
	TargetFPS int `yaml:"target_fps"`
}

// SurfaceConfig holds surface geometry settings.
type SurfaceConfig struct {
	Topology   Topology `yaml:"topology"`
	CornerLine float64  `yaml:"corner_line"` // wall/floor hand-off as fraction of height (corner only)
	Seed       int64    `yaml:"seed"`        // 0 = time-based
}

// TextureConfig holds procedural texture synthesis parameters.
type TextureConfig struct {
	GrainScale   float64 `yaml:"grain_scale"`   // base noise frequency across the surface
	GrainOctaves int     `yaml:"grain_octaves"` // FBM octaves
	GrainGain    float64 `yaml:"grain_gain"`    // amplitude multiplier per octave
	CrackCount   int     `yaml:"crack_count"`   // decorative cracks per 100k cells
	CrackDepth   float64 `yaml:"crack_depth"`   // darkening and absorption boost along cracks
	Vignette     float64 `yaml:"vignette"`      // edge darkening strength [0,1]
}

// ShowerConfig holds droplet spawn and integration parameters.
type ShowerConfig struct {
	Density     float64 `yaml:"density"`      // droplets per second at full intensity
	MaxDroplets int     `yaml:"max_droplets"` // hard cap on live droplets
	RampSeconds float64 `yaml:"ramp_seconds"` // dry-to-full intensity buildup time
	SpawnMargin float64 `yaml:"spawn_margin"` // off-surface margin before silent retirement
	WindX       float64 `yaml:"wind_x"`       // constant horizontal drift (flat topology)

	RadiusMin   float64 `yaml:"radius_min"`
	RadiusMax   float64 `yaml:"radius_max"`
	StrengthMin float64 `yaml:"strength_min"` // deposit intensity scalar range
	StrengthMax float64 `yaml:"strength_max"`

	Fall  FallConfig  `yaml:"fall"`
	Wall  WallConfig  `yaml:"wall"`
	Floor FloorConfig `yaml:"floor"`
}

// FallConfig holds flat-topology falling parameters.
type FallConfig struct {
	Gravity       float64 `yaml:"gravity"`         // px/s^2 accumulated into fall speed
	StartSpeedMin float64 `yaml:"start_speed_min"` // initial downward speed px/s
	StartSpeedMax float64 `yaml:"start_speed_max"`
	HeightMin     float64 `yaml:"height_min"` // remaining fall height px
	HeightMax     float64 `yaml:"height_max"`
}

// WallConfig holds corner-topology wall slide parameters.
type WallConfig struct {
	SpawnWeight float64 `yaml:"spawn_weight"` // probability a new droplet starts on the wall
	Gravity     float64 `yaml:"gravity"`      // px/s^2, lower than free fall
	MaxSlide    float64 `yaml:"max_slide"`    // slide speed cap px/s
	StreakGap   float64 `yaml:"streak_gap"`   // offset between the two per-tick streak deposits, in radii
	GrowthMin   float64 `yaml:"growth_min"`   // radius multiplier at hand-off
	GrowthMax   float64 `yaml:"growth_max"`
}

// FloorConfig holds corner-topology floor flow parameters.
type FloorConfig struct {
	Drag         float64 `yaml:"drag"`           // horizontal velocity retained per 1/60s
	Jitter       float64 `yaml:"jitter"`         // random horizontal velocity added, px/s^2
	FlowSpeedMin float64 `yaml:"flow_speed_min"` // horizontal flow px/s after hand-off
	FlowSpeedMax float64 `yaml:"flow_speed_max"`
	SettleMin    float64 `yaml:"settle_min"` // downward drift px/s on the floor
	SettleMax    float64 `yaml:"settle_max"`
	LifeMin      float64 `yaml:"life_min"` // seconds
	LifeMax      float64 `yaml:"life_max"`
}

// DepositConfig holds deposition kernel parameters.
type DepositConfig struct {
	Scale         float64 `yaml:"scale"`          // global deposit gain
	SaturationCap float64 `yaml:"saturation_cap"` // maximum wetness per cell
	RingPower     float64 `yaml:"ring_power"`     // edge-softening exponent, 0 disables (flat)
	CornerBoost   float64 `yaml:"corner_boost"`   // peak pooling multiplier at the corner seam
	CornerRadius  float64 `yaml:"corner_radius"`  // px over which the boost fades out
	StreakScale   float64 `yaml:"streak_scale"`   // per-tick wall streak deposit gain
	FlowScale     float64 `yaml:"flow_scale"`     // per-tick floor flow deposit gain
	TerminalScale float64 `yaml:"terminal_scale"` // hand-off / retirement deposit gain
}

// DiffusionConfig holds capillary spread parameters.
type DiffusionConfig struct {
	Samples    int     `yaml:"samples"`     // iteration budget at full intensity
	Threshold  float64 `yaml:"threshold"`   // minimum wetness for a cell to spread
	BaseFrac   float64 `yaml:"base_frac"`   // fixed fraction of the difference moved
	VarFrac    float64 `yaml:"var_frac"`    // additional randomized fraction
	BaseWeight float64 `yaml:"base_weight"` // neighbor weight floor (keeps all reachable)
	BiasGain   float64 `yaml:"bias_gain"`   // weight added per unit of drain alignment

	Drain DrainConfig `yaml:"drain"`
}

// DrainConfig holds drain targeting parameters.
type DrainConfig struct {
	Strategy DrainStrategy `yaml:"strategy"`
	PointX   float64       `yaml:"point_x"` // drain point as fraction of width
	PointY   float64       `yaml:"point_y"` // fraction of height; may lie outside [0,1]
	DirX     float64       `yaml:"dir_x"`   // flow direction for the direction strategy
	DirY     float64       `yaml:"dir_y"`
}

// EvaporationConfig holds drying parameters.
type EvaporationConfig struct {
	BaseRate      float64 `yaml:"base_rate"`      // wetness/s removed at bias 1.0
	Variance      float64 `yaml:"variance"`       // per-pixel bias spread applied at texture build
	Gain          float64 `yaml:"gain"`           // live multiplier on the whole drying term
	HeatAmplitude float64 `yaml:"heat_amplitude"` // peak of the slow heat pulse, wetness/s
	HeatPeriod    float64 `yaml:"heat_period"`    // seconds per heat cycle
}

// ShadingConfig holds compositor weights.
type ShadingConfig struct {
	Darken    float64 `yaml:"darken"`     // max channel darkening at full wetness
	WeightR   float64 `yaml:"weight_r"`   // per-channel darkening weights
	WeightG   float64 `yaml:"weight_g"`
	WeightB   float64 `yaml:"weight_b"`
	CoolShift float64 `yaml:"cool_shift"` // color-temperature shift per unit wetness, 8-bit units
	Specular  float64 `yaml:"specular"`   // highlight contribution weight
}

// OverlayConfig holds transient overlay drawing parameters.
type OverlayConfig struct {
	StreakStretch float64 `yaml:"streak_stretch"` // falling streak length per unit fall speed, seconds
	StreakShade   float64 `yaml:"streak_shade"`   // multiply-blend strength of streaks [0,1]
	FlashLife     float64 `yaml:"flash_life"`     // seconds an impact flash persists
	FlashRadius   float64 `yaml:"flash_radius"`   // flash radius in droplet radii
	FlashGain     float64 `yaml:"flash_gain"`     // additive brightness of the flash core
}

// EngineConfig holds tick scheduling parameters.
type EngineConfig struct {
	MaxStepMillis int `yaml:"max_step_millis"` // delta-time clamp for stalled frames
	Workers       int `yaml:"workers"`         // row-parallel workers, 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow   float64 `yaml:"stats_window"`   // seconds per stats window
	PerfWindow    int     `yaml:"perf_window"`    // ticks averaged by the perf collector
	CoverageLevel float64 `yaml:"coverage_level"` // wetness fraction of cap counted as "wet"
}

// AudioConfig holds demo ambience settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // master gain [0,1]
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DrainDirX float64 // normalized direction-strategy vector
	DrainDirY float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived validates ranges and calculates values derived from the
// loaded config.
func (c *Config) computeDerived() {
	if c.Screen.Scale < 1 {
		c.Screen.Scale = 1
	}
	if c.Surface.Topology != TopologyCorner {
		c.Surface.Topology = TopologyFlat
	}
	c.Surface.CornerLine = clampFloat(c.Surface.CornerLine, 0.05, 0.95)

	orderRange(&c.Shower.RadiusMin, &c.Shower.RadiusMax)
	orderRange(&c.Shower.StrengthMin, &c.Shower.StrengthMax)
	orderRange(&c.Shower.Fall.StartSpeedMin, &c.Shower.Fall.StartSpeedMax)
	orderRange(&c.Shower.Fall.HeightMin, &c.Shower.Fall.HeightMax)
	orderRange(&c.Shower.Wall.GrowthMin, &c.Shower.Wall.GrowthMax)
	orderRange(&c.Shower.Floor.FlowSpeedMin, &c.Shower.Floor.FlowSpeedMax)
	orderRange(&c.Shower.Floor.SettleMin, &c.Shower.Floor.SettleMax)
	orderRange(&c.Shower.Floor.LifeMin, &c.Shower.Floor.LifeMax)

	c.Shower.Wall.SpawnWeight = clampFloat(c.Shower.Wall.SpawnWeight, 0, 1)
	c.Shower.Floor.Drag = clampFloat(c.Shower.Floor.Drag, 0, 1)

	if c.Deposit.SaturationCap <= 0 {
		c.Deposit.SaturationCap = 1
	}
	if c.Evaporation.Gain <= 0 {
		c.Evaporation.Gain = 1
	}
	c.Diffusion.BaseFrac = clampFloat(c.Diffusion.BaseFrac, 0, 1)
	c.Diffusion.VarFrac = clampFloat(c.Diffusion.VarFrac, 0, 1-c.Diffusion.BaseFrac)

	switch c.Diffusion.Drain.Strategy {
	case DrainAuto, DrainPoint, DrainDirection, DrainNone:
	default:
		c.Diffusion.Drain.Strategy = DrainAuto
	}

	// Normalize the direction vector once; a zero vector disables the bias.
	dx, dy := c.Diffusion.Drain.DirX, c.Diffusion.Drain.DirY
	if n := math.Hypot(dx, dy); n > 0 {
		c.Derived.DrainDirX = dx / n
		c.Derived.DrainDirY = dy / n
	} else if c.Diffusion.Drain.Strategy == DrainDirection {
		c.Diffusion.Drain.Strategy = DrainNone
	}

	if c.Engine.MaxStepMillis <= 0 {
		c.Engine.MaxStepMillis = 100
	}
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 5
	}
	if c.Telemetry.CoverageLevel <= 0 {
		c.Telemetry.CoverageLevel = 0.05
	}
	c.Audio.Volume = clampFloat(c.Audio.Volume, 0, 1)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func orderRange(lo, hi *float64) {
	if *hi < *lo {
		*lo, *hi = *hi, *lo
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
