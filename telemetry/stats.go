package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated simulation statistics for one time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Shower state at window end
	Intensity float64 `csv:"intensity"`
	HeatPulse float64 `csv:"heat_pulse"`
	Droplets  int     `csv:"droplets"`

	// Droplet events during window
	Spawned int `csv:"spawned"`
	Retired int `csv:"retired"`
	Impacts int `csv:"impacts"`

	// Moisture movement during window
	Deposits       int     `csv:"deposits"`
	DepositMass    float64 `csv:"deposit_mass"`
	DiffusionMoves int     `csv:"diffusion_moves"`
	DiffusedMass   float64 `csv:"diffused_mass"`
	EvaporatedMass float64 `csv:"evaporated_mass"`

	// Field distribution (sampled at window end)
	TotalWetness float64 `csv:"total_wetness"`
	WetMean      float64 `csv:"wet_mean"`
	WetStd       float64 `csv:"wet_std"`
	WetP10       float64 `csv:"wet_p10"`
	WetP50       float64 `csv:"wet_p50"`
	WetP90       float64 `csv:"wet_p90"`
	WetMax       float64 `csv:"wet_max"`
	Coverage     float64 `csv:"coverage"`
}

// FieldStats summarizes a sampled wetness distribution.
type FieldStats struct {
	Total    float64
	Mean     float64
	Std      float64
	P10      float64
	P50      float64
	P90      float64
	Max      float64
	Coverage float64
}

// ComputeFieldStats calculates distribution statistics over sampled wetness
// values. Coverage is the fraction of cells at or above wetLevel. Returns
// zeros for an empty sample.
func ComputeFieldStats(values []float64, wetLevel float64) FieldStats {
	n := len(values)
	if n == 0 {
		return FieldStats{}
	}

	var total float64
	wet := 0
	for _, v := range values {
		total += v
		if v >= wetLevel {
			wet++
		}
	}

	// Sort for quantiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	fs := FieldStats{
		Total:    total,
		Mean:     stat.Mean(values, nil),
		P10:      stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:      stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:      stat.Quantile(0.90, stat.Empirical, sorted, nil),
		Max:      sorted[n-1],
		Coverage: float64(wet) / float64(n),
	}
	if n > 1 {
		fs.Std = stat.StdDev(values, nil)
	}
	return fs
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("intensity", s.Intensity),
		slog.Float64("heat_pulse", s.HeatPulse),
		slog.Int("droplets", s.Droplets),
		slog.Int("spawned", s.Spawned),
		slog.Int("retired", s.Retired),
		slog.Int("impacts", s.Impacts),
		slog.Int("deposits", s.Deposits),
		slog.Float64("deposit_mass", s.DepositMass),
		slog.Int("diffusion_moves", s.DiffusionMoves),
		slog.Float64("diffused_mass", s.DiffusedMass),
		slog.Float64("evaporated_mass", s.EvaporatedMass),
		slog.Float64("total_wetness", s.TotalWetness),
		slog.Float64("wet_mean", s.WetMean),
		slog.Float64("wet_std", s.WetStd),
		slog.Float64("wet_p10", s.WetP10),
		slog.Float64("wet_p50", s.WetP50),
		slog.Float64("wet_p90", s.WetP90),
		slog.Float64("wet_max", s.WetMax),
		slog.Float64("coverage", s.Coverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"intensity", s.Intensity,
		"heat_pulse", s.HeatPulse,
		"droplets", s.Droplets,
		"spawned", s.Spawned,
		"retired", s.Retired,
		"impacts", s.Impacts,
		"deposits", s.Deposits,
		"deposit_mass", s.DepositMass,
		"diffusion_moves", s.DiffusionMoves,
		"diffused_mass", s.DiffusedMass,
		"evaporated_mass", s.EvaporatedMass,
		"total_wetness", s.TotalWetness,
		"wet_mean", s.WetMean,
		"wet_std", s.WetStd,
		"wet_p10", s.WetP10,
		"wet_p50", s.WetP50,
		"wet_p90", s.WetP90,
		"wet_max", s.WetMax,
		"coverage", s.Coverage,
	)
}
