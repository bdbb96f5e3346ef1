// Package telemetry provides windowed run statistics, milestone detection,
// performance tracking, and CSV output for simulation experiments.
package telemetry

import "seep/sim"

// Collector turns the engine's cumulative pass counters into per-window
// deltas and produces WindowStats at window boundaries.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32
	wetLevel            float64

	// Current window tracking
	windowStartTick int64
	last            sim.PassTotals
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
// wetLevel: absolute wetness above which a cell counts toward coverage
func NewCollector(windowDurationSec float64, dt float32, wetLevel float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		wetLevel:            wetLevel,
		windowStartTick:     0,
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and starts the next window.
// The caller must provide:
// - currentTick: the current simulation tick
// - droplets: live droplet count
// - intensity, heatPulse: shower ramp and heat pulse scalars
// - wet: the field's wetness values (read only, not retained)
// - totals: the engine's cumulative pass counters
func (c *Collector) Flush(
	currentTick int64,
	droplets int,
	intensity, heatPulse float64,
	wet []float64,
	totals sim.PassTotals,
) WindowStats {
	fs := ComputeFieldStats(wet, c.wetLevel)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Intensity: intensity,
		HeatPulse: heatPulse,
		Droplets:  droplets,

		Spawned: deltaCount(totals.Spawned, c.last.Spawned),
		Retired: deltaCount(totals.Retired, c.last.Retired),
		Impacts: deltaCount(totals.Impacts, c.last.Impacts),

		Deposits:       deltaCount(totals.Deposits, c.last.Deposits),
		DepositMass:    deltaMass(totals.DepositMass, c.last.DepositMass),
		DiffusionMoves: deltaCount(totals.DiffusionMoves, c.last.DiffusionMoves),
		DiffusedMass:   deltaMass(totals.DiffusedMass, c.last.DiffusedMass),
		EvaporatedMass: deltaMass(totals.EvaporatedMass, c.last.EvaporatedMass),

		TotalWetness: fs.Total,
		WetMean:      fs.Mean,
		WetStd:       fs.Std,
		WetP10:       fs.P10,
		WetP50:       fs.P50,
		WetP90:       fs.P90,
		WetMax:       fs.Max,
		Coverage:     fs.Coverage,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.last = totals

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}

// deltaCount returns the window delta of a cumulative counter. A reconfigured
// engine restarts its counters at zero, in which case the current value is
// the whole delta.
func deltaCount(cur, last uint64) int {
	if cur < last {
		return int(cur)
	}
	return int(cur - last)
}

func deltaMass(cur, last float64) float64 {
	if cur < last {
		return cur
	}
	return cur - last
}
