// Package main provides CMA-ES calibration for the rain simulation parameters.
package main

import (
	"seep/config"
)

// ParamSpec defines a single calibratable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all calibratable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of calibratable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Evaporation (gain locked at 1.0; base_rate covers the same axis)
			{Name: "evap_base_rate", Path: "evaporation.base_rate", Min: 0.01, Max: 0.15, Default: 0.055},
			{Name: "evap_heat_amplitude", Path: "evaporation.heat_amplitude", Min: 0.0, Max: 0.1, Default: 0.04},
			// Diffusion
			{Name: "diffusion_samples", Path: "diffusion.samples", Min: 200, Max: 6000, Default: 1400},
			{Name: "diffusion_base_frac", Path: "diffusion.base_frac", Min: 0.05, Max: 0.4, Default: 0.18},
			// Deposit (saturation_cap locked: the coverage level is measured against it)
			{Name: "deposit_scale", Path: "deposit.scale", Min: 0.15, Max: 1.6, Default: 0.55},
			{Name: "deposit_terminal_scale", Path: "deposit.terminal_scale", Min: 0.4, Max: 2.5, Default: 1.35},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Apply each parameter to the config
	// Order must match Specs order
	i := 0

	// Evaporation (gain locked)
	cfg.Evaporation.Gain = 1.0
	cfg.Evaporation.BaseRate = clamped[i]; i++
	cfg.Evaporation.HeatAmplitude = clamped[i]; i++

	// Diffusion
	cfg.Diffusion.Samples = int(clamped[i]); i++
	cfg.Diffusion.BaseFrac = clamped[i]; i++

	// Deposit
	cfg.Deposit.Scale = clamped[i]; i++
	cfg.Deposit.TerminalScale = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		// Evaporation (gain locked)
		cfg.Evaporation.BaseRate,
		cfg.Evaporation.HeatAmplitude,
		// Diffusion
		float64(cfg.Diffusion.Samples),
		cfg.Diffusion.BaseFrac,
		// Deposit
		cfg.Deposit.Scale,
		cfg.Deposit.TerminalScale,
	}
}
