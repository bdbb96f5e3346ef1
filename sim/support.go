package sim

import "fmt"

// SupportMaps are the precomputed per-pixel coefficient grids consumed
// read-only by the simulation. They are built once per surface
// configuration, outside the core.
type SupportMaps struct {
	Absorption []float32 // deposit gain per pixel
	Highlight  []float32 // specular gain per pixel
	EvapBias   []float32 // base evaporation rate per pixel, wetness/s
}

// Validate checks that all three grids are present and sized w*h.
func (m *SupportMaps) Validate(w, h int) error {
	want := w * h
	if m.Absorption == nil {
		return fmt.Errorf("absorption map missing")
	}
	if len(m.Absorption) != want {
		return fmt.Errorf("absorption map has %d cells, want %d", len(m.Absorption), want)
	}
	if m.Highlight == nil {
		return fmt.Errorf("highlight map missing")
	}
	if len(m.Highlight) != want {
		return fmt.Errorf("highlight map has %d cells, want %d", len(m.Highlight), want)
	}
	if m.EvapBias == nil {
		return fmt.Errorf("evaporation bias map missing")
	}
	if len(m.EvapBias) != want {
		return fmt.Errorf("evaporation bias map has %d cells, want %d", len(m.EvapBias), want)
	}
	return nil
}

// UniformMaps builds support maps with constant coefficients, sized w*h.
// Handy for tests and the calibration tool.
func UniformMaps(w, h int, absorption, highlight, evapBias float32) SupportMaps {
	n := w * h
	m := SupportMaps{
		Absorption: make([]float32, n),
		Highlight:  make([]float32, n),
		EvapBias:   make([]float32, n),
	}
	for i := 0; i < n; i++ {
		m.Absorption[i] = absorption
		m.Highlight[i] = highlight
		m.EvapBias[i] = evapBias
	}
	return m
}
