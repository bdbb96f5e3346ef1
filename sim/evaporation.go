package sim

import (
	"math"

	"seep/config"
)

// Evaporator dries the field: every tick it subtracts each pixel's bias
// rate plus a slow sinusoidal heat pulse. This is the one unconditional
// full-grid pass per tick, so it fans out over the row pool.
type Evaporator struct {
	field *Field
	bias  []float32
	pool  *rowPool

	Gain      float32 // multiplier on the whole drying term
	Amplitude float32 // heat pulse peak, wetness/s
	Period    float32 // seconds per heat cycle

	// Evaporated accumulates the wetness removed across all passes.
	Evaporated float64

	phase   float64
	rowLoss []float64 // per-row loss, each row written by exactly one worker
}

// NewEvaporator builds the drying pass for one surface configuration.
func NewEvaporator(f *Field, bias []float32, pool *rowPool, cfg *config.Config) *Evaporator {
	return &Evaporator{
		field:     f,
		bias:      bias,
		pool:      pool,
		Gain:      float32(cfg.Evaporation.Gain),
		Amplitude: float32(cfg.Evaporation.HeatAmplitude),
		Period:    float32(cfg.Evaporation.HeatPeriod),
		rowLoss:   make([]float64, f.H),
	}
}

// Pulse returns the current heat-pulse term. Never negative.
func (e *Evaporator) Pulse() float32 {
	if e.Amplitude <= 0 || e.Period <= 0 {
		return 0
	}
	return e.Amplitude * 0.5 * (1 + float32(math.Sin(2*math.Pi*e.phase/float64(e.Period))))
}

// Step advances the heat phase and applies one drying pass.
func (e *Evaporator) Step(dt float32) {
	e.phase += float64(dt)
	if e.Period > 0 {
		e.phase = math.Mod(e.phase, float64(e.Period))
	}
	pulse := e.Pulse()
	gain := e.Gain
	if gain <= 0 {
		gain = 1
	}

	f := e.field
	w := f.W
	e.pool.run(f.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			var loss float64
			row := y * w
			for i := row; i < row+w; i++ {
				v := f.Wet[i] - (e.bias[i]+pulse)*gain*dt
				if v < 0 {
					v = 0
				}
				loss += float64(f.Wet[i]) - float64(v)
				f.Wet[i] = v
			}
			e.rowLoss[y] = loss
		}
	})
	for _, loss := range e.rowLoss {
		e.Evaporated += loss
	}
}
