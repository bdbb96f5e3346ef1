// Package sim implements the wetness field simulation: a droplet shower
// deposits moisture onto a surface, moisture creeps toward a drain through
// biased stochastic diffusion, and a heat cycle evaporates it away.
package sim

import (
	"math"

	"seep/config"
)

// Field is the dense wetness grid, one cell per surface pixel. Cells are
// clamped to [0, Cap] by every mutating pass.
type Field struct {
	W, H int
	Cap  float32
	Wet  []float32 // row-major, W*H cells
}

// NewField allocates a zeroed field.
func NewField(w, h int, cap float32) *Field {
	if cap <= 0 {
		cap = 1
	}
	return &Field{
		W:   w,
		H:   h,
		Cap: cap,
		Wet: make([]float32, w*h),
	}
}

// Idx maps grid coordinates to a cell index.
func (f *Field) Idx(x, y int) int { return y*f.W + x }

// At returns the wetness at (x, y). Caller guarantees bounds.
func (f *Field) At(x, y int) float32 { return f.Wet[y*f.W+x] }

// InBounds reports whether (x, y) lies on the grid.
func (f *Field) InBounds(x, y int) bool {
	return x >= 0 && x < f.W && y >= 0 && y < f.H
}

// Clear zeroes every cell.
func (f *Field) Clear() {
	for i := range f.Wet {
		f.Wet[i] = 0
	}
}

// Total returns the summed wetness over the grid.
func (f *Field) Total() float64 {
	var sum float64
	for _, w := range f.Wet {
		sum += float64(w)
	}
	return sum
}

// Coverage returns the fraction of cells with wetness at or above level.
func (f *Field) Coverage(level float32) float64 {
	if len(f.Wet) == 0 {
		return 0
	}
	n := 0
	for _, w := range f.Wet {
		if w >= level {
			n++
		}
	}
	return float64(n) / float64(len(f.Wet))
}

// Depositor adds moisture into the field around a point, weighted per pixel
// by the absorption map and, on the corner topology, boosted near the
// wall/floor seam to model pooling. It is the only mutator that raises
// wetness values.
type Depositor struct {
	field      *Field
	absorption []float32

	Scale     float32 // global deposit gain
	RingPower float32 // falloff exponent softening the profile edge, 0 disables

	BoostPeak   float32 // pooling multiplier at the seam point
	BoostRadius float32 // px over which the boost fades, 0 disables
	BoostX      float32
	BoostY      float32

	// Cumulative counters for telemetry. Deposits counts splats that touched
	// the surface; Deposited is the wetness actually added after clamping.
	Deposits  uint64
	Deposited float64
}

// NewDepositor builds the deposition kernel for one surface configuration.
// The ring softening applies on the flat topology, the seam boost on the
// corner topology.
func NewDepositor(f *Field, absorption []float32, cfg *config.Config) *Depositor {
	d := &Depositor{
		field:      f,
		absorption: absorption,
		Scale:      float32(cfg.Deposit.Scale),
	}
	if cfg.Surface.Topology == config.TopologyCorner {
		d.BoostPeak = float32(cfg.Deposit.CornerBoost)
		d.BoostRadius = float32(cfg.Deposit.CornerRadius)
		d.BoostX = float32(f.W) * 0.5
		d.BoostY = float32(cfg.Surface.CornerLine) * float32(f.H)
	} else {
		d.RingPower = float32(cfg.Deposit.RingPower)
	}
	return d
}

// Deposit adds a circular splat of moisture centered at (cx, cy).
func (d *Depositor) Deposit(cx, cy, radius, intensity float32) {
	d.DepositStretched(cx, cy, radius, intensity, 1, 1)
}

// DepositStretched adds an elliptical splat with per-axis stretch factors.
// A non-positive radius or intensity is a degenerate request and a no-op,
// as is an ellipse lying entirely off the surface.
func (d *Depositor) DepositStretched(cx, cy, radius, intensity, stretchX, stretchY float32) {
	if radius <= 0 || intensity <= 0 {
		return
	}
	rx := radius * stretchX
	ry := radius * stretchY
	if rx <= 0 || ry <= 0 {
		return
	}

	f := d.field
	x0 := int(math.Floor(float64(cx - rx)))
	x1 := int(math.Ceil(float64(cx + rx)))
	y0 := int(math.Floor(float64(cy - ry)))
	y1 := int(math.Ceil(float64(cy + ry)))
	if x1 < 0 || y1 < 0 || x0 >= f.W || y0 >= f.H {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > f.W-1 {
		x1 = f.W - 1
	}
	if y1 > f.H-1 {
		y1 = f.H - 1
	}

	d.Deposits++
	var added float64
	invRX := 1 / rx
	invRY := 1 / ry
	for y := y0; y <= y1; y++ {
		ndy := (float32(y) - cy) * invRY
		row := y * f.W
		for x := x0; x <= x1; x++ {
			ndx := (float32(x) - cx) * invRX
			d2 := ndx*ndx + ndy*ndy
			if d2 > 1 {
				continue
			}
			fall := 1 - float32(math.Sqrt(float64(d2)))
			if d.RingPower > 0 {
				fall = float32(math.Pow(float64(fall), float64(d.RingPower)))
			}
			i := row + x
			old := f.Wet[i]
			w := old + fall*intensity*d.Scale*d.absorption[i]*d.boost(float32(x), float32(y))
			if w > f.Cap {
				w = f.Cap
			}
			f.Wet[i] = w
			added += float64(w) - float64(old)
		}
	}
	d.Deposited += added
}

// boost returns the seam pooling multiplier at a pixel.
func (d *Depositor) boost(x, y float32) float32 {
	if d.BoostRadius <= 0 || d.BoostPeak <= 1 {
		return 1
	}
	dx := x - d.BoostX
	dy := y - d.BoostY
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist >= d.BoostRadius {
		return 1
	}
	t := 1 - dist/d.BoostRadius
	t = t * t * (3 - 2*t)
	return 1 + (d.BoostPeak-1)*t
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
