package sim

import (
	"math"
	"math/rand"

	"seep/config"
)

var neighborOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Diffuser performs the capillary spread: sparse stochastic transfers
// between neighboring cells, biased toward a drain. It is deliberately a
// sampled relaxation, not a full-grid solve, so per-tick cost follows the
// iteration budget rather than the surface resolution.
type Diffuser struct {
	field *Field
	rng   *rand.Rand

	Samples    int     // iteration budget at full intensity
	Threshold  float32 // cells drier than this never spread
	BaseFrac   float32 // fixed fraction of the surplus moved
	VarFrac    float32 // additional randomized fraction
	BaseWeight float32 // neighbor weight floor
	BiasGain   float32 // weight added per unit of drain alignment

	// Cumulative counters for telemetry.
	Moves uint64  // transfers that actually moved moisture
	Moved float64 // total moisture moved between cells

	strategy       config.DrainStrategy
	drainX, drainY float32 // point target in px
	dirX, dirY     float32 // unit flow direction
}

// NewDiffuser builds the diffusion pass for one surface configuration.
func NewDiffuser(f *Field, cfg *config.Config, rng *rand.Rand) *Diffuser {
	strategy := cfg.Diffusion.Drain.Strategy
	if strategy == config.DrainAuto {
		// The flat pane drains toward a point; on the corner the wall
		// streaks already shape the flow, so the walk stays uniform.
		if cfg.Surface.Topology == config.TopologyCorner {
			strategy = config.DrainNone
		} else {
			strategy = config.DrainPoint
		}
	}
	return &Diffuser{
		field:      f,
		rng:        rng,
		Samples:    cfg.Diffusion.Samples,
		Threshold:  float32(cfg.Diffusion.Threshold),
		BaseFrac:   float32(cfg.Diffusion.BaseFrac),
		VarFrac:    float32(cfg.Diffusion.VarFrac),
		BaseWeight: float32(cfg.Diffusion.BaseWeight),
		BiasGain:   float32(cfg.Diffusion.BiasGain),
		strategy:   strategy,
		drainX:     float32(cfg.Diffusion.Drain.PointX) * float32(f.W),
		drainY:     float32(cfg.Diffusion.Drain.PointY) * float32(f.H),
		dirX:       float32(cfg.Derived.DrainDirX),
		dirY:       float32(cfg.Derived.DrainDirY),
	}
}

// SetDrainPoint moves the point drain attractor, in grid coordinates, and
// switches the bias to the point strategy so the placement always takes
// effect.
func (df *Diffuser) SetDrainPoint(x, y float32) {
	df.strategy = config.DrainPoint
	df.drainX = x
	df.drainY = y
}

// Step runs this tick's iteration budget, scaled by the rain intensity. A
// dry ramp performs no work, so nothing drifts on an idle surface.
func (df *Diffuser) Step(intensity float32) {
	n := int(float64(df.Samples) * float64(intensity))
	for i := 0; i < n; i++ {
		df.transferOnce()
	}
}

// transferOnce picks a random wet cell and moves a fraction of its surplus
// to one biased neighbor. Whatever leaves the source lands on the neighbor,
// so diffusion neither creates nor destroys moisture.
func (df *Diffuser) transferOnce() {
	f := df.field
	idx := df.rng.Intn(len(f.Wet))
	wet := f.Wet[idx]
	if wet < df.Threshold {
		return
	}
	x := idx % f.W
	y := idx / f.W

	// Preferred flow direction at this cell.
	var bx, by float32
	switch df.strategy {
	case config.DrainPoint:
		dx := df.drainX - float32(x)
		dy := df.drainY - float32(y)
		if n := float32(math.Sqrt(float64(dx*dx + dy*dy))); n > 0 {
			bx = dx / n
			by = dy / n
		}
	case config.DrainDirection:
		bx = df.dirX
		by = df.dirY
	}

	// Cumulative weights over the in-bounds axis neighbors. The base weight
	// keeps every neighbor reachable, so the walk stays stochastic.
	var weights [4]float32
	var targets [4]int
	var total float32
	count := 0
	for _, off := range neighborOffsets {
		nx := x + off[0]
		ny := y + off[1]
		if nx < 0 || nx >= f.W || ny < 0 || ny >= f.H {
			continue
		}
		w := df.BaseWeight
		if align := float32(off[0])*bx + float32(off[1])*by; align > 0 {
			w += df.BiasGain * align
		}
		weights[count] = w
		targets[count] = ny*f.W + nx
		count++
		total += w
	}
	if count == 0 || total <= 0 {
		return
	}

	u := df.rng.Float32() * total
	pick := count - 1
	for i := 0; i < count; i++ {
		u -= weights[i]
		if u < 0 {
			pick = i
			break
		}
	}
	nIdx := targets[pick]

	diff := wet - f.Wet[nIdx]
	if diff <= 0 {
		return // never pull moisture uphill
	}
	move := diff * (df.BaseFrac + df.rng.Float32()*df.VarFrac)
	if headroom := f.Cap - f.Wet[nIdx]; move > headroom {
		move = headroom
	}
	if move <= 0 {
		return
	}
	f.Wet[idx] -= move
	f.Wet[nIdx] += move
	df.Moves++
	df.Moved += float64(move)
}
