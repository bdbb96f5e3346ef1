// Package texture synthesizes the static surface: the base color image and
// the three per-pixel support maps (absorption, highlight, evaporation
// bias) the simulation consumes. Everything here runs once per surface
// configuration.
package texture

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"seep/config"
	"seep/sim"
)

// Plaster tones the grain modulates between.
var (
	wallTone  = [3]float64{172, 164, 150}
	floorTone = [3]float64{150, 144, 134}
)

// Build synthesizes a ready-to-configure surface of w x h pixels. The same
// seed always produces the same surface.
func Build(w, h int, seed int64, cfg *config.Config) sim.Surface {
	b := &builder{
		w:     w,
		h:     h,
		cfg:   cfg,
		noise: opensimplex.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
	}
	return b.build()
}

type builder struct {
	w, h  int
	cfg   *config.Config
	noise opensimplex.Noise
	rng   *rand.Rand
}

func (b *builder) build() sim.Surface {
	n := b.w * b.h
	s := sim.Surface{
		Width:  b.w,
		Height: b.h,
		Maps: sim.SupportMaps{
			Absorption: make([]float32, n),
			Highlight:  make([]float32, n),
			EvapBias:   make([]float32, n),
		},
		Base: make([]color.RGBA, n),
	}

	corner := b.cfg.Surface.Topology == config.TopologyCorner
	seamY := b.cfg.Surface.CornerLine * float64(b.h)
	baseRate := b.cfg.Evaporation.BaseRate
	variance := b.cfg.Evaporation.Variance
	vignette := b.cfg.Texture.Vignette

	crack := b.crackMask()

	for y := 0; y < b.h; y++ {
		v := (float64(y) + 0.5) / float64(b.h)
		for x := 0; x < b.w; x++ {
			u := (float64(x) + 0.5) / float64(b.w)
			i := y*b.w + x

			grain := b.fbm(u, v, 0)       // tone and highlight
			porosity := b.fbm(u, v, 7.31) // absorption
			dryness := b.fbm(u, v, 13.7)  // evaporation bias

			tone := wallTone
			seamShade := 1.0
			if corner {
				if float64(y) >= seamY {
					tone = floorTone
				}
				// A soft shadow hugging the seam sells the junction.
				if d := math.Abs(float64(y) - seamY); d < 14 {
					seamShade = 0.72 + 0.28*(d/14)
				}
			}

			shade := (0.82 + 0.30*grain) * seamShade
			shade *= 1 - vignette*b.edge(u, v)
			shade *= 1 - float64(crack[i])*b.cfg.Texture.CrackDepth

			s.Base[i] = color.RGBA{
				R: toByte(tone[0] * shade),
				G: toByte(tone[1] * shade),
				B: toByte(tone[2] * shade),
				A: 255,
			}

			// Porous spots soak up more, cracks more still.
			s.Maps.Absorption[i] = float32(clamp(0.55+0.75*porosity+0.8*float64(crack[i]), 0.2, 2))

			// Only the polished high spots of the grain catch light.
			s.Maps.Highlight[i] = float32(smoothstep(0.62, 0.88, grain) * 0.75)

			// Per-pixel drying rate spread around the base, never near zero.
			s.Maps.EvapBias[i] = float32(math.Max(baseRate*0.1,
				baseRate*(1+variance*(dryness*2-1))))
		}
	}
	return s
}

// fbm samples layered noise in [0, 1]. The z offset decorrelates channels.
func (b *builder) fbm(u, v, z float64) float64 {
	freq := b.cfg.Texture.GrainScale
	gain := b.cfg.Texture.GrainGain
	amp := 1.0
	var sum, norm float64
	for o := 0; o < b.cfg.Texture.GrainOctaves; o++ {
		sum += amp * b.noise.Eval3(u*freq, v*freq, z)
		norm += amp
		freq *= 2
		amp *= gain
	}
	if norm == 0 {
		return 0.5
	}
	return clamp(sum/norm*0.5+0.5, 0, 1)
}

// crackMask walks decorative cracks across the surface and returns a mask
// in [0, 1], widest at the crack spine.
func (b *builder) crackMask() []float32 {
	mask := make([]float32, b.w*b.h)
	count := int(float64(b.cfg.Texture.CrackCount) * float64(b.w*b.h) / 100000.0)
	for c := 0; c < count; c++ {
		x := b.rng.Float64() * float64(b.w)
		y := b.rng.Float64() * float64(b.h)
		dir := b.rng.Float64() * 2 * math.Pi
		steps := b.h/3 + b.rng.Intn(b.h/3+1)
		for s := 0; s < steps; s++ {
			dir += (b.rng.Float64() - 0.5) * 0.9
			x += math.Cos(dir)
			y += math.Sin(dir)
			xi := int(x)
			yi := int(y)
			if xi < 0 || xi >= b.w || yi < 0 || yi >= b.h {
				break
			}
			mask[yi*b.w+xi] = 1
			// Feather one pixel to each side.
			if xi+1 < b.w && mask[yi*b.w+xi+1] < 0.4 {
				mask[yi*b.w+xi+1] = 0.4
			}
			if xi > 0 && mask[yi*b.w+xi-1] < 0.4 {
				mask[yi*b.w+xi-1] = 0.4
			}
		}
	}
	return mask
}

// edge returns 0 at the surface center rising to 1 at the corners.
func (b *builder) edge(u, v float64) float64 {
	du := u*2 - 1
	dv := v*2 - 1
	return clamp(math.Sqrt(du*du+dv*dv)/math.Sqrt2, 0, 1)
}

func smoothstep(lo, hi, x float64) float64 {
	t := clamp((x-lo)/(hi-lo), 0, 1)
	return t * t * (3 - 2*t)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
