package sim

import (
	"image/color"
	"math"

	"seep/config"
)

// Compositor turns the wetness field into the output pixel buffer: wet
// pixels darken, shift cool, and pick up specular light where the highlight
// map allows it. It reads the field and never writes it. The overlay pass
// afterwards draws transient droplet cosmetics straight into the buffer.
type Compositor struct {
	field     *Field
	highlight []float32
	base      []color.RGBA
	out       []color.RGBA
	pool      *rowPool

	Darken     float32
	WR, WG, WB float32
	CoolShift  float32
	Specular   float32

	StreakStretch float32
	StreakShade   float32
	FlashGain     float32
}

// NewCompositor builds the compositor for one surface configuration. The
// output buffer is allocated once and reused every frame.
func NewCompositor(f *Field, highlight []float32, base []color.RGBA, pool *rowPool, cfg *config.Config) *Compositor {
	return &Compositor{
		field:     f,
		highlight: highlight,
		base:      base,
		out:       make([]color.RGBA, len(base)),
		pool:      pool,

		Darken:    float32(cfg.Shading.Darken),
		WR:        float32(cfg.Shading.WeightR),
		WG:        float32(cfg.Shading.WeightG),
		WB:        float32(cfg.Shading.WeightB),
		CoolShift: float32(cfg.Shading.CoolShift),
		Specular:  float32(cfg.Shading.Specular),

		StreakStretch: float32(cfg.Overlay.StreakStretch),
		StreakShade:   float32(cfg.Overlay.StreakShade),
		FlashGain:     float32(cfg.Overlay.FlashGain),
	}
}

// Render composites the field over the base texture into the reused output
// buffer and returns it. Alpha passes through from the base.
func (c *Compositor) Render() []color.RGBA {
	f := c.field
	invCap := 1 / f.Cap
	c.pool.run(f.H, func(y0, y1 int) {
		for i := y0 * f.W; i < y1*f.W; i++ {
			ratio := f.Wet[i] * invCap
			if ratio > 1 {
				ratio = 1
			}
			b := c.base[i]
			r := float32(b.R)
			g := float32(b.G)
			bl := float32(b.B)

			// Wet surfaces read darker, with mild per-channel weighting.
			r *= 1 - c.Darken*c.WR*ratio
			g *= 1 - c.Darken*c.WG*ratio
			bl *= 1 - c.Darken*c.WB*ratio

			// Moisture pulls the color temperature cool.
			r -= c.CoolShift * ratio
			bl += c.CoolShift * ratio

			spec := c.Specular * c.highlight[i] * ratio * 255
			r += spec
			g += spec
			bl += spec

			c.out[i] = color.RGBA{R: clampByte(r), G: clampByte(g), B: clampByte(bl), A: b.A}
		}
	})
	return c.out
}

// Overlay draws the transient droplet cosmetics on top of the composited
// buffer: streak lines and droplet caps as multiply blends, impact flashes
// additively. Purely cosmetic, the field is never touched.
func (c *Compositor) Overlay(shower *Shower) {
	shower.EachDroplet(func(d *Droplet) {
		switch d.State {
		case StateFalling, StateWallSliding:
			c.drawStreak(d)
			c.drawCap(d)
		case StateFloorFlowing:
			c.drawCap(d)
		}
	})
	if shower.Flashes != nil {
		for i := range shower.Flashes.Flashes {
			c.drawFlash(&shower.Flashes.Flashes[i])
		}
	}
}

// drawStreak brightens a vertical trail above the droplet, scaled by its
// speed, fading toward the tail.
func (c *Compositor) drawStreak(d *Droplet) {
	f := c.field
	x := int(d.X)
	if x < 0 || x >= f.W {
		return
	}
	length := int(d.VY * c.StreakStretch)
	if length < 2 {
		length = 2
	}
	head := int(d.Y)
	for y := head - length; y <= head; y++ {
		if y < 0 || y >= f.H {
			continue
		}
		t := 1 - float32(head-y)/float32(length)
		c.scalePixel(y*f.W+x, 1+c.StreakShade*t*d.Strength)
	}
}

// drawCap brightens a small disc at the droplet itself.
func (c *Compositor) drawCap(d *Droplet) {
	f := c.field
	r := d.Radius * 0.6
	if r < 1 {
		r = 1
	}
	x0, x1, y0, y1 := clipBox(d.X, d.Y, r, r, f.W, f.H)
	inv := 1 / r
	for y := y0; y <= y1; y++ {
		dy := (float32(y) - d.Y) * inv
		for x := x0; x <= x1; x++ {
			dx := (float32(x) - d.X) * inv
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			fall := 1 - float32(math.Sqrt(float64(d2)))
			c.scalePixel(y*f.W+x, 1+0.4*fall*d.Strength)
		}
	}
}

// drawFlash adds a radial glow that fades with the flash's remaining life.
func (c *Compositor) drawFlash(fl *ImpactFlash) {
	f := c.field
	if fl.Radius <= 0 || fl.MaxLife <= 0 {
		return
	}
	gain := c.FlashGain * fl.Strength * (fl.Life / fl.MaxLife)
	if gain <= 0 {
		return
	}
	x0, x1, y0, y1 := clipBox(fl.X, fl.Y, fl.Radius, fl.Radius, f.W, f.H)
	inv := 1 / fl.Radius
	for y := y0; y <= y1; y++ {
		dy := (float32(y) - fl.Y) * inv
		for x := x0; x <= x1; x++ {
			dx := (float32(x) - fl.X) * inv
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			c.addPixel(y*f.W+x, gain*(1-float32(math.Sqrt(float64(d2)))))
		}
	}
}

// scalePixel multiplies a pixel's color channels, clamping at white.
func (c *Compositor) scalePixel(i int, scale float32) {
	p := &c.out[i]
	p.R = clampByte(float32(p.R) * scale)
	p.G = clampByte(float32(p.G) * scale)
	p.B = clampByte(float32(p.B) * scale)
}

// addPixel adds equally to a pixel's color channels, clamping at white.
func (c *Compositor) addPixel(i int, add float32) {
	p := &c.out[i]
	p.R = clampByte(float32(p.R) + add)
	p.G = clampByte(float32(p.G) + add)
	p.B = clampByte(float32(p.B) + add)
}

// clipBox returns the grid-clipped bounding box of an ellipse, inclusive.
// Callers must handle an empty box via the loop bounds.
func clipBox(cx, cy, rx, ry float32, w, h int) (x0, x1, y0, y1 int) {
	x0 = int(math.Floor(float64(cx - rx)))
	x1 = int(math.Ceil(float64(cx + rx)))
	y0 = int(math.Floor(float64(cy - ry)))
	y1 = int(math.Ceil(float64(cy + ry)))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	return
}

func clampByte(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
