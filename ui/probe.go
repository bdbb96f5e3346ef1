package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ProbeData carries the values of the cell the probe hovers over.
type ProbeData struct {
	X, Y       int
	Wetness    float32
	Cap        float32
	Absorption float32
	Highlight  float32
	EvapBias   float32
}

// PixelProbe shows the simulation values under the cursor in a small
// readout box that follows the mouse.
type PixelProbe struct {
	r       *Renderer
	visible bool
}

// NewPixelProbe creates a hidden probe.
func NewPixelProbe() *PixelProbe {
	return &PixelProbe{r: NewRenderer()}
}

// Toggle switches probe visibility.
func (p *PixelProbe) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the probe is shown.
func (p *PixelProbe) IsVisible() bool {
	return p.visible
}

// Draw renders the readout next to the cursor, flipping to the other side
// near the screen edges.
func (p *PixelProbe) Draw(mouse rl.Vector2, data ProbeData, screenW, screenH int32) {
	if !p.visible {
		return
	}

	t := p.r.Theme
	width := int32(170)
	height := t.Padding*2 + t.LineHeight*5 + 4

	x := int32(mouse.X) + 18
	y := int32(mouse.Y) + 18
	if x+width > screenW {
		x = int32(mouse.X) - width - 8
	}
	if y+height > screenH {
		y = int32(mouse.Y) - height - 8
	}

	p.r.DrawPanel(x, y, width, height)

	ix := x + t.Padding
	iy := y + t.Padding
	iy = p.r.DrawLabelValue(ix, iy, "Cell", fmt.Sprintf("%d, %d", data.X, data.Y))
	ratio := float32(0)
	if data.Cap > 0 {
		ratio = data.Wetness / data.Cap
	}
	iy = p.r.DrawBar(ix, iy, "Wet", ratio, width-t.Padding*2)
	iy = p.r.DrawLabelValue(ix, iy, "Wetness", fmt.Sprintf("%.3f / %.2f", data.Wetness, data.Cap))
	iy = p.r.DrawLabelValue(ix, iy, "Absorb", fmt.Sprintf("%.3f", data.Absorption))
	p.r.DrawLabelValue(ix, iy, "Dry rate", fmt.Sprintf("%.4f  hl %.2f", data.EvapBias, data.Highlight))
}
