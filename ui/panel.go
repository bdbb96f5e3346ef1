package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"seep/config"
)

// TuningPanel exposes the live simulation parameters as sliders. Slider
// movement lands directly in the config; the caller pushes the new values
// into the engine afterwards.
type TuningPanel struct {
	r       *Renderer
	x, y    int32
	width   int32
	visible bool

	saved config.Config
}

// NewTuningPanel creates the panel. The config snapshot taken here backs
// the reset button.
func NewTuningPanel(x, y, width int32, cfg *config.Config) *TuningPanel {
	return &TuningPanel{
		r:     NewRenderer(),
		x:     x,
		y:     y,
		width: width,
		saved: *cfg,
	}
}

// SetPosition moves the panel.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *TuningPanel) IsVisible() bool {
	return p.visible
}

// Contains reports whether the point lies inside the visible panel. Used to
// keep panel clicks from reaching the surface underneath.
func (p *TuningPanel) Contains(v rl.Vector2) bool {
	if !p.visible {
		return false
	}
	return v.X >= float32(p.x) && v.X < float32(p.x+p.width) &&
		v.Y >= float32(p.y) && v.Y < float32(p.y+p.Height())
}

// Height returns the panel height for layout checks.
func (p *TuningPanel) Height() int32 {
	t := p.r.Theme
	slider := t.LineHeight + 20
	section := t.LineHeight + 2
	return t.Padding*2 + 26 + 5*section + 14*slider + 30
}

// Draw renders the panel and applies slider movement to cfg. It reports
// whether any value changed this frame.
func (p *TuningPanel) Draw(cfg *config.Config) bool {
	if !p.visible {
		return false
	}

	t := p.r.Theme
	p.r.DrawPanel(p.x, p.y, p.width, p.Height())

	x := p.x + t.Padding
	w := float32(p.width - t.Padding*2)
	y := p.y + t.Padding

	rl.DrawText("Tuning", x, y, 18, rl.White)
	y += 26

	changed := false

	slider := func(label, format string, field *float64, lo, hi float32) {
		rl.DrawText(label, x, y, t.FontSize, t.LabelColor)
		value := fmt.Sprintf(format, *field)
		rl.DrawText(value, x+int32(w)-rl.MeasureText(value, t.FontSize), y, t.FontSize, t.ValueColor)
		y += t.LineHeight
		got := gui.SliderBar(rl.Rectangle{X: float32(x), Y: float32(y), Width: w, Height: 14}, "", "", float32(*field), lo, hi)
		if got != float32(*field) {
			*field = float64(got)
			changed = true
		}
		y += 20
	}

	intSlider := func(label string, field *int, lo, hi float32) {
		rl.DrawText(label, x, y, t.FontSize, t.LabelColor)
		value := fmt.Sprintf("%d", *field)
		rl.DrawText(value, x+int32(w)-rl.MeasureText(value, t.FontSize), y, t.FontSize, t.ValueColor)
		y += t.LineHeight
		got := gui.SliderBar(rl.Rectangle{X: float32(x), Y: float32(y), Width: w, Height: 14}, "", "", float32(*field), lo, hi)
		if int(got) != *field {
			*field = int(got)
			changed = true
		}
		y += 20
	}

	y = p.r.DrawSectionHeader(x, y, "Rain")
	slider("Density", "%.0f", &cfg.Shower.Density, 0, 120)
	slider("Ramp s", "%.0f", &cfg.Shower.RampSeconds, 1, 300)
	slider("Gravity", "%.0f", &cfg.Shower.Fall.Gravity, 50, 900)
	slider("Wind", "%.0f", &cfg.Shower.WindX, -60, 60)

	y = p.r.DrawSectionHeader(x, y, "Deposit")
	slider("Scale", "%.2f", &cfg.Deposit.Scale, 0, 2)
	slider("Sat. cap", "%.2f", &cfg.Deposit.SaturationCap, 0.2, 4)

	y = p.r.DrawSectionHeader(x, y, "Spread")
	intSlider("Budget", &cfg.Diffusion.Samples, 0, 6000)
	slider("Move frac", "%.2f", &cfg.Diffusion.BaseFrac, 0, 0.5)
	slider("Drain pull", "%.1f", &cfg.Diffusion.BiasGain, 0, 8)

	y = p.r.DrawSectionHeader(x, y, "Drying")
	slider("Gain", "%.2f", &cfg.Evaporation.Gain, 0.1, 4)
	slider("Heat pulse", "%.3f", &cfg.Evaporation.HeatAmplitude, 0, 0.2)

	y = p.r.DrawSectionHeader(x, y, "Shading")
	slider("Darken", "%.2f", &cfg.Shading.Darken, 0, 0.8)
	slider("Cool shift", "%.0f", &cfg.Shading.CoolShift, 0, 60)
	slider("Specular", "%.2f", &cfg.Shading.Specular, 0, 2)

	y += 6
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: 90, Height: 24}, "Reset") {
		p.reset(cfg)
		changed = true
	}

	return changed
}

// reset restores the slider-bound fields from the construction snapshot.
// Everything else in the config (topology, screen, drain position) keeps
// its current value.
func (p *TuningPanel) reset(cfg *config.Config) {
	cfg.Shower.Density = p.saved.Shower.Density
	cfg.Shower.RampSeconds = p.saved.Shower.RampSeconds
	cfg.Shower.Fall.Gravity = p.saved.Shower.Fall.Gravity
	cfg.Shower.WindX = p.saved.Shower.WindX

	cfg.Deposit.Scale = p.saved.Deposit.Scale
	cfg.Deposit.SaturationCap = p.saved.Deposit.SaturationCap

	cfg.Diffusion.Samples = p.saved.Diffusion.Samples
	cfg.Diffusion.BaseFrac = p.saved.Diffusion.BaseFrac
	cfg.Diffusion.BiasGain = p.saved.Diffusion.BiasGain

	cfg.Evaporation.Gain = p.saved.Evaporation.Gain
	cfg.Evaporation.HeatAmplitude = p.saved.Evaporation.HeatAmplitude

	cfg.Shading.Darken = p.saved.Shading.Darken
	cfg.Shading.CoolShift = p.saved.Shading.CoolShift
	cfg.Shading.Specular = p.saved.Shading.Specular
}
