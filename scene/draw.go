package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"seep/renderer"
	"seep/telemetry"
	"seep/ui"
)

const controlsHelp = "SPACE: Pause | < >: Speed | R: Rain | T: Topology | P: Panel | I: Probe | LMB: Splash | RMB: Drain"

// Draw composites the field, uploads it, and renders the frame with HUD,
// tuning panel, and pixel probe on top.
func (s *Scene) Draw() {
	s.perf.RecordFrame()

	if s.timingOpen {
		s.perf.StartPhase(telemetry.PhaseComposite)
	}
	frame := s.eng.Render()
	s.surfaceRenderer.Update(frame, s.gridW, s.gridH)

	if s.timingOpen {
		s.perf.StartPhase(telemetry.PhasePresent)
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	s.surfaceRenderer.Draw()

	level := float32(s.cfg.Telemetry.CoverageLevel * s.cfg.Deposit.SaturationCap)
	s.hud.Draw(renderer.HUDData{
		Tick:      s.tick,
		FPS:       rl.GetFPS(),
		Speed:     s.stepsPerUpdate,
		Topology:  string(s.cfg.Surface.Topology),
		Intensity: s.eng.Intensity(),
		Droplets:  s.eng.Droplets(),
		Coverage:  s.eng.Field().Coverage(level),
		Raining:   s.eng.Raining(),
		Paused:    s.paused,
	})
	s.hud.DrawControls(int32(s.screenH), controlsHelp)

	if s.panel.Draw(s.cfg) {
		s.eng.Retune()
	}

	mouse := rl.GetMousePosition()
	if s.probe.IsVisible() && !s.panel.Contains(mouse) {
		if data, ok := s.probeData(mouse); ok {
			s.probe.Draw(mouse, data, int32(s.screenW), int32(s.screenH))
		}
	}

	rl.EndDrawing()

	if s.timingOpen {
		s.perf.EndTick()
		s.timingOpen = false
	}
}

// probeData samples the cell under the cursor for the pixel probe.
func (s *Scene) probeData(mouse rl.Vector2) (ui.ProbeData, bool) {
	gx, gy, ok := s.toGrid(mouse)
	if !ok {
		return ui.ProbeData{}, false
	}

	f := s.eng.Field()
	x, y := int(gx), int(gy)
	i := f.Idx(x, y)
	m := s.eng.Maps()

	return ui.ProbeData{
		X:          x,
		Y:          y,
		Wetness:    f.Wet[i],
		Cap:        f.Cap,
		Absorption: m.Absorption[i],
		Highlight:  m.Highlight[i],
		EvapBias:   m.EvapBias[i],
	}, true
}
