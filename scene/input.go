package scene

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"seep/config"
)

// handleInput processes keyboard and mouse input.
func (s *Scene) handleInput() {
	s.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		s.paused = !s.paused
		if s.paused {
			s.sound.SetIntensity(0)
		}
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && s.stepsPerUpdate > 1 {
		s.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && s.stepsPerUpdate < 10 {
		s.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyR) {
		s.eng.SetRaining(!s.eng.Raining())
	}

	if rl.IsKeyPressed(rl.KeyT) {
		s.toggleTopology()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		s.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyI) {
		s.probe.Toggle()
	}

	s.handleMouse()
}

// handleResize checks for window resize and rebuilds the surface at the new
// grid size.
func (s *Scene) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == s.screenW && h == s.screenH {
		return
	}
	s.screenW = w
	s.screenH = h
	s.gridW = int(w) / s.cfg.Screen.Scale
	s.gridH = int(h) / s.cfg.Screen.Scale

	if err := s.rebuildSurface(); err != nil {
		slog.Error("surface rebuild failed", "error", err)
		return
	}
	s.panel.SetPosition(int32(w)-panelWidth-10, 10)
}

// toggleTopology flips between the flat pane and the wall/floor corner and
// rebuilds the surface.
func (s *Scene) toggleTopology() {
	if s.cfg.Surface.Topology == config.TopologyCorner {
		s.cfg.Surface.Topology = config.TopologyFlat
	} else {
		s.cfg.Surface.Topology = config.TopologyCorner
	}
	if err := s.rebuildSurface(); err != nil {
		slog.Error("surface rebuild failed", "error", err)
	}
}

// handleMouse applies the splash brush and the drain drag. Clicks on the
// tuning panel never reach the surface.
func (s *Scene) handleMouse() {
	mouse := rl.GetMousePosition()
	if s.panel.Contains(mouse) {
		return
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		if gx, gy, ok := s.toGrid(mouse); ok {
			radius := float32(s.cfg.Shower.RadiusMax) * 2
			s.eng.Splash(gx, gy, radius, float32(s.cfg.Shower.StrengthMax))
		}
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		if gx, gy, ok := s.toGrid(mouse); ok {
			s.eng.SetDrain(gx, gy)
		}
	}
}

// toGrid maps a window position to grid coordinates.
func (s *Scene) toGrid(v rl.Vector2) (float32, float32, bool) {
	if s.screenW <= 0 || s.screenH <= 0 {
		return 0, 0, false
	}
	gx := v.X * float32(s.gridW) / s.screenW
	gy := v.Y * float32(s.gridH) / s.screenH
	if gx < 0 || gy < 0 || gx >= float32(s.gridW) || gy >= float32(s.gridH) {
		return 0, 0, false
	}
	return gx, gy, true
}
