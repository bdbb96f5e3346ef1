package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the run state shown in the corner overlay.
type HUDData struct {
	Tick      int64
	FPS       int32
	Speed     int
	Topology  string
	Intensity float32
	Droplets  int
	Coverage  float64
	Raining   bool
	Paused    bool
}

// HUD renders the status text block.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS), 10, 10, 16, rl.White)
	rl.DrawText(
		fmt.Sprintf("%s | Rain: %.2f | Droplets: %d | Coverage: %.1f%%",
			data.Topology, data.Intensity, data.Droplets, data.Coverage*100),
		10, 30, 16, rl.LightGray,
	)

	status, tint := "Raining", rl.SkyBlue
	if data.Paused {
		status, tint = "PAUSED", rl.Yellow
	} else if !data.Raining {
		status, tint = "Drying", rl.Orange
	}
	rl.DrawText(status, 10, 50, 16, tint)
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
