// Surface texture preview tool - interactive visualization with sliders.
//
// Renders the base color next to the three support maps the simulation
// consumes, regenerating all four whenever a parameter changes.
//
// Usage: go run ./cmd/texpreview
package main

import (
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"seep/config"
	"seep/sim"
	"seep/texture"
)

const (
	windowWidth  = 1300
	windowHeight = 800
	gridW        = 320 // synthesis resolution
	gridH        = 180
	tileW        = 480 // on-screen tile size
	tileH        = 270
	panelWidth   = windowWidth - 2*tileW - 40
)

// TextureParams holds the surface synthesis parameters.
type TextureParams struct {
	GrainScale   float32
	GrainOctaves int
	GrainGain    float32
	CrackCount   int
	CrackDepth   float32
	Vignette     float32
	CornerLine   float32
	Corner       bool
	Seed         int64
}

// defaultParams mirrors the embedded config defaults.
func defaultParams() TextureParams {
	return TextureParams{
		GrainScale:   5.0,
		GrainOctaves: 4,
		GrainGain:    0.5,
		CrackCount:   6,
		CrackDepth:   0.35,
		Vignette:     0.22,
		CornerLine:   0.64,
		Corner:       false,
		Seed:         12345,
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Surface Texture Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()

	// One texture per product, all sharing the synthesis resolution
	img := rl.GenImageColor(gridW, gridH, rl.Black)
	baseTex := rl.LoadTextureFromImage(img)
	absTex := rl.LoadTextureFromImage(img)
	highTex := rl.LoadTextureFromImage(img)
	evapTex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(baseTex)
	defer rl.UnloadTexture(absTex)
	defer rl.UnloadTexture(highTex)
	defer rl.UnloadTexture(evapTex)

	// GUI state
	var surf sim.Surface
	needsRegen := true

	for !rl.WindowShouldClose() {
		// Regenerate if needed
		if needsRegen {
			applyParams(cfg, params)
			surf = texture.Build(gridW, gridH, params.Seed, cfg)
			rl.UpdateTexture(baseTex, surf.Base)
			rl.UpdateTexture(absTex, grayscale(surf.Maps.Absorption))
			rl.UpdateTexture(highTex, grayscale(surf.Maps.Highlight))
			rl.UpdateTexture(evapTex, grayscale(surf.Maps.EvapBias))
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw the four products in a 2x2 grid
		drawTile(baseTex, 10, 10, "Base color")
		drawTile(absTex, 20+tileW, 10, "Absorption")
		drawTile(highTex, 10, 36+tileH, "Highlight")
		drawTile(evapTex, 20+tileW, 36+tileH, "Evaporation bias")

		// Draw stats
		aLo, aHi := mapRange(surf.Maps.Absorption)
		hLo, hHi := mapRange(surf.Maps.Highlight)
		eLo, eHi := mapRange(surf.Maps.EvapBias)
		statsY := int32(36 + 2*tileH + 28)
		rl.DrawText(fmt.Sprintf("Absorption: %.2f..%.2f   Highlight: %.2f..%.2f   Evap bias: %.3f..%.3f",
			aLo, aHi, hLo, hHi, eLo, eHi), 15, statsY, 16, rl.DarkGray)
		rl.DrawText("Support maps shown normalized to their own range", 15, statsY+20, 14, rl.Gray)

		// Control panel
		panelX := float32(2*tileW + 30)
		panelY := float32(10)

		rl.DrawText("Surface Texture Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Grain scale slider
		rl.DrawText("Grain scale (base noise frequency)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1.0", "12.0",
			params.GrainScale, 1.0, 12.0,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.GrainScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.GrainScale {
			params.GrainScale = newScale
			needsRegen = true
		}
		panelY += 35

		// Grain octaves slider
		rl.DrawText("Grain octaves (FBM detail level)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newOctaves := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "6",
			float32(params.GrainOctaves), 1, 6,
		)
		rl.DrawText(fmt.Sprintf("%d", params.GrainOctaves), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newOctaves) != params.GrainOctaves {
			params.GrainOctaves = int(newOctaves)
			needsRegen = true
		}
		panelY += 35

		// Grain gain slider
		rl.DrawText("Grain gain (amplitude per octave)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newGain := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.2", "0.9",
			params.GrainGain, 0.2, 0.9,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.GrainGain), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newGain != params.GrainGain {
			params.GrainGain = newGain
			needsRegen = true
		}
		panelY += 35

		// Crack count slider
		rl.DrawText("Crack count (per 100k cells)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCracks := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "30",
			float32(params.CrackCount), 0, 30,
		)
		rl.DrawText(fmt.Sprintf("%d", params.CrackCount), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newCracks) != params.CrackCount {
			params.CrackCount = int(newCracks)
			needsRegen = true
		}
		panelY += 35

		// Crack depth slider
		rl.DrawText("Crack depth (darkening + absorption)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newDepth := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1.0",
			params.CrackDepth, 0, 1.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.CrackDepth), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newDepth != params.CrackDepth {
			params.CrackDepth = newDepth
			needsRegen = true
		}
		panelY += 35

		// Vignette slider
		rl.DrawText("Vignette (edge darkening)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newVignette := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "0.6",
			params.Vignette, 0, 0.6,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Vignette), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newVignette != params.Vignette {
			params.Vignette = newVignette
			needsRegen = true
		}
		panelY += 35

		// Corner line slider
		rl.DrawText("Corner line (wall/floor split, corner only)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newLine := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.05", "0.95",
			params.CornerLine, 0.05, 0.95,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.CornerLine), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newLine != params.CornerLine {
			params.CornerLine = newLine
			if params.Corner {
				needsRegen = true
			}
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Corner, "Corner", "Flat")) {
			params.Corner = !params.Corner
			needsRegen = true
		}

		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		// Copy to clipboard on C key
		if rl.IsKeyPressed(rl.KeyC) {
			yaml := ""
			for _, line := range yamlLines(params) {
				yaml += line + "\n"
			}
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// drawTile draws one labeled product scaled up from synthesis resolution.
func drawTile(tex rl.Texture2D, x, y float32, label string) {
	rl.DrawText(label, int32(x), int32(y), 16, rl.DarkGray)
	rl.DrawTexturePro(
		tex,
		rl.Rectangle{X: 0, Y: 0, Width: float32(gridW), Height: float32(gridH)},
		rl.Rectangle{X: x, Y: y + 18, Width: tileW, Height: tileH},
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)
	rl.DrawRectangleLines(int32(x), int32(y+18), tileW, tileH, rl.DarkGray)
}

// applyParams writes the slider state into the config consumed by Build.
func applyParams(cfg *config.Config, p TextureParams) {
	cfg.Texture.GrainScale = float64(p.GrainScale)
	cfg.Texture.GrainOctaves = p.GrainOctaves
	cfg.Texture.GrainGain = float64(p.GrainGain)
	cfg.Texture.CrackCount = p.CrackCount
	cfg.Texture.CrackDepth = float64(p.CrackDepth)
	cfg.Texture.Vignette = float64(p.Vignette)
	cfg.Surface.CornerLine = float64(p.CornerLine)
	if p.Corner {
		cfg.Surface.Topology = config.TopologyCorner
	} else {
		cfg.Surface.Topology = config.TopologyFlat
	}
}

// yamlLines renders the current parameters as config file lines.
func yamlLines(p TextureParams) []string {
	topology := "flat"
	if p.Corner {
		topology = "corner"
	}
	return []string{
		"texture:",
		fmt.Sprintf("  grain_scale: %.1f", p.GrainScale),
		fmt.Sprintf("  grain_octaves: %d", p.GrainOctaves),
		fmt.Sprintf("  grain_gain: %.2f", p.GrainGain),
		fmt.Sprintf("  crack_count: %d", p.CrackCount),
		fmt.Sprintf("  crack_depth: %.2f", p.CrackDepth),
		fmt.Sprintf("  vignette: %.2f", p.Vignette),
		"surface:",
		fmt.Sprintf("  topology: %s", topology),
		fmt.Sprintf("  corner_line: %.2f", p.CornerLine),
	}
}

// grayscale maps a support map to pixels, normalized to its own range so
// structure stays visible whatever the absolute values are.
func grayscale(values []float32) []color.RGBA {
	lo, hi := mapRange(values)
	scale := float32(0)
	if hi > lo {
		scale = 1 / (hi - lo)
	}
	pixels := make([]color.RGBA, len(values))
	for i, v := range values {
		g := uint8(255 * (v - lo) * scale)
		pixels[i] = color.RGBA{R: g, G: g, B: g, A: 255}
	}
	return pixels
}

// mapRange returns the min and max of a support map.
func mapRange(values []float32) (float32, float32) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
