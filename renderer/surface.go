package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SurfaceRenderer presents the composited wetness frame. All shading happens
// on the CPU inside the engine; this type only uploads the pixel buffer and
// blits it scaled to the window.
type SurfaceRenderer struct {
	tex        rl.Texture2D
	texW, texH int

	screenW, screenH float32
	initialized      bool
}

// NewSurfaceRenderer creates a new surface renderer.
func NewSurfaceRenderer(screenW, screenH int32) *SurfaceRenderer {
	return &SurfaceRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init creates the frame texture (must be called after the raylib window is
// created).
func (r *SurfaceRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}

	r.texW = gridW
	r.texH = gridH

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.initialized = true
}

// Resize updates the window dimensions and recreates the frame texture when
// the simulation grid changed size.
func (r *SurfaceRenderer) Resize(gridW, gridH int, screenW, screenH float32) {
	r.screenW = screenW
	r.screenH = screenH

	if !r.initialized || (gridW == r.texW && gridH == r.texH) {
		return
	}

	rl.UnloadTexture(r.tex)
	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.texW = gridW
	r.texH = gridH
}

// Update uploads a composited frame to the GPU texture.
func (r *SurfaceRenderer) Update(pixels []color.RGBA, w, h int) {
	if !r.initialized {
		r.Init(w, h)
	}
	if len(pixels) != w*h || w != r.texW || h != r.texH {
		return
	}

	rl.UpdateTexture(r.tex, pixels)
}

// Draw blits the current frame scaled to the window.
func (r *SurfaceRenderer) Draw() {
	if !r.initialized {
		return
	}

	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *SurfaceRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.tex)
		r.initialized = false
	}
}
