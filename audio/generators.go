package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// RainGenerator streams endless filtered noise. The simulation thread sets
// target under the speaker lock; the stream eases its running level toward
// it so intensity changes never click.
type RainGenerator struct {
	seed   int64
	lp     float64
	level  float64
	target float64
	volume float64
}

// NewRainGenerator creates the ambience voice at zero level.
func NewRainGenerator(volume float64) *RainGenerator {
	return &RainGenerator{seed: 0x5eed, volume: volume}
}

// Stream fills samples with rain hiss.
func (g *RainGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		// One-pole lowpass gives the white noise some body.
		g.lp += 0.12 * (noise - g.lp)
		g.level += (g.target - g.level) * 0.0004

		s := g.lp * g.level * g.volume * 0.8
		samples[i][0] = s
		samples[i][1] = s
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *RainGenerator) Err() error { return nil }

// PlinkGenerator is a one-shot damped sine voice for a droplet impact.
// Wrap it in beep.Take; on its own it rings forever at vanishing level.
type PlinkGenerator struct {
	sr   beep.SampleRate
	freq float64
	gain float64
	pos  int
}

// NewPlinkGenerator creates an impact voice.
func NewPlinkGenerator(sr beep.SampleRate, freq, gain float64) *PlinkGenerator {
	return &PlinkGenerator{sr: sr, freq: freq, gain: gain}
}

// Stream fills samples with the decaying tone.
func (g *PlinkGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-t * 28)

		// Second harmonic for a glassy edge.
		s := g.gain * env * (math.Sin(2*math.Pi*g.freq*t) + 0.3*math.Sin(4*math.Pi*g.freq*t))
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *PlinkGenerator) Err() error { return nil }
