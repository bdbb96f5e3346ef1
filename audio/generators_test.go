package audio

import (
	"math"
	"testing"

	"seep/config"
)

func rms(samples [][2]float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s[0] * s[0]
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func TestRainGeneratorSilentAtZeroTarget(t *testing.T) {
	g := NewRainGenerator(1)

	samples := make([][2]float64, 4800)
	n, ok := g.Stream(samples)
	if !ok || n != len(samples) {
		t.Fatalf("stream returned n=%d ok=%v", n, ok)
	}
	for i, s := range samples {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("sample %d not silent at zero target: %v", i, s)
		}
	}
}

func TestRainGeneratorFollowsTarget(t *testing.T) {
	g := NewRainGenerator(1)
	g.target = 1

	first := make([][2]float64, 4800)
	g.Stream(first)

	// Run the level most of the way up, then measure again.
	skip := make([][2]float64, 48000)
	g.Stream(skip)
	later := make([][2]float64, 4800)
	g.Stream(later)

	if rms(later) <= rms(first) {
		t.Errorf("level should rise toward target: first rms %f, later rms %f", rms(first), rms(later))
	}
	for i, s := range later {
		if s[0] < -1 || s[0] > 1 {
			t.Fatalf("sample %d out of range: %f", i, s[0])
		}
	}

	// Pull the target back down and the level must follow.
	g.target = 0
	g.Stream(skip)
	g.Stream(skip)
	faded := make([][2]float64, 4800)
	g.Stream(faded)
	if rms(faded) >= rms(later)*0.1 {
		t.Errorf("level should fall after target drops: %f vs %f", rms(faded), rms(later))
	}
}

func TestPlinkGeneratorDecays(t *testing.T) {
	g := NewPlinkGenerator(sampleRate, 1800, 0.2)

	head := make([][2]float64, 1000)
	g.Stream(head)

	// Advance to ~200ms.
	skip := make([][2]float64, 8600)
	g.Stream(skip)
	tail := make([][2]float64, 1000)
	g.Stream(tail)

	var headPeak, tailPeak float64
	for _, s := range head {
		if a := math.Abs(s[0]); a > headPeak {
			headPeak = a
		}
	}
	for _, s := range tail {
		if a := math.Abs(s[0]); a > tailPeak {
			tailPeak = a
		}
	}

	if headPeak <= 0 {
		t.Fatal("plink produced no signal")
	}
	if tailPeak > headPeak*0.05 {
		t.Errorf("plink did not decay: head peak %f, tail peak %f", headPeak, tailPeak)
	}
	if g.Err() != nil {
		t.Errorf("unexpected error: %v", g.Err())
	}
}

func TestManagerDisabledIsNil(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Audio.Enabled = false

	m := NewManager(cfg)
	if m != nil {
		t.Fatal("disabled audio should yield a nil manager")
	}

	// The nil manager must swallow every call.
	if err := m.Start(); err != nil {
		t.Errorf("nil start: %v", err)
	}
	m.SetIntensity(0.5)
	m.Plink(1)
	m.SetVolume(0.2)
	m.Stop()
}
