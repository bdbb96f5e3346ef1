// Package audio provides the demo's sound layer: a looped rain ambience
// whose level follows the shower intensity, and short plinks on droplet
// impacts. Everything is synthesized; there are no sample assets.
package audio

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"seep/config"
)

const sampleRate = beep.SampleRate(48000)

// Manager owns the speaker, the mixer, and the ambience voice. A nil
// manager (audio disabled) swallows every call, so callers never branch.
type Manager struct {
	mu        sync.Mutex
	mixer     *beep.Mixer
	rain      *RainGenerator
	rainCtrl  *beep.Ctrl
	rng       *rand.Rand
	volume    float64
	lastPlink time.Time
	running   bool
}

// NewManager creates the manager, or nil when the config disables audio.
// Start must be called before any sound plays.
func NewManager(cfg *config.Config) *Manager {
	if !cfg.Audio.Enabled {
		return nil
	}
	return &Manager{
		mixer:  &beep.Mixer{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		volume: cfg.Audio.Volume,
	}
}

// Start opens the speaker and begins the ambience loop at zero level.
func (m *Manager) Start() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	m.rain = NewRainGenerator(m.volume)
	m.rainCtrl = &beep.Ctrl{Streamer: m.rain}
	m.mixer.Add(m.rainCtrl)
	speaker.Play(m.mixer)

	m.running = true
	return nil
}

// SetIntensity drives the ambience level from the rain ramp, in [0, 1].
func (m *Manager) SetIntensity(v float32) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	speaker.Lock()
	m.rain.target = float64(v)
	speaker.Unlock()
}

// Plink spawns one impact voice, pitched by the droplet's strength. Calls
// are rate limited so a dense shower does not stack hundreds of voices.
func (m *Manager) Plink(strength float32) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	now := time.Now()
	if now.Sub(m.lastPlink) < 45*time.Millisecond {
		return
	}
	m.lastPlink = now

	// Heavier droplets ring lower and louder.
	freq := 2400 - 1200*float64(strength) + m.rng.Float64()*220
	gain := 0.16 * m.volume * (0.4 + 0.6*float64(strength))
	voice := NewPlinkGenerator(sampleRate, freq, gain)

	speaker.Lock()
	m.mixer.Add(beep.Take(sampleRate.N(120*time.Millisecond), voice))
	speaker.Unlock()
}

// SetVolume sets the master level, in [0, 1].
func (m *Manager) SetVolume(v float64) {
	if m == nil {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
	if m.running {
		speaker.Lock()
		m.rain.volume = v
		speaker.Unlock()
	}
}

// Stop silences everything. The speaker itself stays open; beep does not
// expose a close.
func (m *Manager) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	speaker.Lock()
	m.rainCtrl.Paused = true
	m.mixer.Clear()
	speaker.Unlock()
	m.running = false
}
