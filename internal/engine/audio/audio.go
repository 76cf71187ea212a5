// Package audio plays short sound effects for movement feedback.
package audio

import (
	"fmt"
	gomath "math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the playback sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// Manager owns the speaker and a set of preloaded effects. A manager
// whose Init failed stays usable: loads and plays become no-ops, so
// broken audio never takes the game down with it.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	effects map[string]*beep.Buffer

	masterVolume  float64
	effectsVolume float64
}

// New creates an audio manager at full volume.
func New() *Manager {
	return &Manager{
		masterVolume:  1.0,
		effectsVolume: 1.0,
		effects:       make(map[string]*beep.Buffer),
	}
}

// Init opens the speaker. Calling Init on an initialized manager is a
// no-op; a failed Init leaves the manager disabled.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	m.initialized = true
	return nil
}

// Close stops all playback and shuts the speaker down.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.initialized = false
}

// Enabled reports whether the speaker is running.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetVolumes sets the master and effects volumes, both 0 to 1.
func (m *Manager) SetVolumes(master, effects float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(master, 0, 1)
	m.effectsVolume = clamp(effects, 0, 1)
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// EffectsVolume returns the effects volume.
func (m *Manager) EffectsVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.effectsVolume
}

// LoadEffect decodes a WAV file and stores it under name, resampled to
// the playback rate and buffered so Play never re-decodes. On a
// disabled manager it is a no-op.
func (m *Manager) LoadEffect(name, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		src = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  m.sampleRate,
		NumChannels: 2,
		Precision:   2,
	})
	buf.Append(src)
	m.effects[name] = buf
	return nil
}

// Loaded reports whether an effect with the given name is available.
func (m *Manager) Loaded(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.effects[name]
	return ok
}

// Play starts an effect without blocking. Unknown names, zero volume
// and a disabled manager are all silent.
func (m *Manager) Play(name string) {
	m.mu.RLock()
	buf := m.effects[name]
	initialized := m.initialized
	vol := m.masterVolume * m.effectsVolume
	m.mu.RUnlock()

	if !initialized || buf == nil || vol <= 0 {
		return
	}

	speaker.Play(&effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeExponent(vol),
	})
}

// volumeExponent converts a 0-1 volume into the exponent applied to
// the Volume effect's base of 2, so the resulting gain equals vol.
func volumeExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return gomath.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
