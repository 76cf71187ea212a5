package audio

import (
	gomath "math"
	"testing"
)

func TestVolumeExponent(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},     // Full volume leaves the signal untouched
		{0.5, -1},    // Base 2, so half volume is one step down
		{0.25, -2},
		{0.125, -3},
		{0.0, -100},  // Zero and below are pinned far down
		{-0.5, -100},
	}

	for _, tt := range tests {
		got := volumeExponent(tt.vol)
		if gomath.Abs(got-tt.want) > 1e-9 {
			t.Errorf("volumeExponent(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestVolumeExponentRoundTrips(t *testing.T) {
	// The exponent must invert back to the requested volume through
	// the Volume effect's base of 2.
	for _, vol := range []float64{1.0, 0.7, 0.5, 0.3, 0.1} {
		gain := gomath.Pow(2, volumeExponent(vol))
		if gomath.Abs(gain-vol) > 1e-9 {
			t.Errorf("gain for volume %f = %f", vol, gain)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		got := clamp(tt.v, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestNewManager(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}

	// Check default volumes
	if m.MasterVolume() != 1.0 {
		t.Errorf("default master volume = %f, want 1.0", m.MasterVolume())
	}
	if m.EffectsVolume() != 1.0 {
		t.Errorf("default effects volume = %f, want 1.0", m.EffectsVolume())
	}
	if m.Enabled() {
		t.Error("manager enabled before Init")
	}
}

func TestSetVolumes(t *testing.T) {
	m := New()

	m.SetVolumes(0.5, 0.8)
	if m.MasterVolume() != 0.5 {
		t.Errorf("master volume = %f, want 0.5", m.MasterVolume())
	}
	if m.EffectsVolume() != 0.8 {
		t.Errorf("effects volume = %f, want 0.8", m.EffectsVolume())
	}

	// Test clamping
	m.SetVolumes(2.0, -1.0)
	if m.MasterVolume() != 1.0 {
		t.Errorf("master volume = %f, want 1.0 (clamped)", m.MasterVolume())
	}
	if m.EffectsVolume() != 0.0 {
		t.Errorf("effects volume = %f, want 0.0 (clamped)", m.EffectsVolume())
	}
}

func TestDisabledManagerIsSilent(t *testing.T) {
	m := New()

	// A manager that never initialized must ignore loads and plays
	// instead of touching the speaker.
	if err := m.LoadEffect("step", "does/not/exist.wav"); err != nil {
		t.Errorf("LoadEffect on disabled manager: %v", err)
	}
	if m.Loaded("step") {
		t.Error("effect reported loaded on disabled manager")
	}
	m.Play("step")
	m.Play("unknown")
	m.Close()
}
