package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

const sampleRate = beep.SampleRate(44100)

// stepSound is a short low thud: a downward sine sweep under a fast
// decay, with a burst of noise on the transient so it reads as a
// footfall rather than a beep.
func stepSound(rng *rand.Rand) [][2]float64 {
	return synth(0.1, func(t float64) float64 {
		freq := 170 - 600*t
		env := math.Exp(-t * 45)
		s := 0.55 * env * math.Sin(2*math.Pi*freq*t)
		if t < 0.008 {
			s += 0.35 * (rng.Float64()*2 - 1) * (1 - t/0.008)
		}
		return s
	})
}

// jumpSound is a rising chirp with a soft attack.
func jumpSound() [][2]float64 {
	return synth(0.22, func(t float64) float64 {
		freq := 280 + 1200*t
		env := math.Min(t/0.01, 1) * math.Exp(-t*12)
		return 0.45 * env * math.Sin(2*math.Pi*freq*t)
	})
}

// synth renders duration seconds of the wave function into stereo
// samples, fading the last few milliseconds to zero to avoid a click.
func synth(duration float64, wave func(t float64) float64) [][2]float64 {
	n := int(duration * float64(sampleRate))
	samples := make([][2]float64, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		s := wave(t)
		if tail := duration - t; tail < 0.005 {
			s *= tail / 0.005
		}
		samples[i] = [2]float64{s, s}
	}
	return samples
}

// sampleStreamer drains a fixed buffer of samples once.
type sampleStreamer struct {
	samples [][2]float64
	pos     int
}

func (s *sampleStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := copy(out, s.samples[s.pos:])
	s.pos += n
	return n, true
}

func (s *sampleStreamer) Err() error { return nil }

// writeWAV encodes samples as a 16-bit stereo WAV file.
func writeWAV(path string, samples [][2]float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(file, &sampleStreamer{samples: samples}, format); err != nil {
		return err
	}
	fmt.Printf("  wrote %s\n", path)
	return nil
}
