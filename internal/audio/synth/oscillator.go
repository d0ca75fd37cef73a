package synth

import (
	"math"
	"time"
)

// Oscillator is a phase-accumulator sine.
type Oscillator struct {
	step  float64
	phase float64
}

// NewOscillator creates an Oscillator at frequency Hz.
func NewOscillator(frequency float64, sampleRate int) *Oscillator {
	return &Oscillator{step: 2 * math.Pi * frequency / float64(sampleRate)}
}

// Next returns the current sample and advances the phase.
func (oscillator *Oscillator) Next() float64 {
	value := math.Sin(oscillator.phase)
	oscillator.phase += oscillator.step
	if oscillator.phase >= 2*math.Pi {
		oscillator.phase -= 2 * math.Pi
	}
	return value
}

// ToneSpec describes a one-shot sine with an exponential gain ramp.
type ToneSpec struct {
	Frequency float64
	Duration  time.Duration
	StartGain float64
	EndGain   float64
}

// BeepTone is the session completion chime.
var BeepTone = ToneSpec{
	Frequency: 1000,
	Duration:  800 * time.Millisecond,
	StartGain: 0.3,
	EndGain:   0.01,
}

// Tone renders spec as mono samples.
func Tone(spec ToneSpec, sampleRate int) []float32 {
	n := int(spec.Duration.Seconds() * float64(sampleRate))
	if n <= 0 || spec.StartGain <= 0 || spec.EndGain <= 0 {
		return nil
	}
	samples := make([]float32, n)
	oscillator := NewOscillator(spec.Frequency, sampleRate)
	ratio := spec.EndGain / spec.StartGain
	for i := range samples {
		progress := float64(i) / float64(n)
		gain := spec.StartGain * math.Pow(ratio, progress)
		samples[i] = float32(oscillator.Next() * gain)
	}
	return samples
}

// Smoothstep eases t in [0, 1] with zero slope at both ends.
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// ToInt16 converts a float sample in [-1, 1] to PCM, clipping outside values.
func ToInt16(sample float32) int16 {
	scaled := float64(sample) * 32767
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}
