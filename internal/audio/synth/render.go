package synth

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	// Headroom is the peak bound of a rendered loop before filtering.
	Headroom = 0.9

	loopFade = 50 * time.Millisecond
)

// Buffer is a two-channel loop of float samples.
type Buffer struct {
	SampleRate int
	Left       []float32
	Right      []float32
}

// Frames returns the number of stereo frames.
func (buffer Buffer) Frames() int {
	return len(buffer.Left)
}

// Duration returns the playback length of the buffer.
func (buffer Buffer) Duration() time.Duration {
	if buffer.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(buffer.Frames()) / float64(buffer.SampleRate) * float64(time.Second))
}

// NewRand returns a random source seeded from the clock.
func NewRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>7|1))
}

// Render synthesises one seamless loop of recipe.
// Binaural recipes render both tones with whole cycles per loop; additive
// recipes have their slow sines snapped to whole cycles and the loop tail
// crossfaded into the head. The recipe filter is not applied.
func Render(recipe Recipe, sampleRate int, rng *rand.Rand) Buffer {
	if rng == nil {
		rng = NewRand()
	}
	frames := int(recipe.LoopSeconds * float64(sampleRate))
	if frames <= 0 {
		return Buffer{SampleRate: sampleRate}
	}
	if recipe.Binaural != nil {
		return renderBinaural(*recipe.Binaural, recipe.GainScale, frames, sampleRate)
	}

	fade := int(loopFade.Seconds() * float64(sampleRate))
	if fade > frames/4 {
		fade = frames / 4
	}
	total := frames + fade
	left := make([]float32, total)
	right := make([]float32, total)

	scale := headroomScale(recipe.Components)
	for _, component := range recipe.Components {
		rate := snapRate(component.Rate, frames)
		for i := 0; i < total; i++ {
			value := component.sample(i, rate, rng) * scale
			left[i] += float32(value * component.Left)
			right[i] += float32(value * component.Right)
		}
	}

	for i := 0; i < fade; i++ {
		incoming := Smoothstep(float64(i) / float64(fade))
		left[i] = float32(float64(left[frames+i])*(1-incoming) + float64(left[i])*incoming)
		right[i] = float32(float64(right[frames+i])*(1-incoming) + float64(right[i])*incoming)
	}

	return Buffer{
		SampleRate: sampleRate,
		Left:       left[:frames],
		Right:      right[:frames],
	}
}

func (component Component) sample(i int, rate float64, rng *rand.Rand) float64 {
	switch component.Kind {
	case Noise:
		return (rng.Float64()*2 - 1) * component.Amplitude
	case ModulatedNoise:
		return (rng.Float64()*2 - 1) * component.Amplitude * math.Sin(float64(i)*rate)
	case Impulse:
		if rng.Float64() < component.Probability {
			return (rng.Float64()*2 - 1) * component.Amplitude
		}
		return 0
	case GatedSine:
		if rng.Float64() < component.Probability {
			return math.Sin(float64(i)*rate) * component.Amplitude
		}
		return 0
	case Sine:
		return math.Sin(float64(i)*rate) * component.Amplitude
	default:
		return 0
	}
}

// headroomScale bounds the worst-case channel sum to Headroom.
func headroomScale(components []Component) float64 {
	var left, right float64
	for _, component := range components {
		left += math.Abs(component.Amplitude * component.Left)
		right += math.Abs(component.Amplitude * component.Right)
	}
	peak := math.Max(left, right)
	if peak <= Headroom {
		return 1
	}
	return Headroom / peak
}

// snapRate adjusts a radians-per-sample rate so the sine completes a whole
// number of cycles in frames.
func snapRate(rate float64, frames int) float64 {
	if rate <= 0 || frames <= 0 {
		return rate
	}
	cycles := math.Round(rate * float64(frames) / (2 * math.Pi))
	if cycles < 1 {
		cycles = 1
	}
	return 2 * math.Pi * cycles / float64(frames)
}

func renderBinaural(spec BinauralSpec, gain float64, frames, sampleRate int) Buffer {
	seconds := float64(frames) / float64(sampleRate)
	leftFrequency := math.Round(spec.Base*seconds) / seconds
	rightFrequency := math.Round(spec.Right()*seconds) / seconds

	left := NewOscillator(leftFrequency, sampleRate)
	right := NewOscillator(rightFrequency, sampleRate)
	buffer := Buffer{
		SampleRate: sampleRate,
		Left:       make([]float32, frames),
		Right:      make([]float32, frames),
	}
	for i := 0; i < frames; i++ {
		buffer.Left[i] = float32(left.Next() * gain)
		buffer.Right[i] = float32(right.Next() * gain)
	}
	return buffer
}

// ApplyFilter runs a fresh Biquad for spec over a copy of buffer.
func ApplyFilter(buffer Buffer, spec FilterSpec) Buffer {
	filter := NewBiquad(spec, buffer.SampleRate)
	out := Buffer{
		SampleRate: buffer.SampleRate,
		Left:       append([]float32(nil), buffer.Left...),
		Right:      append([]float32(nil), buffer.Right...),
	}
	if filter == nil {
		return out
	}
	filter.ProcessBlock(out.Left, out.Right)
	return out
}
