package audio

import (
	"math/rand/v2"

	"tymodoro/internal/audio/synth"
)

// Source produces stereo float blocks. Fill overwrites left and right.
type Source interface {
	Fill(left, right []float32)
}

// LoopSource repeats a rendered buffer forever.
type LoopSource struct {
	buffer   synth.Buffer
	position int
}

// NewLoopSource creates a LoopSource over buffer.
func NewLoopSource(buffer synth.Buffer) *LoopSource {
	return &LoopSource{buffer: buffer}
}

// Fill copies the next block of the loop, wrapping at its end.
func (source *LoopSource) Fill(left, right []float32) {
	frames := source.buffer.Frames()
	if frames == 0 {
		clear(left)
		clear(right)
		return
	}
	for written := 0; written < len(left); {
		n := copy(left[written:], source.buffer.Left[source.position:])
		copy(right[written:written+n], source.buffer.Right[source.position:])
		written += n
		source.position += n
		if source.position >= frames {
			source.position = 0
		}
	}
}

// BinauralSource plays two free-running sines, one per ear.
type BinauralSource struct {
	left  *synth.Oscillator
	right *synth.Oscillator
	gain  float64
}

// NewBinauralSource creates a BinauralSource for spec.
func NewBinauralSource(spec synth.BinauralSpec, gain float64, sampleRate int) *BinauralSource {
	return &BinauralSource{
		left:  synth.NewOscillator(spec.Base, sampleRate),
		right: synth.NewOscillator(spec.Right(), sampleRate),
		gain:  gain,
	}
}

// Fill renders the next block of both tones.
func (source *BinauralSource) Fill(left, right []float32) {
	for i := range left {
		left[i] = float32(source.left.Next() * source.gain)
		right[i] = float32(source.right.Next() * source.gain)
	}
}

// NewSource builds the source graph head for recipe.
func NewSource(recipe synth.Recipe, sampleRate int, rng *rand.Rand) Source {
	if recipe.Binaural != nil {
		return NewBinauralSource(*recipe.Binaural, recipe.GainScale, sampleRate)
	}
	return NewLoopSource(synth.Render(recipe, sampleRate, rng))
}
