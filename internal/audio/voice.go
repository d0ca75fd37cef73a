package audio

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"tymodoro/internal/audio/synth"
)

// Voice is one playing generator: source, optional filter and a gain stage.
// SetGain and Stop may be called from any goroutine; Render belongs to the
// device callback.
type Voice struct {
	generator synth.Generator
	recipe    synth.Recipe
	source    Source
	filter    *synth.Biquad

	target  atomic.Uint64
	stopped atomic.Bool

	current float64
	left    []float32
	right   []float32
}

// NewVoice builds the source graph for recipe at the given initial gain.
func NewVoice(recipe synth.Recipe, sampleRate int, gain float64, rng *rand.Rand) *Voice {
	voice := &Voice{
		generator: recipe.Generator,
		recipe:    recipe,
		source:    NewSource(recipe, sampleRate, rng),
		filter:    synth.NewBiquad(recipe.Filter, sampleRate),
		current:   gain,
	}
	voice.target.Store(math.Float64bits(gain))
	return voice
}

// Generator returns the generator this voice plays.
func (voice *Voice) Generator() synth.Generator {
	return voice.generator
}

// Recipe returns the recipe the voice was built from.
func (voice *Voice) Recipe() synth.Recipe {
	return voice.recipe
}

// SetGain changes the target gain. The change is ramped over the next block.
func (voice *Voice) SetGain(gain float64) {
	voice.target.Store(math.Float64bits(gain))
}

// Gain returns the target gain.
func (voice *Voice) Gain() float64 {
	return math.Float64frombits(voice.target.Load())
}

// Stop silences the voice permanently. Safe to call more than once.
func (voice *Voice) Stop() {
	voice.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (voice *Voice) Stopped() bool {
	return voice.stopped.Load()
}

// Render adds the next block of the voice into left and right.
func (voice *Voice) Render(left, right []float32) {
	if voice.Stopped() || len(left) == 0 {
		return
	}
	frames := len(left)
	if cap(voice.left) < frames {
		voice.left = make([]float32, frames)
		voice.right = make([]float32, frames)
	}
	blockLeft := voice.left[:frames]
	blockRight := voice.right[:frames]

	voice.source.Fill(blockLeft, blockRight)
	if voice.filter != nil {
		voice.filter.ProcessBlock(blockLeft, blockRight)
	}

	target := voice.Gain()
	step := (target - voice.current) / float64(frames)
	gain := voice.current
	for i := 0; i < frames; i++ {
		gain += step
		left[i] += blockLeft[i] * float32(gain)
		right[i] += blockRight[i] * float32(gain)
	}
	voice.current = target
}
