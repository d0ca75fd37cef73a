package audio

import (
	"sync"
	"sync/atomic"

	"tymodoro/internal/audio/synth"
)

type toneCursor struct {
	samples  []float32
	position int
}

// Mixer is the single render path shared by the ambient voice and one-shot
// tones.
type Mixer struct {
	voice atomic.Pointer[Voice]

	mu    sync.Mutex
	tones []*toneCursor

	left  []float32
	right []float32
}

// NewMixer creates an empty Mixer.
func NewMixer() *Mixer {
	return &Mixer{}
}

// SetVoice installs voice and returns the one it replaced. A nil voice
// leaves the ambient path silent.
func (mixer *Mixer) SetVoice(voice *Voice) *Voice {
	return mixer.voice.Swap(voice)
}

// Voice returns the installed voice.
func (mixer *Mixer) Voice() *Voice {
	return mixer.voice.Load()
}

// PlayTone queues mono samples to be played once on both channels.
func (mixer *Mixer) PlayTone(samples []float32) {
	if len(samples) == 0 {
		return
	}
	mixer.mu.Lock()
	mixer.tones = append(mixer.tones, &toneCursor{samples: samples})
	mixer.mu.Unlock()
}

// PendingTones returns the number of tones still playing.
func (mixer *Mixer) PendingTones() int {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	return len(mixer.tones)
}

// Render fills out with interleaved stereo int16 samples.
func (mixer *Mixer) Render(out []int16) {
	frames := len(out) / 2
	if cap(mixer.left) < frames {
		mixer.left = make([]float32, frames)
		mixer.right = make([]float32, frames)
	}
	left := mixer.left[:frames]
	right := mixer.right[:frames]
	clear(left)
	clear(right)

	if voice := mixer.voice.Load(); voice != nil {
		voice.Render(left, right)
	}
	mixer.mixTones(left, right)

	for i := 0; i < frames; i++ {
		out[2*i] = synth.ToInt16(left[i])
		out[2*i+1] = synth.ToInt16(right[i])
	}
	if len(out)%2 == 1 {
		out[len(out)-1] = 0
	}
}

func (mixer *Mixer) mixTones(left, right []float32) {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()

	active := mixer.tones[:0]
	for _, tone := range mixer.tones {
		for i := range left {
			if tone.position >= len(tone.samples) {
				break
			}
			sample := tone.samples[tone.position]
			left[i] += sample
			right[i] += sample
			tone.position++
		}
		if tone.position < len(tone.samples) {
			active = append(active, tone)
		}
	}
	clear(mixer.tones[len(active):])
	mixer.tones = active
}
