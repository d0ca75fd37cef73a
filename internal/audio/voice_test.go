package audio

import (
	"math"
	"testing"

	"tymodoro/internal/audio/synth"
)

func TestLoopSourceWraps(t *testing.T) {
	source := NewLoopSource(synth.Buffer{
		SampleRate: testRate,
		Left:       []float32{1, 2, 3},
		Right:      []float32{-1, -2, -3},
	})
	left := make([]float32, 7)
	right := make([]float32, 7)
	source.Fill(left, right)

	want := []float32{1, 2, 3, 1, 2, 3, 1}
	for i := range want {
		if left[i] != want[i] || right[i] != -want[i] {
			t.Fatalf("frame %d = %v/%v, want %v", i, left[i], right[i], want[i])
		}
	}
}

func TestEmptyLoopSourceIsSilent(t *testing.T) {
	source := NewLoopSource(synth.Buffer{})
	left := []float32{1, 1}
	right := []float32{1, 1}
	source.Fill(left, right)
	if left[0] != 0 || right[1] != 0 {
		t.Error("empty loop should fill silence")
	}
}

func TestVoiceGainRampsWithinOneBlock(t *testing.T) {
	recipe := synth.Recipe{
		Generator:   synth.Alpha10,
		LoopSeconds: 1,
		Binaural:    &synth.BinauralSpec{Base: 200, Beat: 10},
		GainScale:   1,
	}
	voice := &Voice{
		generator: recipe.Generator,
		recipe:    recipe,
		source:    constantSource(1),
		current:   0,
	}
	voice.SetGain(1)

	left := make([]float32, 4)
	right := make([]float32, 4)
	voice.Render(left, right)

	want := []float32{0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(float64(left[i]-want[i])) > 1e-6 {
			t.Fatalf("ramp sample %d = %v, want %v", i, left[i], want[i])
		}
	}

	if voice.current != 1 {
		t.Errorf("current gain = %v, want 1 after the ramp", voice.current)
	}
}

func TestStoppedVoiceRendersNothing(t *testing.T) {
	voice := &Voice{source: constantSource(1), current: 1}
	voice.SetGain(1)
	voice.Stop()
	voice.Stop()

	left := make([]float32, 8)
	right := make([]float32, 8)
	voice.Render(left, right)
	for i := range left {
		if left[i] != 0 || right[i] != 0 {
			t.Fatal("stopped voice produced sound")
		}
	}
}

func TestMixerClipsToInt16(t *testing.T) {
	mixer := NewMixer()
	voice := &Voice{source: constantSource(0.8), current: 1}
	voice.SetGain(1)
	mixer.SetVoice(voice)
	mixer.PlayTone([]float32{0.8, 0.8})

	out := make([]int16, 8)
	mixer.Render(out)
	if out[0] != 32767 || out[1] != 32767 {
		t.Errorf("clipped frame = %d/%d, want 32767", out[0], out[1])
	}
	if want := synth.ToInt16(0.8); out[4] != want {
		t.Errorf("frame after tone = %d, want %d", out[4], want)
	}
}

type constantSource float32

func (source constantSource) Fill(left, right []float32) {
	for i := range left {
		left[i] = float32(source)
	}
	for i := range right {
		right[i] = float32(source)
	}
}
