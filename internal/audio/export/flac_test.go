package export

import (
	"bytes"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"

	"tymodoro/internal/audio/synth"
)

// decodeFLAC returns the left and right samples of every frame in r.
func decodeFLAC(t *testing.T, r io.Reader) (*meta.StreamInfo, []int32, []int32) {
	t.Helper()
	stream, err := flac.New(r)
	if err != nil {
		t.Fatalf("flac.New: %v", err)
	}
	var left, right []int32
	for {
		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ParseNext: %v", err)
		}
		if len(f.Subframes) != Channels {
			t.Fatalf("frame has %d subframes", len(f.Subframes))
		}
		left = append(left, f.Subframes[0].Samples...)
		right = append(right, f.Subframes[1].Samples...)
	}
	return stream.Info, left, right
}

func assertSamples(t *testing.T, channel string, got []int32, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: decoded %d samples, want %d", channel, len(got), len(want))
	}
	for i := range want {
		if got[i] != int32(synth.ToInt16(want[i])) {
			t.Fatalf("%s[%d] = %d, want %d", channel, i, got[i], synth.ToInt16(want[i]))
		}
	}
}

func TestWriteFLACRoundTrip(t *testing.T) {
	buffer, err := RenderLoop(synth.Storm, 8000, rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("RenderLoop: %v", err)
	}

	var out bytes.Buffer
	if err := WriteFLAC(&out, buffer); err != nil {
		t.Fatalf("WriteFLAC: %v", err)
	}

	info, left, right := decodeFLAC(t, bytes.NewReader(out.Bytes()))
	if info.SampleRate != 8000 || info.NChannels != Channels || info.BitsPerSample != BitsPerSample {
		t.Errorf("stream info = %+v", info)
	}
	if info.NSamples != uint64(buffer.Frames()) {
		t.Errorf("NSamples = %d, want %d", info.NSamples, buffer.Frames())
	}
	assertSamples(t, "left", left, buffer.Left)
	assertSamples(t, "right", right, buffer.Right)
}

func TestWriteFLACLeavesFileOpen(t *testing.T) {
	buffer := synth.Buffer{SampleRate: 8000, Left: make([]float32, 5000), Right: make([]float32, 5000)}
	for i := range buffer.Left {
		buffer.Left[i] = float32(i%100) / 100
		buffer.Right[i] = -buffer.Left[i]
	}

	path := filepath.Join(t.TempDir(), "loop.flac")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFLAC(file, buffer); err != nil {
		t.Fatalf("WriteFLAC: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Close after WriteFLAC: %v", err)
	}

	reopened, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	info, left, right := decodeFLAC(t, reopened)
	if info.MD5sum == ([16]byte{}) {
		t.Error("seekable output should carry the MD5 of the samples")
	}
	assertSamples(t, "left", left, buffer.Left)
	assertSamples(t, "right", right, buffer.Right)
}

func TestWriteFLACBinaural(t *testing.T) {
	buffer, err := RenderLoop(synth.Theta6, 8000, nil)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := WriteFLAC(&out, buffer); err != nil {
		t.Fatalf("WriteFLAC: %v", err)
	}
	if string(out.Bytes()[:4]) != "fLaC" {
		t.Fatal("missing FLAC magic")
	}
}

func TestWriteFLACRejectsBadBuffers(t *testing.T) {
	var out bytes.Buffer
	if err := WriteFLAC(&out, synth.Buffer{Left: []float32{0}, Right: []float32{0}}); err == nil {
		t.Error("expected error for missing sample rate")
	}
	if err := WriteFLAC(&out, synth.Buffer{SampleRate: 8000, Left: []float32{0, 0}, Right: []float32{0}}); err == nil {
		t.Error("expected error for mismatched channels")
	}
}

func TestRenderLoopUnknownGenerator(t *testing.T) {
	if _, err := RenderLoop(synth.Generator(0), 8000, nil); !errors.Is(err, synth.ErrUnknownGenerator) {
		t.Errorf("RenderLoop(0) error = %v", err)
	}
}
