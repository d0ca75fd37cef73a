package export

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"tymodoro/internal/audio/synth"
)

const (
	BlockSize     = 4096
	BitsPerSample = 16
	Channels      = 2
)

// RenderLoop renders one filtered loop of generator, the way it sounds when
// played.
func RenderLoop(generator synth.Generator, sampleRate int, rng *rand.Rand) (synth.Buffer, error) {
	recipe, err := synth.RecipeFor(generator)
	if err != nil {
		return synth.Buffer{}, err
	}
	buffer := synth.Render(recipe, sampleRate, rng)
	return synth.ApplyFilter(buffer, recipe.Filter), nil
}

// WriteFLAC encodes buffer as 16-bit stereo FLAC. Blocks are handed to the
// encoder as raw samples and it picks constant, fixed or verbatim prediction
// per subframe. When w is an io.Seeker the stream header is rewritten at the
// end with the sample count and MD5. w is never closed.
func WriteFLAC(w io.Writer, buffer synth.Buffer) error {
	if buffer.SampleRate <= 0 {
		return errors.New("buffer has no sample rate")
	}
	if len(buffer.Left) != len(buffer.Right) {
		return fmt.Errorf("channel length mismatch: %d != %d", len(buffer.Left), len(buffer.Right))
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  BlockSize,
		BlockSizeMax:  BlockSize,
		SampleRate:    uint32(buffer.SampleRate),
		NChannels:     Channels,
		BitsPerSample: BitsPerSample,
		NSamples:      uint64(buffer.Frames()),
	}
	enc, err := flac.NewEncoder(keepOpen(w), info)
	if err != nil {
		return fmt.Errorf("creating flac encoder: %w", err)
	}

	for start := 0; start < buffer.Frames(); start += BlockSize {
		end := min(start+BlockSize, buffer.Frames())
		f := &frame.Frame{
			Header: frame.Header{
				BlockSize:     uint16(end - start),
				SampleRate:    uint32(buffer.SampleRate),
				Channels:      frame.ChannelsLR,
				BitsPerSample: BitsPerSample,
			},
			Subframes: []*frame.Subframe{
				verbatim(buffer.Left[start:end]),
				verbatim(buffer.Right[start:end]),
			},
		}
		if err := enc.WriteFrame(f); err != nil {
			_ = enc.Close()
			return fmt.Errorf("writing flac frame at %d: %w", start, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing flac encoder: %w", err)
	}
	return nil
}

// The encoder closes its writer when it implements io.Closer.
type unclosableWriter struct{ io.Writer }

type unclosableWriteSeeker struct{ io.WriteSeeker }

func keepOpen(w io.Writer) io.Writer {
	if ws, ok := w.(io.WriteSeeker); ok {
		return unclosableWriteSeeker{ws}
	}
	return unclosableWriter{w}
}

func verbatim(samples []float32) *frame.Subframe {
	pcm := make([]int32, len(samples))
	for i, sample := range samples {
		pcm[i] = int32(synth.ToInt16(sample))
	}
	return &frame.Subframe{
		SubHeader: frame.SubHeader{
			Pred: frame.PredVerbatim,
		},
		Samples:  pcm,
		NSamples: len(pcm),
	}
}
