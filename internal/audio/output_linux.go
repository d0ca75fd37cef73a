//go:build linux

package audio

import (
	"fmt"

	"github.com/jfreymuth/pulse"
)

const playbackLatency = 0.1

type pulseDevice struct {
	client *pulse.Client
	stream *pulse.PlaybackStream
}

// NewOpener returns the PulseAudio output backend.
func NewOpener() Opener {
	return OpenerFunc(openPulse)
}

func openPulse(sampleRate int, render RenderFunc) (Device, error) {
	client, err := pulse.NewClient(pulse.ClientApplicationName("tymodoro"))
	if err != nil {
		return nil, fmt.Errorf("pulse client: %w", err)
	}

	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		render(buf)
		return len(buf), nil
	})
	stream, err := client.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(playbackLatency),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("pulse playback: %w", err)
	}
	return &pulseDevice{client: client, stream: stream}, nil
}

func (device *pulseDevice) Start() error {
	device.stream.Start()
	return device.stream.Error()
}

func (device *pulseDevice) Close() error {
	device.stream.Stop()
	device.stream.Close()
	device.client.Close()
	return nil
}
