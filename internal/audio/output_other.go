//go:build !linux

package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/gen2brain/malgo"
)

type malgoDevice struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

// NewOpener returns the miniaudio output backend.
func NewOpener() Opener {
	return OpenerFunc(openMalgo)
}

func openMalgo(sampleRate int, render RenderFunc) (Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo context: %w", err)
	}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 2
	config.SampleRate = uint32(sampleRate)

	var samples []int16
	callbacks := malgo.DeviceCallbacks{
		Data: func(output, _ []byte, frameCount uint32) {
			n := int(frameCount) * 2
			if cap(samples) < n {
				samples = make([]int16, n)
			}
			samples = samples[:n]
			render(samples)
			for i, sample := range samples {
				binary.LittleEndian.PutUint16(output[2*i:], uint16(sample))
			}
		},
	}

	device, err := malgo.InitDevice(ctx.Context, config, callbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("malgo device: %w", err)
	}
	return &malgoDevice{ctx: ctx, device: device}, nil
}

func (device *malgoDevice) Start() error {
	return device.device.Start()
}

func (device *malgoDevice) Close() error {
	device.device.Uninit()
	device.ctx.Uninit()
	device.ctx.Free()
	return nil
}
