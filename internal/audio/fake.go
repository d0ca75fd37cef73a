package audio

import (
	"errors"
	"sync"
)

// FakeOpener hands out FakeDevices, or fails with Err.
type FakeOpener struct {
	Err error

	mu      sync.Mutex
	devices []*FakeDevice
}

// Open implements Opener.
func (opener *FakeOpener) Open(sampleRate int, render RenderFunc) (Device, error) {
	if opener.Err != nil {
		return nil, opener.Err
	}
	device := &FakeDevice{SampleRate: sampleRate, render: render}
	opener.mu.Lock()
	opener.devices = append(opener.devices, device)
	opener.mu.Unlock()
	return device, nil
}

// Devices returns every device opened so far.
func (opener *FakeOpener) Devices() []*FakeDevice {
	opener.mu.Lock()
	defer opener.mu.Unlock()
	return append([]*FakeDevice(nil), opener.devices...)
}

// FakeDevice is an output device driven manually through Pull.
type FakeDevice struct {
	SampleRate int

	mu      sync.Mutex
	render  RenderFunc
	started bool
	closed  bool
}

// Start implements Device.
func (device *FakeDevice) Start() error {
	device.mu.Lock()
	defer device.mu.Unlock()
	if device.closed {
		return errors.New("fake device closed")
	}
	device.started = true
	return nil
}

// Close implements Device.
func (device *FakeDevice) Close() error {
	device.mu.Lock()
	device.closed = true
	device.mu.Unlock()
	return nil
}

// Started reports whether Start was called.
func (device *FakeDevice) Started() bool {
	device.mu.Lock()
	defer device.mu.Unlock()
	return device.started
}

// Closed reports whether Close was called.
func (device *FakeDevice) Closed() bool {
	device.mu.Lock()
	defer device.mu.Unlock()
	return device.closed
}

// Pull renders frames stereo frames the way a real callback would.
func (device *FakeDevice) Pull(frames int) []int16 {
	out := make([]int16, frames*2)
	device.render(out)
	return out
}
