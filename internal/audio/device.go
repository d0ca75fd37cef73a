package audio

// RenderFunc fills out with interleaved stereo int16 samples. It runs on the
// device's own goroutine or thread.
type RenderFunc func(out []int16)

// Device is an opened output stream.
type Device interface {
	Start() error
	Close() error
}

// Opener acquires the platform output device.
type Opener interface {
	Open(sampleRate int, render RenderFunc) (Device, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(sampleRate int, render RenderFunc) (Device, error)

// Open calls fn.
func (fn OpenerFunc) Open(sampleRate int, render RenderFunc) (Device, error) {
	return fn(sampleRate, render)
}
