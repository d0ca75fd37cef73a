package synth

import "math"

// DefaultQ gives a maximally flat (Butterworth) response.
var DefaultQ = 1 / math.Sqrt2

// Biquad is a two-channel RBJ cookbook filter in direct form I.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	x1, x2     [2]float64
	y1, y2     [2]float64
}

// NewBiquad designs a filter for spec at sampleRate.
// It returns nil when spec is not enabled.
func NewBiquad(spec FilterSpec, sampleRate int) *Biquad {
	if !spec.Enabled() || sampleRate <= 0 {
		return nil
	}
	q := spec.Q
	if q <= 0 {
		q = DefaultQ
	}
	nyquist := float64(sampleRate) / 2
	cutoff := math.Min(spec.Cutoff, nyquist*0.99)

	w0 := 2 * math.Pi * cutoff / float64(sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	var b0, b1, b2 float64
	switch spec.Type {
	case Lowpass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
	case Highpass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	}
	a0 := 1 + alpha
	return &Biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: -2 * cosW0 / a0,
		a2: (1 - alpha) / a0,
	}
}

// Process filters one sample on channel 0 (left) or 1 (right).
func (filter *Biquad) Process(channel int, x float64) float64 {
	y := filter.b0*x + filter.b1*filter.x1[channel] + filter.b2*filter.x2[channel] -
		filter.a1*filter.y1[channel] - filter.a2*filter.y2[channel]
	filter.x2[channel] = filter.x1[channel]
	filter.x1[channel] = x
	filter.y2[channel] = filter.y1[channel]
	filter.y1[channel] = y
	return y
}

// ProcessBlock filters left and right in place.
func (filter *Biquad) ProcessBlock(left, right []float32) {
	for i := range left {
		left[i] = float32(filter.Process(0, float64(left[i])))
	}
	for i := range right {
		right[i] = float32(filter.Process(1, float64(right[i])))
	}
}

// Reset clears the filter history.
func (filter *Biquad) Reset() {
	filter.x1, filter.x2 = [2]float64{}, [2]float64{}
	filter.y1, filter.y2 = [2]float64{}, [2]float64{}
}
