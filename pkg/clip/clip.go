// Package clip holds a mono PCM buffer together with its sample rate and
// exposes the in-place preprocessing operations and feature extractors the
// alignment engine works on. A Clip owns its samples: construction copies
// them in, Load replaces them, Clear releases them.
package clip

import "math"

// Clip is an owning container for a mono float32 PCM buffer.
type Clip struct {
	samples    []float32
	sampleRate float64
}

// FromSamples copies samples into a new Clip. The caller keeps ownership of
// its slice; later mutation of it does not affect the clip.
func FromSamples(samples []float32, sampleRate float64) *Clip {
	c := &Clip{}
	c.Load(samples, sampleRate)
	return c
}

// Load replaces the clip's buffer with a copy of samples.
func (c *Clip) Load(samples []float32, sampleRate float64) {
	if samples == nil {
		c.samples = nil
	} else {
		c.samples = make([]float32, len(samples))
		copy(c.samples, samples)
	}
	c.sampleRate = sampleRate
}

// Clear releases the buffer and resets the sample rate.
func (c *Clip) Clear() {
	c.samples = nil
	c.sampleRate = 0
}

// IsValid reports whether the clip holds at least one sample at a positive
// sample rate.
func (c *Clip) IsValid() bool {
	return c != nil && len(c.samples) > 0 && c.sampleRate > 0
}

// Len returns the number of samples.
func (c *Clip) Len() int {
	if c == nil {
		return 0
	}
	return len(c.samples)
}

// SampleRate returns the sample rate in Hz.
func (c *Clip) SampleRate() float64 {
	if c == nil {
		return 0
	}
	return c.sampleRate
}

// Samples returns the underlying buffer. It is owned by the clip; callers
// must not mutate it.
func (c *Clip) Samples() []float32 {
	if c == nil {
		return nil
	}
	return c.samples
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if !c.IsValid() {
		return 0
	}
	return float64(len(c.samples)) / c.sampleRate
}

// peak returns the largest absolute sample value.
func (c *Clip) peak() float32 {
	var peak float32
	for _, s := range c.samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	return peak
}
