package clip

import "math"

// ApplyPreEmphasis applies the first-order high-pass filter
// x[n] <- x[n] - alpha*x[n-1], in place, from the end of the buffer down so
// each step reads the original previous sample. x[0] is unchanged.
func (c *Clip) ApplyPreEmphasis(alpha float32) {
	if !c.IsValid() || len(c.samples) < 2 {
		return
	}
	for i := len(c.samples) - 1; i > 0; i-- {
		c.samples[i] -= alpha * c.samples[i-1]
	}
}

// ApplyNoiseGate zeroes every sample whose magnitude is below the given
// threshold in dBFS.
func (c *Clip) ApplyNoiseGate(thresholdDB float64) {
	if !c.IsValid() {
		return
	}
	threshold := float32(math.Pow(10, thresholdDB/20))
	for i, s := range c.samples {
		if float32(math.Abs(float64(s))) < threshold {
			c.samples[i] = 0
		}
	}
}

// Normalize scales the buffer so its absolute peak equals targetPeak. A
// silent clip is left unchanged.
func (c *Clip) Normalize(targetPeak float32) {
	if !c.IsValid() {
		return
	}
	peak := c.peak()
	if peak <= 0 {
		return
	}
	scale := targetPeak / peak
	for i := range c.samples {
		c.samples[i] *= scale
	}
}
