package clip

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipLifecycle(t *testing.T) {
	t.Run("construction copies the buffer", func(t *testing.T) {
		samples := []float32{0.1, 0.2, 0.3}
		c := FromSamples(samples, 44100)
		samples[0] = 9

		require.True(t, c.IsValid())
		assert.Equal(t, float32(0.1), c.Samples()[0])
		assert.Equal(t, 3, c.Len())
		assert.Equal(t, 44100.0, c.SampleRate())
	})

	t.Run("load replaces the buffer", func(t *testing.T) {
		c := FromSamples([]float32{1, 2, 3}, 44100)
		c.Load([]float32{5}, 48000)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, 48000.0, c.SampleRate())
	})

	t.Run("clear releases everything", func(t *testing.T) {
		c := FromSamples([]float32{1, 2, 3}, 44100)
		c.Clear()
		assert.False(t, c.IsValid())
		assert.Zero(t, c.Len())
		assert.Zero(t, c.SampleRate())
	})

	t.Run("validity", func(t *testing.T) {
		assert.False(t, FromSamples(nil, 44100).IsValid())
		assert.False(t, FromSamples([]float32{}, 44100).IsValid())
		assert.False(t, FromSamples([]float32{1}, 0).IsValid())
		assert.False(t, FromSamples([]float32{1}, -1).IsValid())
		assert.True(t, FromSamples([]float32{1}, 44100).IsValid())

		var nilClip *Clip
		assert.False(t, nilClip.IsValid())
		assert.Zero(t, nilClip.Len())
	})

	t.Run("duration", func(t *testing.T) {
		c := FromSamples(make([]float32, 44100), 44100)
		assert.InDelta(t, 1.0, c.Duration(), 1e-12)
		assert.Zero(t, FromSamples(nil, 44100).Duration())
	})
}

func TestApplyPreEmphasis(t *testing.T) {
	t.Run("filters against previous sample", func(t *testing.T) {
		c := FromSamples([]float32{1, 1, 1, 1}, 44100)
		c.ApplyPreEmphasis(0.97)

		s := c.Samples()
		assert.Equal(t, float32(1), s[0])
		for i := 1; i < len(s); i++ {
			assert.InDelta(t, 0.03, float64(s[i]), 1e-6, "i=%d", i)
		}
	})

	t.Run("attenuates low frequencies more than high", func(t *testing.T) {
		low := sineClip(50, 44100, 4410)
		high := sineClip(8000, 44100, 4410)
		lowBefore, highBefore := rmsOf(low), rmsOf(high)

		low.ApplyPreEmphasis(0.97)
		high.ApplyPreEmphasis(0.97)

		lowRatio := rmsOf(low) / lowBefore
		highRatio := rmsOf(high) / highBefore
		assert.Less(t, lowRatio, highRatio)
	})
}

func TestApplyNoiseGate(t *testing.T) {
	c := FromSamples([]float32{0.5, 0.001, -0.5, -0.001, 0}, 44100)
	c.ApplyNoiseGate(-40) // threshold 0.01

	s := c.Samples()
	assert.Equal(t, float32(0.5), s[0])
	assert.Zero(t, s[1])
	assert.Equal(t, float32(-0.5), s[2])
	assert.Zero(t, s[3])
	assert.Zero(t, s[4])
}

func TestNormalize(t *testing.T) {
	t.Run("scales to target peak", func(t *testing.T) {
		c := FromSamples([]float32{0.25, -0.5, 0.1}, 44100)
		c.Normalize(1.0)

		s := c.Samples()
		assert.InDelta(t, 0.5, float64(s[0]), 1e-6)
		assert.InDelta(t, -1.0, float64(s[1]), 1e-6)
	})

	t.Run("silence untouched", func(t *testing.T) {
		c := FromSamples(make([]float32, 16), 44100)
		c.Normalize(1.0)
		for _, v := range c.Samples() {
			assert.Zero(t, v)
		}
	})
}

func TestPreprocessingOrderIndependence(t *testing.T) {
	// Any order of the three preprocessing ops must leave a valid clip with
	// finite samples.
	orders := [][]func(*Clip){
		{applyEmphasis, applyGate, applyNorm},
		{applyGate, applyEmphasis, applyNorm},
		{applyNorm, applyGate, applyEmphasis},
	}

	for _, order := range orders {
		c := sineClip(440, 44100, 4410)
		for _, op := range order {
			op(c)
		}
		assert.True(t, c.IsValid())
		for i, s := range c.Samples() {
			assert.False(t, math.IsNaN(float64(s)) || math.IsInf(float64(s), 0), "sample %d", i)
		}
	}
}

func applyEmphasis(c *Clip) { c.ApplyPreEmphasis(0.97) }
func applyGate(c *Clip)     { c.ApplyNoiseGate(-40) }
func applyNorm(c *Clip)     { c.Normalize(0.95) }

func sineClip(freq, sampleRate float64, n int) *Clip {
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
	}
	return FromSamples(samples, sampleRate)
}

func rmsOf(c *Clip) float64 {
	var sum float64
	for _, s := range c.Samples() {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(c.Len()))
}
