package clip

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 44100.0

// toneBurstClip alternates silence and a 440 Hz tone in blocks of blockLen
// samples, starting with silence.
func toneBurstClip(n, blockLen int) *Clip {
	samples := make([]float32, n)
	for i := range samples {
		if (i/blockLen)%2 == 1 {
			samples[i] = float32(0.8 * math.Sin(2*math.Pi*440*float64(i)/testSampleRate))
		}
	}
	return FromSamples(samples, testSampleRate)
}

func TestSpectralFlux(t *testing.T) {
	t.Run("frame count", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 4096)
		flux := c.SpectralFlux(1024, 256)
		// 13 window positions, first produces no flux value.
		assert.Len(t, flux, 12)
	})

	t.Run("steady tone yields near-zero flux", func(t *testing.T) {
		// 16 cycles per window and 4 per hop, so every frame holds identical
		// samples and the spectrum never changes.
		c := sineClip(16*testSampleRate/1024, testSampleRate, 8192)
		flux := c.SpectralFlux(1024, 256)
		require.NotEmpty(t, flux)
		for i, v := range flux {
			assert.Less(t, v, 1e-6, "frame %d", i)
		}
	})

	t.Run("tone onsets spike the flux", func(t *testing.T) {
		c := toneBurstClip(44100, 8192)
		flux := c.SpectralFlux(1024, 256)
		require.NotEmpty(t, flux)

		var maxFlux, meanFlux float64
		for _, v := range flux {
			maxFlux = math.Max(maxFlux, v)
			meanFlux += v
		}
		meanFlux /= float64(len(flux))
		assert.Greater(t, maxFlux, 4*meanFlux)
	})

	t.Run("deterministic", func(t *testing.T) {
		c := toneBurstClip(22050, 4096)
		assert.Equal(t, c.SpectralFlux(1024, 256), c.SpectralFlux(1024, 256))
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		assert.Nil(t, FromSamples(nil, testSampleRate).SpectralFlux(1024, 256))
		assert.Nil(t, FromSamples([]float32{}, testSampleRate).SpectralFlux(1024, 256))
		assert.Nil(t, sineClip(440, testSampleRate, 512).SpectralFlux(1024, 256))
		// non power of two window
		assert.Nil(t, sineClip(440, testSampleRate, 4096).SpectralFlux(1000, 256))
	})

	t.Run("auto hop", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 4096)
		assert.Equal(t, c.SpectralFlux(1024, 256), c.SpectralFlux(1024, 0))
	})
}

func TestChroma(t *testing.T) {
	t.Run("frames are multiples of 12", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 4096)
		chroma := c.Chroma(1024, 256)
		require.NotEmpty(t, chroma)
		assert.Zero(t, len(chroma)%12)
	})

	t.Run("a440 dominates its pitch class", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 8192)
		chroma := c.Chroma(4096, 1024)
		require.NotEmpty(t, chroma)

		frame := chroma[:12]
		maxClass := 0
		for i := range frame {
			if frame[i] > frame[maxClass] {
				maxClass = i
			}
		}
		assert.Equal(t, 9, maxClass)
	})

	t.Run("frames normalized", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 8192)
		chroma := c.Chroma(1024, 256)
		for f := 0; f+12 <= len(chroma); f += 12 {
			var sum float64
			for _, v := range chroma[f : f+12] {
				sum += v
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "frame %d", f/12)
		}
	})

	t.Run("empty clip", func(t *testing.T) {
		assert.Nil(t, FromSamples(nil, testSampleRate).Chroma(1024, 256))
	})
}

func TestEnergyProfile(t *testing.T) {
	t.Run("tracks amplitude blocks", func(t *testing.T) {
		c := toneBurstClip(44100, 11025)
		energy := c.EnergyProfile(1024, 512)
		require.NotEmpty(t, energy)

		var maxEnergy, minEnergy float64 = 0, math.Inf(1)
		for _, v := range energy {
			maxEnergy = math.Max(maxEnergy, v)
			minEnergy = math.Min(minEnergy, v)
		}
		assert.Greater(t, maxEnergy, 0.3)
		assert.Less(t, minEnergy, 0.05)
	})

	t.Run("frame count", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 4096)
		energy := c.EnergyProfile(1024, 512)
		assert.Len(t, energy, 7)
	})

	t.Run("auto hop is half window", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 4096)
		assert.Equal(t, c.EnergyProfile(1024, 512), c.EnergyProfile(1024, 0))
	})

	t.Run("works with non power of two window", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 4096)
		assert.NotEmpty(t, c.EnergyProfile(1000, 500))
	})
}

func TestMFCC(t *testing.T) {
	cfg := MFCCConfig{NumCoeffs: 13, NumMelFilters: 26}

	t.Run("frames are multiples of numCoeffs", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 8192)
		mfcc := c.MFCC(cfg, 1024, 256)
		require.NotEmpty(t, mfcc)
		assert.Zero(t, len(mfcc)%13)
	})

	t.Run("distinguishes spectra", func(t *testing.T) {
		low := sineClip(200, testSampleRate, 8192)
		high := sineClip(4000, testSampleRate, 8192)

		lowMFCC := low.MFCC(cfg, 1024, 256)
		highMFCC := high.MFCC(cfg, 1024, 256)
		require.NotEmpty(t, lowMFCC)
		require.Equal(t, len(lowMFCC), len(highMFCC))

		var distance float64
		for i := range lowMFCC {
			distance += math.Abs(lowMFCC[i] - highMFCC[i])
		}
		assert.Greater(t, distance/float64(len(lowMFCC)), 0.5)
	})

	t.Run("silence is finite", func(t *testing.T) {
		c := FromSamples(make([]float32, 4096), testSampleRate)
		c.samples[0] = 1e-8 // keep the clip valid but effectively silent
		mfcc := c.MFCC(cfg, 1024, 256)
		require.NotEmpty(t, mfcc)
		for i, v := range mfcc {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "coeff %d", i)
		}
	})

	t.Run("invalid configs", func(t *testing.T) {
		c := sineClip(440, testSampleRate, 4096)
		assert.Nil(t, c.MFCC(MFCCConfig{NumCoeffs: 0, NumMelFilters: 26}, 1024, 256))
		assert.Nil(t, c.MFCC(MFCCConfig{NumCoeffs: 13, NumMelFilters: 0}, 1024, 256))
	})
}
