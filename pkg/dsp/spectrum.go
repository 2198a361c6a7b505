package dsp

import (
	"fmt"
	"math"

	"github.com/brettbuddin/fourier"
)

const (
	// MinWindowSize and MaxWindowSize bound the analysis window lengths
	// accepted by MagnitudeSpectrum.
	MinWindowSize = 64
	MaxWindowSize = 8192
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// MagnitudeSpectrum applies a Hann window to frame and returns the magnitudes
// of the positive-frequency bins, DC through Nyquist (len(frame)/2 + 1
// values). Bin k represents frequency k*fs/len(frame).
//
// The frame length must be a power of two in [MinWindowSize, MaxWindowSize];
// the radix-2 transform rejects anything else.
func MagnitudeSpectrum(frame []float64) ([]float64, error) {
	n := len(frame)
	if !IsPowerOfTwo(n) || n < MinWindowSize || n > MaxWindowSize {
		return nil, fmt.Errorf("window size must be a power of two in [%d, %d]: got %d", MinWindowSize, MaxWindowSize, n)
	}

	window := HannWindow(n)
	coeffs := make([]complex128, n)
	for i, v := range frame {
		coeffs[i] = complex(v*window[i], 0)
	}

	if err := fourier.Forward(coeffs); err != nil {
		return nil, fmt.Errorf("forward FFT failed: %w", err)
	}

	magnitude := make([]float64, n/2+1)
	for k := range magnitude {
		magnitude[k] = math.Hypot(real(coeffs[k]), imag(coeffs[k]))
	}
	return magnitude, nil
}
