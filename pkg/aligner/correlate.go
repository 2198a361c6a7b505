package aligner

import "github.com/mjibson/go-dsp/fft"

// fftCorrelationThreshold is the feature-sequence length above which the
// O(n log n) frequency-domain path replaces the direct lag loop.
const fftCorrelationThreshold = 1024

// crossCorrelate returns the lag-indexed correlation of a and b. With
// m = min(len(a), len(b)) the output has 2m-1 lags; index l corresponds to
// signed lag l-(m-1), and each value is the mean of a[i]*b[i+lag] over the
// in-range i. No mean subtraction, no magnitude normalization; only the
// per-lag overlap count divides the sum.
func crossCorrelate(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	if min(len(a), len(b)) > fftCorrelationThreshold {
		return crossCorrelateFFT(a, b)
	}
	return crossCorrelateDirect(a, b)
}

func crossCorrelateDirect(a, b []float64) []float64 {
	m := min(len(a), len(b))
	correlation := make([]float64, 2*m-1)

	for l := range correlation {
		lag := l - m + 1
		var sum float64
		var count int

		for i := 0; i < len(a); i++ {
			j := i + lag
			if j >= 0 && j < len(b) {
				sum += a[i] * b[j]
				count++
			}
		}

		if count > 0 {
			correlation[l] = sum / float64(count)
		}
	}

	return correlation
}

// crossCorrelateFFT computes the same lags via padded FFTs: with the
// cross-power spectrum conj(A)*B, the inverse transform holds
// sum_i a[i]*b[i+lag] at index lag (negative lags wrap to the top). The
// per-lag overlap count is divided out afterwards, so the two paths agree to
// rounding error.
func crossCorrelateFFT(a, b []float64) []float64 {
	m := min(len(a), len(b))

	// Next power of two that avoids circular wraparound.
	n := 1
	for n < len(a)+len(b)-1 {
		n <<= 1
	}

	fa := make([]complex128, n)
	fb := make([]complex128, n)
	for i, v := range a {
		fa[i] = complex(v, 0)
	}
	for i, v := range b {
		fb[i] = complex(v, 0)
	}

	ffa := fft.FFT(fa)
	ffb := fft.FFT(fb)

	spectrum := make([]complex128, n)
	for i := range spectrum {
		ar, ai := real(ffa[i]), imag(ffa[i])
		br, bi := real(ffb[i]), imag(ffb[i])
		// conj(A[i]) * B[i]
		spectrum[i] = complex(ar*br+ai*bi, ar*bi-ai*br)
	}

	sums := fft.IFFT(spectrum)

	correlation := make([]float64, 2*m-1)
	for l := range correlation {
		lag := l - m + 1

		idx := lag
		if idx < 0 {
			idx += n
		}

		count := overlapCount(len(a), len(b), lag)
		if count > 0 {
			correlation[l] = real(sums[idx]) / float64(count)
		}
	}

	return correlation
}

// overlapCount returns the number of i with 0 <= i < la and 0 <= i+lag < lb.
func overlapCount(la, lb, lag int) int {
	lower := 0
	if -lag > lower {
		lower = -lag
	}
	upper := la
	if lb-lag < upper {
		upper = lb - lag
	}
	if upper <= lower {
		return 0
	}
	return upper - lower
}
