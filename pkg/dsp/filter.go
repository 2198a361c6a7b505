package dsp

import "sort"

// MedianFilter returns a copy of values with each interior sample replaced by
// the median of the size-wide window centered on it. The outer size/2 samples
// are left unchanged. Sequences shorter than 3 samples, or filter sizes below
// 3, pass through untouched.
func MedianFilter(values []float64, size int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(values) < 3 || size < 3 {
		return out
	}

	half := size / 2
	window := make([]float64, size)
	for i := half; i < len(values)-half; i++ {
		copy(window, values[i-half:i+half+1])
		sort.Float64s(window)
		out[i] = window[len(window)/2]
	}
	return out
}
