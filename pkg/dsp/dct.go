package dsp

import "math"

// DCTII computes the first numCoeffs coefficients of the type-II discrete
// cosine transform of input:
//
//	out[k] = sum_n input[n] * cos(pi*k*(n+0.5)/N)
func DCTII(input []float64, numCoeffs int) []float64 {
	if numCoeffs <= 0 {
		return nil
	}

	n := len(input)
	out := make([]float64, numCoeffs)
	for k := 0; k < numCoeffs; k++ {
		var sum float64
		for i, v := range input {
			sum += v * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		out[k] = sum
	}
	return out
}
