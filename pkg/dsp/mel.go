package dsp

import "math"

// FrequencyToMel converts a frequency in Hz to the mel scale.
func FrequencyToMel(frequency float64) float64 {
	return 2595 * math.Log10(1+frequency/700)
}

// MelToFrequency converts a mel value back to Hz.
func MelToFrequency(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// MelFilterBank builds numFilters triangular filters spanning [0, sampleRate/2]
// on the mel scale, mapped onto fftBins FFT bin weights each. Every filter
// ramps linearly up to 1.0 at its center bin and back down to zero.
func MelFilterBank(numFilters, fftBins int, sampleRate float64) [][]float64 {
	filterBank := make([][]float64, numFilters)
	for i := range filterBank {
		filterBank[i] = make([]float64, fftBins)
	}
	if numFilters <= 0 || fftBins <= 0 || sampleRate <= 0 {
		return filterBank
	}

	lowMel := FrequencyToMel(0)
	highMel := FrequencyToMel(sampleRate / 2)

	// numFilters+2 equally spaced mel points: filter i spans points i..i+2.
	binIndices := make([]int, numFilters+2)
	for i := range binIndices {
		mel := lowMel + (highMel-lowMel)*float64(i)/float64(numFilters+1)
		freq := MelToFrequency(mel)
		bin := int(freq * float64(fftBins) * 2 / sampleRate)
		if bin > fftBins-1 {
			bin = fftBins - 1
		}
		binIndices[i] = bin
	}

	for i := 0; i < numFilters; i++ {
		left, center, right := binIndices[i], binIndices[i+1], binIndices[i+2]

		for j := left; j < center; j++ {
			filterBank[i][j] = float64(j-left) / float64(center-left)
		}
		for j := center; j < right; j++ {
			filterBank[i][j] = float64(right-j) / float64(right-center)
		}
	}

	return filterBank
}
