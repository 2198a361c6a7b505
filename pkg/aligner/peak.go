package aligner

import (
	"math"
	"sort"
)

// correlationPeak describes the primary peak of a correlation sequence.
type correlationPeak struct {
	index              int
	value              float64
	confidence         float64
	secondaryPeakRatio float64
}

// snrExclusionWindow is the lag radius around the primary peak excluded from
// the SNR noise estimate.
const snrExclusionWindow = 10

// findBestAlignment locates the primary peak, the global runner-up (no
// exclusion window: the runner-up may be adjacent to the peak) and scores the
// peak's confidence.
func findBestAlignment(correlation []float64) correlationPeak {
	if len(correlation) == 0 {
		return correlationPeak{secondaryPeakRatio: 1}
	}

	maxIndex := 0
	maxValue := correlation[0]
	for i, v := range correlation {
		if v > maxValue {
			maxIndex, maxValue = i, v
		}
	}

	secondMax := math.Inf(-1)
	for i, v := range correlation {
		if i != maxIndex && v > secondMax {
			secondMax = v
		}
	}

	ratio := NoSecondaryPeak
	if secondMax > 0 {
		ratio = maxValue / secondMax
	}

	return correlationPeak{
		index:              maxIndex,
		value:              maxValue,
		confidence:         calculateConfidence(correlation, maxIndex),
		secondaryPeakRatio: ratio,
	}
}

// confidenceFactors are the three components blended into a confidence
// score.
type confidenceFactors struct {
	correlationStrength float64
	peakSharpness       float64
	snr                 float64
}

func calculateConfidenceFactors(correlation []float64, peakIndex int) confidenceFactors {
	var factors confidenceFactors
	if len(correlation) == 0 || peakIndex >= len(correlation) {
		return factors
	}

	peakValue := correlation[peakIndex]

	// Strength: peak height against the RMS energy of the whole sequence.
	var energy float64
	for _, v := range correlation {
		energy += v * v
	}
	energy = math.Sqrt(energy / float64(len(correlation)))
	if energy > 1e-10 {
		factors.correlationStrength = math.Abs(peakValue) / energy
		factors.correlationStrength = math.Max(0, math.Min(1, factors.correlationStrength))
	}

	// Sharpness: peak against the mean absolute value, squashed by tanh so a
	// towering peak saturates instead of dominating.
	var meanAbs float64
	for _, v := range correlation {
		meanAbs += math.Abs(v)
	}
	meanAbs /= float64(len(correlation))
	if meanAbs > 1e-10 {
		factors.peakSharpness = math.Tanh(math.Abs(peakValue) / meanAbs / 10)
	}

	// SNR: primary against the global runner-up.
	secondMax := math.Inf(-1)
	for i, v := range correlation {
		if i != peakIndex && v > secondMax {
			secondMax = v
		}
	}
	switch {
	case secondMax > 1e-10 && math.Abs(peakValue) > 1e-10:
		factors.snr = math.Tanh(math.Log(math.Abs(peakValue)/math.Abs(secondMax)+1) / 3)
	case math.Abs(peakValue) > 1e-10:
		factors.snr = 1 // no competing peak at all
	}

	return factors
}

// calculateConfidence blends the three factors into [0, 1]:
// 0.5*strength + 0.3*sharpness + 0.2*snr.
func calculateConfidence(correlation []float64, peakIndex int) float64 {
	if len(correlation) == 0 {
		return 0
	}
	factors := calculateConfidenceFactors(correlation, peakIndex)
	confidence := 0.5*factors.correlationStrength + 0.3*factors.peakSharpness + 0.2*factors.snr
	return math.Max(0, math.Min(1, confidence))
}

// calculateSNREstimate estimates the peak-to-noise ratio in dB, with the
// noise taken as the median absolute correlation outside the exclusion
// window around the peak. 40 dB is reported when there is no usable noise
// estimate.
func calculateSNREstimate(correlation []float64, peakIndex int) float64 {
	if len(correlation) == 0 {
		return 0
	}

	signal := correlation[peakIndex]

	var noiseValues []float64
	for i, v := range correlation {
		if abs(i-peakIndex) > snrExclusionWindow {
			noiseValues = append(noiseValues, math.Abs(v))
		}
	}
	if len(noiseValues) == 0 {
		return 40
	}

	sort.Float64s(noiseValues)
	noise := noiseValues[len(noiseValues)/2]
	if noise > 0 {
		return 20 * math.Log10(math.Abs(signal)/noise)
	}
	return 40
}

// calculateNoiseFloor reports the 10th-percentile absolute correlation in
// dB.
func calculateNoiseFloor(correlation []float64) float64 {
	if len(correlation) == 0 {
		return errNoiseFloorDB
	}

	sorted := make([]float64, len(correlation))
	for i, v := range correlation {
		sorted[i] = math.Abs(v)
	}
	sort.Float64s(sorted)

	return 20 * math.Log10(sorted[len(sorted)/10]+1e-10)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
