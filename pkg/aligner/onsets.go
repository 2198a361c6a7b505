package aligner

// DetectOnsets scans a spectral flux sequence for onset frames: local maxima
// that stand above both the fixed threshold and the local mean by at least the
// threshold. windowSize is the local-analysis span in frames. Two detections
// closer than half a window collapse into the stronger one. The returned
// indices refer to flux frames, not samples.
func DetectOnsets(spectralFlux []float64, threshold float64, windowSize int) []int {
	if len(spectralFlux) == 0 || windowSize <= 0 {
		return nil
	}

	halfWindow := windowSize / 2
	if len(spectralFlux) <= 2*halfWindow {
		return nil
	}

	var onsets []int
	for i := halfWindow; i < len(spectralFlux)-halfWindow; i++ {
		current := spectralFlux[i]
		if current < threshold {
			continue
		}

		var localSum float64
		var validSamples int
		for j := -halfWindow; j <= halfWindow; j++ {
			if i+j >= 0 && i+j < len(spectralFlux) {
				localSum += spectralFlux[i+j]
				validSamples++
			}
		}
		var localMean float64
		if validSamples > 0 {
			localMean = localSum / float64(validSamples)
		}

		if current < localMean+threshold {
			continue
		}

		isLocalMax := true
		for j := -halfWindow; j <= halfWindow; j++ {
			if j == 0 {
				continue
			}
			if k := i + j; k >= 0 && k < len(spectralFlux) && spectralFlux[k] > current {
				isLocalMax = false
				break
			}
		}
		if !isLocalMax {
			continue
		}

		if len(onsets) > 0 && i-onsets[len(onsets)-1] < windowSize/2 {
			if current > spectralFlux[onsets[len(onsets)-1]] {
				onsets = onsets[:len(onsets)-1]
			} else {
				continue
			}
		}
		onsets = append(onsets, i)
	}

	return onsets
}
