package dsp

import "math"

// NumChromaClasses is the number of pitch classes in a chroma vector.
const NumChromaClasses = 12

// Chroma pitch range. Bins outside it carry mostly rumble and noise and are
// ignored when folding the spectrum into pitch classes.
const (
	chromaMinFreq = 80.0
	chromaMaxFreq = 2000.0
)

// ChromaVector folds a magnitude spectrum into a 12-bin pitch-class
// distribution. Bin i (i >= 1, DC skipped) maps to frequency
// i*sampleRate/(2*(len(magnitude)-1)); frequencies in the musical range are
// assigned to the pitch class of their nearest MIDI note (A4 = 440 Hz = 69).
// The result is normalized to sum to 1 when any energy landed in range.
func ChromaVector(magnitude []float64, sampleRate float64) []float64 {
	chroma := make([]float64, NumChromaClasses)
	if len(magnitude) < 2 || sampleRate <= 0 {
		return chroma
	}

	for i := 1; i < len(magnitude); i++ {
		freq := float64(i) * sampleRate / (2 * float64(len(magnitude)-1))
		if freq <= chromaMinFreq || freq >= chromaMaxFreq {
			continue
		}

		midiNote := 12*math.Log2(freq/440) + 69
		if midiNote < 0 {
			continue
		}
		chroma[int(midiNote)%NumChromaClasses] += magnitude[i]
	}

	var sum float64
	for _, v := range chroma {
		sum += v
	}
	if sum > 0 {
		for i := range chroma {
			chroma[i] /= sum
		}
	}
	return chroma
}
