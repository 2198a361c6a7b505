// Package aligner computes the sample offset that best aligns a target clip
// against a reference clip. Four primary methods (spectral flux, chroma,
// energy, MFCC) cross-correlate feature sequences extracted from both clips;
// a hybrid method fuses the survivors into a single confidence-weighted
// result.
package aligner

// Method selects the feature sequence used for correlation. The numeric
// values are stable and shared with the C-facing record layout.
type Method int32

const (
	MethodSpectralFlux Method = 0
	MethodChroma       Method = 1
	MethodEnergy       Method = 2
	MethodMFCC         Method = 3
	MethodHybrid       Method = 4
)

// Methods lists all selectable methods in enum order.
func Methods() []Method {
	return []Method{MethodSpectralFlux, MethodChroma, MethodEnergy, MethodMFCC, MethodHybrid}
}

// IsValid reports whether m names a known method.
func (m Method) IsValid() bool {
	return m >= MethodSpectralFlux && m <= MethodHybrid
}

// String returns the method tag placed in results.
func (m Method) String() string {
	switch m {
	case MethodSpectralFlux:
		return "Spectral Flux"
	case MethodChroma:
		return "Chroma Features"
	case MethodEnergy:
		return "Energy Correlation"
	case MethodMFCC:
		return "MFCC"
	case MethodHybrid:
		return "Hybrid"
	default:
		return "Invalid"
	}
}

// MinAudioLength returns the minimum clip length, in samples, recommended for
// a reliable alignment with the given method.
func MinAudioLength(method Method, sampleRate float64) int {
	if sampleRate <= 0 {
		return 0
	}

	var seconds float64
	switch method {
	case MethodSpectralFlux:
		seconds = 2 // onsets need a few events in view
	case MethodChroma:
		seconds = 4 // harmonic analysis
	case MethodEnergy:
		seconds = 1
	case MethodMFCC:
		seconds = 3
	case MethodHybrid:
		seconds = 4 // enough for every sub-method
	default:
		seconds = 2
	}
	return int(seconds * sampleRate)
}

// Version is the engine version string.
const Version = "1.0.0"
