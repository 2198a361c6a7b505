package clip

import (
	"math"

	"github.com/harmoniq/sync/pkg/dsp"
)

// Feature extractors slide an analysis window across the clip at a fixed hop
// and emit one frame per position. They are pure with respect to the clip:
// extracting twice yields identical output. A clip that is invalid or shorter
// than the window yields an empty sequence, never an error.

// DefaultHop returns the hop used when the configured hop is zero: a quarter
// of the window for the spectral extractors.
func DefaultHop(windowSize int) int {
	return windowSize / 4
}

// DefaultEnergyHop returns the auto hop for the energy profile: half the
// window, since RMS needs less temporal resolution than spectra.
func DefaultEnergyHop(windowSize int) int {
	return windowSize / 2
}

// SpectralFlux returns the per-frame sum of positive magnitude increases
// between adjacent spectra (DC bin excluded), median-filtered with size 3.
// The first window produces no output, so a clip with F windows yields F-1
// flux values.
func (c *Clip) SpectralFlux(windowSize, hopSize int) []float64 {
	if hopSize <= 0 {
		hopSize = DefaultHop(windowSize)
	}
	if !c.canExtract(windowSize, hopSize) {
		return nil
	}

	var flux []float64
	var prevMagnitude []float64
	frame := make([]float64, windowSize)

	for pos := 0; pos+windowSize <= len(c.samples); pos += hopSize {
		c.copyFrame(frame, pos)
		magnitude, err := dsp.MagnitudeSpectrum(frame)
		if err != nil {
			return nil
		}

		if prevMagnitude != nil {
			var sum float64
			for k := 1; k < len(magnitude); k++ {
				if diff := magnitude[k] - prevMagnitude[k]; diff > 0 {
					sum += diff
				}
			}
			flux = append(flux, sum)
		}
		prevMagnitude = magnitude
	}

	return dsp.MedianFilter(flux, 3)
}

// Chroma returns per-frame 12-bin pitch-class vectors, concatenated: frame i
// occupies positions [i*12, (i+1)*12).
func (c *Clip) Chroma(windowSize, hopSize int) []float64 {
	if hopSize <= 0 {
		hopSize = DefaultHop(windowSize)
	}
	if !c.canExtract(windowSize, hopSize) {
		return nil
	}

	var features []float64
	frame := make([]float64, windowSize)

	for pos := 0; pos+windowSize <= len(c.samples); pos += hopSize {
		c.copyFrame(frame, pos)
		magnitude, err := dsp.MagnitudeSpectrum(frame)
		if err != nil {
			return nil
		}
		features = append(features, dsp.ChromaVector(magnitude, c.sampleRate)...)
	}

	return features
}

// EnergyProfile returns the per-frame RMS energy, median-filtered with
// size 5.
func (c *Clip) EnergyProfile(windowSize, hopSize int) []float64 {
	if hopSize <= 0 {
		hopSize = DefaultEnergyHop(windowSize)
	}
	if !c.canExtract(windowSize, hopSize) {
		return nil
	}

	var energy []float64
	frame := make([]float64, windowSize)

	for pos := 0; pos+windowSize <= len(c.samples); pos += hopSize {
		c.copyFrame(frame, pos)
		energy = append(energy, dsp.RMS(frame))
	}

	return dsp.MedianFilter(energy, 5)
}

// MFCCConfig controls MFCC extraction.
type MFCCConfig struct {
	NumCoeffs     int
	NumMelFilters int
}

// MFCC returns per-frame mel-frequency cepstral coefficients, concatenated:
// frame i occupies positions [i*NumCoeffs, (i+1)*NumCoeffs). Each frame is the
// DCT-II of the log mel-band energies of its magnitude spectrum.
func (c *Clip) MFCC(cfg MFCCConfig, windowSize, hopSize int) []float64 {
	if hopSize <= 0 {
		hopSize = DefaultHop(windowSize)
	}
	if cfg.NumCoeffs <= 0 || cfg.NumMelFilters <= 0 || !c.canExtract(windowSize, hopSize) {
		return nil
	}

	melFilters := dsp.MelFilterBank(cfg.NumMelFilters, windowSize/2, c.sampleRate)

	var features []float64
	frame := make([]float64, windowSize)
	melEnergy := make([]float64, cfg.NumMelFilters)

	for pos := 0; pos+windowSize <= len(c.samples); pos += hopSize {
		c.copyFrame(frame, pos)
		magnitude, err := dsp.MagnitudeSpectrum(frame)
		if err != nil {
			return nil
		}

		for i, filter := range melFilters {
			var sum float64
			for j := 0; j < len(filter) && j < len(magnitude); j++ {
				sum += magnitude[j] * filter[j]
			}
			// epsilon keeps the log total on silent bands
			melEnergy[i] = math.Log(sum + 1e-10)
		}

		features = append(features, dsp.DCTII(melEnergy, cfg.NumCoeffs)...)
	}

	return features
}

func (c *Clip) canExtract(windowSize, hopSize int) bool {
	return c.IsValid() && windowSize > 0 && hopSize > 0 && len(c.samples) >= windowSize
}

func (c *Clip) copyFrame(dst []float64, pos int) {
	for i := range dst {
		dst[i] = float64(c.samples[pos+i])
	}
}
