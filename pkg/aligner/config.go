package aligner

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Config is the full set of engine options. It is a plain value: copy it,
// tweak it, pass it to New. The nested sub-configs hold per-algorithm knobs.
type Config struct {
	// ConfidenceThreshold is the minimum confidence for a non-error result,
	// in [0, 1].
	ConfidenceThreshold float64
	// MaxOffsetSamples bounds the offset search; 0 means auto (a quarter of
	// the shorter clip).
	MaxOffsetSamples int64
	// WindowSize is the analysis window in samples (power of two
	// recommended; the spectral extractors produce nothing otherwise).
	WindowSize int
	// HopSize is the stride between analysis windows; 0 means auto
	// (WindowSize/4, or WindowSize/2 for the energy method). Must not exceed
	// WindowSize.
	HopSize int
	// NoiseGateDB is the gate threshold for preprocessing, in [-120, 0].
	NoiseGateDB float64
	// EnableDriftCorrection is reserved; the engine currently ignores it.
	EnableDriftCorrection bool

	SpectralFlux SpectralFluxConfig
	Chroma       ChromaConfig
	Energy       EnergyConfig
	MFCC         MFCCConfig
}

// SpectralFluxConfig holds the spectral-flux method knobs.
type SpectralFluxConfig struct {
	PreEmphasisAlpha float32
	MedianFilterSize int
}

// ChromaConfig holds the chroma method knobs. NumChromaBins is semantically
// fixed at 12.
type ChromaConfig struct {
	NumChromaBins int
}

// EnergyConfig holds the energy method knobs.
type EnergyConfig struct {
	SmoothingWindowSize int
}

// MFCCConfig holds the MFCC method knobs. IncludeC0 controls whether the
// energy-related 0th coefficient participates in correlation.
type MFCCConfig struct {
	NumCoeffs     int
	NumMelFilters int
	IncludeC0     bool
}

// DefaultConfig returns the recommended general-purpose configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold:   0.7,
		MaxOffsetSamples:      0,
		WindowSize:            1024,
		HopSize:               256,
		NoiseGateDB:           -40,
		EnableDriftCorrection: true,
		SpectralFlux: SpectralFluxConfig{
			PreEmphasisAlpha: 0.97,
			MedianFilterSize: 5,
		},
		Chroma: ChromaConfig{
			NumChromaBins: 12,
		},
		Energy: EnergyConfig{
			SmoothingWindowSize: 3,
		},
		MFCC: MFCCConfig{
			NumCoeffs:     13,
			NumMelFilters: 26,
			IncludeC0:     false,
		},
	}
}

// ConfigForUseCase returns a configuration tuned for a named use case:
// "music", "speech", "ambient", "multicam" or "broadcast". Unknown tags
// return the default configuration.
func ConfigForUseCase(useCase string) Config {
	cfg := DefaultConfig()

	switch useCase {
	case "music":
		cfg.WindowSize = 4096
		cfg.HopSize = 1024
		cfg.NoiseGateDB = -50
		cfg.ConfidenceThreshold = 0.75
	case "speech":
		cfg.WindowSize = 1024
		cfg.HopSize = 256
		cfg.NoiseGateDB = -35
		cfg.ConfidenceThreshold = 0.65
	case "ambient":
		cfg.WindowSize = 2048
		cfg.HopSize = 512
		cfg.NoiseGateDB = -45
		cfg.ConfidenceThreshold = 0.6
	case "multicam":
		cfg.WindowSize = 2048
		cfg.HopSize = 512
		cfg.ConfidenceThreshold = 0.7
		cfg.EnableDriftCorrection = true
	case "broadcast":
		cfg.WindowSize = 4096
		cfg.HopSize = 1024
		cfg.NoiseGateDB = -55
		cfg.ConfidenceThreshold = 0.8
	}

	return cfg
}

// Validate checks every field and reports all violations at once.
func (cfg Config) Validate() error {
	var result *multierror.Error

	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		result = multierror.Append(result, fmt.Errorf("confidence threshold must be in [0, 1]: got %v", cfg.ConfidenceThreshold))
	}
	if cfg.MaxOffsetSamples < 0 {
		result = multierror.Append(result, fmt.Errorf("max offset must not be negative: got %d", cfg.MaxOffsetSamples))
	}
	if cfg.WindowSize < 64 || cfg.WindowSize > 8192 {
		result = multierror.Append(result, fmt.Errorf("window size must be in [64, 8192]: got %d", cfg.WindowSize))
	}
	if cfg.HopSize < 0 {
		result = multierror.Append(result, fmt.Errorf("hop size must not be negative: got %d", cfg.HopSize))
	}
	if cfg.HopSize > cfg.WindowSize {
		result = multierror.Append(result, fmt.Errorf("hop size must not exceed window size: got %d > %d", cfg.HopSize, cfg.WindowSize))
	}
	if cfg.NoiseGateDB > 0 || cfg.NoiseGateDB < -120 {
		result = multierror.Append(result, fmt.Errorf("noise gate must be in [-120, 0] dB: got %v", cfg.NoiseGateDB))
	}

	return result.ErrorOrNil()
}

// effectiveHop resolves the auto hop for a method. The energy method trades
// temporal resolution for stability and defaults to half a window.
func (cfg Config) effectiveHop(method Method) int {
	if cfg.HopSize > 0 {
		return cfg.HopSize
	}
	if method == MethodEnergy {
		return cfg.WindowSize / 2
	}
	return cfg.WindowSize / 4
}
