package aligner

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/harmoniq/sync/pkg/clip"
	"github.com/harmoniq/sync/pkg/dsp"
)

// Aligner runs alignments under one validated configuration. It holds no
// mutable state: every call owns its scratch buffers, so a single Aligner is
// safe for concurrent use.
type Aligner struct {
	cfg Config
}

// New returns an Aligner for the given configuration.
func New(cfg Config) (*Aligner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Aligner{cfg: cfg}, nil
}

// Config returns the configuration the aligner was built with.
func (a *Aligner) Config() Config {
	return a.cfg
}

// MaxOffset returns the offset search bound in samples: the configured value,
// or a quarter of the shorter clip when the configuration says auto.
func (a *Aligner) MaxOffset(refLength, targetLength int) int64 {
	if a.cfg.MaxOffsetSamples > 0 {
		return a.cfg.MaxOffsetSamples
	}
	return int64(min(refLength, targetLength) / 4)
}

// Align computes the offset of target relative to reference using the given
// method. Errors are reported inside the Result, never panicked or returned:
// the numeric fields of an error result are zero except the -60 dB noise
// floor.
func (a *Aligner) Align(ctx context.Context, reference, target *clip.Clip, method Method) Result {
	if !method.IsValid() {
		return errorResult(InvalidInput, method.String())
	}

	if code := validateClips(reference, target); code != Success {
		return errorResult(code, method.String())
	}

	minLen := MinAudioLength(method, reference.SampleRate())
	if reference.Len() < minLen || target.Len() < minLen {
		return errorResult(InsufficientData, method.String())
	}

	logger.FromCtx(ctx).Debugf(
		"aligning %d against %d samples at %v Hz using %s",
		target.Len(), reference.Len(), reference.SampleRate(), method,
	)

	switch method {
	case MethodSpectralFlux:
		return a.alignSpectralFlux(ctx, reference, target)
	case MethodChroma:
		return a.alignChroma(ctx, reference, target)
	case MethodEnergy:
		return a.alignEnergy(ctx, reference, target)
	case MethodMFCC:
		return a.alignMFCC(ctx, reference, target)
	default:
		return a.alignHybrid(ctx, reference, target)
	}
}

// AlignPCM wraps Align for callers holding raw buffers sharing one sample
// rate. A nil buffer is invalid input; an empty one is insufficient data.
func (a *Aligner) AlignPCM(ctx context.Context, reference, target []float32, sampleRate float64, method Method) Result {
	if reference == nil || target == nil || sampleRate <= 0 {
		return errorResult(InvalidInput, method.String())
	}
	return a.Align(ctx, clip.FromSamples(reference, sampleRate), clip.FromSamples(target, sampleRate), method)
}

func validateClips(reference, target *clip.Clip) Code {
	if reference == nil || target == nil ||
		reference.Samples() == nil || target.Samples() == nil ||
		reference.SampleRate() <= 0 || target.SampleRate() <= 0 {
		return InvalidInput
	}
	if math.Abs(reference.SampleRate()-target.SampleRate()) > 1 {
		return UnsupportedFormat
	}
	return Success
}

func (a *Aligner) alignSpectralFlux(ctx context.Context, reference, target *clip.Clip) Result {
	method := MethodSpectralFlux.String()
	hop := a.cfg.effectiveHop(MethodSpectralFlux)

	refFeatures := reference.SpectralFlux(a.cfg.WindowSize, hop)
	targetFeatures := target.SpectralFlux(a.cfg.WindowSize, hop)
	if len(refFeatures) == 0 || len(targetFeatures) == 0 {
		return errorResult(InsufficientData, method)
	}

	// Emphasize onsets, then smooth and scale into [0,1].
	refFeatures = applyAdaptiveThreshold(refFeatures, 0.1)
	targetFeatures = applyAdaptiveThreshold(targetFeatures, 0.1)
	refFeatures = dsp.MedianFilter(refFeatures, a.cfg.SpectralFlux.MedianFilterSize)
	targetFeatures = dsp.MedianFilter(targetFeatures, a.cfg.SpectralFlux.MedianFilterSize)
	normalizeFeatures(refFeatures)
	normalizeFeatures(targetFeatures)

	correlation := crossCorrelate(refFeatures, targetFeatures)
	return a.resultFromCorrelation(ctx, correlation, min(len(refFeatures), len(targetFeatures)), hop, method)
}

func (a *Aligner) alignEnergy(ctx context.Context, reference, target *clip.Clip) Result {
	method := MethodEnergy.String()
	hop := a.cfg.effectiveHop(MethodEnergy)

	refFeatures := reference.EnergyProfile(a.cfg.WindowSize, hop)
	targetFeatures := target.EnergyProfile(a.cfg.WindowSize, hop)
	if len(refFeatures) == 0 || len(targetFeatures) == 0 {
		return errorResult(InsufficientData, method)
	}

	refFeatures = dsp.MedianFilter(refFeatures, a.cfg.Energy.SmoothingWindowSize)
	targetFeatures = dsp.MedianFilter(targetFeatures, a.cfg.Energy.SmoothingWindowSize)
	normalizeFeatures(refFeatures)
	normalizeFeatures(targetFeatures)

	correlation := crossCorrelate(refFeatures, targetFeatures)
	return a.resultFromCorrelation(ctx, correlation, min(len(refFeatures), len(targetFeatures)), hop, method)
}

func (a *Aligner) alignChroma(ctx context.Context, reference, target *clip.Clip) Result {
	method := MethodChroma.String()
	hop := a.cfg.effectiveHop(MethodChroma)

	refFeatures := reference.Chroma(a.cfg.WindowSize, hop)
	targetFeatures := target.Chroma(a.cfg.WindowSize, hop)
	if len(refFeatures) == 0 || len(targetFeatures) == 0 {
		return errorResult(InsufficientData, method)
	}

	// Chroma frames are normalized at extraction; correlate each pitch class
	// separately with equal weights.
	dims := dsp.NumChromaClasses
	combined := a.combineDimensionCorrelations(refFeatures, targetFeatures, dims, func(int) (float64, bool) {
		return 1, true
	})
	if combined == nil {
		return errorResult(ProcessingFailed, method)
	}

	frames := min(len(refFeatures), len(targetFeatures)) / dims
	return a.resultFromCorrelation(ctx, combined, frames, hop, method)
}

func (a *Aligner) alignMFCC(ctx context.Context, reference, target *clip.Clip) Result {
	method := MethodMFCC.String()
	hop := a.cfg.effectiveHop(MethodMFCC)

	mfccCfg := clip.MFCCConfig{
		NumCoeffs:     a.cfg.MFCC.NumCoeffs,
		NumMelFilters: a.cfg.MFCC.NumMelFilters,
	}
	refFeatures := reference.MFCC(mfccCfg, a.cfg.WindowSize, hop)
	targetFeatures := target.MFCC(mfccCfg, a.cfg.WindowSize, hop)
	if len(refFeatures) == 0 || len(targetFeatures) == 0 {
		return errorResult(InsufficientData, method)
	}

	// Correlate per coefficient: C0 is broadband energy and is skipped
	// unless configured in; lower coefficients carry the perceptually
	// relevant envelope and are weighted up.
	dims := a.cfg.MFCC.NumCoeffs
	combined := a.combineDimensionCorrelations(refFeatures, targetFeatures, dims, func(dim int) (float64, bool) {
		if dim == 0 && !a.cfg.MFCC.IncludeC0 {
			return 0, false
		}
		return 1 / (1 + 0.1*float64(dim)), true
	})
	if combined == nil {
		return errorResult(ProcessingFailed, method)
	}

	frames := min(len(refFeatures), len(targetFeatures)) / dims
	return a.resultFromCorrelation(ctx, combined, frames, hop, method)
}

// combineDimensionCorrelations correlates each dimension of two flat
// frame-major feature sequences and merges the per-dimension correlations by
// pairwise averaging in dimension order: every correlation after the first is
// folded in as an element-wise mean with the accumulator. The weight is
// applied before each merge and deliberately not re-normalized afterwards.
func (a *Aligner) combineDimensionCorrelations(refFeatures, targetFeatures []float64, dims int, weight func(dim int) (float64, bool)) []float64 {
	var combined []float64

	for dim := 0; dim < dims; dim++ {
		w, ok := weight(dim)
		if !ok {
			continue
		}

		refDim := strideSlice(refFeatures, dim, dims)
		targetDim := strideSlice(targetFeatures, dim, dims)
		if len(refDim) == 0 || len(targetDim) == 0 {
			continue
		}

		correlation := crossCorrelate(refDim, targetDim)

		if combined == nil {
			combined = correlation
			for i := range combined {
				combined[i] *= w
			}
			continue
		}
		for i := 0; i < min(len(combined), len(correlation)); i++ {
			combined[i] = (combined[i] + correlation[i]*w) / 2
		}
	}

	return combined
}

// strideSlice extracts one dimension from a flat frame-major feature vector.
func strideSlice(features []float64, offset, stride int) []float64 {
	out := make([]float64, 0, len(features)/stride)
	for i := offset; i < len(features); i += stride {
		out = append(out, features[i])
	}
	return out
}

// resultFromCorrelation runs peak selection, the confidence gate, the quality
// metrics and the lag-to-samples conversion shared by all methods. frames is
// the shorter feature-sequence length, which defines the lag axis.
func (a *Aligner) resultFromCorrelation(ctx context.Context, correlation []float64, frames, hop int, method string) Result {
	peak := findBestAlignment(correlation)
	if peak.confidence < a.cfg.ConfidenceThreshold {
		logger.FromCtx(ctx).Debugf("%s rejected: confidence %.3f below threshold %.3f", method, peak.confidence, a.cfg.ConfidenceThreshold)
		return errorResult(ProcessingFailed, method)
	}

	offset := int64(peak.index-(frames-1)) * int64(hop)
	logger.FromCtx(ctx).Tracef("%s peak at lag index %d of %d: offset %d samples, confidence %.3f", method, peak.index, len(correlation), offset, peak.confidence)

	return Result{
		OffsetSamples:      offset,
		Confidence:         peak.confidence,
		PeakCorrelation:    peak.value,
		SecondaryPeakRatio: peak.secondaryPeakRatio,
		SNREstimate:        calculateSNREstimate(correlation, peak.index),
		NoiseFloorDB:       calculateNoiseFloor(correlation),
		Method:             method,
		Error:              Success,
	}
}

// applyAdaptiveThreshold subtracts the value at the given percentile from
// every feature, clamping at zero, so that only values standing above the
// baseline survive.
func applyAdaptiveThreshold(features []float64, percentile float64) []float64 {
	if len(features) == 0 {
		return features
	}

	sorted := make([]float64, len(features))
	copy(sorted, features)
	sort.Float64s(sorted)
	threshold := sorted[int(float64(len(sorted))*percentile)]

	out := make([]float64, len(features))
	for i, v := range features {
		out[i] = math.Max(0, v-threshold)
	}
	return out
}

// normalizeFeatures min-max scales features into [0, 1] in place. A constant
// sequence is left unchanged.
func normalizeFeatures(features []float64) {
	if len(features) == 0 {
		return
	}

	minVal, maxVal := features[0], features[0]
	for _, v := range features {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= minVal {
		return
	}

	scale := maxVal - minVal
	for i := range features {
		features[i] = (features[i] - minVal) / scale
	}
}
