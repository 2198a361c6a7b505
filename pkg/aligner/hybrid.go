package aligner

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"github.com/harmoniq/sync/pkg/clip"
)

// alignHybrid runs the four primary methods and fuses the survivors into a
// single result. Numeric fields are combined as confidence-weighted means;
// the secondary peak ratio is a plain mean. If every method fails, so does
// the hybrid.
func (a *Aligner) alignHybrid(ctx context.Context, reference, target *clip.Clip) Result {
	method := MethodHybrid.String()

	candidates := []Result{
		a.alignSpectralFlux(ctx, reference, target),
		a.alignChroma(ctx, reference, target),
		a.alignEnergy(ctx, reference, target),
		a.alignMFCC(ctx, reference, target),
	}

	var survivors []Result
	var rejections *multierror.Error
	for _, candidate := range candidates {
		if candidate.OK() {
			survivors = append(survivors, candidate)
		} else {
			rejections = multierror.Append(rejections, fmt.Errorf("%s: %s", candidate.Method, candidate.Error.Description()))
		}
	}

	if err := rejections.ErrorOrNil(); err != nil {
		logger.FromCtx(ctx).Debugf("hybrid: %d of %d methods rejected: %v", len(candidates)-len(survivors), len(candidates), err)
	}
	if len(survivors) == 0 {
		return errorResult(ProcessingFailed, method)
	}

	var totalWeight, offset, confidence, correlation, snr, noiseFloor, secondaryRatio float64
	for _, r := range survivors {
		w := r.Confidence
		totalWeight += w
		offset += float64(r.OffsetSamples) * w
		confidence += r.Confidence * w
		correlation += r.PeakCorrelation * w
		snr += r.SNREstimate * w
		noiseFloor += r.NoiseFloorDB * w
		secondaryRatio += r.SecondaryPeakRatio
	}
	if totalWeight <= 0 {
		return errorResult(ProcessingFailed, method)
	}

	return Result{
		OffsetSamples:      int64(offset / totalWeight),
		Confidence:         confidence / totalWeight,
		PeakCorrelation:    correlation / totalWeight,
		SecondaryPeakRatio: secondaryRatio / float64(len(survivors)),
		SNREstimate:        snr / totalWeight,
		NoiseFloorDB:       noiseFloor / totalWeight,
		Method:             method,
		Error:              Success,
	}
}
