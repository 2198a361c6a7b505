package aligner

import (
	"context"

	"github.com/harmoniq/sync/pkg/clip"
)

// AlignBatch aligns every target against the one shared reference and returns
// the results in target order. Per-target failures are reported inside their
// Result; the only error returned is context cancellation, in which case the
// partial results computed so far accompany it.
func (a *Aligner) AlignBatch(ctx context.Context, reference *clip.Clip, method Method, targets ...*clip.Clip) ([]Result, error) {
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		results = append(results, a.Align(ctx, reference, target, method))
	}
	return results, nil
}
