// Package dsp provides the signal primitives the feature extractors are
// built from: windowing, magnitude spectra, mel filterbanks, DCT-II, chroma
// folding and a handful of scalar statistics. All functions are pure; the
// only shared state is a read-mostly cache of window tables.
package dsp

import (
	"math"
	"sync"
)

var (
	hannMu    sync.Mutex
	hannCache = map[int][]float64{}
)

// HannWindow returns a Hann window of length n:
//
//	w[i] = 0.5 * (1 - cos(2*pi*i/(n-1)))
//
// Tables are cached per length; callers must not modify the returned slice.
func HannWindow(n int) []float64 {
	if n <= 0 {
		return nil
	}

	hannMu.Lock()
	defer hannMu.Unlock()

	if w, ok := hannCache[n]; ok {
		return w
	}

	w := make([]float64, n)
	if n == 1 {
		w[0] = 0
	} else {
		for i := 0; i < n; i++ {
			w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
	}
	hannCache[n] = w
	return w
}
