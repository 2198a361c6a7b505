package aligner

// NoSecondaryPeak is the SecondaryPeakRatio sentinel reported when the
// correlation has no positive runner-up.
const NoSecondaryPeak = 1e10

// errNoiseFloorDB is the noise floor reported in error results.
const errNoiseFloorDB = -60.0

// Result is the outcome of one alignment.
type Result struct {
	// OffsetSamples is target minus reference: positive means the target
	// lags the reference.
	OffsetSamples int64
	// Confidence is in [0, 1]; 0 on error.
	Confidence float64
	// PeakCorrelation is the raw primary correlation value.
	PeakCorrelation float64
	// SecondaryPeakRatio is primary/secondary, or NoSecondaryPeak.
	SecondaryPeakRatio float64
	// SNREstimate is the peak-to-noise ratio of the correlation, in dB.
	SNREstimate float64
	// NoiseFloorDB is the correlation noise floor, in dB.
	NoiseFloorDB float64
	// Method is the tag of the method that produced the result.
	Method string
	// Error is Success for a usable result.
	Error Code
}

// OK reports whether the result is usable.
func (r Result) OK() bool {
	return r.Error == Success
}

func errorResult(code Code, method string) Result {
	return Result{
		NoiseFloorDB: errNoiseFloorDB,
		Method:       method,
		Error:        code,
	}
}

// Record is the C-layout mirror of Result: fixed-width fields and a 32-byte
// NUL-terminated method tag. It is what crosses the ABI boundary.
type Record struct {
	OffsetSamples      int64
	Confidence         float64
	PeakCorrelation    float64
	SecondaryPeakRatio float64
	SNREstimate        float64
	NoiseFloorDB       float64
	Method             [32]byte
	Error              int32
}

// Record converts the result into its ABI layout, truncating the method tag
// to 31 bytes plus NUL.
func (r Result) Record() Record {
	rec := Record{
		OffsetSamples:      r.OffsetSamples,
		Confidence:         r.Confidence,
		PeakCorrelation:    r.PeakCorrelation,
		SecondaryPeakRatio: r.SecondaryPeakRatio,
		SNREstimate:        r.SNREstimate,
		NoiseFloorDB:       r.NoiseFloorDB,
		Error:              int32(r.Error),
	}
	n := copy(rec.Method[:len(rec.Method)-1], r.Method)
	rec.Method[n] = 0
	return rec
}

// MethodString returns the NUL-terminated method tag as a Go string.
func (rec Record) MethodString() string {
	for i, b := range rec.Method {
		if b == 0 {
			return string(rec.Method[:i])
		}
	}
	return string(rec.Method[:])
}
