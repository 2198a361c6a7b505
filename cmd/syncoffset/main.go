package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	"github.com/harmoniq/sync/pkg/aligner"
	"github.com/harmoniq/sync/pkg/clip"
)

func main() {
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	methodFlag := pflag.String("method", "hybrid", "alignment method: spectral-flux, chroma, energy, mfcc or hybrid")
	useCaseFlag := pflag.String("use-case", "", "configuration preset: music, speech, ambient, multicam or broadcast")
	thresholdFlag := pflag.Float64("confidence-threshold", -1, "override the preset confidence threshold")
	pflag.Parse()

	if pflag.NArg() != 2 {
		panic(fmt.Errorf("expected exactly two arguments: <reference-wav> <target-wav>"))
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	method, err := parseMethod(*methodFlag)
	assertNoError(err)

	cfg := aligner.DefaultConfig()
	if *useCaseFlag != "" {
		cfg = aligner.ConfigForUseCase(*useCaseFlag)
	}
	if *thresholdFlag >= 0 {
		cfg.ConfidenceThreshold = *thresholdFlag
	}

	a, err := aligner.New(cfg)
	assertNoError(err)

	reference, refRate, err := readWAV(pflag.Arg(0))
	assertNoError(err)
	target, targetRate, err := readWAV(pflag.Arg(1))
	assertNoError(err)
	l.Debugf("loaded %d reference and %d target samples (%v / %v Hz)", len(reference), len(target), refRate, targetRate)

	if refRate != targetRate {
		panic(fmt.Errorf("sample rates differ: %v vs %v", refRate, targetRate))
	}

	result := a.Align(ctx,
		clip.FromSamples(reference, refRate),
		clip.FromSamples(target, targetRate),
		method,
	)
	l.Debugf("alignment result: %s", spew.Sdump(result))

	if !result.OK() {
		fmt.Fprintf(os.Stderr, "alignment failed: %s (%s)\n", result.Error.Description(), result.Method)
		os.Exit(1)
	}

	fmt.Printf("offset: %d samples (%.3f s)\n", result.OffsetSamples, float64(result.OffsetSamples)/refRate)
	fmt.Printf("method: %s\n", result.Method)
	fmt.Printf("confidence: %.3f\n", result.Confidence)
	fmt.Printf("peak correlation: %.3f\n", result.PeakCorrelation)
	fmt.Printf("secondary peak ratio: %.3f\n", result.SecondaryPeakRatio)
	fmt.Printf("snr estimate: %.1f dB\n", result.SNREstimate)
	fmt.Printf("noise floor: %.1f dB\n", result.NoiseFloorDB)
}

func parseMethod(name string) (aligner.Method, error) {
	switch name {
	case "spectral-flux":
		return aligner.MethodSpectralFlux, nil
	case "chroma":
		return aligner.MethodChroma, nil
	case "energy":
		return aligner.MethodEnergy, nil
	case "mfcc":
		return aligner.MethodMFCC, nil
	case "hybrid":
		return aligner.MethodHybrid, nil
	}
	return 0, fmt.Errorf("unknown method: %q", name)
}

// readWAV decodes a WAV file into mono float32 samples in [-1, 1]. Multi-channel
// files are downmixed by averaging.
func readWAV(path string) ([]float32, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("unable to decode %s: %w", path, err)
	}

	samples, err := downmix(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return samples, float64(buf.Format.SampleRate), nil
}

// downmix converts an interleaved PCM buffer to mono float32 in [-1, 1] by
// averaging the channels.
func downmix(buf *audio.IntBuffer) ([]float32, error) {
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("no channels")
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data)/channels)
	for i := range samples {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += float32(buf.Data[i*channels+ch]) / scale
		}
		samples[i] = sum / float32(channels)
	}
	return samples, nil
}

func assertNoError(err error) {
	if err != nil {
		panic(err)
	}
}
