package feature

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Brownie44l1/tajwid-api/internal/audio"
)

const amin = 1e-10

// ExtractionError reports that audio could not be turned into features.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("feature extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// MFCC computes the unpadded MFCC matrix of shape [NumCoefficients x T]
// where T = 1 + len(samples)/HopLength.
func MFCC(samples []float64, cfg Config) (*mat.Dense, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.New("empty samples")
	}
	for i, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("non-finite sample at index %d", i)
		}
	}

	// 1. Power spectrogram -> mel spectrogram
	spec := powerSpectrogram(samples, cfg.FFTSize, cfg.HopLength)
	melFB := newMelFilterbank(cfg)
	var melSpec mat.Dense
	melSpec.Mul(melFB, spec)

	// 2. Power to decibels, clamped to TopDB below the peak
	powerToDB(&melSpec, cfg.TopDB)

	// 3. DCT over the mel axis
	var mfcc mat.Dense
	mfcc.Mul(newDCTMatrix(cfg.NumCoefficients, cfg.NumMelFilters), &melSpec)
	return &mfcc, nil
}

// Extract computes the fixed-length MFCC matrix for a signal that is already
// at cfg.SampleRate.
func Extract(sig audio.Signal, cfg Config) (*Matrix, error) {
	if sig.SampleRate != cfg.SampleRate {
		return nil, &ExtractionError{Err: fmt.Errorf("signal is %d Hz, extractor expects %d Hz", sig.SampleRate, cfg.SampleRate)}
	}
	m, err := MFCC(sig.Samples, cfg)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	return FixLength(m, cfg.MaxFrames), nil
}

// ExtractFile decodes a WAV file, resamples it to cfg.SampleRate, and
// extracts the fixed-length MFCC matrix.
func ExtractFile(path string, cfg Config) (*Matrix, error) {
	sig, err := audio.Load(path, cfg.SampleRate)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	return Extract(sig, cfg)
}

func powerToDB(m *mat.Dense, topDB float64) {
	m.Apply(func(_, _ int, v float64) float64 {
		return 10 * math.Log10(math.Max(amin, v))
	}, m)
	if topDB <= 0 {
		return
	}
	floor := mat.Max(m) - topDB
	m.Apply(func(_, _ int, v float64) float64 {
		return math.Max(v, floor)
	}, m)
}
