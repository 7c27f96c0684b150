package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts s to the target sample rate. The input is returned
// unchanged when the rates already match.
func Resample(s Signal, targetRate int) (Signal, error) {
	if targetRate <= 0 {
		return Signal{}, fmt.Errorf("invalid target sample rate %d", targetRate)
	}
	if s.SampleRate <= 0 {
		return Signal{}, fmt.Errorf("invalid source sample rate %d", s.SampleRate)
	}
	if s.SampleRate == targetRate || len(s.Samples) == 0 {
		return Signal{Samples: s.Samples, SampleRate: targetRate}, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(s.SampleRate),
		OutputRate: float64(targetRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return Signal{}, fmt.Errorf("failed to create resampler: %w", err)
	}

	out, err := rs.Process(s.Samples)
	if err != nil {
		return Signal{}, fmt.Errorf("resample error: %w", err)
	}
	tail, err := rs.Flush()
	if err != nil {
		return Signal{}, fmt.Errorf("resample flush: %w", err)
	}
	out = append(out, tail...)

	return Signal{Samples: fitLength(out, ResampledLength(len(s.Samples), s.SampleRate, targetRate)), SampleRate: targetRate}, nil
}

// ResampledLength is the number of samples n input samples occupy at the
// target rate, rounded up.
func ResampledLength(n, sourceRate, targetRate int) int {
	return int(math.Ceil(float64(n) * float64(targetRate) / float64(sourceRate)))
}

// fitLength truncates or zero-pads samples to exactly n values.
func fitLength(samples []float64, n int) []float64 {
	if len(samples) >= n {
		return samples[:n]
	}
	return append(samples, make([]float64, n-len(samples))...)
}

// Load decodes a WAV file and resamples it to targetRate.
func Load(path string, targetRate int) (Signal, error) {
	sig, err := DecodeFile(path)
	if err != nil {
		return Signal{}, err
	}
	return Resample(sig, targetRate)
}
