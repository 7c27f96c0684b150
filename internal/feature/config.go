package feature

import "fmt"

// Config holds the MFCC extraction parameters. The defaults match the
// feature pipeline the classifier was trained with, so changing any of them
// requires retraining the model.
type Config struct {
	SampleRate      int
	FFTSize         int // window length and FFT size in samples
	HopLength       int // frame shift in samples
	NumMelFilters   int
	NumCoefficients int
	MaxFrames       int
	LowFreq         float64
	HighFreq        float64 // 0 means SampleRate/2
	TopDB           float64 // dynamic range kept below the loudest cell; 0 disables
}

// DefaultConfig returns the 40 x 100 MFCC configuration at 22050 Hz.
func DefaultConfig() Config {
	return Config{
		SampleRate:      22050,
		FFTSize:         2048,
		HopLength:       512,
		NumMelFilters:   128,
		NumCoefficients: 40,
		MaxFrames:       100,
		LowFreq:         0,
		HighFreq:        0,
		TopDB:           80,
	}
}

func (c Config) highFreq() float64 {
	if c.HighFreq <= 0 {
		return float64(c.SampleRate) / 2
	}
	return c.HighFreq
}

// Validate reports whether the configuration can produce features.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	case c.FFTSize < 2 || c.FFTSize%2 != 0:
		return fmt.Errorf("fft size must be even and at least 2, got %d", c.FFTSize)
	case c.HopLength <= 0:
		return fmt.Errorf("hop length must be positive, got %d", c.HopLength)
	case c.NumMelFilters <= 0:
		return fmt.Errorf("mel filter count must be positive, got %d", c.NumMelFilters)
	case c.NumCoefficients <= 0 || c.NumCoefficients > c.NumMelFilters:
		return fmt.Errorf("coefficient count must be in [1, %d], got %d", c.NumMelFilters, c.NumCoefficients)
	case c.MaxFrames <= 0:
		return fmt.Errorf("max frames must be positive, got %d", c.MaxFrames)
	case c.LowFreq < 0 || c.LowFreq >= c.highFreq():
		return fmt.Errorf("invalid frequency range [%g, %g]", c.LowFreq, c.highFreq())
	}
	return nil
}
