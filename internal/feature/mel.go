package feature

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSp       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSp
)

var melLogStep = math.Log(6.4) / 27.0

func hzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}
	return hz / melFSp
}

func melToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}
	return melFSp * mel
}

// melFrequencies returns n center frequencies in Hz, equally spaced on the mel scale.
func melFrequencies(n int, lowHz, highHz float64) []float64 {
	lowMel := hzToMel(lowHz)
	highMel := hzToMel(highHz)
	freqs := make([]float64, n)
	for i := range freqs {
		m := lowMel
		if n > 1 {
			m += float64(i) * (highMel - lowMel) / float64(n-1)
		}
		freqs[i] = melToHz(m)
	}
	return freqs
}

// newMelFilterbank builds the triangular filterbank as a
// [numFilters x fftSize/2+1] matrix with Slaney area normalization.
func newMelFilterbank(cfg Config) *mat.Dense {
	nBins := cfg.FFTSize/2 + 1
	fb := mat.NewDense(cfg.NumMelFilters, nBins, nil)

	fftFreqs := make([]float64, nBins)
	for j := range fftFreqs {
		fftFreqs[j] = float64(j) * float64(cfg.SampleRate) / float64(cfg.FFTSize)
	}

	melF := melFrequencies(cfg.NumMelFilters+2, cfg.LowFreq, cfg.highFreq())

	for i := 0; i < cfg.NumMelFilters; i++ {
		left, center, right := melF[i], melF[i+1], melF[i+2]
		norm := 2.0 / (right - left)
		for j, f := range fftFreqs {
			lower := (f - left) / (center - left)
			upper := (right - f) / (right - center)
			w := math.Max(0, math.Min(lower, upper))
			if w > 0 {
				fb.Set(i, j, w*norm)
			}
		}
	}
	return fb
}
