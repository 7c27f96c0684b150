package feature

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// periodicHann returns the periodic (DFT-even) Hann window of length n.
func periodicHann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// numFrames is the frame count of a centered STFT over n samples.
func numFrames(n, hop int) int {
	return 1 + n/hop
}

// powerSpectrogram computes |STFT|^2 as a [fftSize/2+1 x frames] matrix.
// Frames are centered: the signal is zero-padded by fftSize/2 on both sides.
func powerSpectrogram(samples []float64, fftSize, hop int) *mat.Dense {
	pad := fftSize / 2
	padded := make([]float64, len(samples)+2*pad)
	copy(padded[pad:], samples)

	nBins := fftSize/2 + 1
	frames := numFrames(len(samples), hop)
	spec := mat.NewDense(nBins, frames, nil)

	fft := fourier.NewFFT(fftSize)
	window := periodicHann(fftSize)
	frame := make([]float64, fftSize)
	coeffs := make([]complex128, nBins)

	for t := 0; t < frames; t++ {
		start := t * hop
		for i := range frame {
			frame[i] = padded[start+i] * window[i]
		}
		coeffs = fft.Coefficients(coeffs, frame)
		for k, c := range coeffs {
			re, im := real(c), imag(c)
			spec.Set(k, t, re*re+im*im)
		}
	}
	return spec
}
