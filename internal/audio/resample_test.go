package audio

import (
	"math"
	"testing"
)

func TestResampleSameRate(t *testing.T) {
	in := Signal{Samples: []float64{0.1, 0.2, 0.3}, SampleRate: 22050}
	out, err := Resample(in, 22050)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if len(out.Samples) != 3 || out.Samples[2] != 0.3 {
		t.Errorf("expected passthrough, got %v", out.Samples)
	}
}

func TestResampleChangesRate(t *testing.T) {
	n := 16000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/16000)
	}

	out, err := Resample(Signal{Samples: samples, SampleRate: 16000}, 22050)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if out.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", out.SampleRate)
	}
	if want := ResampledLength(n, 16000, 22050); len(out.Samples) != want {
		t.Errorf("got %d samples, want %d", len(out.Samples), want)
	}
}

func TestResampleKeepsTail(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		from, to int
		want     int
		// tail is set where the flushed output reaches the expected length.
		tail     bool
	}{
		{"44.1k to 22.05k", 51200, 44100, 22050, 25600, true},
		{"48k to 22.05k", 48000, 48000, 22050, 22050, false},
		{"odd length", 44101, 44100, 22050, 22051, false},
		{"8k to 22.05k", 8000, 8000, 22050, 22050, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]float64, tt.n)
			for i := range samples {
				samples[i] = 0.5 * math.Sin(2*math.Pi*300*float64(i)/float64(tt.from))
			}
			out, err := Resample(Signal{Samples: samples, SampleRate: tt.from}, tt.to)
			if err != nil {
				t.Fatalf("Resample: %v", err)
			}
			if len(out.Samples) != tt.want {
				t.Fatalf("got %d samples, want %d", len(out.Samples), tt.want)
			}
			if !tt.tail {
				return
			}
			// The last 10 ms still carry the tone rather than padding.
			var energy float64
			for _, v := range out.Samples[len(out.Samples)-tt.to/100:] {
				energy += v * v
			}
			if energy == 0 {
				t.Error("tail of the resampled signal is silent")
			}
		})
	}
}

func TestResampledLength(t *testing.T) {
	if got := ResampledLength(51200, 44100, 22050); got != 25600 {
		t.Errorf("ResampledLength = %d, want 25600", got)
	}
	if got := ResampledLength(3, 44100, 22050); got != 2 {
		t.Errorf("ResampledLength = %d, want 2", got)
	}
}

func TestResampleInvalidRates(t *testing.T) {
	if _, err := Resample(Signal{Samples: []float64{0}, SampleRate: 16000}, 0); err == nil {
		t.Error("expected error for zero target rate")
	}
	if _, err := Resample(Signal{Samples: []float64{0}}, 22050); err == nil {
		t.Error("expected error for zero source rate")
	}
}
