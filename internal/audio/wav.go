package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

// ErrUnsupportedFormat is returned for input that is not a PCM WAV stream.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Signal is a mono signal with samples normalized to [-1, 1].
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the playback length of the signal.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}

// Decode reads a PCM or 32-bit IEEE float WAV stream of any channel count
// and returns it as a mono signal at its native sample rate. Multi-channel
// input is downmixed by averaging.
func Decode(r io.ReadSeeker) (Signal, error) {
	format, err := sampleFormat(r)
	if err != nil {
		return Signal{}, fmt.Errorf("%w: not a valid WAV file", ErrUnsupportedFormat)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Signal{}, err
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Signal{}, fmt.Errorf("%w: not a valid WAV file", ErrUnsupportedFormat)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	switch {
	case format == wavFormatPCM && (bitDepth == 8 || bitDepth == 16 || bitDepth == 24 || bitDepth == 32):
	case format == wavFormatIEEEFloat && bitDepth == 32:
	case format == wavFormatPCM || format == wavFormatIEEEFloat:
		return Signal{}, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, bitDepth)
	default:
		return Signal{}, fmt.Errorf("%w: WAV sample format %#x (only PCM and float are supported)", ErrUnsupportedFormat, format)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Signal{}, fmt.Errorf("read PCM data: %w", err)
	}

	sample := func(v int) float64 { return normalize(v, bitDepth) }
	if format == wavFormatIEEEFloat {
		sample = func(v int) float64 { return float64(math.Float32frombits(uint32(int32(v)))) }
	}

	numFrames := len(buf.Data) / channels
	samples := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += sample(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels)
	}

	return Signal{Samples: samples, SampleRate: int(dec.SampleRate)}, nil
}

// sampleFormat returns the format tag of the fmt chunk, resolving
// WAVE_FORMAT_EXTENSIBLE to the tag embedded in its SubFormat GUID.
func sampleFormat(r io.Reader) (uint16, error) {
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return 0, err
	}
	if p.Format != riff.WavFormatID {
		return 0, riff.ErrFmtNotSupported
	}
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, err
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		header := make([]byte, ch.Size)
		if _, err := io.ReadFull(ch, header); err != nil {
			return 0, err
		}
		if len(header) < 16 {
			return 0, riff.ErrUnexpectedData
		}
		tag := binary.LittleEndian.Uint16(header)
		if tag == wavFormatExtensible {
			// cbSize(2) validBits(2) channelMask(4) precede the SubFormat GUID.
			if len(header) < 26 {
				return 0, riff.ErrUnexpectedData
			}
			tag = binary.LittleEndian.Uint16(header[24:])
		}
		return tag, nil
	}
}

// DecodeFile is a convenience wrapper that opens a file path.
func DecodeFile(path string) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, err
	}
	defer f.Close()
	return Decode(f)
}

// normalize maps an integer PCM sample to [-1, 1]. 8-bit WAV data is unsigned.
func normalize(v, bitDepth int) float64 {
	if bitDepth == 8 {
		return float64(v-128) / 128.0
	}
	return float64(v) / float64(int64(1)<<(bitDepth-1))
}
