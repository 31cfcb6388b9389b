package audio

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Source supplies blocks of mono PCM samples in [-1,1]. Read fills buf and
// returns the number of samples written; io.EOF terminates the extractor.
type Source interface {
	// Read fills buf with samples and returns how many were written.
	Read(buf []float64) (int, error)
	// SampleRate returns the source's sample rate in Hz.
	SampleRate() float64
	// Close releases the source.
	Close() error
}

// WAVSource reads a PCM WAV file. Multi-channel input is mixed down to mono.
type WAVSource struct {
	f        *os.File
	dec      *wav.Decoder
	buf      *goaudio.IntBuffer
	scale    float64
	channels int
}

// OpenWAV opens a WAV file as an audio source.
func OpenWAV(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("not a valid wav file: %s", path)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	return &WAVSource{
		f:        f,
		dec:      dec,
		scale:    1.0 / float64(int(1)<<(bitDepth-1)),
		channels: channels,
	}, nil
}

// SampleRate returns the file's sample rate.
func (s *WAVSource) SampleRate() float64 {
	return float64(s.dec.SampleRate)
}

// Read fills buf with mono samples, averaging channels.
func (s *WAVSource) Read(buf []float64) (int, error) {
	want := len(buf) * s.channels
	if s.buf == nil || len(s.buf.Data) != want {
		s.buf = &goaudio.IntBuffer{Data: make([]int, want)}
	}

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil {
		return 0, fmt.Errorf("failed to read pcm: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	frames := n / s.channels
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < s.channels; c++ {
			sum += float64(s.buf.Data[i*s.channels+c]) * s.scale
		}
		buf[i] = sum / float64(s.channels)
	}
	return frames, nil
}

// Close closes the underlying file.
func (s *WAVSource) Close() error {
	return s.f.Close()
}

// Silence is a Source producing zero samples forever. Used when no audio is
// configured so effects still receive a valid (zero) spectrum.
type Silence struct {
	rate float64
}

// NewSilence creates a silent source at the given sample rate.
func NewSilence(rate float64) *Silence {
	return &Silence{rate: rate}
}

// Read zeroes buf.
func (s *Silence) Read(buf []float64) (int, error) {
	for i := range buf {
		buf[i] = 0
	}
	return len(buf), nil
}

// SampleRate returns the configured rate.
func (s *Silence) SampleRate() float64 {
	return s.rate
}

// Close is a no-op.
func (s *Silence) Close() error {
	return nil
}
