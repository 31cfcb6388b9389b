package audio

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

// Band edges in Hz.
const (
	bassLow  = 20.0
	bassHigh = 250.0
	midsHigh = 4000.0
	highHigh = 20000.0
)

// Analyzer turns a block of PCM samples into a Spectrum. It applies a Hann
// window, runs an FFT and sums band magnitudes, normalizing against a slowly
// decaying rolling peak so quiet and loud material both fill the [0,1] range.
type Analyzer struct {
	fftSize    int
	sampleRate float64
	plan       *algofft.Plan[complex128]
	coeffs     []float64
	in         []complex128
	out        []complex128
	maxVal     float64
}

// NewAnalyzer creates an analyzer for the given FFT size (a power of two)
// and sample rate.
func NewAnalyzer(fftSize int, sampleRate float64) (*Analyzer, error) {
	if fftSize <= 0 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %v", sampleRate)
	}
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create fft plan: %w", err)
	}
	return &Analyzer{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		plan:       plan,
		coeffs:     window.Generate(window.TypeHann, fftSize),
		in:         make([]complex128, fftSize),
		out:        make([]complex128, fftSize),
		maxVal:     0.01,
	}, nil
}

// Process analyzes one block of samples. Blocks shorter than the FFT size
// are zero-padded, longer ones truncated. Energy is plain RMS of the input;
// band values are peak-normalized.
func (a *Analyzer) Process(samples []float64) (Spectrum, error) {
	var sumSq float64
	for _, s := range samples {
		sumSq += s * s
	}
	energy := 0.0
	if len(samples) > 0 {
		energy = math.Sqrt(sumSq / float64(len(samples)))
	}

	for i := 0; i < a.fftSize; i++ {
		v := 0.0
		if i < len(samples) {
			v = samples[i] * a.coeffs[i]
		}
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Spectrum{Energy: clamp01(energy)}, fmt.Errorf("fft failed: %w", err)
	}

	binHz := a.sampleRate / float64(a.fftSize)
	scale := 1.0 / float64(a.fftSize)

	var bass, mids, highs float64
	for k := 1; k <= a.fftSize/2; k++ {
		f := float64(k) * binHz
		if f < bassLow || f > highHigh {
			continue
		}
		mag := cmplxAbs(a.out[k]) * scale
		switch {
		case f < bassHigh:
			bass += mag
		case f < midsHigh:
			mids += mag
		default:
			highs += mag
		}
	}

	// Rolling-max AGC: track the loudest band and decay slowly so the
	// normalization adapts to quieter passages.
	peak := math.Max(bass, math.Max(mids, highs))
	if peak > a.maxVal {
		a.maxVal = peak
	} else {
		a.maxVal *= 0.99
		if a.maxVal < 0.001 {
			a.maxVal = 0.001
		}
	}

	return Spectrum{
		Bass:   clamp01(bass / a.maxVal),
		Mids:   clamp01(mids / a.maxVal),
		Highs:  clamp01(highs / a.maxVal),
		Energy: clamp01(energy),
	}, nil
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
