package filter

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// Kernels above this length are applied through the FFT fast path.
const fftThreshold = 64

// Bandpass applies a zero-phase FIR bandpass to a series.
type Bandpass struct {
	spec   Spec
	rate   float64
	coeffs []float64
}

// New designs a bandpass filter for the given spec and sample rate.
func New(sp Spec, rate float64) (*Bandpass, error) {
	if err := sp.Validate(rate); err != nil {
		return nil, err
	}
	return &Bandpass{spec: sp, rate: rate, coeffs: designBandpass(sp, rate)}, nil
}

// Spec returns the filter configuration.
func (b *Bandpass) Spec() Spec { return b.spec }

// Len returns the kernel length.
func (b *Bandpass) Len() int { return len(b.coeffs) }

// Coefficients returns a copy of the FIR kernel.
func (b *Bandpass) Coefficients() []float64 {
	c := make([]float64, len(b.coeffs))
	copy(c, b.coeffs)
	return c
}

// Apply filters every channel of s and returns a new series. The input is
// not modified; channel count, order, roles, sample count, and sample rate
// carry over exactly.
func (b *Bandpass) Apply(s *series.Series) (*series.Series, error) {
	if s.Rate != b.rate {
		return nil, fmt.Errorf("filter designed for %g Hz applied to %g Hz series", b.rate, s.Rate)
	}
	if s.Samples() == 0 {
		return nil, fmt.Errorf("filter input has no samples")
	}

	conv, err := b.newConvolver(s.Samples())
	if err != nil {
		return nil, err
	}

	data := make([][]float64, len(s.Data))
	for i, row := range s.Data {
		data[i] = b.applyChannel(conv, row)
	}
	return s.WithData(data)
}

// applyChannel runs one channel through the mirror-padded convolution and
// slices out the delay-compensated segment.
func (b *Bandpass) applyChannel(conv convolver, x []float64) []float64 {
	m := (len(b.coeffs) - 1) / 2
	n := len(x)

	padded := make([]float64, n+2*m)
	for i := range padded {
		padded[i] = x[mirror(i-m, n)]
	}

	full := conv(padded)

	// Linear-phase delay of m plus the left pad of m.
	out := make([]float64, n)
	copy(out, full[2*m:2*m+n])
	return out
}

type convolver func(x []float64) []float64

// newConvolver picks direct or FFT convolution for a fixed padded length.
func (b *Bandpass) newConvolver(samples int) (convolver, error) {
	if len(b.coeffs) < fftThreshold {
		return b.convolveDirect, nil
	}

	m := (len(b.coeffs) - 1) / 2
	paddedLen := samples + 2*m
	fftSize := nextPowerOf2(paddedLen + len(b.coeffs) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("filter: fft plan: %w", err)
	}

	kernelFFT := make([]complex128, fftSize)
	tmp := make([]complex128, fftSize)
	for i, c := range b.coeffs {
		tmp[i] = complex(c, 0)
	}
	if err := plan.Forward(kernelFFT, tmp); err != nil {
		return nil, fmt.Errorf("filter: kernel fft: %w", err)
	}

	return func(x []float64) []float64 {
		in := make([]complex128, fftSize)
		for i, v := range x {
			in[i] = complex(v, 0)
		}
		if err := plan.Forward(in, in); err != nil {
			// Plan size is fixed at construction, so Forward on matching
			// buffers cannot fail; fall back to the exact path regardless.
			return b.convolveDirect(x)
		}
		for i := range in {
			in[i] *= kernelFFT[i]
		}
		if err := plan.Inverse(in, in); err != nil {
			return b.convolveDirect(x)
		}
		out := make([]float64, len(x)+len(b.coeffs)-1)
		for i := range out {
			out[i] = real(in[i])
		}
		return out
	}, nil
}

func (b *Bandpass) convolveDirect(x []float64) []float64 {
	h := b.coeffs
	out := make([]float64, len(x)+len(h)-1)
	for i, xv := range x {
		for j, hv := range h {
			out[i+j] += xv * hv
		}
	}
	return out
}

// mirror reflects an out-of-range index back into [0, n) without repeating
// the edge sample.
func mirror(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i = ((i % period) + period) % period
	if i >= n {
		i = period - i
	}
	return i
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
