package filter

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// designBandpass computes Hamming-windowed sinc bandpass coefficients for
// the given spec. The returned kernel has odd length so the group delay
// (len-1)/2 is an integer sample count.
func designBandpass(sp Spec, rate float64) []float64 {
	n := kernelLength(sp, rate)
	m := (n - 1) / 2

	wl := 2 * math.Pi * sp.Low / rate
	wh := 2 * math.Pi * sp.High / rate

	coeffs := make([]float64, n)
	for i := range coeffs {
		k := i - m
		if k == 0 {
			coeffs[i] = (wh - wl) / math.Pi
			continue
		}
		x := float64(k)
		coeffs[i] = (math.Sin(wh*x) - math.Sin(wl*x)) / (math.Pi * x)
	}

	vecmath.MulBlockInPlace(coeffs, hamming(n))
	normalizePassband(coeffs, sp, rate)
	return coeffs
}

// kernelLength picks the FIR length from the narrower transition band using
// the ~3.3/deltaF rule for a Hamming window, forced odd.
func kernelLength(sp Spec, rate float64) int {
	nyquist := rate / 2

	twLow := math.Min(math.Max(0.25*sp.Low, 2), sp.Low)
	twHigh := math.Min(math.Max(0.25*sp.High, 2), nyquist-sp.High)
	tw := math.Min(twLow, twHigh)

	n := int(math.Ceil(3.3 * rate / tw))
	if n%2 == 0 {
		n++
	}
	if n < 3 {
		n = 3
	}
	return n
}

func hamming(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// normalizePassband scales the kernel to unity gain at the geometric band
// center, so in-band content passes unattenuated.
func normalizePassband(coeffs []float64, sp Spec, rate float64) {
	center := math.Sqrt(sp.Low * sp.High)
	w := 2 * math.Pi * center / rate

	var re, im float64
	for k, c := range coeffs {
		re += c * math.Cos(w*float64(k))
		im -= c * math.Sin(w*float64(k))
	}
	gain := math.Hypot(re, im)
	if gain == 0 {
		return
	}
	for i := range coeffs {
		coeffs[i] /= gain
	}
}
