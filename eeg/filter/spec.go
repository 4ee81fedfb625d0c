package filter

import "fmt"

// Design identifies a filter design kind.
type Design int

const (
	// DesignWindowedSinc is a Hamming-windowed sinc FIR design.
	DesignWindowedSinc Design = iota
)

// Spec is an immutable bandpass configuration.
type Spec struct {
	Low    float64 // lower cutoff in Hz
	High   float64 // upper cutoff in Hz
	Design Design
}

// DefaultSpec returns the standard EEG cleaning band of 1-40 Hz.
func DefaultSpec() Spec {
	return Spec{Low: 1.0, High: 40.0, Design: DesignWindowedSinc}
}

// Validate checks the spec against a sample rate.
func (sp Spec) Validate(rate float64) error {
	if sp.Low <= 0 {
		return fmt.Errorf("filter low cutoff must be > 0: %f", sp.Low)
	}
	if sp.High <= sp.Low {
		return fmt.Errorf("filter high cutoff must exceed low cutoff: %f <= %f", sp.High, sp.Low)
	}
	if rate <= 0 {
		return fmt.Errorf("filter sample rate must be > 0: %f", rate)
	}
	if sp.High >= rate/2 {
		return fmt.Errorf("filter high cutoff %f must be below Nyquist %f", sp.High, rate/2)
	}
	if sp.Design != DesignWindowedSinc {
		return fmt.Errorf("unknown filter design: %d", sp.Design)
	}
	return nil
}
