// Package signal generates deterministic synthetic multichannel recordings
// for tests, demos, and benchmarks.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// Generator creates deterministic signals from a shared sample rate and seed.
type Generator struct {
	rate float64
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator at the given sample rate.
func NewGenerator(rate float64, opts ...Option) *Generator {
	g := &Generator{rate: rate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Rate returns the generator sample rate.
func (g *Generator) Rate() float64 { return g.rate }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.rate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.rate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.rate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Mix sums the given component signals sample-wise into a new slice. All
// components must share one length.
func Mix(components ...[]float64) ([]float64, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("mix needs at least one component")
	}
	n := len(components[0])
	for i, c := range components {
		if len(c) != n {
			return nil, fmt.Errorf("mix component %d has %d samples, want %d", i, len(c), n)
		}
	}
	out := make([]float64, n)
	for _, c := range components {
		for i, v := range c {
			out[i] += v
		}
	}
	return out, nil
}

// Recording assembles named channels into a series at the generator rate.
// Rows must share one length; channel roles default to [series.RoleSignal].
func (g *Generator) Recording(names []string, rows [][]float64) (*series.Series, error) {
	if len(names) != len(rows) {
		return nil, fmt.Errorf("recording has %d names for %d rows", len(names), len(rows))
	}
	channels := make([]series.Channel, len(names))
	for i, name := range names {
		channels[i] = series.Channel{Name: name, Role: series.RoleSignal}
	}
	return series.New(channels, g.rate, rows)
}
