package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/Metanome/eeg-preprocppl/eeg/filter"
	"github.com/Metanome/eeg-preprocppl/eeg/ica"
)

// DefaultEpochLength is the window length in seconds used when epoching is
// enabled without an explicit length.
const DefaultEpochLength = 2.0

type config struct {
	band        filter.Spec
	components  int
	seed        int64
	epoch       bool
	epochLength float64
	log         zerolog.Logger
}

func defaultConfig() config {
	return config{
		band:        filter.DefaultSpec(),
		components:  ica.DefaultComponents,
		seed:        ica.DefaultSeed,
		epochLength: DefaultEpochLength,
		log:         zerolog.Nop(),
	}
}

// Option configures a pipeline run.
type Option func(*config)

// WithBand sets the bandpass cutoffs in Hz.
func WithBand(low, high float64) Option {
	return func(c *config) {
		c.band.Low = low
		c.band.High = high
	}
}

// WithComponents sets the requested ICA component count.
func WithComponents(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.components = n
		}
	}
}

// WithSeed sets the deterministic decomposition seed.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithEpoching enables fixed-window segmentation of the cleaned output.
func WithEpoching(length float64) Option {
	return func(c *config) {
		c.epoch = true
		if length > 0 {
			c.epochLength = length
		}
	}
}

// WithLogger attaches a logger for stage events. Runs are silent otherwise.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}
