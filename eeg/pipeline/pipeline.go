package pipeline

import (
	"fmt"

	"github.com/Metanome/eeg-preprocppl/eeg/artifact"
	"github.com/Metanome/eeg-preprocppl/eeg/codec"
	"github.com/Metanome/eeg-preprocppl/eeg/export"
	"github.com/Metanome/eeg-preprocppl/eeg/filter"
	"github.com/Metanome/eeg-preprocppl/eeg/ica"
	"github.com/Metanome/eeg-preprocppl/eeg/reconstruct"
	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// Result is the outcome of one preprocessing run.
type Result struct {
	Source   *codec.Source
	Raw      *series.Series
	Filtered *series.Series
	Cleaned  series.Result
	Model    *ica.Model
	Decision artifact.Decision

	// CleanedSeries is the continuous cleaned recording before optional
	// epoching, always set even when Cleaned is epoched.
	CleanedSeries *series.Series

	// Exclude is the component index set removed during reconstruction,
	// empty when detection was skipped or failed.
	Exclude []int
}

// Preprocess runs the full batch pipeline over one recording and writes the
// structured and text exports. It fails with [codec.ErrUnsupportedFormat]
// for unrecognized input extensions and [ica.ErrNonConvergence] when the
// decomposition cannot be fitted; artifact-detection problems never fail
// the run.
func Preprocess(inputPath, structuredPath, textPath string, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	log := cfg.log.With().Str("input", inputPath).Logger()

	src, raw, err := codec.Read(inputPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	log.Debug().
		Stringer("format", src.Format).
		Int("channels", len(raw.Channels)).
		Float64("rate", raw.Rate).
		Float64("seconds", raw.Duration()).
		Msg("recording loaded")

	bp, err := filter.New(cfg.band, raw.Rate)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	filtered, err := bp.Apply(raw)
	if err != nil {
		return nil, fmt.Errorf("pipeline: filter: %w", err)
	}
	log.Debug().
		Float64("low", cfg.band.Low).
		Float64("high", cfg.band.High).
		Int("taps", bp.Len()).
		Msg("bandpass applied")

	model, err := ica.NewDecomposer(
		ica.WithComponents(cfg.components),
		ica.WithSeed(cfg.seed),
	).Fit(filtered)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	log.Debug().
		Int("requested", model.Requested).
		Int("effective", model.Effective).
		Int("iterations", model.Iterations).
		Msg("decomposition fitted")

	decision := artifact.Detect(filtered, model)
	exclude := decision.ExcludeSet()
	switch decision.Outcome() {
	case artifact.OutcomeDetected:
		log.Debug().Ints("exclude", exclude).Msg("artifact components detected")
	case artifact.OutcomeSkipped:
		log.Debug().Str("reason", decision.Reason()).Msg("artifact detection skipped")
	case artifact.OutcomeFailed:
		log.Warn().Err(decision.Err()).Msg("artifact detection failed, keeping all components")
	}

	cleaned, err := reconstruct.Apply(filtered, model, exclude)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	result := series.Continuous(cleaned)
	if cfg.epoch {
		epochs, err := series.Segment(cleaned, cfg.epochLength)
		if err != nil {
			return nil, fmt.Errorf("pipeline: epoching: %w", err)
		}
		result = series.Epoched(epochs)
		log.Debug().
			Float64("length", cfg.epochLength).
			Int("windows", len(epochs.Windows)).
			Msg("cleaned series epoched")
	}

	if err := export.Write(result, structuredPath, textPath); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	log.Debug().
		Str("structured", structuredPath).
		Str("text", textPath).
		Msg("exports written")

	return &Result{
		Source:        src,
		Raw:           raw,
		Filtered:      filtered,
		Cleaned:       result,
		Model:         model,
		Decision:      decision,
		CleanedSeries: cleaned,
		Exclude:       exclude,
	}, nil
}
