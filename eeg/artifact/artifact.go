// Package artifact scores decomposed sources against reference artifact
// channels and selects the components to exclude from reconstruction.
//
// Detection is fail-soft: a recording without reference channels skips
// scoring entirely, and any scoring error degrades to an empty exclude set
// instead of aborting the pipeline. The three outcomes stay distinguishable
// through [Decision] so callers can log and test them separately.
package artifact

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Metanome/eeg-preprocppl/eeg/ica"
	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// ThresholdFloor is the minimum absolute correlation a component must reach
// before it can be excluded, regardless of the adaptive threshold.
const ThresholdFloor = 0.3

// Outcome tags how a detection run ended.
type Outcome int

const (
	// OutcomeDetected means scoring ran and produced component indices
	// (possibly none crossed the threshold).
	OutcomeDetected Outcome = iota
	// OutcomeSkipped means no reference artifact channel exists, so no
	// scoring was attempted.
	OutcomeSkipped
	// OutcomeFailed means scoring errored; detection degraded to an empty
	// exclude set.
	OutcomeFailed
)

// Decision is the result of a detection run. Skipped and Failed decisions
// collapse to an empty exclude set downstream but keep their cause.
type Decision struct {
	outcome Outcome
	indices []int
	scores  []float64 // per-component max |r| across references, detected runs only
	reason  string
	err     error
}

// Outcome returns the decision tag.
func (d Decision) Outcome() Outcome { return d.outcome }

// ExcludeSet returns the component indices to zero during reconstruction,
// sorted ascending. Empty for skipped and failed decisions.
func (d Decision) ExcludeSet() []int {
	return append([]int(nil), d.indices...)
}

// Scores returns the per-component peak absolute correlation for detected
// runs, nil otherwise.
func (d Decision) Scores() []float64 {
	return append([]float64(nil), d.scores...)
}

// Reason describes why scoring was skipped.
func (d Decision) Reason() string { return d.reason }

// Err returns the scoring error for failed decisions, nil otherwise.
func (d Decision) Err() error { return d.err }

// Detect scores the model's sources against every reference artifact channel
// in the series and selects components whose absolute Pearson correlation
// crosses the adaptive threshold. It never returns an error; failures are
// folded into the decision.
func Detect(s *series.Series, model *ica.Model) Decision {
	refs := s.ArtifactRefs()
	if len(refs) == 0 {
		return Decision{outcome: OutcomeSkipped, reason: "no reference artifact channel"}
	}

	sources, err := model.SourceRows(s)
	if err != nil {
		return Decision{outcome: OutcomeFailed, err: err}
	}

	peak := make([]float64, len(sources))
	selected := make(map[int]struct{})
	for _, ref := range refs {
		scores, err := scoreAgainst(sources, s.Data[ref])
		if err != nil {
			return Decision{outcome: OutcomeFailed, err: err}
		}

		threshold := adaptiveThreshold(scores)
		for i, r := range scores {
			if r > peak[i] {
				peak[i] = r
			}
			if r >= threshold {
				selected[i] = struct{}{}
			}
		}
	}

	indices := make([]int, 0, len(selected))
	for i := range selected {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	return Decision{outcome: OutcomeDetected, indices: indices, scores: peak}
}

// scoreAgainst computes |Pearson r| of every source row against one
// reference channel.
func scoreAgainst(sources [][]float64, ref []float64) ([]float64, error) {
	scores := make([]float64, len(sources))
	for i, src := range sources {
		if len(src) != len(ref) {
			return nil, fmt.Errorf("artifact: source has %d samples, reference has %d", len(src), len(ref))
		}
		r := stat.Correlation(src, ref, nil)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("artifact: degenerate correlation for component %d", i)
		}
		scores[i] = math.Abs(r)
	}
	return scores, nil
}

// adaptiveThreshold cuts against the run's own score spread: three times the
// median absolute correlation, floored at [ThresholdFloor]. The median keeps
// the rule usable at low component counts, where z-score style cuts can
// never trigger.
func adaptiveThreshold(scores []float64) float64 {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	threshold := 3 * stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if threshold < ThresholdFloor {
		threshold = ThresholdFloor
	}
	return threshold
}
