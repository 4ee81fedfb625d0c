package series

// Kind discriminates the two result shapes a pipeline run can produce.
type Kind int

const (
	// KindContinuous is an un-epoched cleaned recording.
	KindContinuous Kind = iota
	// KindEpoched is a cleaned recording segmented into fixed windows.
	KindEpoched
)

// Result is the tagged continuous-or-epoched variant handed to the exporter.
// Exactly one of the two payloads is set, matching the kind.
type Result struct {
	kind   Kind
	series *Series
	epochs *Epochs
}

// Continuous wraps an un-epoched series.
func Continuous(s *Series) Result {
	return Result{kind: KindContinuous, series: s}
}

// Epoched wraps a segmented series.
func Epoched(e *Epochs) Result {
	return Result{kind: KindEpoched, epochs: e}
}

// Kind returns the variant tag.
func (r Result) Kind() Kind { return r.kind }

// Series returns the continuous payload, nil for epoched results.
func (r Result) Series() *Series { return r.series }

// Epochs returns the epoched payload, nil for continuous results.
func (r Result) Epochs() *Epochs { return r.epochs }
