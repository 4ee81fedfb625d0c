package ica

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// Model is a fitted decomposition. It is immutable after Fit; artifact
// decisions live outside the model.
type Model struct {
	// Requested is the component count asked for; Effective is the count
	// actually fitted, capped at the channel count.
	Requested int
	Effective int

	Seed       int64
	MaxIter    int
	Iterations int

	unmixing *mat.Dense // effective x channels, includes whitening
	mixing   *mat.Dense // channels x effective
	means    []float64  // per-channel means removed before whitening
}

// Unmixing returns a copy of the components-by-channels unmixing matrix.
func (m *Model) Unmixing() *mat.Dense {
	return mat.DenseCopyOf(m.unmixing)
}

// Mixing returns a copy of the channels-by-components mixing matrix.
func (m *Model) Mixing() *mat.Dense {
	return mat.DenseCopyOf(m.mixing)
}

// Means returns a copy of the per-channel means removed during fitting.
func (m *Model) Means() []float64 {
	out := make([]float64, len(m.means))
	copy(out, m.means)
	return out
}

// Sources projects a series into component space, returning an
// effective-by-samples matrix of source time series. The series must have
// the channel count the model was fitted on.
func (m *Model) Sources(s *series.Series) (*mat.Dense, error) {
	if len(s.Channels) != len(m.means) {
		return nil, fmt.Errorf("ica: model fitted on %d channels, series has %d", len(m.means), len(s.Channels))
	}

	centered := centeredMatrix(s.Data, m.means)
	var src mat.Dense
	src.Mul(m.unmixing, centered)
	return &src, nil
}

// SourceRows returns the projected sources as plain per-component slices.
func (m *Model) SourceRows(s *series.Series) ([][]float64, error) {
	src, err := m.Sources(s)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, m.Effective)
	for i := range rows {
		rows[i] = mat.Row(nil, i, src)
	}
	return rows, nil
}

// centeredMatrix copies data into a dense matrix with the given per-row
// means subtracted.
func centeredMatrix(data [][]float64, means []float64) *mat.Dense {
	rows := len(data)
	cols := len(data[0])
	out := mat.NewDense(rows, cols, nil)
	for r, row := range data {
		for c, v := range row {
			out.Set(r, c, v-means[r])
		}
	}
	return out
}
