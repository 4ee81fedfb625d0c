// Package reconstruct removes excluded decomposition sources from a series,
// producing the cleaned channel-space series.
package reconstruct

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Metanome/eeg-preprocppl/eeg/ica"
	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// Apply reconstructs s with the excluded components removed by subtracting
// their mixed-back contribution from the original data. Signal content
// outside the fitted subspace passes through untouched, so an empty exclude
// set reproduces the input exactly. The output is a new series with
// identical channel count, order, roles, and sample rate.
func Apply(s *series.Series, model *ica.Model, exclude []int) (*series.Series, error) {
	for _, idx := range exclude {
		if idx < 0 || idx >= model.Effective {
			return nil, fmt.Errorf("reconstruct: exclude index %d outside [0, %d)", idx, model.Effective)
		}
	}

	if len(exclude) == 0 {
		out, err := s.WithData(cloneData(s.Data))
		if err != nil {
			return nil, fmt.Errorf("reconstruct: %w", err)
		}
		return out, nil
	}

	sources, err := model.Sources(s)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}

	// Keep only the excluded sources; everything else contributes nothing
	// to the subtracted artifact signal.
	_, nSamp := sources.Dims()
	keep := make(map[int]struct{}, len(exclude))
	for _, idx := range exclude {
		keep[idx] = struct{}{}
	}
	zero := make([]float64, nSamp)
	for r := 0; r < model.Effective; r++ {
		if _, excluded := keep[r]; !excluded {
			sources.SetRow(r, zero)
		}
	}

	var artifactPart mat.Dense
	artifactPart.Mul(model.Mixing(), sources)

	data := make([][]float64, len(s.Data))
	for c, row := range s.Data {
		out := make([]float64, len(row))
		for i, v := range row {
			out[i] = v - artifactPart.At(c, i)
		}
		data[c] = out
	}

	cleaned, err := s.WithData(data)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}
	return cleaned, nil
}

func cloneData(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}
