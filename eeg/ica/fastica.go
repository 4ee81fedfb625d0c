package ica

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/Metanome/eeg-preprocppl/eeg/series"
)

// ErrNonConvergence reports that the fixed-point iteration did not settle
// within the iteration cap. No usable model exists in that case.
var ErrNonConvergence = errors.New("ica: decomposition did not converge")

var errDegenerate = errors.New("ica: degenerate channel covariance")

// Fit decomposes the series into statistically independent sources and
// returns the fitted model. The input series is not modified.
func (d *Decomposer) Fit(s *series.Series) (*Model, error) {
	nChan := len(s.Channels)
	nSamp := s.Samples()
	if nChan == 0 || nSamp < 2 {
		return nil, fmt.Errorf("ica: need at least one channel and two samples, got %dx%d", nChan, nSamp)
	}

	effective := d.components
	if effective > nChan {
		effective = nChan
	}
	maxIter := d.iterationCap(effective)

	means := rowMeans(s.Data)
	centered := centeredMatrix(s.Data, means)

	whiten, dewhiten, err := whitenTransforms(centered, effective)
	if err != nil {
		return nil, err
	}

	// Whitened data: effective x samples, unit covariance.
	var z mat.Dense
	z.Mul(whiten, centered)

	w, iterations, err := d.fixedPoint(&z, effective, nSamp, maxIter)
	if err != nil {
		return nil, err
	}

	var unmixing mat.Dense
	unmixing.Mul(w, whiten)

	var mixing mat.Dense
	mixing.Mul(dewhiten, w.T())

	return &Model{
		Requested:  d.components,
		Effective:  effective,
		Seed:       d.seed,
		MaxIter:    maxIter,
		Iterations: iterations,
		unmixing:   &unmixing,
		mixing:     &mixing,
		means:      means,
	}, nil
}

// fixedPoint runs the symmetric FastICA iteration with a tanh contrast on
// whitened data z (effective x samples).
func (d *Decomposer) fixedPoint(z *mat.Dense, effective, nSamp, maxIter int) (*mat.Dense, int, error) {
	rng := rand.New(rand.NewSource(d.seed))
	w := mat.NewDense(effective, effective, nil)
	for i := 0; i < effective; i++ {
		for j := 0; j < effective; j++ {
			w.Set(i, j, rng.NormFloat64())
		}
	}
	if err := symDecorrelate(w); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNonConvergence, err)
	}

	invSamp := 1 / float64(nSamp)
	for iter := 1; iter <= maxIter; iter++ {
		// Projected sources under the current estimate.
		var y mat.Dense
		y.Mul(w, z)

		// tanh contrast and the per-component mean of its derivative.
		rows, cols := y.Dims()
		g := mat.NewDense(rows, cols, nil)
		gDerMean := make([]float64, rows)
		for r := 0; r < rows; r++ {
			var derSum float64
			for c := 0; c < cols; c++ {
				t := math.Tanh(y.At(r, c))
				g.Set(r, c, t)
				derSum += 1 - t*t
			}
			gDerMean[r] = derSum * invSamp
		}

		// w1 = E[g(y) z^T] - diag(E[g'(y)]) w
		var w1 mat.Dense
		w1.Mul(g, z.T())
		w1.Scale(invSamp, &w1)
		for r := 0; r < rows; r++ {
			for c := 0; c < rows; c++ {
				w1.Set(r, c, w1.At(r, c)-gDerMean[r]*w.At(r, c))
			}
		}

		if err := symDecorrelate(&w1); err != nil {
			return nil, iter, fmt.Errorf("%w: %v", ErrNonConvergence, err)
		}

		// Convergence: the new estimate stops rotating relative to the old
		// one when every diagonal of w1 w^T approaches +-1.
		var rot mat.Dense
		rot.Mul(&w1, w.T())
		lim := 0.0
		for r := 0; r < rows; r++ {
			dev := math.Abs(1 - math.Abs(rot.At(r, r)))
			if dev > lim {
				lim = dev
			}
		}

		w.Copy(&w1)
		if lim < d.tol {
			return w, iter, nil
		}
	}

	return nil, maxIter, fmt.Errorf("%w after %d iterations", ErrNonConvergence, maxIter)
}

// whitenTransforms computes the whitening (effective x channels) and
// dewhitening (channels x effective) transforms from the covariance of the
// centered data.
func whitenTransforms(centered *mat.Dense, effective int) (*mat.Dense, *mat.Dense, error) {
	nChan, nSamp := centered.Dims()

	var cov mat.SymDense
	cov.SymOuterK(1/float64(nSamp-1), centered)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		return nil, nil, errDegenerate
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back ascending; take the top `effective`. Anything
	// vanishing relative to the largest marks rank-deficient data.
	floor := vals[nChan-1] * 1e-9
	if floor <= 0 {
		return nil, nil, errDegenerate
	}

	whiten := mat.NewDense(effective, nChan, nil)
	dewhiten := mat.NewDense(nChan, effective, nil)
	for k := 0; k < effective; k++ {
		idx := nChan - 1 - k
		if vals[idx] <= floor {
			return nil, nil, fmt.Errorf("%w: eigenvalue %g", errDegenerate, vals[idx])
		}
		scale := math.Sqrt(vals[idx])
		for c := 0; c < nChan; c++ {
			v := vecs.At(c, idx)
			whiten.Set(k, c, v/scale)
			dewhiten.Set(c, k, v*scale)
		}
	}
	return whiten, dewhiten, nil
}

// symDecorrelate replaces w with (w w^T)^{-1/2} w, keeping the rows
// mutually orthogonal without privileging any single component.
func symDecorrelate(w *mat.Dense) error {
	n, _ := w.Dims()

	var wwt mat.SymDense
	wwt.SymOuterK(1, w)

	var eig mat.EigenSym
	if !eig.Factorize(&wwt, true) {
		return errDegenerate
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// (w w^T)^{-1/2} = E diag(1/sqrt(vals)) E^T
	invRoot := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		if vals[i] <= 0 {
			return errDegenerate
		}
		s := 1 / math.Sqrt(vals[i])
		for r := 0; r < n; r++ {
			invRoot.Set(r, i, vecs.At(r, i)*s)
		}
	}

	var tmp, out mat.Dense
	tmp.Mul(invRoot, vecs.T())
	out.Mul(&tmp, w)
	w.Copy(&out)
	return nil
}

func rowMeans(data [][]float64) []float64 {
	means := make([]float64, len(data))
	for i, row := range data {
		var sum float64
		for _, v := range row {
			sum += v
		}
		means[i] = sum / float64(len(row))
	}
	return means
}
