package rmsd

import (
	"fmt"

	"github.com/umarbrowser/mdanalysis/traj"
)

// RMSD returns the minimal root-mean-square deviation between the
// coordinate sets a and b under an optimal rigid rotation.
//
// The superposition removes rotations only: unless center is true, a
// and b must already be centered on the origin so that translations
// are removed. With center set, each set is centered on its own
// (weighted) centroid first; the inputs are never mutated.
//
// A nil weights slice yields an unweighted fit. Otherwise weights must
// hold one non-negative value per atom (e.g. masses); they are
// normalized to a mean of 1 internally and the caller's slice is left
// alone.
func RMSD(a, b []traj.Coords, weights []float64, center bool) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	w, err := normalizeWeights(weights, len(a))
	if err != nil {
		return 0, err
	}
	if center {
		a = centered(a, w)
		b = centered(b, w)
	}
	return RMSDRotation(a, b, w, nil)
}

// normalizeWeights returns a copy of weights scaled to a mean of 1, or
// nil for nil input. n is the expected length.
func normalizeWeights(weights []float64, n int) ([]float64, error) {
	if weights == nil {
		return nil, nil
	}
	if len(weights) != n {
		return nil, fmt.Errorf("%w: %d weights for %d atoms",
			ErrDimensionMismatch, len(weights), n)
	}
	var sum float64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("rmsd: negative weight %g", w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, fmt.Errorf("rmsd: weights sum to zero")
	}
	mean := sum / float64(len(weights))
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / mean
	}
	return out, nil
}

// centered returns a copy of ps translated so its weighted centroid
// sits at the origin.
func centered(ps []traj.Coords, weights []float64) []traj.Coords {
	c := traj.Centroid(ps, weights)
	out := make([]traj.Coords, len(ps))
	for i, p := range ps {
		out[i] = p.Sub(c)
	}
	return out
}
