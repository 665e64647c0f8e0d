package rmsd

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/umarbrowser/mdanalysis/traj"
)

// Kabsch computes, via singular value decomposition of the
// cross-covariance matrix, the proper rotation that superposes b onto
// a: rot.Apply(b[i]) best approximates a[i] in the least-squares
// sense. Both sets must already be centered on the origin.
//
// An improper rotation (determinant -1) from the raw SVD is corrected
// by flipping the sign of the smallest singular direction, so the
// result is always a proper rotation. QCP (RMSDRotation) is the faster
// route when the RMSD itself is wanted; Kabsch exists for callers who
// want the rotation from an independent decomposition.
func Kabsch(a, b []traj.Coords) (Rotation, error) {
	var rot Rotation
	if len(a) != len(b) {
		return rot, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return rot, fmt.Errorf("%w: empty coordinate sets", ErrDimensionMismatch)
	}

	// H = B^T A, so that the rotation acts on b-coordinates.
	h := mat.NewDense(3, 3, nil)
	for i := range a {
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+b[i][r]*a[i][c])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(h, mat.SVDFull) {
		return rot, fmt.Errorf("rmsd: SVD of cross-covariance failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var vut mat.Dense
	vut.Mul(&v, u.T())
	d := 1.0
	if mat.Det(&vut) < 0 {
		d = -1.0
	}
	corr := mat.NewDiagDense(3, []float64{1, 1, d})

	var vd, r mat.Dense
	vd.Mul(&v, corr)
	r.Mul(&vd, u.T())

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot[i*3+j] = r.At(i, j)
		}
	}
	return rot, nil
}
