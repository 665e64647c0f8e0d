package rmsd

// The solver below descends from Theobald's QCProt: the minimal RMSD
// under rotation is found as the largest eigenvalue of a 4x4 key
// matrix built from the cross-covariance of the two coordinate sets,
// located by Newton-Raphson on the characteristic quartic, and the
// optimal rotation is recovered from the corresponding quaternion via
// an adjoint column.
//
// References:
//
//	Douglas L. Theobald (2005)
//	"Rapid calculation of RMSD using a quaternion-based characteristic
//	polynomial."
//	Acta Crystallographica A 61(4):478-480.
//
//	Pu Liu, Dmitris K. Agrafiotis, and Douglas L. Theobald (2009)
//	"Fast determination of the optimal rotational matrix for
//	macromolecular superpositions."
//	Journal of Computational Chemistry 31(7):1561-1563.

import (
	"fmt"
	"math"

	"github.com/umarbrowser/mdanalysis/traj"
)

const (
	// evecPrec bounds the squared quaternion norm below which an
	// adjoint column is considered degenerate and the next one is
	// tried.
	evecPrec = 1e-6

	// evalPrec is the relative convergence threshold of the
	// Newton-Raphson eigenvalue iteration.
	evalPrec = 1e-11

	maxEigenIter = 50
)

// Rotation is a 3x3 rotation matrix in row-major order.
type Rotation [9]float64

// Apply rotates p, treated as a column vector.
func (r *Rotation) Apply(p traj.Coords) traj.Coords {
	return traj.Coords{
		r[0]*p[0] + r[1]*p[1] + r[2]*p[2],
		r[3]*p[0] + r[4]*p[1] + r[5]*p[2],
		r[6]*p[0] + r[7]*p[1] + r[8]*p[2],
	}
}

func (r *Rotation) setIdentity() {
	*r = Rotation{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Memory holds the scratch space of the solver, so that the conversion
// to the solver's column layout does not allocate on every frame of a
// trajectory loop. A Memory sized for n atoms serves any set of up to
// n atoms. It is not safe for concurrent use.
type Memory struct {
	c1, c2 [3][]float64
}

// NewMemory allocates scratch space for coordinate sets of up to n
// atoms.
func NewMemory(n int) *Memory {
	mem := new(Memory)
	for r := 0; r < 3; r++ {
		mem.c1[r] = make([]float64, n)
		mem.c2[r] = make([]float64, n)
	}
	return mem
}

// RMSDRotation computes the minimal RMSD between the reference set a
// and the mobile set b under an optimal rigid rotation. Both sets must
// already be centered on the origin; see RMSD for a convenience
// wrapper that centers.
//
// A nil weights slice yields an unweighted fit; otherwise weights must
// hold one value per atom. The result is invariant under rescaling of
// the weights.
//
// When rot is non-nil it receives the optimal rotation, satisfying
// rot.Apply(b[i]) ~ a[i]; passing nil skips the rotation entirely,
// which is cheaper when only the RMSD is wanted.
func (mem *Memory) RMSDRotation(
	a, b []traj.Coords, weights []float64, rot *Rotation) (float64, error) {

	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d atoms",
			ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) > len(mem.c1[0]) {
		return 0, fmt.Errorf("%w: %d atoms exceed the scratch size %d",
			ErrDimensionMismatch, len(a), len(mem.c1[0]))
	}
	if weights != nil && len(weights) != len(a) {
		return 0, fmt.Errorf("%w: %d weights for %d atoms",
			ErrDimensionMismatch, len(weights), len(a))
	}

	n := len(a)
	var c1, c2 [3][]float64
	for r := 0; r < 3; r++ {
		c1[r] = mem.c1[r][:n]
		c2[r] = mem.c2[r][:n]
	}
	for i := 0; i < n; i++ {
		c1[0][i], c1[1][i], c1[2][i] = a[i][0], a[i][1], a[i][2]
		c2[0][i], c2[1][i], c2[2][i] = b[i][0], b[i][1], b[i][2]
	}

	E0, wsum, A := innerProduct(c1, c2, weights)
	return fastCalcRMSDAndRotation(A, E0, wsum, rot)
}

// RMSDRotation is the package-level form of Memory.RMSDRotation for
// one-off computations; it allocates fresh scratch space on each call.
func RMSDRotation(
	a, b []traj.Coords, weights []float64, rot *Rotation) (float64, error) {

	return NewMemory(len(a)).RMSDRotation(a, b, weights, rot)
}

// innerProduct computes the weighted inner products of the two
// coordinate sets in column layout: E0 = (G1+G2)/2 where Gk is the
// weighted squared norm of set k, the total weight, and the row-major
// 3x3 cross-covariance A = c1 W c2^T.
func innerProduct(c1, c2 [3][]float64, weights []float64) (float64, float64, [9]float64) {
	var x1, y1, z1, x2, y2, z2 float64
	numCoords := len(c1[0])
	fx1, fy1, fz1 := c1[0], c1[1], c1[2]
	fx2, fy2, fz2 := c2[0], c2[1], c2[2]
	var G1, G2, wsum float64
	var A [9]float64

	for i := 0; i < numCoords; i++ {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		wsum += w

		x1, y1, z1 = fx1[i], fy1[i], fz1[i]
		x2, y2, z2 = fx2[i], fy2[i], fz2[i]

		G1 += w * (x1*x1 + y1*y1 + z1*z1)
		G2 += w * (x2*x2 + y2*y2 + z2*z2)

		A[0] += w * x1 * x2
		A[1] += w * x1 * y2
		A[2] += w * x1 * z2

		A[3] += w * y1 * x2
		A[4] += w * y1 * y2
		A[5] += w * y1 * z2

		A[6] += w * z1 * x2
		A[7] += w * z1 * y2
		A[8] += w * z1 * z2
	}
	return 0.5 * (G1 + G2), wsum, A
}

func fastCalcRMSDAndRotation(
	A [9]float64, E0, wsum float64, rot *Rotation) (float64, error) {

	// These are some crazy names...
	var Sxx, Sxy, Sxz, Syx, Syy, Syz, Szx, Szy, Szz float64
	var Szz2, Syy2, Sxx2, Sxy2, Syz2, Sxz2, Syx2, Szy2, Szx2 float64
	var SyzSzymSyySzz2, Sxx2Syy2Szz2Syz2Szy2, Sxy2Sxz2Syx2Szx2 float64
	var SxzpSzx, SyzpSzy, SxypSyx, SyzmSzy float64
	var SxzmSzx, SxymSyx, SxxpSyy, SxxmSyy float64
	var C [3]float64
	var mxEigenV float64
	var oldg, b, a, delta, den, qsqr float64
	var q1, q2, q3, q4, normq float64
	var a11, a12, a13, a14, a21, a22, a23, a24 float64
	var a31, a32, a33, a34, a41, a42, a43, a44 float64
	var a2, x2, y2, z2 float64
	var xy, az, zx, ay, yz, ax float64
	var a3344_4334, a3244_4234, a3243_4233 float64
	var a3143_4133, a3144_4134, a3142_4132 float64

	Sxx, Sxy, Sxz = A[0], A[1], A[2]
	Syx, Syy, Syz = A[3], A[4], A[5]
	Szx, Szy, Szz = A[6], A[7], A[8]

	Sxx2 = Sxx * Sxx
	Syy2 = Syy * Syy
	Szz2 = Szz * Szz

	Sxy2 = Sxy * Sxy
	Syz2 = Syz * Syz
	Sxz2 = Sxz * Sxz

	Syx2 = Syx * Syx
	Szy2 = Szy * Szy
	Szx2 = Szx * Szx

	SyzSzymSyySzz2 = 2.0 * (Syz*Szy - Syy*Szz)
	Sxx2Syy2Szz2Syz2Szy2 = Syy2 + Szz2 - Sxx2 + Syz2 + Szy2

	C[2] = -2.0 * (Sxx2 + Syy2 + Szz2 + Sxy2 + Syx2 +
		Sxz2 + Szx2 + Syz2 + Szy2)
	C[1] = 8.0 * (Sxx*Syz*Szy + Syy*Szx*Sxz + Szz*Sxy*Syx -
		Sxx*Syy*Szz - Syz*Szx*Sxy - Szy*Syx*Sxz)

	SxzpSzx = Sxz + Szx
	SyzpSzy = Syz + Szy
	SxypSyx = Sxy + Syx
	SyzmSzy = Syz - Szy
	SxzmSzx = Sxz - Szx
	SxymSyx = Sxy - Syx
	SxxpSyy = Sxx + Syy
	SxxmSyy = Sxx - Syy
	Sxy2Sxz2Syx2Szx2 = Sxy2 + Sxz2 - Syx2 - Szx2

	C[0] = Sxy2Sxz2Syx2Szx2*Sxy2Sxz2Syx2Szx2 +
		(Sxx2Syy2Szz2Syz2Szy2+SyzSzymSyySzz2)*
			(Sxx2Syy2Szz2Syz2Szy2-SyzSzymSyySzz2) +
		(-(SxzpSzx)*(SyzmSzy)+(SxymSyx)*(SxxmSyy-Szz))*
			(-(SxzmSzx)*(SyzpSzy)+(SxymSyx)*(SxxmSyy+Szz)) +
		(-(SxzpSzx)*(SyzpSzy)-(SxypSyx)*(SxxpSyy-Szz))*
			(-(SxzmSzx)*(SyzmSzy)-(SxypSyx)*(SxxpSyy+Szz)) +
		(+(SxypSyx)*(SyzpSzy)+(SxzpSzx)*(SxxmSyy+Szz))*
			(-(SxymSyx)*(SyzmSzy)+(SxzpSzx)*(SxxpSyy+Szz)) +
		(+(SxypSyx)*(SyzmSzy)+(SxzmSzx)*(SxxmSyy-Szz))*
			(-(SxymSyx)*(SyzpSzy)+(SxzmSzx)*(SxxpSyy-Szz))

	mxEigenV = E0
	converged := false
	for i := 0; i < maxEigenIter; i++ {
		oldg = mxEigenV
		x2 = mxEigenV * mxEigenV
		b = (x2 + C[2]) * mxEigenV
		a = b + C[1]
		den = 2.0*x2*mxEigenV + b + a
		if den == 0 {
			// A multiple root: the quartic and its derivative vanish
			// together, so the current iterate is already the root.
			converged = true
			break
		}
		delta = (a*mxEigenV + C[0]) / den
		mxEigenV -= delta
		if math.Abs(mxEigenV-oldg) < math.Abs(evalPrec*mxEigenV) {
			converged = true
			break
		}
	}
	if !converged {
		return 0, ErrNotConverged
	}

	rmsd := math.Sqrt(math.Abs(2.0 * (E0 - mxEigenV) / wsum))
	if rot == nil {
		return rmsd, nil
	}

	a11 = SxxpSyy + Szz - mxEigenV
	a12 = SyzmSzy
	a13 = -SxzmSzx
	a14 = SxymSyx
	a21 = SyzmSzy
	a22 = SxxmSyy - Szz - mxEigenV
	a23 = SxypSyx
	a24 = SxzpSzx
	a31 = a13
	a32 = a23
	a33 = Syy - Sxx - Szz - mxEigenV
	a34 = SyzpSzy
	a41 = a14
	a42 = a24
	a43 = a34
	a44 = Szz - SxxpSyy - mxEigenV
	a3344_4334 = a33*a44 - a43*a34
	a3244_4234 = a32*a44 - a42*a34
	a3243_4233 = a32*a43 - a42*a33
	a3143_4133 = a31*a43 - a41*a33
	a3144_4134 = a31*a44 - a41*a34
	a3142_4132 = a31*a42 - a41*a32
	q1 = a22*a3344_4334 - a23*a3244_4234 + a24*a3243_4233
	q2 = -a21*a3344_4334 + a23*a3144_4134 - a24*a3143_4133
	q3 = a21*a3244_4234 - a22*a3144_4134 + a24*a3142_4132
	q4 = -a21*a3243_4233 + a22*a3143_4133 - a23*a3142_4132

	qsqr = q1*q1 + q2*q2 + q3*q3 + q4*q4
	if qsqr < evecPrec {
		q1 = a12*a3344_4334 - a13*a3244_4234 + a14*a3243_4233
		q2 = -a11*a3344_4334 + a13*a3144_4134 - a14*a3143_4133
		q3 = a11*a3244_4234 - a12*a3144_4134 + a14*a3142_4132
		q4 = -a11*a3243_4233 + a12*a3143_4133 - a13*a3142_4132
		qsqr = q1*q1 + q2*q2 + q3*q3 + q4*q4

		if qsqr < evecPrec {
			a1324_1423 := a13*a24 - a14*a23
			a1224_1422 := a12*a24 - a14*a22
			a1223_1322 := a12*a23 - a13*a22
			a1124_1421 := a11*a24 - a14*a21
			a1123_1321 := a11*a23 - a13*a21
			a1122_1221 := a11*a22 - a12*a21

			q1 = a42*a1324_1423 - a43*a1224_1422 + a44*a1223_1322
			q2 = -a41*a1324_1423 + a43*a1124_1421 - a44*a1123_1321
			q3 = a41*a1224_1422 - a42*a1124_1421 + a44*a1122_1221
			q4 = -a41*a1223_1322 + a42*a1123_1321 - a43*a1122_1221
			qsqr = q1*q1 + q2*q2 + q3*q3 + q4*q4

			if qsqr < evecPrec {
				q1 = a32*a1324_1423 - a33*a1224_1422 + a34*a1223_1322
				q2 = -a31*a1324_1423 + a33*a1124_1421 - a34*a1123_1321
				q3 = a31*a1224_1422 - a32*a1124_1421 + a34*a1122_1221
				q4 = -a31*a1223_1322 + a32*a1123_1321 - a33*a1122_1221
				qsqr = q1*q1 + q2*q2 + q3*q3 + q4*q4

				if qsqr < evecPrec {
					// Every adjoint column is degenerate, so the
					// superposition is (numerically) already optimal.
					rot.setIdentity()
					return rmsd, nil
				}
			}
		}
	}

	normq = math.Sqrt(qsqr)
	q1 /= normq
	q2 /= normq
	q3 /= normq
	q4 /= normq

	a2 = q1 * q1
	x2 = q2 * q2
	y2 = q3 * q3
	z2 = q4 * q4

	xy = q2 * q3
	az = q1 * q4
	zx = q4 * q2
	ay = q1 * q3
	yz = q3 * q4
	ax = q1 * q2

	rot[0] = a2 + x2 - y2 - z2
	rot[1] = 2 * (xy + az)
	rot[2] = 2 * (zx - ay)
	rot[3] = 2 * (xy - az)
	rot[4] = a2 - x2 + y2 - z2
	rot[5] = 2 * (yz + ax)
	rot[6] = 2 * (zx + ay)
	rot[7] = 2 * (yz - ax)
	rot[8] = a2 - x2 - y2 + z2

	return rmsd, nil
}
