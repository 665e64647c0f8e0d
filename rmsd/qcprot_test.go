package rmsd

import (
	"math"
	"math/rand"
	"testing"

	matrix "github.com/skelterjohn/go.matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umarbrowser/mdanalysis/traj"
)

func randomCoords(rng *rand.Rand, n int) []traj.Coords {
	ps := make([]traj.Coords, n)
	for i := range ps {
		ps[i] = traj.Coords{
			20 * (rng.Float64() - 0.5),
			20 * (rng.Float64() - 0.5),
			20 * (rng.Float64() - 0.5),
		}
	}
	return ps
}

// rotZ builds the rotation matrix for an angle about the z axis.
func rotZ(theta float64) Rotation {
	s, c := math.Sincos(theta)
	return Rotation{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

func applyAll(r *Rotation, ps []traj.Coords) []traj.Coords {
	out := make([]traj.Coords, len(ps))
	for i, p := range ps {
		out[i] = r.Apply(p)
	}
	return out
}

func TestRMSDIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := randomCoords(rng, 25)
	weights := []float64{}
	for range a {
		weights = append(weights, 1+10*rng.Float64())
	}

	r, err := RMSD(a, a, nil, false)
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-6, "RMSD(A, A) must be zero")

	r, err = RMSD(a, a, weights, true)
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-6, "weighting must not break the identity case")
}

func TestRMSDSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := randomCoords(rng, 17)
	b := randomCoords(rng, 17)

	rab, err := RMSD(a, b, nil, true)
	require.NoError(t, err)
	rba, err := RMSD(b, a, nil, true)
	require.NoError(t, err)
	assert.InDelta(t, rab, rba, 1e-9)
}

func TestRMSDRigidInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomCoords(rng, 12)
	b := randomCoords(rng, 12)

	want, err := RMSD(a, b, nil, true)
	require.NoError(t, err)

	// The same rotation plus translation applied to both sets must not
	// change the superposition RMSD when centering is enabled.
	rot := rotZ(0.83)
	shift := traj.Coords{3, -7, 11}
	a2 := applyAll(&rot, a)
	b2 := applyAll(&rot, b)
	for i := range a2 {
		a2[i] = a2[i].Add(shift)
		b2[i] = b2[i].Add(shift)
	}
	got, err := RMSD(a2, b2, nil, true)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)
}

func TestRMSDPureRotationIsZero(t *testing.T) {
	a := []traj.Coords{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	rot := rotZ(math.Pi / 2)
	b := applyAll(&rot, a)

	r, err := RMSD(a, b, nil, true)
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-9,
		"a 90 degree rotation must superpose exactly")
}

func TestRMSDDegenerateSets(t *testing.T) {
	// A single point must neither diverge nor fail to converge.
	r, err := RMSD([]traj.Coords{{1, 2, 3}}, []traj.Coords{{4, 5, 6}}, nil, true)
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-9)

	// Two colinear points with equal weights.
	a := []traj.Coords{{0, 0, 0}, {2, 0, 0}}
	b := []traj.Coords{{0, 0, 0}, {0, 2, 0}}
	r, err = RMSD(a, b, []float64{1, 1}, true)
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-9)
}

func TestRMSDDimensionMismatch(t *testing.T) {
	a := []traj.Coords{{0, 0, 0}, {1, 0, 0}}
	b := []traj.Coords{{0, 0, 0}}
	_, err := RMSD(a, b, nil, false)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = RMSD(a, a, []float64{1}, false)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestRMSDWeightScaleInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := randomCoords(rng, 9)
	b := randomCoords(rng, 9)
	w := make([]float64, len(a))
	w5 := make([]float64, len(a))
	for i := range w {
		w[i] = 1 + rng.Float64()
		w5[i] = 5 * w[i]
	}

	r1, err := RMSD(a, b, w, true)
	require.NoError(t, err)
	r2, err := RMSD(a, b, w5, true)
	require.NoError(t, err)
	assert.InDelta(t, r1, r2, 1e-9,
		"weights are normalized internally; scale must not matter")
}

func TestRotationSuperposesMobile(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := centered(randomCoords(rng, 14), nil)
	r0 := rotZ(-1.2)
	// b is a rotated away from a; the solver must find the inverse map.
	b := applyAll(&r0, a)

	var rot Rotation
	r, err := RMSDRotation(a, b, nil, &rot)
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-6)
	for i := range b {
		back := rot.Apply(b[i])
		for d := 0; d < 3; d++ {
			assert.InDelta(t, a[i][d], back[d], 1e-6,
				"rot must map mobile coordinates onto the reference")
		}
	}
}

func TestQCPMatchesKabsch(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for trial := 0; trial < 20; trial++ {
		a := centered(randomCoords(rng, 10), nil)
		b := centered(randomCoords(rng, 10), nil)

		var rot Rotation
		qcp, err := RMSDRotation(a, b, nil, &rot)
		require.NoError(t, err)

		kab, err := Kabsch(a, b)
		require.NoError(t, err)

		// Applying the Kabsch rotation and measuring directly must
		// reproduce the QCP minimum.
		var sum float64
		for i := range b {
			d := a[i].Sub(kab.Apply(b[i]))
			sum += d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
		}
		direct := math.Sqrt(sum / float64(len(a)))
		assert.InDelta(t, qcp, direct, 1e-6)

		// The optimal rotation is unique for random point clouds.
		for i := 0; i < 9; i++ {
			assert.InDelta(t, kab[i], rot[i], 1e-6)
		}
	}
}

func TestInnerProductMatchesGoMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 11
	for trial := 0; trial < 50; trial++ {
		var c1, c2 [3][]float64
		x := make([]float64, 3*n)
		y := make([]float64, 3*n)
		for r := 0; r < 3; r++ {
			c1[r] = make([]float64, n)
			c2[r] = make([]float64, n)
			for i := 0; i < n; i++ {
				c1[r][i] = 100 * rng.Float64()
				c2[r][i] = 100 * rng.Float64()
				x[r*n+i] = c1[r][i]
				y[r*n+i] = c2[r][i]
			}
		}

		_, wsum, A := innerProduct(c1, c2, nil)
		assert.Equal(t, float64(n), wsum)

		mat1 := matrix.MakeDenseMatrix(x, 3, n)
		mat2 := matrix.MakeDenseMatrix(y, 3, n)
		want, err := mat1.TimesDense(mat2.Transpose())
		require.NoError(t, err)
		for i, v := range want.Array() {
			assert.InDelta(t, v, A[i], 1e-8)
		}
	}
}

func TestMemoryReuse(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	mem := NewMemory(30)

	// A memory sized for 30 atoms serves smaller sets too, and repeated
	// use does not leak state between calls.
	a := centered(randomCoords(rng, 30), nil)
	b := centered(randomCoords(rng, 30), nil)
	want, err := mem.RMSDRotation(a, b, nil, nil)
	require.NoError(t, err)

	small := centered(randomCoords(rng, 5), nil)
	_, err = mem.RMSDRotation(small, small, nil, nil)
	require.NoError(t, err)

	got, err := mem.RMSDRotation(a, b, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = mem.RMSDRotation(centered(randomCoords(rng, 31), nil),
		centered(randomCoords(rng, 31), nil), nil, nil)
	assert.Error(t, err, "sets larger than the scratch space must error")
}

func BenchmarkRMSDRotation(b *testing.B) {
	rng := rand.New(rand.NewSource(9))
	s1 := centered(randomCoords(rng, 200), nil)
	s2 := centered(randomCoords(rng, 200), nil)
	mem := NewMemory(200)
	var rot Rotation

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mem.RMSDRotation(s1, s2, nil, &rot); err != nil {
			b.Fatal(err)
		}
	}
}
