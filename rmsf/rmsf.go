/*
Package rmsf computes per-atom root-mean-square fluctuations across a
trajectory with a single streaming pass, using Welford's numerically
stable running mean/variance update, so no frame beyond the current
one is held in memory.

Reference: B. P. Welford (1962). "Note on a Method for Calculating
Corrected Sums of Squares and Products." Technometrics 4(3):419-420.
*/
package rmsf

import (
	"errors"
	"fmt"
	"math"

	"github.com/umarbrowser/mdanalysis/traj"
)

var (
	// ErrNegative indicates a negative mean-square fluctuation, which
	// can only arise from accumulator overflow or underflow.
	ErrNegative = errors.New("rmsf: negative fluctuation; accumulation overflow or underflow")

	// ErrNoFrames indicates a frame range that selects no frames.
	ErrNoFrames = errors.New("rmsf: frame range selects no frames")
)

// RunOptions selects the frames and progress behavior of one Run.
// Start/Stop/Step slice the trajectory as the half-open range
// [Start, Stop); zero values mean the full trajectory with step 1.
type RunOptions struct {
	Start, Stop, Step int

	// Progress, when non-nil, is invoked every Interval frames and on
	// the final frame with the number of frames visited so far and the
	// total for the run.
	Progress func(done, total int)

	// Interval defaults to 10.
	Interval int

	// Quiet suppresses progress reporting entirely.
	Quiet bool
}

// RMSF accumulates the positional fluctuation of a fixed atom group
// across its trajectory.
type RMSF struct {
	t traj.Trajectory
	g traj.AtomGroup

	rmsf []float64
}

// New prepares an RMSF computation for group g over trajectory t. No
// coordinate transform is applied; fluctuations are measured on the
// positions as stored.
func New(t traj.Trajectory, g traj.AtomGroup) *RMSF {
	return &RMSF{t: t, g: g}
}

// Run performs one streaming pass over the selected frames. For frame
// k (zero-based within the run) with positions P:
//
//	sumsq += (k/(k+1)) * (P - mean)^2
//	mean   = (k*mean + P) / (k+1)
//
// and the per-atom result is sqrt(sum over x,y,z of sumsq / frames
// visited). The normalization uses the number of frames actually
// visited, not the width of the requested range. Accumulator state is
// scoped to the call; a failed Run leaves any previous result intact.
func (r *RMSF) Run(opts RunOptions) error {
	frames, err := traj.FrameIndices(r.t.NumFrames(),
		opts.Start, opts.Stop, opts.Step)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return ErrNoFrames
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 10
	}
	progress := opts.Progress
	if opts.Quiet {
		progress = nil
	}

	n := r.g.Len()
	sumsq := make([]traj.Coords, n)
	means := make([]traj.Coords, n)

	for k, fi := range frames {
		if _, err := r.t.Seek(fi); err != nil {
			return fmt.Errorf("rmsf: reading frame %d: %w", fi, err)
		}
		pos := r.g.Positions()
		kf := float64(k)
		for i, p := range pos {
			for d := 0; d < 3; d++ {
				dev := p[d] - means[i][d]
				sumsq[i][d] += kf / (kf + 1) * dev * dev
				means[i][d] = (kf*means[i][d] + p[d]) / (kf + 1)
			}
		}
		if progress != nil && (k%interval == 0 || k == len(frames)-1) {
			progress(k+1, len(frames))
		}
	}

	total := float64(len(frames))
	out := make([]float64, n)
	for i := range out {
		msf := (sumsq[i][0] + sumsq[i][1] + sumsq[i][2]) / total
		if msf < 0 {
			return fmt.Errorf("%w (atom %d: %g)", ErrNegative, i, msf)
		}
		out[i] = math.Sqrt(msf)
	}
	r.rmsf = out
	return nil
}

// RMSF returns one fluctuation per atom in the group's atom order, or
// nil before the first successful Run. The returned slice is
// read-only.
func (r *RMSF) RMSF() []float64 {
	return r.rmsf
}
