package traj

import "fmt"

// Frame is one timestep's snapshot of atomic positions. Positions is a
// buffer owned by the trajectory that produced the frame: it is
// overwritten by the next Seek. Mutating it in place changes the
// current frame's view of the system and nothing else.
type Frame struct {
	Index     int
	Time      float64
	Positions []Coords
}

// Trajectory is an ordered, seekable sequence of frames with a single
// current-frame cursor.
type Trajectory interface {
	// NumFrames returns the total number of frames.
	NumFrames() int

	// Frame returns the current frame, or nil if the trajectory is
	// empty.
	Frame() *Frame

	// Seek repositions the cursor to frame i and returns the frame.
	// Seeking invalidates the previous frame's position buffer.
	Seek(i int) (*Frame, error)
}

// AtomGroup is a fixed, ordered set of atoms viewed through its
// trajectory's current frame.
type AtomGroup interface {
	// Len returns the number of atoms in the group.
	Len() int

	// Names returns the per-atom names, aligned with the group's atom
	// order. The returned slice is read-only.
	Names() []string

	// Masses returns the per-atom masses, aligned with the group's
	// atom order. The returned slice is read-only.
	Masses() []float64

	// Positions returns a fresh copy of the group's positions in the
	// trajectory's current frame. The caller owns the returned slice.
	Positions() []Coords

	// CenterOfMass returns the mass-weighted centroid of the group's
	// current positions.
	CenterOfMass() Coords

	// Centroid returns the unweighted centroid of the group's current
	// positions.
	Centroid() Coords
}

// Universe bundles a trajectory with a selection resolver.
type Universe interface {
	Trajectory() Trajectory

	// SelectAtoms resolves one or more selection expressions into a
	// single atom group, concatenated in the order given.
	SelectAtoms(exprs ...string) (AtomGroup, error)
}

// FrameIndices expands a half-open [start, stop) slice with the given
// step over a trajectory of n frames. stop <= 0 or stop > n means n;
// step 0 means 1. A negative start or step is an error.
func FrameIndices(n, start, stop, step int) ([]int, error) {
	if start < 0 {
		return nil, fmt.Errorf("traj: negative start frame %d", start)
	}
	if step < 0 {
		return nil, fmt.Errorf("traj: negative frame step %d", step)
	}
	if step == 0 {
		step = 1
	}
	if stop <= 0 || stop > n {
		stop = n
	}
	var is []int
	for i := start; i < stop; i += step {
		is = append(is, i)
	}
	return is, nil
}
