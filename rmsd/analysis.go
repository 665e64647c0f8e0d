package rmsd

import (
	"fmt"
	"math"

	"github.com/umarbrowser/mdanalysis/traj"
)

// ProgressFunc observes a running analysis. It receives the index of
// the frame just processed, the total number of frames in the run, and
// the primary RMSD of that frame.
type ProgressFunc func(frame, total int, rmsd float64)

// Options configures an Analysis.
type Options struct {
	// Select is the primary selection specification, in any shape
	// ParseSelection accepts. Nil selects all atoms.
	Select interface{}

	// GroupSelections are auxiliary selections for which a secondary
	// RMSD column is computed after the primary superposition has been
	// applied, in declaration order.
	GroupSelections []interface{}

	// Filename is the default target for Save.
	Filename string

	// MassWeighted requests a mass-weighted RMSD fit.
	MassWeighted bool

	// TolMass is the largest tolerated mass difference between matched
	// reference and mobile atoms. Zero or negative means the default
	// of 0.1.
	TolMass float64

	// RefFrame is the reference trajectory frame the mobile frames are
	// compared against.
	RefFrame int

	// Progress, when non-nil, is invoked every ProgressInterval frames
	// and on the final frame of a run.
	Progress ProgressFunc

	// ProgressInterval defaults to 10.
	ProgressInterval int
}

// RunOptions selects the frames of one Run. Start/Stop/Step slice the
// mobile trajectory as the half-open range [Start, Stop) with the
// given step; zero values mean the full trajectory with step 1.
// MassWeighted and RefFrame, when non-nil, override the corresponding
// construction-time settings for this run only.
type RunOptions struct {
	Start, Stop, Step int
	MassWeighted      *bool
	RefFrame          *int
}

type groupPair struct {
	ref, mob traj.AtomGroup
}

// Analysis computes an RMSD timeseries over a trajectory. Configure it
// once with New; Run may be called repeatedly with different frame
// ranges, each successful run replacing the stored timeseries.
type Analysis struct {
	u, ref traj.Universe
	opts   Options

	refAtoms, mobAtoms traj.AtomGroup
	groups             []groupPair

	rmsd [][]float64
}

// New validates the selections and returns a configured Analysis. The
// RMSD will be computed between the mobile selection resolved on u and
// the reference selection resolved on ref; a nil ref means u itself.
//
// Construction fails with a *SelectionError if the primary selection
// or any group selection resolves to different atom counts on the two
// sides, or if any matched atom pair's masses differ by more than
// Options.TolMass; every mismatching pair is reported.
func New(u traj.Universe, ref traj.Universe, opts Options) (*Analysis, error) {
	if u == nil {
		return nil, fmt.Errorf("rmsd: nil universe")
	}
	if ref == nil {
		ref = u
	}
	if opts.Select == nil {
		opts.Select = "all"
	}
	if opts.TolMass <= 0 {
		opts.TolMass = 0.1
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 10
	}

	a := &Analysis{u: u, ref: ref, opts: opts}

	sel, err := ParseSelection(opts.Select)
	if err != nil {
		return nil, err
	}
	a.refAtoms, a.mobAtoms, err = a.resolvePair(-1, sel)
	if err != nil {
		return nil, err
	}

	for i, gs := range opts.GroupSelections {
		gsel, err := ParseSelection(gs)
		if err != nil {
			return nil, fmt.Errorf("group selection %d: %w", i, err)
		}
		gref, gmob, err := a.resolvePair(i, gsel)
		if err != nil {
			return nil, err
		}
		a.groups = append(a.groups, groupPair{ref: gref, mob: gmob})
	}
	return a, nil
}

// resolvePair resolves one selection on both universes and checks the
// pairing invariants. group is -1 for the primary selection.
func (a *Analysis) resolvePair(group int, sel Selection) (ref, mob traj.AtomGroup, err error) {
	if ref, err = a.ref.SelectAtoms(sel.Reference...); err != nil {
		return nil, nil, err
	}
	if mob, err = a.u.SelectAtoms(sel.Mobile...); err != nil {
		return nil, nil, err
	}
	if ref.Len() != mob.Len() {
		return nil, nil, &SelectionError{
			Group: group,
			Msg: fmt.Sprintf("reference and mobile selections do not "+
				"contain the same number of atoms: N_ref=%d, N_mob=%d",
				ref.Len(), mob.Len()),
		}
	}
	var mismatches []MassMismatch
	refNames, mobNames := ref.Names(), mob.Names()
	refMasses, mobMasses := ref.Masses(), mob.Masses()
	for i := range refMasses {
		if math.Abs(refMasses[i]-mobMasses[i]) > a.opts.TolMass {
			mismatches = append(mismatches, MassMismatch{
				Index:   i,
				RefName: refNames[i], RefMass: refMasses[i],
				MobName: mobNames[i], MobMass: mobMasses[i],
			})
		}
	}
	if len(mismatches) > 0 {
		return nil, nil, &SelectionError{
			Group: group,
			Msg: fmt.Sprintf("masses of %d matched atom pairs differ by "+
				"more than %g", len(mismatches), a.opts.TolMass),
			Mismatches: mismatches,
		}
	}
	return ref, mob, nil
}

// Run computes the RMSD timeseries over the selected mobile frames.
// On success the previous timeseries (if any) is replaced; on error
// nothing is committed.
//
// When group selections are configured, the rotation obtained for each
// frame is applied to the entire current-frame position buffer of the
// mobile trajectory in place (translate to the origin by the mobile
// selection's center of mass, rotate, translate to the reference
// center of mass) before the secondary RMSDs are computed. The buffer
// is scoped to the current frame, so stored trajectory data is not
// affected.
func (a *Analysis) Run(opts RunOptions) (err error) {
	massWeighted := a.opts.MassWeighted
	if opts.MassWeighted != nil {
		massWeighted = *opts.MassWeighted
	}
	refFrame := a.opts.RefFrame
	if opts.RefFrame != nil {
		refFrame = *opts.RefFrame
	}

	var weights []float64
	var groupWeights [][]float64
	if massWeighted {
		if weights, err = normalizeWeights(a.refAtoms.Masses(), a.refAtoms.Len()); err != nil {
			return err
		}
		for _, g := range a.groups {
			gw, err := normalizeWeights(g.ref.Masses(), g.ref.Len())
			if err != nil {
				return err
			}
			groupWeights = append(groupWeights, gw)
		}
	} else {
		groupWeights = make([][]float64, len(a.groups))
	}

	refCoords, refCOM, groupRefs, err := a.captureReference(refFrame)
	if err != nil {
		return err
	}

	mobTraj := a.u.Trajectory()
	frames, err := traj.FrameIndices(mobTraj.NumFrames(),
		opts.Start, opts.Stop, opts.Step)
	if err != nil {
		return err
	}

	mem := NewMemory(a.mobAtoms.Len())
	groupMems := make([]*Memory, len(a.groups))
	for i, g := range a.groups {
		groupMems[i] = NewMemory(g.mob.Len())
	}

	var rot Rotation
	var rotPtr *Rotation
	if len(a.groups) > 0 {
		// A rotation is only needed to transform the frame for the
		// secondary RMSDs.
		rotPtr = &rot
	}

	rows := make([][]float64, 0, len(frames))
	for k, fi := range frames {
		fr, err := mobTraj.Seek(fi)
		if err != nil {
			return fmt.Errorf("rmsd: reading frame %d: %w", fi, err)
		}

		mobPos := a.mobAtoms.Positions()
		mobCOM := a.mobAtoms.CenterOfMass()
		for i := range mobPos {
			mobPos[i] = mobPos[i].Sub(mobCOM)
		}

		row := make([]float64, 3+len(a.groups))
		row[0], row[1] = float64(fr.Index), fr.Time

		row[2], err = mem.RMSDRotation(refCoords, mobPos, weights, rotPtr)
		if err != nil {
			return err
		}

		if len(a.groups) > 0 {
			ps := fr.Positions
			for i := range ps {
				ps[i] = rot.Apply(ps[i].Sub(mobCOM)).Add(refCOM)
			}
			for gi, g := range a.groups {
				row[3+gi], err = groupMems[gi].RMSDRotation(
					groupRefs[gi], g.mob.Positions(), groupWeights[gi], nil)
				if err != nil {
					return err
				}
			}
		}

		rows = append(rows, row)
		if a.opts.Progress != nil &&
			(k%a.opts.ProgressInterval == 0 || k == len(frames)-1) {
			a.opts.Progress(fr.Index, len(frames), row[2])
		}
	}

	a.rmsd = rows
	return nil
}

// captureReference seeks the reference trajectory to refFrame, records
// the reference center of mass, the mass-centered reference selection
// coordinates and the raw positions of every group selection, and then
// restores the reference trajectory's original frame. Restoration
// happens on every exit path, so a shared reference trajectory is
// never left repositioned.
func (a *Analysis) captureReference(refFrame int) (refCoords []traj.Coords, refCOM traj.Coords, groupRefs [][]traj.Coords, err error) {
	rt := a.ref.Trajectory()
	restore := 0
	if fr := rt.Frame(); fr != nil {
		restore = fr.Index
	}
	defer func() {
		if _, serr := rt.Seek(restore); serr != nil && err == nil {
			err = fmt.Errorf("rmsd: restoring reference frame %d: %w",
				restore, serr)
		}
	}()

	if _, err = rt.Seek(refFrame); err != nil {
		return nil, traj.Coords{}, nil, fmt.Errorf(
			"rmsd: reading reference frame %d: %w", refFrame, err)
	}
	refCOM = a.refAtoms.CenterOfMass()
	refCoords = a.refAtoms.Positions()
	for i := range refCoords {
		refCoords[i] = refCoords[i].Sub(refCOM)
	}
	for _, g := range a.groups {
		groupRefs = append(groupRefs, g.ref.Positions())
	}
	return refCoords, refCOM, groupRefs, nil
}

// Timeseries returns the rows of the last successful run: frame index,
// simulation time, primary RMSD, then one secondary RMSD per group
// selection in declaration order. It returns nil before the first
// successful run. The returned slice is read-only.
func (a *Analysis) Timeseries() [][]float64 {
	return a.rmsd
}
