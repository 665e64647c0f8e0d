package traj

import (
	"fmt"
	"strconv"
	"strings"
)

// Atom carries the per-atom metadata an analysis needs.
type Atom struct {
	Name string
	Mass float64
}

// MemUniverse is an in-memory Universe: a topology (atom names and
// masses) plus a list of frames with a fixed time step. Frames are
// copied on construction, so the backing data cannot change after the
// fact; Seek loads a frame into a scratch buffer that callers may
// mutate without touching the stored coordinates.
type MemUniverse struct {
	atoms  []Atom
	frames [][]Coords
	dt     float64
	cur    *Frame
}

// NewMemUniverse builds a universe from atom metadata and per-frame
// coordinates. Every frame must have exactly one position per atom.
// Frame i is assigned the simulation time i*dt. If there is at least
// one frame, the cursor starts at frame 0.
func NewMemUniverse(atoms []Atom, frames [][]Coords, dt float64) (*MemUniverse, error) {
	u := &MemUniverse{
		atoms:  append([]Atom(nil), atoms...),
		frames: make([][]Coords, len(frames)),
		dt:     dt,
	}
	for i, fr := range frames {
		if len(fr) != len(atoms) {
			return nil, fmt.Errorf("traj: frame %d has %d positions for %d atoms",
				i, len(fr), len(atoms))
		}
		u.frames[i] = append([]Coords(nil), fr...)
	}
	if len(u.frames) > 0 {
		if _, err := u.Seek(0); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (u *MemUniverse) Trajectory() Trajectory { return u }

func (u *MemUniverse) NumFrames() int { return len(u.frames) }

func (u *MemUniverse) Frame() *Frame { return u.cur }

func (u *MemUniverse) Seek(i int) (*Frame, error) {
	if i < 0 || i >= len(u.frames) {
		return nil, fmt.Errorf("traj: frame %d out of range [0, %d)",
			i, len(u.frames))
	}
	if u.cur == nil {
		u.cur = &Frame{Positions: make([]Coords, len(u.atoms))}
	}
	copy(u.cur.Positions, u.frames[i])
	u.cur.Index = i
	u.cur.Time = u.dt * float64(i)
	return u.cur, nil
}

// SelectAtoms resolves selection expressions against the universe's
// atoms. The selection language is deliberately small:
//
//	all               every atom
//	name N1 N2 ...    atoms whose name matches any of N1, N2, ...
//	index 0 2 5-8     atoms by zero-based index or inclusive range
//
// Multiple expressions are concatenated in the order given, which is
// how ordered multi-fragment selections are expressed. An expression
// that matches no atoms is an error.
func (u *MemUniverse) SelectAtoms(exprs ...string) (AtomGroup, error) {
	if len(exprs) == 0 {
		return nil, fmt.Errorf("traj: no selection expressions given")
	}
	g := &memGroup{u: u}
	for _, expr := range exprs {
		is, err := u.selectIndices(expr)
		if err != nil {
			return nil, err
		}
		g.indices = append(g.indices, is...)
	}
	for _, i := range g.indices {
		g.names = append(g.names, u.atoms[i].Name)
		g.masses = append(g.masses, u.atoms[i].Mass)
	}
	return g, nil
}

func (u *MemUniverse) selectIndices(expr string) ([]int, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return nil, fmt.Errorf("traj: empty selection expression")
	}
	var is []int
	switch fields[0] {
	case "all":
		for i := range u.atoms {
			is = append(is, i)
		}
	case "name":
		want := make(map[string]bool, len(fields)-1)
		for _, f := range fields[1:] {
			want[f] = true
		}
		for i, a := range u.atoms {
			if want[a.Name] {
				is = append(is, i)
			}
		}
	case "index":
		for _, f := range fields[1:] {
			lo, hi, err := parseIndexRange(f)
			if err != nil {
				return nil, err
			}
			for i := lo; i <= hi; i++ {
				if i < 0 || i >= len(u.atoms) {
					return nil, fmt.Errorf("traj: atom index %d out of "+
						"range [0, %d)", i, len(u.atoms))
				}
				is = append(is, i)
			}
		}
	default:
		return nil, fmt.Errorf("traj: unknown selection keyword %q in %q",
			fields[0], expr)
	}
	if len(is) == 0 {
		return nil, fmt.Errorf("traj: selection %q matches no atoms", expr)
	}
	return is, nil
}

func parseIndexRange(s string) (lo, hi int, err error) {
	if a, b, ok := strings.Cut(s, "-"); ok {
		if lo, err = strconv.Atoi(a); err != nil {
			return 0, 0, fmt.Errorf("traj: bad index range %q", s)
		}
		if hi, err = strconv.Atoi(b); err != nil || hi < lo {
			return 0, 0, fmt.Errorf("traj: bad index range %q", s)
		}
		return lo, hi, nil
	}
	if lo, err = strconv.Atoi(s); err != nil {
		return 0, 0, fmt.Errorf("traj: bad atom index %q", s)
	}
	return lo, lo, nil
}

type memGroup struct {
	u       *MemUniverse
	indices []int
	names   []string
	masses  []float64
}

func (g *memGroup) Len() int          { return len(g.indices) }
func (g *memGroup) Names() []string   { return g.names }
func (g *memGroup) Masses() []float64 { return g.masses }

func (g *memGroup) Positions() []Coords {
	fr := g.u.cur
	ps := make([]Coords, len(g.indices))
	for i, ai := range g.indices {
		ps[i] = fr.Positions[ai]
	}
	return ps
}

func (g *memGroup) CenterOfMass() Coords {
	return Centroid(g.Positions(), g.masses)
}

func (g *memGroup) Centroid() Coords {
	return Centroid(g.Positions(), nil)
}
