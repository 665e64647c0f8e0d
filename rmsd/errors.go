package rmsd

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDimensionMismatch indicates coordinate or weight slices whose
	// lengths disagree.
	ErrDimensionMismatch = errors.New("rmsd: dimension mismatch")

	// ErrNotConverged indicates that the eigenvalue iteration did not
	// converge within its iteration bound. The inputs are almost
	// certainly pathological (NaN or Inf coordinates).
	ErrNotConverged = errors.New("rmsd: eigenvalue iteration did not converge")

	// ErrNoData indicates a result requested before the first
	// successful run.
	ErrNoData = errors.New("rmsd: no timeseries; call Run first")

	// ErrBadSelection indicates a selection specification of an
	// unsupported shape.
	ErrBadSelection = errors.New("rmsd: bad selection specification")
)

// MassMismatch records one matched atom pair whose masses differ by
// more than the configured tolerance.
type MassMismatch struct {
	Index            int
	RefName, MobName string
	RefMass, MobMass float64
}

func (m MassMismatch) String() string {
	return fmt.Sprintf("atom %d: %s (%g) vs %s (%g)",
		m.Index, m.RefName, m.RefMass, m.MobName, m.MobMass)
}

// SelectionError reports a selection pair that cannot be compared:
// differing atom counts, or matched atoms whose masses disagree. Group
// is the index into Options.GroupSelections, or -1 for the primary
// selection.
type SelectionError struct {
	Group      int
	Msg        string
	Mismatches []MassMismatch
}

func (e *SelectionError) Error() string {
	var b strings.Builder
	if e.Group < 0 {
		b.WriteString("rmsd: primary selection: ")
	} else {
		fmt.Fprintf(&b, "rmsd: group selection %d: ", e.Group)
	}
	b.WriteString(e.Msg)
	for _, m := range e.Mismatches {
		b.WriteString("\n\t")
		b.WriteString(m.String())
	}
	return b.String()
}
