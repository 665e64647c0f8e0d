package rmsd

import (
	"fmt"
	"log"
)

// Selection is the canonical form of a selection specification: one or
// more expressions for the reference side and one or more for the
// mobile side. Multiple expressions per side preserve order, so
// ordered multi-fragment selections can be expressed.
type Selection struct {
	Reference []string
	Mobile    []string
}

// SelectWarnings receives non-fatal notices from selection
// normalization, such as use of the deprecated "target" key. It may be
// replaced (e.g. with a no-op) by callers who want silence.
var SelectWarnings = func(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// ParseSelection converts a selection specification into its canonical
// Selection form. Accepted shapes:
//
//   - a string: applied identically to reference and mobile;
//   - a pair ([2]string or []string of length two): (mobile, reference);
//   - a map with keys "reference" and "mobile", each a string or
//     []string; the deprecated key "target" is accepted for "mobile"
//     with a warning;
//   - a Selection with both sides populated, passed through.
//
// Anything else fails with ErrBadSelection.
func ParseSelection(sel interface{}) (Selection, error) {
	switch s := sel.(type) {
	case string:
		return Selection{Reference: []string{s}, Mobile: []string{s}}, nil
	case [2]string:
		return Selection{Mobile: []string{s[0]}, Reference: []string{s[1]}}, nil
	case []string:
		if len(s) != 2 {
			return Selection{}, fmt.Errorf("%w: a selection pair must hold "+
				"exactly two expressions (mobile, reference), got %d",
				ErrBadSelection, len(s))
		}
		return Selection{Mobile: []string{s[0]}, Reference: []string{s[1]}}, nil
	case Selection:
		if len(s.Reference) == 0 || len(s.Mobile) == 0 {
			return Selection{}, fmt.Errorf("%w: Selection must populate both "+
				"Reference and Mobile", ErrBadSelection)
		}
		return s, nil
	case map[string]string:
		m := make(map[string]interface{}, len(s))
		for k, v := range s {
			m[k] = v
		}
		return parseSelectionMap(m)
	case map[string]interface{}:
		return parseSelectionMap(s)
	}
	return Selection{}, fmt.Errorf("%w: want a string, a pair, a map, or a "+
		"Selection, got %T", ErrBadSelection, sel)
}

func parseSelectionMap(m map[string]interface{}) (Selection, error) {
	mobile, haveMobile := m["mobile"]
	if target, ok := m["target"]; ok {
		SelectWarnings("rmsd: selection key 'target' is deprecated; " +
			"use 'mobile' instead")
		mobile, haveMobile = target, true
	}
	reference, haveRef := m["reference"]
	if !haveMobile || !haveRef {
		return Selection{}, fmt.Errorf("%w: a selection map must contain "+
			"both 'reference' and 'mobile' keys", ErrBadSelection)
	}
	ref, err := selectionExprs(reference)
	if err != nil {
		return Selection{}, err
	}
	mob, err := selectionExprs(mobile)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Reference: ref, Mobile: mob}, nil
}

// selectionExprs coerces one side of a selection map to a list of
// expressions.
func selectionExprs(v interface{}) ([]string, error) {
	switch e := v.(type) {
	case string:
		return []string{e}, nil
	case []string:
		if len(e) == 0 {
			return nil, fmt.Errorf("%w: empty expression list", ErrBadSelection)
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: selection expressions must be a string or "+
		"[]string, got %T", ErrBadSelection, v)
}
