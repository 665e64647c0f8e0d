package rmsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelectionShapes(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want Selection
	}{
		{
			"bare string applies to both sides",
			"name CA",
			Selection{Reference: []string{"name CA"}, Mobile: []string{"name CA"}},
		},
		{
			"pair is (mobile, reference)",
			[2]string{"name CB", "name CA"},
			Selection{Reference: []string{"name CA"}, Mobile: []string{"name CB"}},
		},
		{
			"slice pair",
			[]string{"name CB", "name CA"},
			Selection{Reference: []string{"name CA"}, Mobile: []string{"name CB"}},
		},
		{
			"string map",
			map[string]string{"reference": "name CA", "mobile": "name CB"},
			Selection{Reference: []string{"name CA"}, Mobile: []string{"name CB"}},
		},
		{
			"map with expression lists keeps order",
			map[string]interface{}{
				"reference": []string{"index 3", "index 1"},
				"mobile":    "all",
			},
			Selection{Reference: []string{"index 3", "index 1"}, Mobile: []string{"all"}},
		},
		{
			"canonical form passes through",
			Selection{Reference: []string{"a"}, Mobile: []string{"b"}},
			Selection{Reference: []string{"a"}, Mobile: []string{"b"}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSelection(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseSelectionDeprecatedTarget(t *testing.T) {
	var warned []string
	orig := SelectWarnings
	SelectWarnings = func(format string, v ...interface{}) {
		warned = append(warned, format)
	}
	defer func() { SelectWarnings = orig }()

	got, err := ParseSelection(map[string]interface{}{
		"reference": "name CA",
		"target":    "name CB",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name CB"}, got.Mobile,
		"the legacy 'target' key must populate the mobile side")
	assert.Len(t, warned, 1, "using 'target' must warn exactly once")
}

func TestParseSelectionErrors(t *testing.T) {
	bad := []interface{}{
		nil,
		42,
		[]string{"only one"},
		[]string{"a", "b", "c"},
		map[string]interface{}{"reference": "name CA"},
		map[string]interface{}{"mobile": "name CA"},
		map[string]interface{}{"reference": 3, "mobile": "all"},
		map[string]interface{}{"reference": []string{}, "mobile": "all"},
		Selection{Reference: []string{"a"}},
	}
	for _, in := range bad {
		_, err := ParseSelection(in)
		assert.ErrorIs(t, err, ErrBadSelection, "input %#v", in)
	}
}
