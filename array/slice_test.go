package array_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vugar/ndarray/array"
)

func TestSliceResolution(t *testing.T) {
	cases := []struct {
		name  string
		sl    array.Slice
		size  int
		start int
		n     int
	}{
		{"full", array.Slice{}, 10, 0, 10},
		{"head", array.Slice{Stop: 3}, 10, 0, 3},
		{"tail", array.Slice{Start: 7}, 10, 7, 3},
		{"negative start", array.Slice{Start: -3}, 10, 7, 3},
		{"negative stop", array.Slice{Stop: -2}, 10, 0, 8},
		{"step two", array.Slice{Step: 2}, 10, 0, 5},
		{"full reverse", array.Slice{Step: -1}, 10, 9, 10},
		{"reverse from", array.Slice{Start: 5, Step: -1}, 10, 5, 6},
		{"reverse step two", array.Slice{Step: -2}, 10, 9, 5},
		{"start past end clamps", array.Slice{Start: 99}, 10, 0, 0},
		{"stop past end clamps", array.Slice{Stop: 99}, 10, 0, 10},
		{"empty window", array.Slice{Start: 4, Stop: 4}, 10, 0, 0},
		{"inverted window", array.Slice{Start: 7, Stop: 3}, 10, 0, 0},
		{"stop before start of axis", array.Slice{Stop: -10}, 10, 0, 0},
		{"all of one", array.Slice{}, 1, 0, 1},
		{"empty axis", array.Slice{}, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.sl.LenFor(tc.size)
			assert.Equal(t, tc.n, n, "length")
			if n > 0 {
				assert.Equal(t, tc.start, tc.sl.StartFor(tc.size), "start")
			}
		})
	}
}
