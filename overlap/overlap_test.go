package overlap_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vugar/ndarray/overlap"
)

// addresses enumerates every byte a view touches. Only usable for small
// views; serves as ground truth for the solver.
func addresses(v overlap.View) map[int64]bool {
	out := make(map[int64]bool)
	n := 1
	for _, d := range v.Shape {
		n *= d
	}
	coords := make([]int, len(v.Shape))
	for i := 0; i < n; i++ {
		rem := i
		for d := len(v.Shape) - 1; d >= 0; d-- {
			coords[d] = rem % v.Shape[d]
			rem /= v.Shape[d]
		}
		off := int64(v.Offset)
		for d, c := range coords {
			off += int64(c) * int64(v.Strides[d])
		}
		for u := int64(0); u < int64(v.ItemSize); u++ {
			out[off+u] = true
		}
	}
	return out
}

func intersects(a, b map[int64]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func TestMayShareMemoryDisjointRanges(t *testing.T) {
	a := overlap.View{Shape: []int{4}, Strides: []int{8}, Offset: 0, ItemSize: 8}
	b := overlap.View{Shape: []int{4}, Strides: []int{8}, Offset: 32, ItemSize: 8}
	shares, err := overlap.MayShareMemory(a, b, overlap.WorkExact)
	require.NoError(t, err)
	assert.False(t, shares)
}

func TestMayShareMemorySameView(t *testing.T) {
	a := overlap.View{Shape: []int{4}, Strides: []int{8}, Offset: 0, ItemSize: 8}
	shares, err := overlap.MayShareMemory(a, a, overlap.WorkExact)
	require.NoError(t, err)
	assert.True(t, shares)
}

func TestMayShareMemoryInterleaved(t *testing.T) {
	// Even and odd elements of the same buffer: extents overlap, the
	// element grids never touch. Only the exact solver can tell.
	even := overlap.View{Shape: []int{5}, Strides: []int{16}, Offset: 0, ItemSize: 8}
	odd := overlap.View{Shape: []int{5}, Strides: []int{16}, Offset: 8, ItemSize: 8}

	shares, err := overlap.MayShareMemory(even, odd, overlap.WorkExact)
	require.NoError(t, err)
	assert.False(t, shares)

	shares, err = overlap.MayShareMemory(even, odd, overlap.WorkBounds)
	require.NoError(t, err)
	assert.True(t, shares)
}

func TestMayShareMemoryStraddlingElements(t *testing.T) {
	// Different element grids, but 8-byte elements at offsets 0 and 4
	// share bytes 4..7.
	a := overlap.View{Shape: []int{1}, Strides: []int{8}, Offset: 0, ItemSize: 8}
	b := overlap.View{Shape: []int{1}, Strides: []int{8}, Offset: 4, ItemSize: 8}
	shares, err := overlap.MayShareMemory(a, b, overlap.WorkExact)
	require.NoError(t, err)
	assert.True(t, shares)
}

func TestMayShareMemoryNegativeStrides(t *testing.T) {
	// A reversed view of the same elements.
	fwd := overlap.View{Shape: []int{5}, Strides: []int{8}, Offset: 0, ItemSize: 8}
	rev := overlap.View{Shape: []int{5}, Strides: []int{-8}, Offset: 32, ItemSize: 8}
	shares, err := overlap.MayShareMemory(fwd, rev, overlap.WorkExact)
	require.NoError(t, err)
	assert.True(t, shares)

	// Reversed odd elements against forward even elements.
	revOdd := overlap.View{Shape: []int{2}, Strides: []int{-16}, Offset: 24, ItemSize: 8}
	even := overlap.View{Shape: []int{3}, Strides: []int{16}, Offset: 0, ItemSize: 8}
	shares, err = overlap.MayShareMemory(even, revOdd, overlap.WorkExact)
	require.NoError(t, err)
	assert.False(t, shares)
}

func TestMayShareMemoryEmptyView(t *testing.T) {
	a := overlap.View{Shape: []int{0}, Strides: []int{8}, Offset: 0, ItemSize: 8}
	b := overlap.View{Shape: []int{4}, Strides: []int{8}, Offset: 0, ItemSize: 8}
	shares, err := overlap.MayShareMemory(a, b, overlap.WorkExact)
	require.NoError(t, err)
	assert.False(t, shares)
}

func TestMayShareMemoryZeroStrideBroadcast(t *testing.T) {
	// A broadcast view touches a single element regardless of its extent.
	b := overlap.View{Shape: []int{2}, Strides: []int{8}, Offset: 0, ItemSize: 8}

	onSecond := overlap.View{Shape: []int{10}, Strides: []int{0}, Offset: 8, ItemSize: 8}
	shares, err := overlap.MayShareMemory(onSecond, b, overlap.WorkExact)
	require.NoError(t, err)
	assert.True(t, shares)

	pastEnd := overlap.View{Shape: []int{10}, Strides: []int{0}, Offset: 16, ItemSize: 8}
	shares, err = overlap.MayShareMemory(pastEnd, b, overlap.WorkExact)
	require.NoError(t, err)
	assert.False(t, shares)
}

func TestMayShareMemoryExtentOverflow(t *testing.T) {
	// The span of this view exceeds int64, so the extent comparison cannot
	// decide anything. The answer must degrade to true, never to false.
	huge := overlap.View{Shape: []int{3}, Strides: []int{math.MaxInt64/2 + 1}, Offset: 0, ItemSize: 1}
	b := overlap.View{Shape: []int{4}, Strides: []int{1}, Offset: 0, ItemSize: 1}
	shares, err := overlap.MayShareMemory(huge, b, overlap.WorkExact)
	require.NoError(t, err)
	assert.True(t, shares)
}

func randomView(rng *rand.Rand) overlap.View {
	ndim := 1 + rng.Intn(3)
	itemSize := []int{1, 2, 4, 8}[rng.Intn(4)]
	v := overlap.View{
		Shape:    make([]int, ndim),
		Strides:  make([]int, ndim),
		ItemSize: itemSize,
		Offset:   rng.Intn(64),
	}
	for i := range v.Shape {
		v.Shape[i] = 1 + rng.Intn(4)
		v.Strides[i] = (rng.Intn(9) - 4) * itemSize
	}
	return v
}

func TestMayShareMemoryAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		a := randomView(rng)
		b := randomView(rng)
		want := intersects(addresses(a), addresses(b))

		got, err := overlap.MayShareMemory(a, b, overlap.WorkExact)
		require.NoError(t, err, "a=%+v b=%+v", a, b)
		require.Equal(t, want, got, "a=%+v b=%+v", a, b)

		// A budget may give up, but must never contradict the truth.
		got, err = overlap.MayShareMemory(a, b, 20)
		if err == nil && !got {
			require.False(t, want, "budget said no but truth is yes: a=%+v b=%+v", a, b)
		}
	}
}
