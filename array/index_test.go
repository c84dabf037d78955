package array_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vugar/ndarray/array"
	"github.com/vugar/ndarray/core"
)

func arangeF(t *testing.T, shape ...int) *array.Array {
	t.Helper()
	n := 1
	for _, d := range shape {
		n *= d
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	a, err := array.FromSlice(data, core.Shape(shape))
	require.NoError(t, err)
	return a
}

func get(t *testing.T, a *array.Array, index ...array.Index) *array.Array {
	t.Helper()
	out, _, err := array.Get(a, index...)
	require.NoError(t, err)
	return out
}

func TestGetEmptyIndexIsFullView(t *testing.T) {
	a := arangeF(t, 2, 3)
	v, isView, err := array.Get(a)
	require.NoError(t, err)
	assert.True(t, isView)
	assert.True(t, array.SharesStorage(a, v))
	assert.Equal(t, core.Shape{2, 3}, v.Shape())
	assert.Equal(t, a.Float64s(), v.Float64s())
}

func TestGetEllipsisOnly(t *testing.T) {
	a := arangeF(t, 2, 3)
	v, isView, err := array.Get(a, array.Ellipsis)
	require.NoError(t, err)
	assert.True(t, isView)
	assert.Equal(t, core.Shape{2, 3}, v.Shape())
}

func TestGetScalarRow(t *testing.T) {
	a := arangeF(t, 3, 4)
	v := get(t, a, array.At(1))
	assert.Equal(t, core.Shape{4}, v.Shape())
	assert.Equal(t, []float64{4, 5, 6, 7}, v.Float64s())

	last := get(t, a, array.At(-1))
	assert.Equal(t, []float64{8, 9, 10, 11}, last.Float64s())
}

func TestGetScalarScalar(t *testing.T) {
	a := arangeF(t, 3, 4)
	v := get(t, a, array.At(2), array.At(-1))
	assert.Equal(t, core.Shape{}, v.Shape())
	assert.Equal(t, []float64{11}, v.Float64s())
}

func TestGetSliceViews(t *testing.T) {
	a := arangeF(t, 10)

	tail := get(t, a, array.SliceIdx(array.Slice{Start: 7}))
	assert.Equal(t, []float64{7, 8, 9}, tail.Float64s())

	head := get(t, a, array.SliceIdx(array.Slice{Stop: 3}))
	assert.Equal(t, []float64{0, 1, 2}, head.Float64s())

	rev := get(t, a, array.SliceIdx(array.Slice{Step: -1}))
	assert.Equal(t, []float64{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, rev.Float64s())

	every2 := get(t, a, array.SliceIdx(array.Slice{Step: 2}))
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, every2.Float64s())

	empty := get(t, a, array.SliceIdx(array.Slice{Stop: -10}))
	assert.Equal(t, 0, empty.NumElements())
}

func TestGetNewAxis(t *testing.T) {
	a := arangeF(t, 3, 3)
	v := get(t, a, array.NewAxis, array.Full, array.At(0), array.NewAxis)
	assert.Equal(t, core.Shape{1, 3, 1}, v.Shape())
	assert.Equal(t, []float64{0, 3, 6}, v.Float64s())
}

func TestGetEllipsisInMiddle(t *testing.T) {
	a := arangeF(t, 2, 3, 4)
	v := get(t, a, array.At(1), array.Ellipsis, array.At(0))
	assert.Equal(t, core.Shape{3}, v.Shape())
	assert.Equal(t, []float64{12, 16, 20}, v.Float64s())
}

func TestGetZeroDim(t *testing.T) {
	a, err := array.FromSlice([]float64{42}, core.Shape{})
	require.NoError(t, err)
	v, isView, err := array.Get(a)
	require.NoError(t, err)
	assert.True(t, isView)
	assert.Equal(t, []float64{42}, v.Float64s())
}

func TestGetTooManyIndices(t *testing.T) {
	a := arangeF(t, 4)
	_, _, err := array.Get(a, array.At(0), array.At(0))
	require.ErrorIs(t, err, array.ErrTooManyIndices)

	// A 2-d boolean mask consumes two axes.
	mask, err := array.FromSlice([]bool{true, false, false, true}, core.Shape{2, 2})
	require.NoError(t, err)
	b := arangeF(t, 2, 2)
	_, _, err = array.Get(b, array.Arr(mask), array.At(0))
	require.ErrorIs(t, err, array.ErrTooManyIndices)
}

func TestGetDoubleEllipsis(t *testing.T) {
	a := arangeF(t, 2, 3)
	_, _, err := array.Get(a, array.Ellipsis, array.Ellipsis)
	require.ErrorIs(t, err, array.ErrInvalidIndex)
}

func TestGetFloatIndexArrayRejected(t *testing.T) {
	a := arangeF(t, 4)
	idx, err := array.FromSlice([]float64{0, 1}, core.Shape{2})
	require.NoError(t, err)
	_, _, err = array.Get(a, array.Arr(idx))
	require.ErrorIs(t, err, array.ErrInvalidIndexArray)
}

func TestGetScalarOutOfBounds(t *testing.T) {
	a := arangeF(t, 10)
	for _, i := range []int{10, -11, 1 << 30, 1 << 40} {
		_, _, err := array.Get(a, array.At(i))
		require.ErrorIs(t, err, array.ErrIndexOutOfBounds, "index %d", i)
	}
	// In range from the end.
	v := get(t, a, array.At(-10))
	assert.Equal(t, []float64{0}, v.Float64s())
}
