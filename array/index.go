package array

import (
	"fmt"

	"github.com/vugar/ndarray/core"
)

// indexKind is the closed set of index element kinds.
type indexKind uint8

const (
	ixSlice indexKind = iota
	ixInt
	ixNewAxis
	ixEllipsis
	ixArray // boolean or integer array, classified by dtype at parse time
)

// Index is one element of an index tuple: an integer, a slice, NewAxis,
// Ellipsis, or a boolean/integer array.
type Index struct {
	kind indexKind
	i    int
	sl   Slice
	arr  *Array
}

// At indexes a single position along one axis. Negative values count from
// the end.
func At(i int) Index { return Index{kind: ixInt, i: i} }

// Sl is a start:stop:step slice index.
func Sl(start, stop, step int) Index {
	return Index{kind: ixSlice, sl: Slice{Start: start, Stop: stop, Step: step}}
}

// Rng is a start:stop slice index with step 1.
func Rng(start, stop int) Index { return Sl(start, stop, 1) }

// SliceIdx wraps an explicit Slice expression.
func SliceIdx(sl Slice) Index { return Index{kind: ixSlice, sl: sl} }

// Full selects an entire axis.
var Full = Index{kind: ixSlice}

// NewAxis inserts a length-1 axis without consuming a source axis.
var NewAxis = Index{kind: ixNewAxis}

// Ellipsis expands to as many full slices as needed to cover the remaining
// axes. At most one per index tuple.
var Ellipsis = Index{kind: ixEllipsis}

// Arr indexes with an integer or boolean array (fancy indexing).
func Arr(a *Array) Index { return Index{kind: ixArray, arr: a} }

// Ints is shorthand for a 1-D integer index array.
func Ints(vals ...int) Index {
	data := make([]int64, len(vals))
	for i, v := range vals {
		data[i] = int64(v)
	}
	a, _ := FromSlice(data, core.Shape{len(vals)})
	return Arr(a)
}

// Bools is shorthand for a 1-D boolean mask index.
func Bools(vals ...bool) Index {
	a, _ := FromSlice(vals, core.Shape{len(vals)})
	return Arr(a)
}

// ---- Parsing and shape resolution ----

// item is one resolved element of the expanded index tuple.
type item struct {
	kind   indexKind
	i      int
	sl     Slice
	arr    *Array
	isBool bool // for ixArray
}

// parsed is the structural resolution of an index tuple against an array:
// ellipsis expanded, trailing axes filled in, every element classified.
type parsed struct {
	items       []item
	ellipsisPos int // position in items where the ellipsis was, -1 if absent
	hasFancy    bool
}

// parseIndex classifies and validates an index tuple for an array of the
// given shape, expanding the ellipsis and appending implicit trailing full
// slices. Integer scalars are bounds-checked here, before any broadcasting.
func parseIndex(shape core.Shape, index []Index) (*parsed, error) {
	consumed := 0
	ellipses := 0
	hasFancy := false
	for _, ix := range index {
		switch ix.kind {
		case ixEllipsis:
			ellipses++
			if ellipses > 1 {
				return nil, fmt.Errorf("%w: an index can only have a single ellipsis", ErrInvalidIndex)
			}
		case ixNewAxis:
			// consumes nothing
		case ixArray:
			if ix.arr == nil {
				return nil, fmt.Errorf("%w: nil index array", ErrInvalidIndex)
			}
			switch {
			case ix.arr.dtype.IsBool():
				consumed += ix.arr.NDim()
			case ix.arr.dtype.IsInt():
				consumed++
			default:
				return nil, fmt.Errorf("%w: got %s", ErrInvalidIndexArray, ix.arr.dtype)
			}
			hasFancy = true
		default:
			consumed++
		}
	}
	if consumed > len(shape) {
		return nil, fmt.Errorf("%w: array is %d-dimensional, but %d were indexed",
			ErrTooManyIndices, len(shape), consumed)
	}

	p := &parsed{ellipsisPos: -1, hasFancy: hasFancy}
	fill := len(shape) - consumed
	for _, ix := range index {
		switch ix.kind {
		case ixEllipsis:
			p.ellipsisPos = len(p.items)
			for i := 0; i < fill; i++ {
				p.items = append(p.items, item{kind: ixSlice})
			}
			fill = 0
		case ixArray:
			p.items = append(p.items, item{kind: ixArray, arr: ix.arr, isBool: ix.arr.dtype.IsBool()})
		default:
			p.items = append(p.items, item{kind: ix.kind, i: ix.i, sl: ix.sl})
		}
	}
	// Implicit trailing full slices when no ellipsis was given.
	for i := 0; i < fill; i++ {
		p.items = append(p.items, item{kind: ixSlice})
	}

	// Bounds-check integer scalars against their consumed axis.
	ax := 0
	for _, it := range p.items {
		switch it.kind {
		case ixNewAxis:
			continue
		case ixInt:
			size := shape[ax]
			if it.i < -size || it.i >= size {
				return nil, fmt.Errorf("%w: index %d is out of bounds for axis %d with size %d",
					ErrIndexOutOfBounds, it.i, ax, size)
			}
			ax++
		case ixArray:
			if it.isBool {
				ax += it.arr.NDim()
			} else {
				ax++
			}
		default:
			ax++
		}
	}
	return p, nil
}
