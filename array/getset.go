package array

import (
	"github.com/vugar/ndarray/core"
	"github.com/vugar/ndarray/overlap"
)

// Work budget for the assignment alias check. Exhausting it falls back to
// copying the value, which is always safe.
const aliasCheckWork = 1000

// Get indexes a with an index tuple. The second return reports whether the
// result is a view of a's storage: true for basic indexing (integers,
// slices, NewAxis, Ellipsis only), false when any index array is present,
// in which case the result is a fresh copy.
func Get(a *Array, index ...Index) (*Array, bool, error) {
	p, err := parseIndex(a.shape, index)
	if err != nil {
		return nil, false, err
	}
	if !p.hasFancy {
		v := basicView(a, p)
		if a.finalize != nil {
			a.finalize(v, a)
		}
		return v, true, nil
	}
	res, err := fancyGather(a, p)
	if err != nil {
		return nil, false, err
	}
	if a.finalize != nil {
		a.finalize(res, a)
	}
	return res, false, nil
}

// Set assigns value into the selection of a described by the index tuple.
// The value broadcasts against the selection's shape. When index arrays
// select the same position more than once, the last write in row-major
// order of the broadcast result wins.
func Set(a *Array, value *Array, index ...Index) error {
	p, err := parseIndex(a.shape, index)
	if err != nil {
		return err
	}

	if !p.hasFancy {
		dst := basicView(a, p)
		src, err := conform(value, dst.shape)
		if err != nil {
			return err
		}
		if mustCopyValue(dst, value) {
			src = src.Copy()
		}
		assignInto(dst, src)
		return nil
	}

	// Advanced path: gather the byte offsets of the selected positions
	// through the exact same engine, then scatter in row-major order.
	offs, err := fancyGather(offsetsArray(a), p)
	if err != nil {
		return err
	}
	src, err := conform(value, offs.shape)
	if err != nil {
		return err
	}
	if mustCopyValue(a, value) {
		src = src.Copy()
	}
	n := offs.NumElements()
	coords := make([]int, offs.NDim())
	for i := 0; i < n; i++ {
		core.Unravel(i, offs.shape, coords)
		dstOff := int(loadInt(offs.storage, offs.elemOffset(coords), core.Int64))
		copyElem(a.storage, dstOff, src.storage, src.elemOffset(coords), a.dtype, src.dtype)
	}
	return nil
}

// basicView resolves an index tuple with no array indexes into a view.
// parseIndex has already validated scalars and filled trailing axes.
func basicView(a *Array, p *parsed) *Array {
	shape := make(core.Shape, 0, len(p.items))
	strides := make(core.Strides, 0, len(p.items))
	offset := a.offset
	ax := 0
	for _, it := range p.items {
		switch it.kind {
		case ixNewAxis:
			shape = append(shape, 1)
			strides = append(strides, 0)
		case ixInt:
			i := it.i
			if i < 0 {
				i += a.shape[ax]
			}
			offset += i * a.strides[ax]
			ax++
		case ixSlice:
			size := a.shape[ax]
			n := it.sl.LenFor(size)
			if n > 0 {
				offset += it.sl.StartFor(size) * a.strides[ax]
			}
			shape = append(shape, n)
			strides = append(strides, a.strides[ax]*it.sl.StepOr1())
			ax++
		}
	}
	return a.view(shape, strides, offset)
}

// offsetsArray materializes the byte offset of every element of a, in a's
// shape. Indexing it with a's index tuple yields the storage positions the
// same tuple selects in a.
func offsetsArray(a *Array) *Array {
	off := New(a.shape.Clone(), core.Int64)
	n := a.NumElements()
	coords := make([]int, a.NDim())
	for i := 0; i < n; i++ {
		core.Unravel(i, a.shape, coords)
		storeIntElem(off.storage, i*8, core.Int64, int64(a.elemOffset(coords)))
	}
	return off
}

// MayShare reports whether a and b can address a common storage location.
// maxWork bounds the exact solver's effort; see overlap.MayShareMemory.
func MayShare(a, b *Array, maxWork int64) (bool, error) {
	if !SharesStorage(a, b) {
		return false, nil
	}
	return overlap.MayShareMemory(overlapView(a), overlapView(b), maxWork)
}

// mustCopyValue reports whether an assignment source must be buffered
// because it may alias the destination. Unresolved checks copy.
func mustCopyValue(dst, value *Array) bool {
	if !SharesStorage(dst, value) {
		return false
	}
	shares, err := MayShare(dst, value, aliasCheckWork)
	return err != nil || shares
}

func overlapView(a *Array) overlap.View {
	return overlap.View{
		Shape:    []int(a.shape),
		Strides:  []int(a.strides),
		Offset:   a.offset,
		ItemSize: a.ItemSize(),
	}
}
