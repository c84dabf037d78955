package array

import (
	"fmt"

	"github.com/vugar/ndarray/core"
)

// The gather path works on a normalized entry list: slices and new axes stay
// positional, consecutive advanced indexes (integer scalars included) fuse
// into fancy groups. Two or more separate groups relocate the broadcast
// result axes to the front, one group keeps them in place.

type entryKind uint8

const (
	feSlice entryKind = iota
	feNewAxis
	feGroup
)

// fancyMember is one advanced index inside a group: an integer scalar (0-d),
// an integer array (one consumed axis), or a boolean mask (one consumed axis
// per mask dimension, contributing the 1-D list of its True positions).
type fancyMember struct {
	shape   core.Shape
	axes    int       // source axes consumed
	coords  [][]int64 // per consumed axis, row-major over shape
	pending bool      // boolean mask had out-of-range True positions
}

type fancyEntry struct {
	kind    entryKind
	sl      Slice
	members []fancyMember
	srcAxes []int
}

// buildEntries converts parsed items into the normalized entry list.
// Group adjacency follows the original tuple: an ellipsis splits groups even
// when it expanded to zero slices.
func buildEntries(shape core.Shape, p *parsed) ([]fancyEntry, int) {
	var entries []fancyEntry
	numGroups := 0
	ax := 0

	appendMember := func(pos int, m fancyMember, srcAxes []int) {
		n := len(entries)
		if n > 0 && entries[n-1].kind == feGroup && pos != p.ellipsisPos {
			entries[n-1].members = append(entries[n-1].members, m)
			entries[n-1].srcAxes = append(entries[n-1].srcAxes, srcAxes...)
			return
		}
		numGroups++
		entries = append(entries, fancyEntry{kind: feGroup, members: []fancyMember{m}, srcAxes: srcAxes})
	}

	for pos, it := range p.items {
		switch it.kind {
		case ixNewAxis:
			entries = append(entries, fancyEntry{kind: feNewAxis})
		case ixSlice:
			entries = append(entries, fancyEntry{kind: feSlice, sl: it.sl, srcAxes: []int{ax}})
			ax++
		case ixInt:
			appendMember(pos, fancyMember{
				shape:  core.Shape{},
				axes:   1,
				coords: [][]int64{{int64(it.i)}},
			}, []int{ax})
			ax++
		case ixArray:
			if it.isBool {
				m, k := boolMember(it.arr, shape[ax:])
				axes := make([]int, k)
				for i := range axes {
					axes[i] = ax + i
				}
				appendMember(pos, m, axes)
				ax += k
			} else {
				appendMember(pos, fancyMember{
					shape:  it.arr.shape.Clone(),
					axes:   1,
					coords: [][]int64{it.arr.Int64s()},
				}, []int{ax})
				ax++
			}
		}
	}
	return entries, numGroups
}

// boolMember converts a boolean mask into the coordinates of its True
// positions, checked against the spanned extents. Out-of-range positions are
// recorded but only raised later, when the broadcast result is non-empty.
func boolMember(mask *Array, spanned core.Shape) (fancyMember, int) {
	k := mask.NDim()
	if k == 0 {
		// A 0-d mask consumes no axes: it contributes a broadcast
		// dimension of length 1 (true) or 0 (false).
		n := 0
		if mask.Bools()[0] {
			n = 1
		}
		return fancyMember{shape: core.Shape{n}, axes: 0}, 0
	}

	flat := mask.Bools()
	var nTrue int
	for _, b := range flat {
		if b {
			nTrue++
		}
	}
	m := fancyMember{
		shape:  core.Shape{nTrue},
		axes:   k,
		coords: make([][]int64, k),
	}
	for j := 0; j < k; j++ {
		m.coords[j] = make([]int64, nTrue)
	}
	coords := make([]int, k)
	ti := 0
	for i, b := range flat {
		if !b {
			continue
		}
		core.Unravel(i, mask.shape, coords)
		for j := 0; j < k; j++ {
			if coords[j] >= spanned[j] {
				m.pending = true
				m.coords[j][ti] = 0
			} else {
				m.coords[j][ti] = int64(coords[j])
			}
		}
		ti++
	}
	return m, k
}

// fancyGather runs the advanced-indexing read path. The result is always a
// fresh copy.
func fancyGather(a *Array, p *parsed) (*Array, error) {
	entries, numGroups := buildEntries(a.shape, p)

	w := a
	var err error
	if numGroups > 1 {
		// Non-adjacent groups: relocate all fancy axes to the front and
		// fuse the groups into one.
		var fancyAxes []int
		merged := fancyEntry{kind: feGroup}
		rest := make([]fancyEntry, 0, len(entries))
		for _, e := range entries {
			if e.kind == feGroup {
				merged.members = append(merged.members, e.members...)
				fancyAxes = append(fancyAxes, e.srcAxes...)
			} else {
				rest = append(rest, e)
			}
		}
		isFancy := make([]bool, len(a.shape))
		for _, x := range fancyAxes {
			isFancy[x] = true
		}
		order := append([]int{}, fancyAxes...)
		for i := range a.shape {
			if !isFancy[i] {
				order = append(order, i)
			}
		}
		w, err = a.Transpose(order)
		if err != nil {
			return nil, err
		}
		entries = append([]fancyEntry{merged}, rest...)
	}

	cur := w
	ax := 0
	for _, e := range entries {
		switch e.kind {
		case feNewAxis:
			cur = cur.insertAxis(ax)
			ax++
		case feSlice:
			cur, err = cur.SliceAxis(ax, e.sl)
			if err != nil {
				return nil, err
			}
			ax++
		case feGroup:
			var bRank int
			cur, bRank, err = takeFancy(cur, ax, e.members)
			if err != nil {
				return nil, err
			}
			ax += bRank
		}
	}
	return cur, nil
}

// takeFancy gathers along the group's consumed axes at position ax of w.
// All members broadcast to a common shape; the result replaces the consumed
// axes with the broadcast axes, in place.
func takeFancy(w *Array, ax int, members []fancyMember) (*Array, int, error) {
	shapes := make([]core.Shape, len(members))
	consumed := 0
	for i, m := range members {
		shapes[i] = m.shape
		consumed += m.axes
	}
	bshape, err := core.BroadcastAll(shapes...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrShapeMismatch, shapes)
	}

	// Bounds checks happen after broadcasting; an empty broadcast result
	// suppresses them, including deferred boolean-mask errors.
	if bshape.NumElements() > 0 {
		axc := 0
		for mi := range members {
			m := &members[mi]
			if m.pending {
				return nil, 0, fmt.Errorf("%w: boolean mask selects positions outside the indexed axes",
					ErrIndexOutOfBounds)
			}
			for j := 0; j < m.axes; j++ {
				size := w.shape[ax+axc+j]
				cs := m.coords[j]
				for vi, v := range cs {
					if v < int64(-size) || v >= int64(size) {
						return nil, 0, fmt.Errorf("%w: index %d is out of bounds for axis %d with size %d",
							ErrIndexOutOfBounds, v, ax+axc+j, size)
					}
					if v < 0 {
						cs[vi] = v + int64(size)
					}
				}
			}
			axc += m.axes
		}
	}

	bstrides := make([]core.Strides, len(members))
	for i, m := range members {
		bs, err := core.BroadcastStrides(m.shape, core.ContiguousStrides(m.shape, 1), bshape)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrShapeMismatch, shapes)
		}
		bstrides[i] = bs
	}

	outShape := make(core.Shape, 0, len(w.shape)-consumed+len(bshape))
	outShape = append(outShape, w.shape[:ax]...)
	outShape = append(outShape, bshape...)
	outShape = append(outShape, w.shape[ax+consumed:]...)
	out := New(outShape, w.dtype)
	out.finalize = w.finalize

	n := outShape.NumElements()
	if n == 0 {
		return out, len(bshape), nil
	}
	isz := int(w.dtype.Size())
	coords := make([]int, len(outShape))
	for i := 0; i < n; i++ {
		core.Unravel(i, outShape, coords)
		srcOff := w.offset
		for d := 0; d < ax; d++ {
			srcOff += coords[d] * w.strides[d]
		}
		srcAxis := ax
		for mi, m := range members {
			if m.axes == 0 {
				continue
			}
			flat := 0
			for bd := 0; bd < len(bshape); bd++ {
				flat += coords[ax+bd] * bstrides[mi][bd]
			}
			for j := 0; j < m.axes; j++ {
				srcOff += int(m.coords[j][flat]) * w.strides[srcAxis]
				srcAxis++
			}
		}
		for d := ax + consumed; d < len(w.shape); d++ {
			srcOff += coords[d-consumed+len(bshape)] * w.strides[d]
		}
		copyElem(out.storage, i*isz, w.storage, srcOff, w.dtype, w.dtype)
	}
	return out, len(bshape), nil
}
