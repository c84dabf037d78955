package array

import (
	"fmt"

	"github.com/vugar/ndarray/core"
)

// Array is a strided n-dimensional view over a shared storage buffer.
// Views share storage with the array they were derived from; arrays created
// by copying own a fresh buffer.
type Array struct {
	storage *storage
	shape   core.Shape
	strides core.Strides // bytes
	dtype   core.DType
	offset  int // byte offset into storage (for views)

	base     *Array // non-nil when this array is a view of another
	finalize Finalizer
}

// Finalizer runs exactly once on every indexing result derived from the
// array it is attached to, after the result is fully populated and before it
// is returned. It may mutate the result.
type Finalizer func(result, src *Array)

// ---- Constructors ----

// New creates an owning contiguous array of the given shape and dtype.
func New(shape core.Shape, dtype core.DType) *Array {
	n := shape.NumElements()
	var st *storage
	if dtype == core.Object {
		st = newObjectStorage(n)
	} else {
		st = newStorage(n * int(dtype.Size()))
	}
	return &Array{
		storage: st,
		shape:   shape.Clone(),
		strides: core.ContiguousStrides(shape, dtype.Size()),
		dtype:   dtype,
	}
}

// Zeros creates a zero-filled array.
func Zeros(shape core.Shape, dtype core.DType) *Array {
	return New(shape, dtype)
}

// FromSlice creates an array from a Go slice in row-major order.
func FromSlice[T float32 | float64 | int8 | int16 | int32 | int64 | uint8 | bool](data []T, shape core.Shape) (*Array, error) {
	n := shape.NumElements()
	if len(data) != n {
		return nil, fmt.Errorf("data length %d != shape elements %d", len(data), n)
	}

	var dtype core.DType
	var zero T
	switch any(zero).(type) {
	case float32:
		dtype = core.Float32
	case float64:
		dtype = core.Float64
	case int8:
		dtype = core.Int8
	case int16:
		dtype = core.Int16
	case int32:
		dtype = core.Int32
	case int64:
		dtype = core.Int64
	case uint8:
		dtype = core.Uint8
	case bool:
		dtype = core.Bool
	}

	a := New(shape, dtype)
	copySliceToBytes(data, a.storage.data)
	return a, nil
}

// FromObjects creates an object-dtype array holding the given values by
// reference.
func FromObjects(objs []any, shape core.Shape) (*Array, error) {
	n := shape.NumElements()
	if len(objs) != n {
		return nil, fmt.Errorf("data length %d != shape elements %d", len(objs), n)
	}
	a := New(shape, core.Object)
	copy(a.storage.objs, objs)
	return a, nil
}

// Arange creates a 1-D array with values [0, 1, ..., n-1].
func Arange(n int, dtype core.DType) *Array {
	a := New(core.Shape{n}, dtype)
	for i := 0; i < n; i++ {
		storeElem(a.storage, i*int(dtype.Size()), dtype, float64(i))
	}
	return a
}

// ---- Accessors ----

func (a *Array) Shape() core.Shape     { return a.shape }
func (a *Array) Strides() core.Strides { return a.strides }
func (a *Array) DType() core.DType     { return a.dtype }
func (a *Array) NDim() int             { return len(a.shape) }
func (a *Array) NumElements() int      { return a.shape.NumElements() }
func (a *Array) Offset() int           { return a.offset }
func (a *Array) ItemSize() int         { return int(a.dtype.Size()) }

// Base returns the array this view was derived from, or nil for an owning
// array.
func (a *Array) Base() *Array { return a.base }

// IsView reports whether the array shares storage with another array.
func (a *Array) IsView() bool { return a.base != nil }

func (a *Array) IsContiguous() bool {
	return core.IsContiguous(a.shape, a.strides, a.dtype.Size())
}

// SetFinalizer attaches a hook invoked on every indexing result derived from
// this array. Results inherit the hook.
func (a *Array) SetFinalizer(f Finalizer) { a.finalize = f }

// SharesStorage reports whether two arrays are backed by the same buffer.
// It says nothing about whether their footprints actually intersect.
func SharesStorage(a, b *Array) bool { return a.storage == b.storage }

func (a *Array) String() string {
	return fmt.Sprintf("Array(shape=%v, dtype=%s, strides=%v, offset=%d)",
		a.shape, a.dtype, a.strides, a.offset)
}

// ---- Views ----

// view builds a view header with the given geometry, sharing storage.
// The base chain is collapsed to the root owning array.
func (a *Array) view(shape core.Shape, strides core.Strides, offset int) *Array {
	base := a
	if a.base != nil {
		base = a.base
	}
	return &Array{
		storage:  a.storage,
		shape:    shape,
		strides:  strides,
		dtype:    a.dtype,
		offset:   offset,
		base:     base,
		finalize: a.finalize,
	}
}

// View returns a full view of the array: fresh header, shared storage.
func (a *Array) View() *Array {
	return a.view(a.shape.Clone(), a.strides.Clone(), a.offset)
}

// Transpose returns a view with permuted axes.
func (a *Array) Transpose(axes []int) (*Array, error) {
	newShape, newStrides, err := core.Permute(a.shape, a.strides, axes)
	if err != nil {
		return nil, err
	}
	return a.view(newShape, newStrides, a.offset), nil
}

// SliceAxis returns a view restricted to a slice expression along one axis.
func (a *Array) SliceAxis(axis int, sl Slice) (*Array, error) {
	if axis < 0 || axis >= len(a.shape) {
		return nil, fmt.Errorf("axis %d out of range for %d dimensions", axis, len(a.shape))
	}
	size := a.shape[axis]
	n := sl.LenFor(size)
	shape := a.shape.Clone()
	strides := a.strides.Clone()
	offset := a.offset
	if n > 0 {
		offset += sl.StartFor(size) * strides[axis]
	}
	shape[axis] = n
	strides[axis] *= sl.StepOr1()
	return a.view(shape, strides, offset), nil
}

// insertAxis returns a view with a length-1 axis added at the given position.
func (a *Array) insertAxis(axis int) *Array {
	shape := make(core.Shape, 0, len(a.shape)+1)
	strides := make(core.Strides, 0, len(a.strides)+1)
	shape = append(shape, a.shape[:axis]...)
	shape = append(shape, 1)
	shape = append(shape, a.shape[axis:]...)
	strides = append(strides, a.strides[:axis]...)
	strides = append(strides, 0)
	strides = append(strides, a.strides[axis:]...)
	return a.view(shape, strides, a.offset)
}

// BroadcastTo returns a read-only view virtually expanded to the target
// shape, with stride 0 on broadcast axes.
func (a *Array) BroadcastTo(target core.Shape) (*Array, error) {
	strides, err := core.BroadcastStrides(a.shape, a.strides, target)
	if err != nil {
		return nil, err
	}
	return a.view(target.Clone(), strides, a.offset), nil
}

// AsStrided builds a view with explicit geometry. The caller is responsible
// for keeping the footprint within the storage bounds.
func AsStrided(a *Array, shape core.Shape, strides core.Strides, offset int) (*Array, error) {
	if len(shape) != len(strides) {
		return nil, fmt.Errorf("shape rank %d != strides rank %d", len(shape), len(strides))
	}
	lo, hi := footprint(shape, strides, offset, int(a.dtype.Size()))
	if len(shape) > 0 && shape.NumElements() > 0 && (lo < 0 || hi > a.storage.byteLen()) {
		return nil, fmt.Errorf("as_strided footprint [%d,%d) outside storage of %d bytes", lo, hi, a.storage.byteLen())
	}
	return a.view(shape.Clone(), strides.Clone(), offset), nil
}

// footprint returns the [min,max) byte range reachable by a view geometry.
func footprint(shape core.Shape, strides core.Strides, offset, itemSize int) (int, int) {
	lo, hi := offset, offset
	for i, d := range shape {
		if d <= 1 {
			continue
		}
		span := (d - 1) * strides[i]
		if span > 0 {
			hi += span
		} else {
			lo += span
		}
	}
	return lo, hi + itemSize
}

// Reshape returns a view when the data is contiguous, otherwise a copy.
func (a *Array) Reshape(shape core.Shape) (*Array, error) {
	if shape.NumElements() != a.NumElements() {
		return nil, fmt.Errorf("cannot reshape %v (%d elements) to %v (%d elements)",
			a.shape, a.NumElements(), shape, shape.NumElements())
	}
	if a.IsContiguous() {
		return a.view(shape.Clone(), core.ContiguousStrides(shape, a.dtype.Size()), a.offset), nil
	}
	c := a.Copy()
	c.shape = shape.Clone()
	c.strides = core.ContiguousStrides(shape, a.dtype.Size())
	return c, nil
}

// Ravel returns the array flattened to 1-D, as a view when contiguous.
func (a *Array) Ravel() *Array {
	out, _ := a.Reshape(core.Shape{a.NumElements()})
	return out
}

// Copy materializes the logical content into a fresh contiguous owning array.
func (a *Array) Copy() *Array {
	out := New(a.shape, a.dtype)
	out.finalize = a.finalize
	n := a.NumElements()
	coords := make([]int, len(a.shape))
	outSize := int(a.dtype.Size())
	for i := 0; i < n; i++ {
		core.Unravel(i, a.shape, coords)
		copyElem(out.storage, i*outSize, a.storage, a.elemOffset(coords), a.dtype, a.dtype)
	}
	return out
}

// ---- Element access ----

// elemOffset is the byte offset of the element at the given coordinates.
func (a *Array) elemOffset(coords []int) int {
	return a.offset + core.FlatIndex(coords, a.strides)
}

// At returns the element at the given coordinates as a Go value: float64 for
// float dtypes, int64 for integer dtypes, bool, or the stored object.
func (a *Array) At(coords ...int) (any, error) {
	if len(coords) != len(a.shape) {
		return nil, fmt.Errorf("got %d coordinates for %d dimensions", len(coords), len(a.shape))
	}
	for i, c := range coords {
		if c < 0 || c >= a.shape[i] {
			return nil, fmt.Errorf("%w: coordinate %d on axis %d with size %d", ErrIndexOutOfBounds, c, i, a.shape[i])
		}
	}
	return loadAny(a.storage, a.elemOffset(coords), a.dtype), nil
}

// SetAt stores a Go value at the given coordinates, casting numeric values.
func (a *Array) SetAt(v any, coords ...int) error {
	if len(coords) != len(a.shape) {
		return fmt.Errorf("got %d coordinates for %d dimensions", len(coords), len(a.shape))
	}
	for i, c := range coords {
		if c < 0 || c >= a.shape[i] {
			return fmt.Errorf("%w: coordinate %d on axis %d with size %d", ErrIndexOutOfBounds, c, i, a.shape[i])
		}
	}
	storeAny(a.storage, a.elemOffset(coords), a.dtype, v)
	return nil
}

// Float64s extracts the logical content as []float64 in row-major order.
func (a *Array) Float64s() []float64 {
	n := a.NumElements()
	out := make([]float64, n)
	coords := make([]int, len(a.shape))
	for i := 0; i < n; i++ {
		core.Unravel(i, a.shape, coords)
		out[i] = loadFloat(a.storage, a.elemOffset(coords), a.dtype)
	}
	return out
}

// Int64s extracts the logical content as []int64 in row-major order.
func (a *Array) Int64s() []int64 {
	n := a.NumElements()
	out := make([]int64, n)
	coords := make([]int, len(a.shape))
	for i := 0; i < n; i++ {
		core.Unravel(i, a.shape, coords)
		out[i] = loadInt(a.storage, a.elemOffset(coords), a.dtype)
	}
	return out
}

// Bools extracts the logical content as []bool in row-major order.
func (a *Array) Bools() []bool {
	n := a.NumElements()
	out := make([]bool, n)
	coords := make([]int, len(a.shape))
	for i := 0; i < n; i++ {
		core.Unravel(i, a.shape, coords)
		out[i] = loadInt(a.storage, a.elemOffset(coords), a.dtype) != 0
	}
	return out
}

// Objects extracts the logical content of an object array in row-major order.
func (a *Array) Objects() []any {
	n := a.NumElements()
	out := make([]any, n)
	coords := make([]int, len(a.shape))
	for i := 0; i < n; i++ {
		core.Unravel(i, a.shape, coords)
		out[i] = a.storage.objs[a.elemOffset(coords)]
	}
	return out
}

// Equal reports whether two arrays have the same shape and equal elements.
func Equal(a, b *Array) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	n := a.NumElements()
	coords := make([]int, len(a.shape))
	for i := 0; i < n; i++ {
		core.Unravel(i, a.shape, coords)
		av := loadAny(a.storage, a.elemOffset(coords), a.dtype)
		bv := loadAny(b.storage, b.elemOffset(coords), b.dtype)
		if av != bv {
			return false
		}
	}
	return true
}
