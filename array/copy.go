package array

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"

	"github.com/vugar/ndarray/core"
)

// copySliceToBytes copies a Go slice into a storage buffer byte-for-byte.
func copySliceToBytes[T any](data []T, dst []byte) {
	if len(data) == 0 || len(dst) == 0 {
		return
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	srcLen := len(data) * elemSize
	if srcLen > len(dst) {
		srcLen = len(dst)
	}
	srcBytes := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), srcLen)
	copy(dst, srcBytes)
}

// ---- Scalar load/store ----

// loadFloat reads one element as float64.
func loadFloat(s *storage, off int, dt core.DType) float64 {
	d := s.data
	switch dt {
	case core.Float16:
		return float64(float16.Frombits(*(*uint16)(unsafe.Pointer(&d[off]))).Float32())
	case core.BFloat16:
		return float64(core.BFloat16Value(*(*uint16)(unsafe.Pointer(&d[off]))).Float32())
	case core.Float32:
		return float64(*(*float32)(unsafe.Pointer(&d[off])))
	case core.Float64:
		return *(*float64)(unsafe.Pointer(&d[off]))
	default:
		return float64(loadInt(s, off, dt))
	}
}

// loadInt reads one element as int64.
func loadInt(s *storage, off int, dt core.DType) int64 {
	d := s.data
	switch dt {
	case core.Int8:
		return int64(*(*int8)(unsafe.Pointer(&d[off])))
	case core.Int16:
		return int64(*(*int16)(unsafe.Pointer(&d[off])))
	case core.Int32:
		return int64(*(*int32)(unsafe.Pointer(&d[off])))
	case core.Int64:
		return *(*int64)(unsafe.Pointer(&d[off]))
	case core.Uint8:
		return int64(d[off])
	case core.Bool:
		if d[off] != 0 {
			return 1
		}
		return 0
	default:
		return int64(loadFloat(s, off, dt))
	}
}

// loadAny reads one element as a Go value: float64, int64, bool, or object.
func loadAny(s *storage, off int, dt core.DType) any {
	switch {
	case dt == core.Object:
		return s.objs[off]
	case dt == core.Bool:
		return s.data[off] != 0
	case dt.IsFloat():
		return loadFloat(s, off, dt)
	default:
		return loadInt(s, off, dt)
	}
}

// storeElem writes a float64 value into one element, casting to the dtype.
func storeElem(s *storage, off int, dt core.DType, v float64) {
	d := s.data
	switch dt {
	case core.Float16:
		*(*uint16)(unsafe.Pointer(&d[off])) = float16.Fromfloat32(float32(v)).Bits()
	case core.BFloat16:
		*(*uint16)(unsafe.Pointer(&d[off])) = uint16(core.BFloat16FromFloat32(float32(v)))
	case core.Float32:
		*(*float32)(unsafe.Pointer(&d[off])) = float32(v)
	case core.Float64:
		*(*float64)(unsafe.Pointer(&d[off])) = v
	default:
		storeIntElem(s, off, dt, int64(v))
	}
}

// storeIntElem writes an int64 value into one element, casting to the dtype.
func storeIntElem(s *storage, off int, dt core.DType, v int64) {
	d := s.data
	switch dt {
	case core.Int8:
		*(*int8)(unsafe.Pointer(&d[off])) = int8(v)
	case core.Int16:
		*(*int16)(unsafe.Pointer(&d[off])) = int16(v)
	case core.Int32:
		*(*int32)(unsafe.Pointer(&d[off])) = int32(v)
	case core.Int64:
		*(*int64)(unsafe.Pointer(&d[off])) = v
	case core.Uint8:
		d[off] = byte(v)
	case core.Bool:
		if v != 0 {
			d[off] = 1
		} else {
			d[off] = 0
		}
	default:
		storeElem(s, off, dt, float64(v))
	}
}

// storeAny writes a Go value into one element, casting numerics.
func storeAny(s *storage, off int, dt core.DType, v any) {
	if dt == core.Object {
		s.objs[off] = v
		return
	}
	switch x := v.(type) {
	case bool:
		if x {
			storeIntElem(s, off, dt, 1)
		} else {
			storeIntElem(s, off, dt, 0)
		}
	case int:
		storeIntElem(s, off, dt, int64(x))
	case int64:
		storeIntElem(s, off, dt, x)
	case float32:
		storeElem(s, off, dt, float64(x))
	case float64:
		storeElem(s, off, dt, x)
	default:
		panic(fmt.Sprintf("cannot store %T into %s array", v, dt))
	}
}

// copyElem transfers one element between storages, casting between dtypes.
// Object elements are assigned by reference, never byte-copied.
func copyElem(dst *storage, dstOff int, src *storage, srcOff int, dstDT, srcDT core.DType) {
	switch {
	case dstDT == core.Object && srcDT == core.Object:
		dst.objs[dstOff] = src.objs[srcOff]
	case dstDT == core.Object:
		dst.objs[dstOff] = loadAny(src, srcOff, srcDT)
	case srcDT == core.Object:
		storeAny(dst, dstOff, dstDT, src.objs[srcOff])
	case dstDT == srcDT:
		copy(dst.data[dstOff:dstOff+int(dstDT.Size())], src.data[srcOff:srcOff+int(srcDT.Size())])
	case srcDT.IsFloat():
		storeElem(dst, dstOff, dstDT, loadFloat(src, srcOff, srcDT))
	default:
		storeIntElem(dst, dstOff, dstDT, loadInt(src, srcOff, srcDT))
	}
}

// ---- Strided assignment ----

// stripLeadingOnes drops leading length-1 axes of value down to the target
// rank, the way assignment broadcasting tolerates higher-rank sources.
func stripLeadingOnes(v *Array, rank int) (*Array, error) {
	for len(v.shape) > rank {
		if v.shape[0] != 1 {
			return nil, fmt.Errorf("%w from shape %v", ErrBroadcast, v.shape)
		}
		v = v.view(v.shape[1:].Clone(), v.strides[1:].Clone(), v.offset)
	}
	return v, nil
}

// conform broadcasts value to exactly the destination shape, or fails.
func conform(value *Array, shape core.Shape) (*Array, error) {
	v, err := stripLeadingOnes(value, len(shape))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot assign shape %v into shape %v", ErrBroadcast, value.shape, shape)
	}
	out, err := v.BroadcastTo(shape)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot assign shape %v into shape %v", ErrBroadcast, value.shape, shape)
	}
	return out, nil
}

// assignInto copies src into dst element-wise. Shapes must already match.
// The caller is responsible for alias safety.
func assignInto(dst, src *Array) {
	n := dst.NumElements()
	coords := make([]int, len(dst.shape))
	for i := 0; i < n; i++ {
		core.Unravel(i, dst.shape, coords)
		copyElem(dst.storage, dst.elemOffset(coords), src.storage, src.elemOffset(coords), dst.dtype, src.dtype)
	}
}
