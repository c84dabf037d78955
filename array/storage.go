package array

// storage is a memory buffer shared between an owning array and any number
// of views. Numeric and bool dtypes live in data; the object dtype keeps Go
// values by reference in objs (one slot per "byte", itemsize 1).
type storage struct {
	data []byte
	objs []any
}

func newStorage(byteLen int) *storage {
	return &storage{data: make([]byte, byteLen)}
}

func newObjectStorage(n int) *storage {
	return &storage{objs: make([]any, n)}
}

func (s *storage) isObject() bool { return s.objs != nil }

func (s *storage) byteLen() int {
	if s.objs != nil {
		return len(s.objs)
	}
	return len(s.data)
}
