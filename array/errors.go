package array

import "errors"

// Error categories raised by indexing. Call sites wrap these with detail via
// fmt.Errorf("...: %w", ...), so errors.Is works against the category.
var (
	// ErrInvalidIndex covers malformed index tuples, e.g. more than one
	// ellipsis or an index kind that cannot apply to the array.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrTooManyIndices is raised when the axis-consuming index count
	// exceeds the array's rank.
	ErrTooManyIndices = errors.New("too many indices for array")

	// ErrIndexOutOfBounds is raised for integer indices outside
	// [-extent, extent) and boolean masks with out-of-range True positions.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrShapeMismatch is raised when fancy index components cannot be
	// broadcast together.
	ErrShapeMismatch = errors.New("shape mismatch: indexing arrays could not be broadcast together")

	// ErrBroadcast is raised when an assignment value cannot be broadcast
	// to the indexed destination shape.
	ErrBroadcast = errors.New("could not broadcast input array")

	// ErrInvalidIndexArray is raised for index arrays whose dtype is
	// neither integer nor boolean.
	ErrInvalidIndexArray = errors.New("arrays used as indices must be of integer (or boolean) type")
)
