// Package overlap decides whether two strided views can address a common
// byte of their buffer. The exact check reduces to a bounded linear
// Diophantine equation solved by depth-first search with 128-bit
// intermediate arithmetic; a work budget caps the effort, and exhausting it
// errs on the side of overlap.
package overlap

import "errors"

// View describes a strided region over a byte buffer: shape in elements,
// strides and offset in bytes.
type View struct {
	Shape    []int
	Strides  []int
	Offset   int
	ItemSize int
}

// Work budgets for MayShareMemory.
const (
	// WorkBounds only compares the byte extents of the two views.
	WorkBounds int64 = 0
	// WorkExact solves the full problem with unbounded effort.
	WorkExact int64 = -1
)

func (v View) numElements() int {
	n := 1
	for _, d := range v.Shape {
		n *= d
	}
	return n
}

// extents returns the half-open byte range [lo, hi) the view touches.
// The view must be non-empty. ok is false when the range does not fit
// the internal width, in which case the range is meaningless.
func (v View) extents() (lo, hi int128, ok bool) {
	lo = to128(int64(v.Offset))
	hi, ok = add128(lo, to128(int64(v.ItemSize)))
	if !ok {
		return lo, hi, false
	}
	for i, d := range v.Shape {
		if d <= 1 {
			continue
		}
		span := mul64x64(int64(v.Strides[i]), int64(d-1))
		if gt128(span, to128(0)) {
			hi, ok = add128(hi, span)
		} else {
			lo, ok = add128(lo, span)
		}
		if !ok {
			return lo, hi, false
		}
	}
	return lo, hi, true
}

// terms appends one Diophantine term per addressable axis, plus a unit term
// spanning the element width. Axes of extent one or stride zero contribute
// no addresses beyond the base.
func (v View) terms(dst []Term) []Term {
	for i, d := range v.Shape {
		if d <= 1 || v.Strides[i] == 0 {
			continue
		}
		a := int64(v.Strides[i])
		if a < 0 {
			a = -a
		}
		dst = append(dst, Term{A: a, UB: int64(d - 1)})
	}
	if v.ItemSize > 1 {
		dst = append(dst, Term{A: 1, UB: int64(v.ItemSize - 1)})
	}
	return dst
}

// MayShareMemory reports whether views a and b can address a common byte.
//
// maxWork selects the effort: WorkBounds compares extents only, WorkExact
// decides exactly, and a positive value bounds the search. A result of true
// with ErrWorkLimit means the budget ran out undecided; true with a nil
// error after WorkExact means a shared address certainly exists. Overflow
// of the internal arithmetic also reports true.
func MayShareMemory(a, b View, maxWork int64) (bool, error) {
	if a.numElements() == 0 || b.numElements() == 0 {
		return false, nil
	}
	loA, hiA, okA := a.extents()
	loB, hiB, okB := b.extents()
	if !okA || !okB {
		return true, nil
	}
	if cmp128(hiA, loB) <= 0 || cmp128(hiB, loA) <= 0 {
		return false, nil
	}
	if maxWork == WorkBounds {
		return true, nil
	}

	// Order the views by start address, then substitute x -> UB-x in the
	// later view's sum. The coefficients survive unchanged; the right-hand
	// side becomes the start difference plus the later view's maximal sum.
	if gt128(loA, loB) {
		a, b = b, a
		loA, loB = loB, loA
	}
	terms := a.terms(nil)
	nA := len(terms)
	terms = b.terms(terms)

	rhs128, ok := sub128(loB, loA)
	if !ok {
		return true, nil
	}
	for _, t := range terms[nA:] {
		rhs128, ok = add128(rhs128, mul64x64(t.A, t.UB))
		if !ok {
			return true, nil
		}
	}
	rhs, ok := rhs128.to64()
	if !ok {
		return true, nil
	}

	found, _, err := Solve(terms, rhs, maxWork)
	switch {
	case err == nil:
		return found, nil
	case errors.Is(err, ErrWorkLimit):
		return true, ErrWorkLimit
	case errors.Is(err, ErrOverflow):
		return true, nil
	default:
		return false, err
	}
}
