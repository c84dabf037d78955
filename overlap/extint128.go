package overlap

import "math/bits"

// int128 is a signed 128-bit integer in two's complement. The solver needs
// it for intermediate products of 64-bit strides and extents.
type int128 struct {
	hi int64
	lo uint64
}

func to128(x int64) int128 {
	return int128{hi: x >> 63, lo: uint64(x)}
}

// to64 narrows back to int64, reporting whether the value fits.
func (x int128) to64() (int64, bool) {
	if x.hi != int64(x.lo)>>63 {
		return 0, false
	}
	return int64(x.lo), true
}

func absU64(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

// mul64x64 multiplies two int64 exactly. The result always fits in 128 bits.
func mul64x64(a, b int64) int128 {
	hi, lo := bits.Mul64(absU64(a), absU64(b))
	r := int128{hi: int64(hi), lo: lo}
	if (a < 0) != (b < 0) {
		r = neg128(r)
	}
	return r
}

func neg128(x int128) int128 {
	lo, borrow := bits.Sub64(0, x.lo, 0)
	return int128{hi: -x.hi - int64(borrow), lo: lo}
}

func add128(a, b int128) (int128, bool) {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi := a.hi + b.hi + int64(carry)
	r := int128{hi: hi, lo: lo}
	overflow := (a.hi < 0) == (b.hi < 0) && (hi < 0) != (a.hi < 0)
	return r, !overflow
}

func sub128(a, b int128) (int128, bool) {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	hi := a.hi - b.hi - int64(borrow)
	r := int128{hi: hi, lo: lo}
	overflow := (a.hi < 0) != (b.hi < 0) && (hi < 0) != (a.hi < 0)
	return r, !overflow
}

func cmp128(a, b int128) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	}
	return 0
}

func gt128(a, b int128) bool { return cmp128(a, b) > 0 }

// divmod128 divides x by a positive d, truncating toward zero. The remainder
// carries the sign of x.
func divmod128(x int128, d int64) (int128, int64) {
	neg := x.hi < 0
	ux := x
	if neg {
		ux = neg128(x)
	}
	ud := uint64(d)
	q1 := uint64(ux.hi) / ud
	r1 := uint64(ux.hi) % ud
	q0, r0 := bits.Div64(r1, ux.lo, ud)
	q := int128{hi: int64(q1), lo: q0}
	r := int64(r0)
	if neg {
		q = neg128(q)
		r = -r
	}
	return q, r
}

func floordiv128(x int128, d int64) int128 {
	q, r := divmod128(x, d)
	if r < 0 {
		q, _ = sub128(q, to128(1))
	}
	return q
}

func ceildiv128(x int128, d int64) int128 {
	q, r := divmod128(x, d)
	if r > 0 {
		q, _ = add128(q, to128(1))
	}
	return q
}

func safeAdd64(a, b int64) (int64, bool) {
	r, ok := add128(to128(a), to128(b))
	if !ok {
		return 0, false
	}
	return r.to64()
}

func safeMul64(a, b int64) (int64, bool) {
	return mul64x64(a, b).to64()
}
