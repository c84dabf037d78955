package overlap

import (
	"errors"
	"fmt"
	"sort"
)

// Term is one bounded variable of the linear Diophantine equation
// sum A_i x_i == b with 0 <= x_i <= UB. Coefficients must be positive.
type Term struct {
	A  int64
	UB int64
}

var (
	// ErrWorkLimit reports that the solver gave up after exhausting its
	// work budget without deciding the problem.
	ErrWorkLimit = errors.New("overlap: exceeded work limit")
	// ErrOverflow reports that an intermediate value escaped 128-bit
	// arithmetic, leaving the problem undecidable.
	ErrOverflow = errors.New("overlap: integer overflow")
)

type solveStatus int

const (
	solveNo solveStatus = iota
	solveYes
	solveTooHard
	solveOverflow
)

// euclid returns gcd(a1, a2) together with Bezout coefficients:
// a1*gamma + a2*epsilon == gcd.
func euclid(a1, a2 int64) (g, gamma, epsilon int64) {
	g1, g2 := a1, a2
	c1, c2 := int64(1), int64(0)
	d1, d2 := int64(0), int64(1)
	for g2 != 0 {
		q := g1 / g2
		g1, g2 = g2, g1-q*g2
		c1, c2 = c2, c1-q*c2
		d1, d2 = d2, d1-q*d2
	}
	return g1, c1, d1
}

// simpTerm tracks which input terms a simplified term absorbed, so a
// solution can be mapped back to the caller's variables.
type simpTerm struct {
	Term
	src []int
}

// simplify sorts terms by descending coefficient, merges equal coefficients,
// drops vacuous terms, and tightens each bound against b. Reports false on
// overflow of a merged bound.
func simplify(terms []Term, b int64) ([]simpTerm, bool) {
	st := make([]simpTerm, 0, len(terms))
	for i, t := range terms {
		if t.UB == 0 {
			continue
		}
		st = append(st, simpTerm{Term: t, src: []int{i}})
	}
	sort.SliceStable(st, func(i, j int) bool { return st[i].A > st[j].A })

	out := st[:0]
	for _, t := range st {
		if n := len(out); n > 0 && out[n-1].A == t.A {
			ub, ok := safeAdd64(out[n-1].UB, t.UB)
			if !ok {
				return nil, false
			}
			out[n-1].UB = ub
			out[n-1].src = append(out[n-1].src, t.src...)
			continue
		}
		out = append(out, t)
	}

	kept := out[:0]
	for _, t := range out {
		if t.A > b {
			continue
		}
		if m := b / t.A; t.UB > m {
			t.UB = m
		}
		kept = append(kept, t)
	}
	return kept, true
}

// precompute folds the terms pairwise with the extended Euclidean algorithm.
// Ep[j].A is gcd(A_0..A_{j+1}); Ep[j].UB bounds the folded variable. The
// last UB is never consulted and stays unset.
func precompute(E []Term, Ep []Term, gamma, epsilon []int64, b int64) bool {
	n := len(E)
	g, gm, ep := euclid(E[0].A, E[1].A)
	Ep[0].A = g
	gamma[0], epsilon[0] = gm, ep
	if n > 2 {
		ub, ok := foldedBound(E[0], E[1], g, b)
		if !ok {
			return false
		}
		Ep[0].UB = ub
	}
	for j := 2; j < n; j++ {
		g, gm, ep = euclid(Ep[j-2].A, E[j].A)
		Ep[j-1].A = g
		gamma[j-1], epsilon[j-1] = gm, ep
		if j < n-1 {
			ub, ok := foldedBound(Ep[j-2], E[j], g, b)
			if !ok {
				return false
			}
			Ep[j-1].UB = ub
		}
	}
	return true
}

func foldedBound(t1, t2 Term, g, b int64) (int64, bool) {
	m1, ok1 := safeMul64(t1.A/g, t1.UB)
	m2, ok2 := safeMul64(t2.A/g, t2.UB)
	if !ok1 || !ok2 {
		return 0, false
	}
	ub, ok := safeAdd64(m1, m2)
	if !ok {
		return 0, false
	}
	if q := b / g; ub > q {
		ub = q
	}
	return ub, true
}

// dfs solves a1*X + A_v*x_v == b at depth v, where X stands for the folded
// variable over terms 0..v-1. The general solution of the two-variable
// problem is X = gamma*c + c1*t, x_v = epsilon*c - c2*t; the t range is
// clipped against both bounds and each candidate recurses with the residual
// right-hand side.
func dfs(v int, E, Ep []Term, gamma, epsilon []int64, b, maxWork int64, x []int64, count *int64) solveStatus {
	*count++
	if maxWork >= 0 && *count > maxWork {
		return solveTooHard
	}

	var a1, u1 int64
	if v == 1 {
		a1, u1 = E[0].A, E[0].UB
	} else {
		a1, u1 = Ep[v-2].A, Ep[v-2].UB
	}
	a2, u2 := E[v].A, E[v].UB
	aGcd := Ep[v-1].A
	gm, ep := gamma[v-1], epsilon[v-1]

	if b%aGcd != 0 {
		return solveNo
	}
	c := b / aGcd
	c1 := a2 / aGcd
	c2 := a1 / aGcd

	x10 := mul64x64(gm, c)
	x20 := mul64x64(ep, c)

	tL := ceildiv128(neg128(x10), c1) // X >= 0
	d1, ok1 := sub128(x20, to128(u2))
	if tL2 := ceildiv128(d1, c2); gt128(tL2, tL) { // x_v <= u2
		tL = tL2
	}
	d2, ok2 := sub128(to128(u1), x10)
	tU := floordiv128(d2, c1) // X <= u1
	if tU2 := floordiv128(x20, c2); gt128(tU, tU2) { // x_v >= 0
		tU = tU2
	}
	if !ok1 || !ok2 {
		return solveOverflow
	}
	if gt128(tL, tU) {
		return solveNo
	}

	tLo, okL := tL.to64()
	tHi, okU := tU.to64()
	if !okL || !okU {
		return solveOverflow
	}

	x10, ok1 = add128(x10, mul64x64(c1, tLo))
	x20, ok2 = sub128(x20, mul64x64(c2, tLo))
	if !ok1 || !ok2 {
		return solveOverflow
	}

	if v == 1 {
		v1, okA := x10.to64()
		v2, okB := x20.to64()
		if !okA || !okB {
			return solveOverflow
		}
		x[0], x[1] = v1, v2
		return solveYes
	}

	for t := tLo; t <= tHi; t++ {
		xv, okV := x20.to64()
		if !okV {
			return solveOverflow
		}
		x[v] = xv
		b2raw, okB := sub128(to128(b), mul64x64(a2, xv))
		if !okB {
			return solveOverflow
		}
		b2, okN := b2raw.to64()
		if !okN {
			return solveOverflow
		}
		if res := dfs(v-1, E, Ep, gamma, epsilon, b2, maxWork, x, count); res != solveNo {
			return res
		}
		x20, okV = sub128(x20, to128(c2))
		if !okV {
			return solveOverflow
		}
	}
	return solveNo
}

// SolveDiophantine is Solve with the coefficients and bounds given as
// parallel slices.
func SolveDiophantine(a, ub []int64, b, maxWork int64) ([]int64, bool, error) {
	if len(a) != len(ub) {
		return nil, false, fmt.Errorf("overlap: got %d coefficients but %d bounds", len(a), len(ub))
	}
	terms := make([]Term, len(a))
	for i := range a {
		terms[i] = Term{A: a[i], UB: ub[i]}
	}
	found, x, err := Solve(terms, b, maxWork)
	return x, found, err
}

// Solve reports whether sum A_i x_i == b has a solution with 0 <= x_i <= UB_i,
// and returns one such assignment, indexed like terms. maxWork bounds the
// number of search nodes; negative means unbounded, zero gives up at once.
func Solve(terms []Term, b int64, maxWork int64) (bool, []int64, error) {
	for _, t := range terms {
		if t.A <= 0 || t.UB < 0 {
			return false, nil, fmt.Errorf("overlap: invalid term A=%d UB=%d", t.A, t.UB)
		}
	}
	if b < 0 {
		return false, nil, nil
	}

	st, ok := simplify(terms, b)
	if !ok {
		return false, nil, ErrOverflow
	}
	n := len(st)
	x := make([]int64, len(terms))

	expand := func(xs []int64) {
		for i, t := range st {
			val := xs[i]
			for _, si := range t.src {
				take := val
				if u := terms[si].UB; take > u {
					take = u
				}
				x[si] = take
				val -= take
			}
		}
	}

	switch n {
	case 0:
		return b == 0, x, nil
	case 1:
		if b%st[0].A == 0 && b/st[0].A <= st[0].UB {
			expand([]int64{b / st[0].A})
			return true, x, nil
		}
		return false, nil, nil
	}

	E := make([]Term, n)
	for i, t := range st {
		E[i] = t.Term
	}
	Ep := make([]Term, n)
	gamma := make([]int64, n)
	epsilon := make([]int64, n)
	if !precompute(E, Ep, gamma, epsilon, b) {
		return false, nil, ErrOverflow
	}

	xs := make([]int64, n)
	var count int64
	switch dfs(n-1, E, Ep, gamma, epsilon, b, maxWork, xs, &count) {
	case solveYes:
		expand(xs)
		return true, x, nil
	case solveNo:
		return false, nil, nil
	case solveTooHard:
		return false, nil, ErrWorkLimit
	default:
		return false, nil, ErrOverflow
	}
}
