package overlap_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vugar/ndarray/overlap"
)

// bruteForce enumerates all assignments of the bounded problem.
func bruteForce(terms []overlap.Term, b int64) bool {
	var rec func(i int, rem int64) bool
	rec = func(i int, rem int64) bool {
		if i == len(terms) {
			return rem == 0
		}
		for x := int64(0); x <= terms[i].UB; x++ {
			v := rem - x*terms[i].A
			if v < 0 {
				break
			}
			if rec(i+1, v) {
				return true
			}
		}
		return false
	}
	if b < 0 {
		return false
	}
	return rec(0, b)
}

func checkSolution(t *testing.T, terms []overlap.Term, b int64, x []int64) {
	t.Helper()
	require.Len(t, x, len(terms))
	var sum int64
	for i, tm := range terms {
		require.GreaterOrEqual(t, x[i], int64(0))
		require.LessOrEqual(t, x[i], tm.UB)
		sum += tm.A * x[i]
	}
	require.Equal(t, b, sum)
}

func TestSolveBasics(t *testing.T) {
	cases := []struct {
		name  string
		terms []overlap.Term
		b     int64
		want  bool
	}{
		{"empty solvable", nil, 0, true},
		{"empty unsolvable", nil, 3, false},
		{"single exact", []overlap.Term{{A: 3, UB: 5}}, 9, true},
		{"single remainder", []overlap.Term{{A: 3, UB: 5}}, 10, false},
		{"single over bound", []overlap.Term{{A: 3, UB: 2}}, 9, false},
		{"negative rhs", []overlap.Term{{A: 3, UB: 5}}, -3, false},
		{"zero rhs", []overlap.Term{{A: 3, UB: 5}, {A: 7, UB: 5}}, 0, true},
		{"pair coprime", []overlap.Term{{A: 3, UB: 10}, {A: 5, UB: 10}}, 11, true},
		{"pair gcd miss", []overlap.Term{{A: 4, UB: 10}, {A: 6, UB: 10}}, 7, false},
		{"three terms", []overlap.Term{{A: 4, UB: 2}, {A: 6, UB: 2}, {A: 9, UB: 2}}, 19, true},
		{"three terms miss", []overlap.Term{{A: 4, UB: 10}, {A: 6, UB: 10}, {A: 9, UB: 10}}, 7, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, x, err := overlap.Solve(tc.terms, tc.b, overlap.WorkExact)
			require.NoError(t, err)
			assert.Equal(t, tc.want, found)
			if found {
				checkSolution(t, tc.terms, tc.b, x)
			}
		})
	}
}

func TestSolveMergedTermsMapBack(t *testing.T) {
	// Equal coefficients are merged internally; the reported solution must
	// still be indexed like the input terms.
	terms := []overlap.Term{{A: 3, UB: 5}, {A: 3, UB: 5}}
	found, x, err := overlap.Solve(terms, 24, overlap.WorkExact)
	require.NoError(t, err)
	require.True(t, found)
	checkSolution(t, terms, 24, x)
}

func TestSolveInvalidTerm(t *testing.T) {
	_, _, err := overlap.Solve([]overlap.Term{{A: 0, UB: 1}}, 1, overlap.WorkExact)
	require.Error(t, err)
	_, _, err = overlap.Solve([]overlap.Term{{A: 2, UB: -1}}, 1, overlap.WorkExact)
	require.Error(t, err)
}

func TestSolveWorkLimit(t *testing.T) {
	terms := []overlap.Term{{A: 4, UB: 10}, {A: 6, UB: 10}, {A: 9, UB: 10}}

	found, _, err := overlap.Solve(terms, 7, overlap.WorkExact)
	require.NoError(t, err)
	assert.False(t, found)

	// b=19 forces at least one level of recursion, which a budget of one
	// search node cannot afford.
	_, _, err = overlap.Solve(terms, 19, 1)
	require.ErrorIs(t, err, overlap.ErrWorkLimit)
}

func TestSolveNearInt64Limit(t *testing.T) {
	// Intermediate products here exceed 64 bits; the 128-bit arithmetic
	// must carry the search through to the unique solution (1, 1).
	half := int64(math.MaxInt64 / 2)
	terms := []overlap.Term{{A: half, UB: half}, {A: half - 10, UB: half - 10}}
	b := 2*half - 10

	found, x, err := overlap.Solve(terms, b, overlap.WorkExact)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int64{1, 1}, x)
}

func TestSolveAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	for iter := 0; iter < 500; iter++ {
		n := 1 + rng.Intn(3)
		terms := make([]overlap.Term, n)
		var max int64
		for i := range terms {
			terms[i] = overlap.Term{
				A:  1 + int64(rng.Intn(20)),
				UB: int64(rng.Intn(7)),
			}
			max += terms[i].A * terms[i].UB
		}
		b := int64(rng.Intn(int(max)+2)) - 1

		want := bruteForce(terms, b)
		found, x, err := overlap.Solve(terms, b, overlap.WorkExact)
		require.NoError(t, err, "terms %v b %d", terms, b)
		require.Equal(t, want, found, "terms %v b %d", terms, b)
		if found {
			checkSolution(t, terms, b, x)
		}
	}
}

func TestSolveBudgetNeverContradictsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for iter := 0; iter < 200; iter++ {
		terms := []overlap.Term{
			{A: 1 + int64(rng.Intn(30)), UB: int64(rng.Intn(8))},
			{A: 1 + int64(rng.Intn(30)), UB: int64(rng.Intn(8))},
			{A: 1 + int64(rng.Intn(30)), UB: int64(rng.Intn(8))},
		}
		b := int64(rng.Intn(200))
		exact, _, err := overlap.Solve(terms, b, overlap.WorkExact)
		require.NoError(t, err)

		budget, _, err := overlap.Solve(terms, b, 10)
		if err != nil {
			require.ErrorIs(t, err, overlap.ErrWorkLimit)
			continue
		}
		assert.Equal(t, exact, budget, "terms %v b %d", terms, b)
	}
}
