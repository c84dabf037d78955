// Package poly works with polynomials in the power basis. Coefficients are
// ordered from low to high degree: c[0] + c[1]*x + c[2]*x^2 + ...
package poly

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/vugar/ndarray/array"
	"github.com/vugar/ndarray/core"
)

// Val evaluates the polynomial at x by Horner's scheme.
func Val(c []float64, x float64) float64 {
	if len(c) == 0 {
		return 0
	}
	v := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}

// ValSlice evaluates the polynomial at every point of xs.
func ValSlice(c, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = Val(c, x)
	}
	return out
}

// Vander builds the Vandermonde matrix of xs up to the given degree as a
// (len(xs), deg+1) array: row i holds xs[i]^0 .. xs[i]^deg.
func Vander(xs []float64, deg int) (*array.Array, error) {
	if deg < 0 {
		return nil, fmt.Errorf("poly: degree must be non-negative, got %d", deg)
	}
	cols := deg + 1
	data := make([]float64, len(xs)*cols)
	for i, x := range xs {
		p := 1.0
		for j := 0; j < cols; j++ {
			data[i*cols+j] = p
			p *= x
		}
	}
	return array.FromSlice(data, core.Shape{len(xs), cols})
}

// Fit computes the least-squares polynomial of the given degree through the
// points (xs, ys) using a QR factorization of the Vandermonde matrix.
func Fit(xs, ys []float64, deg int) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("poly: got %d x values but %d y values", len(xs), len(ys))
	}
	if len(xs) < deg+1 {
		return nil, fmt.Errorf("poly: need at least %d points for degree %d, got %d",
			deg+1, deg, len(xs))
	}
	v, err := Vander(xs, deg)
	if err != nil {
		return nil, err
	}
	a := mat.NewDense(len(xs), deg+1, v.Float64s())
	b := mat.NewVecDense(len(ys), ys)

	var qr mat.QR
	qr.Factorize(a)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return nil, fmt.Errorf("poly: fit failed: %w", err)
	}
	out := make([]float64, deg+1)
	copy(out, sol.RawVector().Data)
	return out, nil
}

// Der differentiates the polynomial m times.
func Der(c []float64, m int) []float64 {
	out := append([]float64(nil), c...)
	for ; m > 0 && len(out) > 0; m-- {
		if len(out) == 1 {
			return []float64{0}
		}
		next := make([]float64, len(out)-1)
		for i := 1; i < len(out); i++ {
			next[i-1] = float64(i) * out[i]
		}
		out = next
	}
	return out
}

// Roots returns the roots of the polynomial as the eigenvalues of its
// companion matrix. Trailing zero coefficients are trimmed first.
func Roots(c []float64) ([]complex128, error) {
	n := len(c)
	for n > 0 && c[n-1] == 0 {
		n--
	}
	if n < 2 {
		return nil, fmt.Errorf("poly: need at least one non-constant term")
	}
	deg := n - 1
	comp := mat.NewDense(deg, deg, nil)
	for i := 1; i < deg; i++ {
		comp.Set(i, i-1, 1)
	}
	lead := c[n-1]
	for i := 0; i < deg; i++ {
		comp.Set(i, deg-1, -c[i]/lead)
	}
	var eig mat.Eigen
	if ok := eig.Factorize(comp, mat.EigenNone); !ok {
		return nil, fmt.Errorf("poly: eigenvalue iteration did not converge")
	}
	return eig.Values(nil), nil
}
