package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GaussJacobi is the Gauss quadrature rule for the Jacobi weight
// (1-r)^Alpha (1+r)^Beta, computed with the Golub-Welsch algorithm. With
// Alpha = Beta = 0 it is the Gauss-Legendre rule.
type GaussJacobi struct {
	Alpha, Beta float64
}

// FixedLocations satisfies quad.FixedLocationer. On [min, max] the weights
// absorb the Jacobi weight scaling h^(Alpha+Beta+1), h = (max-min)/2.
func (gj GaussJacobi) FixedLocations(x, weight []float64, min, max float64) {
	if len(x) != len(weight) {
		panic("quadrature: slice length mismatch")
	}
	if len(x) == 0 {
		return
	}
	r, w := GaussJacobiNodes(gj.Alpha, gj.Beta, len(x))
	var (
		h     = 0.5 * (max - min)
		m     = 0.5 * (max + min)
		scale = math.Pow(h, gj.Alpha+gj.Beta+1)
	)
	for i := range x {
		x[i] = m + h*r[i]
		weight[i] = scale * w[i]
	}
}

// GaussJacobiNodes returns the n Gauss nodes, ascending, and weights for the
// Jacobi weight on [-1, 1]. The nodes are the eigenvalues of the symmetric
// tridiagonal Jacobi matrix of the three term recurrence; each weight is mu0
// times the squared first component of its normalized eigenvector.
func GaussJacobiNodes(alpha, beta float64, n int) (x, w []float64) {
	if alpha <= -1 || beta <= -1 {
		panic(fmt.Sprintf("quadrature: Jacobi exponents %g, %g must exceed -1", alpha, beta))
	}
	if n <= 0 {
		panic("quadrature: non-positive number of nodes")
	}
	mu0 := jacobiMass(alpha, beta)
	if n == 1 {
		return []float64{(beta - alpha) / (alpha + beta + 2)}, []float64{mu0}
	}
	// band storage, row i holds J[i][i] and J[i][i+1]
	band := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		band[2*i] = jacobiDiag(alpha, beta, i)
		if i+1 < n {
			band[2*i+1] = jacobiOffDiag(alpha, beta, i+1)
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(mat.NewSymBandDense(n, 1, band), true) {
		panic("quadrature: Jacobi matrix eigendecomposition failed")
	}
	x = eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	w = make([]float64, n)
	for j := range w {
		v := vecs.At(0, j)
		w[j] = mu0 * v * v
	}
	return
}

// jacobiDiag is the recurrence coefficient a_i = (b^2-a^2)/((2i+a+b)(2i+a+b+2)),
// written for i = 0 in the form that stays finite when a+b = 0.
func jacobiDiag(alpha, beta float64, i int) float64 {
	if i == 0 {
		return (beta - alpha) / (alpha + beta + 2)
	}
	s := 2*float64(i) + alpha + beta
	return (beta*beta - alpha*alpha) / (s * (s + 2))
}

// jacobiOffDiag is sqrt(b_i) coupling rows i-1 and i, i >= 1.
func jacobiOffDiag(alpha, beta float64, i int) float64 {
	var (
		k = float64(i)
		s = 2*k + alpha + beta
	)
	if i == 1 {
		// k+a+b and s-1 cancel, which keeps a+b = -1 finite
		return math.Sqrt(4 * (1 + alpha) * (1 + beta) / (s * s * (s + 1)))
	}
	num := 4 * k * (k + alpha) * (k + beta) * (k + alpha + beta)
	return math.Sqrt(num / (s * s * (s + 1) * (s - 1)))
}

// jacobiMass is the integral of the weight, 2^(a+b+1) G(a+1) G(b+1) / G(a+b+2).
func jacobiMass(alpha, beta float64) float64 {
	la, _ := math.Lgamma(alpha + 1)
	lb, _ := math.Lgamma(beta + 1)
	lab, _ := math.Lgamma(alpha + beta + 2)
	return math.Exp((alpha+beta+1)*math.Ln2 + la + lb - lab)
}
