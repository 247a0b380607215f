// Package dirichlet reconstructs a Helmholtz solution in the unit disk from
// samples of its boundary trace, using a set of plane waves as the basis.
package dirichlet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/planewaves/sampling"
	"github.com/notargets/planewaves/utils"
	"github.com/notargets/planewaves/wavefunctions"
)

// Basis is any function on the disk given in polar coordinates.
type Basis interface {
	Eval(r, theta float64) complex128
}

// ApproximationSet is an ordered set of basis functions.
type ApproximationSet []Basis

// PropagativeSet is P propagative waves with directions 2 pi j/P, each
// scaled by 1/sqrt(P).
func PropagativeSet(kappa float64, P int) (set ApproximationSet) {
	set = make(ApproximationSet, P)
	scale := 1 / math.Sqrt(float64(P))
	for j := range set {
		set[j] = wavefunctions.PropagativeWave{
			Kappa: kappa,
			Theta: 2 * math.Pi * float64(j) / float64(P),
			Scale: scale,
		}
	}
	return
}

// EvanescentSet builds one evanescent wave per sampling node, scaled by its
// weight over sqrt(M).
func EvanescentSet(kappa float64, nodes []sampling.Node, weights []float64) (set ApproximationSet, err error) {
	if len(nodes) != len(weights) {
		return nil, fmt.Errorf("dirichlet: %d nodes with %d weights", len(nodes), len(weights))
	}
	set = make(ApproximationSet, len(nodes))
	sqrtM := math.Sqrt(float64(len(nodes)))
	for i, n := range nodes {
		set[i] = wavefunctions.EvanescentWave{
			Kappa: kappa,
			Zeta:  n.Zeta,
			Phi:   n.Phi,
			Scale: weights[i] / sqrtM,
		}
	}
	return
}

// Combine evaluates sum_j coeffs[j] set[j](r, theta).
func (set ApproximationSet) Combine(coeffs []complex128, r, theta float64) (sum complex128) {
	for j, b := range set {
		sum += coeffs[j] * b.Eval(r, theta)
	}
	return
}

// Matrix evaluates the set on the boundary angles thetas, one row per angle.
func (set ApproximationSet) Matrix(thetas []float64) (A *mat.CDense) {
	A = mat.NewCDense(len(thetas), len(set), nil)
	utils.NewPartitionMap(0, len(thetas)).Each(func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j, b := range set {
				A.Set(i, j, b.Eval(1, thetas[i]))
			}
		}
	})
	return
}

// BoundaryPoints returns S equispaced angles 2 pi s/S on the unit circle.
func BoundaryPoints(S int) (thetas []float64) {
	thetas = make([]float64, S)
	for s := range thetas {
		thetas[s] = 2 * math.Pi * float64(s) / float64(S)
	}
	return
}

// Target is a finite combination of circular waves, modes -L..L for 2L+1
// coefficients.
type Target struct {
	Kappa        float64
	Coefficients []complex128
	waves        []wavefunctions.CircularWave
}

func NewTarget(kappa float64, coeffs []complex128) (tg Target, err error) {
	if len(coeffs)%2 != 1 {
		return tg, fmt.Errorf("dirichlet: target needs an odd number of coefficients, have %d", len(coeffs))
	}
	L := len(coeffs) / 2
	tg = Target{
		Kappa:        kappa,
		Coefficients: append([]complex128(nil), coeffs...),
		waves:        make([]wavefunctions.CircularWave, len(coeffs)),
	}
	for i := range coeffs {
		if tg.waves[i], err = wavefunctions.NewCircularWave(i-L, kappa); err != nil {
			return
		}
	}
	return
}

// Modes returns the circular wave indices of the coefficients.
func (tg Target) Modes() (ls []int) {
	for _, w := range tg.waves {
		ls = append(ls, w.L)
	}
	return
}

func (tg Target) Eval(r, theta float64) (sum complex128) {
	for i, w := range tg.waves {
		if tg.Coefficients[i] != 0 {
			sum += tg.Coefficients[i] * w.Eval(r, theta)
		}
	}
	return
}
