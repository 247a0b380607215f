// Package rpinv solves ill-conditioned least squares problems through a
// truncated singular value decomposition.
package rpinv

import (
	"errors"
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/planewaves/utils"
)

// DefaultEpsilon is the relative singular value cutoff.
const DefaultEpsilon = 1e-8

var (
	ErrDimensionMismatch = errors.New("rpinv: dimension mismatch")
	ErrFactorization     = errors.New("rpinv: singular value decomposition failed")
)

// RegularizedPseudoInverse holds the truncated factorization
// A ~ U_I Sigma_I V_I^*, kept in the real embedding of A. Each complex
// singular direction is a pair of real columns, so the retained real
// subspaces are 2*Rank wide.
type RegularizedPseudoInverse struct {
	a      *mat.CDense
	eps    float64
	values []float64 // complex singular values, descending
	rank   int
	u, v   *mat.Dense // 2m x 2I, 2n x 2I
	sigmaI *sparse.DIA
	nr, nc int
}

// New factorizes A. The retained rank I is the first index whose singular
// value is at most eps times the largest; when no value falls that low every
// singular value is kept. A zero matrix has nothing to keep and is an error.
func New(A mat.CMatrix, eps float64) (R *RegularizedPseudoInverse, err error) {
	switch {
	case eps == 0:
		eps = DefaultEpsilon
	case eps < 0 || eps >= 1:
		return nil, fmt.Errorf("rpinv: threshold %g outside (0, 1)", eps)
	}
	nr, nc := A.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(utils.Embed(A), mat.SVDFull); !ok {
		return nil, fmt.Errorf("%w: %d x %d matrix", ErrFactorization, nr, nc)
	}
	embedded := svd.Values(nil)
	R = &RegularizedPseudoInverse{
		a:      mat.NewCDense(nr, nc, nil),
		eps:    eps,
		values: make([]float64, len(embedded)/2),
		nr:     nr,
		nc:     nc,
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.a.Set(i, j, A.At(i, j))
		}
	}
	for k := range R.values {
		R.values[k] = embedded[2*k]
	}
	if len(R.values) == 0 || R.values[0] == 0 {
		return nil, fmt.Errorf("%w: matrix has no non-zero singular value", ErrFactorization)
	}
	R.rank = len(R.values)
	for k, s := range R.values {
		if s <= eps*R.values[0] {
			R.rank = k
			break
		}
	}
	var uFull, vFull mat.Dense
	svd.UTo(&uFull)
	svd.VTo(&vFull)
	keep := 2 * R.rank
	R.u = mat.DenseCopyOf(uFull.Slice(0, 2*nr, 0, keep))
	R.v = mat.DenseCopyOf(vFull.Slice(0, 2*nc, 0, keep))
	recips := make([]float64, keep)
	for i := range recips {
		recips[i] = 1 / embedded[i]
	}
	R.sigmaI = sparse.NewDIA(keep, keep, recips)
	return
}

func (R *RegularizedPseudoInverse) Dims() (r, c int) { return R.nr, R.nc }

// Rank is the retained rank I.
func (R *RegularizedPseudoInverse) Rank() int { return R.rank }

func (R *RegularizedPseudoInverse) Epsilon() float64 { return R.eps }

// Values returns all complex singular values in descending order.
func (R *RegularizedPseudoInverse) Values() []float64 {
	out := make([]float64, len(R.values))
	copy(out, R.values)
	return out
}

// ConditionNumber is the ratio of the largest to the smallest raw singular
// value, regardless of truncation. It is +Inf for a singular matrix.
func (R *RegularizedPseudoInverse) ConditionNumber() float64 {
	sMin := R.values[len(R.values)-1]
	if sMin <= 0 {
		return math.Inf(1)
	}
	return R.values[0] / sMin
}

// Matrix returns the factorized matrix.
func (R *RegularizedPseudoInverse) Matrix() mat.CMatrix { return R.a }

// Solve returns V_I Sigma_I^-1 U_I^* b, the truncated least squares solution.
func (R *RegularizedPseudoInverse) Solve(b []complex128) (x []complex128, err error) {
	if len(b) != R.nr {
		return nil, fmt.Errorf("%w: right hand side of length %d for %d rows",
			ErrDimensionMismatch, len(b), R.nr)
	}
	var (
		be          = utils.EmbedVec(b)
		keep        = 2 * R.rank
		proj, coeff = mat.NewVecDense(keep, nil), mat.NewVecDense(keep, nil)
		xe          = mat.NewVecDense(2*R.nc, nil)
	)
	proj.MulVec(R.u.T(), be)
	coeff.MulVec(R.sigmaI, proj)
	xe.MulVec(R.v, coeff)
	x = utils.UnembedVec(xe)
	return
}

// Residual is ||A x - b|| / ||b||, or ||A x|| when b is zero.
func (R *RegularizedPseudoInverse) Residual(x, b []complex128) (res float64, err error) {
	if len(x) != R.nc || len(b) != R.nr {
		return 0, fmt.Errorf("%w: residual of x of length %d and b of length %d for a %d x %d matrix",
			ErrDimensionMismatch, len(x), len(b), R.nr, R.nc)
	}
	ax := utils.CMulVec(R.a, x)
	var num, den float64
	for i := range b {
		d := ax[i] - b[i]
		num += real(d)*real(d) + imag(d)*imag(d)
		den += real(b[i])*real(b[i]) + imag(b[i])*imag(b[i])
	}
	if den == 0 {
		// absolute residual for a zero right hand side
		return math.Sqrt(num), nil
	}
	return math.Sqrt(num / den), nil
}
