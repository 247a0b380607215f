package rpinv

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/planewaves/utils"
)

func near(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, 0., cmplx.Abs(want[i]-got[i]), tol, "component %d: want %v got %v", i, want[i], got[i])
	}
}

func TestRoundTrip(t *testing.T) {
	A := utils.NewCDenseRows([][]complex128{
		{2, 1i, 0},
		{-1i, 3, 1},
		{0, 1, 4 + 1i},
	})
	R, err := New(A, DefaultEpsilon)
	require.NoError(t, err)
	assert.Equal(t, 3, R.Rank())
	assert.Len(t, R.Values(), 3)
	assert.Less(t, R.ConditionNumber(), 10.)

	x0 := []complex128{1 + 2i, -1, 0.5i}
	b := utils.CMulVec(A, x0)
	x, err := R.Solve(b)
	require.NoError(t, err)
	near(t, x0, x, 1e-13)
	res, err := R.Residual(x, b)
	require.NoError(t, err)
	assert.Less(t, res, 1e-14)
	{ // mismatched lengths are reported, not panicked on
		_, err = R.Residual(x[:2], b)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		_, err = R.Residual(x, append(append([]complex128{}, b...), 1))
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	}
	{ // zero right hand side gives the absolute residual
		res, err = R.Residual(x0, make([]complex128, 3))
		require.NoError(t, err)
		assert.InDelta(t, cmplxNorm(b), res, 1e-14)
	}

	{ // pure: repeated solves are identical
		x2, err := R.Solve(b)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(x, x2))
	}
	{ // the singular values agree with the real embedding's every other value
		var svd mat.SVD
		require.True(t, svd.Factorize(utils.Embed(A), mat.SVDNone))
		ev := svd.Values(nil)
		want := []float64{ev[1], ev[3], ev[5]}
		assert.Empty(t, cmp.Diff(want, R.Values(), cmpopts.EquateApprox(0, 1e-13)))
	}
}

func TestRankTruncation(t *testing.T) {
	A := utils.NewCDenseRows([][]complex128{
		{1i, 0, 0},
		{0, 0.5, 0},
		{0, 0, 1e-12},
		{0, 0, 0},
	})
	R, err := New(A, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultEpsilon, R.Epsilon())
	assert.Equal(t, 2, R.Rank())
	assert.Less(t, R.Rank(), 3)
	assert.Empty(t, cmp.Diff([]float64{1, 0.5, 1e-12}, R.Values(), cmpopts.EquateApprox(1e-10, 1e-15)))
	// condition number of the raw matrix, not of the truncated one
	assert.InEpsilon(t, 1e12, R.ConditionNumber(), 1e-3)

	x, err := R.Solve([]complex128{1, 1, 1, 0})
	require.NoError(t, err)
	near(t, []complex128{-1i, 2, 0}, x, 1e-13)

	{ // a smaller threshold keeps the small direction
		R, err := New(A, 1e-13)
		require.NoError(t, err)
		assert.Equal(t, 3, R.Rank())
	}
}

func TestUnderdetermined(t *testing.T) {
	// minimum norm solution
	A := utils.NewCDenseRows([][]complex128{
		{1, 0, 0},
		{0, 1i, 0},
	})
	R, err := New(A, DefaultEpsilon)
	require.NoError(t, err)
	r, c := R.Dims()
	assert.Equal(t, [2]int{2, 3}, [2]int{r, c})
	assert.Equal(t, 2, R.Rank())
	x, err := R.Solve([]complex128{1, 2})
	require.NoError(t, err)
	near(t, []complex128{1, -2i, 0}, x, 1e-14)
	// singular: the zero value gives +Inf, rounding at worst a huge ratio
	cond := mustNew(t, utils.NewCDenseRows([][]complex128{{1, 0}, {0, 0}})).ConditionNumber()
	assert.True(t, math.IsInf(cond, 1) || cond > 1e15)
}

func mustNew(t *testing.T, A mat.CMatrix) *RegularizedPseudoInverse {
	t.Helper()
	R, err := New(A, DefaultEpsilon)
	require.NoError(t, err)
	return R
}

func TestErrors(t *testing.T) {
	A := utils.NewCDenseRows([][]complex128{{1, 2}, {3, 4}, {5, 6}})
	R := mustNew(t, A)
	_, err := R.Solve([]complex128{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = New(mat.NewCDense(3, 2, nil), DefaultEpsilon)
	assert.ErrorIs(t, err, ErrFactorization)

	_, err = New(A, 1.5)
	assert.Error(t, err)
	_, err = New(A, -1e-8)
	assert.Error(t, err)
}

func cmplxNorm(v []complex128) float64 {
	var sum float64
	for _, z := range v {
		sum += real(z)*real(z) + imag(z)*imag(z)
	}
	return math.Sqrt(sum)
}
