package quadrature

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/integrate/quad"
)

func TestFindSupport(t *testing.T) {
	const eps = 1e-6
	cfg := DefaultSupportConfig()
	{ // Gaussian, even and strictly decaying away from 0
		f := func(x float64) float64 { return math.Exp(-x * x) }
		iv, err := FindSupport(f, eps, cfg)
		require.NoError(t, err)
		assert.Less(t, iv.Left, 0.)
		assert.Greater(t, iv.Right, 0.)
		assert.True(t, f(iv.Left) <= eps)
		assert.True(t, f(iv.Right) <= eps)
		// one step back towards the origin is still above the threshold
		assert.True(t, f(iv.Left+cfg.Step) > eps)
		assert.True(t, f(iv.Right-cfg.Step) > eps)
		want := math.Sqrt(-math.Log(eps))
		assert.InDelta(t, want, iv.Right, cfg.Step)
		assert.InDelta(t, -want, iv.Left, cfg.Step)
		assert.True(t, iv.Symmetric(1e-12))
	}
	{ // asymmetric decay rates
		f := func(x float64) float64 {
			if x < 0 {
				return math.Exp(2 * x)
			}
			return math.Exp(-x)
		}
		iv, err := FindSupport(f, eps, cfg)
		require.NoError(t, err)
		assert.InDelta(t, math.Log(eps)/2, iv.Left, cfg.Step)
		assert.InDelta(t, -math.Log(eps), iv.Right, cfg.Step)
		assert.False(t, iv.Symmetric(1e-3))
	}
	{ // already below threshold at the origin
		iv, err := FindSupport(func(float64) float64 { return 0 }, eps, cfg)
		require.NoError(t, err)
		assert.Equal(t, Interval{}, iv)
	}
}

func TestFindSupportStepBound(t *testing.T) {
	// a function that never decays must not hang the search
	cfg := SupportConfig{Step: 1e-3, MaxSteps: 1000}
	iv, err := FindSupport(func(float64) float64 { return 1 }, 1e-6, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSupportNotFound))
	assert.InDelta(t, -1., iv.Left, 1e-9)

	// decays on the left only, right side runs into the bound
	f := func(x float64) float64 {
		if x < 0 {
			return math.Exp(100 * x)
		}
		return 1
	}
	iv, err = FindSupport(f, 1e-6, cfg)
	assert.ErrorIs(t, err, ErrSupportNotFound)
	assert.InDelta(t, -0.139, iv.Left, 1e-9)
}

func TestIntegrate(t *testing.T) {
	cfg := DefaultConfig()
	{ // odd function over a symmetric interval
		res := Integrate(func(x float64) float64 { return x }, -1, 1, cfg)
		assert.InDelta(t, 0., res.Value, 1e-15)
		assert.GreaterOrEqual(t, res.RelErr, 0.)
		assert.GreaterOrEqual(t, res.Nodes, cfg.NodesMin)
	}
	{
		res := Integrate(func(x float64) float64 { return x }, 0, 1, cfg)
		assert.InDelta(t, 0.5, res.Value, 1e-15)
		assert.True(t, res.Converged(cfg.Tol))
		assert.Equal(t, cfg.NodesMin+cfg.NodesStep, res.Nodes)
	}
	{
		res := Integrate(math.Exp, -1, 2, cfg)
		assert.InDelta(t, math.Exp(2)-math.Exp(-1), res.Value, 1e-13)
		assert.True(t, res.Converged(cfg.Tol))
	}
	{ // complex integrand: int_0^{2pi} e^{i x} dx = 0, int_0^pi e^{i x} dx = 2i
		f := func(x float64) complex128 { return cmplx.Exp(complex(0, x)) }
		res := Integrate(f, 0, math.Pi, cfg)
		assert.InDelta(t, 0., real(res.Value), 1e-14)
		assert.InDelta(t, 2., imag(res.Value), 1e-14)
	}
	{ // degenerate interval
		res := Integrate(math.Exp, 1, 1, cfg)
		assert.Equal(t, 0., res.Value)
		assert.Equal(t, 0., res.RelErr)
	}
}

func TestIntegrateWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := DefaultConfig()
	cfg.Logger = zap.New(core)
	cfg.NodesMax = 12
	// |x| has a kink, Gauss-Legendre needs far more than 12 nodes
	res := Integrate(math.Abs, -1, 2, cfg)
	assert.Equal(t, 12, res.Nodes)
	assert.InDelta(t, 2.5, res.Value, 5e-2)
	assert.Greater(t, res.RelErr, cfg.Tol)
	assert.Equal(t, 1, logs.FilterMessage("quadrature tolerance not reached").Len())
	assert.Equal(t, 1, logs.FilterMessage("quadrature node cap reached").Len())

	// well behaved integrands stay quiet
	logs.TakeAll()
	cfg.NodesMax = 1000
	Integrate(math.Cos, 0, 1, cfg)
	assert.Equal(t, 0, logs.Len())
}

func TestRelativeError(t *testing.T) {
	assert.Equal(t, 0., RelativeError(0., 0.))
	assert.Equal(t, 0., RelativeError(math.Inf(1), math.Inf(1)))
	assert.True(t, math.IsInf(RelativeError(0., 1e-17), 1))
	assert.InDelta(t, 0.5, RelativeError(2., 1.), 1e-15)
	assert.InDelta(t, 0.5, RelativeError(complex(0, 2), complex(0, 1)), 1e-15)
}

func TestGaussJacobi(t *testing.T) {
	{ // Alpha = Beta = 0 matches gonum's Legendre rule
		for _, n := range []int{1, 2, 5, 16, 40} {
			var (
				xl, wl = make([]float64, n), make([]float64, n)
				xj, wj = make([]float64, n), make([]float64, n)
			)
			quad.Legendre{}.FixedLocations(xl, wl, -1, 1)
			GaussJacobi{}.FixedLocations(xj, wj, -1, 1)
			sortNodes(xl, wl)
			for i := 0; i < n; i++ {
				assert.InDelta(t, xl[i], xj[i], 1e-12)
				assert.InDelta(t, wl[i], wj[i], 1e-12)
			}
		}
	}
	{ // weights integrate the Jacobi weight exactly: int (1-r)(1+r)dr = 4/3
		x, w := GaussJacobiNodes(1, 1, 4)
		require.Len(t, x, 4)
		var sum float64
		for i := range x {
			sum += w[i]
		}
		assert.InDelta(t, 4./3., sum, 1e-13)
	}
	{ // Alpha = Beta = -1/2 is Gauss-Chebyshev: cos((2k-1)pi/2n), weights pi/n
		n := 7
		x, w := GaussJacobiNodes(-0.5, -0.5, n)
		for k := 1; k <= n; k++ {
			assert.InDelta(t, -math.Cos(float64(2*k-1)*math.Pi/float64(2*n)), x[k-1], 1e-13)
			assert.InDelta(t, math.Pi/float64(n), w[k-1], 1e-13)
		}
	}
	{ // a single node sits at the weighted mean
		x, w := GaussJacobiNodes(2, 0, 1)
		assert.InDelta(t, -0.5, x[0], 1e-15)
		assert.InDelta(t, 8./3., w[0], 1e-13)
	}
	assert.Panics(t, func() { GaussJacobiNodes(-1, 0, 3) })
	assert.Panics(t, func() { GaussJacobiNodes(0, 0, 0) })
	{ // as an adaptive rule
		cfg := DefaultConfig()
		cfg.Rule = NewRuleCache(GaussJacobi{})
		res := Integrate(math.Sin, 0, math.Pi, cfg)
		assert.InDelta(t, 2., res.Value, 1e-13)
	}
}

func TestParseRule(t *testing.T) {
	for _, name := range []string{"", "legendre", " Legendre "} {
		rc, err := ParseRule(name)
		require.NoError(t, err)
		assert.Same(t, DefaultRule(), rc)
	}
	gw, err := ParseRule("golub-welsch")
	require.NoError(t, err)
	assert.Equal(t, GaussJacobi{}, gw.Rule())
	again, err := ParseRule("jacobi")
	require.NoError(t, err)
	assert.Same(t, gw, again)
	{ // both rules give the same integrals
		cfg := DefaultConfig()
		cfg.Rule = gw
		got := Integrate(math.Exp, -1, 2, cfg)
		assert.InEpsilon(t, math.Exp(2)-math.Exp(-1), got.Value, 1e-13)
	}
	_, err = ParseRule("simpson")
	assert.Error(t, err)
}

func sortNodes(x, w []float64) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })
	xs, ws := make([]float64, len(x)), make([]float64, len(w))
	for i, k := range idx {
		xs[i], ws[i] = x[k], w[k]
	}
	copy(x, xs)
	copy(w, ws)
}

func TestReference(t *testing.T) {
	rc := NewRuleCache(nil)
	ref := rc.Reference(8)
	assert.Same(t, ref, rc.Reference(8))
	assert.Equal(t, 8, ref.Len())
	x, w := ref.Map(0, 2)
	var sum float64
	for i := range x {
		assert.True(t, x[i] > 0 && x[i] < 2)
		sum += w[i]
	}
	assert.InDelta(t, 2., sum, 1e-14)
	assert.InDelta(t, 8./3., Apply(ref, func(x float64) float64 { return x * x }, 0, 2), 1e-14)
}
