package dirichlet

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/notargets/planewaves/sampling"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var edgeMode = []complex128{0, 0, 0, 0, 1}

func scenario(title string, kappa float64, basis BasisKind, strategy string, M int) Problem {
	return Problem{
		Title:    title,
		Kappa:    kappa,
		Target:   edgeMode,
		Basis:    basis,
		Strategy: strategy,
		NumBasis: M,
	}
}

func TestBasics(t *testing.T) {
	assert.Empty(t, cmp.Diff([]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}, BoundaryPoints(4),
		cmpopts.EquateApprox(0, 1e-15)))

	_, err := NewTarget(1, []complex128{0, 1})
	assert.Error(t, err)
	tg, err := NewTarget(1, edgeMode)
	require.NoError(t, err)
	assert.Equal(t, []int{-2, -1, 0, 1, 2}, tg.Modes())

	set := PropagativeSet(2, 8)
	A := set.Matrix(BoundaryPoints(16))
	r, c := A.Dims()
	assert.Equal(t, [2]int{16, 8}, [2]int{r, c})
	assert.Equal(t, set[3].Eval(1, BoundaryPoints(16)[5]), A.At(5, 3))

	_, err = EvanescentSet(1, []sampling.Node{{}}, nil)
	assert.Error(t, err)

	_, err = Solve(Problem{Kappa: 1, Target: edgeMode, Basis: "spherical", NumBasis: 4}, DefaultConfig())
	assert.Error(t, err)
	_, err = Solve(Problem{Kappa: 1, Target: edgeMode, Basis: Propagative}, DefaultConfig())
	assert.Error(t, err)
	_, err = Solve(scenario("bad strategy", 1, Evanescent, "halton", 10), DefaultConfig())
	assert.Error(t, err)
}

func TestKernelModes(t *testing.T) {
	p := Problem{NumBasis: 40}
	assert.Len(t, p.Modes(), 13)
	p.KernelModes = 2
	assert.Equal(t, []int{-2, -1, 0, 1, 2}, p.Modes())
	p = Problem{NumBasis: 3}
	assert.Equal(t, []int{-1, 0, 1}, p.Modes())
}

func TestPropagativeReconstruction(t *testing.T) {
	rp, err := Solve(scenario("A", 2, Propagative, "", 20), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 20, rp.NumBasis)
	assert.Equal(t, 40, rp.Samples)
	assert.Nil(t, rp.Nodes)
	assert.Less(t, rp.Residual, 1e-12)
	assert.Less(t, rp.PointwiseError(0.5, math.Pi/4), 1e-12)
	assert.NotEqual(t, uuid.Nil, rp.RunID)
	assert.Contains(t, rp.String(), "Retained rank")
}

func TestEvanescentReconstruction(t *testing.T) {
	{ // deterministic grid, rounded up to 7x7 nodes
		rp, err := Solve(scenario("B", 1, Evanescent, "uniform", 40), DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 49, rp.NumBasis)
		assert.Len(t, rp.Nodes, 49)
		assert.Equal(t, 98, rp.Samples)
		assert.Less(t, rp.Residual, 1e-8)
		assert.Less(t, rp.PointwiseError(0.5, math.Pi/4), 1e-12)
	}
	{ // Sobol
		rp, err := Solve(scenario("C", 1, Evanescent, "sobol", 40), DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 40, rp.NumBasis)
		assert.Less(t, rp.Residual, 1e-8)
		assert.Less(t, rp.PointwiseError(0.5, math.Pi/4), 1e-12)
	}
}

func TestRandomReconstruction(t *testing.T) {
	var residuals []float64
	for seed := uint64(1); seed <= 5; seed++ {
		p := scenario("D", 1, Evanescent, "random", 40)
		p.Seed = seed
		rp, err := Solve(p, DefaultConfig())
		require.NoError(t, err)
		assert.Less(t, rp.Residual, 1e-7, "seed %d", seed)
		assert.Less(t, rp.PointwiseError(0.5, math.Pi/4), 1e-11, "seed %d", seed)
		residuals = append(residuals, rp.Residual)
	}
	sort.Float64s(residuals)
	assert.Less(t, residuals[len(residuals)/2], 1e-7)
}

func TestSweep(t *testing.T) {
	problems := []Problem{
		scenario("A", 2, Propagative, "", 20),
		scenario("B", 1, Evanescent, "uniform", 40),
		scenario("C", 1, Evanescent, "sobol", 40),
		scenario("A small", 2, Propagative, "", 12),
	}
	reports, err := Sweep(context.Background(), problems, DefaultConfig(), 2)
	require.NoError(t, err)
	require.Len(t, reports, len(problems))
	for i, p := range problems {
		assert.Equal(t, p.Title, reports[i].Title)
		single, err := Solve(p, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, single.NumBasis, reports[i].NumBasis)
		assert.InDelta(t, single.Residual, reports[i].Residual, 1e-15)
		assert.NotEqual(t, single.RunID, reports[i].RunID)
	}
	{ // one failing problem fails the sweep
		bad := append([]Problem{}, problems...)
		bad[2].Target = []complex128{1, 2}
		_, err := Sweep(context.Background(), bad, DefaultConfig(), 0)
		assert.Error(t, err)
	}
	{
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Sweep(ctx, problems, DefaultConfig(), 1)
		assert.ErrorIs(t, err, context.Canceled)
	}
}
