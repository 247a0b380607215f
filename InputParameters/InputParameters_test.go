package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/planewaves/dirichlet"
)

var scenarioYAML = `
Title: "Evanescent waves, uniform grid"
Kappa: 1
Target: [0, 0, 0, 0, 1]
Basis: Evanescent
Strategy: uniform
NumBasis: 40
KernelModes: 6
Seed: 3
`

func TestParse(t *testing.T) {
	var sc Scenario
	require.NoError(t, sc.Parse([]byte(scenarioYAML)))
	assert.Equal(t, "Evanescent waves, uniform grid", sc.Title)
	assert.Equal(t, 1., sc.Kappa)
	assert.Equal(t, []float64{0, 0, 0, 0, 1}, sc.Target)
	assert.Equal(t, "evanescent", sc.Basis)
	assert.Equal(t, 40, sc.NumBasis)
	assert.Equal(t, 6, sc.KernelModes)
	assert.Equal(t, uint64(3), sc.Seed)
	// defaults
	assert.Equal(t, 2., sc.Oversampling)
	assert.Equal(t, 1e-8, sc.Regularization)

	p := sc.Problem()
	assert.Equal(t, dirichlet.Evanescent, p.Basis)
	assert.Equal(t, []complex128{0, 0, 0, 0, 1}, p.Target)
	assert.Len(t, p.Modes(), 13)
	sc.Print()
}

func TestParseDefaults(t *testing.T) {
	var sc Scenario
	require.NoError(t, sc.Parse([]byte("Kappa: 2\nTarget: [1]\nTargetImag: [0.5]\nNumBasis: 10\n")))
	assert.Equal(t, "evanescent", sc.Basis)
	assert.Equal(t, "uniform", sc.Strategy)
	assert.Equal(t, []complex128{1 + 0.5i}, sc.Problem().Target)
}

func TestValidate(t *testing.T) {
	for _, bad := range []string{
		"Kappa: 0\nTarget: [1]\nNumBasis: 4\n",
		"Kappa: 1\nTarget: [1, 0]\nNumBasis: 4\n",
		"Kappa: 1\nTarget: [1]\nTargetImag: [1, 2]\nNumBasis: 4\n",
		"Kappa: 1\nTarget: [1]\nNumBasis: 0\n",
		"Kappa: 1\nTarget: [1]\nNumBasis: 4\nBasis: bessel\n",
		"Kappa: 1\nTarget: [1]\nNumBasis: 4\nOversampling: 0.5\n",
		"Kappa: 1\nTarget: [1]\nNumBasis: 4\nRegularization: 2\n",
		"Kappa: [1\n",
	} {
		var sc Scenario
		assert.Error(t, sc.Parse([]byte(bad)), bad)
	}
}
