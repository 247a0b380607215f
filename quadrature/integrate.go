package quadrature

import (
	"math"
	"math/cmplx"

	"go.uber.org/zap"
)

// Scalar is the set of integrand value types.
type Scalar interface {
	float64 | complex128
}

// Result of an adaptive integration. RelErr is the relative change between
// the last two estimates and Nodes the node count of the last estimate.
type Result[T Scalar] struct {
	Value  T
	RelErr float64
	Nodes  int
}

// Converged reports whether the estimate met tol.
func (r Result[T]) Converged(tol float64) bool { return r.RelErr <= tol }

type Config struct {
	Rule      *RuleCache
	Tol       float64
	NodesMin  int
	NodesStep int
	NodesMax  int
	Logger    *zap.Logger
}

// DefaultConfig is Gauss-Legendre, tol 1e-12, 10 to 1000 nodes in unit steps.
func DefaultConfig() Config {
	return Config{
		Rule:      DefaultRule(),
		Tol:       1e-12,
		NodesMin:  10,
		NodesStep: 1,
		NodesMax:  1000,
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.Rule == nil {
		cfg.Rule = def.Rule
	}
	if cfg.Tol <= 0 {
		cfg.Tol = def.Tol
	}
	if cfg.NodesMin <= 0 {
		cfg.NodesMin = def.NodesMin
	}
	if cfg.NodesStep <= 0 {
		cfg.NodesStep = def.NodesStep
	}
	if cfg.NodesMax <= 0 {
		cfg.NodesMax = def.NodesMax
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// Apply evaluates the reference rule mapped onto [a, b].
func Apply[T Scalar](ref *Reference, f func(float64) T, a, b float64) (sum T) {
	var (
		h = 0.5 * (b - a)
		m = 0.5 * (a + b)
	)
	for i, r := range ref.X {
		sum += scale(f(m+h*r), ref.W[i])
	}
	return scale(sum, h)
}

// Integrate estimates the integral of f over [a, b] by raising the node count
// of cfg.Rule from NodesMin in NodesStep increments until two successive
// estimates agree to cfg.Tol or NodesMax is reached. The last estimate is
// returned either way; failing to converge is logged as a warning.
func Integrate[T Scalar](f func(float64) T, a, b float64, cfg Config) (res Result[T]) {
	cfg = cfg.withDefaults()
	n := min(cfg.NodesMin, cfg.NodesMax)
	res = Result[T]{
		Value:  Apply(cfg.Rule.Reference(n), f, a, b),
		RelErr: math.Inf(1),
		Nodes:  n,
	}
	if a == b {
		res.RelErr = 0
		return
	}
	for res.Nodes < cfg.NodesMax {
		n = min(res.Nodes+cfg.NodesStep, cfg.NodesMax)
		old := res.Value
		res.Value = Apply(cfg.Rule.Reference(n), f, a, b)
		res.Nodes = n
		res.RelErr = RelativeError(res.Value, old)
		if res.RelErr <= cfg.Tol {
			break
		}
	}
	if res.RelErr > cfg.Tol {
		cfg.Logger.Warn("quadrature tolerance not reached",
			zap.Float64("a", a), zap.Float64("b", b),
			zap.Float64("relErr", res.RelErr), zap.Float64("tol", cfg.Tol),
			zap.Int("nodes", res.Nodes))
	}
	if res.Nodes >= cfg.NodesMax {
		cfg.Logger.Warn("quadrature node cap reached",
			zap.Float64("a", a), zap.Float64("b", b),
			zap.Int("nodesMax", cfg.NodesMax), zap.Float64("relErr", res.RelErr))
	}
	return
}

// RelativeError is |cur-old|/|cur|. Identical estimates (including two
// zeros or two equal infinities) have zero error; a zero estimate following
// a non-zero one has infinite error.
func RelativeError[T Scalar](cur, old T) float64 {
	if cur == old {
		return 0
	}
	den := magnitude(cur)
	if den == 0 {
		return math.Inf(1)
	}
	return magnitude(cur-old) / den
}

func magnitude[T Scalar](v T) float64 {
	switch z := any(v).(type) {
	case float64:
		return math.Abs(z)
	case complex128:
		return cmplx.Abs(z)
	}
	panic("unreachable")
}

func scale[T Scalar](v T, s float64) T {
	switch z := any(v).(type) {
	case float64:
		return any(z * s).(T)
	case complex128:
		return any(z * complex(s, 0)).(T)
	}
	panic("unreachable")
}
