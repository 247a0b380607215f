package dirichlet

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notargets/planewaves/kernel"
	"github.com/notargets/planewaves/rpinv"
	"github.com/notargets/planewaves/sampling"
	"github.com/notargets/planewaves/wavefunctions"
)

type Config struct {
	// Oversampling is the number of boundary points per basis function.
	Oversampling   float64
	Regularization float64
	Kernel         kernel.Config
	Sampler        sampling.Config
	Logger         *zap.Logger
}

func DefaultConfig() Config {
	return Config{
		Oversampling:   2,
		Regularization: rpinv.DefaultEpsilon,
		Kernel:         kernel.DefaultConfig(),
		Sampler:        sampling.DefaultConfig(),
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.Oversampling <= 0 {
		cfg.Oversampling = def.Oversampling
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = def.Regularization
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Kernel.Logger == nil {
		cfg.Kernel.Logger = cfg.Logger
	}
	if cfg.Sampler.Logger == nil {
		cfg.Sampler.Logger = cfg.Logger
	}
	return cfg
}

// Report is the outcome of one reconstruction.
type Report struct {
	RunID        uuid.UUID
	Title        string
	NumBasis     int
	Samples      int
	Rank         int
	Condition    float64
	Residual     float64
	Coefficients []complex128
	// Nodes are the sampling nodes of an evanescent set, nil otherwise.
	Nodes []sampling.Node

	set    ApproximationSet
	target Target
}

// Approximation evaluates the reconstructed function.
func (rp *Report) Approximation(r, theta float64) complex128 {
	return rp.set.Combine(rp.Coefficients, r, theta)
}

// PointwiseError is |u(r, theta) - approximation(r, theta)|.
func (rp *Report) PointwiseError(r, theta float64) float64 {
	d := rp.target.Eval(r, theta) - rp.Approximation(r, theta)
	return math.Hypot(real(d), imag(d))
}

func (rp *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q run %s\n", rp.Title, rp.RunID)
	fmt.Fprintf(&b, "[%d] basis functions, [%d] boundary samples\n", rp.NumBasis, rp.Samples)
	fmt.Fprintf(&b, "Retained rank              = %d\n", rp.Rank)
	fmt.Fprintf(&b, "Condition number           = %8.5g\n", rp.Condition)
	fmt.Fprintf(&b, "Relative residual          = %8.5g\n", rp.Residual)
	fmt.Fprintf(&b, "Pointwise error (0.5,pi/4) = %8.5g\n", rp.PointwiseError(0.5, math.Pi/4))
	return b.String()
}

// Reconstruct samples target at Oversampling*len(set) boundary points and
// solves for the coefficients with the regularized pseudo-inverse.
func Reconstruct(target Target, set ApproximationSet, cfg Config) (rp *Report, err error) {
	cfg = cfg.withDefaults()
	if len(set) == 0 {
		return nil, fmt.Errorf("dirichlet: empty approximation set")
	}
	var (
		S      = int(math.Ceil(cfg.Oversampling * float64(len(set))))
		thetas = BoundaryPoints(S)
		A      = set.Matrix(thetas)
		b      = make([]complex128, S)
		R      *rpinv.RegularizedPseudoInverse
	)
	for i, th := range thetas {
		b[i] = target.Eval(1, th)
	}
	if R, err = rpinv.New(A, cfg.Regularization); err != nil {
		return nil, fmt.Errorf("dirichlet: %w", err)
	}
	rp = &Report{
		RunID:     uuid.New(),
		NumBasis:  len(set),
		Samples:   S,
		Rank:      R.Rank(),
		Condition: R.ConditionNumber(),
		set:       set,
		target:    target,
	}
	if rp.Coefficients, err = R.Solve(b); err != nil {
		return nil, fmt.Errorf("dirichlet: %w", err)
	}
	if rp.Residual, err = R.Residual(rp.Coefficients, b); err != nil {
		return nil, fmt.Errorf("dirichlet: %w", err)
	}
	cfg.Logger.Debug("reconstruction done",
		zap.Stringer("run", rp.RunID), zap.Int("basis", rp.NumBasis),
		zap.Int("samples", S), zap.Int("rank", rp.Rank),
		zap.Float64("condition", rp.Condition), zap.Float64("residual", rp.Residual))
	return
}

// BasisKind selects the plane wave family of a Problem.
type BasisKind string

const (
	Propagative BasisKind = "propagative"
	Evanescent  BasisKind = "evanescent"
)

// Problem is one complete reconstruction scenario.
type Problem struct {
	Title    string
	Kappa    float64
	Target   []complex128
	Basis    BasisKind
	Strategy string
	NumBasis int
	// KernelModes is L for the Herglotz modes -L..L of the sampling kernel;
	// zero means NumBasis/6.
	KernelModes    int
	Oversampling   float64
	Regularization float64
	Seed           uint64
}

// Modes returns the kernel mode indices -L..L.
func (p Problem) Modes() (ps []int) {
	L := p.KernelModes
	if L <= 0 {
		L = max(p.NumBasis/6, 1)
	}
	for m := -L; m <= L; m++ {
		ps = append(ps, m)
	}
	return
}

// Sampler builds the kernel and sampler for an evanescent problem.
func (p Problem) Sampler(cfg Config) (s *sampling.Sampler, err error) {
	cfg = cfg.withDefaults()
	var tk *kernel.TruncatedKernel
	if tk, err = kernel.NewTruncatedKernel(p.Modes(), wavefunctions.HerglotzWeight{Kappa: p.Kappa}, cfg.Kernel); err != nil {
		return
	}
	return sampling.NewSampler(tk, cfg.Sampler)
}

// Set builds the approximation set and, for evanescent waves, returns the
// sampling nodes it was built from.
func (p Problem) Set(cfg Config) (set ApproximationSet, nodes []sampling.Node, err error) {
	if p.NumBasis <= 0 {
		return nil, nil, fmt.Errorf("dirichlet: %q: basis size %d must be positive", p.Title, p.NumBasis)
	}
	switch p.Basis {
	case Propagative:
		return PropagativeSet(p.Kappa, p.NumBasis), nil, nil
	case Evanescent, "":
		var (
			s       *sampling.Sampler
			st      sampling.Strategy
			weights []float64
		)
		if s, err = p.Sampler(cfg); err != nil {
			return
		}
		if st, err = sampling.ParseStrategy(p.Strategy, p.Seed); err != nil {
			return
		}
		if nodes, weights, err = s.Sample(st, p.NumBasis); err != nil {
			return
		}
		set, err = EvanescentSet(p.Kappa, nodes, weights)
		return
	default:
		return nil, nil, fmt.Errorf("dirichlet: unknown basis %q", p.Basis)
	}
}

// Solve runs a Problem end to end.
func Solve(p Problem, cfg Config) (rp *Report, err error) {
	if p.Oversampling > 0 {
		cfg.Oversampling = p.Oversampling
	}
	if p.Regularization > 0 {
		cfg.Regularization = p.Regularization
	}
	var (
		target Target
		set    ApproximationSet
		nodes  []sampling.Node
	)
	if target, err = NewTarget(p.Kappa, p.Target); err != nil {
		return
	}
	if set, nodes, err = p.Set(cfg); err != nil {
		return
	}
	if rp, err = Reconstruct(target, set, cfg); err != nil {
		return nil, fmt.Errorf("%q: %w", p.Title, err)
	}
	rp.Title, rp.Nodes = p.Title, nodes
	return
}
