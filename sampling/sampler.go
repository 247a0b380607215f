// Package sampling draws evanescent wave parameters (zeta, phi) from the
// density induced by a truncated kernel by inversion transform sampling.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/notargets/planewaves/kernel"
	"github.com/notargets/planewaves/quadrature"
)

var ErrOutOfRange = errors.New("sampling: value outside (0, 1)")

// Node is an evanescence parameter and angle pair, Phi in [0, 2pi).
type Node struct {
	Zeta, Phi float64
}

type Config struct {
	// SupportEps is the density threshold, relative to the density at the
	// origin, bounding the bracketing interval used by Invert.
	SupportEps float64
	// Thresholds, relative to the density at the origin, whose supports
	// partition the real line into CDF chunks.
	Thresholds  []float64
	SymmetryTol float64
	MassTol     float64
	Support     quadrature.SupportConfig
	Quadrature  quadrature.Config
	Newton      RootConfig
	Brent       RootConfig
	Logger      *zap.Logger
}

func DefaultConfig() Config {
	return Config{
		SupportEps:  1e-12,
		Thresholds:  []float64{1e-12, 1e-9, 1e-6, 1e-3, 1},
		SymmetryTol: 1e-12,
		MassTol:     1e-8,
		Support:     quadrature.DefaultSupportConfig(),
		Quadrature:  quadrature.DefaultConfig(),
		Newton:      RootConfig{Tol: 1e-12, MaxIter: 50},
		Brent:       RootConfig{Tol: 1e-13, MaxIter: 200},
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.SupportEps <= 0 {
		cfg.SupportEps = def.SupportEps
	}
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = def.Thresholds
	}
	if cfg.SymmetryTol <= 0 {
		cfg.SymmetryTol = def.SymmetryTol
	}
	if cfg.MassTol <= 0 {
		cfg.MassTol = def.MassTol
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Quadrature.Rule == nil {
		cfg.Quadrature.Rule = quadrature.DefaultRule()
	}
	if cfg.Quadrature.Logger == nil {
		cfg.Quadrature.Logger = cfg.Logger
	}
	return cfg
}

// chunk is one sub-interval of the CDF partition. The reference rule that
// integrated the whole chunk is kept and reused for partial integrals.
type chunk struct {
	a, b  float64
	below float64 // mass left of a
	mass  float64
	ref   *quadrature.Reference
}

type Sampler struct {
	kernel  *kernel.TruncatedKernel
	cfg     Config
	rho0    float64
	support quadrature.Interval
	chunks  []chunk
	total   float64
}

// NewSampler partitions the line at the supports of the weighted density
// for each threshold and integrates every chunk once.
func NewSampler(tk *kernel.TruncatedKernel, cfg Config) (s *Sampler, err error) {
	cfg = cfg.withDefaults()
	s = &Sampler{
		kernel: tk,
		cfg:    cfg,
	}
	s.rho0 = s.density(0)
	if s.rho0 <= 0 || math.IsInf(s.rho0, 0) || math.IsNaN(s.rho0) {
		return nil, fmt.Errorf("sampling: density at the origin is %g", s.rho0)
	}
	if s.support, err = quadrature.FindSupport(s.density, cfg.SupportEps*s.rho0, cfg.Support); err != nil {
		return nil, fmt.Errorf("sampling: %w", err)
	}
	if !s.support.Symmetric(cfg.SymmetryTol) {
		cfg.Logger.Warn("density support is not symmetric",
			zap.Float64("left", s.support.Left), zap.Float64("right", s.support.Right),
			zap.Float64("tol", cfg.SymmetryTol))
	}
	breaks := []float64{0}
	for _, th := range cfg.Thresholds {
		var iv quadrature.Interval
		if iv, err = quadrature.FindSupport(s.density, th*s.rho0, cfg.Support); err != nil {
			return nil, fmt.Errorf("sampling: threshold %g: %w", th, err)
		}
		breaks = append(breaks, iv.Left, iv.Right)
	}
	sort.Float64s(breaks)
	for i := 1; i < len(breaks); i++ {
		a, b := breaks[i-1], breaks[i]
		if a == b {
			continue
		}
		res := quadrature.Integrate(s.density, a, b, cfg.Quadrature)
		s.chunks = append(s.chunks, chunk{
			a:     a,
			b:     b,
			below: s.total,
			mass:  res.Value,
			ref:   cfg.Quadrature.Rule.Reference(res.Nodes),
		})
		s.total += res.Value
	}
	s.total *= 2 * math.Pi
	if math.Abs(s.total-1) > cfg.MassTol {
		cfg.Logger.Warn("density mass deviates from one",
			zap.Float64("mass", s.total), zap.Float64("tol", cfg.MassTol))
	}
	cfg.Logger.Debug("sampler ready",
		zap.Int("modes", tk.Len()), zap.Int("chunks", len(s.chunks)),
		zap.Float64("left", s.support.Left), zap.Float64("right", s.support.Right),
		zap.Float64("mass", s.total))
	return
}

// density is the weighted density along phi = 0; it does not depend on phi.
func (s *Sampler) density(zeta float64) float64 { return s.kernel.WeightedPDF(zeta, 0) }

func (s *Sampler) Kernel() *kernel.TruncatedKernel { return s.kernel }

// Support is the interval outside of which the weighted density is below
// SupportEps times its value at the origin.
func (s *Sampler) Support() quadrature.Interval { return s.support }

// Mass is the CDF at +infinity, one up to quadrature and truncation error.
func (s *Sampler) Mass() float64 { return s.total }

// Breakpoints returns the chunk boundaries of the CDF partition.
func (s *Sampler) Breakpoints() (x []float64) {
	for _, c := range s.chunks {
		x = append(x, c.a)
	}
	if len(s.chunks) > 0 {
		x = append(x, s.chunks[len(s.chunks)-1].b)
	}
	return
}

// Density is 2*pi times the weighted density, the derivative of CDF.
func (s *Sampler) Density(zeta float64) float64 { return 2 * math.Pi * s.density(zeta) }

// CDF is 2*pi times the integral of the weighted density up to zeta.
func (s *Sampler) CDF(zeta float64) float64 {
	if len(s.chunks) == 0 || zeta <= s.chunks[0].a {
		return 0
	}
	i := sort.Search(len(s.chunks), func(i int) bool { return s.chunks[i].b > zeta })
	if i == len(s.chunks) {
		return s.total
	}
	c := s.chunks[i]
	return 2 * math.Pi * (c.below + quadrature.Apply(c.ref, s.density, c.a, zeta))
}

// Invert returns zeta with CDF(zeta) = u. Newton's method from the origin is
// tried first and Brent's method over the support is the fallback. Values of
// u the support cannot reach are clamped to its bounds.
func (s *Sampler) Invert(u float64) (zeta float64, err error) {
	if !(u > 0 && u < 1) {
		return 0, fmt.Errorf("%w: %g", ErrOutOfRange, u)
	}
	left, right := s.support.Left, s.support.Right
	switch {
	case u <= s.CDF(left):
		return left, nil
	case u >= s.CDF(right):
		return right, nil
	}
	g := func(z float64) float64 { return s.CDF(z) - u }
	nr := Newton(g, s.Density, 0, s.cfg.Newton)
	if nr.Converged && nr.X >= left && nr.X <= right {
		return nr.X, nil
	}
	s.cfg.Logger.Debug("newton inversion failed, bracketing",
		zap.Float64("u", u), zap.String("reason", string(nr.Reason)),
		zap.Int("iterations", nr.Iterations))
	br := Brent(g, left, right, s.cfg.Brent)
	if !br.Converged {
		return br.X, fmt.Errorf("sampling: inverting %g: %s after %d iterations",
			u, br.Reason, br.Iterations)
	}
	return br.X, nil
}

// Weight is the importance weight 1/sqrt(PDF) of a node.
func (s *Sampler) Weight(n Node) float64 {
	return 1 / math.Sqrt(s.kernel.PDF(n.Zeta, n.Phi))
}

// Sample draws m nodes with st and returns them with their weights.
func (s *Sampler) Sample(st Strategy, m int) (nodes []Node, weights []float64, err error) {
	if m <= 0 {
		return nil, nil, fmt.Errorf("sampling: sample count %d must be positive", m)
	}
	return st.Sample(s, m)
}

func (s *Sampler) weigh(nodes []Node) (weights []float64) {
	weights = make([]float64, len(nodes))
	for i, n := range nodes {
		weights[i] = s.Weight(n)
	}
	return
}
