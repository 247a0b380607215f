// Package kernel builds the truncated reproducing kernel of the space of
// Herglotz densities and the probability density induced by its diagonal.
package kernel

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/planewaves/quadrature"
)

var (
	ErrNoModes                = errors.New("kernel: empty mode set")
	ErrDivergentNormalization = errors.New("kernel: normalization integral diverges")
	ErrVanishingNormalization = errors.New("kernel: normalization integral vanishes")
)

// LogWeight is the logarithm of the weight function of the density space.
// Working with log w keeps huge and tiny weights representable.
type LogWeight interface {
	LogWeight(zeta float64) float64
}

// LogWeightFunc adapts a plain function to LogWeight.
type LogWeightFunc func(zeta float64) float64

func (f LogWeightFunc) LogWeight(zeta float64) float64 { return f(zeta) }

// Point returns the complex strip point zeta + i*phi.
func Point(zeta, phi float64) complex128 { return complex(zeta, phi) }

// Mode is the normalized Herglotz density a_p(z) = Constant * exp(p*z).
type Mode struct {
	P        int
	Constant float64
}

func (m Mode) logConstant() float64 { return math.Log(m.Constant) }

// Eval returns a_p at the strip point z.
func (m Mode) Eval(z complex128) complex128 {
	p := float64(m.P)
	return cmplx.Exp(complex(m.logConstant()+p*real(z), p*imag(z)))
}

// LogAbs2 is log |a_p|^2 at evanescence zeta; it does not depend on the angle.
func (m Mode) LogAbs2(zeta float64) float64 {
	return 2 * (m.logConstant() + float64(m.P)*zeta)
}

type Config struct {
	SupportEps  float64
	AccuracyTol float64
	Support     quadrature.SupportConfig
	Quadrature  quadrature.Config
	Logger      *zap.Logger
}

// DefaultConfig uses an absolute support threshold of 1e-14 and warns when
// the normalization quadratures report a summed relative error above 1e-8.
func DefaultConfig() Config {
	return Config{
		SupportEps:  1e-14,
		AccuracyTol: 1e-8,
		Support:     quadrature.DefaultSupportConfig(),
		Quadrature:  quadrature.DefaultConfig(),
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.SupportEps <= 0 {
		cfg.SupportEps = def.SupportEps
	}
	if cfg.AccuracyTol <= 0 {
		cfg.AccuracyTol = def.AccuracyTol
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Quadrature.Logger == nil {
		cfg.Quadrature.Logger = cfg.Logger
	}
	return cfg
}

// TruncatedKernel is K(x, y) = sum_p conj(a_p(x)) a_p(y) over a finite mode set.
type TruncatedKernel struct {
	modes  []Mode
	weight LogWeight
}

// NewTruncatedKernel normalizes a_p for every p in modes against the
// weight exp(2 w): 2*pi * int |a_p|^2 exp(2 w) dzeta = 1. Modes are sorted and
// deduplicated.
func NewTruncatedKernel(modes []int, w LogWeight, cfg Config) (tk *TruncatedKernel, err error) {
	cfg = cfg.withDefaults()
	ps := uniqueSorted(modes)
	if len(ps) == 0 {
		return nil, ErrNoModes
	}
	tk = &TruncatedKernel{
		modes:  make([]Mode, len(ps)),
		weight: w,
	}
	for i, p := range ps {
		var c float64
		if c, err = Normalization(p, w, cfg); err != nil {
			return nil, err
		}
		tk.modes[i] = Mode{P: p, Constant: c}
	}
	cfg.Logger.Debug("truncated kernel ready", zap.Ints("modes", ps))
	return
}

// Normalization computes 1/sqrt(2*pi*int exp(2 p zeta + 2 w(zeta)) dzeta),
// integrating the two half supports separately.
func Normalization(p int, w LogWeight, cfg Config) (c float64, err error) {
	cfg = cfg.withDefaults()
	integrand := func(zeta float64) float64 {
		return math.Exp(2*float64(p)*zeta + 2*w.LogWeight(zeta))
	}
	var iv quadrature.Interval
	if iv, err = quadrature.FindSupport(integrand, cfg.SupportEps, cfg.Support); err != nil {
		return 0, fmt.Errorf("kernel: mode %d: %w", p, err)
	}
	var (
		left  = quadrature.Integrate(integrand, iv.Left, 0, cfg.Quadrature)
		right = quadrature.Integrate(integrand, 0, iv.Right, cfg.Quadrature)
	)
	sum := left.Value + right.Value
	switch {
	case math.IsInf(left.Value, 1) && math.IsInf(right.Value, 1):
		return 0, fmt.Errorf("%w: mode %d is not representable", ErrDivergentNormalization, p)
	case math.IsInf(sum, 0) || math.IsNaN(sum):
		return 0, fmt.Errorf("%w: mode %d integrates to %g", ErrDivergentNormalization, p, sum)
	case iv.Width() == 0 || sum <= 0:
		// the integrand is below SupportEps at every point the support walk visited
		return 0, fmt.Errorf("%w: mode %d, support [%g, %g] at threshold %g",
			ErrVanishingNormalization, p, iv.Left, iv.Right, cfg.SupportEps)
	}
	if relErr := left.RelErr + right.RelErr; relErr > cfg.AccuracyTol {
		cfg.Logger.Warn("normalization accuracy below tolerance",
			zap.Int("mode", p), zap.Float64("relErr", relErr),
			zap.Float64("tol", cfg.AccuracyTol))
	}
	c = 1 / math.Sqrt(2*math.Pi*sum)
	return
}

// Modes returns the normalized Herglotz densities in ascending mode order.
func (tk *TruncatedKernel) Modes() []Mode {
	out := make([]Mode, len(tk.modes))
	copy(out, tk.modes)
	return out
}

// Len is the number of modes |P|.
func (tk *TruncatedKernel) Len() int { return len(tk.modes) }

func (tk *TruncatedKernel) Weight() LogWeight { return tk.weight }

// Mode returns the density for mode p.
func (tk *TruncatedKernel) Mode(p int) (m Mode, ok bool) {
	i := sort.Search(len(tk.modes), func(i int) bool { return tk.modes[i].P >= p })
	if i < len(tk.modes) && tk.modes[i].P == p {
		return tk.modes[i], true
	}
	return
}

// K evaluates the kernel at the strip points x and y.
func (tk *TruncatedKernel) K(x, y complex128) (sum complex128) {
	for _, m := range tk.modes {
		sum += cmplx.Conj(m.Eval(x)) * m.Eval(y)
	}
	return
}

// LogDiag is log K(y, y); the diagonal depends on zeta only.
func (tk *TruncatedKernel) LogDiag(zeta float64) float64 {
	terms := make([]float64, len(tk.modes))
	for i, m := range tk.modes {
		terms[i] = m.LogAbs2(zeta)
	}
	return floats.LogSumExp(terms)
}

// Diag is K(y, y) = sum_p |a_p(y)|^2.
func (tk *TruncatedKernel) Diag(zeta, phi float64) float64 {
	return math.Exp(tk.LogDiag(zeta))
}

// PDF is Diag/|P|, a probability density for the weighted measure.
func (tk *TruncatedKernel) PDF(zeta, phi float64) float64 {
	return math.Exp(tk.LogDiag(zeta) - math.Log(float64(len(tk.modes))))
}

// WeightedPDF is PDF*exp(2 w(zeta)), the density with respect to
// dzeta dphi from which evanescence parameters are drawn.
func (tk *TruncatedKernel) WeightedPDF(zeta, phi float64) float64 {
	return math.Exp(tk.LogDiag(zeta) + 2*tk.weight.LogWeight(zeta) - math.Log(float64(len(tk.modes))))
}

func uniqueSorted(modes []int) (ps []int) {
	ps = append(ps, modes...)
	sort.Ints(ps)
	var j int
	for i, p := range ps {
		if i == 0 || p != ps[j-1] {
			ps[j] = p
			j++
		}
	}
	return ps[:j]
}
