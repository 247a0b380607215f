package sampling

import (
	"math"
)

// Reason tags why a root finder stopped without converging.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNonFinite      Reason = "non-finite iterate"
	ReasonZeroDerivative Reason = "zero derivative"
	ReasonMaxIterations  Reason = "iteration limit reached"
	ReasonNotBracketed   Reason = "root not bracketed"
)

// RootResult is the outcome of a root search. When Converged is false X is
// the last iterate and Reason says what went wrong.
type RootResult struct {
	X          float64
	Converged  bool
	Iterations int
	Reason     Reason
}

type RootConfig struct {
	Tol     float64
	MaxIter int
}

func (cfg RootConfig) withDefaults() RootConfig {
	if cfg.Tol <= 0 {
		cfg.Tol = 1e-12
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 100
	}
	return cfg
}

// Newton iterates x -= f(x)/df(x) from x0 until the step is below
// Tol*(1+|x|). It does not recover from a bad step; the caller is expected
// to fall back on a bracketing method.
func Newton(f, df func(float64) float64, x0 float64, cfg RootConfig) (res RootResult) {
	cfg = cfg.withDefaults()
	res.X = x0
	for res.Iterations = 0; res.Iterations < cfg.MaxIter; res.Iterations++ {
		fx := f(res.X)
		if fx == 0 {
			res.Converged = true
			return
		}
		d := df(res.X)
		switch {
		case math.IsNaN(fx) || math.IsInf(fx, 0) || math.IsNaN(d) || math.IsInf(d, 0):
			res.Reason = ReasonNonFinite
			return
		case d == 0:
			res.Reason = ReasonZeroDerivative
			return
		}
		step := fx / d
		res.X -= step
		if math.IsNaN(res.X) || math.IsInf(res.X, 0) {
			res.Reason = ReasonNonFinite
			return
		}
		if math.Abs(step) <= cfg.Tol*(1+math.Abs(res.X)) {
			res.Iterations++
			res.Converged = true
			return
		}
	}
	res.Reason = ReasonMaxIterations
	return
}

// Brent finds a root of f in [a, b] by inverse quadratic interpolation,
// secant steps and bisection. f(a) and f(b) must differ in sign.
func Brent(f func(float64) float64, a, b float64, cfg RootConfig) (res RootResult) {
	const eps = 2.220446049250313e-16
	cfg = cfg.withDefaults()
	fa, fb := f(a), f(b)
	switch {
	case fa == 0:
		return RootResult{X: a, Converged: true}
	case fb == 0:
		return RootResult{X: b, Converged: true}
	case fa*fb > 0:
		return RootResult{X: b, Reason: ReasonNotBracketed}
	}
	c, fc := b, fb
	var d, e float64
	for res.Iterations = 1; res.Iterations <= cfg.MaxIter; res.Iterations++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*eps*math.Abs(b) + 0.5*cfg.Tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			res.X, res.Converged = b, true
			return
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			var p, q float64
			s := fb / fa
			if a == c {
				// secant
				p = 2 * xm * s
				q = 1 - s
			} else {
				// inverse quadratic
				qq, r := fa/fc, fb/fc
				p = s * (2*xm*qq*(qq-r) - (b-a)*(r-1))
				q = (qq - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e, d = d, p/q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}
	res.X, res.Reason = b, ReasonMaxIterations
	res.Iterations = cfg.MaxIter
	return
}
