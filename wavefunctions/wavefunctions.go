// Package wavefunctions evaluates Helmholtz solutions in the unit disk:
// circular waves, propagative plane waves and evanescent plane waves.
// Points are given in polar coordinates (r, theta).
package wavefunctions

import (
	"fmt"
	"math"
	"math/cmplx"
)

// CircularWave is b_l(r, theta) = Beta J_l(kappa r) exp(i l theta), with Beta
// normalizing it in the kappa weighted H1 norm of the disk.
type CircularWave struct {
	L     int
	Kappa float64
	Beta  float64
}

func NewCircularWave(l int, kappa float64) (cw CircularWave, err error) {
	var beta float64
	if beta, err = CircularNormalization(l, kappa); err != nil {
		return
	}
	cw = CircularWave{L: l, Kappa: kappa, Beta: beta}
	return
}

func (cw CircularWave) Eval(r, theta float64) complex128 {
	return complex(cw.Beta*math.Jn(cw.L, cw.Kappa*r), 0) *
		cmplx.Exp(complex(0, float64(cw.L)*theta))
}

// CircularNormalization is 1/||J_l(kappa r) e^{i l theta}|| with
//
//	||.||^2 = int_D |grad u|^2 + kappa^2 |u|^2
//	        = 2 pi kappa J_l J_l' + 2 pi kappa^2 (J_l^2 - J_{l-1} J_{l+1}),
//
// Bessel functions evaluated at kappa. It depends on |l| only.
func CircularNormalization(l int, kappa float64) (beta float64, err error) {
	if kappa <= 0 {
		return 0, fmt.Errorf("wavefunctions: wavenumber %g must be positive", kappa)
	}
	if l < 0 {
		l = -l
	}
	var (
		jl     = math.Jn(l, kappa)
		jm, jp = math.Jn(l-1, kappa), math.Jn(l+1, kappa)
		djl    = 0.5 * (jm - jp)
		norm2  = 2*math.Pi*kappa*jl*djl + 2*math.Pi*kappa*kappa*(jl*jl-jm*jp)
	)
	if !(norm2 > 0) {
		return 0, fmt.Errorf("wavefunctions: circular wave %d at wavenumber %g has norm^2 %g",
			l, kappa, norm2)
	}
	return 1 / math.Sqrt(norm2), nil
}

// PropagativeWave is Scale exp(i kappa d.x) / (kappa sqrt(2 pi)) with
// direction d = (cos Theta, sin Theta).
type PropagativeWave struct {
	Kappa float64
	Theta float64
	Scale float64
}

func (pw PropagativeWave) Eval(r, theta float64) complex128 {
	c := pw.Scale / (pw.Kappa * math.Sqrt(2*math.Pi))
	return complex(c, 0) * cmplx.Exp(complex(0, pw.Kappa*r*math.Cos(theta-pw.Theta)))
}

// EvanescentWave is Scale exp(w(Zeta)) exp(i kappa r cos(theta - Phi - i Zeta))
// with the Herglotz weight w. Zeta = 0 is a propagative wave in direction Phi.
type EvanescentWave struct {
	Kappa float64
	Zeta  float64
	Phi   float64
	Scale float64
}

func (ew EvanescentWave) Eval(r, theta float64) complex128 {
	var (
		a      = theta - ew.Phi
		kr     = ew.Kappa * r
		ch, sh = math.Cosh(ew.Zeta), math.Sinh(ew.Zeta)
	)
	// the weight is folded into the exponent so large |Zeta| does not overflow
	return complex(ew.Scale, 0) * cmplx.Exp(complex(
		-ew.Kappa*ch-kr*math.Sin(a)*sh,
		kr*math.Cos(a)*ch,
	))
}

// HerglotzWeight is the log weight w(zeta) = -kappa cosh(zeta) of the
// evanescent plane wave space.
type HerglotzWeight struct {
	Kappa float64
}

func (hw HerglotzWeight) LogWeight(zeta float64) float64 { return -hw.Kappa * math.Cosh(zeta) }
