package quadrature

import (
	"errors"
	"fmt"
	"math"
)

var ErrSupportNotFound = errors.New("quadrature: support not found within step bound")

// Interval is a closed interval containing the origin.
type Interval struct {
	Left, Right float64
}

func (iv Interval) Width() float64 { return iv.Right - iv.Left }

// Symmetric reports whether |Left + Right| <= tol.
func (iv Interval) Symmetric(tol float64) bool { return math.Abs(iv.Left+iv.Right) <= tol }

type SupportConfig struct {
	Step     float64
	MaxSteps int
}

// DefaultSupportConfig steps by 1e-3 and gives up after 1e7 steps per side.
func DefaultSupportConfig() SupportConfig {
	return SupportConfig{
		Step:     1e-3,
		MaxSteps: 10_000_000,
	}
}

func (cfg SupportConfig) withDefaults() SupportConfig {
	def := DefaultSupportConfig()
	if cfg.Step <= 0 {
		cfg.Step = def.Step
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	return cfg
}

// FindSupport walks outward from zero in both directions until |f| <= eps.
// f has to decay on both sides; if either cursor stays above eps for
// MaxSteps steps ErrSupportNotFound is returned along with the cursors
// reached so far.
func FindSupport(f func(float64) float64, eps float64, cfg SupportConfig) (iv Interval, err error) {
	cfg = cfg.withDefaults()
	var steps int
	for steps = 0; math.Abs(f(iv.Left)) > eps; steps++ {
		if steps == cfg.MaxSteps {
			err = fmt.Errorf("%w: left cursor at %g after %d steps", ErrSupportNotFound, iv.Left, steps)
			return
		}
		iv.Left -= cfg.Step
	}
	for steps = 0; math.Abs(f(iv.Right)) > eps; steps++ {
		if steps == cfg.MaxSteps {
			err = fmt.Errorf("%w: right cursor at %g after %d steps", ErrSupportNotFound, iv.Right, steps)
			return
		}
		iv.Right += cfg.Step
	}
	return
}
