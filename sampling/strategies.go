package sampling

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Strategy chooses the uniform variates (u, phi) that a Sampler maps to
// nodes. Weights are 1/sqrt(PDF); callers divide by sqrt(M) themselves.
type Strategy interface {
	Sample(s *Sampler, m int) ([]Node, []float64, error)
}

// Uniform is the midpoint tensor grid of ceil(sqrt(M)) u values by as many
// equispaced angles. It returns ceil(sqrt(M))^2 nodes, at least M.
type Uniform struct{}

func (Uniform) Sample(s *Sampler, m int) (nodes []Node, weights []float64, err error) {
	n := int(math.Ceil(math.Sqrt(float64(m))))
	nodes = make([]Node, 0, n*n)
	for i := 0; i < n; i++ {
		var zeta float64
		if zeta, err = s.Invert((float64(i) + 0.5) / float64(n)); err != nil {
			return nil, nil, err
		}
		for j := 0; j < n; j++ {
			nodes = append(nodes, Node{Zeta: zeta, Phi: 2 * math.Pi * float64(j) / float64(n)})
		}
	}
	return nodes, s.weigh(nodes), nil
}

func (Uniform) String() string { return "uniform" }

// Random draws u ~ U(0,1) and phi ~ U(0,2pi) independently for every node
// from Src. A nil Src uses the global math/rand/v2 source.
type Random struct {
	Src rand.Source
}

// NewRandom seeds a PCG source so that a scenario is reproducible.
func NewRandom(seed uint64) Random {
	return Random{Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

func (r Random) Sample(s *Sampler, m int) (nodes []Node, weights []float64, err error) {
	var (
		ud   = distuv.Uniform{Min: 0, Max: 1, Src: r.Src}
		phid = distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: r.Src}
	)
	nodes = make([]Node, m)
	for i := range nodes {
		u := ud.Rand()
		for u == 0 {
			u = ud.Rand()
		}
		phi := phid.Rand()
		if nodes[i].Zeta, err = s.Invert(u); err != nil {
			return nil, nil, err
		}
		nodes[i].Phi = phi
	}
	return nodes, s.weigh(nodes), nil
}

func (Random) String() string { return "random" }

// QuasiRandom uses the first M points of the 2D Sobol sequence on
// [0,1) x [0,2pi); the first coordinate is inverted, the second is phi.
type QuasiRandom struct{}

func (QuasiRandom) Sample(s *Sampler, m int) (nodes []Node, weights []float64, err error) {
	pts := SobolPoints(m, [2]float64{0, 0}, [2]float64{1, 2 * math.Pi})
	nodes = make([]Node, m)
	for i, p := range pts {
		if nodes[i].Zeta, err = s.Invert(p[0]); err != nil {
			return nil, nil, err
		}
		nodes[i].Phi = p[1]
	}
	return nodes, s.weigh(nodes), nil
}

func (QuasiRandom) String() string { return "sobol" }

// ParseStrategy maps "uniform", "random" and "sobol" (or "quasirandom") to a
// Strategy. The random strategy is seeded with seed.
func ParseStrategy(name string, seed uint64) (st Strategy, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform", "":
		st = Uniform{}
	case "random":
		st = NewRandom(seed)
	case "sobol", "quasirandom", "quasi-random":
		st = QuasiRandom{}
	default:
		err = fmt.Errorf("sampling: unknown strategy %q", name)
	}
	return
}
