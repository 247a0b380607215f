package sampling

import "math/bits"

const sobolBits = 32

// Sobol2D generates the two dimensional Sobol sequence in Gray code order.
// The first dimension is the van der Corput sequence, the second uses the
// primitive polynomial x+1 with initial direction number m_1 = 1.
// The point at index 0, the origin, is never returned.
type Sobol2D struct {
	index uint32
	x, y  uint32
	v     [2][sobolBits]uint32
}

func NewSobol2D() (s *Sobol2D) {
	s = &Sobol2D{}
	var m uint32 = 1
	for k := 0; k < sobolBits; k++ {
		s.v[0][k] = 1 << (sobolBits - 1 - k)
		if k > 0 {
			m = (m << 1) ^ m
		}
		s.v[1][k] = m << (sobolBits - 1 - k)
	}
	return
}

// Next returns the next point in [0,1)^2. The generator is exhausted after
// 2^32-1 points and panics.
func (s *Sobol2D) Next() (x, y float64) {
	if s.index == 1<<sobolBits-1 {
		panic("sobol: sequence exhausted")
	}
	c := bits.TrailingZeros32(^s.index)
	s.index++
	s.x ^= s.v[0][c]
	s.y ^= s.v[1][c]
	const scale = 1. / (1 << sobolBits)
	return float64(s.x) * scale, float64(s.y) * scale
}

// SobolPoints returns the first m points of the sequence scaled to the box
// [lo[0],hi[0]) x [lo[1],hi[1]).
func SobolPoints(m int, lo, hi [2]float64) (pts [][2]float64) {
	s := NewSobol2D()
	pts = make([][2]float64, m)
	for i := range pts {
		x, y := s.Next()
		pts[i] = [2]float64{
			lo[0] + (hi[0]-lo[0])*x,
			lo[1] + (hi[1]-lo[1])*y,
		}
	}
	return
}
