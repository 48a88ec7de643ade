package engine

import "math/rand"

// Source is the randomness the simulator consumes. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// NewSeeded returns a generator that replays the same stream for the same seed.
func NewSeeded(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// IterationSeed derives a per-iteration seed so parallel trials never share a stream.
func IterationSeed(base int64, iteration int) int64 {
	// splitmix64 finalizer
	z := uint64(base) + uint64(iteration+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// Sequence replays a fixed list of values in [0,1), wrapping around at the end.
// An empty Sequence always yields 0.
type Sequence struct {
	Values []float64
	pos    int
}

func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

// Intn maps the next value onto [0,n).
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with n <= 0")
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Roll returns min + r*(max-min) for the next draw.
func Roll(src Source, min, max float64) float64 {
	return min + src.Float64()*(max-min)
}

// Chance reports whether the next draw lands under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
