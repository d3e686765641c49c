package draw

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns the process-global generator. It is safe for
// concurrent use.
func DefaultSource() RandomSource { return globalSource{} }

// seededSource is reproducible. The mutex lets one seeded source back a
// service handling concurrent requests.
type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic source for simulations and tests.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
