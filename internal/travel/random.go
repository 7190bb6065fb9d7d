package travel

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource yields uniformly distributed floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// lockedSource serialises access to a *rand.Rand, which is not safe for
// concurrent use. Hotels and Flights draw from it on separate goroutines.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a time-seeded source safe for concurrent use.
func NewRandomSource() RandomSource {
	return &lockedSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// SequenceSource replays a fixed list of values, wrapping around at the end.
// Used to get exact field mappings out of the generator.
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequenceSource constructs a SequenceSource over values.
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
