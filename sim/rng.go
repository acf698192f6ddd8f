package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === RandomStream ===

// RandomStream is the single random source of a run. It is seeded once from
// a SimulationKey and never reseeded, so the sequence of variates depends
// only on the key and on the order of calls.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type RandomStream struct {
	key   SimulationKey
	rng   *rand.Rand
	draws int
}

// NewRandomStream creates a RandomStream seeded from key.
func NewRandomStream(key SimulationKey) *RandomStream {
	return &RandomStream{
		key: key,
		rng: rand.New(rand.NewSource(int64(key))),
	}
}

// NextExponential returns an exponentially-distributed duration with the given mean.
func (rs *RandomStream) NextExponential(mean float64) (float64, error) {
	if mean <= 0 || math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMean, mean)
	}
	rs.draws++
	return rs.rng.ExpFloat64() * mean, nil
}

// Key returns the SimulationKey used to seed this stream.
func (rs *RandomStream) Key() SimulationKey {
	return rs.key
}

// Draws returns the number of variates produced so far.
func (rs *RandomStream) Draws() int {
	return rs.draws
}
