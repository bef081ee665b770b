package markov

import "math/rand/v2"

// RandomSource supplies uniform draws in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type RandomSource interface {
	Float64() float64
}

// pcgIncrement is the fixed second PCG word; only the seed varies.
const pcgIncrement = 0xda3e39cb94b95bdb

// NewSeededSource returns a deterministic RandomSource. Two sources created
// from the same seed produce the same sequence of draws.
func NewSeededSource(seed int64) RandomSource {
	return rand.New(rand.NewPCG(uint64(seed), pcgIncrement))
}

type entropySource struct{}

func (entropySource) Float64() float64 { return rand.Float64() }

// NewEntropySource returns a RandomSource backed by the process-wide,
// randomly seeded generator of math/rand/v2.
func NewEntropySource() RandomSource {
	return entropySource{}
}
