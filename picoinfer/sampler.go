package picoinfer

import (
	"math"
	"math/rand"
	"time"
)

// GreedyThreshold is the temperature below which sampling collapses to
// arg-max. The collapse is explicit rather than an artifact of
// floating-point underflow.
const GreedyThreshold = 1e-4

// Sampler draws next tokens from model logits with temperature scaling.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler seeded from seed, or from the clock when
// seed is 0.
func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample picks one token from logits. Temperatures below GreedyThreshold
// select the arg-max deterministically; otherwise logits are scaled by
// 1/temperature, softmaxed and sampled.
func (s *Sampler) Sample(logits []float32, temperature float64) int {
	if temperature < GreedyThreshold {
		return argMax(logits)
	}

	probs := softmaxWithTemperature(logits, temperature)

	r := s.rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return i
		}
	}
	// Rounding left r above the accumulated mass; fall back to arg-max.
	return argMax(logits)
}

// softmaxWithTemperature scales logits by 1/temperature and normalizes,
// subtracting the max logit for numerical stability.
func softmaxWithTemperature(logits []float32, temperature float64) []float64 {
	probs := make([]float64, len(logits))

	maxLogit := math.Inf(-1)
	for _, v := range logits {
		f := float64(v) / temperature
		if f > maxLogit {
			maxLogit = f
		}
	}

	sum := 0.0
	for i, v := range logits {
		probs[i] = math.Exp(float64(v)/temperature - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func argMax(logits []float32) int {
	maxIdx := 0
	maxVal := float32(math.Inf(-1))
	for i, v := range logits {
		if float32IsNaN(v) {
			continue
		}
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
	}
	return maxIdx
}

func float32IsNaN(v float32) bool {
	return v != v
}
