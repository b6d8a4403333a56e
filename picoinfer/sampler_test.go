package picoinfer

import (
	"math"
	"testing"
)

func TestSamplerGreedyCollapse(t *testing.T) {
	s := NewSampler(1)
	logits := []float32{0.1, 5.0, 0.2, 4.9}

	// Below the greedy threshold every draw is the arg-max.
	for i := 0; i < 10; i++ {
		if got := s.Sample(logits, GreedyThreshold/10); got != 1 {
			t.Fatalf("Expected arg-max token 1, got %d", got)
		}
	}
}

func TestSamplerFollowsDominantLogit(t *testing.T) {
	s := NewSampler(42)
	logits := make([]float32, 50)
	logits[17] = 100 // dominates the softmax at temperature 1

	for i := 0; i < 20; i++ {
		if got := s.Sample(logits, 1.0); got != 17 {
			t.Fatalf("Expected dominant token 17, got %d", got)
		}
	}
}

func TestSamplerHighTemperatureSpreads(t *testing.T) {
	s := NewSampler(7)
	logits := []float32{1, 0.9, 0.8, 0.7}

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		seen[s.Sample(logits, 10.0)] = true
	}
	if len(seen) < 2 {
		t.Errorf("Expected a flat distribution to hit multiple tokens, got %v", seen)
	}
}

func TestSamplerDeterministicWithSeed(t *testing.T) {
	logits := []float32{1, 2, 3, 2, 1}

	a := NewSampler(99)
	b := NewSampler(99)
	for i := 0; i < 50; i++ {
		if x, y := a.Sample(logits, 0.8), b.Sample(logits, 0.8); x != y {
			t.Fatalf("Same seed diverged at draw %d: %d vs %d", i, x, y)
		}
	}
}

func TestSoftmaxWithTemperature(t *testing.T) {
	logits := []float32{1, 2, 3}
	probs := softmaxWithTemperature(logits, 1.0)

	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Expected probabilities to sum to 1, got %g", sum)
	}
	if !(probs[2] > probs[1] && probs[1] > probs[0]) {
		t.Errorf("Expected monotone probabilities, got %v", probs)
	}

	// Higher temperature flattens the distribution.
	flat := softmaxWithTemperature(logits, 100.0)
	if flat[2]-flat[0] >= probs[2]-probs[0] {
		t.Errorf("Expected temperature 100 to flatten: %v vs %v", flat, probs)
	}
}
