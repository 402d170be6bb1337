package port

import (
	"errors"
	"math"
	"testing"
)

func TestMeanFusion(t *testing.T) {
	got := MeanFusion{}.Fuse([]float64{1.0, 0.5, 0.0})
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected mean 0.5, got %v", got)
	}
}

func TestMaxFusion(t *testing.T) {
	got := MaxFusion{}.Fuse([]float64{0.2, 0.9, 0.4})
	if got != 0.9 {
		t.Errorf("Expected max 0.9, got %v", got)
	}
}

func TestWeightedFusion(t *testing.T) {
	w := WeightedFusion{Weights: []float64{3, 1}}
	got := w.Fuse([]float64{1.0, 0.0})
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Expected weighted average 0.75, got %v", got)
	}
}

func TestWeightedFusionFallbackWeight(t *testing.T) {
	// Scores beyond the configured weights count with weight 1.
	w := WeightedFusion{Weights: []float64{1}}
	got := w.Fuse([]float64{1.0, 0.0})
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected 0.5 with fallback weight, got %v", got)
	}
}

func TestFusionRegistry(t *testing.T) {
	reg := NewFusionRegistry(MeanFusion{}, MaxFusion{})

	s, err := reg.Get("mean")
	if err != nil {
		t.Fatalf("Get(mean) failed: %v", err)
	}
	if s.Name() != "mean" {
		t.Errorf("Expected strategy mean, got %s", s.Name())
	}

	if _, err := reg.Get("median"); !errors.Is(err, ErrFusionNotFound) {
		t.Errorf("Expected ErrFusionNotFound, got %v", err)
	}

	if got := len(reg.Available()); got != 2 {
		t.Errorf("Expected 2 registered strategies, got %d", got)
	}
}
