package statistics

import (
	"math"
	"testing"
)

func TestMeanDiffCI_Empty(t *testing.T) {
	ci := MeanDiffCI(nil, nil, 0.95)
	if ci.Mean != 0.0 || ci.Lower != 0.0 || ci.Upper != 0.0 {
		t.Errorf("expected zero CI for empty input, got %+v", ci)
	}
	if ci.NumBootstraps != 0 {
		t.Errorf("expected 0 bootstraps for empty input, got %d", ci.NumBootstraps)
	}
}

func TestMeanDiffCI_TooFewValues(t *testing.T) {
	ci := MeanDiffCI([]float64{10}, []float64{12, 14}, 0.95)
	if ci.Mean != 3 || ci.Lower != 3 || ci.Upper != 3 {
		t.Errorf("expected degenerate CI at the observed difference, got %+v", ci)
	}
	if !IsSignificant(ci) {
		t.Errorf("a degenerate non-zero interval excludes zero")
	}
}

func TestMeanDiffCI_IdenticalValues(t *testing.T) {
	ci := MeanDiffCIWithSeed([]float64{5, 5, 5, 5}, []float64{5, 5, 5}, 0.95, 42)
	if math.Abs(ci.Lower) > 1e-9 || math.Abs(ci.Upper) > 1e-9 {
		t.Errorf("expected CI [0, 0] for identical values, got [%f, %f]", ci.Lower, ci.Upper)
	}
	if IsSignificant(ci) {
		t.Errorf("no change should not be significant")
	}
}

func TestMeanDiffCI_ClearRegression(t *testing.T) {
	baseline := []float64{10.1, 9.9, 10.0, 10.2, 9.8}
	current := []float64{20.3, 19.8, 20.1, 20.0, 19.9}
	ci := MeanDiffCIWithSeed(baseline, current, 0.95, 42)

	if math.Abs(ci.Mean-10.02) > 1e-9 {
		t.Errorf("expected observed difference 10.02, got %f", ci.Mean)
	}
	if ci.Lower <= 0 {
		t.Errorf("lower bound %f should be above zero", ci.Lower)
	}
	if !IsSignificant(ci) {
		t.Errorf("expected significant regression, got %+v", ci)
	}
	if ci.NumBootstraps != DefaultBootstrapIterations {
		t.Errorf("expected %d bootstraps, got %d", DefaultBootstrapIterations, ci.NumBootstraps)
	}
}

func TestMeanDiffCI_Noise(t *testing.T) {
	baseline := []float64{8, 12, 9, 11, 10}
	current := []float64{11, 9, 12, 8, 10.5}
	ci := MeanDiffCIWithSeed(baseline, current, 0.95, 7)

	if ci.Lower > ci.Mean || ci.Upper < ci.Mean {
		t.Errorf("CI [%f, %f] should contain observed difference %f", ci.Lower, ci.Upper, ci.Mean)
	}
	if IsSignificant(ci) {
		t.Errorf("overlapping noisy samples should not be significant: %+v", ci)
	}
}

func TestMeanDiffCI_Deterministic(t *testing.T) {
	b := []float64{1, 2, 3, 4, 5}
	c := []float64{2, 3, 4, 5, 6}
	first := MeanDiffCIWithSeed(b, c, 0.9, 99)
	second := MeanDiffCIWithSeed(b, c, 0.9, 99)
	if first != second {
		t.Errorf("same seed should produce the same interval: %+v vs %+v", first, second)
	}
	if first.ConfidenceLevel != 0.9 {
		t.Errorf("expected confidence level 0.9, got %f", first.ConfidenceLevel)
	}
}

func TestMeanDiffCI_InvalidLevel(t *testing.T) {
	ci := MeanDiffCIWithSeed([]float64{1, 2}, []float64{1, 2}, 1.5, 1)
	if ci.ConfidenceLevel != DefaultConfidenceLevel {
		t.Errorf("expected fallback level %f, got %f", DefaultConfidenceLevel, ci.ConfidenceLevel)
	}
}

func TestIsSignificant(t *testing.T) {
	tests := []struct {
		name string
		ci   ConfidenceInterval
		want bool
	}{
		{"above zero", ConfidenceInterval{Lower: 0.1, Upper: 0.5}, true},
		{"below zero", ConfidenceInterval{Lower: -0.5, Upper: -0.1}, true},
		{"spans zero", ConfidenceInterval{Lower: -0.1, Upper: 0.1}, false},
		{"touches zero", ConfidenceInterval{Lower: 0, Upper: 0.3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSignificant(tt.ci); got != tt.want {
				t.Errorf("IsSignificant(%+v) = %v, want %v", tt.ci, got, tt.want)
			}
		})
	}
}
