// Package statistics estimates whether a change in probe latency between two
// runs is larger than the noise between iterations.
package statistics

import (
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// DefaultConfidenceLevel is used when callers pass a level outside (0, 1).
const DefaultConfidenceLevel = 0.95

// MeanDiffCI computes a bootstrap confidence interval for
// mean(current) - mean(baseline) using the percentile method. Both samples
// are resampled independently. Returns a degenerate interval (Lower = Upper =
// observed difference, NumBootstraps = 0) when either side has fewer than 2
// values.
func MeanDiffCI(baseline, current []float64, confidenceLevel float64) ConfidenceInterval {
	return MeanDiffCIWithSeed(baseline, current, confidenceLevel, -1)
}

// MeanDiffCIWithSeed is like MeanDiffCI but accepts a seed for reproducibility.
// A negative seed uses a non-deterministic source.
func MeanDiffCIWithSeed(baseline, current []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		confidenceLevel = DefaultConfidenceLevel
	}

	observed := mean(current) - mean(baseline)
	nb, nc := len(baseline), len(current)
	if nb < 2 || nc < 2 {
		return ConfidenceInterval{
			Lower:           observed,
			Upper:           observed,
			Mean:            observed,
			ConfidenceLevel: confidenceLevel,
			NumBootstraps:   0,
		}
	}

	var rng *rand.Rand
	if seed >= 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	iters := DefaultBootstrapIterations

	diffs := make([]float64, iters)
	bs := make([]float64, nb)
	cs := make([]float64, nc)
	for i := 0; i < iters; i++ {
		for j := 0; j < nb; j++ {
			bs[j] = baseline[rng.Intn(nb)]
		}
		for j := 0; j < nc; j++ {
			cs[j] = current[rng.Intn(nc)]
		}
		diffs[i] = mean(cs) - mean(bs)
	}

	sort.Float64s(diffs)

	// Percentile method
	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(iters)))
	hiIdx := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hiIdx >= iters {
		hiIdx = iters - 1
	}

	return ConfidenceInterval{
		Lower:           diffs[loIdx],
		Upper:           diffs[hiIdx],
		Mean:            observed,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

// IsSignificant returns true if the confidence interval does not contain zero,
// indicating statistical significance at the given confidence level.
func IsSignificant(ci ConfidenceInterval) bool {
	return ci.Lower > 0 || ci.Upper < 0
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
