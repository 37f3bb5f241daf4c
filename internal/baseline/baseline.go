// Package baseline compares a suite against a previously saved one and flags
// per-probe regressions.
package baseline

import (
	"math"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/statistics"
	"github.com/petprogress/perfbench/internal/tier"
)

// Status is the verdict for one probe.
type Status string

const (
	StatusRegressed Status = "regressed"
	StatusImproved  Status = "improved"
	StatusUnchanged Status = "unchanged"
	StatusNew       Status = "new"
	StatusMissing   Status = "missing"
)

// DefaultTolerancePercent is the latency change below which a probe counts
// as unchanged.
const DefaultTolerancePercent = 10.0

// Options tunes the comparison.
type Options struct {
	TolerancePercent float64
	ConfidenceLevel  float64

	// Seed makes the bootstrap reproducible. Negative means random.
	Seed int64
}

// DefaultOptions returns the stock comparison options.
func DefaultOptions() Options {
	return Options{
		TolerancePercent: DefaultTolerancePercent,
		ConfidenceLevel:  statistics.DefaultConfidenceLevel,
		Seed:             -1,
	}
}

// ProbeDelta pairs one probe's baseline and current samples with the
// computed change. Positive deltas mean the probe got slower.
type ProbeDelta struct {
	Name              string                         `json:"name"`
	Category          string                         `json:"category,omitempty"`
	Status            Status                         `json:"status"`
	BaselineDuration  float64                        `json:"baseline_duration_ms"`
	CurrentDuration   float64                        `json:"current_duration_ms"`
	DeltaMs           float64                        `json:"delta_ms"`
	DeltaPercent      float64                        `json:"delta_percent"`
	BaselineLabel     string                         `json:"baseline_tier"`
	CurrentLabel      string                         `json:"current_tier"`
	CI                *statistics.ConfidenceInterval `json:"ci,omitempty"`
	Significant       bool                           `json:"significant"`
	BaselineSucceeded bool                           `json:"baseline_success"`
	CurrentSucceeded  bool                           `json:"current_success"`
}

// Comparison is the result of comparing two suites.
type Comparison struct {
	BaselineRunID    string       `json:"baseline_run_id"`
	CurrentRunID     string       `json:"current_run_id"`
	TolerancePercent float64      `json:"tolerance_percent"`
	SuccessRateDelta float64      `json:"success_rate_delta"`
	Regressions      int          `json:"regressions"`
	Improvements     int          `json:"improvements"`
	Deltas           []ProbeDelta `json:"deltas"`
}

// HasRegressions reports whether any probe regressed.
func (c *Comparison) HasRegressions() bool {
	return c.Regressions > 0
}

// Compare matches probes by name. Deltas follow the current suite's order,
// followed by probes that only exist in the baseline.
func Compare(base, current *models.Suite, classifier *tier.Classifier, opts Options) *Comparison {
	if classifier == nil {
		classifier = tier.NewDefault()
	}
	if opts.TolerancePercent < 0 {
		opts.TolerancePercent = 0
	}

	c := &Comparison{
		BaselineRunID:    base.RunID,
		CurrentRunID:     current.RunID,
		TolerancePercent: opts.TolerancePercent,
		SuccessRateDelta: current.Summary.SuccessRate - base.Summary.SuccessRate,
	}

	byName := make(map[string]models.Sample, len(base.Results))
	for _, s := range base.Results {
		byName[s.Name] = s
	}

	seen := make(map[string]bool, len(current.Results))
	for _, cur := range current.Results {
		seen[cur.Name] = true

		b, ok := byName[cur.Name]
		if !ok {
			c.Deltas = append(c.Deltas, ProbeDelta{
				Name:             cur.Name,
				Category:         cur.Category,
				Status:           StatusNew,
				CurrentDuration:  cur.DurationMs,
				CurrentLabel:     classifier.Label(cur),
				CurrentSucceeded: cur.Success,
			})
			continue
		}

		d := compareProbe(b, cur, classifier, opts)
		switch d.Status {
		case StatusRegressed:
			c.Regressions++
		case StatusImproved:
			c.Improvements++
		}
		c.Deltas = append(c.Deltas, d)
	}

	for _, b := range base.Results {
		if seen[b.Name] {
			continue
		}
		c.Deltas = append(c.Deltas, ProbeDelta{
			Name:              b.Name,
			Category:          b.Category,
			Status:            StatusMissing,
			BaselineDuration:  b.DurationMs,
			BaselineLabel:     classifier.Label(b),
			BaselineSucceeded: b.Success,
		})
	}

	return c
}

func compareProbe(b, cur models.Sample, classifier *tier.Classifier, opts Options) ProbeDelta {
	d := ProbeDelta{
		Name:              cur.Name,
		Category:          cur.Category,
		Status:            StatusUnchanged,
		BaselineDuration:  b.DurationMs,
		CurrentDuration:   cur.DurationMs,
		BaselineLabel:     classifier.Label(b),
		CurrentLabel:      classifier.Label(cur),
		BaselineSucceeded: b.Success,
		CurrentSucceeded:  cur.Success,
	}

	switch {
	case b.Success && !cur.Success:
		d.Status = StatusRegressed
		return d
	case !b.Success && cur.Success:
		d.Status = StatusImproved
		return d
	case !b.Success && !cur.Success:
		return d
	}

	d.DeltaMs = cur.DurationMs - b.DurationMs
	if b.DurationMs > 0 {
		d.DeltaPercent = d.DeltaMs / b.DurationMs * 100
	}

	// without raw iterations on both sides every change over tolerance counts
	d.Significant = true
	if len(b.Durations) >= 2 && len(cur.Durations) >= 2 {
		ci := statistics.MeanDiffCIWithSeed(b.Durations, cur.Durations, opts.ConfidenceLevel, opts.Seed)
		d.CI = &ci
		d.Significant = statistics.IsSignificant(ci)
	}

	baseTier := classifier.Classify(b)
	curTier := classifier.Classify(cur)

	overTolerance := math.Abs(d.DeltaPercent) > opts.TolerancePercent
	switch {
	case curTier > baseTier:
		d.Status = StatusRegressed
	case curTier < baseTier:
		d.Status = StatusImproved
	case overTolerance && d.Significant && d.DeltaMs > 0:
		d.Status = StatusRegressed
	case overTolerance && d.Significant && d.DeltaMs < 0:
		d.Status = StatusImproved
	}

	return d
}
