// Package summary derives a suite Summary from its finished samples.
package summary

import (
	"github.com/petprogress/perfbench/internal/metrics"
	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/recommend"
	"github.com/petprogress/perfbench/internal/tier"
)

// Builder computes summaries. It holds no per-run state, so Build is safe to
// call repeatedly on the same samples.
type Builder struct {
	classifier *tier.Classifier
	engine     *recommend.Engine
}

// NewBuilder creates a Builder. Nil arguments are replaced with the default
// classifier and recommendation engine.
func NewBuilder(classifier *tier.Classifier, engine *recommend.Engine) *Builder {
	if classifier == nil {
		classifier = tier.NewDefault()
	}
	if engine == nil {
		engine = recommend.NewEngine()
	}
	return &Builder{classifier: classifier, engine: engine}
}

// Classifier returns the classifier used for tier counts.
func (b *Builder) Classifier() *tier.Classifier {
	return b.classifier
}

// Build summarizes samples. Aggregates only consider successful samples,
// while the success rate uses every sample in the denominator.
func (b *Builder) Build(samples []models.Sample, totalDurationMs float64) models.Summary {
	ok := models.SuccessfulSamples(samples)

	s := models.Summary{
		TotalTests:      len(samples),
		Successful:      len(ok),
		Failed:          len(samples) - len(ok),
		TotalDurationMs: totalDurationMs,
	}
	if len(ok) == 0 {
		return s
	}

	s.SuccessRate = float64(len(ok)) / float64(len(samples)) * 100

	durations := make([]float64, len(ok))
	memory := make([]float64, len(ok))
	cpu := make([]float64, len(ok))
	for i, sample := range ok {
		durations[i] = sample.DurationMs
		memory[i] = sample.MemoryMB
		cpu[i] = sample.CPUPercent
		s.Categories.Add(b.classifier.Classify(sample))
	}

	s.Performance = &models.PerformanceStats{
		AvgDurationMs: metrics.Mean(durations),
		MinDurationMs: metrics.Min(durations),
		MaxDurationMs: metrics.Max(durations),
		P95DurationMs: metrics.Percentile(durations, 95),
		P99DurationMs: metrics.Percentile(durations, 99),
	}
	s.Memory = &models.MemoryStats{
		AvgMemoryMB:   metrics.Mean(memory),
		MaxMemoryMB:   metrics.Max(memory),
		TotalMemoryMB: metrics.Sum(memory),
	}
	s.CPU = &models.CPUStats{
		AvgCPUPercent: metrics.Mean(cpu),
		MaxCPUPercent: metrics.Max(cpu),
	}
	s.Recommendations = b.engine.Recommend(ok)

	return s
}
