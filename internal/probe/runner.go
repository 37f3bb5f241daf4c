package probe

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/petprogress/perfbench/internal/metrics"
	"github.com/petprogress/perfbench/internal/models"
)

// Runner executes probe bodies and records samples.
type Runner struct {
	iterations int
	sampler    MemorySampler
	now        func() time.Time
}

// RunnerOption is a functional option for configuring a Runner.
type RunnerOption func(*Runner)

// WithIterations overrides the number of iterations per probe. Values below
// one are ignored.
func WithIterations(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.iterations = n
		}
	}
}

// WithSampler sets the memory sampler.
func WithSampler(s MemorySampler) RunnerOption {
	return func(r *Runner) {
		if s != nil {
			r.sampler = s
		}
	}
}

// NewRunner creates a Runner. By default it runs Iterations iterations and
// reads process RSS, falling back to the synthetic sampler.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		iterations: Iterations,
		sampler:    WithFallback(NewProcessSampler()),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Iterations returns the configured iteration count.
func (r *Runner) Iterations() int {
	return r.iterations
}

// Run executes work and returns its sample. Failures are reported in the
// sample, never as a Go error.
func (r *Runner) Run(name string, work Work) models.Sample {
	before, beforeSource, beforeOK := r.readMemory(name)

	durations := make([]float64, 0, r.iterations)
	for i := 0; i < r.iterations; i++ {
		start := r.now()
		if err := invoke(name, i, work); err != nil {
			slog.Debug("probe failed", "probe", name, "iteration", i+1, "error", err)

			var f *Failure
			if errors.As(err, &f) {
				return models.NewFailedSample(name, f.Cause())
			}
			return models.NewFailedSample(name, err.Error())
		}
		elapsed := r.now().Sub(start)
		durations = append(durations, float64(elapsed.Nanoseconds())/1e6)
	}

	after, afterSource, afterOK := r.readMemory(name)

	var (
		memory float64
		source string
	)
	// with only one reading there is no delta to report
	if beforeOK && afterOK {
		memory = math.Max(0, after-before)
		source = afterSource
		if beforeSource != afterSource {
			// a delta across two different samplers is not a measurement
			source = models.MemorySourceSynthetic
		}
	}

	avg := metrics.Mean(durations)
	sample := models.Sample{
		Name:       name,
		DurationMs: avg,
		Durations:  durations,
		MemoryMB:   memory,
		CPUPercent: CPUPercent(avg),
		Success:    true,
		Metadata: &models.SampleMetadata{
			Iterations:    len(durations),
			MinDurationMs: metrics.Min(durations),
			MaxDurationMs: metrics.Max(durations),
			StdDevMs:      metrics.StdDev(durations),
			MemorySource:  source,
		},
	}

	slog.Debug("probe complete",
		"probe", name,
		"duration_ms", sample.DurationMs,
		"memory_mb", sample.MemoryMB,
		"memory_source", source)

	return sample
}

func (r *Runner) readMemory(name string) (float64, string, bool) {
	mb, source, err := r.sampler.Sample()
	if err != nil {
		slog.Debug("memory reading unavailable", "probe", name, "error", err)
		return 0, "", false
	}
	return mb, source, true
}

// CPUPercent approximates CPU usage from the mean iteration duration as
// avg/10, capped at 100. It is not a measurement.
func CPUPercent(avgDurationMs float64) float64 {
	return math.Min(100, avgDurationMs/10)
}
