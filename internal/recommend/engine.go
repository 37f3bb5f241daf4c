package recommend

import (
	"fmt"
	"strings"

	"github.com/petprogress/perfbench/internal/models"
)

// Affirmation is emitted when no other rule fires.
const Affirmation = "Excellent performance across all benchmarks!"

// Rules holds the cutoffs behind each recommendation. A sample triggers a
// rule when its metric is strictly greater than the cutoff.
type Rules struct {
	SlowDurationMs  float64 `yaml:"slow_duration_ms,omitempty" json:"slow_duration_ms"`
	HighMemoryMB    float64 `yaml:"high_memory_mb,omitempty" json:"high_memory_mb"`
	HighCPUPercent  float64 `yaml:"high_cpu_percent,omitempty" json:"high_cpu_percent"`
	MaxNamedSlowOps int     `yaml:"max_named_slow_ops,omitempty" json:"max_named_slow_ops"`
}

// DefaultRules returns the stock cutoffs.
func DefaultRules() Rules {
	return Rules{
		SlowDurationMs:  100,
		HighMemoryMB:    25,
		HighCPUPercent:  50,
		MaxNamedSlowOps: 3,
	}
}

// Engine derives human-readable recommendations from successful samples.
type Engine struct {
	rules Rules
}

// NewEngine creates a recommendation engine with default rules.
func NewEngine() *Engine {
	return &Engine{rules: DefaultRules()}
}

// NewEngineWithRules creates an engine with custom cutoffs. Zero fields fall
// back to the defaults.
func NewEngineWithRules(r Rules) *Engine {
	d := DefaultRules()
	if r.SlowDurationMs == 0 {
		r.SlowDurationMs = d.SlowDurationMs
	}
	if r.HighMemoryMB == 0 {
		r.HighMemoryMB = d.HighMemoryMB
	}
	if r.HighCPUPercent == 0 {
		r.HighCPUPercent = d.HighCPUPercent
	}
	if r.MaxNamedSlowOps <= 0 {
		r.MaxNamedSlowOps = d.MaxNamedSlowOps
	}
	return &Engine{rules: r}
}

// Rules returns the engine's cutoffs.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Recommend applies every rule, in order, to the successful samples.
// Failed samples in the input are ignored.
func (e *Engine) Recommend(samples []models.Sample) []string {
	var slow []string
	highMem, highCPU := 0, 0

	for _, s := range samples {
		if !s.Success {
			continue
		}
		if s.DurationMs > e.rules.SlowDurationMs {
			slow = append(slow, s.Name)
		}
		if s.MemoryMB > e.rules.HighMemoryMB {
			highMem++
		}
		if s.CPUPercent > e.rules.HighCPUPercent {
			highCPU++
		}
	}

	var recs []string
	if len(slow) > 0 {
		named := slow
		if len(named) > e.rules.MaxNamedSlowOps {
			named = named[:e.rules.MaxNamedSlowOps]
		}
		recs = append(recs, fmt.Sprintf("Consider optimizing %d slow operations: %s",
			len(slow), strings.Join(named, ", ")))
	}
	if highMem > 0 {
		recs = append(recs, fmt.Sprintf("Review memory usage for %d memory-intensive operations", highMem))
	}
	if highCPU > 0 {
		recs = append(recs, fmt.Sprintf("Optimize CPU usage for %d CPU-intensive operations", highCPU))
	}

	if len(recs) == 0 {
		recs = append(recs, Affirmation)
	}
	return recs
}
