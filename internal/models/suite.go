package models

import "time"

// Suite is an ordered collection of samples from one benchmark run plus the
// run metadata and the summary derived from the samples.
type Suite struct {
	RunID           string    `json:"run_id"`
	Name            string    `json:"name"`
	Timestamp       time.Time `json:"timestamp"`
	Device          string    `json:"device"`
	OSVersion       string    `json:"os_version"`
	TotalDurationMs float64   `json:"total_duration_ms"`
	Results         []Sample  `json:"results"`
	Summary         Summary   `json:"summary"`
}

// Summary aggregates a suite's samples. The stats blocks are nil when the
// suite has no successful samples.
type Summary struct {
	TotalTests      int     `json:"total_tests"`
	Successful      int     `json:"successful"`
	Failed          int     `json:"failed"`
	SuccessRate     float64 `json:"success_rate"`
	TotalDurationMs float64 `json:"total_duration_ms"`

	Performance *PerformanceStats `json:"performance_stats,omitempty"`
	Memory      *MemoryStats      `json:"memory_stats,omitempty"`
	CPU         *CPUStats         `json:"cpu_stats,omitempty"`

	Categories      TierCounts `json:"performance_categories"`
	Recommendations []string   `json:"recommendations,omitempty"`
}

// PerformanceStats summarizes the durations of successful samples.
type PerformanceStats struct {
	AvgDurationMs float64 `json:"avg_duration_ms"`
	MinDurationMs float64 `json:"min_duration_ms"`
	MaxDurationMs float64 `json:"max_duration_ms"`
	P95DurationMs float64 `json:"p95_duration_ms"`
	P99DurationMs float64 `json:"p99_duration_ms"`
}

// MemoryStats summarizes the memory deltas of successful samples.
type MemoryStats struct {
	AvgMemoryMB   float64 `json:"avg_memory_mb"`
	MaxMemoryMB   float64 `json:"max_memory_mb"`
	TotalMemoryMB float64 `json:"total_memory_mb"`
}

// CPUStats summarizes the CPU approximations of successful samples.
type CPUStats struct {
	AvgCPUPercent float64 `json:"avg_cpu_percent"`
	MaxCPUPercent float64 `json:"max_cpu_percent"`
}

// TierCounts counts successful samples per tier. Field order matches tier
// order so JSON output stays best-to-worst.
type TierCounts struct {
	Excellent  int `json:"excellent"`
	Good       int `json:"good"`
	Acceptable int `json:"acceptable"`
	Poor       int `json:"poor"`
}

// Add increments the counter for t.
func (c *TierCounts) Add(t Tier) {
	switch t {
	case TierExcellent:
		c.Excellent++
	case TierGood:
		c.Good++
	case TierAcceptable:
		c.Acceptable++
	case TierPoor:
		c.Poor++
	}
}

// Count returns the counter for t.
func (c TierCounts) Count(t Tier) int {
	switch t {
	case TierExcellent:
		return c.Excellent
	case TierGood:
		return c.Good
	case TierAcceptable:
		return c.Acceptable
	case TierPoor:
		return c.Poor
	}
	return 0
}

// Total returns the sum across all tiers.
func (c TierCounts) Total() int {
	return c.Excellent + c.Good + c.Acceptable + c.Poor
}
