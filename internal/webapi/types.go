package webapi

import (
	"time"

	"github.com/petprogress/perfbench/internal/models"
)

// RunSummary is the API response for a single run in the list.
type RunSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Device          string    `json:"device"`
	OSVersion       string    `json:"osVersion"`
	Outcome         string    `json:"outcome"`
	ProbeCount      int       `json:"probeCount"`
	FailedCount     int       `json:"failedCount"`
	SuccessRate     float64   `json:"successRate"`
	AvgDurationMs   float64   `json:"avgDurationMs"`
	TotalDurationMs float64   `json:"totalDurationMs"`
	Timestamp       time.Time `json:"timestamp"`
}

// RunDetail is the API response for a single run with per-probe results.
type RunDetail struct {
	RunSummary
	Samples         []SampleResult `json:"samples"`
	Tiers           map[string]int `json:"tiers"`
	Recommendations []string       `json:"recommendations"`
}

// SampleResult is one probe's result within a run. Tier is empty for
// failed probes.
type SampleResult struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	DurationMs float64 `json:"durationMs"`
	MemoryMB   float64 `json:"memoryMb"`
	CPUPercent float64 `json:"cpuPercent"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
	Tier       string  `json:"tier,omitempty"`
}

// SummaryResponse is the aggregate KPI response across all runs.
type SummaryResponse struct {
	TotalRuns       int        `json:"totalRuns"`
	TotalProbes     int        `json:"totalProbes"`
	SuccessRate     float64    `json:"successRate"`
	AvgDurationMs   float64    `json:"avgDurationMs"`
	LatestRunID     string     `json:"latestRunId,omitempty"`
	LatestTimestamp *time.Time `json:"latestTimestamp,omitempty"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// runID is the API identifier of a suite: its run ID, or the file stamp for
// suites saved without one.
func runID(suite *models.Suite, stamp string) string {
	if suite.RunID != "" {
		return suite.RunID
	}
	return stamp
}
