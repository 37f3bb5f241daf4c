package models

// Memory sources recorded in SampleMetadata.MemorySource.
const (
	MemorySourceRSS       = "rss"
	MemorySourceRuntime   = "runtime"
	MemorySourceSynthetic = "synthetic"
)

// Sample is the recorded outcome of running one probe for a fixed number of
// iterations.
//
// NOTE: when Success is false, DurationMs, MemoryMB and CPUPercent are zero,
// Durations and Metadata are nil and Error is non-empty. Use NewFailedSample
// to build failed samples.
type Sample struct {
	Name       string          `json:"name"`
	Category   string          `json:"category,omitempty"`
	DurationMs float64         `json:"duration_ms"`
	Durations  []float64       `json:"durations_ms,omitempty"`
	MemoryMB   float64         `json:"memory_mb"`
	CPUPercent float64         `json:"cpu_percent"`
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
	Metadata   *SampleMetadata `json:"metadata,omitempty"`
}

// SampleMetadata describes the raw iteration timings behind a successful
// Sample.
type SampleMetadata struct {
	Iterations    int     `json:"iterations"`
	MinDurationMs float64 `json:"min_duration_ms"`
	MaxDurationMs float64 `json:"max_duration_ms"`
	StdDevMs      float64 `json:"std_dev_ms"`

	// MemorySource names the sampler that produced MemoryMB. "synthetic"
	// values are approximations derived from wall-clock time, not
	// measurements.
	MemorySource string `json:"memory_source,omitempty"`
}

// NewFailedSample builds a failed sample, substituting a generic message
// when errMsg is empty so the failure is never silent.
func NewFailedSample(name, errMsg string) Sample {
	if errMsg == "" {
		errMsg = "probe failed"
	}
	return Sample{
		Name:    name,
		Success: false,
		Error:   errMsg,
	}
}

// SuccessfulSamples returns the successful samples in their original order.
func SuccessfulSamples(samples []Sample) []Sample {
	var ok []Sample
	for _, s := range samples {
		if s.Success {
			ok = append(ok, s)
		}
	}
	return ok
}
