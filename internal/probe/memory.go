package probe

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/petprogress/perfbench/internal/models"
)

const bytesPerMB = 1024 * 1024

// ProcessSampler reads resident set size from procfs.
type ProcessSampler struct {
	// Path is the statm file to read. Defaults to /proc/self/statm.
	Path string

	pageSize int
}

// NewProcessSampler creates a ProcessSampler for the current process.
func NewProcessSampler() *ProcessSampler {
	return &ProcessSampler{Path: "/proc/self/statm", pageSize: os.Getpagesize()}
}

func (p *ProcessSampler) Sample() (float64, string, error) {
	path := p.Path
	if path == "" {
		path = "/proc/self/statm"
	}
	pageSize := p.pageSize
	if pageSize <= 0 {
		pageSize = os.Getpagesize()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", fmt.Errorf("reading %s: %w", path, err)
	}

	// statm: size resident shared text lib data dt (in pages)
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0, "", fmt.Errorf("unexpected statm contents %q", strings.TrimSpace(string(data)))
	}
	pages, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parsing resident pages: %w", err)
	}

	return float64(pages) * float64(pageSize) / bytesPerMB, models.MemorySourceRSS, nil
}

// RuntimeSampler reports memory obtained from the OS by the Go runtime.
type RuntimeSampler struct{}

func (RuntimeSampler) Sample() (float64, string, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.Sys) / bytesPerMB, models.MemorySourceRuntime, nil
}

// SyntheticSampler derives a fake footprint of 25 + (unix seconds mod 10)
// from the wall clock. Its values are placeholders, not measurements.
type SyntheticSampler struct {
	Now func() time.Time
}

func (s SyntheticSampler) Sample() (float64, string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	nanos := now().UnixNano() % int64(10*time.Second)
	return 25.0 + float64(nanos)/float64(time.Second), models.MemorySourceSynthetic, nil
}

type fallbackSampler struct {
	primary  MemorySampler
	fallback MemorySampler
}

// WithFallback returns a sampler that uses primary and silently switches to
// SyntheticSampler for any reading primary cannot produce.
func WithFallback(primary MemorySampler) MemorySampler {
	return &fallbackSampler{primary: primary, fallback: SyntheticSampler{}}
}

func (f *fallbackSampler) Sample() (float64, string, error) {
	mb, source, err := f.primary.Sample()
	if err == nil {
		return mb, source, nil
	}
	slog.Debug("memory sampler failed, using synthetic values", "error", err)
	return f.fallback.Sample()
}

// NewSampler returns the sampler for a configured memory source name. An
// empty name selects RSS with the synthetic fallback.
func NewSampler(source string) (MemorySampler, error) {
	switch source {
	case "", models.MemorySourceRSS:
		return WithFallback(NewProcessSampler()), nil
	case models.MemorySourceRuntime:
		return RuntimeSampler{}, nil
	case models.MemorySourceSynthetic:
		return SyntheticSampler{}, nil
	default:
		return nil, fmt.Errorf("unknown memory source %q (expected %s, %s or %s)",
			source, models.MemorySourceRSS, models.MemorySourceRuntime, models.MemorySourceSynthetic)
	}
}
