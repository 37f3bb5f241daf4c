// Package tier classifies benchmark samples into performance tiers.
//
// Each metric (duration, memory delta, CPU percent) is mapped to a tier via
// an ascending threshold table; a sample's tier is the worst of its three
// metric tiers.
package tier

import (
	"errors"
	"fmt"

	"github.com/petprogress/perfbench/internal/models"
)

// ErrInvalidThresholds is returned when a threshold table is not ascending
// or contains negative cutoffs.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Thresholds are the upper bounds (inclusive) of each tier for one metric.
// Values above Acceptable are poor; Poor itself is the nominal ceiling
// reported alongside the table and does not change classification.
type Thresholds struct {
	Excellent  float64 `yaml:"excellent" json:"excellent"`
	Good       float64 `yaml:"good" json:"good"`
	Acceptable float64 `yaml:"acceptable" json:"acceptable"`
	Poor       float64 `yaml:"poor" json:"poor"`
}

// Table holds the thresholds for all three metrics.
type Table struct {
	Duration Thresholds `yaml:"duration_ms" json:"duration_ms"`
	Memory   Thresholds `yaml:"memory_mb" json:"memory_mb"`
	CPU      Thresholds `yaml:"cpu_percent" json:"cpu_percent"`
}

// DefaultTable returns the stock threshold table.
func DefaultTable() Table {
	return Table{
		Duration: Thresholds{Excellent: 100, Good: 500, Acceptable: 1000, Poor: 5000},
		Memory:   Thresholds{Excellent: 10, Good: 25, Acceptable: 50, Poor: 100},
		CPU:      Thresholds{Excellent: 20, Good: 50, Acceptable: 80, Poor: 100},
	}
}

// Validate checks every metric's cutoffs.
func (t Table) Validate() error {
	for _, m := range []struct {
		name string
		th   Thresholds
	}{
		{"duration_ms", t.Duration},
		{"memory_mb", t.Memory},
		{"cpu_percent", t.CPU},
	} {
		if err := m.th.validate(); err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
	}
	return nil
}

func (th Thresholds) validate() error {
	if th.Excellent < 0 {
		return fmt.Errorf("%w: excellent cutoff %v is negative", ErrInvalidThresholds, th.Excellent)
	}
	if th.Good < th.Excellent || th.Acceptable < th.Good || th.Poor < th.Acceptable {
		return fmt.Errorf("%w: cutoffs must ascend (got %v, %v, %v, %v)",
			ErrInvalidThresholds, th.Excellent, th.Good, th.Acceptable, th.Poor)
	}
	return nil
}

// Of maps a single metric value to a tier.
func Of(value float64, th Thresholds) models.Tier {
	switch {
	case value <= th.Excellent:
		return models.TierExcellent
	case value <= th.Good:
		return models.TierGood
	case value <= th.Acceptable:
		return models.TierAcceptable
	default:
		return models.TierPoor
	}
}

// Classifier assigns tiers to samples using a fixed table.
type Classifier struct {
	table Table
}

// New creates a Classifier for the given table.
func New(table Table) (*Classifier, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{table: table}, nil
}

// NewDefault creates a Classifier with DefaultTable.
func NewDefault() *Classifier {
	return &Classifier{table: DefaultTable()}
}

// Table returns the classifier's thresholds.
func (c *Classifier) Table() Table {
	return c.table
}

// Breakdown holds the per-metric tiers behind an overall classification.
type Breakdown struct {
	Duration models.Tier
	Memory   models.Tier
	CPU      models.Tier
}

// Overall returns the worst of the three metric tiers.
func (b Breakdown) Overall() models.Tier {
	return b.Duration.Worse(b.Memory).Worse(b.CPU)
}

// Explain returns the per-metric tiers of s.
func (c *Classifier) Explain(s models.Sample) Breakdown {
	return Breakdown{
		Duration: Of(s.DurationMs, c.table.Duration),
		Memory:   Of(s.MemoryMB, c.table.Memory),
		CPU:      Of(s.CPUPercent, c.table.CPU),
	}
}

// Classify returns the overall tier of a sample. Callers should only pass
// successful samples; use Label when the sample may have failed.
func (c *Classifier) Classify(s models.Sample) models.Tier {
	return c.Explain(s).Overall()
}

// Label returns "failed" for failed samples and the tier name otherwise.
func (c *Classifier) Label(s models.Sample) string {
	if !s.Success {
		return models.LabelFailed
	}
	return c.Classify(s).String()
}
