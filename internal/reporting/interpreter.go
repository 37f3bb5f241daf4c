package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/tier"
)

// InterpretSuccessRate returns a human-readable explanation of a success
// rate given in percent.
func InterpretSuccessRate(pct float64) string {
	switch {
	case pct >= 100:
		return fmt.Sprintf("All probes completed (%.0f%%)", pct)
	case pct >= 80:
		return fmt.Sprintf("Most probes completed (%.0f%%)", pct)
	case pct >= 50:
		return fmt.Sprintf("About half the probes completed (%.0f%%)", pct)
	default:
		return fmt.Sprintf("Few probes completed (%.0f%%)", pct)
	}
}

// InterpretTier returns a plain-language description of a tier.
func InterpretTier(t models.Tier) string {
	switch t {
	case models.TierExcellent:
		return "Excellent: well inside every budget"
	case models.TierGood:
		return "Good: within budget"
	case models.TierAcceptable:
		return "Acceptable: close to the limit on at least one metric"
	default:
		return "Poor: over budget on at least one metric"
	}
}

// explainBreakdown names the metrics that pulled a sample below excellent.
func explainBreakdown(b tier.Breakdown) string {
	var parts []string
	if b.Duration != models.TierExcellent {
		parts = append(parts, "duration "+b.Duration.String())
	}
	if b.Memory != models.TierExcellent {
		parts = append(parts, "memory "+b.Memory.String())
	}
	if b.CPU != models.TierExcellent {
		parts = append(parts, "cpu "+b.CPU.String())
	}
	return strings.Join(parts, ", ")
}

// FormatSummaryReport produces a plain-language report for a suite.
func FormatSummaryReport(suite *models.Suite, classifier *tier.Classifier) string {
	var b strings.Builder

	sum := suite.Summary
	duration := time.Duration(suite.TotalDurationMs * float64(time.Millisecond)).Round(time.Millisecond)

	b.WriteString("=== Interpretation ===\n\n")

	b.WriteString(fmt.Sprintf("Suite:         %s (%s, OS %s)\n", suite.Name, suite.Device, suite.OSVersion))
	b.WriteString(fmt.Sprintf("Success Rate:  %s\n", InterpretSuccessRate(sum.SuccessRate)))
	b.WriteString(fmt.Sprintf("Duration:      %v\n", duration))
	b.WriteString(fmt.Sprintf("Probes:        %d succeeded, %d failed out of %d total\n",
		sum.Successful, sum.Failed, sum.TotalTests))
	if sum.Performance != nil {
		b.WriteString(fmt.Sprintf("Latency:       avg %.2fms, p95 %.2fms, p99 %.2fms\n",
			sum.Performance.AvgDurationMs, sum.Performance.P95DurationMs, sum.Performance.P99DurationMs))
	}

	if len(suite.Results) > 0 {
		b.WriteString("\nPer-Probe Interpretation:\n")
		for _, s := range suite.Results {
			if !s.Success {
				b.WriteString(fmt.Sprintf("  ✗ %s: failed (%s)\n", s.Name, s.Error))
				continue
			}
			breakdown := classifier.Explain(s)
			line := fmt.Sprintf("  ✓ %s: %s", s.Name, InterpretTier(breakdown.Overall()))
			if why := explainBreakdown(breakdown); why != "" {
				line += fmt.Sprintf(" [%s]", why)
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}
