package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/tier"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const reportFooter = "*Report generated by Enterprise Performance Benchmarker*"

var tierEmoji = map[models.Tier]string{
	models.TierExcellent:  "🟢",
	models.TierGood:       "🔵",
	models.TierAcceptable: "🟠",
	models.TierPoor:       "🔴",
}

// TierEmoji returns the colored marker used for a tier in reports and on the
// console.
func TierEmoji(t models.Tier) string {
	return tierEmoji[t]
}

// TitleCase capitalizes a category label ("excellent" -> "Excellent").
func TitleCase(label string) string {
	// a Caser keeps state, so each call gets its own
	return cases.Title(language.English).String(label)
}

// escapeCell keeps probe names from breaking a Markdown table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func formatOrNA(format string, present bool, v float64) string {
	if !present {
		return "n/a"
	}
	return fmt.Sprintf(format, v)
}

// RenderMarkdown produces the Markdown report for a suite.
func RenderMarkdown(suite *models.Suite, classifier *tier.Classifier) string {
	var b strings.Builder
	sum := suite.Summary

	b.WriteString("# ⚡ Performance Benchmark Report\n\n")
	b.WriteString(fmt.Sprintf("## %s\n\n", suite.Name))
	b.WriteString(fmt.Sprintf("**Device:** %s\n", suite.Device))
	b.WriteString(fmt.Sprintf("**OS:** %s\n", suite.OSVersion))
	b.WriteString(fmt.Sprintf("**Timestamp:** %s\n", suite.Timestamp.UTC().Format(time.RFC3339Nano)))
	b.WriteString(fmt.Sprintf("**Total Duration:** %.2fms\n\n", suite.TotalDurationMs))

	perf := sum.Performance != nil
	mem := sum.Memory != nil
	cpu := sum.CPU != nil
	var p models.PerformanceStats
	var m models.MemoryStats
	var c models.CPUStats
	if perf {
		p = *sum.Performance
	}
	if mem {
		m = *sum.Memory
	}
	if cpu {
		c = *sum.CPU
	}

	b.WriteString("## 📊 Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Success Rate | %.1f%% (%d/%d) |\n", sum.SuccessRate, sum.Successful, sum.TotalTests))
	b.WriteString(fmt.Sprintf("| Avg Duration | %s |\n", formatOrNA("%.2fms", perf, p.AvgDurationMs)))
	b.WriteString(fmt.Sprintf("| P95 Duration | %s |\n", formatOrNA("%.2fms", perf, p.P95DurationMs)))
	b.WriteString(fmt.Sprintf("| P99 Duration | %s |\n", formatOrNA("%.2fms", perf, p.P99DurationMs)))
	b.WriteString(fmt.Sprintf("| Avg Memory | %s |\n", formatOrNA("%.2fMB", mem, m.AvgMemoryMB)))
	b.WriteString(fmt.Sprintf("| Max Memory | %s |\n", formatOrNA("%.2fMB", mem, m.MaxMemoryMB)))
	b.WriteString(fmt.Sprintf("| Avg CPU | %s |\n\n", formatOrNA("%.1f%%", cpu, c.AvgCPUPercent)))

	b.WriteString("## 🎯 Performance Categories\n\n")
	for _, t := range models.Tiers {
		b.WriteString(fmt.Sprintf("- %s **%s:** %d tests\n", TierEmoji(t), TitleCase(t.String()), sum.Categories.Count(t)))
	}

	b.WriteString("\n## 📋 Detailed Results\n\n")
	b.WriteString("| Test Name | Duration (ms) | Memory (MB) | CPU (%) | Status | Category |\n")
	b.WriteString("|-----------|---------------|-------------|---------|--------|----------|\n")
	for _, s := range suite.Results {
		status := "✅"
		if !s.Success {
			status = "❌"
		}
		b.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %s | %s |\n",
			escapeCell(s.Name), s.DurationMs, s.MemoryMB, s.CPUPercent, status, TitleCase(classifier.Label(s))))
	}

	b.WriteString("\n## 💡 Recommendations\n\n")
	for _, rec := range sum.Recommendations {
		b.WriteString(fmt.Sprintf("- %s\n", rec))
	}

	b.WriteString("\n---\n")
	b.WriteString(reportFooter + "\n")

	return b.String()
}
